package moderation

import (
	"fmt"
	"net/url"
	"strings"
)

// ProfileSpamThreshold is deliberately decoupled from TextSpamThreshold:
// profile anomalies and text content are scored on separate scales.
const ProfileSpamThreshold = 10

// suspiciousLinkAllowance is how many unverified links a profile may carry
// before they start counting toward the score.
const suspiciousLinkAllowance = 4

// verifiedDomains is the allow-list a link hostname must contain to not be
// counted as suspicious.
var verifiedDomains = []string{
	"linkedin.com",
	"github.com",
	"gitlab.com",
	"stackoverflow.com",
	"medium.com",
	"behance.net",
	"dribbble.com",
	"kaggle.com",
	"google.com",
	"bracu.ac.bd",
}

// ProfileResult is the outcome of evaluating a user's declared links and
// message history.
type ProfileResult struct {
	IsSpam                 bool     `json:"is_spam"`
	Score                  int      `json:"spam_score"`
	DetectedPatterns       []string `json:"detected_patterns"`
	LinkCount              int      `json:"link_count"`
	RepetitiveMessageCount int      `json:"repetitive_message_count"`
	Threshold              int      `json:"threshold"`
}

// ProfileInput carries the persisted fields the evaluator inspects.
type ProfileInput struct {
	Links       []string
	LinkedinURL string
	GithubURL   string
	Messages    []string
}

// EvaluateProfile scores link-count anomalies, duplicate messages, and
// profile-field inconsistencies (a "LinkedIn" field not pointing at
// linkedin.com, and likewise for GitHub).
func EvaluateProfile(in ProfileInput) ProfileResult {
	result := ProfileResult{Threshold: ProfileSpamThreshold}

	suspicious := 0
	for _, link := range in.Links {
		if isSuspiciousLink(link) {
			suspicious++
		}
	}
	result.LinkCount = suspicious
	if suspicious > suspiciousLinkAllowance {
		result.Score += suspicious - suspiciousLinkAllowance
		result.DetectedPatterns = append(result.DetectedPatterns,
			fmt.Sprintf("suspicious-links:%d", suspicious))
	}

	// Exact duplicates: every occurrence after the first adds 2.
	seen := make(map[string]bool)
	for _, msg := range in.Messages {
		if seen[msg] {
			result.RepetitiveMessageCount++
			continue
		}
		seen[msg] = true
	}
	if result.RepetitiveMessageCount > 0 {
		result.Score += 2 * result.RepetitiveMessageCount
		result.DetectedPatterns = append(result.DetectedPatterns,
			fmt.Sprintf("duplicate-messages:%d", result.RepetitiveMessageCount))
	}

	if in.LinkedinURL != "" && !hostContains(in.LinkedinURL, "linkedin.com") {
		result.Score += 2
		result.DetectedPatterns = append(result.DetectedPatterns, "linkedin-mismatch")
	}
	if in.GithubURL != "" && !hostContains(in.GithubURL, "github.com") {
		result.Score += 2
		result.DetectedPatterns = append(result.DetectedPatterns, "github-mismatch")
	}

	result.IsSpam = result.Score >= ProfileSpamThreshold
	return result
}

// isSuspiciousLink reports whether link is outside the allow-list.
// A URL that fails to parse is itself suspicious.
func isSuspiciousLink(link string) bool {
	host := hostname(link)
	if host == "" {
		return true
	}
	for _, domain := range verifiedDomains {
		if strings.Contains(host, domain) {
			return false
		}
	}
	return true
}

func hostContains(link, domain string) bool {
	return strings.Contains(hostname(link), domain)
}

func hostname(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if u.Host == "" {
		// Tolerate scheme-less values like "linkedin.com/in/someone".
		u, err = url.Parse("https://" + link)
		if err != nil {
			return ""
		}
	}
	return strings.ToLower(u.Hostname())
}
