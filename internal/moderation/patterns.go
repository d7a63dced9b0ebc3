// Package moderation provides heuristic spam scoring for free text and
// user profiles, and the single score keeper that owns every mutation of a
// user's persisted spam score.
package moderation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// TextSpamThreshold is the score at or above which a text blob is flagged.
const TextSpamThreshold = 5

// Compiled regex patterns for spam detection. Compiled once at package init
// and reused for every call, so they are safe for concurrent use.
var patternCategories = []struct {
	name string
	re   *regexp.Regexp
}{
	{"promotional", regexp.MustCompile(`(?i)\b(buy now|click here|order now|special offer|discount|free trial|best deal)\b`)},
	{"urgency", regexp.MustCompile(`(?i)\b(act now|limited time|hurry|expires|last chance|don't miss|urgent)\b`)},
	{"financial", regexp.MustCompile(`(?i)\b(earn money|fast cash|get rich|double your|investment opportunity|guaranteed income|crypto profit)\b`)},
	{"health", regexp.MustCompile(`(?i)\b(lose weight|miracle cure|no prescription|cheap meds|anti.?aging)\b`)},
	{"dating", regexp.MustCompile(`(?i)\b(hot singles|meet singles|adults only|lonely (girls|women|men))\b`)},
	{"remote-work", regexp.MustCompile(`(?i)\b(work from home|be your own boss|no experience (needed|required)|easy income)\b`)},
	{"prize", regexp.MustCompile(`(?i)\b(you (have )?won|winner|claim your|free gift|congratulations)\b`)},
	{"pressure", regexp.MustCompile(`(?i)\b(100% (free|guaranteed)|risk.?free|no obligation|this is not a scam)\b`)},
}

var (
	// shortenerPattern matches well-known URL-shortener hosts, which are a
	// stronger spam signal than ordinary links.
	shortenerPattern = regexp.MustCompile(`(?i)\b(bit\.ly|tinyurl\.com|goo\.gl|t\.co|is\.gd|ow\.ly|buff\.ly|rebrand\.ly)/\S*`)

	// urlPattern matches http/https and www. URLs.
	urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+)`)
)

// TextResult is the outcome of scoring one text blob.
type TextResult struct {
	IsSpam           bool     `json:"is_spam"`
	Score            int      `json:"spam_score"`
	DetectedPatterns []string `json:"detected_patterns"`
	Threshold        int      `json:"threshold"`
}

// AnalyzeText scores text against the fixed pattern library.
// Each keyword-category match adds 1, shortener and raw-URL matches add 2
// each, every word repeated beyond 3 occurrences adds (count-3), and an
// uppercase ratio above 0.7 adds a flat 2.
func AnalyzeText(text string) TextResult {
	result := TextResult{Threshold: TextSpamThreshold}
	if text == "" {
		return result
	}

	for _, cat := range patternCategories {
		matches := cat.re.FindAllString(text, -1)
		if len(matches) > 0 {
			result.Score += len(matches)
			result.DetectedPatterns = append(result.DetectedPatterns, cat.name)
		}
	}

	if n := len(shortenerPattern.FindAllString(text, -1)); n > 0 {
		result.Score += 2 * n
		result.DetectedPatterns = append(result.DetectedPatterns, "link-shortener")
	}
	if n := len(urlPattern.FindAllString(text, -1)); n > 0 {
		result.Score += 2 * n
		result.DetectedPatterns = append(result.DetectedPatterns, "raw-url")
	}

	if rep := repetitionScore(text); rep > 0 {
		result.Score += rep
		result.DetectedPatterns = append(result.DetectedPatterns, fmt.Sprintf("word-repetition:%d", rep))
	}

	if capsRatio(text) > 0.7 {
		result.Score += 2
		result.DetectedPatterns = append(result.DetectedPatterns, "excessive-caps")
	}

	result.IsSpam = result.Score >= TextSpamThreshold
	return result
}

// repetitionScore tokenizes on whitespace, lowercases, and sums
// (count - 3) over every word appearing more than 3 times.
func repetitionScore(text string) int {
	freq := make(map[string]int)
	for _, w := range strings.Fields(text) {
		freq[strings.ToLower(w)]++
	}
	score := 0
	for _, count := range freq {
		if count > 3 {
			score += count - 3
		}
	}
	return score
}

// capsRatio returns uppercase letters over total characters.
func capsRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	upper := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(total)
}
