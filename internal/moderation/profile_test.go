package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateProfileClean(t *testing.T) {
	result := EvaluateProfile(ProfileInput{
		Links:       []string{"https://github.com/someone", "https://linkedin.com/in/someone"},
		LinkedinURL: "https://www.linkedin.com/in/someone",
		GithubURL:   "https://github.com/someone",
		Messages:    []string{"hello", "how are you", "thanks for connecting"},
	})

	assert.False(t, result.IsSpam)
	assert.Equal(t, 0, result.Score)
}

func TestEvaluateProfileSuspiciousLinksAboveAllowance(t *testing.T) {
	result := EvaluateProfile(ProfileInput{
		Links: []string{
			"https://shady-one.example",
			"https://shady-two.example",
			"https://shady-three.example",
			"https://shady-four.example",
			"https://shady-five.example",
			"https://shady-six.example",
		},
	})

	// Six suspicious links, allowance of four: score is 6-4 = 2.
	assert.Equal(t, 6, result.LinkCount)
	assert.Equal(t, 2, result.Score)
	assert.Contains(t, result.DetectedPatterns, "suspicious-links:6")
}

func TestEvaluateProfileAllowListedLinksDontCount(t *testing.T) {
	result := EvaluateProfile(ProfileInput{
		Links: []string{
			"https://github.com/a",
			"https://gitlab.com/b",
			"https://stackoverflow.com/users/c",
			"https://kaggle.com/d",
			"https://medium.com/@e",
			"https://www.bracu.ac.bd/",
		},
	})

	assert.Equal(t, 0, result.LinkCount)
	assert.Equal(t, 0, result.Score)
}

func TestEvaluateProfileDuplicateMessages(t *testing.T) {
	result := EvaluateProfile(ProfileInput{
		Messages: []string{
			"check out my channel",
			"check out my channel",
			"check out my channel",
			"hello there",
		},
	})

	// Two repeats beyond the first occurrence, 2 points each.
	assert.Equal(t, 2, result.RepetitiveMessageCount)
	assert.Equal(t, 4, result.Score)
	assert.Contains(t, result.DetectedPatterns, "duplicate-messages:2")
}

func TestEvaluateProfileFieldMismatch(t *testing.T) {
	result := EvaluateProfile(ProfileInput{
		LinkedinURL: "https://not-linkedin.example/profile",
		GithubURL:   "https://not-github.example/profile",
	})

	assert.Equal(t, 4, result.Score)
	assert.Contains(t, result.DetectedPatterns, "linkedin-mismatch")
	assert.Contains(t, result.DetectedPatterns, "github-mismatch")
}

func TestEvaluateProfileSchemelessFieldURLs(t *testing.T) {
	result := EvaluateProfile(ProfileInput{
		LinkedinURL: "linkedin.com/in/someone",
		GithubURL:   "github.com/someone",
	})

	assert.Equal(t, 0, result.Score)
}

func TestEvaluateProfileCrossesThreshold(t *testing.T) {
	messages := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		messages = append(messages, "same pitch every time")
	}
	result := EvaluateProfile(ProfileInput{Messages: messages})

	// Six duplicates at 2 points each.
	assert.Equal(t, 12, result.Score)
	assert.True(t, result.IsSpam)
}
