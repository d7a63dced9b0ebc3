package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeTextFlagsRepeatedPromotions(t *testing.T) {
	result := AnalyzeText("BUY NOW BUY NOW BUY NOW BUY NOW click here click here")

	assert.True(t, result.IsSpam)
	assert.GreaterOrEqual(t, result.Score, TextSpamThreshold)
	assert.Contains(t, result.DetectedPatterns, "promotional")
}

func TestAnalyzeTextCleanMessage(t *testing.T) {
	result := AnalyzeText("Hi, I saw your posting for the backend role and would love to hear more about the team.")

	assert.False(t, result.IsSpam)
	assert.Equal(t, 0, result.Score)
	assert.Empty(t, result.DetectedPatterns)
}

func TestAnalyzeTextEmpty(t *testing.T) {
	result := AnalyzeText("")

	assert.False(t, result.IsSpam)
	assert.Equal(t, 0, result.Score)
}

func TestAnalyzeTextScoresLinks(t *testing.T) {
	result := AnalyzeText("check out https://example.com/offer and http://example.org/deal")

	// Each raw URL adds 2; two links alone are below the threshold.
	assert.Equal(t, 4, result.Score)
	assert.False(t, result.IsSpam)
	assert.Contains(t, result.DetectedPatterns, "raw-url")
}

func TestAnalyzeTextShortenerWeighsMore(t *testing.T) {
	result := AnalyzeText("grab it at bit.ly/xyz now")

	assert.Contains(t, result.DetectedPatterns, "link-shortener")
	assert.Equal(t, 2, result.Score)
}

func TestAnalyzeTextExcessiveCaps(t *testing.T) {
	result := AnalyzeText("AMAZINGOPPORTUNITYJOINTODAY")

	assert.Contains(t, result.DetectedPatterns, "excessive-caps")
	assert.Equal(t, 2, result.Score)
	assert.False(t, result.IsSpam)
}

func TestAnalyzeTextWordRepetition(t *testing.T) {
	// "offer" appears 6 times: repetition adds 6-3 = 3.
	result := AnalyzeText("offer offer offer offer offer offer")

	assert.Equal(t, 3, result.Score)
	assert.False(t, result.IsSpam)
}

func TestAnalyzeTextCaseInsensitiveCategories(t *testing.T) {
	lower := AnalyzeText("earn money fast with this investment opportunity, work from home")
	upper := AnalyzeText("EARN MONEY FAST WITH THIS INVESTMENT OPPORTUNITY, WORK FROM HOME")

	assert.Contains(t, lower.DetectedPatterns, "financial")
	assert.Contains(t, lower.DetectedPatterns, "remote-work")
	// The upper-case variant matches the same categories plus the caps rule.
	assert.Contains(t, upper.DetectedPatterns, "financial")
	assert.Contains(t, upper.DetectedPatterns, "excessive-caps")
	assert.Equal(t, lower.Score+2, upper.Score)
}
