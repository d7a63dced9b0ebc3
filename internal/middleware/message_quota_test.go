package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMessageQuotaNilWithoutRedis(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	q := NewMessageQuota(100, 24*time.Hour)
	assert.Nil(t, q)
}

func TestNilQuotaAllowsEverything(t *testing.T) {
	var q *MessageQuota
	for i := 0; i < 5; i++ {
		assert.True(t, q.Allow("some-user"))
	}
}

func TestQuotaFailsOpenWhenRedisUnreachable(t *testing.T) {
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")
	q := NewMessageQuota(1, time.Minute)
	assert.NotNil(t, q)
	assert.True(t, q.Allow("some-user"))
}
