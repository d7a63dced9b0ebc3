package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testMachine() *Machine {
	return New("order", map[string]map[Action]string{
		"pending": {
			"approve": "approved",
			"reject":  "rejected",
		},
		"rejected": {
			"retry": "pending",
		},
	})
}

func TestNextFollowsTable(t *testing.T) {
	m := testMachine()

	next, err := m.Next("pending", "approve")
	assert.NoError(t, err)
	assert.Equal(t, "approved", next)

	next, err = m.Next("rejected", "retry")
	assert.NoError(t, err)
	assert.Equal(t, "pending", next)
}

func TestNextRejectsUnknownAction(t *testing.T) {
	m := testMachine()

	_, err := m.Next("pending", "ship")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestTerminalStateHasNoTransitions(t *testing.T) {
	m := testMachine()

	// "approved" has no outgoing entries, so every action fails.
	_, err := m.Next("approved", "approve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "terminal or unknown")
}

func TestCan(t *testing.T) {
	m := testMachine()

	assert.True(t, m.Can("pending", "approve"))
	assert.True(t, m.Can("pending", "reject"))
	assert.False(t, m.Can("pending", "retry"))
	assert.False(t, m.Can("approved", "approve"))
	assert.False(t, m.Can("nonsense", "approve"))
}
