package filesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionStringRoundTrip(t *testing.T) {
	for _, action := range []Action{ActionCreate, ActionUpdate, ActionSkip} {
		parsed, err := ParseAction(action.String())
		require.NoError(t, err)
		assert.Equal(t, action, parsed)
	}

	_, err := ParseAction("mirror")
	require.Error(t, err)

	assert.Contains(t, Action(99).String(), "unknown_action")
}

func TestActionCompleted(t *testing.T) {
	assert.Equal(t, StatusCreated, ActionCreate.completed())
	assert.Equal(t, StatusUpdated, ActionUpdate.completed())
	assert.Equal(t, StatusSkipped, ActionSkip.completed())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "created", StatusCreated.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Contains(t, Status(99).String(), "unknown_status")
}
