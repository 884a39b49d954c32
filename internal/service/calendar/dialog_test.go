package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogState_Transitions(t *testing.T) {
	state := Idle()
	assert.False(t, state.IsOpen())

	date := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	adding, err := state.StartAdding(date)
	require.NoError(t, err)
	assert.Equal(t, ModeAdding, adding.Mode)
	assert.Equal(t, date, adding.Date)
	assert.Empty(t, adding.TargetID)

	// Нельзя открыть редактирование поверх добавления
	_, err = adding.StartEditing("slot-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	editing, err := adding.Close().StartEditing("slot-1")
	require.NoError(t, err)
	assert.Equal(t, DialogState{Mode: ModeEditing, TargetID: "slot-1"}, editing)

	_, err = editing.StartDeleting("slot-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	deleting, err := editing.Close().StartDeleting("slot-2")
	require.NoError(t, err)
	assert.Equal(t, ModeDeleting, deleting.Mode)
	assert.Equal(t, "slot-2", deleting.TargetID)

	assert.Equal(t, Idle(), deleting.Close())
}

func TestDialogState_RequiresTarget(t *testing.T) {
	_, err := Idle().StartEditing("")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Idle().StartDeleting("")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Idle().StartAdding(time.Time{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDialogState_ZeroValueIsClosed(t *testing.T) {
	var state DialogState
	assert.False(t, state.IsOpen())

	_, err := state.StartEditing("slot-1")
	assert.NoError(t, err)
}
