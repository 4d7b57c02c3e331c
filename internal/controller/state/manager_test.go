package state

import (
	"testing"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/stretchr/testify/assert"
)

func newTestManager() (*Manager, *time.Time) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	m := NewManager(10 * time.Minute)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestStateAndDataSurviveStateChanges(t *testing.T) {
	m, _ := newTestManager()

	m.SetData(1, "k", "v")
	m.SetState(1, callbacktypes.StateBookingMessage)
	m.SetState(1, callbacktypes.StateNone)

	v, ok := m.GetData(1, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, callbacktypes.StateNone, m.GetState(1))
}

func TestClearState(t *testing.T) {
	m, _ := newTestManager()

	m.SetState(1, callbacktypes.StateBookingMessage)
	m.SetData(1, "k", "v")
	m.ClearState(1)

	assert.Equal(t, callbacktypes.StateNone, m.GetState(1))
	_, ok := m.GetData(1, "k")
	assert.False(t, ok)
}

func TestIdleEntriesExpire(t *testing.T) {
	m, now := newTestManager()

	m.SetState(1, callbacktypes.StateBookingMessage)
	m.SetData(2, "k", "v")

	*now = now.Add(5 * time.Minute)
	m.SetData(2, "k", "v2")

	*now = now.Add(6 * time.Minute)
	assert.Equal(t, callbacktypes.StateNone, m.GetState(1))

	v, ok := m.GetData(2, "k")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	assert.Equal(t, 1, m.Sweep())
	assert.Len(t, m.states, 1)
}

func TestExpiredEntryIsReplaced(t *testing.T) {
	m, now := newTestManager()

	m.SetData(1, "old", true)
	*now = now.Add(time.Hour)
	m.SetState(1, callbacktypes.StateBookingMessage)

	_, ok := m.GetData(1, "old")
	assert.False(t, ok)
	assert.Equal(t, callbacktypes.StateBookingMessage, m.GetState(1))
}
