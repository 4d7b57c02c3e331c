package common

import (
	"testing"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/musicmentor/internal/controller/state"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGroups() []model.DateGroup {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	return []model.DateGroup{
		{
			Date: "2026-10-19",
			Slots: []model.CandidateSlot{
				{SlotID: "a", MentorID: 7, Start: start, End: start.Add(15 * time.Minute), Available: false},
				{SlotID: "b", MentorID: 7, Start: start.Add(15 * time.Minute), End: start.Add(30 * time.Minute), Available: true},
			},
		},
	}
}

func TestSlotFlowDraft(t *testing.T) {
	f := NewSlotFlow(&model.User{ID: 7}, testGroups(), true)

	_, err := f.Draft(3)
	require.ErrorIs(t, err, availability.ErrSelectionPending)

	require.NoError(t, f.Selection.PickDate("2026-10-19"))
	require.NoError(t, f.Selection.PickTime("b"))
	require.NoError(t, f.SetMessage("  scales please "))
	require.NoError(t, f.ToggleVideo())

	msg, video := f.Details()
	assert.Equal(t, "scales please", msg)
	assert.True(t, video)
	assert.Equal(t, "Mon 19 Oct 09:15-09:30", f.When(time.UTC))

	draft, err := f.Draft(3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), draft.MentorID)
	assert.Equal(t, int64(3), draft.StudentID)
	require.NotNil(t, draft.Slot)
	assert.Equal(t, "b", draft.Slot.SlotID)
	assert.True(t, draft.VideoPreferred)
}

func TestSlotFlowRejectsMessageBeforeTime(t *testing.T) {
	f := NewSlotFlow(&model.User{ID: 7}, testGroups(), true)
	assert.ErrorIs(t, f.SetMessage("hi"), availability.ErrWrongStage)
}

func TestPreferenceFlowDraft(t *testing.T) {
	f := NewPreferenceFlow(&model.User{ID: 7})

	assert.ErrorIs(t, f.SetMessage("hi"), availability.ErrWrongStage)
	assert.Empty(t, f.When(time.UTC))

	f.Preference = model.PreferenceEvening
	require.NoError(t, f.SetMessage("hi"))
	require.NoError(t, f.ToggleVideo())
	require.NoError(t, f.ToggleVideo())

	draft, err := f.Draft(3)
	require.NoError(t, err)
	assert.Nil(t, draft.Slot)
	assert.Equal(t, model.PreferenceEvening, draft.Preference)
	assert.False(t, draft.VideoPreferred)
	assert.Equal(t, "preferred: evening", f.When(time.UTC))
}

func TestReviewFlowOnlyAfterSummary(t *testing.T) {
	sm := state.NewManager(state.DefaultIdleTTL)

	_, err := GetReviewFlow(sm, 1)
	assert.ErrorIs(t, err, ErrNoSelection)

	f := NewSlotFlow(&model.User{ID: 7}, testGroups(), true)
	require.NoError(t, f.Selection.PickDate("2026-10-19"))
	require.NoError(t, f.Selection.PickTime("b"))
	sm.SetData(1, FlowKey, f)
	sm.SetState(1, callbacktypes.StateBookingMessage)

	_, err = GetReviewFlow(sm, 1)
	assert.ErrorIs(t, err, availability.ErrSelectionPending)

	sm.SetState(1, callbacktypes.StateBookingReview)
	got, err := GetReviewFlow(sm, 1)
	require.NoError(t, err)
	assert.Same(t, f, got)

	// возврат назад со старого итога
	sm.SetState(1, callbacktypes.StateNone)
	_, err = GetReviewFlow(sm, 1)
	assert.ErrorIs(t, err, availability.ErrSelectionPending)
}

func TestResetPreferenceDropsDetails(t *testing.T) {
	f := NewPreferenceFlow(&model.User{ID: 7})
	f.Preference = model.PreferenceMorning
	require.NoError(t, f.SetMessage("bring sheet music"))
	require.NoError(t, f.ToggleVideo())

	f.ResetPreference()

	message, video := f.Details()
	assert.Empty(t, message)
	assert.False(t, video)
	_, err := f.Draft(3)
	assert.ErrorIs(t, err, availability.ErrSelectionPending)
}
