package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStructAndRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC)
	payload := struct {
		RunID string `json:"run_id"`
		Steps int    `json:"steps"`
	}{RunID: "r-1", Steps: 2}

	evt, err := FromStruct(TypePlanExecuted, payload, at)
	require.NoError(t, err)
	assert.Equal(t, "r-1", evt.Payload()["run_id"])

	raw, err := Encode(evt)
	require.NoError(t, err)

	back, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, TypePlanExecuted, back.EventType())
	assert.True(t, back.Timestamp().Equal(at))
	assert.EqualValues(t, 2, back.Payload()["steps"])
}

func TestFromStruct_RejectsNonObjects(t *testing.T) {
	_, err := FromStruct(TypeItineraryBooked, []int{1, 2}, time.Time{})
	assert.Error(t, err)
}

func TestEncodeDecode_RequireType(t *testing.T) {
	_, err := Encode(BaseEvent{})
	assert.ErrorIs(t, err, ErrMissingType)

	_, err = Decode([]byte(`{"data":{}}`))
	assert.ErrorIs(t, err, ErrMissingType)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
