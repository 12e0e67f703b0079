package repository

import (
	"testing"
	"time"

	"envirocheck/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStandard(id string, params ...schema.Parameter) schema.Standard {
	if len(params) == 0 {
		params = []schema.Parameter{{ID: "ph", Name: "pH", Unit: "-", Limit: 8.5, Type: schema.LimitMax}}
	}
	return schema.Standard{
		ID:         id,
		Name:       "Standard " + id,
		Category:   schema.CategoryWater,
		Parameters: params,
	}
}

func TestReplayEvents_AddUpdateDelete(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := testStandard("b")
	updated.Name = "Renamed"

	events := []schema.ChangelogEvent{
		&schema.StandardAdded{EventID_: "EVT-1", Standard: testStandard("a"), Timestamp_: t0},
		&schema.StandardAdded{EventID_: "EVT-2", Standard: testStandard("b"), Timestamp_: t0.Add(time.Second)},
		&schema.StandardUpdated{EventID_: "EVT-3", OldStandard: testStandard("b"), NewStandard: updated, Timestamp_: t0.Add(2 * time.Second)},
		&schema.StandardAdded{EventID_: "EVT-4", Standard: testStandard("c"), Timestamp_: t0.Add(3 * time.Second)},
		&schema.StandardDeleted{EventID_: "EVT-5", StandardID: "a", Standard: testStandard("a"), Timestamp_: t0.Add(4 * time.Second)},
	}

	result, err := ReplayEvents(nil, events)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "b", result[0].ID)
	assert.Equal(t, "Renamed", result[0].Name)
	assert.Equal(t, "c", result[1].ID)
}

func TestReplayEvents_OrdersByTimestamp(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Delete is listed first but happened last
	events := []schema.ChangelogEvent{
		&schema.StandardDeleted{EventID_: "EVT-2", StandardID: "a", Timestamp_: t0.Add(time.Minute)},
		&schema.StandardAdded{EventID_: "EVT-1", Standard: testStandard("a"), Timestamp_: t0},
	}

	result, err := ReplayEvents(nil, events)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestReplayEvents_Replaced(t *testing.T) {
	start := []schema.Standard{testStandard("a"), testStandard("b")}
	events := []schema.ChangelogEvent{
		&schema.StandardsReplaced{EventID_: "EVT-1", Reason: "reset", Standards: schema.DefaultStandards(), Timestamp_: time.Now()},
	}

	result, err := ReplayEvents(start, events)
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultStandards(), result)

	// The starting list is not modified
	assert.Equal(t, "a", start[0].ID)
}

func TestReplayEvents_Errors(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		start []schema.Standard
		event schema.ChangelogEvent
		want  error
	}{
		{
			name:  "duplicate add",
			start: []schema.Standard{testStandard("a")},
			event: &schema.StandardAdded{EventID_: "EVT-1", Standard: testStandard("a"), Timestamp_: now},
			want:  ErrDuplicateStandard,
		},
		{
			name:  "update missing",
			event: &schema.StandardUpdated{EventID_: "EVT-1", NewStandard: testStandard("x"), Timestamp_: now},
			want:  ErrStandardNotFound,
		},
		{
			name:  "delete missing",
			event: &schema.StandardDeleted{EventID_: "EVT-1", StandardID: "x", Timestamp_: now},
			want:  ErrStandardNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReplayEvents(tt.start, []schema.ChangelogEvent{tt.event})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "EVT-1")
		})
	}
}

func TestEventRecord_RoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	oldStd, newStd := testStandard("a"), testStandard("a")
	newStd.Description = "tightened"

	events := []schema.ChangelogEvent{
		&schema.StandardAdded{EventID_: "EVT-1", Standard: testStandard("a"), Timestamp_: now},
		&schema.StandardUpdated{EventID_: "EVT-2", OldStandard: oldStd, NewStandard: newStd, Timestamp_: now},
		&schema.StandardDeleted{EventID_: "EVT-3", StandardID: "a", Standard: newStd, Timestamp_: now},
		&schema.StandardsReplaced{EventID_: "EVT-4", Reason: "import", Standards: []schema.Standard{testStandard("z")}, Timestamp_: now},
	}

	for _, event := range events {
		rec, err := toRecord(event)
		require.NoError(t, err)
		assert.Equal(t, event.EventType(), rec.EventType)

		back, err := rec.toEvent()
		require.NoError(t, err)
		assert.Equal(t, event, back)
	}
}

func TestEventRecord_Invalid(t *testing.T) {
	_, err := eventRecord{EventType: "ParameterRenamed"}.toEvent()
	assert.Error(t, err)

	_, err = eventRecord{EventType: "StandardAdded", EventID: "EVT-1"}.toEvent()
	assert.Error(t, err)

	_, err = eventRecord{EventType: "StandardUpdated", EventID: "EVT-1"}.toEvent()
	assert.Error(t, err)
}
