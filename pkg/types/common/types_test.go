package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDValidate(t *testing.T) {
	assert.Error(t, ID("").Validate())
	assert.Error(t, ID("not-a-uuid").Validate())
	assert.NoError(t, NewID().Validate())
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := Timestamp(time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC))
	data, err := json.Marshal(ts)
	require.NoError(t, err)

	var decoded Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, time.Time(ts).Equal(time.Time(decoded)))
}

func TestTimestampUnmarshalRFC3339Fallback(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-14T09:26:53Z"`), &ts))
	assert.Equal(t, 2025, time.Time(ts).Year())

	assert.Error(t, json.Unmarshal([]byte(`"14/03/2025"`), &ts))
}

func TestPaginationValidate(t *testing.T) {
	assert.Error(t, Pagination{Page: 0, PageSize: 20}.Validate())
	assert.Error(t, Pagination{Page: 1, PageSize: 0}.Validate())
	assert.Error(t, Pagination{Page: 1, PageSize: 501}.Validate())
	assert.NoError(t, Pagination{Page: 2, PageSize: 50}.Validate())
	assert.Equal(t, 50, Pagination{Page: 2, PageSize: 50}.Offset())
}

func TestAPIResponseEnvelope(t *testing.T) {
	resp := NewSuccessResponse(map[string]int{"count": 3})
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)

	errResp := NewErrorResponse("COMMON_008", "validation failed")
	assert.False(t, errResp.Success)
	require.NotNil(t, errResp.Error)
	assert.Equal(t, "COMMON_008", errResp.Error.Code)
}

func TestBaseEvent(t *testing.T) {
	ev := NewBaseEvent("analysis-123")
	assert.NotEmpty(t, ev.EventID())
	assert.Equal(t, "analysis-123", ev.AggregateID())
	assert.WithinDuration(t, time.Now().UTC(), ev.OccurredAt(), time.Minute)
}
