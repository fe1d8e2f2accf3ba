package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack/internal/models"
)

func TestDueDate_Unmarshal(t *testing.T) {
	var body struct {
		Due *DueDate `json:"due_date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"due_date":"2025-03-01"}`), &body))
	assert.Equal(t, "2025-03-01T00:00:00Z", body.Due.Ptr().Format(time.RFC3339))

	require.NoError(t, json.Unmarshal([]byte(`{"due_date":"2025-03-01T10:00:00+02:00"}`), &body))
	assert.Equal(t, "2025-03-01T08:00:00Z", body.Due.Ptr().Format(time.RFC3339))

	body.Due = nil
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":null}`), &body))
	assert.Nil(t, body.Due.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"due_date":"next week"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"due_date":20250301}`), &body))
}

func TestPriority_Unmarshal(t *testing.T) {
	tests := map[string]int{
		`2`:      2,
		`"1"`:    1,
		`3.0`:    3,
		`"high"`: 0,
		`2.5`:    0,
		`"2.5"`:  0,
		`false`:  0,
		`[1]`:    0,
		`1e40`:   0,
	}

	for raw, expected := range tests {
		var body struct {
			Priority *Priority `json:"priority"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"priority":`+raw+`}`), &body), raw)
		require.NotNil(t, body.Priority, raw)
		assert.Equal(t, expected, *body.Priority.Ptr(), raw)
	}

	var absent struct {
		Priority *Priority `json:"priority"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"priority":null}`), &absent))
	assert.Nil(t, absent.Priority.Ptr())
}

func TestNewTaskResponse_EmptyTags(t *testing.T) {
	task := &models.Task{OwnerID: 3, Title: "a", Priority: PriorityLow}

	resp := NewTaskResponse(task)

	assert.Equal(t, uint(3), resp.UserID)
	assert.NotNil(t, resp.Tags)
	assert.Empty(t, resp.Tags)
	assert.Empty(t, NewTaskResponses(nil))
	assert.NotNil(t, NewTaskResponses(nil))
}

func TestValidPriority(t *testing.T) {
	assert.True(t, ValidPriority(1))
	assert.True(t, ValidPriority(3))
	assert.False(t, ValidPriority(0))
	assert.False(t, ValidPriority(4))
}
