package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customState(n int) *State {
	s := NewState()
	s.SortBy = SortCustom
	for i := 1; i <= n; i++ {
		s.Tasks = append(s.Tasks, Task{ID: uint(i), Title: "t", Priority: 2, CustomOrder: int64(i - 1)})
	}
	return s
}

func assertDenseOrder(t *testing.T, s *State) {
	t.Helper()
	view := s.View()
	for i, task := range view {
		assert.Equal(t, int64(i), task.CustomOrder, "task %d", task.ID)
	}
}

func TestMoveTask_Splice(t *testing.T) {
	s := customState(5)

	require.True(t, s.MoveTask(1, 4))
	assert.Equal(t, []uint{2, 3, 4, 1, 5}, ids(s.View()))
	assertDenseOrder(t, s)

	require.True(t, s.MoveTask(5, 2))
	assert.Equal(t, []uint{5, 2, 3, 4, 1}, ids(s.View()))
	assertDenseOrder(t, s)
}

func TestMoveTask_IsNotASwap(t *testing.T) {
	s := customState(5)

	require.True(t, s.MoveTask(1, 4))
	require.True(t, s.MoveTask(4, 1))

	assert.Equal(t, []uint{2, 3, 1, 4, 5}, ids(s.View()))
}

func TestMoveTask_FromOtherSortSwitchesToCustom(t *testing.T) {
	s := NewState()
	s.Tasks = []Task{
		{ID: 1, Priority: 3},
		{ID: 2, Priority: 1},
		{ID: 3, Priority: 2},
	}
	require.Equal(t, []uint{2, 3, 1}, ids(s.View()))

	require.True(t, s.MoveTask(1, 2))

	assert.Equal(t, SortCustom, s.SortBy)
	assert.Equal(t, []uint{1, 2, 3}, ids(s.View()))
	assertDenseOrder(t, s)
}

func TestMoveTask_NoOps(t *testing.T) {
	s := customState(3)
	s.SortBy = SortPriority
	before := append([]Task(nil), s.Tasks...)

	assert.False(t, s.MoveTask(2, 2))
	assert.False(t, s.MoveTask(9, 1))
	assert.False(t, s.MoveTask(1, 9))

	assert.Equal(t, before, s.Tasks)
	assert.Equal(t, SortPriority, s.SortBy)
}

func TestMoveTask_DoesNotTouchPreviousView(t *testing.T) {
	s := customState(3)
	view := s.View()
	tasks := s.Tasks

	require.True(t, s.MoveTask(3, 1))

	assert.Equal(t, []uint{1, 2, 3}, ids(view))
	assert.Equal(t, []uint{1, 2, 3}, ids(tasks))
}

func TestBulkToggle(t *testing.T) {
	s := customState(3)
	s.Tasks[0].Done = true
	s.Select(1)
	s.Select(2)

	done, ok := s.BulkToggleTarget(s.Selected())
	require.True(t, ok)
	assert.True(t, done, "a mixed selection is set done")

	assert.Equal(t, 2, s.BulkToggle(s.Selected(), done))
	assert.True(t, s.Tasks[0].Done)
	assert.True(t, s.Tasks[1].Done)
	assert.False(t, s.Tasks[2].Done)
	assert.Empty(t, s.Selected())

	done, ok = s.BulkToggleTarget([]uint{1, 2})
	require.True(t, ok)
	assert.False(t, done, "an all-done selection is set pending")
	assert.Equal(t, 2, s.BulkToggle([]uint{1, 2}, done))
	assert.False(t, s.Tasks[0].Done)
	assert.False(t, s.Tasks[1].Done)

	_, ok = s.BulkToggleTarget([]uint{42})
	assert.False(t, ok)
	_, ok = s.BulkToggleTarget(nil)
	assert.False(t, ok)
	assert.Zero(t, s.BulkToggle([]uint{42}, true))
}

func TestBulkToggleTarget_IgnoresUnknownIDs(t *testing.T) {
	s := customState(2)
	s.Tasks[0].Done = true

	done, ok := s.BulkToggleTarget([]uint{1, 99})
	require.True(t, ok)
	assert.False(t, done)
}

func TestBulkDelete_ClearsSelection(t *testing.T) {
	s := customState(4)
	s.Select(1)
	s.Select(3)

	removed := s.BulkDelete(s.Selected())

	assert.Equal(t, 2, removed)
	assert.Equal(t, []uint{2, 4}, ids(s.Tasks))
	assert.Empty(t, s.Selected())
}

func TestSelection(t *testing.T) {
	s := customState(3)
	s.Tasks[1].Done = true

	s.Select(99)
	assert.Empty(t, s.Selected())

	s.Select(2)
	assert.True(t, s.IsSelected(2))
	s.Deselect(2)
	assert.False(t, s.IsSelected(2))

	s.Filters.Status = "pending"
	s.SelectAll()
	assert.Equal(t, []uint{1, 3}, s.Selected())

	s.Remove(3)
	assert.Equal(t, []uint{1}, s.Selected())

	s.ClearSelection()
	assert.Empty(t, s.Selected())

	var zero State
	zero.Tasks = []Task{{ID: 7}}
	zero.Select(7)
	assert.Equal(t, []uint{7}, zero.Selected())
}

func TestUpsertAndReplace_KeepCustomOrder(t *testing.T) {
	s := customState(2)
	require.True(t, s.MoveTask(2, 1))
	require.Equal(t, []uint{2, 1}, ids(s.View()))

	s.Upsert(Task{ID: 1, Title: "renamed", Done: true})
	task, ok := s.Find(1)
	require.True(t, ok)
	assert.Equal(t, "renamed", task.Title)
	assert.Equal(t, int64(1), task.CustomOrder)

	s.Upsert(Task{ID: 3, Title: "new"})
	task, _ = s.Find(3)
	assert.Equal(t, int64(2), task.CustomOrder)

	s.Select(3)
	s.Replace([]Task{{ID: 1}, {ID: 2}, {ID: 5}})

	assert.Equal(t, []uint{2, 1, 5}, ids(s.View()))
	_, ok = s.Find(3)
	assert.False(t, ok)
	assert.Empty(t, s.Selected())
}
