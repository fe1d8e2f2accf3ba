package client

import (
	"cmp"
	"slices"

	"github.com/tasktrack/tasktrack/internal/types"
)

// State is the client's in-memory task collection plus the inputs of the
// derived view. It is not safe for concurrent use.
type State struct {
	Tasks         []Task
	Filters       Filters
	SortBy        SortKey
	ShowCompleted bool

	selected map[uint]struct{}
}

func NewState() *State {
	return &State{
		Filters:       Filters{Status: types.StatusAll},
		SortBy:        SortPriority,
		ShowCompleted: true,
		selected:      make(map[uint]struct{}),
	}
}

// View runs the derived-view pipeline over the current state.
func (s *State) View() []Task {
	return DeriveView(s.Tasks, s.Filters, s.SortBy, s.ShowCompleted)
}

func (s *State) Find(id uint) (Task, bool) {
	if i := indexOf(s.Tasks, id); i >= 0 {
		return s.Tasks[i], true
	}
	return Task{}, false
}

// Upsert stores a server-confirmed task. A known task keeps its CustomOrder,
// a new one is placed after every existing task in custom order.
func (s *State) Upsert(t Task) {
	if i := indexOf(s.Tasks, t.ID); i >= 0 {
		t.CustomOrder = s.Tasks[i].CustomOrder
		s.Tasks[i] = t
		return
	}

	t.CustomOrder = s.nextOrder()
	s.Tasks = append(s.Tasks, t)
}

// Replace swaps in a full server listing, keeping CustomOrder of tasks the
// client already knew.
func (s *State) Replace(tasks []Task) {
	known := make(map[uint]int64, len(s.Tasks))
	for _, t := range s.Tasks {
		known[t.ID] = t.CustomOrder
	}

	next := s.nextOrder()
	merged := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if order, ok := known[t.ID]; ok {
			t.CustomOrder = order
		} else {
			t.CustomOrder = next
			next++
		}
		merged = append(merged, t)
	}

	s.Tasks = merged
	s.pruneSelection()
}

func (s *State) Remove(id uint) bool {
	i := indexOf(s.Tasks, id)
	if i < 0 {
		return false
	}

	s.Tasks = slices.Delete(slices.Clone(s.Tasks), i, i+1)
	delete(s.selected, id)
	return true
}

func (s *State) nextOrder() int64 {
	if len(s.Tasks) == 0 {
		return 0
	}
	return slices.MaxFunc(s.Tasks, func(a, b Task) int {
		return cmp.Compare(a.CustomOrder, b.CustomOrder)
	}).CustomOrder + 1
}

// MoveTask puts source where target currently sits in the visible order and
// shifts the tasks in between by one. Every task then gets a dense
// CustomOrder matching the new order, and SortBy switches to custom.
// Reports false when nothing moved.
func (s *State) MoveTask(sourceID, targetID uint) bool {
	if sourceID == targetID {
		return false
	}

	ordered := slices.Clone(s.Tasks)
	slices.SortStableFunc(ordered, Comparator(s.SortBy))

	from := indexOf(ordered, sourceID)
	to := indexOf(ordered, targetID)
	if from < 0 || to < 0 {
		return false
	}

	moved := ordered[from]
	ordered = slices.Delete(ordered, from, from+1)
	ordered = slices.Insert(ordered, to, moved)

	for i := range ordered {
		ordered[i].CustomOrder = int64(i)
	}

	s.Tasks = ordered
	s.SortBy = SortCustom
	return true
}

func (s *State) Select(id uint) {
	if indexOf(s.Tasks, id) >= 0 {
		s.markSelected(id)
	}
}

func (s *State) markSelected(id uint) {
	if s.selected == nil {
		s.selected = make(map[uint]struct{})
	}
	s.selected[id] = struct{}{}
}

func (s *State) Deselect(id uint) {
	delete(s.selected, id)
}

func (s *State) IsSelected(id uint) bool {
	_, ok := s.selected[id]
	return ok
}

// SelectAll selects every task in the current view.
func (s *State) SelectAll() {
	for _, t := range s.View() {
		s.markSelected(t.ID)
	}
}

func (s *State) ClearSelection() {
	clear(s.selected)
}

// Selected returns the selected ids in ascending order.
func (s *State) Selected() []uint {
	ids := make([]uint, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// BulkToggleTarget returns the done value a bulk toggle over ids sets:
// false when every known task among ids is done, true otherwise.
// ok is false when none of ids is known.
func (s *State) BulkToggleTarget(ids []uint) (done bool, ok bool) {
	allDone := true
	for _, id := range ids {
		i := indexOf(s.Tasks, id)
		if i < 0 {
			continue
		}
		ok = true
		if !s.Tasks[i].Done {
			allDone = false
		}
	}
	return !allDone, ok
}

// BulkToggle sets done on every known task among ids and clears the
// selection. Callers pick done with BulkToggleTarget over the whole selection
// so tasks the server rejected never change the target. Returns how many
// tasks were set.
func (s *State) BulkToggle(ids []uint, done bool) int {
	changed := 0
	for _, id := range ids {
		if i := indexOf(s.Tasks, id); i >= 0 {
			s.Tasks[i].Done = done
			changed++
		}
	}
	s.ClearSelection()
	return changed
}

// BulkDelete removes every task among ids and clears the selection.
func (s *State) BulkDelete(ids []uint) int {
	removed := 0
	for _, id := range ids {
		if s.Remove(id) {
			removed++
		}
	}
	s.ClearSelection()
	return removed
}

func (s *State) pruneSelection() {
	for id := range s.selected {
		if indexOf(s.Tasks, id) < 0 {
			delete(s.selected, id)
		}
	}
}
