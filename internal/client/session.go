package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/types"
)

// Session ties the API client, the in-memory state and the local store
// together. Changes reach the state only after the server confirms them;
// a failed call leaves the state untouched and records an error notification.
type Session struct {
	api   *APIClient
	store *LocalStore
	state *State
	notes *Notifier
	log   *slog.Logger
	user  *types.UserResponse
}

// NewSession builds a session. store may be nil to keep everything in memory.
// A nil log discards client-side warnings.
func NewSession(api *APIClient, store *LocalStore, log *slog.Logger) *Session {
	if log == nil {
		log = logging.Discard()
	}

	return &Session{
		api:   api,
		store: store,
		state: NewState(),
		notes: NewNotifier(),
		log:   log,
	}
}

func (s *Session) State() *State             { return s.state }
func (s *Session) Notifications() *Notifier  { return s.notes }
func (s *Session) User() *types.UserResponse { return s.user }
func (s *Session) LoggedIn() bool            { return s.api.Token() != "" }
func (s *Session) View() []Task              { return s.state.View() }

// Restore loads the saved token, user and tasks. ErrNotLoggedIn means there
// was nothing to restore.
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil {
		return ErrNotLoggedIn
	}

	token, user, err := s.store.LoadAuth(ctx)
	if err != nil {
		return err
	}

	tasks, err := s.store.LoadTasks(ctx)
	if err != nil {
		return err
	}

	prefs, found, err := s.store.LoadView(ctx)
	if err != nil {
		return err
	}

	s.api.SetToken(token)
	s.user = user
	s.state.Tasks = tasks
	if found {
		s.state.Filters = prefs.Filters
		s.state.SortBy = prefs.SortBy
		s.state.ShowCompleted = prefs.ShowCompleted
	}
	return nil
}

func (s *Session) Register(ctx context.Context, req RegisterRequest) error {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return s.fail("Registration failed", err)
	}

	s.signIn(ctx, resp)
	s.notes.Success("Welcome, " + resp.User.Name + "!")
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return s.fail("Login failed", err)
	}

	s.signIn(ctx, resp)
	s.notes.Success("Logged in as " + resp.User.Email)
	return nil
}

func (s *Session) signIn(ctx context.Context, resp *types.AuthResponse) {
	s.api.SetToken(resp.Token)
	user := resp.User
	s.user = &user
	s.state = NewState()

	if s.store == nil {
		return
	}
	if err := s.store.Clear(ctx); err != nil {
		s.log.WarnContext(ctx, "failed to reset local store", "error", err)
	}
	if err := s.store.SaveAuth(ctx, resp.Token, user); err != nil {
		s.log.WarnContext(ctx, "failed to save credentials", "error", err)
	}
}

// Logout tells the server, then discards the token and cached tasks locally
// whatever the server answered.
func (s *Session) Logout(ctx context.Context) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}

	err := s.api.Logout(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "server logout failed", "error", err)
	}

	s.api.SetToken("")
	s.user = nil
	s.state = NewState()
	if s.store != nil {
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			return fmt.Errorf("clear local store: %w", clearErr)
		}
	}

	s.notes.Info("Logged out")
	return nil
}

func (s *Session) Me(ctx context.Context) (*types.UserResponse, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, s.fail("Could not load profile", err)
	}

	s.user = user
	return user, nil
}

func (s *Session) DeleteAccount(ctx context.Context, password string) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}

	if err := s.api.DeleteAccount(ctx, password); err != nil {
		return s.fail("Could not delete account", err)
	}

	s.api.SetToken("")
	s.user = nil
	s.state = NewState()
	if s.store != nil {
		if err := s.store.Clear(ctx); err != nil {
			return fmt.Errorf("clear local store: %w", err)
		}
	}

	s.notes.Info("Account deleted")
	return nil
}

// Refresh reloads every task from the server.
func (s *Session) Refresh(ctx context.Context) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}

	tasks, err := s.api.ListTasks(ctx, ListQuery{})
	if err != nil {
		return s.fail("Could not load tasks", err)
	}

	s.state.Replace(tasks)
	s.persist(ctx)
	return nil
}

// GetTask fetches one task from the server and merges it into the state.
func (s *Session) GetTask(ctx context.Context, id uint) (*Task, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	task, err := s.api.GetTask(ctx, id)
	if err != nil {
		return nil, s.fail("Could not load task", err)
	}

	s.state.Upsert(*task)
	s.persist(ctx)

	stored, _ := s.state.Find(task.ID)
	return &stored, nil
}

func (s *Session) AddTask(ctx context.Context, in NewTask) (*Task, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		s.notes.Error("Please enter a task title")
		return nil, fmt.Errorf("%w: title can't be blank", ErrValidation)
	}

	task, err := s.api.CreateTask(ctx, in)
	if err != nil {
		return nil, s.fail("Could not add task", err)
	}

	s.state.Upsert(*task)
	s.persist(ctx)
	s.notes.Success("Task added!")

	stored, _ := s.state.Find(task.ID)
	return &stored, nil
}

func (s *Session) UpdateTask(ctx context.Context, id uint, patch TaskPatch) (*Task, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	task, err := s.api.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, s.fail("Could not update task", err)
	}

	s.state.Upsert(*task)
	s.persist(ctx)
	if patch.Done != nil {
		s.notes.Success(doneMessage(task.Done))
	} else {
		s.notes.Success("Task updated")
	}

	stored, _ := s.state.Find(task.ID)
	return &stored, nil
}

func (s *Session) ToggleTask(ctx context.Context, id uint) (*Task, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	task, err := s.api.ToggleTask(ctx, id)
	if err != nil {
		return nil, s.fail("Could not toggle task", err)
	}

	s.state.Upsert(*task)
	s.persist(ctx)
	s.notes.Success(doneMessage(task.Done))

	stored, _ := s.state.Find(task.ID)
	return &stored, nil
}

func (s *Session) DeleteTask(ctx context.Context, id uint) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}

	if err := s.api.DeleteTask(ctx, id); err != nil {
		return s.fail("Could not delete task", err)
	}

	s.state.Remove(id)
	s.persist(ctx)
	s.notes.Info("Task deleted")
	return nil
}

// BulkToggle marks every selected task done, or every one pending when they
// are all done already. Only tasks the server confirmed change locally; the
// selection is cleared either way.
func (s *Session) BulkToggle(ctx context.Context, ids []uint) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}

	done, ok := s.state.BulkToggleTarget(ids)
	if !ok {
		return ErrEmptySelected
	}

	var errs []error
	confirmed := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, known := s.state.Find(id); !known {
			continue
		}

		if _, err := s.api.UpdateTask(ctx, id, TaskPatch{Done: &done}); err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w", id, err))
			continue
		}
		confirmed = append(confirmed, id)
	}

	if updated := s.state.BulkToggle(confirmed, done); updated > 0 {
		s.persist(ctx)
		s.notes.Success(fmt.Sprintf("%d task(s) %s", updated, doneWord(done)))
	}
	if err := errors.Join(errs...); err != nil {
		return s.fail("Some tasks could not be updated", err)
	}
	return nil
}

// BulkDelete deletes every selected task and clears the selection.
func (s *Session) BulkDelete(ctx context.Context, ids []uint) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}

	var errs []error
	confirmed := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, known := s.state.Find(id); !known {
			continue
		}

		if err := s.api.DeleteTask(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w", id, err))
			continue
		}
		confirmed = append(confirmed, id)
	}

	removed := s.state.BulkDelete(confirmed)
	if removed > 0 {
		s.persist(ctx)
		s.notes.Info(fmt.Sprintf("%d task(s) deleted", removed))
	}
	if err := errors.Join(errs...); err != nil {
		return s.fail("Some tasks could not be deleted", err)
	}
	if removed == 0 {
		return ErrEmptySelected
	}
	return nil
}

// MoveTask reorders locally; the order is client-only and never sent.
func (s *Session) MoveTask(ctx context.Context, sourceID, targetID uint) bool {
	if !s.state.MoveTask(sourceID, targetID) {
		return false
	}

	s.persist(ctx)
	s.notes.Success("Tasks reordered!")
	return true
}

func (s *Session) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveTasks(ctx, s.state.Tasks); err != nil {
		s.log.WarnContext(ctx, "failed to save tasks locally", "error", err)
		s.notes.Error("Could not save tasks locally")
	}
	s.SaveView(ctx)
}

// SaveView persists the current filters, sort and show-completed flag.
func (s *Session) SaveView(ctx context.Context) {
	if s.store == nil {
		return
	}
	prefs := ViewPrefs{
		Filters:       s.state.Filters,
		SortBy:        s.state.SortBy,
		ShowCompleted: s.state.ShowCompleted,
	}
	if err := s.store.SaveView(ctx, prefs); err != nil {
		s.log.WarnContext(ctx, "failed to save view preferences", "error", err)
	}
}

func (s *Session) fail(message string, err error) error {
	if errors.Is(err, ErrUnauthorized) && s.LoggedIn() {
		message += ": please log in again"
	}
	s.notes.Error(message)
	return err
}

func doneMessage(done bool) string {
	if done {
		return "Task completed!"
	}
	return "Task marked as pending"
}

func doneWord(done bool) string {
	if done {
		return "completed"
	}
	return "marked as pending"
}
