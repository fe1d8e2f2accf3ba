package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack/db"
	"github.com/tasktrack/tasktrack/internal/apperr"
	"github.com/tasktrack/tasktrack/internal/auth"
	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/models"
	"github.com/tasktrack/tasktrack/internal/repository"
)

type fixture struct {
	auth   *AuthService
	tasks  *TaskService
	tokens *auth.TokenService
	users  *repository.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database, err := db.ConnectDatabase("sqlite", filepath.Join(t.TempDir(), "svc.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.MigrateDatabase(database))

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := logging.Discard()
	users := repository.NewUserRepository(database)
	tokens := auth.NewTokenService("test-secret", time.Hour)

	return &fixture{
		auth:   NewAuthService(users, tokens, log),
		tasks:  NewTaskService(repository.NewTaskRepository(database), log),
		tokens: tokens,
		users:  users,
	}
}

func (f *fixture) register(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()

	user, token, err := f.auth.Register(context.Background(), RegisterInput{
		Name:                 name,
		Email:                email,
		Password:             "secret1",
		PasswordConfirmation: "secret1",
	})
	require.NoError(t, err)
	return user, token
}

func intPtr(v int) *int             { return &v }
func strPtr(v string) *string       { return &v }
func boolPtr(v bool) *bool          { return &v }
func tagsPtr(v ...string) *[]string { return &v }

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()

	require.ErrorIs(t, err, apperr.ErrValidation)
	verr, ok := err.(*apperr.ValidationError)
	require.True(t, ok, "expected *apperr.ValidationError, got %T", err)
	return verr.Fields
}

func TestRegister_NormalizesEmailAndIssuesToken(t *testing.T) {
	f := newFixture(t)

	user, token := f.register(t, "  Alice ", "  Alice@X.com ")

	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	userID, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.auth.Register(ctx, RegisterInput{
		Name:                 "A",
		Email:                "not-an-email",
		Password:             "12345",
		PasswordConfirmation: "54321",
	})

	fields := validationFields(t, err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Equal(t, "doesn't match password", fields["password_confirmation"])
}

func TestRegister_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Alice", "alice@x.com")

	_, _, err := f.auth.Register(context.Background(), RegisterInput{
		Name:                 "Impostor",
		Email:                "ALICE@x.com",
		Password:             "secret1",
		PasswordConfirmation: "secret1",
	})

	fields := validationFields(t, err)
	assert.Equal(t, "has already been taken", fields["email"])
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.register(t, "Alice", "alice@x.com")

	user, token, err := f.auth.Login(ctx, "ALICE@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.NotEmpty(t, token)

	_, _, wrongPassword := f.auth.Login(ctx, "alice@x.com", "wrong")
	_, _, unknownEmail := f.auth.Login(ctx, "nobody@x.com", "secret1")

	assert.ErrorIs(t, wrongPassword, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperr.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_UnknownEmailStillComparesHash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Alice", "alice@x.com")

	var compared []string
	f.auth.checkPassword = func(hash, password string) error {
		compared = append(compared, hash)
		return auth.CheckPassword(hash, password)
	}

	_, _, err := f.auth.Login(ctx, "nobody@x.com", "secret1")
	require.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	assert.Equal(t, []string{auth.DummyHash()}, compared)

	_, _, err = f.auth.Login(ctx, "alice@x.com", "wrong")
	require.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	require.Len(t, compared, 2)
	assert.NotEqual(t, auth.DummyHash(), compared[1])
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, token := f.register(t, "Alice", "alice@x.com")

	user, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = f.auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrMissingToken)

	_, err = f.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	orphan, _, err := f.tokens.Issue(alice.ID + 1000)
	require.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, token := f.register(t, "Alice", "alice@x.com")

	_, err := f.tasks.Create(ctx, alice.ID, CreateTaskInput{Title: "a"})
	require.NoError(t, err)

	fields := validationFields(t, f.auth.DeleteAccount(ctx, alice.ID, "wrong"))
	assert.Equal(t, "is incorrect", fields["password"])

	require.NoError(t, f.auth.DeleteAccount(ctx, alice.ID, "secret1"))

	_, err = f.auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	tasks, err := f.tasks.List(ctx, alice.ID, ListParams{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateTask_Defaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.register(t, "Alice", "alice@x.com")

	task, err := f.tasks.Create(ctx, alice.ID, CreateTaskInput{Title: "  Buy milk  "})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, 2, task.Priority)
	assert.Equal(t, "general", task.Category)
	assert.False(t, task.Done)
	assert.Equal(t, alice.ID, task.OwnerID)

	invalid, err := f.tasks.Create(ctx, alice.ID, CreateTaskInput{Title: "x", Priority: intPtr(9), Category: strPtr("  ")})
	require.NoError(t, err)
	assert.Equal(t, 2, invalid.Priority)
	assert.Equal(t, "general", invalid.Category)

	explicit, err := f.tasks.Create(ctx, alice.ID, CreateTaskInput{
		Title:    "y",
		Priority: intPtr(3),
		Category: strPtr("shopping"),
		Tags:     []string{" dairy ", "", "weekly"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, explicit.Priority)
	assert.Equal(t, "shopping", explicit.Category)
	assert.Equal(t, []string{"dairy", "weekly"}, []string(explicit.Tags))
}

func TestCreateTask_BlankTitle(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.register(t, "Alice", "alice@x.com")

	_, err := f.tasks.Create(context.Background(), alice.ID, CreateTaskInput{Title: "   "})
	fields := validationFields(t, err)
	assert.Equal(t, "can't be blank", fields["title"])
}

func TestUpdateTask_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.register(t, "Alice", "alice@x.com")
	task, err := f.tasks.Create(ctx, alice.ID, CreateTaskInput{Title: "t"})
	require.NoError(t, err)

	_, err = f.tasks.Update(ctx, alice.ID, task.ID, UpdateTaskInput{Title: strPtr(" "), Priority: intPtr(0)})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "priority")

	updated, err := f.tasks.Update(ctx, alice.ID, task.ID, UpdateTaskInput{
		Title:    strPtr("renamed"),
		Done:     boolPtr(true),
		Priority: intPtr(1),
		Category: strPtr("work"),
		Tags:     tagsPtr("a", " "),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.True(t, updated.Done)
	assert.Equal(t, 1, updated.Priority)
	assert.Equal(t, "work", updated.Category)
	assert.Equal(t, []string{"a"}, []string(updated.Tags))
}

func TestUpdateTask_EmptyPatchKeepsRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.register(t, "Alice", "alice@x.com")
	bob, _ := f.register(t, "Bob", "bob@x.com")
	task, err := f.tasks.Create(ctx, alice.ID, CreateTaskInput{Title: "t"})
	require.NoError(t, err)

	before, err := f.tasks.Get(ctx, alice.ID, task.ID)
	require.NoError(t, err)

	same, err := f.tasks.Update(ctx, alice.ID, task.ID, UpdateTaskInput{})
	require.NoError(t, err)
	assert.Equal(t, "t", same.Title)
	assert.True(t, before.UpdatedAt.Equal(same.UpdatedAt))

	_, err = f.tasks.Update(ctx, bob.ID, task.ID, UpdateTaskInput{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTaskOwnershipOpacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.register(t, "Alice", "alice@x.com")
	bob, _ := f.register(t, "Bob", "bob@x.com")

	task, err := f.tasks.Create(ctx, alice.ID, CreateTaskInput{Title: "private"})
	require.NoError(t, err)

	_, err = f.tasks.Get(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.tasks.Update(ctx, bob.ID, task.ID, UpdateTaskInput{Done: boolPtr(true)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.tasks.Toggle(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, f.tasks.Delete(ctx, bob.ID, task.ID), apperr.ErrNotFound)

	bobTasks, err := f.tasks.List(ctx, bob.ID, ListParams{})
	require.NoError(t, err)
	assert.Empty(t, bobTasks)
}

func TestListTasks_Params(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.register(t, "Alice", "alice@x.com")

	for _, p := range []int{2, 1, 3} {
		_, err := f.tasks.Create(ctx, alice.ID, CreateTaskInput{Title: "p", Priority: intPtr(p)})
		require.NoError(t, err)
	}

	tasks, err := f.tasks.List(ctx, alice.ID, ListParams{})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{tasks[0].Priority, tasks[1].Priority, tasks[2].Priority})

	low, err := f.tasks.List(ctx, alice.ID, ListParams{Priority: "3", Status: "Pending"})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, 3, low[0].Priority)

	for _, params := range []ListParams{
		{Status: "archived"},
		{Priority: "4"},
		{Sort: "title"},
	} {
		_, err := f.tasks.List(ctx, alice.ID, params)
		assert.ErrorIs(t, err, apperr.ErrValidation, "params %+v", params)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@x.com", NormalizeEmail("  ALICE@X.COM\n"))
}
