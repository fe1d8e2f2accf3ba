package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tasktrack/tasktrack/internal/client"
)

type app struct {
	session      *client.Session
	out          io.Writer
	errOut       io.Writer
	readPassword func(prompt string, w io.Writer) (string, error)
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register":    cmdRegister,
	"login":       cmdLogin,
	"logout":      cmdLogout,
	"me":          cmdMe,
	"list":        cmdList,
	"show":        cmdShow,
	"add":         cmdAdd,
	"update":      cmdUpdate,
	"toggle":      cmdToggle,
	"rm":          cmdRemove,
	"move":        cmdMove,
	"bulk-toggle": cmdBulkToggle,
	"bulk-delete": cmdBulkDelete,
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) password(given, prompt string) (string, error) {
	if given != "" {
		return given, nil
	}
	return a.readPassword(prompt, a.errOut)
}

func (a *app) flushNotifications() {
	for _, n := range a.session.Notifications().Drain() {
		fmt.Fprintln(a.errOut, renderNotification(a.errOut, n))
	}
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pw, err := a.password(*password, "Password: ")
	if err != nil {
		return err
	}
	confirmation := pw
	if *password == "" {
		if confirmation, err = a.readPassword("Confirm password: ", a.errOut); err != nil {
			return err
		}
	}

	return a.session.Register(ctx, client.RegisterRequest{
		Name:                 *name,
		Email:                *email,
		Password:             pw,
		PasswordConfirmation: confirmation,
	})
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pw, err := a.password(*password, "Password: ")
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, *email, pw); err != nil {
		return err
	}
	return a.session.Refresh(ctx)
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	return a.session.Logout(ctx)
}

func cmdMe(ctx context.Context, a *app, _ []string) error {
	user, err := a.session.Me(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s <%s> (id %d)\n", user.Name, user.Email, user.ID)
	return nil
}

func cmdList(ctx context.Context, a *app, args []string) error {
	state := a.session.State()

	fs := a.flagSet("list")
	status := fs.String("status", state.Filters.Status, "all, completed or pending")
	priority := fs.Int("priority", state.Filters.Priority, "1, 2 or 3 (0 for any)")
	category := fs.String("category", state.Filters.Category, "exact category")
	search := fs.String("search", state.Filters.Search, "text to find in titles and tags")
	sortBy := fs.String("sort", string(state.SortBy), "priority, dueDate, custom or created_at")
	hideCompleted := fs.Bool("hide-completed", !state.ShowCompleted, "hide done tasks")
	offline := fs.Bool("offline", false, "skip refreshing from the server")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*offline {
		if err := a.session.Refresh(ctx); err != nil {
			return err
		}
	}

	state = a.session.State()
	state.Filters = client.Filters{Status: *status, Priority: *priority, Category: *category, Search: *search}
	state.SortBy = client.ParseSortKey(*sortBy)
	state.ShowCompleted = !*hideCompleted
	a.session.SaveView(ctx)

	renderTasks(a.out, state.View(), state)
	return nil
}

func cmdShow(ctx context.Context, a *app, args []string) error {
	id, err := parseID(first(args))
	if err != nil {
		return err
	}

	task, err := a.session.GetTask(ctx, id)
	if err != nil {
		return err
	}

	renderTasks(a.out, []client.Task{*task}, a.session.State())
	return nil
}

func cmdAdd(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("add")
	priority := fs.Int("priority", 0, "1 high, 2 medium, 3 low")
	category := fs.String("category", "", "category")
	due := fs.String("due", "", "due date, YYYY-MM-DD")
	tags := fs.String("tags", "", "comma separated tags")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := client.NewTask{
		Title:    strings.Join(fs.Args(), " "),
		Category: *category,
		Tags:     splitTags(*tags),
	}
	if *priority != 0 {
		in.Priority = priority
	}
	if *due != "" {
		d, err := time.Parse(time.DateOnly, *due)
		if err != nil {
			return fmt.Errorf("invalid -due %q: %w", *due, err)
		}
		in.DueDate = &d
	}

	task, err := a.session.AddTask(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "added #%d\n", task.ID)
	return nil
}

func cmdUpdate(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("update")
	title := fs.String("title", "", "new title")
	done := fs.String("done", "", "true or false")
	priority := fs.Int("priority", 0, "1, 2 or 3")
	category := fs.String("category", "", "new category")
	due := fs.String("due", "", "due date, YYYY-MM-DD")
	tags := fs.String("tags", "", "comma separated tags, replaces the old ones")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	var patch client.TaskPatch
	visited := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { visited[f.Name] = true })

	if visited["title"] {
		patch.Title = title
	}
	if visited["done"] {
		v, err := strconv.ParseBool(*done)
		if err != nil {
			return fmt.Errorf("invalid -done %q", *done)
		}
		patch.Done = &v
	}
	if visited["priority"] {
		patch.Priority = priority
	}
	if visited["category"] {
		patch.Category = category
	}
	if visited["due"] {
		d, err := time.Parse(time.DateOnly, *due)
		if err != nil {
			return fmt.Errorf("invalid -due %q: %w", *due, err)
		}
		patch.DueDate = &d
	}
	if visited["tags"] {
		t := splitTags(*tags)
		patch.Tags = &t
	}

	task, err := a.session.UpdateTask(ctx, id, patch)
	if err != nil {
		return err
	}

	renderTasks(a.out, []client.Task{*task}, a.session.State())
	return nil
}

func cmdToggle(ctx context.Context, a *app, args []string) error {
	id, err := parseID(first(args))
	if err != nil {
		return err
	}

	_, err = a.session.ToggleTask(ctx, id)
	return err
}

func cmdRemove(ctx context.Context, a *app, args []string) error {
	id, err := parseID(first(args))
	if err != nil {
		return err
	}
	return a.session.DeleteTask(ctx, id)
}

func cmdMove(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return errors.New("move needs a source and a target id")
	}

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	if !a.session.MoveTask(ctx, ids[0], ids[1]) {
		return fmt.Errorf("nothing moved: both ids must be distinct known tasks")
	}

	renderTasks(a.out, a.session.View(), a.session.State())
	return nil
}

func cmdBulkToggle(ctx context.Context, a *app, args []string) error {
	if err := a.selectTasks("bulk-toggle", args); err != nil {
		return err
	}
	return a.session.BulkToggle(ctx, a.session.State().Selected())
}

func cmdBulkDelete(ctx context.Context, a *app, args []string) error {
	if err := a.selectTasks("bulk-delete", args); err != nil {
		return err
	}
	return a.session.BulkDelete(ctx, a.session.State().Selected())
}

// selectTasks builds the selection for a bulk command. With -all it starts
// from every task in the saved view and the listed ids are left out.
func (a *app) selectTasks(name string, args []string) error {
	fs := a.flagSet(name)
	all := fs.Bool("all", false, "select every task in the current view, except the listed ids")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var ids []uint
	if fs.NArg() > 0 || !*all {
		var err error
		if ids, err = parseIDs(fs.Args()); err != nil {
			return err
		}
	}

	state := a.session.State()
	state.ClearSelection()
	if *all {
		state.SelectAll()
		for _, id := range ids {
			state.Deselect(id)
		}
	} else {
		for _, id := range ids {
			state.Select(id)
		}
	}

	if len(state.Selected()) == 0 {
		return client.ErrEmptySelected
	}
	return nil
}

func first(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return uint(id), nil
}

func parseIDs(args []string) ([]uint, error) {
	if len(args) == 0 {
		return nil, client.ErrEmptySelected
	}

	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
