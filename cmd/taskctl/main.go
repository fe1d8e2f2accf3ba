// Command taskctl is a terminal client for the task server. State that must
// outlive a single invocation (token, tasks, custom order, view settings)
// lives in a local SQLite file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/tasktrack/tasktrack/internal/client"
	"github.com/tasktrack/tasktrack/internal/logging"
)

const usage = `usage: taskctl [-server URL] [-store PATH] <command> [args]

commands:
  register     create an account and log in
  login        log in
  logout       log out and forget local data
  me           show the current user
  list         show tasks (filters: -status -priority -category -search -sort -hide-completed)
  show ID      show one task
  add          add a task
  update ID    change a task
  toggle ID    flip a task between done and pending
  rm ID        delete a task
  move SRC DST put task SRC where task DST is
  bulk-toggle [-all] ID...  mark all done, or all pending if they already are
  bulk-delete [-all] ID...  delete several tasks
`

func main() {
	_ = godotenv.Load()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("taskctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	server := fs.String("server", envOr("TASKCTL_SERVER", "http://localhost:3000"), "task server base URL")
	storePath := fs.String("store", envOr("TASKCTL_STORE", defaultStorePath()), "local state file")
	logLevel := fs.String("log-level", envOr("LOG_LEVEL", "warn"), "client log level")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	store, err := client.OpenLocalStore(*storePath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer store.Close()

	log := logging.New(stderr, *logLevel, "text")
	session := client.NewSession(client.NewAPIClient(*server, nil), store, log)

	if err := session.Restore(ctx); err != nil && !errors.Is(err, client.ErrNotLoggedIn) {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	a := &app{session: session, out: stdout, errOut: stderr, readPassword: readPassword}
	err = cmd(ctx, a, fs.Args()[1:])
	a.flushNotifications()

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "taskctl.db"
	}
	return filepath.Join(dir, "taskctl", "local.db")
}
