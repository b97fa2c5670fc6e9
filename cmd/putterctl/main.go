// Command putterctl drives a putter server from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	if errors.Is(err, errUsage) {
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: putterctl <command> [args] [options]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list                                 List practice sessions, newest first")
	fmt.Fprintln(w, "  new    -name NAME [-date YYYY-MM-DD] Create a session (date defaults to today)")
	fmt.Fprintln(w, "  show   SESSION                       Show a session with per-distance accuracy")
	fmt.Fprintln(w, "  rm     SESSION                       Delete a session and its putts")
	fmt.Fprintln(w, "  add    SESSION [-d M] [-a N] [-m N]  Record a distance (defaults 3 m, 10 attempts, 7 makes)")
	fmt.Fprintln(w, "  set    SESSION PUTT [-a N] [-m N]    Overwrite attempts and/or makes")
	fmt.Fprintln(w, "  inc    SESSION PUTT attempts|makes   Add one attempt or make")
	fmt.Fprintln(w, "  dec    SESSION PUTT attempts|makes   Remove one attempt or make")
	fmt.Fprintln(w, "  rmputt SESSION PUTT                  Delete a putt record")
	fmt.Fprintln(w, "Every command accepts -url (PUTTER_URL) and -user (PUTTER_USER).")
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return runList(ctx, rest, stdout)
	case "new":
		return runNew(ctx, rest, stdout)
	case "show":
		return runShow(ctx, rest, stdout)
	case "rm":
		return runRemove(ctx, rest, stdout)
	case "add":
		return runAdd(ctx, rest, stdout)
	case "set":
		return runSet(ctx, rest, stdout)
	case "inc":
		return runStep(ctx, rest, stdout, +1)
	case "dec":
		return runStep(ctx, rest, stdout, -1)
	case "rmputt":
		return runRemovePutt(ctx, rest, stdout)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	}
	return errUsage
}
