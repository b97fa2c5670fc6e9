package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/eeturonkko/putter/internal/client"
	"github.com/eeturonkko/putter/internal/domain"
)

type common struct {
	url  string
	user string
	fs   *flag.FlagSet
}

func newFlags(name string) *common {
	c := &common{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	c.fs.SetOutput(io.Discard)
	c.fs.StringVar(&c.url, "url", getenv("PUTTER_URL", "http://localhost:4000"), "server base URL")
	c.fs.StringVar(&c.user, "user", os.Getenv("PUTTER_USER"), "owner id sent as x-user-id")
	return c
}

// parse accepts positionals before or after the flags and checks their count.
func (c *common) parse(args []string, positionals int) ([]string, error) {
	var lead []string
	for len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		lead = append(lead, args[0])
		args = args[1:]
	}
	if err := c.fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%s: %w", c.fs.Name(), err)
	}
	pos := append(lead, c.fs.Args()...)
	if len(pos) != positionals {
		return nil, fmt.Errorf("%s: expected %d argument(s), got %d", c.fs.Name(), positionals, len(pos))
	}
	if c.user == "" {
		return nil, fmt.Errorf("%s: -user or PUTTER_USER is required", c.fs.Name())
	}
	return pos, nil
}

func (c *common) client() *client.Client {
	return client.New(c.url, c.user)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func runList(ctx context.Context, args []string, out io.Writer) error {
	f := newFlags("list")
	if _, err := f.parse(args, 0); err != nil {
		return err
	}
	sessions, err := f.client().ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions yet. Create one with: putterctl new -name NAME")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tNAME")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Date, s.Name)
	}
	return tw.Flush()
}

func runNew(ctx context.Context, args []string, out io.Writer) error {
	f := newFlags("new")
	name := f.fs.String("name", "", "session name")
	date := f.fs.String("date", time.Now().Format("2006-01-02"), "session date (YYYY-MM-DD)")
	if _, err := f.parse(args, 0); err != nil {
		return err
	}

	s, err := f.client().CreateSession(ctx, strings.TrimSpace(*name), strings.TrimSpace(*date))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created session %d: %s (%s)\n", s.ID, s.Name, s.Date)
	return nil
}

func runShow(ctx context.Context, args []string, out io.Writer) error {
	f := newFlags("show")
	pos, err := f.parse(args, 1)
	if err != nil {
		return err
	}
	id, err := parseID(pos[0])
	if err != nil {
		return err
	}

	s, err := f.client().GetSession(ctx, id)
	if err != nil {
		return err
	}
	printSession(out, s)
	return nil
}

func printSession(out io.Writer, s *client.SessionDetail) {
	fmt.Fprintf(out, "%s  %s\n", color.New(color.Bold).Sprint(s.Name), s.Date)
	if len(s.Putts) == 0 {
		fmt.Fprintln(out, "No putts yet. Add one with: putterctl add", s.ID)
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PUTT\tDISTANCE\tMAKES\tACCURACY")
	for _, p := range s.Putts {
		fmt.Fprintf(tw, "%d\t%d m\t%d/%d\t%s\n", p.ID, p.DistanceM, p.Makes, p.Attempts, accuracy(domain.Accuracy(p.Makes, p.Attempts)))
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "Session: %d/%d made, %s\n", s.Stats.Makes, s.Stats.Attempts, accuracy(s.Stats.Accuracy))
}

func accuracy(pct int) string {
	c := color.FgRed
	switch {
	case pct >= 70:
		c = color.FgGreen
	case pct >= 40:
		c = color.FgYellow
	}
	return color.New(c).Sprintf("%d%%", pct)
}

func runRemove(ctx context.Context, args []string, out io.Writer) error {
	f := newFlags("rm")
	pos, err := f.parse(args, 1)
	if err != nil {
		return err
	}
	id, err := parseID(pos[0])
	if err != nil {
		return err
	}
	if err := f.client().DeleteSession(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted session %d\n", id)
	return nil
}

func runAdd(ctx context.Context, args []string, out io.Writer) error {
	f := newFlags("add")
	distance := f.fs.String("d", "3", "distance in meters")
	attempts := f.fs.String("a", "10", "attempts")
	makes := f.fs.String("m", "7", "makes")
	pos, err := f.parse(args, 1)
	if err != nil {
		return err
	}
	sessionID, err := parseID(pos[0])
	if err != nil {
		return err
	}

	p, err := f.client().AddPutt(ctx, sessionID, domain.NewPutt{
		DistanceM: domain.NormalizeCount(*distance),
		Attempts:  domain.NormalizeCount(*attempts),
		Makes:     domain.NormalizeCount(*makes),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added putt %d: %d m, %d/%d\n", p.ID, p.DistanceM, p.Makes, p.Attempts)
	return nil
}

func runSet(ctx context.Context, args []string, out io.Writer) error {
	f := newFlags("set")
	attempts := f.fs.String("a", "", "attempts")
	makes := f.fs.String("m", "", "makes")
	pos, err := f.parse(args, 2)
	if err != nil {
		return err
	}
	sessionID, puttID, err := parseIDs(pos)
	if err != nil {
		return err
	}

	var patch domain.PuttPatch
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "a":
			n := domain.NormalizeCount(*attempts)
			patch.Attempts = &n
		case "m":
			n := domain.NormalizeCount(*makes)
			patch.Makes = &n
		}
	})
	if patch.Attempts == nil && patch.Makes == nil {
		return fmt.Errorf("set: nothing to change, pass -a and/or -m")
	}

	p, err := f.client().UpdatePutt(ctx, sessionID, puttID, patch)
	if err != nil {
		return err
	}
	printPutt(out, p)
	return nil
}

// runStep reads the current record and sends only the changed count.
func runStep(ctx context.Context, args []string, out io.Writer, delta int) error {
	name := "inc"
	if delta < 0 {
		name = "dec"
	}
	f := newFlags(name)
	pos, err := f.parse(args, 3)
	if err != nil {
		return err
	}
	sessionID, puttID, err := parseIDs(pos[:2])
	if err != nil {
		return err
	}

	c := f.client()
	sess, err := c.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	var cur *domain.PuttRecord
	for i := range sess.Putts {
		if sess.Putts[i].ID == puttID {
			cur = &sess.Putts[i]
			break
		}
	}
	if cur == nil {
		return fmt.Errorf("putt %d not found in session %d", puttID, sessionID)
	}

	patch, err := step(*cur, pos[2], delta)
	if err != nil {
		return err
	}
	p, err := c.UpdatePutt(ctx, sessionID, puttID, patch)
	if err != nil {
		return err
	}
	printPutt(out, p)
	return nil
}

// step mirrors the app's +/- buttons. Attempts never drop below makes, makes
// never drop below zero, and adding a make to a perfect record adds an
// attempt too.
func step(cur domain.PuttRecord, field string, delta int) (domain.PuttPatch, error) {
	var patch domain.PuttPatch
	switch field {
	case "attempts", "a":
		n := cur.Attempts + 1
		if delta < 0 {
			n = max(cur.Makes, cur.Attempts-1)
		}
		patch.Attempts = &n
	case "makes", "m":
		if delta < 0 {
			n := max(0, cur.Makes-1)
			patch.Makes = &n
			break
		}
		n := cur.Makes + 1
		patch.Makes = &n
		if cur.Makes == cur.Attempts {
			a := cur.Attempts + 1
			patch.Attempts = &a
		}
	default:
		return patch, fmt.Errorf("unknown field %q, want attempts or makes", field)
	}
	return patch, nil
}

func runRemovePutt(ctx context.Context, args []string, out io.Writer) error {
	f := newFlags("rmputt")
	pos, err := f.parse(args, 2)
	if err != nil {
		return err
	}
	sessionID, puttID, err := parseIDs(pos)
	if err != nil {
		return err
	}
	if err := f.client().DeletePutt(ctx, sessionID, puttID); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted putt %d\n", puttID)
	return nil
}

func parseIDs(pos []string) (int64, int64, error) {
	sessionID, err := parseID(pos[0])
	if err != nil {
		return 0, 0, err
	}
	puttID, err := parseID(pos[1])
	if err != nil {
		return 0, 0, err
	}
	return sessionID, puttID, nil
}

func printPutt(out io.Writer, p *domain.PuttRecord) {
	fmt.Fprintf(out, "putt %d: %d m, %d/%d (%s)\n", p.ID, p.DistanceM, p.Makes, p.Attempts, accuracy(domain.Accuracy(p.Makes, p.Attempts)))
}
