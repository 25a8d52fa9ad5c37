// ABOUTME: Subcommand implementations for confadmin-ctl
// ABOUTME: Each command talks to the backend through the shared API client

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/2389/confadmin/internal/cms"
	"github.com/2389/confadmin/internal/content"
	"github.com/2389/confadmin/internal/dashboard"
)

// PasswordEnvVar supplies the login password non-interactively.
const PasswordEnvVar = "CONFADMIN_PASSWORD"

func (a *app) prompt(question string) string {
	fmt.Fprintf(a.out, "%s: ", question)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", a.cfg.Auth.Email, "Account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		*email = a.prompt("Email")
	}
	password := os.Getenv(PasswordEnvVar)
	if password == "" {
		password = a.prompt("Password")
	}
	if *email == "" || password == "" {
		return errors.New("email and password required")
	}

	state, err := a.gate.SignIn(ctx, *email, password)
	if err != nil {
		return fmt.Errorf("%s", cms.Reason(err, "login failed"))
	}
	if !state.Authenticated {
		return errors.New("signed in, but the backend could not confirm the account")
	}

	color.New(color.FgGreen).Fprint(a.out, "✓ ")
	fmt.Fprintf(a.out, "Signed in as %s\n", state.User.DisplayName())
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.gate.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	state := a.gate.Resolve(ctx)
	if !state.Authenticated {
		return errors.New("not signed in")
	}

	cyan := color.New(color.FgCyan)
	cyan.Fprintln(a.out, "Operator")
	cyan.Fprintln(a.out, "--------")
	fmt.Fprintf(a.out, "Username: %s\n", state.User.Username)
	fmt.Fprintf(a.out, "Email:    %s\n", state.User.Email)
	if state.User.Role != "" {
		fmt.Fprintf(a.out, "Role:     %s\n", state.User.Role)
	}
	if state.Claims != nil && !state.Claims.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Expires:  %s\n", humanize.Time(state.Claims.ExpiresAt))
	}
	return nil
}

func (a *app) cmdDashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(a.out)
	watch := fs.Bool("watch", false, "Refresh until interrupted")
	interval := fs.Duration("interval", a.cfg.Dashboard.Interval.Duration, "Refresh interval (with -watch)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snap := a.dashboard.Fetch(ctx)
	if !*watch {
		a.printSnapshot(snap)
		if snap.Failed() {
			return errors.Join(snap.Stats.Err, snap.Visitors.Err, snap.RegistrationTypes.Err, snap.Activity.Err)
		}
		return nil
	}

	redraw := func(s dashboard.Snapshot) {
		fmt.Fprint(a.out, "\033[H\033[2J")
		a.printSnapshot(s)
		fmt.Fprintf(a.out, "\n  [refreshing every %v - press Ctrl+C to stop]\n", *interval)
	}
	redraw(snap)
	dashboard.NewRefresher(a.dashboard, *interval, nil, redraw).Run(ctx)
	return nil
}

func (a *app) printSnapshot(s dashboard.Snapshot) {
	cyan := color.New(color.FgCyan)
	red := color.New(color.FgRed)
	gray := color.New(color.FgHiBlack)

	cyan.Fprintln(a.out, "Statistics")
	if s.Stats.OK() {
		fmt.Fprintf(a.out, "  Visitors:      %s\n", dashboard.Count(s.Stats.Data.TotalVisitors))
		fmt.Fprintf(a.out, "  Registrations: %s\n", dashboard.Count(s.Stats.Data.TotalRegistrations))
		fmt.Fprintf(a.out, "  Active users:  %s\n", dashboard.Count(s.Stats.Data.ActiveUsers))
	} else {
		red.Fprintf(a.out, "  unavailable: %v\n", s.Stats.Err)
	}
	fmt.Fprintln(a.out)

	cyan.Fprintln(a.out, "Visitors")
	if s.Visitors.OK() {
		tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		for _, p := range s.Visitors.Data {
			fmt.Fprintf(tw, "  %s\t%s\n", p.Name, dashboard.Count(p.Visitors))
		}
		_ = tw.Flush()
	} else {
		red.Fprintf(a.out, "  unavailable: %v\n", s.Visitors.Err)
	}
	fmt.Fprintln(a.out)

	cyan.Fprintln(a.out, "Registrations")
	if s.RegistrationTypes.OK() {
		total := dashboard.TotalRegistrations(s.RegistrationTypes.Data)
		tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		for _, t := range s.RegistrationTypes.Data {
			fmt.Fprintf(tw, "  %s\t%s\t%.0f%%\n", t.Name, dashboard.Count(t.Value), dashboard.Share(t.Value, total))
		}
		_ = tw.Flush()
		fmt.Fprintf(a.out, "  %s total\n", dashboard.Count(total))
	} else {
		red.Fprintf(a.out, "  unavailable: %v\n", s.RegistrationTypes.Err)
	}
	fmt.Fprintln(a.out)

	cyan.Fprintln(a.out, "Recent activity")
	switch {
	case !s.Activity.OK():
		red.Fprintf(a.out, "  unavailable: %v\n", s.Activity.Err)
	case len(s.Activity.Data) == 0:
		gray.Fprintln(a.out, "  nothing yet")
	default:
		for _, it := range s.Activity.Data {
			fmt.Fprintf(a.out, "  %s %s ", it.User, it.Action)
			gray.Fprintln(a.out, it.When)
		}
	}
}

func (a *app) cmdSpeakers(ctx context.Context) error {
	speakers, err := a.client.Speakers().List(ctx)
	if err != nil {
		return err
	}
	speakers = content.SortSpeakers(speakers)

	if len(speakers) == 0 {
		fmt.Fprintln(a.out, "No speakers.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tORDER\tNAME\tTITLE\tBLOG")
	for _, s := range speakers {
		order := "-"
		if s.Order != nil {
			order = fmt.Sprint(*s.Order)
		}
		blog := "hidden"
		if s.BlogVisible {
			blog = "visible"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, order, s.Name, s.Title, blog)
	}
	return tw.Flush()
}

func (a *app) cmdToggleBlog(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: confadmin-ctl toggle-blog <speaker-id>")
	}
	sp, err := a.client.ToggleBlog(ctx, args[0])
	if err != nil {
		return fmt.Errorf("%s", cms.Reason(err, "failed to toggle blog visibility"))
	}
	state := "hidden"
	if sp.BlogVisible {
		state = "visible"
	}
	fmt.Fprintf(a.out, "Blog for %s is now %s\n", sp.Name, state)
	return nil
}

func (a *app) cmdAnnounce(ctx context.Context, args []string) error {
	msg := content.Announcement{Message: strings.TrimSpace(strings.Join(args, " "))}
	if err := msg.Validate(); err != nil {
		return err
	}
	saved, err := a.client.Announcements().Create(ctx, msg)
	if err != nil {
		return fmt.Errorf("%s", cms.Reason(err, "failed to create announcement"))
	}
	color.New(color.FgGreen).Fprint(a.out, "✓ ")
	fmt.Fprintf(a.out, "Announcement created (%s)\n", saved.ID)
	return nil
}

func (a *app) cmdDates(ctx context.Context) error {
	dates, err := a.client.ImportantDates().List(ctx)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		fmt.Fprintln(a.out, "No important dates.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tWHEN")
	for _, d := range dates {
		when := d.RangeLabel()
		if when == "" {
			when = dateLabel(d.Date)
		}
		fmt.Fprintf(tw, "%s\t%s\n", d.Title, when)
	}
	return tw.Flush()
}

// dateLabel formats a calendar date or timestamp, or returns s as entered.
func dateLabel(s string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}
