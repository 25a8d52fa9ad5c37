// ABOUTME: Command line client for the conference CMS
// ABOUTME: Signs in, reads the dashboard and performs quick edits through the API client

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/confadmin/internal/auth"
	"github.com/2389/confadmin/internal/cms"
	"github.com/2389/confadmin/internal/dashboard"
	"github.com/2389/confadmin/internal/session"
)

const banner = `
                   __           _           _                  _   _
  ___ ___  _ __  / _| __ _  __| |_ __ ___ (_)_ __         ___| |_| |
 / __/ _ \| '_ \| |_ / _' |/ _' | '_ ' _ \| | '_ \ _____ / __| __| |
| (_| (_) | | | |  _| (_| | (_| | | | | | | | | | |_____| (__| |_| |
 \___\___/|_| |_|_|  \__,_|\__,_|_| |_| |_|_|_| |_|      \___|\__|_|
`

// app is one invocation of the CLI.
type app struct {
	cfg       *Config
	tokens    session.Store
	client    *cms.Client
	gate      *auth.Gate
	dashboard *dashboard.Service

	in  *bufio.Reader
	out io.Writer
}

func newApp(cfg *Config, in io.Reader, out io.Writer) *app {
	tokens := session.NewFileStore(cfg.Auth.TokenFile)
	client := cms.New(cfg.Backend.URL, tokens, cms.WithTimeout(cfg.Backend.Timeout.Duration))
	return &app{
		cfg:       cfg,
		tokens:    tokens,
		client:    client,
		gate:      auth.NewGate(tokens, client),
		dashboard: dashboard.NewService(client),
		in:        bufio.NewReader(in),
		out:       out,
	}
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := Load(configPath())
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if os.Args[1] == "help" || os.Args[1] == "-h" || os.Args[1] == "--help" {
		printUsage()
		return
	}

	a := newApp(cfg, os.Stdin, os.Stdout)
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		color.Red("Error: %v\n", err)
		if cms.IsUnauthorized(err) {
			fmt.Fprintln(os.Stderr, "Run `confadmin-ctl login` to sign in again.")
		}
		os.Exit(1)
	}
}

// errUnknownCommand is returned by run for commands it does not know.
type errUnknownCommand string

func (e errUnknownCommand) Error() string {
	return fmt.Sprintf("unknown command: %s", string(e))
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout(ctx)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "dashboard":
		return a.cmdDashboard(ctx, args)
	case "speakers":
		return a.cmdSpeakers(ctx)
	case "toggle-blog":
		return a.cmdToggleBlog(ctx, args)
	case "announce":
		return a.cmdAnnounce(ctx, args)
	case "dates":
		return a.cmdDates(ctx)
	default:
		return errUnknownCommand(cmd)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: confadmin-ctl <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  login [-email E]          Sign in and store the credential")
	fmt.Println("  logout                    Forget the stored credential")
	fmt.Println("  whoami                    Show the signed-in operator")
	fmt.Println("  dashboard [-watch]        Show conference statistics")
	fmt.Println("  speakers                  List speakers")
	fmt.Println("  toggle-blog <speaker-id>  Show or hide a speaker's blog")
	fmt.Println("  announce <message>        Publish an announcement")
	fmt.Println("  dates                     List important dates")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  CONFADMIN_BACKEND         CMS backend URL (overrides ctl.toml)")
	fmt.Println("  CONFADMIN_TOKEN           Bearer credential (overrides the token file)")
	fmt.Println("  CONFADMIN_PASSWORD        Password for login")
	fmt.Println()
	yellow.Println("Config:")
	fmt.Printf("  %s\n", configPath())
	fmt.Println()
}
