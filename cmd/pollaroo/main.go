// Command pollaroo is a terminal client for a Pollaroo backend. It drives the
// SDK end to end: credentials persist in the user's config directory, so a
// login survives across invocations until logout or server-side revocation.
//
// Usage:
//
//	pollaroo [flags] <command> [command flags] [args]
//
// The backend is picked in order of precedence: the -base flag, the -profile
// flag (resolved against ~/.config/pollaroo/profiles.yaml), then the
// POLLAROO_BASE_URL environment variable or its default.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	pollaroo "github.com/pollaroo/pollaroo-go"
	"github.com/pollaroo/pollaroo-go/pkg/apiclient"
	"github.com/pollaroo/pollaroo-go/pkg/config"
	"github.com/pollaroo/pollaroo-go/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "pollaroo:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("pollaroo", flag.ContinueOnError)
	global.SetOutput(out)

	base := global.String("base", "", "API base URL, overrides profile and environment")
	profile := global.String("profile", "", "named profile from "+profilesPath())
	timeout := global.Duration("timeout", 0, "per-request timeout, overrides configuration")
	verbose := global.Bool("v", false, "debug logging on stderr")
	global.Usage = func() { usage(global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	app, err := buildApp(*base, *profile, *timeout, *verbose)
	if err != nil {
		return err
	}

	name, cmdArgs := rest[0], rest[1:]
	cmd, ok := commands[name]
	if !ok {
		global.Usage()
		return fmt.Errorf("unknown command %q", name)
	}
	if err := cmd.run(ctx, app, out, cmdArgs); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	return nil
}

type command struct {
	summary string
	run     func(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error
}

var commands = map[string]command{
	"login":    {"log in with a username or email", cmdLogin},
	"register": {"create an account and log in", cmdRegister},
	"logout":   {"log out and forget stored credentials", cmdLogout},
	"whoami":   {"show the logged-in user's profile", cmdWhoami},
	"update":   {"update profile fields", cmdUpdate},
	"polls":    {"list public polls, or your own with -mine", cmdPolls},
	"create":   {"create a poll: create -title ... -option A -option B", cmdCreate},
	"edit":     {"replace a poll you own: edit -title ... <poll-id>", cmdEdit},
	"delete":   {"delete a poll you own: delete <poll-id>", cmdDelete},
	"vote":     {"vote on a poll: vote <poll-id> <option-id>", cmdVote},
	"results":  {"show a poll's tally: results <poll-id>", cmdResults},
	"share":    {"show a poll's share link: share [-qr out.png] <poll-id>", cmdShare},
	"status":   {"inspect the stored access token", cmdStatus},
}

// commandOrder fixes the help listing; maps iterate randomly.
var commandOrder = []string{
	"login", "register", "logout", "whoami", "update",
	"polls", "create", "edit", "delete", "vote", "results", "share",
	"status",
}

func usage(global *flag.FlagSet) {
	out := global.Output()
	fmt.Fprintln(out, "Usage: pollaroo [flags] <command> [command flags] [args]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(out, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	global.PrintDefaults()
}

// buildApp resolves the backend configuration and assembles the SDK with
// persistent credentials, a short-lived GET cache, and idempotent retries.
func buildApp(base, profileName string, timeout time.Duration, verbose bool) (*pollaroo.App, error) {
	var cfg apiclient.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	if profileName != "" {
		file, err := config.LoadProfiles(profilesPath())
		if err != nil {
			return nil, fmt.Errorf("loading profiles: %w", err)
		}
		p, err := file.Resolve(profileName)
		if err != nil {
			return nil, err
		}
		cfg.BaseURL = p.BaseURL
		if p.Timeout > 0 {
			cfg.Timeout = p.Timeout
		}
	}
	if base != "" {
		cfg.BaseURL = base
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		log = logger.New(
			logger.WithDevelopment("pollaroo"),
			logger.WithOutput(os.Stderr),
		)
	}

	return pollaroo.New(cfg,
		pollaroo.WithLogger(log),
		pollaroo.WithPersistentTokens(),
		pollaroo.WithClientOptions(
			apiclient.WithCache(64, 30*time.Second),
			apiclient.WithRetry(3, 250*time.Millisecond),
		),
	)
}

func profilesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "profiles.yaml"
	}
	return filepath.Join(dir, "pollaroo", "profiles.yaml")
}
