package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	pollaroo "github.com/pollaroo/pollaroo-go"
	"github.com/pollaroo/pollaroo-go/pkg/apiclient"
	"github.com/pollaroo/pollaroo-go/pkg/async"
	"github.com/pollaroo/pollaroo-go/pkg/session"
	"github.com/pollaroo/pollaroo-go/pkg/share"
)

func cmdLogin(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(out)
	user := fs.String("user", "", "username or email")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return errors.New("login: -user is required")
	}
	if *password == "" {
		p, err := promptSecret(out, "Password")
		if err != nil {
			return err
		}
		*password = p
	}

	if err := app.Session.Login(ctx, *user, *password); err != nil {
		return sessionErr(app.Session, err)
	}
	snap := app.Session.Snapshot()
	fmt.Fprintf(out, "Logged in as %s.\n", snap.User.Username)
	return nil
}

func cmdRegister(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(out)
	user := fs.String("user", "", "username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" || *email == "" {
		return errors.New("register: -user and -email are required")
	}
	if *password == "" {
		p, err := promptSecret(out, "Password")
		if err != nil {
			return err
		}
		confirm, err := promptSecret(out, "Confirm password")
		if err != nil {
			return err
		}
		if p != confirm {
			return errors.New("register: passwords do not match")
		}
		*password = p
	}

	req := apiclient.RegisterRequest{
		Username:        *user,
		Email:           *email,
		Password:        *password,
		PasswordConfirm: *password,
	}
	if err := app.Session.Register(ctx, req); err != nil {
		return sessionErr(app.Session, err)
	}
	snap := app.Session.Snapshot()
	fmt.Fprintf(out, "Account created. Logged in as %s.\n", snap.User.Username)
	return nil
}

func cmdLogout(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	if len(args) > 0 {
		return errors.New("logout: takes no arguments")
	}
	if err := app.Session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}

func cmdWhoami(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	if len(args) > 0 {
		return errors.New("whoami: takes no arguments")
	}
	if err := app.Session.LoadUser(ctx); err != nil {
		if apiclient.IsUnauthorized(err) {
			return errors.New("not logged in (session expired)")
		}
		return sessionErr(app.Session, err)
	}
	snap := app.Session.Snapshot()
	if !snap.Authenticated() {
		return errors.New("not logged in")
	}

	u := snap.User
	fmt.Fprintf(out, "Username:  %s\n", u.Username)
	fmt.Fprintf(out, "Email:     %s\n", u.Email)
	if u.FullName != "" {
		fmt.Fprintf(out, "Name:      %s\n", u.FullName)
	}
	if u.Bio != "" {
		fmt.Fprintf(out, "Bio:       %s\n", u.Bio)
	}
	if !u.DateJoined.IsZero() {
		fmt.Fprintf(out, "Joined:    %s\n", u.DateJoined.Local().Format("2006-01-02"))
	}
	return nil
}

func cmdUpdate(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(out)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email address")
	bio := fs.String("bio", "", "profile bio")
	avatar := fs.String("avatar", "", "avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only flags the user actually passed become part of the update, so an
	// empty -bio clears the bio while an omitted one leaves it alone.
	var update apiclient.ProfileUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "first":
			update.FirstName = first
		case "last":
			update.LastName = last
		case "email":
			update.Email = email
		case "bio":
			update.Bio = bio
		case "avatar":
			update.Avatar = avatar
		}
	})
	if update == (apiclient.ProfileUpdate{}) {
		return errors.New("update: nothing to change, pass at least one field flag")
	}

	if err := app.Session.UpdateProfile(ctx, update); err != nil {
		return sessionErr(app.Session, err)
	}
	fmt.Fprintln(out, "Profile updated.")
	return nil
}

func cmdPolls(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("polls", flag.ContinueOnError)
	fs.SetOutput(out)
	search := fs.String("search", "", "match against title and description")
	status := fs.String("status", "", "filter by lifecycle: active or expired")
	mine := fs.Bool("mine", false, "list your own polls, including private ones")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		polls []apiclient.Poll
		err   error
	)
	if *mine {
		polls, err = app.Client.MyPolls(ctx)
	} else {
		polls, err = app.Client.ListPolls(ctx, apiclient.PollFilter{
			Search: *search,
			Status: apiclient.PollStatus(*status),
		})
	}
	if err != nil {
		return err
	}
	if len(polls) == 0 {
		fmt.Fprintln(out, "No polls found.")
		return nil
	}

	fmt.Fprintf(out, "%-5s %-6s %-8s %s\n", "ID", "VOTES", "STATE", "TITLE")
	for _, p := range polls {
		state := "active"
		if p.IsExpired {
			state = "expired"
		} else if !p.IsActive {
			state = "closed"
		}
		title := p.Title
		if !p.IsPublic {
			title += " (private)"
		}
		fmt.Fprintf(out, "%-5d %-6d %-8s %s\n", p.ID, p.TotalVotes, state, title)
	}
	return nil
}

func cmdCreate(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(out)
	title := fs.String("title", "", "poll title")
	description := fs.String("description", "", "poll description")
	private := fs.Bool("private", false, "hide the poll from public listings")
	expires := fs.Duration("expires", 0, "close the poll after this duration, e.g. 72h (0 = never)")
	var options optionList
	fs.Var(&options, "option", "a votable choice; repeat for each option (2 to 10)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *title == "" {
		return errors.New("create: -title is required")
	}

	req := apiclient.CreatePollRequest{
		Title:       *title,
		Description: *description,
		Options:     options,
	}
	if *private {
		public := false
		req.IsPublic = &public
	}
	if *expires > 0 {
		at := time.Now().Add(*expires)
		req.ExpiresAt = &at
	}

	created, err := app.Client.CreatePoll(ctx, req)
	if err != nil {
		return err
	}

	// The create response echoes attributes without an ID; the poll list is
	// the authority for the assigned one.
	if id, ok := findPollID(ctx, app.Client, created.Title); ok {
		fmt.Fprintf(out, "Created poll #%d: %s\n", id, created.Title)
	} else {
		fmt.Fprintf(out, "Created poll: %s\n", created.Title)
	}
	return nil
}

func cmdEdit(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(out)
	title := fs.String("title", "", "poll title")
	description := fs.String("description", "", "poll description")
	private := fs.Bool("private", false, "hide the poll from public listings")
	expires := fs.Duration("expires", 0, "close the poll after this duration (0 = never)")
	var options optionList
	fs.Var(&options, "option", "a votable choice; repeat for each option (replaces all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := pollIDArg(fs.Args(), "edit")
	if err != nil {
		return err
	}
	if *title == "" {
		return errors.New("edit: -title is required")
	}

	req := apiclient.CreatePollRequest{
		Title:       *title,
		Description: *description,
		Options:     options,
	}
	if *private {
		public := false
		req.IsPublic = &public
	}
	if *expires > 0 {
		at := time.Now().Add(*expires)
		req.ExpiresAt = &at
	}

	updated, err := app.Client.UpdatePoll(ctx, id, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated poll #%d: %s\n", id, updated.Title)
	return nil
}

func cmdDelete(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	id, err := pollIDArg(args, "delete")
	if err != nil {
		return err
	}
	if err := app.Client.DeletePoll(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted poll #%d.\n", id)
	return nil
}

func cmdVote(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	if len(args) != 2 {
		return errors.New("vote: expected <poll-id> <option-id>")
	}
	pollID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("vote: invalid poll id %q", args[0])
	}
	optionID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("vote: invalid option id %q", args[1])
	}

	if err := app.Client.Vote(ctx, pollID, optionID); err != nil {
		return err
	}
	fmt.Fprintln(out, "Vote recorded.")
	return nil
}

func cmdResults(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	id, err := pollIDArg(args, "results")
	if err != nil {
		return err
	}

	// Detail and tally are independent reads; fetch them together.
	detail := async.Run(ctx, func(ctx context.Context) (*apiclient.PollDetail, error) {
		return app.Client.GetPoll(ctx, id)
	})
	tally := async.Run(ctx, func(ctx context.Context) (*apiclient.PollResults, error) {
		return app.Client.Results(ctx, id)
	})

	poll, err := detail.Await()
	if err != nil {
		return err
	}
	results, err := tally.Await()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (by %s)\n", results.Title, poll.Creator)
	if results.Description != "" {
		fmt.Fprintln(out, results.Description)
	}
	if poll.ExpiresAt != nil {
		verb := "expires"
		if poll.IsExpired {
			verb = "expired"
		}
		fmt.Fprintf(out, "%s %s\n", verb, poll.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(out, "%d votes\n\n", results.TotalVotes)

	for _, opt := range results.Options {
		bar := strings.Repeat("#", int(opt.VotePercentage/5+0.5))
		fmt.Fprintf(out, "  %-30s %4d  %5.1f%%  %s\n", opt.Text, opt.VoteCount, opt.VotePercentage, bar)
	}
	return nil
}

func cmdShare(ctx context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("share", flag.ContinueOnError)
	fs.SetOutput(out)
	qrPath := fs.String("qr", "", "write the link as a QR code PNG to this path")
	size := fs.Int("size", 0, "QR image edge length in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := pollIDArg(fs.Args(), "share")
	if err != nil {
		return err
	}

	info, err := app.Client.ShareLink(ctx, id)
	if err != nil {
		return err
	}
	if _, err := share.ValidateLink(info.ShareURL); err != nil {
		return fmt.Errorf("server returned an unusable share link: %w", err)
	}

	fmt.Fprintf(out, "%s\n%s\n", info.Title, info.ShareURL)

	if *qrPath != "" {
		png, err := share.QR(info.ShareURL, *size)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*qrPath, png, 0o644); err != nil {
			return fmt.Errorf("writing QR image: %w", err)
		}
		fmt.Fprintf(out, "QR code saved to %s\n", *qrPath)
	}
	return nil
}

func cmdStatus(_ context.Context, app *pollaroo.App, out io.Writer, args []string) error {
	if len(args) > 0 {
		return errors.New("status: takes no arguments")
	}

	info, err := app.Client.TokenInfo()
	if errors.Is(err, apiclient.ErrNoToken) {
		return errors.New("no stored session")
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Backend:   %s\n", app.Client.Origin())
	fmt.Fprintf(out, "User ID:   %d\n", info.UserID)
	fmt.Fprintf(out, "Token:     %s (%s)\n", info.ID, info.TokenType)
	if !info.IssuedAt.IsZero() {
		fmt.Fprintf(out, "Issued:    %s\n", info.IssuedAt.Local().Format(time.RFC3339))
	}
	if !info.ExpiresAt.IsZero() {
		state := "valid"
		if info.Expired() {
			state = "EXPIRED"
		}
		fmt.Fprintf(out, "Expires:   %s (%s)\n", info.ExpiresAt.Local().Format(time.RFC3339), state)
	}
	return nil
}

// optionList collects repeated -option flags.
type optionList []string

func (o *optionList) String() string { return strings.Join(*o, ", ") }

func (o *optionList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errors.New("option text cannot be empty")
	}
	*o = append(*o, v)
	return nil
}

// pollIDArg parses the single positional poll ID of a command.
func pollIDArg(args []string, cmd string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: expected <poll-id>", cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid poll id %q", cmd, args[0])
	}
	return id, nil
}

// findPollID looks up the newest of the caller's polls with the given title.
func findPollID(ctx context.Context, client *apiclient.Client, title string) (int64, bool) {
	polls, err := client.MyPolls(ctx)
	if err != nil {
		return 0, false
	}
	var id int64
	found := false
	for _, p := range polls {
		if p.Title == title && p.ID > id {
			id = p.ID
			found = true
		}
	}
	return id, found
}

// sessionErr prefers the store's user-facing message over the raw API error.
func sessionErr(s *session.Store, err error) error {
	if msg := s.Snapshot().Err; msg != "" {
		return errors.New(msg)
	}
	return err
}

// promptSecret reads one line from stdin. The terminal echoes the input;
// passing -password avoids the prompt in scripts.
func promptSecret(out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	secret := strings.TrimSpace(line)
	if secret == "" {
		return "", errors.New("empty input")
	}
	return secret, nil
}
