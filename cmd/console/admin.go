package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/ShelterDesk/internal/client/console"
	"github.com/atinyakov/ShelterDesk/internal/client/screen"
	"github.com/atinyakov/ShelterDesk/internal/client/session"
)

const adminHelp = "Available commands: help, %s, add, edit <id>, delete <id>, logout, exit"

// dashboard looks screens up by collection name. *screen.Screens
// satisfies it.
type dashboard interface {
	Names() []string
	Get(name string) (screen.Screen, bool)
}

// terminal is the part of the console the shell reads commands with.
type terminal interface {
	Prompt(ctx context.Context, label string) (string, error)
	Alert(msg string)
}

// shell is the admin dashboard's command loop.
type shell struct {
	dash    dashboard
	term    terminal
	out     io.Writer
	log     *zap.Logger
	logout  func(ctx context.Context) error
	current string
}

func adminCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Open the admin dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a().admin(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) admin(ctx context.Context, out io.Writer) error {
	if a.auth.Nav(ctx).Role != session.Admin {
		ok, err := a.adminLogin(ctx)
		if err != nil || !ok {
			return err
		}
	}
	a.nav.Go(session.PageAdmin)

	sh := &shell{
		dash: a.screens,
		term: a.term,
		out:  out,
		log:  a.log,
		logout: func(ctx context.Context) error {
			_, err := a.auth.Logout(ctx)
			return err
		},
	}
	return sh.run(ctx)
}

// run shows the first screen and reads commands until exit, logout or the
// end of input.
func (s *shell) run(ctx context.Context) error {
	if names := s.dash.Names(); len(names) > 0 {
		if _, err := s.dispatch(ctx, []string{names[0]}); err != nil {
			return err
		}
	}
	for {
		line, err := s.term.Prompt(ctx, "shelter admin")
		if errors.Is(err, console.ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		done, err := s.dispatch(ctx, strings.Fields(line))
		if err != nil || done {
			return err
		}
	}
}

// dispatch runs one command. Screen failures are already on screen; only
// a closed input or a cancelled context stops the loop with an error.
func (s *shell) dispatch(ctx context.Context, args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}

	var err error
	switch cmd := strings.ToLower(args[0]); cmd {
	case "help":
		s.println(fmt.Sprintf(adminHelp, strings.Join(s.dash.Names(), ", ")))
		return false, nil
	case "exit", "quit":
		s.println("Bye")
		return true, nil
	case "logout":
		if err := s.logout(ctx); err != nil {
			return false, fmt.Errorf("logout: %w", err)
		}
		s.println("Signed out.")
		return true, nil
	case "add":
		scr, ok := s.screen()
		if !ok {
			return false, nil
		}
		err = scr.Add(ctx)
		if errors.Is(err, screen.ErrAddNotSupported) {
			s.term.Alert(fmt.Sprintf("New %s cannot be added here.", s.current))
			return false, nil
		}
	case "edit", "delete":
		if len(args) < 2 {
			s.println(fmt.Sprintf("Usage: %s <id>", cmd))
			return false, nil
		}
		scr, ok := s.screen()
		if !ok {
			return false, nil
		}
		if cmd == "edit" {
			err = scr.Edit(ctx, args[1])
		} else {
			err = scr.Delete(ctx, args[1])
		}
	default:
		scr, ok := s.dash.Get(cmd)
		if !ok {
			s.println("Unknown command. Type 'help' for a list of commands.")
			return false, nil
		}
		s.current = cmd
		err = scr.List(ctx)
	}
	return false, s.fatal(err)
}

func (s *shell) screen() (screen.Screen, bool) {
	scr, ok := s.dash.Get(s.current)
	if !ok {
		s.println("Pick a screen first: " + strings.Join(s.dash.Names(), ", "))
	}
	return scr, ok
}

func (s *shell) fatal(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, console.ErrInputClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	s.log.Debug("screen action failed", zap.String("screen", s.current), zap.Error(err))
	return nil
}

func (s *shell) println(line string) {
	_, _ = fmt.Fprintln(s.out, line)
}
