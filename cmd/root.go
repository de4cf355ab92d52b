// Package cmd wires the cineconnect command tree: the interactive booking
// TUI at the root and one subcommand group per API resource.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cineconnect-cli/config"
	"cineconnect-cli/logging"
	"cineconnect-cli/model"
	"cineconnect-cli/service"
	"cineconnect-cli/session"
	"cineconnect-cli/store"
	"cineconnect-cli/tui"
)

const appName = "cineconnect"

// app is the process context built once before any command runs.
type app struct {
	cfg     config.Config
	log     *logrus.Logger
	closer  io.Closer
	client  *service.Client
	session *session.Session
	tokens  session.TokenStore

	version string
	commit  string
}

// Execute runs the command tree against os.Args and exits 1 on failure.
func Execute(version string, commit string) {
	root := NewRootCommand(version, commit)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", service.UserMessage(err))
		os.Exit(1)
	}
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand(version string, commit string) *cobra.Command {
	a := &app{version: version, commit: commit, tokens: store.FileSessionStore{}}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Cine Connect from the terminal",
		Long:          `Browse the showcase, pick seats and buy tickets, or manage the cinema catalog and reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, !cmd.HasParent())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closer != nil {
				_ = a.closer.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			program := tea.NewProgram(tui.New(tui.Deps{
				Client:  a.client,
				Session: a.session,
				Config:  a.cfg,
				Log:     a.log,
			}), tea.WithAltScreen())
			_, err := program.Run()
			return err
		},
	}

	root.AddCommand(
		a.versionCommand(),
		a.loginCommand(),
		a.registerCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.moviesCommand(),
		a.roomsCommand(),
		a.showtimesCommand(),
		a.bookingsCommand(),
		a.reportCommand(),
	)
	return root
}

// setup loads config, logging, the API client and the saved session.
func (a *app) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, closer, err := logging.New(cfg, interactive)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	a.cfg = cfg
	a.log = log
	a.closer = closer

	a.client = service.NewClient(
		&http.Client{Timeout: cfg.Timeout},
		service.WithBaseURL(cfg.APIURL),
		service.WithLogger(log),
	)
	a.session = session.New(a.client, a.tokens, session.WithLogger(log))
	a.client.SetTokenSource(a.session)
	a.client.SetUnauthorizedHandler(a.session.HandleUnauthorized)

	if cmd.Annotations[skipSession] == "true" {
		return nil
	}
	if err := a.session.Init(a.context(cmd)); err != nil {
		if errors.Is(err, session.ErrSessionExpired) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Your saved session expired, log in again.")
			return nil
		}
		log.WithError(err).Warn("continuing without a session")
	}
	return nil
}

// skipSession marks commands that must not touch the saved session before
// they run.
const skipSession = "cineconnect/skip-session"

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version number of cineconnect",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSession: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, a.version)
			if a.commit != "none" && a.commit != "" {
				fmt.Fprintf(out, " (%s)", a.commit)
			}
			fmt.Fprintln(out)
		},
	}
}

// requireAdmin is the guard of every back-office command.
func (a *app) requireAdmin() error {
	return a.require(model.RoleAdmin)
}

func (a *app) require(roles ...string) error {
	if _, err := a.session.Require(roles...); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			return fmt.Errorf("%w: run `%s login` first", err, appName)
		}
		return err
	}
	return nil
}

func (a *app) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
