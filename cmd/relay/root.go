package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/relay"
	bt "github.com/fwojciec/relay/bubbletea"
	"github.com/fwojciec/relay/flowise"
	relayjson "github.com/fwojciec/relay/json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by the command tree.
type app struct {
	v      *viper.Viper
	cfg    Config
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "relay",
		Short: "Chat with a Flowise chatflow",
		Long: `Relay streams answers from a Flowise chatflow, recovering readable text
from whichever stream format the upstream emits.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if err := readConfigFile(a.v, path); err != nil {
				return err
			}
			cfg, err := loadConfig(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	bindFlags(a.v, root.PersistentFlags())

	root.AddCommand(a.newAskCmd(), a.newServeCmd(), a.newHistoryCmd())
	return root
}

// client validates the configuration and builds a Flowise client logging
// to logger.
func (a *app) client(logger *slog.Logger) (*flowise.Client, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	opts := []flowise.Option{flowise.WithLogger(logger)}
	if a.cfg.APIKey != "" {
		opts = append(opts, flowise.WithAPIKey(a.cfg.APIKey))
	}
	return flowise.New(a.cfg.URL, a.cfg.ChatflowID, opts...), nil
}

func (a *app) runTUI(ctx context.Context) error {
	f, err := openLogFile(a.cfg.LogFile)
	if err != nil {
		return err
	}
	defer f.Close()
	logger, err := newLogger(f, a.cfg.LogLevel)
	if err != nil {
		return err
	}

	client, err := a.client(logger)
	if err != nil {
		return err
	}
	session, err := relayjson.LoadOrCreate(a.cfg.SessionPath)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	loop := relay.NewLoop(client)
	sessionPath := a.cfg.SessionPath
	predict := func(ctx context.Context, s *relay.Session, question string, onSnapshot func(relay.Snapshot)) error {
		runErr := loop.Run(ctx, s, question, relay.WithSnapshotHandler(onSnapshot))
		if err := relayjson.Save(sessionPath, *s); err != nil {
			logger.Error("save session", "path", sessionPath, "error", err)
		}
		return runErr
	}

	m := bt.New(predict, &session, relay.DefaultTheme(), bt.WithHistory(client.History))
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}
