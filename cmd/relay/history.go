package main

import (
	"fmt"

	relayjson "github.com/fwojciec/relay/json"
	"github.com/spf13/cobra"
)

func (a *app) newHistoryCmd() *cobra.Command {
	var (
		sessionID string
		asTable   bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the upstream conversation of the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(a.stderr, a.cfg.LogLevel)
			if err != nil {
				return err
			}
			client, err := a.client(logger)
			if err != nil {
				return err
			}
			if sessionID == "" {
				session, err := relayjson.Load(a.cfg.SessionPath)
				if err != nil {
					return fmt.Errorf("load session: %w", err)
				}
				sessionID = session.ID
			}

			msgs, err := client.History(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Fprintln(a.stdout, "No messages.")
				return nil
			}
			if asTable {
				writeMessagesTable(a.stdout, msgs, terminalWidth(a.stdout))
				return nil
			}
			for _, m := range msgs {
				fmt.Fprintf(a.stdout, "%s: %s\n", m.Role, m.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "session id (default: the id in the session file)")
	cmd.Flags().BoolVar(&asTable, "table", false, "print the messages as a table")
	return cmd
}
