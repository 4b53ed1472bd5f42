package main

import (
	"github.com/fwojciec/relay/server"
	"github.com/spf13/cobra"
)

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP proxy in front of the chatflow",
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
			srv := server.New(client, client, client, server.WithLogger(logger))
			logger.Info("listening", "addr", addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":3001", "listen address")
	return cmd
}
