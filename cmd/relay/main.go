// Command relay chats with a Flowise chatflow.
//
// Usage:
//
//	FLOWISE_URL=http://localhost:3000 FLOWISE_CHATFLOW_ID=... relay [command]
//
// Commands:
//
//	relay                  Interactive chat TUI
//	relay ask <question>   Ask one question and print the answer
//	relay serve            Run the HTTP proxy
//	relay history          Print the stored conversation of the session
//
// Configuration is read from flags, then FLOWISE_URL, FLOWISE_CHATFLOW_ID,
// FLOWISE_API_KEY and RELAY_LOG_LEVEL, then ~/.relay/config.yaml.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
