// Command dosactl places orders and contact messages against the DosaDelight
// API and gives admins a terminal view of submissions.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dosadelight/internal/apiclient"
	"dosadelight/internal/config"

	"github.com/rs/zerolog"
)

const usage = `usage: dosactl <command> [flags]

commands:
  order      place an order from -item flags and customer details
  contact    send a contact form message
  contacts   list contact submissions (admin)
  orders     list stored orders as JSON (admin)
  replay     resend orders saved locally while the API was down
`

// env carries what every command needs.
type env struct {
	cfg    *config.ClientConfig
	client *apiclient.Client
	logger zerolog.Logger
	out    io.Writer
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "dosactl")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := &env{
		cfg:    cfg,
		client: apiclient.New(cfg.APIURL, logger, apiclient.WithAPIKey(cfg.AdminAPIKey)),
		logger: logger,
		out:    out,
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "order":
		return e.order(ctx, rest)
	case "contact":
		return e.contact(ctx, rest)
	case "contacts":
		return e.contacts(ctx, rest)
	case "orders":
		return e.orders(ctx, rest)
	case "replay":
		return e.replay(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
