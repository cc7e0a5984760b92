package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: blogctl [--api URL] [--session FILE] <command> [flags] [args]

commands:
  register   --name --email --password --confirm
  login      --email --password
  logout
  whoami
  blogs      [--q TITLE]
  show       <id>
  comment    <id> <text>
  post       --title (--content HTML | --file PATH)
  edit       <id> --title (--content HTML | --file PATH)
  image      <path>
  profile
  avatar     <path>
  delete     <id>
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run executes one command. It is main without the process plumbing.
func run(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	global := newGlobalFlags()
	if err := global.Parse(args); err != nil {
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprint(out, usage)
		return nil
	}

	cfg, err := loadConfig(global)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	c, err := newCLI(ctx, cfg, out, logger)
	if err != nil {
		return err
	}

	return c.dispatch(ctx, rest[0], rest[1:])
}
