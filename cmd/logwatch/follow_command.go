package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"logwatch/internal/api"
	"logwatch/internal/logging"
	"logwatch/internal/watcher"
)

// lineWriter serializes output from the follower goroutine and the command.
type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lineWriter) println(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, line)
}

func newFollowCommand(ctx *commandContext) *cobra.Command {
	var count int
	var file string
	var remote bool

	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Print recent lines, then stream new lines until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if remote {
				return followRemote(signalCtx, ctx, cmd, count)
			}
			return followLocal(signalCtx, ctx, cmd, file, count)
		},
	}

	cmd.Flags().IntVarP(&count, "lines", "n", watcher.DefaultReplayLines, "Number of recent lines to print first (the daemon caps remote requests at 5000)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Follow this file instead of the configured watch_file")
	cmd.Flags().BoolVar(&remote, "remote", false, "Stream from the running daemon instead of reading the file")
	cmd.MarkFlagsMutuallyExclusive("file", "remote")
	return cmd
}

func followLocal(runCtx context.Context, ctx *commandContext, cmd *cobra.Command, file string, count int) error {
	path, err := ctx.watchPath(file)
	if err != nil {
		return err
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Level: "warn", Outputs: []string{"stderr"}})
	if err != nil {
		return err
	}

	out := &lineWriter{w: cmd.OutOrStdout()}
	w := watcher.New(path, watcher.Options{PollInterval: cfg.PollInterval(), PollOnly: cfg.Tail.PollOnly, Logger: logger})
	w.Subscribe(out.println)

	// Hold the writer until the backfill is printed so live lines follow it.
	out.mu.Lock()
	if err := w.Start(runCtx); err != nil {
		out.mu.Unlock()
		return err
	}
	defer w.Stop()
	for _, line := range w.LastLines(count) {
		fmt.Fprintln(out.w, line)
	}
	out.mu.Unlock()

	<-runCtx.Done()
	return nil
}

func followRemote(runCtx context.Context, ctx *commandContext, cmd *cobra.Command, count int) error {
	client, err := ctx.apiClient()
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(runCtx, client.StreamURL(), client.AuthHeader())
	if err != nil {
		return wrapDialError(err, client.BaseURL())
	}
	defer conn.Close()

	go func() {
		<-runCtx.Done()
		_ = conn.Close()
	}()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	backfilled := false
	for {
		var msg api.StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if runCtx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return fmt.Errorf("stream closed: %s", closeErr.Text)
			}
			return fmt.Errorf("read stream: %w", err)
		}
		if msg.Dropped > 0 {
			fmt.Fprintf(errOut, "warn: %d lines dropped by the daemon\n", msg.Dropped)
		}
		switch msg.Type {
		case api.MessageBackfill:
			// The daemon sizes its backfill from replay_lines, so the requested
			// count is fetched separately once the stream is open. A line
			// written in between may print twice.
			if backfilled {
				continue
			}
			backfilled = true
			if count <= 0 {
				continue
			}
			lines, err := client.Lines(runCtx, count)
			if err != nil {
				return fmt.Errorf("fetch recent lines: %w", err)
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
		case api.MessageLine:
			fmt.Fprintln(out, msg.Line)
		}
	}
}
