package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"oxy/internal/conn"
	"oxy/internal/services/stream"
	"oxy/internal/supervisor"
)

// RunServer derives the server keypair and serves until ctx is cancelled.
func (w *Wire) RunServer(ctx context.Context) error {
	keys, err := w.Identity.Derive(w.Config.Password)
	if err != nil {
		return fmt.Errorf("derive server keypair: %w", err)
	}
	srv := &supervisor.Server{
		Addr:             w.Config.Addr,
		Keys:             keys,
		NewHandler:       func() conn.Handler { return stream.Echo{} },
		Logger:           w.Logger,
		Metrics:          w.Metrics,
		MaxConns:         w.Config.MaxConns,
		HandshakeTimeout: w.Config.HandshakeTimeout,
	}
	return w.runWithAdmin(ctx, srv.ListenAndServe)
}

// RunClient connects to the server, sends each line of in as one message and
// writes every reply to out. It returns when the server closes the connection
// or, after in is exhausted, when ctx is cancelled.
func (w *Wire) RunClient(ctx context.Context, in io.Reader, out io.Writer) error {
	printer := stream.NewPrinter(out)
	loop, err := supervisor.Dial(ctx, supervisor.ClientConfig{
		Addr:     w.Config.Addr,
		Password: w.Config.Password,
		Identity: w.Identity,
		Handler:  printer,
		Logger:   w.Logger,
		Metrics:  w.Metrics,
	})
	if err != nil {
		return err
	}

	return w.runWithAdmin(ctx, func(ctx context.Context) error {
		errc := make(chan error, 1)
		go func() { errc <- loop.Run(ctx) }()

		select {
		case <-printer.Ready():
		case err := <-errc:
			return err
		}
		go pump(loop, in, w.Logger)
		if err := <-errc; !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}

func pump(loop *conn.Loop, in io.Reader, log *zap.Logger) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := loop.Send(sc.Bytes()); err != nil {
			log.Debug("stop reading input", zap.Error(err))
			return
		}
	}
	if err := sc.Err(); err != nil {
		log.Warn("read input", zap.Error(err))
	}
}

// runWithAdmin runs fn next to the admin endpoint, when one is configured.
// Cancelling ctx, or fn returning, stops both.
func (w *Wire) runWithAdmin(ctx context.Context, fn func(context.Context) error) error {
	if w.Admin == nil {
		return fn(ctx)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Admin.ListenAndServe(gctx, w.Config.MetricsAddr)
	})
	g.Go(func() error {
		err := fn(gctx)
		if err == nil {
			err = errStopped
		}
		return err
	})
	if err := g.Wait(); err != nil && !errors.Is(err, errStopped) {
		return err
	}
	return nil
}

var errStopped = errors.New("stopped")
