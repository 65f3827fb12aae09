package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/i3-app-list/i3-app-list/internal/daemon/names"
	"github.com/i3-app-list/i3-app-list/internal/daemon/watcher"
	"github.com/i3-app-list/i3-app-list/internal/models"
	"github.com/i3-app-list/i3-app-list/internal/wm"
)

// session is one connection to the window manager.
type session struct {
	wm      watcher.WindowManager
	events  watcher.EventSource
	close   func()
	version string
}

type dialFunc func(ctx context.Context, socket string) (*session, error)

func dialWM(ctx context.Context, socket string) (*session, error) {
	if socket == "" {
		var err error
		if socket, err = wm.SocketPath(ctx); err != nil {
			return nil, err
		}
	}
	client, err := wm.Dial(ctx, socket)
	if err != nil {
		return nil, err
	}
	version, err := client.GetVersion(ctx)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	sub, err := client.Subscribe(ctx, wm.EventWorkspace, wm.EventWindow, wm.EventShutdown)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return &session{
		wm:      client,
		events:  sub,
		version: version.HumanReadable,
		close: func() {
			_ = sub.Close()
			_ = client.Close()
		},
	}, nil
}

// Supervisor keeps a reconciler attached to the window manager,
// reconnecting with exponential backoff when the connection drops or the
// window manager restarts. Custom names survive reconnects.
type Supervisor struct {
	Socket  string
	Logger  *slog.Logger
	DryRun  bool
	Reloads <-chan *models.Settings

	// InitialInterval is the first retry delay.
	InitialInterval time.Duration
	// MaxElapsed bounds a run of failed reconnects. Zero retries forever.
	MaxElapsed time.Duration

	names *names.Store
	dial  dialFunc
}

// NewSupervisor creates a supervisor for the window manager at socket.
// An empty socket is resolved on every connect.
func NewSupervisor(socket string, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		Socket:          socket,
		Logger:          logger,
		InitialInterval: 500 * time.Millisecond,
		MaxElapsed:      2 * time.Minute,
		names:           names.NewStore(),
		dial:            dialWM,
	}
}

// Run reconciles until ctx is done or the window manager exits, both of
// which end the run cleanly. MaxElapsed applies to each run of failed
// dials, so a long session never counts against it.
func (s *Supervisor) Run(ctx context.Context, settings *models.Settings) error {
	current := settings
	for {
		var ended error
		err := s.connect(ctx, func(sess *session) error {
			rec, err := watcher.New(sess.wm, current, watcher.Options{
				Names:  s.names,
				Logger: s.Logger,
				DryRun: s.DryRun,
			})
			if err != nil {
				return err
			}
			ended = rec.Run(ctx, sess.events, s.Reloads)
			current = rec.Settings()
			return nil
		})
		if err == nil {
			err = ended
		}

		switch {
		case errors.Is(err, wm.ErrShutdown):
			s.Logger.Info("window manager exited")
			return nil
		case ctx.Err() != nil:
			return nil
		case ended == nil:
			return err
		}

		s.Logger.Warn("lost window manager connection", "error", err, "retry_in", s.InitialInterval)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.InitialInterval):
		}
	}
}

// connect dials with exponential backoff and hands the first session to
// serve. Dial failures are retried; an error from serve is returned as is.
func (s *Supervisor) connect(ctx context.Context, serve func(*session) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.InitialInterval
	b.MaxElapsedTime = s.MaxElapsed

	operation := func() error {
		sess, err := s.dial(ctx, s.Socket)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer sess.close()

		s.Logger.Info("connected to window manager", "socket", s.Socket, "version", sess.version)
		if err := serve(sess); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		s.Logger.Warn("cannot connect to window manager", "error", err, "retry_in", wait)
	}
	return backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
}
