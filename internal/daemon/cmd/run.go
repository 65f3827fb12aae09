package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/i3-app-list/i3-app-list/internal/config"
	"github.com/i3-app-list/i3-app-list/internal/daemon/watcher"
	"github.com/i3-app-list/i3-app-list/internal/models"
)

func run(ctx context.Context, o daemonOptions) error {
	settingsPath := o.configFile
	if settingsPath == "" {
		var err error
		if settingsPath, err = config.SettingsFile(); err != nil {
			return err
		}
	}

	// Invalid settings are fatal before anything starts.
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	o.override(settings)

	logPath := o.logFile
	switch logPath {
	case "-":
		logPath = ""
	case "":
		if logPath, err = config.LogFile(); err != nil {
			return err
		}
	}
	logger, closer, err := config.NewLogger(logPath, settings.Debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closer.Close()

	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon already running (PID %d)", info.PID)
	}

	logger.Info("--- starting ---", "pid", os.Getpid(), "settings", settingsPath, "dry_run", o.dryRun)
	defer logger.Info("--- exiting ---")

	daemonInfo := models.NewDaemonInfo(uuid.NewString(), os.Getpid(), settingsPath, o.socket)
	if err := config.SaveDaemonInfo(daemonInfo); err != nil {
		return fmt.Errorf("write daemon info: %w", err)
	}
	defer func() {
		if err := config.RemoveDaemonInfo(); err != nil {
			logger.Warn("failed to remove daemon info", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reloads := make(chan *models.Settings, 1)
	go forwardReloads(ctx, settingsPath, logger, o.override, reloads)

	sup := NewSupervisor(o.socket, logger)
	sup.DryRun = o.dryRun
	sup.Reloads = reloads
	if err := sup.Run(ctx, settings); err != nil {
		logger.Error("daemon stopped", "error", err)
		return err
	}
	return nil
}

// override applies command line flags on top of loaded settings.
func (o daemonOptions) override(s *models.Settings) {
	if o.debug {
		s.Debug = true
	}
}

// forwardReloads feeds settings changes into reloads, from file changes
// and from SIGHUP. Every reloaded settings value goes through override.
func forwardReloads(ctx context.Context, path string, logger *slog.Logger, override func(*models.Settings), reloads chan<- *models.Settings) {
	var fileReloads <-chan *models.Settings
	sw, err := watcher.NewSettingsWatcher(path, logger)
	if err == nil {
		err = sw.Start()
	}
	if err != nil {
		logger.Warn("not watching settings file", "path", path, "error", err)
	} else {
		defer sw.Stop()
		fileReloads = sw.Reloads()
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		var settings *models.Settings
		select {
		case <-ctx.Done():
			return
		case settings = <-fileReloads:
		case <-hup:
			s, err := config.LoadSettings(path)
			if err != nil {
				logger.Warn("ignoring settings", "path", path, "error", err)
				continue
			}
			settings = s
		}
		override(settings)
		select {
		case reloads <- settings:
		case <-ctx.Done():
			return
		}
	}
}
