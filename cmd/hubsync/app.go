package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/spf13/viper"

	"github.com/hubtools/hubsync/internal/artifacts"
	"github.com/hubtools/hubsync/internal/client/config"
	"github.com/hubtools/hubsync/internal/hubsdk"
	"github.com/hubtools/hubsync/internal/sync"
	"github.com/hubtools/hubsync/internal/utils"
)

var (
	green = color.New(color.FgHiGreen).SprintFunc()
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
)

// app bundles the per-invocation state every command needs: validated
// config, the shared sync session, the hub client, and the working
// directory lock.
type app struct {
	cfg     *config.Config
	session *sync.Session
	hub     *hubsdk.Client
	lock    *flock.Flock
}

// newApp loads and validates configuration, locks the working directory
// against a second concurrent hubsync, and opens the sync session.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := utils.EnsureDir(cfg.StateDir()); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock working directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another hubsync is already syncing %s", cfg.Dir)
	}

	session, err := sync.NewSession(cfg.HashDBPath())
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		session: session,
		hub:     hubsdk.New(cfg.ServerURL, cfg.APIKey),
		lock:    lock,
	}, nil
}

func loadConfig() (*config.Config, error) {
	dir := viper.GetString("dir")

	path := viper.GetString("config")
	if path == "" {
		path = filepath.Join(dir, config.DefaultConfigPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	// flags and env override the config file
	cfg.Dir = dir
	if s := viper.GetString("server"); s != "" {
		cfg.ServerURL = s
	}
	if k := viper.GetString("api-key"); k != "" {
		cfg.APIKey = k
	}
	if n := viper.GetInt("concurrent-limit"); n > 0 {
		cfg.ConcurrentLimit = n
	}
	if n := viper.GetInt("page-limit"); n > 0 {
		cfg.PageLimit = n
	}
	cfg.ContinueOnError = viper.GetBool("continue-on-error")

	return cfg, nil
}

func (a *app) close() {
	if err := a.session.Close(); err != nil {
		slog.Warn("close session", "error", err)
	}
	if err := a.lock.Unlock(); err != nil {
		slog.Warn("unlock working directory", "error", err)
	}
}

func (a *app) options() sync.Options {
	return sync.Options{
		ConcurrentLimit: a.cfg.ConcurrentLimit,
		PageLimit:       a.cfg.PageLimit,
	}
}

func (a *app) engine(def artifacts.Definition) (*sync.Engine, error) {
	return artifacts.BuildEngine(def, a.cfg.Dir, a.hub, a.session, a.options())
}

// reportEvents prints per-item progress lines until the returned stop
// function is called, counting error events into errCount.
func (a *app) reportEvents(ctx context.Context, errCount *atomic.Int64) (stop func()) {
	events := a.session.Events.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				switch ev.Kind {
				case sync.EventPushedError, sync.EventPulledError, sync.EventDeletedError:
					errCount.Add(1)
					fmt.Printf("%s %s/%s: %v\n", red(string(ev.Kind)), ev.Type, ev.Name, ev.Err)
				default:
					fmt.Printf("%s %s/%s\n", green(string(ev.Kind)), ev.Type, ev.Name)
				}
			}
		}
	}()

	return func() {
		a.session.Events.Unsubscribe(events)
		<-done
	}
}
