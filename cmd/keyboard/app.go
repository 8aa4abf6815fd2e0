package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/anaradzetski/keyboard"
	"github.com/anaradzetski/keyboard/internal/config"
	"github.com/anaradzetski/keyboard/internal/logging"
	"github.com/anaradzetski/keyboard/pkg/adapters/file"
	"github.com/anaradzetski/keyboard/pkg/adapters/redis"
	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/ports"
	"github.com/anaradzetski/keyboard/pkg/registry"
)

// app carries what every command needs: resolved settings, a logger and the
// resources to release on exit.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	closers []func() error
}

func setup(cmd *cobra.Command, args []string) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cmd.Flags(), cfgFile)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Menu = args[0]
	}
	if cfg.Menu == "" {
		return nil, errors.New("no menu document: pass it as an argument or with --menu")
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		logger: logging.NewWriter(os.Stderr, level, logging.Format(cfg.Log.Format)),
	}, nil
}

// Close releases stores and connections opened by the app.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Failed to release resource", "err", err)
		}
	}
}

// actionSet holds the handlers menu documents can reference with !action.
type actionSet struct {
	reg *registry.Registry
	kb  *keyboard.Engine
}

func (a *app) builtinActions() *actionSet {
	acts := &actionSet{reg: registry.NewRegistry()}
	acts.reg.Register("log", func(ctx context.Context, ev domain.Event) error {
		a.logger.Info("Menu action", "session_id", ev.SessionID, "address", ev.Address.String(), "label", ev.Label)
		return nil
	})
	acts.reg.Register("end", func(ctx context.Context, ev domain.Event) error {
		if acts.kb == nil {
			return errors.New("engine is not ready")
		}
		return acts.kb.End(ctx, ev.SessionID)
	})
	return acts
}

// load parses the menu document with the built-in actions.
func (a *app) load() (*file.Document, *actionSet, error) {
	acts := a.builtinActions()
	doc, err := file.Load(a.cfg.Menu, acts.reg)
	if err != nil {
		return nil, nil, err
	}
	return doc, acts, nil
}

// engine compiles doc with the configured session store.
func (a *app) engine(ctx context.Context, doc *file.Document, acts *actionSet, gw ports.Gateway, extra ...keyboard.Option) (*keyboard.Engine, error) {
	opts := []keyboard.Option{
		keyboard.WithLogger(a.logger),
		keyboard.WithGateway(gw),
	}

	if a.cfg.Redis.URL != "" {
		store, locker, err := a.redis(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, keyboard.WithStore(store))
		if locker != nil {
			opts = append(opts, keyboard.WithLocker(locker))
		}
	}

	kb, err := doc.Engine(append(opts, extra...)...)
	if err != nil {
		return nil, err
	}
	acts.kb = kb
	return kb, nil
}

// open loads and compiles the menu in one go.
func (a *app) open(ctx context.Context, gw ports.Gateway, extra ...keyboard.Option) (*keyboard.Engine, error) {
	doc, acts, err := a.load()
	if err != nil {
		return nil, err
	}
	return a.engine(ctx, doc, acts, gw, extra...)
}

func (a *app) redis(ctx context.Context) (*redis.Store, ports.DistributedLocker, error) {
	opt, err := backend.ParseURL(a.cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := backend.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	storeOpts := []redis.Option{redis.WithPrefix(a.cfg.Redis.Prefix)}
	if a.cfg.Redis.TTL > 0 {
		storeOpts = append(storeOpts, redis.WithTTL(a.cfg.Redis.TTL))
	}
	store := redis.NewFromClient(client, storeOpts...)
	a.closers = append(a.closers, store.Close)
	a.logger.Debug("Sessions kept in Redis", "addr", opt.Addr, "prefix", a.cfg.Redis.Prefix)

	if !a.cfg.Redis.Lock {
		return store, nil, nil
	}
	return store, redis.NewLocker(client, a.cfg.Redis.Prefix), nil
}
