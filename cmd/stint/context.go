package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"stint/internal/config"
	"stint/internal/logging"
	"stint/internal/notifications"
	"stint/internal/render"
	"stint/internal/schedule"
	"stint/internal/tracker"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// session bundles the collaborators a command needs for one invocation.
type session struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *schedule.Store
	formatter  *render.Formatter
	controller *tracker.Controller
}

// withSession opens the store, builds the controller around it, runs fn, and
// closes everything again. Each CLI invocation is one controller lifetime.
func (c *commandContext) withSession(ctx context.Context, fn func(context.Context, *session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	store, err := schedule.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	formatter, err := render.New(cfg)
	if err != nil {
		return err
	}

	controller, err := tracker.New(ctx, store, notifications.NewService(cfg), formatter, logger)
	if err != nil {
		return err
	}

	return fn(ctx, &session{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		formatter:  formatter,
		controller: controller,
	})
}
