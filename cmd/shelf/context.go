package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"shelf/internal/catalog"
	"shelf/internal/config"
	"shelf/internal/logging"
	"shelf/internal/snapshot"
)

type commandContext struct {
	configFlag  *string
	dataFlag    *string
	backendFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, dataFlag, backendFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		dataFlag:    dataFlag,
		backendFlag: backendFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
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

// applyOverrides folds --data and --backend into the loaded config.
func (c *commandContext) applyOverrides(cfg *config.Config) error {
	if data := flagValue(c.dataFlag); data != "" {
		expanded, err := config.ExpandPath(data)
		if err != nil {
			return fmt.Errorf("resolve data path: %w", err)
		}
		cfg.Storage.Path = expanded
	}
	if backend := flagValue(c.backendFlag); backend != "" {
		cfg.Storage.Backend = strings.ToLower(backend)
	}
	return cfg.Validate()
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

// session is one CLI invocation working on the data file: the loaded
// catalog, the backend it came from, and the lock held until close.
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	backend   snapshot.Backend
	lock      *snapshot.Lock
	store     *catalog.Store
}

func (c *commandContext) openSession(ctx context.Context, command string) (_ *session, err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		if err != nil {
			_ = logCloser.Close()
		}
	}()
	logger = logger.With(logging.Args(
		logging.String(logging.FieldSessionID, uuid.NewString()),
		logging.String(logging.FieldCommand, command),
	)...)

	var lock *snapshot.Lock
	if cfg.Storage.Lock {
		lock, err = snapshot.AcquireLock(cfg.LockPath())
		if err != nil {
			logger.Warn("data file locked", logging.Args(
				logging.String(logging.FieldPath, cfg.LockPath()),
				logging.Error(err),
			)...)
			return nil, err
		}
	}
	defer func() {
		if err != nil {
			_ = lock.Release()
		}
	}()

	backend, err := snapshot.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := catalog.Open(ctx, backend)
	if err != nil {
		logger.Error("library load failed", logging.Error(err))
		if errors.Is(err, snapshot.ErrMalformed) {
			return nil, fmt.Errorf("%w; fix or move the file before running shelf again", err)
		}
		return nil, err
	}

	logger.Debug("session opened", logging.Args(
		logging.String(logging.FieldPath, backend.Path()),
		logging.String("backend", backend.Name()),
		logging.Int("records", store.Len()),
		logging.Bool("locked", lock != nil),
	)...)

	return &session{
		cfg:       cfg,
		logger:    logger,
		logCloser: logCloser,
		backend:   backend,
		lock:      lock,
		store:     store,
	}, nil
}

func (c *commandContext) withSession(cmd *cobra.Command, fn func(*session) error) error {
	sess, err := c.openSession(cmd.Context(), cmd.Name())
	if err != nil {
		return err
	}
	defer sess.close()
	return fn(sess)
}

func (s *session) save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.backend); err != nil {
		s.logger.Error("library save failed", logging.Error(err))
		return err
	}
	return nil
}

func (s *session) close() {
	if err := s.lock.Release(); err != nil {
		s.logger.Warn("release lock failed", logging.Error(err))
	}
	s.logger.Debug("session closed")
	_ = s.logCloser.Close()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
