package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/0xcro3dile/makanapa-go/internal/domain/ports"
	"github.com/0xcro3dile/makanapa-go/internal/logging"
)

// Starter runs until ctx is canceled.
type Starter interface {
	Start(ctx context.Context) error
}

// HTTPServerService adapts the HTTP server to suture.Service.
type HTTPServerService struct {
	server Starter
}

// NewHTTPServerService wraps server.
func NewHTTPServerService(server Starter) *HTTPServerService {
	return &HTTPServerService{server: server}
}

// Serve implements suture.Service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	if err := h.server.Start(ctx); err != nil {
		return fmt.Errorf("http server failed: %w", err)
	}
	return ctx.Err()
}

func (h *HTTPServerService) String() string { return "http-server" }

// debounce collapses the burst of events editors produce for one save.
const debounce = 250 * time.Millisecond

// ConfigWatcherService calls reload whenever the config file changes.
type ConfigWatcherService struct {
	path    string
	watcher ports.FileWatcher
	reload  func() error
}

// NewConfigWatcherService watches path with watcher.
func NewConfigWatcherService(path string, watcher ports.FileWatcher, reload func() error) *ConfigWatcherService {
	return &ConfigWatcherService{path: path, watcher: watcher, reload: reload}
}

// Serve implements suture.Service.
func (c *ConfigWatcherService) Serve(ctx context.Context) error {
	events, err := c.watcher.Watch(ctx, c.path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", c.path, err)
	}
	logging.Info().Str("path", c.path).Msg("Watching config file")

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("config watcher for %s closed", c.path)
			}
			if ev.Operation == ports.FileDeleted {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			if err := c.reload(); err != nil {
				logging.Warn().Err(err).Str("path", c.path).Msg("Config reload failed; keeping current settings")
				continue
			}
			logging.Info().Str("path", c.path).Msg("Config reloaded")
		}
	}
}

func (c *ConfigWatcherService) String() string { return "config-watcher" }
