package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// reloadDebounce coalesces the burst of events editors and config-map
// updates produce for a single save.
const reloadDebounce = 200 * time.Millisecond

// ConfigWatcher reloads the config file on change and fans the new Config out
// to registered callbacks. Callbacks act only on settings that can change at
// runtime: the log level and the backend endpoint lists.
type ConfigWatcher struct {
	config     *Config
	configPath string
	logger     logger.Logger
	debounce   time.Duration
	mu         sync.RWMutex
	watchers   []func(*Config)
	stopCh     chan struct{}
	stopOnce   sync.Once
}

func NewConfigWatcher(configPath string, initial *Config, logger logger.Logger) *ConfigWatcher {
	return &ConfigWatcher{
		config:     initial,
		configPath: configPath,
		logger:     logger,
		debounce:   reloadDebounce,
		stopCh:     make(chan struct{}),
	}
}

// Start watches the config file until ctx is cancelled or Stop is called.
// It blocks; run it in its own goroutine.
func (w *ConfigWatcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	// the directory, so rename-over (k8s config maps, vim) is seen too
	if err := fsw.Add(filepath.Dir(w.configPath)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}
	target := filepath.Clean(w.configPath)
	w.logger.Info("Watching alerts configuration", "path", target)

	// armed by events only
	reload := time.NewTimer(w.debounce)
	reload.Stop()
	defer reload.Stop()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			reload.Reset(w.debounce)

		case <-reload.C:
			if err := w.reloadConfig(); err != nil {
				w.logger.Error("Config reload rejected, keeping previous settings", "path", target, "error", err)
				continue
			}
			w.notifyWatchers()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Config watcher error", "error", err)

		case <-ctx.Done():
			return nil

		case <-w.stopCh:
			return nil
		}
	}
}

// RegisterWatcher adds a callback run after every accepted reload.
func (w *ConfigWatcher) RegisterWatcher(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watchers = append(w.watchers, callback)
}

// GetConfig returns the most recently accepted configuration.
func (w *ConfigWatcher) GetConfig() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

func (w *ConfigWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *ConfigWatcher) reloadConfig() error {
	newConfig, err := LoadFrom(w.configPath)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.config = newConfig
	w.mu.Unlock()

	w.logger.Info("Alerts configuration reloaded", "log_level", newConfig.LogLevel,
		"metrictank_endpoints", len(newConfig.MetricTank.Endpoints),
		"victoria_traces_endpoints", len(newConfig.VictoriaTraces.Endpoints))
	return nil
}

func (w *ConfigWatcher) notifyWatchers() {
	w.mu.RLock()
	cfg := w.config
	callbacks := append([]func(*Config){}, w.watchers...)
	w.mu.RUnlock()

	for i, cb := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					w.logger.Error("Config reload callback panicked", "callback", i, "panic", r)
				}
			}()
			cb(cfg)
		}()
	}
}
