package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watcher holds the most recent Config loaded from a file and reloads it
// whenever the file changes. A reload that fails keeps the previous Config.
type Watcher struct {
	path  string
	onErr func(error)

	mu  sync.RWMutex
	cfg Config
}

// Watch loads path and starts watching it. onErr, if set, receives reload
// failures.
func Watch(path string, onErr func(error)) (*Watcher, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("config: watch requires a path")
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{path: path, onErr: onErr, cfg: cfg}

	v := viper.New()
	v.SetConfigFile(path)
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := w.reload(); err != nil && w.onErr != nil {
			w.onErr(fmt.Errorf("reload %s: %w", evt.Name, err))
		}
	})
	v.WatchConfig()
	return w, nil
}

// Current returns the latest successfully loaded Config.
func (w *Watcher) Current() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

func (w *Watcher) reload() error {
	cfg, err := Load(w.path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()
	return nil
}
