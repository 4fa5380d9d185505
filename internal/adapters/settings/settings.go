// Package settings provides stored feed options read from a YAML file.
package settings

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"tweetfeed/pkg/log"
)

// DefaultWarmSchedule is used when the file names warm feeds but no schedule.
const DefaultWarmSchedule = "@every 30m"

// File holds stored options keyed by namespace, plus the feeds the warmer
// keeps hot. It reloads itself when the file changes on disk.
type File struct {
	mu          sync.RWMutex
	options     map[string]map[string]string
	warm        WarmConfig
	lastModTime time.Time
	filePath    string
	stop        chan struct{}
	stopOnce    sync.Once
}

// WarmConfig lists feeds to re-render on a schedule. Each feed is an
// option map, the same shape a caller would pass.
type WarmConfig struct {
	Schedule string
	Feeds    []map[string]string
}

// rawFile represents the YAML structure.
type rawFile struct {
	Options map[string]map[string]string `yaml:"options"`
	Warm    struct {
		Schedule string              `yaml:"schedule"`
		Feeds    []map[string]string `yaml:"feeds"`
	} `yaml:"warm"`
}

// Load reads options from a YAML file and starts a watcher that polls
// for changes every interval. A non-positive interval disables reloading.
func Load(filePath string, interval time.Duration) (*File, error) {
	f := &File{filePath: filePath, stop: make(chan struct{})}
	if err := f.reload(); err != nil {
		return nil, err
	}
	if info, err := os.Stat(filePath); err == nil {
		f.lastModTime = info.ModTime()
	}

	if interval > 0 {
		go f.watch(interval)
	}
	return f, nil
}

func (f *File) reload() error {
	data, err := os.ReadFile(f.filePath)
	if err != nil {
		return err
	}

	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	warm := WarmConfig{Schedule: raw.Warm.Schedule, Feeds: raw.Warm.Feeds}
	if warm.Schedule == "" && len(warm.Feeds) > 0 {
		warm.Schedule = DefaultWarmSchedule
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.options = raw.Options
	f.warm = warm
	return nil
}

// watch reloads the file whenever its modification time moves forward.
// A file that fails to parse keeps the previous options.
func (f *File) watch(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-f.stop:
			return
		case <-ticker.C:
			info, err := os.Stat(f.filePath)
			if err != nil {
				continue
			}
			if !info.ModTime().After(f.lastModTime) {
				continue
			}
			if err := f.reload(); err != nil {
				log.GlobalWarn("settings reload failed", "path", f.filePath, "error", err)
				continue
			}
			f.lastModTime = info.ModTime()
			log.GlobalInfo("settings reloaded", "path", f.filePath)
		}
	}
}

// Lookup returns the stored value of field under namespace (thread-safe).
func (f *File) Lookup(namespace, field string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.options[namespace][field]
	return v, ok
}

// Warm returns the warm list (thread-safe).
func (f *File) Warm() WarmConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.warm
}

// Close stops the watcher.
func (f *File) Close() {
	f.stopOnce.Do(func() { close(f.stop) })
}

// Static is a fixed option set, used when no settings file is configured.
type Static map[string]map[string]string

func (s Static) Lookup(namespace, field string) (string, bool) {
	v, ok := s[namespace][field]
	return v, ok
}

// Warm returns an empty warm list.
func (s Static) Warm() WarmConfig { return WarmConfig{} }
