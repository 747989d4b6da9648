// Package i18n is the key-to-string lookup used by the presentation layer.
// The catalog is an explicit value handed to its callers, not a process-wide
// singleton; interested parties register a callback to hear about language
// changes.
package i18n

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tickethub/config"
)

type Catalog struct {
	dir string

	mu          sync.RWMutex
	language    string
	table       map[string]string
	subscribers map[int]func()
	nextID      int
}

// NewCatalog loads the message table for the configured language from
// <TranslationsDir>/messages_<lang>.properties.
func NewCatalog(cfg *config.Config) (*Catalog, error) {
	c := &Catalog{
		dir:         cfg.TranslationsDir,
		subscribers: map[int]func(){},
	}
	if err := c.load(cfg.Language); err != nil {
		return nil, err
	}
	c.language = cfg.Language
	return c, nil
}

func (c *Catalog) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

// SetLanguage switches the message table and notifies subscribers. Setting
// the already-current language is a no-op. On a load failure the previous
// table stays in place.
func (c *Catalog) SetLanguage(code string) error {
	c.mu.Lock()
	if code == c.language {
		c.mu.Unlock()
		return nil
	}
	if err := c.load(code); err != nil {
		c.mu.Unlock()
		return err
	}
	c.language = code

	notify := make([]func(), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		notify = append(notify, fn)
	}
	c.mu.Unlock()

	slog.Info("language changed", "language", code)
	for _, fn := range notify {
		fn()
	}
	return nil
}

// Get returns the translation for key, or the key itself when the current
// table has no entry for it.
func (c *Catalog) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if text, ok := c.table[key]; ok {
		return text
	}
	return key
}

// GetFormat resolves the key and applies fmt-style formatting to it.
func (c *Catalog) GetFormat(key string, args ...any) string {
	return fmt.Sprintf(c.Get(key), args...)
}

// Subscribe registers a language-change callback and returns the func that
// removes it again.
func (c *Catalog) Subscribe(fn func()) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// load reads a properties file: one key=value per line, # and ! comments,
// UTF-8. Caller holds the write lock (or is the constructor).
func (c *Catalog) load(code string) error {
	path := filepath.Join(c.dir, "messages_"+code+".properties")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("loading translations for %q: %w", code, err)
	}
	defer f.Close()

	table := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		table[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("loading translations for %q: %w", code, err)
	}

	c.table = table
	return nil
}
