package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tickethub/config"
	"tickethub/internal/status"
	"tickethub/models"
	"tickethub/utils"
)

const (
	usersNamespace  = "Usuarios"
	eventsNamespace = "Eventos"
)

// Store maps entity identifiers to JSON documents on the filesystem, one
// file per entity under two fixed namespaces:
//
//	<base>/Usuarios/<sanitized-cpf>.json
//	<base>/Eventos/<event-id>.json
//
// The directory names are part of the on-disk contract and must not change.
type Store struct {
	baseDir string
	now     func() time.Time
}

func NewStore(cfg *config.Config) *Store {
	return &Store{
		baseDir: cfg.DataDir,
		now:     time.Now,
	}
}

// EnsureLayout idempotently provisions the base directory and both entity
// namespaces.
func (s *Store) EnsureLayout() error {
	for _, dir := range []string{s.baseDir, s.usersDir(), s.eventsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w: %v", dir, status.ErrStorage, err)
		}
	}
	return nil
}

func (s *Store) usersDir() string {
	return filepath.Join(s.baseDir, usersNamespace)
}

func (s *Store) eventsDir() string {
	return filepath.Join(s.baseDir, eventsNamespace)
}

func (s *Store) SaveUser(user *models.User) error {
	key := utils.SanitizeID(user.CPF)
	if err := s.writeDocument(s.usersDir(), key, user); err != nil {
		return err
	}
	slog.Debug("user document saved", "cpf", key)
	return nil
}

// LoadUser returns (nil, nil) when no document exists for the key. A document
// that exists but does not parse is a corrupt record, never "not found".
func (s *Store) LoadUser(cpf string) (*models.User, error) {
	var user models.User
	found, err := s.readDocument(s.usersDir(), utils.SanitizeID(cpf), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// SaveEvent keys the document by the event's derived ID verbatim; event IDs
// are constructed internally and need no sanitization.
func (s *Store) SaveEvent(event *models.Event) error {
	if err := s.writeDocument(s.eventsDir(), event.ID, event); err != nil {
		return err
	}
	slog.Debug("event document saved", "event_id", event.ID)
	return nil
}

func (s *Store) LoadEvent(eventID string) (*models.Event, error) {
	var event models.Event
	found, err := s.readDocument(s.eventsDir(), eventID, &event)
	if err != nil || !found {
		return nil, err
	}
	return &event, nil
}

// UpcomingEventIDs returns a lazy sequence of event identifiers whose yyMMdd
// prefix is strictly after the current date. Each range restarts the
// directory scan and re-reads the clock; results reflect whatever writes
// happened in between. Malformed prefixes are skipped.
func (s *Store) UpcomingEventIDs() iter.Seq[string] {
	return func(yield func(string) bool) {
		today := utils.TruncateToDay(s.now())

		entries, err := os.ReadDir(s.eventsDir())
		if err != nil {
			slog.Error("scanning event namespace", "err", err)
			return
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".json") {
				continue
			}
			id := strings.TrimSuffix(name, ".json")
			if len(id) < len(utils.DateKeyLayout) {
				continue
			}
			date, err := utils.ParseDateKey(id[:len(utils.DateKeyLayout)])
			if err != nil {
				continue
			}
			if date.After(today) && !yield(id) {
				return
			}
		}
	}
}

// writeDocument serializes v and replaces the target file through a temp
// file and rename, so a crash mid-write never leaves a half-written
// document behind.
func (s *Store) writeDocument(dir, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w: %v", key, status.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("staging %s: %w: %v", key, status.ErrStorage, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w: %v", key, status.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w: %v", key, status.ErrStorage, err)
	}

	// CreateTemp files are 0600; documents use the conventional mode
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("staging %s: %w: %v", key, status.ErrStorage, err)
	}

	if err := os.Rename(tmpName, filepath.Join(dir, key+".json")); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w: %v", key, status.ErrStorage, err)
	}
	return nil
}

func (s *Store) readDocument(dir, key string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, key+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w: %v", key, status.ErrStorage, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		slog.Error("unparseable document", "key", key, "err", err)
		return false, fmt.Errorf("decoding %s: %w: %v", key, status.ErrCorruptRecord, err)
	}
	return true, nil
}
