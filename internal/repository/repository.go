// Package repository persists the list of regulatory standards.
//
// The store is a directory holding the current list (standards.yaml), an
// append-only event log (changelog.yaml) and periodic snapshots of the list.
// Reads rebuild the list from the newest snapshot plus the events recorded
// after it. Every mutation goes through a CopyOnWriteTx.
package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"envirocheck/pkg/schema"

	"gopkg.in/yaml.v3"
)

const (
	standardsFile = "standards.yaml"
	changelogFile = "changelog.yaml"
)

var (
	ErrStandardNotFound  = errors.New("standard not found")
	ErrDuplicateStandard = errors.New("standard already exists")
	ErrInvalidImport     = errors.New("invalid standards import")
	ErrStoreUnreadable   = errors.New("standards store unreadable")
)

// standardsDocument is the layout of standards.yaml.
type standardsDocument struct {
	Standards []schema.Standard `yaml:"standards"`
}

// Repository handles file I/O for the regulation store.
type Repository struct {
	baseDir   string
	snapshots *SnapshotManager
	logger    *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for fallback and rollback warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// WithSnapshotInterval sets how many events accumulate between snapshots.
func WithSnapshotInterval(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.snapshots.interval = n
		}
	}
}

// NewRepository creates a repository rooted at baseDir. Nothing is touched on
// disk until the first Load or mutation.
func NewRepository(baseDir string, opts ...Option) *Repository {
	r := &Repository{
		baseDir:   baseDir,
		snapshots: NewSnapshotManager(baseDir),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseDir returns the store directory.
func (r *Repository) BaseDir() string {
	return r.baseDir
}

// Lock acquires the store lock on behalf of holder. The lock file sits next
// to the store directory so commits do not move it.
func (r *Repository) Lock(holder string) (*FileLock, error) {
	lock := NewFileLock(filepath.Clean(r.baseDir)+".lock", holder)
	lock.logger = r.logger
	if err := lock.Acquire(); err != nil {
		return nil, err
	}
	return lock, nil
}

// Load returns the stored standards. On first use the store is initialised
// with schema.DefaultStandards. A store that cannot be read yields the
// defaults and a logged warning rather than an error.
func (r *Repository) Load() ([]schema.Standard, error) {
	standards, found, err := r.read()
	if err != nil {
		r.logger.Warn("standards store unreadable, using defaults", "dir", r.baseDir, "error", err)
		return schema.DefaultStandards(), nil
	}
	if found {
		return standards, nil
	}

	defaults := schema.DefaultStandards()
	if err := r.replace(defaults, "init"); err != nil {
		r.logger.Warn("could not initialise standards store", "dir", r.baseDir, "error", err)
		return defaults, nil
	}
	r.logger.Info("initialised standards store with defaults", "dir", r.baseDir, "count", len(defaults))
	return defaults, nil
}

// Save replaces the whole list.
func (r *Repository) Save(standards []schema.Standard) error {
	return r.replace(standards, "save")
}

// Reset restores the built-in standards and returns them.
func (r *Repository) Reset() ([]schema.Standard, error) {
	defaults := schema.DefaultStandards()
	if err := r.replace(defaults, "reset"); err != nil {
		return nil, err
	}
	return defaults, nil
}

// Import replaces the list with the standards in a JSON export.
func (r *Repository) Import(data []byte) ([]schema.Standard, error) {
	standards, err := ImportJSON(data)
	if err != nil {
		return nil, err
	}
	if err := r.replace(standards, "import"); err != nil {
		return nil, err
	}
	return standards, nil
}

// Add appends a standard and returns the new list. An empty ID is filled
// with a generated one.
func (r *Repository) Add(std schema.Standard) ([]schema.Standard, error) {
	if std.ID == "" {
		id, err := schema.NewStandardID(std.Category)
		if err != nil {
			return nil, fmt.Errorf("generate standard id: %w", err)
		}
		std.ID = id
	}
	if err := schema.ValidateStandard(&std); err != nil {
		return nil, fmt.Errorf("validate standard: %w", err)
	}

	current, err := r.current()
	if err != nil {
		return nil, err
	}
	if indexOf(current, std.ID) >= 0 {
		return nil, fmt.Errorf("standard %s: %w", std.ID, ErrDuplicateStandard)
	}

	eventID, err := schema.NewEventID()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}
	return r.apply(current, &schema.StandardAdded{
		EventID_:   eventID,
		Standard:   std.Clone(),
		Timestamp_: time.Now().UTC(),
	})
}

// Update replaces the standard with the same ID and returns the new list.
func (r *Repository) Update(std schema.Standard) ([]schema.Standard, error) {
	if err := schema.ValidateStandard(&std); err != nil {
		return nil, fmt.Errorf("validate standard: %w", err)
	}

	current, err := r.current()
	if err != nil {
		return nil, err
	}
	i := indexOf(current, std.ID)
	if i < 0 {
		return nil, fmt.Errorf("standard %s: %w", std.ID, ErrStandardNotFound)
	}

	eventID, err := schema.NewEventID()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}
	return r.apply(current, &schema.StandardUpdated{
		EventID_:    eventID,
		OldStandard: current[i].Clone(),
		NewStandard: std.Clone(),
		Timestamp_:  time.Now().UTC(),
	})
}

// Delete removes the standard with the given ID and returns the new list.
func (r *Repository) Delete(id string) ([]schema.Standard, error) {
	current, err := r.current()
	if err != nil {
		return nil, err
	}
	i := indexOf(current, id)
	if i < 0 {
		return nil, fmt.Errorf("standard %s: %w", id, ErrStandardNotFound)
	}

	eventID, err := schema.NewEventID()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}
	return r.apply(current, &schema.StandardDeleted{
		EventID_:   eventID,
		StandardID: id,
		Standard:   current[i].Clone(),
		Timestamp_: time.Now().UTC(),
	})
}

// History returns every recorded event, oldest first.
func (r *Repository) History() ([]schema.ChangelogEvent, error) {
	doc, _, err := r.readChangelog()
	if err != nil {
		return nil, err
	}

	events := make([]schema.ChangelogEvent, 0, len(doc.Events))
	for _, rec := range doc.Events {
		event, err := rec.toEvent()
		if err != nil {
			return nil, fmt.Errorf("convert event record: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}

// ExportJSON renders standards as an indented JSON array.
func ExportJSON(standards []schema.Standard) ([]byte, error) {
	data, err := json.MarshalIndent(cloneStandards(standards), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal standards: %w", err)
	}
	return data, nil
}

// ImportJSON parses a JSON export. The document must be an array whose
// entries each carry an id, a name, a category and a parameters array.
func ImportJSON(data []byte) ([]schema.Standard, error) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: expected an array", ErrInvalidImport)
	}

	for i, entry := range entries {
		for _, field := range []string{"id", "name", "category"} {
			var value string
			if err := json.Unmarshal(entry[field], &value); err != nil || value == "" {
				return nil, fmt.Errorf("%w: entry %d: missing %s", ErrInvalidImport, i, field)
			}
		}
		if params := bytes.TrimSpace(entry["parameters"]); len(params) == 0 || params[0] != '[' {
			return nil, fmt.Errorf("%w: entry %d: parameters must be an array", ErrInvalidImport, i)
		}
	}

	var standards []schema.Standard
	if err := json.Unmarshal(data, &standards); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return standards, nil
}

func (r *Repository) replace(standards []schema.Standard, reason string) error {
	event, err := replacedEvent(standards, reason)
	if err != nil {
		return err
	}
	_, err = r.apply(nil, event)
	return err
}

func replacedEvent(standards []schema.Standard, reason string) (*schema.StandardsReplaced, error) {
	eventID, err := schema.NewEventID()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}
	return &schema.StandardsReplaced{
		EventID_:   eventID,
		Reason:     reason,
		Standards:  cloneStandards(standards),
		Timestamp_: time.Now().UTC(),
	}, nil
}

func (r *Repository) apply(current []schema.Standard, event schema.ChangelogEvent) ([]schema.Standard, error) {
	next, err := applyEvent(cloneStandards(current), event)
	if err != nil {
		return nil, err
	}

	events := []schema.ChangelogEvent{event}
	if _, replacing := event.(*schema.StandardsReplaced); !replacing {
		// A store without a changelog was read from a hand-written
		// standards file; record its contents before the first change.
		if _, found, err := r.readChangelog(); err == nil && !found {
			adopt, err := replacedEvent(current, "init")
			if err != nil {
				return nil, err
			}
			events = []schema.ChangelogEvent{adopt, event}
		}
	}

	if err := r.commit(next, events); err != nil {
		return nil, err
	}
	return next, nil
}

// current returns the list a mutation starts from. Unlike Load it does not
// fall back to the defaults when the store cannot be read.
func (r *Repository) current() ([]schema.Standard, error) {
	standards, found, err := r.read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnreadable, err)
	}
	if !found {
		return schema.DefaultStandards(), nil
	}
	return standards, nil
}

// read rebuilds the list from disk. found is false when the store holds
// neither a changelog nor a standards file.
func (r *Repository) read() (standards []schema.Standard, found bool, err error) {
	doc, found, err := r.readChangelog()
	if err != nil {
		return nil, false, err
	}
	if found {
		base, covered, ok, err := r.snapshots.LoadLatest()
		if err != nil {
			return nil, false, fmt.Errorf("load snapshot: %w", err)
		}
		if !ok || covered > len(doc.Events) {
			base, covered = nil, 0
		}

		standards, err := replayRecords(base, doc.Events[covered:])
		if err != nil {
			return nil, false, fmt.Errorf("replay changelog: %w", err)
		}
		return standards, true, nil
	}

	data, err := os.ReadFile(filepath.Join(r.baseDir, standardsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read standards: %w", err)
	}

	var stored standardsDocument
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return nil, false, fmt.Errorf("parse standards: %w", err)
	}
	return cloneStandards(stored.Standards), true, nil
}

func (r *Repository) readChangelog() (changelogDocument, bool, error) {
	var doc changelogDocument

	data, err := os.ReadFile(filepath.Join(r.baseDir, changelogFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, false, nil
		}
		return doc, false, fmt.Errorf("read changelog: %w", err)
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, false, fmt.Errorf("parse changelog: %w", err)
	}
	return doc, true, nil
}

// commit writes the new list, appends events to the changelog and, when due,
// a snapshot, all in one transaction.
func (r *Repository) commit(standards []schema.Standard, events []schema.ChangelogEvent) error {
	tx := NewCopyOnWriteTx(r.baseDir)
	if err := tx.Begin(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	fail := func(err error) error {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Warn("rollback failed", "dir", r.baseDir, "error", rbErr)
		}
		return err
	}

	standardsData, err := yaml.Marshal(standardsDocument{Standards: standards})
	if err != nil {
		return fail(fmt.Errorf("marshal standards: %w", err))
	}
	if err := tx.WriteFile(standardsFile, standardsData); err != nil {
		return fail(fmt.Errorf("write standards: %w", err))
	}

	var doc changelogDocument
	data, err := tx.ReadFile(changelogFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fail(fmt.Errorf("read changelog: %w", err))
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fail(fmt.Errorf("parse changelog: %w", err))
		}
	}

	for _, event := range events {
		rec, err := toRecord(event)
		if err != nil {
			return fail(err)
		}
		doc.Events = append(doc.Events, rec)
		doc.EventsSinceSnapshot++
	}

	if r.snapshots.ShouldCreateSnapshot(doc.EventsSinceSnapshot) {
		snapshotData, err := marshalSnapshot(standards, len(doc.Events))
		if err != nil {
			return fail(err)
		}
		name := snapshotName(len(doc.Events))
		if err := tx.WriteFile(filepath.Join(snapshotDir, name), snapshotData); err != nil {
			return fail(fmt.Errorf("write snapshot: %w", err))
		}
		doc.LastSnapshot = name
		doc.EventsSinceSnapshot = 0
	}

	changelogData, err := yaml.Marshal(doc)
	if err != nil {
		return fail(fmt.Errorf("marshal changelog: %w", err))
	}
	if err := tx.WriteFile(changelogFile, changelogData); err != nil {
		return fail(fmt.Errorf("write changelog: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
