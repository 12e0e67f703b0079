package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"envirocheck/pkg/schema"

	"gopkg.in/yaml.v3"
)

const (
	defaultSnapshotInterval = 100 // Snapshot every 100 events
	snapshotDir             = "snapshots"
)

// snapshotDocument is the layout of a snapshot file. EventCount is the
// number of changelog events already folded into Standards.
type snapshotDocument struct {
	TakenAt    time.Time         `yaml:"taken_at"`
	EventCount int               `yaml:"event_count"`
	Standards  []schema.Standard `yaml:"standards"`
}

// SnapshotManager names, writes and loads snapshots of the standards list.
type SnapshotManager struct {
	baseDir  string
	interval int
}

// NewSnapshotManager creates a snapshot manager for the store at baseDir.
func NewSnapshotManager(baseDir string) *SnapshotManager {
	return &SnapshotManager{baseDir: baseDir, interval: defaultSnapshotInterval}
}

// ShouldCreateSnapshot reports whether enough events have accumulated since
// the last snapshot.
func (sm *SnapshotManager) ShouldCreateSnapshot(eventsSinceSnapshot int) bool {
	return eventsSinceSnapshot >= sm.interval
}

// snapshotName returns the file name for a snapshot covering eventCount
// events. Zero padding keeps lexical and numeric order equal.
func snapshotName(eventCount int) string {
	return fmt.Sprintf("%08d.yaml", eventCount)
}

// marshalSnapshot renders a snapshot document.
func marshalSnapshot(standards []schema.Standard, eventCount int) ([]byte, error) {
	data, err := yaml.Marshal(snapshotDocument{
		TakenAt:    time.Now().UTC(),
		EventCount: eventCount,
		Standards:  standards,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// LoadLatest loads the most recent readable snapshot. It returns ok=false
// when there is none; corrupt snapshots are skipped in favour of older ones.
func (sm *SnapshotManager) LoadLatest() (standards []schema.Standard, eventCount int, ok bool, err error) {
	names, err := sm.listSnapshots()
	if err != nil {
		return nil, 0, false, err
	}

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(sm.baseDir, snapshotDir, name))
		if err != nil {
			return nil, 0, false, fmt.Errorf("read snapshot: %w", err)
		}

		var doc snapshotDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			continue
		}
		return doc.Standards, doc.EventCount, true, nil
	}

	return nil, 0, false, nil
}

// listSnapshots returns snapshot file names, newest first.
func (sm *SnapshotManager) listSnapshots() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(sm.baseDir, snapshotDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshots directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			names = append(names, entry.Name())
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}
