// Package persist stores versioned JSON state blobs on disk.
//
// Each blob is a named file under the state directory holding a
// {version, state} envelope. Writers are atomic (temp file + rename) so a
// crash never leaves a half-written blob. Loading an older version runs the
// registered migration steps in order before decoding; a corrupt or missing
// blob degrades to empty state rather than failing startup.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/logging"
)

// Snapshot is the on-disk envelope around every persisted blob.
type Snapshot struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// Migration transforms a raw state map from one version to the next.
type Migration func(state map[string]interface{}) (map[string]interface{}, error)

// Store reads and writes named blobs under a single directory.
type Store struct {
	dir string
	log *logging.Logger
}

// NewStore creates the state directory if needed.
func NewStore(dir string, log *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Store{dir: dir, log: log.Component("persist")}, nil
}

// Dir returns the state directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing a named blob.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes state atomically under the given name and version.
func (s *Store) Save(name string, version int, state interface{}) error {
	raw, err := sonic.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal %s state: %w", name, err)
	}
	data, err := sonic.Marshal(Snapshot{Version: version, State: raw})
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}

// Load decodes a named blob into out, running migrations when the stored
// version is older than current. Returns false when no usable blob exists;
// out is untouched in that case.
func (s *Store) Load(name string, current int, migrations map[int]Migration, out interface{}) (bool, error) {
	data, err := os.ReadFile(s.Path(name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}

	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		s.log.Warn("Discarding corrupt state blob",
			zap.String("name", name), zap.Error(err))
		return false, nil
	}
	if snap.Version > current {
		s.log.Warn("State blob written by a newer version, starting fresh",
			zap.String("name", name))
		return false, nil
	}

	raw := snap.State
	if snap.Version < current {
		raw, err = s.migrate(name, snap.Version, current, raw, migrations)
		if err != nil {
			s.log.Warn("State migration failed, starting fresh",
				zap.String("name", name), zap.Error(err))
			return false, nil
		}
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s state: %w", name, err)
	}
	return true, nil
}

// migrate runs the chain from..current-1 over the raw state map.
func (s *Store) migrate(name string, from, current int, raw json.RawMessage, migrations map[int]Migration) (json.RawMessage, error) {
	var state map[string]interface{}
	if err := sonic.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode v%d state: %w", from, err)
	}
	for v := from; v < current; v++ {
		step, ok := migrations[v]
		if !ok {
			return nil, fmt.Errorf("no migration from v%d", v)
		}
		next, err := step(state)
		if err != nil {
			return nil, fmt.Errorf("migrate v%d to v%d: %w", v, v+1, err)
		}
		state = next
		s.log.Info("Migrated state blob",
			zap.String("name", name), zap.Int("to_version", v+1))
	}
	out, err := sonic.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("re-encode migrated state: %w", err)
	}
	return out, nil
}

// Remove deletes a named blob. Missing blobs are not an error.
func (s *Store) Remove(name string) error {
	err := os.Remove(s.Path(name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
