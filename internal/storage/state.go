// Package storage persists tracker state as a YAML snapshot on disk.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/jobkit/pkg/models"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is written to every saved state file.
const CurrentVersion = "1.0"

// StateFile represents the top-level structure of the kits file. Kits and
// tasks are stored as lists so insertion order survives a reload.
type StateFile struct {
	Version string                  `yaml:"version"`
	Kits    []models.ApplicationKit `yaml:"kits"`
	Tasks   []models.NextStepTask   `yaml:"tasks"`
}

// StateManager reads and writes the kits file.
type StateManager interface {
	Load() (*StateFile, error)
	Save(state *StateFile) error
	Path() string
}

type fileStateManager struct {
	path string
}

// NewStateManager creates a StateManager backed by the YAML file at path.
func NewStateManager(path string) StateManager {
	return &fileStateManager{path: path}
}

func (m *fileStateManager) Path() string {
	return m.path
}

// Load reads the state file. A missing file yields an empty state.
func (m *fileStateManager) Load() (*StateFile, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyState(), nil
		}
		return nil, fmt.Errorf("loading state: %w", err)
	}

	var sf StateFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("loading state: parsing YAML: %w", err)
	}
	if sf.Version == "" {
		sf.Version = CurrentVersion
	}
	if sf.Version != CurrentVersion {
		return nil, fmt.Errorf("loading state: unsupported version %q", sf.Version)
	}
	if sf.Kits == nil {
		sf.Kits = []models.ApplicationKit{}
	}
	if sf.Tasks == nil {
		sf.Tasks = []models.NextStepTask{}
	}
	return &sf, nil
}

// Save writes state to a temporary file and renames it over the target
// while holding a lock on path.lock.
func (m *fileStateManager) Save(state *StateFile) error {
	if state == nil {
		return fmt.Errorf("saving state: state is nil")
	}
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("saving state: creating directory: %w", err)
	}

	out := *state
	out.Version = CurrentVersion
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("saving state: marshaling YAML: %w", err)
	}

	unlock, err := lockFile(m.path + ".lock")
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	defer func() { _ = unlock() }()

	tmp, err := os.CreateTemp(dir, filepath.Base(m.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("saving state: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving state: writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving state: writing file: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving state: replacing file: %w", err)
	}
	return nil
}

func emptyState() *StateFile {
	return &StateFile{
		Version: CurrentVersion,
		Kits:    []models.ApplicationKit{},
		Tasks:   []models.NextStepTask{},
	}
}
