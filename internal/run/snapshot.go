package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/microsmart/mentorflow/internal/models"
)

// Workspace is the on-disk directory of one run. Every intermediate
// artifact is persisted here as JSON so an interrupted run can resume
// without redoing completed work.
type Workspace struct {
	runID string
	dir   string
}

const sectionsSubdir = "sections"

// NewWorkspace creates a fresh run directory named <subject>_<timestamp>
// under root.
func NewWorkspace(root, subjectID string) (*Workspace, error) {
	runID := fmt.Sprintf("%s_%s", subjectID, time.Now().UTC().Format("20060102T150405"))
	w := &Workspace{runID: runID, dir: filepath.Join(root, runID)}
	if err := os.MkdirAll(filepath.Join(w.dir, sectionsSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", w.dir, err)
	}
	return w, nil
}

// OpenWorkspace reopens an existing run directory for resumption.
func OpenWorkspace(root, runID string) (*Workspace, error) {
	w := &Workspace{runID: runID, dir: filepath.Join(root, runID)}
	info, err := os.Stat(w.dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("run directory %s not found", w.dir)
	}
	if err := os.MkdirAll(filepath.Join(w.dir, sectionsSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare run directory %s: %w", w.dir, err)
	}
	return w, nil
}

// RunID returns the run identifier, which doubles as the directory name.
func (w *Workspace) RunID() string { return w.runID }

// Dir returns the run directory path.
func (w *Workspace) Dir() string { return w.dir }

// DocumentsDir is where remote documents are materialized before
// processing.
func (w *Workspace) DocumentsDir() string { return filepath.Join(w.dir, "documents") }

// SaveJSON writes v as indented JSON under the run directory. The write
// goes through a temp file and rename so a crash never leaves a truncated
// snapshot behind.
func (w *Workspace) SaveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	path := filepath.Join(w.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return nil
}

// SaveSection persists one terminal section result.
func (w *Workspace) SaveSection(res *models.SectionResult) error {
	return w.SaveJSON(filepath.Join(sectionsSubdir, sectionFileName(res.Number)), res)
}

// LoadSections reads back every persisted section result. Only successful
// results are returned as seeds; a persisted failure is retried on
// resume. A missing sections directory yields an empty map.
func (w *Workspace) LoadSections() (map[int]*models.SectionResult, error) {
	seed := make(map[int]*models.SectionResult)
	for n := 1; n <= models.SectionCount; n++ {
		path := filepath.Join(w.dir, sectionsSubdir, sectionFileName(n))
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var res models.SectionResult
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if res.Succeeded() {
			seed[n] = &res
		}
	}
	return seed, nil
}

func sectionFileName(n int) string {
	return fmt.Sprintf("section_%02d.json", n)
}
