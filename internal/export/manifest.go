package export

import (
	"path/filepath"
	"time"

	"github.com/KaramelBytes/antioquia-dashboard/internal/utils"
	"github.com/google/uuid"
)

// Manifest describes one export run.
type Manifest struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Source      string    `json:"source"`
	Filter      string    `json:"filter"`
	Records     int       `json:"records"`
	Files       []string  `json:"files"`
}

// NewManifest stamps a manifest with a fresh run id and the current time.
func NewManifest(source, filter string, records int) *Manifest {
	return &Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: clock.Now().UTC(),
		Source:      source,
		Filter:      filter,
		Records:     records,
	}
}

// Add records a written file by base name.
func (m *Manifest) Add(path string) { m.Files = append(m.Files, filepath.Base(path)) }

// SaveJSON writes v as indented JSON to path atomically.
func SaveJSON(path string, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, append(b, '\n'))
}

// ManifestFile is the manifest's name inside an export directory.
const ManifestFile = "manifest.json"

// WriteManifest saves m into dir.
func WriteManifest(dir string, m *Manifest) error {
	return SaveJSON(filepath.Join(dir, ManifestFile), m)
}
