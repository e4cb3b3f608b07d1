// Package loader reads the dataset once per process and shares the parsed,
// immutable table with every caller.
package loader

import (
	"sync"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
)

// DefaultPath is where the dashboard expects the dataset, relative to the
// working directory.
const DefaultPath = "static/datasets/suicidios_antioquia.csv"

// Loader memoizes one parsed table. The first Load reads the file; later
// calls return the same table, or the same error, until Reset.
type Loader struct {
	path string
	read func(string) (*dataset.Table, error)

	mu   sync.Mutex
	once func() (*dataset.Table, error)
}

// New returns a loader for path.
func New(path string) *Loader {
	l := &Loader{path: path, read: ReadCSV}
	l.once = sync.OnceValues(l.load)
	return l
}

// Path returns the source file.
func (l *Loader) Path() string { return l.path }

// Load returns the parsed table. Concurrent first calls read the file once.
func (l *Loader) Load() (*dataset.Table, error) {
	l.mu.Lock()
	once := l.once
	l.mu.Unlock()
	return once()
}

// Reset drops the memoized result so the next Load reads the file again.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.once = sync.OnceValues(l.load)
	l.mu.Unlock()
}

func (l *Loader) load() (*dataset.Table, error) {
	return transform.Pipeline(
		func(*dataset.Table) (*dataset.Table, error) { return l.read(l.path) },
		transform.ParsePopulation,
		transform.CoerceCategories,
	)(nil)
}

var defaultLoader = New(DefaultPath)

// LoadDataset returns the process-wide table read from DefaultPath.
func LoadDataset() (*dataset.Table, error) { return defaultLoader.Load() }

// ResetDataset drops the process-wide table.
func ResetDataset() { defaultLoader.Reset() }
