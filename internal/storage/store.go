package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/magsim/internal/config"
	"github.com/san-kum/magsim/internal/grid"
	"github.com/san-kum/magsim/internal/superpose"
)

const (
	metadataFile = "metadata.json"
	fieldFile    = "field.csv"
)

var (
	ErrCorruptRun = errors.New("storage: field data does not match run metadata")
	ErrNotSquare  = errors.New("storage: only square meshes can be stored")
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string                `json:"id"`
	Scene     string                `json:"scene"`
	Timestamp time.Time             `json:"timestamp"`
	Grid      config.GridConfig     `json:"grid"`
	Sources   []config.SourceConfig `json:"sources"`
	Stats     superpose.Stats       `json:"stats"`
}

// Save writes the scene description and the sampled field under a fresh
// run directory and returns its id.
func (s *Store) Save(sc *config.Scene, sample *superpose.Sample) (string, error) {
	g := sample.Grid
	if g.Rows() != g.Cols() {
		return "", fmt.Errorf("%w: %dx%d", ErrNotSquare, g.Rows(), g.Cols())
	}

	runID := fmt.Sprintf("%s_%s", runName(sc.Name), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     sc.Name,
		Timestamp: time.Now(),
		Grid: config.GridConfig{
			X:          grid.Range{Min: g.X[0], Max: g.X[len(g.X)-1]},
			Y:          grid.Range{Min: g.Y[0], Max: g.Y[len(g.Y)-1]},
			Resolution: g.Cols(),
		},
		Sources: sc.Sources,
		Stats:   sample.Stats(),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeField(filepath.Join(runDir, fieldFile), sample); err != nil {
		return "", err
	}
	return runID, nil
}

// runName reduces a scene name to a single path element so a run always
// lands directly under the base directory.
func runName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "scene"
	}
	return name
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeField(path string, sample *superpose.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y", "bx", "by"}); err != nil {
		return err
	}

	rows, cols := sample.Bx.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x, y, bx, by := sample.Point(i, j)
			row := []string{format(x), format(y), format(bx), format(by)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func format(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// List returns the metadata of every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSample rebuilds the sampled field of a run. The mesh is regenerated
// from the stored grid settings and must match the CSV row count.
func (s *Store) LoadSample(runID string) (*superpose.Sample, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	g, err := grid.Square(meta.Grid.X, meta.Grid.Y, meta.Grid.Resolution)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, fieldFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 4

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records)-1 != g.Len() {
		return nil, fmt.Errorf("%w: run %s has %d rows, want %d", ErrCorruptRun, runID, len(records)-1, g.Len())
	}

	bx := make([]float64, g.Len())
	by := make([]float64, g.Len())
	for k, record := range records[1:] {
		if bx[k], err = strconv.ParseFloat(record[2], 64); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrCorruptRun, k+1, err)
		}
		if by[k], err = strconv.ParseFloat(record[3], 64); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrCorruptRun, k+1, err)
		}
	}

	return &superpose.Sample{
		Grid: g,
		Bx:   mat.NewDense(g.Rows(), g.Cols(), bx),
		By:   mat.NewDense(g.Rows(), g.Cols(), by),
	}, nil
}
