// Package storage persists finished runs: one directory per run holding
// metadata.json, particles.csv, and trace.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/aglogen/internal/agg"
	"github.com/san-kum/aglogen/internal/boxcount"
	"github.com/san-kum/aglogen/internal/geom"
	"github.com/san-kum/aglogen/internal/metrics"
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
	ID        string        `json:"id"`
	Algorithm agg.Algorithm `json:"algorithm"`
	Timestamp time.Time     `json:"timestamp"`
	Seed      int64         `json:"seed"`
	N         int           `json:"n"`
	Status    agg.Status    `json:"status"`
	Summary   agg.Summary   `json:"summary"`

	// BoxCounting holds the surface-dimension analysis when one ran.
	BoxCounting *boxcount.Result `json:"box_counting,omitempty"`

	ElapsedMs int64 `json:"elapsed_ms"`
}

// Save writes one run directory and returns its ID.
func (s *Store) Save(result *agg.Result, analysis *boxcount.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", result.Params.Algorithm, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Algorithm:   result.Params.Algorithm,
		Timestamp:   time.Now(),
		Seed:        result.Params.Seed,
		N:           len(result.Particles),
		Status:      result.Status,
		Summary:     result.Summary,
		BoxCounting: analysis,
		ElapsedMs:   result.Elapsed.Milliseconds(),
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(runDir, "particles.csv"), result.Particles); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, "trace.csv"), result.RgTrace); err != nil {
		return "", err
	}
	return runID, nil
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

func writeParticles(path string, particles []agg.Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"index", "x", "y", "z", "radius"}); err != nil {
		return err
	}
	for _, p := range particles {
		row := []string{
			strconv.Itoa(p.Index),
			formatFloat(p.Position.X),
			formatFloat(p.Position.Y),
			formatFloat(p.Position.Z),
			formatFloat(p.Radius),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeTrace(path string, trace []metrics.RgSample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"n", "rg"}); err != nil {
		return err
	}
	for _, sample := range trace {
		if err := w.Write([]string{strconv.Itoa(sample.N), formatFloat(sample.Rg)}); err != nil {
			return err
		}
	}
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
}

// List returns metadata for every stored run. Directories without
// readable metadata are skipped.
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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadParticles reads back a run's particle geometry.
func (s *Store) LoadParticles(runID string) ([]agg.Particle, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "particles.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return []agg.Particle{}, nil
	}

	particles := make([]agg.Particle, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 5 {
			return nil, fmt.Errorf("storage: malformed particle row with %d fields", len(record))
		}
		idx, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("storage: particle index: %w", err)
		}
		vals := make([]float64, 4)
		for i, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: particle field %d: %w", i+1, err)
			}
			vals[i] = v
		}
		particles = append(particles, agg.Particle{
			Index:    idx,
			Position: geom.V(vals[0], vals[1], vals[2]),
			Radius:   vals[3],
		})
	}
	return particles, nil
}

// LoadTrace reads back a run's growth trace.
func (s *Store) LoadTrace(runID string) ([]metrics.RgSample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	trace := make([]metrics.RgSample, 0, len(records))
	for i, record := range records {
		if i == 0 || len(record) != 2 {
			continue
		}
		n, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		rg, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		trace = append(trace, metrics.RgSample{N: n, Rg: rg})
	}
	return trace, nil
}
