package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/tcvsim/internal/config"
	"github.com/san-kum/tcvsim/internal/sim"
	"github.com/san-kum/tcvsim/internal/vec"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	scenarioFile   = "scenario.yaml"
)

var ErrRunNotFound = errors.New("storage: run not found")

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
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Correction float64            `json:"correction"`
	Jitter     float64            `json:"jitter"`
	Particles  int                `json:"particles"`
	Steps      int                `json:"steps"`
	Errors     []string           `json:"errors,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// TrajectoryRow is one particle in one recorded frame.
type TrajectoryRow struct {
	Step       int     `csv:"step"`
	Time       float64 `csv:"time"`
	Dt         float64 `csv:"dt"`
	Correction float64 `csv:"correction"`
	Particle   int     `csv:"particle"`
	Mass       float64 `csv:"mass"`
	X          float64 `csv:"x"`
	Y          float64 `csv:"y"`
	VX         float64 `csv:"vx"`
	VY         float64 `csv:"vy"`
}

// Save writes the scenario, run metadata and recorded frames under a new
// run directory and returns its id.
func (s *Store) Save(sc *config.Scenario, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", slug(sc.Name), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("creating run directory: %w", err)
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   sc.Name,
		Timestamp:  now,
		Seed:       sc.Seed,
		Dt:         sc.Dt,
		Duration:   sc.Duration,
		Correction: sc.Correction,
		Jitter:     sc.Jitter,
		Particles:  len(sc.Particles),
		Steps:      result.StepsTaken,
		Metrics:    result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, scenarioFile), sc); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", trajectoryFile, err)
	}
	defer f.Close()

	rows := Rows(result.Frames)
	if len(rows) == 0 {
		return runID, nil
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return "", fmt.Errorf("writing trajectory: %w", err)
	}

	return runID, nil
}

// List returns every readable run, newest first.
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
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadScenario returns the scenario a run was produced from.
func (s *Store) LoadScenario(runID string) (*config.Scenario, error) {
	path := filepath.Join(s.baseDir, runID, scenarioFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return config.Load(path)
}

// LoadTrajectory rebuilds the recorded frames of a run.
func (s *Store) LoadTrajectory(runID string) ([]sim.Frame, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		return []sim.Frame{}, nil
	}

	var rows []TrajectoryRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("reading trajectory: %w", err)
	}
	return Frames(rows), nil
}

// Rows flattens frames into one row per particle.
func Rows(frames []sim.Frame) []TrajectoryRow {
	n := 0
	for _, f := range frames {
		n += len(f.Particles)
	}

	rows := make([]TrajectoryRow, 0, n)
	for _, f := range frames {
		for _, p := range f.Particles {
			rows = append(rows, TrajectoryRow{
				Step:       f.Step,
				Time:       f.Time,
				Dt:         f.Dt,
				Correction: f.Correction,
				Particle:   p.ID,
				Mass:       p.Mass,
				X:          p.Position.X,
				Y:          p.Position.Y,
				VX:         p.Velocity.X,
				VY:         p.Velocity.Y,
			})
		}
	}
	return rows
}

// Frames groups consecutive rows sharing a step back into frames.
func Frames(rows []TrajectoryRow) []sim.Frame {
	frames := make([]sim.Frame, 0)
	for i, r := range rows {
		if i == 0 || r.Step != rows[i-1].Step {
			frames = append(frames, sim.Frame{
				Step:       r.Step,
				Time:       r.Time,
				Dt:         r.Dt,
				Correction: r.Correction,
			})
		}
		f := &frames[len(frames)-1]
		f.Particles = append(f.Particles, sim.Sample{
			ID:       r.Particle,
			Mass:     r.Mass,
			Position: vec.New(r.X, r.Y),
			Velocity: vec.New(r.VX, r.VY),
		})
	}
	return frames
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// slug reduces a scenario name to [a-z0-9_-] so it is safe as a single
// path element.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "run"
	}
	return out
}
