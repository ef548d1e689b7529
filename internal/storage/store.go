package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/newtlab/internal/newton"
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
	ID            string    `json:"id"`
	Problem       string    `json:"problem"`
	Timestamp     time.Time `json:"timestamp"`
	Tolerance     float64   `json:"tolerance"`
	MaxIterations int       `json:"max_iterations"`
	Projection    string    `json:"projection"`
	Status        string    `json:"status"`
	Iterations    int       `json:"iterations"`
	ResidualNorm  float64   `json:"residual_norm"`
	FinalState    []float64 `json:"final_state"`
}

func (s *Store) Save(problem string, tolerance float64, maxIterations int, projection string, result *newton.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", problem, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Problem:       problem,
		Timestamp:     time.Now(),
		Tolerance:     tolerance,
		MaxIterations: maxIterations,
		Projection:    projection,
		Status:        result.Status.String(),
		Iterations:    result.Iterations,
		ResidualNorm:  result.ResidualNorm,
		FinalState:    result.State,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trace.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Trace) == 0 {
		return runID, nil
	}

	header := []string{"iteration", "residual_norm"}
	numVars := len(result.Trace[0].State)
	for i := 0; i < numVars; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}

	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, it := range result.Trace {
		row := []string{
			strconv.Itoa(it.Index),
			strconv.FormatFloat(it.Norm, 'g', -1, 64),
		}
		for _, val := range it.State {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrace reads back the recorded iterations of a run: residual norms
// and, when the run kept full iterates, the state components.
func (s *Store) LoadTrace(runID string) ([]float64, [][]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trace.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []float64{}, [][]float64{}, nil
	}

	norms := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}

		norm, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		norms = append(norms, norm)

		state := make([]float64, 0)
		for j := 2; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		states = append(states, state)
	}

	return norms, states, nil
}
