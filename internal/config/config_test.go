package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Problem != "allocation" {
		t.Errorf("expected problem allocation, got %s", cfg.Problem)
	}
	if cfg.Tolerance <= 0 {
		t.Error("tolerance should be positive")
	}
	if cfg.MaxIterations <= 0 {
		t.Error("max iterations should be positive")
	}
	if cfg.Projection != ProjectionClamp {
		t.Errorf("expected clamp projection, got %s", cfg.Projection)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newtlab.yaml")

	cfg := DefaultConfig()
	cfg.Problem = "intersection"
	cfg.Tolerance = 1e-9
	cfg.MaxIterations = 50
	cfg.Projection = ProjectionFree
	cfg.InitState = []float64{1.5, 0.5}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Problem != "intersection" {
		t.Errorf("expected problem intersection, got %s", loaded.Problem)
	}
	if loaded.Tolerance != 1e-9 {
		t.Errorf("expected tolerance 1e-9, got %g", loaded.Tolerance)
	}
	if loaded.MaxIterations != 50 {
		t.Errorf("expected 50 iterations, got %d", loaded.MaxIterations)
	}
	if len(loaded.InitState) != 2 || loaded.InitState[0] != 1.5 {
		t.Errorf("init state did not roundtrip: %v", loaded.InitState)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.Tolerance = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative tolerance")
	}

	cfg = DefaultConfig()
	cfg.MaxIterations = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative max iterations")
	}

	cfg = DefaultConfig()
	cfg.Projection = "sideways"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown projection")
	}
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()

	x := cfg.GetInitState(6)
	if len(x) != 6 {
		t.Fatalf("expected 6 components, got %d", len(x))
	}
	for _, v := range x {
		if v != 1.0 {
			t.Errorf("expected all-ones default, got %v", x)
		}
	}

	cfg.InitState = []float64{2, 3}
	x = cfg.GetInitState(2)
	if x[0] != 2 || x[1] != 3 {
		t.Errorf("configured state not returned: %v", x)
	}

	// wrong length falls back to the conventional start
	x = cfg.GetInitState(6)
	if len(x) != 6 || x[0] != 1.0 {
		t.Errorf("expected all-ones fallback, got %v", x)
	}
}
