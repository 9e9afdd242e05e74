package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"proctor-scoring-service/internal/domain"
)

func TestDefaultCoversTaxonomy(t *testing.T) {
	cat := Default()
	for _, comp := range domain.Competencies() {
		tracks, ok := cat.Competencies[comp]
		if !ok {
			t.Fatalf("default catalog missing %s", comp)
		}
		if tracks.Weight <= 0 {
			t.Fatalf("%s: expected positive weight, got %v", comp, tracks.Weight)
		}
		if len(tracks.Priority) == 0 || len(tracks.Complementary) == 0 || len(tracks.Advanced) == 0 {
			t.Fatalf("%s: every tier needs at least one course: %+v", comp, tracks)
		}
	}
	if cat.Weight(domain.Technical) != 0.50 {
		t.Fatalf("expected technical weight 0.50, got %v", cat.Weight(domain.Technical))
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cat.Competencies) != 5 {
		t.Fatalf("expected 5 competencies, got %d", len(cat.Competencies))
	}
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	override := `competencies:
  technical:
    weight: 0.9
    priority:
      - Internal Tech Track
`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("load override: %v", err)
	}
	if cat.Weight(domain.Technical) != 0.9 {
		t.Fatalf("expected overridden weight, got %v", cat.Weight(domain.Technical))
	}
	if got := cat.PriorityCourses(domain.Technical); len(got) != 1 || got[0] != "Internal Tech Track" {
		t.Fatalf("expected overridden courses, got %v", got)
	}
	// untouched competencies are simply absent in the override
	if cat.Weight(domain.Communication) != 0 {
		t.Fatalf("expected zero weight for missing competency, got %v", cat.Weight(domain.Communication))
	}
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("competencies: {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}
