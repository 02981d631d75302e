package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lg/fitcore-go-api/internal/domain"
)

func TestDefaultCatalog_Valid(t *testing.T) {
	c := DefaultCatalog()
	if len(c.Exercises) == 0 {
		t.Fatal("embedded catalog is empty")
	}
	beginnerBodyweight := 0
	for _, e := range c.Exercises {
		if e.Tier == 1 && e.bodyweightOnly() {
			beginnerBodyweight++
		}
	}
	// A bodyweight-only beginner must be able to fill a full day.
	if beginnerBodyweight < maxExercisesPerDay {
		t.Errorf("only %d beginner bodyweight exercises", beginnerBodyweight)
	}
}

func TestParseCatalog_NormalizesTags(t *testing.T) {
	c, err := ParseCatalog([]byte(`
exercises:
  - {name: Plank, focus: " Core ", tier: 1}
  - {name: Band Row, focus: back, equipment: ["Resistance Band"], tier: 2}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Exercises[0]; got.Focus != "core" || len(got.Equipment) != 1 || got.Equipment[0] != domain.EquipmentBodyweight {
		t.Errorf("plank = %+v, want focus core with default bodyweight equipment", got)
	}
	if got := c.Exercises[1].Equipment[0]; got != "resistance_band" {
		t.Errorf("equipment tag = %q, want resistance_band", got)
	}
}

func TestParseCatalog_Rejects(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "exercises: [", "decode"},
		{"missing focus", "exercises:\n  - {name: Plank, tier: 1}", "required"},
		{"tier too high", "exercises:\n  - {name: Plank, focus: core, tier: 4}", "tier"},
		{"duplicate", "exercises:\n  - {name: Plank, focus: core, tier: 1}\n  - {name: Plank, focus: core, tier: 2}", "duplicate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("exercises:\n  - {name: Plank, focus: core, tier: 1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Exercises) != 1 || c.Exercises[0].Name != "Plank" {
		t.Errorf("catalog = %+v", c)
	}
	if _, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
