package plan

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"lg/fitcore-go-api/internal/domain"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Entry is one exercise in the catalog. An exercise needs every tag in
// Equipment to be available.
type Entry struct {
	Name      string   `yaml:"name"`
	Focus     string   `yaml:"focus"`
	Equipment []string `yaml:"equipment"`
	Tier      int      `yaml:"tier"`
}

// bodyweightOnly reports whether e needs nothing beyond bodyweight.
func (e Entry) bodyweightOnly() bool {
	for _, tag := range e.Equipment {
		if tag != domain.EquipmentBodyweight {
			return false
		}
	}
	return true
}

// Catalog is an ordered list of exercises. Order is the selection tie-break.
type Catalog struct {
	Exercises []Entry `yaml:"exercises"`
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	seen := make(map[string]bool, len(c.Exercises))
	for i := range c.Exercises {
		e := &c.Exercises[i]
		e.Focus = normalizeTag(e.Focus)
		if e.Name == "" || e.Focus == "" {
			return Catalog{}, fmt.Errorf("catalog entry %d: name and focus are required", i)
		}
		if e.Tier < 1 || e.Tier > domain.MaxTier {
			return Catalog{}, fmt.Errorf("catalog entry %q: tier must be 1..%d, got %d", e.Name, domain.MaxTier, e.Tier)
		}
		if seen[e.Name] {
			return Catalog{}, fmt.Errorf("catalog entry %q: duplicate name", e.Name)
		}
		seen[e.Name] = true
		if len(e.Equipment) == 0 {
			e.Equipment = []string{domain.EquipmentBodyweight}
		}
		for j, tag := range e.Equipment {
			e.Equipment[j] = normalizeTag(tag)
		}
	}
	return c, nil
}

// LoadCatalog reads a YAML catalog from r.
func LoadCatalog(r io.Reader) (Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// LoadCatalogFile reads a YAML catalog from path.
func LoadCatalogFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, err
	}
	defer f.Close()
	return LoadCatalog(f)
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(builtinCatalog)
	if err != nil {
		panic(fmt.Sprintf("plan: embedded catalog is invalid: %v", err))
	}
	return c
}

func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
