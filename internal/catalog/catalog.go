// Package catalog holds the course catalog and competency importance
// weights consumed by the recommendation engine. The catalog ships with an
// embedded default but can be overridden with an external YAML file so
// course offerings change without a redeploy.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"proctor-scoring-service/internal/domain"
)

//go:embed default.yaml
var defaultYAML []byte

// Tracks are the three course tiers offered for one competency.
type Tracks struct {
	Weight        float64  `yaml:"weight"`
	Priority      []string `yaml:"priority"`
	Complementary []string `yaml:"complementary"`
	Advanced      []string `yaml:"advanced"`
}

// Catalog maps every competency to its weight and course tracks.
type Catalog struct {
	Competencies map[domain.Competency]Tracks `yaml:"competencies"`
}

// Default returns the built-in catalog. It panics only if the embedded
// file is malformed, which is a build defect.
func Default() *Catalog {
	c, err := parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the embedded default when
// path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if len(c.Competencies) == 0 {
		return nil, fmt.Errorf("catalog defines no competencies")
	}
	return &c, nil
}

// Weight returns the importance weight for a competency, zero when the
// competency is not in the catalog.
func (c *Catalog) Weight(comp domain.Competency) float64 {
	return c.Competencies[comp].Weight
}

// PriorityCourses returns the remedial course list for a competency.
func (c *Catalog) PriorityCourses(comp domain.Competency) []string {
	return c.Competencies[comp].Priority
}

// ComplementaryCourses returns the mid-band course list for a competency.
func (c *Catalog) ComplementaryCourses(comp domain.Competency) []string {
	return c.Competencies[comp].Complementary
}

// AdvancedCourses returns the stretch course list for a competency.
func (c *Catalog) AdvancedCourses(comp domain.Competency) []string {
	return c.Competencies[comp].Advanced
}
