package catalog

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// fileOverrides is the TOML shape for reference-data overrides.
// Any section present replaces or extends the built-in defaults;
// absent sections leave the defaults untouched.
type fileOverrides struct {
	Personas      []PersonaProfile    `toml:"personas"`
	DeviceClasses []DeviceClass       `toml:"device_classes"`
	Geographies   []Geography         `toml:"geographies"`
	Depreciation  []float64           `toml:"depreciation_curve"`
	Refurb        *RefurbParams       `toml:"refurb"`
	Productivity  *ProductivityParams `toml:"productivity"`
	Disposal      *DisposalParams     `toml:"disposal"`
}

// Loader builds catalogs from the built-in defaults plus optional
// TOML override files.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a catalog loader
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "catalog_loader").Logger(),
	}
}

// Load returns the catalog for a given override path. An empty path
// yields the built-in defaults.
func (l *Loader) Load(path string) (*Catalog, error) {
	cat := NewDefault()
	if path == "" {
		l.log.Debug().Msg("Using built-in reference data")
		return cat, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("reference data file not found: %s", path)
	}

	var ov fileOverrides
	if _, err := toml.DecodeFile(path, &ov); err != nil {
		return nil, fmt.Errorf("failed to parse reference data file: %w", err)
	}

	for _, p := range ov.Personas {
		cat.personas[p.ID] = p
	}
	for _, d := range ov.DeviceClasses {
		cat.deviceClasses[d.ID] = d
	}
	for _, g := range ov.Geographies {
		cat.geographies[g.ID] = g
	}
	if len(ov.Depreciation) > 0 {
		cat.depreciation = ov.Depreciation
	}
	if ov.Refurb != nil {
		cat.refurb = *ov.Refurb
	}
	if ov.Productivity != nil {
		cat.productivity = *ov.Productivity
	}
	if ov.Disposal != nil {
		cat.disposal = *ov.Disposal
	}

	l.log.Info().
		Str("path", path).
		Int("personas", len(cat.personas)).
		Int("device_classes", len(cat.deviceClasses)).
		Int("geographies", len(cat.geographies)).
		Msg("Reference data loaded")

	return cat, nil
}
