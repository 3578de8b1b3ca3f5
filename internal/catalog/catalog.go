package catalog

import (
	"math"
	"sort"

	"github.com/elysia/ecocycle/internal/domain"
)

// Catalog is the immutable reference-data snapshot every calculation
// reads from. It is built once at process start and safe to share across
// goroutines without synchronization; no method mutates it.
type Catalog struct {
	personas      map[string]PersonaProfile
	deviceClasses map[string]DeviceClass
	geographies   map[string]Geography
	depreciation  []float64
	refurb        RefurbParams
	productivity  ProductivityParams
	disposal      DisposalParams
}

// NewDefault builds a catalog from the built-in reference data
func NewDefault() *Catalog {
	return &Catalog{
		personas:      defaultPersonas(),
		deviceClasses: defaultDeviceClasses(),
		geographies:   defaultGeographies(),
		depreciation:  defaultDepreciationCurve(),
		refurb:        defaultRefurbParams(),
		productivity:  defaultProductivityParams(),
		disposal:      defaultDisposalParams(),
	}
}

// Persona resolves a persona profile
func (c *Catalog) Persona(id string) (PersonaProfile, error) {
	p, ok := c.personas[id]
	if !ok {
		return PersonaProfile{}, domain.NewReferenceNotFound("persona", id)
	}
	return p, nil
}

// DeviceClass resolves a device class specification
func (c *Catalog) DeviceClass(id string) (DeviceClass, error) {
	d, ok := c.deviceClasses[id]
	if !ok {
		return DeviceClass{}, domain.NewReferenceNotFound("device_class", id)
	}
	return d, nil
}

// Geography resolves a geography record
func (c *Catalog) Geography(id string) (Geography, error) {
	g, ok := c.geographies[id]
	if !ok {
		return Geography{}, domain.NewReferenceNotFound("geography", id)
	}
	return g, nil
}

// CarbonFactor resolves the grid carbon intensity for a geography (kgCO2/kWh)
func (c *Catalog) CarbonFactor(geography string) (float64, error) {
	g, ok := c.geographies[geography]
	if !ok {
		return 0, domain.NewReferenceNotFound("geography", geography)
	}
	return g.GridFactorKgPerKWh, nil
}

// ElectricityPrice resolves the enterprise electricity rate for a geography (EUR/kWh)
func (c *Catalog) ElectricityPrice(geography string) (float64, error) {
	g, ok := c.geographies[geography]
	if !ok {
		return 0, domain.NewReferenceNotFound("geography", geography)
	}
	return g.PriceKWhEUR, nil
}

// RefurbAvailable reports whether a refurbished market exists for a device class
func (c *Catalog) RefurbAvailable(deviceClass string) (bool, error) {
	d, ok := c.deviceClasses[deviceClass]
	if !ok {
		return false, domain.NewReferenceNotFound("device_class", deviceClass)
	}
	return d.RefurbAvailable, nil
}

// RefurbCO2Rate returns the manufacturing-CO2 reduction rate of refurbishment
func (c *Catalog) RefurbCO2Rate() float64 {
	return c.refurb.CO2ReductionRate
}

// Refurb returns the refurbished-market parameters
func (c *Catalog) Refurb() RefurbParams {
	return c.refurb
}

// Productivity returns the productivity-degradation parameters
func (c *Catalog) Productivity() ProductivityParams {
	return c.productivity
}

// DepreciationRate returns the retained-value fraction at a given age.
// The curve is indexed by whole years and clamped at its last entry.
func (c *Catalog) DepreciationRate(ageYears float64) float64 {
	if ageYears <= 0 {
		return c.depreciation[0]
	}
	idx := int(math.Min(ageYears, float64(len(c.depreciation)-1)))
	return c.depreciation[idx]
}

// DisposalCost returns the end-of-life handling cost for a device class.
// Devices holding data need a wipe pass, which costs more.
func (c *Catalog) DisposalCost(class DeviceClass) float64 {
	if class.HoldsData {
		return c.disposal.WithDataEUR
	}
	return c.disposal.WithoutDataEUR
}

// FleetAverages aggregates the device classes into fleet-wide averages,
// used when calibration input omits them.
type FleetAverages struct {
	PriceEUR      float64
	EmbodiedCO2Kg float64
	PowerKW       float64
	LifespanYears float64
}

// Averages computes unweighted averages across all device classes
func (c *Catalog) Averages() FleetAverages {
	n := float64(len(c.deviceClasses))
	if n == 0 {
		return FleetAverages{}
	}
	var avg FleetAverages
	for _, d := range c.deviceClasses {
		avg.PriceEUR += d.PriceNewEUR
		avg.EmbodiedCO2Kg += d.EmbodiedCO2Kg
		avg.PowerKW += d.PowerKW
		avg.LifespanYears += d.LifespanYears()
	}
	avg.PriceEUR /= n
	avg.EmbodiedCO2Kg /= n
	avg.PowerKW /= n
	avg.LifespanYears /= n
	return avg
}

// PersonaIDs lists the known persona identifiers, sorted
func (c *Catalog) PersonaIDs() []string {
	return sortedKeys(c.personas)
}

// DeviceClassIDs lists the known device class identifiers, sorted
func (c *Catalog) DeviceClassIDs() []string {
	return sortedKeys(c.deviceClasses)
}

// GeographyIDs lists the known geography identifiers, sorted
func (c *Catalog) GeographyIDs() []string {
	return sortedKeys(c.geographies)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
