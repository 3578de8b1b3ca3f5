package catalog

// Built-in reference data. Sources: vendor environmental reports (Apple,
// Dell, HP, Zebra, Cisco), Eurostat 2024 electricity prices, European
// Environment Agency 2023 grid factors, Gartner IT asset valuation
// guidelines for the depreciation curve.

func defaultPersonas() map[string]PersonaProfile {
	return map[string]PersonaProfile{
		"vendor": {
			ID:             "vendor",
			Description:    "Sales floor staff; device used for POS and inventory lookup",
			SalaryEUR:      35000,
			DailyHours:     8,
			LagSensitivity: 0.2,
		},
		"admin-normal": {
			ID:             "admin-normal",
			Description:    "Back-office staff; email, spreadsheets, ERP",
			SalaryEUR:      55000,
			DailyHours:     8,
			LagSensitivity: 1.0,
		},
		"admin-high": {
			ID:             "admin-high",
			Description:    "Developers and data scientists; heavy compute needs",
			SalaryEUR:      95000,
			DailyHours:     9,
			LagSensitivity: 2.5,
		},
		"depot-worker": {
			ID:             "depot-worker",
			Description:    "Warehouse and logistics; device critical for operations",
			SalaryEUR:      40000,
			DailyHours:     16,
			LagSensitivity: 1.5,
		},
	}
}

func defaultDeviceClasses() map[string]DeviceClass {
	return map[string]DeviceClass{
		"laptop": {
			ID: "laptop", PriceNewEUR: 1000, EmbodiedCO2Kg: 250, PowerKW: 0.030,
			LifespanMonths: 48, RefurbAvailable: true, HoldsData: true,
		},
		"workstation": {
			ID: "workstation", PriceNewEUR: 2200, EmbodiedCO2Kg: 450, PowerKW: 0.080,
			LifespanMonths: 60, RefurbAvailable: true, HoldsData: true,
		},
		"smartphone": {
			ID: "smartphone", PriceNewEUR: 500, EmbodiedCO2Kg: 60, PowerKW: 0.005,
			LifespanMonths: 36, RefurbAvailable: true, HoldsData: true,
		},
		"tablet": {
			ID: "tablet", PriceNewEUR: 500, EmbodiedCO2Kg: 150, PowerKW: 0.010,
			LifespanMonths: 48, RefurbAvailable: true, HoldsData: true,
		},
		"scanner": {
			ID: "scanner", PriceNewEUR: 1200, EmbodiedCO2Kg: 180, PowerKW: 0.015,
			LifespanMonths: 48, RefurbAvailable: true, HoldsData: true,
		},
		"monitor": {
			ID: "monitor", PriceNewEUR: 300, EmbodiedCO2Kg: 350, PowerKW: 0.035,
			LifespanMonths: 72, RefurbAvailable: true, HoldsData: false,
		},
		"meeting-room-screen": {
			ID: "meeting-room-screen", PriceNewEUR: 3000, EmbodiedCO2Kg: 800, PowerKW: 0.150,
			LifespanMonths: 84, RefurbAvailable: false, HoldsData: false,
		},
		"network-switch": {
			ID: "network-switch", PriceNewEUR: 250, EmbodiedCO2Kg: 100, PowerKW: 0.050,
			LifespanMonths: 72, RefurbAvailable: true, HoldsData: false,
		},
	}
}

func defaultGeographies() map[string]Geography {
	// Grid factors in kgCO2/kWh; enterprise electricity rates in EUR/kWh.
	geos := []Geography{
		{ID: "FR", Name: "France", GridFactorKgPerKWh: 0.052, PriceKWhEUR: 0.22},
		{ID: "DE", Name: "Germany", GridFactorKgPerKWh: 0.350, PriceKWhEUR: 0.26},
		{ID: "UK", Name: "United Kingdom", GridFactorKgPerKWh: 0.230, PriceKWhEUR: 0.28},
		{ID: "IT", Name: "Italy", GridFactorKgPerKWh: 0.270, PriceKWhEUR: 0.25},
		{ID: "ES", Name: "Spain", GridFactorKgPerKWh: 0.210, PriceKWhEUR: 0.20},
		{ID: "CH", Name: "Switzerland", GridFactorKgPerKWh: 0.030, PriceKWhEUR: 0.24},
		{ID: "US", Name: "United States", GridFactorKgPerKWh: 0.380, PriceKWhEUR: 0.14},
		{ID: "CN", Name: "China", GridFactorKgPerKWh: 0.550, PriceKWhEUR: 0.09},
		{ID: "JP", Name: "Japan", GridFactorKgPerKWh: 0.450, PriceKWhEUR: 0.18},
		{ID: "HK", Name: "Hong Kong", GridFactorKgPerKWh: 0.510, PriceKWhEUR: 0.15},
		{ID: "SG", Name: "Singapore", GridFactorKgPerKWh: 0.408, PriceKWhEUR: 0.19},
		{ID: "EU-West", Name: "Western Europe (blended)", GridFactorKgPerKWh: 0.300, PriceKWhEUR: 0.24},
	}
	m := make(map[string]Geography, len(geos))
	for _, g := range geos {
		m[g.ID] = g
	}
	return m
}

// defaultDepreciationCurve maps whole years of age to retained value
// fraction. Clamped at 8 years.
func defaultDepreciationCurve() []float64 {
	return []float64{1.00, 0.70, 0.50, 0.35, 0.20, 0.10, 0.05, 0.02, 0.01}
}

func defaultRefurbParams() RefurbParams {
	return RefurbParams{
		CO2ReductionRate:   0.85,
		PriceDiscountRate:  0.45,
		EnergyPenaltyRate:  0.10,
		WarrantyYears:      2,
		ResidualAtEndOfUse: 0.20,
	}
}

func defaultProductivityParams() ProductivityParams {
	return ProductivityParams{
		OptimalYears:       3,
		DegradationPerYear: 0.03,
		MaxDegradation:     0.15,
		WorkingDaysPerYear: 220,
	}
}

func defaultDisposalParams() DisposalParams {
	return DisposalParams{WithDataEUR: 14, WithoutDataEUR: 8}
}
