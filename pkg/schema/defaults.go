package schema

// DefaultStandards returns the built-in regulations a fresh store is seeded with.
func DefaultStandards() []Standard {
	return []Standard{
		{
			ID:          "qcvn08-mt-2015-b1",
			Name:        "QCVN 08-MT:2015 (Col B1)",
			Description: "National Technical Regulation on Surface Water Quality (Irrigation)",
			Category:    CategoryWater,
			Parameters: []Parameter{
				{ID: "ph", Name: "pH", Unit: "-", Limit: 9, Type: LimitMax}, // Regulated as 5.5-9; only the ceiling is modelled
				{ID: "bod5", Name: "BOD5", Unit: "mg/L", Limit: 15, Type: LimitMax},
				{ID: "cod", Name: "COD", Unit: "mg/L", Limit: 30, Type: LimitMax},
				{ID: "tss", Name: "TSS", Unit: "mg/L", Limit: 50, Type: LimitMax},
				{ID: "do", Name: "DO", Unit: "mg/L", Limit: 4, Type: LimitMin},
				{ID: "nh4", Name: "Ammonium (NH4+)", Unit: "mg/L", Limit: 0.9, Type: LimitMax},
				{ID: "cl", Name: "Chloride (Cl-)", Unit: "mg/L", Limit: 350, Type: LimitMax},
				{ID: "f", Name: "Fluoride (F-)", Unit: "mg/L", Limit: 1.5, Type: LimitMax},
				{ID: "no2", Name: "Nitrite (NO2-)", Unit: "mg/L", Limit: 0.05, Type: LimitMax},
				{ID: "no3", Name: "Nitrate (NO3-)", Unit: "mg/L", Limit: 10, Type: LimitMax},
				{ID: "po4", Name: "Phosphate (PO4)", Unit: "mg/L", Limit: 0.3, Type: LimitMax},
			},
		},
		{
			ID:          "qcvn14-2008-b",
			Name:        "QCVN 14:2008/BTNMT (Col B)",
			Description: "Domestic Wastewater Discharged into Water Sources used for Navigation",
			Category:    CategoryWater,
			Parameters: []Parameter{
				{ID: "ph", Name: "pH", Unit: "-", Limit: 9, Type: LimitMax},
				{ID: "tds", Name: "TDS", Unit: "mg/L", Limit: 1000, Type: LimitMax},
				{ID: "sulfide", Name: "Sulfide", Unit: "mg/L", Limit: 4.0, Type: LimitMax},
				{ID: "nh4", Name: "Ammonium", Unit: "mg/L", Limit: 10, Type: LimitMax},
				{ID: "no3", Name: "Nitrate", Unit: "mg/L", Limit: 50, Type: LimitMax},
				{ID: "oil", Name: "Oil & Grease", Unit: "mg/L", Limit: 20, Type: LimitMax},
				{ID: "coliform", Name: "Coliform", Unit: "MPN/100mL", Limit: 5000, Type: LimitMax},
			},
		},
		{
			ID:          "qcvn05-2013",
			Name:        "QCVN 05:2013/BTNMT",
			Description: "Ambient Air Quality (24h Average)",
			Category:    CategoryAir,
			Parameters: []Parameter{
				{ID: "so2", Name: "SO2", Unit: "µg/m³", Limit: 125, Type: LimitMax},
				{ID: "no2", Name: "NO2", Unit: "µg/m³", Limit: 100, Type: LimitMax},
				{ID: "co", Name: "CO", Unit: "µg/m³", Limit: 30000, Type: LimitMax},
				{ID: "tsp", Name: "TSP", Unit: "µg/m³", Limit: 200, Type: LimitMax},
				{ID: "pm10", Name: "PM10", Unit: "µg/m³", Limit: 150, Type: LimitMax},
				{ID: "pm25", Name: "PM2.5", Unit: "µg/m³", Limit: 50, Type: LimitMax},
				{ID: "pb", Name: "Lead (Pb)", Unit: "µg/m³", Limit: 1.5, Type: LimitMax},
			},
		},
	}
}
