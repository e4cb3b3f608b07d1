package dataset

import (
	"fmt"
	"strings"
)

// Column names a numeric column usable by the statistics functions.
type Column string

const (
	ColCases            Column = "cases"
	ColPopulation       Column = "population"
	ColRate             Column = "rate"
	ColYear             Column = "year"
	ColMunicipalityCode Column = "municipality_code"
	ColRegionCode       Column = "region_code"
)

// Source header names of the CSV.
const (
	HeaderMunicipalityName = "NombreMunicipio"
	HeaderMunicipalityCode = "CodigoMunicipio"
	HeaderLocation         = "Ubicacion"
	HeaderRegionName       = "NombreRegion"
	HeaderRegionCode       = "CodigoRegion"
	HeaderYear             = "Anio"
	HeaderCause            = "CausaMortalidad"
	HeaderPopulationType   = "TipoPoblacionObjetivo"
	HeaderPopulation       = "NumeroPoblacionObjetivo"
	HeaderCases            = "NumeroCasos"
)

// Headers lists the expected CSV columns in file order.
var Headers = []string{
	HeaderMunicipalityName, HeaderMunicipalityCode, HeaderLocation, HeaderRegionName, HeaderRegionCode,
	HeaderYear, HeaderCause, HeaderPopulationType, HeaderPopulation, HeaderCases,
}

var columnAliases = map[string]Column{
	"cases":                   ColCases,
	"case_count":              ColCases,
	"numerocasos":             ColCases,
	"population":              ColPopulation,
	"target_population":       ColPopulation,
	"numeropoblacionobjetivo": ColPopulation,
	"rate":                    ColRate,
	"tasa":                    ColRate,
	"year":                    ColYear,
	"anio":                    ColYear,
	"municipality_code":       ColMunicipalityCode,
	"codigomunicipio":         ColMunicipalityCode,
	"region_code":             ColRegionCode,
	"codigoregion":            ColRegionCode,
}

// ParseColumn resolves a column by name or source header alias.
func ParseColumn(s string) (Column, error) {
	if c, ok := columnAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown numeric column %q", s)
}

// Value extracts the column from r. ok is false when the value is undefined.
func (c Column) Value(r Record) (v float64, ok bool) {
	switch c {
	case ColCases:
		return float64(r.Cases), true
	case ColPopulation:
		return float64(r.Population), true
	case ColRate:
		return r.Rate.Float64, r.Rate.Valid
	case ColYear:
		return float64(r.Year), true
	case ColMunicipalityCode:
		return float64(r.MunicipalityCode), true
	case ColRegionCode:
		return float64(r.RegionCode), true
	default:
		return 0, false
	}
}
