// Package export writes enriched views to CSV, XLSX and JSON files. Every
// file is rendered in memory and moved into place atomically.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/KaramelBytes/antioquia-dashboard/internal/utils"
)

// Derived column headers appended after the source columns.
const (
	HeaderRate      = "TasaPor100k"
	HeaderRiskLevel = "NivelRiesgo"
)

// RecordHeaders lists the CSV columns written by WriteCSV.
func RecordHeaders() []string {
	return append(append([]string(nil), dataset.Headers...), HeaderRate, HeaderRiskLevel)
}

func recordRow(r dataset.Record) []string {
	region := r.RegionName
	if region == "" {
		region = r.Region.String()
	}
	popType := r.PopulationTypeName
	if popType == "" {
		popType = string(r.PopulationType)
	}
	rate := ""
	if r.Rate.Valid {
		rate = strconv.FormatFloat(r.Rate.Float64, 'f', 4, 64)
	}
	return []string{
		r.MunicipalityName,
		strconv.Itoa(r.MunicipalityCode),
		r.Location,
		region,
		strconv.Itoa(r.RegionCode),
		strconv.Itoa(r.Year),
		r.Cause,
		popType,
		transform.FormatPopulation(r.Population),
		strconv.FormatInt(r.Cases, 10),
		rate,
		string(r.RiskLevel),
	}
}

// WriteCSV writes t with the source columns plus rate and risk level. The
// output reads back through the loader.
func WriteCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecordHeaders()); err != nil {
		return err
	}
	for _, r := range t.Records() {
		if err := cw.Write(recordRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes t to path atomically.
func SaveCSV(path string, t *dataset.Table) error {
	return utils.SafeWrite(path, func(w io.Writer) error { return WriteCSV(w, t) })
}
