package transform

import "github.com/KaramelBytes/antioquia-dashboard/internal/dataset"

// RegionAggregate sums a region over the view.
type RegionAggregate struct {
	Region         dataset.Region    `json:"region"`
	Cases          int64             `json:"cases"`
	Population     int64             `json:"population"`
	Share          dataset.NullFloat `json:"share_pct"`
	Rate           dataset.NullFloat `json:"rate"`
	Municipalities int               `json:"municipalities"`
}

// YearAggregate sums the view for one year.
type YearAggregate struct {
	Year       int               `json:"year"`
	Cases      int64             `json:"cases"`
	Population int64             `json:"population"`
	Rate       dataset.NullFloat `json:"rate"`
}

// MunicipalityAggregate sums one municipality across the years of the view.
// Rate uses the mean population over those years.
type MunicipalityAggregate struct {
	Code           int               `json:"code"`
	Name           string            `json:"name"`
	Region         dataset.Region    `json:"region"`
	Cases          int64             `json:"cases"`
	MeanPopulation float64           `json:"mean_population"`
	Years          int               `json:"years"`
	Rate           dataset.NullFloat `json:"rate"`
	// Lon and Lat come from the first parseable location of the municipality.
	Lon dataset.NullFloat `json:"lon"`
	Lat dataset.NullFloat `json:"lat"`
}

// GroupByRegion sums cases and population per region, in order of first
// appearance. Share is the region's percentage of all cases in the view.
func GroupByRegion(t *dataset.Table) []RegionAggregate {
	idx := map[dataset.Region]int{}
	munis := map[dataset.Region]map[int]bool{}
	var out []RegionAggregate
	var total int64
	for _, r := range t.Records() {
		i, ok := idx[r.Region]
		if !ok {
			i = len(out)
			idx[r.Region] = i
			out = append(out, RegionAggregate{Region: r.Region})
			munis[r.Region] = map[int]bool{}
		}
		out[i].Cases += r.Cases
		out[i].Population += r.Population
		munis[r.Region][r.MunicipalityCode] = true
		total += r.Cases
	}
	for i := range out {
		out[i].Municipalities = len(munis[out[i].Region])
		out[i].Rate = Rate(out[i].Cases, float64(out[i].Population))
		if total > 0 {
			out[i].Share = dataset.Defined(float64(out[i].Cases) / float64(total) * 100)
		}
	}
	return out
}

// GroupByYear sums cases and population per year, in order of first appearance.
func GroupByYear(t *dataset.Table) []YearAggregate {
	idx := map[int]int{}
	var out []YearAggregate
	for _, r := range t.Records() {
		i, ok := idx[r.Year]
		if !ok {
			i = len(out)
			idx[r.Year] = i
			out = append(out, YearAggregate{Year: r.Year})
		}
		out[i].Cases += r.Cases
		out[i].Population += r.Population
	}
	for i := range out {
		out[i].Rate = Rate(out[i].Cases, float64(out[i].Population))
	}
	return out
}

// GroupByMunicipality sums each municipality across the view, in order of
// first appearance.
func GroupByMunicipality(t *dataset.Table) []MunicipalityAggregate {
	idx := map[int]int{}
	pop := map[int]int64{}
	var out []MunicipalityAggregate
	for _, r := range t.Records() {
		i, ok := idx[r.MunicipalityCode]
		if !ok {
			i = len(out)
			idx[r.MunicipalityCode] = i
			out = append(out, MunicipalityAggregate{Code: r.MunicipalityCode, Name: r.MunicipalityName, Region: r.Region})
		}
		out[i].Cases += r.Cases
		out[i].Years++
		pop[r.MunicipalityCode] += r.Population
		if !out[i].Lon.Valid {
			if lon, lat, err := r.Point(); err == nil {
				out[i].Lon, out[i].Lat = dataset.Defined(lon), dataset.Defined(lat)
			}
		}
	}
	for i := range out {
		out[i].MeanPopulation = float64(pop[out[i].Code]) / float64(out[i].Years)
		out[i].Rate = Rate(out[i].Cases, out[i].MeanPopulation)
	}
	return out
}
