package stats

import "github.com/KaramelBytes/antioquia-dashboard/internal/dataset"

// Metadata is the headline summary of a view.
type Metadata struct {
	Records         int               `json:"records"`
	Municipalities  int               `json:"municipalities"`
	Regions         int               `json:"regions"`
	Years           int               `json:"years"`
	FirstYear       int               `json:"first_year"`
	LastYear        int               `json:"last_year"`
	TotalCases      int64             `json:"total_cases"`
	TotalPopulation int64             `json:"total_population"`
	MeanAnnualCases dataset.NullFloat `json:"mean_annual_cases"`
}

// Summarize counts the view. An empty view yields zero counts and an
// undefined annual mean.
func Summarize(t *dataset.Table) Metadata {
	m := Metadata{Records: t.Len()}
	munis := map[int]bool{}
	regions := map[dataset.Region]bool{}
	years := map[int]bool{}
	for i, r := range t.Records() {
		munis[r.MunicipalityCode] = true
		regions[r.Region] = true
		years[r.Year] = true
		m.TotalCases += r.Cases
		m.TotalPopulation += r.Population
		if i == 0 || r.Year < m.FirstYear {
			m.FirstYear = r.Year
		}
		if i == 0 || r.Year > m.LastYear {
			m.LastYear = r.Year
		}
	}
	m.Municipalities = len(munis)
	m.Regions = len(regions)
	m.Years = len(years)
	if m.Years > 0 {
		m.MeanAnnualCases = dataset.Defined(float64(m.TotalCases) / float64(m.Years))
	}
	return m
}
