package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
)

// YearRange is an inclusive range; a zero bound is open.
type YearRange struct {
	From int `json:"from,omitempty"`
	To   int `json:"to,omitempty"`
}

// Contains reports whether year lies within the range.
func (y YearRange) Contains(year int) bool {
	if y.From != 0 && year < y.From {
		return false
	}
	if y.To != 0 && year > y.To {
		return false
	}
	return true
}

// Criteria selects a view of the table. Predicates are conjunctive and an
// empty predicate matches every row.
type Criteria struct {
	Years          *YearRange       `json:"years,omitempty"`
	Regions        []dataset.Region `json:"regions,omitempty"`
	Municipalities []int            `json:"municipalities,omitempty"`
}

// IsZero reports whether c matches everything.
func (c Criteria) IsZero() bool {
	return c.Years == nil && len(c.Regions) == 0 && len(c.Municipalities) == 0
}

func (c Criteria) String() string {
	var parts []string
	if c.Years != nil {
		parts = append(parts, fmt.Sprintf("years=%d..%d", c.Years.From, c.Years.To))
	}
	if len(c.Regions) > 0 {
		names := make([]string, len(c.Regions))
		for i, r := range c.Regions {
			names[i] = r.String()
		}
		parts = append(parts, "regions="+strings.Join(names, ","))
	}
	if len(c.Municipalities) > 0 {
		codes := make([]string, len(c.Municipalities))
		for i, m := range c.Municipalities {
			codes[i] = strconv.Itoa(m)
		}
		parts = append(parts, "municipalities="+strings.Join(codes, ","))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " ")
}

// Filter returns the rows matching c. No match yields an empty table.
func Filter(t *dataset.Table, c Criteria) *dataset.Table {
	regions := make(map[dataset.Region]bool, len(c.Regions))
	for _, r := range c.Regions {
		regions[r] = true
	}
	munis := make(map[int]bool, len(c.Municipalities))
	for _, m := range c.Municipalities {
		munis[m] = true
	}
	var out []dataset.Record
	for _, r := range t.Records() {
		if c.Years != nil && !c.Years.Contains(r.Year) {
			continue
		}
		if len(regions) > 0 && !regions[r.Region] {
			continue
		}
		if len(munis) > 0 && !munis[r.MunicipalityCode] {
			continue
		}
		out = append(out, r)
	}
	return t.Derive(out)
}

// ResolveMunicipalities maps municipality names (accent-insensitive) or
// numeric codes to codes present in t.
func ResolveMunicipalities(t *dataset.Table, refs []string) ([]int, error) {
	byName := map[string]int{}
	byCode := map[int]bool{}
	for _, r := range t.Records() {
		byName[dataset.FoldName(r.MunicipalityName)] = r.MunicipalityCode
		byCode[r.MunicipalityCode] = true
	}
	out := make([]int, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if code, err := strconv.Atoi(ref); err == nil {
			if !byCode[code] {
				return nil, fmt.Errorf("unknown municipality code %d", code)
			}
			out = append(out, code)
			continue
		}
		code, ok := byName[dataset.FoldName(ref)]
		if !ok {
			return nil, fmt.Errorf("unknown municipality %q", ref)
		}
		out = append(out, code)
	}
	return out, nil
}

// ParseRegions resolves region names for a Criteria.
func ParseRegions(names []string) ([]dataset.Region, error) {
	out := make([]dataset.Region, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		r, err := dataset.ParseRegion(n)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// BuildCriteria assembles a Criteria from user input. Zero years leave that
// bound open; municipality references are resolved against t.
func BuildCriteria(t *dataset.Table, from, to int, regions, municipalities []string) (Criteria, error) {
	var c Criteria
	if from != 0 || to != 0 {
		if from != 0 && to != 0 && from > to {
			return Criteria{}, fmt.Errorf("year range %d..%d is empty", from, to)
		}
		c.Years = &YearRange{From: from, To: to}
	}
	var err error
	if c.Regions, err = ParseRegions(regions); err != nil {
		return Criteria{}, err
	}
	if c.Municipalities, err = ResolveMunicipalities(t, municipalities); err != nil {
		return Criteria{}, err
	}
	if len(c.Regions) == 0 {
		c.Regions = nil
	}
	if len(c.Municipalities) == 0 {
		c.Municipalities = nil
	}
	return c, nil
}
