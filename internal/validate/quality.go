package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
)

// Severity ranks an issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue codes.
const (
	CodeYearRange       = "year_out_of_range"
	CodePopulation      = "non_positive_population"
	CodeCasesOverPop    = "cases_exceed_population"
	CodeRegionMismatch  = "region_code_mismatch"
	CodeUnexpectedCause = "unexpected_cause"
	CodeDuplicate       = "duplicate_rows"
)

// ExpectedCause is the constant cause tag of the dataset.
const ExpectedCause = "Suicidios"

// Issue is one advisory finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Rows     []int    `json:"rows,omitempty"`
}

// Quality collects the findings of Check.
type Quality struct {
	Records int     `json:"records"`
	Issues  []Issue `json:"issues"`
}

// HasWarnings reports whether any issue is a warning.
func (q Quality) HasWarnings() bool {
	for _, is := range q.Issues {
		if is.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// CheckOptions tunes Check. Zero values select the documented defaults.
type CheckOptions struct {
	MinYear int
	MaxYear int
	Key     Key
}

// DefaultCheckOptions covers the published 2005 to 2024 series.
func DefaultCheckOptions() CheckOptions {
	return CheckOptions{MinYear: 2005, MaxYear: 2024, Key: KeyMunicipalityYear}
}

// Check inspects t and returns advisory issues. It fails only on a bad key.
func Check(t *dataset.Table, opt CheckOptions) (Quality, error) {
	def := DefaultCheckOptions()
	if opt.MinYear == 0 {
		opt.MinYear = def.MinYear
	}
	if opt.MaxYear == 0 {
		opt.MaxYear = def.MaxYear
	}
	q := Quality{Records: t.Len()}

	var badYear, badPop, overPop, badCause []int
	causes := map[string]bool{}
	codeToName := map[int]map[string][]int{}
	nameToCode := map[string]map[int][]int{}
	for _, r := range t.Records() {
		if r.Year < opt.MinYear || r.Year > opt.MaxYear {
			badYear = append(badYear, r.Row)
		}
		if r.Population <= 0 {
			badPop = append(badPop, r.Row)
		} else if r.Cases > r.Population {
			overPop = append(overPop, r.Row)
		}
		if r.Cause != ExpectedCause {
			badCause = append(badCause, r.Row)
			causes[r.Cause] = true
		}
		name := dataset.FoldName(r.RegionName)
		if r.RegionName == "" {
			name = dataset.FoldName(r.Region.String())
		}
		if codeToName[r.RegionCode] == nil {
			codeToName[r.RegionCode] = map[string][]int{}
		}
		codeToName[r.RegionCode][name] = append(codeToName[r.RegionCode][name], r.Row)
		if nameToCode[name] == nil {
			nameToCode[name] = map[int][]int{}
		}
		nameToCode[name][r.RegionCode] = append(nameToCode[name][r.RegionCode], r.Row)
	}

	if len(badYear) > 0 {
		q.Issues = append(q.Issues, Issue{SeverityWarning, CodeYearRange,
			fmt.Sprintf("%d rows outside %d-%d", len(badYear), opt.MinYear, opt.MaxYear), badYear})
	}
	if len(badPop) > 0 {
		q.Issues = append(q.Issues, Issue{SeverityWarning, CodePopulation,
			fmt.Sprintf("%d rows with population <= 0; their rate is undefined", len(badPop)), badPop})
	}
	if len(overPop) > 0 {
		q.Issues = append(q.Issues, Issue{SeverityWarning, CodeCasesOverPop,
			fmt.Sprintf("%d rows with more cases than population", len(overPop)), overPop})
	}
	if rows := regionMismatches(codeToName, nameToCode); len(rows) > 0 {
		q.Issues = append(q.Issues, Issue{SeverityWarning, CodeRegionMismatch,
			"region codes and names are not in 1:1 correspondence", rows})
	}
	if len(badCause) > 0 {
		names := make([]string, 0, len(causes))
		for c := range causes {
			names = append(names, fmt.Sprintf("%q", c))
		}
		sort.Strings(names)
		q.Issues = append(q.Issues, Issue{SeverityInfo, CodeUnexpectedCause,
			fmt.Sprintf("%d rows with cause other than %q: %s", len(badCause), ExpectedCause, strings.Join(names, ", ")), badCause})
	}

	dups, err := FindDuplicates(t, opt.Key)
	if err != nil {
		return Quality{}, err
	}
	for _, d := range dups {
		q.Issues = append(q.Issues, Issue{SeverityWarning, CodeDuplicate,
			fmt.Sprintf("%d rows share key %s", len(d.Rows), d.Key), d.Rows})
	}
	return q, nil
}

func regionMismatches(codeToName map[int]map[string][]int, nameToCode map[string]map[int][]int) []int {
	seen := map[int]bool{}
	var rows []int
	add := func(rs []int) {
		for _, r := range rs {
			if !seen[r] {
				seen[r] = true
				rows = append(rows, r)
			}
		}
	}
	for _, names := range codeToName {
		if len(names) > 1 {
			for _, rs := range names {
				add(rs)
			}
		}
	}
	for _, codes := range nameToCode {
		if len(codes) > 1 {
			for _, rs := range codes {
				add(rs)
			}
		}
	}
	sort.Ints(rows)
	return rows
}
