// Package validate reports data-quality findings. It never filters or
// rewrites the table it inspects.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
)

// Key selects which columns make two rows duplicates.
type Key string

const (
	// KeyMunicipalityYear treats rows with the same municipality code and
	// year as duplicates.
	KeyMunicipalityYear Key = "municipality_year"
	// KeyFullRow requires every source column to match.
	KeyFullRow Key = "full_row"
)

// ParseKey accepts a Key by name; empty selects KeyMunicipalityYear.
func ParseKey(s string) (Key, error) {
	switch Key(strings.ToLower(strings.TrimSpace(s))) {
	case "", KeyMunicipalityYear:
		return KeyMunicipalityYear, nil
	case KeyFullRow:
		return KeyFullRow, nil
	default:
		return "", fmt.Errorf("unknown duplicate key %q (want %s or %s)", s, KeyMunicipalityYear, KeyFullRow)
	}
}

// DuplicateGroup lists the row identifiers sharing one key.
type DuplicateGroup struct {
	Key  string `json:"key"`
	Rows []int  `json:"rows"`
}

type dupAcc struct {
	group      DuplicateGroup
	code, year int
}

// FindDuplicates returns groups with more than one member. Municipality-year
// groups are ordered by code then year; full-row groups by their first row.
func FindDuplicates(t *dataset.Table, key Key) ([]DuplicateGroup, error) {
	if key == "" {
		key = KeyMunicipalityYear
	}
	if key != KeyMunicipalityYear && key != KeyFullRow {
		return nil, fmt.Errorf("unknown duplicate key %q", key)
	}
	idx := map[string]*dupAcc{}
	var order []*dupAcc
	for _, r := range t.Records() {
		k := rowKey(r, key)
		acc, ok := idx[k]
		if !ok {
			acc = &dupAcc{group: DuplicateGroup{Key: k}, code: r.MunicipalityCode, year: r.Year}
			idx[k] = acc
			order = append(order, acc)
		}
		acc.group.Rows = append(acc.group.Rows, r.Row)
	}
	if key == KeyMunicipalityYear {
		sort.SliceStable(order, func(i, j int) bool {
			if order[i].code == order[j].code {
				return order[i].year < order[j].year
			}
			return order[i].code < order[j].code
		})
	}
	var out []DuplicateGroup
	for _, acc := range order {
		if len(acc.group.Rows) > 1 {
			out = append(out, acc.group)
		}
	}
	return out, nil
}

func rowKey(r dataset.Record, key Key) string {
	if key == KeyMunicipalityYear {
		return fmt.Sprintf("%d/%d", r.MunicipalityCode, r.Year)
	}
	return strings.Join([]string{
		r.MunicipalityName,
		fmt.Sprint(r.MunicipalityCode),
		r.Location,
		r.RegionName,
		fmt.Sprint(r.RegionCode),
		fmt.Sprint(r.Year),
		r.Cause,
		r.PopulationTypeName,
		fmt.Sprint(r.Population),
		fmt.Sprint(r.Cases),
	}, "\x1f")
}
