// Package transform holds the pure table-to-table steps of the pipeline.
// Every function returns a new table and leaves its input untouched.
package transform

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	errResidue  = errors.New("not a population numeral")
	errGrouping = errors.New("thousands separators must split groups of three digits")
	errFraction = errors.New("population has a non-zero fractional part")
)

// groupSeparators may split thousands; only one kind per value.
const groupSeparators = ",. \u00a0\u202f"

// ParsePopulation converts the raw population numeral of every record to an
// integer. Records without raw text keep their numeric population.
func ParsePopulation(t *dataset.Table) (*dataset.Table, error) {
	recs := t.Records()
	for i := range recs {
		raw := recs[i].PopulationText
		if raw == "" {
			continue
		}
		n, err := parsePopulationText(raw)
		if err != nil {
			return nil, &dataset.ParseError{Row: recs[i].Row, Column: dataset.HeaderPopulation, Value: raw, Err: err}
		}
		recs[i].Population = n
	}
	return t.Derive(recs), nil
}

// parsePopulationText reads an integer numeral such as "2,573,220",
// "135.000" or "2 616 335". A trailing decimal part of one or two digits
// ("561000.0", "1.000,00") is accepted only when it is all zeros; a
// three-digit suffix is always a thousands group.
func parsePopulationText(s string) (int64, error) {
	s = strings.TrimSpace(s)
	intPart := s
	if i := strings.LastIndexAny(s, ",."); i >= 0 {
		if frac := s[i+1:]; len(frac) == 1 || len(frac) == 2 {
			if !allDigits(frac) {
				return 0, errResidue
			}
			if strings.Trim(frac, "0") != "" {
				return 0, errFraction
			}
			intPart = s[:i]
		}
	}
	digits, err := ungroup(intPart)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(digits, 10, 64)
}

// ungroup removes thousands separators, checking they sit between groups
// of three digits and that a single separator kind is used.
func ungroup(s string) (string, error) {
	if s == "" {
		return "", errResidue
	}
	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i < 0 {
		return s, nil
	}
	sep, _ := utf8.DecodeRuneInString(s[i:])
	if !strings.ContainsRune(groupSeparators, sep) {
		return "", errResidue
	}
	groups := strings.Split(s, string(sep))
	for j, g := range groups {
		if !allDigits(g) {
			if strings.ContainsAny(g, groupSeparators) {
				return "", errGrouping
			}
			return "", errResidue
		}
		if (j == 0 && len(g) > 3) || (j > 0 && len(g) != 3) {
			return "", errGrouping
		}
	}
	return strings.Join(groups, ""), nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

var printer = message.NewPrinter(language.English)

// FormatPopulation renders n with comma thousands separators, the way the
// source file writes populations. The output parses back to n.
func FormatPopulation(n int64) string {
	return printer.Sprintf("%d", n)
}
