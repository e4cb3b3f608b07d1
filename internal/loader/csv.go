package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
)

var errNegative = errors.New("negative value")

// ReadCSV reads the raw records at path and checks the header against the
// expected schema. Population stays as raw text; see transform.ParsePopulation.
func ReadCSV(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &dataset.DataSourceError{Path: path, Err: err}
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses CSV from r. name identifies the source in errors.
func Read(r io.Reader, name string) (*dataset.Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &dataset.DataSourceError{Path: name, Err: errors.New("empty file")}
		}
		return nil, &dataset.DataSourceError{Path: name, Err: fmt.Errorf("read header: %w", err)}
	}
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, h := range dataset.Headers {
		if _, ok := col[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, &dataset.DataSourceError{Path: name, Missing: missing}
	}

	var recs []dataset.Record
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &dataset.DataSourceError{Path: name, Err: fmt.Errorf("read row %d: %w", row, err)}
		}
		get := func(h string) string {
			i := col[h]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		atoi := func(h string) (int, error) {
			v := get(h)
			n, err := strconv.Atoi(v)
			if err != nil {
				return 0, &dataset.ParseError{Row: row, Column: h, Value: v, Err: err}
			}
			return n, nil
		}

		r := dataset.Record{
			Row:                row,
			MunicipalityName:   get(dataset.HeaderMunicipalityName),
			Location:           get(dataset.HeaderLocation),
			RegionName:         get(dataset.HeaderRegionName),
			Cause:              get(dataset.HeaderCause),
			PopulationTypeName: get(dataset.HeaderPopulationType),
			PopulationText:     get(dataset.HeaderPopulation),
		}
		if r.PopulationText == "" {
			return nil, &dataset.ParseError{Row: row, Column: dataset.HeaderPopulation, Err: errors.New("empty")}
		}
		if r.MunicipalityCode, err = atoi(dataset.HeaderMunicipalityCode); err != nil {
			return nil, err
		}
		if r.RegionCode, err = atoi(dataset.HeaderRegionCode); err != nil {
			return nil, err
		}
		if r.Year, err = atoi(dataset.HeaderYear); err != nil {
			return nil, err
		}
		cases, err := atoi(dataset.HeaderCases)
		if err != nil {
			return nil, err
		}
		if cases < 0 {
			return nil, &dataset.ParseError{Row: row, Column: dataset.HeaderCases, Value: get(dataset.HeaderCases), Err: errNegative}
		}
		r.Cases = int64(cases)
		recs = append(recs, r)
	}
	return dataset.NewTable(recs), nil
}
