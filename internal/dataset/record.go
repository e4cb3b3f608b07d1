package dataset

// PopulationType is a value of the bounded target-population category
// (e.g. "Total"). Its domain is discovered when categories are coerced.
type PopulationType string

// RiskLevel buckets a per-100k rate.
type RiskLevel string

const (
	RiskUnclassified RiskLevel = ""
	RiskLow          RiskLevel = "low"
	RiskMedium       RiskLevel = "medium"
	RiskHigh         RiskLevel = "high"
	RiskUnknown      RiskLevel = "unknown" // rate undefined
)

// Record is one municipality-year observation.
type Record struct {
	Row int `json:"row"` // 1-based data row in the source file

	MunicipalityName string `json:"municipality_name"`
	MunicipalityCode int    `json:"municipality_code"`
	Location         string `json:"location"`

	RegionName string `json:"region_name"`
	Region     Region `json:"region"`
	RegionCode int    `json:"region_code"`

	Year  int    `json:"year"`
	Cause string `json:"cause"`

	PopulationTypeName string         `json:"-"`
	PopulationType     PopulationType `json:"target_population_type"`

	PopulationText string `json:"-"` // raw numeral as read, e.g. "2,508,452"
	Population     int64  `json:"target_population"`
	Cases          int64  `json:"case_count"`

	// Derived columns.
	Rate      NullFloat `json:"rate"`
	RiskLevel RiskLevel `json:"risk_level,omitempty"`
}

// Table is an immutable in-memory view of records. Transformations build new
// tables; nothing mutates a Table after construction.
type Table struct {
	records  []Record
	regions  []Region
	popTypes []PopulationType
}

// NewTable copies records into a new table with no category domains.
func NewTable(records []Record) *Table {
	return NewCategorizedTable(records, nil, nil)
}

// NewCategorizedTable copies records and attaches the category domains.
func NewCategorizedTable(records []Record, regions []Region, popTypes []PopulationType) *Table {
	t := &Table{
		records:  make([]Record, len(records)),
		regions:  append([]Region(nil), regions...),
		popTypes: append([]PopulationType(nil), popTypes...),
	}
	copy(t.records, records)
	return t
}

// Derive builds a new table over records, keeping t's category domains.
func (t *Table) Derive(records []Record) *Table {
	if t == nil {
		return NewTable(records)
	}
	return NewCategorizedTable(records, t.regions, t.popTypes)
}

// Len returns the number of records; a nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// At returns the i-th record by value. Unlike Len and Records it needs a
// non-nil table and 0 <= i < Len(); it panics otherwise, like a slice index.
func (t *Table) At(i int) Record { return t.records[i] }

// Records returns a copy of the rows.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Regions returns the region domain in order of first appearance.
func (t *Table) Regions() []Region {
	if t == nil {
		return nil
	}
	return append([]Region(nil), t.regions...)
}

// PopulationTypes returns the target-population domain in order of first appearance.
func (t *Table) PopulationTypes() []PopulationType {
	if t == nil {
		return nil
	}
	return append([]PopulationType(nil), t.popTypes...)
}

// Categorized reports whether category domains have been coerced.
func (t *Table) Categorized() bool { return t != nil && len(t.regions) > 0 }
