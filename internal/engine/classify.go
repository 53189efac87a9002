package engine

// Column name candidates recognised by the classifier. The source workbooks
// carry Chinese headers; the English variants cover re-exported files.
var (
	identifierCandidates = []string{"股票代码", "stock_code", "stock code"}
	groupingCandidates   = []string{"行业", "所属行业", "行业分类", "industry", "Industry"}
	nameCandidates       = []string{"企业名称", "company_name", "company name"}
)

// UnnamedIndexColumn is the header a pandas-style export leaves on its
// default index column. The loader normally renames it to the identifier
// column before the dataset reaches the engine, but Classify accepts it
// directly as well.
const UnnamedIndexColumn = "Unnamed: 0"

// IdentifierColumn is the canonical name the loader assigns to an anonymous
// index column.
const IdentifierColumn = "股票代码"

// Classification is the derived, read-only column-role metadata of one
// dataset. Compute it once per load with Classify and share it alongside
// the dataset; it is never mutated afterward, so one classification can
// serve any number of concurrent operations consistently.
type Classification struct {
	// IdentifierColumn is the unique integer key column (stock code).
	IdentifierColumn string `json:"identifier_column"`
	// GroupingColumn is the industry column, empty when no candidate
	// column exists. Downstream aggregation requires it; everything else
	// degrades gracefully without it.
	GroupingColumn string `json:"grouping_column,omitempty"`
	// NameColumn is the company name column, empty when absent.
	NameColumn string `json:"name_column,omitempty"`
	// MetricColumns lists every uniformly numeric column except the
	// identifier, in original left-to-right order.
	MetricColumns []string `json:"metric_columns"`
}

// HasGrouping reports whether a grouping column was found.
func (c Classification) HasGrouping() bool { return c.GroupingColumn != "" }

// HasName reports whether a company name column was found.
func (c Classification) HasName() bool { return c.NameColumn != "" }

// HasMetric reports whether name is one of the classified metric columns.
func (c Classification) HasMetric(name string) bool {
	for _, m := range c.MetricColumns {
		if m == name {
			return true
		}
	}
	return false
}

// Classify inspects the dataset's columns and assigns roles. It is
// deterministic and side-effect free: the same dataset always yields the
// same classification.
//
// The identifier is the unnamed-index artifact column when present,
// otherwise the first stock code candidate; if neither exists Classify
// returns a *SchemaError. The grouping and name columns are the first
// present candidate of their lists and simply absent when none match. A
// column is a metric when it holds at least one numeric cell and no text
// cells; the identifier column is excluded even though it is numeric.
func Classify(ds *Dataset) (Classification, error) {
	var cls Classification

	if ds.HasColumn(UnnamedIndexColumn) {
		cls.IdentifierColumn = UnnamedIndexColumn
	} else {
		for _, cand := range identifierCandidates {
			if ds.HasColumn(cand) {
				cls.IdentifierColumn = cand
				break
			}
		}
	}
	if cls.IdentifierColumn == "" {
		return Classification{}, &SchemaError{Missing: IdentifierColumn}
	}

	for _, cand := range groupingCandidates {
		if ds.HasColumn(cand) {
			cls.GroupingColumn = cand
			break
		}
	}
	for _, cand := range nameCandidates {
		if ds.HasColumn(cand) {
			cls.NameColumn = cand
			break
		}
	}

	for _, col := range ds.hdr.names {
		if col == cls.IdentifierColumn {
			continue
		}
		if isNumericColumn(ds, col) {
			cls.MetricColumns = append(cls.MetricColumns, col)
		}
	}

	return cls, nil
}

// isNumericColumn reports whether every non-missing cell of the column is
// numeric and at least one such cell exists. An all-missing column carries
// no usable type information and is not classified as a metric.
func isNumericColumn(ds *Dataset, column string) bool {
	i, ok := ds.hdr.index[column]
	if !ok {
		return false
	}
	seen := false
	for _, rec := range ds.records {
		switch rec.cells[i].Kind() {
		case KindInt, KindFloat:
			seen = true
		case KindText:
			return false
		}
	}
	return seen
}
