// Package domain holds the ETL value types shared by the pipeline stages
package domain

// Kind selects which of the three feeds a run processes
type Kind string

// The three regional feeds
const (
	KindQuote      Kind = "quote"
	KindSales      Kind = "sales"
	KindFreePolicy Kind = "freepolicy"
)

// Valid reports whether k names a known feed
func (k Kind) Valid() bool {
	switch k {
	case KindQuote, KindSales, KindFreePolicy:
		return true
	}
	return false
}

// Region describes one extraction source
type Region struct {
	// Code is the two-letter region code, e.g. "NZ"
	Code string
	// Name is the reporting country name, e.g. "New Zealand"
	Name string
	// Query is the extraction SQL with `?` placeholders
	Query string
	// Arity is how many parameters the query binds; the date window repeats
	// as (start, end) pairs, so it is 2 or 4
	Arity int
	// BrandOverride, when set, replaces the Brand column on every extracted
	// row. AT and DE sell under the group brand regardless of source values.
	BrandOverride string
}

// LoadResult reports what the loader did, including partial failure
type LoadResult struct {
	Deleted      int64 `json:"deleted"`
	Attempted    int   `json:"attempted"`
	Inserted     int   `json:"inserted"`
	FailedChunks int   `json:"failed_chunks"`
}

// Degraded reports whether any chunk was skipped
func (r LoadResult) Degraded() bool { return r.FailedChunks > 0 }

// RunResult summarizes one feed's run
type RunResult struct {
	Kind          Kind       `json:"kind"`
	RowsExtracted int        `json:"rows_extracted"`
	Load          LoadResult `json:"load"`
}
