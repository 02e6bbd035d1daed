// Package domain holds the report request and payload shapes shared by the
// reports transport and service layers
package domain

import "encoding/json"

// ListOrAll marshals as the literal string "ALL" when empty so chart clients
// can distinguish "no filter" from an empty selection
type ListOrAll []string

// MarshalJSON implements json.Marshaler
func (l ListOrAll) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return json.Marshal("ALL")
	}
	return json.Marshal([]string(l))
}

// MonthCount is one point on a month-keyed trend chart
type MonthCount struct {
	Month string `json:"month"`
	Value int    `json:"value"`
}

// DateCount is one point on the policy monthly chart
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MethodPoint is one month of the web/phone channel chart
type MethodPoint struct {
	Date  string `json:"date"`
	Web   int    `json:"web"`
	Phone int    `json:"phone"`
}

// MethodTotals is the web/phone split for a single period
type MethodTotals struct {
	Web   int `json:"web"`
	Phone int `json:"phone"`
}

// NamedCount is a labelled aggregate row
type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// PctSlice is a labelled aggregate with its share of the group total
type PctSlice struct {
	Name  string  `json:"name"`
	Value int     `json:"value"`
	Pct   float64 `json:"PctOfTotal"`
}

// DayWindow is the day-of-month window derived from the requested dates
type DayWindow struct {
	StartDay int `json:"start_day"`
	EndDay   int `json:"end_day"`
}

// Record is one raw data row keyed by destination column name
type Record = map[string]any

// TrendMeta describes the windows behind a summary with an LTM trend
type TrendMeta struct {
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	PrevStartDate  string    `json:"prev_start_date"`
	PrevEndDate    string    `json:"prev_end_date"`
	CountryCodes   ListOrAll `json:"country_codes"`
	GeneratedAt    string    `json:"generated_at"`
	LTMStartDate   string    `json:"ltm_start_date"`
	LTMEndDate     string    `json:"ltm_end_date"`
	LTMPeriodCount int       `json:"ltm_period_months"`
	DayWindow      DayWindow `json:"day_window"`
}

// QuoteSummary is the headline quote KPI payload
type QuoteSummary struct {
	Meta                     TrendMeta    `json:"meta"`
	CurrentPeriodTotalQuotes int          `json:"currentPeriodTotalQuotes"`
	LastPeriodTotalQuotes    int          `json:"lastPeriodTotalQuotes"`
	LiveQuotes               int          `json:"liveQuotes"`
	LapsedQuotes             int          `json:"lapsedQuotes"`
	IncompleteQuoteDetails   int          `json:"incompleteQuoteDetails"`
	QuotesCompleteness       string       `json:"quotesCompleteness"`
	GraphData                []MonthCount `json:"graphData"`
}

// SalesSummary carries the sales LTM trend
type SalesSummary struct {
	Meta      TrendMeta    `json:"meta"`
	GraphData []MonthCount `json:"graphData"`
}

// RangeMeta is the minimal window meta on grouped summaries
type RangeMeta struct {
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	CountryCodes ListOrAll `json:"country_codes"`
	GeneratedAt  string    `json:"generated_at"`
}

// PetTypeSummary groups a fact table by pet category
type PetTypeSummary struct {
	Meta        RangeMeta      `json:"meta"`
	Summary     []NamedCount   `json:"summary"`
	TotalsByPet map[string]int `json:"totals_by_pet"`
	Total       int            `json:"total"`
}

// ConversionMeta is the window meta on the conversion summary
type ConversionMeta struct {
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	CountryCodes ListOrAll `json:"country_codes"`
}

// ConversionSlice is one side of the converted / not-converted split
type ConversionSlice struct {
	Name    string  `json:"name"`
	Value   int     `json:"value"`
	Percent float64 `json:"percent"`
}

// ConversionSummary is the quote-to-policy conversion payload
type ConversionSummary struct {
	TotalQuotes         int               `json:"total_quotes"`
	Converted           int               `json:"converted"`
	ConversionPercent   float64           `json:"conversion_percent"`
	NotConverted        int               `json:"not_converted"`
	NotConvertedPercent float64           `json:"not_converted_percent"`
	Breakdown           []ConversionSlice `json:"breakdown"`
	Meta                ConversionMeta    `json:"meta"`
}

// MethodMeta describes a receive-method trend window
type MethodMeta struct {
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	CountryCodes   ListOrAll `json:"country_codes"`
	GeneratedAt    string    `json:"generated_at"`
	Months         int       `json:"months"`
	WindowStartDay int       `json:"window_start_day"`
	WindowEndDay   int       `json:"window_end_day"`
}

// MethodSummary is the shared shape of the web/phone channel summaries
type MethodSummary struct {
	Meta               MethodMeta     `json:"meta"`
	Chart              []MethodPoint  `json:"chart"`
	TotalsByMethod     map[string]int `json:"totals_by_receive_method"`
	CurrentPeriodTotal MethodTotals   `json:"current_period_total"`
}

// QuoteMethodSummary adds the quote grand total
type QuoteMethodSummary struct {
	MethodSummary
	TotalQuotes int `json:"total_quotes"`
}

// SalesMethodSummary adds the sales grand total
type SalesMethodSummary struct {
	MethodSummary
	TotalSales int `json:"total_sales"`
}

// FreePolicyMeta echoes every filter on the free policy breakdown
type FreePolicyMeta struct {
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	CountryCodes ListOrAll `json:"country_codes"`
	Brands       ListOrAll `json:"brands"`
	PetTypes     ListOrAll `json:"pet_types"`
	GeneratedAt  string    `json:"generated_at"`
}

// FreePolicyBreakdown slices free policy sales three ways
type FreePolicyBreakdown struct {
	Meta      FreePolicyMeta `json:"meta"`
	ByStatus  []PctSlice     `json:"by_status"`
	ByPetType []PctSlice     `json:"by_pet_type"`
	ByChannel []PctSlice     `json:"by_channel"`
	Total     int            `json:"total"`
}

// PolicyMeta describes the effective policy report window. Order and
// DayCutoff only appear on the raw data payload.
type PolicyMeta struct {
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	Months         int       `json:"months"`
	WindowStartDay int       `json:"window_start_day"`
	WindowEndDay   int       `json:"window_end_day"`
	DayCutoff      int       `json:"day_cutoff,omitempty"`
	DateBasis      string    `json:"date_basis"`
	Regions        ListOrAll `json:"regions"`
	PolicyStatus   ListOrAll `json:"policy_status"`
	PolicyType     ListOrAll `json:"policy_type"`
	Order          string    `json:"order,omitempty"`
	GeneratedAt    string    `json:"generated_at"`
}

// PolicySummary is the monthly policy count chart
type PolicySummary struct {
	Meta          PolicyMeta  `json:"meta"`
	Chart         []DateCount `json:"chart"`
	TotalPolicies int         `json:"total_policies"`
}

// DataPage is the standard paginated grid payload
type DataPage struct {
	Total int      `json:"total"`
	Skip  int      `json:"skip"`
	Limit int      `json:"limit"`
	Data  []Record `json:"data"`
}

// MethodPage is the receive-method grid with its effective window echoed back
type MethodPage struct {
	DataPage
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	CountryCodes ListOrAll `json:"country_codes"`
}

// PolicyPage is the raw policy grid with full meta
type PolicyPage struct {
	Meta PolicyMeta `json:"meta"`
	DataPage
}
