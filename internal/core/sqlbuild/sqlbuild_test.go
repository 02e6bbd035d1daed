package sqlbuild

import (
	"reflect"
	"testing"
)

func TestWhereBuilderEmpty(t *testing.T) {
	wb := NewWhere()
	if got := wb.SQL(); got != "1=1" {
		t.Fatalf("SQL() = %q, want 1=1", got)
	}
	if got := wb.Params(); len(got) != 0 {
		t.Fatalf("Params() = %v, want empty", got)
	}
}

func TestWhereBuilderOrdering(t *testing.T) {
	wb := NewWhere().
		Add("QuoteCreatedDate >= ?", "2025-01-01").
		Add("QuoteCreatedDate < ?", "2025-02-01")
	wb.AddIn("UPPER(CountryCode)", []any{"NZ", "AU"})

	wantSQL := "QuoteCreatedDate >= ? AND QuoteCreatedDate < ? AND UPPER(CountryCode) IN (?, ?)"
	if got := wb.SQL(); got != wantSQL {
		t.Fatalf("SQL() = %q\nwant   %q", got, wantSQL)
	}
	wantParams := []any{"2025-01-01", "2025-02-01", "NZ", "AU"}
	if got := wb.Params(); !reflect.DeepEqual(got, wantParams) {
		t.Fatalf("Params() = %v, want %v", got, wantParams)
	}
}

func TestAddInSingleValue(t *testing.T) {
	wb := NewWhere()
	wb.AddIn("Brand", []any{"bb"})
	if got := wb.SQL(); got != "Brand = ?" {
		t.Fatalf("SQL() = %q", got)
	}
	// empty slice adds nothing
	wb2 := NewWhere()
	wb2.AddIn("Brand", nil)
	if got := wb2.SQL(); got != "1=1" {
		t.Fatalf("SQL() after empty AddIn = %q", got)
	}
}

func TestParamsReturnsCopy(t *testing.T) {
	wb := NewWhere().Add("a = ?", 1)
	p := wb.Params()
	p[0] = 99
	if got := wb.Params()[0]; got != 1 {
		t.Fatalf("builder params mutated through copy: %v", got)
	}
}

func TestRebind(t *testing.T) {
	cases := []struct{ in, want string }{
		{"SELECT 1", "SELECT 1"},
		{"a = ?", "a = @p1"},
		{"a = ? AND b IN (?, ?)", "a = @p1 AND b IN (@p2, @p3)"},
		{"?????", "@p1@p2@p3@p4@p5"},
	}
	for _, tc := range cases {
		if got := Rebind(tc.in); got != tc.want {
			t.Fatalf("Rebind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidTableName(t *testing.T) {
	good := []string{"MISQuoteDetails", "Sales_2025", "t$1", "a"}
	for _, n := range good {
		if !ValidTableName(n) {
			t.Fatalf("ValidTableName(%q) = false", n)
		}
	}
	bad := []string{"", "dbo.Quote", "Quote; DROP TABLE x", "name with space", "q-uote"}
	for _, n := range bad {
		if ValidTableName(n) {
			t.Fatalf("ValidTableName(%q) = true", n)
		}
	}
	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	if ValidTableName(string(long)) {
		t.Fatal("129-char name accepted")
	}
}

func TestDateBasis(t *testing.T) {
	if got := DateBasis("PolicyEndDate"); got != "PolicyEndDate" {
		t.Fatalf("DateBasis allow-listed = %q", got)
	}
	// anything off the list falls back rather than erroring
	for _, in := range []string{"", "CreatedDate; --", "policyenddate"} {
		if got := DateBasis(in); got != DefaultDateBasis {
			t.Fatalf("DateBasis(%q) = %q, want %q", in, got, DefaultDateBasis)
		}
	}
}

func TestOrder(t *testing.T) {
	cases := []struct{ in, want string }{
		{"ASC", "ASC"},
		{" asc ", "ASC"},
		{"DESC", "DESC"},
		{"", "DESC"},
		{"sideways", "DESC"},
	}
	for _, tc := range cases {
		if got := Order(tc.in); got != tc.want {
			t.Fatalf("Order(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
