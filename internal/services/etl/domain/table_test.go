package domain

import (
	"reflect"
	"testing"
)

func TestSetColumnAddsWhenAbsent(t *testing.T) {
	tb := Table{
		Columns: []string{"QuoteNumber"},
		Rows:    [][]any{{"Q1"}, {"Q2"}},
	}
	tb.SetColumn("CountryCode", "NZ")

	if !reflect.DeepEqual(tb.Columns, []string{"QuoteNumber", "CountryCode"}) {
		t.Fatalf("Columns = %v", tb.Columns)
	}
	for _, row := range tb.Rows {
		if row[1] != "NZ" {
			t.Fatalf("row = %v", row)
		}
	}
}

func TestSetColumnOverwrites(t *testing.T) {
	tb := Table{
		Columns: []string{"Brand"},
		Rows:    [][]any{{"local"}, {"other"}},
	}
	tb.SetColumn("Brand", "bb")
	for _, row := range tb.Rows {
		if row[0] != "bb" {
			t.Fatalf("row = %v", row)
		}
	}
}

func TestColumnIndex(t *testing.T) {
	tb := Table{Columns: []string{"a", "b"}}
	if got := tb.ColumnIndex("b"); got != 1 {
		t.Fatalf("ColumnIndex(b) = %d", got)
	}
	if got := tb.ColumnIndex("missing"); got != -1 {
		t.Fatalf("ColumnIndex(missing) = %d", got)
	}
}

func TestConcatUnionsColumns(t *testing.T) {
	// NZ carries an extra column the AU feed lacks, and vice versa
	nz := Table{
		Columns: []string{"QuoteNumber", "Excess"},
		Rows:    [][]any{{"Q1", 100}},
	}
	au := Table{
		Columns: []string{"QuoteNumber", "Discount"},
		Rows:    [][]any{{"Q2", 5}},
	}
	out := Concat([]Table{nz, au})

	if !reflect.DeepEqual(out.Columns, []string{"QuoteNumber", "Excess", "Discount"}) {
		t.Fatalf("Columns = %v", out.Columns)
	}
	if !reflect.DeepEqual(out.Rows[0], []any{"Q1", 100, nil}) {
		t.Fatalf("row 0 = %v", out.Rows[0])
	}
	if !reflect.DeepEqual(out.Rows[1], []any{"Q2", nil, 5}) {
		t.Fatalf("row 1 = %v", out.Rows[1])
	}
}

func TestConcatPreservesRegionOrder(t *testing.T) {
	a := Table{Columns: []string{"c"}, Rows: [][]any{{"first"}}}
	b := Table{Columns: []string{"c"}, Rows: [][]any{{"second"}}}
	out := Concat([]Table{a, b})
	if out.Rows[0][0] != "first" || out.Rows[1][0] != "second" {
		t.Fatalf("rows out of order: %v", out.Rows)
	}
}

func TestConcatEmpty(t *testing.T) {
	out := Concat(nil)
	if len(out.Columns) != 0 || len(out.Rows) != 0 {
		t.Fatalf("Concat(nil) = %+v", out)
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindQuote, KindSales, KindFreePolicy} {
		if !k.Valid() {
			t.Fatalf("%q not valid", k)
		}
	}
	if Kind("policies").Valid() {
		t.Fatal("unknown kind accepted")
	}
}
