package filterset

import (
	"reflect"
	"testing"

	"petmis/internal/core/sqlbuild"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil in nil out", nil, nil},
		{"splits commas", []string{"NZ,AU", "UK"}, []string{"NZ", "AU", "UK"}},
		{"trims blanks", []string{" NZ , , AU "}, []string{"NZ", "AU"}},
		{"all collapses", []string{"NZ", "ALL", "AU"}, nil},
		{"all is case-insensitive", []string{"NZ,aLl"}, nil},
		{"dedupes keeping first casing", []string{"NZ,nz,Nz,AU"}, []string{"NZ", "AU"}},
		{"only separators", []string{",", " , "}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Normalize(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFromQuery(t *testing.T) {
	c := FromQuery("nz,au", "ALL", "dog")
	if !reflect.DeepEqual(c.Countries, []string{"nz", "au"}) {
		t.Fatalf("Countries = %v", c.Countries)
	}
	if c.Brands != nil {
		t.Fatalf("Brands = %v, want nil", c.Brands)
	}
	if !reflect.DeepEqual(c.Pets, []string{"dog"}) {
		t.Fatalf("Pets = %v", c.Pets)
	}
}

func TestApplyUppercasesExactMatches(t *testing.T) {
	wb := sqlbuild.NewWhere()
	Apply(wb, Criteria{Countries: []string{"nz", "au"}, Brands: []string{"bb"}})

	want := "UPPER(CountryCode) IN (?, ?) AND UPPER(Brand) = ?"
	if got := wb.SQL(); got != want {
		t.Fatalf("SQL() = %q\nwant   %q", got, want)
	}
	wantParams := []any{"NZ", "AU", "BB"}
	if got := wb.Params(); !reflect.DeepEqual(got, wantParams) {
		t.Fatalf("Params() = %v, want %v", got, wantParams)
	}
}

func TestApplyPetPatterns(t *testing.T) {
	wb := sqlbuild.NewWhere()
	Apply(wb, Criteria{Pets: []string{"Dog", "bbc"}})

	want := "(LOWER(COALESCE(PetType, '')) LIKE ? OR LOWER(COALESCE(PetType, '')) LIKE ?)"
	if got := wb.SQL(); got != want {
		t.Fatalf("SQL() = %q\nwant   %q", got, want)
	}
	wantParams := []any{"%dog%", "%bb_com%"}
	if got := wb.Params(); !reflect.DeepEqual(got, wantParams) {
		t.Fatalf("Params() = %v, want %v", got, wantParams)
	}
}

func TestApplyDropsUnknownPets(t *testing.T) {
	wb := sqlbuild.NewWhere()
	Apply(wb, Criteria{Pets: []string{"giraffe"}})
	if got := wb.SQL(); got != "1=1" {
		t.Fatalf("unknown pet token leaked into SQL: %q", got)
	}
}

func TestApplyEmptyCriteria(t *testing.T) {
	wb := sqlbuild.NewWhere()
	Apply(wb, Criteria{})
	if got := wb.SQL(); got != "1=1" {
		t.Fatalf("SQL() = %q", got)
	}
	if got := wb.Params(); len(got) != 0 {
		t.Fatalf("Params() = %v", got)
	}
}
