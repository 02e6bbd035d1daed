package domain

// Table is a column-ordered batch of extracted rows. Row values are whatever
// the driver produced; nil means SQL NULL.
type Table struct {
	Columns []string
	Rows    [][]any
}

// ColumnIndex returns the position of name, -1 when absent
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// SetColumn overwrites every row's value for name, adding the column when it
// does not exist yet
func (t *Table) SetColumn(name string, value any) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		t.Columns = append(t.Columns, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], value)
		}
		return
	}
	for i := range t.Rows {
		t.Rows[i][idx] = value
	}
}

// Concat merges tables in order into one. Columns are unioned preserving
// first-seen order; rows missing a column carry nil there, matching how the
// regional feeds differ slightly in shape.
func Concat(tables []Table) Table {
	var out Table
	seen := map[string]int{}
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := seen[c]; !ok {
				seen[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}
	for _, t := range tables {
		// map source column position -> output position
		pos := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			pos[i] = seen[c]
		}
		for _, row := range t.Rows {
			merged := make([]any, len(out.Columns))
			for i, v := range row {
				merged[pos[i]] = v
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}
