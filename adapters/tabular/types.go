package tabular

// Row is one data row keyed by trimmed header name.
type Row map[string]string

// Table is a parsed tabular file: ordered headers plus row maps.
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether the table carries the exact header.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}
