package export

// Dataset defines tabular export content shared by the file renderers.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// record projects a row map onto the header order, filling gaps with "".
func (d Dataset) record(row map[string]string) []string {
	out := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		out[i] = row[header]
	}
	return out
}
