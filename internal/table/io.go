package table

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Read parses a whitespace-delimited table: one header line of column
// names, then one row of float64 values per line. Blank lines and lines
// beginning with '#' are skipped.
func Read(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var names []string
	var data [][]float64
	lineNo := 0
	rows := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if names == nil {
			names = fields
			data = make([][]float64, len(names))
			continue
		}

		if len(fields) != len(names) {
			return nil, fmt.Errorf("table: line %d has %d fields, want %d",
				lineNo, len(fields), len(names))
		}
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("table: line %d, column %q: %w",
					lineNo, names[i], err)
			}
			data[i] = append(data[i], v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("table: read: %w", err)
	}
	if names == nil {
		return nil, fmt.Errorf("table: no header line")
	}

	t := &Table{}
	for i, name := range names {
		t.cols = append(t.cols, Column{Name: name, Data: data[i]})
	}
	return t, nil
}

// ReadFile reads a table from the file at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Write renders the table as whitespace-delimited text with one header
// line. Column formats are honored; columns without a format use the
// shortest representation that round-trips.
func Write(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, strings.Join(t.Names(), " ")); err != nil {
		return fmt.Errorf("table: write: %w", err)
	}

	rows := t.NumRows()
	fields := make([]string, t.NumCols())
	for r := 0; r < rows; r++ {
		for i, c := range t.cols {
			fields[i] = formatValue(c.Data[r], c.Format)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
			return fmt.Errorf("table: write: %w", err)
		}
	}
	return bw.Flush()
}

// WriteFile writes the table to path, replacing any existing file.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	return nil
}

// formatValue applies a column format to one value. The integer verb is
// fed the truncated value so "%d" columns render without a decimal point.
func formatValue(v float64, format string) string {
	if format == "" {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if strings.Contains(format, "d") {
		return fmt.Sprintf(format, int64(v))
	}
	return fmt.Sprintf(format, v)
}
