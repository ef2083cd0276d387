package scanner

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Term is one row of a stack_names.txt table.
type Term struct {
	Name  string
	Stack int
}

// ReadStackNames reads a tab-delimited term table and returns its terms
// without the first (intercept) row.
func ReadStackNames(path string) ([]Term, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseStackNames(f)
}

// ParseStackNames parses the table from r. Columns are located by the
// stack_name and stack_number headers; without them the first two columns are
// used.
func ParseStackNames(r io.Reader) ([]Term, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse term table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("term table is empty")
	}

	nameCol, stackCol := 0, 1
	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("term table needs at least two columns, got %d", len(header))
	}
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "stack_name":
			nameCol = i
		case "stack_number":
			stackCol = i
		}
	}

	data := rows[1:]
	if len(data) == 0 {
		return nil, fmt.Errorf("term table has no rows")
	}

	// Row 0 is the intercept; it is never a selectable term.
	terms := make([]Term, 0, len(data)-1)
	for i, row := range data[1:] {
		if len(row) <= nameCol || len(row) <= stackCol {
			return nil, fmt.Errorf("row %d: expected at least %d columns", i+3, max(nameCol, stackCol)+1)
		}
		name := strings.TrimSpace(row[nameCol])
		stack, err := strconv.Atoi(strings.TrimSpace(row[stackCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: stack number %q: %w", i+3, row[stackCol], err)
		}
		if name == "" {
			return nil, fmt.Errorf("row %d: empty term name", i+3)
		}
		terms = append(terms, Term{Name: name, Stack: stack})
	}
	return terms, nil
}
