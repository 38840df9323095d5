package table

import (
	"strings"
)

// Table is an in-memory view of a delimited file: a header row and data
// rows. Operations never mutate the receiver; each returns a new Table so
// a build pipeline reads as a sequence of relational steps.
type Table struct {
	Headers []string
	Rows    [][]string

	index map[string]int // lower-cased header -> column position
}

// New builds a Table from a header and rows. Header names are trimmed;
// rows shorter than the header are padded with empty cells.
func New(headers []string, rows [][]string) *Table {
	h := make([]string, len(headers))
	for i, name := range headers {
		h[i] = strings.TrimSpace(name)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		if len(r) < len(h) {
			tmp := make([]string, len(h))
			copy(tmp, r)
			r = tmp
		}
		out[i] = r
	}
	t := &Table{Headers: h, Rows: out}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Headers))
	for i, name := range t.Headers {
		key := strings.ToLower(name)
		if _, exists := t.index[key]; !exists {
			t.index[key] = i
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Col resolves a column name (case-insensitive) to its position.
func (t *Table) Col(name string) (int, bool) {
	i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	return i, ok
}

// Get returns the trimmed cell value for a column in the given row, or
// the empty string when the column is absent.
func (t *Table) Get(row []string, name string) string {
	i, ok := t.Col(name)
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Filter returns a new Table keeping rows for which keep returns true.
// Row order is preserved.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return New(t.Headers, rows)
}

// DedupeByKey keeps the first row for each distinct value of the key
// columns. Upstream ONISR files occasionally repeat a location row for
// one accident; keep-first mirrors that ambiguity instead of erroring.
func (t *Table) DedupeByKey(on ...string) *Table {
	seen := make(map[string]bool, len(t.Rows))
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		k := t.key(r, on)
		if seen[k] {
			continue
		}
		seen[k] = true
		rows = append(rows, r)
	}
	return New(t.Headers, rows)
}

// key builds a composite lookup key from the on columns. Cells are
// trimmed so "202400000001 " and "202400000001" resolve identically.
func (t *Table) key(row []string, on []string) string {
	parts := make([]string, len(on))
	for i, name := range on {
		parts[i] = t.Get(row, name)
	}
	return strings.Join(parts, "\x1f")
}

// joinedHeaders computes the output header for a join: all left columns,
// then right columns except the join keys, suffixed when they collide
// with a left column name.
func joinedHeaders(left, right *Table, on []string, suffix string) ([]string, []int) {
	onSet := make(map[string]bool, len(on))
	for _, name := range on {
		onSet[strings.ToLower(strings.TrimSpace(name))] = true
	}
	headers := append([]string{}, left.Headers...)
	rightCols := make([]int, 0, len(right.Headers))
	for i, name := range right.Headers {
		if onSet[strings.ToLower(name)] {
			continue
		}
		rightCols = append(rightCols, i)
		if _, clash := left.Col(name); clash {
			headers = append(headers, name+suffix)
		} else {
			headers = append(headers, name)
		}
	}
	return headers, rightCols
}

// rightLookup indexes right rows by join key, keeping the first match.
func rightLookup(right *Table, on []string) map[string][]string {
	m := make(map[string][]string, len(right.Rows))
	for _, r := range right.Rows {
		k := right.key(r, on)
		if _, exists := m[k]; !exists {
			m[k] = r
		}
	}
	return m
}

// LeftJoin joins right onto left over the on columns. Every left row is
// kept; unmatched rows carry empty cells for the right columns. When a
// right column name collides with a left one it is renamed with suffix.
// Left row order is preserved and at most one right row (the first with
// a given key) is used per left row.
func LeftJoin(left, right *Table, on []string, suffix string) *Table {
	headers, rightCols := joinedHeaders(left, right, on, suffix)
	lookup := rightLookup(right, on)
	rows := make([][]string, 0, len(left.Rows))
	for _, lr := range left.Rows {
		// Fixed-width copy: ragged rows (shorter or longer than the
		// header) must not shift the right-hand columns.
		out := make([]string, len(left.Headers), len(headers))
		copy(out, lr)
		match := lookup[left.key(lr, on)]
		for _, ci := range rightCols {
			if match != nil && ci < len(match) {
				out = append(out, match[ci])
			} else {
				out = append(out, "")
			}
		}
		rows = append(rows, out)
	}
	return New(headers, rows)
}

// InnerJoin joins right onto left over the on columns, dropping left
// rows with no match. It returns the joined table and the number of
// dropped rows so callers can report unresolved keys instead of losing
// them silently.
func InnerJoin(left, right *Table, on []string, suffix string) (*Table, int) {
	headers, rightCols := joinedHeaders(left, right, on, suffix)
	lookup := rightLookup(right, on)
	rows := make([][]string, 0, len(left.Rows))
	dropped := 0
	for _, lr := range left.Rows {
		match, ok := lookup[left.key(lr, on)]
		if !ok {
			dropped++
			continue
		}
		out := make([]string, len(left.Headers), len(headers))
		copy(out, lr)
		for _, ci := range rightCols {
			if ci < len(match) {
				out = append(out, match[ci])
			} else {
				out = append(out, "")
			}
		}
		rows = append(rows, out)
	}
	return New(headers, rows), dropped
}
