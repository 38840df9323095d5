// Package analysis profiles a delimited table: per-column kind, missing
// ratio, numeric statistics and top categorical values. The inspect
// command uses it so an operator can sanity-check source tables before a
// build and the dashboard author can read the output schema.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/RouteBytes/synthese-cli/internal/table"
)

// Options controls profiling.
type Options struct {
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// SampleRows determines how many example rows the report includes.
	SampleRows int
	// Delimiter for the input; 0 auto-detects.
	Delimiter rune
}

// DefaultOptions returns reasonable defaults for accident tables.
func DefaultOptions() Options {
	return Options{MaxRows: 200000, SampleRows: 5}
}

// Report is a markdown-friendly profile of one table.
type Report struct {
	Name      string
	Rows      int
	Processed int
	Cols      []ColumnSummary
	Samples   [][]string
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical|text|empty
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min, Max, Mean float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// ProfileFile loads and profiles a delimited file.
func ProfileFile(path string, opt Options) (*Report, error) {
	t, err := table.ReadFile(path, opt.Delimiter)
	if err != nil {
		return nil, err
	}
	rep := Profile(t, opt)
	rep.Name = path
	return rep, nil
}

// Profile summarizes an in-memory table.
func Profile(t *table.Table, opt Options) *Report {
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}

	ncol := len(t.Headers)
	type colAcc struct {
		nonNil int
		miss   int
		numCnt int
		txtCnt int
		sum    float64
		min    float64
		max    float64
		cats   map[string]int
	}
	cols := make([]*colAcc, ncol)
	for i := range cols {
		cols[i] = &colAcc{min: math.Inf(1), max: math.Inf(-1), cats: make(map[string]int)}
	}

	rep := &Report{Rows: t.Len()}
	for _, row := range t.Rows {
		if rep.Processed >= maxRows {
			break
		}
		rep.Processed++
		if len(rep.Samples) < sampleRows {
			sample := make([]string, ncol)
			copy(sample, row)
			rep.Samples = append(rep.Samples, sample)
		}
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(row) {
				v = strings.TrimSpace(row[j])
			}
			c := cols[j]
			if v == "" {
				c.miss++
				continue
			}
			c.nonNil++
			if x, ok := parseNumeric(v); ok {
				c.numCnt++
				c.sum += x
				if x < c.min {
					c.min = x
				}
				if x > c.max {
					c.max = x
				}
			} else {
				c.txtCnt++
			}
			if len(c.cats) <= 10000 && len(v) <= 64 {
				c.cats[v]++
			}
		}
	}

	rep.Cols = make([]ColumnSummary, 0, ncol)
	for j, c := range cols {
		s := ColumnSummary{Name: t.Headers[j], NonNull: c.nonNil, Missing: c.miss, Unique: len(c.cats)}
		switch {
		case c.nonNil == 0:
			s.Kind = "empty"
		case c.numCnt >= c.txtCnt:
			s.Kind = "numeric"
			s.Min = c.min
			s.Max = c.max
			s.Mean = c.sum / float64(c.numCnt)
			// Low-cardinality numeric columns are almost always coded
			// categories in this dataset; surface the top codes too.
			if len(c.cats) <= 32 {
				s.TopValues = topValues(c.cats, 8)
			}
		case len(c.cats) > 0 && len(c.cats) <= 256:
			s.Kind = "categorical"
			s.TopValues = topValues(c.cats, 8)
		default:
			s.Kind = "text"
		}
		rep.Cols = append(rep.Cols, s)
	}
	return rep
}

// parseNumeric accepts plain floats plus the French decimal comma used
// by the lat/long columns.
func parseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.Count(raw, ",") == 1 && !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func topValues(cats map[string]int, n int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > n {
		tops = tops[:n]
	}
	return tops
}

// Markdown renders a compact report for the terminal or a doc file.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[TABLE SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Processed > 0 && r.Processed < r.Rows {
		b.WriteString(fmt.Sprintf("Rows: %d (processed %d)\n", r.Rows, r.Processed))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		if c.Kind == "numeric" {
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g", c.Min, c.Max, c.Mean))
		}
		if len(c.TopValues) > 0 {
			b.WriteString(" — top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
