package synthesis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RouteBytes/synthese-cli/internal/labels"
	"github.com/RouteBytes/synthese-cli/internal/table"
)

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Lundi",
	time.Tuesday:   "Mardi",
	time.Wednesday: "Mercredi",
	time.Thursday:  "Jeudi",
	time.Friday:    "Vendredi",
	time.Saturday:  "Samedi",
	time.Sunday:    "Dimanche",
}

var monthNames = map[int]string{
	1: "Janvier", 2: "Février", 3: "Mars", 4: "Avril",
	5: "Mai", 6: "Juin", 7: "Juillet", 8: "Août",
	9: "Septembre", 10: "Octobre", 11: "Novembre", 12: "Décembre",
}

// parseDate assembles an/mois/jour into a calendar date. Invalid or
// incomplete components yield ok=false; callers treat that as the
// missing-value sentinel rather than a fatal error.
func parseDate(an, mois, jour string) (time.Time, bool) {
	y, err1 := strconv.Atoi(strings.TrimSpace(an))
	m, err2 := strconv.Atoi(strings.TrimSpace(mois))
	d, err3 := strconv.Atoi(strings.TrimSpace(jour))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes Feb 30 to Mar 1; reject such rows.
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// dayPeriod buckets an hrmn value ("07:45") into the period of day.
func dayPeriod(hrmn string) string {
	s := strings.TrimSpace(hrmn)
	if s == "" {
		return labels.Unknown
	}
	hs := s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hs = s[:i]
	} else if len(s) > 2 {
		// Some vintages ship "0745" without a separator.
		hs = s[:len(s)-2]
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil || h < 0 || h > 23 {
		return labels.Unknown
	}
	switch {
	case h >= 6 && h < 12:
		return "Matin"
	case h >= 12 && h < 18:
		return "Après-midi"
	case h >= 18 && h < 22:
		return "Soirée"
	default:
		return "Nuit"
	}
}

// userAge derives an age from the birth-year column relative to the
// accident year. -1 is the upstream missing marker.
func userAge(anNais string, year int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(anNais))
	if err != nil || n == -1 {
		return 0, false
	}
	age := year - n
	if age < 0 || age > 120 {
		return 0, false
	}
	return age, true
}

// ageBand matches the dashboard's age buckets.
func ageBand(age int) string {
	switch {
	case age < 18:
		return "0-17"
	case age < 25:
		return "18-24"
	case age < 35:
		return "25-34"
	case age < 45:
		return "35-44"
	case age < 55:
		return "45-54"
	case age < 65:
		return "55-64"
	default:
		return "65+"
	}
}

// derivedColumns is the fixed order of the computed columns appended
// before the code/desc pairs.
var derivedColumns = []string{
	"date", "jour_semaine", "periode_journee", "est_weekend",
	"mois_nom", "trimestre", "age", "tranche_age",
}

// enrich appends the derived columns and, for every coded column present
// in the table, a <col>_code / <col>_desc pair. The input table is not
// modified.
func enrich(t *table.Table, year int) *table.Table {
	headers := append([]string{}, t.Headers...)
	headers = append(headers, derivedColumns...)
	var coded []string
	for _, col := range labels.CodedColumns {
		if _, ok := t.Col(col); ok {
			coded = append(coded, col)
			headers = append(headers, col+"_code", col+"_desc")
		}
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]string, 0, len(headers))
		out = append(out, row...)
		for len(out) < len(t.Headers) {
			out = append(out, "")
		}

		var dateStr, weekday, monthName, quarter, weekend string
		if d, ok := parseDate(t.Get(row, "an"), t.Get(row, "mois"), t.Get(row, "jour")); ok {
			dateStr = d.Format("2006-01-02")
			weekday = weekdayNames[d.Weekday()]
			monthName = monthNames[int(d.Month())]
			quarter = strconv.Itoa((int(d.Month())-1)/3 + 1)
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				weekend = "1"
			} else {
				weekend = "0"
			}
		} else {
			weekday = labels.Unknown
			monthName = labels.Unknown
		}

		var ageStr, band string
		if age, ok := userAge(t.Get(row, "an_nais"), year); ok {
			ageStr = strconv.Itoa(age)
			band = ageBand(age)
		}

		out = append(out,
			dateStr, weekday, dayPeriod(t.Get(row, "hrmn")), weekend,
			monthName, quarter, ageStr, band,
		)
		for _, col := range coded {
			raw := t.Get(row, col)
			out = append(out, raw, labels.Describe(col, raw))
		}
		rows[i] = out
	}
	return table.New(headers, rows)
}

// yearPrefix is the date prefix used by the defensive year filter.
func yearPrefix(year int) string {
	return fmt.Sprintf("%04d-", year)
}
