package synthesis

import (
	"testing"

	"github.com/RouteBytes/synthese-cli/internal/labels"
	"github.com/RouteBytes/synthese-cli/internal/table"
)

func TestParseDate(t *testing.T) {
	d, ok := parseDate("2024", "3", "15")
	if !ok || d.Format("2006-01-02") != "2024-03-15" {
		t.Fatalf("parseDate = %v, %v", d, ok)
	}
	if _, ok := parseDate("2024", "2", "30"); ok {
		t.Fatal("Feb 30 should not parse")
	}
	if _, ok := parseDate("2024", "13", "1"); ok {
		t.Fatal("month 13 should not parse")
	}
	if _, ok := parseDate("", "3", "15"); ok {
		t.Fatal("missing year should not parse")
	}
}

func TestDayPeriod(t *testing.T) {
	cases := []struct{ in, want string }{
		{"07:45", "Matin"},
		{"12:00", "Après-midi"},
		{"19:30", "Soirée"},
		{"02:15", "Nuit"},
		{"23:59", "Nuit"},
		{"0745", "Matin"}, // older vintages without separator
		{"", labels.Unknown},
		{"xx:yy", labels.Unknown},
	}
	for _, c := range cases {
		if got := dayPeriod(c.in); got != c.want {
			t.Errorf("dayPeriod(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUserAgeAndBand(t *testing.T) {
	if age, ok := userAge("1990", 2024); !ok || age != 34 {
		t.Fatalf("userAge(1990) = %d, %v", age, ok)
	}
	if _, ok := userAge("-1", 2024); ok {
		t.Fatal("-1 is the missing marker")
	}
	if _, ok := userAge("", 2024); ok {
		t.Fatal("empty birth year should not produce an age")
	}
	if _, ok := userAge("2030", 2024); ok {
		t.Fatal("negative age should be rejected")
	}
	bands := []struct {
		age  int
		want string
	}{
		{5, "0-17"}, {17, "0-17"}, {18, "18-24"}, {24, "18-24"},
		{25, "25-34"}, {34, "25-34"}, {35, "35-44"}, {44, "35-44"},
		{45, "45-54"}, {54, "45-54"}, {55, "55-64"}, {64, "55-64"},
		{65, "65+"}, {90, "65+"},
	}
	for _, b := range bands {
		if got := ageBand(b.age); got != b.want {
			t.Errorf("ageBand(%d) = %q, want %q", b.age, got, b.want)
		}
	}
}

func TestEnrichDerivedColumns(t *testing.T) {
	src := table.New(
		[]string{"Num_Acc", "jour", "mois", "an", "hrmn", "grav", "an_nais"},
		[][]string{
			{"A", "15", "3", "2024", "07:45", "4", "1990"}, // Friday
			{"B", "1", "6", "2024", "23:10", "2", "-1"},    // Saturday
			{"C", "30", "2", "2024", "", "1", ""},          // invalid date
		},
	)
	got := enrich(src, 2024)

	row := got.Rows[0]
	if got.Get(row, "date") != "2024-03-15" {
		t.Fatalf("date = %q", got.Get(row, "date"))
	}
	if got.Get(row, "jour_semaine") != "Vendredi" {
		t.Fatalf("jour_semaine = %q", got.Get(row, "jour_semaine"))
	}
	if got.Get(row, "periode_journee") != "Matin" {
		t.Fatalf("periode_journee = %q", got.Get(row, "periode_journee"))
	}
	if got.Get(row, "est_weekend") != "0" {
		t.Fatalf("est_weekend = %q", got.Get(row, "est_weekend"))
	}
	if got.Get(row, "mois_nom") != "Mars" {
		t.Fatalf("mois_nom = %q", got.Get(row, "mois_nom"))
	}
	if got.Get(row, "trimestre") != "1" {
		t.Fatalf("trimestre = %q", got.Get(row, "trimestre"))
	}
	if got.Get(row, "age") != "34" || got.Get(row, "tranche_age") != "25-34" {
		t.Fatalf("age = %q, tranche = %q", got.Get(row, "age"), got.Get(row, "tranche_age"))
	}
	if got.Get(row, "grav_code") != "4" || got.Get(row, "grav_desc") != "Blessé léger" {
		t.Fatalf("grav enrichment = %q / %q", got.Get(row, "grav_code"), got.Get(row, "grav_desc"))
	}

	row = got.Rows[1]
	if got.Get(row, "est_weekend") != "1" {
		t.Fatalf("Saturday est_weekend = %q", got.Get(row, "est_weekend"))
	}
	if got.Get(row, "age") != "" || got.Get(row, "tranche_age") != "" {
		t.Fatalf("missing birth year should leave age empty")
	}
	if got.Get(row, "grav_desc") != "Tué" {
		t.Fatalf("grav_desc = %q", got.Get(row, "grav_desc"))
	}

	row = got.Rows[2]
	if got.Get(row, "date") != "" {
		t.Fatalf("invalid date should be empty, got %q", got.Get(row, "date"))
	}
	if got.Get(row, "jour_semaine") != labels.Unknown {
		t.Fatalf("jour_semaine = %q", got.Get(row, "jour_semaine"))
	}
	if got.Get(row, "periode_journee") != labels.Unknown {
		t.Fatalf("periode_journee = %q", got.Get(row, "periode_journee"))
	}
}

func TestEnrichSkipsAbsentCodedColumns(t *testing.T) {
	src := table.New([]string{"Num_Acc", "grav"}, [][]string{{"A", "1"}})
	got := enrich(src, 2024)
	if _, ok := got.Col("grav_desc"); !ok {
		t.Fatal("grav_desc missing")
	}
	if _, ok := got.Col("catv_desc"); ok {
		t.Fatal("catv_desc should not exist when catv is absent")
	}
}
