package synthesis

import (
	"fmt"
	"strconv"

	"github.com/RouteBytes/synthese-cli/internal/table"
)

// aggregateColumns is the stable order of the per-accident statistics
// broadcast onto every user-level row of that accident.
var aggregateColumns = []string{
	"nb_usagers", "nb_pietons",
	"nb_tues", "nb_blesses_hospitalises", "nb_blesses_legers", "nb_indemnes",
	"nb_vehicules", "pct_hommes", "age_moyen",
	"score_gravite", "categorie_gravite", "accident_mortel",
}

type accidentAcc struct {
	users    int
	pietons  int
	tues     int
	hosp     int
	legers   int
	indemnes int
	hommes   int
	ageSum   int
	ageN     int
	vehicles int
}

// severityCategory buckets an accident by its worst outcome.
func (a *accidentAcc) severityCategory() string {
	switch {
	case a.tues > 0:
		return "Mortel"
	case a.hosp > 0:
		return "Grave"
	case a.legers > 0:
		return "Léger"
	default:
		return "Matériel uniquement"
	}
}

// severityScore weights outcomes so the dashboard can rank accidents.
func (a *accidentAcc) severityScore() int {
	return a.tues*100 + a.hosp*30 + a.legers*10
}

// buildAccidentStats groups the users and vehicles tables by accident
// identifier and derives the per-accident severity statistics the
// dashboard filters on. The result is one row per accident, in first
// appearance order, ready to left-join onto the user-level table.
func buildAccidentStats(usagers, vehicules *table.Table, year int) *table.Table {
	accs := map[string]*accidentAcc{}
	var order []string

	for _, row := range usagers.Rows {
		key := usagers.Get(row, KeyColumn)
		if key == "" {
			continue
		}
		a := accs[key]
		if a == nil {
			a = &accidentAcc{}
			accs[key] = a
			order = append(order, key)
		}
		a.users++
		switch usagers.Get(row, "grav") {
		case "2":
			a.tues++
		case "3":
			a.hosp++
		case "4":
			a.legers++
		case "1":
			a.indemnes++
		}
		if usagers.Get(row, "catu") == "3" {
			a.pietons++
		}
		if usagers.Get(row, "sexe") == "1" {
			a.hommes++
		}
		if age, ok := userAge(usagers.Get(row, "an_nais"), year); ok {
			a.ageSum += age
			a.ageN++
		}
	}

	for _, row := range vehicules.Rows {
		key := vehicules.Get(row, KeyColumn)
		if a := accs[key]; a != nil {
			a.vehicles++
		}
	}

	headers := append([]string{KeyColumn}, aggregateColumns...)
	rows := make([][]string, 0, len(order))
	for _, key := range order {
		a := accs[key]
		pct := ""
		if a.users > 0 {
			pct = fmt.Sprintf("%.3f", float64(a.hommes)/float64(a.users))
		}
		ageMoyen := ""
		if a.ageN > 0 {
			ageMoyen = fmt.Sprintf("%.1f", float64(a.ageSum)/float64(a.ageN))
		}
		mortel := "0"
		if a.tues > 0 {
			mortel = "1"
		}
		rows = append(rows, []string{
			key,
			strconv.Itoa(a.users), strconv.Itoa(a.pietons),
			strconv.Itoa(a.tues), strconv.Itoa(a.hosp), strconv.Itoa(a.legers), strconv.Itoa(a.indemnes),
			strconv.Itoa(a.vehicles), pct, ageMoyen,
			strconv.Itoa(a.severityScore()), a.severityCategory(), mortel,
		})
	}
	return table.New(headers, rows)
}
