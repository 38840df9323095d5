// Package synthesis builds the denormalized accident synthesis table
// consumed by the dashboard: one row per (accident, user), with
// characteristics, location and vehicle fields joined in and coded
// columns enriched with readable labels.
package synthesis

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/RouteBytes/synthese-cli/internal/table"
	"github.com/RouteBytes/synthese-cli/internal/utils"
)

const (
	// KeyColumn links one accident across all four source tables.
	KeyColumn = "Num_Acc"

	// DefaultOutputName matches what the dashboard loads.
	DefaultOutputName = "accidents_complet_synthese.csv"
)

// Options controls a synthesis run. Zero values fall back to the
// conventional dataset layout.
type Options struct {
	// DatasetDir holds the four source files; default "dataset".
	DatasetDir string
	// OutputPath of the synthesis CSV; default <DatasetDir>/accidents_complet_synthese.csv.
	OutputPath string
	// Year scopes the inputs and the defensive date filter; default 2024.
	Year int
	// Delimiter of the source files; 0 auto-detects (ONISR ships ';').
	Delimiter rune
	// SkipManifest suppresses the <output>.manifest.yaml sidecar.
	SkipManifest bool
}

func (o *Options) fillDefaults() {
	if o.DatasetDir == "" {
		o.DatasetDir = "dataset"
	}
	if o.Year == 0 {
		o.Year = 2024
	}
	if o.OutputPath == "" {
		o.OutputPath = filepath.Join(o.DatasetDir, DefaultOutputName)
	}
}

// InputCount records how many data rows one source file contributed.
type InputCount struct {
	Name string `yaml:"name"`
	Rows int    `yaml:"rows"`
}

// Summary reports what a run read, wrote and dropped.
type Summary struct {
	RunID      string       `yaml:"run_id"`
	Year       int          `yaml:"year"`
	OutputPath string       `yaml:"output"`
	Inputs     []InputCount `yaml:"inputs"`

	RowsWritten             int `yaml:"rows_written"`
	DroppedUnresolved       int `yaml:"dropped_unresolved_key"`
	DroppedMissingMandatory int `yaml:"dropped_missing_mandatory"`
	DroppedOutOfYear        int `yaml:"dropped_out_of_year"`
}

// DroppedTotal sums the per-reason drop counts.
func (s *Summary) DroppedTotal() int {
	return s.DroppedUnresolved + s.DroppedMissingMandatory + s.DroppedOutOfYear
}

// inputPaths returns the conventional file paths, keyed by role, in a
// fixed order: characteristics, locations, users, vehicles.
func inputPaths(dir string, year int) [4]string {
	return [4]string{
		filepath.Join(dir, fmt.Sprintf("caract-%d.csv", year)),
		filepath.Join(dir, fmt.Sprintf("lieux-%d.csv", year)),
		filepath.Join(dir, fmt.Sprintf("usagers-%d.csv", year)),
		filepath.Join(dir, fmt.Sprintf("vehicules-%d.csv", year)),
	}
}

// Build runs the full synthesis pipeline and writes the output file.
// A missing or unreadable input aborts before anything is written; the
// returned Summary carries the per-reason dropped-row counts.
func Build(opt Options) (*Summary, error) {
	opt.fillDefaults()
	paths := inputPaths(opt.DatasetDir, opt.Year)

	// Verify all inputs up front so we never fail mid-run with a
	// partially consumed dataset.
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("missing input file %s: %w", p, err)
		}
	}

	caract, err := table.ReadFile(paths[0], opt.Delimiter)
	if err != nil {
		return nil, err
	}
	lieux, err := table.ReadFile(paths[1], opt.Delimiter)
	if err != nil {
		return nil, err
	}
	usagers, err := table.ReadFile(paths[2], opt.Delimiter)
	if err != nil {
		return nil, err
	}
	vehicules, err := table.ReadFile(paths[3], opt.Delimiter)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		RunID:      uuid.NewString(),
		Year:       opt.Year,
		OutputPath: opt.OutputPath,
		Inputs: []InputCount{
			{Name: filepath.Base(paths[0]), Rows: caract.Len()},
			{Name: filepath.Base(paths[1]), Rows: lieux.Len()},
			{Name: filepath.Base(paths[2]), Rows: usagers.Len()},
			{Name: filepath.Base(paths[3]), Rows: vehicules.Len()},
		},
	}

	out := assemble(caract, lieux, usagers, vehicules, opt.Year, sum)

	if dir := filepath.Dir(opt.OutputPath); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := table.WriteFile(opt.OutputPath, out, ',', true); err != nil {
		return nil, fmt.Errorf("write synthesis: %w", err)
	}
	sum.RowsWritten = out.Len()

	if !opt.SkipManifest {
		if err := writeManifest(opt.OutputPath+".manifest.yaml", sum); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// assemble is the relational core: dedupe, join, enrich, clean, filter.
// It fills the dropped-row counters on sum as a side channel.
func assemble(caract, lieux, usagers, vehicules *table.Table, year int, sum *Summary) *table.Table {
	// Upstream occasionally repeats a characteristics or location row
	// for one accident; keep the first occurrence.
	caract = caract.DedupeByKey(KeyColumn)
	lieux = lieux.DedupeByKey(KeyColumn)
	vehicules = vehicules.DedupeByKey(KeyColumn, "id_vehicule", "num_veh")

	// Accident-level frame: characteristics with location fields.
	accident := table.LeftJoin(caract, lieux, []string{KeyColumn}, "_lieux")

	// Expand to one row per user; users pointing at an unknown accident
	// are dropped, not fabricated.
	perUser, dropped := table.InnerJoin(usagers, accident, []string{KeyColumn}, "_acc")
	sum.DroppedUnresolved = dropped

	// Vehicle fields where a linkage exists; pedestrians and unmatched
	// rows keep empty vehicle columns.
	full := table.LeftJoin(perUser, vehicules, []string{KeyColumn, "id_vehicule", "num_veh"}, "_veh")

	enriched := enrich(full, year)

	// Per-accident severity statistics, broadcast onto every user row of
	// that accident so the output stays self-consistent row by row.
	stats := buildAccidentStats(usagers, vehicules, year)
	enriched = table.LeftJoin(enriched, stats, []string{KeyColumn}, "_stats")

	before := enriched.Len()
	cleaned := enriched.Filter(func(row []string) bool {
		return enriched.Get(row, KeyColumn) != "" && enriched.Get(row, "date") != ""
	})
	sum.DroppedMissingMandatory = before - cleaned.Len()

	// Inputs are already year-scoped; a stray row must still not leak
	// into the dashboard's date range.
	prefix := yearPrefix(year)
	before = cleaned.Len()
	scoped := cleaned.Filter(func(row []string) bool {
		d := cleaned.Get(row, "date")
		return len(d) >= len(prefix) && d[:len(prefix)] == prefix
	})
	sum.DroppedOutOfYear = before - scoped.Len()

	return scoped
}
