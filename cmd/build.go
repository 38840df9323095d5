package cmd

import (
	"fmt"

	"github.com/RouteBytes/synthese-cli/internal/synthesis"
	"github.com/spf13/cobra"
)

var (
	buildDatasetDir string
	buildOutputPath string
	buildYear       int
	buildDelimiter  string
	buildNoManifest bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the accident synthesis table from the four source files",
	Long: `Build reads caract-<year>.csv, lieux-<year>.csv, usagers-<year>.csv and
vehicules-<year>.csv from the dataset directory, joins them into one row
per (accident, user), enriches coded columns with readable labels, and
writes the synthesis CSV the dashboard loads. A missing input aborts the
run before any output is written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		opt := synthesis.Options{
			DatasetDir:   c.DatasetDir,
			OutputPath:   c.OutputFile,
			Year:         c.Year,
			SkipManifest: !c.WriteManifest,
		}
		delim, err := c.DelimiterRune()
		if err != nil {
			return err
		}
		opt.Delimiter = delim

		// Flag overrides, only when explicitly set
		f := cmd.Flags()
		if f.Changed("dataset-dir") {
			opt.DatasetDir = buildDatasetDir
			if !f.Changed("out") && c.OutputFile == "" {
				opt.OutputPath = "" // re-derive from the new dataset dir
			}
		}
		if f.Changed("out") {
			opt.OutputPath = buildOutputPath
		}
		if f.Changed("year") {
			opt.Year = buildYear
		}
		if f.Changed("delimiter") {
			d, err := parseDelimiterFlag(buildDelimiter)
			if err != nil {
				return err
			}
			opt.Delimiter = d
		}
		if f.Changed("no-manifest") {
			opt.SkipManifest = buildNoManifest
		}

		sum, err := synthesis.Build(opt)
		if err != nil {
			return err
		}

		for _, in := range sum.Inputs {
			fmt.Printf("  - %s: %d rows\n", in.Name, in.Rows)
		}
		fmt.Printf("✓ Wrote %s (%d rows)\n", sum.OutputPath, sum.RowsWritten)
		if sum.DroppedTotal() > 0 {
			fmt.Printf("⚠ Dropped %d rows: %d unresolved accident id, %d missing mandatory fields, %d outside %d\n",
				sum.DroppedTotal(), sum.DroppedUnresolved, sum.DroppedMissingMandatory, sum.DroppedOutOfYear, sum.Year)
		}
		return nil
	},
}

func parseDelimiterFlag(s string) (rune, error) {
	switch s {
	case ";":
		return ';', nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case "":
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s (use ';' | ',' | 'tab')", s)
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildDatasetDir, "dataset-dir", "dataset", "directory holding the four source CSV files")
	buildCmd.Flags().StringVarP(&buildOutputPath, "out", "o", "", "output path (default <dataset-dir>/accidents_complet_synthese.csv)")
	buildCmd.Flags().IntVar(&buildYear, "year", 2024, "target year: input file names and date filter")
	buildCmd.Flags().StringVar(&buildDelimiter, "delimiter", "", "source delimiter: ';' | ',' | 'tab' (auto-detect if omitted)")
	buildCmd.Flags().BoolVar(&buildNoManifest, "no-manifest", false, "skip writing the provenance manifest next to the output")
}
