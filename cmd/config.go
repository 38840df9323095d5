package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/RouteBytes/synthese-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Synthese configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		fmt.Printf("dataset_dir: %s\n", c.DatasetDir)
		if c.OutputFile != "" {
			fmt.Printf("output_file: %s\n", c.OutputFile)
		} else {
			fmt.Printf("output_file: (default) %s/accidents_complet_synthese.csv\n", c.DatasetDir)
		}
		fmt.Printf("year: %d\n", c.Year)
		fmt.Printf("delimiter: %q\n", c.Delimiter)
		fmt.Printf("write_manifest: %v\n", c.WriteManifest)
		fmt.Printf("inspect_sample_rows: %d\n", c.InspectSampleRows)
		fmt.Printf("inspect_max_rows: %d\n", c.InspectMaxRows)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		switch key {
		case "dataset_dir":
			c.DatasetDir = val
		case "output_file":
			c.OutputFile = val
		case "year":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1900 || i > 2100 {
				return fmt.Errorf("invalid year: %v", val)
			}
			c.Year = i
		case "delimiter":
			switch val {
			case ";", ",", "tab", "":
				c.Delimiter = val
			default:
				return fmt.Errorf("invalid delimiter: %s (use ';' | ',' | 'tab')", val)
			}
		case "write_manifest":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for write_manifest: %v", val)
			}
			c.WriteManifest = b
		case "inspect_sample_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for inspect_sample_rows: %v", val)
			}
			c.InspectSampleRows = i
		case "inspect_max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for inspect_max_rows: %v", val)
			}
			c.InspectMaxRows = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
