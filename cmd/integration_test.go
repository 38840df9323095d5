package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCmd executes the root command with args, resetting sticky flag
// state that persists across invocations.
func runCmd(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func resetFlags() {
	for _, name := range []string{"dataset-dir", "out", "year", "delimiter", "no-manifest"} {
		if fl := buildCmd.Flags().Lookup(name); fl != nil {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		}
	}
	for _, name := range []string{"output", "delimiter", "sample-rows", "max-rows"} {
		if fl := inspectCmd.Flags().Lookup(name); fl != nil {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		}
	}
	buildDatasetDir, buildOutputPath, buildDelimiter = "dataset", "", ""
	buildYear = 2024
	buildNoManifest = false
	insOutputPath, insDelimiter = "", ""
	insSampleRows, insMaxRows = 0, 0
}

func writeFixtureDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"caract-2024.csv": "Num_Acc;jour;mois;an;hrmn;lum;agg;atm\n" +
			"A;15;3;2024;07:45;1;2;1\n" +
			"B;1;6;2024;23:10;5;1;2\n",
		"lieux-2024.csv": "Num_Acc;catr;surf;vma\n" +
			"A;3;1;80\n" +
			"B;1;2;130\n",
		"usagers-2024.csv": "Num_Acc;id_usager;id_vehicule;num_veh;catu;grav;sexe;an_nais\n" +
			"A;U1;V1;B01;1;4;1;1990\n" +
			"A;U2;V1;B01;2;1;2;1995\n" +
			"B;U3;V2;B01;1;2;1;1960\n",
		"vehicules-2024.csv": "Num_Acc;id_vehicule;num_veh;catv;manv\n" +
			"A;V1;B01;7;1\n" +
			"B;V2;B01;33;2\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestBuildCommandEndToEnd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := writeFixtureDataset(t)
	if err := runCmd(t, "build", "--dataset-dir", dir, "--no-manifest"); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	out := filepath.Join(dir, "accidents_complet_synthese.csv")
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	content := string(b)
	if !strings.Contains(content, "grav_desc") {
		t.Fatal("output missing enriched columns")
	}
	if _, err := os.Stat(out + ".manifest.yaml"); !os.IsNotExist(err) {
		t.Fatal("--no-manifest should skip the sidecar")
	}
}

func TestBuildCommandWritesManifestByDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := writeFixtureDataset(t)
	if err := runCmd(t, "build", "--dataset-dir", dir); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	manifest := filepath.Join(dir, "accidents_complet_synthese.csv.manifest.yaml")
	b, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	for _, want := range []string{"run_id:", "year: 2024", "rows_written: 3"} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("manifest missing %q:\n%s", want, b)
		}
	}
}

func TestBuildCommandMissingInput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := writeFixtureDataset(t)
	if err := os.Remove(filepath.Join(dir, "usagers-2024.csv")); err != nil {
		t.Fatal(err)
	}
	err := runCmd(t, "build", "--dataset-dir", dir, "--no-manifest")
	if err == nil {
		t.Fatal("expected build to fail on missing input")
	}
	if !strings.Contains(err.Error(), "usagers-2024.csv") {
		t.Fatalf("error should name the missing file: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "accidents_complet_synthese.csv")); !os.IsNotExist(statErr) {
		t.Fatal("no output may exist after a fatal error")
	}
}

func TestInspectCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := writeFixtureDataset(t)
	summary := filepath.Join(t.TempDir(), "usagers.summary.md")
	if err := runCmd(t, "inspect", filepath.Join(dir, "usagers-2024.csv"), "--output", summary); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	b, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	if !strings.Contains(string(b), "[TABLE SUMMARY]") || !strings.Contains(string(b), "Rows: 3") {
		t.Fatalf("unexpected summary:\n%s", b)
	}
}

func TestInspectCommandBadDelimiterFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := writeFixtureDataset(t)
	if err := runCmd(t, "inspect", filepath.Join(dir, "usagers-2024.csv"), "--delimiter", "|"); err == nil {
		t.Fatal("expected unsupported delimiter error")
	}
}
