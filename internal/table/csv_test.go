package table

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadFileSemicolon(t *testing.T) {
	path := writeTemp(t, "caract.csv", "Num_Acc;an;hrmn\n202400000001;2024;07:45\n")
	tbl, err := ReadFile(path, 0)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("rows = %d, want 1", tbl.Len())
	}
	if got := tbl.Get(tbl.Rows[0], "hrmn"); got != "07:45" {
		t.Fatalf("hrmn = %q", got)
	}
}

func TestReadFileSniffsComma(t *testing.T) {
	path := writeTemp(t, "out.csv", "a,b,c\n1,2,3\n")
	tbl, err := ReadFile(path, 0)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(tbl.Headers) != 3 {
		t.Fatalf("headers = %v", tbl.Headers)
	}
}

func TestReadFileStripsBOM(t *testing.T) {
	path := writeTemp(t, "bom.csv", "\xEF\xBB\xBFNum_Acc;x\nA;1\n")
	tbl, err := ReadFile(path, ';')
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if _, ok := tbl.Col("Num_Acc"); !ok {
		t.Fatalf("BOM not stripped, headers = %v", tbl.Headers)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"), 0); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	tbl := New([]string{"Num_Acc", "grav_desc"}, [][]string{
		{"A", "Blessé léger"},
		{"B", "Indemne"},
	})
	if err := WriteFile(path, tbl, ',', true); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("output missing UTF-8 BOM")
	}
	got, err := ReadFile(path, 0)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Len() != 2 || got.Get(got.Rows[0], "grav_desc") != "Blessé léger" {
		t.Fatalf("round trip mismatch: %v", got.Rows)
	}
	// No temp file left behind
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind")
	}
}

func TestWriteFileDeterministic(t *testing.T) {
	dir := t.TempDir()
	tbl := New([]string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})
	p1 := filepath.Join(dir, "one.csv")
	p2 := filepath.Join(dir, "two.csv")
	if err := WriteFile(p1, tbl, ',', true); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(p2, tbl, ',', true); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b1, _ := os.ReadFile(p1)
	b2, _ := os.ReadFile(p2)
	if !bytes.Equal(b1, b2) {
		t.Fatal("identical tables produced different bytes")
	}
}
