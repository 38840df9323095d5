package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RouteBytes/synthese-cli/internal/utils"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile loads a delimited text file into a Table. A UTF-8 BOM is
// stripped if present. If delim is 0 the delimiter is sniffed from the
// header line among ';', ',' and tab (ONISR publishes with ';').
func ReadFile(path string, delim rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if peek, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(peek, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	if delim == 0 {
		head, err := br.Peek(4096)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		delim = sniffDelimiter(string(head))
	}

	r := csv.NewReader(br)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(nil, nil), nil
		}
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read %s row %d: %w", path, len(rows)+2, err)
		}
		rows = append(rows, append([]string{}, rec...))
	}
	return New(header, rows), nil
}

// sniffDelimiter picks the delimiter occurring most often in the first
// line. Defaults to ';' since that is how the source tables ship.
func sniffDelimiter(head string) rune {
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	best, bestCount := ';', strings.Count(head, ";")
	for _, c := range []rune{',', '\t'} {
		if n := strings.Count(head, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// WriteFile writes the table as delimited text, atomically (temp file
// then rename) so a failed run never leaves a partial output. withBOM
// prepends a UTF-8 BOM, which keeps accented labels intact when the file
// is opened in spreadsheet tools.
func WriteFile(path string, t *Table, delim rune, withBOM bool) error {
	var buf bytes.Buffer
	if withBOM {
		buf.Write(utf8BOM)
	}
	w := csv.NewWriter(&buf)
	w.Comma = delim
	if err := w.Write(t.Headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		// Pad so every record has the full column set.
		if len(row) < len(t.Headers) {
			tmp := make([]string, len(t.Headers))
			copy(tmp, row)
			row = tmp
		}
		if err := w.Write(row[:len(t.Headers)]); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
