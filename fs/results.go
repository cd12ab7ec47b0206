// Package fs persists crawl artifacts on the local filesystem: the page
// results file (one JSON object per line) and the link graph file.
package fs

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/webkb/webkb"
)

// ResultsWriter appends page records to a JSONL results file. Opening a
// writer truncates any previous file, so a recrawl fully replaces the old
// results rather than mixing runs.
type ResultsWriter struct {
	f   *os.File
	w   *bufio.Writer
	enc *json.Encoder
}

// NewResultsWriter opens path for writing, truncating existing content.
func NewResultsWriter(path string) (*ResultsWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, webkb.Errorf(webkb.EINTERNAL, "failed to create results directory: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, webkb.Errorf(webkb.EINTERNAL, "failed to create results file: %v", err)
	}
	w := bufio.NewWriter(f)
	return &ResultsWriter{f: f, w: w, enc: json.NewEncoder(w)}, nil
}

// Write appends one page record as a single JSON line.
func (rw *ResultsWriter) Write(record *webkb.PageRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if err := rw.enc.Encode(record); err != nil {
		return webkb.Errorf(webkb.EINTERNAL, "failed to write page record: %v", err)
	}
	return nil
}

// Close flushes and closes the results file.
func (rw *ResultsWriter) Close() error {
	if err := rw.w.Flush(); err != nil {
		rw.f.Close()
		return webkb.Errorf(webkb.EINTERNAL, "failed to flush results file: %v", err)
	}
	return rw.f.Close()
}

// ReadResults reads a JSONL results file. Malformed lines are skipped and
// counted rather than failing the whole read, so one corrupt record does
// not lose a crawl.
func ReadResults(path string) (records []*webkb.PageRecord, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, webkb.Errorf(webkb.ENOTFOUND, "results file %q not found", path)
		}
		return nil, 0, webkb.Errorf(webkb.EINTERNAL, "failed to open results file: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 32*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record webkb.PageRecord
		if err := json.Unmarshal(line, &record); err != nil {
			skipped++
			continue
		}
		records = append(records, &record)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, webkb.Errorf(webkb.EINTERNAL, "failed to read results file: %v", err)
	}
	return records, skipped, nil
}
