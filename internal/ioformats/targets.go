
package ioformats

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Target is one company website to process.
type Target struct {
	URL     string `json:"url"`
	Company string `json:"company,omitempty"`
}

// ReadTargets reads targets from a CSV (header with "url" and optionally
// "company") or NDJSON file.
func ReadTargets(path string) ([]Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, filepath.Ext(path))
}

// Parse reads targets from r. ext selects the format; an unknown ext tries
// CSV first then NDJSON.
func Parse(r io.Reader, ext string) ([]Target, error) {
	switch strings.ToLower(ext) {
	case ".csv":
		return readCSV(r)
	case ".ndjson", ".jsonl":
		return readNDJSON(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if ts, err := readCSV(bytes.NewReader(data)); err == nil && len(ts) > 0 {
		return ts, nil
	}
	return readNDJSON(bytes.NewReader(data))
}

func readCSV(r io.Reader) ([]Target, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	urlCol, companyCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "url":
			urlCol = i
		case "company":
			companyCol = i
		}
	}
	if urlCol == -1 {
		return nil, errors.New("csv must contain a 'url' header column")
	}
	var out []Target
	for _, row := range rows[1:] {
		if urlCol >= len(row) {
			continue
		}
		t := Target{URL: strings.TrimSpace(row[urlCol])}
		if t.URL == "" {
			continue
		}
		if companyCol >= 0 && companyCol < len(row) {
			t.Company = strings.TrimSpace(row[companyCol])
		}
		out = append(out, t)
	}
	return out, nil
}

func readNDJSON(r io.Reader) ([]Target, error) {
	var out []Target
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		// a bare URL or {"url": "...", "company": "..."}
		if strings.HasPrefix(line, "{") {
			var t Target
			if err := json.Unmarshal([]byte(line), &t); err == nil && t.URL != "" {
				out = append(out, t)
				continue
			}
		}
		out = append(out, Target{URL: line})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no urls found in ndjson")
	}
	return out, nil
}

// WriteNDJSON writes each item as one JSON line.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for i, it := range items {
		if err := enc.Encode(it); err != nil {
			return fmt.Errorf("encode item %d: %w", i, err)
		}
	}
	return nil
}
