// Whole-file JSON document persistence with atomic replacement.
package docstore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// tableData maps eid to record body for one table.
type tableData map[int]types.Fields

// sequencesKey is the reserved top-level member holding eid high-water
// marks for tables whose largest eid was deleted or purged.
const sequencesKey = "_last_eids"

// readDocument loads the store document at path. A missing or empty file
// yields an empty store. Keys of each table object are decimal eids; the
// layout is the one TinyDB writes:
//
//	{"collections": {"1": {...}, "2": {...}}, "seeds": {...}}
//
// marks holds the recorded high-water marks, keyed by table name.
func readDocument(path string) (tables map[string]tableData, marks map[string]int, err error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]tableData{}, map[string]int{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]tableData{}, map[string]int{}, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	marks = map[string]int{}
	if seq, ok := doc[sequencesKey]; ok {
		if err := json.Unmarshal(seq, &marks); err != nil {
			return nil, nil, fmt.Errorf("parsing %s %s: %w", path, sequencesKey, err)
		}
		delete(doc, sequencesKey)
	}

	tables = make(map[string]tableData, len(doc))
	for name, body := range doc {
		var records map[string]types.Fields
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, nil, fmt.Errorf("parsing %s table %s: %w", path, name, err)
		}
		td := make(tableData, len(records))
		for key, fields := range records {
			eid, err := strconv.Atoi(key)
			if err != nil || eid < 1 {
				return nil, nil, fmt.Errorf("table %s key %q: %w", name, key, types.ErrInvalidID)
			}
			if fields == nil {
				fields = types.Fields{}
			}
			td[eid] = fields
		}
		tables[name] = td
	}
	return tables, marks, nil
}

// encodeDocument renders the tables in the on-disk layout. A mark is
// written only when it is above the table's largest stored eid, so a
// document that never lost its newest record stays plain TinyDB layout.
func encodeDocument(tables map[string]tableData, marks map[string]int) ([]byte, error) {
	doc := make(map[string]any, len(tables)+1)
	for name, td := range tables {
		records := make(map[string]types.Fields, len(td))
		for eid, fields := range td {
			records[strconv.Itoa(eid)] = fields
		}
		doc[name] = records
	}
	seq := map[string]int{}
	for name, mark := range marks {
		if mark > maxEID(tables[name]) {
			seq[name] = mark
		}
	}
	if len(seq) > 0 {
		doc[sequencesKey] = seq
	}
	return json.Marshal(doc)
}

// writeDocument atomically replaces path with data using the temp-file,
// fsync, rename pattern. A crash leaves either the old or the new document.
func writeDocument(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".walkcat-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
