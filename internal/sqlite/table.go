package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

var _ types.Table = (*table)(nil)

// table implements types.Table for one table_name in the documents table.
type table struct {
	name    string
	backend *Backend
}

func (t *table) Name() string { return t.name }

// Get retrieves a document by eid.
func (t *table) Get(eid int) (types.Document, error) {
	if eid < 1 {
		return types.Document{}, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	if !t.backend.attached {
		return types.Document{}, types.ErrStoreDetached
	}
	fields, err := t.getLocked(eid)
	if err != nil {
		return types.Document{}, err
	}
	return types.Document{EID: eid, Fields: fields}, nil
}

// Insert stores fields under the eid after the table's high-water mark.
func (t *table) Insert(fields types.Fields) (int, error) {
	if fields == nil {
		return 0, types.ErrInvalidData
	}
	body, err := encodeBody(fields)
	if err != nil {
		return 0, err
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return 0, types.ErrStoreDetached
	}
	q := t.backend.q()

	last, err := lastEID(q, t.name)
	if err != nil {
		return 0, fmt.Errorf("allocating eid: %w", err)
	}
	eid := last + 1
	if _, err := q.Exec(
		"INSERT INTO documents (table_name, eid, body) VALUES (?, ?, ?)", t.name, eid, body,
	); err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}
	return eid, nil
}

// Update merges fields into the stored body of one document.
func (t *table) Update(eid int, fields types.Fields) error {
	if eid < 1 {
		return types.ErrInvalidID
	}
	if fields == nil {
		return types.ErrInvalidData
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return types.ErrStoreDetached
	}
	current, err := t.getLocked(eid)
	if err != nil {
		return err
	}
	for k, v := range fields {
		current[k] = v
	}
	body, err := encodeBody(current)
	if err != nil {
		return err
	}
	if _, err := t.backend.q().Exec(
		"UPDATE documents SET body = ? WHERE table_name = ? AND eid = ?", body, t.name, eid,
	); err != nil {
		return fmt.Errorf("updating document: %w", err)
	}
	return nil
}

// Search narrows candidates in SQL with json_extract on string-valued
// filter entries, then applies the full conjunctive match to each row.
func (t *table) Search(filter types.Filter) ([]types.Document, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}

	query := "SELECT eid, body FROM documents"
	conditions := []string{"table_name = ?"}
	args := []any{t.name}
	for field, want := range filter {
		s, ok := want.(string)
		if !ok {
			continue
		}
		path, ok := jsonPath(field)
		if !ok {
			continue
		}
		conditions = append(conditions, "json_extract(body, ?) = ?")
		args = append(args, path, s)
	}
	query += " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY eid ASC"

	rows, err := t.backend.q().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", t.name, err)
	}
	defer rows.Close()

	results := []types.Document{}
	for rows.Next() {
		var eid int
		var body string
		if err := rows.Scan(&eid, &body); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		fields, err := decodeBody(body)
		if err != nil {
			return nil, fmt.Errorf("document %s/%d: %w", t.name, eid, err)
		}
		if filter.Matches(fields) {
			results = append(results, types.Document{EID: eid, Fields: fields})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return results, nil
}

func (t *table) Len() (int, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	if !t.backend.attached {
		return 0, types.ErrStoreDetached
	}
	var n int
	if err := t.backend.q().QueryRow(
		"SELECT COUNT(*) FROM documents WHERE table_name = ?", t.name,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Delete removes one document. The mark is raised first, so a failed
// delete leaves at worst a reserved eid.
func (t *table) Delete(eid int) error {
	if eid < 1 {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return types.ErrStoreDetached
	}
	q := t.backend.q()
	if err := raiseMark(q, t.name, eid); err != nil {
		return err
	}
	res, err := q.Exec("DELETE FROM documents WHERE table_name = ? AND eid = ?", t.name, eid)
	if err != nil {
		return fmt.Errorf("deleting document %s/%d: %w", t.name, eid, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document %s/%d: %w", t.name, eid, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Purge deletes every document of the table and keeps its mark.
func (t *table) Purge() error {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return types.ErrStoreDetached
	}
	q := t.backend.q()
	last, err := lastEID(q, t.name)
	if err != nil {
		return fmt.Errorf("purging %s: %w", t.name, err)
	}
	if err := raiseMark(q, t.name, last); err != nil {
		return err
	}
	if _, err := q.Exec("DELETE FROM documents WHERE table_name = ?", t.name); err != nil {
		return fmt.Errorf("purging %s: %w", t.name, err)
	}
	return nil
}

func (t *table) LastEID() (int, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	if !t.backend.attached {
		return 0, types.ErrStoreDetached
	}
	return lastEID(t.backend.q(), t.name)
}

// lastEID returns the larger of the recorded mark and the largest stored
// eid of a table.
func lastEID(q querier, name string) (int, error) {
	var last int
	err := q.QueryRow(`SELECT MAX(
    COALESCE((SELECT MAX(eid) FROM documents WHERE table_name = ?), 0),
    COALESCE((SELECT last_eid FROM eid_sequences WHERE table_name = ?), 0)
)`, name, name).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("reading eid mark of %s: %w", name, err)
	}
	return last, nil
}

// raiseMark records eid as the table's mark unless a larger one is kept.
func raiseMark(q querier, name string, eid int) error {
	if eid < 1 {
		return nil
	}
	if _, err := q.Exec(`INSERT INTO eid_sequences (table_name, last_eid) VALUES (?, ?)
ON CONFLICT(table_name) DO UPDATE SET last_eid = MAX(last_eid, excluded.last_eid)`, name, eid); err != nil {
		return fmt.Errorf("recording eid mark of %s: %w", name, err)
	}
	return nil
}

// getLocked loads and decodes one body. The caller must hold backend.mu.
func (t *table) getLocked(eid int) (types.Fields, error) {
	var body string
	err := t.backend.q().QueryRow(
		"SELECT body FROM documents WHERE table_name = ? AND eid = ?", t.name, eid,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %s/%d: %w", t.name, eid, err)
	}
	return decodeBody(body)
}

// Restore replaces the table's rows with docs in one transaction and
// raises the mark to cover last and every restored eid.
func (t *table) Restore(docs []types.Document, last int) error {
	seen := make(map[int]bool, len(docs))
	bodies := make([]string, len(docs))
	mark := last
	for i, d := range docs {
		if d.EID < 1 || seen[d.EID] {
			return types.ErrInvalidID
		}
		seen[d.EID] = true
		mark = max(mark, d.EID)
		body, err := encodeBody(d.Fields.Clone())
		if err != nil {
			return err
		}
		bodies[i] = body
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return types.ErrStoreDetached
	}

	q := t.backend.q()
	var tx *sql.Tx
	if t.backend.tx == nil {
		var err error
		tx, err = t.backend.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning restore: %w", err)
		}
		defer tx.Rollback()
		q = tx
	}

	current, err := lastEID(q, t.name)
	if err != nil {
		return err
	}
	if err := raiseMark(q, t.name, max(mark, current)); err != nil {
		return err
	}
	if _, err := q.Exec("DELETE FROM documents WHERE table_name = ?", t.name); err != nil {
		return fmt.Errorf("clearing %s: %w", t.name, err)
	}
	for i, d := range docs {
		if _, err := q.Exec(
			"INSERT INTO documents (table_name, eid, body) VALUES (?, ?, ?)", t.name, d.EID, bodies[i],
		); err != nil {
			return fmt.Errorf("restoring document %d: %w", d.EID, err)
		}
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing restore: %w", err)
		}
	}
	return nil
}
