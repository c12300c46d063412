package docstore

import (
	"sort"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

var _ types.Table = (*table)(nil)

// table is a view of one named table inside the backend's document.
// A failed write rolls the in-memory change back so memory and disk agree.
type table struct {
	name    string
	backend *Backend
}

func (t *table) Name() string { return t.name }

// Get retrieves a copy of the document with the given eid.
func (t *table) Get(eid int) (types.Document, error) {
	if eid < 1 {
		return types.Document{}, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	if !t.backend.attached {
		return types.Document{}, types.ErrStoreDetached
	}
	fields, ok := t.backend.tables[t.name][eid]
	if !ok {
		return types.Document{}, types.ErrNotFound
	}
	return types.Document{EID: eid, Fields: fields.Clone()}, nil
}

// Insert stores a copy of fields under the eid after the table's mark.
func (t *table) Insert(fields types.Fields) (int, error) {
	if fields == nil {
		return 0, types.ErrInvalidData
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return 0, types.ErrStoreDetached
	}
	td, ok := t.backend.tables[t.name]
	if !ok {
		td = tableData{}
		t.backend.tables[t.name] = td
	}

	eid := t.backend.lastEIDLocked(t.name) + 1
	td[eid] = fields.Clone()
	if err := t.backend.mutatedLocked(); err != nil {
		delete(td, eid)
		return 0, err
	}
	return eid, nil
}

// Update merges fields into the document with the given eid.
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
	td := t.backend.tables[t.name]
	current, ok := td[eid]
	if !ok {
		return types.ErrNotFound
	}

	merged := current.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	td[eid] = merged
	if err := t.backend.mutatedLocked(); err != nil {
		td[eid] = current
		return err
	}
	return nil
}

// Search scans the table and returns copies of the matching documents in
// eid order.
func (t *table) Search(filter types.Filter) ([]types.Document, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}
	td := t.backend.tables[t.name]
	results := []types.Document{}
	for _, eid := range sortedEIDs(td) {
		if filter.Matches(td[eid]) {
			results = append(results, types.Document{EID: eid, Fields: td[eid].Clone()})
		}
	}
	return results, nil
}

func (t *table) Len() (int, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	if !t.backend.attached {
		return 0, types.ErrStoreDetached
	}
	return len(t.backend.tables[t.name]), nil
}

// Delete removes one document, keeping its eid reserved.
func (t *table) Delete(eid int) error {
	if eid < 1 {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return types.ErrStoreDetached
	}
	td := t.backend.tables[t.name]
	current, ok := td[eid]
	if !ok {
		return types.ErrNotFound
	}

	mark, hadMark := t.backend.marks[t.name]
	t.backend.marks[t.name] = t.backend.lastEIDLocked(t.name)
	delete(td, eid)
	if err := t.backend.mutatedLocked(); err != nil {
		td[eid] = current
		t.restoreMark(mark, hadMark)
		return err
	}
	return nil
}

// Purge empties the table. The table stays in the document as {} and its
// eid mark is kept.
func (t *table) Purge() error {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return types.ErrStoreDetached
	}
	previous, existed := t.backend.tables[t.name]
	mark, hadMark := t.backend.marks[t.name]
	t.backend.marks[t.name] = t.backend.lastEIDLocked(t.name)
	t.backend.tables[t.name] = tableData{}
	if err := t.backend.mutatedLocked(); err != nil {
		if existed {
			t.backend.tables[t.name] = previous
		} else {
			delete(t.backend.tables, t.name)
		}
		t.restoreMark(mark, hadMark)
		return err
	}
	return nil
}

func (t *table) LastEID() (int, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()

	if !t.backend.attached {
		return 0, types.ErrStoreDetached
	}
	return t.backend.lastEIDLocked(t.name), nil
}

// restoreMark undoes a mark change after a failed write.
// The caller must hold backend.mu for writing.
func (t *table) restoreMark(mark int, had bool) {
	if had {
		t.backend.marks[t.name] = mark
	} else {
		delete(t.backend.marks, t.name)
	}
}

// maxEID returns the largest eid in td, or 0 for an empty table.
func maxEID(td tableData) int {
	m := 0
	for eid := range td {
		m = max(m, eid)
	}
	return m
}

func sortedEIDs(td tableData) []int {
	eids := make([]int, 0, len(td))
	for eid := range td {
		eids = append(eids, eid)
	}
	sort.Ints(eids)
	return eids
}

// Restore replaces the table with docs under their own eids. The mark only
// grows.
func (t *table) Restore(docs []types.Document, lastEID int) error {
	td := make(tableData, len(docs))
	for _, d := range docs {
		if d.EID < 1 {
			return types.ErrInvalidID
		}
		if _, dup := td[d.EID]; dup {
			return types.ErrInvalidID
		}
		td[d.EID] = d.Fields.Clone()
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()

	if !t.backend.attached {
		return types.ErrStoreDetached
	}
	previous, existed := t.backend.tables[t.name]
	mark, hadMark := t.backend.marks[t.name]
	t.backend.marks[t.name] = max(t.backend.lastEIDLocked(t.name), lastEID, maxEID(td))
	t.backend.tables[t.name] = td
	if err := t.backend.mutatedLocked(); err != nil {
		if existed {
			t.backend.tables[t.name] = previous
		} else {
			delete(t.backend.tables, t.name)
		}
		t.restoreMark(mark, hadMark)
		return err
	}
	return nil
}
