package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// Provenance fields added to every backup entry. Field names starting with
// an underscore are reserved and stripped from upsert input.
const (
	FieldSourceEID = "_source_eid"
	FieldBackupID  = "_backup_id"
)

// Result reports what an upsert did.
type Result struct {
	EID       int  `json:"eid"`                  // eid of the record in the main table
	Inserted  bool `json:"inserted"`             // true when no record with the key existed
	BackupEID int  `json:"backup_eid,omitempty"` // eid of the backup entry; zero on insert
}

// UpsertCollection inserts or overwrites a collection record.
func (c *Catalog) UpsertCollection(col types.Collection) (Result, error) {
	return c.Upsert(Collections, col.Fields())
}

// UpsertSeed inserts or overwrites a seed record.
func (c *Catalog) UpsertSeed(s types.Seed) (Result, error) {
	return c.Upsert(Seeds, s.Fields())
}

// Upsert inserts fields as a new record of kind k, or, when exactly one
// record carries the same key, copies that record into the backup table and
// overwrites it. The lookup is a single conjunctive search over every key
// field, and the eid it returns is the one updated.
//
// Missing or empty key fields fail with ErrMissingKey before the store is
// touched. More than one existing match fails with ErrDuplicateKey and
// changes nothing.
func (c *Catalog) Upsert(k Kind, fields types.Fields) (Result, error) {
	filter, err := types.KeyFilter(fields, k.Key)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", k.Name, err)
	}
	main, backup, err := c.tables(k)
	if err != nil {
		return Result{}, err
	}

	matches, err := main.Search(filter)
	if err != nil {
		return Result{}, fmt.Errorf("search %s: %w", k.Main, err)
	}

	switch len(matches) {
	case 0:
		record := writable(fields)
		record[types.FieldTimestamp] = c.timestamp(nil)
		eid, err := main.Insert(record)
		if err != nil {
			return Result{}, fmt.Errorf("insert %s: %w", k.Name, err)
		}
		c.log.Debug("inserted record",
			zap.String("table", k.Main), zap.Int("eid", eid), zap.Any("key", filter))
		return Result{EID: eid, Inserted: true}, nil
	case 1:
		return c.overwrite(k, main, backup, matches[0], fields)
	default:
		return Result{}, fmt.Errorf("%s %v: %d documents: %w", k.Name, filter, len(matches), types.ErrDuplicateKey)
	}
}

// overwrite appends existing to the backup table unmodified (plus the
// provenance fields), then merges fields into the main record. A failed
// merge deletes the backup entry again so history only holds versions that
// were actually replaced.
func (c *Catalog) overwrite(k Kind, main, backup types.Table, existing types.Document, fields types.Fields) (Result, error) {
	backupID, err := c.newID()
	if err != nil {
		return Result{}, err
	}
	snapshot := existing.Fields.Clone()
	snapshot[FieldSourceEID] = existing.EID
	snapshot[FieldBackupID] = backupID

	backupEID, err := backup.Insert(snapshot)
	if err != nil {
		return Result{}, fmt.Errorf("back up %s %d: %w", k.Name, existing.EID, err)
	}

	record := writable(fields)
	record[types.FieldTimestamp] = c.timestamp(existing.Fields)
	if err := main.Update(existing.EID, record); err != nil {
		err = fmt.Errorf("update %s %d: %w", k.Name, existing.EID, err)
		if derr := backup.Delete(backupEID); derr != nil {
			c.log.Error("orphaned backup entry",
				zap.String("backup_table", k.Backup), zap.Int("backup_eid", backupEID), zap.Error(derr))
			return Result{}, errors.Join(err, fmt.Errorf("remove backup %d: %w", backupEID, derr))
		}
		return Result{}, err
	}

	c.log.Debug("overwrote record",
		zap.String("table", k.Main), zap.Int("eid", existing.EID),
		zap.String("backup_table", k.Backup), zap.Int("backup_eid", backupEID))
	return Result{EID: existing.EID, BackupEID: backupEID}, nil
}

// timestamp returns the current write time in seconds since the epoch,
// nudged past the previous timestamp of prev when the clock has not
// advanced beyond it.
func (c *Catalog) timestamp(prev types.Fields) float64 {
	ts := float64(c.now().UnixNano()) / 1e9
	if last, ok := prev.Float(types.FieldTimestamp); ok && ts <= last {
		ts = math.Nextafter(last, math.Inf(1))
	}
	return ts
}

// writable copies fields without reserved names and without a caller
// supplied timestamp.
func writable(fields types.Fields) types.Fields {
	out := make(types.Fields, len(fields)+1)
	for k, v := range fields {
		if strings.HasPrefix(k, "_") || k == types.FieldTimestamp {
			continue
		}
		out[k] = v
	}
	return out
}
