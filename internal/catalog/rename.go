package catalog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// RenameResult reports the records rewritten by RenameCollection.
type RenameResult struct {
	Collection Result   `json:"collection"`
	Seeds      []Result `json:"seeds"`
}

// RenameCollection changes the title and folder of one collection and of
// every seed that references it by the old title and folder. Each changed
// record goes through the backup path, so the old values stay in the backup
// tables. Backup entries are never rewritten.
//
// All conflicts are checked before anything is written: a rename onto a
// collection key, or onto a seed key, that is already in use fails with
// ErrKeyConflict.
func (c *Catalog) RenameCollection(oldTitle, oldFolder, newTitle, newFolder string) (RenameResult, error) {
	if newTitle == "" || newFolder == "" {
		return RenameResult{}, fmt.Errorf("collection: %w", types.ErrMissingKey)
	}
	coll, err := c.FindCollection(oldTitle, oldFolder)
	if err != nil {
		return RenameResult{}, err
	}
	if oldTitle == newTitle && oldFolder == newFolder {
		return RenameResult{Collection: Result{EID: coll.EID}}, nil
	}

	collMain, collBackup, err := c.tables(Collections)
	if err != nil {
		return RenameResult{}, err
	}
	seedMain, seedBackup, err := c.tables(Seeds)
	if err != nil {
		return RenameResult{}, err
	}

	newKey := types.Filter{
		types.FieldCollectionTitle:  newTitle,
		types.FieldCollectionFolder: newFolder,
	}
	taken, err := collMain.Search(newKey)
	if err != nil {
		return RenameResult{}, fmt.Errorf("search %s: %w", Collections.Main, err)
	}
	if len(taken) > 0 {
		return RenameResult{}, fmt.Errorf("collection %v: %w", newKey, types.ErrKeyConflict)
	}

	seeds, err := seedMain.Search(types.Filter{
		types.FieldCollectionTitle:  oldTitle,
		types.FieldCollectionFolder: oldFolder,
	})
	if err != nil {
		return RenameResult{}, fmt.Errorf("search %s: %w", Seeds.Main, err)
	}
	for _, s := range seeds {
		name, _ := s.Fields.String(types.FieldSeedName)
		taken, err := seedMain.Search(types.Filter{
			types.FieldCollectionTitle:  newTitle,
			types.FieldCollectionFolder: newFolder,
			types.FieldSeedName:         name,
		})
		if err != nil {
			return RenameResult{}, fmt.Errorf("search %s: %w", Seeds.Main, err)
		}
		if len(taken) > 0 {
			return RenameResult{}, fmt.Errorf("seed %q: %w", name, types.ErrKeyConflict)
		}
	}

	rekey := types.Fields{
		types.FieldCollectionTitle:  newTitle,
		types.FieldCollectionFolder: newFolder,
	}
	var out RenameResult
	out.Collection, err = c.overwrite(Collections, collMain, collBackup, coll, rekey)
	if err != nil {
		return out, err
	}
	for _, s := range seeds {
		r, err := c.overwrite(Seeds, seedMain, seedBackup, s, rekey)
		if err != nil {
			return out, err
		}
		out.Seeds = append(out.Seeds, r)
	}

	c.log.Info("renamed collection",
		zap.String("from_title", oldTitle), zap.String("from_folder", oldFolder),
		zap.String("to_title", newTitle), zap.String("to_folder", newFolder),
		zap.Int("seeds", len(out.Seeds)))
	return out, nil
}
