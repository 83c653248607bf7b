package ledger

import (
	"context"
	"time"

	"screenshot-mirror/core/reconcile"

	"gorm.io/gorm"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "synced_files"

// entry is one synced name.
type entry struct {
	// Name is the synced item name.
	Name string `gorm:"primaryKey;size:255"`

	// SyncedAt is when the set containing this name was last saved.
	SyncedAt time.Time
}

// SQL is a ledger stored as rows of a database table.
type SQL struct {
	db    *gorm.DB
	table string
}

// NewSQL creates a database ledger on table. An empty table uses DefaultTable.
func NewSQL(db *gorm.DB, table string) *SQL {
	if table == "" {
		table = DefaultTable
	}
	return &SQL{db: db, table: table}
}

// Migrate creates or updates the ledger table.
func (s *SQL) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).Table(s.table).AutoMigrate(&entry{})
}

// Load reads every name in the table. Query failures yield an empty set
// with a KindLedgerRead error.
func (s *SQL) Load(ctx context.Context) (map[string]struct{}, error) {
	var names []string
	if err := s.db.WithContext(ctx).Table(s.table).Pluck("name", &names).Error; err != nil {
		return map[string]struct{}{}, reconcile.NewError(reconcile.KindLedgerRead, reconcile.OpLoad, s.table, err)
	}
	return toSet(names), nil
}

// Save replaces the table contents with names in one transaction.
func (s *SQL) Save(ctx context.Context, names map[string]struct{}) error {
	now := time.Now().UTC()
	rows := make([]entry, 0, len(names))
	for _, n := range sorted(names) {
		rows = append(rows, entry{Name: n, SyncedAt: now})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(s.table).Where("1 = 1").Delete(&entry{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Table(s.table).CreateInBatches(rows, 500).Error
	})
	if err != nil {
		return reconcile.NewError(reconcile.KindLedgerWrite, reconcile.OpSave, s.table, err)
	}
	return nil
}
