package ledger

import (
	"errors"

	"rentledger/internal/core"
)

// ErrStaleReference means an edit or delete named a row that is no longer
// in the table, typically because another session removed it first.
var ErrStaleReference = errors.New("transaction no longer exists")

// Row is a transaction with its surrogate key. IDs replace the original
// row-position identity: they are assigned monotonically when a snapshot
// is decoded and survive any amount of filtering on the view side.
type Row struct {
	ID int64
	core.Transaction
}

// TransactionTable is the in-memory transaction table for one interaction
// cycle. It is not safe for concurrent use; each interaction works on its
// own loaded copy.
type TransactionTable struct {
	rows   []Row
	nextID int64
}

// NewTransactionTable wraps decoded rows, assigning IDs in table order.
func NewTransactionTable(txs []core.Transaction) *TransactionTable {
	t := &TransactionTable{nextID: 1}
	for _, tx := range txs {
		t.rows = append(t.rows, Row{ID: t.nextID, Transaction: tx})
		t.nextID++
	}
	return t
}

// Rows returns the table in row order.
func (t *TransactionTable) Rows() []Row {
	return append([]Row(nil), t.rows...)
}

// Transactions returns the bare records in row order, for aggregation and
// encoding.
func (t *TransactionTable) Transactions() []core.Transaction {
	out := make([]core.Transaction, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, r.Transaction)
	}
	return out
}

// Len returns the number of rows.
func (t *TransactionTable) Len() int {
	return len(t.rows)
}

// Get returns the row with the given ID.
func (t *TransactionTable) Get(id int64) (Row, error) {
	for _, r := range t.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return Row{}, ErrStaleReference
}

// Append adds the record at the end. No uniqueness check; always succeeds.
func (t *TransactionTable) Append(tx core.Transaction) Row {
	r := Row{ID: t.nextID, Transaction: tx}
	t.nextID++
	t.rows = append(t.rows, r)
	return r
}

// Replace removes the row with the given ID and appends the replacement as
// a new last row, keeping the remove-then-append shape edits have always
// had (an edited row moves to the end of the table).
func (t *TransactionTable) Replace(id int64, tx core.Transaction) (Row, error) {
	if err := t.Delete(id); err != nil {
		return Row{}, err
	}
	return t.Append(tx), nil
}

// Delete removes the row with the given ID.
func (t *TransactionTable) Delete(id int64) error {
	for i, r := range t.rows {
		if r.ID == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return nil
		}
	}
	return ErrStaleReference
}

// FilterRows returns the rows matching the filter, in table order, keeping
// their IDs so edits made from a filtered view land on the right row.
func (t *TransactionTable) FilterRows(f core.Filter) []Row {
	var out []Row
	for _, r := range t.rows {
		if f.Matches(r.Transaction) {
			out = append(out, r)
		}
	}
	return out
}

// OccupancyTable is the in-memory per-unit occupancy table. Uniqueness per
// apartment is enforced at write time, so the upsert path can never grow
// duplicate rows.
type OccupancyTable struct {
	rows []core.OccupancyRecord
}

// NewOccupancyTable wraps decoded rows as-is. Legacy files may contain
// duplicates; Get resolves them as first-match and the next Upsert for the
// apartment collapses them.
func NewOccupancyTable(rows []core.OccupancyRecord) *OccupancyTable {
	return &OccupancyTable{rows: append([]core.OccupancyRecord(nil), rows...)}
}

// SeedOccupancy builds the initial table: all 16 units occupied as of the
// given date. Run once at first initialization, not on every empty load.
func SeedOccupancy(asOf core.Date) *OccupancyTable {
	t := &OccupancyTable{}
	for _, unit := range core.Units() {
		t.rows = append(t.rows, core.OccupancyRecord{Apartment: unit, Occupied: true, LastChanged: asOf})
	}
	return t
}

// Records returns the table in row order.
func (t *OccupancyTable) Records() []core.OccupancyRecord {
	return append([]core.OccupancyRecord(nil), t.rows...)
}

// Len returns the number of rows.
func (t *OccupancyTable) Len() int {
	return len(t.rows)
}

// Get returns the first record for the apartment.
func (t *OccupancyTable) Get(apartment string) (core.OccupancyRecord, bool) {
	for _, r := range t.rows {
		if r.Apartment == apartment {
			return r, true
		}
	}
	return core.OccupancyRecord{}, false
}

// Upsert updates the record for the apartment in place, or appends one.
// Duplicate rows left behind by older files are dropped on the way.
func (t *OccupancyTable) Upsert(apartment string, occupied bool, changed core.Date) {
	rec := core.OccupancyRecord{Apartment: apartment, Occupied: occupied, LastChanged: changed}
	kept := t.rows[:0]
	replaced := false
	for _, r := range t.rows {
		if r.Apartment == apartment {
			if !replaced {
				kept = append(kept, rec)
				replaced = true
			}
			continue
		}
		kept = append(kept, r)
	}
	t.rows = kept
	if !replaced {
		t.rows = append(t.rows, rec)
	}
}
