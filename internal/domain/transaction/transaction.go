package transaction

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// txIDCounter is an atomic counter for generating sequential transaction IDs
var txIDCounter uint64

// ChangeType represents the type of modification
type ChangeType string

const (
	ChangeTypeInsert ChangeType = "INSERT"
	ChangeTypeUpdate ChangeType = "UPDATE"
	ChangeTypeDelete ChangeType = "DELETE"
)

// Change represents a single modification made during one menu operation
type Change struct {
	Type    ChangeType
	Table   string
	RowID   int64
	Data    map[string]string // New data for INSERT/UPDATE
	OldData map[string]string // Old data for UPDATE/DELETE
}

// Transaction groups the changes of one operation under a single id for
// logging. Statements are not made atomic by it: each change is applied
// as soon as it is recorded.
type Transaction struct {
	ID        string    // Unique identifier used as tx_id in logs
	TxID      uint64    // Sequential number within this process
	Active    bool      // Whether transaction is currently active
	StartTime time.Time // When the transaction began
	Changes   []Change  // Modifications made
}

// NewTransaction creates a new transaction with a unique ID
func NewTransaction() *Transaction {
	return &Transaction{
		ID:        uuid.New().String(),
		TxID:      atomic.AddUint64(&txIDCounter, 1),
		Active:    true,
		StartTime: time.Now(),
		Changes:   make([]Change, 0),
	}
}

// Record appends a change. Changes recorded after Close are dropped.
func (tx *Transaction) Record(c Change) {
	if !tx.Active {
		return
	}
	tx.Changes = append(tx.Changes, c)
}

// Counts returns how many changes of each type were recorded
func (tx *Transaction) Counts() map[ChangeType]int {
	counts := make(map[ChangeType]int, 3)
	for _, c := range tx.Changes {
		counts[c.Type]++
	}
	return counts
}

// Close marks the transaction as inactive
func (tx *Transaction) Close() {
	tx.Active = false
}
