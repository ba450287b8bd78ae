// Package undo defines how relink hands pre-images of mutated symbols to an
// undo/redo store, and provides an in-memory Stack implementing it.
package undo

import (
	"github.com/arthur-debert/relink/pkg/types"
)

// ChangeKind describes what happened to a recorded item
type ChangeKind int

const (
	// ChangeKindChanged marks an item modified in place
	ChangeKindChanged ChangeKind = iota
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeKindChanged:
		return "changed"
	}
	return "unknown"
}

// Sink receives the pre-image of every symbol before it is mutated. With
// appendToOpen false a new transaction starts; with true the record joins the
// transaction opened last.
type Sink interface {
	RecordChange(screen *types.Screen, symbol *types.Symbol, kind ChangeKind, appendToOpen bool)
}

// Record is one captured pre-image
type Record struct {
	Screen   *types.Screen
	Symbol   *types.Symbol
	PreImage *types.Symbol
	Kind     ChangeKind
}

// Transaction groups the records one undo step reverts
type Transaction struct {
	Records []Record
}

// Stack is an in-memory Sink
type Stack struct {
	transactions []*Transaction
}

// NewStack creates an empty stack
func NewStack() *Stack {
	return &Stack{}
}

// RecordChange captures a clone of symbol as it is right now
func (s *Stack) RecordChange(screen *types.Screen, symbol *types.Symbol, kind ChangeKind, appendToOpen bool) {
	rec := Record{
		Screen:   screen,
		Symbol:   symbol,
		PreImage: symbol.Clone(),
		Kind:     kind,
	}
	if !appendToOpen || len(s.transactions) == 0 {
		s.transactions = append(s.transactions, &Transaction{})
	}
	open := s.transactions[len(s.transactions)-1]
	open.Records = append(open.Records, rec)
}

// Len returns the number of undo steps available
func (s *Stack) Len() int {
	return len(s.transactions)
}

// Transactions returns the recorded transactions, oldest first
func (s *Stack) Transactions() []*Transaction {
	return append([]*Transaction(nil), s.transactions...)
}

// Undo reverts the most recent transaction. Records are restored newest first
// so a symbol recorded twice ends up in its oldest state.
func (s *Stack) Undo() bool {
	if len(s.transactions) == 0 {
		return false
	}
	last := s.transactions[len(s.transactions)-1]
	s.transactions = s.transactions[:len(s.transactions)-1]

	for i := len(last.Records) - 1; i >= 0; i-- {
		rec := last.Records[i]
		rec.Symbol.Restore(rec.PreImage)
	}
	return true
}
