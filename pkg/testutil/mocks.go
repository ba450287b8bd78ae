package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/arthur-debert/relink/pkg/types"
	"github.com/arthur-debert/relink/pkg/undo"
)

// MockUndoSink is a testify mock of undo.Sink
type MockUndoSink struct {
	mock.Mock
}

// RecordChange records the call
func (m *MockUndoSink) RecordChange(screen *types.Screen, symbol *types.Symbol, kind undo.ChangeKind, appendToOpen bool) {
	m.Called(screen, symbol, kind, appendToOpen)
}

// MockNotifier records every symbol it is told about
type MockNotifier struct {
	NotifyFunc func(symbol *types.Symbol)
	Notified   []*types.Symbol
}

// Notify appends symbol to Notified and runs NotifyFunc if set
func (m *MockNotifier) Notify(symbol *types.Symbol) {
	m.Notified = append(m.Notified, symbol)
	if m.NotifyFunc != nil {
		m.NotifyFunc(symbol)
	}
}
