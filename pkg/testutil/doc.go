// Package testutil provides fixtures for testing relink components.
//
// Key components:
//   - DesignBuilder: declarative hierarchy setup with shared screens
//   - TemplateBuilder: library templates and in-memory stores
//   - MockUndoSink / MockNotifier: collaborators of the relink engine
//   - CreateFile: small on-disk fixtures for loader tests
//
// All test data should be defined inline, not in external files. Each test
// builds its own design; builders share no state.
package testutil
