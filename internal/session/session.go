// Package session carries the per-invocation conversation state that used
// to live in module-level globals: the project root and the ordered chat
// history, with snapshot/rollback for failed remote attempts.
package session

import "genforge/internal/model"

// Session is the explicit context object passed to each operation.
type Session struct {
	root  string
	turns []model.Turn
}

// New creates a session anchored at the given project root.
func New(root string) *Session {
	return &Session{root: root}
}

// Root returns the project root directory.
func (s *Session) Root() string {
	return s.root
}

// Turns returns a copy of the conversation history in emission order.
func (s *Session) Turns() []model.Turn {
	out := make([]model.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of recorded turns.
func (s *Session) Len() int {
	return len(s.turns)
}

// Append records one turn at the end of the history.
func (s *Session) Append(role, text string) {
	s.turns = append(s.turns, model.Turn{Role: role, Text: text})
}

// Mark returns a snapshot token for the current history length.
func (s *Session) Mark() int {
	return len(s.turns)
}

// Rollback discards every turn appended after the mark. A failed remote
// attempt rolls back its speculative entries so the retried attempt sees the
// same history as the original one.
func (s *Session) Rollback(mark int) {
	if mark < 0 {
		mark = 0
	}
	if mark < len(s.turns) {
		s.turns = s.turns[:mark]
	}
}

// Clear drops the whole conversation history.
func (s *Session) Clear() {
	s.turns = nil
}
