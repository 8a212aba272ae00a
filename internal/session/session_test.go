package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genforge/internal/model"
)

func TestAppendAndTurns(t *testing.T) {
	s := New("/tmp/project")
	s.Append(model.RoleUser, "hello")
	s.Append(model.RoleModel, "hi there")

	turns := s.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, "hi there", turns[1].Text)
	assert.Equal(t, "/tmp/project", s.Root())
}

func TestRollbackDiscardsSpeculativeTurns(t *testing.T) {
	s := New("")
	s.Append(model.RoleUser, "earlier question")
	s.Append(model.RoleModel, "earlier answer")

	mark := s.Mark()
	s.Append(model.RoleUser, "failed prompt")
	s.Append(model.RoleModel, "partial response")

	s.Rollback(mark)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "earlier answer", s.Turns()[1].Text)

	// Rolling back twice is harmless.
	s.Rollback(mark)
	assert.Equal(t, 2, s.Len())
}

func TestTurnsReturnsACopy(t *testing.T) {
	s := New("")
	s.Append(model.RoleUser, "a")

	turns := s.Turns()
	turns[0].Text = "mutated"

	assert.Equal(t, "a", s.Turns()[0].Text)
}

func TestClear(t *testing.T) {
	s := New("")
	s.Append(model.RoleUser, "a")
	s.Clear()
	assert.Zero(t, s.Len())
}
