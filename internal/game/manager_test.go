package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager(t *testing.T) {
	created := 0
	m := NewManager(func(seat int64) *Table {
		created++
		return NewTable(NewSource(seat))
	})

	assert.Nil(t, m.Get(1))
	a := m.GetOrCreate(1)
	assert.Same(t, a, m.GetOrCreate(1))
	assert.Same(t, a, m.Get(1))
	m.GetOrCreate(2)
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, m.Len())

	m.Delete(1)
	assert.Nil(t, m.Get(1))
	assert.Equal(t, 1, m.Len())
}
