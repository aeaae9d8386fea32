package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorScrollsWithinWindow(t *testing.T) {
	c := NewCursor(3)
	c.Reset(5)

	for _, want := range []struct{ pos, start, end int }{
		{1, 0, 3},
		{2, 0, 3},
		{3, 1, 4},
		{4, 2, 5},
	} {
		assert.True(t, c.Down())
		start, end := c.Window()
		assert.Equal(t, want.pos, c.Pos())
		assert.Equal(t, want.start, start)
		assert.Equal(t, want.end, end)
	}
	assert.False(t, c.Down(), "last row")
	assert.Equal(t, 4, c.Pos())

	for c.Up() {
	}
	assert.True(t, c.AtTop())
	start, end := c.Window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
}

func TestCursorWithoutWindowShowsAllRows(t *testing.T) {
	c := NewCursor(0)
	c.Reset(12)
	for i := 0; i < 11; i++ {
		c.Down()
	}
	start, end := c.Window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 12, end)
	assert.Equal(t, 11, c.Pos())
}

func TestCursorSetCountClamps(t *testing.T) {
	c := NewCursor(4)
	c.Reset(10)
	for i := 0; i < 8; i++ {
		c.Down()
	}
	assert.Equal(t, 8, c.Pos())

	c.SetCount(3)
	assert.Equal(t, 2, c.Pos())
	start, end := c.Window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)

	c.SetCount(0)
	assert.Equal(t, 0, c.Pos())
	assert.False(t, c.Down())
	assert.False(t, c.Up())
	start, end = c.Window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestCursorResetAndHome(t *testing.T) {
	c := NewCursor(2)
	c.Reset(6)
	c.Down()
	c.Down()
	c.Down()
	c.Home()
	assert.True(t, c.AtTop())
	assert.Equal(t, 6, c.Count())

	c.Reset(-1)
	assert.Equal(t, 0, c.Count())
}
