package components

// Cursor tracks the highlighted row of a list whose length changes under
// it, such as a fetched page or a filtered palette. When window is positive
// only that many rows are shown and the offset scrolls to keep the cursor
// in view.
type Cursor struct {
	pos    int
	offset int
	count  int
	window int
}

// NewCursor returns a cursor showing at most window rows; 0 shows all rows.
func NewCursor(window int) Cursor {
	if window < 0 {
		window = 0
	}
	return Cursor{window: window}
}

// Pos returns the 0-based highlighted row.
func (c *Cursor) Pos() int { return c.pos }

// Count returns the number of rows the cursor moves over.
func (c *Cursor) Count() int { return c.count }

// AtTop reports whether the first row is highlighted.
func (c *Cursor) AtTop() bool { return c.pos == 0 }

// Home returns to the first row.
func (c *Cursor) Home() {
	c.pos = 0
	c.offset = 0
}

// Reset sets a new row count and returns to the first row.
func (c *Cursor) Reset(count int) {
	c.count = max(count, 0)
	c.Home()
}

// SetCount sets a new row count and keeps the position when it still exists.
func (c *Cursor) SetCount(count int) {
	c.count = max(count, 0)
	c.pos = min(c.pos, max(c.count-1, 0))
	c.scroll()
}

// Down moves one row down. It reports whether the cursor moved.
func (c *Cursor) Down() bool {
	if c.pos >= c.count-1 {
		return false
	}
	c.pos++
	c.scroll()
	return true
}

// Up moves one row up. It reports whether the cursor moved.
func (c *Cursor) Up() bool {
	if c.pos == 0 {
		return false
	}
	c.pos--
	c.scroll()
	return true
}

// Window returns the half-open range of rows to render.
func (c *Cursor) Window() (start, end int) {
	if c.window == 0 {
		return 0, c.count
	}
	return c.offset, min(c.offset+c.window, c.count)
}

func (c *Cursor) scroll() {
	if c.window == 0 {
		c.offset = 0
		return
	}
	if c.pos < c.offset {
		c.offset = c.pos
	}
	if c.pos >= c.offset+c.window {
		c.offset = c.pos - c.window + 1
	}
	c.offset = max(min(c.offset, c.count-c.window), 0)
}
