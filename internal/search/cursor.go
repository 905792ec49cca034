package search

// None is the cursor position when no item is highlighted
const None = -1

// Cursor is the highlighted index into the result set together with the
// scroll window of the list. The row after the last item is the sentinel;
// it is rendered, and can scroll into view, only while a footer is shown.
type Cursor struct {
	index  int
	offset int
	height int
	count  int
	footer bool
}

// NewCursor creates a cursor with a window of height rows
func NewCursor(height int) *Cursor {
	if height < 1 {
		height = 1
	}
	return &Cursor{index: None, height: height}
}

// Current returns the highlighted index or None
func (c *Cursor) Current() int {
	return c.index
}

// Offset returns the first visible row
func (c *Cursor) Offset() int {
	return c.offset
}

// Height returns the window height in rows
func (c *Cursor) Height() int {
	return c.height
}

// Window returns the visible item range [start, end)
func (c *Cursor) Window() (int, int) {
	end := c.offset + c.height
	if end > c.count {
		end = c.count
	}
	return c.offset, end
}

// Reset clears the highlight and scrolls to the top of a new result set
func (c *Cursor) Reset(count int, footer bool) {
	c.index = None
	c.offset = 0
	c.count = count
	c.footer = footer
}

// SetCount updates the size of the result set, keeping the position
func (c *Cursor) SetCount(count int, footer bool) {
	c.count = count
	c.footer = footer
	if c.index >= count {
		c.index = count - 1
	}
	c.clampOffset()
}

// SetHeight resizes the window
func (c *Cursor) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	c.height = height
	c.clampOffset()
	c.ensureVisible()
}

// MoveDown highlights the next item, stopping at the last one
func (c *Cursor) MoveDown() bool {
	if c.count == 0 || c.index >= c.count-1 {
		return false
	}
	c.index++
	c.ensureVisible()
	return true
}

// MoveUp highlights the previous item; above the first item nothing is
// highlighted
func (c *Cursor) MoveUp() bool {
	if c.index == None {
		return false
	}
	c.index--
	c.ensureVisible()
	return true
}

// Hover highlights index i; out of range indices are ignored
func (c *Cursor) Hover(i int) bool {
	if i < 0 || i >= c.count || i == c.index {
		return false
	}
	c.index = i
	c.ensureVisible()
	return true
}

// Scroll moves the window by delta rows without moving the highlight
func (c *Cursor) Scroll(delta int) bool {
	old := c.offset
	c.offset += delta
	c.clampOffset()
	return c.offset != old
}

// SentinelVisible reports whether the row after the last item is inside
// the window
func (c *Cursor) SentinelVisible() bool {
	return c.footer && c.offset+c.height > c.count
}

func (c *Cursor) rows() int {
	if c.footer {
		return c.count + 1
	}
	return c.count
}

func (c *Cursor) clampOffset() {
	maxOffset := c.rows() - c.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if c.offset > maxOffset {
		c.offset = maxOffset
	}
	if c.offset < 0 {
		c.offset = 0
	}
}

func (c *Cursor) ensureVisible() {
	if c.index == None {
		return
	}
	// reaching the last item also reveals the sentinel below it
	bottom := c.index
	if c.index == c.count-1 && c.footer {
		bottom = c.count
	}
	if c.index < c.offset {
		c.offset = c.index
	} else if bottom >= c.offset+c.height {
		c.offset = bottom - c.height + 1
	}
	c.clampOffset()
}
