package paint

import "picstack/raster"

// Canvas is a pixel buffer with lazily cached dimensions. The cache is
// cleared whenever the buffer is replaced.
type Canvas struct {
	buf    *raster.Buffer
	width  int
	height int
}

func (c *Canvas) Width() int {
	if c.width == 0 {
		c.width = c.buf.Width()
	}
	return c.width
}

func (c *Canvas) Height() int {
	if c.height == 0 {
		c.height = c.buf.Height()
	}
	return c.height
}

// Buffer returns the current pixel buffer.
func (c *Canvas) Buffer() *raster.Buffer {
	return c.buf
}

// replace installs buf and releases the previous buffer.
func (c *Canvas) replace(buf *raster.Buffer) {
	if c.buf != nil && c.buf != buf {
		c.buf.Release()
	}
	c.buf = buf
	c.width, c.height = 0, 0
}

func (c *Canvas) release() {
	if c.buf != nil {
		c.buf.Release()
		c.buf = nil
	}
	c.width, c.height = 0, 0
}
