package layout

import "strconv"

// IDGenerator hands out node IDs. Implementations must return a distinct ID
// on every call.
type IDGenerator interface {
	Next() string
}

// Counter is an IDGenerator producing prefix0, prefix1, ... The zero value
// uses the prefix "n". It is not safe for concurrent use.
type Counter struct {
	prefix string
	n      int
}

// NewCounter returns a counter starting at zero.
func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

// Next returns the next ID.
func (c *Counter) Next() string {
	prefix := c.prefix
	if prefix == "" {
		prefix = "n"
	}
	id := prefix + strconv.Itoa(c.n)
	c.n++
	return id
}

// Reset restarts the counter at zero.
func (c *Counter) Reset() { c.n = 0 }
