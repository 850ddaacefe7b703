// Package cursor reads an entity's parameter stream sequentially.
package cursor

import (
	"fmt"

	"github.com/tsawler/vdafs/core"
)

// Cursor walks the parameters of one entity
type Cursor struct {
	params []core.Param
	pos    int
}

// New creates a cursor positioned at the first parameter
func New(e *core.Entity) *Cursor {
	return &Cursor{params: e.Params}
}

// Pos returns the index of the next parameter
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of unread parameters
func (c *Cursor) Remaining() int {
	return len(c.params) - c.pos
}

// Peek returns the next parameter without consuming it
func (c *Cursor) Peek() (core.Param, bool) {
	if c.pos >= len(c.params) {
		return nil, false
	}
	return c.params[c.pos], true
}

func (c *Cursor) next(what string) (core.Param, error) {
	if c.pos >= len(c.params) {
		return nil, fmt.Errorf("missing %s at parameter %d", what, c.pos+1)
	}
	p := c.params[c.pos]
	c.pos++
	return p, nil
}

// Int reads an integer
func (c *Cursor) Int(what string) (int, error) {
	p, err := c.next(what)
	if err != nil {
		return 0, err
	}
	n, ok := core.AsInt(p)
	if !ok {
		return 0, fmt.Errorf("%s at parameter %d must be an integer, got %s", what, c.pos, p)
	}
	return n, nil
}

// Count reads a positive integer. Every counted item takes at least one
// parameter, so a count above the number of unread parameters is an error.
func (c *Cursor) Count(what string) (int, error) {
	n, err := c.Int(what)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", what, n)
	}
	if n > c.Remaining() {
		return 0, fmt.Errorf("%s %d exceeds the %d remaining parameters", what, n, c.Remaining())
	}
	return n, nil
}

// Float reads a number
func (c *Cursor) Float(what string) (float64, error) {
	p, err := c.next(what)
	if err != nil {
		return 0, err
	}
	f, ok := core.AsFloat(p)
	if !ok {
		return 0, fmt.Errorf("%s at parameter %d must be numeric, got %s", what, c.pos, p)
	}
	return f, nil
}

// Floats reads n numbers
func (c *Cursor) Floats(n int, what string) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("%s: negative value count %d", what, n)
	}
	if c.Remaining() < n {
		return nil, fmt.Errorf("%s incomplete: need %d values, have %d", what, n, c.Remaining())
	}
	out := make([]float64, n)
	for i := range out {
		f, err := c.Float(what)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// Blocks reads groups*size numbers, checking the size before multiplying
func (c *Cursor) Blocks(groups, size int, what string) ([]float64, error) {
	if groups < 0 || size < 0 {
		return nil, fmt.Errorf("%s: negative value count", what)
	}
	if size > 0 && groups > c.Remaining()/size {
		return nil, fmt.Errorf("%s incomplete: need %d x %d values, have %d", what, groups, size, c.Remaining())
	}
	return c.Floats(groups*size, what)
}

// Name reads an entity reference
func (c *Cursor) Name(what string) (string, error) {
	p, err := c.next(what)
	if err != nil {
		return "", err
	}
	n, ok := core.AsName(p)
	if !ok {
		return "", fmt.Errorf("%s at parameter %d must be an entity name, got %s", what, c.pos, p)
	}
	return n, nil
}

// Done returns an error if unread parameters remain
func (c *Cursor) Done() error {
	if r := c.Remaining(); r > 0 {
		return fmt.Errorf("%d unexpected trailing parameters", r)
	}
	return nil
}
