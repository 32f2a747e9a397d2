package grid

import "slices"

// Cursor walks every point of a grid in a fixed order, treating the first index
// as least significant. A Cursor is a plain value: Next never modifies the
// receiver, so a cursor stored in an older state keeps its position.
//
// The zero Cursor starts at the origin.
type Cursor struct {
	next GridPoint
	done bool
}

// Done reports whether the walk has visited every grid point.
func (c Cursor) Done() bool { return c.done }

// Position returns the point the next call to Next will yield, or nil once done.
func (c Cursor) Position() GridPoint {
	if c.done {
		return nil
	}
	return slices.Clone(c.next)
}

// Next returns the current point and the cursor advanced past it. ok is false
// once every point has been visited.
func (c Cursor) Next(g *Grid) (GridPoint, Cursor, bool) {
	if c.done {
		return nil, c, false
	}
	current := c.next
	if current == nil {
		current = make(GridPoint, g.Len())
	}

	next := slices.Clone(current)
	overflow := true
	for i := range next {
		if next[i]+1 <= g.Last(i) {
			next[i]++
			overflow = false
			break
		}
		next[i] = 0
	}

	if overflow {
		return slices.Clone(current), Cursor{done: true}, true
	}
	return slices.Clone(current), Cursor{next: next}, true
}
