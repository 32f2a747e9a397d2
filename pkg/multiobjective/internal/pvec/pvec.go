// Package pvec implements a persistent vector of fixed length.
//
// Elements live in fixed-size chunks. Updating a vector copies the chunk table and
// the chunks being written, and shares every other chunk with the original, so old
// versions stay valid and unchanged while an update costs O(len/ChunkSize + ChunkSize).
package pvec

const (
	chunkBits = 6
	// ChunkSize is the number of elements per chunk.
	ChunkSize = 1 << chunkBits
	chunkMask = ChunkSize - 1
)

type chunk[T any] [ChunkSize]T

// Vector is an immutable fixed-length sequence. The zero Vector has length 0.
type Vector[T any] struct {
	chunks []*chunk[T]
	n      int
}

// New allocates a vector of n elements, all set to fill. All chunks are allocated
// up front.
func New[T any](n int, fill T) Vector[T] {
	if n < 0 {
		panic("pvec: negative length")
	}
	chunks := make([]*chunk[T], (n+chunkMask)>>chunkBits)
	for i := range chunks {
		c := new(chunk[T])
		for j := range c {
			c[j] = fill
		}
		chunks[i] = c
	}
	return Vector[T]{chunks: chunks, n: n}
}

// Len returns the number of elements.
func (v Vector[T]) Len() int { return v.n }

// Get returns element i.
func (v Vector[T]) Get(i int) T {
	v.check(i)
	return v.chunks[i>>chunkBits][i&chunkMask]
}

// Set returns a vector equal to v except that element i is x.
func (v Vector[T]) Set(i int, x T) Vector[T] {
	e := v.Edit()
	e.Set(i, x)
	return e.Done()
}

// Slice copies elements [lo, hi) into a new slice.
func (v Vector[T]) Slice(lo, hi int) []T {
	if lo < 0 || hi > v.n || lo > hi {
		panic("pvec: slice bounds out of range")
	}
	out := make([]T, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, v.chunks[i>>chunkBits][i&chunkMask])
	}
	return out
}

// Chunks returns the number of chunks backing the vector.
func (v Vector[T]) Chunks() int { return len(v.chunks) }

// SharesChunk reports whether v and other use the same storage for element i.
func (v Vector[T]) SharesChunk(other Vector[T], i int) bool {
	v.check(i)
	other.check(i)
	return v.chunks[i>>chunkBits] == other.chunks[i>>chunkBits]
}

func (v Vector[T]) check(i int) {
	if i < 0 || i >= v.n {
		panic("pvec: index out of range")
	}
}

// Editor batches several writes against one vector, copying each touched chunk
// at most once. An Editor must not be used after Done.
type Editor[T any] struct {
	base   Vector[T]
	chunks []*chunk[T]
	owned  map[int]bool
}

// Edit starts a batch of writes based on v. v itself is never modified.
func (v Vector[T]) Edit() *Editor[T] {
	return &Editor[T]{base: v, owned: make(map[int]bool)}
}

// Get returns element i as written so far.
func (e *Editor[T]) Get(i int) T {
	e.base.check(i)
	if e.chunks != nil {
		return e.chunks[i>>chunkBits][i&chunkMask]
	}
	return e.base.chunks[i>>chunkBits][i&chunkMask]
}

// Set writes element i.
func (e *Editor[T]) Set(i int, x T) {
	e.base.check(i)
	if e.chunks == nil {
		e.chunks = make([]*chunk[T], len(e.base.chunks))
		copy(e.chunks, e.base.chunks)
	}
	ci := i >> chunkBits
	if !e.owned[ci] {
		c := *e.chunks[ci]
		e.chunks[ci] = &c
		e.owned[ci] = true
	}
	e.chunks[ci][i&chunkMask] = x
}

// Done returns the edited vector. With no writes it returns the base vector.
func (e *Editor[T]) Done() Vector[T] {
	if e.chunks == nil {
		return e.base
	}
	v := Vector[T]{chunks: e.chunks, n: e.base.n}
	e.chunks = nil
	e.owned = nil
	return v
}
