package render

import "sync"

// visibilityBitCount is the width of the visibility flag word.
const visibilityBitCount = 32

// VisibilityArena hands out visibility bits as explicitly owned handles.
// Each render target takes one bit at construction and releases it in
// its Close; the arena is plain state owned by whoever builds the
// component, not a process-wide singleton.
type VisibilityArena struct {
	mu   sync.Mutex
	used uint32
}

// NewVisibilityArena creates an arena with all bits free.
func NewVisibilityArena() *VisibilityArena {
	return &VisibilityArena{}
}

// Alloc reserves the lowest free bit.
func (a *VisibilityArena) Alloc() (*VisibilityHandle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < visibilityBitCount; i++ {
		bit := uint32(1) << uint(i)
		if a.used&bit == 0 {
			a.used |= bit
			return &VisibilityHandle{arena: a, bit: bit}, nil
		}
	}
	return nil, ErrNoVisibilityBits
}

// VisibilityHandle is an owned visibility bit. Release returns it to
// the arena; Release is idempotent.
type VisibilityHandle struct {
	arena *VisibilityArena
	bit   uint32
	once  sync.Once
}

// Mask returns the bit as a visibility mask.
func (h *VisibilityHandle) Mask() uint32 { return h.bit }

// Release frees the bit back to the arena.
func (h *VisibilityHandle) Release() {
	h.once.Do(func() {
		h.arena.mu.Lock()
		h.arena.used &^= h.bit
		h.arena.mu.Unlock()
	})
}
