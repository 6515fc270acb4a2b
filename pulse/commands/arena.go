package commands

// webgpu requires uniform buffer offsets to be aligned to 256 bytes
const uniformAlignment = 256

// uniformArena packs the uniform blocks of all draws of a command buffer into
// one buffer. Every draw gets its own slot, so a later draw never overwrites
// the parameters of an earlier one.
type uniformArena struct {
	data     []byte
	capacity int
}

type uniformSlot struct {
	Offset uint64
	Size   uint64
}

func newUniformArena(capacity int) uniformArena {
	return uniformArena{
		data:     make([]byte, 0, capacity),
		capacity: capacity,
	}
}

// push copies value into a new slot. ok is false if the arena is full.
func (a *uniformArena) push(value []byte) (slot uniformSlot, ok bool) {
	// bindings must not be empty and are sized in multiples of 16
	size := alignUp(max(len(value), 16), 16)

	offset := alignUp(len(a.data), uniformAlignment)
	if offset+size > a.capacity {
		return uniformSlot{}, false
	}

	// zero the padding and copy the value
	a.data = a.data[:offset+size]
	clear(a.data[offset : offset+size])
	copy(a.data[offset:], value)

	return uniformSlot{Offset: uint64(offset), Size: uint64(size)}, true
}

func (a *uniformArena) bytes() []byte {
	return a.data
}

func (a *uniformArena) empty() bool {
	return len(a.data) == 0
}

func (a *uniformArena) reset() {
	a.data = a.data[:0]
}

func alignUp(value, alignment int) int {
	return (value + alignment - 1) / alignment * alignment
}
