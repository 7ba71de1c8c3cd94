package dodesc

import (
	"unsafe"

	"gosuda.org/dodesc/internal/protocol"
)

// Handles binds one registered display object to the four producer-owned
// blocks describing it. The blocks are never exposed as addresses; a
// Descriptor reads them, a producer writes them, nobody else touches them.
//
// The zero Handles is invalid.
type Handles struct {
	id      int32
	header  *protocol.Header
	dynamic *protocol.Dynamic
	static  *protocol.Static
	debug   *protocol.Debug
}

// NewHandles wraps the four blocks of a descriptor slot registered under id.
// The memory must stay mapped until every Descriptor bound to it is Reset.
// Blocks on the Go heap are pinned while bound, so a Descriptor bound to
// them must be Reset before either is dropped.
func NewHandles(id int32, header, dynamic, static, debug unsafe.Pointer) Handles {
	return Handles{
		id:      id,
		header:  (*protocol.Header)(header),
		dynamic: (*protocol.Dynamic)(dynamic),
		static:  (*protocol.Static)(static),
		debug:   (*protocol.Debug)(debug),
	}
}

// SlotHandles wraps the descriptor slot starting at slot, laid out as in
// the shared region.
func SlotHandles(id int32, slot unsafe.Pointer) Handles {
	return NewHandles(id,
		unsafe.Add(slot, protocol.SlotHeaderOffset),
		unsafe.Add(slot, protocol.SlotDynamicOffset),
		unsafe.Add(slot, protocol.SlotStaticOffset),
		unsafe.Add(slot, protocol.SlotDebugOffset),
	)
}

// ID returns the registration identifier the handles were issued for.
func (h Handles) ID() int32 {
	return h.id
}

// Valid reports whether all four blocks are set.
func (h Handles) Valid() bool {
	return h.header != nil && h.dynamic != nil && h.static != nil && h.debug != nil
}
