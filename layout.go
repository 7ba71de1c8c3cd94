package dodesc

import (
	"syscall"

	"gosuda.org/dodesc/internal/mpmc"
	"gosuda.org/dodesc/internal/protocol"
)

// pagesize stores the system page size for section alignment
var pagesize = uintptr(syscall.Getpagesize())

// Layout sizes the shared region exchanged between a producer and its
// consumers.
type Layout struct {
	Slots       int // Descriptor slots, i.e. concurrently registered display objects
	RingSize    int // Packets per control ring
	BufferCount int // Request payload buffers
	BufferSize  int // Bytes per payload buffer (multiple of 8)
}

// DefaultLayout returns a layout suitable for a handful of display objects.
func DefaultLayout() Layout {
	return Layout{
		Slots:       8,
		RingSize:    64,
		BufferCount: 16,
		BufferSize:  256,
	}
}

// Validate checks the layout for sizes the region cannot be built from.
func (l Layout) Validate() error {
	if l.Slots <= 0 || l.RingSize < 2 || l.BufferCount <= 0 {
		return ErrInvalidLayout
	}
	if l.BufferSize < 8 || l.BufferSize%8 != 0 {
		return ErrInvalidLayout
	}
	return nil
}

// Region Memory Layout:
//
// <<<< PAGE_START
// MPMC_RING (Consumer to Producer)     // Register, acknowledge and unregister requests
// <<<< PAGE_BREAK
// BUFFERS (Consumer to Producer)       // Request payloads (display object names)
// <<<< PAGE_BREAK
// MPMC_RING (Producer to Consumer)     // Replies
// <<<< PAGE_BREAK
// SLOTS                                // Header | Dynamic | Static | Debug per display object
// <<<< PAGE_END

// Offsets locates each section of the region, relative to its start.
type Offsets struct {
	Requests uintptr
	Buffers  uintptr
	Replies  uintptr
	Slots    uintptr
	Size     uintptr
}

func pageAlign(v uintptr) uintptr {
	return ((v + pagesize - 1) / pagesize) * pagesize
}

// Offsets computes the section offsets of the region. The layout must be
// valid.
func (l Layout) Offsets() Offsets {
	ringSize := mpmc.Size[protocol.Packet](uint64(l.RingSize))

	var o Offsets
	o.Requests = 0
	o.Buffers = pageAlign(o.Requests + ringSize)
	o.Replies = pageAlign(o.Buffers + uintptr(l.BufferCount)*uintptr(l.BufferSize))
	o.Slots = pageAlign(o.Replies + ringSize)
	o.Size = pageAlign(o.Slots + uintptr(l.Slots)*protocol.SlotSize)
	return o
}

// SlotOffset returns the offset of descriptor slot i.
func (l Layout) SlotOffset(i int) uintptr {
	return l.Offsets().Slots + uintptr(i)*protocol.SlotSize
}

// SizeRegion returns the number of bytes a region with layout l needs,
// or 0 for an invalid layout.
func SizeRegion(l Layout) uintptr {
	if l.Validate() != nil {
		return 0
	}
	return l.Offsets().Size
}
