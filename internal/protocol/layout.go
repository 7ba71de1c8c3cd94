package protocol

import (
	"sync/atomic"
	"unsafe"
)

// The structures below mirror the native plugin's ABI: native byte order,
// natural alignment (at most 8 bytes). Field order is part of the contract.

// Header is polled by the consumer every frame.
//
// The producer sets Lock while it rewrites any structure and bumps the
// matching counter before clearing Lock again. Lock is a single byte on the
// wire; it is accessed through the aligned 32-bit word it starts so that the
// load and store are atomic.
type Header struct {
	DynamicWriteCounter int32
	StaticWriteCounter  int32
	DebugWriteCounter   int32
	Lock                uint8
	_                   [3]uint8
}

// Dynamic changes (ideally) every frame.
type Dynamic struct {
	Flags                    uint32
	TexPlane0                uintptr
	TexPlane1                uintptr
	TexPlane2                uintptr
	TextureType              int32
	HasRightEye              uint8
	IsActive                 uint8
	IsStereoscopicModeActive uint8
}

// Static changes on mesh or stream reconfiguration.
type Static struct {
	VertexCount          int32
	IndexCount           int32
	FrameWidth           int32
	FrameHeight          int32
	MeshSignature        int32
	DisplayObjectID      int32
	FeedIndex            int32
	BoundsX              float32
	BoundsY              float32
	BoundsZ              float32
	MeshType             int32
	FishEyeType          int32
	CircularRadiusInRad  float32
	SensorDensity        float32
	FocalLength          float32
	ReferenceWidth       int32
	ReferenceHeight      int32
	CenterU              float32
	CenterV              float32
	AffineC              float32
	AffineD              float32
	AffineE              float32
	DistortionPolynomial [16]float32
	FishEyeStereoType    int32
	ColorSpace           int32
	TextureTransform     [16]float32 // column-major
	ProjectionType       int32
	DisplayObjectClass   int32
	VideoStereoMode      int32
}

// Debug is advisory only.
type Debug struct {
	RenderTimestamp int64
	VsyncCounter    uint32
}

// Kind selects one of the three descriptor structures.
//
//go:generate go tool stringer -type=Kind -trimprefix=Kind
type Kind int

const (
	KindDynamic Kind = iota
	KindStatic
	KindDebug
)

// Counters is a snapshot of the header.
type Counters struct {
	Dynamic int32
	Static  int32
	Debug   int32
	Locked  bool
}

// Get returns the counter of kind k.
func (c Counters) Get(k Kind) int32 {
	switch k {
	case KindDynamic:
		return c.Dynamic
	case KindStatic:
		return c.Static
	default:
		return c.Debug
	}
}

// lockedWord is the 32-bit word whose first byte in memory is 1, whatever
// the byte order.
var lockedWord = func() uint32 {
	var w uint32
	(*[4]byte)(unsafe.Pointer(&w))[0] = 1
	return w
}()

func (h *Header) lockWord() *uint32 {
	return (*uint32)(unsafe.Pointer(&h.Lock))
}

func (h *Header) counter(k Kind) *int32 {
	switch k {
	case KindDynamic:
		return &h.DynamicWriteCounter
	case KindStatic:
		return &h.StaticWriteCounter
	default:
		return &h.DebugWriteCounter
	}
}

// Load takes an atomic snapshot of the header. The lock byte is loaded
// before the counters: a counter bumped by a write that ended before the
// lock was observed clear is guaranteed to be visible.
func (h *Header) Load() Counters {
	w := atomic.LoadUint32(h.lockWord())
	return Counters{
		Locked:  (*[4]byte)(unsafe.Pointer(&w))[0] != 0,
		Dynamic: atomic.LoadInt32(&h.DynamicWriteCounter),
		Static:  atomic.LoadInt32(&h.StaticWriteCounter),
		Debug:   atomic.LoadInt32(&h.DebugWriteCounter),
	}
}

// SetLock sets or clears the lock byte. Producer side only.
func (h *Header) SetLock(locked bool) {
	if locked {
		atomic.StoreUint32(h.lockWord(), lockedWord)
		return
	}
	atomic.StoreUint32(h.lockWord(), 0)
}

// Bump increments the write counter of kind k. Producer side only.
func (h *Header) Bump(k Kind) int32 {
	return atomic.AddInt32(h.counter(k), 1)
}

// Reset zeroes all counters and the lock. Producer side only, used when a
// slot is handed to a new registration.
func (h *Header) Reset() {
	atomic.StoreUint32(h.lockWord(), 0)
	atomic.StoreInt32(&h.DynamicWriteCounter, 0)
	atomic.StoreInt32(&h.StaticWriteCounter, 0)
	atomic.StoreInt32(&h.DebugWriteCounter, 0)
}

// SlotAlign keeps each structure of a slot on its own cache line.
const SlotAlign = 64

func alignUp(v, a uintptr) uintptr {
	return (v + a - 1) / a * a
}

// Offsets of the four blocks inside one descriptor slot, and the slot stride.
var (
	SlotHeaderOffset  uintptr = 0
	SlotDynamicOffset         = alignUp(SlotHeaderOffset+unsafe.Sizeof(Header{}), SlotAlign)
	SlotStaticOffset          = alignUp(SlotDynamicOffset+unsafe.Sizeof(Dynamic{}), SlotAlign)
	SlotDebugOffset           = alignUp(SlotStaticOffset+unsafe.Sizeof(Static{}), SlotAlign)
	SlotSize                  = alignUp(SlotDebugOffset+unsafe.Sizeof(Debug{}), SlotAlign)
)
