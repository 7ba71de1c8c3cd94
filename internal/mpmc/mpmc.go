package mpmc

import (
	"context"
	"runtime"
	"sync/atomic"
	"unsafe"
)

// Ring is a lock-free Multi-Producer Multi-Consumer ring buffer living in
// caller-provided memory, usually a shared memory region mapped by two
// processes.
//
// Every slot carries a sequence number; a producer may claim slot p only when
// its sequence equals p, a consumer only when it equals p+1. This is the
// classic bounded MPMC queue and it does not suffer from ABA.
//
// The element type must not contain Go pointers: the memory is shared with
// another process and is invisible to the garbage collector.
type Ring[T any] struct {
	mask uint64
	size uint64
	head unsafe.Pointer // *ringHeader
	data unsafe.Pointer // first slot
}

// magic identifies memory that already holds an initialized ring.
const magic uint64 = 0xc9d8c1d43f096702

const flagInit uint64 = 1 << 1

const cacheLine = 64

// headerSize is the space reserved in front of the slots.
const headerSize = 256

type ringHeader struct {
	magic uint64
	size  uint64
	flag  uint64
	_     [cacheLine/8 - 3]uint64
	r     uint64 // consumer position
	_     [cacheLine/8 - 1]uint64
	w     uint64 // producer position
	_     [cacheLine/8 - 1]uint64
}

// compile-time guard: the header must fit its reserved space.
var _ [headerSize - unsafe.Sizeof(ringHeader{})]byte

type slot[T any] struct {
	seq  uint64
	data T
}

// roundUpPowerOf2 rounds v up to the next power of two.
//
// Algorithm from: https://graphics.stanford.edu/~seander/bithacks.html#RoundUpPowerOf2
func roundUpPowerOf2(v uint64) uint64 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}

// Size returns the number of bytes a ring of n elements occupies.
// n is rounded up to a power of two.
func Size[T any](n uint64) uintptr {
	return headerSize + unsafe.Sizeof(slot[T]{})*uintptr(roundUpPowerOf2(n))
}

// Init initializes a ring of n elements at mem. It returns false when mem
// already holds an initialized ring, which lets two processes race to
// initialize the same region and learn which one won.
//
// mem must be 8-byte aligned and at least Size[T](n) bytes long.
func Init[T any](mem unsafe.Pointer, n uint64) bool {
	n = roundUpPowerOf2(n)
	h := (*ringHeader)(mem)

	old := atomic.LoadUint64(&h.magic)
	if old == magic {
		return false
	}
	if !atomic.CompareAndSwapUint64(&h.magic, old, magic) {
		return false
	}

	atomic.StoreUint64(&h.size, n)
	data := unsafe.Add(mem, headerSize)
	stride := unsafe.Sizeof(slot[T]{})
	for i := uint64(0); i < n; i++ {
		s := (*slot[T])(unsafe.Add(data, stride*uintptr(i)))
		s.data = *new(T)
		atomic.StoreUint64(&s.seq, i)
	}
	atomic.StoreUint64(&h.r, 0)
	atomic.StoreUint64(&h.w, 0)

	// Publishing the flag last makes every store above visible to Attach.
	atomic.StoreUint64(&h.flag, flagInit)
	return true
}

// Attach returns a handle to the ring at mem, waiting until another party
// has finished Init. It gives up when ctx is done.
func Attach[T any](ctx context.Context, mem unsafe.Pointer) (*Ring[T], error) {
	h := (*ringHeader)(mem)
	for {
		if atomic.LoadUint64(&h.magic) == magic && atomic.LoadUint64(&h.flag)&flagInit != 0 {
			size := atomic.LoadUint64(&h.size)
			return &Ring[T]{
				size: size,
				mask: size - 1,
				head: mem,
				data: unsafe.Add(mem, headerSize),
			}, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		runtime.Gosched()
	}
}

func (r *Ring[T]) header() *ringHeader {
	return (*ringHeader)(r.head)
}

func (r *Ring[T]) slot(pos uint64) *slot[T] {
	return (*slot[T])(unsafe.Add(r.data, unsafe.Sizeof(slot[T]{})*uintptr(pos&r.mask)))
}

// Cap returns the number of elements the ring can hold.
func (r *Ring[T]) Cap() int {
	return int(r.size)
}

// Len returns an approximation of the number of queued elements.
func (r *Ring[T]) Len() int {
	h := r.header()
	w := atomic.LoadUint64(&h.w)
	rd := atomic.LoadUint64(&h.r)
	if w < rd {
		return 0
	}
	return int(w - rd)
}

// TryEnqueue adds elem without blocking. It returns false if the ring is full.
func (r *Ring[T]) TryEnqueue(elem T) bool {
	h := r.header()
	pos := atomic.LoadUint64(&h.w)
	for {
		s := r.slot(pos)
		seq := atomic.LoadUint64(&s.seq)
		switch diff := int64(seq - pos); {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&h.w, pos, pos+1) {
				s.data = elem
				// The sequence store publishes data to consumers.
				atomic.StoreUint64(&s.seq, pos+1)
				return true
			}
			pos = atomic.LoadUint64(&h.w)
		case diff < 0:
			return false
		default:
			// Another producer claimed this slot first.
			pos = atomic.LoadUint64(&h.w)
		}
	}
}

// TryDequeue removes the oldest element without blocking.
// It returns false if the ring is empty.
func (r *Ring[T]) TryDequeue() (elem T, ok bool) {
	h := r.header()
	pos := atomic.LoadUint64(&h.r)
	for {
		s := r.slot(pos)
		seq := atomic.LoadUint64(&s.seq)
		switch diff := int64(seq - (pos + 1)); {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&h.r, pos, pos+1) {
				elem = s.data
				// Hand the slot back to producers one lap ahead.
				atomic.StoreUint64(&s.seq, pos+r.mask+1)
				return elem, true
			}
			pos = atomic.LoadUint64(&h.r)
		case diff < 0:
			return elem, false
		default:
			pos = atomic.LoadUint64(&h.r)
		}
	}
}

// Enqueue adds elem, yielding while the ring is full, until ctx is done.
func (r *Ring[T]) Enqueue(ctx context.Context, elem T) error {
	for !r.TryEnqueue(elem) {
		if err := ctx.Err(); err != nil {
			return err
		}
		runtime.Gosched()
	}
	return nil
}

// Dequeue removes the oldest element, yielding while the ring is empty,
// until ctx is done.
func (r *Ring[T]) Dequeue(ctx context.Context) (T, error) {
	for {
		if elem, ok := r.TryDequeue(); ok {
			return elem, nil
		}
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		runtime.Gosched()
	}
}
