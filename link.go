package dodesc

import (
	"context"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/charmbracelet/log"

	"gosuda.org/dodesc/internal/logging"
	"gosuda.org/dodesc/internal/mpmc"
	"gosuda.org/dodesc/internal/protocol"
)

// Link is the consumer end of the shared-memory transport. It implements
// Bridge by exchanging packets with a producer that serves the same region.
//
// Register and unregister calls are serialized; acknowledgements bypass
// that and never block.
type Link struct {
	mem     []byte
	base    unsafe.Pointer
	layout  Layout
	offsets Offsets

	requests *mpmc.Ring[protocol.Packet] // Consumer to producer
	replies  *mpmc.Ring[protocol.Packet] // Producer to consumer
	buffers  [][]byte                    // Request payload buffers

	mu     sync.Mutex // One request/reply exchange at a time
	next   int        // Next payload buffer, round-robin
	seq    atomic.Uint64
	closed atomic.Bool

	log *log.Logger
}

var _ Bridge = (*Link)(nil)

// OpenLink attaches to a region initialized by a producer. It waits for the
// producer's rings until ctx is done.
func OpenLink(ctx context.Context, mem []byte, layout Layout) (*Link, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if len(mem) == 0 || uintptr(unsafe.Pointer(&mem[0]))%pagesize != 0 {
		return nil, ErrMemoryAlign
	}

	o := layout.Offsets()
	if uintptr(len(mem)) < o.Size {
		return nil, ErrMemorySmall
	}

	base := unsafe.Pointer(&mem[0])
	requests, err := mpmc.Attach[protocol.Packet](ctx, unsafe.Add(base, o.Requests))
	if err != nil {
		return nil, err
	}
	replies, err := mpmc.Attach[protocol.Packet](ctx, unsafe.Add(base, o.Replies))
	if err != nil {
		return nil, err
	}

	l := &Link{
		mem:      mem,
		base:     base,
		layout:   layout,
		offsets:  o,
		requests: requests,
		replies:  replies,
		buffers:  make([][]byte, layout.BufferCount),
		log:      logging.Named("link"),
	}
	for i := range l.buffers {
		start := int(o.Buffers) + i*layout.BufferSize
		end := start + layout.BufferSize
		l.buffers[i] = mem[start:end:end]
	}
	return l, nil
}

// Layout returns the region layout the link was opened with.
func (l *Link) Layout() Layout {
	return l.layout
}

// RegisterDisplayObject asks the producer for a descriptor slot.
// The name travels in a payload buffer and must fit in one.
//
// A reply that cannot be used releases the slot again. A call abandoned
// through ctx may still have claimed one; the caller must unregister id
// before registering it again.
func (l *Link) RegisterDisplayObject(ctx context.Context, id int32, mode TextureMode, name string) (Handles, error) {
	if len(name) > l.layout.BufferSize {
		return Handles{}, ErrBufferOverflow
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed.Load() {
		return Handles{}, ErrClosed
	}

	idx := l.next
	l.next = (l.next + 1) % len(l.buffers)
	n := copy(l.buffers[idx], name)

	reply, err := l.call(ctx, protocol.Packet{
		Op:       protocol.OpRegister,
		Operand0: uintptr(l.seq.Add(1)),
		Operand1: protocol.EncodeID(id),
		Operand2: uintptr(mode),
		Operand3: uintptr(idx),
		Operand4: uintptr(n),
	})
	if err != nil {
		return Handles{}, err
	}
	if reply.Op != protocol.OpRegistered || protocol.DecodeID(reply.Operand1) != id {
		l.release(id)
		return Handles{}, ErrInvalidOp
	}

	header, ok1 := l.at(reply.Operand2, unsafe.Sizeof(protocol.Header{}))
	dynamic, ok2 := l.at(reply.Operand3, unsafe.Sizeof(protocol.Dynamic{}))
	static, ok3 := l.at(reply.Operand4, unsafe.Sizeof(protocol.Static{}))
	debug, ok4 := l.at(reply.Operand5, unsafe.Sizeof(protocol.Debug{}))
	if !ok1 || !ok2 || !ok3 || !ok4 {
		l.release(id)
		return Handles{}, ErrInvalidHandles
	}

	l.log.Debug("display object registered", "id", id, "mode", mode, "name", name)
	return NewHandles(id, header, dynamic, static, debug), nil
}

// release asks the producer to unregister id without waiting for the
// reply; the next call drops it as stale.
func (l *Link) release(id int32) {
	req := protocol.Packet{
		Op:       protocol.OpUnregister,
		Operand0: uintptr(l.seq.Add(1)),
		Operand1: protocol.EncodeID(id),
	}
	if !l.requests.TryEnqueue(req) {
		l.log.Warn("could not release registration", "id", id)
	}
}

// AcknowledgeStateApplied queues an acknowledgement without blocking.
// When the request ring is full the acknowledgement is dropped and
// ErrBufferOverflow returned; the next accepted update sends another.
func (l *Link) AcknowledgeStateApplied(id int32) error {
	if l.closed.Load() {
		return ErrClosed
	}
	if !l.requests.TryEnqueue(protocol.Packet{Op: protocol.OpAcknowledge, Operand1: protocol.EncodeID(id)}) {
		return ErrBufferOverflow
	}
	return nil
}

// UnregisterDisplayObject asks the producer to release the slot of id.
func (l *Link) UnregisterDisplayObject(ctx context.Context, id int32) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed.Load() {
		return ErrClosed
	}

	reply, err := l.call(ctx, protocol.Packet{
		Op:       protocol.OpUnregister,
		Operand0: uintptr(l.seq.Add(1)),
		Operand1: protocol.EncodeID(id),
	})
	if err != nil {
		return err
	}
	if reply.Op != protocol.OpUnregistered || protocol.DecodeID(reply.Operand1) != id {
		return ErrInvalidOp
	}

	l.log.Debug("display object unregistered", "id", id)
	return nil
}

// Close stops the link from issuing further calls. The region itself is
// owned by the caller.
func (l *Link) Close() error {
	if l.closed.Swap(true) {
		return ErrClosed
	}
	return nil
}

// call sends req and waits for the reply carrying the same sequence.
// Replies to earlier, abandoned calls are dropped.
func (l *Link) call(ctx context.Context, req protocol.Packet) (protocol.Packet, error) {
	if err := l.requests.Enqueue(ctx, req); err != nil {
		return protocol.Packet{}, err
	}
	for {
		reply, err := l.replies.Dequeue(ctx)
		if err != nil {
			return protocol.Packet{}, err
		}
		if reply.Operand0 != req.Operand0 {
			l.log.Debug("dropped stale reply", "op", reply.Op, "seq", reply.Operand0)
			continue
		}
		if reply.Op == protocol.OpError {
			return reply, ErrorCode(reply.Operand1).Err()
		}
		return reply, nil
	}
}

// at resolves a region offset sent by the producer, checking that size
// bytes from it lie inside the slot section.
func (l *Link) at(off, size uintptr) (unsafe.Pointer, bool) {
	if size > l.offsets.Size || off < l.offsets.Slots || off > l.offsets.Size-size || off%8 != 0 {
		return nil, false
	}
	return unsafe.Add(l.base, off), true
}
