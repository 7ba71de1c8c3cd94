package plugin

import (
	"context"
	"time"
	"unsafe"

	"gosuda.org/dodesc"
	"gosuda.org/dodesc/internal/mpmc"
	"gosuda.org/dodesc/internal/protocol"
)

// DefaultIdle is how long Serve sleeps when the request ring is empty.
const DefaultIdle = time.Millisecond

// Server answers control requests sent by dodesc.Link over the region's
// rings on behalf of a Plugin.
type Server struct {
	plugin   *Plugin
	requests *mpmc.Ring[protocol.Packet]
	replies  *mpmc.Ring[protocol.Packet]
	buffers  [][]byte
	idle     time.Duration
}

// NewServer initializes the control rings of the plugin's region. A
// region whose rings were already initialized, by an earlier server for
// instance, is attached to as is.
func NewServer(p *Plugin) (*Server, error) {
	o := p.layout.Offsets()
	reqMem := unsafe.Add(p.base, o.Requests)
	repMem := unsafe.Add(p.base, o.Replies)

	if !mpmc.Init[protocol.Packet](reqMem, uint64(p.layout.RingSize)) {
		p.log.Warn("request ring already initialized, attaching")
	}
	if !mpmc.Init[protocol.Packet](repMem, uint64(p.layout.RingSize)) {
		p.log.Warn("reply ring already initialized, attaching")
	}

	// Both rings are initialized at this point; Attach returns immediately.
	requests, err := mpmc.Attach[protocol.Packet](context.Background(), reqMem)
	if err != nil {
		return nil, dodesc.ErrFailedInit
	}
	replies, err := mpmc.Attach[protocol.Packet](context.Background(), repMem)
	if err != nil {
		return nil, dodesc.ErrFailedInit
	}

	s := &Server{
		plugin:   p,
		requests: requests,
		replies:  replies,
		buffers:  make([][]byte, p.layout.BufferCount),
		idle:     DefaultIdle,
	}
	for i := range s.buffers {
		start := int(o.Buffers) + i*p.layout.BufferSize
		end := start + p.layout.BufferSize
		s.buffers[i] = p.mem[start:end:end]
	}
	return s, nil
}

// SetIdle changes how long Serve sleeps between polls of an empty ring.
func (s *Server) SetIdle(d time.Duration) {
	s.idle = d
}

// Serve handles requests until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	timer := time.NewTimer(s.idle)
	defer timer.Stop()

	for {
		n, err := s.Poll(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}

		timer.Reset(s.idle)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Poll handles every request currently queued and returns how many it
// handled. It only blocks while the reply ring is full.
func (s *Server) Poll(ctx context.Context) (int, error) {
	n := 0
	for {
		req, ok := s.requests.TryDequeue()
		if !ok {
			return n, nil
		}
		n++

		reply, hasReply := s.handle(req)
		if !hasReply {
			continue
		}
		if err := s.replies.Enqueue(ctx, reply); err != nil {
			return n, err
		}
	}
}

// handle processes one request and builds its reply, if it has one.
func (s *Server) handle(req protocol.Packet) (protocol.Packet, bool) {
	id := protocol.DecodeID(req.Operand1)

	switch req.Op {
	case protocol.OpRegister:
		name, err := s.payload(req.Operand3, req.Operand4)
		if err != nil {
			return errorReply(req, err), true
		}
		sl, err := s.plugin.register(id, dodesc.TextureMode(req.Operand2), name)
		if err != nil {
			return errorReply(req, err), true
		}
		return protocol.Packet{
			Op:       protocol.OpRegistered,
			Operand0: req.Operand0,
			Operand1: req.Operand1,
			Operand2: sl.offset + protocol.SlotHeaderOffset,
			Operand3: sl.offset + protocol.SlotDynamicOffset,
			Operand4: sl.offset + protocol.SlotStaticOffset,
			Operand5: sl.offset + protocol.SlotDebugOffset,
		}, true

	case protocol.OpAcknowledge:
		if err := s.plugin.AcknowledgeStateApplied(id); err != nil {
			s.plugin.log.Debug("acknowledgement for unknown display object", "id", id)
		}
		return protocol.Packet{}, false

	case protocol.OpUnregister:
		if err := s.plugin.UnregisterDisplayObject(context.Background(), id); err != nil {
			return errorReply(req, err), true
		}
		return protocol.Packet{
			Op:       protocol.OpUnregistered,
			Operand0: req.Operand0,
			Operand1: req.Operand1,
		}, true

	default:
		s.plugin.log.Warn("invalid request", "op", req.Op)
		return errorReply(req, dodesc.ErrInvalidOp), true
	}
}

// payload returns the n bytes of request buffer idx as a string.
func (s *Server) payload(idx, n uintptr) (string, error) {
	if idx >= uintptr(len(s.buffers)) {
		return "", dodesc.ErrInvalidOp
	}
	buf := s.buffers[idx]
	if n > uintptr(len(buf)) {
		return "", dodesc.ErrBufferOverflow
	}
	return string(buf[:n]), nil
}

func errorReply(req protocol.Packet, err error) protocol.Packet {
	return protocol.Packet{
		Op:       protocol.OpError,
		Operand0: req.Operand0,
		Operand1: uintptr(dodesc.CodeOf(err)),
	}
}
