// Package plugin is a producer honouring the descriptor write contract:
// lock, write, bump the counter, unlock. It stands in for the native
// rendering plugin in tests and in the simulator.
package plugin

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"gosuda.org/dodesc"
	"gosuda.org/dodesc/internal/logging"
	"gosuda.org/dodesc/internal/protocol"
)

var pagesize = uintptr(syscall.Getpagesize())

// Registration describes one registered display object.
type Registration struct {
	ID   int32
	Name string
	Mode dodesc.TextureMode
	Slot int
	Acks uint64 // Acknowledgements received so far
}

type slot struct {
	index  int
	offset uintptr // From the start of the region
	base   unsafe.Pointer

	header  *protocol.Header
	dynamic *protocol.Dynamic
	static  *protocol.Static
	debug   *protocol.Debug

	mu sync.Mutex // Serializes writers of this slot

	// Guarded by Plugin.mu
	inUse bool
	id    int32
	name  string
	mode  dodesc.TextureMode

	acks atomic.Uint64
}

// Plugin owns the descriptor slots of a region and writes them.
type Plugin struct {
	mem    []byte
	base   unsafe.Pointer
	layout dodesc.Layout

	mu    sync.RWMutex
	slots []*slot
	byID  map[int32]*slot

	log *log.Logger
}

var _ dodesc.Bridge = (*Plugin)(nil)

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger replaces the default component logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Plugin) {
		p.log = l
	}
}

// New takes ownership of the slot section of mem, laid out per layout.
// mem must be page-aligned and at least dodesc.SizeRegion(layout) long.
func New(mem []byte, layout dodesc.Layout, opts ...Option) (*Plugin, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if len(mem) == 0 || uintptr(unsafe.Pointer(&mem[0]))%pagesize != 0 {
		return nil, dodesc.ErrMemoryAlign
	}
	if uintptr(len(mem)) < dodesc.SizeRegion(layout) {
		return nil, dodesc.ErrMemorySmall
	}

	p := &Plugin{
		mem:    mem,
		base:   unsafe.Pointer(&mem[0]),
		layout: layout,
		slots:  make([]*slot, layout.Slots),
		byID:   make(map[int32]*slot),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logging.Named("plugin")
	}

	for i := range p.slots {
		off := layout.SlotOffset(i)
		base := unsafe.Add(p.base, off)
		p.slots[i] = &slot{
			index:   i,
			offset:  off,
			base:    base,
			header:  (*protocol.Header)(unsafe.Add(base, protocol.SlotHeaderOffset)),
			dynamic: (*protocol.Dynamic)(unsafe.Add(base, protocol.SlotDynamicOffset)),
			static:  (*protocol.Static)(unsafe.Add(base, protocol.SlotStaticOffset)),
			debug:   (*protocol.Debug)(unsafe.Add(base, protocol.SlotDebugOffset)),
		}
		p.slots[i].clear()
	}
	return p, nil
}

// clear zeroes the slot and stamps the identifiers a fresh registration
// reports before the first static write.
func (s *slot) clear() {
	s.header.Reset()
	*s.dynamic = protocol.Dynamic{}
	*s.static = protocol.Static{
		MeshSignature:   -1,
		DisplayObjectID: s.id,
		FeedIndex:       -1,
	}
	*s.debug = protocol.Debug{}
}

func (s *slot) handles() dodesc.Handles {
	return dodesc.SlotHandles(s.id, s.base)
}

// register claims a free slot for id.
func (p *Plugin) register(id int32, mode dodesc.TextureMode, name string) (*slot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.byID[id]; ok {
		return nil, dodesc.ErrAlreadyRegistered
	}
	idx := slices.IndexFunc(p.slots, func(s *slot) bool { return !s.inUse })
	if idx < 0 {
		return nil, dodesc.ErrNoFreeSlot
	}
	if name == "" {
		name = "display-object-" + uuid.NewString()
	}

	s := p.slots[idx]
	s.mu.Lock()
	s.inUse = true
	s.id = id
	s.name = name
	s.mode = mode
	s.acks.Store(0)
	s.clear()
	s.mu.Unlock()

	p.byID[id] = s
	p.log.Info("display object registered", "id", id, "slot", idx, "mode", mode, "name", name)
	return s, nil
}

// RegisterDisplayObject implements dodesc.Bridge for in-process consumers.
func (p *Plugin) RegisterDisplayObject(ctx context.Context, id int32, mode dodesc.TextureMode, name string) (dodesc.Handles, error) {
	if err := ctx.Err(); err != nil {
		return dodesc.Handles{}, err
	}
	s, err := p.register(id, mode, name)
	if err != nil {
		return dodesc.Handles{}, err
	}
	return s.handles(), nil
}

// AcknowledgeStateApplied records that the consumer applied the latest state.
func (p *Plugin) AcknowledgeStateApplied(id int32) error {
	p.mu.RLock()
	s, ok := p.byID[id]
	p.mu.RUnlock()
	if !ok {
		return dodesc.ErrNotRegistered
	}
	s.acks.Add(1)
	return nil
}

// UnregisterDisplayObject releases the slot of id. Consumers must have
// reset their descriptors.
func (p *Plugin) UnregisterDisplayObject(ctx context.Context, id int32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.byID[id]
	if !ok {
		return dodesc.ErrNotRegistered
	}
	delete(p.byID, id)

	s.mu.Lock()
	s.inUse = false
	s.id = 0
	s.name = ""
	s.mode = dodesc.TextureModeUnset
	s.clear()
	s.mu.Unlock()

	p.log.Info("display object unregistered", "id", id, "slot", s.index)
	return nil
}

func (p *Plugin) lookup(id int32) (*slot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.byID[id]
	if !ok {
		return nil, dodesc.ErrNotRegistered
	}
	return s, nil
}

// write runs fn between setting the lock and bumping the counter of kind k.
func (p *Plugin) write(id int32, k protocol.Kind, fn func(*slot)) (int32, error) {
	s, err := p.lookup(id)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.header.SetLock(true)
	fn(s)
	counter := s.header.Bump(k)
	s.header.SetLock(false)
	return counter, nil
}

// WriteDynamic rewrites the dynamic structure of id and returns the new
// dynamic write counter.
func (p *Plugin) WriteDynamic(id int32, fn func(*protocol.Dynamic)) (int32, error) {
	return p.write(id, protocol.KindDynamic, func(s *slot) { fn(s.dynamic) })
}

// WriteStatic rewrites the static structure of id and returns the new
// static write counter.
func (p *Plugin) WriteStatic(id int32, fn func(*protocol.Static)) (int32, error) {
	return p.write(id, protocol.KindStatic, func(s *slot) { fn(s.static) })
}

// WriteDebug rewrites the debug structure of id and returns the new debug
// write counter.
func (p *Plugin) WriteDebug(id int32, fn func(*protocol.Debug)) (int32, error) {
	return p.write(id, protocol.KindDebug, func(s *slot) { fn(s.debug) })
}

// HoldLock sets the lock byte of id and keeps it set until release is
// called, as a producer stuck mid-write would. Other writers of id block
// in the meantime.
func (p *Plugin) HoldLock(id int32) (release func(), err error) {
	s, err := p.lookup(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.header.SetLock(true)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.header.SetLock(false)
			s.mu.Unlock()
		})
	}, nil
}

// Lookup returns the registration of id.
func (p *Plugin) Lookup(id int32) (Registration, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.byID[id]
	if !ok {
		return Registration{}, false
	}
	return Registration{ID: s.id, Name: s.name, Mode: s.mode, Slot: s.index, Acks: s.acks.Load()}, true
}

// Registered returns the registered IDs in ascending order.
func (p *Plugin) Registered() []int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]int32, 0, len(p.byID))
	for id := range p.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Layout returns the region layout.
func (p *Plugin) Layout() dodesc.Layout {
	return p.layout
}

// Memory returns the region the plugin writes into.
func (p *Plugin) Memory() []byte {
	return p.mem
}
