// Package dodesc implements the consumer side of the display object
// descriptor exchange: a native rendering plugin publishes the state of a
// video surface into four fixed-layout shared blocks, and a Descriptor
// polls and copies them once per frame without ever blocking.
package dodesc

import (
	"runtime"

	"github.com/charmbracelet/log"

	"gosuda.org/dodesc/internal/logging"
	"gosuda.org/dodesc/internal/protocol"
)

// Phase is the read-side state of a Descriptor.
//
//go:generate go tool stringer -type=Phase -trimprefix=Phase
type Phase int

const (
	PhaseUninitialized   Phase = iota // No handles bound, defaults reported
	PhaseFirstReadPending             // Bound, next unlocked poll copies everything
	PhaseSteady                       // Bound, only changed structures are copied
)

// UpdateResult reports what one UpdateState call did.
type UpdateResult struct {
	Updated         bool // At least one structure was copied
	NotDebugUpdated bool // Dynamic or static was copied
	WasLocked       bool // The producer held the lock; nothing was copied
	Dynamic         bool
	Static          bool
	Debug           bool
}

// lockStreakLog is the number of consecutive locked polls between two
// debug log lines about a producer holding the lock.
const lockStreakLog = 120

var defaultStatic = protocol.Static{
	MeshSignature:   -1,
	DisplayObjectID: -1,
	FeedIndex:       -1,
}

// Descriptor is the consumer's view of one display object.
//
// UpdateState must be called from a single goroutine, at most once per
// frame; the accessors must be called from that same goroutine. Stats may
// be called from anywhere.
//
// A bound descriptor pins the blocks it reads. It must be Reset before it
// is dropped: the runtime panics on a pinned Go object that becomes
// unreachable while still pinned.
type Descriptor struct {
	phase   Phase
	handles Handles
	pinner  runtime.Pinner
	ack     Acknowledger
	log     *log.Logger

	// Write counters adopted by the last accepted copy of each structure.
	read protocol.Counters

	dynamic protocol.Dynamic
	static  protocol.Static
	debug   protocol.Debug

	stats descriptorStats

	afterCopy func() // Test hook, runs between the copies and the re-poll
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// WithAcknowledger sets the hook told about every accepted update.
func WithAcknowledger(a Acknowledger) Option {
	return func(d *Descriptor) {
		d.ack = a
	}
}

// WithLogger replaces the default component logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Descriptor) {
		d.log = l
	}
}

// NewDescriptor returns an uninitialized descriptor reporting defaults.
func NewDescriptor(opts ...Option) *Descriptor {
	d := &Descriptor{static: defaultStatic}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logging.Named("descriptor")
	}
	return d
}

// Initialize binds the descriptor to h and arms the first-read bypass: the
// next unlocked UpdateState copies all three structures whatever their
// counters say. The blocks stay pinned until Reset, which must run before
// the descriptor is dropped.
func (d *Descriptor) Initialize(h Handles) error {
	if d.phase != PhaseUninitialized {
		return ErrAlreadyInitialized
	}
	if !h.Valid() {
		return ErrInvalidHandles
	}

	d.pinner.Pin(h.header)
	d.pinner.Pin(h.dynamic)
	d.pinner.Pin(h.static)
	d.pinner.Pin(h.debug)

	d.handles = h
	d.read = protocol.Counters{}
	d.stats.reset()
	d.phase = PhaseFirstReadPending

	d.log.Debug("descriptor bound", "id", h.id)
	return nil
}

// IsInitialized reports whether the descriptor is bound to handles.
func (d *Descriptor) IsInitialized() bool {
	return d.phase != PhaseUninitialized
}

// Phase returns the current read-side state.
func (d *Descriptor) Phase() Phase {
	return d.phase
}

// ID returns the registration identifier of the bound handles, or -1.
func (d *Descriptor) ID() int32 {
	if d.phase == PhaseUninitialized {
		return -1
	}
	return d.handles.id
}

// Reset unbinds the descriptor and restores the default view. It must run
// no later than the producer-side unregistration of the display object;
// afterwards the descriptor holds no reference to producer memory.
func (d *Descriptor) Reset() {
	if d.phase != PhaseUninitialized {
		d.log.Debug("descriptor reset", "id", d.handles.id)
	}

	d.pinner.Unpin()
	d.handles = Handles{}
	d.phase = PhaseUninitialized
	d.read = protocol.Counters{}
	d.dynamic = protocol.Dynamic{}
	d.static = defaultStatic
	d.debug = protocol.Debug{}
}

// pollHeader takes an atomic snapshot of the shared header.
func (d *Descriptor) pollHeader() protocol.Counters {
	return d.handles.header.Load()
}

// UpdateState polls the header and copies every structure whose write
// counter moved since the last accepted copy. It never blocks.
//
// While the producer holds the lock nothing is read and WasLocked is set;
// the caller simply tries again next frame. Copies that overlapped a
// producer write are discarded the same way. After an accepted update the
// acknowledger, if any, is told that the latest state was applied.
func (d *Descriptor) UpdateState() (UpdateResult, error) {
	if d.phase == PhaseUninitialized {
		return UpdateResult{}, ErrNotInitialized
	}
	d.stats.polls.Add(1)

	before := d.pollHeader()
	if before.Locked {
		d.lockedPoll()
		return UpdateResult{WasLocked: true}, nil
	}
	d.stats.lockStreak.Store(0)

	first := d.phase == PhaseFirstReadPending

	var (
		res     UpdateResult
		dynamic protocol.Dynamic
		static  protocol.Static
		debug   protocol.Debug
	)
	if first || before.Dynamic != d.read.Dynamic {
		dynamic = *d.handles.dynamic
		res.Dynamic = true
	}
	if first || before.Static != d.read.Static {
		static = *d.handles.static
		res.Static = true
	}
	if first || before.Debug != d.read.Debug {
		debug = *d.handles.debug
		res.Debug = true
	}
	if !res.Dynamic && !res.Static && !res.Debug {
		return res, nil
	}

	if d.afterCopy != nil {
		d.afterCopy()
	}

	// A write overlapping the copies either still holds the lock or has
	// already bumped the counter of the structure it rewrote.
	after := d.pollHeader()
	if after.Locked ||
		(res.Dynamic && after.Dynamic != before.Dynamic) ||
		(res.Static && after.Static != before.Static) ||
		(res.Debug && after.Debug != before.Debug) {
		d.stats.tornReads.Add(1)
		if after.Locked {
			d.lockedPoll()
		}
		d.log.Debug("discarded torn read", "id", d.handles.id, "locked", after.Locked)
		return UpdateResult{WasLocked: after.Locked}, nil
	}

	if res.Dynamic {
		d.dynamic = dynamic
		d.read.Dynamic = before.Dynamic
		d.stats.dynamicReads.Add(1)
	}
	if res.Static {
		d.static = static
		d.read.Static = before.Static
		d.stats.staticReads.Add(1)
	}
	if res.Debug {
		d.debug = debug
		d.read.Debug = before.Debug
		d.stats.debugReads.Add(1)
	}
	res.Updated = true
	res.NotDebugUpdated = res.Dynamic || res.Static
	d.stats.updates.Add(1)

	if first {
		d.phase = PhaseSteady
		d.log.Debug("first read applied", "id", d.handles.id,
			"dynamic", before.Dynamic, "static", before.Static, "debug", before.Debug)
	}

	d.acknowledge()
	return res, nil
}

func (d *Descriptor) lockedPoll() {
	d.stats.lockedPolls.Add(1)
	streak := d.stats.lockStreak.Add(1)
	for {
		longest := d.stats.maxLockStreak.Load()
		if streak <= longest || d.stats.maxLockStreak.CompareAndSwap(longest, streak) {
			break
		}
	}
	if streak%lockStreakLog == 0 {
		d.log.Debug("producer still holds the lock", "id", d.handles.id, "polls", streak)
	}
}

func (d *Descriptor) acknowledge() {
	if d.ack == nil {
		return
	}
	if err := d.ack.AcknowledgeStateApplied(d.handles.id); err != nil {
		d.stats.ackFailures.Add(1)
		d.log.Debug("acknowledgement failed", "id", d.handles.id, "err", err)
		return
	}
	d.stats.acks.Add(1)
}

// Counters returns the write counters adopted by the last accepted copy of
// each structure.
func (d *Descriptor) Counters() (dynamic, static, debug int32) {
	return d.read.Dynamic, d.read.Static, d.read.Debug
}
