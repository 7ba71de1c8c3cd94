package dodesc

import "sync/atomic"

// Stats is a point-in-time snapshot of a Descriptor's counters.
type Stats struct {
	Polls         uint64 // UpdateState calls on a bound descriptor
	Updates       uint64 // Calls that copied at least one structure
	LockedPolls   uint64 // Calls that found the producer lock held
	TornReads     uint64 // Copies discarded because a write overlapped them
	DynamicReads  uint64
	StaticReads   uint64
	DebugReads    uint64
	LockStreak    uint64 // Consecutive locked polls up to now
	MaxLockStreak uint64 // Longest run of consecutive locked polls
	Acks          uint64 // Acknowledgements delivered
	AckFailures   uint64 // Acknowledgements the bridge refused
}

type descriptorStats struct {
	polls         atomic.Uint64
	updates       atomic.Uint64
	lockedPolls   atomic.Uint64
	tornReads     atomic.Uint64
	dynamicReads  atomic.Uint64
	staticReads   atomic.Uint64
	debugReads    atomic.Uint64
	lockStreak    atomic.Uint64
	maxLockStreak atomic.Uint64
	acks          atomic.Uint64
	ackFailures   atomic.Uint64
}

func (s *descriptorStats) reset() {
	for _, c := range []*atomic.Uint64{
		&s.polls, &s.updates, &s.lockedPolls, &s.tornReads,
		&s.dynamicReads, &s.staticReads, &s.debugReads,
		&s.lockStreak, &s.maxLockStreak, &s.acks, &s.ackFailures,
	} {
		c.Store(0)
	}
}

// Stats returns a snapshot of the descriptor's counters. Safe for
// concurrent use with UpdateState; fields may be mutually slightly stale.
func (d *Descriptor) Stats() Stats {
	s := &d.stats
	return Stats{
		Polls:         s.polls.Load(),
		Updates:       s.updates.Load(),
		LockedPolls:   s.lockedPolls.Load(),
		TornReads:     s.tornReads.Load(),
		DynamicReads:  s.dynamicReads.Load(),
		StaticReads:   s.staticReads.Load(),
		DebugReads:    s.debugReads.Load(),
		LockStreak:    s.lockStreak.Load(),
		MaxLockStreak: s.maxLockStreak.Load(),
		Acks:          s.acks.Load(),
		AckFailures:   s.ackFailures.Load(),
	}
}
