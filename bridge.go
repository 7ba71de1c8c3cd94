package dodesc

import (
	"context"
	"errors"
	"fmt"
)

// Acknowledger is told that the latest producer state was applied for a
// display object. It is a liveness signal: the producer never waits for
// it, so implementations must not block.
type Acknowledger interface {
	AcknowledgeStateApplied(id int32) error
}

// Bridge is the producer-facing call surface. One implementation exists
// per transport; the descriptor protocol only depends on this interface.
type Bridge interface {
	// RegisterDisplayObject allocates the shared blocks for a display
	// object and returns handles to them.
	RegisterDisplayObject(ctx context.Context, id int32, mode TextureMode, name string) (Handles, error)

	Acknowledger

	// UnregisterDisplayObject releases the blocks. Every Descriptor bound
	// to them must have been Reset before.
	UnregisterDisplayObject(ctx context.Context, id int32) error
}

// Session ties one registration to one Descriptor and orders their
// teardown.
type Session struct {
	bridge Bridge
	desc   *Descriptor
	id     int32
}

// Open registers display object id on b and returns a session whose
// descriptor is bound and acknowledges through b.
func Open(ctx context.Context, b Bridge, id int32, mode TextureMode, name string, opts ...Option) (*Session, error) {
	h, err := b.RegisterDisplayObject(ctx, id, mode, name)
	if err != nil {
		return nil, fmt.Errorf("dodesc: register display object %d: %w", id, err)
	}

	desc := NewDescriptor(append([]Option{WithAcknowledger(b)}, opts...)...)
	if err := desc.Initialize(h); err != nil {
		return nil, errors.Join(err, b.UnregisterDisplayObject(ctx, id))
	}

	return &Session{bridge: b, desc: desc, id: id}, nil
}

// Descriptor returns the bound descriptor.
func (s *Session) Descriptor() *Descriptor {
	return s.desc
}

// ID returns the registration identifier.
func (s *Session) ID() int32 {
	return s.id
}

// Close resets the descriptor, then unregisters the display object.
func (s *Session) Close(ctx context.Context) error {
	if !s.desc.IsInitialized() {
		return ErrClosed
	}
	s.desc.Reset()
	if err := s.bridge.UnregisterDisplayObject(ctx, s.id); err != nil {
		return fmt.Errorf("dodesc: unregister display object %d: %w", s.id, err)
	}
	return nil
}
