package plugin_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gosuda.org/dodesc"
	"gosuda.org/dodesc/internal/logging"
	"gosuda.org/dodesc/internal/plugin"
	"gosuda.org/dodesc/internal/protocol"
	"gosuda.org/dodesc/internal/shm"
)

func testLayout() dodesc.Layout {
	return dodesc.Layout{Slots: 2, RingSize: 8, BufferCount: 4, BufferSize: 64}
}

func newPlugin(t *testing.T, layout dodesc.Layout) *plugin.Plugin {
	t.Helper()
	region, err := shm.Anonymous(int(dodesc.SizeRegion(layout)))
	if err != nil {
		t.Fatalf("failed to map region: %v", err)
	}
	t.Cleanup(func() { region.Close() })

	p, err := plugin.New(region.Bytes(), layout, plugin.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("failed to create plugin: %v", err)
	}
	return p
}

func TestNewRejectsBadMemory(t *testing.T) {
	layout := testLayout()

	if _, err := plugin.New(nil, layout); !errors.Is(err, dodesc.ErrMemoryAlign) {
		t.Errorf("expected ErrMemoryAlign, got %v", err)
	}

	region, err := shm.Anonymous(int(dodesc.SizeRegion(layout)))
	if err != nil {
		t.Fatalf("failed to map region: %v", err)
	}
	defer region.Close()

	if _, err := plugin.New(region.Bytes()[:4096], layout); !errors.Is(err, dodesc.ErrMemorySmall) {
		t.Errorf("expected ErrMemorySmall, got %v", err)
	}
	if _, err := plugin.New(region.Bytes()[8:], layout); !errors.Is(err, dodesc.ErrMemoryAlign) {
		t.Errorf("expected ErrMemoryAlign for unaligned memory, got %v", err)
	}
	if _, err := plugin.New(region.Bytes(), dodesc.Layout{}); !errors.Is(err, dodesc.ErrInvalidLayout) {
		t.Errorf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestRegisterUnregister(t *testing.T) {
	p := newPlugin(t, testLayout())
	ctx := context.Background()

	h, err := p.RegisterDisplayObject(ctx, 10, dodesc.TextureModeNative, "main")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !h.Valid() || h.ID() != 10 {
		t.Fatalf("unexpected handles %+v", h)
	}

	reg, ok := p.Lookup(10)
	if !ok || reg.Name != "main" || reg.Mode != dodesc.TextureModeNative || reg.Slot != 0 {
		t.Fatalf("unexpected registration %+v", reg)
	}

	if _, err := p.RegisterDisplayObject(ctx, 10, dodesc.TextureModeNative, "again"); !errors.Is(err, dodesc.ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}

	if _, err := p.RegisterDisplayObject(ctx, 11, dodesc.TextureModeCopy, ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	reg, _ = p.Lookup(11)
	if !strings.HasPrefix(reg.Name, "display-object-") {
		t.Errorf("expected a generated name, got %q", reg.Name)
	}

	if _, err := p.RegisterDisplayObject(ctx, 12, dodesc.TextureModeCopy, ""); !errors.Is(err, dodesc.ErrNoFreeSlot) {
		t.Errorf("expected ErrNoFreeSlot, got %v", err)
	}

	if got := p.Registered(); len(got) != 2 || got[0] != 10 || got[1] != 11 {
		t.Errorf("unexpected registered ids %v", got)
	}

	if err := p.UnregisterDisplayObject(ctx, 10); err != nil {
		t.Fatalf("unregister failed: %v", err)
	}
	if err := p.UnregisterDisplayObject(ctx, 10); !errors.Is(err, dodesc.ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}

	// The freed slot is reused.
	if _, err := p.RegisterDisplayObject(ctx, 12, dodesc.TextureModeCopy, "overlay"); err != nil {
		t.Fatalf("register into freed slot failed: %v", err)
	}
	if reg, _ := p.Lookup(12); reg.Slot != 0 {
		t.Errorf("expected slot 0 to be reused, got %d", reg.Slot)
	}
}

func TestRegisterCanceledContext(t *testing.T) {
	p := newPlugin(t, testLayout())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.RegisterDisplayObject(ctx, 1, dodesc.TextureModeNative, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFreshRegistrationDefaults(t *testing.T) {
	p := newPlugin(t, testLayout())

	s, err := dodesc.Open(context.Background(), p, 21, dodesc.TextureModeNative, "",
		dodesc.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close(context.Background())

	d := s.Descriptor()
	if _, err := d.UpdateState(); err != nil {
		t.Fatalf("UpdateState failed: %v", err)
	}
	if d.DisplayObjectID() != 21 || d.FeedIndex() != -1 || d.MeshSignature() != -1 {
		t.Errorf("unexpected identifiers: id=%d feed=%d mesh=%d", d.DisplayObjectID(), d.FeedIndex(), d.MeshSignature())
	}
}

func TestWriteBumpsCounters(t *testing.T) {
	p := newPlugin(t, testLayout())
	ctx := context.Background()

	if _, err := p.WriteStatic(1, func(*protocol.Static) {}); !errors.Is(err, dodesc.ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}

	s, err := dodesc.Open(ctx, p, 1, dodesc.TextureModeNative, "main", dodesc.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close(ctx)
	d := s.Descriptor()

	if _, err := d.UpdateState(); err != nil {
		t.Fatalf("first UpdateState failed: %v", err)
	}

	n, err := p.WriteStatic(1, func(st *protocol.Static) {
		st.VertexCount = 4
		st.MeshType = int32(dodesc.MeshTypePlanar)
	})
	if err != nil || n != 1 {
		t.Fatalf("WriteStatic: expected counter 1, got %d (%v)", n, err)
	}
	for i := 0; i < 3; i++ {
		if _, err := p.WriteDebug(1, func(dbg *protocol.Debug) { dbg.VsyncCounter++ }); err != nil {
			t.Fatalf("WriteDebug failed: %v", err)
		}
	}

	res, err := d.UpdateState()
	if err != nil {
		t.Fatalf("UpdateState failed: %v", err)
	}
	if !res.Static || !res.Debug || res.Dynamic {
		t.Fatalf("unexpected result %+v", res)
	}
	if dyn, st, dbg := d.Counters(); dyn != 0 || st != 1 || dbg != 3 {
		t.Errorf("expected counters (0,1,3), got (%d,%d,%d)", dyn, st, dbg)
	}
	if d.VertexCount() != 4 || d.MeshType() != dodesc.MeshTypePlanar || d.VsyncCounter() != 3 {
		t.Error("written fields not visible to the consumer")
	}

	if reg, _ := p.Lookup(1); reg.Acks != 2 {
		t.Errorf("expected 2 acknowledgements, got %d", reg.Acks)
	}
}

func TestHoldLock(t *testing.T) {
	p := newPlugin(t, testLayout())
	ctx := context.Background()

	s, err := dodesc.Open(ctx, p, 5, dodesc.TextureModeNative, "", dodesc.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close(ctx)
	d := s.Descriptor()

	release, err := p.HoldLock(5)
	if err != nil {
		t.Fatalf("HoldLock failed: %v", err)
	}
	defer release()

	res, err := d.UpdateState()
	if err != nil {
		t.Fatalf("UpdateState failed: %v", err)
	}
	if !res.WasLocked || res.Updated || d.Phase() != dodesc.PhaseFirstReadPending {
		t.Fatalf("expected a locked first read, got %+v in %v", res, d.Phase())
	}

	written := make(chan struct{})
	go func() {
		defer close(written)
		p.WriteDynamic(5, func(dyn *protocol.Dynamic) { dyn.IsActive = 1 })
	}()

	select {
	case <-written:
		t.Fatal("writer must wait for the held lock")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	<-written

	res, err = d.UpdateState()
	if err != nil {
		t.Fatalf("UpdateState failed: %v", err)
	}
	if !res.Updated || !d.IsActive() {
		t.Errorf("expected the write to be picked up, got %+v", res)
	}
}

func TestAcknowledgeUnknown(t *testing.T) {
	p := newPlugin(t, testLayout())

	if err := p.AcknowledgeStateApplied(99); !errors.Is(err, dodesc.ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}
}
