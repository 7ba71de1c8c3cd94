package dodesc_test

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"gosuda.org/dodesc"
	"gosuda.org/dodesc/internal/protocol"
)

func TestSizeRegion(t *testing.T) {
	page := uintptr(syscall.Getpagesize())

	size := dodesc.SizeRegion(dodesc.DefaultLayout())
	if size == 0 || size%page != 0 {
		t.Fatalf("expected a non-zero page multiple, got %d", size)
	}

	for _, l := range []dodesc.Layout{
		{},
		{Slots: 1, RingSize: 1, BufferCount: 1, BufferSize: 8},
		{Slots: 1, RingSize: 2, BufferCount: 1, BufferSize: 12},
		{Slots: 1, RingSize: 2, BufferCount: 0, BufferSize: 8},
		{Slots: -1, RingSize: 2, BufferCount: 1, BufferSize: 8},
	} {
		if got := dodesc.SizeRegion(l); got != 0 {
			t.Errorf("SizeRegion(%+v): expected 0, got %d", l, got)
		}
		if err := l.Validate(); !errors.Is(err, dodesc.ErrInvalidLayout) {
			t.Errorf("Validate(%+v): expected ErrInvalidLayout, got %v", l, err)
		}
	}
}

func TestLayoutOffsets(t *testing.T) {
	page := uintptr(syscall.Getpagesize())
	l := dodesc.DefaultLayout()
	o := l.Offsets()

	sections := []uintptr{o.Requests, o.Buffers, o.Replies, o.Slots, o.Size}
	for i, off := range sections {
		if off%page != 0 {
			t.Errorf("section %d at %d is not page-aligned", i, off)
		}
		if i > 0 && off <= sections[i-1] {
			t.Errorf("section %d at %d does not follow section %d at %d", i, off, i-1, sections[i-1])
		}
	}

	if o.Replies-o.Buffers < uintptr(l.BufferCount*l.BufferSize) {
		t.Error("payload buffers overlap the reply ring")
	}
	last := l.SlotOffset(l.Slots-1) + protocol.SlotSize
	if last > o.Size {
		t.Errorf("last slot ends at %d beyond region size %d", last, o.Size)
	}
	if l.SlotOffset(1)-l.SlotOffset(0) != protocol.SlotSize {
		t.Error("slots must be laid out back to back")
	}
}

func TestErrorCodeRoundTrip(t *testing.T) {
	for _, err := range []error{
		dodesc.ErrNotRegistered,
		dodesc.ErrAlreadyRegistered,
		dodesc.ErrNoFreeSlot,
		dodesc.ErrBufferOverflow,
		dodesc.ErrInvalidOp,
	} {
		wrapped := fmt.Errorf("context: %w", err)
		if got := dodesc.CodeOf(wrapped).Err(); !errors.Is(got, err) {
			t.Errorf("%v did not survive the wire, got %v", err, got)
		}
	}

	if code := dodesc.CodeOf(errors.New("something else")); code != dodesc.ErrCodeUnknown {
		t.Errorf("expected ErrCodeUnknown, got %d", code)
	}
	if err := dodesc.ErrCodeUnknown.Err(); !errors.Is(err, dodesc.ErrProducer) {
		t.Errorf("expected ErrProducer, got %v", err)
	}
	if err := dodesc.ErrorCode(0x7f).Err(); !errors.Is(err, dodesc.ErrProducer) {
		t.Errorf("expected ErrProducer for an unknown code, got %v", err)
	}
}

func TestEnumStrings(t *testing.T) {
	cases := []struct {
		got  fmt.Stringer
		want string
	}{
		{dodesc.MeshTypeUnknown, "Unknown"},
		{dodesc.MeshTypeEquirectangular180, "Equirectangular180"},
		{dodesc.FishEyeTypePolynomial, "Polynomial"},
		{dodesc.FishEyeStereoTypeTopBottom, "TopBottom"},
		{dodesc.ColorSpaceBT2020, "BT2020"},
		{dodesc.ProjectionTypeCubemap, "Cubemap"},
		{dodesc.DisplayObjectClassThumbnail, "Thumbnail"},
		{dodesc.VideoStereoModeSideBySide, "SideBySide"},
		{dodesc.TextureTypeNV12, "NV12"},
		{dodesc.TextureModeCopy, "Copy"},
		{dodesc.PhaseFirstReadPending, "FirstReadPending"},
		{dodesc.MeshType(42), "MeshType(42)"},
	}
	for _, c := range cases {
		if c.got.String() != c.want {
			t.Errorf("expected %q, got %q", c.want, c.got.String())
		}
	}
}
