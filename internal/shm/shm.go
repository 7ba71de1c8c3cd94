package shm

import (
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

var (
	ErrInvalidSize = errors.New("shm: invalid region size")
	ErrClosed      = errors.New("shm: region closed")
)

// Region represents a shared memory region mapped into this process.
//
// A Region is either backed by a file (typically under /dev/shm) so that a
// producer and a consumer process can map the same pages, or anonymous, in
// which case it is only shared between goroutines of this process.
type Region struct {
	name   string    // Path of the backing file, empty for anonymous regions
	size   int       // Size of the mapping in bytes
	file   *os.File  // Backing file, nil for anonymous regions
	mem    mmap.MMap // Mapped bytes
	pinned bool      // Whether the pages are locked in RAM
}

// Create creates (or truncates) the file at path, sizes it and maps it
// read-write. The returned region starts zeroed.
func Create(path string, size int) (*Region, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shm: create %s: %w", path, err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("shm: truncate %s: %w", path, err)
	}

	mem, err := mmap.MapRegion(f, size, mmap.RDWR, 0, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shm: map %s: %w", path, err)
	}

	return &Region{name: path, size: size, file: f, mem: mem}, nil
}

// Open maps an existing region created by another process.
// The mapping covers the whole file.
func Open(path string) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("shm: open %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shm: stat %s: %w", path, err)
	}
	if fi.Size() <= 0 {
		f.Close()
		return nil, ErrInvalidSize
	}

	mem, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shm: map %s: %w", path, err)
	}

	return &Region{name: path, size: len(mem), file: f, mem: mem}, nil
}

// Anonymous maps a zeroed region that is not backed by any file.
func Anonymous(size int) (*Region, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	mem, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("shm: map anonymous: %w", err)
	}

	return &Region{size: size, mem: mem}, nil
}

// Name returns the path of the backing file, or "" for anonymous regions.
func (r *Region) Name() string {
	return r.name
}

// Size returns the size of the mapping in bytes.
func (r *Region) Size() int {
	return r.size
}

// FD returns the file descriptor of the backing file.
// Anonymous regions report ^uintptr(0), the value mmap expects for "no file".
func (r *Region) FD() uintptr {
	if r.file == nil {
		return ^uintptr(0)
	}
	return r.file.Fd()
}

// Bytes returns the mapped memory. The slice is only valid until Close.
func (r *Region) Bytes() []byte {
	return r.mem
}

// Pin locks the mapped pages in physical memory so that the peer never
// observes them being paged out mid-frame.
func (r *Region) Pin() error {
	if r.mem == nil {
		return ErrClosed
	}
	if r.pinned {
		return nil
	}
	if err := r.mem.Lock(); err != nil {
		return fmt.Errorf("shm: pin: %w", err)
	}
	r.pinned = true
	return nil
}

// Unpin releases a previous Pin. It is a no-op on unpinned regions.
func (r *Region) Unpin() error {
	if r.mem == nil {
		return ErrClosed
	}
	if !r.pinned {
		return nil
	}
	r.pinned = false
	if err := r.mem.Unlock(); err != nil {
		return fmt.Errorf("shm: unpin: %w", err)
	}
	return nil
}

// Flush writes dirty pages of a file-backed region back to the file.
func (r *Region) Flush() error {
	if r.mem == nil {
		return ErrClosed
	}
	return r.mem.Flush()
}

// Close unmaps the region and closes the backing file.
// The bytes returned by Bytes must not be used afterwards.
func (r *Region) Close() error {
	if r.mem == nil {
		return ErrClosed
	}

	var errs []error
	if r.pinned {
		errs = append(errs, r.Unpin())
	}
	errs = append(errs, r.mem.Unmap())
	r.mem = nil
	if r.file != nil {
		errs = append(errs, r.file.Close())
		r.file = nil
	}
	return errors.Join(errs...)
}
