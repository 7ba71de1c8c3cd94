package dodesc

import "errors"

// Error definitions for descriptor operations
var (
	ErrNotInitialized     = errors.New("dodesc: descriptor not initialized")
	ErrAlreadyInitialized = errors.New("dodesc: descriptor already initialized")
	ErrInvalidHandles     = errors.New("dodesc: invalid descriptor handles")
	ErrMemoryAlign        = errors.New("dodesc: memory alignment violation")
	ErrMemorySmall        = errors.New("dodesc: memory too small")
	ErrInvalidLayout      = errors.New("dodesc: invalid region layout")
	ErrFailedInit         = errors.New("dodesc: failed to initialize region")
	ErrNotRegistered      = errors.New("dodesc: display object not registered")
	ErrAlreadyRegistered  = errors.New("dodesc: display object already registered")
	ErrNoFreeSlot         = errors.New("dodesc: no free descriptor slot")
	ErrBufferOverflow     = errors.New("dodesc: buffer overflow")
	ErrInvalidOp          = errors.New("dodesc: invalid operation")
	ErrClosed             = errors.New("dodesc: closed")
	ErrProducer           = errors.New("dodesc: producer failure")
)

// ErrorCode represents error codes carried in error packets between the
// consumer and the producer.
type ErrorCode uint64

const (
	ErrCodeUnknown           ErrorCode = 0x00 // Unclassified failure
	ErrCodeNotRegistered     ErrorCode = 0x01 // Display object not registered
	ErrCodeAlreadyRegistered ErrorCode = 0x02 // Display object ID in use
	ErrCodeNoFreeSlot        ErrorCode = 0x03 // Region has no free slot
	ErrCodeBufferOverflow    ErrorCode = 0x04 // Payload larger than a buffer
	ErrCodeInvalidOp         ErrorCode = 0x05 // Unknown or malformed request
)

var codeErrors = map[ErrorCode]error{
	ErrCodeNotRegistered:     ErrNotRegistered,
	ErrCodeAlreadyRegistered: ErrAlreadyRegistered,
	ErrCodeNoFreeSlot:        ErrNoFreeSlot,
	ErrCodeBufferOverflow:    ErrBufferOverflow,
	ErrCodeInvalidOp:         ErrInvalidOp,
}

// Err returns the sentinel error for c.
func (c ErrorCode) Err() error {
	if err, ok := codeErrors[c]; ok {
		return err
	}
	return ErrProducer
}

// CodeOf maps err to the code sent across the wire.
func CodeOf(err error) ErrorCode {
	for code, sentinel := range codeErrors {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ErrCodeUnknown
}
