package protocol

//go:generate go tool stringer -type=OpCode -trimprefix=Op
type OpCode uintptr

const (
	// Error: 0:Sequence, 1:ErrorCode
	OpError OpCode = 0x00

	// Register: 0:Sequence, 1:DisplayObjectID, 2:TextureMode, 3:BufferIndex, 4:NameLength
	OpRegister OpCode = 0x01

	// Registered: 0:Sequence, 1:DisplayObjectID, 2:HeaderOffset, 3:DynamicOffset, 4:StaticOffset, 5:DebugOffset
	OpRegistered OpCode = 0x02

	// Acknowledge: 1:DisplayObjectID
	OpAcknowledge OpCode = 0x03

	// Unregister: 0:Sequence, 1:DisplayObjectID
	OpUnregister OpCode = 0x04

	// Unregistered: 0:Sequence, 1:DisplayObjectID
	OpUnregistered OpCode = 0x05

	// 0x06-0x0F: Reserved
)

// Packet is the fixed-size control message exchanged over the request and
// reply rings. Offsets are relative to the start of the shared region since
// both processes map it at different addresses.
type Packet struct {
	Op       OpCode
	Operand0 uintptr
	Operand1 uintptr
	Operand2 uintptr
	Operand3 uintptr
	Operand4 uintptr
	Operand5 uintptr
}

// EncodeID packs a display object ID into an operand without sign extension.
func EncodeID(id int32) uintptr {
	return uintptr(uint32(id))
}

// DecodeID reverses EncodeID.
func DecodeID(v uintptr) int32 {
	return int32(uint32(v))
}
