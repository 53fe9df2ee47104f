package protocol

import (
	"fmt"
)

// Frame format constants
const (
	// Field sizes
	SeqSize         = 3 // 24-bit little-endian sequence number
	LenSize         = 3 // 24-bit little-endian payload length
	FrameHeaderSize = SeqSize + LenSize

	// Field limits
	MaxSequence    = 0xFFFFFF // sequence numbers wrap modulo 2^24
	MaxPayloadSize = 0xFFFFFF

	// HeaderSequence is reserved: a frame with sequence 0 carries the audio
	// container header and marks the start of a new file cycle.
	HeaderSequence = 0
)

// Frame represents one wire-format unit: a sequence number and a payload.
// Frames are constructed, serialized, and discarded; they are never retained.
type Frame struct {
	Sequence uint32 // 0..MaxSequence; 0 = container header frame
	Payload  []byte // container header bytes or one PCM page
}

// IsHeader reports whether the frame carries the container header.
func (f *Frame) IsHeader() bool {
	return f.Sequence == HeaderSequence
}

// String returns a human-readable representation of the frame.
func (f *Frame) String() string {
	kind := "page"
	if f.IsHeader() {
		kind = "header"
	}
	return fmt.Sprintf("Frame{Seq:%d, Kind:%s, PayloadLen:%d}", f.Sequence, kind, len(f.Payload))
}

// EncodeFrame serializes a frame as [seq:3 LE][length:3 LE][payload].
// The sequence is masked to 24 bits; payloads are produced internally and
// never exceed MaxPayloadSize, so there is no error path.
func EncodeFrame(seq uint32, payload []byte) []byte {
	return AppendFrame(make([]byte, 0, FrameHeaderSize+len(payload)), seq, payload)
}

// AppendFrame appends the wire encoding of a frame to dst and returns the
// extended slice. The sequencer uses it to reuse one scratch buffer across
// frames instead of allocating per page.
func AppendFrame(dst []byte, seq uint32, payload []byte) []byte {
	dst = appendUint24(dst, seq&MaxSequence)
	dst = appendUint24(dst, uint32(len(payload)))
	return append(dst, payload...)
}

// DecodeFrame parses one frame from the front of data and returns the frame
// and the number of bytes consumed.
func DecodeFrame(data []byte) (*Frame, int, error) {
	if len(data) < FrameHeaderSize {
		return nil, 0, fmt.Errorf("frame too short: expected at least %d bytes, got %d", FrameHeaderSize, len(data))
	}

	seq := uint24(data[0:SeqSize])
	length := int(uint24(data[SeqSize:FrameHeaderSize]))

	if len(data) < FrameHeaderSize+length {
		return nil, 0, fmt.Errorf("frame payload truncated: header says %d bytes, %d available",
			length, len(data)-FrameHeaderSize)
	}

	frame := &Frame{Sequence: seq}
	if length > 0 {
		frame.Payload = make([]byte, length)
		copy(frame.Payload, data[FrameHeaderSize:FrameHeaderSize+length])
	}

	return frame, FrameHeaderSize + length, nil
}

// NextSequence returns the sequence number that follows seq, wrapping
// modulo 2^24.
func NextSequence(seq uint32) uint32 {
	return (seq + 1) & MaxSequence
}

// appendUint24 appends v as a 3-byte little-endian value.
func appendUint24(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16))
}

// uint24 reads a 3-byte little-endian value.
func uint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
