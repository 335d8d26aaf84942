package wire

// Stream reads little-endian primitives from a byte slice.
// Reads never panic: an overrun marks the stream invalid and every
// subsequent read returns a zero value. Callers check Valid() once
// at the end rather than after every read.
type Stream struct {
	b     []byte
	p     uint64
	valid bool
}

func NewStream(b []byte) *Stream {
	return &Stream{b: b, valid: true}
}

// Valid is false once any read has overrun the buffer.
func (s *Stream) Valid() bool {
	return s.valid
}

// Complete is true if the stream is valid and fully consumed.
func (s *Stream) Complete() bool {
	return s.valid && s.p == uint64(len(s.b))
}

func (s *Stream) Bytes(num uint64) []byte {
	if !s.valid || s.p+num > uint64(len(s.b)) {
		s.valid = false
		return nil
	}
	p := s.p
	s.p += num
	return s.b[p : p+num]
}

func (s *Stream) Uint8() uint8 {
	if !s.valid || s.p+1 > uint64(len(s.b)) {
		s.valid = false
		return 0
	}
	val := s.b[s.p]
	s.p += 1
	return val
}

func (s *Stream) Uint32le() uint32 {
	if !s.valid || s.p+4 > uint64(len(s.b)) {
		s.valid = false
		return 0
	}
	b := s.b
	p := s.p
	s.p += 4
	_ = b[p+3] // bounds check hint
	return uint32(b[p]) | uint32(b[p+1])<<8 | uint32(b[p+2])<<16 | uint32(b[p+3])<<24
}

func (s *Stream) Uint64le() uint64 {
	if !s.valid || s.p+8 > uint64(len(s.b)) {
		s.valid = false
		return 0
	}
	b := s.b
	p := s.p
	s.p += 8
	_ = b[p+7] // bounds check hint
	return uint64(b[p]) | uint64(b[p+1])<<8 | uint64(b[p+2])<<16 | uint64(b[p+3])<<24 |
		uint64(b[p+4])<<32 | uint64(b[p+5])<<40 | uint64(b[p+6])<<48 | uint64(b[p+7])<<56
}

// String reads a 1-byte length prefix followed by that many UTF-8 bytes.
func (s *Stream) String() string {
	length := s.Uint8()
	return string(s.Bytes(uint64(length)))
}
