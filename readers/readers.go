package readers

// Read-side byte cursor for SWH2 savefiles.
// Everything is little-endian; strings are latin1 with the
// back-reference compression scheme described in types.Registry.

import (
	"heistdig/types"
)

// Reader walks an in-memory buffer.  It never seeks backwards - a
// back-reference is a map lookup, not a cursor move.
//
// Reg is the *current* string registry.  The savefile document swaps it
// for an isolated instance while inside the skippable section, then
// swaps back.
type Reader struct {
	Data []byte
	Pos  int
	Reg  *types.Registry
}

func New(data []byte) *Reader {
	return &Reader{Data: data, Reg: types.New_registry()}
}

func (r *Reader) Tell() int {
	return r.Pos
}

func (r *Reader) Remaining() int {
	return len(r.Data) - r.Pos
}

// Read_bytes reads exactly n bytes.  The returned slice aliases the
// underlying buffer; callers that keep it must copy.
func (r *Reader) Read_bytes(n int) ([]byte, error) {
	if n < 0 || r.Pos+n > len(r.Data) {
		return nil, types.Format_errorf(r.Pos, "wanted %v bytes, only %v left", n, r.Remaining())
	}
	out := r.Data[r.Pos : r.Pos+n]
	r.Pos += n
	return out, nil
}

func (r *Reader) Read_uint8() (uint8, error) {
	b, err := r.Read_bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Read_uint16() (uint16, error) {
	b, err := r.Read_bytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

func (r *Reader) Read_uint32() (uint32, error) {
	b, err := r.Read_bytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// Read_varint reads a base-128 varint, low group first, high bit as the
// continuation flag.  Nothing in a savefile legitimately needs more
// than 4 groups (28 bits); going past that means the parse has desynced
// and we're about to invent a multi-gigabyte length, so bail instead.
func (r *Reader) Read_varint() (int, error) {
	start := r.Pos
	out := 0
	shift := 0
	for {
		if r.Pos-start >= 4 {
			return 0, types.Format_errorf(start, "runaway varint")
		}
		b, err := r.Read_uint8()
		if err != nil {
			return 0, err
		}
		out |= int(b&0x7F) << shift
		if b&0x80 == 0 {
			return out, nil
		}
		shift += 7
	}
}

// Read_tag reads a record's 4-byte tag and checks it against what the
// calling context expects.  A mismatch is fatal: it means the cursor is
// lost, and there is no recovery from that.
func (r *Reader) Read_tag(want string) error {
	start := r.Pos
	b, err := r.Read_bytes(4)
	if err != nil {
		return err
	}
	if string(b) != want {
		return types.Format_errorf(start, "expected record tag %q but got %q", want, string(b))
	}
	return nil
}

// Read_string reads one string field.  "" means the field was absent
// (length 0); the format cannot represent a present empty string.
func (r *Reader) Read_string() (string, error) {
	start := r.Pos
	strlen, err := r.Read_varint()
	if err != nil {
		return "", err
	}
	if strlen == 0 {
		return "", nil
	}

	delta_at := r.Pos
	delta, err := r.Read_varint()
	if err != nil {
		return "", err
	}

	if delta == 0 {
		// First occurrence
		data_at := r.Pos
		raw, err := r.Read_bytes(strlen)
		if err != nil {
			return "", err
		}
		s := Decode_latin1(raw)
		r.Reg.Note_read(data_at, s)
		return s, nil
	}

	// Back-reference
	target := delta_at - delta
	s, ok := r.Reg.Resolve(target)
	if !ok {
		return "", types.Format_errorf(start, "string back-reference at 0x%X points at 0x%X, which is not a string", delta_at, target)
	}
	if len(s) != strlen {
		// The game never writes substring references; a length
		// mismatch means we mis-tracked an offset somewhere.
		return "", types.Format_errorf(start, "string back-reference length %v does not match cached length %v", strlen, len(s))
	}
	r.Reg.References += 1
	return s, nil
}

// Decode_latin1 decodes one byte per character.  The strings in a
// savefile are identifiers out of the game's definition files, so plain
// ASCII in practice, but latin1 is the safe superset.
func Decode_latin1(raw []byte) string {
	rs := make([]rune, len(raw))
	for i, b := range raw {
		rs[i] = rune(b)
	}
	return string(rs)
}
