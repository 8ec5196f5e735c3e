package writers

// Write-side byte cursor.  Appends to an in-memory buffer; nothing here
// can fail, so unlike the read side there are no errors to thread
// through.  Patch_uint32 exists because two fields (the checksum and
// the skippable-region length) can only be known after later bytes have
// been written.

import (
	"heistdig/types"
)

type Writer struct {
	data []byte
	Reg  *types.Registry
	Mode types.StringMode
}

func New(mode types.StringMode) *Writer {
	if mode == types.SM_UNKNOWN {
		// Compressed is what the game itself writes, so it's the
		// least-bad default when the read side saw no evidence.
		mode = types.SM_COMPRESSED
	}
	return &Writer{Reg: types.New_registry(), Mode: mode}
}

func (w *Writer) Tell() int {
	return len(w.data)
}

func (w *Writer) Bytes() []byte {
	return w.data
}

func (w *Writer) Write_bytes(b []byte) {
	w.data = append(w.data, b...)
}

func (w *Writer) Write_uint8(v uint8) {
	w.data = append(w.data, v)
}

func (w *Writer) Write_uint16(v uint16) {
	w.data = append(w.data, uint8(v), uint8(v>>8))
}

func (w *Writer) Write_uint32(v uint32) {
	w.data = append(w.data, uint8(v), uint8(v>>8), uint8(v>>16), uint8(v>>24))
}

func (w *Writer) Patch_uint32(at int, v uint32) {
	w.data[at] = uint8(v)
	w.data[at+1] = uint8(v >> 8)
	w.data[at+2] = uint8(v >> 16)
	w.data[at+3] = uint8(v >> 24)
}

func (w *Writer) Write_varint(v int) {
	for {
		b := uint8(v & 0x7F)
		v >>= 7
		if v > 0 {
			b |= 0x80
		}
		w.data = append(w.data, b)
		if v == 0 {
			return
		}
	}
}

func (w *Writer) Write_tag(tag string) {
	w.data = append(w.data, tag...)
}

// Write_string writes one string field.  "" writes the absent marker.
// In compressed mode, content we've already written becomes a
// back-reference to the first copy; the delta is measured from the
// start of the delta field to the start of the referenced raw bytes.
func (w *Writer) Write_string(s string) {
	if s == "" {
		w.Write_uint8(0)
		return
	}

	raw := Encode_latin1(s)
	w.Write_varint(len(raw))

	if w.Mode == types.SM_COMPRESSED {
		if at, ok := w.Reg.Write_lookup[s]; ok {
			w.Write_varint(w.Tell() - at)
			return
		}
		w.Write_uint8(0)
		w.Reg.Write_lookup[s] = w.Tell()
		w.Write_bytes(raw)
		return
	}

	// Expanded: every string spelled out in full
	w.Write_uint8(0)
	w.Write_bytes(raw)
}

func Encode_latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, byte(r))
	}
	return out
}
