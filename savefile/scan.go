package savefile

// The tail scanner.  Large stretches of a savefile are structure we
// haven't decoded yet, but the string registry still reaches into
// them: a string in the parsed part can be back-referenced from the
// tail and vice versa.  So opaque regions can't just be copied - they
// have to be scanned for anything that looks like a registry string,
// so that re-encoding keeps every delta pointing at the right place
// even after edits move things around.
//
// The scanner is heuristic by necessity.  Each predicate below is
// deliberately narrow; a miss just means a few bytes get carried as
// raw, which is always safe for an unmodified file.

import (
	"heistdig/readers"
	"heistdig/types"
	"heistdig/writers"
)

// Plausible content lengths for a scanned string.  Real identifiers
// in the registry run from "xp" to long mission names; anything
// outside this range is noise.
const (
	SCAN_MIN_LEN = 2
	SCAN_MAX_LEN = 64
)

// Piece is one run of an opaque region: either raw bytes carried
// verbatim, or a recognized registry string (Raw == nil).
type Piece struct {
	Raw []byte
	Str string
}

// Segment is a scanned opaque region, ready to re-emit.
type Segment struct {
	Pieces []*Piece
}

func plausible_length(n int) bool {
	return n >= SCAN_MIN_LEN && n <= SCAN_MAX_LEN
}

// identifier_like reports whether every byte is from the identifier
// class the game uses for registry strings.
func identifier_like(raw []byte) bool {
	for _, b := range raw {
		switch {
		case b >= '0' && b <= '9':
		case b >= 'A' && b <= 'Z':
		case b >= 'a' && b <= 'z':
		case b == '_':
		default:
			return false
		}
	}
	return true
}

// known_target resolves a candidate back-reference: the delta must
// land exactly on a recorded string start, and the recorded string's
// length must match the length field.  Both being coincidentally
// right for random bytes is vanishingly unlikely.
func known_target(reg *types.Registry, delta_at, delta, strlen int) (string, bool) {
	s, ok := reg.Resolve(delta_at - delta)
	if !ok || len(s) != strlen {
		return "", false
	}
	return s, true
}

const (
	sc_raw = iota
	sc_string
	sc_backref
)

// classify tries to read one registry string at pos.  On success it
// commits the string to the registry and returns the position after
// it; otherwise the byte at pos is raw.
func classify(data []byte, pos, end int, reg *types.Registry, mode func() types.StringMode) (int, int, string) {
	// Truncating Data to the region end keeps the cursor from
	// reading past it while preserving absolute offsets for the
	// delta arithmetic.
	tr := &readers.Reader{Data: data[:end], Pos: pos, Reg: reg}

	l, err := tr.Read_varint()
	if err != nil || !plausible_length(l) {
		return sc_raw, pos + 1, ""
	}

	delta_at := tr.Pos
	delta, err := tr.Read_varint()
	if err != nil {
		return sc_raw, pos + 1, ""
	}

	if delta != 0 {
		s, ok := known_target(reg, delta_at, delta, l)
		if !ok {
			return sc_raw, pos + 1, ""
		}
		reg.References += 1
		return sc_backref, tr.Pos, s
	}

	data_at := tr.Pos
	raw, err := tr.Read_bytes(l)
	if err != nil || !identifier_like(raw) {
		return sc_raw, pos + 1, ""
	}
	s := readers.Decode_latin1(raw)

	// A compressed file would have written this as a back-reference,
	// so a repeat first-occurrence there is a false positive.  In an
	// expanded file it's a legitimate duplicate.
	if mode() != types.SM_EXPANDED && reg.Seen(s) {
		return sc_raw, pos + 1, ""
	}

	reg.Note_read(data_at, s)
	return sc_string, tr.Pos, s
}

// Scan_segment consumes r up to end, splitting the region into raw
// runs and recognized strings.  mode is consulted lazily because the
// compressed/expanded evidence keeps accumulating as we scan.
func Scan_segment(r *readers.Reader, end int, mode func() types.StringMode) (*Segment, error) {
	if end < r.Pos || end > len(r.Data) {
		return nil, types.Format_errorf(r.Pos, "scan region end %d out of range", end)
	}

	seg := &Segment{}
	var run []byte
	flush := func() {
		if len(run) > 0 {
			seg.Pieces = append(seg.Pieces, &Piece{Raw: run})
			run = nil
		}
	}

	for r.Pos < end {
		class, next, s := classify(r.Data, r.Pos, end, r.Reg, mode)
		if class == sc_raw {
			run = append(run, r.Data[r.Pos])
			r.Pos += 1
			continue
		}
		flush()
		seg.Pieces = append(seg.Pieces, &Piece{Str: s})
		r.Pos = next
	}
	flush()
	return seg, nil
}

// Write_to re-emits the segment.  Raw runs go out verbatim; strings
// go back through the registry, which regenerates every delta against
// the current write positions.
func (seg *Segment) Write_to(w *writers.Writer) {
	for _, p := range seg.Pieces {
		if p.Raw != nil {
			w.Write_bytes(p.Raw)
		} else {
			w.Write_string(p.Str)
		}
	}
}
