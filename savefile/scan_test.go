package savefile

import (
	"testing"

	"heistdig/readers"
	"heistdig/types"
)

func Test_plausible_length(t *testing.T) {
	cases := map[int]bool{
		0: false, 1: false,
		2: true, 10: true, 64: true,
		65: false, 2175: false,
	}
	for n, want := range cases {
		if plausible_length(n) != want {
			t.Errorf("plausible_length(%v): wanted %v", n, want)
		}
	}
}

func Test_identifier_like(t *testing.T) {
	good := []string{"xp", "crew_leeway", "jobbonus_flanker_2", "A9_z"}
	for _, s := range good {
		if !identifier_like([]byte(s)) {
			t.Errorf("identifier_like(%q): wanted true", s)
		}
	}
	bad := []string{"has space", "dash-ed", "caf\xe9", "nul\x00"}
	for _, s := range bad {
		if identifier_like([]byte(s)) {
			t.Errorf("identifier_like(%q): wanted false", s)
		}
	}
}

func Test_known_target(t *testing.T) {
	reg := types.New_registry()
	reg.Note_read(4, "water_pump")

	if s, ok := known_target(reg, 16, 12, 10); !ok || s != "water_pump" {
		t.Errorf("exact match failed: %q %v", s, ok)
	}
	if _, ok := known_target(reg, 16, 11, 10); ok {
		t.Errorf("off-by-one target accepted")
	}
	if _, ok := known_target(reg, 16, 12, 9); ok {
		t.Errorf("length mismatch accepted")
	}
}

func compressed() types.StringMode { return types.SM_COMPRESSED }
func expanded() types.StringMode   { return types.SM_EXPANDED }

func Test_scan_segment(t *testing.T) {
	// Two junk bytes, a real string, a junk byte, then a
	// back-reference to the string.
	data := []byte{
		0x01, 0x02,
		0x0A, 0x00, 'w', 'a', 't', 'e', 'r', '_', 'p', 'u', 'm', 'p',
		0xFF,
		0x0A, 0x0C,
	}

	r := readers.New(data)
	seg, err := Scan_segment(r, len(data), compressed)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if len(seg.Pieces) != 4 {
		t.Fatalf("got %v pieces: %+v", len(seg.Pieces), seg.Pieces)
	}
	if len(seg.Pieces[0].Raw) != 2 {
		t.Errorf("piece 0: %+v", seg.Pieces[0])
	}
	if seg.Pieces[1].Str != "water_pump" {
		t.Errorf("piece 1: %+v", seg.Pieces[1])
	}
	if len(seg.Pieces[2].Raw) != 1 || seg.Pieces[2].Raw[0] != 0xFF {
		t.Errorf("piece 2: %+v", seg.Pieces[2])
	}
	if seg.Pieces[3].Str != "water_pump" {
		t.Errorf("piece 3: %+v", seg.Pieces[3])
	}

	if r.Reg.References != 1 {
		t.Errorf("references: %v", r.Reg.References)
	}
}

func Test_scan_duplicate_first_occurrence(t *testing.T) {
	// The same string spelled out twice.  In a compressed file the
	// second copy can't be a real string (the writer would have
	// back-referenced it); in an expanded file it's legitimate.
	one := []byte{0x04, 0x00, 'g', 'o', 'l', 'd'}
	data := append(append([]byte{}, one...), one...)

	r := readers.New(data)
	seg, _ := Scan_segment(r, len(data), compressed)
	strs := 0
	for _, p := range seg.Pieces {
		if p.Raw == nil {
			strs += 1
		}
	}
	if strs != 1 {
		t.Errorf("compressed: accepted %v strings, wanted 1", strs)
	}

	r = readers.New(data)
	seg, _ = Scan_segment(r, len(data), expanded)
	strs = 0
	for _, p := range seg.Pieces {
		if p.Raw == nil {
			strs += 1
		}
	}
	if strs != 2 {
		t.Errorf("expanded: accepted %v strings, wanted 2", strs)
	}
	if r.Reg.Duplicates != 1 {
		t.Errorf("expanded: %v duplicates recorded", r.Reg.Duplicates)
	}
}

func Test_scan_rejects_truncated_string(t *testing.T) {
	// Length says 10 but only 3 bytes follow; every byte must come
	// back raw.
	data := []byte{0x0A, 0x00, 'a', 'b', 'c'}
	r := readers.New(data)
	seg, err := Scan_segment(r, len(data), compressed)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(seg.Pieces) != 1 || len(seg.Pieces[0].Raw) != len(data) {
		t.Errorf("got %+v", seg.Pieces)
	}
}
