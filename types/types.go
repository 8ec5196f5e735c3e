package types

// Shared leaf types for the SWH2 savefile codec.

// StringMode says how a file's strings were (or will be) stored.
// The game can write saves either with string compression (repeated
// strings become back-references) or fully expanded.  We have to write
// back in whichever mode the source file used, or the round-trip check
// fails.
type StringMode int

const (
	SM_COMPRESSED StringMode = iota
	SM_EXPANDED
	SM_UNKNOWN
)

func (sm StringMode) String() string {
	return []string{"compressed", "expanded", "unknown"}[sm]
}

// Registry implements the save format's back-reference string scheme.
// Strings are content-addressed: any two fields with equal literal
// values alias to one stored copy, no matter where they sit in the
// record tree.
//
// One Registry serves one direction of one pass: reading uses
// Read_lookup, writing uses Write_lookup.  The "skippable" section of
// the file keeps its own isolated instance - its back-references never
// resolve outside it, or vice versa.
type Registry struct {
	Read_lookup  map[int]string // offset of raw bytes -> decoded string
	Write_lookup map[string]int // content -> offset of raw bytes

	seen map[string]bool

	// Mode-guess evidence, accumulated while reading
	References int
	Duplicates int
}

func New_registry() *Registry {
	return &Registry{
		Read_lookup:  map[int]string{},
		Write_lookup: map[string]int{},
		seen:         map[string]bool{},
	}
}

// Note_read records a first-occurrence string read at the given offset,
// and keeps the duplicate count up to date.
func (rg *Registry) Note_read(offset int, s string) {
	rg.Read_lookup[offset] = s
	if rg.seen[s] {
		rg.Duplicates += 1
	} else {
		rg.seen[s] = true
	}
}

// Resolve looks up a back-reference target.
func (rg *Registry) Resolve(offset int) (string, bool) {
	s, ok := rg.Read_lookup[offset]
	return s, ok
}

// Seen reports whether a string's content has already been read through
// this registry.  The tail scanner uses this to reject "duplicate first
// occurrences" that a compressed file would never contain.
func (rg *Registry) Seen(s string) bool {
	return rg.seen[s]
}

// Guess_mode guesses the storage mode from read-time evidence across
// any number of registries (main + skippable).
// Back-references with no duplicates means the writer was compressing;
// duplicates with no back-references means it wasn't.  Anything else is
// inconclusive.
func Guess_mode(regs ...*Registry) StringMode {
	refs, dups := 0, 0
	for _, rg := range regs {
		refs += rg.References
		dups += rg.Duplicates
	}
	if refs > 0 && dups == 0 {
		return SM_COMPRESSED
	}
	if refs == 0 && dups > 0 {
		return SM_EXPANDED
	}
	return SM_UNKNOWN
}
