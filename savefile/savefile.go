// Package savefile parses, verifies, edits and re-encodes SteamWorld
// Heist II savefiles.
//
// The format is unforgiving: a position-relative string registry
// means almost any byte moved is every later back-reference broken.
// So the package is built around one rule - nothing is trusted until
// it round-trips.  Every parse re-encodes the document and compares
// byte-for-byte against the input before returning it.
package savefile

import (
	"bytes"
	"hash/crc32"
	"io"

	"heistdig/readers"
	"heistdig/types"
	"heistdig/writers"
)

const (
	MAGIC       = "SWH2"
	MAX_VERSION = 1

	// The checksum at bytes 5..8 covers everything from byte 9 on.
	CHECKSUM_AT   = 5
	CHECKSUM_FROM = 9
)

// Savefile is one fully parsed save.  The record fields are live:
// edit them (or use the mutation methods) and Encode writes a
// consistent file with a fresh checksum.
type Savefile struct {
	Version  uint8
	Checksum uint32 // as stored in the file at parse time
	Mode     types.StringMode

	Header    *Header
	Campaign  *Campaign
	Resources *Resources
	Ship      *Ship
	Inventory *Inventory
	Loadouts  []*Loadout
	Recruits  *Pool
	Loot      *LootState
	Location  *ShipLocation
	Mission   *Mission

	// Skippable region; Fog is nil when the file carries none.
	Fog       *Fog
	Skip_tail *Segment

	Shops []*Shop
	Crew  *CrewController
	Tail  *Segment

	items_by_id map[int]*InventoryItem
	next_id     int
}

// Read_savefile parses data.  Nothing in the returned document
// aliases data; the caller keeps ownership of the buffer.
//
// Saves captured mid-mission are refused with types.Err_in_mission -
// they carry combat state this codec can't round-trip.
func Read_savefile(data []byte) (*Savefile, error) {
	r := readers.New(data)
	main_reg := r.Reg
	skip_reg := types.New_registry()
	guess := func() types.StringMode {
		return types.Guess_mode(main_reg, skip_reg)
	}

	magic, err := r.Read_bytes(4)
	if err != nil || string(magic) != MAGIC {
		return nil, types.Format_errorf(0, "not a SWH2 savefile")
	}

	sd := &Savefile{}
	c := &cr{r: r}

	sd.Version = c.u8()
	if c.err == nil && sd.Version > MAX_VERSION {
		return nil, types.Format_errorf(4, "savefile version %d is newer than %d", sd.Version, MAX_VERSION)
	}
	sd.Checksum = c.u32()

	sd.Header = read_header(c)
	sd.Campaign = read_campaign(c)
	if c.err != nil {
		return nil, c.err
	}
	if sd.Campaign.In_mission() {
		return nil, types.Err_in_mission
	}

	sd.Resources = read_resources(c)
	sd.Ship = read_ship(c)
	sd.Inventory = read_inventory(c)

	n := c.u8()
	for i := 0; i < int(n) && c.err == nil; i += 1 {
		sd.Loadouts = append(sd.Loadouts, read_loadout(c))
	}

	sd.Recruits = read_pool(c)
	sd.Loot = read_loot_state(c)
	sd.Location = read_ship_location(c)
	sd.Mission = read_mission(c)

	// The skip offset belongs to the document, not to any record.
	// It counts bytes from just after itself to the end of the
	// skippable region.
	skip := c.u32()
	if c.err != nil {
		return nil, c.err
	}
	if skip > 0 {
		skip_end := r.Pos + int(skip)
		if skip_end > len(data) {
			return nil, types.Format_errorf(r.Pos-4, "skippable region runs past end of file")
		}
		// The region keeps its own registry; deltas never cross
		// the boundary in either direction.
		r.Reg = skip_reg
		sd.Fog = read_fog(c)
		if c.err != nil {
			return nil, c.err
		}
		if r.Pos > skip_end {
			return nil, types.Format_errorf(skip_end, "fog bitmap overruns the skippable region")
		}
		sd.Skip_tail, err = Scan_segment(r, skip_end, guess)
		if err != nil {
			return nil, err
		}
		r.Reg = main_reg
	}

	n2 := c.varint()
	for i := 0; i < n2 && c.err == nil; i += 1 {
		sd.Shops = append(sd.Shops, read_shop(c))
	}
	sd.Crew = read_crew_controller(c)
	if c.err != nil {
		return nil, c.err
	}

	sd.Tail, err = Scan_segment(r, len(data), guess)
	if err != nil {
		return nil, err
	}

	sd.Mode = guess()
	sd.index_items()
	sd.resolve_loadouts()

	// Round-trip check.  If this fails the scanner or a record
	// layout is wrong, and editing would corrupt the save; better
	// to refuse now and hand back the reconstruction for diffing.
	enc := sd.Encode()
	if !bytes.Equal(enc, data) {
		return nil, &types.VerificationError{
			Offset:         first_diff(data, enc),
			Reconstruction: enc,
		}
	}

	return sd, nil
}

func first_diff(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i += 1 {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func (sd *Savefile) index_items() {
	sd.items_by_id = map[int]*InventoryItem{}
	sd.next_id = 1
	for _, it := range sd.Inventory.Items {
		sd.items_by_id[it.Id] = it
		if it.Id >= sd.next_id {
			sd.next_id = it.Id + 1
		}
	}
}

func (sd *Savefile) resolve_loadouts() {
	for _, lo := range sd.Loadouts {
		lo.Weapon = sd.items_by_id[lo.Cur_weapon]
		// Utility_items stays parallel to Utilities; an unmatched id
		// resolves to a nil hole and the id itself is kept untouched.
		lo.Utility_items = make([]*InventoryItem, len(lo.Utilities))
		for i, id := range lo.Utilities {
			lo.Utility_items[i] = sd.items_by_id[id]
		}
	}
}

// Item_by_id returns the inventory item with the given id, or nil.
func (sd *Savefile) Item_by_id(id int) *InventoryItem {
	return sd.items_by_id[id]
}

// Has_item reports whether any inventory item has the given name.
func (sd *Savefile) Has_item(name string) bool {
	for _, it := range sd.Inventory.Items {
		if it.Name == name {
			return true
		}
	}
	return false
}

// Crew_status returns the progression record for the named crew
// member, or nil.
func (sd *Savefile) Crew_status(name string) *CrewStatus {
	return sd.Crew.Status(name)
}

// Encode serializes the document.  The checksum is recomputed, so the
// output is a valid savefile even after edits.
func (sd *Savefile) Encode() []byte {
	w := writers.New(sd.Mode)
	main_reg := w.Reg

	w.Write_tag(MAGIC)
	w.Write_uint8(sd.Version)
	w.Write_uint32(0) // checksum, patched below

	sd.Header.Write_to(w)
	sd.Campaign.Write_to(w)
	sd.Resources.Write_to(w)
	sd.Ship.Write_to(w)
	sd.Inventory.Write_to(w)

	w.Write_uint8(uint8(len(sd.Loadouts)))
	for _, lo := range sd.Loadouts {
		lo.Write_to(w)
	}

	sd.Recruits.Write_to(w)
	sd.Loot.Write_to(w)
	sd.Location.Write_to(w)
	sd.Mission.Write_to(w)

	if sd.Fog == nil {
		w.Write_uint32(0)
	} else {
		skip_at := w.Tell()
		w.Write_uint32(0) // skip offset, patched below
		start := w.Tell()
		w.Reg = types.New_registry()
		sd.Fog.Write_to(w)
		sd.Skip_tail.Write_to(w)
		w.Reg = main_reg
		w.Patch_uint32(skip_at, uint32(w.Tell()-start))
	}

	w.Write_varint(len(sd.Shops))
	for _, sh := range sd.Shops {
		sh.Write_to(w)
	}
	sd.Crew.Write_to(w)
	sd.Tail.Write_to(w)

	w.Patch_uint32(CHECKSUM_AT, crc32.ChecksumIEEE(w.Bytes()[CHECKSUM_FROM:]))
	return w.Bytes()
}

// Write encodes the document and writes it out.
func (sd *Savefile) Write(out io.Writer) error {
	_, err := out.Write(sd.Encode())
	return err
}
