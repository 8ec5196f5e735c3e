package savefile

// The record catalog, part 1: header and boat-side records.
//
// Every structured piece of a savefile is a tagged record: a 4-byte
// tag, checked against what the enclosing context expects, then a
// tag-specific payload.  The set of tags is closed - there is no
// "unknown record" case, because records are only ever read where the
// format says they must be.
//
// A lot of integer fields below are deliberately opaque.  We know
// where they are and how wide they are, not what they mean, and
// misreading an unknown field (say, a float as a flag) is worse than
// not reading it at all.  They are named Unknown* and round-tripped
// verbatim.

import (
	"heistdig/readers"
	"heistdig/writers"
)

// Record tags
const (
	TAG_HEADER     = "Head"
	TAG_DIFFICULTY = "Difc"
	TAG_CAMPAIGN   = "imh2"
	TAG_RESOURCES  = "GaRe"
	TAG_SHIP       = "Ship"
	TAG_INVENTORY  = "Inve"
	TAG_ITEM       = "ItIn"
	TAG_LOADOUT    = "CrLo"
	TAG_POOL       = "Pool"
	TAG_LOOT       = "LoTa"
	TAG_LOCATION   = "ShLo"
	TAG_MISSION    = "MsnD"
	TAG_FOG        = "WoFo"
	TAG_SHOP       = "Shop"
	TAG_SHOP_ITEM  = "ShIt"
	TAG_CREW_STATE = "ChSt"
	TAG_CREW_CTRL  = "CCon"
)

// cr is a sticky-error convenience over the read cursor: record
// layouts read much more clearly without an error check per field.
// After the first failure every further read is a no-op returning
// zero, and the caller checks err once per record.
type cr struct {
	r   *readers.Reader
	err error
}

func (c *cr) tag(want string) {
	if c.err == nil {
		c.err = c.r.Read_tag(want)
	}
}

func (c *cr) u8() uint8 {
	if c.err != nil {
		return 0
	}
	v, err := c.r.Read_uint8()
	c.err = err
	return v
}

func (c *cr) u16() uint16 {
	if c.err != nil {
		return 0
	}
	v, err := c.r.Read_uint16()
	c.err = err
	return v
}

func (c *cr) u32() uint32 {
	if c.err != nil {
		return 0
	}
	v, err := c.r.Read_uint32()
	c.err = err
	return v
}

func (c *cr) varint() int {
	if c.err != nil {
		return 0
	}
	v, err := c.r.Read_varint()
	c.err = err
	return v
}

func (c *cr) str() string {
	if c.err != nil {
		return ""
	}
	v, err := c.r.Read_string()
	c.err = err
	return v
}

// str_list reads a varint-counted list of strings, the format's most
// common list shape.
func (c *cr) str_list() []string {
	n := c.varint()
	out := []string{}
	for i := 0; i < n && c.err == nil; i += 1 {
		out = append(out, c.str())
	}
	return out
}

func (c *cr) varint_list() []int {
	n := c.varint()
	out := []int{}
	for i := 0; i < n && c.err == nil; i += 1 {
		out = append(out, c.varint())
	}
	return out
}

func write_str_list(w *writers.Writer, ss []string) {
	w.Write_varint(len(ss))
	for _, s := range ss {
		w.Write_string(s)
	}
}

func write_varint_list(w *writers.Writer, vs []int) {
	w.Write_varint(len(vs))
	for _, v := range vs {
		w.Write_varint(v)
	}
}

// Difficulty holds one block of difficulty settings.  The header
// carries two of these; nobody knows why.
type Difficulty struct {
	Unknown  uint8
	Settings [8]uint32
}

func read_difficulty(c *cr) *Difficulty {
	d := &Difficulty{}
	c.tag(TAG_DIFFICULTY)
	d.Unknown = c.u8()
	for i := range d.Settings {
		d.Settings[i] = c.u32()
	}
	return d
}

func (d *Difficulty) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_DIFFICULTY)
	w.Write_uint8(d.Unknown)
	for _, s := range d.Settings {
		w.Write_uint32(s)
	}
}

// Header is the main save header: current whereabouts and the list of
// unlocked crew.
type Header struct {
	Zero_1    uint8
	Unknown_1 uint32
	Zero_2    uint32
	Unknown_2 uint32
	// The last few bytes look like some kind of counter (time
	// elapsed?), so they are grouped accordingly.
	Unknown_3 uint8
	Unknown_4 uint8
	Unknown_5 uint8
	Unknown_6 uint32

	Difficulties [2]*Difficulty

	Cur_location string
	Cur_region   string
	Cur_quest    string
	Crew         []string
}

func read_header(c *cr) *Header {
	h := &Header{}
	c.tag(TAG_HEADER)
	h.Zero_1 = c.u8()
	h.Unknown_1 = c.u32()
	h.Zero_2 = c.u32()
	h.Unknown_2 = c.u32()
	h.Unknown_3 = c.u8()
	h.Unknown_4 = c.u8()
	h.Unknown_5 = c.u8()
	h.Unknown_6 = c.u32()

	h.Difficulties[0] = read_difficulty(c)
	h.Difficulties[1] = read_difficulty(c)

	h.Cur_location = c.str()
	h.Cur_region = c.str()
	h.Cur_quest = c.str()

	// Crew list uses a u8 count, not a varint
	n := c.u8()
	for i := 0; i < int(n) && c.err == nil; i += 1 {
		h.Crew = append(h.Crew, c.str())
	}
	return h
}

func (h *Header) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_HEADER)
	w.Write_uint8(h.Zero_1)
	w.Write_uint32(h.Unknown_1)
	w.Write_uint32(h.Zero_2)
	w.Write_uint32(h.Unknown_2)
	w.Write_uint8(h.Unknown_3)
	w.Write_uint8(h.Unknown_4)
	w.Write_uint8(h.Unknown_5)
	w.Write_uint32(h.Unknown_6)

	h.Difficulties[0].Write_to(w)
	h.Difficulties[1].Write_to(w)

	w.Write_string(h.Cur_location)
	w.Write_string(h.Cur_region)
	w.Write_string(h.Cur_quest)
	w.Write_uint8(uint8(len(h.Crew)))
	for _, bot := range h.Crew {
		w.Write_string(bot)
	}
}

// Campaign state byte: bit 0x02 marks a save captured mid-mission.
const STATE_IN_MISSION = 0x02

// Campaign is the imh2 record - campaign/mission progress state.
type Campaign struct {
	State              uint8
	Cur_outset         string
	Unknown_1          uint32
	Unknown_2          uint32
	Unknown_3          uint32
	Small_unknowns     [5]uint8
	Cur_campaign_state string
	Trailer            uint8
}

// In_mission reports whether the save was captured mid-mission.
// Such saves carry combat state this codec never parses.
func (cp *Campaign) In_mission() bool {
	return cp.State&STATE_IN_MISSION != 0
}

func read_campaign(c *cr) *Campaign {
	cp := &Campaign{}
	c.tag(TAG_CAMPAIGN)
	cp.State = c.u8()
	cp.Cur_outset = c.str()
	cp.Unknown_1 = c.u32()
	cp.Unknown_2 = c.u32()
	cp.Unknown_3 = c.u32()
	for i := range cp.Small_unknowns {
		cp.Small_unknowns[i] = c.u8()
	}
	cp.Cur_campaign_state = c.str()
	cp.Trailer = c.u8()
	return cp
}

func (cp *Campaign) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_CAMPAIGN)
	w.Write_uint8(cp.State)
	w.Write_string(cp.Cur_outset)
	w.Write_uint32(cp.Unknown_1)
	w.Write_uint32(cp.Unknown_2)
	w.Write_uint32(cp.Unknown_3)
	for _, b := range cp.Small_unknowns {
		w.Write_uint8(b)
	}
	w.Write_string(cp.Cur_campaign_state)
	w.Write_uint8(cp.Trailer)
}

// Resources is the GaRe record: the two currencies.
type Resources struct {
	Unknown   uint8
	Fragments uint32
	Water     uint32
}

func read_resources(c *cr) *Resources {
	rs := &Resources{}
	c.tag(TAG_RESOURCES)
	rs.Unknown = c.u8()
	rs.Fragments = c.u32()
	rs.Water = c.u32()
	return rs
}

func (rs *Resources) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_RESOURCES)
	w.Write_uint8(rs.Unknown)
	w.Write_uint32(rs.Fragments)
	w.Write_uint32(rs.Water)
}

// Ship is the sub's status: equipment, upgrades, and a 14-byte block
// we don't understand.
type Ship struct {
	Unknown        uint8
	Equipped       []string
	Item_ids       []int
	Item_sequences []uint32
	Upgrades       []string

	Unknown_b  [4]uint8
	Unknown_i1 uint32
	Unknown_i2 uint32
	Unknown_s1 uint16
}

func read_ship(c *cr) *Ship {
	sh := &Ship{}
	c.tag(TAG_SHIP)
	sh.Unknown = c.u8()

	n := c.u8()
	for i := 0; i < int(n) && c.err == nil; i += 1 {
		sh.Equipped = append(sh.Equipped, c.str())
	}

	// Item ids use varints; so far this and ItIn are the only places
	// where ids appear outside the inventory itself.
	n = c.u8()
	for i := 0; i < int(n) && c.err == nil; i += 1 {
		sh.Item_ids = append(sh.Item_ids, c.varint())
	}

	// Always an increasing run (0, 1, ..., N-1) in every save seen
	n = c.u8()
	for i := 0; i < int(n) && c.err == nil; i += 1 {
		sh.Item_sequences = append(sh.Item_sequences, c.u32())
	}

	n = c.u8()
	for i := 0; i < int(n) && c.err == nil; i += 1 {
		sh.Upgrades = append(sh.Upgrades, c.str())
	}

	for i := range sh.Unknown_b {
		sh.Unknown_b[i] = c.u8()
	}
	sh.Unknown_i1 = c.u32()
	sh.Unknown_i2 = c.u32()
	sh.Unknown_s1 = c.u16()
	return sh
}

func (sh *Ship) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_SHIP)
	w.Write_uint8(sh.Unknown)

	w.Write_uint8(uint8(len(sh.Equipped)))
	for _, e := range sh.Equipped {
		w.Write_string(e)
	}
	w.Write_uint8(uint8(len(sh.Item_ids)))
	for _, id := range sh.Item_ids {
		w.Write_varint(id)
	}
	w.Write_uint8(uint8(len(sh.Item_sequences)))
	for _, s := range sh.Item_sequences {
		w.Write_uint32(s)
	}
	w.Write_uint8(uint8(len(sh.Upgrades)))
	for _, u := range sh.Upgrades {
		w.Write_string(u)
	}

	for _, b := range sh.Unknown_b {
		w.Write_uint8(b)
	}
	w.Write_uint32(sh.Unknown_i1)
	w.Write_uint32(sh.Unknown_i2)
	w.Write_uint16(sh.Unknown_s1)
}

// InventoryItem is one ItIn record.  Ids are unique and monotonic;
// names key into the game-data catalogs.
type InventoryItem struct {
	Unknown uint8
	Id      int
	Flags   uint32 // tables.ITEM_* bits
	Name    string
	State   uint32 // usage state
	Extra   uint32
}

func read_inventory_item(c *cr) *InventoryItem {
	it := &InventoryItem{}
	c.tag(TAG_ITEM)
	it.Unknown = c.u8()
	it.Id = c.varint()
	it.Flags = c.u32()
	it.Name = c.str()
	it.State = c.u32()
	it.Extra = c.u32()
	return it
}

func (it *InventoryItem) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_ITEM)
	w.Write_uint8(it.Unknown)
	w.Write_varint(it.Id)
	w.Write_uint32(it.Flags)
	w.Write_string(it.Name)
	w.Write_uint32(it.State)
	w.Write_uint32(it.Extra)
}

// Inventory owns all items.  Everything else refers to them by id.
type Inventory struct {
	Unknown_1 uint8
	Unknown_2 uint32

	Items []*InventoryItem

	Unknown_arr   []int
	Unknown_arr_2 []int

	Hats       []string
	New_hats   []string
	Leeway_hat string
}

func read_inventory(c *cr) *Inventory {
	inv := &Inventory{}
	c.tag(TAG_INVENTORY)
	inv.Unknown_1 = c.u8()
	inv.Unknown_2 = c.u32()

	n := c.varint()
	for i := 0; i < n && c.err == nil; i += 1 {
		inv.Items = append(inv.Items, read_inventory_item(c))
	}

	inv.Unknown_arr = c.varint_list()
	inv.Unknown_arr_2 = c.varint_list()

	inv.Hats = c.str_list()
	inv.New_hats = c.str_list()
	inv.Leeway_hat = c.str()
	return inv
}

func (inv *Inventory) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_INVENTORY)
	w.Write_uint8(inv.Unknown_1)
	w.Write_uint32(inv.Unknown_2)

	w.Write_varint(len(inv.Items))
	for _, it := range inv.Items {
		it.Write_to(w)
	}

	write_varint_list(w, inv.Unknown_arr)
	write_varint_list(w, inv.Unknown_arr_2)

	write_str_list(w, inv.Hats)
	write_str_list(w, inv.New_hats)
	w.Write_string(inv.Leeway_hat)
}

// Loadout is one crew member's equipped gear.  The item fields are
// ids - non-owning references into the Inventory, resolved to
// pointers in a second pass after the whole file is parsed.
type Loadout struct {
	Unknown    uint8
	Name       string
	Cur_weapon int // item id, 0 = bare hands
	Utilities  []int
	Cur_hat    string

	// Resolved after parse, parallel to Utilities; nil when an id
	// has no matching item (the id is still preserved verbatim).
	Weapon        *InventoryItem
	Utility_items []*InventoryItem
}

func read_loadout(c *cr) *Loadout {
	lo := &Loadout{}
	c.tag(TAG_LOADOUT)
	lo.Unknown = c.u8()
	lo.Name = c.str()
	lo.Cur_weapon = c.varint()
	lo.Utilities = c.varint_list()
	lo.Cur_hat = c.str()
	return lo
}

func (lo *Loadout) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_LOADOUT)
	w.Write_uint8(lo.Unknown)
	w.Write_string(lo.Name)
	w.Write_varint(lo.Cur_weapon)
	write_varint_list(w, lo.Utilities)
	w.Write_string(lo.Cur_hat)
}
