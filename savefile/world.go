package savefile

// The record catalog, part 2: world-side records.  These live after
// the boat records, and WoFo lives inside the skippable region.

import (
	"heistdig/writers"
)

// Pool is a weighted string pool, used for recruit rotation and loot
// tables.  Entries and Weights are parallel when both are present;
// the game sometimes writes one side empty.
type Pool struct {
	Unknown uint8
	Entries []string
	Weights []int
}

func read_pool(c *cr) *Pool {
	p := &Pool{}
	c.tag(TAG_POOL)
	p.Unknown = c.u8()
	p.Entries = c.str_list()
	p.Weights = c.varint_list()
	return p
}

func (p *Pool) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_POOL)
	w.Write_uint8(p.Unknown)
	write_str_list(w, p.Entries)
	write_varint_list(w, p.Weights)
}

// Deck is one named loot deck inside a LoTa record.
type Deck struct {
	Name string
	Pool *Pool
}

// LootState is the LoTa record: the loot decks still in rotation.
type LootState struct {
	Unknown uint8
	Decks   []*Deck
}

func read_loot_state(c *cr) *LootState {
	ls := &LootState{}
	c.tag(TAG_LOOT)
	ls.Unknown = c.u8()
	n := c.varint()
	for i := 0; i < n && c.err == nil; i += 1 {
		d := &Deck{}
		d.Name = c.str()
		d.Pool = read_pool(c)
		ls.Decks = append(ls.Decks, d)
	}
	return ls
}

func (ls *LootState) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_LOOT)
	w.Write_uint8(ls.Unknown)
	w.Write_varint(len(ls.Decks))
	for _, d := range ls.Decks {
		w.Write_string(d.Name)
		d.Pool.Write_to(w)
	}
}

// ShipLocation is the ShLo record: where the sub is on the world map.
type ShipLocation struct {
	Unknown uint8
	X       uint32
	Y       uint32
	Heading uint8
	Dock    string // "" when at sea
}

func read_ship_location(c *cr) *ShipLocation {
	sl := &ShipLocation{}
	c.tag(TAG_LOCATION)
	sl.Unknown = c.u8()
	sl.X = c.u32()
	sl.Y = c.u32()
	sl.Heading = c.u8()
	sl.Dock = c.str()
	return sl
}

func (sl *ShipLocation) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_LOCATION)
	w.Write_uint8(sl.Unknown)
	w.Write_uint32(sl.X)
	w.Write_uint32(sl.Y)
	w.Write_uint8(sl.Heading)
	w.Write_string(sl.Dock)
}

// Mission is the MsnD record: the campaign day counter and the set of
// currently offered missions.
type Mission struct {
	Unknown uint8
	Day     uint32
	Active  []string
}

func read_mission(c *cr) *Mission {
	m := &Mission{}
	c.tag(TAG_MISSION)
	m.Unknown = c.u8()
	m.Day = c.u32()
	m.Active = c.str_list()
	return m
}

func (m *Mission) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_MISSION)
	w.Write_uint8(m.Unknown)
	w.Write_uint32(m.Day)
	write_str_list(w, m.Active)
}

// Fog is the WoFo record: the world-map fog-of-war bitmap.  One bit
// per tile, row-major, LSB first within each byte.  The bitmap is
// padded to a whole number of bytes; pad bits round-trip verbatim but
// are never touched by Reveal or Hide.
type Fog struct {
	Unknown uint8
	Width   int
	Height  int
	Bitmap  []byte
}

func read_fog(c *cr) *Fog {
	f := &Fog{}
	c.tag(TAG_FOG)
	f.Unknown = c.u8()
	f.Width = c.varint()
	f.Height = c.varint()
	if c.err != nil {
		return f
	}
	n := (f.Width*f.Height + 7) / 8
	bs, err := c.r.Read_bytes(n)
	c.err = err
	// Read_bytes aliases the input buffer and Reveal/Hide write into
	// the bitmap, so take a copy.
	f.Bitmap = append([]byte{}, bs...)
	return f
}

func (f *Fog) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_FOG)
	w.Write_uint8(f.Unknown)
	w.Write_varint(f.Width)
	w.Write_varint(f.Height)
	w.Write_bytes(f.Bitmap)
}

// Revealed reports whether the tile at (x, y) is uncovered.
func (f *Fog) Revealed(x, y int) bool {
	bit := y*f.Width + x
	return f.Bitmap[bit/8]&(1<<(bit%8)) != 0
}

// Reveal uncovers the whole map.  Only the w*h tile bits are set;
// trailing pad bits stay as the game wrote them.
func (f *Fog) Reveal() {
	extent := f.Width * f.Height
	for i := 0; i < extent/8; i += 1 {
		f.Bitmap[i] = 0xFF
	}
	if rest := extent % 8; rest != 0 {
		f.Bitmap[extent/8] |= byte(1<<rest) - 1
	}
}

// Hide covers the whole map again.
func (f *Fog) Hide() {
	extent := f.Width * f.Height
	for i := 0; i < extent/8; i += 1 {
		f.Bitmap[i] = 0
	}
	if rest := extent % 8; rest != 0 {
		f.Bitmap[extent/8] &^= byte(1<<rest) - 1
	}
}

// ShopItem is one ShIt record: a single shop listing.
type ShopItem struct {
	Unknown uint8
	Name    string
	Price   uint32
	Stock   uint8
}

func read_shop_item(c *cr) *ShopItem {
	si := &ShopItem{}
	c.tag(TAG_SHOP_ITEM)
	si.Unknown = c.u8()
	si.Name = c.str()
	si.Price = c.u32()
	si.Stock = c.u8()
	return si
}

func (si *ShopItem) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_SHOP_ITEM)
	w.Write_uint8(si.Unknown)
	w.Write_string(si.Name)
	w.Write_uint32(si.Price)
	w.Write_uint8(si.Stock)
}

// Shop is one bar/store's stock.
type Shop struct {
	Unknown uint8
	Name    string
	Items   []*ShopItem
}

func read_shop(c *cr) *Shop {
	sh := &Shop{}
	c.tag(TAG_SHOP)
	sh.Unknown = c.u8()
	sh.Name = c.str()
	n := c.varint()
	for i := 0; i < n && c.err == nil; i += 1 {
		sh.Items = append(sh.Items, read_shop_item(c))
	}
	return sh
}

func (sh *Shop) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_SHOP)
	w.Write_uint8(sh.Unknown)
	w.Write_string(sh.Name)
	w.Write_varint(len(sh.Items))
	for _, si := range sh.Items {
		si.Write_to(w)
	}
}

// JobProgress is one crew member's standing in one job class.
type JobProgress struct {
	Job   string
	Level int
	Xp    uint32
}

// CrewStatus is one ChSt record: per-crew progression.
type CrewStatus struct {
	Unknown    uint8
	Name       string
	Jobs       []*JobProgress
	Reserve_xp uint32
	Missions   int
	Upgrades   int
	Bonuses    []string
}

// Job returns the progress entry for the named job, or nil.
func (st *CrewStatus) Job(job string) *JobProgress {
	for _, jp := range st.Jobs {
		if jp.Job == job {
			return jp
		}
	}
	return nil
}

func (st *CrewStatus) Has_bonus(name string) bool {
	for _, b := range st.Bonuses {
		if b == name {
			return true
		}
	}
	return false
}

func read_crew_status(c *cr) *CrewStatus {
	st := &CrewStatus{}
	c.tag(TAG_CREW_STATE)
	st.Unknown = c.u8()
	st.Name = c.str()
	n := c.varint()
	for i := 0; i < n && c.err == nil; i += 1 {
		jp := &JobProgress{}
		jp.Job = c.str()
		jp.Level = c.varint()
		jp.Xp = c.u32()
		st.Jobs = append(st.Jobs, jp)
	}
	st.Reserve_xp = c.u32()
	st.Missions = c.varint()
	st.Upgrades = c.varint()
	st.Bonuses = c.str_list()
	return st
}

func (st *CrewStatus) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_CREW_STATE)
	w.Write_uint8(st.Unknown)
	w.Write_string(st.Name)
	w.Write_varint(len(st.Jobs))
	for _, jp := range st.Jobs {
		w.Write_string(jp.Job)
		w.Write_varint(jp.Level)
		w.Write_uint32(jp.Xp)
	}
	w.Write_uint32(st.Reserve_xp)
	w.Write_varint(st.Missions)
	w.Write_varint(st.Upgrades)
	write_str_list(w, st.Bonuses)
}

// CrewController is the CCon record wrapping all crew statuses.
type CrewController struct {
	Unknown   uint8
	Statuses  []*CrewStatus
	Unknown_1 uint32
}

// Status returns the status record for the named crew member, or nil.
func (cc *CrewController) Status(name string) *CrewStatus {
	for _, st := range cc.Statuses {
		if st.Name == name {
			return st
		}
	}
	return nil
}

func read_crew_controller(c *cr) *CrewController {
	cc := &CrewController{}
	c.tag(TAG_CREW_CTRL)
	cc.Unknown = c.u8()
	n := c.varint()
	for i := 0; i < n && c.err == nil; i += 1 {
		cc.Statuses = append(cc.Statuses, read_crew_status(c))
	}
	cc.Unknown_1 = c.u32()
	return cc
}

func (cc *CrewController) Write_to(w *writers.Writer) {
	w.Write_tag(TAG_CREW_CTRL)
	w.Write_uint8(cc.Unknown)
	w.Write_varint(len(cc.Statuses))
	for _, st := range cc.Statuses {
		st.Write_to(w)
	}
	w.Write_uint32(cc.Unknown_1)
}
