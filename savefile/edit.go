package savefile

// The editing surface.  Everything here stays inside what the format
// can express: ids monotonic, XP never decreasing, upgrade key items
// kept in sync.  Anything else gets a MutationError instead of a
// savefile the game will reject.

import (
	"heistdig/readers"
	"heistdig/tables"
	"heistdig/types"
	"heistdig/writers"
)

// Set_water sets the water (money) counter.
func (sd *Savefile) Set_water(n uint32) {
	sd.Resources.Water = n
}

// Set_fragments sets the fragment counter.
func (sd *Savefile) Set_fragments(n uint32) {
	sd.Resources.Fragments = n
}

// Set_day sets the campaign day counter.
func (sd *Savefile) Set_day(n uint32) {
	sd.Mission.Day = n
}

// Reveal_fog uncovers the whole world map.
func (sd *Savefile) Reveal_fog() error {
	if sd.Fog == nil {
		return types.Mutation_errorf("reveal_fog", "save has no fog-of-war data")
	}
	sd.Fog.Reveal()
	return nil
}

// Hide_fog covers the whole world map again.
func (sd *Savefile) Hide_fog() error {
	if sd.Fog == nil {
		return types.Mutation_errorf("hide_fog", "save has no fog-of-war data")
	}
	sd.Fog.Hide()
	return nil
}

// New records aren't assembled by hand: they are written through a
// throwaway cursor and read back through the normal record readers,
// so construction can never drift from the parse rules.

func synth_item(id int, name string, flags uint32) (*InventoryItem, error) {
	w := writers.New(types.SM_EXPANDED)
	(&InventoryItem{Id: id, Flags: flags, Name: name}).Write_to(w)
	c := &cr{r: readers.New(w.Bytes())}
	it := read_inventory_item(c)
	return it, c.err
}

func synth_status(name string) (*CrewStatus, error) {
	w := writers.New(types.SM_EXPANDED)
	(&CrewStatus{Name: name}).Write_to(w)
	c := &cr{r: readers.New(w.Bytes())}
	st := read_crew_status(c)
	return st, c.err
}

func synth_loadout(name string) (*Loadout, error) {
	w := writers.New(types.SM_EXPANDED)
	(&Loadout{Name: name}).Write_to(w)
	c := &cr{r: readers.New(w.Bytes())}
	lo := read_loadout(c)
	return lo, c.err
}

// Add_item adds one of the named item to the inventory and returns
// it.  The name must be in one of the item catalogs; duplicates are
// allowed (the game stacks multiples of most gear).
func (sd *Savefile) Add_item(name string) (*InventoryItem, error) {
	flags := tables.Item_flags(name)
	if flags == 0 {
		return nil, types.Mutation_errorf("add_item", "unknown item %q", name)
	}
	it, err := synth_item(sd.next_id, name, flags)
	if err != nil {
		return nil, err
	}
	sd.next_id += 1
	sd.Inventory.Items = append(sd.Inventory.Items, it)
	sd.items_by_id[it.Id] = it
	return it, nil
}

// Remove_item removes the item with the given id.  Any loadout slot
// holding it is cleared, so no dangling reference survives.
func (sd *Savefile) Remove_item(id int) error {
	at := -1
	for i, it := range sd.Inventory.Items {
		if it.Id == id {
			at = i
			break
		}
	}
	if at < 0 {
		return types.Mutation_errorf("remove_item", "no item with id %d", id)
	}
	sd.Inventory.Items = append(sd.Inventory.Items[:at], sd.Inventory.Items[at+1:]...)
	delete(sd.items_by_id, id)

	for _, lo := range sd.Loadouts {
		if lo.Cur_weapon == id {
			lo.Cur_weapon = 0
		}
		kept := lo.Utilities[:0]
		for _, uid := range lo.Utilities {
			if uid != id {
				kept = append(kept, uid)
			}
		}
		lo.Utilities = kept
	}
	sd.resolve_loadouts()
	return nil
}

// Unlock_upgrade grants a sub upgrade.  Upgrades that come with a key
// item (engine rooms, the celestial gears) get the item added too if
// it's missing, because the game checks for both.  Already-owned
// upgrades are a no-op.
func (sd *Savefile) Unlock_upgrade(name string) error {
	up, ok := tables.Ship_upgrades[name]
	if !ok {
		return types.Mutation_errorf("unlock_upgrade", "unknown upgrade %q", name)
	}
	for _, have := range sd.Ship.Upgrades {
		if have == name {
			return nil
		}
	}
	sd.Ship.Upgrades = append(sd.Ship.Upgrades, name)
	if up.Keyitem != "" && !sd.Has_item(up.Keyitem) {
		if _, err := sd.Add_item(up.Keyitem); err != nil {
			return err
		}
	}
	return nil
}

// Equip_ship equips a piece of sub equipment, adding the backing
// inventory item if the save doesn't own one yet.
func (sd *Savefile) Equip_ship(name string) error {
	if _, ok := tables.Ship_equipment[name]; !ok {
		return types.Mutation_errorf("equip_ship", "unknown ship equipment %q", name)
	}
	if !sd.Has_item(name) {
		if _, err := sd.Add_item(name); err != nil {
			return err
		}
	}
	for _, have := range sd.Ship.Equipped {
		if have == name {
			return nil
		}
	}
	sd.Ship.Equipped = append(sd.Ship.Equipped, name)
	return nil
}

// Unlock_crew adds a crew member to the roster, with an empty
// progression record and a bare loadout.  Already-unlocked crew are a
// no-op.
func (sd *Savefile) Unlock_crew(name string) error {
	if _, ok := tables.Crew[name]; !ok {
		return types.Mutation_errorf("unlock_crew", "unknown crew member %q", name)
	}
	for _, have := range sd.Header.Crew {
		if have == name {
			return nil
		}
	}

	st, err := synth_status(name)
	if err != nil {
		return err
	}
	lo, err := synth_loadout(name)
	if err != nil {
		return err
	}
	sd.Header.Crew = append(sd.Header.Crew, name)
	sd.Crew.Statuses = append(sd.Crew.Statuses, st)
	sd.Loadouts = append(sd.Loadouts, lo)
	return nil
}

// Job_level_to sets a crew member's level in a job.  Levelling up
// raises XP to the level threshold if needed and grants the job's
// bonus perks along the way.  Levelling down is refused unless
// allow_down is set (the game copes, but it loses progress), and
// revokes the perks above the new level.
func (sd *Savefile) Job_level_to(crew, job string, level int, allow_down bool) error {
	st := sd.Crew_status(crew)
	if st == nil {
		return types.Mutation_errorf("job_level", "no crew member %q", crew)
	}
	if !tables.Is_job(job) {
		return types.Mutation_errorf("job_level", "unknown job %q", job)
	}
	if level < 1 || level > tables.MAX_LEVEL {
		return types.Mutation_errorf("job_level", "level %d out of range 1..%d", level, tables.MAX_LEVEL)
	}

	jp := st.Job(job)
	if jp == nil {
		jp = &JobProgress{Job: job, Level: 1}
		st.Jobs = append(st.Jobs, jp)
	}
	cur := jp.Level

	// Levelling down is a no-op unless explicitly asked for
	if level <= cur && !allow_down {
		return nil
	}
	if level == cur {
		return nil
	}

	threshold, _ := tables.Xp_for_level(level)
	jp.Level = level

	if level > cur {
		if jp.Xp < uint32(threshold) {
			jp.Xp = uint32(threshold)
		}
		for l := cur + 1; l <= level; l += 1 {
			if b := tables.Job_bonus(job, l); b != "" && !st.Has_bonus(b) {
				st.Bonuses = append(st.Bonuses, b)
			}
		}
		return nil
	}

	jp.Xp = uint32(threshold)
	for l := level + 1; l <= tables.MAX_LEVEL; l += 1 {
		b := tables.Job_bonus(job, l)
		if b == "" {
			continue
		}
		kept := st.Bonuses[:0]
		for _, have := range st.Bonuses {
			if have != b {
				kept = append(kept, have)
			}
		}
		st.Bonuses = kept
	}
	return nil
}

// Set_job_xp sets a crew member's XP in a job they already have.  XP
// only ever goes up; the format has nowhere to record un-earning it.
// Crossing a level threshold levels the job up too.
func (sd *Savefile) Set_job_xp(crew, job string, xp uint32) error {
	st := sd.Crew_status(crew)
	if st == nil {
		return types.Mutation_errorf("job_xp", "no crew member %q", crew)
	}
	jp := st.Job(job)
	if jp == nil {
		return types.Mutation_errorf("job_xp", "%s has no %s progress", crew, job)
	}
	if xp < jp.Xp {
		return types.Mutation_errorf("job_xp", "xp can only increase (%d < %d)", xp, jp.Xp)
	}
	jp.Xp = xp
	if lvl := tables.Level_for_xp(int(xp)); lvl > jp.Level {
		return sd.Job_level_to(crew, job, lvl, false)
	}
	return nil
}

// Set_reserve_xp sets a crew member's banked reserve XP.  Like job
// XP, it only goes up.
func (sd *Savefile) Set_reserve_xp(crew string, xp uint32) error {
	st := sd.Crew_status(crew)
	if st == nil {
		return types.Mutation_errorf("reserve_xp", "no crew member %q", crew)
	}
	if xp < st.Reserve_xp {
		return types.Mutation_errorf("reserve_xp", "xp can only increase (%d < %d)", xp, st.Reserve_xp)
	}
	st.Reserve_xp = xp
	return nil
}
