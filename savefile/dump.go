package savefile

import (
	"fmt"

	"heistdig/tables"
)

// Dump renders the parsed document as an indented tree of lines,
// for eyeballing a save (or diffing two of them).
func (sd *Savefile) Dump() []string {
	d := &dumper{}

	d.line("version: %d", sd.Version)
	d.line("checksum: %08x", sd.Checksum)
	d.line("strings: %s", sd.Mode)

	d.line("header:")
	d.in()
	d.line("location: %s", orf(sd.Header.Cur_location, "(none)"))
	d.line("region: %s", orf(sd.Header.Cur_region, "(none)"))
	d.line("quest: %s", orf(sd.Header.Cur_quest, "(none)"))
	d.line("crew: %d", len(sd.Header.Crew))
	d.in()
	for _, bot := range sd.Header.Crew {
		d.line("%s", tables.Crew_label(bot))
	}
	d.out()
	d.out()

	d.line("campaign:")
	d.in()
	d.line("outset: %s", orf(sd.Campaign.Cur_outset, "(none)"))
	d.line("state: %s", orf(sd.Campaign.Cur_campaign_state, "(none)"))
	d.out()

	d.line("resources:")
	d.in()
	d.line("water: %d", sd.Resources.Water)
	d.line("fragments: %d", sd.Resources.Fragments)
	d.out()

	d.line("day: %d", sd.Mission.Day)
	d.line("missions: %d", len(sd.Mission.Active))
	d.in()
	for _, m := range sd.Mission.Active {
		d.line("%s", m)
	}
	d.out()

	d.line("ship:")
	d.in()
	d.line("position: (%d, %d) heading %d", sd.Location.X, sd.Location.Y, sd.Location.Heading)
	d.line("dock: %s", orf(sd.Location.Dock, "(at sea)"))
	d.line("equipped: %d", len(sd.Ship.Equipped))
	d.in()
	for _, e := range sd.Ship.Equipped {
		d.line("%s", tables.Item_label(e))
	}
	d.out()
	d.line("upgrades: %d", len(sd.Ship.Upgrades))
	d.in()
	for _, u := range sd.Ship.Upgrades {
		if up, ok := tables.Ship_upgrades[u]; ok {
			d.line("%s", up.Label)
		} else {
			d.line("%s", u)
		}
	}
	d.out()
	d.out()

	d.line("inventory: %d items", len(sd.Inventory.Items))
	d.in()
	for _, it := range sd.Inventory.Items {
		d.line("#%d %s%s", it.Id, tables.Item_label(it.Name), flag_suffix(it.Flags))
	}
	d.out()
	d.line("hats: %d", len(sd.Inventory.Hats))

	d.line("loadouts: %d", len(sd.Loadouts))
	d.in()
	for _, lo := range sd.Loadouts {
		d.line("%s:", tables.Crew_label(lo.Name))
		d.in()
		d.line("weapon: %s", item_ref(lo.Cur_weapon, lo.Weapon))
		for i, uid := range lo.Utilities {
			d.line("utility: %s", item_ref(uid, lo.Utility_items[i]))
		}
		d.line("hat: %s", orf(lo.Cur_hat, "(none)"))
		d.out()
	}
	d.out()

	d.line("crew progression:")
	d.in()
	for _, st := range sd.Crew.Statuses {
		d.line("%s: %d missions, %d reserve xp", tables.Crew_label(st.Name), st.Missions, st.Reserve_xp)
		d.in()
		for _, jp := range st.Jobs {
			d.line("%s: level %d (%d xp)", jp.Job, jp.Level, jp.Xp)
		}
		d.out()
	}
	d.out()

	d.line("shops: %d", len(sd.Shops))
	d.in()
	for _, sh := range sd.Shops {
		d.line("%s: %d listings", sh.Name, len(sh.Items))
		d.in()
		for _, si := range sh.Items {
			d.line("%s: %d water (%d left)", tables.Item_label(si.Name), si.Price, si.Stock)
		}
		d.out()
	}
	d.out()

	if sd.Fog != nil {
		revealed := 0
		for y := 0; y < sd.Fog.Height; y += 1 {
			for x := 0; x < sd.Fog.Width; x += 1 {
				if sd.Fog.Revealed(x, y) {
					revealed += 1
				}
			}
		}
		d.line("fog: %dx%d, %d/%d revealed", sd.Fog.Width, sd.Fog.Height,
			revealed, sd.Fog.Width*sd.Fog.Height)
	}

	d.line("tail: %s", segment_summary(sd.Tail))
	if sd.Skip_tail != nil {
		d.line("skippable tail: %s", segment_summary(sd.Skip_tail))
	}

	return d.lines
}

type dumper struct {
	lines  []string
	indent int
}

func (d *dumper) in()  { d.indent += 1 }
func (d *dumper) out() { d.indent -= 1 }

func (d *dumper) line(format string, args ...any) {
	pad := ""
	for i := 0; i < d.indent; i += 1 {
		pad += "  "
	}
	d.lines = append(d.lines, pad+fmt.Sprintf(format, args...))
}

func orf(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func item_ref(id int, it *InventoryItem) string {
	if id == 0 {
		return "(empty)"
	}
	if it == nil {
		return fmt.Sprintf("#%d (missing!)", id)
	}
	return fmt.Sprintf("#%d %s", id, tables.Item_label(it.Name))
}

func flag_suffix(flags uint32) string {
	switch {
	case flags&tables.ITEM_KEYITEM != 0:
		return " [key]"
	case flags&tables.ITEM_SHIP_EQUIPMENT != 0:
		return " [ship]"
	}
	return ""
}

func segment_summary(seg *Segment) string {
	raw, strs := 0, 0
	for _, p := range seg.Pieces {
		if p.Raw != nil {
			raw += len(p.Raw)
		} else {
			strs += 1
		}
	}
	return fmt.Sprintf("%d raw bytes, %d strings", raw, strs)
}
