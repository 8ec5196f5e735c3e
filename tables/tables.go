package tables

// Static catalogs extracted from the game's definition files.
// These tables are in their own package because they are large.
// Pure lookup data - nothing in here parses anything.

import "sort"

// Item flag bits, as stored in the ItIn record
const (
	ITEM_WEAPON         = 1 << 0
	ITEM_UTILITY        = 1 << 1
	ITEM_SHIP_EQUIPMENT = 1 << 2
	ITEM_KEYITEM        = 1 << 3
)

type Upgrade struct {
	Name     string
	Label    string
	Keyitem  string // "" if the upgrade has no key item attached
	Category string // "main", "ability" or "guildhall"
}

var Ship_upgrades = map[string]Upgrade{
	"ship_boost_00":         {"ship_boost_00", "Propeller Booster", "ship_booster", "ability"},
	"dive_00":               {"dive_00", "Pressure Tank", "steel_plates_west_caribbea_c", "ability"},
	"dive_02":               {"dive_02", "Atomic Engine", "atomic_engine", "ability"},
	"geiger_counter_00":     {"geiger_counter_00", "Geiger Counter", "keyitem_geiger_counter", "ability"},
	"equip_00":              {"equip_00", "Sub Equipment Terminal", "", "main"},
	"gym_00":                {"gym_00", "Personal Upgrade Terminal", "", "main"},
	"guildhall_00":          {"guildhall_00", "Job Upgrade Terminal", "", "main"},
	"equip_slot_00":         {"equip_slot_00", "Equipment Slot I", "", "main"},
	"equip_slot_01":         {"equip_slot_01", "Equipment Slot II", "", "main"},
	"equip_slot_02":         {"equip_slot_02", "Equipment Slot III", "", "main"},
	"sonar":                 {"sonar", "Sonar", "", "main"},
	"bunk_bed_00":           {"bunk_bed_00", "Bunk Beds", "", "main"},
	"extra_cog_00":          {"extra_cog_00", "Extra Cog I", "", "main"},
	"extra_cog_01":          {"extra_cog_01", "Extra Cog II", "", "main"},
	"extra_utility_00":      {"extra_utility_00", "Extra Utility Slot", "", "main"},
	"exp_bonus_00":          {"exp_bonus_00", "Experience Bonus I", "", "main"},
	"money_bonus_00":        {"money_bonus_00", "Profit Margin I", "", "main"},
	"crew_health_00":        {"crew_health_00", "Crew Health I", "", "main"},
	"crew_melee_00":         {"crew_melee_00", "Crew Melee I", "", "main"},
	"crew_move_00":          {"crew_move_00", "Crew Movement I", "", "main"},
	"jobupgrade_tank_1":     {"jobupgrade_tank_1", "Tank Training I", "", "guildhall"},
	"jobupgrade_tank_2":     {"jobupgrade_tank_2", "Tank Training II", "", "guildhall"},
	"jobupgrade_boomer_1":   {"jobupgrade_boomer_1", "Boomer Training I", "", "guildhall"},
	"jobupgrade_engineer_1": {"jobupgrade_engineer_1", "Engineer Training I", "", "guildhall"},
	"jobupgrade_sniper_1":   {"jobupgrade_sniper_1", "Sniper Training I", "", "guildhall"},
	"jobupgrade_reaper_1":   {"jobupgrade_reaper_1", "Reaper Training I", "", "guildhall"},
	"jobupgrade_flanker_1":  {"jobupgrade_flanker_1", "Flanker Training I", "", "guildhall"},
	"celestial_gear_01":     {"celestial_gear_01", "Golden Gear", "keyitem_celestial_gear_01", "ability"},
	"celestial_gear_02":     {"celestial_gear_02", "Amethyst Gear", "keyitem_celestial_gear_02", "ability"},
	"celestial_gear_03":     {"celestial_gear_03", "Emerald Gear", "keyitem_celestial_gear_03", "ability"},
}

var Hats = map[string]string{
	"hat_captain":           "Captain's Hat",
	"hat_daisy":             "Flop Cap",
	"hat_wesley":            "Pickelhaube",
	"hat_cornelius":         "Fez",
	"hat_poe":               "Roguish Antenna",
	"hat_judy":              "Leather Hat",
	"hat_adventure_boy":     "Spiky Hair",
	"hat_diver":             "A Simple Valve",
	"hat_crow":              "Soft Cloth Hat",
	"hat_cyclop":            "A Simple Beanie",
	"hat_chimney":           "Sailor's Cap",
	"hat_mother":            "Krakenbane's Hat",
	"hat_piper":             "Captain Faraday's Hat",
	"hat_revolution_beret":  "Rebellious Beret",
	"hat_navy_seabot":       "Navy Soldier Cap",
	"hat_navy_seabot_elite": "Elite Soldier Cap",
	"hat_navy_commander":    "Commander Hat",
	"hat_navy_recruit":      "Recruit Hat",
	"hat_pirate_swab":       "Seashellmet",
	"hat_pirate_berserker":  "Bull Horns",
	"hat_pirate_morgan":     "Morgan's Spire",
	"hat_atomic_reviver":    "Atomic Helm",
	"hat_shop_fish":         "A Fish",
	"hat_shop_fur":          "Fur Hat",
	"hat_shop_ushanka":      "Ushanka",
	"hat_shop_santa":        "Jolly Hat",
	"hat_shop_straw":        "Straw Hat",
	"hat_shop_top":          "Top Hat",
	"hat_shop_bandana":      "Purple bandana",
}

// The six jobs, in guildhall display order
var Jobs = []string{"tank", "boomer", "engineer", "sniper", "reaper", "flanker"}

func Is_job(name string) bool {
	for _, j := range Jobs {
		if j == name {
			return true
		}
	}
	return false
}

// Crew ids as they appear in the Head crew list and the ChSt records
var Crew = map[string]string{
	"crew_leeway":    "Captain Leeway",
	"crew_daisy":     "Daisy",
	"crew_wesley":    "Wesley",
	"crew_cornelius": "Cornelius",
	"crew_poe":       "Poe",
	"crew_judy":      "Judy",
	"crew_crow":      "Crow",
	"crew_cyclop":    "Cyclops",
	"crew_chimney":   "Chimney",
}

var Weapons = map[string]string{
	"wrench":         "Rusty Wrench",
	"pistol_01":      "Service Pistol",
	"pistol_02":      "Navy Revolver",
	"smg_01":         "Rattler SMG",
	"shotgun_01":     "Scattergun",
	"shotgun_02":     "Kraken Mouth",
	"sniper_01":      "Harpoon Rifle",
	"sniper_02":      "Tide Piercer",
	"launcher_01":    "Barnacle Launcher",
	"sword_01":       "Cutlass",
	"sword_02":       "Riptide Saber",
	"handcannon_01":  "Corsair Hand Cannon",
	"gatling_01":     "Boiler Gatling",
	"flare_gun":      "Flare Gun",
	"atomic_carbine": "Atomic Carbine",
}

var Utilities = map[string]string{
	"grenade_01":     "Frag Grenade",
	"grenade_02":     "Splash Grenade",
	"medkit_01":      "Oil Can",
	"medkit_02":      "Pressurized Oiler",
	"scrap_magnet":   "Scrap Magnet",
	"smoke_bomb":     "Smoke Bomb",
	"grappling_arm":  "Grappling Arm",
	"spring_boots":   "Spring Boots",
	"decoy_puppet":   "Decoy Puppet",
	"shield_emitter": "Shield Emitter",
}

var Ship_equipment = map[string]string{
	"harpoon_turret":  "Harpoon Turret",
	"depth_charges":   "Depth Charges",
	"sonar_decoy":     "Sonar Decoy",
	"ram_plating":     "Ram Plating",
	"cargo_nets":      "Cargo Nets",
	"silent_props":    "Silent Propellers",
	"torpedo_battery": "Torpedo Battery",
}

var Key_items = map[string]string{
	"ship_booster":                 "Booster Coupling",
	"steel_plates_west_caribbea_c": "Reinforced Steel Plates",
	"atomic_engine":                "Atomic Engine",
	"keyitem_geiger_counter":       "Geiger Counter",
	"keyitem_celestial_gear_01":    "Golden Gear",
	"keyitem_celestial_gear_02":    "Amethyst Gear",
	"keyitem_celestial_gear_03":    "Emerald Gear",
}

// Item_flags figures out an item's flag bits from the catalogs.
// Returns 0 for names we have no record of.
func Item_flags(name string) uint32 {
	flags := uint32(0)
	if _, ok := Weapons[name]; ok {
		flags |= ITEM_WEAPON
	}
	if _, ok := Utilities[name]; ok {
		flags |= ITEM_UTILITY
	}
	if _, ok := Ship_equipment[name]; ok {
		flags |= ITEM_SHIP_EQUIPMENT
	}
	if _, ok := Key_items[name]; ok {
		flags |= ITEM_KEYITEM
	}
	return flags
}

// Item_label looks an item name up across all the item catalogs,
// falling back to the raw id for anything unrecognized.
func Item_label(name string) string {
	for _, m := range []map[string]string{Weapons, Utilities, Ship_equipment, Key_items, Hats} {
		if label, ok := m[name]; ok {
			return label
		}
	}
	return name
}

// Crew_label returns a crew member's display name, falling back to
// the raw id.
func Crew_label(name string) string {
	if label, ok := Crew[name]; ok {
		return label
	}
	return name
}

// Level <-> XP curve.  Xp_levels[n] is the total XP needed to reach
// level n+1, so the curve tops out at MAX_LEVEL.
var Xp_levels = []int{0, 100, 250, 450, 700, 1000, 1350, 1750, 2200, 2700}

const MAX_LEVEL = 10

// Xp_for_level returns the total XP at which a job reaches the given
// level (1-based).
func Xp_for_level(level int) (int, bool) {
	if level < 1 || level > MAX_LEVEL {
		return 0, false
	}
	return Xp_levels[level-1], true
}

func Level_for_xp(xp int) int {
	level := 1
	for l := 2; l <= MAX_LEVEL; l += 1 {
		need, _ := Xp_for_level(l)
		if xp >= need {
			level = l
		}
	}
	return level
}

// Job bonus levels: reaching these levels grants a named per-crew
// bonus, which the save stores in the ChSt record.
var Job_bonus_levels = map[int]int{3: 1, 5: 2, 7: 3, 9: 4}

// Job_bonus names the bonus granted at a level, or "" if none.
func Job_bonus(job string, level int) string {
	n, ok := Job_bonus_levels[level]
	if !ok {
		return ""
	}
	return "jobbonus_" + job + "_" + string(rune('0'+n))
}

// Sorted_keys is a display helper for the CLIs: catalog maps in a
// stable order.
func Sorted_keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
