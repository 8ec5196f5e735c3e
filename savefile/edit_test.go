package savefile

import (
	"errors"
	"testing"

	"heistdig/tables"
	"heistdig/types"
)

func test_save(t *testing.T, with_fog bool) *Savefile {
	t.Helper()
	return parse_ok(t, test_doc(types.SM_COMPRESSED, with_fog).Encode())
}

// reparse proves an edited document still encodes to a valid save.
func reparse(t *testing.T, sd *Savefile) *Savefile {
	t.Helper()
	return parse_ok(t, sd.Encode())
}

func mutation_error(t *testing.T, err error, what string) {
	t.Helper()
	var me *types.MutationError
	if !errors.As(err, &me) {
		t.Errorf("%s: wanted MutationError, got %v", what, err)
	}
}

func Test_add_item(t *testing.T) {
	sd := test_save(t, false)

	it, err := sd.Add_item("sword_01")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if it.Id != 4 {
		t.Errorf("new item got id %v, wanted 4", it.Id)
	}
	if it.Flags != tables.ITEM_WEAPON {
		t.Errorf("new item got flags %v", it.Flags)
	}
	if !sd.Has_item("sword_01") || sd.Item_by_id(4) != it {
		t.Errorf("new item is not findable")
	}

	_, err = sd.Add_item("excalibur")
	mutation_error(t, err, "unknown item")

	sd2 := reparse(t, sd)
	if !sd2.Has_item("sword_01") {
		t.Errorf("new item did not survive the round trip")
	}
}

func Test_remove_item_clears_loadouts(t *testing.T) {
	sd := test_save(t, false)

	// Item 1 is crew_leeway's weapon, item 2 a utility
	if err := sd.Remove_item(1); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := sd.Remove_item(2); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	lo := sd.Loadouts[0]
	if lo.Cur_weapon != 0 || lo.Weapon != nil {
		t.Errorf("weapon slot not cleared: %v %v", lo.Cur_weapon, lo.Weapon)
	}
	if len(lo.Utilities) != 0 || len(lo.Utility_items) != 0 {
		t.Errorf("utility slot not cleared: %v", lo.Utilities)
	}

	mutation_error(t, sd.Remove_item(1), "double remove")

	reparse(t, sd)
}

func Test_item_ids_stay_monotonic(t *testing.T) {
	sd := test_save(t, false)

	// Removing the highest item must not let its id be reused
	if err := sd.Remove_item(3); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	it, err := sd.Add_item("medkit_01")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if it.Id != 4 {
		t.Errorf("id %v was reused, wanted 4", it.Id)
	}
}

func Test_unlock_upgrade(t *testing.T) {
	sd := test_save(t, false)

	if err := sd.Unlock_upgrade("dive_00"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	found := false
	for _, u := range sd.Ship.Upgrades {
		if u == "dive_00" {
			found = true
		}
	}
	if !found {
		t.Errorf("upgrade not granted")
	}
	// dive_00 comes with a key item
	if !sd.Has_item("steel_plates_west_caribbea_c") {
		t.Errorf("key item not granted")
	}

	// Unlocking again changes nothing
	n := len(sd.Ship.Upgrades)
	if err := sd.Unlock_upgrade("dive_00"); err != nil || len(sd.Ship.Upgrades) != n {
		t.Errorf("re-unlock was not a no-op")
	}

	mutation_error(t, sd.Unlock_upgrade("warp_drive"), "unknown upgrade")

	reparse(t, sd)
}

func Test_equip_ship(t *testing.T) {
	sd := test_save(t, false)

	if err := sd.Equip_ship("depth_charges"); err != nil {
		t.Fatalf("equip failed: %v", err)
	}
	if !sd.Has_item("depth_charges") {
		t.Errorf("backing item not added")
	}
	if sd.Ship.Equipped[len(sd.Ship.Equipped)-1] != "depth_charges" {
		t.Errorf("not equipped: %v", sd.Ship.Equipped)
	}

	mutation_error(t, sd.Equip_ship("pistol_01"), "weapon as ship equipment")
}

func Test_unlock_crew(t *testing.T) {
	sd := test_save(t, false)

	if err := sd.Unlock_crew("crew_poe"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if len(sd.Header.Crew) != 3 {
		t.Errorf("roster: %v", sd.Header.Crew)
	}
	if sd.Crew_status("crew_poe") == nil {
		t.Errorf("no progression record created")
	}
	if len(sd.Loadouts) != 3 || sd.Loadouts[2].Name != "crew_poe" {
		t.Errorf("no loadout created")
	}

	// Again is a no-op
	if err := sd.Unlock_crew("crew_poe"); err != nil || len(sd.Header.Crew) != 3 {
		t.Errorf("re-unlock was not a no-op")
	}

	mutation_error(t, sd.Unlock_crew("crew_jones"), "unknown crew")

	sd2 := reparse(t, sd)
	if sd2.Crew_status("crew_poe") == nil {
		t.Errorf("new crew did not survive the round trip")
	}
}

func Test_job_level_up(t *testing.T) {
	sd := test_save(t, false)

	// crew_leeway starts at flanker 2
	if err := sd.Job_level_to("crew_leeway", "flanker", 5, false); err != nil {
		t.Fatalf("level up failed: %v", err)
	}

	st := sd.Crew_status("crew_leeway")
	jp := st.Job("flanker")
	if jp.Level != 5 {
		t.Errorf("level: %v", jp.Level)
	}
	if jp.Xp != 700 {
		t.Errorf("xp not raised to the threshold: %v", jp.Xp)
	}
	// Bonuses for levels 3 and 5 come along
	if !st.Has_bonus("jobbonus_flanker_1") || !st.Has_bonus("jobbonus_flanker_2") {
		t.Errorf("bonuses: %v", st.Bonuses)
	}

	reparse(t, sd)
}

func Test_job_level_down(t *testing.T) {
	sd := test_save(t, false)
	if err := sd.Job_level_to("crew_leeway", "flanker", 5, false); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	st := sd.Crew_status("crew_leeway")

	// Without allow_down, going down is a silent no-op
	if err := sd.Job_level_to("crew_leeway", "flanker", 3, false); err != nil {
		t.Errorf("refused down-level errored: %v", err)
	}
	if st.Job("flanker").Level != 5 {
		t.Errorf("level changed without allow_down")
	}

	// With it, the level drops and out-of-reach bonuses go away
	if err := sd.Job_level_to("crew_leeway", "flanker", 3, true); err != nil {
		t.Fatalf("down-level failed: %v", err)
	}
	jp := st.Job("flanker")
	if jp.Level != 3 || jp.Xp != 250 {
		t.Errorf("level %v xp %v, wanted 3/250", jp.Level, jp.Xp)
	}
	if !st.Has_bonus("jobbonus_flanker_1") || st.Has_bonus("jobbonus_flanker_2") {
		t.Errorf("bonuses after down-level: %v", st.Bonuses)
	}
}

func Test_job_level_validation(t *testing.T) {
	sd := test_save(t, false)
	mutation_error(t, sd.Job_level_to("crew_jones", "flanker", 3, false), "unknown crew")
	mutation_error(t, sd.Job_level_to("crew_leeway", "pilot", 3, false), "unknown job")
	mutation_error(t, sd.Job_level_to("crew_leeway", "flanker", 0, false), "level too low")
	mutation_error(t, sd.Job_level_to("crew_leeway", "flanker", 11, false), "level too high")
}

func Test_job_starts_fresh_job(t *testing.T) {
	sd := test_save(t, false)

	// crew_daisy has no tank progress; levelling creates it
	if err := sd.Job_level_to("crew_daisy", "tank", 3, false); err != nil {
		t.Fatalf("level up failed: %v", err)
	}
	jp := sd.Crew_status("crew_daisy").Job("tank")
	if jp == nil || jp.Level != 3 || jp.Xp != 250 {
		t.Errorf("fresh job: %+v", jp)
	}
}

func Test_set_job_xp(t *testing.T) {
	sd := test_save(t, false)
	st := sd.Crew_status("crew_leeway")

	// Decreasing is unrepresentable
	mutation_error(t, sd.Set_job_xp("crew_leeway", "flanker", 50), "xp decrease")

	// Crossing a threshold levels up and grants the bonus
	if err := sd.Set_job_xp("crew_leeway", "flanker", 300); err != nil {
		t.Fatalf("set xp failed: %v", err)
	}
	jp := st.Job("flanker")
	if jp.Xp != 300 || jp.Level != 3 {
		t.Errorf("xp %v level %v, wanted 300/3", jp.Xp, jp.Level)
	}
	if !st.Has_bonus("jobbonus_flanker_1") {
		t.Errorf("bonus not granted: %v", st.Bonuses)
	}
}

func Test_set_reserve_xp(t *testing.T) {
	sd := test_save(t, false)

	if err := sd.Set_reserve_xp("crew_leeway", 500); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	mutation_error(t, sd.Set_reserve_xp("crew_leeway", 400), "reserve decrease")
	if sd.Crew_status("crew_leeway").Reserve_xp != 500 {
		t.Errorf("reserve xp: %v", sd.Crew_status("crew_leeway").Reserve_xp)
	}
}

func Test_fog_reveal_hide(t *testing.T) {
	sd := test_save(t, true)

	if err := sd.Reveal_fog(); err != nil {
		t.Fatalf("reveal failed: %v", err)
	}
	for _, b := range sd.Fog.Bitmap {
		if b != 0xFF {
			t.Fatalf("bitmap after reveal: % x", sd.Fog.Bitmap)
		}
	}
	sd2 := reparse(t, sd)
	if !sd2.Fog.Revealed(0, 0) || !sd2.Fog.Revealed(7, 3) {
		t.Errorf("reveal did not survive the round trip")
	}

	if err := sd.Hide_fog(); err != nil {
		t.Fatalf("hide failed: %v", err)
	}
	for _, b := range sd.Fog.Bitmap {
		if b != 0 {
			t.Fatalf("bitmap after hide: % x", sd.Fog.Bitmap)
		}
	}

	// No fog record at all
	bare := test_save(t, false)
	mutation_error(t, bare.Reveal_fog(), "fogless reveal")
	mutation_error(t, bare.Hide_fog(), "fogless hide")
}

func Test_fog_partial_byte(t *testing.T) {
	// 5x5 = 25 bits: three full bytes and one bit into the fourth.
	// The 7 pad bits must never change.
	f := &Fog{Width: 5, Height: 5, Bitmap: []byte{0, 0, 0, 0xF0}}

	f.Reveal()
	want := []byte{0xFF, 0xFF, 0xFF, 0xF1}
	for i := range want {
		if f.Bitmap[i] != want[i] {
			t.Fatalf("after reveal: % x, wanted % x", f.Bitmap, want)
		}
	}

	f.Hide()
	want = []byte{0, 0, 0, 0xF0}
	for i := range want {
		if f.Bitmap[i] != want[i] {
			t.Fatalf("after hide: % x, wanted % x", f.Bitmap, want)
		}
	}
}

func Test_dump(t *testing.T) {
	sd := test_save(t, true)
	lines := sd.Dump()
	if len(lines) == 0 {
		t.Fatalf("empty dump")
	}

	found := false
	for _, l := range lines {
		if l == "  water: 100" {
			found = true
		}
	}
	if !found {
		t.Errorf("dump is missing the water line:\n%v", lines)
	}
}
