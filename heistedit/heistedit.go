// heistedit is a command-driven savefile editor.
//
// There is no interactive mode; instead the workflow is
//
//	heistedit load savegame_0.dat
//	heistedit set water 9999
//	heistedit set crew poe
//	heistedit save
//
// Between commands the loaded save lives in a stash file as encoded
// savefile bytes, so anything sitting in the stash is by construction
// a valid save.
// The save file location is read from heistdig.ini or --dir.
package main

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"heistdig/savefile"
	"heistdig/tables"
	"heistdig/types"
	"heistdig/utils"
)

// Evil global variables
var g_stash_filename = "heistedit.tmp"

// smash smashes "funny characters" (which includes anything that's remotely tricky to type into a command line) in a string into the '_' character
func smash(in string) string {
	out := ""
	for _, c := range in {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			out += string(c)
		} else {
			out += "_"
		}
	}
	return out
}

// string matching functions, in strictly increasing order of desperation
var fuzzy = []func(input string, candidate string) bool{
	func(i string, c string) bool { return i == c },
	func(i string, c string) bool { return strings.ToUpper(i) == strings.ToUpper(c) },
	func(i string, c string) bool { return smash(strings.ToUpper(i)) == smash(strings.ToUpper(c)) },
	func(i string, c string) bool {
		return strings.HasPrefix(smash(strings.ToUpper(c)), smash(strings.ToUpper(i)))
	},
	func(i string, c string) bool {
		return strings.Contains(smash(strings.ToUpper(c)), smash(strings.ToUpper(i)))
	},
}

// fuzzy_lookup matches user input against a catalog where keys are
// the game's internal ids and values are display labels.  Both sides
// are fair game as match targets, so "sniper_02" and "Tide Piercer"
// both work (as do lazy prefixes of either).
func fuzzy_lookup(catalog map[string]string, to string, what string) (string, string, error) {
	for _, match := range fuzzy {
		matches := []string{}
		names := []string{}
		for k, v := range catalog {
			if match(to, k) || match(to, v) {
				matches = append(matches, k)
				names = append(names, v)
			}
		}
		if len(matches) == 0 {
			continue
		}
		if len(matches) > 1 {
			return "", "", errors.New(fmt.Sprint("Ambiguous argument: ", to, " could be anything from {", strings.Join(names, ", "), "}"))
		}
		return matches[0], names[0], nil
	}

	return "", "", errors.New(to + " could not be matched to a valid value for " + what)
}

func parse_uint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}

// Everything gettable and settable, in one table.  set is nil for
// read-only entries.
type ettable struct {
	desc string
	get  func(sd *savefile.Savefile) string
	set  func(sd *savefile.Savefile, args []string) (string, error)
}

var ettables = map[string]*ettable{
	"water": &ettable{
		"water (the money)",
		func(sd *savefile.Savefile) string { return fmt.Sprint(sd.Resources.Water) },
		func(sd *savefile.Savefile, args []string) (string, error) {
			n, err := parse_uint32(args[0])
			if err != nil {
				return "", err
			}
			sd.Set_water(n)
			return args[0], nil
		},
	},
	"fragments": &ettable{
		"upgrade fragments",
		func(sd *savefile.Savefile) string { return fmt.Sprint(sd.Resources.Fragments) },
		func(sd *savefile.Savefile, args []string) (string, error) {
			n, err := parse_uint32(args[0])
			if err != nil {
				return "", err
			}
			sd.Set_fragments(n)
			return args[0], nil
		},
	},
	"day": &ettable{
		"campaign day counter",
		func(sd *savefile.Savefile) string { return fmt.Sprint(sd.Mission.Day) },
		func(sd *savefile.Savefile, args []string) (string, error) {
			n, err := parse_uint32(args[0])
			if err != nil {
				return "", err
			}
			sd.Set_day(n)
			return args[0], nil
		},
	},
	"fog": &ettable{
		"world map fog of war (\"revealed\" or \"hidden\")",
		func(sd *savefile.Savefile) string {
			if sd.Fog == nil {
				return "Nonexistent"
			}
			revealed := 0
			for y := 0; y < sd.Fog.Height; y += 1 {
				for x := 0; x < sd.Fog.Width; x += 1 {
					if sd.Fog.Revealed(x, y) {
						revealed += 1
					}
				}
			}
			return fmt.Sprintf("%v/%v tiles revealed", revealed, sd.Fog.Width*sd.Fog.Height)
		},
		func(sd *savefile.Savefile, args []string) (string, error) {
			switch args[0] {
			case "revealed":
				return "revealed", sd.Reveal_fog()
			case "hidden":
				return "hidden", sd.Hide_fog()
			}
			return "", errors.New("fog can only be set to \"revealed\" or \"hidden\"")
		},
	},
	"crew": &ettable{
		"crew roster (set unlocks a member)",
		func(sd *savefile.Savefile) string {
			out := []string{}
			for _, bot := range sd.Header.Crew {
				out = append(out, tables.Crew_label(bot))
			}
			return strings.Join(out, "\n")
		},
		func(sd *savefile.Savefile, args []string) (string, error) {
			id, name, err := fuzzy_lookup(tables.Crew, args[0], "crew")
			if err != nil {
				return "", err
			}
			return name, sd.Unlock_crew(id)
		},
	},
	"upgrade": &ettable{
		"sub upgrades (set unlocks one)",
		func(sd *savefile.Savefile) string {
			out := []string{}
			for _, u := range sd.Ship.Upgrades {
				if up, ok := tables.Ship_upgrades[u]; ok {
					out = append(out, up.Label)
				} else {
					out = append(out, u)
				}
			}
			return strings.Join(out, "\n")
		},
		func(sd *savefile.Savefile, args []string) (string, error) {
			labels := map[string]string{}
			for k, v := range tables.Ship_upgrades {
				labels[k] = v.Label
			}
			id, name, err := fuzzy_lookup(labels, args[0], "upgrade")
			if err != nil {
				return "", err
			}
			return name, sd.Unlock_upgrade(id)
		},
	},
	"equipment": &ettable{
		"sub equipment (set equips one, adding the item if needed)",
		func(sd *savefile.Savefile) string {
			return strings.Join(sd.Ship.Equipped, "\n")
		},
		func(sd *savefile.Savefile, args []string) (string, error) {
			id, name, err := fuzzy_lookup(tables.Ship_equipment, args[0], "equipment")
			if err != nil {
				return "", err
			}
			return name, sd.Equip_ship(id)
		},
	},
	"item": &ettable{
		"inventory (set adds an item)",
		func(sd *savefile.Savefile) string {
			out := []string{}
			for _, it := range sd.Inventory.Items {
				out = append(out, fmt.Sprintf("#%v %v", it.Id, tables.Item_label(it.Name)))
			}
			return strings.Join(out, "\n")
		},
		func(sd *savefile.Savefile, args []string) (string, error) {
			all := map[string]string{}
			for _, m := range []map[string]string{tables.Weapons, tables.Utilities, tables.Ship_equipment, tables.Key_items} {
				for k, v := range m {
					all[k] = v
				}
			}
			id, name, err := fuzzy_lookup(all, args[0], "item")
			if err != nil {
				return "", err
			}
			_, err = sd.Add_item(id)
			return name, err
		},
	},
	"level": &ettable{
		"job levels: set level (crew) (job) (level)",
		func(sd *savefile.Savefile) string {
			out := []string{}
			for _, st := range sd.Crew.Statuses {
				for _, jp := range st.Jobs {
					out = append(out, fmt.Sprintf("%v %v: level %v (%v xp)",
						tables.Crew_label(st.Name), jp.Job, jp.Level, jp.Xp))
				}
			}
			return strings.Join(out, "\n")
		},
		func(sd *savefile.Savefile, args []string) (string, error) {
			if len(args) < 3 {
				return "", errors.New("Usage: set level (crew) (job) (level)")
			}
			crew, crew_name, err := fuzzy_lookup(tables.Crew, args[0], "crew")
			if err != nil {
				return "", err
			}
			job := ""
			for _, j := range tables.Jobs {
				if strings.EqualFold(args[1], j) {
					job = j
				}
			}
			if job == "" {
				return "", errors.New(args[1] + " is not a job.  Jobs are: " + strings.Join(tables.Jobs, ", "))
			}
			level, err := strconv.Atoi(args[2])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%v %v %v", crew_name, job, level), sd.Job_level_to(crew, job, level, false)
		},
	},
}

func list_ettables() string {
	ret := ""
	for _, k := range tables.Sorted_keys(ettables) {
		ret = ret + k + "\n"
	}
	return ret
}

func main() {
	err := main2()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main2() error {

	args := utils.Strip_dir_args(os.Args[1:])

	arg := "help"
	if len(args) < 1 {
		fmt.Println("No args detected - falling back to \"help\", since you clearly need it...")
	} else {
		arg = args[0]
	}

	switch arg {
	case "help":
		help_text := []string{
			"SteamWorld Heist II Save File Editor",
			"",
			"Commands:",
			"help: display this text",
			"load (filename): load a file from the save directory",
			"dump: list all available info",
			"get (what): display current status of something",
			"set (what) (to): set status of something",
			"save: save the file back (the old file is kept as .old)",
			"",
			"Things that can be set-ted or get-ted are:",
		}
		for _, k := range tables.Sorted_keys(ettables) {
			help_text = append(help_text, "   "+k+" - "+ettables[k].desc)
		}
		help_text = append(help_text, []string{
			"",
			"Notes:",
			"   It is usually not necessary to type the full name of something;",
			"e.g. \"set crew corn\" will be recognized as Cornelius.",
			"   Saves made mid-mission cannot be edited.  Finish the mission first.",
		}...)

		for _, ht := range help_text {
			fmt.Println(ht)
		}

	case "load":
		if len(args) < 2 {
			return errors.New("Load what?  Filename expected.")
		}

		full_filename := utils.Get_savefile_dir() + "/" + args[1]
		sd, err := load(full_filename)
		if err != nil {
			return err
		}

		fmt.Println("Loaded", full_filename)
		return stash(full_filename, sd)

	case "save":
		filename, sd, err := retrieve()
		if err != nil {
			return err
		}

		// Back up the old file
		// Since this is a "powerful" (i.e. capable of completely trashing savefiles) tool,
		// that's probably a good idea
		newname := utils.Backup_name(filename)
		err = os.Rename(filename, newname)
		if err != nil {
			return err
		}
		fmt.Println(filename, "renamed to", newname)

		f, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer f.Close()
		writer := bufio.NewWriter(f)
		err = sd.Write(writer)
		if err != nil {
			return err
		}
		writer.Flush()
		f.Sync()
		fmt.Println("New file written to", filename)

		err = os.Remove(g_stash_filename)
		if err != nil {
			return err
		}
		fmt.Println("Temporary data cleaned up")

	case "get":
		if len(args) < 2 {
			return errors.New("Get what?  Gettables are:\n" + list_ettables())
		}
		what := args[1]

		g, ok := ettables[what]
		if !ok {
			return errors.New(what + " is not gettable.  Gettables are:\n" + list_ettables())
		}

		_, sd, err := retrieve()
		if err != nil {
			return err
		}
		fmt.Println(g.get(sd))

	case "set":
		if len(args) < 2 {
			return errors.New("Set what?  Settables are:\n" + list_ettables())
		}
		what := args[1]

		g, ok := ettables[what]
		if !ok || g.set == nil {
			return errors.New(what + " is not settable.  Settables are:\n" + list_ettables())
		}
		if len(args) < 3 {
			return errors.New("Set " + what + " to what?")
		}

		filename, sd, err := retrieve()
		if err != nil {
			return err
		}

		to_matched, err := g.set(sd, args[2:])
		if err != nil {
			return err
		}

		fmt.Println(what, "set to", to_matched)
		return stash(filename, sd)

	case "dump":
		_, sd, err := retrieve()
		if err != nil {
			return err
		}
		for _, line := range sd.Dump() {
			fmt.Println(line)
		}

	default:
		return errors.New("Unrecognized command: " + arg)
	}

	return nil
}

func load(full_filename string) (*savefile.Savefile, error) {
	bytes, err := os.ReadFile(full_filename)
	if err != nil {
		return nil, err
	}
	sd, err := savefile.Read_savefile(bytes)
	if errors.Is(err, types.Err_in_mission) {
		return nil, errors.New("this save was made mid-mission; finish (or abandon) the mission and save again")
	}
	return sd, err
}

// The stash holds encoded savefile bytes rather than the parsed
// document, so retrieving goes through the full parse-and-verify
// path.  A stash that doesn't round-trip can't exist.
func stash(filename string, sd *savefile.Savefile) error {
	f, err := os.Create(g_stash_filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	encoder := gob.NewEncoder(w)
	err = encoder.Encode(filename)
	if err != nil {
		return err
	}
	err = encoder.Encode(sd.Encode())
	if err != nil {
		return err
	}
	w.Flush()
	f.Sync()

	return nil
}

func retrieve() (string, *savefile.Savefile, error) {
	f, err := os.Open(g_stash_filename)
	if err != nil {
		return "", nil, errors.New("No file loaded (use \"load\" first): " + err.Error())
	}
	defer f.Close()

	decoder := gob.NewDecoder(bufio.NewReader(f))
	var filename string
	var data []byte
	err = decoder.Decode(&filename)
	if err != nil {
		return "", nil, err
	}
	err = decoder.Decode(&data)
	if err != nil {
		return "", nil, err
	}

	sd, err := savefile.Read_savefile(data)
	if err != nil {
		return "", nil, err
	}
	return filename, sd, nil
}
