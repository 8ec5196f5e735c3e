// Package watch follows the game's save directory and reports
// campaign progress as it happens: new crew, new sub upgrades, day
// changes, water high marks.  It never writes to a savefile.
package watch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"heistdig/savefile"
	"heistdig/tables"
	"heistdig/types"
)

// Milestone is one noteworthy change in one save slot.
type Milestone struct {
	Slot     string
	Name     string
	Detail   string
	Category string
}

type best_type struct {
	Water     uint32
	Fragments uint32
	Day       uint32
}

type state_type struct {
	Crew     map[string]map[string]bool // per slot, roster seen so far
	Upgrades map[string]map[string]bool // per slot, sub upgrades seen so far
	Best     map[string]*best_type      // per slot, high marks
}

const state_filename = "heistwatch.json"

// The game names its slots savegame_0.dat, savegame_1.dat, ...
func is_savefile(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, "savegame_") && strings.HasSuffix(base, ".dat")
}

type Watcher interface {
	Start_watching(out chan<- *Milestone) error
	Stop_watching()
}

func New_watcher(dir string) Watcher {
	return &dir_watcher{dir: dir}
}

type dir_watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	state   state_type
}

func (dw *dir_watcher) Start_watching(out chan<- *Milestone) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dw.watcher = watcher
	dw.load_state()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) && is_savefile(event.Name) {
					dw.handle_file(event.Name, out)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Println(err)
			}
		}
	}()

	err = dw.watcher.Add(dw.dir)
	if err != nil {
		dw.watcher.Close()
	}

	return err
}

func (dw *dir_watcher) Stop_watching() {
	dw.watcher.Close()
}

func (dw *dir_watcher) save_state() {
	state_file := filepath.Join(dw.dir, state_filename)
	b, _ := json.Marshal(dw.state)
	os.WriteFile(state_file, b, 0644)
}

func (dw *dir_watcher) load_state() {
	state_file := filepath.Join(dw.dir, state_filename)
	bytes, _ := os.ReadFile(state_file)
	json.Unmarshal(bytes, &dw.state)
}

// GetState reads the persisted progress state without watching.
func GetState(dir string) *state_type {
	state := state_type{}
	state_file := filepath.Join(dir, state_filename)
	bytes, _ := os.ReadFile(state_file)
	json.Unmarshal(bytes, &state)
	return &state
}

// Slots lists the save slots the state has seen, sorted.
func (st *state_type) Slots() []string {
	return tables.Sorted_keys(st.Best)
}

func (st *state_type) Best_for(slot string) (uint32, uint32) {
	if b := st.Best[slot]; b != nil {
		return b.Water, b.Day
	}
	return 0, 0
}

func (dw *dir_watcher) handle_file(filename string, out chan<- *Milestone) {
	// Wait for the game itself to finish with the file
	time.Sleep(2 * time.Second)

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println("Failed to load file", filename, "-", err)
		return
	}
	sd, err := savefile.Read_savefile(data)
	if errors.Is(err, types.Err_in_mission) {
		// The game saves mid-mission too; those settle down once
		// the mission ends, so stay quiet about them.
		return
	}
	if err != nil {
		fmt.Println("Failed to parse file", filename, "-", err)
		return
	}

	slot := filepath.Base(filename)
	if dw.state.Crew == nil {
		dw.state.Crew = map[string]map[string]bool{}
	}
	if dw.state.Upgrades == nil {
		dw.state.Upgrades = map[string]map[string]bool{}
	}
	if dw.state.Best == nil {
		dw.state.Best = map[string]*best_type{}
	}
	if dw.state.Crew[slot] == nil {
		dw.state.Crew[slot] = map[string]bool{}
	}
	if dw.state.Upgrades[slot] == nil {
		dw.state.Upgrades[slot] = map[string]bool{}
	}
	first_sighting := dw.state.Best[slot] == nil
	if first_sighting {
		dw.state.Best[slot] = &best_type{}
	}

	for _, bot := range sd.Header.Crew {
		if !dw.state.Crew[slot][bot] {
			dw.state.Crew[slot][bot] = true
			if !first_sighting {
				out <- &Milestone{slot, tables.Crew_label(bot), "joined the crew", "crew"}
			}
		}
	}

	for _, u := range sd.Ship.Upgrades {
		if !dw.state.Upgrades[slot][u] {
			dw.state.Upgrades[slot][u] = true
			if !first_sighting {
				label := u
				if up, ok := tables.Ship_upgrades[u]; ok {
					label = up.Label
				}
				out <- &Milestone{slot, label, "installed on the sub", "upgrade"}
			}
		}
	}

	best := dw.state.Best[slot]
	if sd.Mission.Day > best.Day {
		if !first_sighting {
			out <- &Milestone{slot, fmt.Sprintf("Day %d", sd.Mission.Day), "a new day dawns", "campaign"}
		}
		best.Day = sd.Mission.Day
	}
	if sd.Resources.Water > best.Water {
		if !first_sighting {
			out <- &Milestone{slot, fmt.Sprintf("%d water", sd.Resources.Water), "new wealth record", "campaign"}
		}
		best.Water = sd.Resources.Water
	}
	if sd.Resources.Fragments > best.Fragments {
		if !first_sighting {
			out <- &Milestone{slot, fmt.Sprintf("%d fragments", sd.Resources.Fragments), "new fragment record", "campaign"}
		}
		best.Fragments = sd.Resources.Fragments
	}

	dw.save_state()
}
