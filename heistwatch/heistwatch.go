// heistwatch follows the save directory and calls out campaign
// progress as you play.
// The save file location is read from heistdig.ini or --dir.
package main

import (
	"fmt"
	"os"

	"heistdig/utils"
	"heistdig/watch"
)

func main() {
	// Deal with args

	arg_info := []struct {
		arg     string
		subargs int
		desc    string
	}{
		{"help", 0, "Display this possibly helpful info"},
		{"check", 0, "Sanity check"},
		{"list", 0, "List save slots and their high marks"},
		{"run", 0, "Run and report progress.  Also the default."},
	}

	main_arg := ""
	subargs := []string{}
	subargs_needed := 0
	for _, arg := range utils.Strip_dir_args(os.Args[1:]) {
		if main_arg == "" {
			for _, info := range arg_info {
				if info.arg == arg {
					main_arg = arg
					subargs_needed = info.subargs
					break
				}
			}
			if main_arg == "" {
				fmt.Println("Unexpected extra argument:", arg)
				os.Exit(1)
			}
		} else if len(subargs) < subargs_needed {
			subargs = append(subargs, arg)
		} else {
			fmt.Println("Unexpected extra argument:", arg)
			os.Exit(1)
		}
	}
	if main_arg == "" {
		main_arg = "run"
	}

	if len(subargs) != subargs_needed {
		fmt.Println(fmt.Sprintf("Expected %v extra arguments; got %v:", subargs_needed, len(subargs)))
		os.Exit(1)
	}

	dir := utils.Get_savefile_dir()

	switch main_arg {
	case "help":
		for _, info := range arg_info {
			fmt.Println(info.arg, "-", info.desc)
		}

	case "check":
		fmt.Println("Target dir is: " + dir)

	case "list":
		state := watch.GetState(dir)
		slots := state.Slots()
		if len(slots) == 0 {
			fmt.Println("(no save slots seen yet)")
			os.Exit(0)
		}
		for _, slot := range slots {
			water, day := state.Best_for(slot)
			fmt.Println(fmt.Sprintf("%v: day %v, %v water", slot, day, water))
		}

	case "run":
		milestones := make(chan *watch.Milestone)
		watcher := watch.New_watcher(dir)
		go func() {
			for m := range milestones {
				fmt.Println(fmt.Sprintf("[%v] %v - %v", m.Slot, m.Name, m.Detail))
			}
		}()

		err := watcher.Start_watching(milestones)
		if err != nil {
			fmt.Println(err)
			return
		}

		fmt.Println("Watching...", dir)
		fmt.Println()

		// Wait forever!
		<-make(chan bool)
	}

	os.Exit(0)
}
