// heistdump prints the contents of a SteamWorld Heist II savefile.
// The save file location is read from heistdig.ini or --dir.
package main

import (
	"errors"
	"fmt"
	"os"

	"heistdig/savefile"
	"heistdig/types"
	"heistdig/utils"
)

func main() {
	args := utils.Strip_dir_args(os.Args[1:])

	debug := false
	filename := ""
	for _, arg := range args {
		if arg == "--debug" {
			debug = true
			continue
		}
		if filename != "" {
			fmt.Println("Unexpected extra argument:", arg)
			os.Exit(1)
		}
		filename = arg
	}
	if filename == "" {
		fmt.Println("Usage: heistdump [--dir <savedir>] <savefile> [--debug]")
		os.Exit(1)
	}

	full_filename := utils.Get_savefile_dir() + "/" + filename

	data, err := os.ReadFile(full_filename)
	if err != nil {
		fmt.Println("Failed to load file", full_filename, "-", err)
		os.Exit(1)
	}

	sd, err := savefile.Read_savefile(data)
	if errors.Is(err, types.Err_in_mission) {
		fmt.Println("This save was made mid-mission.  Finish (or abandon) the mission and save again.")
		os.Exit(1)
	}
	var ve *types.VerificationError
	if errors.As(err, &ve) {
		// A failed round trip is our bug, not the user's.  Dump the
		// reconstruction next to the original for diffing.
		fmt.Println("Failed to verify file", full_filename, "-", err)
		os.WriteFile("debug_out.sav", ve.Reconstruction, 0644)
		fmt.Println("Wrote the bad reconstruction to debug_out.sav")
		os.Exit(1)
	}
	if err != nil {
		fmt.Println("Failed to parse file", full_filename, "-", err)
		os.Exit(1)
	}

	for _, line := range sd.Dump() {
		fmt.Println(line)
	}

	if debug {
		fmt.Println()
		fmt.Println("--- raw file ---")
		for _, line := range utils.Hexdump(data, 0) {
			fmt.Println(line)
		}
	}
}
