package utils

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// Get_savefile_dir finds the directory the game writes saves into.
// A "--dir" pair at the front of the command line wins, then the
// "dir" key of heistdig.ini, then the working directory.
func Get_savefile_dir() string {
	// dir from command line
	if len(os.Args) > 2 && os.Args[1] == "--dir" {
		return os.Args[2]
	}

	// dir from ini file
	cfg, err := ini.Load("heistdig.ini")
	if err == nil {
		// Classic read of values, default section can be represented as empty string
		dir := cfg.Section("").Key("dir").String()
		if dir != "" {
			return dir
		}
	}

	wd, _ := os.Getwd()
	return wd
}

// Strip_dir_args removes a leading "--dir <d>" pair, so the callers
// can treat the rest of the command line uniformly.
func Strip_dir_args(args []string) []string {
	if len(args) > 1 && args[0] == "--dir" {
		return args[2:]
	}
	return args
}

// Backup_name is the name a savefile is renamed to before an edited
// copy is written in its place.  "savegame_0.dat" becomes
// "savegame_0.old"; a filename without the .dat extension just gets
// ".old" stuck on the end.
func Backup_name(filename string) string {
	if strings.HasSuffix(filename, ".dat") {
		return strings.TrimSuffix(filename, "dat") + "old"
	}
	return filename + ".old"
}

// Hexdump formats data as classic 16-bytes-per-row hex + printable
// ascii, with offsets starting at base.
func Hexdump(data []byte, base int) []string {
	out := []string{}
	for at := 0; at < len(data); at += 16 {
		row := data[at:]
		if len(row) > 16 {
			row = row[:16]
		}

		hex := ""
		ascii := ""
		for i, b := range row {
			hex += fmt.Sprintf("%02x ", b)
			if i == 7 {
				hex += " "
			}
			if b >= 0x20 && b < 0x7F {
				ascii += string(rune(b))
			} else {
				ascii += "."
			}
		}
		out = append(out, fmt.Sprintf("%08x  %-49s %s", base+at, hex, ascii))
	}
	return out
}

// Columnise packs short strings into columns fitting in width
// characters, for listing catalogs without scrolling forever.
func Columnise(items []string, width int) []string {
	if len(items) == 0 {
		return nil
	}

	widest := 0
	for _, it := range items {
		if len(it) > widest {
			widest = len(it)
		}
	}
	per_row := width / (widest + 2)
	if per_row < 1 {
		per_row = 1
	}

	out := []string{}
	for at := 0; at < len(items); at += per_row {
		row := items[at:]
		if len(row) > per_row {
			row = row[:per_row]
		}
		padded := []string{}
		for _, it := range row {
			padded = append(padded, fmt.Sprintf("%-*s", widest, it))
		}
		out = append(out, strings.TrimRight(strings.Join(padded, "  "), " "))
	}
	return out
}
