package main

// Graphical viewer for the world-map fog of war in a savefile.
// One rectangle per map tile; R reveals the whole map, H hides it,
// S writes the save back (keeping the original as .old).
// The save file location is read from heistdig.ini or --dir.

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"unicode"

	"gopkg.in/ini.v1"

	"golang.org/x/image/font/basicfont"

	"github.com/gopxl/pixel/v2"
	"github.com/gopxl/pixel/v2/backends/opengl"
	"github.com/gopxl/pixel/v2/ext/text"

	"heistdig/savefile"
	"heistdig/types"
	"heistdig/utils"
)

func solid_rect_sprite(rect pixel.Rect, colour color.RGBA) *pixel.Sprite {
	pd := pixel.MakePictureData(rect)
	for i := range pd.Pix {
		pd.Pix[i] = colour
	}
	return pixel.NewSprite(pd, pd.Bounds())
}

// color_from_string converts an ini file colour string (e.g. "R255g128b0") into a color.RGBA
// the alpha part of RGBA just gets set to 0xff (full opacity) if omitted
// (r, g, and b get set to 0 if omitted, which means "g42" or even an empty string is technically a valid color string, but please don't do that)
func color_from_string(str string) (color.RGBA, error) {
	out := color.RGBA{0, 0, 0, 0xFF}

	name := rune(0)
	numstr := ""
	for _, r := range str + "!" { // +"!" is an evil way to make sure the final colour index gets processed.
		if unicode.IsDigit(r) {
			numstr += string(r)
		} else {
			if name != 0 {
				number, _ := strconv.Atoi(numstr)
				if number > 255 {
					number = 255
				}
				switch name {
				case 'r', 'R':
					out.R = uint8(number)
				case 'g', 'G':
					out.G = uint8(number)
				case 'b', 'B':
					out.B = uint8(number)
				case 'a', 'A':
					out.A = uint8(number)
				default:
					return out, errors.New("Unexpected colour index (not 'r', 'b' or 'g'): " + string(name))
				}
				numstr = ""
			}
			name = r
		}
	}
	return out, nil
}

var g_filename string
var g_savedata *savefile.Savefile

func main() {
	args := utils.Strip_dir_args(os.Args[1:])
	if len(args) < 1 {
		fmt.Println("Usage: fogview [--dir <savedir>] <savefile>")
		os.Exit(1)
	}
	g_filename = utils.Get_savefile_dir() + "/" + args[0]

	data, err := os.ReadFile(g_filename)
	if err != nil {
		fmt.Println("Failed to load file", g_filename, "-", err)
		os.Exit(1)
	}
	g_savedata, err = savefile.Read_savefile(data)
	if errors.Is(err, types.Err_in_mission) {
		fmt.Println("This save was made mid-mission.  Finish (or abandon) the mission and save again.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Println("Failed to parse file", g_filename, "-", err)
		os.Exit(1)
	}
	if g_savedata.Fog == nil {
		fmt.Println("This save has no fog-of-war data (nothing explored yet?)")
		os.Exit(1)
	}

	// OpenGL must have the main thread
	opengl.Run(run)
}

func save_back(sd *savefile.Savefile, filename string) error {
	newname := utils.Backup_name(filename)
	err := os.Rename(filename, newname)
	if err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return sd.Write(f)
}

func run() {
	const LINE_HEIGHT = 13 // because hard-coded basicfont.Face7x13.

	sd := g_savedata
	fog := sd.Fog

	// Constants from config file.  These are reasonable default values.
	cfg := map[string]float64{
		"W": 640, "H": 480,
		"X_BORDER": 10, "Y_BORDER": 10,
	}
	colour := map[string]color.RGBA{
		"BACKGROUND": color.RGBA{0, 0, 0, 0xFF},
		"REVEALED":   color.RGBA{0x20, 0x90, 0xC0, 0xFF},
		"HIDDEN":     color.RGBA{0x30, 0x30, 0x30, 0xFF},
		"TEXT":       color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
	}
	ini_data, err := ini.Load("heistdig.ini")
	if err == nil {
		sec := ini_data.Section("ui")
		for k := range cfg {
			if sec.HasKey(k) {
				f, err := sec.Key(k).Float64()
				if err == nil {
					cfg[k] = f
				}
			}
		}

		for k := range colour {
			if sec.HasKey(k + "_COLOUR") {
				col, err := color_from_string(sec.Key(k + "_COLOUR").String())
				if err != nil {
					fmt.Println(err)
				} else {
					colour[k] = col
				}
			}
		}
	}

	wcfg := opengl.WindowConfig{
		Title:  "Heist II fog of war - " + g_filename,
		Bounds: pixel.R(0, 0, cfg["W"], cfg["H"]),
		VSync:  true,
	}
	win, err := opengl.NewWindow(wcfg)
	if err != nil {
		panic(err)
	}
	defer win.Destroy()

	// Biggest square tile that fits the whole map above the text line
	grid_w := cfg["W"] - 2*cfg["X_BORDER"]
	grid_h := cfg["H"] - 2*cfg["Y_BORDER"] - 2*LINE_HEIGHT
	ts := grid_w / float64(fog.Width)
	if h := grid_h / float64(fog.Height); h < ts {
		ts = h
	}
	if ts < 1 {
		ts = 1
	}

	tile := pixel.R(0, 0, ts-1, ts-1)
	revealed_sprite := solid_rect_sprite(tile, colour["REVEALED"])
	hidden_sprite := solid_rect_sprite(tile, colour["HIDDEN"])

	atlas := text.NewAtlas(basicfont.Face7x13, text.ASCII)
	status := ""

	for !win.Closed() {
		if win.JustPressed(pixel.KeyR) {
			sd.Reveal_fog()
			status = "revealed"
		}
		if win.JustPressed(pixel.KeyH) {
			sd.Hide_fog()
			status = "hidden"
		}
		if win.JustPressed(pixel.KeyS) {
			err := save_back(sd, g_filename)
			if err != nil {
				status = "save failed: " + err.Error()
			} else {
				status = "saved (original kept as .old)"
			}
		}

		win.Clear(colour["BACKGROUND"])

		// Row 0 of the bitmap is the top of the map
		top := cfg["H"] - cfg["Y_BORDER"] - ts/2
		for y := 0; y < fog.Height; y += 1 {
			for x := 0; x < fog.Width; x += 1 {
				sprite := hidden_sprite
				if fog.Revealed(x, y) {
					sprite = revealed_sprite
				}
				at := pixel.V(cfg["X_BORDER"]+float64(x)*ts+ts/2, top-float64(y)*ts)
				sprite.Draw(win, pixel.IM.Moved(at))
			}
		}

		line := text.New(pixel.V(cfg["X_BORDER"], cfg["Y_BORDER"]+LINE_HEIGHT), atlas)
		line.Color = colour["TEXT"]
		fmt.Fprintf(line, "%dx%d tiles, day %d.  R: reveal all  H: hide all  S: save\n", fog.Width, fog.Height, sd.Mission.Day)
		if status != "" {
			fmt.Fprintln(line, status)
		}
		line.Draw(win, pixel.IM)

		win.Update()
	}
}
