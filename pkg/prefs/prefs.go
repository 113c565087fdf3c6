// Package prefs persists the small preference record shared by the WadC
// command line tool and editor: the last edited file and the external
// node builder and game used to try out a map.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the preference file inside Dir()
const FileName = "wadc.toml"

// Prefs is the persisted preference record
type Prefs struct {
	Basename string `toml:"basename"`

	// BspCmd is the node builder run on a freshly written WAD
	BspCmd string `toml:"bspcmd"`

	DoomExe  string `toml:"doomexe"`
	DoomArgs string `toml:"doomargs"`
	// TWad1-3 are extra resource WADs loaded before the map
	TWad1 string `toml:"twad1"`
	TWad2 string `toml:"twad2"`
	TWad3 string `toml:"twad3"`

	Grid int `toml:"grid"`
}

// Default returns the preferences used before anything was saved
func Default() *Prefs {
	return &Prefs{
		Basename: "untitled.wl",
		BspCmd:   "bsp",
		DoomExe:  "doom",
		DoomArgs: "-warp 1",
		Grid:     8,
	}
}

// Dir returns ~/.wadc, or "" when there is no home directory
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".wadc")
}

// Path returns the default preference file location
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, FileName)
}

// Load reads path, creating it with defaults when it does not exist.
// Fields missing from the file keep their defaults.
func Load(path string) (*Prefs, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, Save(path, p)
	}
	if _, err := toml.DecodeFile(path, p); err != nil {
		return Default(), fmt.Errorf("reading %s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path, creating the directory if needed
func Save(path string, p *Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Fprintln(f, "# WadC preferences")
	fmt.Fprintln(f, "# This file is automatically created on first run")
	fmt.Fprintln(f)
	return toml.NewEncoder(f).Encode(p)
}

// Args splits DoomArgs on whitespace
func (p *Prefs) Args() []string {
	return strings.Fields(p.DoomArgs)
}

// ResourceWads returns the non-empty TWad entries in order
func (p *Prefs) ResourceWads() []string {
	var out []string
	for _, w := range []string{p.TWad1, p.TWad2, p.TWad3} {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
