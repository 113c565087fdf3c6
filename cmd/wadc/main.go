package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/redmars/wadc"
	"github.com/redmars/wadc/pkg/postproc"
	"github.com/redmars/wadc/pkg/prefs"
	"github.com/redmars/wadc/pkg/preview"
	"github.com/redmars/wadc/pkg/wad"
)

var version = "dev" // set via -ldflags at build time

// ANSI color codes for terminal output
const (
	colorYellow = "\x1b[93m"
	colorGreen  = "\x1b[92m"
	colorReset  = "\x1b[0m"
)

// stderrSupportsColor checks if stderr is a terminal that supports color output
func stderrSupportsColor() bool {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return false
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// errorPrintf prints an error message to stderr, using color if supported
func errorPrintf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if stderrSupportsColor() {
		fmt.Fprintf(os.Stderr, "%s%s%s", colorYellow, message, colorReset)
	} else {
		fmt.Fprint(os.Stderr, message)
	}
}

// okPrintf reports a success line on stderr
func okPrintf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if stderrSupportsColor() {
		fmt.Fprintf(os.Stderr, "%s%s%s", colorGreen, message, colorReset)
	} else {
		fmt.Fprint(os.Stderr, message)
	}
}

// options collected from the command line
type options struct {
	debug  bool
	seed   uint64
	out    string
	watch  bool
	dump   bool
	png    string
	launch bool
	info   bool
	grid   int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts options
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug output")
	flag.BoolVar(&opts.debug, "d", false, "Enable debug output (short)")
	flag.Uint64Var(&opts.seed, "seed", 0, "Seed for the choice operator (0 = random)")
	flag.StringVar(&opts.out, "o", "", "Output WAD path")
	flag.BoolVar(&opts.watch, "watch", false, "Rebuild whenever the source or its includes change")
	flag.BoolVar(&opts.dump, "dump", false, "Print the generated map as YAML")
	flag.StringVar(&opts.png, "png", "", "Also render a PNG preview to this file")
	flag.BoolVar(&opts.launch, "launch", false, "Run the node builder and the game after writing")
	flag.BoolVar(&opts.info, "info", false, "List the lumps of an existing WAD and exit")
	flag.IntVar(&opts.grid, "grid", 0, "Snap grid (overrides the preference file)")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Usage = showUsage
	flag.Parse()

	if *versionFlag {
		fmt.Fprintf(os.Stdout, "wadc version %s\n", version)
		os.Exit(0)
	}

	p, err := prefs.Load(prefs.Path())
	if err != nil {
		errorPrintf("Warning: %v (using defaults)\n", err)
	}
	if opts.grid > 0 {
		p.Grid = opts.grid
	}

	args := flag.Args()
	if opts.info {
		if len(args) == 0 {
			showUsage()
			os.Exit(2)
		}
		os.Exit(showInfo(args[0]))
	}

	var file, src string
	if len(args) > 0 {
		file = findSourceFile(args[0])
		if file == "" {
			errorPrintf("Error: source file not found: %s\n", args[0])
			os.Exit(1)
		}
		content, err := os.ReadFile(file)
		if err != nil {
			errorPrintf("Error reading source file: %v\n", err)
			os.Exit(1)
		}
		src = string(content)
	} else if stdinInfo, _ := os.Stdin.Stat(); stdinInfo != nil && stdinInfo.Mode()&os.ModeCharDevice == 0 {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			errorPrintf("Error reading from stdin: %v\n", err)
			os.Exit(1)
		}
		src = string(content)
		file = p.Basename
	} else {
		showUsage()
		os.Exit(2)
	}

	config := wadc.DefaultConfig()
	config.Debug = opts.debug
	config.Seed = opts.seed
	config.Grid = p.Grid
	w := wadc.New(config)
	// keep stdout for -dump
	w.Logger().SetOutput(os.Stderr, os.Stderr)

	if opts.watch {
		if len(args) == 0 {
			errorPrintf("Error: -watch needs a source file\n")
			os.Exit(2)
		}
		os.Exit(watch(ctx, w, file, opts, p))
	}

	os.Exit(build(ctx, w, file, src, opts, p))
}

// build runs one compile/write cycle and returns the exit code
func build(ctx context.Context, w *wadc.WadC, file, src string, opts options, p *prefs.Prefs) int {
	sess := wadc.NewSession(w, file, src)
	res, err := sess.Run()
	if err != nil {
		return 1
	}

	if opts.dump {
		if err := dumpResult(os.Stdout, res); err != nil {
			errorPrintf("Error: %v\n", err)
			return 1
		}
	}

	out := opts.out
	if out == "" {
		out = sess.WadPath()
	}
	if err := res.WriteWad(out); err != nil {
		errorPrintf("Error writing %s: %v\n", out, err)
		return 1
	}
	okPrintf("wrote %s (%d lines, %d sectors, %d things)\n", out,
		len(res.Geometry.Lines), len(res.Geometry.Sectors), len(res.Geometry.Things))

	if opts.png != "" {
		if err := preview.WriteFile(opts.png, res, 1024, 768); err != nil {
			errorPrintf("Error writing %s: %v\n", opts.png, err)
			return 1
		}
	}

	if opts.launch {
		steps, err := postproc.New(p, w.Logger()).Launch(ctx, out)
		if err != nil {
			errorPrintf("Error: %v\n", err)
			return 1
		}
		for _, s := range steps {
			if !s.OK {
				return 3
			}
		}
	}
	return 0
}

// watch rebuilds file whenever it or one of its local includes changes
func watch(ctx context.Context, w *wadc.WadC, file string, opts options, p *prefs.Prefs) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		errorPrintf("Error: %v\n", err)
		return 1
	}
	defer watcher.Close()

	dir := filepath.Dir(file)
	if err := watcher.Add(dir); err != nil {
		errorPrintf("Error watching %s: %v\n", dir, err)
		return 1
	}

	rebuild := func() {
		content, err := os.ReadFile(file)
		if err != nil {
			errorPrintf("Error reading source file: %v\n", err)
			return
		}
		build(ctx, w, file, string(content), opts, p)
	}
	rebuild()

	// editors often write a file in several steps, wait for it to settle
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return 0
		case ev, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			ext := filepath.Ext(ev.Name)
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 && (ext == ".wl" || ext == ".h") {
				w.Logger().DebugCat(wadc.CatIO, "%s changed", ev.Name)
				pending = time.After(150 * time.Millisecond)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			errorPrintf("watch: %v\n", err)
		case <-pending:
			pending = nil
			rebuild()
		}
	}
}

// dumpDoc is the YAML shape printed by -dump
type dumpDoc struct {
	File      string            `yaml:"file"`
	Map       string            `yaml:"map"`
	Seed      uint64            `yaml:"seed"`
	Value     string            `yaml:"value"`
	Functions []string          `yaml:"functions"`
	Includes  []string          `yaml:"includes,omitempty"`
	Tags      map[string]int    `yaml:"tags,omitempty"`
	Geometry  *wadc.Geometry    `yaml:"geometry"`
	Textures  []wadc.Texture    `yaml:"textures,omitempty"`
	Globals   map[string]string `yaml:"globals,omitempty"`
}

func dumpResult(out io.Writer, res *wadc.Result) error {
	doc := dumpDoc{
		File:      res.Program.File,
		Map:       res.MapName,
		Seed:      res.Seed,
		Value:     res.Value.String(),
		Functions: res.Program.FunNames(),
		Includes:  res.Program.Includes,
		Geometry:  res.Geometry,
		Textures:  res.Textures.Textures(),
	}
	if names := res.Program.Tags.Names(); len(names) > 0 {
		doc.Tags = make(map[string]int, len(names))
		for _, name := range names {
			doc.Tags[name], _ = res.Program.Tags.Lookup(name)
		}
	}
	if len(res.Slots) > 0 {
		doc.Globals = make(map[string]string, len(res.Slots))
		for name, slot := range res.Slots {
			doc.Globals[name] = slot.Value.GoString()
		}
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}

// showInfo lists the directory of a WAD file
func showInfo(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		errorPrintf("Error: %v\n", err)
		return 1
	}
	wf, err := wad.Decode(data)
	if err != nil {
		errorPrintf("Error: %v\n", err)
		return 1
	}
	fmt.Printf("%s %s, %d lumps\n", path, wf.Kind, len(wf.Lumps))
	for i, l := range wf.Lumps {
		fmt.Printf("%4d  %-8s %8d\n", i, l.Name, len(l.Data))
	}
	return 0
}

func findSourceFile(filename string) string {
	if _, err := os.Stat(filename); err == nil {
		return filename
	}
	// If no extension, try adding .wl
	if filepath.Ext(filename) == "" {
		wlFile := filename + ".wl"
		if _, err := os.Stat(wlFile); err == nil {
			return wlFile
		}
	}
	return ""
}

func showUsage() {
	usage := `Usage: wadc [options] [file.wl]
       wadc [options] < input.wl
       wadc -info file.wad

Compile a WadC program into a PWAD.

Options:
  -d, -debug          Enable debug output
  -seed N             Seed for the choice operator (default: random)
  -o FILE             Output WAD (default: source name with .wad)
  -watch              Rebuild whenever the source or an include changes
  -dump               Print the generated map as YAML
  -png FILE           Also render a PNG preview
  -launch             Run the node builder and the game afterwards
  -grid N             Snap grid for interactive steps
  -info               List the lumps of an existing WAD
  -version            Show version

Preferences are read from ~/.wadc/wadc.toml, created on first run.

Examples:
  wadc room.wl                  # writes room.wad
  wadc -seed 42 -png room.png room.wl
  wadc -watch -launch room.wl
`
	fmt.Fprint(os.Stderr, usage)
}
