package wadc

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

//go:embed include
var bundledFS embed.FS

// BundledIncludes returns the read-only include library shipped with WadC
func BundledIncludes() fs.FS {
	sub, err := fs.Sub(bundledFS, "include")
	if err != nil {
		return bundledFS
	}
	return sub
}

// Includer resolves #"file" directives. A file is merged at most once per
// parse; later directives naming the same file are skipped.
type Includer struct {
	baseDir  string
	fallback fs.FS
	logger   *Logger
	seen     map[string]bool
}

// NewIncluder creates an includer resolving names relative to baseDir and
// then against the fallback library.
func NewIncluder(baseDir string, fallback fs.FS, logger *Logger) *Includer {
	return &Includer{
		baseDir:  baseDir,
		fallback: fallback,
		logger:   logger,
		seen:     make(map[string]bool),
	}
}

// Include returns the content to splice for name. ok is false when name was
// already merged in this parse. Load failures are reported and yield empty
// content.
func (inc *Includer) Include(name string) (content string, ok bool) {
	if inc.seen[name] {
		inc.logger.DebugCat(CatInclude, "skipping already included %s", name)
		return "", false
	}
	inc.seen[name] = true
	return inc.load(name), true
}

// Included lists the merged filenames
func (inc *Includer) Included() []string {
	names := make([]string, 0, len(inc.seen))
	for name := range inc.seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the on-disk location name resolves to, or "" when it would
// come from the bundled library.
func (inc *Includer) Path(name string) string {
	p := filepath.Join(inc.baseDir, name)
	if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
		return p
	}
	return ""
}

func (inc *Includer) load(name string) string {
	if p := inc.Path(name); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			inc.logger.ErrorCat(CatInclude, "couldn't load file %s", name)
			return ""
		}
		inc.logger.DebugCat(CatInclude, "included %s", p)
		return string(data)
	}
	if inc.fallback != nil {
		data, err := fs.ReadFile(inc.fallback, name)
		if err == nil {
			inc.logger.DebugCat(CatInclude, "included bundled %s", name)
			return string(data)
		}
	}
	inc.logger.ErrorCat(CatInclude, "couldn't load %s", name)
	return ""
}
