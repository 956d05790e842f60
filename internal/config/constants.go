package config

// SourceFileExt is the extension for morphism source files (SPEC_FULL.md §6).
const SourceFileExt = ".astn"

// Project sub-directory names (SPEC_FULL.md §6).
const (
	SrcDir       = "src"
	HashesDir    = "hashes"
	HintsDir     = "hints"
	AnalyticsDir = "analytics"
	IndexDir     = ".morphc"
)

// Per-aspect / per-unit file extensions.
const (
	HashesFileExt    = ".hsh"
	HintsFileExt     = ".hnt"
	AnalyticsFileExt = ".altc"
)

// IndexFileName is the supplementary query index database (SPEC_FULL.md §2.2, §6).
const IndexFileName = "index.db"

// ConfigFileNames are the accepted project configuration file names, checked
// in order, mirroring the teacher's own funxy.yaml / funxy.yml fallback.
var ConfigFileNames = []string{"morphc.yaml", "morphc.yml"}

// TrimSourceExt removes the source extension from name, if present.
func TrimSourceExt(name string) string {
	if len(name) >= len(SourceFileExt) && name[len(name)-len(SourceFileExt):] == SourceFileExt {
		return name[:len(name)-len(SourceFileExt)]
	}
	return name
}

// HasSourceExt reports whether path ends in the source file extension.
func HasSourceExt(path string) bool {
	return len(path) >= len(SourceFileExt) && path[len(path)-len(SourceFileExt):] == SourceFileExt
}
