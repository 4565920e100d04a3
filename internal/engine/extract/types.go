package extract

// FileRecord is the per-file result of a scan: identity, raw size, and the
// lexical signals pulled out of the content. Records are created once during
// a scan and never mutated afterward. Field names on the wire match the
// analysis API.
type FileRecord struct {
	Path        string   `json:"path" yaml:"path"`
	Name        string   `json:"name" yaml:"name"`
	Extension   string   `json:"type" yaml:"type"`
	SizeBytes   int64    `json:"size" yaml:"size"`
	LineCount   int      `json:"lines_of_code" yaml:"lines_of_code"`
	Functions   []string `json:"functions" yaml:"functions"`
	Imports     []string `json:"imports" yaml:"imports"`
	Fingerprint string   `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Notes       []Note   `json:"todos,omitempty" yaml:"todos,omitempty"`

	// DocumentedFunctions counts functions carrying a doc comment. It feeds
	// the documentation-coverage ratio and is best-effort like every other
	// lexical signal.
	DocumentedFunctions int `json:"documented_functions,omitempty" yaml:"documented_functions,omitempty"`
}

// Note is an open marker comment (TODO and friends) found in a file.
type Note struct {
	Kind string `json:"type" yaml:"type"`
	Text string `json:"content" yaml:"content"`
	Line int    `json:"line" yaml:"line"`
}

const (
	NoteTODO  = "TODO"
	NoteFIXME = "FIXME"
	NoteHACK  = "HACK"
)
