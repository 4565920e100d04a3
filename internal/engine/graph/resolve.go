package graph

import (
	"path"
	"strings"

	"codescope/internal/engine/extract"
)

// Probe order when an import omits the extension. Matching the bundler
// convention, plain extensions run before index files.
var (
	jsExtensions      = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".json", ".css"}
	jsIndexExtensions = []string{".js", ".jsx", ".ts", ".tsx"}
	jsAliasBases      = []string{"", "src", "app"}
)

// Resolver maps raw import specifiers onto scanned project files. Both sides
// work in project-relative slash-separated paths; the importing file's
// extension selects the language rules.
type Resolver struct {
	files map[string]bool
}

func NewResolver(records []extract.FileRecord) *Resolver {
	files := make(map[string]bool, len(records))
	for _, record := range records {
		files[record.Path] = true
	}
	return &Resolver{files: files}
}

// Resolve returns the project-relative path the import refers to, or an
// empty string when the target is external or not part of the scan.
func (r *Resolver) Resolve(fromPath, imp string) string {
	switch path.Ext(fromPath) {
	case ".js", ".jsx", ".ts", ".tsx":
		return r.resolveJS(fromPath, imp)
	case ".py":
		return r.resolvePython(fromPath, imp)
	}
	return ""
}

func (r *Resolver) resolveJS(fromPath, imp string) string {
	var stems []string
	switch {
	case strings.HasPrefix(imp, "./"), strings.HasPrefix(imp, "../"):
		stem := path.Join(path.Dir(fromPath), imp)
		if stem == ".." || strings.HasPrefix(stem, "../") {
			return ""
		}
		stems = []string{stem}
	case strings.HasPrefix(imp, "@/"), strings.HasPrefix(imp, "~/"):
		rest := imp[2:]
		for _, base := range jsAliasBases {
			stems = append(stems, path.Join(base, rest))
		}
	default:
		// Bare specifier: a package or runtime builtin, never a local file.
		return ""
	}

	for _, stem := range stems {
		if hit := r.probeJS(stem); hit != "" {
			return hit
		}
	}
	return ""
}

// probeJS tries the stem as written, then with each candidate extension,
// then as a directory with an index file.
func (r *Resolver) probeJS(stem string) string {
	if r.files[stem] {
		return stem
	}
	for _, ext := range jsExtensions {
		if candidate := stem + ext; r.files[candidate] {
			return candidate
		}
	}
	for _, ext := range jsIndexExtensions {
		if candidate := path.Join(stem, "index"+ext); r.files[candidate] {
			return candidate
		}
	}
	return ""
}

// resolvePython handles dotted module paths. One leading dot anchors at the
// importing file's directory, each further dot walks one level up; the
// remaining segments map onto a path tried as module.py then
// package/__init__.py. Absolute dotted imports anchor at the project root.
func (r *Resolver) resolvePython(fromPath, imp string) string {
	dots := 0
	for dots < len(imp) && imp[dots] == '.' {
		dots++
	}

	base := ""
	if dots > 0 {
		base = path.Dir(fromPath)
		if base == "." {
			base = ""
		}
		for i := 1; i < dots; i++ {
			if base == "" {
				return ""
			}
			base = path.Dir(base)
			if base == "." {
				base = ""
			}
		}
	}

	rest := imp[dots:]
	if rest == "" {
		if candidate := path.Join(base, "__init__.py"); r.files[candidate] {
			return candidate
		}
		return ""
	}

	stem := path.Join(base, strings.ReplaceAll(rest, ".", "/"))
	if candidate := stem + ".py"; r.files[candidate] {
		return candidate
	}
	if candidate := path.Join(stem, "__init__.py"); r.files[candidate] {
		return candidate
	}
	return ""
}
