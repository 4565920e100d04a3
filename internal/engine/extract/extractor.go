package extract

import (
	"bytes"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

const binarySniffLen = 8192

// Extractor turns file content into a FileRecord using the registry's rule
// tables. It is pure and file-local; safe for concurrent use.
type Extractor struct {
	registry *Registry
}

func NewExtractor(registry *Registry) *Extractor {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Extractor{registry: registry}
}

func (e *Extractor) Registry() *Registry {
	return e.registry
}

// Extract builds the record for one file. Content may be nil for size-only
// records. When lexical is false only size and line count are produced,
// regardless of the rule table.
//
// Extraction is a lexical pattern match, not a parse: names and import
// targets are best-effort signals and may include false positives or miss
// unconventional declarations.
func (e *Extractor) Extract(relPath string, size int64, content []byte, lexical bool) FileRecord {
	name := path.Base(relPath)
	record := FileRecord{
		Path:      relPath,
		Name:      name,
		Extension: extensionOf(name),
		SizeBytes: size,
		Functions: []string{},
		Imports:   []string{},
	}

	rule, ok := e.registry.ByExtension(path.Ext(name))
	if !ok || !rule.Lexical() {
		return record
	}

	if isBinary(content) {
		slog.Debug("content is not text, keeping size-only record", "path", relPath)
		return record
	}

	text := string(content)
	record.LineCount = strings.Count(text, "\n") + 1

	if !lexical {
		return record
	}

	record.Functions = captures(rule.Functions, text)
	record.Imports = captures(rule.Imports, text)

	lines := strings.Split(text, "\n")
	record.Notes = scanNotes(lines)
	record.DocumentedFunctions = countDocumented(lines, rule.Doc)
	return record
}

// extensionOf mirrors suffix semantics where a leading-dot name like
// ".bashrc" has no extension.
func extensionOf(name string) string {
	ext := path.Ext(name)
	if ext == "" || ext == name {
		return "unknown"
	}
	return strings.TrimPrefix(ext, ".")
}

func isBinary(content []byte) bool {
	sniff := content
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return true
	}
	return !utf8.Valid(content)
}

// captures collects the first non-empty capture group of every match, in
// match order.
func captures(re *regexp.Regexp, text string) []string {
	out := []string{}
	if re == nil {
		return out
	}
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		for _, group := range match[1:] {
			if group != "" {
				out = append(out, group)
				break
			}
		}
	}
	return out
}

func scanNotes(lines []string) []Note {
	var notes []Note
	for i, line := range lines {
		match := noteRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		text := strings.TrimSpace(match[2])
		text = strings.TrimSpace(strings.TrimSuffix(text, "*/"))
		if text == "" {
			continue
		}
		notes = append(notes, Note{Kind: match[1], Text: text, Line: i + 1})
	}
	return notes
}

func countDocumented(lines []string, style DocStyle) int {
	if style.Doc == nil || style.Def == nil {
		return 0
	}

	count := 0
	switch style.Order {
	case DocAfterDef:
		for i, line := range lines {
			if !style.Def.MatchString(line) {
				continue
			}
			for j := i + 1; j < len(lines) && j <= i+style.Window; j++ {
				if strings.TrimSpace(lines[j]) == "" {
					continue
				}
				if style.Doc.MatchString(lines[j]) {
					count++
				}
				break
			}
		}
	case DocBeforeDef:
		for i := 0; i < len(lines); i++ {
			if !style.Doc.MatchString(lines[i]) {
				continue
			}
			end := i
			if style.Close != nil {
				for end < len(lines) && !style.Close.MatchString(lines[end]) {
					end++
				}
			}
			for j := end + 1; j < len(lines) && j <= end+style.Window; j++ {
				if strings.TrimSpace(lines[j]) == "" {
					continue
				}
				if style.Def.MatchString(lines[j]) {
					count++
				}
				break
			}
			i = end
		}
	}
	return count
}
