package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DocOrder says on which side of a definition the doc comment sits.
type DocOrder int

const (
	// DocAfterDef: the doc opener follows the definition line (Python
	// docstrings).
	DocAfterDef DocOrder = iota
	// DocBeforeDef: a doc block precedes the definition line (JSDoc).
	DocBeforeDef
)

// DocStyle describes how documented functions are recognized for a rule set.
type DocStyle struct {
	Order  DocOrder
	Doc    *regexp.Regexp // line opening a doc comment
	Close  *regexp.Regexp // line closing a doc block; nil when Doc is single-line
	Def    *regexp.Regexp // definition line the doc must pair with
	Window int            // max lines searched for the counterpart
}

// RuleSet is the lexical extraction table for one language family. The
// patterns are heuristics by contract: they match token shapes, not grammar,
// and false positives/negatives are expected behavior.
type RuleSet struct {
	Name       string
	Extensions []string
	// Functions yields declared function names; for each match the first
	// non-empty capture group is taken, in match order.
	Functions *regexp.Regexp
	// Imports yields raw import targets the same way.
	Imports *regexp.Regexp
	Doc     DocStyle
	// TestSuffixes and TestPrefixes identify test files by base name.
	TestSuffixes []string
	TestPrefixes []string
}

// Lexical reports whether this rule set carries extraction patterns or only
// marks its extensions as recognized for shallow records.
func (r RuleSet) Lexical() bool {
	return r.Functions != nil || r.Imports != nil
}

var noteRe = regexp.MustCompile(`(TODO|FIXME|HACK)\s*[:\-]?\s*(.+)`)

func DefaultRuleSets() map[string]RuleSet {
	return map[string]RuleSet{
		"javascript": {
			Name:       "javascript",
			Extensions: []string{".js", ".ts", ".tsx", ".jsx"},
			Functions:  regexp.MustCompile(`function\s+(\w+)|const\s+(\w+)\s*=.*?=>|(\w+)\s*:\s*\([^)]*\)\s*=>`),
			Imports:    regexp.MustCompile(`import.*?from\s+['"]([^'"]+)['"]`),
			Doc: DocStyle{
				Order:  DocBeforeDef,
				Doc:    regexp.MustCompile(`^\s*/\*\*`),
				Close:  regexp.MustCompile(`\*/`),
				Def:    regexp.MustCompile(`function\s+\w+|const\s+\w+\s*=.*?=>|\w+\s*:\s*\([^)]*\)\s*=>`),
				Window: 3,
			},
			TestSuffixes: []string{".test.js", ".test.ts", ".test.tsx", ".test.jsx", ".spec.js", ".spec.ts", ".spec.tsx", ".spec.jsx"},
		},
		"python": {
			Name:       "python",
			Extensions: []string{".py"},
			Functions:  regexp.MustCompile(`def\s+(\w+)`),
			Imports:    regexp.MustCompile(`from\s+(\S+)\s+import|import\s+(\S+)`),
			Doc: DocStyle{
				Order:  DocAfterDef,
				Doc:    regexp.MustCompile(`^\s*(?:"""|''')`),
				Def:    regexp.MustCompile(`^\s*def\s+\w+`),
				Window: 2,
			},
			TestSuffixes: []string{"_test.py"},
			TestPrefixes: []string{"test_"},
		},
		"html": {
			Name:       "html",
			Extensions: []string{".html"},
		},
		"css": {
			Name:       "css",
			Extensions: []string{".css"},
		},
	}
}

// Registry indexes rule sets by extension. Adding a language means adding a
// rule set to the table; the registry carries no per-language control flow.
type Registry struct {
	rules map[string]RuleSet
	byExt map[string]string // extension -> rule name
}

func NewRegistry(rules map[string]RuleSet) (*Registry, error) {
	reg := &Registry{
		rules: make(map[string]RuleSet, len(rules)),
		byExt: make(map[string]string),
	}

	for _, name := range sortedRuleNames(rules) {
		rule := rules[name]
		if strings.TrimSpace(rule.Name) == "" {
			return nil, fmt.Errorf("rule set %q must carry a name", name)
		}
		if len(rule.Extensions) == 0 {
			return nil, fmt.Errorf("rule set %q must declare at least one extension", name)
		}
		for _, raw := range rule.Extensions {
			ext := strings.TrimSpace(raw)
			if ext == "" || !strings.HasPrefix(ext, ".") {
				return nil, fmt.Errorf("rule set %q has invalid extension %q", name, raw)
			}
			if owner, ok := reg.byExt[ext]; ok {
				return nil, fmt.Errorf("extension %q owned by both %q and %q", ext, owner, name)
			}
			reg.byExt[ext] = name
		}
		reg.rules[name] = rule
	}
	return reg, nil
}

// DefaultRegistry panics only on a broken built-in table, which is a
// programming error caught by tests.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(DefaultRuleSets())
	if err != nil {
		panic(err)
	}
	return reg
}

// ByExtension returns the rule set owning a dotted extension (".ts").
func (r *Registry) ByExtension(ext string) (RuleSet, bool) {
	name, ok := r.byExt[ext]
	if !ok {
		return RuleSet{}, false
	}
	return r.rules[name], true
}

// Recognized reports whether the extension belongs to any rule set.
func (r *Registry) Recognized(ext string) bool {
	_, ok := r.byExt[ext]
	return ok
}

// Lexical reports whether the extension gets full lexical extraction rather
// than a shallow record.
func (r *Registry) Lexical(ext string) bool {
	rule, ok := r.ByExtension(ext)
	return ok && rule.Lexical()
}

// LanguageOf names the rule set owning an extension, or "other".
func (r *Registry) LanguageOf(ext string) string {
	if name, ok := r.byExt[ext]; ok {
		return name
	}
	return "other"
}

// IsTestFile matches a base name against the test name conventions of every
// rule set.
func (r *Registry) IsTestFile(name string) bool {
	base := strings.ToLower(name)
	for _, ruleName := range sortedRuleNames(r.rules) {
		rule := r.rules[ruleName]
		for _, suffix := range rule.TestSuffixes {
			if strings.HasSuffix(base, suffix) {
				return true
			}
		}
		for _, prefix := range rule.TestPrefixes {
			if strings.HasPrefix(base, prefix) {
				return true
			}
		}
	}
	return false
}

// Extensions returns every recognized extension, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func sortedRuleNames(rules map[string]RuleSet) []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
