package dupes

import (
	"sort"

	"codescope/internal/engine/extract"
)

// Group is a set of files sharing one content fingerprint.
type Group struct {
	Fingerprint string   `json:"fingerprint" yaml:"fingerprint"`
	Members     []string `json:"members" yaml:"members"`
}

// Detect buckets records by fingerprint and returns the buckets holding two
// or more files. Equality is fingerprint equality; content is not
// byte-compared. Records without a fingerprint never group. Members are
// sorted and groups ordered by their first member, so output is stable
// across runs.
func Detect(records []extract.FileRecord) []Group {
	buckets := make(map[string][]string)
	for _, record := range records {
		if record.Fingerprint == "" {
			continue
		}
		buckets[record.Fingerprint] = append(buckets[record.Fingerprint], record.Path)
	}

	groups := make([]Group, 0)
	for fingerprint, members := range buckets {
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)
		groups = append(groups, Group{Fingerprint: fingerprint, Members: members})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Members[0] < groups[j].Members[0]
	})
	return groups
}
