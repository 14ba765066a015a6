// Package resolve groups a flat catalog into navigable package trees and
// answers install-state questions. Everything here is pure computation over
// its inputs; no record is mutated.
package resolve

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/kitreg/kitreg/internal/domain"
)

// KitGroup is one logical package: every catalog record sharing a
// (owner, id) key, versions sorted newest first.
type KitGroup struct {
	Owner   string
	KitID   string
	Name    string
	Records []domain.CatalogRecord
}

// Versions returns the group's version strings in sorted order.
func (g KitGroup) Versions() []string {
	out := make([]string, len(g.Records))
	for i, r := range g.Records {
		out[i] = r.Manifest.Version
	}
	return out
}

// Newest returns the group's highest-ordered record. Groups produced by
// Group are never empty.
func (g KitGroup) Newest() domain.CatalogRecord {
	return g.Records[0]
}

// Select returns the record for the requested version when the group has
// it, and the newest record otherwise. An empty requested version always
// selects the newest.
func (g KitGroup) Select(requested string) domain.CatalogRecord {
	if requested != "" {
		for _, r := range g.Records {
			if r.Manifest.Version == requested {
				return r
			}
		}
	}
	return g.Newest()
}

// Group partitions records by (owner, id), falling back to the manifest
// name when id is absent. Group order follows first arrival of each key;
// within a group, records sort by version descending (newest first) with
// arrival order preserved among equal versions.
func Group(records []domain.CatalogRecord) []KitGroup {
	type key struct{ owner, id string }

	var order []key
	byKey := make(map[key]*KitGroup)
	for _, r := range records {
		owner, id := r.GroupKey()
		k := key{owner, id}
		g, ok := byKey[k]
		if !ok {
			g = &KitGroup{Owner: owner, KitID: id, Name: r.Manifest.Name}
			byKey[k] = g
			order = append(order, k)
		}
		g.Records = append(g.Records, r)
	}

	groups := make([]KitGroup, 0, len(order))
	for _, k := range order {
		g := byKey[k]
		sortVersionsDesc(g.Records)
		groups = append(groups, *g)
	}
	return groups
}

// sortVersionsDesc is a stable insertion sort by version descending. Group
// sizes are small and stability keeps arrival order among equal versions.
func sortVersionsDesc(records []domain.CatalogRecord) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && CompareVersions(records[j].Manifest.Version, records[j-1].Manifest.Version) > 0; j-- {
			records[j], records[j-1] = records[j-1], records[j]
		}
	}
}

// CompareVersions orders two version tokens. Tokens that both parse as
// semantic versions compare per semver precedence; otherwise segments of
// digits compare by magnitude and everything else lexically, so "1.10.0"
// orders above "1.9.0" either way. Returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return compareNumericAware(a, b)
}

func compareNumericAware(a, b string) int {
	as, bs := splitSegments(a), splitSegments(b)
	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		na, aNum := parseNumeric(as[i])
		nb, bNum := parseNumeric(bs[i])
		switch {
		case aNum && bNum:
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
		case aNum != bNum:
			// Numeric segments order above non-numeric ones.
			if aNum {
				return 1
			}
			return -1
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func splitSegments(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-' || r == '+'
	})
}

func parseNumeric(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// IsInstalled reports whether some installed kit matches owner and kitID.
// When version is non-empty the exact version string must match too;
// omitting it checks identity only.
func IsInstalled(installed []domain.InstalledKit, owner, kitID, version string) bool {
	for _, k := range installed {
		if k.Owner != owner || k.KitID != kitID {
			continue
		}
		if version == "" || k.Version == version {
			return true
		}
	}
	return false
}
