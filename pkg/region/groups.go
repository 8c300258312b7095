package region

import (
	"fmt"
	"strings"
)

// Group is a predefined region filter.
type Group string

const (
	GroupAll      Group = "All Regions"
	GroupTowns    Group = "Towns"
	GroupDungeons Group = "Dungeons"
)

// Groups returns the selectable groups in display order.
func Groups() []Group {
	return []Group{GroupAll, GroupTowns, GroupDungeons}
}

// ParseGroup accepts a group by display name or short name ("all", "towns", "dungeons").
func ParseGroup(s string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "all regions":
		return GroupAll, nil
	case "towns", "town":
		return GroupTowns, nil
	case "dungeons", "dungeon":
		return GroupDungeons, nil
	}
	return GroupAll, fmt.Errorf("unknown group: %s", s)
}

// Matches reports whether the region belongs to the group.
func (g Group) Matches(r *Region) bool {
	switch g {
	case GroupTowns:
		v, ok := r.Tag("GUARDED")
		return ok && v == "1"
	case GroupDungeons:
		v, ok := r.Tag("DUNGEON")
		return ok && v == "1"
	}
	return true
}

// FilterGroup returns the regions belonging to the group, in list order.
func FilterGroup(regions []*Region, g Group) []*Region {
	var out []*Region
	for _, r := range regions {
		if g.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// DisplayName is the label shown in region lists: "[n] name", 1-based.
func DisplayName(i int, r *Region) string {
	return fmt.Sprintf("[%d] %s", i+1, r.Name)
}

// Entry pairs a region with its index in the full list.
type Entry struct {
	Index  int
	Region *Region
}

// List returns the entries matching the group whose display name contains
// filter (case-insensitive). An empty filter matches everything.
func List(regions []*Region, g Group, filter string) []Entry {
	filter = strings.ToLower(strings.TrimSpace(filter))
	var out []Entry
	for i, r := range regions {
		if !g.Matches(r) {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(DisplayName(i, r)), filter) {
			continue
		}
		out = append(out, Entry{Index: i, Region: r})
	}
	return out
}

// Search is List over all groups.
func Search(regions []*Region, text string) []Entry {
	return List(regions, GroupAll, text)
}

// HiddenNames returns the names of all hidden regions.
func HiddenNames(regions []*Region) []string {
	var names []string
	for _, r := range regions {
		if !r.Visible {
			names = append(names, r.Name)
		}
	}
	return names
}

// ApplyHidden sets visibility from a list of hidden names.
// Regions are matched by name, so same-named regions share visibility.
func ApplyHidden(regions []*Region, hidden []string) {
	set := make(map[string]bool, len(hidden))
	for _, n := range hidden {
		set[n] = true
	}
	for _, r := range regions {
		r.Visible = !set[r.Name]
	}
}

// ToggleAll shows every region if any is hidden, otherwise hides them all.
// It returns the new visibility.
func ToggleAll(regions []*Region) bool {
	anyHidden := false
	for _, r := range regions {
		if !r.Visible {
			anyHidden = true
			break
		}
	}
	for _, r := range regions {
		r.Visible = anyHidden
	}
	return anyHidden
}
