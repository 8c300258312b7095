package region

import (
	"sort"
	"strings"
)

// TagInfo describes a tag understood by the server that consumes DFN files.
type TagInfo struct {
	Key         string
	Description string
}

var tagDescriptions = map[string]string{
	"ABWEATH":         "Assign a weather system from weather.dfn",
	"APPEARANCE":      "Region appearance (0=Spring, 1=Summer, etc)",
	"BUYABLE":         "Advanced Trade System buyable value",
	"CHANCEFORBIGORE": "Chance from 0 to 100 to get 5 ores instead of 1",
	"DISABLED":        "If 1, disables the region entirely",
	"DUNGEON":         "If 1, darkens lighting for players",
	"ESCORTS":         "If 1, enables region as Escort Quest target",
	"GATE":            "If 1, enables gate travel in and out",
	"GOOD":            "Advanced Trade System good ID",
	"GUARDED":         "If 1, region is protected by guards",
	"GUARDLIST":       "Guard spawn list ID from npclists.dfn",
	"GUARDOWNER":      "Name of the guards protecting this region",
	"INSTANCEID":      "Instance ID this region belongs to",
	"MAGICDAMAGE":     "If 1, allows hostile magic in region",
	"MARK":            "If 1, allows rune marking in region",
	"MUSICLIST":       "Music list section for region background music",
	"NAME":            "Region name (used in [REGION])",
	"OREPREF":         "Ore type and chance for region mining",
	"RACE":            "ID of race owning this region",
	"RANDOMVALUE":     "Advanced Trade System random value",
	"RECALL":          "If 1, enables Recall spell",
	"SAFEZONE":        "If 1, disallows all hostile actions",
	"SCRIPT":          "JS script assigned to region",
	"SELLABLE":        "Advanced Trade System sellable values",
	"SPAWN":           "Predefined spawn ID from spawn DFNs",
	"TELEPORT":        "If 1, enables Teleport spell (default is 1)",
	"WORLD":           "World number this region is in",
}

// KnownTags returns the tag catalogue sorted by key.
func KnownTags() []TagInfo {
	tags := make([]TagInfo, 0, len(tagDescriptions))
	for k, d := range tagDescriptions {
		tags = append(tags, TagInfo{Key: k, Description: d})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Key < tags[j].Key })
	return tags
}

// DescribeTag returns the catalogue description for key.
// The second result is false for custom tags.
func DescribeTag(key string) (string, bool) {
	d, ok := tagDescriptions[strings.ToUpper(key)]
	return d, ok
}

// EditableTags lists every catalogue tag followed by the region's custom
// tags, each with its current value (empty when unset).
func EditableTags(r *Region) []TagEdit {
	var out []TagEdit
	for _, t := range KnownTags() {
		v, _ := r.Tag(t.Key)
		out = append(out, TagEdit{Key: t.Key, Value: v, Description: t.Description})
	}
	var custom []string
	for k := range r.Tags {
		if _, ok := tagDescriptions[strings.ToUpper(k)]; !ok {
			custom = append(custom, k)
		}
	}
	sort.Strings(custom)
	for _, k := range custom {
		out = append(out, TagEdit{Key: k, Value: r.Tags[k], Description: "(Custom Tag)"})
	}
	return out
}

// TagEdit is one row of a tag editor.
type TagEdit struct {
	Key         string
	Value       string
	Description string
}

// ApplyTagEdits writes edited values back to the region.
// Non-blank values are trimmed and stored under the uppercased key;
// blank values remove the tag.
func ApplyTagEdits(r *Region, edits map[string]string) {
	for k, v := range edits {
		v = strings.TrimSpace(v)
		if v == "" {
			r.DeleteTag(k)
			continue
		}
		r.SetTag(k, v)
	}
}
