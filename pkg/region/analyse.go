package region

import (
	"fmt"
	"strings"
)

// Warning describes a soft problem in a region set.
type Warning struct {
	Type    string // "empty", "out_of_map", "degenerate", "duplicate_name", "equals_in_value"
	Message string
	Regions []int // indices into the analysed list
}

// Analyse checks a region set for problems that do not prevent saving.
func Analyse(regions []*Region) []Warning {
	var warnings []Warning

	var empty []int
	for i, r := range regions {
		if len(r.Bounds) == 0 {
			empty = append(empty, i)
		}
	}
	if len(empty) > 0 {
		warnings = append(warnings, Warning{
			Type:    "empty",
			Message: fmt.Sprintf("%d region(s) have no bounds and will not be saved", len(empty)),
			Regions: empty,
		})
	}

	var outside, degenerate []int
	for i, r := range regions {
		out, flat := false, false
		for _, b := range r.Bounds {
			if b.Left < 0 || b.Top < 0 || b.Right > MapWidth || b.Bottom > MapHeight {
				out = true
			}
			if b.Width() == 0 || b.Height() == 0 {
				flat = true
			}
		}
		if out {
			outside = append(outside, i)
		}
		if flat {
			degenerate = append(degenerate, i)
		}
	}
	if len(outside) > 0 {
		warnings = append(warnings, Warning{
			Type:    "out_of_map",
			Message: fmt.Sprintf("%d region(s) extend outside the %dx%d map", len(outside), MapWidth, MapHeight),
			Regions: outside,
		})
	}
	if len(degenerate) > 0 {
		warnings = append(warnings, Warning{
			Type:    "degenerate",
			Message: fmt.Sprintf("%d region(s) contain a rectangle with no area", len(degenerate)),
			Regions: degenerate,
		})
	}

	counts := make(map[string]int)
	for _, r := range regions {
		counts[r.Name]++
	}
	var dups []int
	for i, r := range regions {
		if counts[r.Name] > 1 {
			dups = append(dups, i)
		}
	}
	if len(dups) > 0 {
		warnings = append(warnings, Warning{
			Type:    "duplicate_name",
			Message: fmt.Sprintf("%d region(s) share a name with another region", len(dups)),
			Regions: dups,
		})
	}

	// DFN lines with more than one '=' are ignored on load.
	var lossy []int
	for i, r := range regions {
		if strings.Contains(r.Name, "=") {
			lossy = append(lossy, i)
			continue
		}
		for k, v := range r.Tags {
			if strings.Contains(k, "=") || strings.Contains(v, "=") {
				lossy = append(lossy, i)
				break
			}
		}
	}
	if len(lossy) > 0 {
		warnings = append(warnings, Warning{
			Type:    "equals_in_value",
			Message: fmt.Sprintf("%d region(s) have '=' in a name or tag value, which is lost when the file is reloaded", len(lossy)),
			Regions: lossy,
		})
	}

	return warnings
}

// Validate returns an error for the first region holding a rectangle that
// is not normalised.
func Validate(regions []*Region) error {
	for i, r := range regions {
		for j, b := range r.Bounds {
			if !b.Normalized() {
				return fmt.Errorf("region %d (%s): rectangle %d %s is not normalised", i+1, r.Name, j, b)
			}
		}
	}
	return nil
}
