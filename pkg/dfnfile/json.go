package dfnfile

import (
	"encoding/json"
	"fmt"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

// jsonVersion is the interchange format version written by ToJSON.
const jsonVersion = 1

// jsonFile is the JSON representation of a region set.
type jsonFile struct {
	Version int          `json:"version"`
	Width   int          `json:"map_width"`
	Height  int          `json:"map_height"`
	Regions []jsonRegion `json:"regions"`
}

type jsonRegion struct {
	Name    string            `json:"name"`
	Visible *bool             `json:"visible,omitempty"`
	Bounds  []region.Rect     `json:"bounds"`
	Tags    map[string]string `json:"tags,omitempty"`
}

// ParseJSON parses a region set from JSON. Rectangles are normalised and
// tag keys uppercased; a missing visible flag means visible.
func ParseJSON(data []byte) ([]*region.Region, error) {
	var j jsonFile
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	if j.Version > jsonVersion {
		return nil, fmt.Errorf("unsupported region JSON version %d", j.Version)
	}

	regions := make([]*region.Region, 0, len(j.Regions))
	for _, jr := range j.Regions {
		r := region.New(jr.Name)
		if jr.Visible != nil {
			r.Visible = *jr.Visible
		}
		for _, b := range jr.Bounds {
			r.AddRect(b)
		}
		for k, v := range jr.Tags {
			r.SetTag(k, v)
		}
		regions = append(regions, r)
	}
	return regions, nil
}

// ToJSON converts a region set to JSON.
func ToJSON(regions []*region.Region, pretty bool) ([]byte, error) {
	j := jsonFile{
		Version: jsonVersion,
		Width:   region.MapWidth,
		Height:  region.MapHeight,
		Regions: make([]jsonRegion, 0, len(regions)),
	}
	for _, r := range regions {
		visible := r.Visible
		jr := jsonRegion{
			Name:    r.Name,
			Visible: &visible,
			Bounds:  r.Bounds,
		}
		if jr.Bounds == nil {
			jr.Bounds = []region.Rect{}
		}
		if len(r.Tags) > 0 {
			jr.Tags = r.Tags
		}
		j.Regions = append(j.Regions, jr)
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}
