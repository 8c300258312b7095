package dfnfile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

const sampleDFN = `// header comment line
[REGION 12]
{
NAME=Felucca Britain
WORLD=1
X1=0
Y1=0
X2=10
Y2=10
}

[REGION 13]
{
Name = Britain
guarded=1
MUSIC=Britain
X1=100
Y1=200
X2=300
Y2=400
}
`

func TestParseWorldFilter(t *testing.T) {
	res, err := ParseString(sampleDFN)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(res.Regions))
	}
	if res.Regions[0].Name != "Britain" {
		t.Errorf("Name = %q, want Britain", res.Regions[0].Name)
	}
	if res.Blocks != 2 {
		t.Errorf("Blocks = %d, want 2", res.Blocks)
	}
	want := []Dropped{{Line: 2, World: 1, Name: "Felucca Britain"}}
	if !reflect.DeepEqual(res.Dropped, want) {
		t.Errorf("Dropped = %+v, want %+v", res.Dropped, want)
	}
}

func TestParseRectangle(t *testing.T) {
	res, err := ParseString(sampleDFN)
	if err != nil {
		t.Fatal(err)
	}
	r := res.Regions[0]
	if len(r.Bounds) != 1 {
		t.Fatalf("Bounds = %v", r.Bounds)
	}
	b := r.Bounds[0]
	if b.Left != 100 || b.Top != 200 || b.Width() != 200 || b.Height() != 200 {
		t.Errorf("rect = %v, want left=100 top=200 200x200", b)
	}
}

func TestParseTags(t *testing.T) {
	res, err := ParseString(sampleDFN)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"NAME":    "Britain",
		"GUARDED": "1",
		"MUSIC":   "Britain",
	}
	if got := res.Regions[0].Tags; !reflect.DeepEqual(got, want) {
		t.Errorf("Tags = %v, want %v", got, want)
	}
}

func TestParseWorld(t *testing.T) {
	tests := []struct {
		name    string
		world   string
		keep    bool
		dropped int
	}{
		{"no world", "", true, 0},
		{"world zero", "WORLD=0", true, 0},
		{"world one", "WORLD=1", false, 1},
		{"world negative", "WORLD=-2", false, 1},
		{"world unparseable", "WORLD=felucca", true, 0},
		{"world padded", "WORLD = 0 ", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "[REGION 1]\n{\nNAME=A\n" + tt.world + "\n}\n"
			res, err := ParseString(text)
			if err != nil {
				t.Fatal(err)
			}
			if got := len(res.Regions) == 1; got != tt.keep {
				t.Errorf("kept = %v, want %v", got, tt.keep)
			}
			if len(res.Dropped) != tt.dropped {
				t.Errorf("dropped = %d, want %d", len(res.Dropped), tt.dropped)
			}
		})
	}
}

func TestParseWorldOnlyAtBlockEnd(t *testing.T) {
	// WORLD after the rectangles still drops the whole block
	text := "[REGION 1]\n{\nX1=0\nY1=0\nX2=5\nY2=5\nWORLD=2\n}\n[REGION 2]\n{\nNAME=B\n}\n"
	res, err := ParseString(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Regions) != 1 || res.Regions[0].Name != "B" {
		t.Errorf("regions = %v", res.Regions)
	}
}

func TestParseMultipleRects(t *testing.T) {
	text := `[REGION 1]
{
NAME=Moonglow
X1=10
Y1=20
X2=30
Y2=40
X1=300
Y1=400
X2=100
Y2=200
}
`
	res, err := ParseString(text)
	if err != nil {
		t.Fatal(err)
	}
	want := []region.Rect{
		region.NewRect(10, 20, 30, 40),
		{Left: 100, Top: 200, Right: 300, Bottom: 400},
	}
	if got := res.Regions[0].Bounds; !reflect.DeepEqual(got, want) {
		t.Errorf("Bounds = %v, want %v", got, want)
	}
}

func TestParseIgnoresNoise(t *testing.T) {
	text := `NAME=Outside
[REGION]
{
  NAME=Trinsic
no equals here
A=B=C
=
MIDI=12 5
}
`
	res, err := ParseString(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Regions) != 1 {
		t.Fatalf("got %d regions", len(res.Regions))
	}
	r := res.Regions[0]
	if r.Name != "Trinsic" {
		t.Errorf("Name = %q", r.Name)
	}
	if _, ok := r.Tags["A"]; ok {
		t.Error("line with two '=' should be ignored")
	}
	if v := r.Tags["MIDI"]; v != "12 5" {
		t.Errorf("MIDI = %q", v)
	}
	// "=" alone yields an empty key, stored verbatim
	if _, ok := r.Tags[""]; !ok {
		t.Error("empty key should be stored as a tag")
	}
}

func TestParseResetsAccumulator(t *testing.T) {
	// Y2 in the second block pairs with that block's coordinates only
	text := "[REGION 1]\n{\nX1=50\nY1=50\nX2=60\n}\n[REGION 2]\n{\nY2=10\n}\n"
	res, err := ParseString(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Regions[0].Bounds) != 0 {
		t.Errorf("incomplete quad produced %v", res.Regions[0].Bounds)
	}
	want := []region.Rect{region.NewRect(0, 0, 0, 10)}
	if got := res.Regions[1].Bounds; !reflect.DeepEqual(got, want) {
		t.Errorf("Bounds = %v, want %v", got, want)
	}
}

func TestParseBadCoordinateFails(t *testing.T) {
	text := "[REGION 1]\n{\nNAME=A\nX1=10\nY1=abc\nX2=3\nY2=4\n}\n"
	res, err := ParseString(text)
	if err == nil {
		t.Fatalf("expected error, got %+v", res)
	}
	if res != nil {
		t.Error("no partial result on failure")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error %T is not a *FormatError", err)
	}
	if fe.Line != 5 || fe.Key != "Y1" || fe.Value != "abc" {
		t.Errorf("FormatError = %+v", fe)
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Error("FormatError should unwrap to strconv.ErrSyntax")
	}
}

func TestParseEmpty(t *testing.T) {
	res, err := ParseString("")
	if err != nil {
		t.Fatal(err)
	}
	if res.Regions == nil || len(res.Regions) != 0 {
		t.Errorf("Regions = %#v, want empty non-nil", res.Regions)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.dfn")
	if err := os.WriteFile(path, []byte(strings.ReplaceAll(sampleDFN, "\n", "\r\n")), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Regions) != 1 || res.Regions[0].Name != "Britain" {
		t.Errorf("CRLF file parsed to %v", res.Regions)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.dfn")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}
