package dfnfile

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

func renderRegions() []*region.Region {
	town := region.New("Britain")
	town.SetTag("GUARDED", "1")
	town.AddRect(region.NewRect(1000, 1000, 2000, 2000))
	hidden := region.New("Secret & Co")
	hidden.AddRect(region.NewRect(4000, 2000, 5000, 3000))
	hidden.Visible = false
	return []*region.Region{town, hidden}
}

func TestOverviewSize(t *testing.T) {
	tests := []struct {
		w, h   int
		ww, wh int
	}{
		{0, 0, 1792, 1024},
		{896, 0, 896, 512},
		{0, 256, 448, 256},
		{100, 100, 100, 100},
	}
	for _, tt := range tests {
		w, h := overviewSize(tt.w, tt.h)
		if w != tt.ww || h != tt.wh {
			t.Errorf("overviewSize(%d,%d) = %d,%d want %d,%d", tt.w, tt.h, w, h, tt.ww, tt.wh)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultSVGOptions()
	opts.Title = "Felucca"
	if err := RenderSVG(&buf, renderRegions(), opts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatal("not an SVG document")
	}
	if !strings.Contains(out, "Britain") {
		t.Error("visible region label missing")
	}
	if strings.Contains(out, "Secret") {
		t.Error("hidden region rendered")
	}
	if !strings.Contains(out, hexColor(colorTown)) {
		t.Error("town colour not used")
	}

	buf.Reset()
	opts.Hidden = true
	if err := RenderSVG(&buf, renderRegions(), opts); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Secret &amp; Co") {
		t.Error("hidden region label missing or unescaped")
	}
}

// closeTo compares colours with a small tolerance for resampling error.
func closeTo(a, b color.RGBA) bool {
	d := func(x, y uint8) bool { return x-y <= 2 || y-x <= 2 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, bytes.ErrTooLarge }

func TestRenderSVGWriteError(t *testing.T) {
	if err := RenderSVG(failWriter{}, renderRegions(), DefaultSVGOptions()); err == nil {
		t.Error("expected write error")
	}
}

func TestRenderPNG(t *testing.T) {
	opts := DefaultPNGOptions()
	opts.Width, opts.Height = 448, 0
	var buf bytes.Buffer
	if err := RenderPNG(&buf, renderRegions(), nil, opts); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 448 || b.Dy() != 256 {
		t.Fatalf("size = %v", b)
	}
	// inside the hidden region's rectangle: background only
	if got := color.RGBAModel.Convert(img.At(280, 160)).(color.RGBA); !closeTo(got, colorBackground) {
		t.Errorf("hidden region area = %v, want background", got)
	}
	// inside the town rectangle: tinted
	if got := color.RGBAModel.Convert(img.At(90, 90)).(color.RGBA); closeTo(got, colorBackground) {
		t.Error("town area not tinted")
	}
}

func TestRenderImageBackground(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 64, 32))
	white := color.RGBA{255, 255, 255, 255}
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			bg.Set(x, y, white)
		}
	}
	opts := PNGOptions{Width: 128}
	img, err := RenderImage(nil, bg, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(64, 32); !closeTo(got, white) {
		t.Errorf("background pixel = %v, want white", got)
	}
}
