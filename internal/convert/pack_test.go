package convert

import (
	"image"
	"testing"

	"inkcal/internal/render"
)

func TestPackPaletted(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, PanelWidth, PanelHeight), render.Palette)
	// White background with a black/red pixel pair in the top-left corner
	// and a blue/green pair at the start of the second row.
	for i := range img.Pix {
		img.Pix[i] = uint8(render.White)
	}
	img.SetColorIndex(0, 0, uint8(render.Black))
	img.SetColorIndex(1, 0, uint8(render.Red))
	img.SetColorIndex(0, 1, uint8(render.Blue))
	img.SetColorIndex(1, 1, uint8(render.Green))

	buf, err := PackPaletted(img)
	if err != nil {
		t.Fatalf("PackPaletted: %v", err)
	}
	if len(buf) != PanelBufSize {
		t.Fatalf("buffer size = %d, want %d", len(buf), PanelBufSize)
	}

	if buf[0] != 0x03 { // black(0x0) << 4 | red(0x3)
		t.Errorf("buf[0] = %#02x, want 0x03", buf[0])
	}
	if buf[1] != 0x11 { // white pair
		t.Errorf("buf[1] = %#02x, want 0x11", buf[1])
	}
	if got := buf[PanelWidth/2]; got != 0x56 { // blue(0x5) << 4 | green(0x6)
		t.Errorf("row 1 first byte = %#02x, want 0x56", got)
	}
}

func TestPackPalettedRejectsWrongSize(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 480, 800), render.Palette)
	if _, err := PackPaletted(img); err == nil {
		t.Error("want error for rotated/wrong-size frame")
	}
}
