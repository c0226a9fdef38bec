package render

import (
	"image/color"
	"testing"

	"inkcal/internal/model"
)

func TestConditionColor(t *testing.T) {
	tests := []struct {
		cond string
		want color.Color
	}{
		{cond: "sunny", want: gold},
		{cond: "partlycloudy", want: gold},
		{cond: "lightning", want: gold},
		{cond: "lightning-rainy", want: gold},
		{cond: "clear-night", want: Blue.NRGBA()},
		{cond: "rainy", want: Blue.NRGBA()},
		{cond: "pouring", want: Blue.NRGBA()},
		{cond: "snowy", want: Blue.NRGBA()},
		{cond: "snowy-rainy", want: Blue.NRGBA()},
		{cond: "hail", want: Blue.NRGBA()},
		{cond: "exceptional", want: Red.NRGBA()},
		{cond: "cloudy", want: Black.NRGBA()},
		{cond: "fog", want: Black.NRGBA()},
		{cond: "windy", want: Black.NRGBA()},
		{cond: "made-up-condition", want: Black.NRGBA()},
	}
	for _, tc := range tests {
		t.Run(tc.cond, func(t *testing.T) {
			if got := conditionColor(tc.cond); got != tc.want {
				t.Errorf("conditionColor(%q) = %v, want %v", tc.cond, got, tc.want)
			}
		})
	}
}

func countColor(c *canvas, want color.NRGBA) int {
	img := c.dc.Image()
	b := img.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if uint8(r>>8) == want.R && uint8(g>>8) == want.G && uint8(bl>>8) == want.B && uint8(a>>8) == want.A {
				n++
			}
		}
	}
	return n
}

func TestWeatherBadgeInvalidDrawsNothing(t *testing.T) {
	fonts := NewFontCache()
	c := newCanvas(300, 60, fonts)
	before := countColor(c, White.NRGBA())

	snap := model.WeatherSnapshot{Condition: "sunny", Temperature: 72, Unit: "F", Valid: false}
	drawWeatherBadge(c, snap, 290, 0, 60, badgeAgenda)

	if after := countColor(c, White.NRGBA()); after != before {
		t.Error("invalid snapshot painted pixels")
	}
}

func TestWeatherBadgeGoldOutlinedInAgenda(t *testing.T) {
	fonts := NewFontCache()
	snap := model.WeatherSnapshot{Condition: "sunny", Temperature: 72, Unit: "F", Valid: true}

	agenda := newCanvas(300, 60, fonts)
	drawWeatherBadge(agenda, snap, 290, 0, 60, badgeAgenda)
	if countColor(agenda, gold) == 0 {
		t.Error("agenda badge has no gold pixels")
	}
	if countColor(agenda, Black.NRGBA()) == 0 {
		t.Error("agenda gold icon has no black outline or text")
	}

	// On the dark grid header band the icon renders in neutral white; gold
	// must not appear.
	grid := newCanvas(300, 60, fonts)
	grid.box(0, 0, 300, 60, Blue.NRGBA(), nil, 0)
	drawWeatherBadge(grid, snap, 290, 0, 60, badgeGrid)
	if countColor(grid, gold) != 0 {
		t.Error("grid badge painted gold on the header band")
	}
	if countColor(grid, White.NRGBA()) == 0 {
		t.Error("grid badge has no white icon pixels")
	}
}

func TestWeatherBadgeBlueIconNotOutlined(t *testing.T) {
	fonts := NewFontCache()
	snap := model.WeatherSnapshot{Condition: "rainy", Temperature: 40, Unit: "F", Valid: true}

	c := newCanvas(300, 60, fonts)
	drawWeatherBadge(c, snap, 290, 0, 60, badgeAgenda)
	if countColor(c, Blue.NRGBA()) == 0 {
		t.Error("rainy badge has no blue pixels")
	}
	if countColor(c, gold) != 0 {
		t.Error("rainy badge painted gold")
	}
}
