package hardware

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/umputun/kibbler/pkg/ui"
)

// condensed is Face7x13 with the advance tightened from 7 to 6 pixels: the
// glyphs themselves are 6 wide, so nothing overlaps, and 21 columns fit the
// 128-pixel panel exactly.
var condensed = &basicfont.Face{
	Advance: 6,
	Width:   basicfont.Face7x13.Width,
	Height:  basicfont.Face7x13.Height,
	Ascent:  basicfont.Face7x13.Ascent,
	Descent: basicfont.Face7x13.Descent,
	Left:    basicfont.Face7x13.Left,
	Mask:    basicfont.Face7x13.Mask,
	Ranges:  basicfont.Face7x13.Ranges,
}

const lineHeight = 16 // 4 rows on a 64-pixel panel

// Display renders menu screens on a 128x64 ssd1306 OLED.
type Display struct {
	dev *ssd1306.Dev
}

// NewDisplay attaches to the OLED and clears it.
func NewDisplay(bus i2c.Bus) (*Display, error) {
	opts := ssd1306.DefaultOpts
	opts.W = 128
	opts.H = 64
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	d := &Display{dev: dev}
	if err := d.dev.Draw(d.dev.Bounds(), compose(ui.Screen{}), image.Point{}); err != nil {
		return nil, fmt.Errorf("ssd1306 clear: %w", err)
	}
	return d, nil
}

// Render pushes one frame. The loop already deduplicates identical frames, so
// every call repaints.
func (d *Display) Render(_ context.Context, scr ui.Screen) error {
	if err := d.dev.Draw(d.dev.Bounds(), compose(scr), image.Point{}); err != nil {
		return fmt.Errorf("ssd1306 draw: %w", err)
	}
	return nil
}

// Halt blanks the panel and puts it to sleep.
func (d *Display) Halt() error {
	return d.dev.Halt()
}

// compose draws screen lines into the 1-bit format the panel wants.
func compose(scr ui.Screen) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(image1bit.On),
		Face: condensed,
	}
	for i, line := range scr.Lines {
		if i >= ui.Rows {
			break
		}
		drawer.Dot = fixed.P(1, i*lineHeight+condensed.Ascent)
		drawer.DrawString(line)
	}
	return img
}
