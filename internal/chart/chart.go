package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"

	"github.com/0x13a/jobdash/internal/view"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

const (
	width       = 800
	rowHeight   = 28
	topMargin   = 40
	labelWidth  = 220
	sideMargin  = 20
	countMargin = 60
)

var (
	backgroundColor = color.White
	textColor       = color.RGBA{R: 33, G: 37, B: 41, A: 255}
	barColor        = color.RGBA{R: 0, G: 125, B: 156, A: 255}
)

// CompanyBarsPNG draws the jobs-per-company chart as a PNG. It uses gg's built
// in bitmap face so no font files are needed at runtime.
func CompanyBarsPNG(c view.ChartView) ([]byte, error) {
	rows := len(c.Bars)
	if c.Empty || rows == 0 {
		rows = 1
	}
	height := topMargin + rows*rowHeight + sideMargin
	dc := gg.NewContext(width, height)
	dc.SetColor(backgroundColor)
	dc.Clear()

	dc.SetColor(textColor)
	dc.DrawString("Jobs by Company", sideMargin, 24)

	if c.Empty || len(c.Bars) == 0 {
		dc.DrawStringAnchored("No data", width/2, float64(topMargin+rowHeight/2), 0.5, 0.5)
		return encode(dc)
	}

	maxBar := float64(width - labelWidth - sideMargin - countMargin)
	for i, b := range c.Bars {
		y := float64(topMargin + i*rowHeight)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(truncate(dc, b.Company, labelWidth-2*sideMargin), sideMargin, y+rowHeight/2, 0, 0.5)

		w := maxBar * b.Width / 100
		if w < 1 {
			w = 1
		}
		dc.SetColor(barColor)
		dc.DrawRectangle(labelWidth, y+4, w, rowHeight-8)
		dc.Fill()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(fmt.Sprintf("%d", b.Count), labelWidth+w+8, y+rowHeight/2, 0, 0.5)
	}
	return encode(dc)
}

func truncate(dc *gg.Context, s string, max float64) string {
	if w, _ := dc.MeasureString(s); w <= max {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if w, _ := dc.MeasureString(string(r) + "..."); w <= max {
			return string(r) + "..."
		}
	}
	return ""
}

func encode(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, errors.Wrap(err, "encode chart png")
	}
	return buf.Bytes(), nil
}
