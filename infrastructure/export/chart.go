package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"lottogen/domain/entities"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// ChartStyle defines the layout of the frequency chart
type ChartStyle struct {
	Width     int
	Height    int
	Padding   float64
	BarColor  [3]float64
	TopColor  [3]float64 // Bars of the most frequent numbers
	AxisColor [3]float64
}

// ChartRenderer draws the frequency table as a bar chart
type ChartRenderer struct {
	style ChartStyle
}

// NewChartRenderer creates a renderer with the default style
func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{
		style: ChartStyle{
			Width:     1200,
			Height:    500,
			Padding:   50,
			BarColor:  [3]float64{0.35, 0.55, 0.85},
			TopColor:  [3]float64{0.95, 0.55, 0.15},
			AxisColor: [3]float64{0.2, 0.2, 0.2},
		},
	}
}

// Render returns a PNG bar chart with one bar per number. The topK most
// frequent numbers are drawn in the highlight colour.
func (r *ChartRenderer) Render(freq *entities.FrequencyTable, topK int) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			Debug("Frequency chart rendered")
	}()

	s := r.style
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	titleFace, err := loadFont(gobold.TTF, 18)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	labelFace, err := loadFont(gomono.TTF, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	dc.SetFontFace(titleFace)
	dc.SetRGB(s.AxisColor[0], s.AxisColor[1], s.AxisColor[2])
	title := fmt.Sprintf("Frequenza numeri SuperEnalotto (%d estrazioni)", freq.DrawCount())
	dc.DrawStringAnchored(title, float64(s.Width)/2, s.Padding/2, 0.5, 0.5)

	left, right := s.Padding, float64(s.Width)-s.Padding/2
	top, bottom := s.Padding, float64(s.Height)-s.Padding

	var maxCount int64
	for _, row := range freq.Rows() {
		maxCount = max(maxCount, row.Count)
	}

	highlighted := make(map[int]bool, topK)
	if maxCount > 0 {
		for _, n := range freq.TopNumbers(topK) {
			highlighted[n] = true
		}
	}

	// Axes
	dc.SetLineWidth(1)
	dc.DrawLine(left, bottom, right, bottom)
	dc.DrawLine(left, top, left, bottom)
	dc.Stroke()

	dc.SetFontFace(labelFace)
	dc.DrawStringAnchored("0", left-6, bottom, 1, 0.5)
	if maxCount > 0 {
		dc.DrawStringAnchored(strconv.FormatInt(maxCount, 10), left-6, top, 1, 0.5)
	}

	slot := (right - left) / entities.MaxNumber
	barWidth := slot * 0.8
	for _, row := range freq.Rows() {
		x := left + float64(row.Number-1)*slot + (slot-barWidth)/2

		if maxCount > 0 && row.Count > 0 {
			h := (bottom - top) * float64(row.Count) / float64(maxCount)
			c := s.BarColor
			if highlighted[row.Number] {
				c = s.TopColor
			}
			dc.SetRGB(c[0], c[1], c[2])
			dc.DrawRectangle(x, bottom-h, barWidth, h)
			dc.Fill()
		}

		if row.Number == 1 || row.Number%5 == 0 {
			dc.SetRGB(s.AxisColor[0], s.AxisColor[1], s.AxisColor[2])
			dc.DrawStringAnchored(strconv.Itoa(row.Number), x+barWidth/2, bottom+12, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
