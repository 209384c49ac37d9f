package analysis

import "github.com/truthcheck/truthcheck/internal/detect"

// Presentation is the display mapping of a verdict.
type Presentation struct {
	VerdictLabel    string `json:"verdict_label"`
	ColorBand       string `json:"color_band"`
	BarWidthPercent int    `json:"bar_width_percent"`
}

const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// Present maps a result to its verdict label, confidence band and bar width.
// Band boundaries are exclusive: exactly 60 falls into "low", the only
// reachable low value given the detector's [60,100] range.
func Present(res detect.Result) Presentation {
	label := "FAKE"
	if res.IsReal {
		label = "REAL"
	}

	band := BandLow
	switch {
	case res.Confidence > 80:
		band = BandHigh
	case res.Confidence > 60:
		band = BandMedium
	}

	return Presentation{
		VerdictLabel:    label,
		ColorBand:       band,
		BarWidthPercent: res.Confidence,
	}
}
