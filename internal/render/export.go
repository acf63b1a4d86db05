package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/litescript/ls-skychart/internal/chart"
)

// ChartExport is the JSON-serializable representation of a chart.
type ChartExport struct {
	Title          string          `json:"title"`
	Observer       ObserverExport  `json:"observer"`
	Center         CenterExport    `json:"center"`
	MagnitudeLimit float64         `json:"magnitude_limit"`
	HorizonRadius  float64         `json:"horizon_radius"`
	Stars          []StarExport    `json:"stars"`
	Lines          []LineExport    `json:"lines"`
	Excluded       int             `json:"excluded"`
	Warnings       []WarningExport `json:"warnings,omitempty"`
	BuildMillis    float64         `json:"build_ms"`
}

// ObserverExport is a JSON-friendly observer.
type ObserverExport struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ElevationM float64   `json:"elevation_m"`
	Instant    time.Time `json:"instant"`
	Zone       string    `json:"zone"`
}

// CenterExport is the zenith direction.
type CenterExport struct {
	RAdeg  float64 `json:"ra_deg"`
	DecDeg float64 `json:"dec_deg"`
}

// StarExport is a JSON-friendly star marker with derived fields.
type StarExport struct {
	ID           int     `json:"hip"`
	Name         string  `json:"name,omitempty"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	RAdeg        float64 `json:"ra_deg"`
	DecDeg       float64 `json:"dec_deg"`
	Mag          float64 `json:"mag"`
	Size         float64 `json:"size"`
	AltDeg       float64 `json:"alt_deg"`
	AzDeg        float64 `json:"az_deg"`
	AboveHorizon bool    `json:"above_horizon"`
}

// LineExport is a JSON-friendly constellation segment.
type LineExport struct {
	Constellation string  `json:"constellation"`
	A             int     `json:"a"`
	B             int     `json:"b"`
	X1            float64 `json:"x1"`
	Y1            float64 `json:"y1"`
	X2            float64 `json:"x2"`
	Y2            float64 `json:"y2"`
}

// WarningExport reports a dropped constellation edge.
type WarningExport struct {
	Constellation string `json:"constellation"`
	EdgeIndex     int    `json:"edge_index"`
	MissingID     int    `json:"missing_hip"`
	Message       string `json:"message"`
}

// Export converts a chart result to an exportable format. Points at
// infinity cannot be encoded and are left out.
func Export(res *chart.Result) *ChartExport {
	if res == nil {
		return &ChartExport{}
	}

	export := &ChartExport{
		Title: res.Title(),
		Observer: ObserverExport{
			Latitude:   res.Observer.LatDeg,
			Longitude:  res.Observer.LonDeg,
			ElevationM: res.Observer.ElevationM,
			Instant:    res.Observer.Instant,
			Zone:       res.Observer.Instant.Location().String(),
		},
		Center:         CenterExport{RAdeg: res.Center.RAdeg, DecDeg: res.Center.DecDeg},
		MagnitudeLimit: res.MagnitudeLimit,
		HorizonRadius:  res.Scene.HorizonRadius,
		Stars:          make([]StarExport, 0, len(res.Scene.Stars)),
		Lines:          make([]LineExport, 0, len(res.Scene.Lines)),
		Excluded:       res.Excluded,
		BuildMillis:    float64(res.Duration) / float64(time.Millisecond),
	}

	for _, s := range res.Scene.Stars {
		if !finite(s.X, s.Y) {
			continue
		}
		alt, az := s.AltAz()
		export.Stars = append(export.Stars, StarExport{
			ID:           s.ID,
			Name:         s.Name,
			X:            s.X,
			Y:            s.Y,
			RAdeg:        s.RAdeg,
			DecDeg:       s.DecDeg,
			Mag:          s.Mag,
			Size:         s.Size,
			AltDeg:       alt,
			AzDeg:        az,
			AboveHorizon: res.Scene.InHorizon(s.X, s.Y),
		})
	}

	for _, l := range res.Scene.Lines {
		if !finite(l.X1, l.Y1, l.X2, l.Y2) {
			continue
		}
		export.Lines = append(export.Lines, LineExport{
			Constellation: l.Constellation,
			A:             l.A,
			B:             l.B,
			X1:            l.X1,
			Y1:            l.Y1,
			X2:            l.X2,
			Y2:            l.Y2,
		})
	}

	for _, m := range res.Warnings {
		export.Warnings = append(export.Warnings, WarningExport{
			Constellation: m.Constellation,
			EdgeIndex:     m.EdgeIndex,
			MissingID:     m.MissingID,
			Message:       m.String(),
		})
	}

	return export
}

// WriteJSON writes the chart as indented JSON to the given writer.
func (e *ChartExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
