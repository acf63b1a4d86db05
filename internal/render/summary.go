package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/litescript/ls-skychart/internal/astro"
	"github.com/litescript/ls-skychart/internal/chart"
)

// SummaryRow represents one star in the summary table.
type SummaryRow struct {
	ID     int
	Name   string
	Mag    float64
	AltDeg float64
	AzDeg  float64
	X, Y   float64
}

// GenerateSummaryRows lists the stars above the horizon, brightest first.
// Altitude and azimuth are read in the observer's horizontal frame from
// each star's place precessed to the equator of date.
func GenerateSummaryRows(res *chart.Result) []SummaryRow {
	if res == nil {
		return nil
	}

	instant := res.Observer.Instant
	site := astro.Site{LatDeg: res.Observer.LatDeg, LonDeg: res.Observer.LonDeg}
	toDate := astro.PrecessionMatrix(astro.JulianDate(instant))

	var rows []SummaryRow
	for _, s := range res.Scene.VisibleStars() {
		ra, dec := astro.RADecFromVec(toDate.Apply(astro.UnitFromRADec(s.RAdeg, s.DecDeg)))
		h := astro.ToHorizontal(astro.Equatorial{RAdeg: ra, DecDeg: dec}, site, instant)
		alt, az := h.AltDeg, h.AzDeg
		rows = append(rows, SummaryRow{
			ID:     s.ID,
			Name:   s.Name,
			Mag:    s.Mag,
			AltDeg: alt,
			AzDeg:  az,
			X:      s.X,
			Y:      s.Y,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Mag < rows[j].Mag })
	return rows
}

// WriteSummary writes a text table of the visible stars.
func WriteSummary(w io.Writer, res *chart.Result) error {
	if res == nil {
		return fmt.Errorf("no chart to summarize")
	}
	p := message.NewPrinter(language.English)
	rows := GenerateSummaryRows(res)

	var b strings.Builder
	b.WriteString(res.Title())
	b.WriteString("\n")
	fmt.Fprintf(&b, "Zenith RA %.3f° Dec %+.3f°, local sidereal time %s\n", res.Center.RAdeg, res.Center.DecDeg,
		formatHours(astro.LocalSiderealTime(res.Observer.Instant, res.Observer.LonDeg)))
	b.WriteString(strings.Repeat("─", 72))
	b.WriteString("\n")

	if len(rows) == 0 {
		p.Fprintf(&b, "No stars brighter than magnitude %.1f above the horizon\n", res.MagnitudeLimit)
	} else {
		fmt.Fprintf(&b, "%-7s %-16s %6s %7s %7s %8s %8s\n", "HIP", "Name", "Mag", "Alt", "Az", "X", "Y")
		b.WriteString(strings.Repeat("─", 72))
		b.WriteString("\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "%-7d %-16s %6.2f %6.1f° %6.1f° %8.4f %8.4f\n",
				r.ID, truncateStr(r.Name, 16), r.Mag, r.AltDeg, r.AzDeg, r.X, r.Y)
		}
	}

	b.WriteString("\n")
	p.Fprintf(&b, "%d stars to magnitude %.1f, %d above the horizon, %d excluded\n",
		len(res.Scene.Stars), res.MagnitudeLimit, len(rows), res.Excluded)
	p.Fprintf(&b, "%d constellation lines", len(res.Scene.Lines))
	if n := len(res.Warnings); n > 0 {
		p.Fprintf(&b, ", %d dropped", n)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// formatHours renders an angle in degrees as hours, minutes and seconds.
func formatHours(deg float64) string {
	secs := int(math.Round(deg*240)) % 86400
	return fmt.Sprintf("%02dh%02dm%02ds", secs/3600, secs/60%60, secs%60)
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
