package chart

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the accepted civil date format.
const DateLayout = "2006-01-02"

// Observer is a geographic location at an instant.
type Observer struct {
	LatDeg     float64 // north positive
	LonDeg     float64 // east positive
	ElevationM float64 // above the WGS84 ellipsoid
	Instant    time.Time
}

// Validate checks coordinate ranges.
func (o Observer) Validate() error {
	if math.IsNaN(o.LatDeg) || o.LatDeg < -90 || o.LatDeg > 90 {
		return &InvalidInputError{Field: "latitude", Value: formatFloat(o.LatDeg), Reason: "must be within [-90, 90]"}
	}
	if math.IsNaN(o.LonDeg) || o.LonDeg < -180 || o.LonDeg > 180 {
		return &InvalidInputError{Field: "longitude", Value: formatFloat(o.LonDeg), Reason: "must be within [-180, 180]"}
	}
	if math.IsNaN(o.ElevationM) || math.IsInf(o.ElevationM, 0) {
		return &InvalidInputError{Field: "elevation", Value: formatFloat(o.ElevationM), Reason: "must be finite"}
	}
	if o.Instant.IsZero() {
		return &InvalidInputError{Field: "instant", Reason: "is required"}
	}
	return nil
}

// ParseInstant resolves a civil date and clock time in an IANA zone.
// An empty date means today in zone; an empty clock means midnight when a
// date is given and the current time otherwise.
func ParseInstant(date, clock, zone string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(zone) == "" {
		zone = "UTC"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, &InvalidInputError{Field: "timezone", Value: zone, Reason: "unknown IANA time zone"}
	}

	local := now.In(loc)
	if date == "" && clock == "" {
		return local, nil
	}

	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if date != "" {
		d, err := time.ParseInLocation(DateLayout, date, loc)
		if err != nil {
			return time.Time{}, &InvalidInputError{Field: "date", Value: date, Reason: "Invalid date format. Use YYYY-MM-DD."}
		}
		day = d
	}

	if clock == "" {
		return day, nil
	}

	var c time.Time
	for _, layout := range []string{"15:04", "15:04:05"} {
		if c, err = time.Parse(layout, clock); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, &InvalidInputError{Field: "time", Value: clock, Reason: "Invalid time format. Use HH:MM."}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc), nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
