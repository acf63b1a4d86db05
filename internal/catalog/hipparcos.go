package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// hip_main.dat field positions (0-based, '|' separated)
const (
	fieldHIP      = 1
	fieldVmag     = 5
	fieldRAdeg    = 8
	fieldDEdeg    = 9
	fieldPlx      = 11
	fieldPMRA     = 12
	fieldPMDE     = 13
	minHipFields  = fieldPMDE + 1
	maxLineLength = 1 << 16
)

// ParseHipparcos reads the Hipparcos main catalog (hip_main.dat).
// Rows without a position or a V magnitude are skipped.
func ParseHipparcos(r io.Reader) (*Catalog, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), maxLineLength)

	var stars []Star
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < minHipFields {
			return nil, fmt.Errorf("hip_main line %d: %d fields, want at least %d", lineNo, len(fields), minHipFields)
		}

		raStr := strings.TrimSpace(fields[fieldRAdeg])
		decStr := strings.TrimSpace(fields[fieldDEdeg])
		magStr := strings.TrimSpace(fields[fieldVmag])
		if raStr == "" || decStr == "" || magStr == "" {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(fields[fieldHIP]))
		if err != nil {
			return nil, fmt.Errorf("hip_main line %d: bad HIP number: %w", lineNo, err)
		}

		star := Star{ID: id}
		if star.RAdeg, err = strconv.ParseFloat(raStr, 64); err != nil {
			return nil, fmt.Errorf("hip_main line %d: bad RA: %w", lineNo, err)
		}
		if star.DecDeg, err = strconv.ParseFloat(decStr, 64); err != nil {
			return nil, fmt.Errorf("hip_main line %d: bad Dec: %w", lineNo, err)
		}
		if star.Mag, err = strconv.ParseFloat(magStr, 64); err != nil {
			return nil, fmt.Errorf("hip_main line %d: bad Vmag: %w", lineNo, err)
		}

		// Astrometry may be blank for a few entries; treat as zero.
		star.ParallaxMas = optionalFloat(fields[fieldPlx])
		star.PMRAmas = optionalFloat(fields[fieldPMRA])
		star.PMDecmas = optionalFloat(fields[fieldPMDE])

		stars = append(stars, star)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read hip_main: %w", err)
	}

	return New(stars)
}

func optionalFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
