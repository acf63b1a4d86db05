// Package constellation loads constellation stick figures.
package constellation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedLine is returned for a .fab line whose pair count does not match.
var ErrMalformedLine = errors.New("malformed constellation line")

// Figure is one constellation's ordered list of star-id pairs.
type Figure struct {
	Name  string
	Edges [][2]int
}

// Edge is a single flattened figure segment between two star ids.
type Edge struct {
	Constellation string
	A, B          int
}

// Flatten returns every edge of figs in input order.
func Flatten(figs []Figure) []Edge {
	n := 0
	for _, f := range figs {
		n += len(f.Edges)
	}
	edges := make([]Edge, 0, n)
	for _, f := range figs {
		for _, e := range f.Edges {
			edges = append(edges, Edge{Constellation: f.Name, A: e[0], B: e[1]})
		}
	}
	return edges
}

// ParseFab reads a Stellarium constellationship.fab file. Each line is
//
//	NAME N a1 b1 a2 b2 ... aN bN
//
// Blank lines and lines starting with '#' are ignored.
func ParseFab(r io.Reader) ([]Figure, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var figs []Figure
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("fab line %d (%q): %w: missing pair count", lineNo, line, ErrMalformedLine)
		}

		name := fields[0]
		count, err := strconv.Atoi(fields[1])
		if err != nil || count < 0 {
			return nil, fmt.Errorf("fab line %d (%s): %w: bad pair count %q", lineNo, name, ErrMalformedLine, fields[1])
		}

		ids := fields[2:]
		if len(ids) != 2*count {
			return nil, fmt.Errorf("fab line %d (%s): %w: declares %d pairs, has %d ids",
				lineNo, name, ErrMalformedLine, count, len(ids))
		}

		fig := Figure{Name: name, Edges: make([][2]int, 0, count)}
		for i := 0; i < len(ids); i += 2 {
			a, errA := strconv.Atoi(ids[i])
			b, errB := strconv.Atoi(ids[i+1])
			if errA != nil || errB != nil {
				return nil, fmt.Errorf("fab line %d (%s): %w: non-numeric star id in pair %d",
					lineNo, name, ErrMalformedLine, i/2+1)
			}
			fig.Edges = append(fig.Edges, [2]int{a, b})
		}
		figs = append(figs, fig)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read fab: %w", err)
	}

	return figs, nil
}
