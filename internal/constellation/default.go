package constellation

import (
	_ "embed"
	"strings"
	"sync"
)

// IndianFiguresURL is Stellarium's Indian sky culture. The embedded figures
// are western; pass this to --constellations for the Indian ones.
const IndianFiguresURL = "https://raw.githubusercontent.com/Stellarium/stellarium/master/skycultures/indian/constellationship.fab"

//go:embed western.fab
var westernFab string

var (
	defaultOnce sync.Once
	defaultFigs []Figure
)

// Default returns the embedded western figures. Every referenced star is in
// catalog.Default. Callers must not modify the returned slice.
func Default() []Figure {
	defaultOnce.Do(func() {
		figs, err := ParseFab(strings.NewReader(westernFab))
		if err != nil {
			panic("constellation: embedded figures: " + err.Error())
		}
		defaultFigs = figs
	})
	return defaultFigs
}
