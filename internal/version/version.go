// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - HTTP chart server, Prometheus metrics, tracing, config files
// 0.2.0 - Hipparcos and .fab loading from URLs, Horizons ephemeris, terminal viewer
// 0.1.0 - Initial release: zenith planisphere as SVG, JSON and text summary
