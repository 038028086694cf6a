// Package viz renders aggregates and analysis curves for the terminal:
// Braille-canvas projections of the particle geometry, asciigraph plots
// of the growth trace and box-count curve, and lipgloss-styled summary
// panels.
package viz
