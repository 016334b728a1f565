// Package viz renders a running agent-based model in the terminal.
//
// The bubbletea program draws the model's grid on a braille canvas,
// plots the tracked model series and the current wealth histogram, and
// exposes the model's parameter spec as tunable sliders. Changing a
// slider rebuilds the model from scratch, mirroring how the parameter
// spec is defined: it describes construction inputs, not live state.
package viz
