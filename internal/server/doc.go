// Package server exposes a running model over HTTP.
//
// A gin engine serves a small browser page, a JSON API for parameter
// and playback control, and a websocket stream of frames. Every frame
// carries the current step, the tracked series, and one marker per
// agent so the page can redraw the grid without knowing the model.
package server
