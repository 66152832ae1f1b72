// Package cli parses command-line arguments into an app.Config. It owns the
// usage text and flag validation; the app package owns everything after.
package cli
