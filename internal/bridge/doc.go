// Package bridge realizes the rendering-capability boundary over socket.io.
// It relays node/edge upserts and removals to connected canvas clients and
// maps their hit-tested click events back onto the editor. The weight prompt
// crosses the same connection as an explicit correlation-id request/response.
//
// The core never imports this package; it only sees the render.Renderer,
// prompter and notifier interfaces the bridge implements.
package bridge
