// Package app wires the application together and owns its lifecycle. It
// builds the graph model, session, canvas, solver, replay engine and run
// controller from configuration and runs one of three modes: serve (solver
// HTTP API plus the socket.io canvas bridge), solve (a headless run against
// the in-process solver) and watch (a headless canvas client).
package app
