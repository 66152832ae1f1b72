// Package replay turns the solver's opaque step stream into timed visual and
// tabular state. The engine is a single cooperative consumer: steps are
// applied strictly in order, and step i+1 is not interpreted until step i's
// scheduled delay has elapsed. Speed only stretches or compresses the
// timeline; it never changes the outcome.
package replay
