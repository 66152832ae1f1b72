// Package solver implements the path-finding boundary: the JSON wire schema
// (request and step stream) and the four algorithms behind it. The step
// stream is the only contract with the replay engine; consumers interpret
// steps strictly in order and never mutate them.
package solver
