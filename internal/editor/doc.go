// Package editor interprets user gestures into graph mutations. It is the
// only writer of the model during editing; while a run is in flight the gate
// refuses every mutating entry point, so the model is exclusive by turn.
//
// The weight prompt is a synchronous-from-here request/response: the editor
// blocks on the prompter and treats cancellation as "no mutation, revert any
// speculative UI state".
package editor
