package solver

import "context"

// Local runs the solver in-process behind the same request/response contract
// the HTTP client satisfies. Used by the headless solve mode so it does not
// need a running server.
type Local struct{}

// Solve implements the run controller's client interface.
func (Local) Solve(ctx context.Context, req *Request) ([]Step, error) {
	return Solve(ctx, req)
}
