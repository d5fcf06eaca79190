package strata

// Compose builds a single handler from a middleware stack using
// continuation passing: middleware i receives a next callback that runs
// middleware i+1, and the implicit terminal step past the last middleware
// returns nil.
//
// A snapshot of the stack is taken up front, so mutating the slice after
// composition does not affect pipelines already produced.
func Compose(mws []Middleware) Handler {
	stack := make([]Middleware, len(mws))
	copy(stack, mws)

	return func(ctx *Context) error {
		return dispatch(ctx, stack, 0)
	}
}

// dispatch runs stack[i], handing it a guarded next that advances to i+1.
// The guard enforces the at-most-once contract on next.
func dispatch(ctx *Context, stack []Middleware, i int) error {
	if i >= len(stack) {
		return nil
	}

	called := false
	next := func() error {
		if called {
			return ErrMultipleNext
		}
		called = true
		return dispatch(ctx, stack, i+1)
	}

	return stack[i](ctx, next)
}
