// Package gateway provides decorators and stand-ins for wizard.Gateway
// implementations.
package gateway

import "github.com/mark3labs/promptsmith/internal/wizard"

// Middleware decorates a Gateway with a cross-cutting concern.
type Middleware func(wizard.Gateway) wizard.Gateway

// Wrap applies middlewares in left-to-right order.
// Wrap(inner, A, B) => A(B(inner))
func Wrap(inner wizard.Gateway, mws ...Middleware) wizard.Gateway {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			out = mws[i](out)
		}
	}
	return out
}
