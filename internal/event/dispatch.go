package event

import "context"

// DispatchToken identifies the single dispatch context of a bus. Code running
// with a context derived from WithDispatch(ctx, token) is "on" the dispatch
// goroutine for every bus built with that token.
//
// The token is created once by the composition root and handed both to the
// bus and to whatever drives the dispatch goroutine (see Loop).
type DispatchToken struct {
	name string
}

// NewDispatchToken creates a dispatch identity. The name only appears in logs.
func NewDispatchToken(name string) *DispatchToken {
	return &DispatchToken{name: name}
}

// String returns the token name.
func (t *DispatchToken) String() string {
	if t == nil {
		return "<none>"
	}
	return t.name
}

type dispatchKey struct{}

// WithDispatch marks ctx as running on the dispatch goroutine of token.
func WithDispatch(ctx context.Context, token *DispatchToken) context.Context {
	return context.WithValue(ctx, dispatchKey{}, token)
}

// DispatchFrom returns the token carried by ctx, or nil.
func DispatchFrom(ctx context.Context) *DispatchToken {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(dispatchKey{}).(*DispatchToken)
	return t
}

// Owns reports whether ctx carries this token. A nil token owns nothing.
func (t *DispatchToken) Owns(ctx context.Context) bool {
	return t != nil && DispatchFrom(ctx) == t
}
