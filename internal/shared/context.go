package shared

import (
	"context"
	"net/http"
)

type ctxKey int

const sessionKey ctxKey = iota

// ContextWithSession attaches sess to ctx for the handlers down the chain.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the session loaded by the middleware, or nil.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionKey).(*Session)
	return sess
}

// RequestSession is SessionFromContext for r's context.
func RequestSession(r *http.Request) *Session {
	return SessionFromContext(r.Context())
}
