package cep

import "sync/atomic"

// Tracker hands out monotonically increasing lookup tokens. A result is
// applied only when its token is still the latest one issued, so a slow
// response for an old CEP cannot overwrite a newer one.
type Tracker struct {
	latest atomic.Uint64
}

// Next issues a token for a new lookup, superseding every earlier token.
func (t *Tracker) Next() uint64 {
	return t.latest.Add(1)
}

// Current reports whether token is the most recent one issued.
func (t *Tracker) Current(token uint64) bool {
	return token != 0 && t.latest.Load() == token
}

// Invalidate supersedes all outstanding tokens without issuing a new one.
func (t *Tracker) Invalidate() {
	t.latest.Add(1)
}
