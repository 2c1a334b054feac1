package engine

import (
	"quilt/internal/token"
)

// UpdateContext pushes a context refresh through every token in
// dependency order, so a token's inputs are current before it
// recomputes. It returns the qualified names of the tokens that
// reported a change, in update order.
func (e *Engine) UpdateContext(ctx *token.Context) []string {
	ctx.Bump()
	var changed []string
	for _, name := range e.order {
		tok, ok := e.reg.Get(name)
		if !ok {
			continue
		}
		if tok.UpdateContext(ctx) {
			changed = append(changed, tok.QualifiedName())
		}
	}
	return changed
}

// Unready returns the qualified names of tokens currently unready, sorted.
func (e *Engine) Unready() []string {
	var out []string
	for _, tok := range e.reg.All() {
		if !tok.IsReady() {
			out = append(out, tok.QualifiedName())
		}
	}
	return out
}
