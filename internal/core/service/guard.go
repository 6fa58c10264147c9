package service

import "github.com/coursestore/storefront/internal/core/domain"

// AuthState reports whether the current tab is logged in.
type AuthState interface {
	IsAuthenticated() bool
}

// Guard decides per navigation whether a screen may render.
type Guard struct {
	session AuthState
}

func NewGuard(session AuthState) *Guard {
	return &Guard{session: session}
}

// Evaluate classifies path against the current session state. It never
// blocks, so the decision is taken before any screen content is produced.
func (g *Guard) Evaluate(path string) domain.Decision {
	access, ok := domain.AccessFor(path)
	if !ok {
		return domain.RedirectTo(domain.PathHome)
	}

	authenticated := g.session.IsAuthenticated()
	switch {
	case access == domain.AccessProtected && !authenticated:
		return domain.RedirectTo(domain.PathLogin)
	case access == domain.AccessAuthOnly && authenticated:
		return domain.RedirectTo(domain.PathHome)
	}
	return domain.Render(path)
}
