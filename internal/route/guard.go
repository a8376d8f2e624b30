package route

import (
	"context"
	"slices"

	"farmer-market-web/internal/session"
	"farmer-market-web/internal/storage"
)

type Outcome int

const (
	Render Outcome = iota
	Redirect
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case NotFound:
		return "not_found"
	}
	return "unknown"
}

// Decision is the verdict for one navigation.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Page    string  `json:"page,omitempty"`
	To      string  `json:"to,omitempty"`
}

func redirect(to string) Decision { return Decision{Outcome: Redirect, To: to} }

// Protected applies the guarded-page rules. Authentication is checked before
// role. Without a token only setup paths render; with a token the role must
// be in allowed when allowed is non-empty.
func Protected(allowed []session.Role, sess session.Snapshot, path string) Decision {
	if !sess.Authenticated() {
		if IsSetupPath(path) {
			return Decision{Outcome: Render}
		}
		return redirect(PathSignIn)
	}
	if len(allowed) > 0 && !slices.Contains(allowed, sess.Role) {
		return redirect(PathHome)
	}
	return Decision{Outcome: Render}
}

// PublicOnlyGuard sends a signed-in user with a recognized role to their
// dashboard. Anyone else sees the page.
func PublicOnlyGuard(sess session.Snapshot) Decision {
	if sess.Authenticated() && sess.Role.Known() {
		return redirect(DashboardFor(sess.Role))
	}
	return Decision{Outcome: Render}
}

// Resolve matches path against Table and applies its guard. It reads only
// the in-memory session.
func Resolve(path string, sess session.Snapshot) Decision {
	r, ok := Match(path)
	if !ok {
		return Decision{Outcome: NotFound, Page: "NotFound"}
	}

	var d Decision
	switch r.Access {
	case PublicOnly:
		d = PublicOnlyGuard(sess)
	case Guarded:
		d = Protected(r.Roles, sess, path)
	default:
		d = Decision{Outcome: Render}
	}

	if d.Outcome == Render {
		d.Page = r.Page
	}
	return d
}

// ResolveSession resolves path against c. Storage is read only when c is nil
// or has not hydrated yet.
func ResolveSession(ctx context.Context, path string, c *session.Context, fallback storage.Store) Decision {
	if c == nil || !c.Hydrated() {
		if fallback == nil {
			return Resolve(path, session.Snapshot{})
		}
		c = session.New(ctx, fallback)
	}
	return Resolve(path, c.Snapshot())
}
