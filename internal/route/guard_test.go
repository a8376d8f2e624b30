package route

import (
	"context"
	"testing"

	"farmer-market-web/internal/session"
	"farmer-market-web/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn(role session.Role) session.Snapshot {
	return session.Snapshot{Token: "tok", Role: role, UserName: "Ada"}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		path string
		sess session.Snapshot
		want Decision
	}{
		{"Public page for guest", "/about", session.Snapshot{}, Decision{Outcome: Render, Page: "About"}},
		{"Unknown path", "/nope", signedIn(session.RoleFarmer), Decision{Outcome: NotFound, Page: "NotFound"}},
		{"Guarded page without token", "/marketplace", session.Snapshot{}, Decision{Outcome: Redirect, To: "/signin"}},
		{"Guarded page any role", "/marketplace", signedIn(session.RoleBuyer), Decision{Outcome: Render, Page: "Marketplace"}},
		{"Dashboard wrong role", "/farmerdashboardnew", signedIn(session.RoleBuyer), Decision{Outcome: Redirect, To: "/"}},
		{"Dashboard nested path", "/farmerdashboardnew/deliveries", signedIn(session.RoleFarmer), Decision{Outcome: Render, Page: "FarmerDashboard"}},
		{"Dashboard prefix is not a match", "/farmerdashboardnewer", signedIn(session.RoleFarmer), Decision{Outcome: NotFound, Page: "NotFound"}},
		{"Auth checked before role", "/admindashboard", session.Snapshot{Role: session.RoleBuyer}, Decision{Outcome: Redirect, To: "/signin"}},
		{"Setup path without token", "/businessdetails", session.Snapshot{}, Decision{Outcome: Render, Page: "BusinessDetails"}},
		{"Setup path with token wrong role", "/verificationcode", signedIn(session.RoleFarmer), Decision{Outcome: Redirect, To: "/"}},
		{"Public-only signed in farmer", "/signin", signedIn(session.RoleFarmer), Decision{Outcome: Redirect, To: "/farmerdashboardnew"}},
		{"Public-only signed in buyer", "/signin", signedIn(session.RoleBuyer), Decision{Outcome: Redirect, To: "/buyerdashboard"}},
		{"Public-only signed in admin", "/signup", signedIn(session.RoleAdmin), Decision{Outcome: Redirect, To: "/admindashboard"}},
		{"Public-only token without known role", "/signin", session.Snapshot{Token: "tok", Role: "guest"}, Decision{Outcome: Render, Page: "SignIn"}},
		{"Query string and trailing slash", "/Wallet/?tab=1", signedIn(session.RoleBuyer), Decision{Outcome: Render, Page: "Wallet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.path, tt.sess))
		})
	}
}

func TestDashboardFor(t *testing.T) {
	assert.Equal(t, "/farmerdashboardnew", DashboardFor(session.RoleFarmer))
	assert.Equal(t, "/buyerdashboard", DashboardFor(session.RoleBuyer))
	assert.Equal(t, "/admindashboard", DashboardFor(session.RoleAdmin))
	assert.Empty(t, DashboardFor(session.RoleNone))
}

func TestResolveSession(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()
	require.NoError(t, s.Set(ctx, session.KeyToken, "tok"))
	require.NoError(t, s.Set(ctx, session.KeyRole, "buyer"))

	t.Run("Falls back to storage when no context", func(t *testing.T) {
		d := ResolveSession(ctx, "/buyerdashboard", nil, s)
		assert.Equal(t, Render, d.Outcome)
	})

	t.Run("Prefers hydrated context over storage", func(t *testing.T) {
		c := session.New(ctx, storage.NewMemoryStore())
		d := ResolveSession(ctx, "/buyerdashboard", c, s)
		assert.Equal(t, Decision{Outcome: Redirect, To: "/signin"}, d)
	})

	t.Run("No context and no storage", func(t *testing.T) {
		d := ResolveSession(ctx, "/wallet", nil, nil)
		assert.Equal(t, "/signin", d.To)
	})
}

func TestTable_SetupPathsAreRoutable(t *testing.T) {
	for p := range SetupPaths {
		_, ok := Match(p)
		assert.True(t, ok, p)
	}
}
