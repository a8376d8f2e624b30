package httpapi

import (
	"net/http"

	"farmer-market-web/internal/route"
	"farmer-market-web/internal/session"

	"github.com/gin-gonic/gin"
)

var farmerOnly = []session.Role{session.RoleFarmer}

// navigate answers "what happens if this session opens path": 200 with the
// page, 302 with Location set to the target, or 404.
func navigate(c *gin.Context) {
	ct := container(c)
	d := route.ResolveSession(c.Request.Context(), c.Param("path"), ct.Session, ct.Store)

	switch d.Outcome {
	case route.Redirect:
		c.Header("Location", d.To)
		c.JSON(http.StatusFound, d)
	case route.NotFound:
		c.JSON(http.StatusNotFound, d)
	default:
		c.JSON(http.StatusOK, d)
	}
}

type sessionView struct {
	UserName      string       `json:"userName"`
	Phone         string       `json:"phone"`
	Role          session.Role `json:"role"`
	Authenticated bool         `json:"authenticated"`
	Dashboard     string       `json:"dashboard,omitempty"`
}

func currentSession(c *gin.Context) {
	s := container(c).Session.Snapshot()
	c.JSON(http.StatusOK, sessionView{
		UserName:      s.UserName,
		Phone:         s.Phone,
		Role:          s.Role,
		Authenticated: s.Authenticated(),
		Dashboard:     route.DashboardFor(s.Role),
	})
}

// requireRole applies the guarded-page rules to API calls: no token is 401,
// a role outside roles is 403. An empty roles accepts any signed-in session.
func requireRole(roles ...session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := route.Protected(roles, container(c).Session.Snapshot(), c.Request.URL.Path)
		if d.Outcome == route.Redirect {
			if d.To == route.PathSignIn {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Sign in required", "to": d.To})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not allowed for this role", "to": d.To})
			return
		}
		c.Next()
	}
}

func systemSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, container(c).System.Snapshot(c.Request.Context()))
}
