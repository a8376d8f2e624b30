// Package session holds the signed-in identity of one client and mirrors it
// into the key-value store.
package session

import (
	"context"
	"strings"
	"sync"

	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/storage"

	"go.uber.org/zap"
)

type Role string

const (
	RoleNone   Role = ""
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
	RoleAdmin  Role = "admin"
)

// ParseRole lower-cases and trims r. Unknown roles are kept as-is so that the
// guards can tell "some role" from "no role".
func ParseRole(r string) Role {
	return Role(strings.ToLower(strings.TrimSpace(r)))
}

// Known reports whether r is one of the three dashboard roles.
func (r Role) Known() bool {
	switch r {
	case RoleFarmer, RoleBuyer, RoleAdmin:
		return true
	}
	return false
}

// Storage keys shared with the rest of the client.
const (
	KeyToken    = "token"
	KeyUserName = "userName"
	KeyPhone    = "phone"
	KeyRole     = "role"
)

// Keys lists every key Logout removes.
var Keys = []string{KeyPhone, KeyUserName, KeyRole, KeyToken}

// Snapshot is a copy of the identity fields.
type Snapshot struct {
	UserName string `json:"userName"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
	Token    string `json:"token,omitempty"`
}

// Authenticated reports whether a token is present.
func (s Snapshot) Authenticated() bool { return s.Token != "" }

// Context is the session state for one client. It is safe for concurrent use.
type Context struct {
	mu       sync.RWMutex
	store    storage.Store
	fields   Snapshot
	hydrated bool
}

// New hydrates every field independently from store. A read failure on one
// key leaves that field empty and does not stop the others.
func New(ctx context.Context, store storage.Store) *Context {
	c := &Context{store: store}
	log := logger.FromCtx(ctx)

	read := func(key string) string {
		v, _, err := store.Get(ctx, key)
		if err != nil {
			log.Warn("failed to hydrate session field", zap.String("key", key), zap.Error(err))
			return ""
		}
		return v
	}

	c.fields = Snapshot{
		UserName: read(KeyUserName),
		Phone:    read(KeyPhone),
		Role:     ParseRole(read(KeyRole)),
		Token:    read(KeyToken),
	}
	c.hydrated = true
	return c
}

// Hydrated reports whether the context has been read from storage.
func (c *Context) Hydrated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hydrated
}

func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fields
}

func (c *Context) UserName() string { return c.Snapshot().UserName }
func (c *Context) Phone() string    { return c.Snapshot().Phone }
func (c *Context) Role() Role       { return c.Snapshot().Role }
func (c *Context) Token() string    { return c.Snapshot().Token }

// Authenticated reports whether a token is present, regardless of the other
// fields.
func (c *Context) Authenticated() bool { return c.Snapshot().Authenticated() }

func (c *Context) SetUserName(ctx context.Context, v string) error {
	return c.set(ctx, KeyUserName, v, func(s *Snapshot) { s.UserName = v })
}

func (c *Context) SetPhone(ctx context.Context, v string) error {
	return c.set(ctx, KeyPhone, v, func(s *Snapshot) { s.Phone = v })
}

func (c *Context) SetRole(ctx context.Context, v string) error {
	r := ParseRole(v)
	return c.set(ctx, KeyRole, string(r), func(s *Snapshot) { s.Role = r })
}

func (c *Context) SetToken(ctx context.Context, v string) error {
	return c.set(ctx, KeyToken, v, func(s *Snapshot) { s.Token = v })
}

// SignIn sets all four fields at once, the way a successful login does.
func (c *Context) SignIn(ctx context.Context, userName, phone, role, token string) error {
	if err := c.SetUserName(ctx, userName); err != nil {
		return err
	}
	if err := c.SetPhone(ctx, phone); err != nil {
		return err
	}
	if err := c.SetRole(ctx, role); err != nil {
		return err
	}
	return c.SetToken(ctx, token)
}

// set updates memory and writes value through only when it is non-empty, so
// a transient blank never overwrites a stored value.
func (c *Context) set(ctx context.Context, key, value string, apply func(*Snapshot)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	apply(&c.fields)
	if value == "" {
		return nil
	}
	return c.store.Set(ctx, key, value)
}

// Logout clears every field and removes every session key in one call.
func (c *Context) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fields = Snapshot{}
	return c.store.Remove(ctx, Keys...)
}
