package client

import (
	"github.com/threadmind/threadmind/internal/faults"
	"github.com/threadmind/threadmind/internal/models"
)

// IdentityOperation is the operation name the current identity is cached
// under.
const IdentityOperation = "auth_api.me"

// Mutation names the patcher reacts to.
const (
	MutationLogin          = "auth_api.login"
	MutationRegister       = "auth_api.register"
	MutationLogout         = "auth_api.logout"
	MutationChangePassword = "auth_api.change_password"
)

// MutationResult is the envelope an auth mutation resolves to: either a
// user or inline field errors.
type MutationResult struct {
	User   *models.User
	Errors []faults.FieldError
}

// Identity returns the cached current identity. ok is false when the
// identity has never been resolved; a cached nil user means "resolved as
// logged out".
func (c *Cache) Identity() (*models.User, bool) {
	val, state := c.Resolve(IdentityOperation, nil)
	if state != Hit {
		return nil, false
	}
	user, _ := val.(*models.User)
	return user, true
}

// SetIdentity stores the current identity; nil records "no identity".
func (c *Cache) SetIdentity(user *models.User) {
	c.Store(IdentityOperation, nil, user)
}

// Patcher rewrites the cached identity entry in place after an auth
// mutation, so readers observe the new identity synchronously, without a
// refetch. Feed streams are never touched.
type Patcher struct {
	cache *Cache
}

// NewPatcher creates a patcher over the given cache
func NewPatcher(cache *Cache) *Patcher {
	return &Patcher{cache: cache}
}

// Patch applies one mutation outcome to the identity entry:
// logout always clears it; login, register, and change-password rewrite
// it only when the mutation actually succeeded, so a failed attempt
// leaves the prior identity valid. Unrelated mutations are ignored.
func (p *Patcher) Patch(mutation string, result MutationResult) {
	switch mutation {
	case MutationLogout:
		p.cache.SetIdentity(nil)
	case MutationLogin, MutationRegister, MutationChangePassword:
		if len(result.Errors) > 0 {
			return
		}
		p.cache.SetIdentity(result.User)
	}
}
