package rbac

import (
	"sync"

	"github.com/fixhub/auth/internal/auth/domain"
)

// Registry resolves a role to the set of permissions it grants, memoizing
// lookups behind a read-through cache. Lookups vastly outnumber changes, so
// reads take only an RLock.
type Registry struct {
	mu    sync.RWMutex
	cache map[domain.Role]map[Permission]struct{}
}

// NewRegistry returns an empty registry; entries populate on first lookup.
func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[domain.Role]map[Permission]struct{}),
	}
}

// PermissionsFor returns the permission set granted to role. Unknown roles
// resolve to the empty set.
func (r *Registry) PermissionsFor(role domain.Role) map[Permission]struct{} {
	r.mu.RLock()
	set, ok := r.cache[role]
	r.mu.RUnlock()
	if ok {
		return set
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have populated the entry while we waited.
	if set, ok := r.cache[role]; ok {
		return set
	}

	set = make(map[Permission]struct{})
	for _, p := range rolePermissions[role] {
		set[p] = struct{}{}
	}
	r.cache[role] = set
	return set
}

// Has reports whether role is granted every one of the required permissions.
func (r *Registry) Has(role domain.Role, required ...Permission) bool {
	set := r.PermissionsFor(role)
	for _, p := range required {
		if _, ok := set[p]; !ok {
			return false
		}
	}
	return true
}

// List returns role's permissions as a sorted-insertion slice of strings,
// suitable for API responses.
func (r *Registry) List(role domain.Role) []string {
	// Walk the source table rather than the cached set to keep the
	// grant-declaration order stable.
	perms := rolePermissions[role]
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}

// Invalidate drops the cached entry for one role.
func (r *Registry) Invalidate(role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, role)
}

// InvalidateAll drops every cached entry.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[domain.Role]map[Permission]struct{})
}
