package authz

import (
	"strings"

	"github.com/spec-kit/admin-console/internal/domain"
)

// Evaluate decides whether the permission map grants at least one of the
// required keys. It is pure: no I/O, deterministic for a given input.
//
// A dotted key ("crm.clients.view") is walked one segment at a time and
// grants only if the final segment is exactly true. A plain key grants if
// its value is true, or if the value is a nested map: holding any subtree
// at a key counts as a coarse-grained allow. Absent keys deny. An empty
// required list denies.
func Evaluate(perms domain.PermissionMap, required ...string) bool {
	for _, key := range required {
		if evaluateOne(perms, key) {
			return true
		}
	}
	return false
}

func evaluateOne(perms domain.PermissionMap, key string) bool {
	if perms == nil || key == "" {
		return false
	}

	if strings.Contains(key, ".") {
		current := any(map[string]any(perms))
		for _, part := range strings.Split(key, ".") {
			node, ok := asMap(current)
			if !ok {
				return false
			}
			current, ok = node[part]
			if !ok {
				return false
			}
		}
		granted, ok := current.(bool)
		return ok && granted
	}

	val, ok := perms[key]
	if !ok {
		return false
	}
	if granted, ok := val.(bool); ok {
		return granted
	}
	if node, ok := asMap(val); ok {
		return node != nil
	}
	return false
}

// asMap unwraps both raw JSON maps and typed PermissionMap subtrees.
func asMap(v any) (map[string]any, bool) {
	switch node := v.(type) {
	case map[string]any:
		return node, true
	case domain.PermissionMap:
		return node, true
	default:
		return nil, false
	}
}
