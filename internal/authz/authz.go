// Package authz holds the pure authorization predicates used by the HTTP
// layer. Predicates take already-loaded entities; fetching the live records
// and redirecting on a false result stay with the caller.
package authz

import "oacmarket/internal/models"

// HasRole reports whether the user exists and carries the given role.
func HasRole(user *models.User, role models.Role) bool {
	return user != nil && user.Role == role
}

// IsAdmin reports whether the user exists and has the admin flag set.
func IsAdmin(user *models.User) bool {
	return user != nil && user.IsAdmin
}

// CanMutate reports whether the session identity owns the target entity.
// A zero owner never matches: an unresolved entity is a denial.
func CanMutate(identityID, targetOwnerID uint) bool {
	return identityID != 0 && identityID == targetOwnerID
}
