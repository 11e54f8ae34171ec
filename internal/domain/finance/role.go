package finance

import (
	"strings"

	"github.com/InkLinkStudio/studio-crm/internal/httperr"
)

// ===============================
// Roles
// ===============================

type Role string

const (
	RoleOwner     Role = "OWNER"
	RoleManager   Role = "MANAGER"
	RoleArtist    Role = "ARTIST"
	RoleReception Role = "RECEPTION"
)

// ParseRole normalizes the loosely-cased role strings found at the boundary
// (JWT claims, stored rows). Everything past the boundary uses the enum.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleOwner:
		return RoleOwner, nil
	case RoleManager:
		return RoleManager, nil
	case RoleArtist:
		return RoleArtist, nil
	case RoleReception:
		return RoleReception, nil
	}
	return "", httperr.ErrBusiness("invalid_role")
}

// SeesAllFinancials reports whether the role sees every transaction in the
// studio. Artists only ever see their own, pre-resolved to commission.
func (r Role) SeesAllFinancials() bool {
	return r == RoleOwner || r == RoleManager
}
