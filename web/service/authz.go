package service

import (
	"github.com/iceDeerStudio/Image-Repository-API/database/model"
	"github.com/iceDeerStudio/Image-Repository-API/web/session"
)

// Authorization decisions are pure functions over the principal and the target
// resource's owner and visibility. No storage access happens here.

// CanRead implements the visibility table: public is open to everyone, hidden
// requires authentication, private requires ownership or admin.
func CanRead(p session.Principal, ownerId int, visibility int) bool {
	switch visibility {
	case model.VisibilityPublic:
		return true
	case model.VisibilityHidden:
		return p.Authenticated
	case model.VisibilityPrivate:
		return p.Authenticated && (p.UserId == ownerId || p.PermissionLevel >= model.PermissionAdmin)
	default:
		return false
	}
}

// CanWriteOrDelete allows the owner, or a caller whose permission level is at
// least max(ownerPermissionLevel, admin). For images and albums the owner
// level term is simply admin; for users it is the target user's own level, so
// an admin cannot act on a higher-ranked admin.
func CanWriteOrDelete(p session.Principal, ownerId int, ownerPermissionLevel int) bool {
	if !p.Authenticated {
		return false
	}
	if p.UserId == ownerId {
		return true
	}
	required := ownerPermissionLevel
	if required < model.PermissionAdmin {
		required = model.PermissionAdmin
	}
	return p.PermissionLevel >= required
}

// CanAssignPermissionLevel gates the level requested at user creation. Levels
// below admin are open to anyone, including anonymous registration; admin
// levels require an authenticated caller at or above the requested level.
func CanAssignPermissionLevel(p session.Principal, requestedLevel int) bool {
	if requestedLevel < model.PermissionAdmin {
		return true
	}
	return p.Authenticated && p.PermissionLevel >= requestedLevel
}

// CanSelfUpdateWithoutElevation reports whether an update that was admitted
// only on ownership grounds may proceed: the caller must be the target and the
// access token must come straight from a password login.
func CanSelfUpdateWithoutElevation(p session.Principal, targetUserId int) bool {
	return p.Authenticated && p.UserId == targetUserId && p.Fresh
}
