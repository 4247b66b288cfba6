// file: internals/helpers/auth/school_context.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys filled by the AuthJWT middleware.
const (
	LocUserID         = "user_id"          // string UUID
	LocRole           = "role"             // string
	LocRolesGlobal    = "roles_global"     // []string
	LocActiveSchoolID = "active_school_id" // string UUID | uuid.UUID
	LocStudentIDs     = "student_ids"      // []string | []any (guardian's children)
)

var (
	ErrSchoolContextMissing   = fiber.NewError(fiber.StatusUnauthorized, "School context not found in token")
	ErrSchoolContextForbidden = fiber.NewError(fiber.StatusForbidden, "You do not have access to this school")
	ErrStudentForbidden       = fiber.NewError(fiber.StatusForbidden, "You do not have access to this student")
)

func asUUID(v any) (uuid.UUID, bool) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, t != uuid.Nil
	case string:
		id, err := uuid.Parse(strings.TrimSpace(t))
		return id, err == nil && id != uuid.Nil
	default:
		return uuid.Nil, false
	}
}

// GetActiveSchoolID returns the tenant every admin query is scoped to.
func GetActiveSchoolID(c *fiber.Ctx) (uuid.UUID, error) {
	if id, ok := asUUID(c.Locals(LocActiveSchoolID)); ok {
		return id, nil
	}
	return uuid.Nil, ErrSchoolContextMissing
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	return asUUID(c.Locals(LocUserID))
}

// Roles merges the legacy single role with roles_global.
func Roles(c *fiber.Ctx) []string {
	out := make([]string, 0, 4)
	if r, ok := c.Locals(LocRole).(string); ok && strings.TrimSpace(r) != "" {
		out = append(out, strings.ToLower(strings.TrimSpace(r)))
	}
	switch t := c.Locals(LocRolesGlobal).(type) {
	case []string:
		for _, r := range t {
			out = append(out, strings.ToLower(strings.TrimSpace(r)))
		}
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				out = append(out, strings.ToLower(strings.TrimSpace(s)))
			}
		}
	}
	return out
}

func HasAnyRole(c *fiber.Ctx, allowed ...string) bool {
	for _, r := range Roles(c) {
		for _, a := range allowed {
			if r == a {
				return true
			}
		}
	}
	return false
}

// StudentIDs lists the students the caller may act for: the student_ids claim,
// plus the caller's own id when they are a student.
func StudentIDs(c *fiber.Ctx) []uuid.UUID {
	out := make([]uuid.UUID, 0, 2)
	switch t := c.Locals(LocStudentIDs).(type) {
	case []string:
		for _, s := range t {
			if id, ok := asUUID(s); ok {
				out = append(out, id)
			}
		}
	case []any:
		for _, it := range t {
			if id, ok := asUUID(it); ok {
				out = append(out, id)
			}
		}
	}
	if HasAnyRole(c, "student") {
		if id, ok := GetUserID(c); ok {
			out = append(out, id)
		}
	}
	return out
}

// EnsureOwnStudent rejects callers that are neither staff nor linked to studentID.
func EnsureOwnStudent(c *fiber.Ctx, studentID uuid.UUID, staffRoles []string) error {
	if HasAnyRole(c, staffRoles...) {
		return nil
	}
	for _, id := range StudentIDs(c) {
		if id == studentID {
			return nil
		}
	}
	return ErrStudentForbidden
}
