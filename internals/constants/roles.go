package constants

import "fmt"

const (
	RoleUser       = "user"
	RoleStudent    = "student"
	RoleTeacher    = "teacher"
	RoleAccountant = "accountant"
	RoleAdmin      = "admin"
	RoleOwner      = "owner"
)

const ErrOnlyAdminsCanAccess = "Only admins may access %s."

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

var (
	AdminAndAbove = []string{
		RoleAdmin,
		RoleOwner,
	}

	// FinanceStaff may post and approve fee payments.
	FinanceStaff = []string{
		RoleAccountant,
		RoleAdmin,
		RoleOwner,
	}
)
