package constants

import "fmt"

const (
	RoleUser    = "user"
	RoleTeacher = "teacher"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

const (
	ErrOnlyTeachersCanAccess = "Only teachers, managers or admins may use %s."
	ErrOnlyAdminsCanAccess   = "Only managers or admins may use %s."
)

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

var (
	AllRoles = []string{
		RoleUser,
		RoleTeacher,
		RoleManager,
		RoleAdmin,
	}

	// TeacherAndAbove may apply, check and amend templates on assignments.
	TeacherAndAbove = []string{
		RoleTeacher,
		RoleManager,
		RoleAdmin,
	}

	// AdminAndAbove may author and delete templates.
	AdminAndAbove = []string{
		RoleManager,
		RoleAdmin,
	}
)
