package models

// Roles a user can register with. Role is fixed at registration; there is
// no role-change path.
const (
	RoleAttendee  = "attendee"
	RoleOrganizer = "organizer"
)

func ValidRole(role string) bool {
	return role == RoleAttendee || role == RoleOrganizer
}
