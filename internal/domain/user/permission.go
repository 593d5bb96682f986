package user

import "slices"

type Permission string

const (
	// Leave
	PermissionLeaveViewOwn     Permission = "leave.view_own"
	PermissionLeaveCreate      Permission = "leave.create"
	PermissionLeaveViewAll     Permission = "leave.view_all"
	PermissionLeaveApprove     Permission = "leave.approve"
	PermissionLeaveManageTypes Permission = "leave.manage_types"

	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceEdit    Permission = "attendance.edit"

	// Calendar and shifts
	PermissionCalendarView   Permission = "calendar.view"
	PermissionCalendarManage Permission = "calendar.manage"
	PermissionShiftManage    Permission = "shift.manage"
)

var administration = []Permission{
	PermissionLeaveViewOwn,
	PermissionLeaveCreate,
	PermissionLeaveViewAll,
	PermissionLeaveApprove,
	PermissionLeaveManageTypes,
	PermissionAttendanceViewOwn,
	PermissionAttendanceCreate,
	PermissionAttendanceViewAll,
	PermissionAttendanceEdit,
	PermissionCalendarView,
	PermissionCalendarManage,
	PermissionShiftManage,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: administration,
	RoleAdmin: administration,
	RoleHR:    administration,
	RoleManager: {
		// Manager approves for direct reports, the service checks the reporting line
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionCalendarView,
	},
	RoleEmployee: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionCalendarView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	return slices.Contains(permissions, permission)
}
