package user

type Permission string

const (
	// Employee Management
	PermissionEmployeeView   Permission = "employee.view_all"
	PermissionEmployeeCreate Permission = "employee.create"
	PermissionEmployeeUpdate Permission = "employee.update"
	PermissionEmployeeDelete Permission = "employee.delete"

	// Department Management
	PermissionDepartmentManage Permission = "department.manage"
	PermissionDepartmentDelete Permission = "department.delete"

	// Attendance Management
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Leave Management
	PermissionLeaveViewAll   Permission = "leave.view_all"
	PermissionLeaveApprove   Permission = "leave.approve"
	PermissionLeaveCancelAny Permission = "leave.cancel_any"
	PermissionLeaveDeleteAny Permission = "leave.delete_any"
	PermissionLeaveStats     Permission = "leave.stats"

	// Payroll Management
	PermissionPayrollManage Permission = "payroll.manage"
	PermissionPayrollDelete Permission = "payroll.delete"

	// Performance Management
	PermissionPerformanceManage Permission = "performance.manage"
	PermissionPerformanceDelete Permission = "performance.delete"
	PermissionPerformanceStats  Permission = "performance.stats"
	// Update or complete reviews the caller does not take part in
	PermissionPerformanceOverride Permission = "performance.override"
)

// RolePermissions maps roles to their permissions. These are fixed allow-lists
// per action, independent of the role hierarchy.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionEmployeeView,
		PermissionEmployeeCreate,
		PermissionEmployeeUpdate,
		PermissionEmployeeDelete,
		PermissionDepartmentManage,
		PermissionDepartmentDelete,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveCancelAny,
		PermissionLeaveDeleteAny,
		PermissionLeaveStats,
		PermissionPayrollManage,
		PermissionPayrollDelete,
		PermissionPerformanceManage,
		PermissionPerformanceDelete,
		PermissionPerformanceStats,
		PermissionPerformanceOverride,
	},
	RoleHR: {
		PermissionEmployeeView,
		PermissionEmployeeCreate,
		PermissionEmployeeUpdate,
		PermissionEmployeeDelete,
		PermissionDepartmentManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveCancelAny,
		PermissionLeaveDeleteAny,
		PermissionLeaveStats,
		PermissionPayrollManage,
		PermissionPerformanceManage,
		PermissionPerformanceDelete,
		PermissionPerformanceStats,
		PermissionPerformanceOverride,
	},
	RoleManager: {
		PermissionEmployeeView,
		PermissionEmployeeCreate,
		PermissionEmployeeUpdate,
		PermissionAttendanceViewAll,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveCancelAny,
		PermissionPerformanceManage,
	},
	RoleEmployee: {
		// Self-service operations are checked by ownership, not permission
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
