package access

import "strings"

// Permission is a capability identifier of the form "<domain>.<action>".
type Permission string

// Domain returns the part before the first dot.
func (p Permission) Domain() string {
	d, _, _ := strings.Cut(string(p), ".")
	return d
}

// Action returns the part after the first dot, or "" when there is none.
func (p Permission) Action() string {
	_, a, _ := strings.Cut(string(p), ".")
	return a
}

const (
	PermDashboardView Permission = "dashboard.view"

	PermTasksView    Permission = "tasks.view"
	PermTasksViewAll Permission = "tasks.view_all"
	PermTasksCreate  Permission = "tasks.create"
	PermTasksUpdate  Permission = "tasks.update"
	PermTasksDelete  Permission = "tasks.delete"
	PermTasksAssign  Permission = "tasks.assign"

	PermSchedulesView    Permission = "schedules.view"
	PermSchedulesViewAll Permission = "schedules.view_all"
	PermSchedulesCreate  Permission = "schedules.create"
	PermSchedulesUpdate  Permission = "schedules.update"
	PermSchedulesDelete  Permission = "schedules.delete"

	PermReportsView    Permission = "reports.view"
	PermReportsViewAll Permission = "reports.view_all"
	PermReportsCreate  Permission = "reports.create"
	PermReportsUpdate  Permission = "reports.update"
	PermReportsDelete  Permission = "reports.delete"
	PermReportsExport  Permission = "reports.export"

	PermAnnouncementsView   Permission = "announcements.view"
	PermAnnouncementsCreate Permission = "announcements.create"
	PermAnnouncementsUpdate Permission = "announcements.update"
	PermAnnouncementsDelete Permission = "announcements.delete"

	PermSuggestionsView    Permission = "suggestions.view"
	PermSuggestionsViewAll Permission = "suggestions.view_all"
	PermSuggestionsCreate  Permission = "suggestions.create"
	PermSuggestionsUpdate  Permission = "suggestions.update"
	PermSuggestionsDelete  Permission = "suggestions.delete"

	PermOTView    Permission = "ot.view"
	PermOTViewAll Permission = "ot.view_all"
	PermOTCreate  Permission = "ot.create"
	PermOTUpdate  Permission = "ot.update"
	PermOTDelete  Permission = "ot.delete"
	PermOTAssign  Permission = "ot.assign"

	PermStaffView   Permission = "staff.view"
	PermStaffCreate Permission = "staff.create"
	PermStaffUpdate Permission = "staff.update"
	PermStaffDelete Permission = "staff.delete"

	PermMembersView   Permission = "members.view"
	PermMembersCreate Permission = "members.create"
	PermMembersUpdate Permission = "members.update"

	PermSalesView   Permission = "sales.view"
	PermSalesCreate Permission = "sales.create"
	PermSalesUpdate Permission = "sales.update"

	PermPassView   Permission = "pass.view"
	PermPassCreate Permission = "pass.create"
	PermPassUpdate Permission = "pass.update"

	PermSettingsView   Permission = "settings.view"
	PermSettingsUpdate Permission = "settings.update"

	PermPermissionsManage Permission = "permissions.manage"
)

// instructorPermissions is the common base of the lesson departments.
var instructorPermissions = []Permission{
	PermDashboardView,
	PermTasksView, PermTasksCreate, PermTasksUpdate,
	PermSchedulesView, PermSchedulesCreate, PermSchedulesUpdate,
	PermReportsView, PermReportsCreate, PermReportsUpdate,
	PermAnnouncementsView,
	PermSuggestionsView, PermSuggestionsCreate,
	PermOTView, PermOTUpdate,
	PermStaffView,
	PermMembersView,
}

// RolePermissions is the base permission set of every role.
// The admin list must stay a superset of all others; a test enforces it.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermDashboardView,
		PermTasksView, PermTasksViewAll, PermTasksCreate, PermTasksUpdate, PermTasksDelete, PermTasksAssign,
		PermSchedulesView, PermSchedulesViewAll, PermSchedulesCreate, PermSchedulesUpdate, PermSchedulesDelete,
		PermReportsView, PermReportsViewAll, PermReportsCreate, PermReportsUpdate, PermReportsDelete, PermReportsExport,
		PermAnnouncementsView, PermAnnouncementsCreate, PermAnnouncementsUpdate, PermAnnouncementsDelete,
		PermSuggestionsView, PermSuggestionsViewAll, PermSuggestionsCreate, PermSuggestionsUpdate, PermSuggestionsDelete,
		PermOTView, PermOTViewAll, PermOTCreate, PermOTUpdate, PermOTDelete, PermOTAssign,
		PermStaffView, PermStaffCreate, PermStaffUpdate, PermStaffDelete,
		PermMembersView, PermMembersCreate, PermMembersUpdate,
		PermSalesView, PermSalesCreate, PermSalesUpdate,
		PermPassView, PermPassCreate, PermPassUpdate,
		PermSettingsView, PermSettingsUpdate,
		PermPermissionsManage,
	},
	RoleReception: {
		PermDashboardView,
		PermTasksView, PermTasksCreate, PermTasksUpdate,
		PermSchedulesView, PermSchedulesCreate, PermSchedulesUpdate,
		PermReportsView, PermReportsCreate, PermReportsUpdate,
		PermAnnouncementsView,
		PermSuggestionsView, PermSuggestionsCreate,
		PermOTView, PermOTViewAll, PermOTCreate, PermOTUpdate, PermOTAssign,
		PermStaffView,
		PermMembersView, PermMembersCreate, PermMembersUpdate,
		PermSalesView, PermSalesCreate, PermSalesUpdate,
		PermPassView, PermPassCreate, PermPassUpdate,
	},
	RoleFitness: instructorPermissions,
	RolePilates: append(append([]Permission{}, instructorPermissions...), PermSalesView),
	RoleGolf:    append(append([]Permission{}, instructorPermissions...), PermPassView),
}

// IsValidPermission reports whether p is granted by at least one role.
func IsValidPermission(p Permission) bool {
	for _, perms := range RolePermissions {
		for _, candidate := range perms {
			if candidate == p {
				return true
			}
		}
	}
	return false
}
