package access

// PageAccess maps a dashboard path to the permissions that open it.
// Holding any one of them is enough. Paths missing from the table, or mapped
// to an empty list, are open to everyone, so every protected page must be
// listed here.
var PageAccess = map[string][]Permission{
	"/login":              {},
	"/dashboard":          {PermDashboardView},
	"/tasks":              {PermTasksView, PermTasksViewAll},
	"/tasks/new":          {PermTasksCreate},
	"/schedules":          {PermSchedulesView, PermSchedulesViewAll},
	"/reports/daily":      {PermReportsView, PermReportsViewAll},
	"/reports/weekly":     {PermReportsView, PermReportsViewAll},
	"/reports/monthly":    {PermReportsViewAll},
	"/reports/export":     {PermReportsExport},
	"/announcements":      {PermAnnouncementsView},
	"/announcements/new":  {PermAnnouncementsCreate},
	"/suggestions":        {PermSuggestionsView, PermSuggestionsViewAll},
	"/ot":                 {PermOTView, PermOTViewAll},
	"/staff":              {PermStaffView},
	"/staff/new":          {PermStaffCreate},
	"/members":            {PermMembersView},
	"/sales":              {PermSalesView},
	"/pass":               {PermPassView},
	"/settings":           {PermSettingsView},
	"/admin/permissions":  {PermPermissionsManage},
	"/admin/audit":        {PermSettingsView},
	"/admin/digests":      {PermReportsViewAll},
	"/announcements/feed": {},
}
