package access

// Level is how much of a data collection a role may see or modify.
type Level string

const (
	LevelAll        Level = "all"
	LevelDepartment Level = "department"
	LevelAssigned   Level = "assigned"
	LevelOwn        Level = "own"
	LevelNone       Level = "none"
)

// Data types known to the stores. The tag is free-form; these are the ones
// the tables below use.
const (
	DataTasks         = "tasks"
	DataSchedules     = "schedules"
	DataReports       = "reports"
	DataAnnouncements = "announcements"
	DataSuggestions   = "suggestions"
	DataOTMembers     = "ot_members"
	DataMembers       = "members"
	DataSales         = "sales"
	DataPass          = "pass"
	DataStaff         = "staff"
)

// DataTypes lists the data types in display order.
var DataTypes = []string{
	DataTasks, DataSchedules, DataReports, DataAnnouncements, DataSuggestions,
	DataOTMembers, DataMembers, DataSales, DataPass, DataStaff,
}

func instructorLevels() map[string]Level {
	return map[string]Level{
		DataTasks:         LevelAssigned,
		DataSchedules:     LevelOwn,
		DataReports:       LevelOwn,
		DataAnnouncements: LevelAll,
		DataSuggestions:   LevelOwn,
		DataOTMembers:     LevelAssigned,
		DataMembers:       LevelDepartment,
		DataStaff:         LevelDepartment,
	}
}

func withLevel(m map[string]Level, dataType string, l Level) map[string]Level {
	m[dataType] = l
	return m
}

// DataAccessLevels is keyed by role, then data type. A missing pair means none.
var DataAccessLevels = map[Role]map[string]Level{
	RoleAdmin: {
		DataTasks:         LevelAll,
		DataSchedules:     LevelAll,
		DataReports:       LevelAll,
		DataAnnouncements: LevelAll,
		DataSuggestions:   LevelAll,
		DataOTMembers:     LevelAll,
		DataMembers:       LevelAll,
		DataSales:         LevelAll,
		DataPass:          LevelAll,
		DataStaff:         LevelAll,
	},
	RoleReception: {
		DataTasks:         LevelDepartment,
		DataSchedules:     LevelDepartment,
		DataReports:       LevelOwn,
		DataAnnouncements: LevelAll,
		DataSuggestions:   LevelOwn,
		DataOTMembers:     LevelAll,
		DataMembers:       LevelAll,
		DataSales:         LevelAll,
		DataPass:          LevelAll,
		DataStaff:         LevelDepartment,
	},
	RoleFitness: instructorLevels(),
	RolePilates: withLevel(instructorLevels(), DataSales, LevelDepartment),
	RoleGolf:    withLevel(instructorLevels(), DataPass, LevelDepartment),
}
