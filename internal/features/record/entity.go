package record

import "go-fitstaff/internal/access"

// EntityType binds a stored data type to the permission domain guarding it
type EntityType struct {
	Name       string
	Domain     string
	Assignable bool
	HasStatus  bool
	Broadcast  bool
}

func (e EntityType) Permission(action string) access.Permission {
	return access.Permission(e.Domain + "." + action)
}

// Entities served by the record store. Members, sales and pass live in the
// external membership system.
var Entities = map[string]EntityType{
	access.DataTasks:         {Name: access.DataTasks, Domain: "tasks", Assignable: true, HasStatus: true},
	access.DataSchedules:     {Name: access.DataSchedules, Domain: "schedules"},
	access.DataReports:       {Name: access.DataReports, Domain: "reports"},
	access.DataAnnouncements: {Name: access.DataAnnouncements, Domain: "announcements", Broadcast: true},
	access.DataSuggestions:   {Name: access.DataSuggestions, Domain: "suggestions"},
	access.DataOTMembers:     {Name: access.DataOTMembers, Domain: "ot", Assignable: true},
}

// LookupEntity returns the entity type registered under name
func LookupEntity(name string) (EntityType, bool) {
	e, ok := Entities[name]
	return e, ok
}

var statusTransitions = map[string][]string{
	StatusTodo:       {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDone, StatusCancelled},
}

// CanTransition reports whether a task may move from one status to another.
// Any open task may be cancelled; done and cancelled are final.
func CanTransition(from, to string) bool {
	if from == "" {
		from = StatusTodo
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
