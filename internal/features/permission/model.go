package permission

import "go-fitstaff/internal/access"

type CheckRequest struct {
	Permissions []string `json:"permissions"`
	// Mode is "any" (default) or "all"
	Mode string `json:"mode,omitempty"`
	// Subject evaluates someone else instead of the caller. Requires permissions.manage.
	Subject *access.Subject `json:"subject,omitempty"`
}

type PermissionResult struct {
	Permission access.Permission `json:"permission"`
	Valid      bool              `json:"valid"`
	access.Decision
}

type CheckResponse struct {
	Allowed bool               `json:"allowed"`
	Mode    string             `json:"mode"`
	Results []PermissionResult `json:"results"`
}

type ModifyRequest struct {
	DataType    string   `json:"data_type"`
	OwnerID     string   `json:"owner_id,omitempty"`
	Department  string   `json:"department,omitempty"`
	AssignedIDs []string `json:"assigned_ids,omitempty"`
}

type ModifyResponse struct {
	DataType string       `json:"data_type"`
	Level    access.Level `json:"level"`
	Allowed  bool         `json:"allowed"`
}

type PageResponse struct {
	Path     string `json:"path"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

type Summary struct {
	Subject     *access.Subject         `json:"subject"`
	RoleLabel   string                  `json:"role_label,omitempty"`
	Level       *int                    `json:"position_level,omitempty"`
	Permissions []access.Permission     `json:"permissions"`
	Pages       []string                `json:"pages"`
	DataAccess  map[string]access.Level `json:"data_access"`
}

type RoleEntry struct {
	Role        access.Role             `json:"role"`
	Label       string                  `json:"label"`
	Department  string                  `json:"department,omitempty"`
	Permissions []access.Permission     `json:"permissions"`
	Pages       []string                `json:"pages"`
	DataAccess  map[string]access.Level `json:"data_access"`
}

type PositionEntry struct {
	Position access.Position `json:"position"`
	Level    int             `json:"level"`
}

type Matrix struct {
	Roles     []RoleEntry         `json:"roles"`
	Positions []PositionEntry     `json:"positions"`
	Pages     map[string][]string `json:"pages"`
}
