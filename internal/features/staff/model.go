package staff

import (
	"time"

	"go-fitstaff/internal/access"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Staff struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Username   string              `bson:"username" json:"username"`
	Password   string              `bson:"password" json:"-"`
	Name       string              `bson:"name" json:"name"`
	Role       access.Role         `bson:"role" json:"role"`
	Position   access.Position     `bson:"position,omitempty" json:"position,omitempty"`
	Department string              `bson:"department,omitempty" json:"department,omitempty"`
	Overrides  []access.Permission `bson:"overrides,omitempty" json:"overrides,omitempty"`
	Status     string              `bson:"status" json:"status"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}

// AccessTarget treats a staff member as owning and being assigned to their own profile
func (s Staff) AccessTarget() access.Target {
	id := s.ID.Hex()
	return access.Target{
		OwnerID:     id,
		Department:  s.Department,
		AssignedIDs: []string{id},
	}
}

// Subject is the session snapshot of s
func (s Staff) Subject() *access.Subject {
	return &access.Subject{
		ID:         s.ID.Hex(),
		Role:       s.Role,
		Position:   s.Position,
		Department: s.Department,
		Overrides:  append([]access.Permission(nil), s.Overrides...),
	}
}

type CreateStaffRequest struct {
	Username   string   `json:"username"`
	Password   string   `json:"password"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Position   string   `json:"position"`
	Department string   `json:"department"`
	Overrides  []string `json:"overrides"`
}

type UpdateStaffRequest struct {
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	Position   *string `json:"position"`
	Department *string `json:"department"`
	Status     *string `json:"status"`
	Password   *string `json:"password"`
}

type OverridesRequest struct {
	Overrides []string `json:"overrides"`
}
