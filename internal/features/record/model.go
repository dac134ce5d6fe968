package record

import (
	"time"

	"go-fitstaff/internal/access"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

// Record is one document of the shared entity_records collection
type Record struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Entity      string             `bson:"entity" json:"entity"`
	OwnerID     string             `bson:"owner_id" json:"owner_id"`
	Department  string             `bson:"department,omitempty" json:"department,omitempty"`
	AssignedIDs []string           `bson:"assigned_ids,omitempty" json:"assigned_ids,omitempty"`
	Status      string             `bson:"status,omitempty" json:"status,omitempty"`
	Data        map[string]any     `bson:"data" json:"data"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
	CreatedBy   string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy   string             `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	Deleted     bool               `bson:"deleted" json:"-"`
	DeletedAt   *time.Time         `bson:"deleted_at,omitempty" json:"-"`
	DeletedBy   string             `bson:"deleted_by,omitempty" json:"-"`
}

func (r Record) AccessTarget() access.Target {
	return access.Target{
		OwnerID:     r.OwnerID,
		Department:  r.Department,
		AssignedIDs: r.AssignedIDs,
	}
}

type Filter struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"` // eq, ne, gt, lt, gte, lte, in, nin, contains, starts_with, ends_with, between
	Value    interface{} `json:"value"`
}

type CreateRecordRequest struct {
	Department  string         `json:"department,omitempty"`
	AssignedIDs []string       `json:"assigned_ids,omitempty"`
	Data        map[string]any `json:"data"`
}

type AssignRequest struct {
	StaffIDs []string `json:"staff_ids"`
}

type StatusRequest struct {
	Status string `json:"status"`
}
