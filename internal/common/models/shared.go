package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	// ActorIDKey carries the id of the staff member performing the request
	ActorIDKey ContextKey = "actor_id"
)

// WithActor returns ctx carrying the acting staff id
func WithActor(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, ActorIDKey, staffID)
}

// ActorFrom returns the acting staff id, "system" when there is none
func ActorFrom(ctx context.Context) string {
	if id, ok := ctx.Value(ActorIDKey).(string); ok && id != "" {
		return id
	}
	return "system"
}

type AuditAction string

const (
	AuditActionCreate      AuditAction = "CREATE"
	AuditActionUpdate      AuditAction = "UPDATE"
	AuditActionDelete      AuditAction = "DELETE"
	AuditActionLogin       AuditAction = "LOGIN"
	AuditActionLogout      AuditAction = "LOGOUT"
	AuditActionAssign      AuditAction = "ASSIGN"
	AuditActionPermissions AuditAction = "PERMISSIONS"
	AuditActionDigest      AuditAction = "DIGEST"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`
	RecordID  string             `bson:"record_id" json:"record_id"`
	ActorID   string             `bson:"actor_id" json:"actor_id"`
	ActorName string             `bson:"-" json:"actor_name,omitempty"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
