package record

import (
	"reflect"
	"testing"

	"go-fitstaff/internal/access"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPrepareFilters(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name    string
		filters []Filter
		want    bson.M
		wantErr bool
	}{
		{
			name:    "Simple Equality",
			filters: []Filter{{Field: "title", Operator: "eq", Value: "PT 상담"}},
			want:    bson.M{"title": "PT 상담"},
		},
		{
			name:    "Equality rejects operator object",
			filters: []Filter{{Field: "status", Operator: "eq", Value: map[string]any{"$ne": nil}}},
			wantErr: true,
		},
		{
			name:    "Comparison rejects operator object",
			filters: []Filter{{Field: "sessions", Operator: "gt", Value: bson.M{"$where": "1"}}},
			wantErr: true,
		},
		{
			name:    "Greater Than",
			filters: []Filter{{Field: "sessions", Operator: "gt", Value: 10.0}},
			want:    bson.M{"sessions": bson.M{"$gt": 10.0}},
		},
		{
			name:    "Contains is escaped",
			filters: []Filter{{Field: "title", Operator: "contains", Value: "a+b"}},
			want:    bson.M{"title": bson.M{"$regex": primitive.Regex{Pattern: `a\+b`, Options: "i"}}},
		},
		{
			name:    "In from comma list",
			filters: []Filter{{Field: "period", Operator: "in", Value: "daily, weekly"}},
			want:    bson.M{"period": bson.M{"$in": []interface{}{"daily", "weekly"}}},
		},
		{
			name:    "Numeric between",
			filters: []Filter{{Field: "sessions", Operator: "between", Value: "1,5"}},
			want:    bson.M{"sessions": bson.M{"$gte": 1.0, "$lte": 5.0}},
		},
		{
			name:    "Object id",
			filters: []Filter{{Field: "id", Value: oid.Hex()}},
			want:    bson.M{"_id": oid},
		},
		{
			name:    "Bad id",
			filters: []Filter{{Field: "id", Value: "nope"}},
			wantErr: true,
		},
		{
			name:    "Unknown operator",
			filters: []Filter{{Field: "title", Operator: "like", Value: "x"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prepareFilters(tt.filters)
			if (err != nil) != tt.wantErr {
				t.Fatalf("prepareFilters() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("prepareFilters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessFilter(t *testing.T) {
	strict := access.New(access.Policy{})
	legacy := access.New(access.Policy{AllowMissingDepartment: true})
	s := &access.Subject{ID: "s1", Role: access.RoleFitness, Department: "fitness"}

	tests := []struct {
		name  string
		e     *access.Evaluator
		level access.Level
		want  bson.M
	}{
		{"all", strict, access.LevelAll, bson.M{}},
		{"department", strict, access.LevelDepartment, bson.M{"department": "fitness"}},
		{"department legacy", legacy, access.LevelDepartment, bson.M{"department": bson.M{"$in": bson.A{"fitness", "", nil}}}},
		{"assigned", strict, access.LevelAssigned, bson.M{"assigned_ids": "s1"}},
		{"own", strict, access.LevelOwn, bson.M{"owner_id": "s1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := accessFilter(tt.e, s, tt.level); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("accessFilter() = %v, want %v", got, tt.want)
			}
		})
	}

	admin := &access.Subject{ID: "a", Role: access.RoleAdmin}
	if got := accessFilter(strict, admin, access.LevelNone); len(got) != 0 {
		t.Errorf("admin filter = %v, want empty", got)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusTodo, StatusInProgress, true},
		{"", StatusInProgress, true},
		{StatusInProgress, StatusDone, true},
		{StatusTodo, StatusDone, false},
		{StatusInProgress, StatusCancelled, true},
		{StatusDone, StatusCancelled, false},
		{StatusCancelled, StatusTodo, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
