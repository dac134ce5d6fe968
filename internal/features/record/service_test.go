package record

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"go-fitstaff/internal/access"
	common_models "go-fitstaff/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MockRecordRepo struct {
	records          map[string]*Record
	CapturedAccess   bson.M
	CapturedSortBy   string
	CapturedOrder    int
	CapturedLimit    int64
	CapturedDeleteID string
	CapturedStaffID  string
}

func newMockRepo(records ...*Record) *MockRecordRepo {
	m := &MockRecordRepo{records: map[string]*Record{}}
	for _, r := range records {
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		m.records[r.ID.Hex()] = r
	}
	return m
}

func (m *MockRecordRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *MockRecordRepo) Create(ctx context.Context, r *Record) error {
	r.ID = primitive.NewObjectID()
	m.records[r.ID.Hex()] = r
	return nil
}

func (m *MockRecordRepo) Get(ctx context.Context, entity, id string) (*Record, error) {
	r, ok := m.records[id]
	if !ok || r.Entity != entity || r.Deleted {
		return nil, mongo.ErrNoDocuments
	}
	cp := *r
	return &cp, nil
}

// List ignores the access filter so the evaluator pass is what hides records.
// It honours created_at ordering and the limit.
func (m *MockRecordRepo) List(ctx context.Context, entity string, filter bson.M, accessFilter bson.M, limit, offset int64, sortBy string, sortOrder int) ([]Record, error) {
	m.CapturedAccess = accessFilter
	m.CapturedSortBy = sortBy
	m.CapturedOrder = sortOrder
	m.CapturedLimit = limit
	out := []Record{}
	for _, r := range m.records {
		if r.Entity == entity && !r.Deleted {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if sortOrder < 0 {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockRecordRepo) Count(ctx context.Context, entity string, filter bson.M, accessFilter bson.M) (int64, error) {
	return int64(len(m.records)), nil
}

func (m *MockRecordRepo) Update(ctx context.Context, entity, id string, set bson.M) error {
	r, ok := m.records[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for k, v := range set {
		switch k {
		case "status":
			r.Status = v.(string)
		case "assigned_ids":
			r.AssignedIDs = v.([]string)
		case "updated_by":
			r.UpdatedBy = v.(string)
		default:
			r.Data[k] = v
		}
	}
	return nil
}

func (m *MockRecordRepo) Delete(ctx context.Context, entity, id string, staffID string) error {
	m.CapturedDeleteID = id
	m.CapturedStaffID = staffID
	if r, ok := m.records[id]; ok {
		r.Deleted = true
	}
	return nil
}

func (m *MockRecordRepo) Aggregate(ctx context.Context, entity string, pipeline mongo.Pipeline) ([]bson.M, error) {
	return nil, nil
}

type MockAuditService struct {
	Actions []common_models.AuditAction
}

func (m *MockAuditService) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	m.Actions = append(m.Actions, action)
	return nil
}

func (m *MockAuditService) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return []common_models.AuditLog{}, nil
}

type sentEvent struct {
	event string
	to    []string
}

type MockNotifier struct {
	Broadcasts []string
	Sent       []sentEvent
}

func (m *MockNotifier) Broadcast(event string, payload any) {
	m.Broadcasts = append(m.Broadcasts, event)
}

func (m *MockNotifier) SendTo(staffIDs []string, event string, payload any) {
	m.Sent = append(m.Sent, sentEvent{event: event, to: staffIDs})
}

var (
	admin     = &access.Subject{ID: "admin", Role: access.RoleAdmin}
	reception = &access.Subject{ID: "desk", Role: access.RoleReception, Department: "reception"}
	trainer   = &access.Subject{ID: "t1", Role: access.RoleFitness, Department: "fitness"}
	trainer2  = &access.Subject{ID: "t2", Role: access.RoleFitness, Department: "fitness"}
)

func newTestService(repo *MockRecordRepo) (*RecordServiceImpl, *MockAuditService, *MockNotifier) {
	aud := &MockAuditService{}
	n := &MockNotifier{}
	svc := NewRecordService(repo, access.New(access.Policy{}), aud, n, nil).(*RecordServiceImpl)
	return svc, aud, n
}

func TestListRecordsFiltersByAccess(t *testing.T) {
	repo := newMockRepo(
		&Record{Entity: "tasks", OwnerID: "desk", AssignedIDs: []string{"t1"}, Data: map[string]any{}},
		&Record{Entity: "tasks", OwnerID: "desk", AssignedIDs: []string{"t2"}, Data: map[string]any{}},
		&Record{Entity: "tasks", OwnerID: "t1", AssignedIDs: []string{"t1", "t2"}, Data: map[string]any{}},
		&Record{Entity: "reports", OwnerID: "t1", Data: map[string]any{}},
	)
	svc, _, _ := newTestService(repo)
	ctx := context.Background()

	got, _, err := svc.ListRecords(ctx, trainer, "tasks", nil, 1, 10, "", "")
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("trainer sees %d tasks, want 2", len(got))
	}
	if repo.CapturedAccess["assigned_ids"] != "t1" {
		t.Errorf("pre-filter = %v, want assigned_ids t1", repo.CapturedAccess)
	}

	all, _, _ := svc.ListRecords(ctx, admin, "tasks", nil, 1, 10, "", "")
	if len(all) != 3 {
		t.Errorf("admin sees %d tasks, want 3", len(all))
	}
}

func TestListRecordsRequiresViewPermission(t *testing.T) {
	svc, _, _ := newTestService(newMockRepo())
	_, _, err := svc.ListRecords(context.Background(), nil, "tasks", nil, 1, 10, "", "")
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) || forbidden.Reason != access.ReasonLoginRequired {
		t.Errorf("ListRecords(nil) error = %v, want login required", err)
	}

	if _, _, err := svc.ListRecords(context.Background(), admin, "lockers", nil, 1, 10, "", ""); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("unknown entity error = %v", err)
	}
}

func TestCreateRecordDefaults(t *testing.T) {
	repo := newMockRepo()
	svc, aud, n := newTestService(repo)
	ctx := context.Background()

	rec, err := svc.CreateRecord(ctx, trainer, "tasks", CreateRecordRequest{Data: map[string]any{"title": "장비 점검"}})
	if err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}
	if rec.OwnerID != "t1" || rec.Department != "fitness" || rec.Status != StatusTodo {
		t.Errorf("unexpected defaults %+v", rec)
	}
	if len(rec.AssignedIDs) != 1 || rec.AssignedIDs[0] != "t1" {
		t.Errorf("AssignedIDs = %v, want self", rec.AssignedIDs)
	}
	if len(aud.Actions) != 1 || aud.Actions[0] != common_models.AuditActionCreate {
		t.Errorf("audit = %v", aud.Actions)
	}
	if len(n.Sent) != 0 {
		t.Errorf("self assigned task should notify nobody, got %+v", n.Sent)
	}

	// Assigning someone else needs tasks.assign
	_, err = svc.CreateRecord(ctx, trainer, "tasks", CreateRecordRequest{AssignedIDs: []string{"t2"}})
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Errorf("assign without permission error = %v", err)
	}
}

func TestCreateAnnouncementBroadcasts(t *testing.T) {
	svc, _, n := newTestService(newMockRepo())

	if _, err := svc.CreateRecord(context.Background(), admin, "announcements", CreateRecordRequest{Data: map[string]any{"title": "휴관 안내"}}); err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}
	if len(n.Broadcasts) != 1 || n.Broadcasts[0] != "announcements.created" {
		t.Errorf("broadcasts = %v", n.Broadcasts)
	}

	_, err := svc.CreateRecord(context.Background(), trainer, "announcements", CreateRecordRequest{})
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) || forbidden.Reason != access.ReasonInsufficientRole {
		t.Errorf("trainer announcement error = %v", err)
	}
}

func TestUpdateRecordChecksOwnership(t *testing.T) {
	own := &Record{Entity: "reports", OwnerID: "t1", Department: "fitness", Data: map[string]any{"summary": "old"}}
	other := &Record{Entity: "reports", OwnerID: "t2", Department: "fitness", Data: map[string]any{}}
	repo := newMockRepo(own, other)
	svc, aud, _ := newTestService(repo)
	ctx := context.Background()

	rec, err := svc.UpdateRecord(ctx, trainer, "reports", own.ID.Hex(), map[string]any{"summary": "new"})
	if err != nil {
		t.Fatalf("UpdateRecord() error = %v", err)
	}
	if rec.Data["summary"] != "new" {
		t.Errorf("summary = %v", rec.Data["summary"])
	}
	if aud.Actions[len(aud.Actions)-1] != common_models.AuditActionUpdate {
		t.Errorf("missing update audit")
	}

	_, err = svc.UpdateRecord(ctx, trainer, "reports", other.ID.Hex(), map[string]any{"summary": "x"})
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Errorf("update of foreign report error = %v, want forbidden", err)
	}

	if _, err := svc.UpdateRecord(ctx, trainer, "reports", own.ID.Hex(), map[string]any{"owner_id": "t2"}); err == nil {
		t.Errorf("system field update should fail")
	}
}

func TestGetRecordHidesInvisible(t *testing.T) {
	other := &Record{Entity: "reports", OwnerID: "t2", Data: map[string]any{}}
	svc, _, _ := newTestService(newMockRepo(other))

	if _, err := svc.GetRecord(context.Background(), trainer, "reports", other.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRecord() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetRecord(context.Background(), trainer2, "reports", other.ID.Hex()); err != nil {
		t.Errorf("owner GetRecord() error = %v", err)
	}
}

func TestServiceSoftDeletePassesStaffID(t *testing.T) {
	rec := &Record{Entity: "tasks", OwnerID: "desk", Department: "reception", Data: map[string]any{}}
	repo := newMockRepo(rec)
	svc, _, _ := newTestService(repo)

	if err := svc.DeleteRecord(context.Background(), admin, "tasks", rec.ID.Hex()); err != nil {
		t.Fatalf("DeleteRecord() error = %v", err)
	}
	if repo.CapturedDeleteID != rec.ID.Hex() || repo.CapturedStaffID != "admin" {
		t.Errorf("delete captured (%s, %s)", repo.CapturedDeleteID, repo.CapturedStaffID)
	}
	if _, err := svc.GetRecord(context.Background(), admin, "tasks", rec.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted record still visible: %v", err)
	}
}

func TestDeleteRequiresPermission(t *testing.T) {
	rec := &Record{Entity: "tasks", OwnerID: "desk", Department: "reception", Data: map[string]any{}}
	svc, _, _ := newTestService(newMockRepo(rec))

	err := svc.DeleteRecord(context.Background(), reception, "tasks", rec.ID.Hex())
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Errorf("reception delete error = %v, want forbidden", err)
	}
}

func TestAssignRecord(t *testing.T) {
	rec := &Record{Entity: "tasks", OwnerID: "admin", AssignedIDs: []string{"t1"}, Data: map[string]any{}}
	svc, aud, n := newTestService(newMockRepo(rec))
	ctx := context.Background()

	got, err := svc.AssignRecord(ctx, admin, "tasks", rec.ID.Hex(), []string{"t1", "t2", "t2", " "})
	if err != nil {
		t.Fatalf("AssignRecord() error = %v", err)
	}
	if len(got.AssignedIDs) != 2 {
		t.Errorf("AssignedIDs = %v", got.AssignedIDs)
	}
	if aud.Actions[len(aud.Actions)-1] != common_models.AuditActionAssign {
		t.Errorf("missing assign audit")
	}
	if len(n.Sent) != 1 || len(n.Sent[0].to) != 1 || n.Sent[0].to[0] != "t2" {
		t.Errorf("only the new assignee should be notified, got %+v", n.Sent)
	}

	if _, err := svc.AssignRecord(ctx, admin, "reports", rec.ID.Hex(), []string{"t1"}); !errors.Is(err, ErrNotAssignable) {
		t.Errorf("assign report error = %v", err)
	}
	var forbidden *ForbiddenError
	if _, err := svc.AssignRecord(ctx, trainer, "tasks", rec.ID.Hex(), []string{"t1"}); !errors.As(err, &forbidden) {
		t.Errorf("trainer assign error = %v", err)
	}
}

func TestTransitionStatus(t *testing.T) {
	rec := &Record{Entity: "tasks", OwnerID: "admin", AssignedIDs: []string{"t1"}, Status: StatusTodo, Data: map[string]any{}}
	svc, _, _ := newTestService(newMockRepo(rec))
	ctx := context.Background()

	if _, err := svc.TransitionStatus(ctx, trainer, rec.ID.Hex(), StatusDone); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("todo to done error = %v", err)
	}
	got, err := svc.TransitionStatus(ctx, trainer, rec.ID.Hex(), StatusInProgress)
	if err != nil {
		t.Fatalf("TransitionStatus() error = %v", err)
	}
	if got.Status != StatusInProgress {
		t.Errorf("Status = %s", got.Status)
	}
	if _, err := svc.TransitionStatus(ctx, trainer2, rec.ID.Hex(), StatusDone); err == nil {
		t.Errorf("unassigned trainer should not move the task")
	}
}

func TestListVisibleNewestFirst(t *testing.T) {
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	repo := newMockRepo()
	for i := 0; i < 5; i++ {
		r := &Record{Entity: "reports", OwnerID: "admin", CreatedAt: base.Add(time.Duration(i) * time.Hour), Data: map[string]any{}}
		r.ID = primitive.NewObjectID()
		repo.records[r.ID.Hex()] = r
	}
	svc, _, _ := newTestService(repo)

	got, err := svc.ListVisible(context.Background(), admin, "reports", nil, 3)
	if err != nil {
		t.Fatalf("ListVisible() error = %v", err)
	}
	if repo.CapturedSortBy != "created_at" || repo.CapturedOrder != -1 || repo.CapturedLimit != 3 {
		t.Errorf("List called with sort=%s order=%d limit=%d", repo.CapturedSortBy, repo.CapturedOrder, repo.CapturedLimit)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if !got[0].CreatedAt.Equal(base.Add(4 * time.Hour)) {
		t.Errorf("first record created %v, want the newest", got[0].CreatedAt)
	}
}

func TestCreateRecordForeignDepartment(t *testing.T) {
	tests := []struct {
		name    string
		subject *access.Subject
		entity  string
		dept    string
		wantErr bool
	}{
		{"instructor into reception", trainer, "schedules", "reception", true},
		{"reception into fitness", reception, "schedules", "fitness", true},
		{"own department explicit", trainer, "schedules", "fitness", false},
		{"department omitted", trainer, "schedules", "", false},
		{"admin anywhere", admin, "schedules", "golf", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			svc, _, _ := newTestService(repo)

			rec, err := svc.CreateRecord(context.Background(), tt.subject, tt.entity, CreateRecordRequest{Department: tt.dept})
			if tt.wantErr {
				var fe *ForbiddenError
				if !errors.As(err, &fe) {
					t.Fatalf("CreateRecord() error = %v, want ForbiddenError", err)
				}
				if len(repo.records) != 0 {
					t.Errorf("forbidden record was stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateRecord() error = %v", err)
			}
			if tt.dept == "" && rec.Department != tt.subject.Department {
				t.Errorf("Department = %q, want subject's %q", rec.Department, tt.subject.Department)
			}
		})
	}
}
