package record

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go-fitstaff/internal/access"
	common_models "go-fitstaff/internal/common/models"
	"go-fitstaff/internal/features/audit"
	"go-fitstaff/internal/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUnknownEntity     = errors.New("unknown data type")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotAssignable     = errors.New("records of this type cannot be assigned")
)

// ForbiddenError is returned when the subject lacks a permission or the
// record is outside its data access level.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

// Notifier pushes events to connected staff clients
type Notifier interface {
	Broadcast(event string, payload any)
	SendTo(staffIDs []string, event string, payload any)
}

type RecordService interface {
	CreateRecord(ctx context.Context, subject *access.Subject, entity string, req CreateRecordRequest) (*Record, error)
	GetRecord(ctx context.Context, subject *access.Subject, entity, id string) (*Record, error)
	ListRecords(ctx context.Context, subject *access.Subject, entity string, filters []Filter, page, limit int64, sortBy string, sortOrder string) ([]Record, int64, error)
	ListVisible(ctx context.Context, subject *access.Subject, entity string, filters []Filter, max int64) ([]Record, error)
	UpdateRecord(ctx context.Context, subject *access.Subject, entity, id string, data map[string]any) (*Record, error)
	DeleteRecord(ctx context.Context, subject *access.Subject, entity, id string) error
	AssignRecord(ctx context.Context, subject *access.Subject, entity, id string, staffIDs []string) (*Record, error)
	TransitionStatus(ctx context.Context, subject *access.Subject, id, status string) (*Record, error)
}

type RecordServiceImpl struct {
	RecordRepo   RecordRepository
	Evaluator    *access.Evaluator
	AuditService audit.AuditService
	Notifier     Notifier
	Metrics      *metrics.Metrics
}

func NewRecordService(
	recordRepo RecordRepository,
	evaluator *access.Evaluator,
	auditService audit.AuditService,
	notifier Notifier,
	m *metrics.Metrics,
) RecordService {
	return &RecordServiceImpl{
		RecordRepo:   recordRepo,
		Evaluator:    evaluator,
		AuditService: auditService,
		Notifier:     notifier,
		Metrics:      m,
	}
}

func (s *RecordServiceImpl) authorize(subject *access.Subject, e EntityType, action string) error {
	d := s.Evaluator.CheckPermissionWithReason(subject, e.Permission(action))
	if !d.Allowed {
		return &ForbiddenError{Reason: d.Reason}
	}
	return nil
}

func (s *RecordServiceImpl) entity(name string) (EntityType, error) {
	e, ok := LookupEntity(name)
	if !ok {
		return EntityType{}, ErrUnknownEntity
	}
	return e, nil
}

func (s *RecordServiceImpl) load(ctx context.Context, entity, id string) (*Record, error) {
	rec, err := s.RecordRepo.Get(ctx, entity, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// loadModifiable loads a record the subject may change with the given action
func (s *RecordServiceImpl) loadModifiable(ctx context.Context, subject *access.Subject, e EntityType, id, action string) (*Record, error) {
	if err := s.authorize(subject, e, action); err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, e.Name, id)
	if err != nil {
		return nil, err
	}
	if !s.Evaluator.CanModifyData(subject, e.Name, rec.AccessTarget()) {
		return nil, &ForbiddenError{Reason: "outside your data access level"}
	}
	return rec, nil
}

func (s *RecordServiceImpl) CreateRecord(ctx context.Context, subject *access.Subject, entity string, req CreateRecordRequest) (*Record, error) {
	e, err := s.entity(entity)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(subject, e, "create"); err != nil {
		return nil, err
	}
	// Only subjects that see the whole collection may file records for another department
	if req.Department != "" && req.Department != subject.Department &&
		!subject.IsAdmin() && s.Evaluator.DataAccessLevel(subject, e.Name) != access.LevelAll {
		return nil, &ForbiddenError{Reason: "cannot create records for another department"}
	}

	rec := &Record{
		Entity:     e.Name,
		OwnerID:    subject.ID,
		Department: req.Department,
		Data:       req.Data,
		CreatedBy:  subject.ID,
		UpdatedBy:  subject.ID,
	}
	if rec.Data == nil {
		rec.Data = map[string]any{}
	}
	if rec.Department == "" {
		rec.Department = subject.Department
	}

	if e.Assignable {
		assigned := compactIDs(req.AssignedIDs)
		switch {
		case len(assigned) == 0:
			assigned = []string{subject.ID}
		case !slices.Equal(assigned, []string{subject.ID}):
			if err := s.authorize(subject, e, "assign"); err != nil {
				return nil, err
			}
		}
		rec.AssignedIDs = assigned
	}
	if e.HasStatus {
		rec.Status = StatusTodo
	}

	if err := s.RecordRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"created": {New: true},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, e.Name, rec.ID.Hex(), changes)

	if s.Notifier != nil {
		if e.Broadcast {
			s.Notifier.Broadcast(e.Name+".created", rec)
		} else if to := others(rec.AssignedIDs, subject.ID); e.Assignable && len(to) > 0 {
			s.Notifier.SendTo(to, e.Name+".assigned", rec)
		}
	}

	return rec, nil
}

func (s *RecordServiceImpl) GetRecord(ctx context.Context, subject *access.Subject, entity, id string) (*Record, error) {
	e, err := s.entity(entity)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(subject, e, "view"); err != nil {
		return nil, err
	}

	rec, err := s.load(ctx, e.Name, id)
	if err != nil {
		return nil, err
	}
	// Invisible records look missing
	if !s.Evaluator.CanModifyData(subject, e.Name, rec.AccessTarget()) {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *RecordServiceImpl) ListRecords(ctx context.Context, subject *access.Subject, entity string, filters []Filter, page, limit int64, sortBy string, sortOrder string) ([]Record, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	return s.list(ctx, subject, entity, filters, limit, offset, sortBy, sortOrder, true)
}

// ListVisible returns up to max visible records without paging, newest first
func (s *RecordServiceImpl) ListVisible(ctx context.Context, subject *access.Subject, entity string, filters []Filter, max int64) ([]Record, error) {
	records, _, err := s.list(ctx, subject, entity, filters, max, 0, "created_at", "desc", false)
	return records, err
}

func (s *RecordServiceImpl) list(ctx context.Context, subject *access.Subject, entity string, filters []Filter, limit, offset int64, sortBy, sortOrder string, withTotal bool) ([]Record, int64, error) {
	e, err := s.entity(entity)
	if err != nil {
		return nil, 0, err
	}
	if err := s.authorize(subject, e, "view"); err != nil {
		return nil, 0, err
	}

	level := s.Evaluator.DataAccessLevel(subject, e.Name)
	if level == access.LevelNone && !subject.IsAdmin() {
		return []Record{}, 0, nil
	}

	typedFilters, err := prepareFilters(filters)
	if err != nil {
		return nil, 0, err
	}

	sortOrderInt := -1
	if strings.ToLower(sortOrder) == "asc" {
		sortOrderInt = 1
	}

	scope := accessFilter(s.Evaluator, subject, level)
	records, err := s.RecordRepo.List(ctx, e.Name, typedFilters, scope, limit, offset, sortBy, sortOrderInt)
	if err != nil {
		return nil, 0, err
	}

	visible := access.FilterByAccess(s.Evaluator, records, subject, e.Name)
	s.Metrics.ObserveFiltered(e.Name, len(records)-len(visible))

	if !withTotal {
		return visible, int64(len(visible)), nil
	}
	total, err := s.RecordRepo.Count(ctx, e.Name, typedFilters, scope)
	if err != nil {
		return nil, 0, err
	}
	return visible, total, nil
}

// UpdateRecord merges data into the record. Concurrent updates are last write wins.
func (s *RecordServiceImpl) UpdateRecord(ctx context.Context, subject *access.Subject, entity, id string, data map[string]any) (*Record, error) {
	e, err := s.entity(entity)
	if err != nil {
		return nil, err
	}
	rec, err := s.loadModifiable(ctx, subject, e, id, "update")
	if err != nil {
		return nil, err
	}

	if rec.Data == nil {
		rec.Data = map[string]any{}
	}
	set := bson.M{"updated_by": subject.ID}
	changes := make(map[string]common_models.Change)
	for k, newVal := range data {
		if systemFields[k] {
			return nil, fmt.Errorf("field '%s' cannot be updated directly", k)
		}
		oldVal, exists := rec.Data[k]
		if !exists || fmt.Sprint(oldVal) != fmt.Sprint(newVal) {
			changes[k] = common_models.Change{Old: oldVal, New: newVal}
		}
		set[k] = newVal
		rec.Data[k] = newVal
	}
	if len(changes) == 0 {
		return rec, nil
	}

	if err := s.RecordRepo.Update(ctx, e.Name, id, set); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.UpdatedBy = subject.ID
	rec.UpdatedAt = time.Now()

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, e.Name, id, changes)
	return rec, nil
}

func (s *RecordServiceImpl) DeleteRecord(ctx context.Context, subject *access.Subject, entity, id string) error {
	e, err := s.entity(entity)
	if err != nil {
		return err
	}
	if _, err := s.loadModifiable(ctx, subject, e, id, "delete"); err != nil {
		return err
	}

	if err := s.RecordRepo.Delete(ctx, e.Name, id, subject.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, e.Name, id, nil)
	return nil
}

// AssignRecord replaces the assignee list of a task or OT member
func (s *RecordServiceImpl) AssignRecord(ctx context.Context, subject *access.Subject, entity, id string, staffIDs []string) (*Record, error) {
	e, err := s.entity(entity)
	if err != nil {
		return nil, err
	}
	if !e.Assignable {
		return nil, ErrNotAssignable
	}
	rec, err := s.loadModifiable(ctx, subject, e, id, "assign")
	if err != nil {
		return nil, err
	}

	assigned := compactIDs(staffIDs)
	if len(assigned) == 0 {
		return nil, errors.New("at least one staff id is required")
	}

	if err := s.RecordRepo.Update(ctx, e.Name, id, bson.M{"assigned_ids": assigned, "updated_by": subject.ID}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	changes := map[string]common_models.Change{
		"assigned_ids": {Old: rec.AssignedIDs, New: assigned},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionAssign, e.Name, id, changes)

	added := make([]string, 0, len(assigned))
	for _, sid := range assigned {
		if !slices.Contains(rec.AssignedIDs, sid) {
			added = append(added, sid)
		}
	}
	rec.AssignedIDs = assigned
	rec.UpdatedBy = subject.ID

	if s.Notifier != nil && len(added) > 0 {
		s.Notifier.SendTo(others(added, subject.ID), e.Name+".assigned", rec)
	}
	return rec, nil
}

// TransitionStatus moves a task along todo, in_progress, done. Open tasks may be cancelled.
func (s *RecordServiceImpl) TransitionStatus(ctx context.Context, subject *access.Subject, id, status string) (*Record, error) {
	e := Entities[access.DataTasks]
	rec, err := s.loadModifiable(ctx, subject, e, id, "update")
	if err != nil {
		return nil, err
	}

	if !CanTransition(rec.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, rec.Status, status)
	}

	if err := s.RecordRepo.Update(ctx, e.Name, id, bson.M{"status": status, "updated_by": subject.ID}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	changes := map[string]common_models.Change{
		"status": {Old: rec.Status, New: status},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, e.Name, id, changes)

	rec.Status = status
	rec.UpdatedBy = subject.ID
	if s.Notifier != nil {
		s.Notifier.SendTo(others(append([]string{rec.OwnerID}, rec.AssignedIDs...), subject.ID), "tasks.status", rec)
	}
	return rec, nil
}

func compactIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// others drops self from ids
func others(ids []string, self string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != self && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
