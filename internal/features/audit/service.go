package audit

import (
	"context"
	"time"

	common_models "go-fitstaff/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NameFinder resolves staff ids to display names
type NameFinder interface {
	FindNames(ctx context.Context, ids []string) (map[string]string, error)
}

type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error
	ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo  AuditRepository
	Names NameFinder
}

func NewAuditService(repo AuditRepository, names NameFinder) AuditService {
	return &AuditServiceImpl{
		Repo:  repo,
		Names: names,
	}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	log := common_models.AuditLog{
		ID:        primitive.NewObjectID(),
		Action:    action,
		Module:    module,
		RecordID:  recordID,
		ActorID:   common_models.ActorFrom(ctx),
		Changes:   changes,
		Timestamp: time.Now(),
	}

	return s.Repo.Create(ctx, log)
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit
	logs, err := s.Repo.List(ctx, filters, limit, offset)
	if err != nil {
		return nil, err
	}

	actorIDs := make([]string, 0)
	seen := make(map[string]bool)
	for _, log := range logs {
		if log.ActorID != "system" && log.ActorID != "" && !seen[log.ActorID] {
			seen[log.ActorID] = true
			actorIDs = append(actorIDs, log.ActorID)
		}
	}

	names := map[string]string{}
	if len(actorIDs) > 0 && s.Names != nil {
		// Missing names only degrade the display
		if found, err := s.Names.FindNames(ctx, actorIDs); err == nil {
			names = found
		}
	}

	for i, log := range logs {
		switch {
		case log.ActorID == "system" || log.ActorID == "":
			logs[i].ActorName = "System"
		case names[log.ActorID] != "":
			logs[i].ActorName = names[log.ActorID]
		default:
			logs[i].ActorName = "Unknown User"
		}
	}

	return logs, nil
}
