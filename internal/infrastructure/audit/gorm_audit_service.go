package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/service"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
)

var _ service.AuditService = (*GormAuditService)(nil)

// GormAuditService stores audit events in the relational database. It is
// the sink for deployments without a Kafka cluster.
// GormAuditService 将审计事件存储在关系数据库中，供没有 Kafka 集群的部署使用。
type GormAuditService struct {
	db *gorm.DB
}

// NewGormAuditService creates the database-backed audit sink.
func NewGormAuditService(db *gorm.DB) *GormAuditService {
	return &GormAuditService{db: db}
}

func (s *GormAuditService) LogEvent(ctx context.Context, event models.AuditEvent) error {
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return errors.ErrFailedWebhookNotification(string(event.EventType)).WithCause(err)
	}
	return nil
}
