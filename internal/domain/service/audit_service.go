package service

import (
	"context"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// AuditService publishes audit trail events. Publication is best effort:
// implementations report failures, callers log them and carry on, and the
// primary state change is never rolled back.
// AuditService 发布审计事件。发布是尽力而为的：
// 实现报告失败，调用方记录后继续，主状态变更绝不回滚。
type AuditService interface {
	// LogEvent publishes one event to the audit sink.
	LogEvent(ctx context.Context, event models.AuditEvent) error
}
