package repository

import (
	"context"

	"github.com/MohammedReshid1/furniture/internal/domain/model"
)

// 監査ログの保存・一覧取得の約束。
type AuditLogRepository interface {
	//監査ログを1件保存
	Create(ctx context.Context, log model.AuditLog) error

	//対象リソースのログを新しい順に取得
	ListByResource(ctx context.Context, resourceType model.AuditResourceType, resourceID int64, limit int) ([]model.AuditLog, error)
}
