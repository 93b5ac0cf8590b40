package webhooks

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/Marshal-AM/cumadmin/pkg/db/models"
	"github.com/Marshal-AM/cumadmin/pkg/enums"
	"github.com/Marshal-AM/cumadmin/pkg/logger"
)

// DeliveryLogRepository exposes persistence for webhook delivery records.
type DeliveryLogRepository interface {
	Insert(ctx context.Context, entry *models.WebhookDeliveryLog) error
}

type deliveryLogRepositoryImpl struct {
	db *gorm.DB
}

// NewDeliveryLogRepository returns a repository bound to the provided database.
func NewDeliveryLogRepository(db *gorm.DB) DeliveryLogRepository {
	return &deliveryLogRepositoryImpl{db: db}
}

func (r *deliveryLogRepositoryImpl) Insert(ctx context.Context, entry *models.WebhookDeliveryLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// DeliveryLog appends an audit record for every dispatch attempt. Recording is
// best-effort: it must never be the reason a status transition fails, so
// internal errors are logged and absorbed.
type DeliveryLog struct {
	repo DeliveryLogRepository
	logg *logger.Logger
}

// NewDeliveryLog wires the delivery log service.
func NewDeliveryLog(repo DeliveryLogRepository, logg *logger.Logger) *DeliveryLog {
	return &DeliveryLog{repo: repo, logg: logg}
}

// Record inserts one append-only entry reflecting a dispatch outcome. The
// payload must be the exact body that was (or would have been) transmitted.
func (l *DeliveryLog) Record(ctx context.Context, event enums.WebhookEventType, payload json.RawMessage, success bool, errMsg string) bool {
	if l == nil || l.repo == nil {
		return false
	}
	entry := &models.WebhookDeliveryLog{
		EventType: event,
		Payload:   payload,
		Success:   success,
	}
	if errMsg != "" {
		entry.ErrorMessage = &errMsg
	}
	if err := l.repo.Insert(ctx, entry); err != nil {
		if l.logg != nil {
			ctx = l.logg.WithEventType(ctx, string(event))
			l.logg.Error(ctx, "failed to record webhook delivery", err)
		}
		return false
	}
	return true
}
