package service

import (
	"context"
	"time"

	"github.com/dmarkin/tenant_portal/internal/logging"
	"github.com/dmarkin/tenant_portal/internal/mykafka"
)

// publishEvent delivers a lifecycle event on a best-effort basis: broker
// failures are logged and never fail the request.
func publishEvent(ctx context.Context, p *mykafka.Producer, topic, key string, event map[string]interface{}) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "error", err)
	}
}

func (s *AuthService) publish(ctx context.Context, topic, key string, event map[string]interface{}) {
	publishEvent(ctx, s.Producer, topic, key, event)
}

func (s *TenantService) publish(ctx context.Context, topic, key string, event map[string]interface{}) {
	publishEvent(ctx, s.Producer, topic, key, event)
}
