package storage

import (
	"context"
	"encoding/json"

	"backstage-api/domain"
)

// EnqueueEvents sends change events to the event queue for downstream
// consumers.
func (s *Storage) EnqueueEvents(ctx context.Context, tenant string, events []domain.ChangeEvent) error {
	for _, ev := range events {
		env := domain.ChangeEnvelope{TenantID: tenant, Event: ev}
		data, err := json.Marshal(env)
		if err != nil {
			return err
		}
		if _, err := s.eventQueue.EnqueueMessage(ctx, string(data), nil); err != nil {
			return err
		}
	}
	return nil
}
