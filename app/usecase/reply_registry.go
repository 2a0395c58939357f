package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
	"github.com/mark47B/browser-data-service/app/infrastructure/metrics"
)

// ReplyRegistry parks page reply handles under a request id until the
// autofill flow produces an answer. Each reply is used at most once.
type ReplyRegistry struct {
	mu      sync.Mutex
	replies map[string]repository.JavaScriptReply
}

func NewReplyRegistry() *ReplyRegistry {
	return &ReplyRegistry{replies: make(map[string]repository.JavaScriptReply)}
}

func (r *ReplyRegistry) StoreReply(reply repository.JavaScriptReply) string {
	requestID := uuid.NewString()
	r.mu.Lock()
	r.replies[requestID] = reply
	r.mu.Unlock()
	return requestID
}

func (r *ReplyRegistry) PostMessage(_ context.Context, message string, requestID string) error {
	r.mu.Lock()
	reply, ok := r.replies[requestID]
	delete(r.replies, requestID)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("post message to %s: %w", requestID, entity.ErrUnknownRequest)
	}
	if err := reply.PostMessage(message); err != nil {
		metrics.ErrorsTotal.WithLabelValues("autofill_post").Inc()
		return fmt.Errorf("post message to %s: %w", requestID, err)
	}
	metrics.AutofillMessagesPosted.Inc()
	return nil
}

func (r *ReplyRegistry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.replies)
}
