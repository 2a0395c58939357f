package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark47B/browser-data-service/app/domain/entity"
)

func TestReplyRegistryDeliversOnce(t *testing.T) {
	registry := NewReplyRegistry()
	reply := &fakeReply{}

	requestID := registry.StoreReply(reply)
	_, err := uuid.Parse(requestID)
	require.NoError(t, err)

	require.NoError(t, registry.PostMessage(context.Background(), `{"ok":true}`, requestID))
	assert.Equal(t, []string{`{"ok":true}`}, reply.messages)
	assert.Zero(t, registry.Pending())

	err = registry.PostMessage(context.Background(), `{"ok":true}`, requestID)
	assert.ErrorIs(t, err, entity.ErrUnknownRequest)
}

func TestReplyRegistryIssuesDistinctIDs(t *testing.T) {
	registry := NewReplyRegistry()

	a := registry.StoreReply(&fakeReply{})
	b := registry.StoreReply(&fakeReply{})

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, registry.Pending())
}
