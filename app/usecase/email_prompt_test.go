package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mark47B/browser-data-service/app/domain/entity"
)

const signedOutResponse = `{"success":{"isSignedIn":false}}`

func newEmailPromptFixture() (*EmailProtectionPromptHandler, *fakeEmailStore, *fakePoster, *fakeListener) {
	store, poster, listener := &fakeEmailStore{}, &fakePoster{}, &fakeListener{}
	return NewEmailProtectionPromptHandler(store, poster, listener, zap.NewNop()), store, poster, listener
}

func emailResult(choice entity.EmailSignUpChoice) entity.EmailSignUpResult {
	return entity.EmailSignUpResult{
		Choice:     choice,
		URLRequest: &entity.AutofillURLRequest{RequestOrigin: "https://x.com", RequestID: "req-9"},
	}
}

func TestEmailPromptSignUpNotifiesListener(t *testing.T) {
	h, store, poster, listener := newEmailPromptFixture()

	require.NoError(t, h.ProcessResult(context.Background(), emailResult(entity.EmailSignUp)))

	require.Len(t, listener.signUps, 1)
	assert.Equal(t, "req-9", listener.signUps[0].RequestID)
	assert.Empty(t, poster.posted)
	assert.False(t, store.neverAsk)
}

func TestEmailPromptCancelEndsFlow(t *testing.T) {
	h, store, poster, listener := newEmailPromptFixture()

	require.NoError(t, h.ProcessResult(context.Background(), emailResult(entity.EmailSignUpCancel)))

	require.Len(t, poster.posted, 1)
	assert.JSONEq(t, signedOutResponse, poster.posted[0].message)
	assert.Equal(t, "req-9", poster.posted[0].requestID)
	assert.False(t, store.neverAsk)
	assert.Empty(t, listener.signUps)
}

func TestEmailPromptDoNotShowAgainPersistsChoice(t *testing.T) {
	h, store, poster, _ := newEmailPromptFixture()

	require.NoError(t, h.ProcessResult(context.Background(), emailResult(entity.EmailSignUpDoNotShowAgain)))

	assert.True(t, store.neverAsk)
	require.Len(t, poster.posted, 1)
	assert.JSONEq(t, signedOutResponse, poster.posted[0].message)
}

func TestEmailPromptIncompleteResultIsIgnored(t *testing.T) {
	h, _, poster, listener := newEmailPromptFixture()

	require.NoError(t, h.ProcessResult(context.Background(), entity.EmailSignUpResult{Choice: entity.EmailSignUpCancel}))
	require.NoError(t, h.ProcessResult(context.Background(), emailResult(entity.EmailSignUpUnset)))

	assert.Empty(t, poster.posted)
	assert.Empty(t, listener.signUps)
}
