package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
)

// EmailProtectionPromptHandler reacts to the in-context email protection
// sign-up prompt.
type EmailProtectionPromptHandler struct {
	dataStore repository.EmailInContextDataStore
	poster    repository.MessagePoster
	listener  repository.AutofillEventListener
	writer    ResponseWriter
	logger    *zap.Logger
}

func NewEmailProtectionPromptHandler(
	dataStore repository.EmailInContextDataStore,
	poster repository.MessagePoster,
	listener repository.AutofillEventListener,
	logger *zap.Logger) *EmailProtectionPromptHandler {

	return &EmailProtectionPromptHandler{
		dataStore: dataStore,
		poster:    poster,
		listener:  listener,
		logger:    logger.Named("EmailProtectionPrompt"),
	}
}

func (h *EmailProtectionPromptHandler) ProcessResult(ctx context.Context, result entity.EmailSignUpResult) error {
	if result.Choice == entity.EmailSignUpUnset || result.URLRequest == nil {
		return nil
	}
	req := *result.URLRequest

	switch result.Choice {
	case entity.EmailSignUp:
		h.listener.OnSelectedToSignUpForInContextEmailProtection(ctx, req)
		return nil
	case entity.EmailSignUpDoNotShowAgain:
		h.logger.Info("user selected to not show sign up for email protection again")
		if err := h.dataStore.OnUserChoseNeverAskAgain(ctx); err != nil {
			return fmt.Errorf("save never ask again: %w", err)
		}
	case entity.EmailSignUpCancel:
		h.logger.Info("user cancelled sign up for email protection")
	default:
		return fmt.Errorf("unknown email sign up choice %d", result.Choice)
	}
	return h.notifyEndOfFlow(ctx, req)
}

func (h *EmailProtectionPromptHandler) notifyEndOfFlow(ctx context.Context, req entity.AutofillURLRequest) error {
	message, err := h.writer.GenerateEmailSignedOutResponse()
	if err != nil {
		return err
	}
	return h.poster.PostMessage(ctx, message, req.RequestID)
}
