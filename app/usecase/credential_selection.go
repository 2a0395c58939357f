package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
)

const (
	PixelAutofillAuthShown      = "autofill_authentication_to_autofill_shown"
	PixelAutofillAuthSuccessful = "autofill_authentication_to_autofill_auth_successful"
	PixelAutofillAuthCancelled  = "autofill_authentication_to_autofill_auth_cancelled"
	PixelAutofillAuthFailure    = "autofill_authentication_to_autofill_auth_failure"
)

// CredentialSelectionHandler finishes the credential picker flow: after the
// user picks a login and passes device authentication, the credentials are
// sent back to the page; every other outcome sends an empty answer.
type CredentialSelectionHandler struct {
	store         repository.CredentialStore
	authenticator repository.DeviceAuthenticator
	poster        repository.MessagePoster
	pixels        repository.PixelSender
	clock         Clock
	writer        ResponseWriter
	logger        *zap.Logger
}

func NewCredentialSelectionHandler(
	store repository.CredentialStore,
	authenticator repository.DeviceAuthenticator,
	poster repository.MessagePoster,
	pixels repository.PixelSender,
	clock Clock,
	logger *zap.Logger) *CredentialSelectionHandler {

	return &CredentialSelectionHandler{
		store:         store,
		authenticator: authenticator,
		poster:        poster,
		pixels:        pixels,
		clock:         clock,
		logger:        logger.Named("CredentialSelection"),
	}
}

func (h *CredentialSelectionHandler) ProcessResult(ctx context.Context, result entity.CredentialSelectionResult) error {
	h.logger.Debug("processing result")

	req := result.URLRequest
	if req == nil {
		return nil
	}
	if result.Cancelled {
		h.logger.Debug("user cancelled credential selection")
		return h.injectNoCredentials(ctx, *req)
	}
	if result.Credentials == nil {
		return nil
	}

	selected := *result.Credentials
	selected.LastUsed = h.clock.Now()
	if err := h.store.UpdateCredentials(ctx, selected, false); err != nil {
		h.logger.Warn("update last used timestamp", zap.Int64("id", selected.ID), zap.Error(err))
	}

	h.pixels.Fire(PixelAutofillAuthShown)

	auth := h.authenticator.Authenticate(ctx)
	switch auth.Status {
	case entity.AuthSuccess:
		h.logger.Debug("user authenticated, filling credentials")
		h.pixels.Fire(PixelAutofillAuthSuccessful)
		return h.injectCredentials(ctx, selected, *req)
	case entity.AuthUserCancelled:
		h.logger.Debug("user cancelled authentication")
		h.pixels.Fire(PixelAutofillAuthCancelled)
	default:
		h.logger.Warn("authentication failed", zap.String("reason", auth.Reason))
		h.pixels.Fire(PixelAutofillAuthFailure)
	}
	return h.injectNoCredentials(ctx, *req)
}

func (h *CredentialSelectionHandler) injectCredentials(ctx context.Context, credentials entity.LoginCredentials, req entity.AutofillURLRequest) error {
	response, err := h.writer.GenerateResponseGetAutofillData(credentials)
	if err != nil {
		return err
	}
	if err := h.poster.PostMessage(ctx, response, req.RequestID); err != nil {
		return fmt.Errorf("inject credentials: %w", err)
	}
	return nil
}

func (h *CredentialSelectionHandler) injectNoCredentials(ctx context.Context, req entity.AutofillURLRequest) error {
	response, err := h.writer.GenerateEmptyResponseGetAutofillData()
	if err != nil {
		return err
	}
	if err := h.poster.PostMessage(ctx, response, req.RequestID); err != nil {
		return fmt.Errorf("inject no credentials: %w", err)
	}
	return nil
}
