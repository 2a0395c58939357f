package repository

import (
	"context"

	"github.com/mark47B/browser-data-service/app/domain/entity"
)

type CredentialStore interface {
	UpdateCredentials(ctx context.Context, credentials entity.LoginCredentials, refreshLastUpdated bool) error
}

// MessagePoster delivers a JSON message to the page that issued requestID.
type MessagePoster interface {
	PostMessage(ctx context.Context, message string, requestID string) error
}

// JavaScriptReply is the host-side handle used to answer a page message.
type JavaScriptReply interface {
	PostMessage(message string) error
}

type DeviceAuthenticator interface {
	Authenticate(ctx context.Context) entity.AuthResult
}

type PixelSender interface {
	Fire(pixelName string)
}

type EmailInContextDataStore interface {
	OnUserChoseNeverAskAgain(ctx context.Context) error
	HasUserChosenNeverAskAgain(ctx context.Context) (bool, error)
}

// AutofillEventListener is implemented by the host browser tab.
type AutofillEventListener interface {
	OnSelectedToSignUpForInContextEmailProtection(ctx context.Context, req entity.AutofillURLRequest)
	ShowNativeChooseEmailAddressPrompt(ctx context.Context, req entity.AutofillURLRequest)
}
