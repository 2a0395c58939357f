package transport

import (
	"context"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/usecase"
)

// AutofillHandlers groups the autofill flows served over RPC.
type AutofillHandlers struct {
	Credentials *usecase.CredentialSelectionHandler
	EmailPrompt *usecase.EmailProtectionPromptHandler
	EmailAlias  *usecase.EmailAliasListener
	Replies     *usecase.ReplyRegistry
	Inbox       *usecase.AutofillInbox
}

type reportedAuthKey struct{}

func withReportedAuth(ctx context.Context, result entity.AuthResult) context.Context {
	return context.WithValue(ctx, reportedAuthKey{}, result)
}

// ReportedAuthenticator trusts the device authentication outcome the client
// sent with the request. A request without one fails authentication.
type ReportedAuthenticator struct{}

func (ReportedAuthenticator) Authenticate(ctx context.Context) entity.AuthResult {
	if result, ok := ctx.Value(reportedAuthKey{}).(entity.AuthResult); ok {
		return result
	}
	return entity.AuthResult{Status: entity.AuthError, Reason: "no device authentication reported"}
}
