package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
)

const EmailGetAliasMessageKey = "ddgEmailProtectionGetAlias"

type ReplyStore interface {
	StoreReply(reply repository.JavaScriptReply) string
}

// EmailAliasListener handles the page asking for a private email alias.
type EmailAliasListener struct {
	gate     *FeatureGate
	replies  ReplyStore
	listener repository.AutofillEventListener
	logger   *zap.Logger
}

func NewEmailAliasListener(gate *FeatureGate, replies ReplyStore, listener repository.AutofillEventListener, logger *zap.Logger) *EmailAliasListener {
	return &EmailAliasListener{
		gate:     gate,
		replies:  replies,
		listener: listener,
		logger:   logger.Named("EmailAliasListener"),
	}
}

func (l *EmailAliasListener) Key() string { return EmailGetAliasMessageKey }

// OnPostMessage asks the host to show the alias prompt when autofill is on
// and the requesting origin is not excepted. The reply handle is kept under
// the returned request id until the prompt answers. An ignored request
// returns an empty id.
func (l *EmailAliasListener) OnPostMessage(ctx context.Context, originalPageURL, sourceOrigin string, reply repository.JavaScriptReply) (string, error) {
	enabled, err := l.enabled(ctx, sourceOrigin)
	if err != nil {
		return "", err
	}
	if !enabled {
		l.logger.Debug("email alias request ignored", zap.String("origin", sourceOrigin))
		return "", nil
	}

	requestID := l.replies.StoreReply(reply)
	l.listener.ShowNativeChooseEmailAddressPrompt(ctx, entity.AutofillURLRequest{
		RequestOrigin:   sourceOrigin,
		OriginalPageURL: originalPageURL,
		RequestID:       requestID,
	})
	return requestID, nil
}

func (l *EmailAliasListener) enabled(ctx context.Context, origin string) (bool, error) {
	on, err := l.gate.IsEnabled(ctx, entity.FeatureAutofill)
	if err != nil || !on {
		return false, err
	}
	excepted, err := l.gate.IsAnException(ctx, entity.FeatureAutofill, origin)
	if err != nil {
		return false, fmt.Errorf("check autofill exception: %w", err)
	}
	return !excepted, nil
}
