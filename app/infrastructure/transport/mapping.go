package transport

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/usecase"
)

type saveVisitRequest struct {
	URL    string
	Title  string
	Query  string
	IsSerp bool
}

func toSaveVisitRequest(req *structpb.Struct) (*saveVisitRequest, error) {
	fields := req.GetFields()
	out := &saveVisitRequest{
		URL:    fields["url"].GetStringValue(),
		Title:  fields["title"].GetStringValue(),
		Query:  fields["query"].GetStringValue(),
		IsSerp: fields["isSerp"].GetBoolValue(),
	}
	if out.URL == "" {
		return nil, fmt.Errorf("empty url")
	}
	return out, nil
}

func stringField(req *structpb.Struct, name string) (string, error) {
	v := req.GetFields()[name].GetStringValue()
	if v == "" {
		return "", fmt.Errorf("empty %s", name)
	}
	return v, nil
}

// Entries
func toHistoryDTO(entries []entity.HistoryEntry) (*structpb.Struct, error) {
	list := make([]any, 0, len(entries))
	for _, e := range entries {
		visits := make([]any, 0, len(e.Visits))
		for _, v := range e.Visits {
			visits = append(visits, v.UTC().Format(time.RFC3339Nano))
		}
		dto := map[string]any{
			"kind":   string(e.Kind),
			"url":    e.URL.String(),
			"title":  e.Title,
			"visits": visits,
		}
		if e.Kind == entity.VisitedSERP {
			dto["query"] = e.Query
		}
		list = append(list, dto)
	}
	return structpb.NewStruct(map[string]any{"entries": list})
}

func toFeatureToggleDTO(feature string, enabled bool, exception *bool) (*structpb.Struct, error) {
	dto := map[string]any{
		"feature": feature,
		"enabled": enabled,
	}
	if exception != nil {
		dto["exception"] = *exception
	}
	return structpb.NewStruct(dto)
}

// Autofill
func toURLRequest(req *structpb.Struct) (*entity.AutofillURLRequest, error) {
	requestID, err := stringField(req, "requestId")
	if err != nil {
		return nil, err
	}
	fields := req.GetFields()
	return &entity.AutofillURLRequest{
		RequestOrigin:   fields["origin"].GetStringValue(),
		OriginalPageURL: fields["url"].GetStringValue(),
		RequestID:       requestID,
	}, nil
}

func toCredentialSelection(req *structpb.Struct) (entity.CredentialSelectionResult, entity.AuthResult, error) {
	urlRequest, err := toURLRequest(req)
	if err != nil {
		return entity.CredentialSelectionResult{}, entity.AuthResult{}, err
	}
	fields := req.GetFields()
	result := entity.CredentialSelectionResult{
		URLRequest: urlRequest,
		Cancelled:  fields["cancelled"].GetBoolValue(),
	}
	if c := fields["credentials"].GetStructValue(); c != nil {
		cf := c.GetFields()
		result.Credentials = &entity.LoginCredentials{
			ID:       int64(cf["id"].GetNumberValue()),
			Domain:   cf["domain"].GetStringValue(),
			Username: cf["username"].GetStringValue(),
			Password: cf["password"].GetStringValue(),
		}
	}

	auth := entity.AuthResult{Reason: fields["reason"].GetStringValue()}
	switch fields["authentication"].GetStringValue() {
	case "success":
		auth.Status = entity.AuthSuccess
	case "cancelled":
		auth.Status = entity.AuthUserCancelled
	default:
		auth.Status = entity.AuthError
	}
	return result, auth, nil
}

func toEmailSignUpResult(req *structpb.Struct) (entity.EmailSignUpResult, error) {
	urlRequest, err := toURLRequest(req)
	if err != nil {
		return entity.EmailSignUpResult{}, err
	}
	result := entity.EmailSignUpResult{URLRequest: urlRequest}
	switch choice := req.GetFields()["choice"].GetStringValue(); choice {
	case "signUp":
		result.Choice = entity.EmailSignUp
	case "cancel":
		result.Choice = entity.EmailSignUpCancel
	case "doNotShowAgain":
		result.Choice = entity.EmailSignUpDoNotShowAgain
	default:
		return entity.EmailSignUpResult{}, fmt.Errorf("unknown choice %q", choice)
	}
	return result, nil
}

func toAutofillOutputDTO(requestID string, messages []string, prompts []usecase.PromptKind) (*structpb.Struct, error) {
	msgs := make([]any, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, m)
	}
	kinds := make([]any, 0, len(prompts))
	for _, p := range prompts {
		kinds = append(kinds, string(p))
	}
	return structpb.NewStruct(map[string]any{
		"requestId": requestID,
		"messages":  msgs,
		"prompts":   kinds,
	})
}

func empty() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}
}
