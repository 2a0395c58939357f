package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/mark47B/browser-data-service/app/domain/entity"
)

type javascriptCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type credentialsSuccess struct {
	Action      string                 `json:"action"`
	Credentials *javascriptCredentials `json:"credentials,omitempty"`
}

type autofillDataResponse struct {
	Success credentialsSuccess `json:"success"`
}

type signedInSuccess struct {
	IsSignedIn bool `json:"isSignedIn"`
}

type emailSignedInResponse struct {
	Success signedInSuccess `json:"success"`
}

// ResponseWriter renders the JSON replies expected by the page-side autofill
// script.
type ResponseWriter struct{}

func (ResponseWriter) GenerateResponseGetAutofillData(credentials entity.LoginCredentials) (string, error) {
	return marshalResponse(autofillDataResponse{Success: credentialsSuccess{
		Action: "fill",
		Credentials: &javascriptCredentials{
			Username: credentials.Username,
			Password: credentials.Password,
		},
	}})
}

func (ResponseWriter) GenerateEmptyResponseGetAutofillData() (string, error) {
	return marshalResponse(autofillDataResponse{Success: credentialsSuccess{Action: "none"}})
}

func (ResponseWriter) GenerateEmailSignedOutResponse() (string, error) {
	return marshalResponse(emailSignedInResponse{Success: signedInSuccess{IsSignedIn: false}})
}

func marshalResponse(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal autofill response: %w", err)
	}
	return string(data), nil
}
