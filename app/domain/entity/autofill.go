package entity

import "time"

type AutofillURLRequest struct {
	RequestOrigin   string
	OriginalPageURL string
	RequestID       string
}

type LoginCredentials struct {
	ID          int64     `bson:"_id"`
	Domain      string    `bson:"domain"`
	Username    string    `bson:"username"`
	Password    string    `bson:"password"`
	Notes       string    `bson:"notes,omitempty"`
	LastUpdated time.Time `bson:"last_updated"`
	LastUsed    time.Time `bson:"last_used,omitempty"`
}

// CredentialSelectionResult is what the credential picker hands back.
type CredentialSelectionResult struct {
	URLRequest  *AutofillURLRequest
	Cancelled   bool
	Credentials *LoginCredentials
}

type AuthStatus int

const (
	AuthSuccess AuthStatus = iota
	AuthUserCancelled
	AuthError
)

type AuthResult struct {
	Status AuthStatus
	Reason string
}

type EmailSignUpChoice int

const (
	EmailSignUpUnset EmailSignUpChoice = iota
	EmailSignUp
	EmailSignUpCancel
	EmailSignUpDoNotShowAgain
)

// EmailSignUpResult is what the in-context email protection prompt hands back.
type EmailSignUpResult struct {
	Choice     EmailSignUpChoice
	URLRequest *AutofillURLRequest
}
