package auth

type Authenticator interface {
	IssueSessionToken() (string, error)
	VerifySessionToken(token string) bool
}
