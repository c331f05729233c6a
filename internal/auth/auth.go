// Package auth selects exactly one authentication mode from the operator's
// input and exchanges it for concrete request credentials.
package auth

import "errors"

// Mode identifies how the exporter authenticates against the server.
type Mode string

const (
	// ModeShare authenticates with a public share ID exchanged for a
	// share token.
	ModeShare Mode = "share"
	// ModeToken authenticates with a pre-issued API bearer token.
	ModeToken Mode = "token"
	// ModeUserPass authenticates by logging in with username and password.
	ModeUserPass Mode = "userpass"
)

var (
	// ErrNoAuth means no credential of any kind was provided.
	ErrNoAuth = errors.New("no auth provided: set one of share ID, token, or username/password")
	// ErrAmbiguousAuth means credentials for more than one mode were provided.
	ErrAmbiguousAuth = errors.New("ambiguous auth: provide exactly one of share ID, token, or username/password")
	// ErrIncompleteCredentials means a username was given without a password
	// or vice versa.
	ErrIncompleteCredentials = errors.New("incomplete credentials: username and password are both required")
)

// Inputs carries the raw credential fields after the CLI layer has merged
// flags over environment values. Empty string means not provided.
type Inputs struct {
	ShareID  string
	Username string
	Password string
	Token    string
}

// Spec is a resolved authentication decision: one mode plus the fields
// that mode needs.
type Spec struct {
	Mode     Mode
	ShareID  string
	Username string
	Password string
	Token    string
}

// Credentials is everything a metrics request needs: the website to query
// and the headers that authorize the request. Built once per run.
type Credentials struct {
	WebsiteID string
	Headers   map[string]string
}

// Resolve decides the authentication mode before any network call happens.
// Exactly one mode must be present; zero or several is a configuration
// error. A lone username or lone password counts as the userpass mode being
// present but incomplete, which is its own distinct error.
func Resolve(in Inputs) (Spec, error) {
	var present []Mode
	if in.ShareID != "" {
		present = append(present, ModeShare)
	}
	if in.Token != "" {
		present = append(present, ModeToken)
	}
	if in.Username != "" || in.Password != "" {
		present = append(present, ModeUserPass)
	}

	switch len(present) {
	case 0:
		return Spec{}, ErrNoAuth
	case 1:
	default:
		return Spec{}, ErrAmbiguousAuth
	}

	mode := present[0]
	if mode == ModeUserPass && (in.Username == "" || in.Password == "") {
		return Spec{}, ErrIncompleteCredentials
	}

	return Spec{
		Mode:     mode,
		ShareID:  in.ShareID,
		Username: in.Username,
		Password: in.Password,
		Token:    in.Token,
	}, nil
}
