package auth

import (
	"context"
	"fmt"
	"log/slog"
)

// API is the slice of the analytics server the exchanger talks to.
type API interface {
	// Share exchanges a public share ID for a share token and, when the
	// server reports one, the website ID the share is scoped to.
	Share(ctx context.Context, shareID string) (token, websiteID string, err error)
	// Login exchanges username/password for a bearer token.
	Login(ctx context.Context, username, password string) (token string, err error)
}

// Header names understood by the metrics endpoint.
const (
	shareTokenHeader    = "x-umami-share-token"
	authorizationHeader = "authorization"
)

// Exchange turns a resolved auth spec into request credentials, performing
// at most one handshake round trip. websiteID is the operator-supplied
// website ID; for the share mode it takes precedence over the ID returned
// by the share endpoint, for the other modes it is required because no
// discovery path exists.
func Exchange(ctx context.Context, api API, logger *slog.Logger, spec Spec, websiteID string) (Credentials, error) {
	switch spec.Mode {
	case ModeShare:
		token, sharedWebsiteID, err := api.Share(ctx, spec.ShareID)
		if err != nil {
			return Credentials{}, err
		}
		effective := websiteID
		if effective == "" {
			effective = sharedWebsiteID
		} else if sharedWebsiteID != "" && sharedWebsiteID != effective {
			// The explicit flag wins even when the share is scoped to a
			// different website. Surfaced at debug so a mismatched export
			// can be diagnosed.
			logger.Debug("website ID overrides the one from the share response",
				slog.String("flag", effective),
				slog.String("share", sharedWebsiteID))
		}
		if effective == "" {
			return Credentials{}, fmt.Errorf("share %s did not report a website ID; pass one explicitly", spec.ShareID)
		}
		return Credentials{
			WebsiteID: effective,
			Headers:   map[string]string{shareTokenHeader: token},
		}, nil

	case ModeToken:
		if websiteID == "" {
			return Credentials{}, fmt.Errorf("website ID is required with token auth")
		}
		return Credentials{
			WebsiteID: websiteID,
			Headers:   map[string]string{authorizationHeader: "Bearer " + spec.Token},
		}, nil

	case ModeUserPass:
		if websiteID == "" {
			return Credentials{}, fmt.Errorf("website ID is required with username/password auth")
		}
		token, err := api.Login(ctx, spec.Username, spec.Password)
		if err != nil {
			return Credentials{}, err
		}
		return Credentials{
			WebsiteID: websiteID,
			Headers:   map[string]string{authorizationHeader: "Bearer " + token},
		}, nil

	default:
		return Credentials{}, fmt.Errorf("unknown auth mode %q", spec.Mode)
	}
}
