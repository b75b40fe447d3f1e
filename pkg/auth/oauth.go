package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/authkit/authkit/pkg/sanitizer"
)

// OAuthConfig describes one external identity provider.
type OAuthConfig struct {
	Provider     string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	Endpoint     oauth2.Endpoint
	UserInfoURL  string
}

// GoogleOAuthConfig returns the provider configuration for Google sign-in.
func GoogleOAuthConfig(clientID, clientSecret, redirectURL string) OAuthConfig {
	return OAuthConfig{
		Provider:     ProviderGoogle,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     endpoints.Google,
		UserInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// GitHubOAuthConfig returns the provider configuration for GitHub sign-in.
func GitHubOAuthConfig(clientID, clientSecret, redirectURL string) OAuthConfig {
	return OAuthConfig{
		Provider:     ProviderGitHub,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     endpoints.GitHub,
		UserInfoURL:  "https://api.github.com/user",
	}
}

// oauthUserInfo is a permissive view over provider userinfo payloads.
// Google uses sub/given_name/family_name/picture, GitHub uses a numeric
// id, name and avatar_url.
type oauthUserInfo struct {
	Sub        string      `json:"sub"`
	ID         json.Number `json:"id"`
	Email      string      `json:"email"`
	GivenName  string      `json:"given_name"`
	FamilyName string      `json:"family_name"`
	Name       string      `json:"name"`
	Picture    string      `json:"picture"`
	AvatarURL  string      `json:"avatar_url"`
}

func (i oauthUserInfo) accountID() string {
	if i.Sub != "" {
		return i.Sub
	}
	return i.ID.String()
}

func (i oauthUserInfo) names() (first, last string) {
	if i.GivenName != "" || i.FamilyName != "" {
		return i.GivenName, i.FamilyName
	}
	first, last, _ = strings.Cut(strings.TrimSpace(i.Name), " ")
	return first, last
}

func (i oauthUserInfo) avatar() string {
	if i.Picture != "" {
		return i.Picture
	}
	return i.AvatarURL
}

var _ Adapter = (*OAuthAdapter)(nil)

// OAuthAdapter authenticates one OAuth callback: it exchanges the
// authorization code, fetches the provider profile, and links the provider
// account to the resolved user.
type OAuthAdapter struct {
	cfg      OAuthConfig
	oauth    *oauth2.Config
	accounts AccountStore
	resolver *Resolver
	code     string

	rawToken  *oauth2.Token
	tokenData *TokenData
	userInfo  *oauthUserInfo
	now       func() time.Time
}

// NewOAuthAdapter builds a single-use adapter for one callback carrying
// the given authorization code.
func NewOAuthAdapter(cfg OAuthConfig, accounts AccountStore, resolver *Resolver, code string) *OAuthAdapter {
	return &OAuthAdapter{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     cfg.Endpoint,
		},
		accounts: accounts,
		resolver: resolver,
		code:     code,
		now:      time.Now,
	}
}

// AuthCodeURL returns the provider consent page URL for the given state.
func (a *OAuthAdapter) AuthCodeURL(state string) string {
	return a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (a *OAuthAdapter) Provider() string { return a.cfg.Provider }

// GetUserToken exchanges the authorization code for provider tokens.
func (a *OAuthAdapter) GetUserToken(ctx context.Context) (*TokenData, error) {
	tok, err := a.oauth.Exchange(ctx, a.code)
	if err != nil {
		return nil, ErrInvalidAuthorizationCode
	}
	a.rawToken = tok
	a.tokenData = &TokenData{
		AccessToken:          tok.AccessToken,
		RefreshToken:         tok.RefreshToken,
		AccessTokenExpiresAt: tok.Expiry,
	}
	return a.tokenData, nil
}

// GetUserResponse fetches the provider profile using the exchanged token.
func (a *OAuthAdapter) GetUserResponse(ctx context.Context) (UserData, error) {
	if a.rawToken == nil {
		return UserData{}, ErrInvalidAuthorizationCode
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.UserInfoURL, nil)
	if err != nil {
		return UserData{}, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	resp, err := a.oauth.Client(ctx, a.rawToken).Do(req)
	if err != nil {
		return UserData{}, fmt.Errorf("failed to fetch provider profile: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return UserData{}, fmt.Errorf("provider profile request returned status %d", resp.StatusCode)
	}

	var info oauthUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return UserData{}, fmt.Errorf("failed to decode provider profile: %w", err)
	}
	if info.Email == "" {
		return UserData{}, ErrProviderEmailMissing
	}
	a.userInfo = &info

	first, last := info.names()
	return UserData{
		Email: sanitizer.NormalizeEmail(info.Email),
		User: UserAttributes{
			IsPasswordAutoset: true,
			Avatar:            info.avatar(),
			FirstName:         first,
			LastName:          last,
		},
	}, nil
}

// CreateUpdateAccount upserts the provider account link with the freshest
// token material.
func (a *OAuthAdapter) CreateUpdateAccount(ctx context.Context, user *User) error {
	if a.tokenData == nil || a.userInfo == nil {
		return ErrInvalidAuthorizationCode
	}
	acc := &Account{
		UserID:               user.ID,
		Provider:             a.cfg.Provider,
		ProviderAccountID:    a.userInfo.accountID(),
		AccessToken:          a.tokenData.AccessToken,
		RefreshToken:         a.tokenData.RefreshToken,
		AccessTokenExpiresAt: a.tokenData.AccessTokenExpiresAt,
		LastConnectedAt:      a.now(),
	}
	if err := a.accounts.UpsertAccount(ctx, acc); err != nil {
		return fmt.Errorf("failed to upsert provider account: %w", err)
	}
	return nil
}

func (a *OAuthAdapter) Authenticate(ctx context.Context, login LoginContext) (*User, bool, error) {
	token, err := a.GetUserToken(ctx)
	if err != nil {
		return nil, false, err
	}
	data, err := a.GetUserResponse(ctx)
	if err != nil {
		return nil, false, err
	}
	return a.resolver.CompleteLoginOrSignup(ctx, data, token, a.Provider(), login, a)
}
