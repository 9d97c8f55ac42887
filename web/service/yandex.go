package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/justaleaf/audiovault/config"
	"github.com/justaleaf/audiovault/logger"
	"github.com/justaleaf/audiovault/util/common"
)

const (
	yandexAuthURL  = "https://oauth.yandex.ru/authorize"
	yandexTokenURL = "https://oauth.yandex.ru/token"
	yandexInfoURL  = "https://login.yandex.ru/info"
)

// YandexConfig holds the OAuth application credentials and provider
// endpoints. It is built once at startup and never read ad hoc mid-request.
type YandexConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	InfoURL      string
}

func NewYandexConfigFromEnv() YandexConfig {
	return YandexConfig{
		ClientID:     config.GetYandexClientID(),
		ClientSecret: config.GetYandexClientSecret(),
		RedirectURI:  config.GetYandexRedirectURI(),
		AuthURL:      yandexAuthURL,
		TokenURL:     yandexTokenURL,
		InfoURL:      yandexInfoURL,
	}
}

// YandexUser is the subset of the provider's userinfo payload we consume.
type YandexUser struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

type yandexTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type YandexService struct {
	cfg         YandexConfig
	httpClient  *http.Client
	userService *UserService
	authService *AuthService
}

func NewYandexService(cfg YandexConfig, userService *UserService, authService *AuthService) *YandexService {
	return &YandexService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userService: userService,
		authService: authService,
	}
}

// AuthorizeURL returns the provider page the client should be sent to.
func (s *YandexService) AuthorizeURL() string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", s.cfg.ClientID)
	params.Set("redirect_uri", s.cfg.RedirectURI)
	return fmt.Sprintf("%s?%s", s.cfg.AuthURL, params.Encode())
}

// ExchangeCode trades an authorization code for a provider access token.
func (s *YandexService) ExchangeCode(code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)

	resp, err := s.httpClient.Post(s.cfg.TokenURL,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logger.Warningf("yandex token exchange failed: status %d, body: %s", resp.StatusCode, string(body))
		return "", common.NewErrorf("token exchange: status %d", resp.StatusCode)
	}

	var token yandexTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("unmarshal token: %w", err)
	}
	if token.AccessToken == "" {
		return "", common.NewError("token exchange: empty access token")
	}
	return token.AccessToken, nil
}

// FetchUserInfo loads the provider's userinfo for an access token.
func (s *YandexService) FetchUserInfo(accessToken string) (*YandexUser, error) {
	req, err := http.NewRequest(http.MethodGet, s.cfg.InfoURL+"?format=json", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logger.Warningf("yandex userinfo failed: status %d, body: %s", resp.StatusCode, string(body))
		return nil, common.NewErrorf("userinfo: status %d", resp.StatusCode)
	}

	var info YandexUser
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("unmarshal userinfo: %w", err)
	}
	if info.ID == "" {
		return nil, common.NewError("userinfo: missing id")
	}
	return &info, nil
}

// LoginWithCode runs the whole callback flow: exchange the code, fetch the
// external identity, resolve it to an internal account and issue an
// internally signed bearer token for it.
func (s *YandexService) LoginWithCode(code string) (string, error) {
	accessToken, err := s.ExchangeCode(code)
	if err != nil {
		return "", err
	}

	info, err := s.FetchUserInfo(accessToken)
	if err != nil {
		return "", err
	}

	user, err := s.userService.GetOrCreateByYandexId(info.ID, info.Login)
	if err != nil {
		return "", err
	}

	return s.authService.GenerateToken(user.Username)
}
