package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"haruhi-agent-be/internal/dto"
	"haruhi-agent-be/internal/entity"
	"haruhi-agent-be/internal/pkg/logger"
	"haruhi-agent-be/internal/pkg/mailer"
	"haruhi-agent-be/internal/pkg/secretbox"
	"haruhi-agent-be/internal/repository/memory"
	"haruhi-agent-be/internal/repository/unitofwork"
	"haruhi-agent-be/pkg/calendar"
	"haruhi-agent-be/pkg/circlo"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	CalendarCredentialsKey = "gcal_credentials"
	anonymousUser          = "anon"
	oauthLinkTitle         = "Connect your Google Calendar"
	oauthLinkBody          = "Untuk menyambungkan Google Calendar Anda, silakan klik: %s"
)

var (
	ErrCalendarNotConfigured = errors.New("google oauth client_id/client_secret/redirect_uri not configured")
	ErrMissingState          = errors.New("missing state")
	ErrMissingCode           = errors.New("missing code")
	ErrLinkDelivery          = errors.New("failed to deliver oauth link")
)

// LinkDeliveryError keeps the upstream answer of a failed Circlo post.
type LinkDeliveryError struct {
	StatusCode int
	Upstream   any
}

func (e *LinkDeliveryError) Error() string {
	return fmt.Sprintf("%s: upstream status %d", ErrLinkDelivery, e.StatusCode)
}

func (e *LinkDeliveryError) Unwrap() error { return ErrLinkDelivery }

type ICalendarService interface {
	Configured() bool
	StartOAuth(ctx context.Context, userID string) (*dto.OAuthStartResponse, error)
	CompleteOAuth(ctx context.Context, state, code string) (*dto.OAuthCallbackResponse, error)
	CreateEvent(ctx context.Context, req dto.CreateEventRequest) calendar.Result
	SendOAuthLink(ctx context.Context, req dto.SendOAuthRequest) (*dto.SendOAuthResponse, error)
}

type CircloPoster interface {
	CreatePost(ctx context.Context, post circlo.Post) circlo.Response
}

type calendarService struct {
	client *calendar.Client
	states *memory.OAuthStateRepository
	poster CircloPoster
	email  mailer.IEmailService
	logger logger.ILogger
}

func NewCalendarService(
	client *calendar.Client,
	states *memory.OAuthStateRepository,
	poster CircloPoster,
	email mailer.IEmailService,
	logger logger.ILogger,
) ICalendarService {
	return &calendarService{
		client: client,
		states: states,
		poster: poster,
		email:  email,
		logger: logger,
	}
}

func (s *calendarService) Configured() bool {
	return s.client != nil && s.client.Configured()
}

func (s *calendarService) StartOAuth(_ context.Context, userID string) (*dto.OAuthStartResponse, error) {
	if !s.Configured() {
		return nil, ErrCalendarNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		userID = anonymousUser
	}
	state := uuid.NewString()
	s.states.Save(state, userID)
	return &dto.OAuthStartResponse{AuthURL: s.client.AuthURL(state), State: state}, nil
}

// CompleteOAuth stores the credential under the user that started the flow.
// An unknown or expired state falls back to the anonymous user.
func (s *calendarService) CompleteOAuth(ctx context.Context, state, code string) (*dto.OAuthCallbackResponse, error) {
	if state == "" {
		return nil, ErrMissingState
	}
	if code == "" {
		return nil, ErrMissingCode
	}
	if !s.Configured() {
		return nil, ErrCalendarNotConfigured
	}

	userID, ok := s.states.Take(state)
	if !ok {
		s.logger.Warn("GCAL", "Unknown OAuth state, storing credential for anonymous user", nil)
		userID = anonymousUser
	}

	if err := s.client.Exchange(ctx, userID, code); err != nil {
		s.logger.Error("GCAL", "OAuth callback failed", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return nil, err
	}

	s.logger.Info("GCAL", "Google Calendar connected", map[string]interface{}{"user_id": userID})
	return &dto.OAuthCallbackResponse{UserID: userID, Authorized: true}, nil
}

func (s *calendarService) CreateEvent(ctx context.Context, req dto.CreateEventRequest) calendar.Result {
	return s.client.CreateEvent(ctx, req.UserID, calendar.EventRequest{
		Summary:   req.Summary,
		StartISO:  req.StartISO,
		EndISO:    req.EndISO,
		Attendees: req.Attendees,
	})
}

// SendOAuthLink delivers a fresh consent link by e-mail when an address is
// given, otherwise as a Circlo post.
func (s *calendarService) SendOAuthLink(ctx context.Context, req dto.SendOAuthRequest) (*dto.SendOAuthResponse, error) {
	start, err := s.StartOAuth(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(req.Message)
	switch {
	case body == "":
		body = fmt.Sprintf(oauthLinkBody, start.AuthURL)
	case !strings.Contains(body, start.AuthURL):
		body = body + "\n\n" + start.AuthURL
	}

	if req.Email != "" {
		if err := s.email.SendCalendarLink(req.Email, start.AuthURL, req.Message); err != nil {
			s.logger.Error("GCAL", "Failed to e-mail OAuth link", map[string]interface{}{"user_id": req.UserID, "error": err.Error()})
			return nil, &LinkDeliveryError{StatusCode: 502, Upstream: err.Error()}
		}
		return &dto.SendOAuthResponse{Sent: true, Channel: "email", AuthURL: start.AuthURL}, nil
	}

	resp := s.poster.CreatePost(ctx, circlo.Post{Title: oauthLinkTitle, Body: body})
	if !resp.OK() {
		s.logger.Error("GCAL", "Failed to post OAuth link", map[string]interface{}{"user_id": req.UserID, "status": resp.StatusCode})
		return nil, &LinkDeliveryError{StatusCode: resp.StatusCode, Upstream: resp.Error}
	}
	return &dto.SendOAuthResponse{Sent: true, Channel: "circlo", AuthURL: start.AuthURL, Circlo: resp}, nil
}

// preferenceTokenStore keeps one sealed OAuth token per user in the preference table.
type preferenceTokenStore struct {
	uowFactory unitofwork.RepositoryFactory
	sealer     *secretbox.Sealer
}

func NewPreferenceTokenStore(uowFactory unitofwork.RepositoryFactory, sealer *secretbox.Sealer) calendar.TokenStore {
	return &preferenceTokenStore{uowFactory: uowFactory, sealer: sealer}
}

func (s *preferenceTokenStore) LoadToken(ctx context.Context, userID string) (*oauth2.Token, error) {
	pref, err := s.uowFactory.NewUnitOfWork(ctx).PreferenceRepository().Get(ctx, userID, CalendarCredentialsKey)
	if err != nil {
		return nil, fmt.Errorf("load calendar credential: %w", err)
	}
	if pref == nil || pref.Value == "" {
		return nil, calendar.ErrNotAuthorized
	}

	plain, err := s.sealer.Open(pref.Value)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal([]byte(plain), &tok); err != nil {
		return nil, fmt.Errorf("decode calendar credential: %w", err)
	}
	return &tok, nil
}

func (s *preferenceTokenStore) SaveToken(ctx context.Context, userID string, token *oauth2.Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return err
	}
	sealed, err := s.sealer.Seal(string(raw))
	if err != nil {
		return err
	}
	return s.uowFactory.NewUnitOfWork(ctx).PreferenceRepository().Upsert(ctx, &entity.Preference{
		UserID: userID,
		Key:    CalendarCredentialsKey,
		Value:  sealed,
	})
}
