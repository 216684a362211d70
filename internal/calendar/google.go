package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleConfig - OAuth-клиент Google
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint переопределяет базовый URL Calendar API (тесты)
	Endpoint string
}

type googleScheduler struct {
	oauth    *oauth2.Config
	endpoint string
}

// NewGoogleScheduler создает планировщик Google Meet
func NewGoogleScheduler(cfg GoogleConfig) MeetingScheduler {
	return &googleScheduler{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcal.CalendarEventsScope},
		},
		endpoint: cfg.Endpoint,
	}
}

func (g *googleScheduler) Enabled() bool { return true }

func (g *googleScheduler) ConnectURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (g *googleScheduler) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}
	return tok, nil
}

func (g *googleScheduler) CreateMeeting(ctx context.Context, token *oauth2.Token, m Meeting) (*MeetingResult, error) {
	ts := g.oauth.TokenSource(ctx, token)

	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if g.endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.endpoint))
	}

	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar client: %w", err)
	}

	duration := m.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}

	ev := &gcal.Event{
		Summary:     m.Summary,
		Description: m.Description,
		Start: &gcal.EventDateTime{
			DateTime: m.Start.Format(time.RFC3339),
			TimeZone: m.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: m.Start.Add(duration).Format(time.RFC3339),
			TimeZone: m.Timezone,
		},
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}
	for _, email := range m.Attendees {
		if email != "" {
			ev.Attendees = append(ev.Attendees, &gcal.EventAttendee{Email: email})
		}
	}

	created, err := srv.Events.Insert("primary", ev).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	link := created.HangoutLink
	if link == "" && created.ConferenceData != nil {
		for _, ep := range created.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				link = ep.Uri
				break
			}
		}
	}
	if link == "" {
		return nil, ErrNoMeetLink
	}

	res := &MeetingResult{EventID: created.Id, MeetLink: link}
	// токен мог обновиться через refresh_token
	if fresh, err := ts.Token(); err == nil && fresh.AccessToken != token.AccessToken {
		res.Token = fresh
	}
	return res, nil
}
