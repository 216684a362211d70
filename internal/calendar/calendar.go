package calendar

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
)

var (
	ErrDisabled   = errors.New("calendar integration is disabled")
	ErrNoMeetLink = errors.New("calendar event created without a meet link")
)

// DefaultDuration - длительность встречи по умолчанию
const DefaultDuration = 30 * time.Minute

// Meeting - параметры создаваемой встречи
type Meeting struct {
	Summary     string
	Description string
	Start       time.Time
	Duration    time.Duration
	Timezone    string
	Attendees   []string
}

// MeetingResult - созданное событие; Token может быть обновлен провайдером
type MeetingResult struct {
	EventID  string
	MeetLink string
	Token    *oauth2.Token
}

// MeetingOutcome отдается клиенту вместе с интервью
type MeetingOutcome struct {
	Created     bool   `json:"created"`
	Warning     string `json:"warning,omitempty"`
	ConnectURL  string `json:"connectUrl,omitempty"`
	MeetingLink string `json:"meetingLink,omitempty"`
}

// MeetingScheduler создает видеовстречи в календаре работодателя.
// state для ConnectURL непрозрачен: подпись и проверка на стороне сервиса.
type MeetingScheduler interface {
	Enabled() bool
	ConnectURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	CreateMeeting(ctx context.Context, token *oauth2.Token, m Meeting) (*MeetingResult, error)
}

// disabledScheduler - calendar.enabled=false
type disabledScheduler struct{}

func NewDisabledScheduler() MeetingScheduler {
	return disabledScheduler{}
}

func (disabledScheduler) Enabled() bool { return false }

func (disabledScheduler) ConnectURL(string) string { return "" }

func (disabledScheduler) Exchange(context.Context, string) (*oauth2.Token, error) {
	return nil, ErrDisabled
}

func (disabledScheduler) CreateMeeting(context.Context, *oauth2.Token, Meeting) (*MeetingResult, error) {
	return nil, ErrDisabled
}
