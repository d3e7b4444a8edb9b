package settings

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"dario.cat/mergo"
	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	ViewMonth = "month"
	ViewWeek  = "week"
	ViewDay   = "day"
)

var ErrUnknownKey = eris.New("unknown setting")

var newsletterTimePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

var weekdayNames = []string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"}

// Settings are the calendar's display and newsletter preferences
type Settings struct {
	SiteTitle       string `json:"siteTitle" yaml:"siteTitle"`
	SiteDescription string `json:"siteDescription" yaml:"siteDescription"`
	MaintenanceMode bool   `json:"maintenanceMode" yaml:"maintenanceMode"`

	NewsletterEnabled bool `json:"newsletterEnabled" yaml:"newsletterEnabled"`
	// NewsletterDay is the weekday of the newsletter, 0 is Sunday
	NewsletterDay  int    `json:"newsletterDay" yaml:"newsletterDay"`
	NewsletterTime string `json:"newsletterTime" yaml:"newsletterTime"`

	// WeekStartDay is 0 for Sunday or 1 for Monday
	WeekStartDay    int    `json:"weekStartDay" yaml:"weekStartDay"`
	DefaultView     string `json:"defaultView" yaml:"defaultView"`
	EventsPerPage   int    `json:"eventsPerPage" yaml:"eventsPerPage"`
	ShowWeekNumbers bool   `json:"showWeekNumbers" yaml:"showWeekNumbers"`

	Theme        string `json:"theme" yaml:"theme"`
	PrimaryColor string `json:"primaryColor" yaml:"primaryColor"`

	NotificationsEnabled bool `json:"notificationsEnabled" yaml:"notificationsEnabled"`
	// NotificationTime is how many minutes before an event the reminder goes out
	NotificationTime   int  `json:"notificationTime" yaml:"notificationTime"`
	EmailNotifications bool `json:"emailNotifications" yaml:"emailNotifications"`

	Language string `json:"language" yaml:"language"`
}

func Defaults() Settings {
	return Settings{
		SiteTitle:            "이벤트 캘린더",
		SiteDescription:      "다양한 이벤트를 확인하고 참여하세요",
		NewsletterEnabled:    true,
		NewsletterDay:        0,
		NewsletterTime:       "09:00",
		WeekStartDay:         0,
		DefaultView:          ViewMonth,
		EventsPerPage:        20,
		Theme:                ThemeLight,
		PrimaryColor:         "#007bff",
		NotificationsEnabled: true,
		NotificationTime:     15,
		Language:             "ko",
	}
}

// Keys lists every setting name as used by Update
func Keys() []string {
	t := reflect.TypeOf(Settings{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0])
	}
	return keys
}

func isKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// normalize puts every out of range value back to its default
func (s *Settings) normalize() {
	d := Defaults()
	if s.NewsletterDay < 0 || s.NewsletterDay > 6 {
		log.Warn().Int("newsletterDay", s.NewsletterDay).Msg("invalid newsletter day")
		s.NewsletterDay = d.NewsletterDay
	}
	if !newsletterTimePattern.MatchString(s.NewsletterTime) {
		log.Warn().Str("newsletterTime", s.NewsletterTime).Msg("invalid newsletter time")
		s.NewsletterTime = d.NewsletterTime
	}
	if s.WeekStartDay != 0 && s.WeekStartDay != 1 {
		log.Warn().Int("weekStartDay", s.WeekStartDay).Msg("invalid week start day")
		s.WeekStartDay = d.WeekStartDay
	}
	switch s.DefaultView {
	case ViewMonth, ViewWeek, ViewDay:
	default:
		log.Warn().Str("defaultView", s.DefaultView).Msg("invalid default view")
		s.DefaultView = d.DefaultView
	}
	if s.EventsPerPage < 10 || s.EventsPerPage > 100 {
		log.Warn().Int("eventsPerPage", s.EventsPerPage).Msg("invalid events per page")
		s.EventsPerPage = d.EventsPerPage
	}
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		s.Theme = d.Theme
	}
}

// Store holds the current settings. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	settings Settings
}

func NewStore() *Store {
	return &Store{settings: Defaults()}
}

func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update sets a single setting by its name, e.g. "eventsPerPage". value
// must have the Go type of the field.
func (s *Store) Update(key string, value any) error {
	if !isKey(key) {
		return eris.Wrapf(ErrUnknownKey, "key %q", key)
	}
	return s.UpdateMany(map[string]any{key: value})
}

// UpdateMany applies several settings at once. Unknown names are skipped,
// a value of the wrong type rejects the whole update.
func (s *Store) UpdateMany(values map[string]any) error {
	known := make(map[string]any, len(values))
	for key, value := range values {
		if !isKey(key) {
			log.Warn().Str("key", key).Msg("unknown setting ignored")
			continue
		}
		known[key] = value
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	if err := mergo.Map(&next, known, mergo.WithOverride, mergo.WithOverwriteWithEmptyValue); err != nil {
		return eris.Wrap(err, "error updating settings")
	}
	next.normalize()
	s.settings = next
	return nil
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = Defaults()
}

func (s *Store) ToggleWeekNumbers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.ShowWeekNumbers = !s.settings.ShowWeekNumbers
	return s.settings.ShowWeekNumbers
}

// ChangeTheme switches to theme, it reports false for anything but light or dark
func (s *Store) ChangeTheme(theme string) bool {
	if theme != ThemeLight && theme != ThemeDark {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Theme = theme
	return true
}

func (s *Store) ThemeClass() string {
	if s.Get().Theme == ThemeDark {
		return "dark-theme"
	}
	return "light-theme"
}

// WeekdayName returns the Korean weekday name, Sunday for out of range days
func WeekdayName(day int) string {
	if day < 0 || day >= len(weekdayNames) {
		return weekdayNames[0]
	}
	return weekdayNames[day]
}

type NewsletterSchedule struct {
	Day     int
	Time    string
	DayName string
}

func (s *Store) NewsletterSchedule() NewsletterSchedule {
	cur := s.Get()
	return NewsletterSchedule{
		Day:     cur.NewsletterDay,
		Time:    cur.NewsletterTime,
		DayName: WeekdayName(cur.NewsletterDay),
	}
}

func (s *Store) ExportJSON() ([]byte, error) {
	b, err := json.MarshalIndent(s.Get(), "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "error exporting settings")
	}
	return b, nil
}

// ImportJSON replaces the settings with data laid over the defaults. Nothing
// changes when data cannot be parsed.
func (s *Store) ImportJSON(data []byte) error {
	next := Defaults()
	if err := json.Unmarshal(data, &next); err != nil {
		return eris.Wrap(err, "error importing settings")
	}
	s.replace(next)
	return nil
}

func (s *Store) ExportYAML() ([]byte, error) {
	b, err := yaml.Marshal(s.Get())
	if err != nil {
		return nil, eris.Wrap(err, "error exporting settings")
	}
	return b, nil
}

// ImportYAML is ImportJSON for YAML documents
func (s *Store) ImportYAML(data []byte) error {
	next := Defaults()
	if err := yaml.Unmarshal(data, &next); err != nil {
		return eris.Wrap(err, "error importing settings")
	}
	s.replace(next)
	return nil
}

func (s *Store) replace(next Settings) {
	next.normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = next
}
