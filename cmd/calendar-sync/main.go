package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	calendarApi "github.com/tomroth04/calendarAPI"
	"github.com/tomroth04/calendarAPI/settings"
)

var (
	buildVersion string
	buildCommit  string
)

func main() {
	logger := zerolog.New(os.Stdout).With().
		Str("role", "calendar-sync").
		Timestamp().
		Logger()

	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}
	logger.Info().Str("version", buildVersion).Str("commit", buildCommit).Msg("starting")

	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("calendar sync failed")
	}
}

func run(logger zerolog.Logger) error {
	cfg, err := calendarApi.LoadConfig()
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	if cfg.SettingsFile != "" {
		s, err := checkSettingsFile(cfg.SettingsFile)
		if err != nil {
			return err
		}
		logger.Info().
			Str("siteTitle", s.SiteTitle).
			Str("theme", s.Theme).
			Bool("newsletter", s.NewsletterEnabled).
			Str("newsletterDay", settings.WeekdayName(s.NewsletterDay)).
			Msg("settings file is valid")
	}

	client, err := calendarApi.NewClient(cfg, calendarApi.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	login(ctx, client, cfg, logger)

	initializer, err := calendarApi.NewHolidayInitializer(client, calendarApi.WithInitializerLogger(logger))
	if err != nil {
		return err
	}
	defer initializer.Stop()

	if !initializer.InitializeForApp(ctx) {
		logger.Warn().Msg("holidays are not initialized, the next scheduled sync will retry")
	}

	status := initializer.Status()
	for _, res := range status.Results {
		logger.Info().
			Int("year", res.Year).
			Bool("success", res.Success).
			Str("source", string(res.Source)).
			Int("count", res.Count).
			Msg("holiday year")
	}
	logger.Info().
		Str("state", status.State.String()).
		Int("cachedEntries", status.Cache.Size).
		Time("nextSync", status.NextSync).
		Msg("holiday initializer status")

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	if client.IsAdminAuthenticated() {
		client.Logout(context.Background())
	}
	return nil
}

// login signs in as admin when credentials are configured. A failed login
// only limits what the periodic sync can do.
func login(ctx context.Context, client *calendarApi.Client, cfg calendarApi.Config, logger zerolog.Logger) {
	var err error
	switch {
	case cfg.AdminEmail == "":
		return
	case cfg.AdminTOTPSecret != "":
		_, err = client.LoginTOTP(ctx, cfg.AdminEmail, cfg.AdminTOTPSecret)
	case cfg.AdminPassword != "":
		_, err = client.Login(ctx, cfg.AdminEmail, cfg.AdminPassword)
	default:
		return
	}
	if err != nil {
		logger.Warn().Err(err).Str("message", calendarApi.ErrorMessage(err)).Msg("admin login failed")
		return
	}
	logger.Info().Str("email", cfg.AdminEmail).Msg("admin logged in")
}

// checkSettingsFile parses the YAML settings at path and returns them after
// normalisation. It only validates the file so a broken one stops the command
// at startup; the holiday sync itself does not read settings.
func checkSettingsFile(path string) (settings.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return settings.Settings{}, eris.Wrap(err, "error reading settings file")
	}
	store := settings.NewStore()
	if err := store.ImportYAML(data); err != nil {
		return settings.Settings{}, err
	}
	return store.Get(), nil
}
