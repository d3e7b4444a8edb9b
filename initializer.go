package calendarApi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/tomroth04/calendarAPI/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMinHolidays  = 5
	defaultSyncTimeout  = 2 * time.Minute
	calendarWaitTimeout = 3 * time.Second
	readyPollInterval   = 100 * time.Millisecond

	initializeKey = "initialize"
)

type InitState int

const (
	StateNotStarted InitState = iota
	StateInitializing
	StateInitialized
)

func (s InitState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	default:
		return "not-started"
	}
}

// YearSource tells where the holidays of a required year came from
type YearSource string

const (
	SourceExisting  YearSource = "existing"
	SourcePublicAPI YearSource = "public_api"
	SourceDefault   YearSource = "default"
	SourceError     YearSource = "error"
)

type YearResult struct {
	Year    int
	Success bool
	Source  YearSource
	Count   int
	Err     error
}

// HolidayInitializer makes sure the backend holds holidays for the years a
// calendar shows (last year up to two years ahead) and keeps the current year
// synchronised afterwards.
type HolidayInitializer struct {
	client      *Client
	logger      zerolog.Logger
	countryCode string
	minHolidays int
	schedule    cron.Schedule
	syncTimeout time.Duration

	group singleflight.Group

	mu          sync.Mutex
	state       InitState
	results     []YearResult
	completedAt time.Time

	cron       *cron.Cron
	entryID    cron.EntryID
	stopCtx    context.Context
	stopCancel context.CancelFunc
}

type InitializerOption func(*HolidayInitializer)

func WithCountryCode(countryCode string) InitializerOption {
	return func(h *HolidayInitializer) {
		h.countryCode = countryCode
	}
}

// WithMinHolidays sets how many holidays a year needs to count as present
func WithMinHolidays(n int) InitializerOption {
	return func(h *HolidayInitializer) {
		h.minHolidays = n
	}
}

func WithSyncTimeout(d time.Duration) InitializerOption {
	return func(h *HolidayInitializer) {
		h.syncTimeout = d
	}
}

func WithInitializerLogger(logger zerolog.Logger) InitializerOption {
	return func(h *HolidayInitializer) {
		h.logger = logger
	}
}

// NewHolidayInitializer builds an initializer on top of client. The periodic
// sync runs on the client's SyncSchedule, a cron expression or descriptor
// such as "@every 24h".
func NewHolidayInitializer(client *Client, opts ...InitializerOption) (*HolidayInitializer, error) {
	schedule, err := cron.ParseStandard(client.cfg.SyncSchedule)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid sync schedule %q", client.cfg.SyncSchedule)
	}

	h := &HolidayInitializer{
		client:      client,
		logger:      client.logger.With().Str("service", "holiday-initializer").Logger(),
		countryCode: client.cfg.CountryCode,
		minHolidays: defaultMinHolidays,
		schedule:    schedule,
		syncTimeout: defaultSyncTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}

	l := cronLogger{h.logger}
	h.cron = cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
	h.stopCtx, h.stopCancel = context.WithCancel(context.Background())
	return h, nil
}

// RequiredYears returns last year, this year and the two following years
func (h *HolidayInitializer) RequiredYears() []int {
	current := h.client.now().Year()
	return []int{current - 1, current, current + 1, current + 2}
}

// Initialize runs the initialization once. Concurrent callers share the
// attempt in flight, callers after a success return at once. A failed
// attempt leaves the initializer ready to be retried.
//
// The attempt itself is not bound to ctx: a caller giving up does not abort
// it for the others.
func (h *HolidayInitializer) Initialize(ctx context.Context) error {
	h.mu.Lock()
	if h.state == StateInitialized {
		h.mu.Unlock()
		return nil
	}
	ch := h.group.DoChan(initializeKey, func() (interface{}, error) {
		return nil, h.perform(context.WithoutCancel(ctx))
	})
	h.mu.Unlock()

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *HolidayInitializer) perform(ctx context.Context) error {
	h.mu.Lock()
	if h.state == StateInitialized {
		h.mu.Unlock()
		return nil
	}
	h.state = StateInitializing
	h.mu.Unlock()

	years := h.RequiredYears()
	h.logger.Info().Ints("years", years).Msg("holiday initialization started")

	results := make([]YearResult, 0, len(years))
	succeeded := 0
	for _, year := range years {
		result := h.initializeYear(ctx, year)
		if result.Success {
			succeeded++
		}
		results = append(results, result)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = results

	if succeeded == 0 {
		h.state = StateNotStarted
		h.logger.Error().Int("years", len(years)).Msg("holiday initialization failed")
		return eris.Errorf("holiday initialization failed for all %d years", len(years))
	}

	h.state = StateInitialized
	h.completedAt = h.client.now()
	h.scheduleSyncLocked()
	h.logger.Info().
		Int("succeeded", succeeded).
		Int("total", len(years)).
		Msg("holiday initialization completed")
	return nil
}

func (h *HolidayInitializer) initializeYear(ctx context.Context, year int) YearResult {
	logger := h.logger.With().Int("year", year).Logger()

	existing, err := h.client.FetchHolidaysByYear(ctx, year, h.countryCode)
	if err != nil {
		logger.Error().Err(err).Msg("could not check existing holidays")
		return YearResult{Year: year, Source: SourceError, Err: err}
	}
	if existing.Count >= h.minHolidays {
		logger.Info().Int("count", existing.Count).Msg("existing holidays are sufficient")
		return YearResult{Year: year, Success: true, Source: SourceExisting, Count: existing.Count}
	}

	logger.Warn().Int("count", existing.Count).Msg("not enough holidays, synchronising")
	if _, err := h.client.SyncHolidaysFromPublicAPI(ctx, year); err != nil {
		logger.Warn().Err(err).Msg("synchronisation failed, using default holidays")
		fallback := fallbackYear(year, h.countryCode)
		h.client.cache.Set(yearCacheKey(year, h.countryCode), fallback)
		return YearResult{Year: year, Success: true, Source: SourceDefault, Count: fallback.Count}
	}

	synced, err := h.client.FetchHolidaysByYear(ctx, year, h.countryCode)
	if err != nil {
		logger.Error().Err(err).Msg("could not read synchronised holidays")
		return YearResult{Year: year, Source: SourceError, Err: err}
	}
	logger.Info().Int("count", synced.Count).Msg("holidays synchronised from public api")
	return YearResult{Year: year, Success: true, Source: SourcePublicAPI, Count: synced.Count}
}

// scheduleSyncLocked registers the periodic sync once, h.mu must be held
func (h *HolidayInitializer) scheduleSyncLocked() {
	if h.entryID != 0 || h.stopCtx.Err() != nil {
		return
	}
	h.entryID = h.cron.Schedule(h.schedule, cron.FuncJob(h.periodicSync))
	h.cron.Start()
	h.logger.Info().Time("next", h.schedule.Next(h.client.now())).Msg("periodic holiday sync scheduled")
}

func (h *HolidayInitializer) periodicSync() {
	ctx, cancel := context.WithTimeout(h.stopCtx, h.syncTimeout)
	defer cancel()

	h.logger.Info().Msg("periodic holiday sync started")
	if _, err := h.client.SyncCurrentYearHolidays(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("periodic holiday sync failed")
		return
	}
	h.logger.Info().Msg("periodic holiday sync completed")
}

// Stop cancels the periodic sync and waits for a running one to return
func (h *HolidayInitializer) Stop() {
	h.stopCancel()
	<-h.cron.Stop().Done()
}

// ForceReinitialize drops the cache and every previous outcome, then initializes again
func (h *HolidayInitializer) ForceReinitialize(ctx context.Context) error {
	h.logger.Info().Msg("forcing holiday re-initialization")
	h.client.ClearHolidayCache()

	h.mu.Lock()
	h.state = StateNotStarted
	h.results = nil
	h.group.Forget(initializeKey)
	h.mu.Unlock()

	return h.Initialize(ctx)
}

// SyncYear makes the backend synchronise one year right away
func (h *HolidayInitializer) SyncYear(ctx context.Context, year int) error {
	if _, err := h.client.SyncHolidaysFromPublicAPI(ctx, year); err != nil {
		h.logger.Error().Err(err).Int("year", year).Msg("holiday sync failed")
		return err
	}
	return nil
}

type InitStatus struct {
	State         InitState
	Initialized   bool
	Initializing  bool
	RequiredYears []int
	Results       []YearResult
	CompletedAt   time.Time
	Cache         CacheStatus
	SyncScheduled bool
	NextSync      time.Time
}

func (h *HolidayInitializer) Status() InitStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	status := InitStatus{
		State:         h.state,
		Initialized:   h.state == StateInitialized,
		Initializing:  h.state == StateInitializing,
		RequiredYears: h.RequiredYears(),
		Results:       append([]YearResult(nil), h.results...),
		CompletedAt:   h.completedAt,
		Cache:         h.client.cache.Status(),
		SyncScheduled: h.entryID != 0,
	}
	if h.entryID != 0 {
		status.NextSync = h.cron.Entry(h.entryID).Next
	}
	return status
}

func (h *HolidayInitializer) isInitialized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == StateInitialized
}

type HealthLevel string

const (
	HealthGood         HealthLevel = "good"
	HealthInsufficient HealthLevel = "insufficient"
	HealthWarning      HealthLevel = "warning"
	HealthError        HealthLevel = "error"
)

type YearHealth struct {
	Year         int
	HolidayCount int
	Status       HealthLevel
	LastSync     string
	Statistics   types.HolidayStatistics
	Err          error
}

type HealthReport struct {
	Overall         HealthLevel
	Years           []YearHealth
	Recommendations []string
}

// CheckHealth inspects every required year. A year that cannot be read makes
// the report an error, a year with too few holidays a warning.
func (h *HolidayInitializer) CheckHealth(ctx context.Context) HealthReport {
	years := h.RequiredYears()
	reports := make([]YearHealth, len(years))

	var g errgroup.Group
	for i, year := range years {
		g.Go(func() error {
			reports[i] = h.checkYear(ctx, year)
			return nil
		})
	}
	_ = g.Wait()

	report := HealthReport{Overall: HealthGood, Years: reports, Recommendations: []string{}}
	for _, yr := range reports {
		switch yr.Status {
		case HealthError:
			report.Overall = HealthError
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("Holidays for %d could not be loaded.", yr.Year))
		case HealthInsufficient:
			if report.Overall != HealthError {
				report.Overall = HealthWarning
			}
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("Holidays for %d are incomplete, a synchronisation is recommended.", yr.Year))
		}
	}
	return report
}

func (h *HolidayInitializer) checkYear(ctx context.Context, year int) YearHealth {
	list, err := h.client.FetchHolidaysByYear(ctx, year, h.countryCode)
	if err != nil {
		return YearHealth{Year: year, Status: HealthError, Err: err}
	}

	report := YearHealth{
		Year:         year,
		HolidayCount: list.Count,
		Status:       HealthGood,
		LastSync:     h.lastSync(year),
		Statistics:   h.client.GetHolidayStatistics(ctx, year),
	}
	// a year seeded from the built-in table still needs a real sync
	if list.Fallback || list.Count < h.minHolidays {
		report.Status = HealthInsufficient
	}
	return report
}

// lastSync is a best guess: a cached year was loaded recently
func (h *HolidayInitializer) lastSync(year int) string {
	if h.client.cache.Contains(yearCacheKey(year, h.countryCode)) {
		return "recent (cached)"
	}
	return "unknown"
}

// WaitReady polls until initialization completed, maxWait elapsed or ctx is
// done. It reports whether the initializer is ready.
func (h *HolidayInitializer) WaitReady(ctx context.Context, maxWait time.Duration) bool {
	if h.isInitialized() {
		return true
	}

	timer := time.NewTimer(maxWait)
	defer timer.Stop()
	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if h.isInitialized() {
				return true
			}
		case <-timer.C:
			h.logger.Warn().Dur("waited", maxWait).Msg("holiday data not ready in time")
			return false
		case <-ctx.Done():
			return false
		}
	}
}

// CalendarHolidays is a calendar view's holiday data, keyed by "YYYY-MM-DD"
type CalendarHolidays struct {
	Success    bool
	Holidays   map[string][]types.Holiday
	TotalCount int
	Fallback   bool
	Err        error
}

// HolidaysForCalendar waits briefly for initialization, then loads and groups
// the holidays of [start, end]. When the backend fails the default table is used.
func (h *HolidayInitializer) HolidaysForCalendar(ctx context.Context, start types.Date, end types.Date) CalendarHolidays {
	h.WaitReady(ctx, calendarWaitTimeout)

	r, err := h.client.FetchHolidaysByDateRange(ctx, start, end, h.countryCode)
	if err != nil {
		h.logger.Error().Err(err).Msg("could not load holidays for calendar")
		fallback := fallbackRange(start, end, h.countryCode)
		return CalendarHolidays{
			Holidays:   types.GroupHolidaysByDate(fallback.Holidays),
			TotalCount: fallback.Count,
			Fallback:   true,
			Err:        err,
		}
	}

	return CalendarHolidays{
		Success:    true,
		Holidays:   types.GroupHolidaysByDate(r.Holidays),
		TotalCount: r.Count,
	}
}

// InitializeForApp is Initialize for application start: it never fails, the
// calendar keeps working on the default holidays.
func (h *HolidayInitializer) InitializeForApp(ctx context.Context) bool {
	if err := h.Initialize(ctx); err != nil {
		h.logger.Error().Err(err).Msg("holiday initialization failed, continuing with default holidays")
		return false
	}
	return true
}

type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
