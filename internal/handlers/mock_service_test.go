package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"smart_channels/internal/models"
	"smart_channels/internal/paramconfig"
	"smart_channels/internal/ratelimit"
	"smart_channels/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockChannels struct {
	channels []models.Channel
	details  service.ChannelDetails
	cmd      models.CommandValue
	cfg      paramconfig.Config
	err      error

	lastUserID    int
	lastChannelID int
	lastAction    models.ActionKind
	lastParams    models.ActionParams
	lastConfig    paramconfig.Config
}

func (m *mockChannels) List(ctx context.Context, userID int) ([]models.Channel, error) {
	m.lastUserID = userID
	return m.channels, m.err
}
func (m *mockChannels) Get(ctx context.Context, userID, channelID int) (service.ChannelDetails, error) {
	m.lastUserID, m.lastChannelID = userID, channelID
	return m.details, m.err
}
func (m *mockChannels) ExecuteAction(ctx context.Context, userID, channelID int, kind models.ActionKind, params models.ActionParams) (models.CommandValue, error) {
	m.lastUserID, m.lastChannelID = userID, channelID
	m.lastAction = kind
	m.lastParams = params
	return m.cmd, m.err
}
func (m *mockChannels) GetConfig(ctx context.Context, userID, channelID int) (paramconfig.Config, error) {
	m.lastUserID, m.lastChannelID = userID, channelID
	return m.cfg, m.err
}
func (m *mockChannels) UpdateConfig(ctx context.Context, userID, channelID int, cfg paramconfig.Config) (paramconfig.Config, error) {
	m.lastUserID, m.lastChannelID = userID, channelID
	m.lastConfig = cfg
	return m.cfg, m.err
}

// mockMonitoring is read from the websocket goroutine, hence the mutex.
type mockMonitoring struct {
	mu       sync.Mutex
	snapshot service.ChannelSnapshot
	err      error
}

func (m *mockMonitoring) Snapshot(ctx context.Context, userID, channelID int) (service.ChannelSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, m.err
}

func (m *mockMonitoring) setSnapshot(s service.ChannelSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = s
}

type mockEventLog struct {
	resp       []models.ChannelEvent
	err        error
	lastUserID int
	lastFilter service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, userID int, f service.LogFilter) ([]models.ChannelEvent, error) {
	m.lastUserID = userID
	m.lastFilter = f
	return m.resp, m.err
}

// mockRateLimits allows limit requests per user, then throttles.
type mockRateLimits struct {
	rule   ratelimit.Rule
	counts map[int]int64
	reset  time.Time
	err    error
}

func newMockRateLimits(limit, period int) *mockRateLimits {
	return &mockRateLimits{
		rule:   ratelimit.Rule{Limit: limit, PeriodSeconds: period},
		counts: map[int]int64{},
		reset:  time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC),
	}
}

func (m *mockRateLimits) Check(ctx context.Context, userID int) (ratelimit.Decision, error) {
	if m.err != nil {
		return ratelimit.Decision{}, m.err
	}
	m.counts[userID]++
	n := m.counts[userID]
	remaining := m.rule.Limit - int(n)
	if remaining < 0 {
		remaining = 0
	}
	return ratelimit.Decision{
		Allowed:   n <= int64(m.rule.Limit),
		Rule:      m.rule,
		Count:     n,
		Remaining: remaining,
		ResetAt:   m.reset,
	}, nil
}

type mockUserLimits struct {
	user         *models.User
	err          error
	lastUsername string
	lastChange   service.LimitsChange
	calls        int
}

func (m *mockUserLimits) Change(ctx context.Context, username string, c service.LimitsChange) (*models.User, error) {
	m.calls++
	m.lastUsername = username
	m.lastChange = c
	return m.user, m.err
}

// ---- Shared Test Helpers ----

const testAdminToken = "admin-secret"

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Options{AdminToken: testAdminToken, AuthRate: 1000, AuthBurst: 1000})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withHeader(req *http.Request, hdr http.Header) *http.Request {
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
