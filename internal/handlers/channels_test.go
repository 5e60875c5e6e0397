package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"smart_channels/internal/executor"
	"smart_channels/internal/models"
	"smart_channels/internal/paramconfig"
	"smart_channels/internal/ratelimit"
	"smart_channels/internal/service"
)

func TestChannelHandlers_RequireAuth(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Channels: &mockChannels{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/channels", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}
}

func TestChannelHandlers_ListAndGet(t *testing.T) {
	chs := &mockChannels{
		channels: []models.Channel{
			{ID: 1, UserID: 7, Function: models.FuncLightSwitch},
			{ID: 2, UserID: 7, Function: models.FuncControllingTheRollerShutter},
		},
		details: service.ChannelDetails{
			Channel:          models.Channel{ID: 2, UserID: 7, Function: models.FuncControllingTheRollerShutter},
			SupportedActions: []models.ActionKind{models.ActionShut, models.ActionReveal},
			ConfigKeys:       []string{paramconfig.KeyOpeningTimeS},
		},
	}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 7}, Channels: chs})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodGet, "/api/v1/channels", nil), authHeader("valid")))
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d, body=%s", w.Code, w.Body.String())
	}
	var list struct {
		Count    int              `json:"count"`
		Channels []models.Channel `json:"channels"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Count != 2 || list.Channels[1].Function != models.FuncControllingTheRollerShutter {
		t.Fatalf("unexpected list: %+v", list)
	}
	if chs.lastUserID != 7 {
		t.Fatalf("list used user %d, want 7", chs.lastUserID)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodGet, "/api/v1/channels/2", nil), authHeader("valid")))
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d, body=%s", w.Code, w.Body.String())
	}
	var details service.ChannelDetails
	if err := json.Unmarshal(w.Body.Bytes(), &details); err != nil {
		t.Fatalf("unmarshal details: %v", err)
	}
	if details.Channel.ID != 2 || len(details.SupportedActions) != 2 {
		t.Fatalf("unexpected details: %+v", details)
	}
	if chs.lastChannelID != 2 {
		t.Fatalf("get used channel %d, want 2", chs.lastChannelID)
	}
}

func TestChannelHandlers_ExecuteAction(t *testing.T) {
	chs := &mockChannels{cmd: models.CommandValue{Field: models.FieldShutPercent, Value: 40}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 7}, Channels: chs})

	body := bytes.NewBufferString(`{"action":"shut_partially","params":{"percentage":40}}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodPost, "/api/v1/channels/3/actions", body), authHeader("valid")))
	if w.Code != http.StatusOK {
		t.Fatalf("execute status=%d, body=%s", w.Code, w.Body.String())
	}
	var out ExecuteActionResponse
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.ChannelID != 3 || out.Action != models.ActionShutPartially || out.Command.Value != 40 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if chs.lastAction != models.ActionShutPartially {
		t.Fatalf("action not normalized: %q", chs.lastAction)
	}
	if v, ok := chs.lastParams["percentage"].(float64); !ok || v != 40 {
		t.Fatalf("params not passed through: %#v", chs.lastParams)
	}
}

func TestChannelHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unsupported action", fmt.Errorf("%w: TURN_ON on THERMOMETER", executor.ErrUnsupportedAction), http.StatusBadRequest},
		{"invalid params", fmt.Errorf("%w: percentage", executor.ErrInvalidActionParams), http.StatusBadRequest},
		{"not found", service.ErrChannelNotFound, http.StatusNotFound},
		{"no executor", fmt.Errorf("%w: STOP", executor.ErrNoExecutorForAction), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chs := &mockChannels{err: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 7}, Channels: chs})

			w := httptest.NewRecorder()
			body := bytes.NewBufferString(`{"action":"TURN_ON"}`)
			r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodPost, "/api/v1/channels/3/actions", body), authHeader("valid")))
			if w.Code != tc.code {
				t.Fatalf("got %d, want %d (body=%s)", w.Code, tc.code, w.Body.String())
			}
			var out map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if tc.code == http.StatusInternalServerError && out["error"] != errExecute {
				t.Fatalf("5xx must hide the cause, got %q", out["error"])
			}
		})
	}
}

func TestChannelHandlers_BadRequests(t *testing.T) {
	chs := &mockChannels{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 7}, Channels: chs})

	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"non numeric id", http.MethodGet, "/api/v1/channels/abc", ""},
		{"zero id", http.MethodGet, "/api/v1/channels/0/config", ""},
		{"unknown action", http.MethodPost, "/api/v1/channels/3/actions", `{"action":"TOGGLE"}`},
		{"missing action", http.MethodPost, "/api/v1/channels/3/actions", `{"params":{}}`},
		{"config not an object", http.MethodPatch, "/api/v1/channels/3/config", `[1,2]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			r.ServeHTTP(w, withHeader(req, authHeader("valid")))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got %d, want 400 (body=%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestChannelHandlers_Config(t *testing.T) {
	chs := &mockChannels{cfg: paramconfig.Config{
		paramconfig.KeyOpeningTimeS:           12.5,
		paramconfig.KeyClosingTimeS:           10.0,
		paramconfig.KeyOpeningSensorChannelID: 4,
	}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 7}, Channels: chs})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodGet, "/api/v1/channels/3/config", nil), authHeader("valid")))
	if w.Code != http.StatusOK {
		t.Fatalf("get config status=%d, body=%s", w.Code, w.Body.String())
	}
	var got map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got[paramconfig.KeyOpeningTimeS] != 12.5 {
		t.Fatalf("unexpected config: %v", got)
	}

	body := bytes.NewBufferString(`{"openingTimeS":12.5,"openingSensorChannelId":4}`)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodPatch, "/api/v1/channels/3/config", body), authHeader("valid")))
	if w.Code != http.StatusOK {
		t.Fatalf("patch config status=%d, body=%s", w.Code, w.Body.String())
	}
	if chs.lastConfig[paramconfig.KeyOpeningSensorChannelID] != float64(4) {
		t.Fatalf("config not passed through: %v", chs.lastConfig)
	}

	chs.err = fmt.Errorf("%w: channel 9", paramconfig.ErrInvalidChannelLink)
	w = httptest.NewRecorder()
	body = bytes.NewBufferString(`{"openingSensorChannelId":9}`)
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodPatch, "/api/v1/channels/3/config", body), authHeader("valid")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid link: got %d, want 400", w.Code)
	}
}

func TestRateLimitStatus(t *testing.T) {
	limits := newMockRateLimits(100, 60)
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 3}, RateLimits: limits})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodGet, "/api/v1/users/current/rate-limit", nil), authHeader("valid")))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var st RateLimitStatus
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if st.Rule != "100/60" || st.Limit != 100 || st.PeriodSeconds != 60 || st.Remaining != 99 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if !st.ResetAt.Equal(limits.reset) {
		t.Fatalf("reset_at %v, want %v", st.ResetAt, limits.reset)
	}
}

func TestRateLimitStatus_DisabledLimiter(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 3}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodGet, "/api/v1/users/current/rate-limit", nil), authHeader("valid")))
	if w.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", w.Code)
	}
}

func TestAdminChangeLimits(t *testing.T) {
	ul := &mockUserLimits{user: &models.User{ID: 4, Username: "alice"}}
	r := newTestRouter(&service.Service{UserLimits: ul})

	body := bytes.NewBufferString(`{"limit_for_all":10,"api_rate_limit":"100/60"}`)
	req := httptest.NewRequest(http.MethodPut, "/admin/users/alice/limits", body)
	req.Header.Set(headerAdminToken, testAdminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if ul.lastUsername != "alice" {
		t.Fatalf("username %q, want alice", ul.lastUsername)
	}
	if ul.lastChange.LimitForAll == nil || *ul.lastChange.LimitForAll != 10 {
		t.Fatalf("limit_for_all not passed: %+v", ul.lastChange)
	}
	if ul.lastChange.APIRateLimit == nil || *ul.lastChange.APIRateLimit != "100/60" {
		t.Fatalf("api_rate_limit not passed: %+v", ul.lastChange)
	}
	if ul.lastChange.Limits != nil {
		t.Fatalf("limits should be nil when absent: %+v", ul.lastChange.Limits)
	}

	ul.err = fmt.Errorf("%w: 100", ratelimit.ErrInvalidRateLimitFormat)
	req = httptest.NewRequest(http.MethodPut, "/admin/users/alice/limits", bytes.NewBufferString(`{"api_rate_limit":"100"}`))
	req.Header.Set(headerAdminToken, testAdminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid rule: got %d, want 400", w.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/admin/users/alice/limits", bytes.NewBufferString(`{}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("without token: got %d, want 401", w.Code)
	}
	if ul.calls != 2 {
		t.Fatalf("service called %d times, want 2", ul.calls)
	}
}
