package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pota_dashboard/internal/app"
	"pota_dashboard/internal/domain/invoice"
	"pota_dashboard/internal/domain/whatsapp"
	"pota_dashboard/internal/infra/memdb"
	"pota_dashboard/internal/infra/scheduler"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	users, invoices, posts, err := memdb.Seed()
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	clock := scheduler.NewClock()

	auth := app.NewAuthService(users, log)
	billing := app.NewBillingService(
		invoices, users,
		whatsapp.DefaultTemplates(),
		"professor@pota.com", whatsapp.DefaultCountryCode,
		invoice.StudentDueSoonWindow, invoice.TeacherUpcomingWindow,
		clock, log,
	)
	bulletin := app.NewBulletinService(posts, clock, log)
	notifier := app.NewNotifier(users, invoices, posts, clock, log, time.Hour, invoice.StudentDueSoonWindow)
	t.Cleanup(notifier.Close)

	s := NewServer(":0", auth, billing, bulletin, notifier, users, "test-secret", log)
	srv := httptest.NewServer(s.httpSrv.Handler)
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server, email string) []*http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "senha": memdb.SeedPassword})
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return resp.Cookies()
}

func doRequest(t *testing.T, srv *httptest.Server, method, path string, cookies []*http.Cookie, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestLoginAndSession(t *testing.T) {
	srv := newTestServer(t)
	cookies := login(t, srv, "professor@pota.com")

	resp := doRequest(t, srv, http.MethodGet, "/api/me", cookies, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		NomeCompleto string `json:"nomeCompleto"`
		TipoUsuario  string `json:"tipoUsuario"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "Maria Silva", me.NomeCompleto)
	assert.Equal(t, "Professor", me.TipoUsuario)
}

func TestLogin_BadPassword(t *testing.T) {
	srv := newTestServer(t)
	body, _ := json.Marshal(map[string]string{"email": "professor@pota.com", "senha": "wrong"})
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequiresSession(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/invoices")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTeacherOnlyRoutes(t *testing.T) {
	srv := newTestServer(t)
	student := login(t, srv, "aluno@pota.com")

	resp := doRequest(t, srv, http.MethodPost, "/api/invoices/1/pay", student, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := json.Marshal(map[string]string{"mensagem": "oi"})
	resp = doRequest(t, srv, http.MethodPost, "/api/posts", student, body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMarkPaidFlow(t *testing.T) {
	srv := newTestServer(t)
	teacher := login(t, srv, "professor@pota.com")

	resp := doRequest(t, srv, http.MethodPost, "/api/invoices/1/pay", teacher, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Pago", out["status"])

	resp = doRequest(t, srv, http.MethodPost, "/api/invoices/ghost/pay", teacher, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePost_Validation(t *testing.T) {
	srv := newTestServer(t)
	teacher := login(t, srv, "professor@pota.com")

	body, _ := json.Marshal(map[string]string{"mensagem": "   "})
	resp := doRequest(t, srv, http.MethodPost, "/api/posts", teacher, body)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ = json.Marshal(map[string]string{"mensagem": "Bem-vindos!"})
	resp = doRequest(t, srv, http.MethodPost, "/api/posts", teacher, body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestReminderLink(t *testing.T) {
	srv := newTestServer(t)
	teacher := login(t, srv, "professor@pota.com")

	resp := doRequest(t, srv, http.MethodGet, "/api/invoices/1/reminder", teacher, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out["link"], "https://wa.me/5511888888888?text=")
	assert.Contains(t, out["mensagem"], "R$ 150,00")
}

func TestLogoutClearsSession(t *testing.T) {
	srv := newTestServer(t)
	cookies := login(t, srv, "aluno@pota.com")

	resp := doRequest(t, srv, http.MethodPost, "/auth/logout", cookies, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
