package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"pota_dashboard/internal/app"
	"pota_dashboard/internal/domain/user"
)

// Server exposes the dashboard operations over a JSON API. Role gating
// happens here: teacher-only actions are wrapped in requireTeacher, the
// services themselves stay role-agnostic wherever they can.
type Server struct {
	auth     *app.AuthService
	billing  *app.BillingService
	bulletin *app.BulletinService
	notifier *app.Notifier
	userRepo user.Repository
	sessions *sessions.CookieStore
	logger   *logrus.Logger
	httpSrv  *http.Server
}

func NewServer(
	addr string,
	auth *app.AuthService,
	billing *app.BillingService,
	bulletin *app.BulletinService,
	notifier *app.Notifier,
	ur user.Repository,
	sessionSecret string,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		auth:     auth,
		billing:  billing,
		bulletin: bulletin,
		notifier: notifier,
		userRepo: ur,
		sessions: newSessionStore(sessionSecret),
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /api/invoices", s.requireAuth(s.handleListInvoices))
	mux.HandleFunc("GET /api/invoices/summary", s.requireTeacher(s.handleInvoiceSummary))
	mux.HandleFunc("POST /api/invoices/{id}/pay", s.requireTeacher(s.handleMarkPaid))
	mux.HandleFunc("GET /api/invoices/{id}/reminder", s.requireTeacher(s.handleReminderLink))
	mux.HandleFunc("GET /api/invoices/{id}/payment", s.requireAuth(s.handlePaymentLink))

	mux.HandleFunc("GET /api/posts", s.requireAuth(s.handleListPosts))
	mux.HandleFunc("POST /api/posts", s.requireTeacher(s.handleCreatePost))

	mux.HandleFunc("GET /api/notifications", s.requireAuth(s.handleListNotifications))
	mux.HandleFunc("DELETE /api/notifications/{id}", s.requireAuth(s.handleDismissNotification))

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving the API until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Infof("HTTP server listening on %s", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
