package httpapi

import (
	"encoding/json"
	"net/http"

	"pota_dashboard/internal/domain/post"
	"pota_dashboard/internal/domain/user"
	"pota_dashboard/internal/domain/whatsapp"
)

type userView struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	NomeCompleto     string `json:"nomeCompleto"`
	TipoUsuario      string `json:"tipoUsuario"`
	TelefoneWhatsApp string `json:"telefoneWhatsApp"`
}

func newUserView(u *user.User) userView {
	return userView{
		ID:               u.ID,
		Email:            u.Email,
		NomeCompleto:     u.FullName,
		TipoUsuario:      string(u.Role),
		TelefoneWhatsApp: u.WhatsAppPhone,
	}
}

type invoiceView struct {
	ID                 string `json:"id"`
	UsuarioID          string `json:"usuarioId"`
	Aluno              string `json:"aluno"`
	DataVencimento     string `json:"dataVencimento"`
	Valor              string `json:"valor"`
	Status             string `json:"status"`
	StatusExibicao     string `json:"statusExibicao"`
	DiasParaVencimento int    `json:"diasParaVencimento"`
	Restante           string `json:"restante"`
}

type postView struct {
	ID             string `json:"id"`
	AutorID        string `json:"autorId"`
	Autor          string `json:"autor"`
	TipoAutor      string `json:"tipoAutor"`
	Mensagem       string `json:"mensagem"`
	DataPublicacao string `json:"dataPublicacao"`
}

func newPostView(p *post.Post) postView {
	return postView{
		ID:             p.ID,
		AutorID:        p.AuthorID,
		Autor:          p.Author.FullName,
		TipoAutor:      string(p.Author.Role),
		Mensagem:       p.Message,
		DataPublicacao: p.PublishedAt.Format("02/01/2006 15:04"),
	}
}

type notificationView struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	u, err := s.auth.Login(r.Context(), req.Email, req.Senha)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	session, _ := s.sessions.Get(r, sessionName)
	session.Values["user_id"] = u.ID
	session.Values["role"] = string(u.Role)
	if err := session.Save(r, w); err != nil {
		s.logger.Errorf("Failed to save session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, newUserView(u))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessions.Get(r, sessionName)
	session.Options.MaxAge = -1
	_ = session.Save(r, w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newUserView(currentUser(r)))
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	views, err := s.billing.ListInvoices(r.Context(), currentUser(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]invoiceView, 0, len(views))
	for _, v := range views {
		out = append(out, invoiceView{
			ID:                 v.Invoice.ID,
			UsuarioID:          v.Invoice.UserID,
			Aluno:              v.Invoice.User.FullName,
			DataVencimento:     whatsapp.FormatDate(v.Invoice.DueDate),
			Valor:              whatsapp.FormatBRL(v.Invoice.Amount),
			Status:             string(v.Invoice.Status),
			StatusExibicao:     string(v.DisplayStatus),
			DiasParaVencimento: v.DiffDays,
			Restante:           v.Remaining,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleInvoiceSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.billing.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"faturasPendentes": sum.PendingCount,
		"totalPendente":    whatsapp.FormatBRL(sum.PendingTotal),
		"vencendo":         sum.DueSoonCount,
		"atrasadas":        sum.OverdueCount,
		"janelaDias":       sum.UpcomingDays,
	})
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	inv, err := s.billing.MarkPaid(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":     inv.ID,
		"status": string(inv.Status),
	})
}

func (s *Server) handleReminderLink(w http.ResponseWriter, r *http.Request) {
	msg, err := s.billing.ReminderLink(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"mensagem": msg.Text,
		"link":     msg.Link,
	})
}

func (s *Server) handlePaymentLink(w http.ResponseWriter, r *http.Request) {
	msg, err := s.billing.PaymentLink(r.Context(), currentUser(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"mensagem": msg.Text,
		"link":     msg.Link,
	})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.bulletin.FilterPosts(r.Context(), r.URL.Query().Get("autor"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostView(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mensagem string `json:"mensagem"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	p, err := s.bulletin.AddPost(r.Context(), currentUser(r), req.Mensagem)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPostView(p))
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	active := s.notifier.Active(currentUser(r).ID)
	out := make([]notificationView, 0, len(active))
	for _, n := range active {
		out = append(out, notificationView{
			ID:      n.ID,
			Title:   n.Title,
			Message: n.Message,
			Type:    string(n.Kind),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	s.notifier.Dismiss(currentUser(r).ID, r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
