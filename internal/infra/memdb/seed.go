package memdb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pota_dashboard/internal/domain/invoice"
	"pota_dashboard/internal/domain/post"
	"pota_dashboard/internal/domain/user"
)

// SeedPassword is the demo credential shared by every seeded account.
const SeedPassword = "123456"

// Seed builds the fixture repositories: one teacher, two students,
// three bulletin posts and three invoices. This is the entire data set
// of a session; nothing else is ever loaded.
func Seed() (*UserRepository, *InvoiceRepository, *PostRepository, error) {
	users := []*user.User{
		{
			ID:            "1",
			Email:         "professor@pota.com",
			FullName:      "Maria Silva",
			Role:          user.RoleTeacher,
			WhatsAppPhone: "5511999999999",
			CreatedAt:     date(2024, 1, 1),
		},
		{
			ID:            "2",
			Email:         "aluno@pota.com",
			FullName:      "João Santos",
			Role:          user.RoleStudent,
			WhatsAppPhone: "5511888888888",
			CreatedAt:     date(2024, 1, 2),
		},
		{
			ID:            "3",
			Email:         "ana@pota.com",
			FullName:      "Ana Costa",
			Role:          user.RoleStudent,
			WhatsAppPhone: "5511777777777",
			CreatedAt:     date(2024, 1, 3),
		},
	}

	userRepo := NewUserRepository()
	for _, u := range users {
		if err := u.SetPassword(SeedPassword); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to hash seed password: %w", err)
		}
		userRepo.add(u)
	}

	teacher, joao, ana := users[0], users[1], users[2]

	postRepo := NewPostRepository()
	posts := []*post.Post{
		{
			ID:          "1",
			AuthorID:    teacher.ID,
			Author:      *teacher,
			Message:     "Bem-vindos ao novo semestre! Lembrem-se de que as aulas começam na próxima segunda-feira às 8h.",
			PublishedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local),
		},
		{
			ID:          "2",
			AuthorID:    teacher.ID,
			Author:      *teacher,
			Message:     "Atenção: A prova de matemática foi adiada para sexta-feira. Estudem o capítulo 5 do livro.",
			PublishedAt: time.Date(2024, 1, 16, 14, 30, 0, 0, time.Local),
		},
		{
			ID:          "3",
			AuthorID:    teacher.ID,
			Author:      *teacher,
			Message:     "Parabéns a todos pela dedicação! Continuem assim que teremos um ótimo ano letivo.",
			PublishedAt: time.Date(2024, 1, 17, 9, 15, 0, 0, time.Local),
		},
	}
	// Append in chronological order so the newest post lists first.
	for _, p := range posts {
		if err := postRepo.Append(context.Background(), p); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to seed post %s: %w", p.ID, err)
		}
	}

	monthly := decimal.NewFromFloat(150.00)
	invoiceRepo := NewInvoiceRepository()
	invoices := []*invoice.Invoice{
		{
			ID:        "1",
			UserID:    joao.ID,
			User:      *joao,
			DueDate:   date(2024, 1, 25),
			Amount:    monthly,
			Status:    invoice.StatusPending,
			CreatedAt: date(2024, 1, 1),
		},
		{
			ID:        "2",
			UserID:    ana.ID,
			User:      *ana,
			DueDate:   date(2024, 1, 28),
			Amount:    monthly,
			Status:    invoice.StatusOverdue,
			CreatedAt: date(2024, 1, 1),
		},
		{
			ID:        "3",
			UserID:    joao.ID,
			User:      *joao,
			DueDate:   date(2024, 2, 25),
			Amount:    monthly,
			Status:    invoice.StatusPending,
			CreatedAt: date(2024, 2, 1),
		},
	}
	for _, inv := range invoices {
		invoiceRepo.add(inv)
	}

	return userRepo, invoiceRepo, postRepo, nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}
