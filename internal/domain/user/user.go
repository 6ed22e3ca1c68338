package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role distinguishes the teacher account from student accounts.
type Role string

const (
	RoleTeacher Role = "Professor"
	RoleStudent Role = "Aluno"
)

// User represents an account in the system. Users are seeded at startup
// and immutable afterwards.
type User struct {
	ID            string
	Email         string
	FullName      string
	Role          Role
	WhatsAppPhone string
	PasswordHash  []byte
	CreatedAt     time.Time
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// SetPassword hashes pwd with bcrypt and stores the hash.
func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword compares pwd against the stored hash.
func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}
