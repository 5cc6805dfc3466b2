package models

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type UserModelInterface interface {
	Insert(username, email, password string, isAdmin bool) (string, error)
	Authenticate(email, password string) (*User, error)
	Get(id string) (*User, error)
}

type User struct {
	ID             string
	Username       string
	Email          string
	HashedPassword []byte
	IsAdmin        bool
	Created        time.Time
}

// Role is the label carried in tokens and mirrored by the storefront.
func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

type UserModel struct {
	DB *sql.DB
}

func (m *UserModel) Insert(username, email, password string, isAdmin bool) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}

	id := ulid.Make().String()

	stmt := `INSERT INTO users (id, username, email, hashed_password, is_admin, created)
    VALUES(?, ?, ?, ?, ?, UTC_TIMESTAMP())`

	_, err = m.DB.Exec(stmt, id, username, email, hashedPassword, isAdmin)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) {
			if mysqlErr.Number == 1062 && strings.Contains(mysqlErr.Message, "users_uc_email") {
				return "", ErrDuplicateEmail
			}
		}
		return "", err
	}

	return id, nil
}

// Authenticate returns ErrNoRecord for an unknown email and
// ErrInvalidCredentials for a wrong password; the API reports them differently.
func (m *UserModel) Authenticate(email, password string) (*User, error) {
	u := &User{}

	stmt := "SELECT id, username, email, hashed_password, is_admin, created FROM users WHERE email = ?"

	err := m.DB.QueryRow(stmt, email).Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.IsAdmin, &u.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword(u.HashedPassword, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return u, nil
}

func (m *UserModel) Get(id string) (*User, error) {
	u := &User{}

	stmt := "SELECT id, username, email, is_admin, created FROM users WHERE id = ?"

	err := m.DB.QueryRow(stmt, id).Scan(&u.ID, &u.Username, &u.Email, &u.IsAdmin, &u.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, err
	}

	return u, nil
}

// Token is the login payload returned by the API and stored by the storefront.
type Token struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}
