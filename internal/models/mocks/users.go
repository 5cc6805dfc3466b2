// Package mocks provides in-memory model implementations for handler tests.
package mocks

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kayden-vs/katasweets/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type UserModel struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	nextID  int
}

func NewUserModel() *UserModel {
	return &UserModel{byEmail: map[string]*models.User{}}
}

func (m *UserModel) Insert(username, email, password string, isAdmin bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[email]; exists {
		return "", models.ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", err
	}

	m.nextID++
	u := &models.User{
		ID:             fmt.Sprintf("user-%d", m.nextID),
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		IsAdmin:        isAdmin,
		Created:        time.Now(),
	}
	m.byEmail[email] = u
	return u.ID, nil
}

func (m *UserModel) Authenticate(email, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byEmail[email]
	if !ok {
		return nil, models.ErrNoRecord
	}
	err := bcrypt.CompareHashAndPassword(u.HashedPassword, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	dup := *u
	return &dup, nil
}

func (m *UserModel) Get(id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byEmail {
		if u.ID == id {
			dup := *u
			return &dup, nil
		}
	}
	return nil, models.ErrNoRecord
}
