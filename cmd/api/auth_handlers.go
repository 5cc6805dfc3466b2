package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kayden-vs/katasweets/internal/models"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	_, err := s.users.Insert(req.Username, req.Email, req.Password, req.IsAdmin)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			fail(c, http.StatusBadRequest, "User already registered")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to register user")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	ok(c, http.StatusOK, nil, "User successfully registered")
}

func (s *server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := s.users.Authenticate(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoRecord):
			fail(c, http.StatusNotFound, "User not found")
		case errors.Is(err, models.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, "Incorrect password")
		default:
			s.logger.Error().Err(err).Msg("Failed to authenticate user")
			fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	token, err := s.tokens.Issue(user.Email, user.Role())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue token")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	ok(c, http.StatusOK, models.Token{Token: token, Role: user.Role()}, "")
}
