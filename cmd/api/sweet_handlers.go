package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kayden-vs/katasweets/internal/models"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required,max=30"`
}

type sweetCreateRequest struct {
	Name     string   `json:"name" binding:"required,max=50"`
	Category string   `json:"category" binding:"required"`
	Price    *float64 `json:"price" binding:"required,gte=0"`
	Quantity *int     `json:"quantity" binding:"required,gte=0"`
}

type sweetUpdateRequest struct {
	Name     *string  `json:"name" binding:"omitempty,max=50"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price" binding:"omitempty,gte=0"`
	Quantity *int     `json:"quantity" binding:"omitempty,gte=0"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" binding:"required,gte=1"`
}

func (s *server) listCategories(c *gin.Context) {
	categories, err := s.categories.List()
	if err != nil {
		s.internalError(c, err)
		return
	}
	ok(c, http.StatusOK, categories, "")
}

func (s *server) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		fail(c, http.StatusUnprocessableEntity, "Category name is required")
		return
	}

	category, err := s.categories.Insert(name)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateCategory) {
			fail(c, http.StatusBadRequest, "Category already exists.")
			return
		}
		s.internalError(c, err)
		return
	}
	ok(c, http.StatusCreated, category, "")
}

func (s *server) listSweets(c *gin.Context) {
	sweets, err := s.sweets.List()
	if err != nil {
		s.internalError(c, err)
		return
	}
	ok(c, http.StatusOK, sweets, "")
}

func (s *server) searchSweets(c *gin.Context) {
	filter := models.SweetFilter{Name: c.Query("name")}

	if name := c.Query("category"); name != "" {
		category, err := s.categories.GetByName(name)
		if err != nil {
			if errors.Is(err, models.ErrNoRecord) {
				ok(c, http.StatusOK, []*models.Sweet{}, "")
				return
			}
			s.internalError(c, err)
			return
		}
		filter.CategoryID = category.ID
	}

	for param, dst := range map[string]**float64{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fail(c, http.StatusUnprocessableEntity, "Invalid "+param)
			return
		}
		*dst = &v
	}

	sweets, err := s.sweets.Search(filter)
	if err != nil {
		s.internalError(c, err)
		return
	}
	ok(c, http.StatusOK, sweets, "")
}

func (s *server) createSweet(c *gin.Context) {
	var req sweetCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	category, found := s.resolveCategory(c, req.Category)
	if !found {
		return
	}

	sweet, err := s.sweets.Insert(req.Name, category.ID, *req.Price, *req.Quantity)
	if err != nil {
		s.internalError(c, err)
		return
	}
	ok(c, http.StatusCreated, sweet, "")
}

func (s *server) updateSweet(c *gin.Context) {
	var req sweetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	changes := models.SweetUpdate{Name: req.Name, Price: req.Price, Quantity: req.Quantity}
	if req.Category != nil {
		category, found := s.resolveCategory(c, *req.Category)
		if !found {
			return
		}
		changes.CategoryID = &category.ID
	}

	sweet, err := s.sweets.Update(c.Param("id"), changes)
	if err != nil {
		s.sweetError(c, err)
		return
	}
	ok(c, http.StatusOK, sweet, "")
}

func (s *server) deleteSweet(c *gin.Context) {
	if err := s.sweets.Delete(c.Param("id")); err != nil {
		s.sweetError(c, err)
		return
	}
	ok(c, http.StatusOK, nil, "Sweet successfully deleted")
}

func (s *server) purchaseSweet(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Quantity must be at least 1")
		return
	}

	sweet, err := s.sweets.Purchase(c.Param("id"), req.Quantity)
	if err != nil {
		s.sweetError(c, err)
		return
	}
	ok(c, http.StatusOK, sweet, "Purchase successful")
}

func (s *server) restockSweet(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Quantity must be at least 1")
		return
	}

	sweet, err := s.sweets.Restock(c.Param("id"), req.Quantity)
	if err != nil {
		s.sweetError(c, err)
		return
	}
	ok(c, http.StatusOK, sweet, "Restock successful")
}

// resolveCategory accepts a category id or name. It writes the error response
// itself and reports false when nothing matched.
func (s *server) resolveCategory(c *gin.Context, ref string) (*models.Category, bool) {
	category, err := s.categories.Get(ref)
	if errors.Is(err, models.ErrNoRecord) {
		category, err = s.categories.GetByName(ref)
	}
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			fail(c, http.StatusNotFound, "Category not found")
		} else {
			s.internalError(c, err)
		}
		return nil, false
	}
	return category, true
}

func (s *server) sweetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNoRecord):
		fail(c, http.StatusNotFound, "Sweet not found")
	case errors.Is(err, models.ErrInsufficientStock):
		fail(c, http.StatusBadRequest, "Not enough stock available")
	default:
		s.internalError(c, err)
	}
}

func (s *server) internalError(c *gin.Context, err error) {
	s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	fail(c, http.StatusInternalServerError, "Internal server error")
}
