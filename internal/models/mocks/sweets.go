package mocks

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/kayden-vs/katasweets/internal/models"
)

type CategoryModel struct {
	mu         sync.Mutex
	categories []*models.Category
}

func NewCategoryModel() *CategoryModel {
	return &CategoryModel{}
}

func (m *CategoryModel) Insert(name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.categories {
		if c.Name == name {
			return nil, models.ErrDuplicateCategory
		}
	}
	c := &models.Category{ID: fmt.Sprintf("cat-%d", len(m.categories)+1), Name: name}
	m.categories = append(m.categories, c)
	dup := *c
	return &dup, nil
}

func (m *CategoryModel) Get(id string) (*models.Category, error) {
	return m.find(func(c *models.Category) bool { return c.ID == id })
}

func (m *CategoryModel) GetByName(name string) (*models.Category, error) {
	return m.find(func(c *models.Category) bool { return c.Name == name })
}

func (m *CategoryModel) List() ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*models.Category{}
	for _, c := range m.categories {
		dup := *c
		out = append(out, &dup)
	}
	slices.SortFunc(out, func(a, b *models.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *CategoryModel) find(match func(*models.Category) bool) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.categories {
		if match(c) {
			dup := *c
			return &dup, nil
		}
	}
	return nil, models.ErrNoRecord
}

// SweetModel resolves category ids through the CategoryModel it was built with.
type SweetModel struct {
	mu         sync.Mutex
	categories *CategoryModel
	sweets     []*models.Sweet
	nextID     int
}

func NewSweetModel(categories *CategoryModel) *SweetModel {
	return &SweetModel{categories: categories}
}

func (m *SweetModel) Insert(name, categoryID string, price float64, quantity int) (*models.Sweet, error) {
	c, err := m.categories.Get(categoryID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	s := &models.Sweet{
		ID:       fmt.Sprintf("sweet-%d", m.nextID),
		Name:     name,
		Category: *c,
		Price:    price,
		Quantity: quantity,
	}
	m.sweets = append(m.sweets, s)
	dup := *s
	return &dup, nil
}

func (m *SweetModel) Get(id string) (*models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	dup := *s
	return &dup, nil
}

func (m *SweetModel) List() ([]*models.Sweet, error) {
	return m.Search(models.SweetFilter{})
}

func (m *SweetModel) Search(filter models.SweetFilter) ([]*models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*models.Sweet{}
	for _, s := range m.sweets {
		if filter.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.CategoryID != "" && s.Category.ID != filter.CategoryID {
			continue
		}
		if filter.MinPrice != nil && s.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && s.Price > *filter.MaxPrice {
			continue
		}
		dup := *s
		out = append(out, &dup)
	}
	slices.SortFunc(out, func(a, b *models.Sweet) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *SweetModel) Update(id string, changes models.SweetUpdate) (*models.Sweet, error) {
	var category *models.Category
	if changes.CategoryID != nil {
		c, err := m.categories.Get(*changes.CategoryID)
		if err != nil {
			return nil, err
		}
		category = c
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	if changes.Name != nil {
		s.Name = *changes.Name
	}
	if category != nil {
		s.Category = *category
	}
	if changes.Price != nil {
		s.Price = *changes.Price
	}
	if changes.Quantity != nil {
		s.Quantity = *changes.Quantity
	}
	dup := *s
	return &dup, nil
}

func (m *SweetModel) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.sweets {
		if s.ID == id {
			m.sweets = slices.Delete(m.sweets, i, i+1)
			return nil
		}
	}
	return models.ErrNoRecord
}

func (m *SweetModel) Purchase(id string, quantity int) (*models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	if s.Quantity < quantity {
		return nil, models.ErrInsufficientStock
	}
	s.Quantity -= quantity
	dup := *s
	return &dup, nil
}

func (m *SweetModel) Restock(id string, quantity int) (*models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.Quantity += quantity
	dup := *s
	return &dup, nil
}

// lookup expects m.mu to be held.
func (m *SweetModel) lookup(id string) (*models.Sweet, error) {
	for _, s := range m.sweets {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, models.ErrNoRecord
}
