package models

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"
)

type SweetModelInterface interface {
	Insert(name, categoryID string, price float64, quantity int) (*Sweet, error)
	Get(id string) (*Sweet, error)
	List() ([]*Sweet, error)
	Search(filter SweetFilter) ([]*Sweet, error)
	Update(id string, changes SweetUpdate) (*Sweet, error)
	Delete(id string) error
	Purchase(id string, quantity int) (*Sweet, error)
	Restock(id string, quantity int) (*Sweet, error)
}

type Sweet struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Price    float64  `json:"price"`
	Quantity int      `json:"quantity"`
}

// SweetFilter narrows Search. Zero values do not filter.
type SweetFilter struct {
	Name       string
	CategoryID string
	MinPrice   *float64
	MaxPrice   *float64
}

// SweetUpdate holds the fields of a partial update; nil fields are kept.
type SweetUpdate struct {
	Name       *string
	CategoryID *string
	Price      *float64
	Quantity   *int
}

type SweetModel struct {
	DB *sql.DB
}

const sweetColumns = `SELECT s.id, s.name, s.price, s.quantity, c.id, c.name
             FROM sweets s
             JOIN categories c ON c.id = s.category_id`

func (m *SweetModel) Insert(name, categoryID string, price float64, quantity int) (*Sweet, error) {
	id := ulid.Make().String()

	stmt := `INSERT INTO sweets (id, name, category_id, price, quantity, created)
             VALUES (?, ?, ?, ?, ?, UTC_TIMESTAMP())`
	_, err := m.DB.Exec(stmt, id, name, categoryID, price, quantity)
	if err != nil {
		return nil, err
	}
	return m.Get(id)
}

func (m *SweetModel) Get(id string) (*Sweet, error) {
	s := &Sweet{}
	err := m.DB.QueryRow(sweetColumns+` WHERE s.id = ?`, id).Scan(
		&s.ID, &s.Name, &s.Price, &s.Quantity, &s.Category.ID, &s.Category.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return s, nil
}

func (m *SweetModel) List() ([]*Sweet, error) {
	rows, err := m.DB.Query(sweetColumns + ` ORDER BY s.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSweets(rows)
}

func (m *SweetModel) Search(filter SweetFilter) ([]*Sweet, error) {
	var (
		where []string
		args  []any
	)

	if filter.Name != "" {
		where = append(where, "LOWER(s.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.CategoryID != "" {
		where = append(where, "s.category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.MinPrice != nil {
		where = append(where, "s.price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where = append(where, "s.price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	stmt := sweetColumns
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY s.name"

	rows, err := m.DB.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSweets(rows)
}

func (m *SweetModel) Update(id string, changes SweetUpdate) (*Sweet, error) {
	var (
		set  []string
		args []any
	)

	if changes.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *changes.Name)
	}
	if changes.CategoryID != nil {
		set = append(set, "category_id = ?")
		args = append(args, *changes.CategoryID)
	}
	if changes.Price != nil {
		set = append(set, "price = ?")
		args = append(args, *changes.Price)
	}
	if changes.Quantity != nil {
		set = append(set, "quantity = ?")
		args = append(args, *changes.Quantity)
	}

	if len(set) > 0 {
		args = append(args, id)
		_, err := m.DB.Exec("UPDATE sweets SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return nil, err
		}
	}
	return m.Get(id)
}

func (m *SweetModel) Delete(id string) error {
	result, err := m.DB.Exec("DELETE FROM sweets WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoRecord
	}
	return nil
}

// Purchase takes quantity items out of stock, failing with
// ErrInsufficientStock rather than going negative.
func (m *SweetModel) Purchase(id string, quantity int) (*Sweet, error) {
	result, err := m.DB.Exec(
		"UPDATE sweets SET quantity = quantity - ? WHERE id = ? AND quantity >= ?",
		quantity, id, quantity,
	)
	if err != nil {
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Either the sweet is gone or there is not enough of it.
		if _, err := m.Get(id); err != nil {
			return nil, err
		}
		return nil, ErrInsufficientStock
	}
	return m.Get(id)
}

func (m *SweetModel) Restock(id string, quantity int) (*Sweet, error) {
	result, err := m.DB.Exec("UPDATE sweets SET quantity = quantity + ? WHERE id = ?", quantity, id)
	if err != nil {
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNoRecord
	}
	return m.Get(id)
}

func scanSweets(rows *sql.Rows) ([]*Sweet, error) {
	sweets := []*Sweet{}
	for rows.Next() {
		s := &Sweet{}
		err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Quantity, &s.Category.ID, &s.Category.Name)
		if err != nil {
			return nil, err
		}
		sweets = append(sweets, s)
	}
	return sweets, rows.Err()
}
