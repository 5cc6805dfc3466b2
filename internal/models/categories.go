package models

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/oklog/ulid/v2"
)

type CategoryModelInterface interface {
	Insert(name string) (*Category, error)
	Get(id string) (*Category, error)
	GetByName(name string) (*Category, error)
	List() ([]*Category, error)
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type CategoryModel struct {
	DB *sql.DB
}

func (m *CategoryModel) Insert(name string) (*Category, error) {
	c := &Category{ID: ulid.Make().String(), Name: name}

	_, err := m.DB.Exec(`INSERT INTO categories (id, name) VALUES (?, ?)`, c.ID, c.Name)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}
	return c, nil
}

func (m *CategoryModel) Get(id string) (*Category, error) {
	return m.getOne(`SELECT id, name FROM categories WHERE id = ?`, id)
}

func (m *CategoryModel) GetByName(name string) (*Category, error) {
	return m.getOne(`SELECT id, name FROM categories WHERE name = ?`, name)
}

func (m *CategoryModel) List() ([]*Category, error) {
	rows, err := m.DB.Query(`SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (m *CategoryModel) getOne(stmt string, arg any) (*Category, error) {
	c := &Category{}
	err := m.DB.QueryRow(stmt, arg).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return c, nil
}
