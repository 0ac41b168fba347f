package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/baechuer/ewm-service/internal/domain"
)

// Users reads the user directory.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

func (u *Users) GetUser(ctx context.Context, id int64) (domain.User, error) {
	var out domain.User
	err := u.db.QueryRowContext(ctx, getUserSQL, id).Scan(&out.ID, &out.Name, &out.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound(fmt.Sprintf("user with id=%d was not found", id))
	}
	return out, err
}

// Categories reads the category directory.
type Categories struct {
	db *sql.DB
}

func NewCategories(db *sql.DB) *Categories { return &Categories{db: db} }

func (c *Categories) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var out domain.Category
	err := c.db.QueryRowContext(ctx, getCategorySQL, id).Scan(&out.ID, &out.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, domain.ErrNotFound(fmt.Sprintf("category with id=%d was not found", id))
	}
	return out, err
}
