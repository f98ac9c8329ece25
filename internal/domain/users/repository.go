package users

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"circles/internal/domain/auth"
)

type SearchParams struct {
	FirstName string
	LastName  string
	Age       int
	ExcludeID int64
}

type Repository interface {
	Search(ctx context.Context, params SearchParams) ([]*auth.User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Search matches names case-insensitively as substrings, age exactly,
// and always excludes the caller.
func (r *repository) Search(ctx context.Context, params SearchParams) ([]*auth.User, error) {
	query := r.db.WithContext(ctx).Model(&auth.User{})

	if params.FirstName != "" {
		query = query.Where("LOWER(first_name) LIKE ?", "%"+strings.ToLower(params.FirstName)+"%")
	}
	if params.LastName != "" {
		query = query.Where("LOWER(last_name) LIKE ?", "%"+strings.ToLower(params.LastName)+"%")
	}
	if params.Age > 0 {
		query = query.Where("age = ?", params.Age)
	}
	if params.ExcludeID != 0 {
		query = query.Where("id != ?", params.ExcludeID)
	}

	var found []*auth.User
	if err := query.Find(&found).Error; err != nil {
		return nil, err
	}
	for _, u := range found {
		u.Password = ""
	}
	return found, nil
}
