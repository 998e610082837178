package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fuzailpalnak/authentic-ilm/internal/models"
)

// ProfessorRepository handles read lookups against professors.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository creates a new repository instance.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// FindByKey fetches a professor by normalized name key. Returns
// sql.ErrNoRows when no professor matches.
func (r *ProfessorRepository) FindByKey(ctx context.Context, nameKey string) (*models.Professor, error) {
	const query = `SELECT id, name, name_key, email, email_key, created_at FROM professors WHERE name_key = $1`
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, query, nameKey); err != nil {
		return nil, err
	}
	return &professor, nil
}
