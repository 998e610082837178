package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fuzailpalnak/authentic-ilm/internal/models"
)

// TopicRepository handles read lookups against topics.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new repository instance.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// FindByKey fetches a topic by its normalized name key. Returns
// sql.ErrNoRows when no topic matches.
func (r *TopicRepository) FindByKey(ctx context.Context, nameKey string) (*models.Topic, error) {
	const query = `SELECT id, name, name_key, created_at FROM topics WHERE name_key = $1`
	var topic models.Topic
	if err := r.db.GetContext(ctx, &topic, query, nameKey); err != nil {
		return nil, err
	}
	return &topic, nil
}
