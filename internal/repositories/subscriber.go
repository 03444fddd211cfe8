package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// CreateSubscriber stores a newsletter email. Returns created=false when the
// address was already subscribed (unique violation is not an error here).
func (r *Repository) CreateSubscriber(ctx context.Context, email string) (bool, error) {
	op := "repository.CreateSubscriber()"

	email = strings.ToLower(strings.TrimSpace(email))

	insertQuery := `INSERT INTO subscribers (id, email, created_at) VALUES ($1, $2, CURRENT_TIMESTAMP)`

	_, err := r.DB.ExecContext(ctx, insertQuery, uuid.New(), email)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}
