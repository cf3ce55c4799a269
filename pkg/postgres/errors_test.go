package postgres_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/academykit/academykit/pkg/postgres"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		assert.True(t, postgres.IsNotFoundError(pgx.ErrNoRows))
		assert.True(t, postgres.IsNotFoundError(fmt.Errorf("query: %w", pgx.ErrNoRows)))
		assert.False(t, postgres.IsNotFoundError(nil))
		assert.False(t, postgres.IsNotFoundError(errors.New("other")))
	})

	t.Run("duplicate key", func(t *testing.T) {
		t.Parallel()
		assert.True(t, postgres.IsDuplicateKeyError(&pgconn.PgError{Code: "23505"}))
		assert.False(t, postgres.IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
		assert.False(t, postgres.IsDuplicateKeyError(nil))
	})

	t.Run("foreign key violation", func(t *testing.T) {
		t.Parallel()
		assert.True(t, postgres.IsForeignKeyViolationError(&pgconn.PgError{Code: "23503"}))
		assert.False(t, postgres.IsForeignKeyViolationError(&pgconn.PgError{Code: "23505"}))
	})

	t.Run("serialization failure", func(t *testing.T) {
		t.Parallel()
		assert.True(t, postgres.IsSerializationFailure(&pgconn.PgError{Code: "40001"}))
		assert.True(t, postgres.IsSerializationFailure(
			fmt.Errorf("tx: %w", &pgconn.PgError{Code: "40001"})))
		assert.False(t, postgres.IsSerializationFailure(&pgconn.PgError{Code: "40P01"}))
		assert.False(t, postgres.IsSerializationFailure(nil))
	})
}
