package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGormConfigTranslatesDriverErrors(t *testing.T) {
	// The duplicate-user mapping in userRepository.Create matches
	// gorm.ErrDuplicatedKey, which the postgres driver only produces
	// when error translation is on.
	assert.True(t, gormConfig().TranslateError)
}

func TestDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "wallet")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "campus")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_SSLMODE", "require")

	assert.Equal(t,
		"host=db.internal user=wallet password=secret dbname=campus port=5433 sslmode=require",
		DSN())
}
