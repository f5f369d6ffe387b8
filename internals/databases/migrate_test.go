package database

import (
	"io"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setiap versi up wajib punya down supaya Rollback bisa jalan.
func TestEmbeddedMigrationsHaveDown(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)
	for {
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "up %d", version)
		b, _ := io.ReadAll(up)
		up.Close()
		assert.NotEmpty(t, b, "up %d kosong", version)

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "down %d", version)
		b, _ = io.ReadAll(down)
		down.Close()
		assert.NotEmpty(t, b, "down %d kosong", version)

		next, err := src.Next(version)
		if err != nil {
			break
		}
		version = next
	}
}

func TestRollbackZeroStepsIsNoop(t *testing.T) {
	// db nil tidak disentuh kalau tidak ada step
	assert.NoError(t, Rollback(nil, 0))
	assert.NoError(t, Rollback(nil, -2))
}
