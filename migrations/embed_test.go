package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathmeshnaik91/skinet/pkg/database"
)

func TestFS_UpFilesInOrder(t *testing.T) {
	names, err := database.MigrationFiles(FS)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_catalog.up.sql", "002_create_identity.up.sql"}, names)
}
