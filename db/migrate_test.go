package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToMigrateURL(t *testing.T) {
	got, err := convertToMigrateURL("postgres://u:p@localhost:5432/seaward?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://u:p@localhost:5432/seaward?sslmode=disable", got)

	got, err = convertToMigrateURL("postgresql://u@localhost/seaward")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://u@localhost/seaward", got)

	_, err = convertToMigrateURL("mysql://u@localhost/seaward")
	assert.Error(t, err)
}
