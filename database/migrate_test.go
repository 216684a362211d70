package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor("postgres", "postgres://localhost/findtern")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = dialectorFor("mysql", "root@tcp(localhost:3306)/findtern")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	_, err = dialectorFor("oracle", "")
	assert.Error(t, err)
}

func TestModels(t *testing.T) {
	assert.Len(t, Models(), 9)
}
