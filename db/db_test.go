package db_test

import (
	"path/filepath"
	"testing"

	"github.com/amonks/artists/db"
	"github.com/amonks/artists/overrides"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ overrides.Store = (*db.DB)(nil)

func TestOverrides(t *testing.T) {
	d, err := db.Open(filepath.Join(t.TempDir(), "data", "artists.db"))
	require.NoError(t, err)
	defer d.Close()

	assert.Empty(t, d.Load())

	require.NoError(t, d.Set("Q1", "images/Q1.jpg"))
	require.NoError(t, d.Set("Q2", "images/Q2.jpg"))
	require.NoError(t, d.Set("Q1", "images/Q1.png"))

	assert.Equal(t, map[string]string{
		"Q1": "images/Q1.png",
		"Q2": "images/Q2.jpg",
	}, d.Load())

	assert.Error(t, d.Set("", "x"))
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artists.db")

	d, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, d.Set("Q1", "a.jpg"))
	require.NoError(t, d.Close())

	d, err = db.Open(path)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, map[string]string{"Q1": "a.jpg"}, d.Load())
}
