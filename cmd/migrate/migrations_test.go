package main

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsComeInPairs(t *testing.T) {
	src, err := (&file.File{}).Open("file://../../db/migrations")
	require.NoError(t, err)
	defer src.Close()

	var versions []uint
	v, err := src.First()
	require.NoError(t, err)
	for {
		versions = append(versions, v)

		up, _, err := src.ReadUp(v)
		require.NoError(t, err, "version %d has no up file", v)
		up.Close()
		down, _, err := src.ReadDown(v)
		require.NoError(t, err, "version %d has no down file", v)
		down.Close()

		v, err = src.Next(v)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, []uint{1, 2}, versions)

	up, _, err := src.ReadUp(2)
	require.NoError(t, err)
	defer up.Close()
	body, err := io.ReadAll(up)
	require.NoError(t, err)
	assert.Contains(t, string(body), "idx_votes_award ON votes (award_id)")
}
