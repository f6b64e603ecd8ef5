package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "healthmate.db")

	conn, err := Open(path)
	require.NoError(t, err)
	records := NewSessionRecords(conn)

	_, ok, err := records.Load(ctx, "healthmate_user")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, records.Save(ctx, "healthmate_user", `{"id":1}`))
	require.NoError(t, records.Save(ctx, "healthmate_user", `{"id":2}`))

	payload, ok, err := records.Load(ctx, "healthmate_user")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":2}`, payload)
	require.NoError(t, Close(conn))

	// Survives reopening the file
	conn, err = Open(path)
	require.NoError(t, err)
	defer Close(conn)
	records = NewSessionRecords(conn)

	payload, ok, err = records.Load(ctx, "healthmate_user")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":2}`, payload)

	require.NoError(t, records.Delete(ctx, "healthmate_user"))
	_, ok, err = records.Load(ctx, "healthmate_user")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting twice is fine
	require.NoError(t, records.Delete(ctx, "healthmate_user"))
}
