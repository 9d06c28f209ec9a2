package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopStore(t *testing.T) {
	var s NopStore
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, BatchRecord{BatchID: "x"}))

	_, err := s.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)

	recs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)

	require.NoError(t, s.Close())
}
