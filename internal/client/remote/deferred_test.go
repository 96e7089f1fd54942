package remote

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredStore_DialsOnFirstUse(t *testing.T) {
	d := NewDeferredStore(Options{Kind: KindMemory})
	ctx := context.Background()

	require.NoError(t, d.Ping(ctx))
	require.NoError(t, d.Set(ctx, Notes, "n1", models.Fields{models.FieldUserID: "u1"}))

	doc, err := d.Get(ctx, Notes, "n1")
	require.NoError(t, err)
	assert.Equal(t, "u1", doc[models.FieldUserID])

	docs, err := d.Query(ctx, Notes, models.FieldUserID, "u1")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, d.Delete(ctx, Notes, "n1"))
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
}

func TestDeferredStore_ReportsDialError(t *testing.T) {
	d := NewDeferredStore(Options{Kind: "carrier-pigeon"})
	ctx := context.Background()

	require.ErrorIs(t, d.Ping(ctx), ErrUnknownKind)
	require.ErrorIs(t, d.Set(ctx, Notes, "n1", nil), ErrUnknownKind)
	_, err := d.Query(ctx, Notes, "x", "y")
	require.ErrorIs(t, err, ErrUnknownKind)
	require.NoError(t, d.Close())
}
