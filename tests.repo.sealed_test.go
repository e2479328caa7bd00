package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSealedStore(t *testing.T) {
	inner := &MockTokenStore{}
	store := NewSealedTokenStore(inner, "correct horse")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "t:secret"))
	assert.True(t, strings.HasPrefix(inner.Stored(), sealedPrefix))
	assert.NotContains(t, inner.Stored(), "t:secret")

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t:secret", token)

	first := inner.Stored()
	require.NoError(t, store.Save(ctx, "t:secret"))
	assert.NotEqual(t, first, inner.Stored(), "each save must use a fresh salt and nonce")

	require.NoError(t, store.Delete(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, store.Close())
	assert.True(t, inner.Closed)
}

func TestSealedStore_WrongPassphrase(t *testing.T) {
	inner := &MockTokenStore{}
	require.NoError(t, NewSealedTokenStore(inner, "one").Save(context.Background(), "t:secret"))

	_, err := NewSealedTokenStore(inner, "two").Load(context.Background())
	assert.ErrorIs(t, err, ErrSealedToken)
}

func TestSealedStore_PlainValue(t *testing.T) {
	inner := &MockTokenStore{Token: "t:plain"}
	_, err := NewSealedTokenStore(inner, "one").Load(context.Background())
	assert.ErrorIs(t, err, ErrSealedToken)

	inner.Token = sealedPrefix + "AAAA"
	_, err = NewSealedTokenStore(inner, "one").Load(context.Background())
	assert.ErrorIs(t, err, ErrSealedToken)
}

func TestNewTokenStore(t *testing.T) {
	config := newTestBoltConfig(t)
	config.Session = SessionConfig{Storage: StorageBolt, Key: DefaultSessionKey}
	store, err := NewTokenStore(zap.NewNop(), config)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "t:1"))
	require.NoError(t, store.Close())

	config.Session.Storage = StorageMemory
	config.Session.SealPassphrase = "pass"
	store, err = NewTokenStore(zap.NewNop(), config)
	require.NoError(t, err)
	_, ok := store.(*sealedTokenStore)
	assert.True(t, ok)

	config.Session.Storage = "s3"
	_, err = NewTokenStore(zap.NewNop(), config)
	assert.Error(t, err)
}
