package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	sealedPrefix  = "sealed.v1."
	sealedSaltLen = 16
)

var ErrSealedToken = errors.New("stored token cannot be unsealed")

type sealedTokenStore struct {
	next       TokenStore
	passphrase []byte
}

// NewSealedTokenStore wraps a store so the token is encrypted at rest.
// Each save draws a fresh salt and nonce. The key is derived with Argon2id.
func NewSealedTokenStore(next TokenStore, passphrase string) TokenStore {
	return &sealedTokenStore{next: next, passphrase: []byte(passphrase)}
}

func (ss *sealedTokenStore) Load(ctx context.Context) (string, error) {
	stored, err := ss.next.Load(ctx)
	if err != nil {
		return "", err
	}
	return ss.open(stored)
}

func (ss *sealedTokenStore) Save(ctx context.Context, token string) error {
	sealed, err := ss.seal(token)
	if err != nil {
		return err
	}
	return ss.next.Save(ctx, sealed)
}

func (ss *sealedTokenStore) Delete(ctx context.Context) error {
	return ss.next.Delete(ctx)
}

func (ss *sealedTokenStore) Close() error {
	return ss.next.Close()
}

func (ss *sealedTokenStore) deriveKey(salt []byte) []byte {
	return argon2.IDKey(ss.passphrase, salt, 1, 64*1024, 4, chacha20poly1305.KeySize)
}

func (ss *sealedTokenStore) seal(token string) (string, error) {
	salt := make([]byte, sealedSaltLen, sealedSaltLen+chacha20poly1305.NonceSizeX+len(token)+chacha20poly1305.Overhead)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to draw salt: %w", err)
	}
	aead, err := chacha20poly1305.NewX(ss.deriveKey(salt))
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to draw nonce: %w", err)
	}
	out := append(salt, nonce...)
	out = aead.Seal(out, nonce, []byte(token), nil)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(out), nil
}

func (ss *sealedTokenStore) open(stored string) (string, error) {
	encoded, ok := strings.CutPrefix(stored, sealedPrefix)
	if !ok {
		return "", fmt.Errorf("%w: unknown format", ErrSealedToken)
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealedToken, err)
	}
	if len(raw) < sealedSaltLen+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return "", fmt.Errorf("%w: payload too short", ErrSealedToken)
	}
	salt := raw[:sealedSaltLen]
	nonce := raw[sealedSaltLen : sealedSaltLen+chacha20poly1305.NonceSizeX]
	aead, err := chacha20poly1305.NewX(ss.deriveKey(salt))
	if err != nil {
		return "", err
	}
	token, err := aead.Open(nil, nonce, raw[sealedSaltLen+chacha20poly1305.NonceSizeX:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealedToken, err)
	}
	return string(token), nil
}
