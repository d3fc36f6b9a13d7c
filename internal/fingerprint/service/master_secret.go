package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

// MasterSecretSource describes where the master secret comes from.
type MasterSecretSource struct {
	// Secret is the plain master secret, or the base64 KMS ciphertext when KMSProvider is set.
	Secret      string
	KMSProvider string
	KMSKeyURI   string
}

// LoadMasterSecret resolves the raw master secret bytes.
//
// Without a KMS provider the secret's UTF-8 bytes are used as is. With one, the
// secret is base64-decoded and unwrapped through the keeper at KMSKeyURI.
// Callers should Zero the result once keys are derived.
func LoadMasterSecret(
	ctx context.Context,
	kms KMSService,
	src MasterSecretSource,
	logger *slog.Logger,
) ([]byte, error) {
	if src.Secret == "" {
		return nil, fmt.Errorf("%w: MASTER_SECRET is not set", fingerprintDomain.ErrInvalidMasterSecret)
	}

	if src.KMSProvider == "" {
		return []byte(src.Secret), nil
	}

	if src.KMSKeyURI == "" {
		return nil, fmt.Errorf("%w: KMS_KEY_URI is required when KMS_PROVIDER is set", fingerprintDomain.ErrInvalidMasterSecret)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(src.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", fingerprintDomain.ErrInvalidMasterSecret, err)
	}

	keeper, err := kms.OpenKeeper(ctx, src.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil && logger != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	secret, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: KMS decrypt failed: %v", fingerprintDomain.ErrInvalidMasterSecret, err)
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: KMS returned an empty secret", fingerprintDomain.ErrInvalidMasterSecret)
	}

	if logger != nil {
		logger.Info("master secret unwrapped with KMS", slog.String("kms_provider", src.KMSProvider))
	}
	return secret, nil
}

// WrapMasterSecret encrypts secret with the keeper at keyURI and returns the
// base64 ciphertext to store in MASTER_SECRET.
func WrapMasterSecret(ctx context.Context, kms KMSService, keyURI string, secret []byte) (string, error) {
	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return "", err
	}
	defer func() { _ = keeper.Close() }()

	ciphertext, err := keeper.Encrypt(ctx, secret)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt master secret with KMS: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
