package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	fingerprintService "github.com/PrLayt0n/FiLeaked/internal/fingerprint/service"
)

// masterSecretSize is the entropy of a generated master secret in bytes.
const masterSecretSize = 32

// RunCreateMasterSecret prints a fresh MASTER_SECRET. With a KMS provider and
// key URI the secret is wrapped by the keeper and printed alongside the
// KMS_PROVIDER and KMS_KEY_URI it must be loaded with.
//
// The secret is the base64 text of 32 random bytes; keys are derived from
// that text, so the plain and wrapped forms load to the same keys.
func RunCreateMasterSecret(
	ctx context.Context,
	kmsService fingerprintService.KMSService,
	logger *slog.Logger,
	io IOTuple,
	kmsProvider string,
	kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf(
			"--kms-provider and --kms-key-uri are required together\n\n" +
				"For local development, use:\n" +
				"  --kms-provider=localsecrets --kms-key-uri=\"base64key://<32-byte-base64-key>\"",
		)
	}

	raw := make([]byte, masterSecretSize)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate master secret: %w", err)
	}
	secret := []byte(base64.StdEncoding.EncodeToString(raw))
	fingerprintDomain.Zero(raw)
	defer fingerprintDomain.Zero(secret)

	if kmsProvider == "" {
		logger.Warn("master secret printed in plain text; prefer a KMS provider outside development")
		_, _ = fmt.Fprintln(io.Writer, "# Copy this to your .env file or secrets manager")
		_, _ = fmt.Fprintf(io.Writer, "MASTER_SECRET=\"%s\"\n", secret)
		return nil
	}

	wrapped, err := fingerprintService.WrapMasterSecret(ctx, kmsService, kmsKeyURI, secret)
	if err != nil {
		return err
	}

	logger.Info("master secret wrapped with KMS", slog.String("kms_provider", kmsProvider))
	_, _ = fmt.Fprintln(io.Writer, "# Copy these to your .env file or secrets manager")
	_, _ = fmt.Fprintf(io.Writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	_, _ = fmt.Fprintf(io.Writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(io.Writer, "MASTER_SECRET=\"%s\"\n", wrapped)
	return nil
}
