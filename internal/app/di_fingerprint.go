package app

import (
	"fmt"

	"github.com/PrLayt0n/FiLeaked/internal/carrier"
	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	fingerprintHTTP "github.com/PrLayt0n/FiLeaked/internal/fingerprint/http"
	fingerprintService "github.com/PrLayt0n/FiLeaked/internal/fingerprint/service"
	fingerprintUseCase "github.com/PrLayt0n/FiLeaked/internal/fingerprint/usecase"
)

// KMSService returns the service that opens gocloud.dev keepers.
func (c *Container) KMSService() fingerprintService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = fingerprintService.NewKMSService()
	})
	return c.kmsService
}

func (c *Container) AEADManager() fingerprintService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = fingerprintService.NewAEADManager()
	})
	return c.aeadManager
}

// CodecRegistry returns the registry of container codecs.
func (c *Container) CodecRegistry() *carrier.Registry {
	c.registryInit.Do(func() {
		c.registry = carrier.NewRegistry()
	})
	return c.registry
}

// Keys returns the key pair derived from the master secret, unwrapping it
// through KMS first when KMS_PROVIDER is set.
func (c *Container) Keys() (*fingerprintDomain.Keys, error) {
	var err error
	c.keysInit.Do(func() {
		c.keys, err = c.initKeys()
		if err != nil {
			c.initErrors["keys"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keys"]; exists {
		return nil, storedErr
	}
	return c.keys, nil
}

func (c *Container) TokenCodec() (fingerprintService.TokenCodec, error) {
	var err error
	c.tokenCodecInit.Do(func() {
		c.tokenCodec, err = c.initTokenCodec()
		if err != nil {
			c.initErrors["tokenCodec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenCodec"]; exists {
		return nil, storedErr
	}
	return c.tokenCodec, nil
}

// FingerprintUseCase returns the use case, decorated with metrics when enabled.
func (c *Container) FingerprintUseCase() (fingerprintUseCase.FingerprintUseCase, error) {
	var err error
	c.fingerprintUseCaseInit.Do(func() {
		c.fingerprintUseCase, err = c.initFingerprintUseCase()
		if err != nil {
			c.initErrors["fingerprintUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fingerprintUseCase"]; exists {
		return nil, storedErr
	}
	return c.fingerprintUseCase, nil
}

func (c *Container) FingerprintHandler() (*fingerprintHTTP.FingerprintHandler, error) {
	var err error
	c.fingerprintHandlerInit.Do(func() {
		c.fingerprintHandler, err = c.initFingerprintHandler()
		if err != nil {
			c.initErrors["fingerprintHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fingerprintHandler"]; exists {
		return nil, storedErr
	}
	return c.fingerprintHandler, nil
}

func (c *Container) initKeys() (*fingerprintDomain.Keys, error) {
	secret, err := fingerprintService.LoadMasterSecret(
		c.ctx,
		c.KMSService(),
		fingerprintService.MasterSecretSource{
			Secret:      c.config.MasterSecret,
			KMSProvider: c.config.KMSProvider,
			KMSKeyURI:   c.config.KMSKeyURI,
		},
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load master secret: %w", err)
	}
	defer fingerprintDomain.Zero(secret)

	keys, err := fingerprintDomain.DeriveKeys(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to derive keys: %w", err)
	}
	return keys, nil
}

func (c *Container) initTokenCodec() (fingerprintService.TokenCodec, error) {
	keys, err := c.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to get keys for token codec: %w", err)
	}

	codec, err := fingerprintService.NewTokenCodec(
		keys,
		c.AEADManager(),
		fingerprintDomain.Algorithm(c.config.AEADAlgorithm),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}
	return codec, nil
}

func (c *Container) initFingerprintUseCase() (fingerprintUseCase.FingerprintUseCase, error) {
	tokenCodec, err := c.TokenCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get token codec for fingerprint use case: %w", err)
	}

	baseUseCase := fingerprintUseCase.NewFingerprintUseCase(
		tokenCodec,
		c.CodecRegistry(),
		c.config.DistributeWorkers,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for fingerprint use case: %w", err)
		}
		return fingerprintUseCase.NewFingerprintUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initFingerprintHandler() (*fingerprintHTTP.FingerprintHandler, error) {
	useCase, err := c.FingerprintUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get fingerprint use case for fingerprint handler: %w", err)
	}
	return fingerprintHTTP.NewFingerprintHandler(useCase, c.config.MaxUploadBytes, c.Logger()), nil
}
