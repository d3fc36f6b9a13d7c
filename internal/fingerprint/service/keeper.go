package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// cloudKeepers opens master secret keepers through the gocloud.dev URL
// mux, so the scheme of the key URI picks the provider (awskms://,
// gcpkms://, azurekeyvault://, hashivault:// or base64key:// for local use).
type cloudKeepers struct{}

func NewKMSService() KMSService {
	return cloudKeepers{}
}

func (cloudKeepers) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("open keeper for master secret: %w", err)
	}
	return keeper, nil
}
