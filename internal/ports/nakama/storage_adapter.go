package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

const storageCollection = "bigtwo_games"

// StorageAdapter satisfies ports.Persistence on top of Nakama's storage
// engine. Records are system-owned so no player can read another's hand.
type StorageAdapter struct {
	nk runtime.NakamaModule
}

func NewStorageAdapter(nk runtime.NakamaModule) *StorageAdapter {
	return &StorageAdapter{nk: nk}
}

func (a *StorageAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: storageCollection,
		Key:        key,
	}})
	if err != nil {
		return "", false, fmt.Errorf("storage read %q: %w", key, err)
	}
	if len(objects) == 0 {
		return "", false, nil
	}
	return objects[0].GetValue(), true, nil
}

func (a *StorageAdapter) Set(ctx context.Context, key, value string) error {
	_, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      storageCollection,
		Key:             key,
		Value:           value,
		PermissionRead:  0,
		PermissionWrite: 0,
	}})
	if err != nil {
		return fmt.Errorf("storage write %q: %w", key, err)
	}
	return nil
}

func (a *StorageAdapter) Remove(ctx context.Context, key string) error {
	err := a.nk.StorageDelete(ctx, []*runtime.StorageDelete{{
		Collection: storageCollection,
		Key:        key,
	}})
	if err != nil {
		return fmt.Errorf("storage delete %q: %w", key, err)
	}
	return nil
}
