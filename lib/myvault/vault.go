package myvault

import (
	"context"

	"github.com/MarcGrol/shopcore/lib/mystore"
)

type VaultReader[T any] interface {
	Get(c context.Context, uid string) (T, bool, error)
}

//go:generate mockgen -source=vault.go -package myvault -destination vault_read_writer_mock.go VaultReadWriter
type VaultReadWriter[T any] interface {
	Get(c context.Context, uid string) (T, bool, error)
	Put(c context.Context, uid string, value T) error
}

func New[T any](c context.Context) (VaultReadWriter[T], func(), error) {
	return mystore.New[T](c)
}
