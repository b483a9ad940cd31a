package mocks

import (
	"context"

	"pocaswap-api/internal/core"
)

// TxManager runs fn directly and counts how many transactions were opened.
// Err, when set, is returned instead of running fn.
type TxManager struct {
	Calls int
	Err   error
}

var _ core.TxManager = (*TxManager)(nil)

func (t *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	if t.Err != nil {
		return t.Err
	}
	return fn(ctx)
}
