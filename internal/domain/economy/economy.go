package economy

import (
	"context"
	"errors"
)

var (
	ErrWithdrawFailed = errors.New("economy: withdraw failed")
	ErrDepositFailed  = errors.New("economy: deposit failed")
)

// Gateway is the currency ledger the host plugs in. Operations are
// synchronous and report success or failure only; there are no
// partial-amount semantics.
type Gateway interface {
	Has(ctx context.Context, principal string, amount float64) bool
	Withdraw(ctx context.Context, principal string, amount float64) bool
	Deposit(ctx context.Context, principal string, amount float64) bool
	Balance(ctx context.Context, principal string) float64
}

// TaxPolicy resolves the transaction tax rate for a shop owner.
// Rates are fractions in [0, 1).
type TaxPolicy interface {
	RateFor(ctx context.Context, owner string) float64
}

// TaxPolicyFunc adapts a plain function to TaxPolicy.
type TaxPolicyFunc func(ctx context.Context, owner string) float64

func (f TaxPolicyFunc) RateFor(ctx context.Context, owner string) float64 {
	return f(ctx, owner)
}
