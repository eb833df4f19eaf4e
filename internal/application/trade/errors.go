package trade

import (
	"errors"
	"fmt"
)

var (
	ErrShopNotFound       = errors.New("trade: shop not found")
	ErrOwnPurchase        = errors.New("trade: owners cannot buy from their own shop")
	ErrOutOfStock         = errors.New("trade: shop is out of stock")
	ErrInsufficientFunds  = errors.New("trade: buyer has insufficient funds")
	ErrWithdrawFailed     = errors.New("trade: buyer withdraw failed")
	ErrOwnerDepositFailed = errors.New("trade: owner deposit failed")
	ErrStockDiscrepancy   = errors.New("trade: container held less stock than advertised")
)

// CompensationError is the fatal failure class: a reversal issued to undo a
// partially completed purchase itself failed, so the money state is known
// inconsistent and needs operator intervention. Cause is the error that
// triggered the reversal, Failure the error of the reversal step itself.
type CompensationError struct {
	Step    string
	Cause   error
	Failure error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("trade: compensation failed at %s (cause: %v, failure: %v)", e.Step, e.Cause, e.Failure)
}

func (e *CompensationError) Unwrap() []error {
	return []error{e.Cause, e.Failure}
}
