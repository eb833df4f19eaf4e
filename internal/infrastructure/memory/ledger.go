package memory

import (
	"context"
	"sync"
)

// Ledger is an in-memory currency ledger implementing economy.Gateway,
// suitable for the demo binary and tests. Balances never go negative.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]float64
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]float64)}
}

// SetBalance overwrites a principal's balance, creating the account if needed.
func (l *Ledger) SetBalance(principal string, amount float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[principal] = amount
}

func (l *Ledger) Has(ctx context.Context, principal string, amount float64) bool {
	_ = ctx
	if amount < 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[principal] >= amount
}

func (l *Ledger) Withdraw(ctx context.Context, principal string, amount float64) bool {
	_ = ctx
	if amount < 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[principal] < amount {
		return false
	}
	l.balances[principal] -= amount
	return true
}

func (l *Ledger) Deposit(ctx context.Context, principal string, amount float64) bool {
	_ = ctx
	if amount < 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[principal] += amount
	return true
}

func (l *Ledger) Balance(ctx context.Context, principal string) float64 {
	_ = ctx

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[principal]
}
