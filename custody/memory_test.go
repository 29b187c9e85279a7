package custody

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryLedgerTransfers(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	base := Base("ETH-USDC")
	l.Mint("alice", base, 1000)

	if err := l.TransferIn(ctx, base, "alice", 600); err != nil {
		t.Fatalf("transfer in: %v", err)
	}
	if got := l.Balance("alice", base); got != 400 {
		t.Fatalf("alice balance = %d, want 400", got)
	}
	if got := l.Balance(EscrowAccount, base); got != 600 {
		t.Fatalf("escrow balance = %d, want 600", got)
	}

	if err := l.TransferOut(ctx, base, "alice", 600); err != nil {
		t.Fatalf("transfer out: %v", err)
	}
	if got := l.Balance("alice", base); got != 1000 {
		t.Fatalf("alice balance = %d, want 1000", got)
	}
}

func TestMemoryLedgerInsufficient(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	base := Base("ETH-USDC")
	l.Mint("alice", base, 100)

	err := l.TransferIn(ctx, base, "alice", 101)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	// 失败的划转不得动账
	if got := l.Balance("alice", base); got != 100 {
		t.Fatalf("alice balance mutated: %d", got)
	}
	if got := l.Balance(EscrowAccount, base); got != 0 {
		t.Fatalf("escrow balance mutated: %d", got)
	}
}

func TestMemoryLedgerZeroAmountNoop(t *testing.T) {
	l := NewMemoryLedger()
	if err := l.TransferOut(context.Background(), Quote("ETH-USDC"), "alice", 0); err != nil {
		t.Fatalf("zero transfer: %v", err)
	}
}
