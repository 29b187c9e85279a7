package custody

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EscrowAccount 引擎托管账户名。
const EscrowAccount = "escrow"

// VenueAccount 场所结算账户名:兑换送出的本金记入这里,
// 兑换所得从这里划回托管。
const VenueAccount = "venue"

var ErrInsufficientBalance = errors.New("insufficient balance")

// MemoryLedger 内存账本,用于仿真与测试。
// 余额按 账户 → 资产 → 数量 记账,划转两边同锁保证守恒。
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]map[Asset]uint64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]map[Asset]uint64)}
}

// Mint 给账户铸造余额,仅供测试与仿真初始化。
func (l *MemoryLedger) Mint(account string, asset Asset, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.creditLocked(account, asset, amount)
}

// Balance 查询账户在某资产上的余额。
func (l *MemoryLedger) Balance(account string, asset Asset) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account][asset]
}

func (l *MemoryLedger) TransferIn(ctx context.Context, asset Asset, from string, amount uint64) error {
	return l.move(asset, from, EscrowAccount, amount)
}

func (l *MemoryLedger) TransferOut(ctx context.Context, asset Asset, to string, amount uint64) error {
	return l.move(asset, EscrowAccount, to, amount)
}

func (l *MemoryLedger) move(asset Asset, from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	have := l.balances[from][asset]
	if have < amount {
		return fmt.Errorf("%w: %s holds %d %s, need %d", ErrInsufficientBalance, from, have, asset, amount)
	}
	l.balances[from][asset] = have - amount
	l.creditLocked(to, asset, amount)
	return nil
}

func (l *MemoryLedger) creditLocked(account string, asset Asset, amount uint64) {
	if l.balances[account] == nil {
		l.balances[account] = make(map[Asset]uint64)
	}
	l.balances[account][asset] += amount
}
