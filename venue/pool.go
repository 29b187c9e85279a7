package venue

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"twap-engine-go/order"
)

// Pool 恒定乘积做市池仿真,供 cmd/sim 与集成测试使用。
// 每笔成交(包括引擎自己的兑换)都会向监听者广播发起者身份,
// 用来端到端验证触发回调的递归保护。
type Pool struct {
	mu        sync.Mutex
	reserveA  decimal.Decimal
	reserveB  decimal.Decimal
	feeBps    int64
	engineID  string
	listeners []func(actor string)
}

// NewPool 以初始储备与手续费(基点)创建池子。engineID 为引擎
// 兑换时在活动广播中携带的身份。
func NewPool(reserveA, reserveB uint64, feeBps int64, engineID string) *Pool {
	return &Pool{
		reserveA: decimal.NewFromUint64(reserveA),
		reserveB: decimal.NewFromUint64(reserveB),
		feeBps:   feeBps,
		engineID: engineID,
	}
}

// OnActivity 注册成交广播回调。
func (p *Pool) OnActivity(fn func(actor string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Swap 引擎路径:以引擎身份成交并广播。
func (p *Pool) Swap(ctx context.Context, dir order.Direction, amountIn uint64) (uint64, uint64, error) {
	return p.trade(p.engineID, dir, amountIn)
}

// Trade 外部交易者路径:以 actor 身份成交并广播,
// 这是驱动触发器的"市场活动"。
func (p *Pool) Trade(actor string, dir order.Direction, amountIn uint64) (uint64, error) {
	_, out, err := p.trade(actor, dir, amountIn)
	return out, err
}

// Reserves 当前储备(向下取整)。
func (p *Pool) Reserves() (uint64, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reserveA.Floor().BigInt().Uint64(), p.reserveB.Floor().BigInt().Uint64()
}

func (p *Pool) trade(actor string, dir order.Direction, amountIn uint64) (uint64, uint64, error) {
	if amountIn == 0 {
		return 0, 0, ErrZeroAmount
	}
	p.mu.Lock()
	reserveIn, reserveOut := p.reserveA, p.reserveB
	if dir == order.BtoA {
		reserveIn, reserveOut = p.reserveB, p.reserveA
	}

	in := decimal.NewFromUint64(amountIn)
	feeMul := decimal.NewFromInt(10000 - p.feeBps).Div(decimal.NewFromInt(10000))
	effIn := in.Mul(feeMul)

	// out = reserveOut * effIn / (reserveIn + effIn),向下取整
	out := reserveOut.Mul(effIn).Div(reserveIn.Add(effIn)).Floor()
	if !out.IsPositive() || out.GreaterThanOrEqual(reserveOut) {
		p.mu.Unlock()
		return 0, 0, ErrInsufficientLiquidity
	}

	if dir == order.AtoB {
		p.reserveA = p.reserveA.Add(in)
		p.reserveB = p.reserveB.Sub(out)
	} else {
		p.reserveB = p.reserveB.Add(in)
		p.reserveA = p.reserveA.Sub(out)
	}
	listeners := make([]func(string), len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(actor)
	}
	received := out.BigInt().Uint64()
	return amountIn, received, nil
}
