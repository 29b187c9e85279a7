// Package custody 定义资金托管边界。引擎只在入金、退款与提取时调用它,
// 任何一次转账失败都会中止发起该转账的生命周期操作。
package custody

import "context"

// Asset 资产标识:执行键(市场)加上市场内的腿。
type Asset struct {
	Market string
	Leg    string
}

// Base 市场的 base 腿资产(AtoB 方向卖出的一侧)。
func Base(market string) Asset { return Asset{Market: market, Leg: "base"} }

// Quote 市场的 quote 腿资产。
func Quote(market string) Asset { return Asset{Market: market, Leg: "quote"} }

func (a Asset) String() string { return a.Market + "/" + a.Leg }

// Ledger 托管转账接口。
type Ledger interface {
	// TransferIn 将 amount 从 from 划转到引擎托管账户。
	TransferIn(ctx context.Context, asset Asset, from string, amount uint64) error
	// TransferOut 从引擎托管账户划转 amount 给 to。
	TransferOut(ctx context.Context, asset Asset, to string, amount uint64) error
}
