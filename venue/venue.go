// Package venue 定义外部成交场所的边界。引擎只消费 Adapter,
// 撮合与定价逻辑不在本系统范围内。
package venue

import (
	"context"
	"errors"

	"twap-engine-go/order"
)

// Adapter 按指定方向兑换 amountIn,返回引擎净支付与净收到的数量。
// 失败时调用方必须整体放弃本次触发,不得留下部分账目。
type Adapter interface {
	Swap(ctx context.Context, dir order.Direction, amountIn uint64) (amountPaid, amountReceived uint64, err error)
}

var (
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrZeroAmount            = errors.New("swap amount must be positive")
)
