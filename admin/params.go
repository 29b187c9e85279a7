// Package admin 管理面参数。所有权与治理不在核心范围内,
// 引擎只通过只读视图消费 MaxAllowedDuration。
package admin

import (
	"sync"
	"time"

	"twap-engine-go/order"
)

// Params 可在运行期由 owner 调整的管理参数。
type Params struct {
	mu                 sync.RWMutex
	owner              string
	maxAllowedDuration time.Duration
	treasury           string
}

func NewParams(owner string, maxAllowedDuration time.Duration) *Params {
	return &Params{owner: owner, maxAllowedDuration: maxAllowedDuration}
}

// MaxAllowedDuration 订单允许的最大总时长。
func (p *Params) MaxAllowedDuration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxAllowedDuration
}

func (p *Params) Treasury() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.treasury
}

// SetMaxAllowedDuration 仅 owner 可调,d 必须为正。
func (p *Params) SetMaxAllowedDuration(caller string, d time.Duration) error {
	if d <= 0 {
		return order.ErrInvalidInterval
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if caller != p.owner {
		return order.ErrUnauthorizedCaller
	}
	p.maxAllowedDuration = d
	return nil
}

// SetTreasury 仅 owner 可调。
func (p *Params) SetTreasury(caller, treasury string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if caller != p.owner {
		return order.ErrUnauthorizedCaller
	}
	p.treasury = treasury
	return nil
}
