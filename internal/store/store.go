package store

import (
	"sort"
	"sync"

	"twap-engine-go/order"
)

// Persister 可选的落盘接口。每次成功提交后持久化单个键的快照,
// 订单归零时删除对应键。持久化失败视为提交失败,内存状态不变。
type Persister interface {
	Save(key string, o order.Order) error
	Delete(key string) error
}

// Store 执行键 → 至多一个 Order 的映射。
// 同键的读改写通过 per-key 互斥串行化,不同键的操作完全独立。
// 键上无承诺本金时订单为零值,Put 活跃订单覆盖活跃订单会失败,
// 由此从构造上保证单键单订单。
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	persist Persister
}

type entry struct {
	mu sync.Mutex
	o  order.Order
}

// New 创建纯内存的 Store。
func New() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// NewPersistent 创建带落盘的 Store,restored 为启动时恢复的订单快照。
func NewPersistent(p Persister, restored map[string]order.Order) *Store {
	s := New()
	s.persist = p
	for key, o := range restored {
		s.entries[key] = &entry{o: o}
	}
	return s
}

func (s *Store) entryFor(key string) *entry {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return e
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[key]; ok {
		return e
	}
	e = &entry{}
	s.entries[key] = e
	return e
}

// Get 返回键上的订单快照,第二个返回值表示是否存在活跃订单。
func (s *Store) Get(key string) (order.Order, bool) {
	e := s.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.o, e.o.Active()
}

// Put 直接写入订单。键上已有活跃订单且新订单也活跃时返回
// ErrExistingOrderInProgress。
func (s *Store) Put(key string, o order.Order) error {
	e := s.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.o.Active() && o.Active() {
		return order.ErrExistingOrderInProgress
	}
	if err := s.persistLocked(key, o); err != nil {
		return err
	}
	e.o = o
	return nil
}

// Update 原子读改写。fn 操作订单副本,返回错误则丢弃全部修改;
// fn 执行期间持有该键的锁,同键操作不会交错。
func (s *Store) Update(key string, fn func(*order.Order) error) error {
	e := s.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.o
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.persistLocked(key, next); err != nil {
		return err
	}
	e.o = next
	return nil
}

// Keys 返回当前持有活跃订单的键,排序后返回便于测试与巡检。
func (s *Store) Keys() []string {
	s.mu.RLock()
	candidates := make([]*entry, 0, len(s.entries))
	names := make([]string, 0, len(s.entries))
	for key, e := range s.entries {
		candidates = append(candidates, e)
		names = append(names, key)
	}
	s.mu.RUnlock()

	keys := make([]string, 0, len(candidates))
	for i, e := range candidates {
		e.mu.Lock()
		active := e.o.Active()
		e.mu.Unlock()
		if active {
			keys = append(keys, names[i])
		}
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) persistLocked(key string, o order.Order) error {
	if s.persist == nil {
		return nil
	}
	if !o.Active() {
		return s.persist.Delete(key)
	}
	return s.persist.Save(key, o)
}
