package store

import (
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"twap-engine-go/order"
)

// BadgerPersister 将订单快照以 JSON 形式写入 Badger,
// 重启时 LoadAll 恢复全部活跃订单,承诺本金的账目不随进程丢失。
type BadgerPersister struct {
	db *badger.DB
}

// OpenBadger 打开(或创建)指定目录下的快照库。
func OpenBadger(path string) (*BadgerPersister, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerPersister{db: db}, nil
}

func (p *BadgerPersister) Save(key string, o order.Order) error {
	raw, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
}

func (p *BadgerPersister) Delete(key string) error {
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// LoadAll 读取全部快照,返回键 → 订单。
func (p *BadgerPersister) LoadAll() (map[string]order.Order, error) {
	orders := make(map[string]order.Order)
	err := p.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if err := item.Value(func(val []byte) error {
				var o order.Order
				if err := json.Unmarshal(val, &o); err != nil {
					return fmt.Errorf("unmarshal order %s: %w", key, err)
				}
				orders[key] = o
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (p *BadgerPersister) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
