// Package api 只读查询面。生命周期操作在进程内发起,不经 HTTP 暴露。
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"twap-engine-go/engine"
	"twap-engine-go/order"
)

// Querier 查询面需要的只读能力。
type Querier interface {
	GetOrder(key string) (engine.Snapshot, error)
	ProgressPercent(key string) uint64
	ActiveKeys() []string
}

// NewRouter 构建查询路由。
func NewRouter(q Querier) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"keys": q.ActiveKeys()})
	})

	r.GET("/orders/:key", func(c *gin.Context) {
		snap, err := q.GetOrder(c.Param("key"))
		if err != nil {
			if errors.Is(err, order.ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, snap)
	})

	r.GET("/orders/:key/progress", func(c *gin.Context) {
		key := c.Param("key")
		c.JSON(http.StatusOK, gin.H{
			"key":              key,
			"progress_percent": q.ProgressPercent(key),
		})
	})

	return r
}
