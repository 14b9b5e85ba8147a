package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hellofresh/health-go/v5"
)

const checkTimeout = 5 * time.Second

type PingFunc func(ctx context.Context) error

/**
* Health check for a storage backend.
 */
func StoreCheck(name string, ping PingFunc) health.Config {
	return health.Config{
		Name:    name,
		Timeout: checkTimeout,
		Check:   health.CheckFunc(ping),
	}
}

func NewHealth(version string, checks ...health.Config) (*health.Health, error) {
	return health.New(
		health.WithComponent(health.Component{Name: "oar-customer-service", Version: version}),
		health.WithChecks(checks...),
	)
}

func HealthReq(healthCheck *health.Health) gin.HandlerFunc {
	return func(c *gin.Context) {
		checkResult := healthCheck.Measure(c.Request.Context())
		if checkResult.Status == health.StatusOK {
			c.AbortWithStatusJSON(http.StatusOK, checkResult)
		} else {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, checkResult)
		}
	}
}
