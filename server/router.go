package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/penglongli/gin-metrics/ginmetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/usnistgov/oar-customer-service/config"
	apphttp "github.com/usnistgov/oar-customer-service/http"
	"github.com/usnistgov/oar-customer-service/keys"
	"github.com/usnistgov/oar-customer-service/logging"
	"github.com/usnistgov/oar-customer-service/notification"
	"github.com/usnistgov/oar-customer-service/oauth"
	"github.com/usnistgov/oar-customer-service/records"
	"github.com/usnistgov/oar-customer-service/store"
)

var logger = logging.Log()

var ErrNoSecretKey = errors.New("no SECRET_KEY configured, refusing to sign tokens with an empty key")

const (
	LivenessMessage = "Service is up and running."
	HealthPath      = "/health"
	MetricsPath     = "/metrics"
)

/**
* Everything the router needs besides the config.
 */
type Dependencies struct {
	Stores      *store.Stores
	EmailSender notification.EmailSender
	// registerer for the token counters, nil disables them
	Registerer    prometheus.Registerer
	EnableMetrics bool
	Version       string
}

func NewRouter(cfg config.Config, deps Dependencies) (*gin.Engine, error) {
	if cfg.SecretKey() == "" {
		return nil, ErrNoSecretKey
	}

	router := gin.New()
	router.Use(logging.GinHandlerFunc(), gin.Recovery())

	if deps.EnableMetrics {
		monitor := ginmetrics.GetMonitor()
		monitor.SetMetricPath(MetricsPath)
		monitor.Use(router)
	}

	healthCheck, err := apphttp.NewHealth(deps.Version,
		apphttp.StoreCheck(store.RecordsTable, deps.Stores.Records.Ping),
		apphttp.StoreCheck(store.PublicKeysTable, deps.Stores.PublicKeys.Ping))
	if err != nil {
		return nil, fmt.Errorf("was not able to create the health check: %w", err)
	}
	router.GET(HealthPath, apphttp.HealthReq(healthCheck))

	tokenHandler := oauth.NewTokenHandler(cfg, keys.NewPublicKeyRepository(deps.Stores.PublicKeys), deps.Registerer)
	router.POST(cfg.OAuth2Endpoint(), tokenHandler.TokenRequest)

	gate := oauth.NewGate(cfg.SecretKey(), cfg.Audience())
	gated := router.Group("", gate.Authorize)

	recordController := records.NewRecordController(records.NewRecordService(records.NewRecordRepository(deps.Stores.Records)))
	gated.GET(idPath(cfg.GetEndpoint()), recordController.GetRecord)
	gated.POST(cfg.CreateEndpoint(), recordController.CreateRecord)
	gated.PATCH(idPath(cfg.UpdateEndpoint()), recordController.UpdateRecord)

	emailController := notification.NewEmailController(deps.EmailSender)
	gated.POST(cfg.EmailEndpoint(), emailController.SendEmail)

	gated.GET(cfg.TestEndpoint(), liveness)

	for _, route := range router.Routes() {
		logger.Debugf("Registered route %s %s", route.Method, route.Path)
	}
	return router, nil
}

func liveness(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessMessage)
}

func idPath(prefix string) string {
	return strings.TrimSuffix(prefix, "/") + "/:id"
}
