package oauth

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/usnistgov/oar-customer-service/logging"
	"github.com/usnistgov/oar-customer-service/model"
)

type CachedToken struct {
	AccessToken string
	ExpiresAt   time.Time
}

type MintFunc func() (CachedToken, model.HttpError)

/**
* Access tokens by subject. Lookup and minting run under one lock, so concurrent requests for
* the same subject always observe a single token.
 */
type TokenCache struct {
	tokens *cache.Cache
	lock   sync.Mutex
	clock  Clock

	metricsMinted prometheus.Counter
	metricsReused prometheus.Counter
}

/**
* Creates the cache. Counters are registered when a registerer is given.
 */
func NewTokenCache(clock Clock, registerer prometheus.Registerer) *TokenCache {
	tc := &TokenCache{
		tokens: cache.New(cache.NoExpiration, 10*time.Minute),
		clock:  clock,
		metricsMinted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "oar_customer_service",
			Subsystem: "oauth",
			Name:      "tokens_minted_total",
			Help:      "Access tokens newly signed by the token endpoint",
		}),
		metricsReused: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "oar_customer_service",
			Subsystem: "oauth",
			Name:      "tokens_reused_total",
			Help:      "Token requests answered from the cache",
		}),
	}
	if registerer != nil {
		registerer.MustRegister(tc.metricsMinted, tc.metricsReused)
	}
	return tc
}

/**
* Returns the cached token of the subject while it is still valid, otherwise mints and stores a
* new one.
 */
func (tc *TokenCache) GetOrMint(subject string, mint MintFunc) (accessToken string, httpErr model.HttpError) {
	tc.lock.Lock()
	defer tc.lock.Unlock()

	now := tc.clock.Now()
	if cached, found := tc.tokens.Get(subject); found {
		cachedToken := cached.(CachedToken)
		if cachedToken.ExpiresAt.After(now) {
			logger.Debugf("Reusing token %s for %s.", logging.ShortenToken(cachedToken.AccessToken), subject)
			tc.metricsReused.Inc()
			return cachedToken.AccessToken, httpErr
		}
	}

	newToken, httpErr := mint()
	if httpErr != (model.HttpError{}) {
		return accessToken, httpErr
	}
	tc.metricsMinted.Inc()

	ttl := newToken.ExpiresAt.Sub(now)
	if ttl <= 0 {
		// already expired, nothing worth caching
		tc.tokens.Delete(subject)
		return newToken.AccessToken, httpErr
	}
	tc.tokens.Set(subject, newToken, ttl)
	return newToken.AccessToken, httpErr
}

func (tc *TokenCache) Len() int {
	return tc.tokens.ItemCount()
}
