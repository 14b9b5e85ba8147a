package oauth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/usnistgov/oar-customer-service/config"
	"github.com/usnistgov/oar-customer-service/keys"
	"github.com/usnistgov/oar-customer-service/logging"
	"github.com/usnistgov/oar-customer-service/model"
)

var logger = logging.Log()

// longest lifetime that still fits into a time.Duration
const maxExpiryMinutes = int64(math.MaxInt64 / time.Minute)

const ExpiryTooLongMessage = "requested token lifetime is too long"

/**
* Exchanges client assertions, signed with a registered RSA key, for HS256 access tokens.
 */
type TokenHandler struct {
	publicKeys keys.PublicKeyRepository
	tokenCache *TokenCache
	/**
	* Secret for signing the access tokens, shared with the gate
	 */
	secretKey []byte
	audience  string
	/**
	* Returned together with every token
	 */
	instanceUrl          string
	defaultExpiryMinutes int64
	clock                Clock
}

func NewTokenHandler(cfg config.Config, publicKeys keys.PublicKeyRepository, registerer prometheus.Registerer) *TokenHandler {
	clock := RealClock{}
	return &TokenHandler{
		publicKeys:           publicKeys,
		tokenCache:           NewTokenCache(clock, registerer),
		secretKey:            []byte(cfg.SecretKey()),
		audience:             cfg.Audience(),
		instanceUrl:          cfg.InstanceUrl(),
		defaultExpiryMinutes: cfg.AccessTokenExpiryMinutes(),
		clock:                clock,
	}
}

/**
* Replaces the clock used for expiry calculation and cache lookups.
 */
func (th *TokenHandler) WithClock(clock Clock) *TokenHandler {
	th.clock = clock
	th.tokenCache.clock = clock
	return th
}

func assertionError(message string, rootError error) model.HttpError {
	return model.HttpError{Status: http.StatusBadRequest, Message: message, RootError: rootError}
}

func (th *TokenHandler) Issue(ctx context.Context, grantType string, assertion string) (oauthToken model.OauthToken, httpErr model.HttpError) {
	if grantType != model.JwtBearerGrantType {
		logger.Debugf("Received unsupported grant type %s.", grantType)
		return oauthToken, assertionError(model.UnsupportedGrantTypeMessage, nil)
	}

	claims, httpErr := th.verifyAssertion(ctx, assertion)
	if httpErr != (model.HttpError{}) {
		return oauthToken, httpErr
	}
	if claims.Subject == "" {
		return oauthToken, assertionError("assertion has no subject", nil)
	}

	expiryMinutes := claims.ExpirationMinutes
	if expiryMinutes <= 0 {
		expiryMinutes = th.defaultExpiryMinutes
	}
	if expiryMinutes > maxExpiryMinutes {
		logger.Debugf("Requested lifetime of %d minutes for %s exceeds the maximum.", expiryMinutes, claims.Subject)
		return oauthToken, assertionError(ExpiryTooLongMessage, nil)
	}

	accessToken, httpErr := th.tokenCache.GetOrMint(claims.Subject, func() (CachedToken, model.HttpError) {
		return th.mint(claims, expiryMinutes)
	})
	if httpErr != (model.HttpError{}) {
		return oauthToken, httpErr
	}
	return model.OauthToken{AccessToken: accessToken, InstanceUrl: th.instanceUrl}, httpErr
}

/**
* Checks the assertion against the public key registered for its issuer and the expected audience.
 */
func (th *TokenHandler) verifyAssertion(ctx context.Context, assertion string) (claims *model.AssertionClaims, httpErr model.HttpError) {
	unverifiedToken, _, err := jwt.NewParser().ParseUnverified(assertion, &model.AssertionClaims{})
	if err != nil {
		logger.Debugf("Was not able to parse the assertion %s.", logging.ShortenToken(assertion))
		return claims, assertionError(fmt.Sprintf("Invalid assertion: %v", err), err)
	}
	clientId := unverifiedToken.Claims.(*model.AssertionClaims).Issuer
	if clientId == "" {
		return claims, assertionError(model.ClientNotFoundMessage, nil)
	}

	publicKey, httpErr := th.publicKeys.GetPublicKey(ctx, clientId)
	if httpErr != (model.HttpError{}) {
		return claims, httpErr
	}
	rsaKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKey.PublicKey))
	if err != nil {
		logger.Warnf("Registered key of %s is not a valid rsa key.", clientId)
		return claims, model.HttpError{Status: http.StatusInternalServerError, Message: "Registered public key is invalid.", RootError: err}
	}

	token, err := jwt.ParseWithClaims(assertion, &model.AssertionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("invalid_token_method %v", t.Header["alg"])
		}
		return rsaKey, nil
	})
	if err != nil {
		logger.Debugf("Assertion of %s could not be verified. Err: %v", clientId, err)
		return claims, assertionError(err.Error(), err)
	}
	claims = token.Claims.(*model.AssertionClaims)
	if !claims.VerifyAudience(th.audience, true) {
		return claims, assertionError("Invalid audience", errors.New("invalid_audience"))
	}
	return claims, httpErr
}

func (th *TokenHandler) mint(claims *model.AssertionClaims, expiryMinutes int64) (cachedToken CachedToken, httpErr model.HttpError) {
	expiresAt := th.clock.Now().Add(time.Duration(expiryMinutes) * time.Minute)
	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   claims.Subject,
		Audience:  claims.Audience,
		Issuer:    claims.Issuer,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signedToken, err := jwtToken.SignedString(th.secretKey)
	if err != nil {
		logger.Warnf("Was not able to sign the token. Err: %v", err)
		return cachedToken, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to sign the token.", RootError: err}
	}
	logger.Infof("Issued token %s for %s, valid until %v.", logging.ShortenToken(signedToken), claims.Subject, expiresAt)
	return CachedToken{AccessToken: signedToken, ExpiresAt: expiresAt}, httpErr
}
