package oauth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/usnistgov/oar-customer-service/logging"
	"github.com/usnistgov/oar-customer-service/model"
)

/**
* Guards endpoints with the access tokens issued by the TokenHandler.
 */
type Gate struct {
	secretKey []byte
	audience  string
}

func NewGate(secretKey string, audience string) *Gate {
	return &Gate{secretKey: []byte(secretKey), audience: audience}
}

/**
* Extracts the token from a "Bearer <token>" header value. The scheme is matched case-insensitive.
 */
func GetTokenFromBearer(authorizationHeader string) (token string, ok bool) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

func (g *Gate) Validate(token string) model.HttpError {
	parsedToken, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("invalid_token_method %v", t.Header["alg"])
		}
		return g.secretKey, nil
	})
	if err != nil {
		return model.InvalidTokenError(err)
	}
	if !parsedToken.Claims.(*jwt.RegisteredClaims).VerifyAudience(g.audience, true) {
		return model.InvalidTokenError(errors.New("invalid_audience"))
	}
	return model.HttpError{}
}

/**
* Middleware rejecting every request without a valid bearer token.
 */
func (g *Gate) Authorize(c *gin.Context) {
	token, ok := GetTokenFromBearer(c.GetHeader("Authorization"))
	if !ok {
		logger.Debugf("No bearer token provided for %s.", c.Request.URL.Path)
		httpErr := model.MissingTokenError()
		c.AbortWithStatusJSON(httpErr.Status, model.ErrorDetail{Detail: httpErr.Message})
		return
	}
	if httpErr := g.Validate(token); httpErr != (model.HttpError{}) {
		logger.Infof("Rejected token %s. Err: %v", logging.ShortenToken(token), httpErr.RootError)
		c.AbortWithStatusJSON(httpErr.Status, model.ErrorDetail{Detail: httpErr.Message})
		return
	}
	c.Next()
}
