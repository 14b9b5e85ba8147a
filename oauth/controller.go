package oauth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usnistgov/oar-customer-service/model"
)

/**
* Token endpoint. grant_type and assertion are accepted as form values or query parameters.
 */
func (th *TokenHandler) TokenRequest(c *gin.Context) {
	grantType := formOrQuery(c, "grant_type")
	assertion := formOrQuery(c, "assertion")

	oauthToken, httpErr := th.Issue(c.Request.Context(), grantType, assertion)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.OauthError{Error: httpErr.Message})
		return
	}
	c.JSON(http.StatusOK, oauthToken)
}

func formOrQuery(c *gin.Context, key string) string {
	if value, ok := c.GetPostForm(key); ok {
		return value
	}
	return c.Query(key)
}
