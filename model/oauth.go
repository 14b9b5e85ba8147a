package model

import "github.com/golang-jwt/jwt/v4"

/**
* The only grant accepted by the token endpoint.
 */
const JwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

type OauthToken struct {
	AccessToken string `json:"access_token"`
	InstanceUrl string `json:"instance_url"`
}

// AssertionClaims is the payload of a client assertion. ExpirationMinutes requests the lifetime of
// the access token to be issued.
type AssertionClaims struct {
	ExpirationMinutes int64 `json:"exp_minutes,omitempty"`
	jwt.RegisteredClaims
}

type PublicKey struct {
	ClientId  string `json:"client_id"`
	PublicKey string `json:"public_key"`
}
