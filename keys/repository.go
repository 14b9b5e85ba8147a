package keys

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/usnistgov/oar-customer-service/logging"
	"github.com/usnistgov/oar-customer-service/model"
	"github.com/usnistgov/oar-customer-service/store"
)

var logger = logging.Log()

/**
* Length of a client id, in hex characters of the key hash.
 */
const clientIdLength = 32

type PublicKeyRepository interface {
	GetPublicKey(ctx context.Context, clientId string) (publicKey model.PublicKey, httpErr model.HttpError)
	// Register stores the key and returns its client id. Registering a known key returns the existing id.
	Register(ctx context.Context, publicKeyPem string) (clientId string, created bool, httpErr model.HttpError)
}

type TablePublicKeyRepository struct {
	table store.Table
}

func NewPublicKeyRepository(table store.Table) *TablePublicKeyRepository {
	return &TablePublicKeyRepository{table: table}
}

/**
* Derives the client id from the hash of the PEM encoded key.
 */
func ClientIdFor(publicKeyPem string) string {
	hash := sha256.Sum256([]byte(publicKeyPem))
	return hex.EncodeToString(hash[:])[:clientIdLength]
}

func (r *TablePublicKeyRepository) GetPublicKey(ctx context.Context, clientId string) (publicKey model.PublicKey, httpErr model.HttpError) {
	document, err := r.table.Get(ctx, clientId)
	if errors.Is(err, store.ErrNotFound) {
		logger.Debugf("No public key registered for client %s.", clientId)
		return publicKey, model.HttpError{Status: http.StatusBadRequest, Message: model.ClientNotFoundMessage, RootError: err}
	}
	if err != nil {
		return publicKey, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to read the public keys.", RootError: err}
	}
	if err := json.Unmarshal(document, &publicKey); err != nil {
		return publicKey, model.HttpError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("Stored key for %s is invalid.", clientId), RootError: err}
	}
	return publicKey, httpErr
}

func (r *TablePublicKeyRepository) Register(ctx context.Context, publicKeyPem string) (clientId string, created bool, httpErr model.HttpError) {
	if _, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPem)); err != nil {
		return clientId, false, model.HttpError{Status: http.StatusBadRequest, Message: "Not a valid RSA public key.", RootError: err}
	}
	clientId = ClientIdFor(publicKeyPem)

	existing, httpErr := r.GetPublicKey(ctx, clientId)
	if httpErr == (model.HttpError{}) {
		logger.Infof("Client id %s already exists for public key.", existing.ClientId)
		return existing.ClientId, false, httpErr
	}
	if httpErr.Status != http.StatusBadRequest {
		return clientId, false, httpErr
	}

	document, err := json.Marshal(model.PublicKey{ClientId: clientId, PublicKey: publicKeyPem})
	if err != nil {
		return clientId, false, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to serialize the key.", RootError: err}
	}
	if err := r.table.Insert(ctx, clientId, document); err != nil {
		return clientId, false, model.HttpError{Status: http.StatusInternalServerError, Message: "Was not able to store the key.", RootError: err}
	}
	logger.Infof("New client id %s generated and stored for public key.", clientId)
	return clientId, true, model.HttpError{}
}
