package keys

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/usnistgov/oar-customer-service/model"
	"github.com/usnistgov/oar-customer-service/store"
)

func getPublicKeyPem(t *testing.T) string {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Was not able to generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		t.Fatalf("Was not able to encode key: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func getRepository(t *testing.T) *TablePublicKeyRepository {
	table, err := store.NewJsonFileTable(filepath.Join(t.TempDir(), "public_keys.json"), store.PublicKeysTable)
	if err != nil {
		t.Fatalf("Was not able to create table: %v", err)
	}
	return NewPublicKeyRepository(table)
}

func TestClientIdFor(t *testing.T) {
	type test struct {
		testName         string
		pem              string
		expectedClientId string
	}
	tests := []test{
		{"Hash an empty key.", "", "e3b0c44298fc1c149afbf4c8996fb924"},
		{"Hash some text.", "abc", "ba7816bf8f01cfea414140de5dae2223"},
	}

	for _, tc := range tests {
		t.Run(tc.testName, func(t *testing.T) {
			clientId := ClientIdFor(tc.pem)
			if clientId != tc.expectedClientId {
				t.Errorf("%s: Unexpected client id. Expected: %s, Actual: %s", tc.testName, tc.expectedClientId, clientId)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	repository := getRepository(t)
	keyPem := getPublicKeyPem(t)

	clientId, created, httpErr := repository.Register(ctx, keyPem)
	if httpErr != (model.HttpError{}) {
		t.Fatalf("Registration should succeed, but was %v.", httpErr)
	}
	if !created {
		t.Errorf("First registration should create the key.")
	}
	if clientId != ClientIdFor(keyPem) {
		t.Errorf("Client id should be derived from the key, but was %s.", clientId)
	}

	secondId, created, httpErr := repository.Register(ctx, keyPem)
	if httpErr != (model.HttpError{}) || created || secondId != clientId {
		t.Errorf("Registering twice should return the existing id. Id: %s, Created: %v, Err: %v", secondId, created, httpErr)
	}

	publicKey, httpErr := repository.GetPublicKey(ctx, clientId)
	if httpErr != (model.HttpError{}) {
		t.Fatalf("Registered key should be found, but was %v.", httpErr)
	}
	expectedKey := model.PublicKey{ClientId: clientId, PublicKey: keyPem}
	if diff := cmp.Diff(expectedKey, publicKey); diff != "" {
		t.Errorf("Unexpected key stored: %s", diff)
	}
}

func TestRegisterRejectsInvalidKeys(t *testing.T) {
	repository := getRepository(t)

	type test struct {
		testName string
		pem      string
	}
	tests := []test{
		{"Reject empty keys.", ""},
		{"Reject garbage.", "not-a-key"},
		{"Reject certificates of other types.", "-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n"},
	}

	for _, tc := range tests {
		t.Run(tc.testName, func(t *testing.T) {
			_, created, httpErr := repository.Register(context.Background(), tc.pem)
			if httpErr.Status != http.StatusBadRequest {
				t.Errorf("%s: Expected a bad request, but was %v.", tc.testName, httpErr)
			}
			if created {
				t.Errorf("%s: Nothing should be created.", tc.testName)
			}
		})
	}
}

func TestGetUnknownPublicKey(t *testing.T) {
	_, httpErr := getRepository(t).GetPublicKey(context.Background(), "unknown")
	if httpErr.Status != http.StatusBadRequest || httpErr.Message != model.ClientNotFoundMessage {
		t.Errorf("Unknown clients should be reported, but was %v.", httpErr)
	}
}
