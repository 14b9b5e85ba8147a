package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/usnistgov/oar-customer-service/config"
	apphttp "github.com/usnistgov/oar-customer-service/http"
	"github.com/usnistgov/oar-customer-service/keys"
	"github.com/usnistgov/oar-customer-service/logging"
	"github.com/usnistgov/oar-customer-service/model"
	"github.com/usnistgov/oar-customer-service/notification"
	"github.com/usnistgov/oar-customer-service/server"
	"github.com/usnistgov/oar-customer-service/store"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"
)

var logger = logging.Log()

/**
* Set at build time through -ldflags.
 */
var Version = "dev"

var envFile string

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "oar-customer-service",
		Short: "Mock of the customer service backend used by the RPA request handler",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv(envFile)
			jsonLogging, _ := strconv.ParseBool(os.Getenv("JSON_LOGGING_ENABLED"))
			logging.Configure(os.Getenv("LOG_LEVEL"), jsonLogging)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to read the configuration from")

	rootCmd.AddCommand(newServeCommand(), newRegisterKeyCommand(), newRequestTokenCommand())
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the customer service api server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.EnvConfig{}
			stores, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			sender, err := notification.NewEmailSender(notification.SenderTypeSmtp, cfg)
			if err != nil {
				return err
			}
			router, err := server.NewRouter(cfg, server.Dependencies{
				Stores:        stores,
				EmailSender:   sender,
				Registerer:    prometheus.DefaultRegisterer,
				EnableMetrics: true,
				Version:       Version,
			})
			if err != nil {
				return err
			}
			logger.Infof("Starting server at %v", cfg.ServerPort())
			return router.Run(fmt.Sprintf("0.0.0.0:%v", cfg.ServerPort()))
		},
	}
}

func newRegisterKeyCommand() *cobra.Command {
	var keyFile string
	cmd := &cobra.Command{
		Use:   "register-key",
		Short: "Register an RSA public key and print the client id to use as assertion issuer",
		RunE: func(cmd *cobra.Command, args []string) error {
			keyPem, err := os.ReadFile(keyFile)
			if err != nil {
				return fmt.Errorf("was not able to read %s: %w", keyFile, err)
			}
			stores, err := store.Open(config.EnvConfig{})
			if err != nil {
				return err
			}
			defer stores.Close()

			clientId, created, httpErr := keys.NewPublicKeyRepository(stores.PublicKeys).Register(cmd.Context(), string(keyPem))
			if httpErr != (model.HttpError{}) {
				return fmt.Errorf("%s: %v", httpErr.Message, httpErr.RootError)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "New client id generated: %s\n", clientId)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Client id already exists: %s\n", clientId)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&keyFile, "key", "", "PEM file containing the public key")
	cmd.MarkFlagRequired("key")
	return cmd
}

type tokenRequest struct {
	privateKeyFile string
	clientId       string
	subject        string
	baseUrl        string
	audience       string
	expiryMinutes  int64
}

func newRequestTokenCommand() *cobra.Command {
	request := tokenRequest{}
	cmd := &cobra.Command{
		Use:   "request-token",
		Short: "Exchange a signed assertion for an access token and call the liveness endpoint with it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request.run(cmd.Context(), config.EnvConfig{}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&request.privateKeyFile, "private-key", "", "PEM file containing the private key of the client")
	cmd.Flags().StringVar(&request.clientId, "client-id", "", "client id returned by register-key")
	cmd.Flags().StringVar(&request.subject, "subject", "", "user to request the token for")
	cmd.Flags().StringVar(&request.baseUrl, "url", "http://localhost:8080", "base url of the running service")
	cmd.Flags().StringVar(&request.audience, "audience", "", "audience of the assertion, defaults to AUDIENCE")
	cmd.Flags().Int64Var(&request.expiryMinutes, "expiry-minutes", 0, "requested token lifetime, defaults to the service setting")
	cmd.MarkFlagRequired("private-key")
	cmd.MarkFlagRequired("client-id")
	cmd.MarkFlagRequired("subject")
	return cmd
}

func (r tokenRequest) run(ctx context.Context, cfg config.Config, out io.Writer) error {
	privateKey, err := os.ReadFile(r.privateKeyFile)
	if err != nil {
		return fmt.Errorf("was not able to read %s: %w", r.privateKeyFile, err)
	}
	audience := r.audience
	if audience == "" {
		audience = cfg.Audience()
	}
	jwtConfig := &jwt.Config{
		Email:      r.clientId,
		PrivateKey: privateKey,
		Subject:    r.subject,
		TokenURL:   r.baseUrl + cfg.OAuth2Endpoint(),
		Audience:   audience,
		Expires:    time.Minute,
	}
	if r.expiryMinutes > 0 {
		jwtConfig.PrivateClaims = map[string]interface{}{"exp_minutes": r.expiryMinutes}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, apphttp.NewHttpClient(0))
	token, err := jwtConfig.TokenSource(ctx).Token()
	if err != nil {
		return fmt.Errorf("was not able to get a token: %w", err)
	}
	fmt.Fprintf(out, "Access token: %s\nInstance url: %v\n", token.AccessToken, token.Extra("instance_url"))

	response, err := jwtConfig.Client(ctx).Get(r.baseUrl + cfg.TestEndpoint())
	if err != nil {
		return fmt.Errorf("was not able to call the liveness endpoint: %w", err)
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Liveness: %d %s\n", response.StatusCode, body)
	return nil
}
