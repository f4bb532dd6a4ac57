package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flightassist-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AmadeusOAuth handles the client-credentials grant against the Amadeus token endpoint
type AmadeusOAuth struct {
	config *clientcredentials.Config
	logger logger.Logger
}

// NewAmadeusOAuth creates a new Amadeus OAuth handler
func NewAmadeusOAuth(baseURL, clientID, clientSecret string, logger logger.Logger) *AmadeusOAuth {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     strings.TrimRight(baseURL, "/") + "/v1/security/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	return &AmadeusOAuth{
		config: config,
		logger: logger,
	}
}

// GetTokenSource returns a cached token source that refreshes on expiry
func (o *AmadeusOAuth) GetTokenSource(ctx context.Context) oauth2.TokenSource {
	return o.config.TokenSource(ctx)
}

// HTTPClient returns a client that attaches a bearer token to each request
func (o *AmadeusOAuth) HTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	client := o.config.Client(ctx)
	client.Timeout = timeout
	return client
}

// FetchToken requests a fresh access token
func (o *AmadeusOAuth) FetchToken(ctx context.Context) (*oauth2.Token, error) {
	token, err := o.config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch amadeus token: %w", err)
	}

	o.logger.Info("Access token obtained", "expiry", token.Expiry)

	return token, nil
}

// TokenToJSON converts a token to JSON
func (o *AmadeusOAuth) TokenToJSON(token *oauth2.Token) (string, error) {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
