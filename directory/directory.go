package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ianchesal/keybase-go/application"
	"github.com/ianchesal/keybase-go/protocol"
)

// Defaults for talking to the hosted keybase.io directory.
const (
	DefaultBaseURL    = "https://keybase.io/_/api/"
	DefaultAPIVersion = "1.0"

	defaultTimeout = 10 * time.Second
)

// A Directory looks up users in the keybase.io public directory over
// its HTTP API. It holds no per-user state; one Directory can serve
// any number of client handles.
type Directory struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *application.Logger
}

// New constructs a Directory for the given API base URL and version,
// with a default request timeout. Empty arguments fall back to the
// hosted keybase.io defaults. A nil logger discards log output.
func New(baseURL, apiVersion string, logger *application.Logger) *Directory {
	return NewWithClient(baseURL, apiVersion,
		&http.Client{Timeout: defaultTimeout}, logger)
}

// NewWithClient is New with a caller-supplied HTTP client, e.g. to
// control timeouts or to point the directory at a test server.
func NewWithClient(baseURL, apiVersion string, client *http.Client,
	logger *application.Logger) *Directory {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if logger == nil {
		logger = application.NewNopLogger()
	}
	return &Directory{
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: client,
		logger:     logger,
	}
}

// BuildURL builds a directory API URL for the given endpoint. All API
// calls end with .json, and the version segment sits between the base
// URL and the endpoint.
func (d *Directory) BuildURL(endpoint string) (string, error) {
	if len(endpoint) < 1 {
		return "", fmt.Errorf("%w: missing URL endpoint for API call",
			protocol.ErrLookupInvalid)
	}
	if endpoint[0] != '/' {
		endpoint = "/" + endpoint
	}
	if !strings.HasSuffix(endpoint, ".json") {
		endpoint = endpoint + ".json"
	}
	return d.baseURL + d.apiVersion + endpoint, nil
}

// Lookup resolves a username to its public user object. A username
// the directory doesn't know fails with protocol.ErrUserNotFound; a
// response the client cannot interpret fails with
// protocol.ErrMalformedResponse.
func (d *Directory) Lookup(ctx context.Context, username string) (*protocol.UserObject, error) {
	lookupURL, err := d.BuildURL("user/lookup")
	if err != nil {
		return nil, err
	}
	reqURL := lookupURL + "?" + url.Values{"username": {username}}.Encode()
	d.logger.Debug("Directory lookup", "username", username, "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrLookupInvalid, err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrLookupInvalid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d from %s",
			protocol.ErrMalformedResponse, resp.StatusCode, reqURL)
	}

	var lookup protocol.LookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrMalformedResponse, err)
	}
	if lookup.Status == nil || lookup.Status.Name == "" {
		return nil, fmt.Errorf("%w: missing status section from %s",
			protocol.ErrMalformedResponse, reqURL)
	}
	switch lookup.Status.Name {
	case protocol.StatusNotFound, protocol.StatusInputError:
		return nil, fmt.Errorf("%w: user %s (%s)",
			protocol.ErrUserNotFound, username, reqURL)
	}
	if lookup.Them == nil {
		return nil, fmt.Errorf("%w: missing user object from %s",
			protocol.ErrMalformedResponse, reqURL)
	}

	d.logger.Debug("Directory lookup succeeded",
		"username", username, "keys", len(lookup.Them.PublicKeys))
	return lookup.Them, nil
}
