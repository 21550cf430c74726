package m2m

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Leiguo924/landsat-dl/internal/locator"
	"github.com/Leiguo924/landsat-dl/internal/model"
)

// Client interacts with the USGS M2M API.
type Client struct {
	baseURL    string
	username   string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter

	// Session lifetime assumed for a fresh API key (internal)
	sessionTTL time.Duration
	now        func() time.Time
}

// NewClient creates a new M2M API client authenticating with an
// application token.
func NewClient(baseURL, username, token string) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL:    baseURL,
		username:   username,
		token:      token,
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
		sessionTTL: 2 * time.Hour,
		now:        time.Now,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Login exchanges the username and token for an API key.
func (c *Client) Login(ctx context.Context) (*model.Session, error) {
	slog.InfoContext(ctx, "logging in", "username", c.username)

	var apiKey string
	err := c.call(ctx, nil, endpointLogin, loginRequest{Username: c.username, Token: c.token}, &apiKey)
	if err != nil {
		return nil, &AuthenticationError{Username: c.username, Err: err}
	}
	if apiKey == "" {
		return nil, &AuthenticationError{Username: c.username, Err: errors.New("empty api key")}
	}

	return &model.Session{
		APIKey:   apiKey,
		Username: c.username,
		IssuedAt: c.now(),
		TTL:      c.sessionTTL,
	}, nil
}

// Logout invalidates the session's API key.
func (c *Client) Logout(ctx context.Context, s *model.Session) error {
	if s == nil || s.APIKey == "" {
		return nil
	}
	if err := c.call(ctx, s, endpointLogout, nil, nil); err != nil {
		return c.toClientError(err, "failed to log out")
	}
	slog.InfoContext(ctx, "logged out", "username", s.Username)
	return nil
}

// DownloadOptions lists the products offered for a scene.
func (c *Client) DownloadOptions(ctx context.Context, s *model.Session, dataset model.Dataset, entityID string) ([]locator.Offering, error) {
	var options []downloadOption
	err := c.call(ctx, s, endpointDownloadOptions, downloadOptionsRequest{
		DatasetName: dataset.String(),
		EntityIDs:   entityID,
	}, &options)
	if err != nil {
		return nil, c.toClientError(err, "failed to list download options")
	}

	offerings := make([]locator.Offering, 0, len(options))
	for _, o := range options {
		offerings = append(offerings, o.toOffering())
	}
	slog.DebugContext(ctx, "download options received", "dataset", dataset, "entity_id", entityID, "count", len(offerings))
	return offerings, nil
}

// RequestDownload asks for download URLs of one product.
func (c *Client) RequestDownload(ctx context.Context, s *model.Session, ref model.ProductReference) (locator.DownloadURLs, error) {
	var resp downloadResponse
	err := c.call(ctx, s, endpointDownloadRequest, downloadRequest{
		Downloads:           []download{{EntityID: ref.EntityID, ProductID: ref.ProductID}},
		DownloadApplication: downloadApplication,
	}, &resp)
	if err != nil {
		return locator.DownloadURLs{}, c.toClientError(err, "failed to request download")
	}

	var urls locator.DownloadURLs
	for _, d := range resp.AvailableDownloads {
		urls.Available = append(urls.Available, d.URL)
	}
	for _, d := range resp.PreparingDownloads {
		urls.Preparing = append(urls.Preparing, d.URL)
	}
	return urls, nil
}

// EntityID resolves a display identifier to the catalog entity id using a
// temporary scene list. The list is removed afterwards.
func (c *Client) EntityID(ctx context.Context, s *model.Session, dataset model.Dataset, displayID string) (string, error) {
	listID := "landsat-dl-" + uuid.NewString()

	err := c.call(ctx, s, endpointSceneListAdd, sceneListAddRequest{
		ListID:      listID,
		DatasetName: dataset.String(),
		IDField:     idFieldDisplayID,
		EntityID:    displayID,
	}, nil)
	if err != nil {
		return "", c.toClientError(err, "failed to add scene to list")
	}
	defer func() {
		if err := c.call(ctx, s, endpointSceneListRemove, sceneListRequest{ListID: listID}, nil); err != nil {
			slog.WarnContext(ctx, "failed to remove scene list", "list_id", listID, "error", err)
		}
	}()

	var entries []sceneListEntry
	if err := c.call(ctx, s, endpointSceneListGet, sceneListRequest{ListID: listID}, &entries); err != nil {
		return "", c.toClientError(err, "failed to read scene list")
	}
	if len(entries) == 0 || entries[0].EntityID == "" {
		return "", &ClientError{Message: fmt.Sprintf("no entity id for %s in %s", displayID, dataset)}
	}
	return entries[0].EntityID, nil
}

func (c *Client) doRequest(ctx context.Context, s *model.Session, endpoint string, payload any) (*http.Response, error) {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s != nil && s.APIKey != "" {
		req.Header.Set("X-Auth-Token", s.APIKey)
	}

	return c.httpClient.Do(req)
}

// call posts payload to endpoint and decodes the envelope's data into out.
func (c *Client) call(ctx context.Context, s *model.Session, endpoint string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	slog.DebugContext(ctx, "m2m request", "endpoint", endpoint)
	response, err := c.doRequest(ctx, s, endpoint, payload)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(response.Body).Decode(&env)

	if env.ErrorCode != "" {
		return &apiError{StatusCode: response.StatusCode, Code: env.ErrorCode, Message: env.ErrorMessage}
	}
	if response.StatusCode != http.StatusOK {
		return &apiError{StatusCode: response.StatusCode, Message: endpoint + " request failed"}
	}
	if decodeErr != nil {
		return &MalformedResponseError{Endpoint: endpoint, Err: decodeErr}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &MalformedResponseError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// toClientError wraps an internal error into a ClientError for external consumers.
func (c *Client) toClientError(err error, context string) error {
	if err == nil {
		return nil
	}
	return &ClientError{
		Message: fmt.Sprintf("%s: %v", context, err),
		Err:     err,
	}
}
