package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// FormBody is a pre-encoded payload such as a multipart form. It is
// sent as is and never receives the JSON content type.
type FormBody struct {
	ContentType string
	Reader      io.Reader
}

// Request describes one call against the remote api.
type Request struct {
	Method string
	Path   string
	Body   any
	Token  string
	Header http.Header
}

// Response is the received answer once read.
type Response struct {
	StatusCode int
	Header     http.Header
	IsJSON     bool
	Body       []byte
}

// APIClient performs authenticated or anonymous requests against the
// remote library api and normalizes their outcomes.
type APIClient struct {
	logger     *zap.Logger
	baseURL    string
	userAgent  string
	httpClient *http.Client
	ids        UIDHandler
	clock      Clocker
}

// NewAPIClient provides an api client configured from the api section.
func NewAPIClient(logger *zap.Logger, config *APIConfig, ids UIDHandler, clock Clocker) *APIClient {
	return &APIClient{
		logger:     logger,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		userAgent:  config.UserAgent,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		ids:        ids,
		clock:      clock,
	}
}

// BaseURL returns the normalized api root.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Do sends the request and decodes a successful body into out. A JSON body
// is unmarshalled, any other body is copied when out is *string or *[]byte.
// A non-2xx status or a transport failure is returned as *APIError.
func (c *APIClient) Do(ctx context.Context, req Request, out any) (*Response, error) {
	requestID := c.ids.Generate(RequestIDPrefix)
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	httpReq, err := c.newHTTPRequest(ctx, req, c.baseURL+path)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", req.Method, path, err)
	}
	httpReq.Header.Set("X-Request-ID", requestID)

	logger := c.logger.With(
		zap.String("request.id", requestID),
		zap.String("invocation.id", GetValueFromContext(ctx, ContextInvocationID)),
		zap.String("request.method", req.Method),
		zap.String("request.path", path),
		zap.Bool("request.auth", req.Token != ""),
	)
	logger.Debug("api request")

	start := c.clock.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("api request failed", zap.Error(err))
		return nil, &APIError{Message: UnavailableErrorMessage, RequestID: requestID, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		logger.Error("failed to read api response", zap.Error(err))
		return nil, &APIError{Message: UnavailableErrorMessage, RequestID: requestID, Err: err}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		IsJSON:     strings.Contains(httpResp.Header.Get("Content-Type"), "application/json"),
		Body:       body,
	}
	logger.Info("api response",
		zap.Int("response.status", resp.StatusCode),
		zap.Int("response.bytes", len(body)),
		zap.Duration("request.duration", c.clock.Now().Sub(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    ErrorMessage(resp.IsJSON, body),
			RawBody:    body,
			RequestID:  requestID,
		}
		logger.Warn("api request rejected", zap.Int("response.status", resp.StatusCode), zap.String("error.message", apiErr.Message))
		return resp, apiErr
	}

	if err := decodeBody(resp, out); err != nil {
		logger.Error("failed to decode api response", zap.Error(err))
		return resp, fmt.Errorf("failed to decode %s %s response: %w", req.Method, path, err)
	}
	return resp, nil
}

func (c *APIClient) newHTTPRequest(ctx context.Context, req Request, url string) (*http.Request, error) {
	var reader io.Reader
	contentType := ""
	switch body := req.Body.(type) {
	case nil:
	case *FormBody:
		reader, contentType = body.Reader, body.ContentType
	case []byte:
		reader, contentType = bytes.NewReader(body), "application/json"
	case json.RawMessage:
		reader, contentType = bytes.NewReader(body), "application/json"
	default:
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader, contentType = bytes.NewReader(payload), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, reader)
	if err != nil {
		return nil, err
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	return httpReq, nil
}

func decodeBody(resp *Response, out any) error {
	if out == nil {
		return nil
	}
	if resp.IsJSON {
		if len(bytes.TrimSpace(resp.Body)) == 0 {
			return nil
		}
		return json.Unmarshal(resp.Body, out)
	}
	switch v := out.(type) {
	case *string:
		*v = string(resp.Body)
	case *[]byte:
		*v = resp.Body
	default:
		return fmt.Errorf("unexpected %q content for %T", resp.Header.Get("Content-Type"), out)
	}
	return nil
}
