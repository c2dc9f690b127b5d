package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"upkeep/config"
	"upkeep/pkg/logger"
)

const (
	restPath          = "/rest/v1"
	storagePath       = "/storage/v1/object"
	storagePublicPath = "/storage/v1/object/public"
)

// SupabaseService is the synchronization gateway: generic typed REST access
// to the PostgREST row API plus binary upload against the storage API. It
// owns request construction, auth headers, and the HTTP-to-error mapping.
// It never retries; every failure surfaces immediately as a typed error.
type SupabaseService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	bucket  string
	log     logger.Logger
}

func NewSupabaseService(cfg config.Config) (*SupabaseService, error) {
	log := logger.New("SupabaseService")

	baseURL := strings.TrimRight(cfg.SupabaseURL, "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, log.Err("invalid Supabase base URL", fmt.Errorf("%w: %q", ErrInvalidEndpoint, cfg.SupabaseURL))
	}

	return &SupabaseService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  cfg.SupabaseKey,
		bucket:  cfg.SupabaseBucket,
		log:     log,
	}, nil
}

// newRowRequest builds a request against the row API. Row filters are part
// of the path (?id=eq.<uuid>), never the body.
func (s *SupabaseService) newRowRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, path)
	}

	endpoint := s.baseURL + restPath + path
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost || method == http.MethodPatch {
		// Writes ask the server to echo the affected rows back.
		req.Header.Set("Prefer", "return=representation")
	}

	return req, nil
}

// do executes the request and maps the outcome onto the error taxonomy.
// Success is any 2xx; the raw body is returned for the caller to decode.
func (s *SupabaseService) do(req *http.Request) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			s.log.Warn("Failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// classifyTransportError separates network-level failures from results that
// are not a well-formed HTTP response at all. client.Do wraps every failure
// in *url.Error, which itself implements net.Error, so the split keys on the
// underlying cause: dial/read failures, cancellation, and timeouts are
// transport errors; a peer answering with something other than HTTP is an
// invalid response.
func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Err: err}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &TransportError{Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Err: err}
	}

	if strings.Contains(err.Error(), "malformed HTTP") {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &TransportError{Err: err}
}

// Fetch reads rows from the row API and decodes the body into T.
func Fetch[T any](ctx context.Context, s *SupabaseService, path string) (T, error) {
	var out T

	req, err := s.newRowRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return out, err
	}

	body, err := s.do(req)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, &DecodingError{Literal: string(body), Err: err}
	}
	return out, nil
}

// Create inserts a row and decodes the server's echoed representation.
func Create[T, R any](ctx context.Context, s *SupabaseService, path string, payload T) (R, error) {
	return write[T, R](ctx, s, http.MethodPost, path, payload)
}

// Update patches rows matched by the path's row filter and decodes the
// server's echoed representation.
func Update[T, R any](ctx context.Context, s *SupabaseService, path string, payload T) (R, error) {
	return write[T, R](ctx, s, http.MethodPatch, path, payload)
}

func write[T, R any](ctx context.Context, s *SupabaseService, method, path string, payload T) (R, error) {
	var out R

	encoded, err := json.Marshal(payload)
	if err != nil {
		return out, &DecodingError{Literal: "request payload", Err: err}
	}

	req, err := s.newRowRequest(ctx, method, path, bytes.NewReader(encoded))
	if err != nil {
		return out, err
	}

	body, err := s.do(req)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, &DecodingError{Literal: string(body), Err: err}
	}
	return out, nil
}

// Remove deletes rows matched by the path's row filter.
func (s *SupabaseService) Remove(ctx context.Context, path string) error {
	req, err := s.newRowRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	_, err = s.do(req)
	return err
}

// UploadImage posts raw JPEG bytes to the storage API and returns the
// constructed public URL. The response body is not decoded.
func (s *SupabaseService) UploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	endpoint := fmt.Sprintf("%s%s/%s/%s", s.baseURL, storagePath, s.bucket, url.PathEscape(filename))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "image/jpeg")

	if _, err := s.do(req); err != nil {
		return "", err
	}

	publicURL := fmt.Sprintf("%s%s/%s/%s", s.baseURL, storagePublicPath, s.bucket, url.PathEscape(filename))
	s.log.Debug("Uploaded image", "filename", filename, "url", publicURL)
	return publicURL, nil
}

// RemoveImage deletes an object from the storage API.
func (s *SupabaseService) RemoveImage(ctx context.Context, filename string) error {
	endpoint := fmt.Sprintf("%s%s/%s/%s", s.baseURL, storagePath, s.bucket, url.PathEscape(filename))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	_, err = s.do(req)
	return err
}
