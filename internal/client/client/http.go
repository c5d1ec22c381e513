package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
)

const maxErrorBody = 512

// HTTPClient implements Client over the backend's HTTP/JSON API.
type HTTPClient struct {
	baseURL   string
	reportURL string
	http      *http.Client
}

// NewHTTPClient returns a client for the backend at baseURL. Report
// downloads go to reportURL, which defaults to baseURL when empty.
func NewHTTPClient(baseURL, reportURL string, timeout time.Duration) (*HTTPClient, error) {
	base, err := normalizeBase(baseURL)
	if err != nil {
		return nil, err
	}
	report := base
	if strings.TrimSpace(reportURL) != "" {
		if report, err = normalizeBase(reportURL); err != nil {
			return nil, err
		}
	}
	return &HTTPClient{
		baseURL:   base,
		reportURL: report,
		http:      &http.Client{Timeout: timeout},
	}, nil
}

func normalizeBase(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid backend url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid backend url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid backend url %q: missing host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Ping succeeds when the backend answers at all, whatever the status.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	_ = resp.Body.Close()
	return nil
}

func (c *HTTPClient) Process(ctx context.Context, filename string, r io.Reader, userID string) (*models.ProcessResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if userID != "" {
		_ = w.WriteField("user_id", userID)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	status, raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/process", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	if status == http.StatusForbidden {
		if ite := decodeInsufficientTokens(raw); ite != nil {
			return nil, ite
		}
		return nil, &StatusError{Code: status, Message: excerpt(raw)}
	}
	if err := checkStatus(status, raw); err != nil {
		return nil, err
	}
	return models.DecodeProcessResult(raw)
}

// decodeInsufficientTokens returns nil unless the 403 body reports a
// token requirement; other refusals stay plain status errors.
func decodeInsufficientTokens(raw []byte) *InsufficientTokensError {
	var body struct {
		InsufficientTokensError
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	if body.TokensRequired <= 0 && !strings.EqualFold(body.Error, "insufficient tokens") {
		return nil
	}
	ite := body.InsufficientTokensError
	return &ite
}

func (c *HTTPClient) GetBalance(ctx context.Context, userID string) (int, error) {
	var out struct {
		Balance int `json:"balance"`
	}
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, c.baseURL+"/token/get-balance?"+q.Encode(), &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

func (c *HTTPClient) SyncBalance(ctx context.Context, userID string, tokens int) error {
	body, err := json.Marshal(struct {
		UserID string `json:"user_id"`
		Tokens int    `json:"tokens"`
	}{userID, tokens})
	if err != nil {
		return err
	}
	status, raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/token/sync", bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	return checkStatus(status, raw)
}

func (c *HTTPClient) Predictions(ctx context.Context) (*models.PredictionData, error) {
	out := &models.PredictionData{}
	return out, c.getJSON(ctx, c.baseURL+"/predictions/data", out)
}

func (c *HTTPClient) Comparison(ctx context.Context) (*models.Comparison, error) {
	out := &models.Comparison{}
	return out, c.getJSON(ctx, c.baseURL+"/predictions/comparison", out)
}

func (c *HTTPClient) Spatial(ctx context.Context) (*models.Spatial, error) {
	out := &models.Spatial{}
	return out, c.getJSON(ctx, c.baseURL+"/predictions/spatial-data", out)
}

func (c *HTTPClient) Clusters(ctx context.Context) (*models.Clusters, error) {
	out := &models.Clusters{}
	return out, c.getJSON(ctx, c.baseURL+"/predictions/cluster-zones", out)
}

func (c *HTTPClient) SampleTrend(ctx context.Context, sampleID string) (*models.SampleTrend, error) {
	out := &models.SampleTrend{}
	return out, c.getJSON(ctx, c.baseURL+"/predictions/sample-trend/"+url.PathEscape(sampleID), out)
}

func (c *HTTPClient) PredictionsCSV(ctx context.Context) ([]byte, error) {
	return c.getBytes(ctx, c.baseURL+"/predictions/csv-download")
}

func (c *HTTPClient) DownloadCSV(ctx context.Context, fileID string) ([]byte, error) {
	return c.getBytes(ctx, c.baseURL+"/download/"+url.PathEscape(fileID))
}

func (c *HTTPClient) Charts(ctx context.Context, fileID string) (*models.ChartSet, error) {
	out := &models.ChartSet{}
	return out, c.getJSON(ctx, c.baseURL+"/charts/"+url.PathEscape(fileID), out)
}

func (c *HTTPClient) Report(ctx context.Context, kind models.ReportKind) ([]byte, error) {
	return c.getBytes(ctx, c.reportURL+"/api/download_"+string(kind))
}

func (c *HTTPClient) getJSON(ctx context.Context, u string, out any) error {
	raw, err := c.getBytes(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrBackend, u, err)
	}
	return nil
}

func (c *HTTPClient) getBytes(ctx context.Context, u string) ([]byte, error) {
	status, raw, err := c.do(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(status, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// do performs one request and reads the whole body. Only transport failures
// are returned as errors; status handling is left to the caller.
func (c *HTTPClient) do(ctx context.Context, method, u string, body io.Reader, contentType string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	return resp.StatusCode, raw, nil
}

func checkStatus(status int, raw []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return &StatusError{Code: status, Message: excerpt(raw)}
}

// excerpt prefers the backend's {"error": "..."} field and falls back to a
// truncated body.
func excerpt(raw []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
