package fetcher

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/clickwatch/models"
	"golang.org/x/net/html/charset"
)

// Error types reported to the AccessRecorder.
const (
	ErrorTypeRequest = "fetch_error"
	ErrorTypeStatus  = "status_error"
	ErrorTypeRead    = "read_error"
)

// TransportError reports a failed request or a non-success response.
type TransportError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AccessRecorder receives the outcome of every fetch attempt.
type AccessRecorder interface {
	RecordFetch(url string, statusCode int, errorType string, success bool) error
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	recorder  AccessRecorder
	logger    *slog.Logger
}

type Option func(*Fetcher)

// WithTimeout sets the fixed per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithRecorder attaches an access recorder. Recorder failures never fail a fetch.
func WithRecorder(r AccessRecorder) Option {
	return func(f *Fetcher) { f.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: models.DefaultFetchTimeout},
		userAgent: models.DefaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FromConfig builds a Fetcher from the transport section of the config.
func FromConfig(cfg models.FetchConfig, opts ...Option) *Fetcher {
	base := []Option{WithTimeout(cfg.Timeout)}
	if cfg.UserAgent != "" {
		base = append(base, WithUserAgent(cfg.UserAgent))
	}
	return NewFetcher(append(base, opts...)...)
}

func (f *Fetcher) GetHtml(url string) (*goquery.Document, error) {
	bodyBytes, err := f.GetHtmlBytes(url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// GetHtmlBytes performs a single GET and returns the body decoded to UTF-8.
func (f *Fetcher) GetHtmlBytes(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		f.record(url, 0, ErrorTypeRequest, false)
		return nil, &TransportError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.record(url, 0, ErrorTypeRequest, false)
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.record(url, resp.StatusCode, ErrorTypeStatus, false)
		return nil, &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		f.record(url, resp.StatusCode, ErrorTypeRead, false)
		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	bodyBytes, err := decodeBody(rawBody, resp.Header.Get("Content-Type"))
	if err != nil {
		f.record(url, resp.StatusCode, ErrorTypeRead, false)
		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to decode response body: %w", err)}
	}

	f.record(url, resp.StatusCode, "", true)
	return bodyBytes, nil
}

func (f *Fetcher) record(url string, statusCode int, errorType string, success bool) {
	if f.recorder == nil {
		return
	}
	if err := f.recorder.RecordFetch(url, statusCode, errorType, success); err != nil {
		f.logger.Warn("Failed to record fetch attempt", "url", url, "error", err)
	}
}

// decodeBody converts body to UTF-8. A specific declared charset is honored. Without
// one, a body that is already valid UTF-8 is used as is, since sniffing only inspects
// the first KB and would misread pages whose non-ASCII text comes later.
func decodeBody(body []byte, contentType string) ([]byte, error) {
	stripped := decodingContentType(contentType)
	if stripped == contentType && hasCharset(contentType) {
		return readDecoded(body, contentType)
	}
	if utf8.Valid(body) {
		return body, nil
	}
	return readDecoded(body, stripped)
}

func readDecoded(body []byte, contentType string) ([]byte, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}

func hasCharset(contentType string) bool {
	_, params, err := mime.ParseMediaType(contentType)
	return err == nil && params["charset"] != ""
}

// decodingContentType drops charsets that servers commonly declare by default
// (latin-1, ascii) so the body is sniffed instead.
func decodingContentType(contentType string) string {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "text/html"
	}
	switch strings.ToLower(params["charset"]) {
	case "", "iso-8859-1", "latin1", "ascii", "us-ascii":
		return mediaType
	}
	return contentType
}
