package fetcher

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/clickwatch/pkg/extractors"
)

type fetchRecord struct {
	url        string
	statusCode int
	errorType  string
	success    bool
}

type memoryRecorder struct {
	records []fetchRecord
}

func (m *memoryRecorder) RecordFetch(url string, statusCode int, errorType string, success bool) error {
	m.records = append(m.records, fetchRecord{url, statusCode, errorType, success})
	return nil
}

func TestGetHtmlBytes_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(WithUserAgent("clickwatch-test"))
	body, err := f.GetHtmlBytes(srv.URL)
	if err != nil {
		t.Fatalf("GetHtmlBytes() error = %v", err)
	}
	if gotUA != "clickwatch-test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "clickwatch-test")
	}
	if !strings.Contains(string(body), "ok") {
		t.Errorf("body = %q, want it to contain %q", body, "ok")
	}
}

func TestGetHtmlBytes_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	rec := &memoryRecorder{}
	f := NewFetcher(WithRecorder(rec))
	_, err := f.GetHtmlBytes(srv.URL)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if te.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", te.StatusCode, http.StatusNotFound)
	}

	if len(rec.records) != 1 {
		t.Fatalf("recorded %d attempts, want 1", len(rec.records))
	}
	got := rec.records[0]
	if got.success || got.statusCode != http.StatusNotFound || got.errorType != ErrorTypeStatus {
		t.Errorf("record = %+v, want failed %d %s", got, http.StatusNotFound, ErrorTypeStatus)
	}
}

func TestGetHtmlBytes_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := NewFetcher(WithTimeout(50 * time.Millisecond))
	_, err := f.GetHtmlBytes(srv.URL)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", te.StatusCode)
	}
}

func TestGetHtmlBytes_DecodesDeclaredCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1252")
		w.Write([]byte("<p>caf\xe9</p>"))
	}))
	defer srv.Close()

	body, err := NewFetcher().GetHtmlBytes(srv.URL)
	if err != nil {
		t.Fatalf("GetHtmlBytes() error = %v", err)
	}
	if !strings.Contains(string(body), "café") {
		t.Errorf("body = %q, want decoded %q", body, "café")
	}
}

// arabicCatalog puts more than 1 KB of ASCII ahead of the first non-ASCII byte.
func arabicCatalog() string {
	head := "<!-- " + strings.Repeat("padding ", 170) + "-->"
	return fmt.Sprintf(`<html><head>%s</head><body><table id="data-table">
<tr><th>h</th></tr>
<tr><td>خدماتي</td><td>khadimati.com</td><td>خدمات</td><td>١٢٣</td><td></td>
<td><a href="https://khadimat.com/view_clicks.php">v</a></td><td></td><td></td><td></td></tr>
</table></body></html>`, head)
}

func TestGetHtml_UTF8BodyWithoutReliableCharset(t *testing.T) {
	for _, contentType := range []string{"text/html", "text/html; charset=ISO-8859-1", ""} {
		t.Run(contentType, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", contentType)
				w.Write([]byte(arabicCatalog()))
			}))
			defer srv.Close()

			doc, err := NewFetcher().GetHtml(srv.URL)
			if err != nil {
				t.Fatalf("GetHtml() error = %v", err)
			}
			sites, err := extractors.ExtractCatalog(doc, srv.URL)
			if err != nil {
				t.Fatalf("ExtractCatalog() error = %v", err)
			}
			if len(sites) != 1 {
				t.Fatalf("got %d sites, want 1", len(sites))
			}
			if sites[0].Name != "خدماتي" {
				t.Errorf("Name = %q, want %q", sites[0].Name, "خدماتي")
			}
			if sites[0].TotalClicks != 123 {
				t.Errorf("TotalClicks = %d, want 123", sites[0].TotalClicks)
			}
		})
	}
}

func TestGetHtmlBytes_SniffsInvalidUTF8(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>caf\xe9</p>"))
	}))
	defer srv.Close()

	body, err := NewFetcher().GetHtmlBytes(srv.URL)
	if err != nil {
		t.Fatalf("GetHtmlBytes() error = %v", err)
	}
	if !strings.Contains(string(body), "café") {
		t.Errorf("body = %q, want sniffed %q", body, "café")
	}
}

func TestGetHtml_ParsesDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<table id="data-table"><tr><td>x</td></tr></table>`))
	}))
	defer srv.Close()

	rec := &memoryRecorder{}
	doc, err := NewFetcher(WithRecorder(rec)).GetHtml(srv.URL)
	if err != nil {
		t.Fatalf("GetHtml() error = %v", err)
	}
	if n := doc.Find("#data-table td").Length(); n != 1 {
		t.Errorf("found %d cells, want 1", n)
	}
	if len(rec.records) != 1 || !rec.records[0].success {
		t.Errorf("records = %+v, want one successful attempt", rec.records)
	}
}

func TestDecodingContentType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"text/html; charset=ISO-8859-1", "text/html"},
		{"text/html; charset=utf-8", "text/html; charset=utf-8"},
		{"text/html", "text/html"},
		{"", "text/html"},
		{"text/html; charset=windows-1256", "text/html; charset=windows-1256"},
	}
	for _, tt := range tests {
		if got := decodingContentType(tt.in); got != tt.want {
			t.Errorf("decodingContentType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
