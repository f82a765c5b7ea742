package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "converter")

var (
	// ErrNoFiles is returned when converting an empty selection.
	ErrNoFiles = errors.New("no PDF files selected")
	// ErrInvalidOptions is returned when the conversion options are rejected locally.
	ErrInvalidOptions = errors.New("invalid conversion options")
)

// fallbackMessage is used when the server gives no usable error message.
const fallbackMessage = "Conversion failed"

// RemoteError is a failure reported by the conversion server.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Client talks to a Statement Converter server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client // http.DefaultClient if nil
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{BaseURL: baseURL, HTTPClient: httpClient}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// Convert uploads the selected statements and returns the converted files.
//
// Nothing is sent if the selection is empty or the options invalid. Failed
// conversions are not retried.
func (c *Client) Convert(ctx context.Context, sel *Selection, opts Options) (*Result, error) {
	if sel == nil || sel.Empty() {
		return nil, ErrNoFiles
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	body, contentType, err := encodeForm(sel, opts)
	if err != nil {
		return nil, err
	}

	uri := c.url("/convert")
	log.WithFields(logrus.Fields{"url": uri, "files": sel.Len(), "format": opts.Format}).Info("converting statements")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, body)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", uri, err)
	}
	req.Header.Set("Content-Type", contentType)

	data, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, remoteError(status, data)
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("could not decode conversion result: %w", err)
	}
	return &res, nil
}

// encodeForm builds the multipart body of a conversion request.
func encodeForm(sel *Selection, opts Options) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range sel.Files() {
		part, err := w.CreateFormFile("files[]", f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("cannot add %q to the request: %w", f.Name, err)
		}
		if err := copyFile(part, f); err != nil {
			return nil, "", err
		}
	}
	fields := [][2]string{
		{"invert_amounts", strconv.FormatBool(opts.InvertAmounts)},
		{"output_format", opts.Format.String()},
		{"statement_year", opts.year()},
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("cannot write field %q: %w", kv[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("cannot close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func copyFile(dst io.Writer, f File) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("cannot open %q: %w", f.Name, err)
	}
	defer src.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("cannot read %q: %w", f.Name, err)
	}
	return nil
}

// do executes req and returns the full body and status code.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot execute http request: %w", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("cannot read receiving http body: %w", err)
	}
	log.WithFields(logrus.Fields{"method": req.Method, "path": req.URL.Path, "status": resp.Status}).Debug("http response")
	return buf.Bytes(), resp.StatusCode, nil
}

// remoteError extracts the server message from an error payload.
func remoteError(status int, data []byte) *RemoteError {
	e := &RemoteError{Status: status, Message: fallbackMessage}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return e
	}
	jval, err := jsonpath.Get("$.error", jobj)
	if err != nil {
		return e
	}
	if msg, ok := jval.(string); ok && strings.TrimSpace(msg) != "" {
		e.Message = msg
	}
	return e
}

// Health is the status reported by the server.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK reports whether the server declares itself healthy.
func (h Health) OK() bool { return h.Status == "ok" }

// Health queries the server status.
func (c *Client) Health(ctx context.Context) (Health, error) {
	uri := c.url("/health")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return Health{}, fmt.Errorf("cannot create http request %q: %w", uri, err)
	}
	data, status, err := c.do(req)
	if err != nil {
		return Health{}, err
	}
	if status != http.StatusOK {
		return Health{}, remoteError(status, data)
	}
	var h Health
	if err := json.Unmarshal(data, &h); err != nil {
		return Health{}, fmt.Errorf("could not decode health status: %w", err)
	}
	return h, nil
}
