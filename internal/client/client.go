package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	connectTimeout = 30 * time.Second
	readTimeout    = 60 * time.Second
	writeTimeout   = 60 * time.Second

	// The part is always tagged audio/ogg regardless of the actual
	// encoding; the server accepts any format and probes it itself.
	partContentType = "audio/ogg"
)

// Config configures a transcribe API client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client // optional; tests substitute a fake transport
}

// Client uploads audio files to the transcribe API and parses the JSON
// response. It is safe for concurrent use; the underlying http.Client is
// read-only after construction.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Outcome is the single terminal result of an asynchronous transcription.
// Exactly one of Result and Err is set.
type Outcome struct {
	Result *TranscriptionResult
	Err    error
}

// NewClient creates a transcribe API client. When cfg.HTTPClient is nil a
// shared transport with fixed connect/read/write timeouts is built.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: writeTimeout + readTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: connectTimeout,
				}).DialContext,
				ResponseHeaderTimeout: readTimeout,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
			},
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// Transcribe uploads the audio file at path and returns the parsed result.
// Failures are either a *TransportError or a *ParseError; file-read errors
// are reported the same way as every other failure.
func (c *Client) Transcribe(ctx context.Context, path string) (*TranscriptionResult, error) {
	audioBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	body, contentType, err := buildMultipartBody(filepath.Base(path), audioBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	// No status-code branching: an error response with a JSON body that
	// does not carry the three required fields surfaces as a parse
	// failure, same as any malformed success body.
	result, err := parseResult(respBody)
	if err != nil {
		log.Printf("[Transcribe] Failed to parse response (status %d): %v", resp.StatusCode, err)
		return nil, &ParseError{Err: err}
	}

	return result, nil
}

// TranscribeAsync uploads the file without blocking the caller. Exactly one
// Outcome is delivered on the returned channel once the request resolves;
// the channel is buffered so delivery never blocks the worker.
func (c *Client) TranscribeAsync(path string) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		result, err := c.Transcribe(context.Background(), path)
		out <- Outcome{Result: result, Err: err}
		close(out)
	}()
	return out
}

// buildMultipartBody encodes the audio as a single form part named "file"
// with a fixed audio/ogg content type.
func buildMultipartBody(filename string, audioBytes []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", partContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(audioBytes); err != nil {
		return nil, "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
