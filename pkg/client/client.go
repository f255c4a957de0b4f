package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to a running batteryd over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for the daemon at addr. addr may be a bare
// host:port, a :port or a full http(s) URL.
func NewClient(addr string) *Client {
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	return &Client{
		baseURL: baseURL(addr),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
					conn, err := dialer.DialContext(ctx, network, address)
					if err != nil {
						if errors.Is(err, syscall.ECONNREFUSED) {
							return nil, ErrDaemonNotRunning
						}
						logrus.Errorf("failed to connect to %s: %v", address, err)
						return nil, err
					}
					return conn, nil
				},
			},
		},
	}
}

func baseURL(addr string) string {
	addr = strings.TrimRight(addr, "/")
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

// BaseURL returns the URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send sends a request to the daemon and returns the response body.
func (c *Client) Send(method string, path string) (string, error) {
	logrus.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"url":    c.baseURL,
	}).Debug("sending request")

	var resp *http.Response
	var err error
	url := c.baseURL + path

	switch method {
	case "GET":
		resp, err = c.httpClient.Get(url)
	default:
		return "", fmt.Errorf("unknown method: %s", method)
	}

	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.Errorf("failed to close response body: %v", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	body := string(b)

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrNotFound, body)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("got %d: %s", resp.StatusCode, body)
	}

	return body, nil
}

// Get sends a GET request to the daemon.
func (c *Client) Get(path string) (string, error) {
	return c.Send("GET", path)
}
