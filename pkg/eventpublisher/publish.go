package eventpublisher

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Publish sends one event in binary content mode.
func (c Client) Publish(ctx context.Context, event Event) error {
	ce, err := BuildEvent(event)
	if err != nil {
		return err
	}
	sender, err := c.newSender()
	if err != nil {
		return err
	}
	if result := sender.Send(ctx, ce); !cloudevents.IsACK(result) {
		return fmt.Errorf("deliver event %s: %w", ce.ID(), result)
	}
	return nil
}

func (c Client) newSender() (cloudevents.Client, error) {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	base := http.DefaultClient
	if c.HTTPClient != nil {
		base = c.HTTPClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = base.Timeout
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	httpClient := http.Client{
		Timeout: timeout,
		Transport: otelhttp.NewTransport(signingTransport{
			next:   transport,
			token:  strings.TrimSpace(c.Token),
			secret: strings.TrimSpace(c.Secret),
		}),
	}

	protocol, err := cloudevents.NewHTTP(cehttp.WithTarget(endpoint), cehttp.WithClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("build cloudevents transport: %w", err)
	}
	client, err := cloudevents.NewClient(protocol)
	if err != nil {
		return nil, fmt.Errorf("build cloudevents client: %w", err)
	}
	return client, nil
}

// signingTransport adds bearer auth and the body signature to each request.
type signingTransport struct {
	next   http.RoundTripper
	token  string
	secret string
}

func (t signingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" && t.secret == "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	if t.secret != "" && req.Body != nil {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.GetBody = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(body)), nil }
		req.Header.Set("X-Webhook-Signature", sign(body, t.secret))
	}
	return t.next.RoundTrip(req)
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
