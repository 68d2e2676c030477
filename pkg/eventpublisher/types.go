package eventpublisher

import (
	"net/http"
	"time"
)

// Client delivers CloudEvents to one HTTP sink. When Secret is set every
// request carries an HMAC-SHA256 of its body in X-Webhook-Signature.
type Client struct {
	Endpoint   string
	Token      string
	Secret     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Event is the transport-neutral input of Publish.
type Event struct {
	ID      string
	Type    string
	Source  string
	Subject string
	Time    time.Time
	Data    any
}
