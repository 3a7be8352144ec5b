package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wellnessflow/booking-api/pkg/logging"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// The error code Twilio reports when a freeform message targets a user
// outside the 24h interaction window.
const windowErrorCode = 63016

// TwilioError is a structured error returned by the Twilio REST API.
type TwilioError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	HTTPCode int    `json:"status"`
}

func (e *TwilioError) Error() string {
	return fmt.Sprintf("twilio error %d: %s", e.Code, e.Message)
}

// IsWindowError reports whether err is the outside-the-interaction-window
// rejection that forces a retry through the approved template.
func IsWindowError(err error) bool {
	var twErr *TwilioError
	if errors.As(err, &twErr) && twErr.Code == windowErrorCode {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "outside the allowed window")
}

// Sender dispatches WhatsApp messages. Tests inject fakes.
type Sender interface {
	// SendFreeform sends a plain text message and returns the provider
	// message id.
	SendFreeform(ctx context.Context, to, body string) (string, error)
	// SendTemplate sends a pre-approved content template with variable
	// substitutions and returns the provider message id.
	SendTemplate(ctx context.Context, to, contentSID string, variables map[string]string) (string, error)
}

// TwilioClient posts messages to the Twilio Messages API.
type TwilioClient struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// TwilioConfig holds credentials and the sending WhatsApp number.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string // E.164 WhatsApp number, e.g. +14155238886
	BaseURL    string
	Timeout    time.Duration
}

// NewTwilioClient builds a client for the Twilio REST API.
func NewTwilioClient(cfg TwilioConfig, logger *logging.Logger) *TwilioClient {
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = twilioBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TwilioClient{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       "whatsapp:" + cfg.From,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

var _ Sender = (*TwilioClient)(nil)

// SendFreeform sends a plain text WhatsApp message.
func (c *TwilioClient) SendFreeform(ctx context.Context, to, body string) (string, error) {
	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", to)
	form.Set("Body", body)
	return c.post(ctx, form)
}

// SendTemplate sends an approved content template.
func (c *TwilioClient) SendTemplate(ctx context.Context, to, contentSID string, variables map[string]string) (string, error) {
	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", to)
	form.Set("ContentSid", contentSID)
	if len(variables) > 0 {
		encoded, err := json.Marshal(variables)
		if err != nil {
			return "", fmt.Errorf("whatsapp: marshal content variables: %w", err)
		}
		form.Set("ContentVariables", string(encoded))
	}
	return c.post(ctx, form)
}

func (c *TwilioClient) post(ctx context.Context, form url.Values) (string, error) {
	if c.accountSID == "" || c.authToken == "" {
		return "", errors.New("whatsapp: twilio credentials not configured")
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("whatsapp: read twilio response: %w", err)
	}

	if resp.StatusCode >= 400 {
		twErr := &TwilioError{HTTPCode: resp.StatusCode}
		if err := json.Unmarshal(payload, twErr); err != nil || twErr.Message == "" {
			twErr.Message = strings.TrimSpace(string(payload))
		}
		return "", twErr
	}

	var created struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(payload, &created); err != nil {
		return "", fmt.Errorf("whatsapp: decode twilio response: %w", err)
	}
	return created.SID, nil
}
