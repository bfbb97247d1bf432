package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Conversly/clinic-assist/internal/engine"
	"github.com/Conversly/clinic-assist/internal/utils"
)

const (
	defaultBaseURL = "https://graph.facebook.com"
	sendTimeout    = 15 * time.Second
	sendAttempts   = 2
)

// Client sends interactive and text messages through the Meta Graph API.
// It implements engine.Gateway.
type Client struct {
	baseURL    string
	apiVersion string
	token      string
	httpClient *http.Client
}

func NewClient(apiVersion, token string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiVersion: apiVersion,
		token:      token,
		httpClient: &http.Client{
			Timeout: sendTimeout,
		},
	}
}

// NewClientWithBaseURL points the client at a different host; used by tests.
func NewClientWithBaseURL(baseURL, apiVersion, token string) *Client {
	c := NewClient(apiVersion, token)
	c.baseURL = baseURL
	return c
}

// messageRequest is the Graph API request body.
type messageRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *textContent `json:"text,omitempty"`
	Interactive      *interactive `json:"interactive,omitempty"`
}

type textContent struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type interactive struct {
	Type   string             `json:"type"`
	Header *interactiveHeader `json:"header,omitempty"`
	Body   interactiveBody    `json:"body"`
	Action interactiveAction  `json:"action"`
}

type interactiveHeader struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type interactiveBody struct {
	Text string `json:"text"`
}

type interactiveAction struct {
	Buttons  []replyButton `json:"buttons,omitempty"`
	Button   string        `json:"button,omitempty"`
	Sections []listSection `json:"sections,omitempty"`
}

type replyButton struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type listSection struct {
	Title string    `json:"title,omitempty"`
	Rows  []listRow `json:"rows"`
}

type listRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func (c *Client) SendText(ctx context.Context, to, channelID string, msg engine.SendText) error {
	return c.send(ctx, channelID, &messageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text: &textContent{
			Body: msg.Body,
		},
	})
}

func (c *Client) SendButtons(ctx context.Context, to, channelID string, msg engine.SendButtons) error {
	buttons := make([]replyButton, 0, len(msg.Buttons))
	for _, b := range msg.Buttons {
		buttons = append(buttons, replyButton{
			Type:  "reply",
			Reply: buttonReply{ID: b.ID, Title: b.Title},
		})
	}

	inter := &interactive{
		Type:   "button",
		Body:   interactiveBody{Text: msg.Body},
		Action: interactiveAction{Buttons: buttons},
	}
	if msg.Header != "" {
		inter.Header = &interactiveHeader{Type: "text", Text: msg.Header}
	}

	return c.send(ctx, channelID, &messageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive:      inter,
	})
}

func (c *Client) SendList(ctx context.Context, to, channelID string, msg engine.SendList) error {
	sections := make([]listSection, 0, len(msg.Sections))
	for _, s := range msg.Sections {
		rows := make([]listRow, 0, len(s.Rows))
		for _, r := range s.Rows {
			rows = append(rows, listRow{ID: r.ID, Title: r.Title, Description: r.Description})
		}
		sections = append(sections, listSection{Title: s.Title, Rows: rows})
	}

	inter := &interactive{
		Type: "list",
		Body: interactiveBody{Text: msg.Body},
		Action: interactiveAction{
			Button:   msg.ButtonLabel,
			Sections: sections,
		},
	}
	if msg.Header != "" {
		inter.Header = &interactiveHeader{Type: "text", Text: msg.Header}
	}

	return c.send(ctx, channelID, &messageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive:      inter,
	})
}

// send posts the message to /{phone_number_id}/messages with one bounded
// retry on transport errors and 5xx responses.
func (c *Client) send(ctx context.Context, channelID string, reqBody *messageRequest) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, channelID)

	var lastErr error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		retryable, err := c.post(ctx, url, jsonBody)
		if err == nil {
			return nil
		}
		lastErr = err
		utils.Zlog.Warn("gateway send attempt failed",
			zap.String("channel_id", channelID),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if !retryable {
			break
		}
	}
	return lastErr
}

// post returns whether the failure is worth retrying (transport errors
// and 5xx responses; a 4xx will not improve on a resend).
func (c *Client) post(ctx context.Context, url string, jsonBody []byte) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return resp.StatusCode >= http.StatusInternalServerError,
			fmt.Errorf("meta API error (status %d): %v", resp.StatusCode, errBody)
	}

	return false, nil
}
