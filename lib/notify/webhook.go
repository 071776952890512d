package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Webhook posts messages as discord compatible json, {"content": "..."}.
type Webhook struct {
	url  string
	http *resty.Client
}

func NewWebhook(url string) Webhook {
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(time.Second)
	return Webhook{url: url, http: client}
}

type webhookBody struct {
	Content string `json:"content"`
}

func (w Webhook) Notify(ctx context.Context, message string) error {
	res, err := w.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(webhookBody{Content: message}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("webhook: status %s", res.Status())
	}
	return nil
}
