package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pauljones0/steam-deal-digest/internal/models"
	"github.com/pauljones0/steam-deal-digest/internal/util"
)

const (
	colorFeatured = 16753920 // #FFA500
	colorDealList = 3447003  // #3498DB

	// Discord accepts at most 10 embeds per message.
	maxEmbedsPerMessage = 10
)

type Client struct {
	webhookURL  string
	client      *http.Client
	rateLimiter *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration
}

func New(webhookURL string, maxRetries int) *Client {
	return &Client{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		// Webhooks allow roughly 5 requests per 2 seconds.
		rateLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		maxRetries:  max(0, maxRetries),
		baseBackoff: time.Second,
	}
}

// Enabled reports whether a webhook is configured.
func (c *Client) Enabled() bool {
	return c.webhookURL != ""
}

// Announce posts one embed per game picked for a deal list or featured block, in block order.
// It returns the IDs of the messages created. With no webhook configured it does nothing.
func (c *Client) Announce(ctx context.Context, blocks []models.Block, picks [][]models.Product) ([]string, error) {
	if !c.Enabled() {
		return nil, nil
	}

	var embeds []discordEmbed
	for i, rows := range picks {
		if i >= len(blocks) {
			break
		}
		for _, p := range rows {
			embeds = append(embeds, formatPickToEmbed(p, blocks[i].Type.Normalized()))
		}
	}
	if len(embeds) == 0 {
		return nil, nil
	}

	var ids []string
	for start := 0; start < len(embeds); start += maxEmbedsPerMessage {
		end := min(start+maxEmbedsPerMessage, len(embeds))
		id, err := c.send(ctx, embeds[start:end])
		if err != nil {
			return ids, fmt.Errorf("failed to announce picks: %w", err)
		}
		ids = append(ids, id)
	}
	slog.Info("Announced picks to Discord", "embeds", len(embeds), "messages", len(ids))
	return ids, nil
}

type discordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds"`
}

type discordEmbedThumbnail struct {
	URL string `json:"url,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text,omitempty"`
}

type discordEmbed struct {
	Title       string                `json:"title,omitempty"`
	Description string                `json:"description,omitempty"`
	URL         string                `json:"url,omitempty"`
	Color       int                   `json:"color,omitempty"`
	Thumbnail   discordEmbedThumbnail `json:"thumbnail,omitempty"`
	Fields      []discordEmbedField   `json:"fields,omitempty"`
	Footer      discordEmbedFooter    `json:"footer,omitempty"`
}

type discordMessageResponse struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
}

func formatPickToEmbed(p models.Product, blockType models.BlockType) discordEmbed {
	color := colorDealList
	if blockType == models.BlockFeatured {
		color = colorFeatured
	}

	var fields []discordEmbedField
	if p.PercentPositive != nil {
		rating := fmt.Sprintf("%d%%", *p.PercentPositive)
		if p.ReviewDesc != "" {
			rating = fmt.Sprintf("%s (%s)", p.ReviewDesc, rating)
		}
		fields = append(fields, discordEmbedField{Name: "Rating", Value: rating, Inline: true})
	}
	if pct, ok := p.BestDiscount(); ok {
		fields = append(fields, discordEmbedField{Name: "Discount", Value: fmt.Sprintf("-%d%%", pct), Inline: true})
	}

	return discordEmbed{
		Title:       p.Title,
		URL:         p.Link,
		Description: p.ShortDescription,
		Color:       color,
		Thumbnail:   discordEmbedThumbnail{URL: p.CoverImage},
		Fields:      fields,
		Footer:      discordEmbedFooter{Text: p.SaleEndDisplay},
	}
}

func (c *Client) send(ctx context.Context, embeds []discordEmbed) (string, error) {
	payloadBytes, err := json.Marshal(discordWebhookPayload{Embeds: embeds})
	if err != nil {
		return "", err
	}

	parsedURL, err := url.Parse(c.webhookURL)
	if err != nil {
		return "", err
	}
	q := parsedURL.Query()
	q.Set("wait", "true")
	parsedURL.RawQuery = q.Encode()

	var id string
	err = util.RetryWithBackoff(ctx, c.maxRetries, c.baseBackoff, func(attempt int) error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return util.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, parsedURL.String(), bytes.NewReader(payloadBytes))
		if err != nil {
			return util.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			slog.Warn("Discord request failed", "attempt", attempt, "error", err)
			return err
		}
		defer resp.Body.Close()

		bodyBytes, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			var msgResponse discordMessageResponse
			if err := json.Unmarshal(bodyBytes, &msgResponse); err != nil {
				return util.Permanent(fmt.Errorf("failed to decode discord response: %w", err))
			}
			id = msgResponse.ID
			return nil
		}

		statusErr := fmt.Errorf("discord status: %s, body: %s", resp.Status, string(bodyBytes))
		wait := retryBackoff(resp, attempt, c.baseBackoff)
		if wait == 0 {
			return util.Permanent(statusErr)
		}
		slog.Warn("Discord returned retryable status", "status", resp.StatusCode, "attempt", attempt, "wait", wait)
		return util.RetryAfter(statusErr, wait)
	})
	return id, err
}

// retryBackoff is the wait before retrying resp: Retry-After for 429 when present,
// exponential for 429 and 5xx, and zero for responses that must not be retried.
func retryBackoff(resp *http.Response, attempt int, base time.Duration) time.Duration {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		if s := strings.TrimSpace(resp.Header.Get("Retry-After")); s != "" {
			if secs, err := strconv.ParseFloat(s, 64); err == nil && secs > 0 {
				return time.Duration(secs * float64(time.Second))
			}
		}
		return util.Backoff(base, attempt)
	case resp.StatusCode >= 500:
		return util.Backoff(base, attempt)
	}
	return 0
}
