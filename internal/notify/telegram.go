package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hokkystyle/toolrent-backend/pkg/logging"
)

var telegramSendTracer = otel.Tracer("toolrent.internal.notify.telegram")

const defaultTelegramBaseURL = "https://api.telegram.org"

// placeholder mirrors the intake normalization token for absent optional
// values.
const placeholder = "—"

// TelegramConfig controls how the Telegram sink behaves.
type TelegramConfig struct {
	BaseURL    string
	BotToken   string
	ChatID     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// TelegramSink posts the intake notification to a Telegram chat via the Bot
// API sendMessage endpoint.
type TelegramSink struct {
	baseURL    string
	botToken   string
	chatID     string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewTelegramSink creates a configured sink with sane defaults.
func NewTelegramSink(cfg TelegramConfig) (*TelegramSink, error) {
	if strings.TrimSpace(cfg.BotToken) == "" {
		return nil, errors.New("telegram: bot token is required")
	}
	if strings.TrimSpace(cfg.ChatID) == "" {
		return nil, errors.New("telegram: chat id is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultTelegramBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &TelegramSink{
		baseURL:    baseURL,
		botToken:   cfg.BotToken,
		chatID:     cfg.ChatID,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Name identifies the sink in logs and metrics.
func (s *TelegramSink) Name() string { return "telegram" }

// Send composes the flow-specific message and posts it with parse_mode=HTML.
// Any non-2xx response is an error.
func (s *TelegramSink) Send(ctx context.Context, n *Notification) error {
	ctx, span := telegramSendTracer.Start(ctx, "notify.telegram.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("toolrent.flow", n.Flow),
		attribute.String("toolrent.tool_id", n.ToolID),
	)

	body, err := json.Marshal(struct {
		ChatID    string `json:"chat_id"`
		Text      string `json:"text"`
		ParseMode string `json:"parse_mode"`
	}{
		ChatID:    s.chatID,
		Text:      ComposeMessage(n),
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("telegram: encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("telegram: send message: %w", err)
		span.RecordError(err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err = fmt.Errorf("telegram: API error: %d %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		span.RecordError(err)
		return err
	}
	return nil
}

// ComposeMessage renders the fixed multi-line chat message for a
// notification. Every untrusted field is HTML-escaped here, exactly once.
func ComposeMessage(n *Notification) string {
	if n.Flow == "lead" {
		toolName := orPlaceholder(n.ToolName, placeholder)
		toolID := orPlaceholder(n.ToolID, "не указан")
		lines := []string{
			"🛠 <b>Новая заявка на аренду инструмента</b>",
			"Имя: " + escapeHTML(n.Name),
			"Контакт: " + escapeHTML(n.Contact),
			fmt.Sprintf("Инструмент: %s (%s)", escapeHTML(toolName), escapeHTML(toolID)),
			fmt.Sprintf("Даты: %s → %s", escapeHTML(n.DateFrom), escapeHTML(n.DateTo)),
			"Комментарий: " + escapeHTML(orPlaceholder(n.Notes, placeholder)),
			fmt.Sprintf("Источник: %s | Путь: %s", escapeHTML(orPlaceholder(n.Referrer, "direct")), escapeHTML(orPlaceholder(n.PagePath, "/"))),
			"Время: " + escapeHTML(n.Timestamp),
			"IP: " + escapeHTML(n.IP),
			"UA: " + escapeHTML(orPlaceholder(n.UserAgent, "unknown")),
		}
		return strings.Join(lines, "\n")
	}

	toolName := n.ToolName
	if toolName == "" {
		toolName = n.ToolID
	}
	lines := []string{
		"Новая бронь на ToolRent!",
		"Имя: " + escapeHTML(n.Name),
		"Контакт: " + escapeHTML(n.Contact),
		"Инструмент: " + escapeHTML(toolName),
		fmt.Sprintf("Даты: %s → %s", escapeHTML(orPlaceholder(n.DateFrom, placeholder)), escapeHTML(orPlaceholder(n.DateTo, placeholder))),
		addonsLine(n.Addons),
		"Комментарий: " + escapeHTML(orPlaceholder(n.Notes, placeholder)),
	}
	return strings.Join(lines, "\n")
}

func addonsLine(addons map[string]bool) string {
	var enabled []string
	for key, on := range addons {
		if !on {
			continue
		}
		key = strings.TrimPrefix(key, "addon_")
		enabled = append(enabled, strings.ReplaceAll(key, "_", " "))
	}
	if len(enabled) == 0 {
		return "Опции: " + placeholder
	}
	sort.Strings(enabled)
	return "Опции: " + escapeHTML(strings.Join(enabled, ", "))
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

func orPlaceholder(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
