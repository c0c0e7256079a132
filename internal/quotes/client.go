package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Quote - цитата дня
type Quote struct {
	Text   string `json:"q"`
	Author string `json:"a"`
}

// Client ходит в API цитат (формат zenquotes: массив [{q, a}])
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Today возвращает цитату дня
func (c *Client) Today(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("запрос цитаты: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Quote{}, fmt.Errorf("ошибка API: %s - %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var quotes []Quote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return Quote{}, fmt.Errorf("декодирование ответа: %w", err)
	}
	if len(quotes) == 0 || strings.TrimSpace(quotes[0].Text) == "" {
		return Quote{}, fmt.Errorf("ошибка API: пустой ответ")
	}
	return quotes[0], nil
}
