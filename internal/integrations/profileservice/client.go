package profileservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client клиент сервиса профилей родителей и спортсменов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса профилей
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FindParent ищет профиль по email и телефону
func (c *Client) FindParent(ctx context.Context, email, phone string) (*Parent, error) {
	query := url.Values{}
	query.Set("email", email)
	query.Set("phone", phone)
	endpoint := fmt.Sprintf("%s/internal/parents?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	var parent Parent
	if err := c.do(req, http.StatusOK, &parent); err != nil {
		return nil, err
	}
	return &parent, nil
}

// CreateParent создает профиль родителя вместе со спортсменами
func (c *Client) CreateParent(ctx context.Context, in ParentRequest) (*Parent, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/internal/parents", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var parent Parent
	if err := c.do(req, http.StatusCreated, &parent); err != nil {
		return nil, err
	}
	return &parent, nil
}

// FindOrCreateParent возвращает существующий профиль или создает новый
func (c *Client) FindOrCreateParent(ctx context.Context, in ParentRequest) (*Parent, error) {
	parent, err := c.FindParent(ctx, in.Email, in.Phone)
	if err == nil {
		c.log.Info("Profile found for email=%s, id=%d", in.Email, parent.ID)
		return parent, nil
	}
	if !errors.Is(err, ErrParentNotFound) {
		c.log.Error("Profile lookup failed for email=%s: %v", in.Email, err)
		return nil, err
	}

	parent, err = c.CreateParent(ctx, in)
	if err != nil {
		c.log.Error("Profile creation failed for email=%s: %v", in.Email, err)
		return nil, err
	}

	c.log.Info("Profile created for email=%s, id=%d, athletes=%d", in.Email, parent.ID, len(parent.Athletes))
	return parent, nil
}

func (c *Client) do(req *http.Request, expected int, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case expected:
		// Продолжаем обработку
	case http.StatusNotFound:
		return ErrParentNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		var apiErr ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}
