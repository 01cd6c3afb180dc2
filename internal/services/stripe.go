package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// StripeService — клиент платёжного шлюза: возвраты, выплаты
// преподавателям и управление подписками.
type StripeService struct {
	SecretKey  string
	HTTPClient *http.Client
}

func NewStripeService(secretKey string) *StripeService {
	return &StripeService{
		SecretKey:  secretKey,
		HTTPClient: &http.Client{},
	}
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (s *StripeService) do(method, path string, form url.Values) ([]byte, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, stripeAPIBase+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Idempotency-Key", fmt.Sprintf("coursehub-%d", time.Now().UnixNano()))
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var se stripeError
		if err := json.Unmarshal(data, &se); err == nil && se.Error.Message != "" {
			return nil, fmt.Errorf("stripe: %s", se.Error.Message)
		}
		return nil, fmt.Errorf("stripe: статус %d", resp.StatusCode)
	}

	return data, nil
}

// CreateRefund возвращает платёж целиком, отдаёт id возврата.
func (s *StripeService) CreateRefund(paymentIntentID string) (string, error) {
	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)

	data, err := s.do(http.MethodPost, "/refunds", form)
	if err != nil {
		return "", err
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

// CreateTransfer переводит выплату на connect-аккаунт преподавателя.
// Сумма — в центах.
func (s *StripeService) CreateTransfer(amountCents int64, destination, description string) (string, error) {
	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", amountCents))
	form.Set("currency", "usd")
	form.Set("destination", destination)
	form.Set("description", description)

	data, err := s.do(http.MethodPost, "/transfers", form)
	if err != nil {
		return "", err
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

// PauseSubscription приостанавливает списания по подписке.
func (s *StripeService) PauseSubscription(subscriptionID string) error {
	form := url.Values{}
	form.Set("pause_collection[behavior]", "void")

	_, err := s.do(http.MethodPost, "/subscriptions/"+subscriptionID, form)
	return err
}

// ResumeSubscription снимает приостановку списаний.
func (s *StripeService) ResumeSubscription(subscriptionID string) error {
	form := url.Values{}
	form.Set("pause_collection", "")

	_, err := s.do(http.MethodPost, "/subscriptions/"+subscriptionID, form)
	return err
}

// CancelSubscription отменяет подписку; отмена необратима.
func (s *StripeService) CancelSubscription(subscriptionID string) error {
	_, err := s.do(http.MethodDelete, "/subscriptions/"+subscriptionID, nil)
	return err
}
