package estateapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// Client — клиент удалённого estate API. Повторных попыток и backoff нет:
// вызывающая сторона сама решает, как деградировать при отказе.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт новый клиент estate API.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do выполняет запрос и декодирует ответ в переданный конверт.
// Любой отказ возвращается как *Error с категорией.
func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return transportErr(op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr(op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return httpErr(op, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return decodeErr(op, err)
	}
	return nil
}

// SubscriptionsByEmail возвращает записи подписок покупателя по email.
func (c *Client) SubscriptionsByEmail(ctx context.Context, email string) ([]models.PlotSubscription, error) {
	const op = "estateapi.SubscriptionsByEmail"
	path := "/api/subscriptions?email=" + url.QueryEscape(email)

	var env subscriptionsEnvelope
	if err := c.do(ctx, op, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeErr(op, env.Message)
	}

	result := make([]models.PlotSubscription, 0, len(env.Data))
	for _, r := range env.Data {
		result = append(result, r.toModel())
	}
	return result, nil
}

// AllSubscriptions возвращает все записи подписок (админский обзор).
func (c *Client) AllSubscriptions(ctx context.Context) ([]models.PlotSubscription, error) {
	const op = "estateapi.AllSubscriptions"

	var env subscriptionsEnvelope
	if err := c.do(ctx, op, http.MethodGet, "/api/subscriptions/all", nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeErr(op, env.Message)
	}

	result := make([]models.PlotSubscription, 0, len(env.Data))
	for _, r := range env.Data {
		result = append(result, r.toModel())
	}
	return result, nil
}

// SubsequentPaymentsByUser возвращает последующие платежи покупателя
// по его идентификатору.
func (c *Client) SubsequentPaymentsByUser(ctx context.Context, userID int) ([]models.Payment, error) {
	const op = "estateapi.SubsequentPaymentsByUser"
	path := fmt.Sprintf("/api/user-subsequent-payments/user/%d", userID)
	return c.payments(ctx, op, path, models.KindSubsequent)
}

// UserPaymentsBySubscription возвращает начальные платежи по
// идентификатору подписки.
func (c *Client) UserPaymentsBySubscription(ctx context.Context, subscriptionID int) ([]models.Payment, error) {
	const op = "estateapi.UserPaymentsBySubscription"
	path := fmt.Sprintf("/api/user-payment-requests/user/%d", subscriptionID)
	return c.payments(ctx, op, path, models.KindInitial)
}

// AllUserPayments возвращает все начальные платежи (админский обзор).
func (c *Client) AllUserPayments(ctx context.Context) ([]models.Payment, error) {
	const op = "estateapi.AllUserPayments"
	return c.payments(ctx, op, "/api/user-payments", models.KindInitial)
}

// AllSubsequentPayments возвращает все последующие платежи (админский обзор).
func (c *Client) AllSubsequentPayments(ctx context.Context) ([]models.Payment, error) {
	const op = "estateapi.AllSubsequentPayments"
	return c.payments(ctx, op, "/api/user-subsequent-payments", models.KindSubsequent)
}

func (c *Client) payments(ctx context.Context, op, path string, kind models.PaymentKind) ([]models.Payment, error) {
	var env paymentsEnvelope
	if err := c.do(ctx, op, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeErr(op, env.Message)
	}

	records := env.records()
	result := make([]models.Payment, 0, len(records))
	for _, r := range records {
		result = append(result, r.toModel(kind))
	}
	return result, nil
}

// AdminUsers возвращает записи унаследованной таблицы пользователей
// вместе с платежами, внесёнными администраторами.
func (c *Client) AdminUsers(ctx context.Context) ([]LegacyUser, error) {
	const op = "estateapi.AdminUsers"

	var env usersEnvelope
	if err := c.do(ctx, op, http.MethodGet, "/api/admin/users", nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeErr(op, env.Message)
	}

	result := make([]LegacyUser, 0, len(env.Data))
	for _, r := range env.Data {
		result = append(result, r.toModel())
	}
	return result, nil
}

// ApproveSubscription одобряет подписку и возвращает идентификаторы
// выделенных участков.
func (c *Client) ApproveSubscription(ctx context.Context, id int) ([]string, error) {
	const op = "estateapi.ApproveSubscription"
	return c.subscriptionAction(ctx, op, id, "approve")
}

// RejectSubscription отклоняет подписку.
func (c *Client) RejectSubscription(ctx context.Context, id int) ([]string, error) {
	const op = "estateapi.RejectSubscription"
	return c.subscriptionAction(ctx, op, id, "reject")
}

func (c *Client) subscriptionAction(ctx context.Context, op string, id int, action string) ([]string, error) {
	path := fmt.Sprintf("/api/subscriptions/%d/%s", id, action)

	var env actionEnvelope
	if err := c.do(ctx, op, http.MethodPut, path, nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, envelopeErr(op, env.Message)
	}
	return env.Data.PlotIDs, nil
}

// UpdatePaymentStatus меняет статус платежа указанного вида.
// Начальные платежи и платежи администраторов живут в коллекции
// user-payments, последующие — в user-subsequent-payments.
func (c *Client) UpdatePaymentStatus(ctx context.Context, kind models.PaymentKind, id int, status string) error {
	const op = "estateapi.UpdatePaymentStatus"

	var path string
	switch kind {
	case models.KindSubsequent:
		path = fmt.Sprintf("/api/user-subsequent-payments/%d/status", id)
	default:
		path = fmt.Sprintf("/api/user-payments/%d/status", id)
	}

	var env actionEnvelope
	body := map[string]string{"status": status}
	if err := c.do(ctx, op, http.MethodPatch, path, body, &env); err != nil {
		return err
	}
	if !env.Success {
		return envelopeErr(op, env.Message)
	}
	return nil
}
