package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gatherhq/gatherpay/internal/gateway/domain"
	"github.com/gatherhq/gatherpay/internal/observability/metrics"
)

// Client talks to the gateway's form-encoded REST API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	metrics *metrics.Metrics
}

func NewClient(baseURL, apiKey string, m *metrics.Metrics) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		client:  &http.Client{Timeout: 12 * time.Second},
		metrics: m,
	}
}

type accountResponse struct {
	ID string `json:"id"`
}

type accountLinkResponse struct {
	URL string `json:"url"`
}

type productResponse struct {
	ID string `json:"id"`
}

type priceResponse struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

type chargeObject struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Created     int64  `json:"created"`
}

type chargeListResponse struct {
	Data []chargeObject `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) CreateAccount(ctx context.Context) (string, error) {
	values := url.Values{}
	values.Set("type", "express")
	values.Set("capabilities[card_payments][requested]", "true")
	values.Set("capabilities[transfers][requested]", "true")

	var account accountResponse
	if err := c.doRequest(ctx, http.MethodPost, "/v1/accounts", values, "", "create_account", &account); err != nil {
		return "", err
	}
	if account.ID == "" {
		return "", fmt.Errorf("%w: empty account id", domain.ErrGatewayUnavailable)
	}
	return account.ID, nil
}

func (c *Client) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	values := url.Values{}
	values.Set("account", accountID)
	values.Set("refresh_url", refreshURL)
	values.Set("return_url", returnURL)
	values.Set("type", "account_onboarding")

	var link accountLinkResponse
	if err := c.doRequest(ctx, http.MethodPost, "/v1/account_links", values, "", "create_account_link", &link); err != nil {
		return "", err
	}
	if link.URL == "" {
		return "", fmt.Errorf("%w: empty onboarding url", domain.ErrGatewayUnavailable)
	}
	return link.URL, nil
}

func (c *Client) CreateProduct(ctx context.Context, name, description string) (string, error) {
	values := url.Values{}
	values.Set("name", name)
	if strings.TrimSpace(description) != "" {
		values.Set("description", description)
	}

	var product productResponse
	if err := c.doRequest(ctx, http.MethodPost, "/v1/products", values, "", "create_product", &product); err != nil {
		return "", err
	}
	if product.ID == "" {
		return "", fmt.Errorf("%w: empty product id", domain.ErrGatewayUnavailable)
	}
	return product.ID, nil
}

func (c *Client) CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error) {
	values := url.Values{}
	values.Set("product", productID)
	values.Set("unit_amount", strconv.FormatInt(unitAmount, 10))
	values.Set("currency", strings.ToLower(currency))

	var price priceResponse
	if err := c.doRequest(ctx, http.MethodPost, "/v1/prices", values, "", "create_price", &price); err != nil {
		return "", err
	}
	if price.ID == "" {
		return "", fmt.Errorf("%w: empty price id", domain.ErrGatewayUnavailable)
	}
	return price.ID, nil
}

func (c *Client) DeactivatePrice(ctx context.Context, priceID string) error {
	values := url.Values{}
	values.Set("active", "false")

	var price priceResponse
	return c.doRequest(ctx, http.MethodPost, "/v1/prices/"+priceID, values, "", "deactivate_price", &price)
}

func (c *Client) ListCharges(ctx context.Context, accountID string, limit int) ([]domain.Charge, error) {
	if limit <= 0 {
		limit = 100
	}
	path := "/v1/charges?limit=" + strconv.Itoa(limit)

	var list chargeListResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, accountID, "list_charges", &list); err != nil {
		return nil, err
	}

	charges := make([]domain.Charge, 0, len(list.Data))
	for _, item := range list.Data {
		charges = append(charges, domain.Charge{
			ID:          item.ID,
			Amount:      item.Amount,
			Status:      item.Status,
			Currency:    strings.ToUpper(item.Currency),
			Description: item.Description,
			CreatedAt:   time.Unix(item.Created, 0).UTC(),
		})
	}
	return charges, nil
}

func (c *Client) doRequest(
	ctx context.Context,
	method string,
	path string,
	values url.Values,
	onBehalfOf string,
	operation string,
	out any,
) error {
	if c.apiKey == "" {
		return domain.ErrInvalidConfig
	}

	var bodyReader *strings.Reader
	if values != nil {
		bodyReader = strings.NewReader(values.Encode())
	} else {
		bodyReader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if onBehalfOf != "" {
		req.Header.Set("Stripe-Account", onBehalfOf)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordGatewayRequest(ctx, operation, true)
		return fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		c.metrics.RecordGatewayRequest(ctx, operation, true)
		var gatewayErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&gatewayErr); err != nil {
			return fmt.Errorf("%w: status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
		}
		message := strings.TrimSpace(gatewayErr.Error.Message)
		if message == "" {
			message = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", domain.ErrGatewayUnavailable, message)
	}

	c.metrics.RecordGatewayRequest(ctx, operation, false)
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	return nil
}
