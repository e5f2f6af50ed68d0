package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopfront-demo/shopfront/internal/catalog"
	"github.com/shopfront-demo/shopfront/internal/models"
)

// Client talks to the catalog/cart service over HTTP+JSON. The bearer
// token, once set, rides along on every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError is a non-2xx response decoded from the service's error
// envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		msg := envelope.Error
		if msg == "" {
			msg = envelope.Message
		}
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type Credentials struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, firstName, lastName, email, password string) (*Credentials, error) {
	body := map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
		"password":  password,
	}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProductQuery mirrors the listing endpoint's query parameters.
type ProductQuery struct {
	Search    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

func (q ProductQuery) encode() string {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.MinPrice != nil {
		values.Set("minPrice", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		values.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.SortBy != "" {
		values.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		values.Set("sortOrder", q.SortOrder)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

func (c *Client) Products(ctx context.Context, q ProductQuery) (*catalog.Page, error) {
	var page catalog.Page
	if err := c.do(ctx, http.MethodGet, "/products"+q.encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Product(ctx context.Context, ref string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(ref), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/products/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Cart is the populated server cart view.
type Cart struct {
	Items      []CartLine `json:"items"`
	TotalItems uint       `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

type CartLine struct {
	Product  models.Product `json:"product"`
	Quantity uint           `json:"quantity"`
	AddedAt  time.Time      `json:"addedAt"`
}

func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity uint) (*Cart, error) {
	body := map[string]interface{}{"productId": productID, "quantity": quantity}
	var cart Cart
	if err := c.do(ctx, http.MethodPost, "/cart/add", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCart(ctx context.Context, productID string, quantity int) (*Cart, error) {
	body := map[string]interface{}{"productId": productID, "quantity": quantity}
	var cart Cart
	if err := c.do(ctx, http.MethodPut, "/cart/update", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, productID string) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodDelete, "/cart/remove/"+url.PathEscape(productID), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ClearCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodDelete, "/cart/clear", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}
