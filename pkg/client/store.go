package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/shopfront-demo/shopfront/internal/catalog"
	"github.com/shopfront-demo/shopfront/internal/models"
)

// Event names what part of the session state changed. Renderers subscribe
// to these instead of being called from mutation paths directly.
type Event string

const (
	EventUser     Event = "user"
	EventProducts Event = "products"
	EventCart     Event = "cart"
)

// LocalCartItem is one anonymous cart line, held only in local storage
// until login migrates it to the server.
type LocalCartItem struct {
	ProductID string    `json:"productId"`
	Quantity  uint      `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// Store holds session state. While unauthenticated the cart lives in
// localCart (persisted through Storage); after login the server cart is
// authoritative and localCart is gone.
type Store struct {
	api     *Client
	storage Storage
	logger  *slog.Logger

	mu        sync.Mutex
	listeners []func(Event)

	user       *models.User
	token      string
	page       *catalog.Page
	serverCart *Cart
	localCart  []LocalCartItem
}

func NewStore(api *Client, storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{api: api, storage: storage, logger: logger}
	s.restore()
	return s
}

// restore picks up whatever a previous session left in storage.
func (s *Store) restore() {
	if raw, ok := s.storage.Get(TokenKey); ok {
		var token string
		if err := json.Unmarshal(raw, &token); err == nil && token != "" {
			s.token = token
			s.api.SetToken(token)
		}
	}
	if raw, ok := s.storage.Get(CartKey); ok {
		var items []LocalCartItem
		if err := json.Unmarshal(raw, &items); err == nil {
			s.localCart = items
		}
	}
}

func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) emit(ev Event) {
	s.mu.Lock()
	listeners := make([]func(Event), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

func (s *Store) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

func (s *Store) ProductPage() *catalog.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// LocalCart returns a copy of the anonymous cart lines.
func (s *Store) LocalCart() []LocalCartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LocalCartItem, len(s.localCart))
	copy(out, s.localCart)
	return out
}

func (s *Store) ServerCart() *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverCart
}

func (s *Store) LoadProducts(ctx context.Context, q ProductQuery) error {
	page, err := s.api.Products(ctx, q)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
	s.emit(EventProducts)
	return nil
}

// AddToCart accumulates quantities: adding the same product twice grows
// one line instead of creating a second one. Logged out, the mutation is
// local; logged in, it goes to the service.
func (s *Store) AddToCart(ctx context.Context, productID string, quantity uint) error {
	if quantity < 1 {
		quantity = 1
	}

	if s.Authenticated() {
		cart, err := s.api.AddToCart(ctx, productID, quantity)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.serverCart = cart
		s.mu.Unlock()
		s.emit(EventCart)
		return nil
	}

	s.mu.Lock()
	found := false
	for i := range s.localCart {
		if s.localCart[i].ProductID == productID {
			s.localCart[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		s.localCart = append(s.localCart, LocalCartItem{
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   time.Now().UTC(),
		})
	}
	s.persistLocalCartLocked()
	s.mu.Unlock()
	s.emit(EventCart)
	return nil
}

// UpdateCartItem sets a line's quantity; zero or less removes the line.
func (s *Store) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	if s.Authenticated() {
		cart, err := s.api.UpdateCart(ctx, productID, quantity)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.serverCart = cart
		s.mu.Unlock()
		s.emit(EventCart)
		return nil
	}

	s.mu.Lock()
	out := s.localCart[:0]
	for _, item := range s.localCart {
		if item.ProductID == productID {
			if quantity <= 0 {
				continue
			}
			item.Quantity = uint(quantity)
		}
		out = append(out, item)
	}
	s.localCart = out
	s.persistLocalCartLocked()
	s.mu.Unlock()
	s.emit(EventCart)
	return nil
}

func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	return s.UpdateCartItem(ctx, productID, 0)
}

func (s *Store) ClearCart(ctx context.Context) error {
	if s.Authenticated() {
		cart, err := s.api.ClearCart(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.serverCart = cart
		s.mu.Unlock()
		s.emit(EventCart)
		return nil
	}

	s.mu.Lock()
	s.localCart = nil
	s.persistLocalCartLocked()
	s.mu.Unlock()
	s.emit(EventCart)
	return nil
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	creds, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.startSession(ctx, creds)
}

func (s *Store) Register(ctx context.Context, firstName, lastName, email, password string) error {
	creds, err := s.api.Register(ctx, firstName, lastName, email, password)
	if err != nil {
		return err
	}
	return s.startSession(ctx, creds)
}

func (s *Store) startSession(ctx context.Context, creds *Credentials) error {
	s.mu.Lock()
	s.token = creds.Token
	s.user = creds.User
	s.mu.Unlock()

	s.api.SetToken(creds.Token)
	if data, err := json.Marshal(creds.Token); err == nil {
		if err := s.storage.Set(TokenKey, data); err != nil {
			s.logger.Warn("cannot persist token", "error", err)
		}
	}

	s.reconcileCart(ctx)
	s.emit(EventUser)
	return nil
}

// reconcileCart replays the anonymous cart into the server cart, one item
// at a time in insertion order. A failed item is logged and skipped; there
// is no retry and no rollback. Whatever happens, local cart storage is
// cleared and the server cart is authoritative from here on.
func (s *Store) reconcileCart(ctx context.Context) {
	s.mu.Lock()
	pending := make([]LocalCartItem, len(s.localCart))
	copy(pending, s.localCart)
	s.mu.Unlock()

	for _, item := range pending {
		if _, err := s.api.AddToCart(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Warn("cart merge: item skipped",
				"productId", item.ProductID,
				"quantity", item.Quantity,
				"error", err,
			)
		}
	}

	s.mu.Lock()
	s.localCart = nil
	s.mu.Unlock()
	if err := s.storage.Delete(CartKey); err != nil {
		s.logger.Warn("cannot clear local cart storage", "error", err)
	}

	cart, err := s.api.Cart(ctx)
	if err != nil {
		s.logger.Warn("cannot load server cart after merge", "error", err)
		return
	}
	s.mu.Lock()
	s.serverCart = cart
	s.mu.Unlock()
	s.emit(EventCart)
}

// Logout drops the session. The next anonymous session starts with an
// empty cart; local storage is not repopulated from the server cart.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.serverCart = nil
	s.localCart = nil
	s.mu.Unlock()

	s.api.SetToken("")
	if err := s.storage.Delete(TokenKey); err != nil {
		s.logger.Warn("cannot clear token storage", "error", err)
	}
	s.emit(EventUser)
	s.emit(EventCart)
}

// callers must hold mu
func (s *Store) persistLocalCartLocked() {
	data, err := json.Marshal(s.localCart)
	if err != nil {
		s.logger.Warn("cannot encode local cart", "error", err)
		return
	}
	if err := s.storage.Set(CartKey, data); err != nil {
		s.logger.Warn("cannot persist local cart", "error", err)
	}
}
