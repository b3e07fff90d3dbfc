package service

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thithikshaslt/mcp-server/internal/cache"
	"github.com/thithikshaslt/mcp-server/internal/domain"
	"github.com/thithikshaslt/mcp-server/internal/repository"
)

// Mocks keep profiles in insertion order so first-match name resolution is
// deterministic. fail injects an error for a single method by name.

type mockProfiles struct {
	mu       sync.Mutex
	profiles []*domain.Profile
	fail     map[string]error
}

func newMockProfiles(profiles ...*domain.Profile) *mockProfiles {
	return &mockProfiles{profiles: profiles, fail: map[string]error{}}
}

func (m *mockProfiles) byEmail(email string) *domain.Profile {
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			return p
		}
	}
	return nil
}

func (m *mockProfiles) FindEmailByName(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["FindEmailByName"]; err != nil {
		return "", err
	}
	for _, p := range m.profiles {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return strings.ToLower(p.Email), nil
		}
	}
	return "", repository.ErrNameNotFound
}

func (m *mockProfiles) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["GetByEmail"]; err != nil {
		return nil, err
	}
	if p := m.byEmail(email); p != nil {
		clone := *p
		clone.Cart = append([]domain.CartLine(nil), p.Cart...)
		return &clone, nil
	}
	return nil, repository.ErrProfileNotFound
}

func (m *mockProfiles) GetBuyerByName(_ context.Context, name string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) && p.Role == domain.RoleBuyer {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repository.ErrNameNotFound
}

func (m *mockProfiles) CountByName(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, p := range m.profiles {
		if p.Name == name {
			count++
		}
	}
	return count, nil
}

func (m *mockProfiles) FindByCredentials(_ context.Context, email, password string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Email == email && p.Password == password {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repository.ErrProfileNotFound
}

func (m *mockProfiles) Insert(_ context.Context, profile *domain.Profile) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["Insert"]; err != nil {
		return "", err
	}
	if m.byEmail(profile.Email) != nil {
		return "", repository.ErrEmailTaken
	}
	profile.ID = primitive.NewObjectID()
	m.profiles = append(m.profiles, profile)
	return profile.ID.Hex(), nil
}

func (m *mockProfiles) UpdateDetails(_ context.Context, email, password string, upd domain.ProfileUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Email == email && p.Password == password {
			modified := false
			if upd.Name != nil && *upd.Name != p.Name {
				p.Name = *upd.Name
				modified = true
			}
			if upd.Phone != nil {
				p.Phone = upd.Phone
				modified = true
			}
			if upd.Address != nil {
				p.Address = upd.Address
				modified = true
			}
			return modified, nil
		}
	}
	return false, repository.ErrProfileNotFound
}

func (m *mockProfiles) CreditBalance(_ context.Context, email string, amount float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["CreditBalance"]; err != nil {
		return 0, err
	}
	p := m.byEmail(email)
	if p == nil {
		return 0, repository.ErrProfileNotFound
	}
	p.Balance += amount
	return p.Balance, nil
}

func (m *mockProfiles) DebitBalance(_ context.Context, email string, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["DebitBalance"]; err != nil {
		return err
	}
	p := m.byEmail(email)
	if p == nil || p.Balance < amount {
		return repository.ErrInsufficientFunds
	}
	p.Balance -= amount
	return nil
}

func (m *mockProfiles) PushCartLines(_ context.Context, email string, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["PushCartLines"]; err != nil {
		return err
	}
	p := m.byEmail(email)
	if p == nil {
		return repository.ErrProfileNotFound
	}
	p.Cart = append(p.Cart, lines...)
	return nil
}

func (m *mockProfiles) PullCartLine(_ context.Context, email, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.byEmail(email)
	if p == nil {
		return repository.ErrProfileNotFound
	}
	kept := p.Cart[:0]
	removed := false
	for _, line := range p.Cart {
		if line.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return repository.ErrItemNotInCart
	}
	p.Cart = kept
	return nil
}

func (m *mockProfiles) ClearCart(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["ClearCart"]; err != nil {
		return err
	}
	p := m.byEmail(email)
	if p == nil {
		return repository.ErrProfileNotFound
	}
	p.Cart = []domain.CartLine{}
	return nil
}

type mockInventory struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	fail     map[string]error
	// failDecrementAfter fails DecrementQuantity once n calls have succeeded.
	failDecrementAfter int
	decrementCalls     int
}

func newMockInventory(products ...*domain.Product) *mockInventory {
	m := &mockInventory{
		products:           map[string]*domain.Product{},
		fail:               map[string]error{},
		failDecrementAfter: -1,
	}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		m.products[p.ID.Hex()] = p
	}
	return m
}

func (m *mockInventory) GetByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["GetByID"]; err != nil {
		return nil, err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *mockInventory) List(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, *p)
	}
	return products, nil
}

func (m *mockInventory) ListBySeller(_ context.Context, sellerEmail string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var products []domain.Product
	for _, p := range m.products {
		if p.SellerEmail == sellerEmail {
			products = append(products, *p)
		}
	}
	return products, nil
}

func (m *mockInventory) Insert(_ context.Context, product *domain.Product) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["Insert"]; err != nil {
		return "", err
	}
	product.ID = primitive.NewObjectID()
	m.products[product.ID.Hex()] = product
	return product.ID.Hex(), nil
}

func (m *mockInventory) InsertMany(_ context.Context, products []domain.Product) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(products))
	for i := range products {
		p := products[i]
		p.ID = primitive.NewObjectID()
		m.products[p.ID.Hex()] = &p
		ids = append(ids, p.ID.Hex())
	}
	return ids, nil
}

func (m *mockInventory) UpdateField(_ context.Context, id, field string, value any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return false, repository.ErrProductNotFound
	}
	switch field {
	case "name":
		p.Name = value.(string)
	case "price":
		p.Price = value.(float64)
	case "quantity":
		p.Quantity = value.(int)
	}
	return true, nil
}

func (m *mockInventory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockInventory) DecrementQuantity(_ context.Context, id string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["DecrementQuantity"]; err != nil {
		return err
	}
	if m.failDecrementAfter >= 0 && m.decrementCalls >= m.failDecrementAfter {
		return repository.ErrInsufficientStock
	}
	p, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	if p.Quantity < amount {
		return repository.ErrInsufficientStock
	}
	p.Quantity -= amount
	m.decrementCalls++
	return nil
}

func (m *mockInventory) IncrementQuantity(_ context.Context, id string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["IncrementQuantity"]; err != nil {
		return err
	}
	p, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Quantity += amount
	return nil
}

type mockLedger struct {
	mu       sync.Mutex
	orders   []domain.Order
	payments []domain.Payment
	fail     map[string]error
}

func newMockLedger() *mockLedger {
	return &mockLedger{fail: map[string]error{}}
}

func (m *mockLedger) InsertOrders(_ context.Context, orders []domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["InsertOrders"]; err != nil {
		return err
	}
	m.orders = append(m.orders, orders...)
	return nil
}

func (m *mockLedger) InsertPayments(_ context.Context, payments []domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["InsertPayments"]; err != nil {
		return err
	}
	m.payments = append(m.payments, payments...)
	return nil
}

type mockAttempts struct {
	mu       sync.Mutex
	attempts map[string]*domain.CheckoutAttempt
}

func newMockAttempts() *mockAttempts {
	return &mockAttempts{attempts: map[string]*domain.CheckoutAttempt{}}
}

func (m *mockAttempts) GetByKey(_ context.Context, key string) (*domain.CheckoutAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[key]
	if !ok {
		return nil, repository.ErrAttemptNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *mockAttempts) Create(_ context.Context, attempt *domain.CheckoutAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[attempt.Key] = attempt
	return nil
}

func (m *mockAttempts) MarkPending(_ context.Context, key string) error {
	return m.setStatus(key, domain.AttemptPending, nil, "")
}

func (m *mockAttempts) MarkCompleted(_ context.Context, key string, total float64, message string) error {
	return m.setStatus(key, domain.AttemptCompleted, &total, message)
}

func (m *mockAttempts) MarkFailed(_ context.Context, key, reason string) error {
	return m.setStatus(key, domain.AttemptFailed, nil, reason)
}

func (m *mockAttempts) setStatus(key string, status domain.AttemptStatus, total *float64, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[key]
	if !ok {
		return repository.ErrAttemptNotFound
	}
	a.Status = status
	if total != nil {
		a.Total = *total
	}
	a.Message = message
	return nil
}

type mockCache struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]string{}}
}

func (m *mockCache) Get(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	email, ok := m.entries[name]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return email, nil
}

func (m *mockCache) Set(_ context.Context, name, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = email
	m.sets++
	return nil
}

func (m *mockCache) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
	return nil
}
