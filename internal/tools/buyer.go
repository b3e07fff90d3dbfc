package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/thithikshaslt/mcp-server/internal/domain"
	"github.com/thithikshaslt/mcp-server/internal/repository"
	"github.com/thithikshaslt/mcp-server/internal/service"
)

// Service slices consumed by the buyer tools.
type (
	CatalogReader interface {
		ListAll(ctx context.Context) ([]domain.Product, error)
		GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	}

	CartService interface {
		View(ctx context.Context, buyerName string) (*domain.Profile, error)
		AddItem(ctx context.Context, buyerName, productID string, quantity int) (*domain.CartLine, error)
		AddItems(ctx context.Context, buyerName string, items []service.ItemRequest) ([]domain.CartLine, error)
		RemoveItem(ctx context.Context, buyerName, productID string) error
	}

	AccountService interface {
		Balance(ctx context.Context, name string) (float64, error)
		AddBalance(ctx context.Context, name string, amount float64) (float64, error)
	}

	CheckoutService interface {
		PlaceOrder(ctx context.Context, buyerName, idempotencyKey string) (*service.CheckoutResult, error)
	}
)

type BuyerTools struct {
	catalog  CatalogReader
	cart     CartService
	account  AccountService
	checkout CheckoutService
	log      zerolog.Logger
}

func NewBuyerTools(catalog CatalogReader, cart CartService, account AccountService, checkout CheckoutService, log zerolog.Logger) *BuyerTools {
	return &BuyerTools{
		catalog:  catalog,
		cart:     cart,
		account:  account,
		checkout: checkout,
		log:      log,
	}
}

func (t *BuyerTools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("view_all_products",
		mcp.WithDescription("Fetch and display all products available in the store."),
	), t.viewAllProducts)

	s.AddTool(mcp.NewTool("view_product_details",
		mcp.WithDescription("View details of a specific product."),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Product id")),
	), t.viewProductDetails)

	s.AddTool(mcp.NewTool("view_cart",
		mcp.WithDescription("View the contents of the buyer's cart, identifying the buyer by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Buyer name")),
	), t.viewCart)

	s.AddTool(mcp.NewTool("check_balance",
		mcp.WithDescription("Check the balance of a buyer by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Buyer name")),
	), t.checkBalance)

	s.AddTool(mcp.NewTool("add_balance",
		mcp.WithDescription("Add an amount to a buyer's balance by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Buyer name")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Amount to add, must be positive")),
	), t.addBalance)

	s.AddTool(mcp.NewTool("add_to_cart",
		mcp.WithDescription("Add one or more products to the buyer's cart. Pass either product_id with quantity, or items as a list of {product_id, quantity}."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Buyer name")),
		mcp.WithString("product_id", mcp.Description("Product id for a single addition")),
		mcp.WithNumber("quantity", mcp.Description("Quantity for a single addition")),
		mcp.WithArray("items",
			mcp.Description("Batch of items, each {product_id, quantity}"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"product_id": map[string]any{"type": "string"},
					"quantity":   map[string]any{"type": "number"},
				},
			}),
		),
	), t.addToCart)

	s.AddTool(mcp.NewTool("delete_from_cart",
		mcp.WithDescription("Remove an item from the buyer's cart by buyer name and product id."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Buyer name")),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Product id to remove")),
	), t.deleteFromCart)

	s.AddTool(mcp.NewTool("place_order",
		mcp.WithDescription("Place an order for everything in the buyer's cart: validates stock and balance, debits the buyer, pays the sellers and empties the cart."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Buyer name")),
		mcp.WithString("idempotency_key", mcp.Description("Optional key making retries safe; a repeated key returns the recorded result without charging again")),
	), t.placeOrder)
}

func (t *BuyerTools) viewAllProducts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	products, err := t.catalog.ListAll(ctx)
	if err != nil {
		t.log.Error().Err(err).Msg("view_all_products failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(products) == 0 {
		return mcp.NewToolResultText("No products found in the store."), nil
	}
	return jsonResult(newProductViews(products)), nil
}

func (t *BuyerTools) viewProductDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	productID, err := req.RequireString("product_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	product, err := t.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrInvalidProductID) {
			return mcp.NewToolResultText("Product not found."), nil
		}
		t.log.Error().Err(err).Msg("view_product_details failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(newProductView(*product)), nil
}

type cartView struct {
	BuyerName  string            `json:"buyer_name"`
	BuyerEmail string            `json:"buyer_email"`
	CartCount  int               `json:"cart_count"`
	Cart       []domain.CartLine `json:"cart"`
}

func (t *BuyerTools) viewCart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	profile, err := t.cart.View(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNameNotFound) {
			return mcp.NewToolResultText(fmt.Sprintf("No buyer found with name: %s", name)), nil
		}
		t.log.Error().Err(err).Msg("view_cart failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(profile.Cart) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%s's cart is empty.", name)), nil
	}
	return jsonResult(cartView{
		BuyerName:  profile.Name,
		BuyerEmail: profile.Email,
		CartCount:  len(profile.Cart),
		Cart:       profile.Cart,
	}), nil
}

func (t *BuyerTools) checkBalance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	balance, err := t.account.Balance(ctx, name)
	if err != nil {
		return t.buyerError(name, err, "check_balance"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s has ₹%s in their account.", name, amount(balance))), nil
}

func (t *BuyerTools) addBalance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := req.RequireFloat("amount")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if value <= 0 {
		return mcp.NewToolResultText("Amount must be greater than zero."), nil
	}

	balance, err := t.account.AddBalance(ctx, name, value)
	if err != nil {
		return t.buyerError(name, err, "add_balance"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Balance updated. New balance for %s: ₹%s", name, amount(balance))), nil
}

func (t *BuyerTools) addToCart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if items := parseItems(req); len(items) > 0 {
		lines, err := t.cart.AddItems(ctx, name, items)
		if err != nil {
			if errors.Is(err, service.ErrNoValidItems) {
				return mcp.NewToolResultText("No valid items to add to cart."), nil
			}
			return t.buyerError(name, err, "add_to_cart"), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Added %d item(s) to %s's cart.", len(lines), name)), nil
	}

	productID := req.GetString("product_id", "")
	quantity := req.GetInt("quantity", 0)
	if productID == "" || quantity <= 0 {
		return mcp.NewToolResultText("Invalid input. Provide either a product_id with quantity, or a list of items."), nil
	}

	line, err := t.cart.AddItem(ctx, name, productID, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrInvalidProductID) {
			return mcp.NewToolResultText("Product not found."), nil
		}
		return t.buyerError(name, err, "add_to_cart"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added %d of '%s' to %s's cart.", line.Quantity, line.Name, name)), nil
}

func (t *BuyerTools) deleteFromCart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	productID, err := req.RequireString("product_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := t.cart.RemoveItem(ctx, name, productID); err != nil {
		if errors.Is(err, repository.ErrItemNotInCart) {
			return mcp.NewToolResultText("Item not found in cart."), nil
		}
		return t.buyerError(name, err, "delete_from_cart"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Item %s removed from %s's cart.", productID, name)), nil
}

func (t *BuyerTools) placeOrder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key := req.GetString("idempotency_key", "")

	result, err := t.checkout.PlaceOrder(ctx, name, key)
	if err != nil {
		return t.placeOrderError(name, err), nil
	}

	if result.Replayed {
		return mcp.NewToolResultText(fmt.Sprintf("Order already placed. Total amount deducted: ₹%s.", amount(result.Total))), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Order placed successfully! Total amount deducted: ₹%s.", amount(result.Total))), nil
}

func (t *BuyerTools) placeOrderError(name string, err error) *mcp.CallToolResult {
	var (
		vanished *service.ProductVanishedError
		stock    *service.InsufficientStockError
		balance  *service.InsufficientBalanceError
		partial  *service.PartialCommitError
	)

	switch {
	case errors.Is(err, repository.ErrNameNotFound):
		return mcp.NewToolResultText(fmt.Sprintf("No buyer found with name: %s", name))
	case errors.Is(err, repository.ErrProfileNotFound):
		return mcp.NewToolResultText("Buyer profile not found.")
	case errors.Is(err, service.ErrEmptyCart):
		return mcp.NewToolResultText(fmt.Sprintf("%s's cart is empty. Nothing to order.", name))
	case errors.Is(err, service.ErrCheckoutInProgress):
		return mcp.NewToolResultText("A checkout with this idempotency key is already in progress. Retry in a moment.")
	case errors.As(err, &vanished):
		return mcp.NewToolResultText(fmt.Sprintf("Product %s not found in inventory.", vanished.ProductID))
	case errors.As(err, &stock):
		return mcp.NewToolResultText(fmt.Sprintf("Insufficient stock for '%s'. Available: %d, requested: %d.",
			stock.ProductName, stock.Available, stock.Requested))
	case errors.As(err, &balance):
		return mcp.NewToolResultText(fmt.Sprintf("Insufficient balance. Total cost is ₹%s, but you have ₹%s.",
			amount(balance.Required), amount(balance.Available)))
	case errors.As(err, &partial):
		// State drift is the one category that must not read like a plain
		// validation failure.
		t.log.Error().Err(err).Str("buyer", name).Msg("place_order left partial state")
		if partial.Compensated {
			return mcp.NewToolResultError(fmt.Sprintf("Order could not be completed: %v. All charges were rolled back.", partial.Cause))
		}
		return mcp.NewToolResultError(fmt.Sprintf("Order failed mid-commit: %v. State may be inconsistent; contact support before retrying.", partial.Cause))
	default:
		t.log.Error().Err(err).Str("buyer", name).Msg("place_order failed")
		return mcp.NewToolResultError(err.Error())
	}
}

// buyerError maps the common not-found case to the original's message and
// everything else to a logged tool error.
func (t *BuyerTools) buyerError(name string, err error, tool string) *mcp.CallToolResult {
	if errors.Is(err, repository.ErrNameNotFound) {
		return mcp.NewToolResultText(fmt.Sprintf("No buyer found with name: %s", name))
	}
	t.log.Error().Err(err).Str("tool", tool).Msg("tool call failed")
	return mcp.NewToolResultError(err.Error())
}

func parseItems(req mcp.CallToolRequest) []service.ItemRequest {
	raw, ok := req.GetArguments()["items"].([]any)
	if !ok {
		return nil
	}

	items := make([]service.ItemRequest, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item := service.ItemRequest{}
		if id, ok := m["product_id"].(string); ok {
			item.ProductID = id
		}
		if qty, ok := m["quantity"].(float64); ok {
			item.Quantity = int(qty)
		}
		items = append(items, item)
	}
	return items
}
