// Package tools wires the marketplace services onto the MCP tool surface.
// Handlers decode arguments into typed requests, validate them, call the
// service layer and render the original plain-text / JSON responses.
package tools

import (
	"encoding/json"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thithikshaslt/mcp-server/internal/domain"
)

// amount renders a monetary value the shortest way it round-trips, so
// ₹100 prints as "100" and ₹19.99 as "19.99".
func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func toJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// jsonResult marshals v, falling back to a tool error when marshalling fails.
func jsonResult(v any) *mcp.CallToolResult {
	text, err := toJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(text)
}

// productView is the serialized product shape: ObjectIDs go out as hex
// strings.
type productView struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	SellerEmail string  `json:"seller_email"`
}

func newProductView(p domain.Product) productView {
	return productView{
		ProductID:   p.ID.Hex(),
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    p.Quantity,
		SellerEmail: p.SellerEmail,
	}
}

func newProductViews(products []domain.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	return views
}

// optionalString returns nil when the argument is absent or empty.
func optionalString(req mcp.CallToolRequest, key string) *string {
	value := req.GetString(key, "")
	if value == "" {
		return nil
	}
	return &value
}

// optionalInt64 returns nil when the argument is absent.
func optionalInt64(req mcp.CallToolRequest, key string) *int64 {
	args := req.GetArguments()
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil
	}
	if f, ok := raw.(float64); ok {
		v := int64(f)
		return &v
	}
	return nil
}
