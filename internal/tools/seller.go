package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/thithikshaslt/mcp-server/internal/domain"
	"github.com/thithikshaslt/mcp-server/internal/repository"
	"github.com/thithikshaslt/mcp-server/internal/service"
)

// CatalogService is the slice of the service layer the seller tools consume.
type CatalogService interface {
	AddProduct(ctx context.Context, sellerEmail string, in service.ProductInput) (*domain.Product, error)
	AddProducts(ctx context.Context, sellerEmail string, ins []service.ProductInput) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, productID, field, newValue string) (bool, error)
	DeleteProduct(ctx context.Context, productID string) error
	ListSellerProducts(ctx context.Context, sellerName string) (string, []domain.Product, error)
}

type SellerTools struct {
	catalog  CatalogService
	validate *validator.Validate
	log      zerolog.Logger
}

func NewSellerTools(catalog CatalogService, log zerolog.Logger) *SellerTools {
	return &SellerTools{
		catalog:  catalog,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

func (t *SellerTools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("add_product",
		mcp.WithDescription("Add a product to the inventory."),
		mcp.WithString("seller_email", mcp.Required(), mcp.Description("Seller's email")),
		mcp.WithString("product_name", mcp.Required(), mcp.Description("Name of the product")),
		mcp.WithNumber("price", mcp.Required(), mcp.Description("Price of the product")),
		mcp.WithNumber("quantity", mcp.Required(), mcp.Description("Quantity of the product")),
	), t.addProduct)

	s.AddTool(mcp.NewTool("add_multiple_products",
		mcp.WithDescription("Add multiple products to the inventory in one go."),
		mcp.WithString("seller_email", mcp.Required(), mcp.Description("Seller's email")),
		mcp.WithArray("products",
			mcp.Required(),
			mcp.Description("Products to add, each {name, price, quantity}"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":     map[string]any{"type": "string"},
					"price":    map[string]any{"type": "number"},
					"quantity": map[string]any{"type": "number"},
				},
			}),
		),
	), t.addMultipleProducts)

	s.AddTool(mcp.NewTool("update_product",
		mcp.WithDescription("Update one product field: name, price or quantity."),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Id of the product to update")),
		mcp.WithString("field", mcp.Required(), mcp.Description("Field to update: name, price or quantity")),
		mcp.WithString("new_value", mcp.Required(), mcp.Description("New value for the field")),
	), t.updateProduct)

	s.AddTool(mcp.NewTool("delete_product",
		mcp.WithDescription("Delete a product from the inventory."),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Id of the product to delete")),
	), t.deleteProduct)

	s.AddTool(mcp.NewTool("view_seller_products",
		mcp.WithDescription("View all products added by a seller, identified by name (case-insensitive)."),
		mcp.WithString("seller_name", mcp.Required(), mcp.Description("Seller's name")),
	), t.viewSellerProducts)
}

type addProductRequest struct {
	SellerEmail string  `validate:"required,email"`
	ProductName string  `validate:"required"`
	Price       float64 `validate:"gte=0"`
	Quantity    int     `validate:"gte=0"`
}

func (t *SellerTools) addProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := addProductRequest{
		SellerEmail: req.GetString("seller_email", ""),
		ProductName: req.GetString("product_name", ""),
		Price:       req.GetFloat("price", 0),
		Quantity:    req.GetInt("quantity", 0),
	}
	if err := t.validate.Struct(r); err != nil {
		return jsonResult(map[string]string{"error": err.Error()}), nil
	}

	product, err := t.catalog.AddProduct(ctx, r.SellerEmail, service.ProductInput{
		Name:     r.ProductName,
		Price:    r.Price,
		Quantity: r.Quantity,
	})
	if err != nil {
		t.log.Error().Err(err).Msg("add_product failed")
		return jsonResult(map[string]string{"error": err.Error()}), nil
	}

	return jsonResult(map[string]any{
		"message": "Product added successfully",
		"product": newProductView(*product),
	}), nil
}

func (t *SellerTools) addMultipleProducts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sellerEmail := req.GetString("seller_email", "")
	if sellerEmail == "" {
		return jsonResult(map[string]string{"error": "seller_email is required"}), nil
	}

	raw, ok := req.GetArguments()["products"].([]any)
	if !ok || len(raw) == 0 {
		return jsonResult(map[string]string{"error": "Expected a list of products."}), nil
	}

	inputs := make([]service.ProductInput, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return jsonResult(map[string]string{"error": "Expected a list of products."}), nil
		}
		in := service.ProductInput{}
		if name, ok := m["name"].(string); ok {
			in.Name = name
		}
		if price, ok := m["price"].(float64); ok {
			in.Price = price
		}
		if qty, ok := m["quantity"].(float64); ok {
			in.Quantity = int(qty)
		}
		if in.Name == "" {
			return jsonResult(map[string]string{"error": "every product needs a name"}), nil
		}
		inputs = append(inputs, in)
	}

	products, err := t.catalog.AddProducts(ctx, sellerEmail, inputs)
	if err != nil {
		t.log.Error().Err(err).Msg("add_multiple_products failed")
		return jsonResult(map[string]string{"error": err.Error()}), nil
	}

	return jsonResult(map[string]any{
		"message":  fmt.Sprintf("%d products added successfully", len(products)),
		"products": newProductViews(products),
	}), nil
}

func (t *SellerTools) updateProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	productID, err := req.RequireString("product_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	field, err := req.RequireString("field")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newValue, err := req.RequireString("new_value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	modified, err := t.catalog.UpdateProduct(ctx, productID, field, newValue)
	if err != nil {
		if errors.Is(err, service.ErrInvalidField) {
			return jsonResult(map[string]string{"error": "Invalid field. Choose from 'name', 'price', or 'quantity'."}), nil
		}
		if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrInvalidProductID) {
			return jsonResult(map[string]string{"message": "No changes made. Check product_id."}), nil
		}
		t.log.Error().Err(err).Msg("update_product failed")
		return jsonResult(map[string]string{"error": err.Error()}), nil
	}

	if !modified {
		return jsonResult(map[string]string{"message": "No changes made. Check product_id."}), nil
	}
	return jsonResult(map[string]string{
		"message": fmt.Sprintf("Product updated: %s set to %s", field, newValue),
	}), nil
}

func (t *SellerTools) deleteProduct(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	productID, err := req.RequireString("product_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := t.catalog.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrInvalidProductID) {
			return jsonResult(map[string]string{"message": "No product found with given ID."}), nil
		}
		t.log.Error().Err(err).Msg("delete_product failed")
		return jsonResult(map[string]string{"error": err.Error()}), nil
	}
	return jsonResult(map[string]string{"message": "Product deleted successfully."}), nil
}

func (t *SellerTools) viewSellerProducts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sellerName, err := req.RequireString("seller_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	email, products, err := t.catalog.ListSellerProducts(ctx, sellerName)
	if err != nil {
		if errors.Is(err, repository.ErrNameNotFound) {
			return jsonResult(map[string]string{
				"error": fmt.Sprintf("No seller email found for name '%s'.", sellerName),
			}), nil
		}
		t.log.Error().Err(err).Msg("view_seller_products failed")
		return jsonResult(map[string]string{"error": err.Error()}), nil
	}

	return jsonResult(map[string]any{
		"seller_name":   sellerName,
		"seller_email":  email,
		"product_count": len(products),
		"products":      newProductViews(products),
	}), nil
}
