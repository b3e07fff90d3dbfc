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

// AuthService is the slice of the service layer the auth tools consume.
type AuthService interface {
	CheckUser(ctx context.Context, name string) (int64, error)
	Login(ctx context.Context, email, password string) (domain.Role, error)
	Register(ctx context.Context, in service.RegisterInput) (string, error)
	UpdateDetails(ctx context.Context, email, password string, upd domain.ProfileUpdate) (bool, error)
}

type AuthTools struct {
	auth     AuthService
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthTools(auth AuthService, log zerolog.Logger) *AuthTools {
	return &AuthTools{
		auth:     auth,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

func (t *AuthTools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("check_user",
		mcp.WithDescription("Check whether any account exists with the given name. Further actions require email and password."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Account name to look up")),
	), t.checkUser)

	s.AddTool(mcp.NewTool("login_user",
		mcp.WithDescription("Verify a registered user's email and password and return their role."),
		mcp.WithString("email", mcp.Required(), mcp.Description("Account email")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Account password")),
	), t.loginUser)

	s.AddTool(mcp.NewTool("register_user",
		mcp.WithDescription("Register a new buyer or seller account. Name, email, password and role are required; phone and address are optional."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Account name")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Account email, e.g. example@email.com")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Account password")),
		mcp.WithString("role", mcp.Required(), mcp.Description("Either 'buyer' or 'seller'")),
		mcp.WithNumber("phone", mcp.Description("Optional phone number")),
		mcp.WithString("address", mcp.Description("Optional address")),
	), t.registerUser)

	s.AddTool(mcp.NewTool("update_personal_details",
		mcp.WithDescription("Update name, phone number and/or address of an existing profile, authenticated by email and password."),
		mcp.WithString("email", mcp.Required(), mcp.Description("Account email")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Account password")),
		mcp.WithString("name", mcp.Description("New account name")),
		mcp.WithNumber("phone", mcp.Description("New phone number")),
		mcp.WithString("address", mcp.Description("New address")),
	), t.updateDetails)
}

func (t *AuthTools) checkUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	count, err := t.auth.CheckUser(ctx, name)
	if err != nil {
		t.log.Error().Err(err).Msg("check_user failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	if count == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("There are no accounts with %s as their name.", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("There are %d account(s) with %s as their name.", count, name)), nil
}

func (t *AuthTools) loginUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := req.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	password, err := req.RequireString("password")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	role, err := t.auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return mcp.NewToolResultText("no user of that email or password"), nil
		}
		t.log.Error().Err(err).Msg("login_user failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(role)), nil
}

type registerRequest struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Role     string `validate:"required,oneof=buyer seller Buyer Seller BUYER SELLER"`
}

func (t *AuthTools) registerUser(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := registerRequest{
		Name:     req.GetString("name", ""),
		Email:    req.GetString("email", ""),
		Password: req.GetString("password", ""),
		Role:     req.GetString("role", ""),
	}
	if err := t.validate.Struct(r); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid registration: %v", err)), nil
	}

	_, err := t.auth.Register(ctx, service.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
		Phone:    optionalInt64(req, "phone"),
		Address:  optionalString(req, "address"),
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return mcp.NewToolResultText("An account with that email already exists."), nil
		}
		t.log.Error().Err(err).Msg("register_user failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("User successfully registered"), nil
}

func (t *AuthTools) updateDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := req.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	password, err := req.RequireString("password")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	modified, err := t.auth.UpdateDetails(ctx, email, password, domain.ProfileUpdate{
		Name:    optionalString(req, "name"),
		Phone:   optionalInt64(req, "phone"),
		Address: optionalString(req, "address"),
	})
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return mcp.NewToolResultText("no user profile with given credentials"), nil
		}
		t.log.Error().Err(err).Msg("update_personal_details failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !modified {
		return mcp.NewToolResultText("no modifications done to profile"), nil
	}
	return mcp.NewToolResultText("personal details updated"), nil
}
