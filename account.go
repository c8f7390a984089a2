package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const MinPasswordLength = 6

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// RegisterRequest is the admin initiated account creation payload
type RegisterRequest struct {
	FullName        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(MinPasswordLength, 0).Error("password must be at least 6 characters long"),
		),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("passwords do not match")
		}
		return nil
	}
}

// FormatValidationErrorToMap flattens ozzo errors into field -> message
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}

// LoginResponse is the login exchange payload
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// RegisterResponse is the account creation payload
type RegisterResponse struct {
	Success bool   `json:"success"`
	UserID  int    `json:"userId"`
	Message string `json:"message"`
}

type loginMessage struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

type registerMessage struct {
	FullName string `json:"FullName"`
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

// adminRequiredMessage is reported by Register when no credential is stored
const adminRequiredMessage = "Authentication required. Only administrators can create accounts."

// Account runs the login exchange and account creation over a gateway
type Account struct {
	gateway *Gateway
	cfg     Config
	logger  Logger
}

// NewAccount creates an account client
func NewAccount(gateway *Gateway, cfg Config) *Account {
	if cfg == nil {
		cfg = DefaultOptions()
	}
	return &Account{
		gateway: gateway,
		cfg:     cfg,
		logger:  gateway.logger,
	}
}

// WithSession binds the account client to a request scoped store and navigator
func (a *Account) WithSession(store CredentialStore, navigator Navigator) *Account {
	clone := *a
	clone.gateway = a.gateway.WithSession(store, navigator)
	return &clone
}

// Login exchanges credentials for a token and stores it
func (a *Account) Login(ctx context.Context, username, password string) (string, error) {
	var resp LoginResponse
	err := a.gateway.JSON(ctx, http.MethodPost, a.cfg.GetLoginEndpoint(), loginMessage{
		Email:    username,
		Password: password,
	}, &resp, SkipAuthCheck())
	if err != nil {
		a.logger.Error("login error", "error", err)
		return "", err
	}

	if resp.Token == "" {
		return "", requestFailed(a.cfg.GetLoginEndpoint(), http.StatusOK, "login response did not include a token", nil)
	}

	a.gateway.Store().Set(resp.Token, a.cfg.GetCookieRetentionDays())
	return resp.Token, nil
}

// Register creates an account, only admins hold a credential able to do so.
// Presence is checked here, the server decides on the admin claim.
func (a *Account) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if _, ok := a.gateway.Store().Get(); !ok {
		return nil, unauthenticated(adminRequiredMessage)
	}

	resp := &RegisterResponse{}
	err := a.gateway.JSON(ctx, http.MethodPost, a.cfg.GetRegisterEndpoint(), registerMessage{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}, resp, SkipAuthCheck())
	if err != nil {
		a.logger.Error("register error", "error", err)
		return nil, err
	}
	return resp, nil
}

// UserProfile is the account page payload
type UserProfile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Profile loads the profile of userID, it runs without the credential
// pre-flight like the account page always did
func (a *Account) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	path := a.cfg.GetProfileEndpoint()
	resp, err := a.gateway.Call(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  url.Values{"userId": []string{userID}},
	}, SkipAuthCheck())
	if err != nil {
		return nil, err
	}

	profile := &UserProfile{}
	if err := resp.Decode(profile); err != nil {
		return nil, requestFailed(path, resp.StatusCode, "", err)
	}
	return profile, nil
}

// Logout clears the stored credential
func (a *Account) Logout() {
	a.gateway.Store().Remove()
}
