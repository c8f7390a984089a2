package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

const loginFailedMessage = "Login failed. Please check your credentials."

// RegisterAuthRoutes mounts the login, logout, registration and account
// pages, each behind the guard the route table holds for it.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	publicOnly := controller.Table.Guard("login")
	adminPublic := controller.Table.Guard("register")
	authenticated := controller.Table.Guard("account")

	app.Get(controller.Routes.Login, controller.LoginShow, publicOnly).
		SetName("sign-in.get")
	app.Post(controller.Routes.Login, controller.LoginPost, publicOnly).
		SetName("sign-in.post")

	app.Get(controller.Routes.Logout, controller.LogOut).SetName("sign-out.get")

	app.Get(controller.Routes.Register, controller.RegistrationShow, adminPublic).
		SetName("register.get")
	app.Post(controller.Routes.Register, controller.RegistrationCreate, adminPublic).
		SetName("register.post")

	app.Get(controller.Routes.Account, controller.AccountShow, authenticated).
		SetName("account.get")

	return controller
}

type AuthControllerRoutes struct {
	Login    string
	Logout   string
	Register string
	Account  string
}

type AuthControllerViews struct {
	Login    string
	Register string
	Account  string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Config       Config
	Account      *Account
	Routes       *AuthControllerRoutes
	Views        *AuthControllerViews
	Table        *RouteTable
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

// WithAccountClient sets the client used for login and registration
func WithAccountClient(account *Account) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Account = account
		return c
	}
}

// WithControllerConfig sets routes and cookie options
func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if cfg != nil {
			c.Config = cfg
		}
		return c
	}
}

// WithRouteTable sets the table the login, register and account guards and
// paths come from
func WithRouteTable(table *RouteTable) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if table != nil {
			c.Table = table
		}
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerErrorHandler(handler router.ErrorHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if handler != nil {
			c.ErrorHandler = handler
		}
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	cfg := DefaultOptions()
	c := &AuthController{
		Logger:       defLogger{},
		Config:       cfg,
		ErrorHandler: defaultErrHandler,
		Views: &AuthControllerViews{
			Login:    "login",
			Register: "register",
			Account:  "account",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Table == nil {
		c.Table = NewRouteTable(c.Config, DefaultRoutes(c.Config), WithGuardLogger(c.Logger))
	}

	if c.Routes == nil {
		c.Routes = &AuthControllerRoutes{
			Login:    c.Table.Path("login"),
			Logout:   "/logout",
			Register: c.Table.Path("register"),
			Account:  c.Table.Path("account"),
		}
	}

	if c.Account == nil {
		panic("Missing Account client in auth controller...")
	}

	return c
}

func (a *AuthController) render(ctx router.Context, view string, data router.ViewContext) error {
	return ctx.Render(view, MergeTemplateData(ctx, a.Config, data))
}

func (a *AuthController) account(ctx router.Context) *Account {
	store, navigator := RequestSession(ctx, a.Config)
	return a.Account.WithSession(store, navigator)
}

func (a *AuthController) LoginShow(ctx router.Context) error {
	return a.render(ctx, a.Views.Login, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.render(ctx, a.Views.Login, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		a.Logger.Debug("auth login", "payload", print.MaybePrettyJSON(map[string]string{
			"username": payload.Username,
		}))
	}

	if _, err := a.account(ctx).Login(ctx.Context(), payload.Username, payload.Password); err != nil {
		return a.render(ctx, a.Views.Login, router.ViewContext{
			"errors": map[string]string{
				"authentication": loginFailedMessage,
			},
			"record": payload,
		})
	}

	redirect := GetRedirect(ctx, a.Config, a.Config.GetLandingRoute())
	a.Logger.Info("login succeeded", "redirect", redirect)

	return ctx.Redirect(redirect, router.StatusSeeOther)
}

func (a *AuthController) LogOut(ctx router.Context) error {
	a.account(ctx).Logout()
	return ctx.Redirect(a.Config.GetLoginRoute(), router.StatusSeeOther)
}

func (a *AuthController) RegistrationShow(ctx router.Context) error {
	return a.render(ctx, a.Views.Register, router.ViewContext{
		"errors": map[string]string{},
		"record": RegisterRequest{},
	})
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegisterRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Register, MergeTemplateData(ctx, a.Config, router.ViewContext{
			"errors": map[string]string{"form": "Failed to parse form"},
			"record": payload,
		}))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("register user validate payload", "error", err)
		return a.render(ctx, a.Views.Register, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	resp, err := a.account(ctx).Register(ctx.Context(), *payload)
	if err != nil {
		a.Logger.Error("register user", "error", err)
		return a.render(ctx, a.Views.Register, router.ViewContext{
			"record": payload,
			"errors": map[string]string{"form": ErrorMessage(err)},
		})
	}

	if a.Debug {
		a.Logger.Debug("auth register", "response", print.MaybePrettyJSON(resp))
	}

	message := resp.Message
	if message == "" {
		message = fmt.Sprintf("Account created for %s", payload.Email)
	}

	return a.render(ctx, a.Views.Register, router.ViewContext{
		"errors":  map[string]string{},
		"record":  RegisterRequest{},
		"success": message,
	})
}

// AccountShow renders the profile of the current visitor. Profile lookup
// failures are logged and the page renders with what the claims carry.
func (a *AuthController) AccountShow(ctx router.Context) error {
	store, _ := RequestSession(ctx, a.Config)
	view := SessionViewFromStore(store)

	profile := &UserProfile{
		Username: view.Name,
		Email:    view.Email,
	}

	oracle := NewSessionOracle(store, WithSessionLogger(a.Logger))
	if claims, ok := oracle.Claims(); ok && claims.Subject != "" {
		remote, err := a.account(ctx).Profile(ctx.Context(), claims.Subject)
		if err != nil {
			a.Logger.Error("failed to fetch user profile", "error", err)
		} else {
			profile = remote
		}
	}

	return a.render(ctx, a.Views.Account, router.ViewContext{
		"profile":  profile,
		"is_admin": view.Admin,
	})
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Status(fiber.StatusInternalServerError).Render("errors/500", router.ViewContext{
		"message": ErrorMessage(err),
	})
}
