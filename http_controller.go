package identity

import (
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-identity/middleware/jwtware"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPController handles the JSON auth routes.
type HTTPController struct {
	Debug   bool
	Logger  Logger
	Repo    RepositoryManager
	Auther  *Auther
	Gateway *Gateway
	Config  Config
}

type HTTPControllerOption func(*HTTPController) *HTTPController

func WithControllerLogger(logger Logger) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Debug = debug
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther *Auther) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Auther = auther
		return c
	}
}

func WithControllerGateway(gateway *Gateway) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Gateway = gateway
		return c
	}
}

func WithControllerConfig(cfg Config) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Config = cfg
		return c
	}
}

func NewHTTPController(opts ...HTTPControllerOption) *HTTPController {
	c := &HTTPController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Gateway == nil {
		panic("Missing Gateway in auth controller...")
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	return c
}

// RegisterRoutes wires the user and group routes. The registrar is expected
// to be a group mounted at /api/auth.
func (a *HTTPController) RegisterRoutes(group RouteRegistrar) {
	protected := a.ProtectedRoute()

	group.Post("/users/register", a.Register).SetName("users.register")
	group.Post("/users/login", a.Login).SetName("users.login")
	group.Post("/users/login-status", a.LoginStatus).SetName("users.login-status")
	group.Post("/users/me", a.Me, protected...).SetName("users.me")
	group.Post("/users/checkValid", a.CheckValid, protected...).SetName("users.check-valid")
	group.Post("/groups/create", a.GroupCreate, protected...).SetName("groups.create")
}

// ProtectedRoute builds the middleware chain for routes that require an
// authenticated user: token validation first, then user resolution.
func (a *HTTPController) ProtectedRoute() []router.MiddlewareFunc {
	cfg := a.Config

	tokenMW := jwtware.New(jwtware.Config{
		ErrorHandler: a.authErrorHandler,
		SigningKey: jwtware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		AuthScheme:  cfg.GetAuthScheme(),
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		TokenValidator: jwtValidatorAdapter{
			validator: a.Auther.Validator(),
		},
		ContextEnricher: ContextEnricherAdapter,
	})

	return []router.MiddlewareFunc{
		tokenMW,
		a.Gateway.Middleware(cfg.GetContextKey()),
	}
}

func (a *HTTPController) authErrorHandler(c router.Context, err error) error {
	a.Logger.Error("authentication middleware rejected request", "error", err, "path", c.Path())

	if jwtware.IsMissingOrMalformed(err) {
		return Respond(c, http.StatusUnauthorized, "Invalid or expired token", nil)
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return RespondError(c, richErr)
	}

	return Respond(c, http.StatusUnauthorized, "Invalid or expired token", nil)
}

// jwtValidatorAdapter bridges the package token validator into the claims
// interface the middleware expects.
type jwtValidatorAdapter struct {
	validator TokenValidator
}

func (j jwtValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := j.validator.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RegisterPayload is the JSON body for user registration. The account flags
// are optional: omitted is_active defaults to true, is_superuser to false.
type RegisterPayload struct {
	Username    string `json:"username"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Password    string `json:"password"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser *bool  `json:"is_superuser"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 30)),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Length(0, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 300)),
	)
}

// Register creates a new user account.
func (a *HTTPController) Register(ctx router.Context) error {
	payload := new(RegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return Respond(ctx, http.StatusBadRequest, "Error Occurred", nil)
	}

	if verr := goerrors.ValidateWithOzzo(payload.Validate, "invalid registration payload"); verr != nil {
		a.Logger.Error("register validate payload", "error", verr)
		return RespondError(ctx, verr)
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	var res *RegisterUserResponse

	msg := RegisterUserMessage{
		Username:    payload.Username,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Password:    payload.Password,
		IsActive:    boolOrDefault(payload.IsActive, true),
		IsSuperuser: boolOrDefault(payload.IsSuperuser, false),
		OnResponse: func(resp *RegisterUserResponse) {
			res = resp
		},
	}

	handler := NewRegisterUserHandler(a.Repo)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeUsernameTaken {
			return Respond(ctx, http.StatusConflict, "The following fields data already exist.", []string{"username"})
		}
		a.Logger.Error("register execute", "error", err)
		return RespondError(ctx, err)
	}

	return Respond(ctx, http.StatusCreated, "User Account Created Successfully", []PublicUser{res.User.Public()})
}

// LoginPayload is the JSON body for password login.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// Login verifies credentials and returns an access and a refresh token.
// Unknown usernames resolve to 404, bad passwords to 401.
func (a *HTTPController) Login(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return Respond(ctx, http.StatusBadRequest, "Error Occurred", nil)
	}

	if verr := goerrors.ValidateWithOzzo(payload.Validate, "invalid login payload"); verr != nil {
		a.Logger.Error("login validate payload", "error", verr)
		return RespondError(ctx, verr)
	}

	pair, err := a.Auther.Login(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return Respond(ctx, http.StatusNotFound, "User Not Found", nil)
		}

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeBadCredentials {
			return Respond(ctx, http.StatusUnauthorized, "Invalid Password", nil)
		}

		a.Logger.Error("login execute", "error", err)
		return RespondError(ctx, err)
	}

	return Respond(ctx, http.StatusOK, "Login Successfully", []*TokenPair{pair})
}

// LoginStatus resolves the bearer token on the request into the user it was
// issued for. Invalid tokens and vanished users stay distinct outcomes.
func (a *HTTPController) LoginStatus(ctx router.Context) error {
	raw, err := jwtware.ExtractRawTokenFromContext(ctx, jwtware.GetExtractors(
		a.Config.GetTokenLookup(),
		a.Config.GetAuthScheme(),
	))
	if err != nil || raw == "" {
		return Respond(ctx, http.StatusUnauthorized, "Invalid or expired token", nil)
	}

	user, err := a.Gateway.Resolve(ctx.Context(), raw)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return Respond(ctx, http.StatusNotFound, "User not found", nil)
		}
		return Respond(ctx, http.StatusUnauthorized, "Invalid or expired token", nil)
	}

	return Respond(ctx, http.StatusOK, "User is logged in", []map[string]any{{
		"username":     user.Username,
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"is_active":    user.IsActive,
		"is_superuser": user.IsSuperuser,
	}})
}

// Me returns the profile of the authenticated user.
func (a *HTTPController) Me(ctx router.Context) error {
	user, ok := GetRouterUser(ctx)
	if !ok {
		return RespondError(ctx, ErrMissingActor)
	}

	return Respond(ctx, http.StatusOK, "User Details", []PublicUser{user.Public()})
}

// CheckValid confirms the caller holds a valid session.
func (a *HTTPController) CheckValid(ctx router.Context) error {
	user, ok := GetRouterUser(ctx)
	if !ok {
		return RespondError(ctx, ErrMissingActor)
	}

	if a.Debug {
		fmt.Println("======= AUTH CHECK ======")
		fmt.Println(print.MaybePrettyJSON(user.Public()))
		fmt.Println("=========================")
	}

	return Respond(ctx, http.StatusOK, "Welcome To Millennium Desk , You are Loged IN !", nil)
}

// GroupCreatePayload is the JSON body for group creation. An omitted
// is_active defaults to true.
type GroupCreatePayload struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Validate will run validation rules
func (r GroupCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 30)),
	)
}

// GroupCreate creates a group. The authenticated caller is stamped into the
// audit fields no matter what the payload carried.
func (a *HTTPController) GroupCreate(ctx router.Context) error {
	user, ok := GetRouterUser(ctx)
	if !ok {
		return RespondError(ctx, ErrMissingActor)
	}

	payload := new(GroupCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("group create parse payload", "error", err)
		return Respond(ctx, http.StatusBadRequest, "Error Occurred", nil)
	}

	if verr := goerrors.ValidateWithOzzo(payload.Validate, "invalid group payload"); verr != nil {
		a.Logger.Error("group create validate payload", "error", verr)
		return RespondError(ctx, verr)
	}

	var res *CreateGroupResponse

	msg := CreateGroupMessage{
		Name:     payload.Name,
		IsActive: boolOrDefault(payload.IsActive, true),
		Actor:    user.Username,
		OnResponse: func(resp *CreateGroupResponse) {
			res = resp
		},
	}

	handler := NewCreateGroupHandler(a.Repo)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("group create execute", "error", err)
		return RespondError(ctx, err)
	}

	return Respond(ctx, http.StatusCreated, "User Group Created Successfully", []*Group{res.Group})
}
