// Package api is the request/response surface: login/logout, the per-variant
// game endpoints, and the data-change notifier contract consumed by the CRUD
// layer.
package api

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/shashanksharma6338/register-live/pkg/games"
	"github.com/shashanksharma6338/register-live/pkg/realtime/broadcast"
	sessions "github.com/shashanksharma6338/register-live/pkg/session"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

// CredentialChecker is the narrow contract to the credential store that
// lives outside this core. It returns the user's role when the pair checks
// out.
type CredentialChecker func(username string, password string) (string, bool)

type API struct {
	S           *structs.Server
	Credentials CredentialChecker
	Secure      bool
}

func New(s *structs.Server, credentials CredentialChecker) *API {
	return &API{S: s, Credentials: credentials}
}

// Response is the uniform shape of every game endpoint reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Game    any    `json:"game,omitempty"`
	Games   []any  `json:"games,omitempty"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type notifyRequest struct {
	Type          string `json:"type" validate:"required"`
	Action        string `json:"action" validate:"required"`
	Data          any    `json:"data,omitempty"`
	FinancialYear string `json:"financial_year" validate:"required"`
}

// Register mounts every route on the fiber app.
func (a *API) Register(app *fiber.App) {
	app.Post("/api/login", a.Login)
	app.Post("/api/logout", a.Logout)
	app.Post("/api/notify-change", a.requireSession, a.NotifyChange)
	app.Get("/healthz", a.Health)

	a.registerGameRoutes(app)
}

func (a *API) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "malformed login body"})
	}
	if err := a.S.PacketValidator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: err.Error()})
	}
	role, ok := a.Credentials(req.Username, req.Password)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(Response{Success: false, Message: "invalid credentials"})
	}

	rec := a.S.SessionStore.Create(req.Username, role)
	c.Cookie(&fiber.Cookie{
		Name:     sessions.CookieName,
		Value:    a.S.Cookies.Encode(rec.SessionID),
		Expires:  rec.Expiry,
		HTTPOnly: true,
		Secure:   a.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	log.Printf("User %s logged in with role %s", rec.Username, rec.Role)
	return c.JSON(Response{Success: true})
}

func (a *API) Logout(c *fiber.Ctx) error {
	if id, err := a.S.Cookies.Decode(c.Cookies(sessions.CookieName)); err == nil {
		a.S.SessionStore.Destroy(id)
	}
	c.Cookie(&fiber.Cookie{
		Name:    sessions.CookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
	})
	return c.JSON(Response{Success: true})
}

// NotifyChange is the data-change notifier: a register write in the CRUD
// layer lands here and fans out as the room-scoped detailed event plus the
// homepage heads-up.
func (a *API) NotifyChange(c *fiber.Ctx) error {
	var req notifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "malformed notify body"})
	}
	if err := a.S.PacketValidator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: err.Error()})
	}
	broadcast.DataChange(a.S, req.Type, req.Action, req.Data, req.FinancialYear)
	broadcast.HomepageUpdate(a.S, req.Type, req.Action, req.FinancialYear)
	return c.JSON(Response{Success: true})
}

func (a *API) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// requireSession resolves the session cookie and stores the caller identity
// in Locals. Missing or unresolvable sessions are refused.
func (a *API) requireSession(c *fiber.Ctx) error {
	id, err := a.S.Cookies.Decode(c.Cookies(sessions.CookieName))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(Response{Success: false, Message: err.Error()})
	}
	rec := a.S.SessionStore.Resolve(id)
	if rec == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(Response{Success: false, Message: "session not found or expired"})
	}
	c.Locals("username", rec.Username)
	c.Locals("role", rec.Role)
	return c.Next()
}

// requireGamer runs after requireSession and checks the games permission for
// the caller's role.
func (a *API) requireGamer(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if !sessions.HasPermission(a.S.Roles, role, sessions.PermissionGames) {
		return c.Status(fiber.StatusForbidden).JSON(Response{Success: false, Message: "games permission required"})
	}
	return c.Next()
}

func gameStatus(err error) int {
	switch {
	case errors.Is(err, games.ErrMatchNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, games.ErrNotParticipant):
		return fiber.StatusForbidden
	default:
		return fiber.StatusBadRequest
	}
}
