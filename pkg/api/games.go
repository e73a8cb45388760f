package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shashanksharma6338/register-live/pkg/realtime/broadcast"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

type createRaceRequest struct {
	MaxPlayers int    `json:"maxPlayers"`
	Computers  int    `json:"computers"`
	Difficulty string `json:"difficulty"`
}

func (a *API) registerGameRoutes(app *fiber.App) {
	g := app.Group("/api/games", a.requireSession, a.requireGamer)

	g.Get("/chess", a.ListChess)
	g.Post("/chess", a.CreateChess)
	g.Post("/chess/:id/join", a.JoinChess)
	g.Post("/chess/:id/start", a.StartChess)
	g.Post("/chess/:id/move", a.MoveChess)
	g.Post("/chess/:id/resign", a.ResignChess)

	g.Get("/race", a.ListRace)
	g.Post("/race", a.CreateRace)
	g.Post("/race/:id/join", a.JoinRace)
	g.Post("/race/:id/start", a.StartRace)
	g.Post("/race/:id/roll", a.RollRace)
	g.Post("/race/:id/piece", a.MoveRacePiece)

	g.Get("/grid", a.ListGrid)
	g.Post("/grid", a.CreateGrid)
	g.Post("/grid/:id/join", a.JoinGrid)
	g.Post("/grid/:id/start", a.StartGrid)
	g.Post("/grid/:id/move", a.MoveGrid)

	g.Get("/cards", a.ListCards)
	g.Post("/cards", a.CreateCards)
	g.Post("/cards/:id/join", a.JoinCards)
	g.Post("/cards/:id/play", a.PlayCard)
	g.Post("/cards/:id/draw", a.DrawCard)
}

func (a *API) username(c *fiber.Ctx) string {
	username, _ := c.Locals("username").(string)
	return username
}

// respond settles a lifecycle or action result: rejected actions map onto
// 404/403/400 with no broadcast; accepted ones broadcast the updated match
// to the gaming room exactly once.
func (a *API) respond(c *fiber.Ctx, event string, game any, err error) error {
	if err != nil {
		return c.Status(gameStatus(err)).JSON(Response{Success: false, Message: err.Error()})
	}
	broadcast.Gaming(a.S, event, game)
	return c.JSON(Response{Success: true, Game: game})
}

// Chess

func (a *API) ListChess(c *fiber.Ctx) error {
	return c.JSON(Response{Success: true, Games: a.S.Games.ListChess()})
}

func (a *API) CreateChess(c *fiber.Ctx) error {
	return a.respond(c, "chess-update", a.S.Games.CreateChess(a.username(c)), nil)
}

func (a *API) JoinChess(c *fiber.Ctx) error {
	game, err := a.S.Games.JoinChess(c.Params("id"), a.username(c))
	return a.respond(c, "chess-update", game, err)
}

func (a *API) StartChess(c *fiber.Ctx) error {
	game, err := a.S.Games.StartChess(c.Params("id"), a.username(c))
	return a.respond(c, "chess-update", game, err)
}

func (a *API) MoveChess(c *fiber.Ctx) error {
	var req structs.ChessMoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "malformed move body"})
	}
	game, err := a.S.Games.MoveChess(c.Params("id"), a.username(c), req.FromRow, req.FromCol, req.ToRow, req.ToCol)
	return a.respond(c, "chess-update", game, err)
}

func (a *API) ResignChess(c *fiber.Ctx) error {
	game, err := a.S.Games.ResignChess(c.Params("id"), a.username(c))
	return a.respond(c, "chess-update", game, err)
}

// Race

func (a *API) ListRace(c *fiber.Ctx) error {
	return c.JSON(Response{Success: true, Games: a.S.Games.ListRace()})
}

func (a *API) CreateRace(c *fiber.Ctx) error {
	var req createRaceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "malformed create body"})
	}
	game := a.S.Games.CreateRace(a.username(c), req.MaxPlayers, req.Computers, req.Difficulty)
	return a.respond(c, "race-update", game, nil)
}

func (a *API) JoinRace(c *fiber.Ctx) error {
	game, err := a.S.Games.JoinRace(c.Params("id"), a.username(c))
	return a.respond(c, "race-update", game, err)
}

func (a *API) StartRace(c *fiber.Ctx) error {
	game, err := a.S.Games.StartRace(c.Params("id"), a.username(c))
	return a.respond(c, "race-update", game, err)
}

func (a *API) RollRace(c *fiber.Ctx) error {
	game, err := a.S.Games.RollRace(c.Params("id"), a.username(c))
	return a.respond(c, "race-update", game, err)
}

func (a *API) MoveRacePiece(c *fiber.Ctx) error {
	var req structs.RacePieceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "malformed piece body"})
	}
	game, err := a.S.Games.MoveRacePiece(c.Params("id"), a.username(c), req.Piece)
	return a.respond(c, "race-update", game, err)
}

// Grid

func (a *API) ListGrid(c *fiber.Ctx) error {
	return c.JSON(Response{Success: true, Games: a.S.Games.ListGrid()})
}

func (a *API) CreateGrid(c *fiber.Ctx) error {
	return a.respond(c, "grid-update", a.S.Games.CreateGrid(a.username(c)), nil)
}

func (a *API) JoinGrid(c *fiber.Ctx) error {
	game, err := a.S.Games.JoinGrid(c.Params("id"), a.username(c))
	return a.respond(c, "grid-update", game, err)
}

func (a *API) StartGrid(c *fiber.Ctx) error {
	game, err := a.S.Games.StartGrid(c.Params("id"), a.username(c))
	return a.respond(c, "grid-update", game, err)
}

func (a *API) MoveGrid(c *fiber.Ctx) error {
	var req structs.GridMoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "malformed move body"})
	}
	game, err := a.S.Games.MoveGrid(c.Params("id"), a.username(c), req.Cell)
	return a.respond(c, "grid-update", game, err)
}

// Cards

func (a *API) ListCards(c *fiber.Ctx) error {
	return c.JSON(Response{Success: true, Games: a.S.Games.ListCards()})
}

func (a *API) CreateCards(c *fiber.Ctx) error {
	return a.respond(c, "cards-update", a.S.Games.CreateCards(a.username(c)), nil)
}

func (a *API) JoinCards(c *fiber.Ctx) error {
	game, err := a.S.Games.JoinCards(c.Params("id"), a.username(c))
	return a.respond(c, "cards-update", game, err)
}

func (a *API) PlayCard(c *fiber.Ctx) error {
	var req structs.CardPlayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: "malformed play body"})
	}
	game, err := a.S.Games.PlayCard(c.Params("id"), a.username(c), req.Card, req.Color)
	return a.respond(c, "cards-update", game, err)
}

func (a *API) DrawCard(c *fiber.Ctx) error {
	game, err := a.S.Games.DrawCard(c.Params("id"), a.username(c))
	return a.respond(c, "cards-update", game, err)
}
