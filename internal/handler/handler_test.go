package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/freeeve/broadside/api/internal/auth"
	"github.com/freeeve/broadside/api/internal/bot"
	"github.com/freeeve/broadside/api/internal/model"
	"github.com/freeeve/broadside/api/internal/repository/memory"
	"github.com/freeeve/broadside/api/internal/service"
	"github.com/freeeve/broadside/api/pkg/battleship"
)

// webFixture wires the handlers over the real in-memory repositories
// with a seeded catalog. Setup steps go through the services directly;
// the endpoint under test goes through its handler.
type webFixture struct {
	auth    *AuthHandler
	game    *GameHandler
	player  *PlayerHandler
	admin   *AdminHandler
	users   *service.UserService
	games   *service.GameService
	catalog *service.CatalogService
	jwtMgr  *auth.JWTManager

	fleetID     string
	templateIDs []string
}

func newWebFixture(t *testing.T) *webFixture {
	t.Helper()

	userRepo := memory.NewUserRepo()
	templateRepo := memory.NewTemplateRepo()
	fleetRepo := memory.NewFleetRepo()
	gameRepo := memory.NewGameRepo()

	users := service.NewUserService(userRepo)
	catalog := service.NewCatalogService(templateRepo, fleetRepo)
	games := service.NewGameService(gameRepo, fleetRepo, templateRepo, userRepo)
	jwtMgr := auth.NewJWTManager("test-secret")

	fx := &webFixture{
		auth:    NewAuthHandler(users, jwtMgr, nil),
		game:    NewGameHandler(games),
		player:  NewPlayerHandler(games, catalog),
		admin:   NewAdminHandler(catalog),
		users:   users,
		games:   games,
		catalog: catalog,
		jwtMgr:  jwtMgr,
	}

	ctx := context.Background()
	for _, tpl := range []struct {
		name string
		size int
	}{
		{"Carrier", 5},
		{"Battleship", 4},
		{"Cruiser", 3},
		{"Submarine", 3},
		{"Destroyer", 2},
	} {
		created, err := catalog.CreateTemplate(ctx, tpl.name, tpl.size, "")
		if err != nil {
			t.Fatalf("CreateTemplate(%s): %v", tpl.name, err)
		}
		fx.templateIDs = append(fx.templateIDs, created.ID)
	}
	fleet, err := catalog.CreateFleet(ctx, "Classic", 10, fx.templateIDs)
	if err != nil {
		t.Fatalf("CreateFleet: %v", err)
	}
	fx.fleetID = fleet.ID
	return fx
}

func (fx *webFixture) register(t *testing.T, username string) *model.User {
	t.Helper()
	u, err := fx.users.Register(context.Background(), username, "password123")
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return u
}

// placeFleet sets down the whole seeded fleet horizontally on rows
// A, C, E, G, I.
func (fx *webFixture) placeFleet(t *testing.T, gameID, userID string) {
	t.Helper()
	row := 1
	for i, tplID := range fx.templateIDs {
		coord := battleship.Coordinate{Row: row, Col: 1}.String()
		if _, err := fx.games.PlaceShip(context.Background(), gameID, userID, tplID, i, coord, "horizontal"); err != nil {
			t.Fatalf("PlaceShip(%d): %v", i, err)
		}
		row += 2
	}
}

func reqWithUserID(method, path, body, userID string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	ctx := auth.SetUserIDForTest(req.Context(), userID)
	return req.WithContext(ctx)
}

// gameReq builds an authenticated request against /game/{id}... with the
// id path value already bound.
func gameReq(method, gameID, suffix, body, userID string) *http.Request {
	req := reqWithUserID(method, "/game/"+gameID+suffix, body, userID)
	req.SetPathValue("id", gameID)
	return req
}

// --- Auth Handler Tests ---

func TestRegisterAndLogin(t *testing.T) {
	fx := newWebFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"username":"alice","password":"secret123"}`))
	rec := httptest.NewRecorder()
	fx.auth.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var user model.User
	json.Unmarshal(rec.Body.Bytes(), &user)
	if user.Username != "alice" || user.Role != model.RolePlayer {
		t.Errorf("unexpected user %+v", user)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("register response leaks password material")
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"alice","password":"secret123"}`))
	rec = httptest.NewRecorder()
	fx.auth.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var tokens tokenResponse
	json.Unmarshal(rec.Body.Bytes(), &tokens)
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("expected both tokens")
	}
	if tokens.TokenType != "bearer" {
		t.Errorf("expected bearer, got %s", tokens.TokenType)
	}
	if tokens.User == nil || tokens.User.ID != user.ID {
		t.Errorf("expected user %s in login response", user.ID)
	}

	claims, err := fx.jwtMgr.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.RolePlayer {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	fx := newWebFixture(t)
	fx.register(t, "alice")

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()
	fx.auth.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	fx := newWebFixture(t)
	fx.register(t, "alice")

	tests := []struct {
		name string
		body string
	}{
		{"short username", `{"username":"ab","password":"secret123"}`},
		{"short password", `{"username":"carlos","password":"12345"}`},
		{"duplicate username", `{"username":"alice","password":"secret123"}`},
		{"invalid json", `not json`},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
		rec := httptest.NewRecorder()
		fx.auth.Register(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.name, rec.Code)
		}
	}
}

func TestRefreshTokenValid(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")

	refresh, _ := fx.jwtMgr.GenerateRefreshToken(alice.ID, alice.Role)
	body := fmt.Sprintf(`{"refresh_token":"%s"}`, refresh)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fx.auth.RefreshToken(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var tokens auth.TokenPair
	json.Unmarshal(rec.Body.Bytes(), &tokens)
	if tokens.AccessToken == "" {
		t.Error("expected non-empty access token")
	}
	claims, err := fx.jwtMgr.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != alice.ID {
		t.Errorf("expected subject %s, got %s", alice.ID, claims.UserID)
	}
}

func TestRefreshTokenInvalid(t *testing.T) {
	fx := newWebFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"invalid"}`))
	rec := httptest.NewRecorder()
	fx.auth.RefreshToken(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRefreshTokenBadBody(t *testing.T) {
	fx := newWebFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	fx.auth.RefreshToken(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestMe(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")

	req := reqWithUserID(http.MethodGet, "/auth/me", "", alice.ID)
	rec := httptest.NewRecorder()
	fx.auth.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var user model.User
	json.Unmarshal(rec.Body.Bytes(), &user)
	if user.Username != "alice" {
		t.Errorf("expected alice, got %s", user.Username)
	}
}

func TestMeNotFound(t *testing.T) {
	fx := newWebFixture(t)

	req := reqWithUserID(http.MethodGet, "/auth/me", "", "nonexistent")
	rec := httptest.NewRecorder()
	fx.auth.Me(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// --- Game Handler Tests ---

func TestCreateGameEndpoint(t *testing.T) {
	bot.SeedBotRng(42)
	defer bot.ResetBotRng()
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")

	body := fmt.Sprintf(`{"base_fleet_id":"%s"}`, fx.fleetID)
	req := reqWithUserID(http.MethodPost, "/game", body, alice.ID)
	rec := httptest.NewRecorder()
	fx.game.CreateGame(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var view model.GameView
	json.Unmarshal(rec.Body.Bytes(), &view)
	if view.Mode != string(battleship.SinglePlayer) {
		t.Errorf("expected single_player default, got %s", view.Mode)
	}
	if view.Status != "placing_ships" {
		t.Errorf("expected placing_ships, got %s", view.Status)
	}
	if view.BoardSize != 10 || view.ShipCount != 5 {
		t.Errorf("unexpected board %d / ships %d", view.BoardSize, view.ShipCount)
	}
	if len(view.ShipsToPlace) != 5 {
		t.Errorf("expected 5 pending ships, got %d", len(view.ShipsToPlace))
	}
}

func TestCreateGameEndpointRejects(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")

	tests := []struct {
		name string
		body string
	}{
		{"missing fleet id", `{"mode":"multiplayer"}`},
		{"unknown fleet", `{"base_fleet_id":"nonexistent"}`},
		{"bad mode", fmt.Sprintf(`{"base_fleet_id":"%s","mode":"co-op"}`, fx.fleetID)},
		{"bad difficulty", fmt.Sprintf(`{"base_fleet_id":"%s","difficulty":"nightmare"}`, fx.fleetID)},
		{"invalid json", `not json`},
	}
	for _, tt := range tests {
		req := reqWithUserID(http.MethodPost, "/game", tt.body, alice.ID)
		rec := httptest.NewRecorder()
		fx.game.CreateGame(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %s", tt.name, rec.Code, rec.Body.String())
		}
	}
}

func TestGetGameNotFound(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")

	req := gameReq(http.MethodGet, "nonexistent", "", "", alice.ID)
	rec := httptest.NewRecorder()
	fx.game.GetGame(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestJoinGameEndpoint(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")
	bob := fx.register(t, "bob")
	carol := fx.register(t, "carol")

	game, err := fx.games.CreateGame(context.Background(), alice.ID, fx.fleetID, "multiplayer", "")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	// The creator cannot take the second seat.
	req := gameReq(http.MethodPost, game.ID, "/join", "", alice.ID)
	rec := httptest.NewRecorder()
	fx.game.JoinGame(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("join own game: expected 400, got %d", rec.Code)
	}

	req = gameReq(http.MethodPost, game.ID, "/join", "", bob.ID)
	rec = httptest.NewRecorder()
	fx.game.JoinGame(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var view model.GameView
	json.Unmarshal(rec.Body.Bytes(), &view)
	if view.Status != "placing_ships" {
		t.Errorf("expected placing_ships after join, got %s", view.Status)
	}
	if view.Player2ID != bob.ID {
		t.Errorf("expected player2 %s, got %s", bob.ID, view.Player2ID)
	}

	req = gameReq(http.MethodPost, game.ID, "/join", "", carol.ID)
	rec = httptest.NewRecorder()
	fx.game.JoinGame(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("full game: expected 400, got %d", rec.Code)
	}

	req = gameReq(http.MethodPost, "nonexistent", "/join", "", bob.ID)
	rec = httptest.NewRecorder()
	fx.game.JoinGame(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing game: expected 404, got %d", rec.Code)
	}
}

func TestPlaceShipEndpoint(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")
	bob := fx.register(t, "bob")

	game, err := fx.games.CreateGame(context.Background(), alice.ID, fx.fleetID, "multiplayer", "")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := fx.games.JoinGame(context.Background(), game.ID, bob.ID); err != nil {
		t.Fatalf("JoinGame: %v", err)
	}

	body := fmt.Sprintf(`{"ship_template_id":"%s","start_coordinate":"A1","orientation":"horizontal"}`, fx.templateIDs[0])
	req := gameReq(http.MethodPost, game.ID, "/place-ship", body, alice.ID)
	rec := httptest.NewRecorder()
	fx.game.PlaceShip(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result model.PlacementResult
	json.Unmarshal(rec.Body.Bytes(), &result)
	if len(result.Ship.Segments) != 5 {
		t.Errorf("expected 5 segments, got %d", len(result.Ship.Segments))
	}
	if len(result.ShipsToPlace) != 4 {
		t.Errorf("expected 4 ships left, got %d", len(result.ShipsToPlace))
	}
	if result.Status != "placing_ships" {
		t.Errorf("expected placing_ships, got %s", result.Status)
	}

	// Out of order template.
	body = fmt.Sprintf(`{"ship_template_id":"%s","start_coordinate":"C1","orientation":"horizontal","placement_index":3}`, fx.templateIDs[1])
	req = gameReq(http.MethodPost, game.ID, "/place-ship", body, alice.ID)
	rec = httptest.NewRecorder()
	fx.game.PlaceShip(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("index mismatch: expected 400, got %d", rec.Code)
	}

	// Overlapping the carrier.
	body = fmt.Sprintf(`{"ship_template_id":"%s","start_coordinate":"A3","orientation":"vertical"}`, fx.templateIDs[1])
	req = gameReq(http.MethodPost, game.ID, "/place-ship", body, alice.ID)
	rec = httptest.NewRecorder()
	fx.game.PlaceShip(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("overlap: expected 400, got %d", rec.Code)
	}

	// Off the board.
	body = fmt.Sprintf(`{"ship_template_id":"%s","start_coordinate":"A8","orientation":"horizontal"}`, fx.templateIDs[1])
	req = gameReq(http.MethodPost, game.ID, "/place-ship", body, alice.ID)
	rec = httptest.NewRecorder()
	fx.game.PlaceShip(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out of bounds: expected 400, got %d", rec.Code)
	}

	outsider := fx.register(t, "mallory")
	body = fmt.Sprintf(`{"ship_template_id":"%s","start_coordinate":"A1","orientation":"horizontal"}`, fx.templateIDs[0])
	req = gameReq(http.MethodPost, game.ID, "/place-ship", body, outsider.ID)
	rec = httptest.NewRecorder()
	fx.game.PlaceShip(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider: expected 403, got %d", rec.Code)
	}
}

func TestShootEndpointSinglePlayer(t *testing.T) {
	bot.SeedBotRng(42)
	defer bot.ResetBotRng()
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")

	game, err := fx.games.CreateGame(context.Background(), alice.ID, fx.fleetID, "single_player", "easy")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	fx.placeFleet(t, game.ID, alice.ID)

	req := gameReq(http.MethodPost, game.ID, "/shoot", `{"coordinate":"J10"}`, alice.ID)
	rec := httptest.NewRecorder()
	fx.game.Shoot(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var outcome model.ShotOutcome
	json.Unmarshal(rec.Body.Bytes(), &outcome)
	if outcome.Coordinate != "J10" || outcome.Result == "" {
		t.Errorf("unexpected outcome %+v", outcome)
	}
	if outcome.AIShot == nil {
		t.Fatal("expected the computer reply in the same response")
	}
	if outcome.AIShot.Result == "" || outcome.AIShot.Coordinate == "" {
		t.Errorf("unexpected computer shot %+v", outcome.AIShot)
	}
	if outcome.GameFinished {
		t.Error("one shot cannot finish the game")
	}

	// Same cell again is rejected.
	req = gameReq(http.MethodPost, game.ID, "/shoot", `{"coordinate":"J10"}`, alice.ID)
	rec = httptest.NewRecorder()
	fx.game.Shoot(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("repeat shot: expected 400, got %d", rec.Code)
	}
}

func TestShootEndpointRejects(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")
	bob := fx.register(t, "bob")
	ctx := context.Background()

	game, err := fx.games.CreateGame(ctx, alice.ID, fx.fleetID, "multiplayer", "")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	// Shooting before the game starts.
	req := gameReq(http.MethodPost, game.ID, "/shoot", `{"coordinate":"A1"}`, alice.ID)
	rec := httptest.NewRecorder()
	fx.game.Shoot(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("waiting phase: expected 400, got %d", rec.Code)
	}

	if _, err := fx.games.JoinGame(ctx, game.ID, bob.ID); err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	fx.placeFleet(t, game.ID, alice.ID)
	fx.placeFleet(t, game.ID, bob.ID)

	tests := []struct {
		name   string
		userID string
		body   string
		want   int
	}{
		{"out of turn", bob.ID, `{"coordinate":"A1"}`, http.StatusBadRequest},
		{"malformed coordinate", alice.ID, `{"coordinate":"A0"}`, http.StatusBadRequest},
		{"off board", alice.ID, `{"coordinate":"K1"}`, http.StatusBadRequest},
		{"invalid json", alice.ID, `not json`, http.StatusBadRequest},
		{"outsider", fx.register(t, "mallory").ID, `{"coordinate":"A1"}`, http.StatusForbidden},
	}
	for _, tt := range tests {
		req := gameReq(http.MethodPost, game.ID, "/shoot", tt.body, tt.userID)
		rec := httptest.NewRecorder()
		fx.game.Shoot(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s: expected %d, got %d: %s", tt.name, tt.want, rec.Code, rec.Body.String())
		}
	}
}

func TestBoardEndpoint(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")
	bob := fx.register(t, "bob")
	ctx := context.Background()

	game, err := fx.games.CreateGame(ctx, alice.ID, fx.fleetID, "multiplayer", "")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := fx.games.JoinGame(ctx, game.ID, bob.ID); err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	fx.placeFleet(t, game.ID, alice.ID)
	fx.placeFleet(t, game.ID, bob.ID)

	req := gameReq(http.MethodGet, game.ID, "/board", "", alice.ID)
	rec := httptest.NewRecorder()
	fx.game.GetBoard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var view model.BoardView
	json.Unmarshal(rec.Body.Bytes(), &view)
	if len(view.MyShips) != 5 {
		t.Errorf("expected 5 ships, got %d", len(view.MyShips))
	}
	if !view.MyTurn {
		t.Error("player1 moves first")
	}
	if view.MyUsername != "alice" || view.OpponentUsername != "bob" {
		t.Errorf("unexpected usernames %s / %s", view.MyUsername, view.OpponentUsername)
	}
	// Opponent ship positions stay hidden.
	if strings.Contains(rec.Body.String(), `"opponent_ships"`) {
		t.Error("board view exposes opponent ships")
	}

	outsider := fx.register(t, "mallory")
	req = gameReq(http.MethodGet, game.ID, "/board", "", outsider.ID)
	rec = httptest.NewRecorder()
	fx.game.GetBoard(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider: expected 403, got %d", rec.Code)
	}

	req = gameReq(http.MethodGet, "nonexistent", "/board", "", alice.ID)
	rec = httptest.NewRecorder()
	fx.game.GetBoard(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing game: expected 404, got %d", rec.Code)
	}
}

func TestStatsAndShotsEndpoints(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")
	bob := fx.register(t, "bob")
	ctx := context.Background()

	game, err := fx.games.CreateGame(ctx, alice.ID, fx.fleetID, "multiplayer", "")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := fx.games.JoinGame(ctx, game.ID, bob.ID); err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	fx.placeFleet(t, game.ID, alice.ID)
	fx.placeFleet(t, game.ID, bob.ID)

	// One hit on bob's carrier row, one miss, with bob shooting between.
	if _, err := fx.games.Shoot(ctx, game.ID, alice.ID, "A1"); err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if _, err := fx.games.Shoot(ctx, game.ID, bob.ID, "J10"); err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if _, err := fx.games.Shoot(ctx, game.ID, alice.ID, "J1"); err != nil {
		t.Fatalf("Shoot: %v", err)
	}

	req := gameReq(http.MethodGet, game.ID, "/stats", "", alice.ID)
	rec := httptest.NewRecorder()
	fx.game.GetStats(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var stats model.GameStats
	json.Unmarshal(rec.Body.Bytes(), &stats)
	if stats.TotalShots != 2 || stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.Accuracy != 50 {
		t.Errorf("expected accuracy 50, got %v", stats.Accuracy)
	}

	req = gameReq(http.MethodGet, game.ID, "/shots", "", alice.ID)
	rec = httptest.NewRecorder()
	fx.game.GetShots(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("shots: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var history model.ShotHistory
	json.Unmarshal(rec.Body.Bytes(), &history)
	if history.Total != 2 {
		t.Fatalf("expected own 2 shots, got %d", history.Total)
	}
	if history.Shots[0].Coordinate != "A1" || history.Shots[1].Coordinate != "J1" {
		t.Errorf("unexpected history %+v", history.Shots)
	}
}

func TestDeleteGameEndpoint(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")
	bob := fx.register(t, "bob")
	ctx := context.Background()

	game, err := fx.games.CreateGame(ctx, alice.ID, fx.fleetID, "multiplayer", "")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := fx.games.JoinGame(ctx, game.ID, bob.ID); err != nil {
		t.Fatalf("JoinGame: %v", err)
	}

	// Joiner cannot delete a live game.
	req := gameReq(http.MethodDelete, game.ID, "", "", bob.ID)
	rec := httptest.NewRecorder()
	fx.game.DeleteGame(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("joiner delete: expected 403, got %d", rec.Code)
	}

	req = gameReq(http.MethodDelete, game.ID, "", "", alice.ID)
	rec = httptest.NewRecorder()
	fx.game.DeleteGame(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("creator delete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["status"] != "deleted" {
		t.Errorf("expected deleted status, got %v", resp)
	}

	req = gameReq(http.MethodDelete, game.ID, "", "", alice.ID)
	rec = httptest.NewRecorder()
	fx.game.DeleteGame(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
}

// --- Player Handler Tests ---

func TestAvailableGamesEndpoint(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")
	bob := fx.register(t, "bob")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := fx.games.CreateGame(ctx, alice.ID, fx.fleetID, "multiplayer", ""); err != nil {
			t.Fatalf("CreateGame: %v", err)
		}
	}

	req := reqWithUserID(http.MethodGet, "/player/available-games", "", bob.ID)
	rec := httptest.NewRecorder()
	fx.player.AvailableGames(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var list model.AvailableGames
	json.Unmarshal(rec.Body.Bytes(), &list)
	if list.Total != 2 || len(list.Games) != 2 {
		t.Errorf("expected 2 open games, got %+v", list)
	}

	// The creator does not see their own lobbies.
	req = reqWithUserID(http.MethodGet, "/player/available-games", "", alice.ID)
	rec = httptest.NewRecorder()
	fx.player.AvailableGames(rec, req)
	json.Unmarshal(rec.Body.Bytes(), &list)
	if list.Total != 0 {
		t.Errorf("creator should see 0 games, got %d", list.Total)
	}

	req = reqWithUserID(http.MethodGet, "/player/available-games?limit=1", "", bob.ID)
	rec = httptest.NewRecorder()
	fx.player.AvailableGames(rec, req)
	json.Unmarshal(rec.Body.Bytes(), &list)
	if list.Total != 1 {
		t.Errorf("limit=1: expected 1 game, got %d", list.Total)
	}

	for _, raw := range []string{"abc", "-1"} {
		req = reqWithUserID(http.MethodGet, "/player/available-games?limit="+raw, "", bob.ID)
		rec = httptest.NewRecorder()
		fx.player.AvailableGames(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", raw, rec.Code)
		}
	}
}

func TestMyGamesEndpoint(t *testing.T) {
	bot.SeedBotRng(42)
	defer bot.ResetBotRng()
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")
	ctx := context.Background()

	if _, err := fx.games.CreateGame(ctx, alice.ID, fx.fleetID, "single_player", "easy"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := fx.games.CreateGame(ctx, alice.ID, fx.fleetID, "multiplayer", ""); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	req := reqWithUserID(http.MethodGet, "/player/my-games", "", alice.ID)
	rec := httptest.NewRecorder()
	fx.player.MyGames(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var games []model.GameSummary
	json.Unmarshal(rec.Body.Bytes(), &games)
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	for _, g := range games {
		if g.Stats == nil {
			t.Errorf("game %s missing stats", g.ID)
		}
	}

	outsider := fx.register(t, "mallory")
	req = reqWithUserID(http.MethodGet, "/player/my-games", "", outsider.ID)
	rec = httptest.NewRecorder()
	fx.player.MyGames(rec, req)
	body := strings.TrimSpace(rec.Body.String())
	if body != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestPlayerFleetEndpoints(t *testing.T) {
	fx := newWebFixture(t)
	alice := fx.register(t, "alice")

	req := reqWithUserID(http.MethodGet, "/player/fleets", "", alice.ID)
	rec := httptest.NewRecorder()
	fx.player.ListFleets(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var fleets []model.BaseFleet
	json.Unmarshal(rec.Body.Bytes(), &fleets)
	if len(fleets) != 1 || fleets[0].Name != "Classic" {
		t.Errorf("unexpected fleets %+v", fleets)
	}

	req = reqWithUserID(http.MethodGet, "/player/fleets/"+fx.fleetID, "", alice.ID)
	req.SetPathValue("id", fx.fleetID)
	rec = httptest.NewRecorder()
	fx.player.GetFleet(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var fleet model.BaseFleet
	json.Unmarshal(rec.Body.Bytes(), &fleet)
	if fleet.BoardSize != 10 || len(fleet.ShipTemplateIDs) != 5 {
		t.Errorf("unexpected fleet %+v", fleet)
	}

	req = reqWithUserID(http.MethodGet, "/player/fleets/nonexistent", "", alice.ID)
	req.SetPathValue("id", "nonexistent")
	rec = httptest.NewRecorder()
	fx.player.GetFleet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// --- Admin Handler Tests ---

func TestAdminTemplateCRUD(t *testing.T) {
	fx := newWebFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/ship-templates", strings.NewReader(`{"name":"Frigate","size":3,"description":"fast"}`))
	rec := httptest.NewRecorder()
	fx.admin.CreateTemplate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var tpl model.ShipTemplate
	json.Unmarshal(rec.Body.Bytes(), &tpl)
	if tpl.ID == "" || tpl.Name != "Frigate" || tpl.Size != 3 {
		t.Errorf("unexpected template %+v", tpl)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/ship-templates", nil)
	rec = httptest.NewRecorder()
	fx.admin.ListTemplates(rec, req)
	var templates []model.ShipTemplate
	json.Unmarshal(rec.Body.Bytes(), &templates)
	if len(templates) != 6 {
		t.Errorf("expected 6 templates, got %d", len(templates))
	}

	req = httptest.NewRequest(http.MethodPut, "/admin/ship-templates/"+tpl.ID, strings.NewReader(`{"name":"Heavy Frigate","size":4}`))
	req.SetPathValue("id", tpl.ID)
	rec = httptest.NewRecorder()
	fx.admin.UpdateTemplate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated model.ShipTemplate
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Name != "Heavy Frigate" || updated.Size != 4 {
		t.Errorf("unexpected update %+v", updated)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/ship-templates/"+tpl.ID, nil)
	req.SetPathValue("id", tpl.ID)
	rec = httptest.NewRecorder()
	fx.admin.GetTemplate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/admin/ship-templates/"+tpl.ID, nil)
	req.SetPathValue("id", tpl.ID)
	rec = httptest.NewRecorder()
	fx.admin.DeleteTemplate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["status"] != "deleted" {
		t.Errorf("expected deleted status, got %v", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/ship-templates/"+tpl.ID, nil)
	req.SetPathValue("id", tpl.ID)
	rec = httptest.NewRecorder()
	fx.admin.GetTemplate(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestAdminTemplateRejects(t *testing.T) {
	fx := newWebFixture(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"blank name", `{"name":"  ","size":3}`, http.StatusBadRequest},
		{"size zero", `{"name":"Raft","size":0}`, http.StatusBadRequest},
		{"size too large", `{"name":"Leviathan","size":11}`, http.StatusBadRequest},
		{"invalid json", `not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/admin/ship-templates", strings.NewReader(tt.body))
		rec := httptest.NewRecorder()
		fx.admin.CreateTemplate(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPut, "/admin/ship-templates/nonexistent", strings.NewReader(`{"name":"Ghost","size":2}`))
	req.SetPathValue("id", "nonexistent")
	rec := httptest.NewRecorder()
	fx.admin.UpdateTemplate(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update missing: expected 404, got %d", rec.Code)
	}
}

func TestAdminFleetCRUD(t *testing.T) {
	fx := newWebFixture(t)

	ids, _ := json.Marshal(fx.templateIDs[:2])
	body := fmt.Sprintf(`{"name":"Skirmish","board_size":8,"ship_template_ids":%s}`, ids)
	req := httptest.NewRequest(http.MethodPost, "/admin/base-fleets", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fx.admin.CreateFleet(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var fleet model.BaseFleet
	json.Unmarshal(rec.Body.Bytes(), &fleet)
	if fleet.ID == "" || fleet.BoardSize != 8 || len(fleet.ShipTemplateIDs) != 2 {
		t.Errorf("unexpected fleet %+v", fleet)
	}

	body = fmt.Sprintf(`{"name":"Skirmish","board_size":12,"ship_template_ids":%s}`, ids)
	req = httptest.NewRequest(http.MethodPut, "/admin/base-fleets/"+fleet.ID, strings.NewReader(body))
	req.SetPathValue("id", fleet.ID)
	rec = httptest.NewRecorder()
	fx.admin.UpdateFleet(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated model.BaseFleet
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.BoardSize != 12 {
		t.Errorf("expected board 12, got %d", updated.BoardSize)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/base-fleets", nil)
	rec = httptest.NewRecorder()
	fx.admin.ListFleets(rec, req)
	var fleets []model.BaseFleet
	json.Unmarshal(rec.Body.Bytes(), &fleets)
	if len(fleets) != 2 {
		t.Errorf("expected 2 fleets, got %d", len(fleets))
	}

	req = httptest.NewRequest(http.MethodDelete, "/admin/base-fleets/"+fleet.ID, nil)
	req.SetPathValue("id", fleet.ID)
	rec = httptest.NewRecorder()
	fx.admin.DeleteFleet(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/base-fleets/"+fleet.ID, nil)
	req.SetPathValue("id", fleet.ID)
	rec = httptest.NewRecorder()
	fx.admin.GetFleet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestAdminFleetRejects(t *testing.T) {
	fx := newWebFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"unknown template", `{"name":"Ghost Fleet","board_size":10,"ship_template_ids":["nonexistent"]}`},
		{"board too small", fmt.Sprintf(`{"name":"Tiny","board_size":4,"ship_template_ids":["%s"]}`, fx.templateIDs[4])},
		{"blank name", fmt.Sprintf(`{"name":" ","board_size":10,"ship_template_ids":["%s"]}`, fx.templateIDs[0])},
		{"invalid json", `not json`},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/admin/base-fleets", strings.NewReader(tt.body))
		rec := httptest.NewRecorder()
		fx.admin.CreateFleet(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %s", tt.name, rec.Code, rec.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodDelete, "/admin/base-fleets/nonexistent", nil)
	req.SetPathValue("id", "nonexistent")
	rec := httptest.NewRecorder()
	fx.admin.DeleteFleet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing: expected 404, got %d", rec.Code)
	}
}
