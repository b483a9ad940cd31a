// File: internal/handlers/handlers.go
package handlers

import (
	"time"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/core"

	"github.com/gorilla/websocket"
)

// Services groups the business services the HTTP layer talks to.
type Services struct {
	Auth          core.AuthService
	Users         core.UserService
	Quota         core.QuotaService
	Cards         core.CardService
	Posts         core.PostService
	Friends       core.FriendService
	Chat          core.ChatService
	Trades        core.TradeService
	Ratings       core.RatingService
	Reports       core.ReportService
	Gallery       core.GalleryService
	Media         core.MediaService
	Subscriptions core.SubscriptionService
}

// Socket hands an upgraded connection to the realtime hub.
type Socket interface {
	Serve(conn *websocket.Conn, userID string)
}

type Handlers struct {
	app      *config.Application
	svc      Services
	socket   Socket
	upgrader *websocket.Upgrader
}

func New(app *config.Application, svc Services, socket Socket, upgrader *websocket.Upgrader) *Handlers {
	return &Handlers{app: app, svc: svc, socket: socket, upgrader: upgrader}
}

var startTime = time.Now()
