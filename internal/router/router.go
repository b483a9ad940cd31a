package router

import (
	"net/http"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/handlers"
	"pocaswap-api/internal/metrics"
	"pocaswap-api/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

const (
	uuidPattern  = "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}"
	id           = "{id:" + uuidPattern + "}"
	tradeActions = "{action:propose|accept|reject|cancel|complete}"
)

// Setup builds the HTTP handler. mw carries auth and rate limiting; rec may be nil.
func Setup(app *config.Application, h *handlers.Handlers, mw *middleware.Middleware, rec *metrics.Recorder) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = mw.RequestID(http.HandlerFunc(middleware.NotFound))
	router.MethodNotAllowedHandler = mw.RequestID(http.HandlerFunc(middleware.MethodNotAllowed))

	// Apply global middleware in order of execution
	router.Use(mw.RequestID) // First: Add request ID
	router.Use(otelmux.Middleware("pocaswap-api"))
	router.Use(mw.Recovery)                                // Second: Catch panics
	router.Use(mw.Logging)                                 // Third: Log requests
	router.Use(rec.Instrument)                             // Fourth: Latency per route template
	router.Use(middleware.Security)                        // Fifth: Security headers
	router.Use(mw.Timeout(app.Config.GetRequestTimeout())) // Sixth: Request timeout
	router.Use(mw.RateLimit)                               // Seventh: Rate limiting

	// Health and monitoring routes (no authentication required)
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.HandleFunc("/health/detailed", h.HealthDetailed).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public authentication routes
	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/google", h.GoogleLogin).Methods("POST")
	auth.HandleFunc("/admin/login", h.AdminLogin).Methods("POST")
	auth.HandleFunc("/refresh", h.Refresh).Methods("POST")
	auth.HandleFunc("/logout", h.Logout).Methods("POST")

	// Store notifications authenticate with the shared webhook token
	router.HandleFunc("/webhooks/google-play", h.PlayWebhook).Methods("POST")

	// Protected API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(mw.Auth)

	// Users
	api.HandleFunc("/me", h.GetMe).Methods("GET")
	api.HandleFunc("/me", h.UpdateMe).Methods("PUT")
	api.HandleFunc("/me", h.DeleteMe).Methods("DELETE")
	api.HandleFunc("/me/location", h.UpdateLocation).Methods("PUT")
	api.HandleFunc("/users/nearby", h.SearchNearbyUsers).Methods("GET")
	api.HandleFunc("/users/"+id, h.GetUser).Methods("GET")
	api.HandleFunc("/users/"+id+"/cards", h.ListUserCards).Methods("GET")
	api.HandleFunc("/users/"+id+"/ratings", h.ListUserRatings).Methods("GET")
	api.HandleFunc("/users/"+id+"/gallery", h.ListUserGallery).Methods("GET")
	api.HandleFunc("/search/quota", h.QuotaStatus).Methods("GET")

	// Cards
	api.HandleFunc("/cards", h.CreateCard).Methods("POST")
	api.HandleFunc("/cards", h.ListCards).Methods("GET")
	api.HandleFunc("/cards/"+id, h.GetCard).Methods("GET")
	api.HandleFunc("/cards/"+id, h.UpdateCard).Methods("PUT")
	api.HandleFunc("/cards/"+id, h.DeleteCard).Methods("DELETE")

	// Posts and comments
	api.HandleFunc("/posts", h.CreatePost).Methods("POST")
	api.HandleFunc("/posts", h.ListPosts).Methods("GET")
	api.HandleFunc("/posts/nearby", h.SearchNearbyPosts).Methods("GET")
	api.HandleFunc("/posts/"+id, h.GetPost).Methods("GET")
	api.HandleFunc("/posts/"+id, h.UpdatePost).Methods("PUT")
	api.HandleFunc("/posts/"+id, h.DeletePost).Methods("DELETE")
	api.HandleFunc("/posts/"+id+"/status", h.UpdatePostStatus).Methods("PATCH")
	api.HandleFunc("/posts/"+id+"/like", h.ToggleLike).Methods("POST")
	api.HandleFunc("/posts/"+id+"/comments", h.ListComments).Methods("GET")
	api.HandleFunc("/posts/"+id+"/comments", h.AddComment).Methods("POST")
	api.HandleFunc("/comments/"+id, h.DeleteComment).Methods("DELETE")

	// Friends
	api.HandleFunc("/friends", h.ListFriends).Methods("GET")
	api.HandleFunc("/friends/requests", h.SendFriendRequest).Methods("POST")
	api.HandleFunc("/friends/requests", h.ListFriendRequests).Methods("GET")
	api.HandleFunc("/friends/requests/"+id+"/accept", h.AcceptFriendRequest).Methods("POST")
	api.HandleFunc("/friends/requests/"+id+"/reject", h.RejectFriendRequest).Methods("POST")
	api.HandleFunc("/friends/requests/"+id, h.CancelFriendRequest).Methods("DELETE")
	api.HandleFunc("/friends/{userId:"+uuidPattern+"}", h.Unfriend).Methods("DELETE")

	// Chat
	api.HandleFunc("/chat/rooms", h.ListRooms).Methods("GET")
	api.HandleFunc("/chat/rooms/"+id+"/messages", h.ListMessages).Methods("GET")
	api.HandleFunc("/chat/rooms/"+id+"/messages", h.SendMessage).Methods("POST")
	api.HandleFunc("/chat/rooms/"+id+"/read", h.MarkRead).Methods("POST")
	api.HandleFunc("/ws", h.Websocket).Methods("GET")

	// Trades and ratings
	api.HandleFunc("/trades", h.CreateTrade).Methods("POST")
	api.HandleFunc("/trades", h.ListTrades).Methods("GET")
	api.HandleFunc("/trades/"+id, h.GetTrade).Methods("GET")
	api.HandleFunc("/trades/"+id+"/ratings", h.RateTrade).Methods("POST")
	api.HandleFunc("/trades/"+id+"/"+tradeActions, h.TradeAction).Methods("POST")

	// Reports
	api.HandleFunc("/reports", h.CreateReport).Methods("POST")
	api.HandleFunc("/reports/mine", h.ListMyReports).Methods("GET")

	// Media and gallery
	api.HandleFunc("/media/upload-url", h.CreateUploadURL).Methods("POST")
	api.HandleFunc("/gallery", h.AddGalleryItem).Methods("POST")
	api.HandleFunc("/gallery/"+id, h.DeleteGalleryItem).Methods("DELETE")

	// Subscriptions
	api.HandleFunc("/subscriptions/verify", h.VerifySubscription).Methods("POST")
	api.HandleFunc("/subscriptions/me", h.GetMySubscription).Methods("GET")

	// Admin
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(mw.RequireAdmin)
	admin.HandleFunc("/users", h.ListUsers).Methods("GET")
	admin.HandleFunc("/users/"+id+"/deactivate", h.DeactivateUser).Methods("POST")
	admin.HandleFunc("/reports", h.AdminListReports).Methods("GET")
	admin.HandleFunc("/reports/"+id+"/resolve", h.ResolveReport).Methods("POST")
	admin.HandleFunc("/db-stats", h.GetDatabaseStats).Methods("GET")

	// CORS wraps the router so preflight requests are answered before route matching.
	c := cors.New(cors.Options{
		AllowedOrigins:   app.Config.CORS_Allowed_Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})
	return c.Handler(router)
}
