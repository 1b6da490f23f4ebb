package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/zlnvch/blogverse/api/rest"
	"github.com/zlnvch/blogverse/api/ws"
	"github.com/zlnvch/blogverse/pubsub"
	"github.com/zlnvch/blogverse/service"
)

type BlogverseAPI struct {
	restHandler *rest.Handler
	wsHandler   *ws.Handler
	wsUpgrader  websocket.Upgrader
	authLimiter *rest.RateLimiter
	shutdownCtx context.Context
}

func NewBlogverseAPI(
	svc *service.Service,
	blogEvents pubsub.PubSub,
	authLimiter *rest.RateLimiter,
	allowedOrigin string,
	shutdownCtx context.Context,
) (*BlogverseAPI, error) {
	wsHub := ws.NewHub(blogEvents)
	err := wsHub.InitSubscriptions(shutdownCtx)
	if err != nil {
		log.Printf("Failed to start WS Hub subscriptions service: %v", err)
		return &BlogverseAPI{}, err
	}
	go wsHub.Run(shutdownCtx)

	wsHandler := ws.NewHandler(wsHub)

	return &BlogverseAPI{
		restHandler: rest.NewHandler(svc),
		wsHandler:   wsHandler,
		wsUpgrader:  wsHandler.NewWsUpgrader(allowedOrigin),
		authLimiter: authLimiter,
		shutdownCtx: shutdownCtx,
	}, nil
}

func (blogverseAPI *BlogverseAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	RegisterRestRoutes(mux, blogverseAPI.restHandler, blogverseAPI.authLimiter)

	mux.HandleFunc("GET /ws/blogs", func(w http.ResponseWriter, r *http.Request) {
		blogverseAPI.wsHandler.ServeWS(blogverseAPI.wsUpgrader, w, r, blogverseAPI.shutdownCtx)
	})
}

// RegisterRestRoutes mounts the blog and user endpoints on mux.
func RegisterRestRoutes(mux *http.ServeMux, h *rest.Handler, authLimiter *rest.RateLimiter) {
	mux.HandleFunc("GET /blogs/{$}", h.HandleListBlogs)
	mux.HandleFunc("POST /blogs/add", h.HandleAddBlog)
	mux.HandleFunc("PUT /blogs/update/{id}", h.HandleUpdateBlog)
	mux.HandleFunc("GET /blogs/user/{id}", h.HandleBlogsByUser)
	mux.HandleFunc("GET /blogs/{id}", h.HandleGetBlog)
	mux.HandleFunc("DELETE /blogs/{id}", h.HandleDeleteBlog)

	mux.HandleFunc("GET /users/{$}", h.HandleListUsers)
	mux.HandleFunc("POST /users/signup", authLimiter.Middleware(h.HandleSignUp))
	mux.HandleFunc("POST /users/login", authLimiter.Middleware(h.HandleLogin))
}
