// Command apiserver wires internal/server, internal/router,
// internal/middleware, internal/auth, internal/store, and internal/config
// into a runnable binary exposing the application layer's auth/CRUD
// routes — the "illustrative users of the core's public contract" spec.md
// §1 names and scopes out of the core spec itself.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"wireserve/internal/auth"
	"wireserve/internal/config"
	"wireserve/internal/middleware"
	"wireserve/internal/pipeline"
	"wireserve/internal/request"
	"wireserve/internal/response"
	"wireserve/internal/router"
	"wireserve/internal/server"
	"wireserve/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := store.Open(context.Background(), cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	verifier := auth.NewTokenVerifier([]byte(cfg.JWTSecret))

	app := &application{users: db, posts: db, issuer: issuer}

	p := pipeline.New()
	p.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{SkipPaths: []string{"/health"}}))
	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.StrictTransportMaxAge = cfg.HSTSMaxAge
	p.Use(middleware.SecurityWithConfig(securityCfg))
	p.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: []string{cfg.CORSOrigin}}))
	p.Use(middleware.RateLimitWithConfig(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit,
		Burst:             cfg.RateBurst,
	}))
	p.UseError(func(err error, req *request.Request, res *response.Response, next pipeline.Next) {
		log.Printf("unhandled error: %v", err)
		res.ErrorJSON(500, "internal server error")
	})

	rt := router.New()
	rt.Add("GET", "/health", func(req *request.Request, res *response.Response) {
		res.JSON(map[string]string{"status": "ok"})
	})
	rt.Add("POST", "/auth/register", app.register)
	rt.Add("POST", "/auth/login", app.login)

	guard := []pipeline.NormalFunc{middleware.AuthGuard(verifier)}
	rt.AddWithMiddleware("GET", "/posts", guard, app.listPosts)
	rt.AddWithMiddleware("POST", "/posts", guard, app.createPost)
	rt.AddWithMiddleware("GET", "/posts/:id", guard, app.getPost)
	rt.AddWithMiddleware("DELETE", "/posts/:id", guard, app.deletePost)

	srv, err := server.Serve(server.Config{Addr: cfg.Addr, Pipeline: p, Router: rt})
	if err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
	defer srv.Close()
	log.Println("apiserver listening on", cfg.Addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("apiserver shutting down")
}

type application struct {
	users  store.UserStore
	posts  store.PostStore
	issuer *auth.TokenIssuer
}

func (a *application) register(req *request.Request, res *response.Response) {
	middleware.BodyParser()(req, res, func(err error) {})
	if res.HeadersSent() {
		return
	}
	if req.ParsedBody.Kind != request.BodyJSON {
		res.ErrorJSON(400, "expected a json body")
		return
	}
	fields, ok := req.ParsedBody.JSON.(map[string]any)
	if !ok {
		res.ErrorJSON(400, "expected a json object")
		return
	}
	username, _ := fields["username"].(string)
	email, _ := fields["email"].(string)
	password, _ := fields["password"].(string)
	if username == "" || email == "" || password == "" {
		res.ErrorJSON(400, "username, email, and password are required")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		res.ErrorJSON(500, "failed to hash password")
		return
	}

	u := &store.User{ID: uuid.NewString(), Username: username, Email: email, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	if err := a.users.CreateUser(context.Background(), u); err != nil {
		if err == store.ErrAlreadyExists {
			res.ErrorJSON(409, "an account with that email already exists")
			return
		}
		res.ErrorJSON(500, "failed to create account")
		return
	}

	token, err := a.issuer.Issue(u.ID, u.Username)
	if err != nil {
		res.ErrorJSON(500, "failed to issue token")
		return
	}
	res.Status(201).JSON(map[string]string{"token": token})
}

func (a *application) login(req *request.Request, res *response.Response) {
	middleware.BodyParser()(req, res, func(err error) {})
	if res.HeadersSent() {
		return
	}
	fields, ok := req.ParsedBody.JSON.(map[string]any)
	if req.ParsedBody.Kind != request.BodyJSON || !ok {
		res.ErrorJSON(400, "expected a json body")
		return
	}
	email, _ := fields["email"].(string)
	password, _ := fields["password"].(string)

	u, err := a.users.GetUserByEmail(context.Background(), email)
	if err != nil {
		res.ErrorJSON(401, "invalid email or password")
		return
	}
	if !auth.ComparePassword(u.PasswordHash, password) {
		res.ErrorJSON(401, "invalid email or password")
		return
	}

	token, err := a.issuer.Issue(u.ID, u.Username)
	if err != nil {
		res.ErrorJSON(500, "failed to issue token")
		return
	}
	res.JSON(map[string]string{"token": token})
}

func (a *application) listPosts(req *request.Request, res *response.Response) {
	claims := req.User.(*auth.Claims)
	posts, err := a.posts.ListPosts(context.Background(), claims.UserID)
	if err != nil {
		res.ErrorJSON(500, "failed to list posts")
		return
	}
	res.JSON(posts)
}

func (a *application) createPost(req *request.Request, res *response.Response) {
	claims := req.User.(*auth.Claims)

	middleware.BodyParser()(req, res, func(err error) {})
	if res.HeadersSent() {
		return
	}
	fields, ok := req.ParsedBody.JSON.(map[string]any)
	if req.ParsedBody.Kind != request.BodyJSON || !ok {
		res.ErrorJSON(400, "expected a json body")
		return
	}
	title, _ := fields["title"].(string)
	body, _ := fields["body"].(string)
	if title == "" {
		res.ErrorJSON(400, "title is required")
		return
	}

	p := &store.Post{ID: uuid.NewString(), UserID: claims.UserID, Title: title, Body: body, CreatedAt: time.Now().UTC()}
	if err := a.posts.CreatePost(context.Background(), p); err != nil {
		res.ErrorJSON(500, "failed to create post")
		return
	}
	res.Status(201).JSON(p)
}

func (a *application) getPost(req *request.Request, res *response.Response) {
	p, err := a.posts.GetPost(context.Background(), req.Params["id"])
	if err != nil {
		res.ErrorJSON(404, "post not found")
		return
	}
	claims := req.User.(*auth.Claims)
	if p.UserID != claims.UserID {
		res.ErrorJSON(404, "post not found")
		return
	}
	res.JSON(p)
}

func (a *application) deletePost(req *request.Request, res *response.Response) {
	claims := req.User.(*auth.Claims)
	if err := a.posts.DeletePost(context.Background(), req.Params["id"], claims.UserID); err != nil {
		res.ErrorJSON(404, "post not found")
		return
	}
	res.SendStatus(204)
}
