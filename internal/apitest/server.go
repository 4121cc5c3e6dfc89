// Package apitest runs an in-memory implementation of the inventory REST
// API for tests.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"freshguard/internal/model"

	"github.com/gin-gonic/gin"
)

// Failure is a canned response returned instead of handling a request.
type Failure struct {
	Status int
	Body   string
}

// Server is a fake inventory API backed by memory.
type Server struct {
	srv *httptest.Server

	mu           sync.Mutex
	items        []model.Item
	recipes      []recipeRecord
	nextItemID   int64
	nextRecipeID int64
	failures     []Failure
	requests     []string
	apiKey       string
}

// recipeRecord stores ingredients by reference so item edits show through.
type recipeRecord struct {
	recipe        model.Recipe
	ingredientIDs []int64
}

// Option configures a Server.
type Option func(*Server)

// WithAPIKey makes the server reject requests without a matching X-API-Key.
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// NewServer starts a fake API and stops it when the test ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := New(opts...)
	t.Cleanup(s.Close)
	return s
}

// New starts a fake API. The caller must Close it.
func New(opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	s.srv = httptest.NewServer(s.routes())
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// BaseURL is the API root, including the /api prefix.
func (s *Server) BaseURL() string {
	return s.srv.URL + "/api"
}

// Client returns an HTTP client wired to the server.
func (s *Server) Client() *http.Client {
	return s.srv.Client()
}

// FailNext makes the next request fail with status and an error message body.
func (s *Server) FailNext(status int, message string) {
	s.Fail(Failure{Status: status, Body: errorBody(message)})
}

// Fail queues a canned response for the next request.
func (s *Server) Fail(f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, f)
}

// Requests returns "METHOD /path?query" for every request received.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// SeedItem stores item directly and returns it with its id.
func (s *Server) SeedItem(item model.Item) model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertItem(item)
}

// SeedRecipe stores recipe with the given ingredients and returns it.
// Unknown item ids are dropped.
func (s *Server) SeedRecipe(recipe model.Recipe, itemIDs ...int64) model.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make([]int64, 0, len(itemIDs))
	for _, id := range itemIDs {
		if s.itemIndex(id) >= 0 {
			known = append(known, id)
		}
	}
	return s.insertRecipe(recipe, known)
}

// Items returns the stored items in id order.
func (s *Server) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Recipe returns the stored recipe with its ingredients resolved.
func (s *Server) Recipe(id int64) (model.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.recipeIndex(id)
	if idx < 0 {
		return model.Recipe{}, false
	}
	return s.resolve(s.recipes[idx]), true
}

func (s *Server) routes() http.Handler {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(gin.Recovery(), s.record(), s.inject(), s.auth())

	api := r.Group("/api")

	api.GET("/items", s.listItems)
	api.POST("/items", s.createItem)
	api.GET("/items/:id", s.getItem)
	api.PUT("/items/:id", s.updateItem)
	api.PATCH("/items/:id", s.patchItem)
	api.DELETE("/items/:id", s.deleteItem)
	api.GET("/items/:id/recipes", s.itemRecipes)

	api.GET("/recipes", s.listRecipes)
	api.POST("/recipes", s.createRecipe)
	api.GET("/recipes/find-by-ingredients", s.findByIngredients)
	api.GET("/recipes/:id", s.getRecipe)
	api.PUT("/recipes/:id", s.updateRecipe)
	api.PATCH("/recipes/:id", s.patchRecipe)
	api.DELETE("/recipes/:id", s.deleteRecipe)
	api.POST("/recipes/:id/ingredients/:itemId", s.addIngredient)
	api.DELETE("/recipes/:id/ingredients/:itemId", s.removeIngredient)
	api.PUT("/recipes/:id/ingredients", s.setIngredients)

	return r
}

// record appends each request to the request log.
func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		line := c.Request.Method + " " + c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			line += "?" + c.Request.URL.RawQuery
		}

		s.mu.Lock()
		s.requests = append(s.requests, line)
		s.mu.Unlock()

		c.Next()
	}
}

// inject answers with the next queued failure, if any.
func (s *Server) inject() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		var f *Failure
		if len(s.failures) > 0 {
			f = &s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if f != nil {
			c.Data(f.Status, "application/json", []byte(f.Body))
			c.Abort()
			return
		}
		c.Next()
	}
}

// auth validates the API key from the X-API-Key header when one is configured.
func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.apiKey == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("X-API-Key")
		if provided == "" {
			writeError(c, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised: missing API key")
			return
		}
		if provided != s.apiKey {
			writeError(c, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised: invalid API key")
			return
		}
		c.Next()
	}
}
