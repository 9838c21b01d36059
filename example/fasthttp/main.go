// Todo API served with fasthttp, with server diagnostics and per-request
// records routed through a shared logger.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/yoonhyunchan/logsink"
	"github.com/yoonhyunchan/logsink/compat"
)

type todo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type todoStore struct {
	mu     sync.Mutex
	nextID int
	items  map[int]todo
}

func newTodoStore() *todoStore {
	return &todoStore{nextID: 1, items: make(map[int]todo)}
}

var (
	logger *logsink.Logger
	store  = newTodoStore()
)

func main() {
	var err error
	logger, err = logsink.NewBuilder().
		FilePath("logs/todo-api.log").
		LevelString("debug").
		BufferSize(2048).
		Build()
	if err != nil {
		panic(err)
	}
	if err := logger.Start(); err != nil {
		panic(err)
	}
	defer logger.Shutdown(2 * time.Second)

	// Route fasthttp's own diagnostics through the same logger
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(logsink.LevelInfo),
	)

	server := &fasthttp.Server{
		Handler: compat.RequestLogger(logger, route),
		Logger:  fasthttpAdapter,

		Name:         "todo-api",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("Starting todo API", "addr", ":8080")
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		logger.Critical("Server failed", "error", err.Error())
		panic(err)
	}
}

func route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	switch {
	case path == "/todos" && method == fasthttp.MethodGet:
		listTodos(ctx)
	case path == "/todos" && method == fasthttp.MethodPost:
		createTodo(ctx)
	case strings.HasPrefix(path, "/todos/") && method == fasthttp.MethodPut:
		updateTodo(ctx, strings.TrimPrefix(path, "/todos/"))
	case strings.HasPrefix(path, "/todos/") && method == fasthttp.MethodDelete:
		deleteTodo(ctx, strings.TrimPrefix(path, "/todos/"))
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func listTodos(ctx *fasthttp.RequestCtx) {
	store.mu.Lock()
	all := make([]todo, 0, len(store.items))
	for _, t := range store.items {
		all = append(all, t)
	}
	store.mu.Unlock()

	logger.Debug("Listing todos", "count", len(all))
	writeJSON(ctx, fasthttp.StatusOK, all)
}

func createTodo(ctx *fasthttp.RequestCtx) {
	var t todo
	if err := json.Unmarshal(ctx.PostBody(), &t); err != nil {
		logger.Warn("Rejected todo payload", "error", err.Error())
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		return
	}

	store.mu.Lock()
	t.ID = store.nextID
	store.nextID++
	store.items[t.ID] = t
	store.mu.Unlock()

	logger.Info("Created todo", "id", t.ID, "title", t.Title)
	writeJSON(ctx, fasthttp.StatusCreated, t)
}

func updateTodo(ctx *fasthttp.RequestCtx, idStr string) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		return
	}

	var t todo
	if err := json.Unmarshal(ctx.PostBody(), &t); err != nil {
		logger.Warn("Rejected todo payload", "id", id, "error", err.Error())
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		return
	}

	store.mu.Lock()
	_, exists := store.items[id]
	if exists {
		t.ID = id
		store.items[id] = t
	}
	store.mu.Unlock()

	if !exists {
		logger.Warn("Todo not found for update", "id", id)
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		return
	}

	logger.Info("Updated todo", "id", id, "done", t.Done)
	writeJSON(ctx, fasthttp.StatusOK, t)
}

func deleteTodo(ctx *fasthttp.RequestCtx, idStr string) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		return
	}

	store.mu.Lock()
	_, exists := store.items[id]
	delete(store.items, id)
	store.mu.Unlock()

	if !exists {
		logger.Warn("Todo not found for delete", "id", id)
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		return
	}

	logger.Info("Deleted todo", "id", id)
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to encode response", "error", err.Error())
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
