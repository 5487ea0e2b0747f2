// Package api serves the generated icons for preview and re-runs the
// generator on demand. A websocket hub tells connected preview pages when a
// regeneration finished so they can reload.
package api

import (
	"context"
	"encoding/csv"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"iconforge/internal/cert"
	"iconforge/internal/config"
	"iconforge/internal/generator"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local preview tool, allow all origins
	},
}

// Event is pushed to every connected preview client after a run.
type Event struct {
	Kind        string    `json:"kind"` // "generated"
	GeneratedAt time.Time `json:"generated_at"`
	Assets      int       `json:"assets"`
	Converted   bool      `json:"converted"`
}

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Event
}

// Hub maintains the set of active preview clients and broadcasts run events
// to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	stop       chan struct{}
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 8),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Slow client: drop it rather than block the hub.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// detach hands the client back to the hub. A stopped hub no longer drains
// the unregister channel, so the send must not block forever.
func (c *Client) detach() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.stop:
	}
}

// readPump drains the websocket connection until the client goes away.
// Preview clients only listen; inbound messages are ignored.
func (c *Client) readPump() {
	defer func() {
		c.detach()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps events from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()
	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			log.Printf("error writing json: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// NewRouter builds the gin router for the preview server. Split out of
// StartServer so tests can exercise the routes without binding a port.
func NewRouter(gen *generator.Generator, cfg *config.Config, hub *Hub) *gin.Engine {
	router := gin.Default()

	api := router.Group("/api/v1")
	{
		api.GET("/assets", func(c *gin.Context) {
			res := gen.Latest()
			if res == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "no generation run yet"})
				return
			}
			format := strings.ToLower(strings.TrimSpace(c.Query("format")))
			if format == "csv" {
				c.Header("Content-Disposition", "attachment; filename=assets.csv")
				c.Header("Content-Type", "text/csv; charset=utf-8")
				w := csv.NewWriter(c.Writer)
				defer w.Flush()
				_ = w.Write([]string{"Path", "Size", "Kind", "Backend", "Bytes", "SHA256"})
				for _, a := range res.Assets {
					_ = w.Write([]string{a.Path, strconv.Itoa(a.Size), a.Kind, a.Backend,
						strconv.FormatInt(a.Bytes, 10), a.SHA256})
				}
				return
			}
			c.JSON(http.StatusOK, res)
		})

		api.POST("/generate", func(c *gin.Context) {
			res, err := gen.Run()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			event := Event{
				Kind:        "generated",
				GeneratedAt: res.GeneratedAt,
				Assets:      len(res.Assets),
				Converted:   res.Converted,
			}
			select {
			case hub.broadcast <- event:
			default:
			}
			c.JSON(http.StatusOK, res)
		})
	}

	router.Static("/icons", cfg.OutDir)

	router.GET("/ws", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("failed to set websocket upgrade: %v", err)
			return
		}
		client := &Client{hub: hub, conn: conn, send: make(chan Event, 8)}
		select {
		case hub.register <- client:
		case <-hub.stop:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	})

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(previewPage))
	})

	return router
}

// StartServer starts the preview server and returns it so the caller can
// shut it down. The server stops when ctx is cancelled.
func StartServer(ctx context.Context, gen *generator.Generator, cfg *config.Config) *http.Server {
	hub := newHub()
	go hub.run()

	router := NewRouter(gen, cfg, hub)
	srv := &http.Server{
		Addr:    cfg.API.Addr,
		Handler: router,
	}

	go func() {
		var err error
		if cfg.API.TLS {
			certFile, keyFile := cfg.API.CertFile, cfg.API.KeyFile
			if certFile == "" {
				certFile, keyFile = "preview-cert.pem", "preview-key.pem"
			}
			if err = cert.EnsureKeyPair(certFile, keyFile); err == nil {
				log.Printf("preview server listening on https://%s", srv.Addr)
				err = srv.ListenAndServeTLS(certFile, keyFile)
			}
		} else {
			log.Printf("preview server listening on http://%s", srv.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Printf("listen: %s", err)
		}
	}()

	go func() {
		<-ctx.Done()
		close(hub.stop)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	return srv
}
