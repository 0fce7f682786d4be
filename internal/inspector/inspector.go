package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hexaengine/hexa/internal/core/events/bus"
	"github.com/hexaengine/hexa/internal/core/observability/log"
)

const (
	clientBuffer = 64
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Frame is the JSON message sent to clients for every published event.
type Frame struct {
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Inspector mirrors the engine event bus to websocket clients connected on
// "/events". Clients that fall behind lose frames.
type Inspector struct {
	addr   string
	bus    bus.EventBus
	logger log.Log

	mu       sync.Mutex
	clients  map[*client]struct{}
	server   *http.Server
	listener net.Listener

	wg sync.WaitGroup
}

var _ bus.Observer = (*Inspector)(nil)

func New(addr string, eventBus bus.EventBus, logger log.Log) *Inspector {
	return &Inspector{
		addr:    addr,
		bus:     eventBus,
		logger:  logger.Named("Inspector"),
		clients: make(map[*client]struct{}),
	}
}

// Handler serves the websocket endpoint. It is usable without Start.
func (i *Inspector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", i.handleEvents)
	return mux
}

// Addr is the bound address once started, the configured one otherwise.
func (i *Inspector) Addr() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.listener != nil {
		return i.listener.Addr().String()
	}
	return i.addr
}

// Start listens on the configured address and registers the inspector as a
// bus observer. It returns once the listener is bound.
func (i *Inspector) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.server != nil {
		return ErrAlreadyRunning
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", i.addr)
	if err != nil {
		return fmt.Errorf("inspector listen %s: %w", i.addr, err)
	}
	i.listener = ln
	i.server = &http.Server{Handler: i.Handler(), ReadHeaderTimeout: writeTimeout}
	i.bus.AddObserver(i)

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		if err := i.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			i.logger.Error("inspector server stopped", log.Error(err))
		}
	}()
	i.logger.Info("inspector listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Stop detaches from the bus, disconnects every client and shuts the server down.
func (i *Inspector) Stop(ctx context.Context) error {
	i.mu.Lock()
	server := i.server
	if server == nil {
		i.mu.Unlock()
		return ErrNotRunning
	}
	i.server = nil
	i.listener = nil
	clients := i.clients
	i.clients = make(map[*client]struct{})
	i.mu.Unlock()

	i.bus.RemoveObserver(i)
	for c := range clients {
		close(c.send)
	}
	err := server.Shutdown(ctx)
	i.wg.Wait()
	return err
}

// Clients is the number of connected clients.
func (i *Inspector) Clients() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.clients)
}

func (i *Inspector) OnPublish(event bus.Event) {
	data, err := json.Marshal(Frame{
		Type:      event.Type(),
		Source:    event.Source(),
		Timestamp: event.Timestamp(),
		Data:      event.Data(),
	})
	if err != nil {
		data, err = json.Marshal(Frame{
			Type:      event.Type(),
			Source:    event.Source(),
			Timestamp: event.Timestamp(),
			Data:      fmt.Sprint(event.Data()),
		})
		if err != nil {
			i.logger.Warn("failed encoding event", log.String("event", event.Type()), log.Error(err))
			return
		}
	}
	i.broadcast(data)
}

func (i *Inspector) OnDelivered(bus.Event, int, error, time.Duration) {}

func (i *Inspector) broadcast(frame []byte) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for c := range i.clients {
		select {
		case c.send <- frame:
		default:
			i.logger.Debug("dropping frame for slow client", log.String("client", c.conn.RemoteAddr().String()))
		}
	}
}

func (i *Inspector) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		i.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	i.mu.Lock()
	i.clients[c] = struct{}{}
	i.mu.Unlock()
	i.logger.Debug("client connected", log.String("client", conn.RemoteAddr().String()))

	go i.readLoop(c)
	i.writeLoop(c)
}

// readLoop drains control frames and unregisters the client once the
// connection goes away.
func (i *Inspector) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	i.mu.Lock()
	if _, ok := i.clients[c]; ok {
		delete(i.clients, c)
		close(c.send)
	}
	i.mu.Unlock()
}

func (i *Inspector) writeLoop(c *client) {
	defer c.conn.Close()
	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			i.logger.Debug("client write failed", log.Error(err))
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
}
