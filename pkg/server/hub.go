package server

import (
	"embed"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"

	"github.com/trytobebee/snake_lcd/pkg/analog"
	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
	"github.com/trytobebee/snake_lcd/pkg/input"
)

//go:embed static/index.html
var static embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Viewers on the LAN open the page by IP
	},
}

// ServerMessage is sent to viewers
type ServerMessage struct {
	Type  string         `json:"type"`
	Frame *display.Frame `json:"frame,omitempty"`
	Knob  int            `json:"knob"`
}

// ClientMessage is sent by viewers. Press and release carry a line name.
type ClientMessage struct {
	Action string `json:"action"`
	Line   string `json:"line,omitempty"`
}

type client struct {
	conn    *websocket.Conn
	send    chan ServerMessage // Closed by the hub when the viewer is removed
	pressed [input.LineWallsOff + 1]bool
}

// writePump is the only writer on the connection
func (c *client) writePump(h *Hub) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(config.ViewerWriteWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			h.logger.Printf("Dropping viewer %s: %v", c.conn.RemoteAddr(), err)
			h.remove(c)
			c.conn.Close()
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(config.ViewerWriteWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "Game stopped"))
	c.conn.Close()
}

// Hub is the remote viewer backend. It streams every presented frame to the
// connected browsers and exposes their buttons as input lines.
type Hub struct {
	knob   *analog.Knob
	logger *log.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	last    display.Frame
	skipped int
}

// NewHub creates a hub. knob may be nil, viewers then cannot change the speed.
func NewHub(knob *analog.Knob, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		knob:    knob,
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Handler serves the viewer page, the websocket and a PNG snapshot
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(mustSub(static, "static")))
	mux.HandleFunc("/ws", h.handleWebSocket)
	mux.HandleFunc("/frame.png", h.handleFrame)
	return mux
}

// Present implements display.Presenter. It only queues the frame, a viewer
// whose queue is full skips it and the game is never held up by a viewer.
func (h *Hub) Present(f display.Frame) error {
	msg := ServerMessage{Type: "frame", Frame: &f, Knob: h.knobLevel()}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = f
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.skipped++
		}
	}
	return nil
}

// Read implements input.Pins: a line is asserted while any viewer holds it
func (h *Hub) Read(line input.Line) bool {
	if line < input.LineLeft || line > input.LineWallsOff {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.pressed[line] {
			return true
		}
	}
	return false
}

// Viewers returns the number of connected viewers
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Skipped returns how many frames were not queued for a slow viewer
func (h *Hub) Skipped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.skipped
}

// Close disconnects every viewer
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Println("Upgrade error:", err)
		return
	}

	c := &client{conn: conn, send: make(chan ServerMessage, config.ViewerQueue)}
	knob := h.knobLevel()
	h.mu.Lock()
	h.clients[c] = struct{}{}
	// Send the current screen straight away
	if last := h.last; last.Bits != nil {
		c.send <- ServerMessage{Type: "frame", Frame: &last, Knob: knob}
	}
	h.mu.Unlock()
	defer h.remove(c)
	go c.writePump(h)

	h.logger.Println("New viewer connected from:", r.RemoteAddr)

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Println("Read error:", err)
			}
			return
		}
		h.handleAction(c, msg)
	}
}

func (h *Hub) handleAction(c *client, msg ClientMessage) {
	switch msg.Action {
	case "press", "release":
		line, ok := input.ParseLineName(msg.Line)
		if !ok {
			h.logger.Printf("Unknown line %q from %s", msg.Line, c.conn.RemoteAddr())
			return
		}
		h.mu.Lock()
		c.pressed[line] = msg.Action == "press"
		h.mu.Unlock()
	case "knob_up":
		if h.knob != nil {
			h.knob.Turn(config.ADCKnobStep)
		}
	case "knob_down":
		if h.knob != nil {
			h.knob.Turn(-config.ADCKnobStep)
		}
	}
}

func (h *Hub) handleFrame(w http.ResponseWriter, r *http.Request) {
	scale := config.ViewerPNGScale
	if s := r.URL.Query().Get("scale"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 16 {
			http.Error(w, "scale must be 1-16", http.StatusBadRequest)
			return
		}
		scale = n
	}

	h.mu.Lock()
	f := h.last
	h.mu.Unlock()
	if f.Bits == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, Scale(f, scale)); err != nil {
		h.logger.Println("PNG encode error:", err)
	}
}

// remove forgets the viewer and stops its writer
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) knobLevel() int {
	if h.knob == nil {
		return -1
	}
	return int(h.knob.Read())
}

// Scale enlarges a frame with hard pixel edges
func Scale(f display.Frame, factor int) *image.Gray {
	src := f.Image()
	dst := image.NewGray(image.Rect(0, 0, f.Width*factor, f.Height*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// QRCode renders url as a QR code made of half-block characters for the terminal
func QRCode(url string) (string, error) {
	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to encode %q: %w", url, err)
	}
	return qr.ToSmallString(false), nil
}

func mustSub(fsys embed.FS, dir string) http.FileSystem {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
