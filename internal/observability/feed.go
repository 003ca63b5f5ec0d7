package observability

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
	feedSendBuffer = 32
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// feedEvent is the JSON shape pushed to every connected admin client.
type feedEvent struct {
	Type     string `json:"type"`
	IP       string `json:"ip,omitempty"`
	UUID     string `json:"uuid,omitempty"`
	Username string `json:"username,omitempty"`
	Reason   string `json:"reason,omitempty"`
	At       int64  `json:"at"`
}

// Feed is a websocket broadcast hub implementing Sink: every verification
// event is fanned out to connected admin clients, in the register/
// unregister/broadcast-channel shape the teacher's websocket hub uses.
type Feed struct {
	register   chan *feedClient
	unregister chan *feedClient
	broadcast  chan feedEvent
	clients    map[*feedClient]struct{}
}

type feedClient struct {
	conn *websocket.Conn
	send chan feedEvent
}

func NewFeed() *Feed {
	f := &Feed{
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		broadcast:  make(chan feedEvent, 256),
		clients:    make(map[*feedClient]struct{}),
	}
	go f.run()
	return f
}

func (f *Feed) run() {
	for {
		select {
		case c := <-f.register:
			f.clients[c] = struct{}{}
		case c := <-f.unregister:
			if _, ok := f.clients[c]; ok {
				delete(f.clients, c)
				close(c.send)
			}
		case ev := <-f.broadcast:
			for c := range f.clients {
				select {
				case c.send <- ev:
				default:
					// slow client: drop it rather than block the hub
					delete(f.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// ServeHTTP upgrades an admin connection into the feed's broadcast set.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &feedClient{conn: conn, send: make(chan feedEvent, feedSendBuffer)}
	f.register <- client

	go f.writePump(client)
	go f.readPump(client)
}

func (f *Feed) readPump(c *feedClient) {
	defer func() {
		f.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writePump(c *feedClient) {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (f *Feed) emit(ev feedEvent) {
	ev.At = time.Now().UnixNano() / int64(time.Millisecond)
	select {
	case f.broadcast <- ev:
	default:
	}
}

func (f *Feed) OnAdmit(ip net.IP) { f.emit(feedEvent{Type: "admit", IP: ip.String()}) }

func (f *Feed) OnSuccess(ip net.IP, id uuid.UUID, username string) {
	f.emit(feedEvent{Type: "success", IP: ip.String(), UUID: id.String(), Username: username})
}

func (f *Feed) OnFail(ip net.IP, reason string) {
	f.emit(feedEvent{Type: "fail", IP: ip.String(), Reason: reason})
}

func (f *Feed) OnBlacklist(ip net.IP) { f.emit(feedEvent{Type: "blacklist", IP: ip.String()}) }

func (f *Feed) OnAttackStart() { f.emit(feedEvent{Type: "attack_start"}) }

func (f *Feed) OnAttackEnd() { f.emit(feedEvent{Type: "attack_end"}) }
