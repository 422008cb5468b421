package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lambdcalculus/pairq/pkg/packets"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// A conn wraps one websocket client. Writes are serialized so handlers can
// reply from any goroutine.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex

	// Role the client authenticated to, empty until a successful login.
	role string
}

func (c *conn) writePacket(p packets.Packet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(p)
}

func (c *conn) addr() string {
	return c.ws.RemoteAddr().String()
}

func (srv *QueueServer) listenWS() {
	mux := http.NewServeMux()
	mux.HandleFunc("/INFO", srv.infoEndpoint)
	mux.HandleFunc("/", srv.wsEndpoint)
	wsServer := &http.Server{
		Addr:           fmt.Sprintf(":%v", srv.config.PortWS),
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	srv.logger.Infof("Listening WS on port %v.", srv.config.PortWS)
	srv.logger.Errorf("Stopped serving WS: %v.", wsServer.ListenAndServe())
}

// The handler for the '/' endpoint, where clients speak the job protocol.
func (srv *QueueServer) wsEndpoint(w http.ResponseWriter, r *http.Request) {
	// TODO: actually check the origin
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.logger.Debugf("WS: (/) Couldn't upgrade connection from %v (%v).", r.RemoteAddr, err)
		return // bad request
	}
	c := &conn{ws: ws}
	srv.logger.Debugf("New WS connection from %v.", c.addr())

	go srv.handleClient(c)
}

// Reads packets from a client until the connection dies.
func (srv *QueueServer) handleClient(c *conn) {
	defer func() {
		c.ws.Close()
		srv.logger.Debugf("Connection from %v closed.", c.addr())
	}()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			srv.logger.Debugf("Error in connection to %v (%v).", c.addr(), err)
			return
		}
		p, err := packets.MakePacket(raw)
		if err != nil {
			srv.logger.Debugf("Bad JSON by %v (%v).", c.addr(), err)
			srv.writeError(c, "bad packet")
			continue
		}
		srv.logger.Tracef("Received packet from %v: %#v", c.addr(), p)
		srv.handlePacket(c, p)
	}
}

// Handles the '/INFO' endpoint: sends the queue statistics and disconnects.
func (srv *QueueServer) infoEndpoint(w http.ResponseWriter, r *http.Request) {
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.logger.Debugf("WS: (/INFO) Couldn't upgrade connection from %v (%v).", r.RemoteAddr, err)
		return // bad request
	}
	defer ws.Close()

	if err := ws.WriteJSON(srv.statsPacket()); err != nil {
		srv.logger.Warnf("WS: (/INFO) Error writing JSON response (%v).", err)
		return
	}
	srv.logger.Debugf("WS: (/INFO) Sent stats to %v.", r.RemoteAddr)
}
