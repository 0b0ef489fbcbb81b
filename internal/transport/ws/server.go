package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/match"
)

// Match is the part of a running match the transport needs.
type Match interface {
	Inbox() chan<- match.ActionEnvelope
	Join() chan<- match.JoinRequest
	Leave() chan<- string
}

type Server struct {
	match Match
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(m Match, logger *log.Logger) *Server {
	return &Server{
		match: m,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		playerID, out := s.handshake(conn)
		if playerID == "" {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			act, code := decodeAct(msg)
			if code != "" {
				reply(out, protocol.AckMsg{
					Type:            protocol.TypeAck,
					ProtocolVersion: protocol.Version,
					Seq:             act.Seq,
					Code:            code,
					Message:         "malformed ACT",
				})
				continue
			}
			select {
			case s.match.Inbox() <- match.ActionEnvelope{PlayerID: playerID, Act: act}:
			case <-ctx.Done():
			}
		}

		cancel()
		s.match.Leave() <- playerID
	}
}

// decodeAct parses a client frame. Anything that is not a well-formed ACT for this protocol
// version yields E_PROTO_BAD_REQUEST.
func decodeAct(msg []byte) (protocol.ActMsg, string) {
	var act protocol.ActMsg
	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeAct {
		return act, protocol.ErrProtoBadRequest
	}
	if err := json.Unmarshal(msg, &act); err != nil {
		return act, protocol.ErrProtoBadRequest
	}
	if act.ProtocolVersion != protocol.Version || act.Action == "" {
		return act, protocol.ErrProtoBadRequest
	}
	return act, ""
}

func reply(out chan []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}

func (s *Server) handshake(conn *websocket.Conn) (playerID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closeWith(conn, "expected HELLO")
		return "", nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		closeWith(conn, "bad HELLO")
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		closeWith(conn, "bad protocol_version")
		return "", nil
	}

	out = make(chan []byte, 64)
	respCh := make(chan match.JoinResponse, 1)
	s.match.Join() <- match.JoinRequest{
		Name: hello.PlayerName,
		Team: hello.Team,
		Out:  out,
		Resp: respCh,
	}
	resp := <-respCh
	if resp.Code != "" {
		if s.log != nil {
			s.log.Printf("join rejected name=%s team=%s: %s", hello.PlayerName, hello.Team, resp.Code)
		}
		closeWith(conn, resp.Code+": "+resp.Message)
		return "", nil
	}

	if err := writeJSON(conn, resp.Welcome); err != nil {
		s.match.Leave() <- resp.Welcome.PlayerID
		return "", nil
	}
	return resp.Welcome.PlayerID, out
}

func closeWith(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
