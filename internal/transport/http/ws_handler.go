package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"live-trivia-service/internal/app"
	"live-trivia-service/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// maxMessageBytes caps inbound frames; nothing a client legitimately sends
// comes close.
const maxMessageBytes = 200 * 1024

type WSHandler struct {
	service  *app.GameService
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, hub *Hub) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type createGamePayload struct {
	QuizID string `json:"quizId"`
}

type roomPayload struct {
	Pin string `json:"pin"`
}

type joinPayload struct {
	Pin  string `json:"pin"`
	Name string `json:"name"`
}

type answerPayload struct {
	Pin         string `json:"pin"`
	ChoiceIndex int    `json:"choiceIndex"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection and pumps commands into the game service.
// Each connection gets a fresh identity; the identity is the player/host
// handle for the connection's whole lifetime, and dropping the socket is the
// only way to give it up.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(maxMessageBytes)

	c := h.hub.register(conn)
	defer func() {
		h.hub.unregister(c)
		h.service.Disconnect(c.id)
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "host:createGame":
			var payload createGamePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.enqueue(outboundMessage{Type: "host:error", Payload: errorPayload{Message: "invalid payload"}})
				continue
			}
			if err := h.service.CreateGame(r.Context(), payload.QuizID, c.id); err != nil {
				c.enqueue(outboundMessage{Type: "host:error", Payload: errorPayload{Message: hostErrorMessage(err)}})
			}

		case "host:startGame":
			var payload roomPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				continue
			}
			h.service.StartGame(payload.Pin, c.id)

		case "host:startQuestion":
			var payload roomPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				continue
			}
			h.service.StartQuestion(payload.Pin, c.id)

		case "host:reveal":
			var payload roomPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				continue
			}
			h.service.Reveal(payload.Pin, c.id)

		case "player:join":
			var payload joinPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.enqueue(outboundMessage{Type: "player:error", Payload: errorPayload{Message: "invalid payload"}})
				continue
			}
			if err := h.service.Join(payload.Pin, c.id, payload.Name); err != nil {
				c.enqueue(outboundMessage{Type: "player:error", Payload: errorPayload{Message: playerErrorMessage(err)}})
			}

		case "player:answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				continue
			}
			h.service.Answer(payload.Pin, c.id, payload.ChoiceIndex)

		default:
			// unknown command types are ignored
		}
	}
}

func hostErrorMessage(err error) string {
	if errors.Is(err, domain.ErrQuizNotFound) {
		return "Quiz not found"
	}
	return "Something went wrong"
}

func playerErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return "Game not found. Check PIN."
	case errors.Is(err, domain.ErrInvalidName):
		return "Enter a name."
	case errors.Is(err, domain.ErrNameTaken):
		return "Name taken. Try another."
	}
	return "Something went wrong"
}
