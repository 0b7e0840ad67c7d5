package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"baakh/internal/api/interfaces"
	"baakh/internal/api/models"
	"baakh/internal/api/types"
	"baakh/internal/sindhi"
	"baakh/pkg/config"
	"baakh/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsSendBuffer = 16
)

// Message types understood on the romanize socket
const (
	wsTypeRomanize      = "romanize"
	wsTypeHesudhar      = "hesudhar"
	wsTypeTransliterate = "transliterate"
	wsTypePing          = "ping"
	wsTypePong          = "pong"
	wsTypeReady         = "ready"
	wsTypeError         = "error"
	wsResultSuffix      = "_result"
)

// wsRequest is one client frame. Type defaults to romanize and Text carries
// the word for transliterate.
type wsRequest struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
	Mode string `json:"mode"`
}

// newUpgrader admits same-host origins, non-browser clients that send no
// Origin, and the configured CORS origins.
func newUpgrader(cors config.CORSConfig) *websocket.Upgrader {
	allowAny := false
	allowed := make(map[string]bool, len(cors.AllowedOrigins))
	for _, o := range cors.AllowedOrigins {
		if o == "*" {
			allowAny = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowAny || allowed[origin] {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		},
	}
}

// RomanizeWebSocket serves romanize, hesudhar and transliterate requests over
// a websocket. Replies carry the request id and arrive in request order.
func RomanizeWebSocket(services interfaces.Services) gin.HandlerFunc {
	upgrader := newUpgrader(services.GetConfig().API.CORS)

	return func(c *gin.Context) {
		log := logger.GetLoggerFromContext(c).WithComponent("websocket")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warning("WebSocket upgrade failed", "error", err)
			return
		}

		maxRunes := services.GetConfig().API.MaxTextLength
		conn.SetReadLimit(int64(maxRunes)*maxBytesPerRune + 1024)
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})

		log.Info("WebSocket connection established", "client_ip", c.ClientIP())

		send := make(chan models.WebSocketMessage, wsSendBuffer)
		done := make(chan struct{})
		go writePump(conn, send, done, log)

		send <- models.WebSocketMessage{
			Type: wsTypeReady,
			Data: map[string]interface{}{
				"modes":           []string{sindhi.ModeSmart.String(), sindhi.ModeGlobal.String()},
				"max_text_length": maxRunes,
			},
			Timestamp: time.Now().Unix(),
		}

	read:
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warning("WebSocket read failed", "error", err)
				}
				break
			}

			reply := handleWebSocketMessage(services, data, maxRunes)
			select {
			case send <- reply:
			case <-done:
				break read
			}
		}

		close(send)
		<-done
		log.Info("WebSocket client disconnected", "client_ip", c.ClientIP())
	}
}

// writePump owns all writes to conn. It returns, closing done and conn, when
// send is closed or a write fails.
func writePump(conn *websocket.Conn, send <-chan models.WebSocketMessage, done chan<- struct{}, log *logger.Logger) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("WebSocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func handleWebSocketMessage(services interfaces.Services, data []byte, maxRunes int) models.WebSocketMessage {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return wsError("", models.ErrBadRequest("Invalid message format").WithDetails(err.Error()))
	}

	if req.Type == "" {
		req.Type = wsTypeRomanize
	}
	reply := models.WebSocketMessage{ID: req.ID, Timestamp: time.Now().Unix()}

	if req.Type == wsTypePing {
		reply.Type = wsTypePong
		return reply
	}

	if req.Text == "" {
		return wsError(req.ID, models.ErrBadRequest("Field 'text' is required"))
	}
	if utf8.RuneCountInString(req.Text) > maxRunes {
		return wsError(req.ID, models.ErrBadRequest(fmt.Sprintf("Text exceeds %d characters", maxRunes)))
	}

	switch req.Type {
	case wsTypeRomanize, wsTypeHesudhar:
		mode, err := sindhi.ParseMode(req.Mode)
		if err != nil {
			return wsError(req.ID, models.ErrBadRequest("Mode must be 'smart' or 'global'"))
		}
		reply.Type = req.Type + wsResultSuffix
		if req.Type == wsTypeHesudhar {
			out, n := sindhi.NormalizeHesudhar(req.Text, mode)
			reply.Data = types.HesudharResponse{Original: req.Text, Hesudhar: out, Replacements: n, Mode: mode.String()}
			return reply
		}
		result := services.Romanizer().RomanizeDetailed(req.Text, mode)
		reply.Data = types.RomanizeResponse{
			Original:       req.Text,
			Romanized:      result.Text,
			Mode:           result.Mode.String(),
			Replacements:   result.Replacements,
			DictionaryHits: result.DictionaryHits,
			Words:          result.Words,
		}
	case wsTypeTransliterate:
		roman, found := services.Romanizer().Transliterate(req.Text)
		reply.Type = req.Type + wsResultSuffix
		reply.Data = types.TransliterateResponse{Word: req.Text, Roman: roman, Found: found}
	default:
		return wsError(req.ID, models.ErrBadRequest(fmt.Sprintf("Unknown message type %q", req.Type)))
	}
	return reply
}

func wsError(id string, err *models.APIError) models.WebSocketMessage {
	return models.WebSocketMessage{
		ID:        id,
		Type:      wsTypeError,
		Data:      err.Info(),
		Timestamp: time.Now().Unix(),
	}
}
