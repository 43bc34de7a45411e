package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"log"
	"net/http"

	"live-trivia-service/internal/domain"
	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
)

//go:embed static/index.html
var indexHTML []byte

//go:embed static/host.html
var hostHTML []byte

// QuizLister is the slice of the game service the REST surface needs.
type QuizLister interface {
	ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
}

// NewRouter wires the full HTTP surface: player and host pages, the quiz
// catalog listing, a join QR code per room, and the websocket endpoint.
func NewRouter(lister QuizLister, ws *WSHandler, ratePerMinute int) http.Handler {
	router := httprouter.New()
	limiter := newIPLimiter(ratePerMinute)

	router.GET("/", limiter.wrap(servePage(indexHTML)))
	router.GET("/host", limiter.wrap(servePage(hostHTML)))
	router.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Write([]byte("ok"))
	})
	router.GET("/api/quizzes", limiter.wrap(serveQuizList(lister)))
	router.GET("/join/:pin/qr", limiter.wrap(serveJoinQR))
	router.GET("/ws", limiter.wrap(ws.ServeWS))

	return router
}

func servePage(page []byte) httprouter.Handle {
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Write(page)
	}
}

func serveQuizList(lister QuizLister) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		summaries, err := lister.ListQuizzes(r.Context())
		if err != nil {
			log.Printf("list quizzes: %v", err)
			http.Error(w, "failed to list quizzes", http.StatusInternalServerError)
			return
		}
		if summaries == nil {
			summaries = []domain.QuizSummary{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"quizzes": summaries})
	}
}

// serveJoinQR renders a PNG QR code pointing a phone at the join page with
// the PIN prefilled.
func serveJoinQR(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	pin := p.ByName("pin")
	if pin == "" {
		http.Error(w, "missing pin", http.StatusBadRequest)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	url := scheme + "://" + r.Host + "/?pin=" + pin

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
