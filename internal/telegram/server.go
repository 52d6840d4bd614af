package telegram

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Router exposes the webhook, a health probe and the Prometheus endpoint.
func (b *Bot) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/webhook", b.webhookHandler)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if b.collectors != nil {
		r.Method(http.MethodGet, "/metrics", b.collectors.Handler())
	}
	return r
}

// webhookHandler acknowledges the update and handles it in the background.
func (b *Bot) webhookHandler(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.logger.Warn("Failed to decode update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	b.Dispatch(update)
	w.WriteHeader(http.StatusOK)
}
