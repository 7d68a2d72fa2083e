package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/example/sacsbot/internal/session"
	"github.com/example/sacsbot/internal/types"
	"github.com/example/sacsbot/pkg/jsonutil"
	"github.com/go-chi/chi/v5"
)

// AdminHandler lets an operator inspect or reset a chat's dialogue.
type AdminHandler struct {
	Store      session.Store
	AdminToken string
	Log        *slog.Logger
}

func NewAdminHandler(store session.Store, adminToken string, log *slog.Logger) *AdminHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AdminHandler{Store: store, AdminToken: adminToken, Log: log}
}

// RequireToken rejects requests without the matching X-Admin-Token header.
func (h *AdminHandler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("X-Admin-Token")
		if h.AdminToken == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.AdminToken)) != 1 {
			jsonutil.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSession handles GET /admin/sessions/{chatID}.
func (h *AdminHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}
	s, found, err := h.Store.Load(r.Context(), chatID)
	if err != nil {
		jsonutil.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		jsonutil.Error(w, http.StatusNotFound, "no active dialogue")
		return
	}
	jsonutil.JSON(w, http.StatusOK, types.NewSessionResponse(s))
}

// DeleteSession handles DELETE /admin/sessions/{chatID}.
func (h *AdminHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}
	if err := h.Store.Delete(r.Context(), chatID); err != nil {
		jsonutil.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Log.Info("session reset", "event", "admin", "chat_id", chatID)
	w.WriteHeader(http.StatusNoContent)
}

func chatIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "invalid chat id")
		return 0, false
	}
	return id, true
}
