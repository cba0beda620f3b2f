package server

import (
	"net/http"
	"time"

	"github.com/at-ishikawa/moodlog/internal/assets"
	"github.com/at-ishikawa/moodlog/internal/notification"
)

type settingsResponse struct {
	Success  bool                  `json:"success"`
	Settings notification.Settings `json:"settings"`
}

type notificationsPage struct {
	Settings notification.Settings
}

func (h *Handler) notificationsPage(w http.ResponseWriter, r *http.Request) {
	settings, err := h.notifications.Read(r.Context())
	if err != nil {
		h.internalError(w, "failed to load notification settings", err)
		return
	}
	h.render(w, assets.PageNotifications, notificationsPage{Settings: settings})
}

func (h *Handler) saveNotifications(w http.ResponseWriter, r *http.Request) {
	var settings notification.Settings
	if err := readJSON(r, &settings); err != nil {
		writeJSON(w, http.StatusBadRequest, outcome{Message: "Invalid request body"})
		return
	}
	if err := h.validator.Struct(settings); err != nil {
		writeJSON(w, http.StatusBadRequest, outcome{Message: err.Error()})
		return
	}
	if settings.Times == nil {
		settings.Times = []string{}
	}
	settings.SavedAt = h.now().Format(time.RFC3339)

	if err := h.notifications.Write(r.Context(), settings); err != nil {
		h.internalError(w, "failed to save notification settings", err)
		return
	}
	writeJSON(w, http.StatusOK, outcome{Success: true, Message: "Notification settings saved!"})
}

func (h *Handler) apiNotifications(w http.ResponseWriter, r *http.Request) {
	settings, err := h.notifications.Read(r.Context())
	if err != nil {
		h.internalError(w, "failed to load notification settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Success: true, Settings: settings})
}
