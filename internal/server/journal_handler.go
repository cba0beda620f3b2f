package server

import (
	"net/http"

	"github.com/at-ishikawa/moodlog/internal/assets"
	"github.com/at-ishikawa/moodlog/internal/journal"
	"github.com/at-ishikawa/moodlog/internal/mood"
)

type saveJournalRequest struct {
	Date string `json:"date" validate:"required"`
	Text string `json:"text" validate:"required"`
}

type journalResponse struct {
	Success bool            `json:"success"`
	Entries []journal.Entry `json:"entries"`
}

type journalPage struct {
	Today string
}

func (h *Handler) journalPage(w http.ResponseWriter, _ *http.Request) {
	h.render(w, assets.PageJournal, journalPage{Today: h.now().Format(mood.DateLayout)})
}

func (h *Handler) saveJournal(w http.ResponseWriter, r *http.Request) {
	var req saveJournalRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, outcome{Message: "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, outcome{Message: "Date and text are required"})
		return
	}
	entry, err := journal.NewEntry(req.Date, req.Text, h.now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, outcome{Message: err.Error()})
		return
	}

	if err := h.journal.Create(r.Context(), &entry); err != nil {
		h.internalError(w, "failed to save a journal entry", err)
		return
	}
	writeJSON(w, http.StatusOK, outcome{Success: true, Message: "Entry saved!"})
}

func (h *Handler) apiJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journal.FindAll(r.Context())
	if err != nil {
		h.internalError(w, "failed to load journal entries", err)
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	journal.SortByDate(entries)
	writeJSON(w, http.StatusOK, journalResponse{Success: true, Entries: entries})
}
