package server

import (
	"net/http"

	"github.com/at-ishikawa/moodlog/internal/assets"
	"github.com/at-ishikawa/moodlog/internal/mood"
	"github.com/at-ishikawa/moodlog/internal/statistics"
)

type saveMoodRequest struct {
	Mood string `json:"mood" validate:"required,mood"`
}

type moodMessage struct {
	Message string `json:"message"`
}

type statisticsResponse struct {
	Success    bool              `json:"success"`
	Statistics statistics.Result `json:"statistics"`
}

type recordsResponse struct {
	Success bool          `json:"success"`
	Records []mood.Record `json:"records"`
}

type indexPage struct {
	Moods []mood.Mood
}

type calendarPage struct {
	Records []mood.Record
}

type statisticsPage struct {
	Records []mood.Record
	Today   string
	Moods   []mood.Mood
}

func (h *Handler) index(w http.ResponseWriter, _ *http.Request) {
	h.render(w, assets.PageIndex, indexPage{Moods: mood.All})
}

func (h *Handler) saveMood(w http.ResponseWriter, r *http.Request) {
	var req saveMoodRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, moodMessage{Message: "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, moodMessage{Message: "Invalid mood"})
		return
	}

	record := mood.NewRecord(mood.Mood(req.Mood), h.now())
	if err := h.moods.Create(r.Context(), &record); err != nil {
		h.internalError(w, "failed to save a mood", err)
		return
	}
	writeJSON(w, http.StatusOK, moodMessage{Message: record.Mood.Message()})
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	records, err := h.moods.FindAll(r.Context())
	if err != nil {
		h.internalError(w, "failed to load moods", err)
		return
	}
	h.render(w, assets.PageCalendar, calendarPage{Records: records})
}

func (h *Handler) statisticsPage(w http.ResponseWriter, r *http.Request) {
	records, err := h.moods.FindAll(r.Context())
	if err != nil {
		h.internalError(w, "failed to load moods", err)
		return
	}
	h.render(w, assets.PageStatistics, statisticsPage{
		Records: records,
		Today:   h.now().Format(mood.DateLayout),
		Moods:   mood.PriorityOrder,
	})
}

func (h *Handler) apiStatistics(w http.ResponseWriter, r *http.Request) {
	records, err := h.moods.FindAll(r.Context())
	if err != nil {
		h.internalError(w, "failed to load moods", err)
		return
	}

	query := r.URL.Query()
	filter := statistics.Filter{
		Period:     query.Get("period"),
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
		HasEndDate: query.Has("end_date"),
	}
	if !query.Has("period") {
		filter.Period = statistics.DefaultPeriod
	}

	writeJSON(w, http.StatusOK, statisticsResponse{
		Success:    true,
		Statistics: statistics.Aggregate(records, filter, h.now()),
	})
}

func (h *Handler) apiRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.moods.FindAll(r.Context())
	if err != nil {
		h.internalError(w, "failed to load moods", err)
		return
	}
	if records == nil {
		records = []mood.Record{}
	}
	writeJSON(w, http.StatusOK, recordsResponse{Success: true, Records: records})
}
