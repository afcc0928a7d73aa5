package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/versewalk/versewalk/internal/engine"
	"github.com/versewalk/versewalk/internal/srs"
	"github.com/versewalk/versewalk/internal/store"
)

const dateFormat = "2006-01-02"

type passageJSON struct {
	ID           string   `json:"id"`
	Reference    string   `json:"reference"`
	Text         string   `json:"text"`
	Keywords     []string `json:"keywords,omitempty"`
	Difficulty   string   `json:"difficulty"`
	SegmentCount int      `json:"segment_count"`
	CreatedAt    int64    `json:"created_at"`
}

type reviewStateJSON struct {
	Repetition   int     `json:"repetition"`
	EaseFactor   float64 `json:"ease_factor"`
	IntervalDays int     `json:"interval_days"`
	NextReviewAt string  `json:"next_review_at"`
}

type scheduleJSON struct {
	Repetition     int     `json:"repetition"`
	EaseFactor     float64 `json:"ease_factor"`
	IntervalDays   int     `json:"interval_days"`
	NextReviewAt   string  `json:"next_review_at"`
	Recommendation string  `json:"recommendation"`
}

type evaluationJSON struct {
	Score           float64  `json:"score"`
	Quality         int      `json:"quality"`
	MatchedSegments []bool   `json:"matched_segments"`
	MissingKeywords []string `json:"missing_keywords,omitempty"`
	Feedback        string   `json:"feedback"`
	TotalSegments   int      `json:"total_segments"`
	MatchedCount    int      `json:"matched_count"`
	PartialMatches  int      `json:"partial_matches"`
}

type previewJSON struct {
	ReviewNumber   int    `json:"review_number"`
	Date           string `json:"date"`
	DaysAfterStart int    `json:"days_after_start"`
	Recommendation string `json:"recommendation"`
}

func toPassageJSON(p *store.Passage) passageJSON {
	return passageJSON{
		ID:           p.ID,
		Reference:    p.Reference,
		Text:         p.Body,
		Keywords:     p.Keywords,
		Difficulty:   p.Difficulty,
		SegmentCount: p.SegmentCount,
		CreatedAt:    p.CreatedAt,
	}
}

func toReviewStateJSON(rs *store.ReviewState) reviewStateJSON {
	return reviewStateJSON{
		Repetition:   rs.Repetition,
		EaseFactor:   rs.EaseFactor,
		IntervalDays: rs.IntervalDays,
		NextReviewAt: time.UnixMilli(rs.NextReviewAt).Format(dateFormat),
	}
}

func toScheduleJSON(r srs.Result) scheduleJSON {
	return scheduleJSON{
		Repetition:     r.Repetition,
		EaseFactor:     r.EaseFactor,
		IntervalDays:   r.IntervalDays,
		NextReviewAt:   r.NextReviewAt.Format(dateFormat),
		Recommendation: r.Recommendation,
	}
}

func toEvaluationJSON(e engine.Evaluation) evaluationJSON {
	return evaluationJSON{
		Score:           e.Score,
		Quality:         e.Quality,
		MatchedSegments: e.MatchedSegments,
		MissingKeywords: e.MissingKeywords,
		Feedback:        e.Feedback,
		TotalSegments:   e.Details.TotalSegments,
		MatchedCount:    e.Details.MatchedCount,
		PartialMatches:  e.Details.PartialMatches,
	}
}

func toPreviewJSON(entries []srs.PreviewEntry) []previewJSON {
	out := make([]previewJSON, len(entries))
	for i, e := range entries {
		out[i] = previewJSON{
			ReviewNumber:   e.ReviewNumber,
			Date:           e.Date.Format(dateFormat),
			DaysAfterStart: e.DaysAfterStart,
			Recommendation: e.Recommendation,
		}
	}
	return out
}

func (s *Server) handleCreatePassage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reference string   `json:"reference"`
		Text      string   `json:"text"`
		Keywords  []string `json:"keywords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Reference == "" {
		writeError(w, http.StatusBadRequest, "reference required")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text required")
		return
	}

	created, err := s.engine.CreatePassage(req.Reference, req.Text, req.Keywords)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"passage": toPassageJSON(created.Passage),
		"preview": toPreviewJSON(created.Preview),
	})
}

func (s *Server) handleListPassages(w http.ResponseWriter, r *http.Request) {
	passages, err := s.db.ListPassages()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type item struct {
		passageJSON
		Review *reviewStateJSON `json:"review,omitempty"`
	}
	items := make([]item, 0, len(passages))
	for i := range passages {
		it := item{passageJSON: toPassageJSON(&passages[i])}
		if rs, err := s.db.GetReviewState(passages[i].ID); err == nil {
			rj := toReviewStateJSON(rs)
			it.Review = &rj
		}
		items = append(items, it)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(items),
		"passages": items,
	})
}

func (s *Server) handleGetPassage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	p, err := s.db.GetPassage(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	rs, err := s.db.GetReviewState(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	stats, err := s.db.GetAttemptStats(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"passage": toPassageJSON(p),
		"review":  toReviewStateJSON(rs),
		"stats": map[string]any{
			"attempts":   stats.Count,
			"avg_score":  stats.AvgScore,
			"best_score": stats.BestScore,
		},
	})
}

func (s *Server) handleDeletePassage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")
	if err := s.db.DeletePassage(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := s.engine.SubmitAttempt(id, req.Text)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"evaluation": toEvaluationJSON(result.Evaluation),
		"schedule":   toScheduleJSON(result.Schedule),
	})
}

func (s *Server) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	if _, err := s.db.GetPassage(id); err != nil {
		s.writeStoreError(w, err)
		return
	}

	attempts, err := s.engine.History(id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type attemptJSON struct {
		ID        string  `json:"id"`
		Text      string  `json:"text"`
		Score     float64 `json:"score"`
		Quality   int     `json:"quality"`
		Feedback  string  `json:"feedback"`
		CreatedAt int64   `json:"created_at"`
	}
	out := make([]attemptJSON, len(attempts))
	for i, a := range attempts {
		out[i] = attemptJSON{a.ID, a.AttemptText, a.Score, a.Quality, a.Feedback, a.CreatedAt}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"attempts": out,
	})
}

// handleReview accepts either a pre-graded quality (0-5) or a session score
// (0-1); exactly one must be present.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	var req struct {
		Quality *int     `json:"quality"`
		Score   *float64 `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if (req.Quality == nil) == (req.Score == nil) {
		writeError(w, http.StatusBadRequest, "exactly one of quality or score required")
		return
	}

	var result *srs.Result
	var err error
	if req.Quality != nil {
		if *req.Quality < 0 || *req.Quality > 5 {
			writeError(w, http.StatusBadRequest, "quality must be in [0,5]")
			return
		}
		result, err = s.engine.ReviewWithQuality(id, *req.Quality)
	} else {
		if *req.Score < 0 || *req.Score > 1 {
			writeError(w, http.StatusBadRequest, "score must be in [0,1]")
			return
		}
		result, err = s.engine.ReviewWithScore(id, *req.Score)
	}
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"schedule": toScheduleJSON(*result)})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "passageID")

	preview, err := s.engine.Preview(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"schedule": toPreviewJSON(preview)})
}

func (s *Server) handleDue(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if q := r.URL.Query().Get("as_of"); q != "" {
		t, err := time.Parse(dateFormat, q)
		if err != nil {
			t, err = time.Parse(time.RFC3339, q)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD or RFC3339")
			return
		}
		asOf = t
	}

	due, err := s.engine.Due(asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type dueJSON struct {
		passageJSON
		Review reviewStateJSON `json:"review"`
	}
	out := make([]dueJSON, len(due))
	for i := range due {
		out[i] = dueJSON{
			passageJSON: toPassageJSON(&due[i].Passage),
			Review:      toReviewStateJSON(&due[i].ReviewState),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"as_of": asOf.Format(dateFormat),
		"count": len(out),
		"due":   out,
	})
}

// writeStoreError maps ErrNotFound to 404 and everything else to 500.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "passage not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
