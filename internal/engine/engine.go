package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/versewalk/versewalk/internal/srs"
	"github.com/versewalk/versewalk/internal/store"
	"github.com/versewalk/versewalk/internal/textmatch"
)

// ErrInvalidInput marks validation failures on caller-supplied fields, so
// transport layers can map them to a client error instead of a server one.
var ErrInvalidInput = errors.New("invalid input")

// Engine orchestrates passage creation, attempt grading, and scheduling
// over the store. All algorithmic work is delegated to the pure textmatch
// and srs packages; the engine owns persistence and logging.
type Engine struct {
	db     *store.DB
	log    *zap.Logger
	params textmatch.MatcherParams

	// Now is the clock used for scheduling. Overridable in tests.
	Now func() time.Time
}

// New creates an Engine with default matcher parameters.
func New(db *store.DB, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		db:     db,
		log:    logger,
		params: textmatch.DefaultParams(),
		Now:    time.Now,
	}
}

// CreatedPassage is the result of creating a passage: the stored row plus
// its preview schedule.
type CreatedPassage struct {
	Passage *store.Passage
	Preview []srs.PreviewEntry
}

// CreatePassage segments the body, derives a difficulty tier from the clause
// count, persists the passage with a fresh review state due tomorrow, and
// returns the preview schedule for that tier.
func (e *Engine) CreatePassage(reference, body string, keywords []string) (*CreatedPassage, error) {
	if reference == "" {
		return nil, errors.Wrap(ErrInvalidInput, "reference required")
	}
	if textmatch.Normalize(body) == "" {
		return nil, errors.Wrap(ErrInvalidInput, "passage text required")
	}

	segments := textmatch.Segment(body)
	difficulty := srs.DifficultyForSegments(len(segments))
	now := e.Now()

	p := &store.Passage{
		ID:           uuid.NewString(),
		Reference:    reference,
		Body:         body,
		Keywords:     keywords,
		Difficulty:   string(difficulty),
		SegmentCount: len(segments),
	}

	initial := srs.NewState()
	rs := &store.ReviewState{
		Repetition:   initial.Repetition,
		EaseFactor:   initial.EaseFactor,
		IntervalDays: initial.IntervalDays,
		NextReviewAt: dateMillis(now.AddDate(0, 0, initial.IntervalDays)),
	}

	if err := e.db.CreatePassage(p, rs); err != nil {
		return nil, errors.Wrap(err, "create passage")
	}

	e.log.Info("passage created",
		zap.String("id", p.ID),
		zap.String("reference", reference),
		zap.String("difficulty", string(difficulty)),
		zap.Int("segments", len(segments)))

	return &CreatedPassage{
		Passage: p,
		Preview: srs.BuildPreview(difficulty, now),
	}, nil
}

// AttemptResult bundles an attempt's evaluation with the schedule it
// produced.
type AttemptResult struct {
	Evaluation Evaluation
	Schedule   srs.Result
}

// SubmitAttempt grades attemptText against the passage and advances the
// review state with the resulting quality. The previous state is read,
// advanced, and written inside one store transaction so that interleaved
// submissions for the same passage cannot lose an advance.
func (e *Engine) SubmitAttempt(passageID, attemptText string) (*AttemptResult, error) {
	p, err := e.db.GetPassage(passageID)
	if err != nil {
		return nil, errors.Wrap(err, "load passage")
	}

	eval := Evaluate(p.Body, attemptText, p.Keywords, e.params)

	attempt := &store.Attempt{
		ID:            uuid.NewString(),
		PassageID:     passageID,
		AttemptText:   attemptText,
		Score:         eval.Score,
		Quality:       eval.Quality,
		MatchedCount:  eval.Details.MatchedCount,
		PartialCount:  eval.Details.PartialMatches,
		TotalSegments: eval.Details.TotalSegments,
		Feedback:      eval.Feedback,
	}

	var result srs.Result
	if _, err := e.db.AdvanceReview(passageID, attempt, func(cur store.ReviewState) store.ReviewState {
		result = srs.NextReview(eval.Quality, stateFromStore(cur), e.Now())
		return resultState(result)
	}); err != nil {
		return nil, errors.Wrap(err, "record attempt")
	}

	e.log.Info("attempt recorded",
		zap.String("passage", passageID),
		zap.Float64("score", eval.Score),
		zap.Int("quality", eval.Quality),
		zap.Int("interval_days", result.IntervalDays))

	return &AttemptResult{Evaluation: eval, Schedule: result}, nil
}

// ReviewWithQuality advances the review state from an externally graded
// quality in [0,5] without recording an attempt body.
func (e *Engine) ReviewWithQuality(passageID string, quality int) (*srs.Result, error) {
	var result srs.Result
	if _, err := e.db.AdvanceReview(passageID, nil, func(cur store.ReviewState) store.ReviewState {
		result = srs.NextReview(quality, stateFromStore(cur), e.Now())
		return resultState(result)
	}); err != nil {
		return nil, errors.Wrap(err, "advance review")
	}

	e.log.Info("review recorded",
		zap.String("passage", passageID),
		zap.Int("quality", quality),
		zap.Int("interval_days", result.IntervalDays))

	return &result, nil
}

// ReviewWithScore converts a session score in [0,1] to a quality and
// delegates to ReviewWithQuality.
func (e *Engine) ReviewWithScore(passageID string, score float64) (*srs.Result, error) {
	return e.ReviewWithQuality(passageID, srs.ScoreToQuality(score))
}

// Preview regenerates the fixed preview schedule for a passage's tier,
// anchored at its creation date.
func (e *Engine) Preview(passageID string) ([]srs.PreviewEntry, error) {
	p, err := e.db.GetPassage(passageID)
	if err != nil {
		return nil, errors.Wrap(err, "load passage")
	}
	tier, err := srs.ParseDifficulty(p.Difficulty)
	if err != nil {
		return nil, err
	}
	return srs.BuildPreview(tier, time.UnixMilli(p.CreatedAt)), nil
}

// Due returns the passages due for review at the given time.
func (e *Engine) Due(asOf time.Time) ([]store.DuePassage, error) {
	due, err := e.db.DueReviews(asOf.UnixMilli())
	return due, errors.Wrap(err, "due reviews")
}

// History returns a passage's recent attempts.
func (e *Engine) History(passageID string, limit int) ([]store.Attempt, error) {
	attempts, err := e.db.ListAttempts(passageID, limit)
	return attempts, errors.Wrap(err, "list attempts")
}

// Stats returns aggregate attempt stats for a passage.
func (e *Engine) Stats(passageID string) (*store.AttemptStats, error) {
	stats, err := e.db.GetAttemptStats(passageID)
	return stats, errors.Wrap(err, "attempt stats")
}

func stateFromStore(rs store.ReviewState) srs.State {
	return srs.State{
		Repetition:   rs.Repetition,
		EaseFactor:   rs.EaseFactor,
		IntervalDays: rs.IntervalDays,
	}
}

// resultState converts the scheduler output to a storable state.
func resultState(r srs.Result) store.ReviewState {
	return store.ReviewState{
		Repetition:   r.Repetition,
		EaseFactor:   r.EaseFactor,
		IntervalDays: r.IntervalDays,
		NextReviewAt: r.NextReviewAt.UnixMilli(),
	}
}

// dateMillis truncates t to local midnight and returns unix milliseconds.
func dateMillis(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).UnixMilli()
}
