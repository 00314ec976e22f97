// This file handles the /api/v1/uploads routes — submitting a results file and
// confirming new players when an upload suspends.
//
// An upload is a two-step conversation when the sheet names people we've never
// seen: the first POST returns 202 with the unresolved tokens and fuzzy-match
// candidates, the caller decides each one, and the confirmation POST resumes
// the suspended pipeline. Nothing touches the database until every token is
// resolved and every row has validated.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caddiecup/tour-series/internal/models"
	"github.com/caddiecup/tour-series/internal/parse"
	"github.com/caddiecup/tour-series/internal/pipeline"
	"github.com/caddiecup/tour-series/internal/standings"
	"github.com/caddiecup/tour-series/internal/store"
	"github.com/caddiecup/tour-series/internal/websocket"
)

// PendingRegistry holds suspended uploads between the initial POST and the
// player-confirmation POST. In-memory on purpose: a pending upload holds no
// persisted state, so losing one on restart just means re-uploading the file.
type PendingRegistry struct {
	mu      sync.Mutex
	uploads map[uuid.UUID]*pipeline.PendingUpload
}

func NewPendingRegistry() *PendingRegistry {
	return &PendingRegistry{uploads: make(map[uuid.UUID]*pipeline.PendingUpload)}
}

// Add stores a suspended upload and returns its handle ID.
func (r *PendingRegistry) Add(p *pipeline.PendingUpload) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.uploads[id] = p
	return id
}

// Get returns a suspended upload without removing it — a failed resume (bad
// resolution payload) leaves the upload waiting for a corrected attempt.
func (r *PendingRegistry) Get(id uuid.UUID) (*pipeline.PendingUpload, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.uploads[id]
	return p, ok
}

// Remove drops a suspended upload after it completes (or is abandoned).
func (r *PendingRegistry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.uploads, id)
}

// Upload returns the handler for POST /api/v1/uploads.
// Expects multipart form data: the results file under "file" plus the
// tournament config fields (name, date, type, format, par).
// Responses:
//   - 201 with the tournament and results when the upload commits
//   - 202 with an upload_id and unresolved player suggestions when suspended
//   - 400/422 for validation failures (nothing persisted)
func Upload(st *store.Store, reg *PendingRegistry, cache *standings.Cache, hub *websocket.Hub, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg, err := uploadConfigFromForm(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "results file is required"})
		}

		parser, err := parse.ForFilename(fileHeader.Filename)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open uploaded file"})
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read uploaded file"})
		}

		rows, err := parser.Parse(data)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		outcome, err := pipeline.ProcessUpload(st, rows, *cfg, log)
		if err != nil {
			return uploadError(c, err)
		}

		if outcome.Pending != nil {
			id := reg.Add(outcome.Pending)
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"upload_id":  id.String(),
				"unresolved": outcome.Pending.Unresolved,
			})
		}

		finishCommit(outcome, cache, hub)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"tournament": outcome.Tournament,
			"results":    outcome.Results,
		})
	}
}

// ConfirmPlayersRequest is the JSON body for POST /api/v1/uploads/:id/players.
type ConfirmPlayersRequest struct {
	Resolutions []pipeline.PlayerResolution `json:"resolutions"`
}

// ConfirmPlayers returns the handler that resumes a suspended upload once the
// caller has decided every unresolved player token.
func ConfirmPlayers(st *store.Store, reg *PendingRegistry, cache *standings.Cache, hub *websocket.Hub, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid upload ID"})
		}

		pending, ok := reg.Get(id)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no pending upload with that ID"})
		}

		var req ConfirmPlayersRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		for _, res := range req.Resolutions {
			if res.Club != "" {
				if _, ok := models.ParseClub(string(res.Club)); !ok {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": fmt.Sprintf("unknown club %q", res.Club),
					})
				}
			}
		}

		outcome, err := pending.Resume(st, req.Resolutions)
		if err != nil {
			// The pending upload stays registered so the caller can retry with
			// a corrected payload.
			return uploadError(c, err)
		}

		reg.Remove(id)
		finishCommit(outcome, cache, hub)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"tournament": outcome.Tournament,
			"results":    outcome.Results,
		})
	}
}

// AbandonUpload returns the handler for DELETE /api/v1/uploads/:id — dropping
// a suspended upload without persisting anything.
func AbandonUpload(reg *PendingRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid upload ID"})
		}
		reg.Remove(id)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// finishCommit runs the post-commit bookkeeping shared by both commit paths:
// drop every cached leaderboard (they're stale now) and tell websocket
// subscribers to re-fetch.
func finishCommit(outcome *pipeline.Outcome, cache *standings.Cache, hub *websocket.Hub) {
	cache.Invalidate()

	notice := []byte(fmt.Sprintf(`{"event":"leaderboard_refresh","tournament_id":%q}`,
		outcome.Tournament.ID.String()))
	for _, board := range []standings.BoardType{standings.BoardGross, standings.BoardNet} {
		hub.BroadcastToBoard(string(board), notice)
		for _, club := range []models.Club{models.ClubStoneridge, models.ClubLakeview} {
			hub.BroadcastToBoard(string(board)+":"+string(club), notice)
		}
	}
}

// uploadConfigFromForm reads and validates the tournament config fields.
func uploadConfigFromForm(c *fiber.Ctx) (*pipeline.UploadConfig, error) {
	name := c.FormValue("name")
	if name == "" {
		return nil, errors.New("name is required")
	}

	date, err := time.Parse("2006-01-02", c.FormValue("date"))
	if err != nil {
		return nil, errors.New("date must be in YYYY-MM-DD format")
	}

	tier, ok := models.ParseTournamentType(c.FormValue("type"))
	if !ok {
		return nil, errors.New("type must be 'major', 'tour_event', 'league', or 'supr'")
	}

	format, ok := models.ParseScoringFormat(c.FormValue("format"))
	if !ok {
		return nil, errors.New("format must be 'stroke', 'stableford', or 'points'")
	}

	par := 72
	if v := c.FormValue("par"); v != "" {
		par, err = strconv.Atoi(v)
		if err != nil || par <= 0 {
			return nil, errors.New("par must be a positive integer")
		}
	}

	return &pipeline.UploadConfig{
		Name:   name,
		Date:   date,
		Type:   tier,
		Format: format,
		Par:    par,
	}, nil
}

// uploadError maps pipeline errors onto HTTP statuses. Validation problems are
// the caller's to fix (422); persistence failures are ours (500, already
// rolled back by the pipeline).
func uploadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, pipeline.ErrEmptyInput),
		errors.Is(err, pipeline.ErrInvalidScore),
		errors.Is(err, pipeline.ErrDuplicatePlayer):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, pipeline.ErrPersistenceFailure):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save results; upload rolled back"})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
}
