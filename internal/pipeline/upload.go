package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caddiecup/tour-series/internal/models"
)

// Store is the slice of the persistence layer the pipeline consumes. The
// gorm-backed implementation lives in internal/store; tests substitute a fake.
// Find methods return (nil, nil) when no record matches — absence is an
// answer here, not an error.
type Store interface {
	FindPlayerByToken(token string) (*models.Player, error)
	FindPlayerByDisplayName(name string) (*models.Player, error)
	FindPlayerByID(id uuid.UUID) (*models.Player, error)
	SearchPlayersByName(substring string) ([]models.Player, error)
	CreatePlayer(token, name string, club models.Club) (*models.Player, error)

	CreateTournament(t *models.Tournament) error
	DeleteTournament(id uuid.UUID) error
	CreateResults(results []models.Result) error
}

// UploadConfig is the tournament-level context the uploader supplies alongside
// the file. One upload creates exactly one tournament.
type UploadConfig struct {
	Name   string
	Date   time.Time
	Type   models.TournamentType
	Format models.ScoringFormat
	Par    int
}

// Outcome is what ProcessUpload (or a Resume) produces. Exactly one branch is
// set: either the upload committed (Tournament + Results), or it suspended
// awaiting player confirmation (Pending).
type Outcome struct {
	Tournament *models.Tournament
	Results    []models.Result
	Pending    *PendingUpload
}

// PlayerSuggestion describes one unresolved token for the caller to decide on:
// either map it to one of the fuzzy-match candidates or create a new player.
type PlayerSuggestion struct {
	Token         string          `json:"token"`
	SuggestedName string          `json:"suggested_name"`
	Club          models.Club     `json:"club"`
	Candidates    []models.Player `json:"candidates"` // close name matches, best effort
}

// PlayerResolution is the caller's decision for one token. Set PlayerID to
// map the token onto an existing player; leave it nil to create a new player
// with the given name and club (name defaults to the token itself).
type PlayerResolution struct {
	Token    string      `json:"token"`
	PlayerID *uuid.UUID  `json:"player_id"`
	Name     string      `json:"name"`
	Club     models.Club `json:"club"`
}

// PendingUpload is a suspended upload: every row validated, but one or more
// player tokens had no match in the store. Nothing has been persisted. The
// upload resumes via Resume once the caller supplies a resolution for every
// unresolved token, or is simply dropped to abandon it.
type PendingUpload struct {
	Unresolved []PlayerSuggestion

	cfg      UploadConfig
	entries  []*Entry
	resolved map[string]*models.Player
	log      *zap.Logger
}

// commitState tracks the validate-then-commit progression explicitly. There
// is no cross-entity transaction available from the store, so the tournament
// insert and the bulk result insert are separate commits with a compensating
// delete between them on failure.
type commitState int

const (
	statePending commitState = iota
	stateTournamentCommitted
	stateResultsCommitted
	stateRolledBack
)

func (s commitState) String() string {
	switch s {
	case stateTournamentCommitted:
		return "tournament_committed"
	case stateResultsCommitted:
		return "results_committed"
	case stateRolledBack:
		return "rolled_back"
	default:
		return "pending"
	}
}

// ProcessUpload runs the whole pipeline for one uploaded file: classify the
// header, normalize every row, interpret scores, resolve players, assign
// positions and points, and commit. Order matters — every validation runs
// before the first write, so a fatal error leaves the store untouched.
//
// Uploads are processed one at a time, start to finish; the pipeline has no
// internal parallelism and no shared state between calls.
//
// Returns ErrEmptyInput, ErrInvalidScore (wrapped), ErrDuplicatePlayer, or a
// suspended Outcome.Pending when new players need confirmation.
func ProcessUpload(store Store, rows [][]string, cfg UploadConfig, log *zap.Logger) (*Outcome, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	// The first row is a header only if the classifier recognizes something
	// in it. Headerless exports go straight to the fallback heuristics.
	normalizer := NewRowNormalizer(rows[0])
	dataRows := rows[1:]
	if normalizer.Tags().Empty() {
		normalizer = NewHeaderlessNormalizer()
		dataRows = rows
	}

	var raws []*RawEntry
	for i, row := range dataRows {
		if entry := normalizer.Normalize(row, i+1); entry != nil {
			raws = append(raws, entry)
		}
	}
	if len(raws) == 0 {
		return nil, ErrEmptyInput
	}

	// Interpret all rows before touching the store: a single bad score aborts
	// the entire upload.
	entries := make([]*Entry, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for i, raw := range raws {
		if seen[raw.PlayerToken] {
			return nil, fmt.Errorf("%w: %q appears more than once", ErrDuplicatePlayer, raw.PlayerToken)
		}
		seen[raw.PlayerToken] = true

		entry, err := InterpretScores(raw, cfg.Format, cfg.Par, raw.RawHandicap, log)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}

	// Resolve every token against the store: exact token match, then exact
	// display-name match, then fuzzy search. Fuzzy hits are never auto-mapped
	// — they become candidates on the suggestion and a human decides.
	resolved := make(map[string]*models.Player, len(entries))
	var unresolved []PlayerSuggestion
	for _, e := range entries {
		player, err := store.FindPlayerByToken(e.PlayerToken)
		if err != nil {
			return nil, fmt.Errorf("player lookup: %w", err)
		}
		if player == nil {
			player, err = store.FindPlayerByDisplayName(e.PlayerToken)
			if err != nil {
				return nil, fmt.Errorf("player lookup: %w", err)
			}
		}
		if player != nil {
			resolved[e.PlayerToken] = player
			continue
		}

		candidates, err := store.SearchPlayersByName(e.PlayerToken)
		if err != nil {
			return nil, fmt.Errorf("player search: %w", err)
		}
		suggestion := PlayerSuggestion{
			Token:         e.PlayerToken,
			SuggestedName: e.PlayerToken,
			Club:          models.ClubStoneridge,
			Candidates:    candidates,
		}
		if len(candidates) > 0 {
			suggestion.Club = candidates[0].Club
		}
		unresolved = append(unresolved, suggestion)
	}

	if len(unresolved) > 0 {
		log.Info("upload suspended for player confirmation",
			zap.String("tournament", cfg.Name),
			zap.Int("unresolved", len(unresolved)))
		return &Outcome{Pending: &PendingUpload{
			Unresolved: unresolved,
			cfg:        cfg,
			entries:    entries,
			resolved:   resolved,
			log:        log,
		}}, nil
	}

	return commit(store, cfg, entries, resolved, log)
}

// Resume completes a suspended upload once the caller has decided every
// unresolved token. New players are created here — this is the only place the
// pipeline ever creates a player, and it only runs after explicit
// confirmation.
func (p *PendingUpload) Resume(store Store, resolutions []PlayerResolution) (*Outcome, error) {
	byToken := make(map[string]PlayerResolution, len(resolutions))
	for _, r := range resolutions {
		byToken[r.Token] = r
	}

	for _, suggestion := range p.Unresolved {
		res, ok := byToken[suggestion.Token]
		if !ok {
			return nil, fmt.Errorf("no resolution supplied for player token %q", suggestion.Token)
		}

		if res.PlayerID != nil {
			player, err := store.FindPlayerByID(*res.PlayerID)
			if err != nil {
				return nil, fmt.Errorf("resolve player %s: %w", res.PlayerID, err)
			}
			if player == nil {
				return nil, fmt.Errorf("resolution for %q names unknown player %s", suggestion.Token, res.PlayerID)
			}
			p.resolved[suggestion.Token] = player
			continue
		}

		name := res.Name
		if name == "" {
			name = suggestion.SuggestedName
		}
		club := res.Club
		if club == "" {
			club = suggestion.Club
		}
		player, err := store.CreatePlayer(suggestion.Token, name, club)
		if err != nil {
			return nil, fmt.Errorf("create player %q: %w", suggestion.Token, err)
		}
		p.resolved[suggestion.Token] = player
	}

	return commit(store, p.cfg, p.entries, p.resolved, p.log)
}

// commit runs the two assignment passes and walks the commit state machine:
// Pending → TournamentCommitted → ResultsCommitted, or → RolledBack when the
// bulk result write fails after the tournament row exists. The compensating
// delete is best effort; if it also fails, both errors are logged and the
// original failure is what the caller sees.
func commit(store Store, cfg UploadConfig, entries []*Entry, resolved map[string]*models.Player, log *zap.Logger) (*Outcome, error) {
	AssignPositions(entries, cfg.Type, cfg.Format, PassGross)
	AssignPositions(entries, cfg.Type, cfg.Format, PassNet)

	state := statePending

	tournament := &models.Tournament{
		Name:   cfg.Name,
		Date:   cfg.Date,
		Type:   cfg.Type,
		Format: cfg.Format,
		Par:    cfg.Par,
	}
	if err := store.CreateTournament(tournament); err != nil {
		return nil, &PersistenceError{Op: "create tournament", Err: err}
	}
	state = stateTournamentCommitted

	results := make([]models.Result, 0, len(entries))
	for _, e := range entries {
		player := resolved[e.PlayerToken]
		results = append(results, models.Result{
			TournamentID:     tournament.ID,
			PlayerID:         player.ID,
			GrossScore:       e.GrossScore,
			NetScore:         e.NetScore,
			Handicap:         e.Handicap,
			GrossPosition:    e.GrossPosition,
			NetPosition:      e.NetPosition,
			GrossPoints:      e.GrossPoints,
			NetPoints:        e.NetPoints,
			GrossTiedPlayers: e.GrossTiedPlayers,
			NetTiedPlayers:   e.NetTiedPlayers,
		})
	}

	if err := store.CreateResults(results); err != nil {
		// Compensating action: the tournament row must not outlive its results.
		if delErr := store.DeleteTournament(tournament.ID); delErr != nil {
			log.Error("compensating tournament delete failed",
				zap.String("tournament_id", tournament.ID.String()),
				zap.Error(delErr))
		}
		state = stateRolledBack
		log.Error("upload rolled back",
			zap.String("tournament", cfg.Name),
			zap.String("state", state.String()),
			zap.Error(err))
		return nil, &PersistenceError{Op: "create results", Err: err}
	}
	state = stateResultsCommitted

	log.Info("upload committed",
		zap.String("tournament", cfg.Name),
		zap.String("state", state.String()),
		zap.Int("results", len(results)))

	return &Outcome{Tournament: tournament, Results: results}, nil
}
