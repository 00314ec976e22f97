// Package store is the Persistence Store: the gorm-backed implementation of
// every create/read/update/delete the pipeline and the HTTP handlers need.
// The pipeline itself depends only on the narrow pipeline.Store interface;
// *Store satisfies it, and the handlers use the wider surface directly.
//
// Lookup methods return (nil, nil) when no record matches. gorm reports
// absence as gorm.ErrRecordNotFound, but for player resolution "not found"
// is an expected answer on every new upload, not an error condition — so it
// is translated at this boundary once instead of at every call site.
package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddiecup/tour-series/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for the auth middleware, which manages the
// users table directly.
func (s *Store) DB() *gorm.DB { return s.db }

// --- Players ---

// FindPlayerByToken looks up a player by exact external token.
func (s *Store) FindPlayerByToken(token string) (*models.Player, error) {
	var player models.Player
	err := s.db.Where("external_token = ?", token).First(&player).Error
	return oneOrNil(&player, err)
}

// FindPlayerByDisplayName looks up a player by exact display name.
func (s *Store) FindPlayerByDisplayName(name string) (*models.Player, error) {
	var player models.Player
	err := s.db.Where("display_name = ?", name).First(&player).Error
	return oneOrNil(&player, err)
}

// FindPlayerByID looks up a player by primary key.
func (s *Store) FindPlayerByID(id uuid.UUID) (*models.Player, error) {
	var player models.Player
	err := s.db.First(&player, "id = ?", id).Error
	return oneOrNil(&player, err)
}

// SearchPlayersByName returns players whose display name contains the given
// substring, case-insensitively. Used to build fuzzy-match candidates during
// player confirmation.
func (s *Store) SearchPlayersByName(substring string) ([]models.Player, error) {
	var players []models.Player
	err := s.db.
		Where("display_name ILIKE ?", "%"+substring+"%").
		Order("display_name").
		Limit(10).
		Find(&players).Error
	return players, err
}

// ListPlayers returns every player, ordered by display name.
func (s *Store) ListPlayers() ([]models.Player, error) {
	var players []models.Player
	err := s.db.Order("display_name").Find(&players).Error
	return players, err
}

// CreatePlayer inserts a new player identity.
func (s *Store) CreatePlayer(token, name string, club models.Club) (*models.Player, error) {
	player := models.Player{
		ExternalToken: token,
		DisplayName:   name,
		Club:          club,
	}
	if err := s.db.Create(&player).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

// UpdatePlayer applies the non-nil fields to an existing player.
func (s *Store) UpdatePlayer(id uuid.UUID, name *string, club *models.Club) error {
	updates := map[string]any{}
	if name != nil {
		updates["display_name"] = *name
	}
	if club != nil {
		updates["club"] = *club
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.Model(&models.Player{}).Where("id = ?", id).Updates(updates).Error
}

// DeletePlayer removes a player. Admin-only surface; the pipeline never calls
// this.
func (s *Store) DeletePlayer(id uuid.UUID) error {
	return s.db.Delete(&models.Player{}, "id = ?", id).Error
}

// --- Tournaments ---

// CreateTournament inserts the tournament row and populates its generated ID.
func (s *Store) CreateTournament(t *models.Tournament) error {
	return s.db.Create(t).Error
}

// ListTournaments returns all tournaments, newest first.
func (s *Store) ListTournaments() ([]models.Tournament, error) {
	var tournaments []models.Tournament
	err := s.db.Order("date DESC").Find(&tournaments).Error
	return tournaments, err
}

// FindTournamentByID looks up a tournament by primary key.
func (s *Store) FindTournamentByID(id uuid.UUID) (*models.Tournament, error) {
	var t models.Tournament
	err := s.db.First(&t, "id = ?", id).Error
	return oneOrNil(&t, err)
}

// DeleteTournament removes a tournament row. Results cascade at the schema
// level, but callers that need the distinction use DeleteResultsByTournament
// explicitly first.
func (s *Store) DeleteTournament(id uuid.UUID) error {
	return s.db.Delete(&models.Tournament{}, "id = ?", id).Error
}

// --- Results ---

// CreateResults bulk-inserts one tournament's results in a single batch.
func (s *Store) CreateResults(results []models.Result) error {
	if len(results) == 0 {
		return nil
	}
	return s.db.Create(&results).Error
}

// GetResultsByTournament returns a tournament's results with players
// preloaded, ordered by gross position.
func (s *Store) GetResultsByTournament(id uuid.UUID) ([]models.Result, error) {
	var results []models.Result
	err := s.db.
		Preload("Player").
		Where("tournament_id = ?", id).
		Order("gross_position").
		Find(&results).Error
	return results, err
}

// GetResultsByPlayer returns every result one player has recorded.
func (s *Store) GetResultsByPlayer(id uuid.UUID) ([]models.Result, error) {
	var results []models.Result
	err := s.db.
		Preload("Tournament").
		Where("player_id = ?", id).
		Find(&results).Error
	return results, err
}

// AllResults returns every result with players preloaded — the season
// aggregator's input.
func (s *Store) AllResults() ([]models.Result, error) {
	var results []models.Result
	err := s.db.Preload("Player").Find(&results).Error
	return results, err
}

// DeleteResultsByTournament removes every result for one tournament.
func (s *Store) DeleteResultsByTournament(id uuid.UUID) error {
	return s.db.Delete(&models.Result{}, "tournament_id = ?", id).Error
}

// oneOrNil translates gorm's not-found error into a nil record.
func oneOrNil[T any](record *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}
