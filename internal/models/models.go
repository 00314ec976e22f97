// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go values.
// The struct field tags (the backtick strings like `gorm:"..."`) tell GORM how to handle
// each field: its column type, constraints, default values, and relationships.
//
// The data model represents a two-club tour series where:
//   - Tournaments are created from spreadsheet uploads (one upload = one tournament)
//   - Players are durable identities resolved from whatever name appears in the sheet
//   - Results hold one row per (tournament, player) with gross and net standings
//   - Users are the operators of the platform (admins/managers), separate from Players
//
// Players and Users are deliberately different things: a Player is whoever shows up
// in an uploaded results sheet (they may never log in); a User is someone who can
// authenticate and manage uploads. Conflating them would force every sheet name to
// have an account, which uploads from third-party scoring apps can't guarantee.
package models

import (
	"time"

	// uuid provides universally unique identifiers for primary keys.
	// Using UUIDs instead of auto-incrementing integers makes IDs safe to generate
	// client-side and avoids leaking record counts to end users.
	"github.com/google/uuid"
)

// --- Enums ---
// Go doesn't have a built-in enum keyword, so we simulate them using a named string type
// plus constants. This gives us type safety — you can't accidentally pass a Club
// where a TournamentType is expected — while keeping the values human-readable in
// the database.

// UserRole represents an operator's permission level across the platform.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"   // Full access: manage players, tournaments, everything
	UserRoleManager UserRole = "manager" // Can upload results and manage tournaments
	UserRoleUser    UserRole = "user"    // Read-only: can view leaderboards and results
)

// Club identifies which of the two member clubs a player belongs to.
// The series is contested between exactly two clubs; the leaderboard can be
// filtered to either one.
type Club string

const (
	ClubStoneridge Club = "stoneridge"
	ClubLakeview   Club = "lakeview"
)

// TournamentType is the tier of a tournament. The tier determines which points
// curve applies when finishing positions are converted to season points.
type TournamentType string

const (
	TournamentTypeMajor  TournamentType = "major"      // Flagship events; steepest points curve
	TournamentTypeTour   TournamentType = "tour_event" // Regular tour stops
	TournamentTypeLeague TournamentType = "league"     // Weekly league nights; shallow curve, no fallback points
	TournamentTypeSUPR   TournamentType = "supr"       // SUPR simulator rounds; points usually come straight from the app
)

// ScoringFormat describes how the uploaded scores are to be interpreted.
// The same numeric cell means different things under different formats
// (strokes relative to par vs. Stableford points vs. direct season points).
type ScoringFormat string

const (
	ScoringFormatStroke     ScoringFormat = "stroke"     // Score cells are strokes relative to par; lower is better
	ScoringFormatStableford ScoringFormat = "stableford" // Score cells are Stableford points; higher is better
	ScoringFormatPoints     ScoringFormat = "points"     // Season points are supplied directly; no score math at all
)

// --- Models ---
// Each struct below maps to a database table. GORM uses the struct name (snake_cased and
// pluralized) as the table name by default: User -> users, Player -> players, etc.

// User represents a platform operator (someone who can log in).
// Users are created automatically the first time a Clerk-authenticated user hits the API.
// The ClerkID links our internal record to Clerk's identity system.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"` // UUID primary key; the DB generates it automatically
	ClerkID     *string   `gorm:"uniqueIndex:idx_users_clerk_id"`                 // Clerk's user ID (e.g. "user_2abc123"); pointer = nullable for legacy rows
	DisplayName string    `gorm:"not null"`                                       // The name shown in the app; populated from the Clerk JWT "name" claim
	Email       string    `gorm:"uniqueIndex;not null"`                           // Unique email; populated from the Clerk JWT "email" claim
	Role        UserRole  `gorm:"type:user_role;not null;default:'user'"`         // Synced from Clerk publicMetadata via the JWT "role" claim
	CreatedAt   time.Time // GORM automatically sets this on create
	UpdatedAt   time.Time // GORM automatically updates this on every save
}

// Player is a durable competitor identity. Players are created the first time a
// new external token (the name string from a results sheet) is sighted during
// upload processing — and only after the uploader has confirmed the mapping.
// The pipeline never deletes players; removal is an explicit admin action.
//
// ExternalToken is the exact, opaque string the scoring source uses for this
// person ("T. Anderson", "tanderson42", ...). DisplayName is what we show.
// Keeping both means a sheet that uses the token again resolves instantly,
// while the UI stays readable.
type Player struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ExternalToken string    `gorm:"uniqueIndex;not null"` // Opaque source identifier; unique across the platform
	DisplayName   string    `gorm:"not null"`
	Club          Club      `gorm:"type:club;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Tournament is one competition, created from exactly one upload.
// The row is only written after every row of the upload has validated —
// a failed upload must leave no tournament behind (see the pipeline's
// commit state machine).
type Tournament struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"not null"`
	Date      time.Time      `gorm:"not null"`
	Type      TournamentType `gorm:"type:tournament_type;not null"` // Tier: selects the points curve
	Format    ScoringFormat  `gorm:"type:scoring_format;not null"`  // How score cells are interpreted
	Par       int            `gorm:"not null;default:72"`           // Course par; anchor for stroke-play score math
	CreatedAt time.Time
	UpdatedAt time.Time
	Results   []Result `gorm:"foreignKey:TournamentID"` // One row per player who appeared in the upload
}

// Result is one player's outcome in one tournament. Unique per
// (tournament, player) — a sheet listing the same person twice is a data
// error upstream and the unique index makes it fail loudly here.
//
// Gross and net standings are computed by two fully independent assignment
// passes, so every gross/net pair of fields is stored separately — including
// the tie-group sizes. (Sharing one tied_players column between the two
// passes would make the stored value depend on pass order.)
type Result struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TournamentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_tournament_player"` // Combined unique index with PlayerID
	Tournament   Tournament `gorm:"foreignKey:TournamentID"`
	PlayerID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_tournament_player"`
	Player       Player     `gorm:"foreignKey:PlayerID"`

	GrossScore float64 `gorm:"not null"` // Unadjusted score (strokes, or Stableford minus handicap)
	NetScore   float64 `gorm:"not null"` // Handicap-adjusted score
	Handicap   float64 `gorm:"not null;default:0"`

	GrossPosition    int     `gorm:"not null"` // 1-based finishing position in the gross standings
	NetPosition      int     `gorm:"not null"`
	GrossPoints      float64 `gorm:"not null"` // Season points from the tier's curve (or supplied directly)
	NetPoints        float64 `gorm:"not null"`
	GrossTiedPlayers int     `gorm:"not null;default:1"` // Size of the gross tie group this result belongs to (>= 1)
	NetTiedPlayers   int     `gorm:"not null;default:1"` // Size of the net tie group; independent of the gross group

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParseClub converts a raw string into a Club, reporting whether it named one
// of the two known clubs. Used when reading club values from requests and
// player-confirmation payloads.
func ParseClub(s string) (Club, bool) {
	switch Club(s) {
	case ClubStoneridge, ClubLakeview:
		return Club(s), true
	}
	return "", false
}

// ParseTournamentType validates a raw tier string.
func ParseTournamentType(s string) (TournamentType, bool) {
	switch TournamentType(s) {
	case TournamentTypeMajor, TournamentTypeTour, TournamentTypeLeague, TournamentTypeSUPR:
		return TournamentType(s), true
	}
	return "", false
}

// ParseScoringFormat validates a raw format string.
func ParseScoringFormat(s string) (ScoringFormat, bool) {
	switch ScoringFormat(s) {
	case ScoringFormatStroke, ScoringFormatStableford, ScoringFormatPoints:
		return ScoringFormat(s), true
	}
	return "", false
}
