package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/caddiecup/tour-series/internal/models"
)

// fakeStore is an in-memory Store for pipeline tests. Failure flags let tests
// force specific writes to fail and observe the rollback behavior.
type fakeStore struct {
	players map[string]*models.Player // keyed by external token

	tournaments        []*models.Tournament
	results            [][]models.Result
	deletedTournaments []uuid.UUID

	failCreateTournament bool
	failCreateResults    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{players: make(map[string]*models.Player)}
}

func (s *fakeStore) addPlayer(token, name string, club models.Club) *models.Player {
	p := &models.Player{ID: uuid.New(), ExternalToken: token, DisplayName: name, Club: club}
	s.players[token] = p
	return p
}

func (s *fakeStore) FindPlayerByToken(token string) (*models.Player, error) {
	return s.players[token], nil
}

func (s *fakeStore) FindPlayerByDisplayName(name string) (*models.Player, error) {
	for _, p := range s.players {
		if p.DisplayName == name {
			return p, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindPlayerByID(id uuid.UUID) (*models.Player, error) {
	for _, p := range s.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SearchPlayersByName(substring string) ([]models.Player, error) {
	return nil, nil
}

func (s *fakeStore) CreatePlayer(token, name string, club models.Club) (*models.Player, error) {
	return s.addPlayer(token, name, club), nil
}

func (s *fakeStore) CreateTournament(t *models.Tournament) error {
	if s.failCreateTournament {
		return errors.New("connection refused")
	}
	t.ID = uuid.New()
	s.tournaments = append(s.tournaments, t)
	return nil
}

func (s *fakeStore) DeleteTournament(id uuid.UUID) error {
	s.deletedTournaments = append(s.deletedTournaments, id)
	return nil
}

func (s *fakeStore) CreateResults(results []models.Result) error {
	if s.failCreateResults {
		return errors.New("connection refused")
	}
	s.results = append(s.results, results)
	return nil
}

func testConfig(format models.ScoringFormat) UploadConfig {
	return UploadConfig{
		Name:   "Spring Open",
		Date:   time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC),
		Type:   models.TournamentTypeTour,
		Format: format,
		Par:    72,
	}
}

func TestProcessUploadCommits(t *testing.T) {
	st := newFakeStore()
	st.addPlayer("Tom Anderson", "Tom Anderson", models.ClubStoneridge)
	st.addPlayer("Sue Park", "Sue Park", models.ClubLakeview)

	rows := [][]string{
		{"Name", "Score"},
		{"Tom Anderson", "-2"},
		{"Sue Park", "+1"},
	}

	outcome, err := ProcessUpload(st, rows, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.NoError(t, err)
	require.Nil(t, outcome.Pending)
	require.NotNil(t, outcome.Tournament)
	require.Len(t, st.tournaments, 1)
	require.Len(t, outcome.Results, 2)

	byPlayer := make(map[uuid.UUID]models.Result)
	for _, r := range outcome.Results {
		byPlayer[r.PlayerID] = r
		require.Equal(t, outcome.Tournament.ID, r.TournamentID)
	}

	tom := byPlayer[st.players["Tom Anderson"].ID]
	require.Equal(t, 1, tom.GrossPosition)
	require.Equal(t, 70.0, tom.GrossScore)
	require.Equal(t, 500.0, tom.GrossPoints)

	sue := byPlayer[st.players["Sue Park"].ID]
	require.Equal(t, 2, sue.GrossPosition)
	require.Equal(t, 300.0, sue.GrossPoints)
}

func TestProcessUploadHeaderlessRows(t *testing.T) {
	st := newFakeStore()
	st.addPlayer("Eric Moore", "Eric Moore", models.ClubStoneridge)

	// No recognizable header: every row is data, including the first.
	rows := [][]string{
		{"Eric Moore", "72", "1"},
	}

	outcome, err := ProcessUpload(st, rows, testConfig(models.ScoringFormatStableford), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, outcome.Results, 1)
	require.Equal(t, 72.0, outcome.Results[0].NetScore)
}

func TestProcessUploadEmptyInput(t *testing.T) {
	st := newFakeStore()

	_, err := ProcessUpload(st, nil, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.ErrorIs(t, err, ErrEmptyInput)

	// A header with nothing under it is just as empty.
	_, err = ProcessUpload(st, [][]string{{"Name", "Score"}}, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.ErrorIs(t, err, ErrEmptyInput)
	require.Empty(t, st.tournaments)
}

func TestProcessUploadDuplicatePlayer(t *testing.T) {
	st := newFakeStore()
	st.addPlayer("Tom Anderson", "Tom Anderson", models.ClubStoneridge)

	rows := [][]string{
		{"Name", "Score"},
		{"Tom Anderson", "-2"},
		{"Tom Anderson", "+4"},
	}

	_, err := ProcessUpload(st, rows, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.ErrorIs(t, err, ErrDuplicatePlayer)
	require.Empty(t, st.tournaments)
	require.Empty(t, st.results)
}

func TestProcessUploadInvalidScoreLeavesStoreUntouched(t *testing.T) {
	st := newFakeStore()
	st.addPlayer("Tom Anderson", "Tom Anderson", models.ClubStoneridge)
	st.addPlayer("Sue Park", "Sue Park", models.ClubLakeview)

	rows := [][]string{
		{"Name", "Score"},
		{"Tom Anderson", "-2"},
		{"Sue Park", "DNF"},
	}

	_, err := ProcessUpload(st, rows, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.ErrorIs(t, err, ErrInvalidScore)
	require.Empty(t, st.tournaments)
	require.Empty(t, st.results)
}

func TestProcessUploadRollsBackTournament(t *testing.T) {
	st := newFakeStore()
	st.addPlayer("Tom Anderson", "Tom Anderson", models.ClubStoneridge)
	st.failCreateResults = true

	rows := [][]string{
		{"Name", "Score"},
		{"Tom Anderson", "-2"},
	}

	_, err := ProcessUpload(st, rows, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.ErrorIs(t, err, ErrPersistenceFailure)

	// The tournament row was created and then compensated away.
	require.Len(t, st.tournaments, 1)
	require.Len(t, st.deletedTournaments, 1)
	require.Equal(t, st.tournaments[0].ID, st.deletedTournaments[0])
	require.Empty(t, st.results)
}

func TestProcessUploadTournamentCreateFails(t *testing.T) {
	st := newFakeStore()
	st.addPlayer("Tom Anderson", "Tom Anderson", models.ClubStoneridge)
	st.failCreateTournament = true

	rows := [][]string{
		{"Name", "Score"},
		{"Tom Anderson", "-2"},
	}

	_, err := ProcessUpload(st, rows, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.ErrorIs(t, err, ErrPersistenceFailure)
	require.Empty(t, st.deletedTournaments) // nothing to compensate
}

func TestProcessUploadSuspendsForNewPlayers(t *testing.T) {
	st := newFakeStore()
	st.addPlayer("Tom Anderson", "Tom Anderson", models.ClubStoneridge)

	rows := [][]string{
		{"Name", "Score"},
		{"Tom Anderson", "-2"},
		{"New Guy", "+3"},
	}

	outcome, err := ProcessUpload(st, rows, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, outcome.Pending)
	require.Nil(t, outcome.Tournament)
	require.Empty(t, st.tournaments) // nothing persisted while suspended

	require.Len(t, outcome.Pending.Unresolved, 1)
	require.Equal(t, "New Guy", outcome.Pending.Unresolved[0].Token)
}

func TestResumeCreatesConfirmedPlayers(t *testing.T) {
	st := newFakeStore()
	st.addPlayer("Tom Anderson", "Tom Anderson", models.ClubStoneridge)

	rows := [][]string{
		{"Name", "Score"},
		{"Tom Anderson", "-2"},
		{"New Guy", "+3"},
	}

	outcome, err := ProcessUpload(st, rows, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, outcome.Pending)

	final, err := outcome.Pending.Resume(st, []PlayerResolution{
		{Token: "New Guy", Name: "Nigel Guyton", Club: models.ClubLakeview},
	})
	require.NoError(t, err)
	require.Nil(t, final.Pending)
	require.Len(t, final.Results, 2)
	require.Len(t, st.tournaments, 1)

	created := st.players["New Guy"]
	require.NotNil(t, created)
	require.Equal(t, "Nigel Guyton", created.DisplayName)
	require.Equal(t, models.ClubLakeview, created.Club)
}

func TestResumeMapsToExistingPlayer(t *testing.T) {
	st := newFakeStore()
	st.addPlayer("Tom Anderson", "Tom Anderson", models.ClubStoneridge)
	existing := st.addPlayer("tanderson42", "Tommy A", models.ClubLakeview)

	rows := [][]string{
		{"Name", "Score"},
		{"Tom Anderson", "-2"},
		{"Mystery Player", "+3"},
	}

	outcome, err := ProcessUpload(st, rows, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, outcome.Pending)

	final, err := outcome.Pending.Resume(st, []PlayerResolution{
		{Token: "Mystery Player", PlayerID: &existing.ID},
	})
	require.NoError(t, err)

	var playerIDs []uuid.UUID
	for _, r := range final.Results {
		playerIDs = append(playerIDs, r.PlayerID)
	}
	require.Contains(t, playerIDs, existing.ID)
}

func TestResumeRejectsMissingResolution(t *testing.T) {
	st := newFakeStore()

	rows := [][]string{
		{"Name", "Score"},
		{"New Guy", "+3"},
	}

	outcome, err := ProcessUpload(st, rows, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, outcome.Pending)

	_, err = outcome.Pending.Resume(st, nil)
	require.Error(t, err)
	require.Empty(t, st.tournaments)
}

func TestProcessUploadResolvesByDisplayName(t *testing.T) {
	st := newFakeStore()
	// Registered under a different token; the sheet uses the display name.
	st.addPlayer("tanderson42", "Tom Anderson", models.ClubStoneridge)

	rows := [][]string{
		{"Name", "Score"},
		{"Tom Anderson", "-2"},
	}

	outcome, err := ProcessUpload(st, rows, testConfig(models.ScoringFormatStroke), zap.NewNop())
	require.NoError(t, err)
	require.Nil(t, outcome.Pending)
	require.Equal(t, st.players["tanderson42"].ID, outcome.Results[0].PlayerID)
}
