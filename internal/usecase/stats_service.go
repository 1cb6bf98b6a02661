package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rzldimam28/score-predictor/internal/domain/matchrecord"
	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/playerstats"
	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
	"github.com/rzldimam28/score-predictor/internal/domain/standing"
	"github.com/rzldimam28/score-predictor/internal/domain/teamstats"
	"github.com/rzldimam28/score-predictor/internal/domain/tier"
	"github.com/rzldimam28/score-predictor/internal/platform/cache"
)

const (
	profileCacheKeyPrefix     = "stats:profile:"
	teamProfileCacheKeyPrefix = "stats:team-profile:"
	leagueAveragesCacheKey    = "stats:league-averages"

	// fallbackGoalsPerGame is used as the per-team scoring baseline when
	// no standings snapshot exists yet.
	fallbackGoalsPerGame = 1.4

	// outlierMinSample is the smallest qualifying sample on which a
	// standard deviation is worth trusting for the outlier cap.
	outlierMinSample = 5

	// teamGoalsCap bounds the per-fixture goal estimate reconstructed
	// from player records, which can over-count shared involvement.
	teamGoalsCap = 5
)

// StatsService builds per-player statistical profiles and league-wide
// averages from the immutable match history. Profiles are rebuilt from
// scratch on every load and swapped through the cache wholesale, so a
// reader never sees a half-updated aggregate.
type StatsService struct {
	recordRepo   matchrecord.Repository
	playerRepo   player.Repository
	standingRepo standing.Repository
	bands        tier.Bands
	params       prediction.Params
	store        *cache.Store
}

func NewStatsService(
	recordRepo matchrecord.Repository,
	playerRepo player.Repository,
	standingRepo standing.Repository,
	bands tier.Bands,
	params prediction.Params,
	store *cache.Store,
) *StatsService {
	return &StatsService{
		recordRepo:   recordRepo,
		playerRepo:   playerRepo,
		standingRepo: standingRepo,
		bands:        bands,
		params:       params,
		store:        store,
	}
}

// ProfileFor aggregates one player's history into a profile. Players whose
// qualifying sample is below the configured minimum fail with
// ErrInsufficientData; callers fall back to LeagueProfile.
func (s *StatsService) ProfileFor(ctx context.Context, pl player.Player) (playerstats.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "StatsService.ProfileFor")
	defer span.End()

	if pl.ID == "" {
		return playerstats.Profile{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	value, err := s.store.GetOrLoad(ctx, profileCacheKeyPrefix+pl.ID, func(ctx context.Context) (any, error) {
		records, err := s.recordRepo.ListByPlayer(ctx, pl.ID)
		if err != nil {
			return nil, fmt.Errorf("list match records for player %s: %w", pl.ID, err)
		}
		return buildProfile(pl, records, s.bands, s.params), nil
	})
	if err != nil {
		return playerstats.Profile{}, err
	}

	profile := value.(playerstats.Profile)
	if profile.Games < s.params.MinSampleGames {
		return profile, fmt.Errorf("%w: player %s has %d qualifying games, need %d",
			ErrInsufficientData, pl.ID, profile.Games, s.params.MinSampleGames)
	}

	return profile, nil
}

// ProfilesFor aggregates profiles for a batch of players in one history
// read. Thin samples are returned as-is; the caller decides per player
// whether to fall back.
func (s *StatsService) ProfilesFor(ctx context.Context, players []player.Player) (map[string]playerstats.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "StatsService.ProfilesFor")
	defer span.End()

	if len(players) == 0 {
		return map[string]playerstats.Profile{}, nil
	}

	ids := make([]string, 0, len(players))
	for _, pl := range players {
		if pl.ID == "" {
			return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
		}
		ids = append(ids, pl.ID)
	}

	byPlayer, err := s.recordRepo.ListByPlayers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list match records for %d players: %w", len(ids), err)
	}

	profiles := make(map[string]playerstats.Profile, len(players))
	for _, pl := range players {
		profile := buildProfile(pl, byPlayer[pl.ID], s.bands, s.params)
		profiles[pl.ID] = profile
		s.store.Set(ctx, profileCacheKeyPrefix+pl.ID, profile)
	}

	return profiles, nil
}

// TeamProfileFor aggregates one team's fixtures into a tier-split
// record of goals for, goals against, and clean sheets, approximated
// from its players' appearance data.
func (s *StatsService) TeamProfileFor(ctx context.Context, teamID string) (teamstats.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "StatsService.TeamProfileFor")
	defer span.End()

	if teamID == "" {
		return teamstats.Profile{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	value, err := s.store.GetOrLoad(ctx, teamProfileCacheKeyPrefix+teamID, func(ctx context.Context) (any, error) {
		records, err := s.recordRepo.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("list match records for team %s: %w", teamID, err)
		}
		return buildTeamProfile(teamID, records, s.bands, s.params), nil
	})
	if err != nil {
		return teamstats.Profile{}, err
	}

	return value.(teamstats.Profile), nil
}

// LeagueAverages computes position-level mean rates across every player
// with a qualifying sample, plus the league scoring baseline from the
// latest standings snapshot.
func (s *StatsService) LeagueAverages(ctx context.Context) (playerstats.LeagueAverages, error) {
	ctx, span := startUsecaseSpan(ctx, "StatsService.LeagueAverages")
	defer span.End()

	value, err := s.store.GetOrLoad(ctx, leagueAveragesCacheKey, func(ctx context.Context) (any, error) {
		return s.computeLeagueAverages(ctx)
	})
	if err != nil {
		return playerstats.LeagueAverages{}, err
	}

	return value.(playerstats.LeagueAverages), nil
}

// LeagueProfile synthesises a profile from league-wide positional rates,
// used when a player's own history is too thin to trust.
func (s *StatsService) LeagueProfile(pl player.Player, averages playerstats.LeagueAverages) playerstats.Profile {
	return playerstats.Profile{
		PlayerID:       pl.ID,
		Position:       pl.Position,
		Games:          0,
		MinutesPerGame: averages.MinutesPerGame,
		Overall:        averages.RatesFor(pl.Position),
		PerTier:        map[int]playerstats.TierSplit{},
		LeagueAverage:  true,
	}
}

// Invalidate drops every cached aggregate, forcing recomputation on the
// next read. Called after a match record ingest or standings refresh.
func (s *StatsService) Invalidate(ctx context.Context) {
	s.store.DeletePrefix(ctx, profileCacheKeyPrefix)
	s.store.DeletePrefix(ctx, teamProfileCacheKeyPrefix)
	s.store.Delete(ctx, leagueAveragesCacheKey)
}

// IngestRecords persists a batch of finished-match appearances and
// invalidates derived aggregates.
func (s *StatsService) IngestRecords(ctx context.Context, records []matchrecord.Record) error {
	ctx, span := startUsecaseSpan(ctx, "StatsService.IngestRecords")
	defer span.End()

	if len(records) == 0 {
		return fmt.Errorf("%w: at least one match record is required", ErrInvalidInput)
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrInvalidInput, i, err)
		}
	}

	if err := s.recordRepo.UpsertBatch(ctx, records); err != nil {
		return fmt.Errorf("upsert %d match records: %w", len(records), err)
	}

	s.Invalidate(ctx)
	return nil
}

func (s *StatsService) computeLeagueAverages(ctx context.Context) (playerstats.LeagueAverages, error) {
	players, err := s.playerRepo.ListAll(ctx)
	if err != nil {
		return playerstats.LeagueAverages{}, fmt.Errorf("list players: %w", err)
	}
	positionOf := make(map[string]player.Position, len(players))
	for _, pl := range players {
		positionOf[pl.ID] = pl.Position
	}

	records, err := s.recordRepo.ListAll(ctx)
	if err != nil {
		return playerstats.LeagueAverages{}, fmt.Errorf("list match records: %w", err)
	}

	type bucket struct {
		games int
		sums  playerstats.Rates
	}
	buckets := make(map[player.Position]*bucket, len(player.AllPositions))
	for pos := range player.AllPositions {
		buckets[pos] = &bucket{}
	}

	totalMinutes := 0
	qualifying := 0
	for _, rec := range records {
		if rec.Minutes < s.params.MinMinutes {
			continue
		}
		pos, ok := positionOf[rec.PlayerID]
		if !ok {
			continue
		}
		b := buckets[pos]
		b.games++
		accumulate(&b.sums, rec, s.params.CleanSheetMinutes)
		totalMinutes += rec.Minutes
		qualifying++
	}

	averages := playerstats.LeagueAverages{
		ByPosition:   make(map[player.Position]playerstats.Rates, len(buckets)),
		GoalsPerGame: fallbackGoalsPerGame,
	}
	for pos, b := range buckets {
		if b.games == 0 {
			averages.ByPosition[pos] = playerstats.Rates{}
			continue
		}
		averages.ByPosition[pos] = divideRates(b.sums, b.games)
	}
	if qualifying > 0 {
		averages.MinutesPerGame = float64(totalMinutes) / float64(qualifying)
	}

	rows, err := s.standingRepo.Latest(ctx)
	if err != nil {
		return playerstats.LeagueAverages{}, fmt.Errorf("load standings: %w", err)
	}
	goals, played := 0, 0
	for _, row := range rows {
		goals += row.GoalsFor
		played += row.Played
	}
	if played > 0 {
		averages.GoalsPerGame = float64(goals) / float64(played)
	}

	return averages, nil
}

// buildProfile folds one player's appearances into a fresh profile. Tier
// splits key on the opponent's rank at kickoff, so promotions and slumps
// later in the season do not rewrite history.
func buildProfile(pl player.Player, records []matchrecord.Record, bands tier.Bands, params prediction.Params) playerstats.Profile {
	sorted := make([]matchrecord.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].KickoffAt.After(sorted[j].KickoffAt)
	})

	profile := playerstats.Profile{
		PlayerID: pl.ID,
		Position: pl.Position,
		PerTier:  map[int]playerstats.TierSplit{},
	}

	type tierSums struct {
		games int
		sums  playerstats.Rates
	}
	perTier := map[int]*tierSums{}
	var overall playerstats.Rates
	var points []float64
	qualifyingMinutes := 0

	for _, rec := range sorted {
		if rec.Minutes <= 0 {
			continue
		}
		profile.RawGames++
		profile.TotalMinutes += rec.Minutes
		accumulate(&profile.RawTotals, rec, params.CleanSheetMinutes)
		if rec.Minutes < params.MinMinutes {
			continue
		}

		profile.Games++
		qualifyingMinutes += rec.Minutes
		accumulate(&overall, rec, params.CleanSheetMinutes)
		points = append(points, float64(rec.FantasyPoints))

		t := bands.Classify(rec.OpponentRank)
		ts := perTier[t]
		if ts == nil {
			ts = &tierSums{}
			perTier[t] = ts
		}
		ts.games++
		accumulate(&ts.sums, rec, params.CleanSheetMinutes)
	}

	if profile.Games == 0 {
		return profile
	}

	points = winsorizePoints(points, params.OutlierSigma)
	if len(points) > params.RecentGames {
		points = points[:params.RecentGames]
	}
	profile.RecentPoints = points

	profile.MinutesPerGame = float64(qualifyingMinutes) / float64(profile.Games)
	profile.Overall = divideRates(overall, profile.Games)
	for t, ts := range perTier {
		profile.PerTier[t] = playerstats.TierSplit{
			Games: ts.games,
			Rates: divideRates(ts.sums, ts.games),
		}
	}

	return profile
}

// winsorizePoints caps single-game point hauls at the sample mean
// plus or minus sigma standard deviations, so one freak haul or
// injury blank does not dominate the form window. Small samples pass
// through untouched.
func winsorizePoints(points []float64, sigma float64) []float64 {
	if sigma <= 0 || len(points) < outlierMinSample {
		return points
	}

	mean := 0.0
	for _, p := range points {
		mean += p
	}
	mean /= float64(len(points))

	variance := 0.0
	for _, p := range points {
		variance += (p - mean) * (p - mean)
	}
	stdev := math.Sqrt(variance / float64(len(points)-1))

	upper := mean + sigma*stdev
	lower := mean - sigma*stdev
	if lower < 0 {
		lower = 0
	}

	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = math.Min(math.Max(p, lower), upper)
	}

	return out
}

// buildTeamProfile reconstructs a team's per-fixture results from its
// players' appearances. Goals for are summed across the team's players
// in a fixture; goals against is the most any of them conceded, so a
// partial line-up never double-counts the opposition's scoring.
func buildTeamProfile(teamID string, records []matchrecord.Record, bands tier.Bands, params prediction.Params) teamstats.Profile {
	type fixtureResult struct {
		tier       int
		goalsFor   int
		conceded   int
		cleanSheet bool
	}
	fixtures := map[string]*fixtureResult{}

	for _, rec := range records {
		if rec.Minutes < params.MinMinutes {
			continue
		}
		fx := fixtures[rec.FixtureID]
		if fx == nil {
			fx = &fixtureResult{tier: bands.Classify(rec.OpponentRank)}
			fixtures[rec.FixtureID] = fx
		}
		fx.goalsFor += rec.Goals
		if rec.GoalsConceded > fx.conceded {
			fx.conceded = rec.GoalsConceded
		}
		if rec.CleanSheet && rec.Minutes >= params.CleanSheetMinutes {
			fx.cleanSheet = true
		}
	}

	profile := teamstats.Profile{
		TeamID:  teamID,
		PerTier: map[int]teamstats.Split{},
	}
	for _, fx := range fixtures {
		goalsFor := fx.goalsFor
		if goalsFor > teamGoalsCap {
			goalsFor = teamGoalsCap
		}
		conceded := fx.conceded
		if conceded > teamGoalsCap {
			conceded = teamGoalsCap
		}

		split := profile.PerTier[fx.tier]
		split.Games++
		split.GoalsFor += goalsFor
		split.GoalsAgainst += conceded
		if fx.cleanSheet {
			split.CleanSheets++
		}
		profile.PerTier[fx.tier] = split

		profile.Overall.Games++
		profile.Overall.GoalsFor += goalsFor
		profile.Overall.GoalsAgainst += conceded
		if fx.cleanSheet {
			profile.Overall.CleanSheets++
		}
	}

	return profile
}

func accumulate(sums *playerstats.Rates, rec matchrecord.Record, cleanSheetMinutes int) {
	sums.Goals += float64(rec.Goals)
	sums.Assists += float64(rec.Assists)
	if rec.CleanSheet && rec.Minutes >= cleanSheetMinutes {
		sums.CleanSheets++
	}
	sums.Saves += float64(rec.Saves)
	sums.GoalsConceded += float64(rec.GoalsConceded)
	sums.PenaltiesSaved += float64(rec.PenaltiesSaved)
	sums.PenaltiesMissed += float64(rec.PenaltiesMissed)
	sums.OwnGoals += float64(rec.OwnGoals)
	sums.YellowCards += float64(rec.YellowCards)
	sums.RedCards += float64(rec.RedCards)
	sums.Bonus += float64(rec.BonusPoints)
}

func divideRates(sums playerstats.Rates, games int) playerstats.Rates {
	n := float64(games)
	return playerstats.Rates{
		Goals:           sums.Goals / n,
		Assists:         sums.Assists / n,
		CleanSheets:     sums.CleanSheets / n,
		Saves:           sums.Saves / n,
		GoalsConceded:   sums.GoalsConceded / n,
		PenaltiesSaved:  sums.PenaltiesSaved / n,
		PenaltiesMissed: sums.PenaltiesMissed / n,
		OwnGoals:        sums.OwnGoals / n,
		YellowCards:     sums.YellowCards / n,
		RedCards:        sums.RedCards / n,
		Bonus:           sums.Bonus / n,
	}
}
