package drawservice

import (
	"context"
	"errors"
	"fmt"

	drawdomain "github.com/Black-And-White-Club/league-night/app/modules/draw/domain"
	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-night/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RunDraw pairs and schedules the eligible players of an event and replaces
// any earlier draw of the same event in one transaction.
func (s *DrawService) RunDraw(ctx context.Context, cmd RunDrawCommand) (*DrawResult, error) {
	if err := validateEvent(cmd.Event); err != nil {
		return nil, err
	}

	seed := s.newSeed()
	if cmd.Seed != nil {
		seed = *cmd.Seed
	}

	result, err := withTelemetry(s, ctx, "RunDraw", cmd.Event.String(), func(ctx context.Context) (results.OperationResult[*DrawResult, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*DrawResult, error], error) {
			return s.runDrawLogic(ctx, db, cmd, seed)
		})
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

func (s *DrawService) runDrawLogic(ctx context.Context, db bun.IDB, cmd RunDrawCommand, seed int64) (results.OperationResult[*DrawResult, error], error) {
	if err := s.repo.AcquireEventLock(ctx, db, cmd.Event); err != nil {
		return results.OperationResult[*DrawResult, error]{}, err
	}

	ranked, err := s.attendance.EligiblePlayers(ctx, db, cmd.Event)
	if err != nil {
		return results.OperationResult[*DrawResult, error]{}, err
	}
	players := make([]drawdomain.Player, 0, len(ranked))
	for _, p := range ranked {
		players = append(players, drawdomain.Player{ID: p.ID, Points: p.Points})
	}

	previousPairs, err := s.repo.GetLatestPairsBefore(ctx, db, cmd.Event)
	if err != nil {
		return results.OperationResult[*DrawResult, error]{}, err
	}
	previous := drawdomain.PairSet{}
	for _, p := range previousPairs {
		if p.Player2ID != nil {
			previous.Add(p.Player1ID, *p.Player2ID)
		}
	}

	rng := drawdomain.NewRand(seed)
	pairing, err := drawdomain.ComputeDraw(players, previous, rng)
	if err != nil {
		if errors.Is(err, drawdomain.ErrInsufficientPlayers) {
			return results.FailureResult[*DrawResult, error](
				fmt.Errorf("%w: %d eligible for %s", drawdomain.ErrInsufficientPlayers, len(players), cmd.Event),
			), nil
		}
		return results.OperationResult[*DrawResult, error]{}, err
	}

	top := drawdomain.GenerateMatches(pairing.PairsInTier(drawdomain.TierTop), s.config.MatchesPerPair, 1, rng)
	bottom := drawdomain.GenerateMatches(pairing.PairsInTier(drawdomain.TierBottom), s.config.MatchesPerPair, top.NextSeq, rng)

	matches := append(append([]drawdomain.Match{}, top.Matches...), bottom.Matches...)
	shortfalls := append(append([]drawdomain.PartialScheduleWarning{}, top.Shortfalls...), bottom.Shortfalls...)

	if s.config.StrictSchedule && len(shortfalls) > 0 {
		return results.FailureResult[*DrawResult, error](
			fmt.Errorf("%w: %d pairs under quota of %d", drawdomain.ErrPartialSchedule, len(shortfalls), s.config.MatchesPerPair),
		), nil
	}

	replaced, err := s.repo.DeleteDrawForEvent(ctx, db, cmd.Event)
	if err != nil {
		return results.OperationResult[*DrawResult, error]{}, err
	}

	draw := &drawdb.Draw{
		ID:             uuid.New(),
		LeagueID:       cmd.Event.LeagueID,
		EventDate:      cmd.Event.Date,
		Seed:           seed,
		MatchesPerPair: s.config.MatchesPerPair,
		CreatedBy:      cmd.CreatedBy,
		ForcedRepeats:  len(pairing.ForcedRepeats),
		PartialPairs:   len(shortfalls),
	}
	pairRows, matchRows := toRows(pairing.Pairs, matches)
	if err := s.repo.InsertDraw(ctx, db, draw, pairRows, matchRows); err != nil {
		return results.OperationResult[*DrawResult, error]{}, err
	}

	s.recordWarnings(ctx, cmd.Event, pairing.ForcedRepeats, shortfalls)
	if s.metrics != nil {
		s.metrics.RecordDrawSize(ctx, len(players), len(pairing.Pairs), len(matches))
	}

	return results.SuccessResult[*DrawResult, error](&DrawResult{
		Draw:          summaryFromRow(draw),
		Pairs:         pairing.Pairs,
		Matches:       matches,
		ForcedRepeats: pairing.ForcedRepeats,
		Shortfalls:    shortfalls,
		Replaced:      replaced > 0,
	}), nil
}

func (s *DrawService) recordWarnings(ctx context.Context, event sharedtypes.EventKey, forced []drawdomain.ForcedRepeatPairing, shortfalls []drawdomain.PartialScheduleWarning) {
	perTier := map[drawdomain.Tier]int{}
	for _, f := range forced {
		perTier[f.Tier]++
		s.logger.WarnContext(ctx, "Forced repeat pairing",
			attr.ExtractCorrelationID(ctx),
			attr.Event(event),
			attr.String("tier", string(f.Tier)),
			attr.String("player1_id", string(f.Player1)),
			attr.String("player2_id", string(f.Player2)),
		)
	}
	for tier, n := range perTier {
		if s.metrics != nil {
			s.metrics.RecordForcedRepeats(ctx, string(tier), n)
		}
	}

	clear(perTier)
	for _, w := range shortfalls {
		perTier[w.Tier]++
		s.logger.WarnContext(ctx, "Pair under match quota",
			attr.ExtractCorrelationID(ctx),
			attr.Event(event),
			attr.String("tier", string(w.Tier)),
			attr.Int("pair_seq", w.PairSeq),
			attr.Int("scheduled", w.Scheduled),
			attr.Int("wanted", w.Wanted),
		)
	}
	for tier, n := range perTier {
		if s.metrics != nil {
			s.metrics.RecordScheduleShortfalls(ctx, string(tier), n)
		}
	}
}

// toRows converts domain pairs and matches into rows, resolving match
// references to the generated pair ids.
func toRows(pairs []drawdomain.Pair, matches []drawdomain.Match) ([]*drawdb.DrawPair, []*drawdb.DrawMatch) {
	pairIDs := make(map[int]uuid.UUID, len(pairs))
	pairRows := make([]*drawdb.DrawPair, 0, len(pairs))
	for _, p := range pairs {
		id := uuid.New()
		pairIDs[p.Seq] = id
		pairRows = append(pairRows, &drawdb.DrawPair{
			ID:        id,
			Seq:       p.Seq,
			Tier:      string(p.Tier),
			Player1ID: p.Player1,
			Player2ID: p.Player2,
		})
	}

	matchRows := make([]*drawdb.DrawMatch, 0, len(matches))
	for _, m := range matches {
		matchRows = append(matchRows, &drawdb.DrawMatch{
			ID:       uuid.New(),
			Seq:      m.Seq,
			Tier:     string(m.Tier),
			PairAID:  pairIDs[m.PairA],
			PairBID:  pairIDs[m.PairB],
			PairASeq: m.PairA,
			PairBSeq: m.PairB,
		})
	}
	return pairRows, matchRows
}

func summaryFromRow(d *drawdb.Draw) DrawSummary {
	return DrawSummary{
		ID:             sharedtypes.DrawID(d.ID.String()),
		LeagueID:       d.LeagueID,
		EventDate:      d.EventDate,
		Seed:           d.Seed,
		MatchesPerPair: d.MatchesPerPair,
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt,
	}
}

// resultFromRow rebuilds a DrawResult from a stored draw. Warnings are not
// stored individually, only their counts.
func resultFromRow(d *drawdb.Draw) *DrawResult {
	out := &DrawResult{Draw: summaryFromRow(d)}
	for _, p := range d.Pairs {
		out.Pairs = append(out.Pairs, drawdomain.Pair{
			Seq:     p.Seq,
			Tier:    drawdomain.Tier(p.Tier),
			Player1: p.Player1ID,
			Player2: p.Player2ID,
		})
	}
	for _, m := range d.Matches {
		out.Matches = append(out.Matches, drawdomain.Match{
			Seq:   m.Seq,
			Tier:  drawdomain.Tier(m.Tier),
			PairA: m.PairASeq,
			PairB: m.PairBSeq,
		})
	}
	return out
}

func validateEvent(event sharedtypes.EventKey) error {
	if event.LeagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidRequest)
	}
	if _, err := sharedtypes.ParseEventDate(string(event.Date)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
