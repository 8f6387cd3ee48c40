package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/msambhus/team-asha-randonneuring/internal/analysis"
	"github.com/msambhus/team-asha-randonneuring/internal/auth"
	"github.com/msambhus/team-asha-randonneuring/internal/config"
	"github.com/msambhus/team-asha-randonneuring/internal/store"
	"github.com/msambhus/team-asha-randonneuring/internal/strava"
)

// SyncService pulls activities from Strava for every connected rider and
// refreshes their cached scores. All riders share one rate limit budget,
// so a run stops early when the budget runs out and the next run picks up
// the remaining riders.
type SyncService struct {
	store    *store.DB
	oauthCfg *oauth2.Config
	limiter  *strava.RateLimiter
	syncCfg  config.SyncConfig
	scoring  analysis.ScoringConfig
}

// NewSyncService creates a sync service for the whole club.
func NewSyncService(db *store.DB, oauthCfg *oauth2.Config, syncCfg config.SyncConfig, clubCfg config.ClubConfig) *SyncService {
	scoring := analysis.DefaultScoring()
	if clubCfg.WeeklyRideGoal > 0 {
		scoring.FrequencyTarget = float64(clubCfg.WeeklyRideGoal)
	}
	return &SyncService{
		store:    db,
		oauthCfg: oauthCfg,
		limiter:  strava.NewRateLimiter(),
		syncCfg:  syncCfg,
		scoring:  scoring,
	}
}

// SyncProgress reports progress during a club sync
type SyncProgress struct {
	RiderName   string
	RidersTotal int
	RidersDone  int
	Fetched     int
	Error       error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	RidersSynced      int
	RidersSkipped     int
	ActivitiesFetched int
	ActivitiesStored  int
	ScoresComputed    int
	RateLimited       bool
	Errors            []error
}

// SyncAll syncs every connected rider, up to MaxRidersPerRun, oldest sync
// first would be ideal but rider id order is stable and good enough for a
// club of this size.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	riderIDs, err := s.store.ListConnectedRiderIDs()
	if err != nil {
		return result, fmt.Errorf("listing connected riders: %w", err)
	}

	if s.syncCfg.MaxRidersPerRun > 0 && len(riderIDs) > s.syncCfg.MaxRidersPerRun {
		result.RidersSkipped = len(riderIDs) - s.syncCfg.MaxRidersPerRun
		riderIDs = riderIDs[:s.syncCfg.MaxRidersPerRun]
	}

	for i, riderID := range riderIDs {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		rider, err := s.store.GetRider(riderID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("rider %d: %w", riderID, err))
			continue
		}

		if progress != nil {
			progress <- SyncProgress{
				RiderName:   rider.Name,
				RidersTotal: len(riderIDs),
				RidersDone:  i,
			}
		}

		fetched, stored, err := s.SyncRider(ctx, riderID, nil)
		result.ActivitiesFetched += fetched
		result.ActivitiesStored += stored
		if err != nil {
			if errors.Is(err, strava.ErrRateLimited) {
				result.RateLimited = true
				result.RidersSkipped += len(riderIDs) - i
				if progress != nil {
					progress <- SyncProgress{RiderName: rider.Name, Error: err}
				}
				break
			}
			result.Errors = append(result.Errors, fmt.Errorf("syncing %s: %w", rider.Name, err))
			continue
		}

		result.RidersSynced++
		result.ScoresComputed++
	}

	if progress != nil {
		progress <- SyncProgress{RidersTotal: len(riderIDs), RidersDone: result.RidersSynced}
	}

	return result, nil
}

// SyncRider fetches one rider's recent activities and recomputes their
// cached score. onProgress, if set, is called with the running fetch count.
func (s *SyncService) SyncRider(ctx context.Context, riderID int64, onProgress func(fetched int)) (fetched, stored int, err error) {
	conn, err := s.store.GetConnection(riderID)
	if err != nil {
		return 0, 0, err
	}

	client := s.clientFor(conn)

	after := s.syncWindowStart(riderID)

	activities, fetchErr := client.GetAllActivities(ctx, after, onProgress)
	fetched = len(activities)

	// Store whatever made it through, even on a partial fetch
	stored, storeErrs := s.storeActivities(riderID, activities)
	if fetchErr != nil {
		return fetched, stored, fetchErr
	}
	if len(storeErrs) > 0 {
		return fetched, stored, storeErrs[0]
	}

	if err := s.store.SetSyncState(syncStateKey(riderID), time.Now().Format(time.RFC3339)); err != nil {
		return fetched, stored, fmt.Errorf("recording sync time: %w", err)
	}

	return fetched, stored, s.RecomputeScore(riderID, time.Now())
}

// RecomputeScore rebuilds the cached readiness and Eddington numbers for a
// rider from stored activities.
func (s *SyncService) RecomputeScore(riderID int64, now time.Time) error {
	window := now.AddDate(0, 0, -s.scoring.WindowDays)
	recent, err := s.store.GetRiderActivitiesSince(riderID, window)
	if err != nil {
		return fmt.Errorf("loading recent activities: %w", err)
	}

	fitness, err := analysis.CalculateFitness(recent, now, s.scoring)
	if err != nil {
		return fmt.Errorf("scoring rider %d: %w", riderID, err)
	}

	// Eddington looks at the whole history, not just the window
	all, err := s.store.GetRiderActivities(riderID)
	if err != nil {
		return fmt.Errorf("loading activity history: %w", err)
	}
	eddington := analysis.Eddington(all)

	return s.store.SaveRiderScore(&store.RiderScore{
		RiderID:        riderID,
		Total:          fitness.Total,
		Frequency:      fitness.Frequency,
		Volume:         fitness.Volume,
		Intensity:      fitness.Intensity,
		Recency:        fitness.Recency,
		EddingtonMiles: eddington.Miles,
		EddingtonKm:    eddington.Km,
		CalculatedAt:   now,
	})
}

// RateLimitStatus returns the shared rate limit status
func (s *SyncService) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return s.limiter.Status()
}

// clientFor builds a Strava client whose token source persists refreshed
// tokens back to the rider's stored connection.
func (s *SyncService) clientFor(conn *store.Connection) *strava.Client {
	token := &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.ExpiresAt,
	}

	riderID := conn.RiderID
	src := auth.NewTokenSource(s.oauthCfg, token, func(t *oauth2.Token) error {
		return s.store.UpdateConnectionTokens(riderID, t.AccessToken, t.RefreshToken, t.Expiry)
	})

	return strava.NewClientWithLimiter(src, s.limiter)
}

// syncWindowStart returns where this rider's fetch should begin: the last
// recorded sync time, else the configured lookback from now.
func (s *SyncService) syncWindowStart(riderID int64) time.Time {
	lastStr, _ := s.store.GetSyncState(syncStateKey(riderID))
	if lastStr != "" {
		if last, err := time.Parse(time.RFC3339, lastStr); err == nil {
			return last
		}
	}
	lookback := s.syncCfg.LookbackDays
	if lookback <= 0 {
		lookback = config.DefaultConfig().Sync.LookbackDays
	}
	return time.Now().AddDate(0, 0, -lookback)
}

func (s *SyncService) storeActivities(riderID int64, activities []strava.Activity) (int, []error) {
	stored := 0
	var errs []error
	for _, a := range activities {
		if !isCycling(a.Type) {
			continue
		}
		if err := s.store.UpsertActivity(convertActivity(riderID, a)); err != nil {
			errs = append(errs, fmt.Errorf("storing activity %d: %w", a.ID, err))
			continue
		}
		stored++
	}
	return stored, errs
}

func syncStateKey(riderID int64) string {
	return fmt.Sprintf("last_sync_rider_%d", riderID)
}

// isCycling reports whether an activity type counts for club analytics
func isCycling(activityType string) bool {
	switch activityType {
	case "Ride", "VirtualRide", "EBikeRide":
		return true
	}
	return false
}

// convertActivity converts a Strava API activity to a store activity
func convertActivity(riderID int64, a strava.Activity) *store.Activity {
	activity := &store.Activity{
		ID:                 a.ID,
		RiderID:            riderID,
		Name:               a.Name,
		Type:               a.Type,
		StartDate:          a.StartDate,
		StartDateLocal:     a.StartDateLocal,
		Distance:           a.Distance,
		MovingTime:         a.MovingTime,
		ElapsedTime:        a.ElapsedTime,
		TotalElevationGain: a.TotalElevationGain,
		AverageSpeed:       a.AverageSpeed,
		MaxSpeed:           a.MaxSpeed,
		DeviceWatts:        a.DeviceWatts,
		HasHeartrate:       a.HasHeartrate,
	}

	if a.AverageHeartrate > 0 {
		activity.AverageHeartrate = &a.AverageHeartrate
	}
	if a.MaxHeartrate > 0 {
		activity.MaxHeartrate = &a.MaxHeartrate
	}
	if a.AverageWatts > 0 {
		activity.AverageWatts = &a.AverageWatts
	}
	if a.WeightedAverageWatts > 0 {
		activity.WeightedAverageWatts = &a.WeightedAverageWatts
	}
	if a.SufferScore > 0 {
		suffer := int(a.SufferScore)
		activity.SufferScore = &suffer
	}

	return activity
}
