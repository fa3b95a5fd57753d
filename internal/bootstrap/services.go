package bootstrap

import (
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/GoSim-25-26J-441/medinav-backend/config"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/monitor"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/repository"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/router"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/intent"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/graph"
	navservice "github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/service"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/prediction/cluster"
	predservice "github.com/GoSim-25-26J-441/medinav-backend/internal/prediction/service"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

// CrowdSource serves both raw department metrics and congestion snapshots
type CrowdSource interface {
	crowd.MetricsSource
	crowd.SnapshotProvider
}

// Stores holds the optional backing stores. Either may be nil.
type Stores struct {
	Redis *redis.Client
	DB    *sql.DB
}

// Services is the wired application graph shared by the API and the worker
type Services struct {
	Catalog    *catalog.Catalog
	Pathfinder *navservice.PathfinderService
	Matcher    *cluster.Matcher
	Predictor  *predservice.Predictor
	Router     *router.Router
	Classifier *intent.Classifier
	Metrics    *telemetry.Metrics

	Simulated *repository.SimulatedProvider
	// Store is the Redis metrics store, nil without Redis.
	Store *repository.MetricsRepository
	// Department reads the Postgres department_metrics table, nil without a DB.
	Department *repository.DepartmentMetricsRepository
	// Source is what handlers read crowd data from.
	Source CrowdSource

	db *sql.DB
}

// NewServices loads the facility catalog and wires every engine to the
// available stores. Crowd data resolves Redis, then Postgres, then the
// simulated time-of-day model.
func NewServices(cfg *config.Config, stores Stores) (*Services, error) {
	cat, err := loadCatalog(cfg.Navigation.FacilityData)
	if err != nil {
		return nil, err
	}

	g, err := navservice.LoadGraph(cat.Facility(), graph.Options{
		CrowdPenaltyFactor: cfg.Navigation.CrowdPenaltyFactor,
		AlternatePenalty:   cfg.Navigation.AlternatePenalty,
		TimePerCost:        cfg.Navigation.TimePerCost,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build facility graph: %w", err)
	}

	seed := cfg.Crowd.WaitSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	matcher := cluster.NewMatcher(cat.Journeys())
	s := &Services{
		Catalog:    cat,
		Pathfinder: navservice.NewPathfinderService(g),
		Matcher:    matcher,
		Predictor:  predservice.NewPredictor(cat, matcher),
		Router: router.NewRouter(cat, router.Thresholds{
			Crowd: cfg.Crowd.CrowdThreshold,
			Load:  cfg.Crowd.LoadThreshold,
		}, router.NewRandomWait(rand.NewSource(seed))),
		Classifier: intent.NewClassifier(cat),
		Metrics:    telemetry.NewMetrics(),
		Simulated:  repository.NewSimulatedProvider(cat, time.Now, rand.NewSource(seed+1)),
		db:         stores.DB,
	}

	var primary crowd.MetricsSource
	if stores.DB != nil {
		s.Department = repository.NewDepartmentMetricsRepository(stores.DB)
		primary = s.Department
	}
	if stores.Redis != nil {
		s.Store = repository.NewMetricsRepository(stores.Redis)
		primary = s.Store
	}

	if primary == nil {
		s.Source = s.Simulated
	} else {
		s.Source = repository.NewFallbackSource(primary, s.Simulated)
	}

	return s, nil
}

// Scheduler returns the Postgres to Redis refresh schedule, or nil when
// either store is missing
func (s *Services) Scheduler(spec string) *monitor.Scheduler {
	if s.Department == nil || s.Store == nil {
		return nil
	}
	return monitor.NewScheduler(monitor.NewRefresher(s.Department, s.Store, s.Metrics), spec)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}
