package background

import (
	"context"
	"log"
	"sync"
	"time"

	"kosmart/internal/caching"
	"kosmart/internal/config"
	"kosmart/internal/jobs"
	"kosmart/internal/models"
	"kosmart/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

const cacheWarmPageSize = 200

// JobScheduler manages the background jobs: the periodic overdue rent sweep
// and cache warm-up for the property and tenant entity caches.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	overdueSvc   *jobs.OverdueAlertService
	cacheSvc     caching.CacheService
	propertyRepo repositories.PropertyRepository
	tenantRepo   repositories.TenantRepository
	cfg          config.JobsConfig
	entityTTL    time.Duration
	jobJobs      map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(overdueSvc *jobs.OverdueAlertService, cacheSvc caching.CacheService,
	propertyRepo repositories.PropertyRepository, tenantRepo repositories.TenantRepository,
	cfg config.JobsConfig, entityTTL time.Duration) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		overdueSvc:   overdueSvc,
		cacheSvc:     cacheSvc,
		propertyRepo: propertyRepo,
		tenantRepo:   tenantRepo,
		cfg:          cfg,
		entityTTL:    entityTTL,
		jobJobs:      make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	overdueInterval := time.Duration(js.cfg.OverdueCheckMinutes) * time.Minute
	if overdueInterval <= 0 {
		overdueInterval = time.Hour
	}
	overdueJob, err := js.scheduler.NewJob(
		gocron.DurationJob(overdueInterval),
		gocron.NewTask(js.overdueSvc.ScheduledOverdueCheck, context.Background()),
		gocron.WithName("overdue-rent-check"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create overdue check job: %v", err)
	} else {
		js.jobJobs["overdue-rent-check"] = overdueJob
	}

	warmInterval := time.Duration(js.cfg.CacheWarmMinutes) * time.Minute
	if warmInterval <= 0 {
		warmInterval = 30 * time.Minute
	}
	warmJob, err := js.scheduler.NewJob(
		gocron.DurationJob(warmInterval),
		gocron.NewTask(js.warmEntityCaches, context.Background()),
		gocron.WithName("entity-cache-warm"),
	)
	if err != nil {
		log.Printf("Failed to create cache warm job: %v", err)
	} else {
		js.jobJobs["entity-cache-warm"] = warmJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
}

// warmEntityCaches preloads the first pages of properties and tenants so the
// listing endpoints stay warm after a restart or TTL expiry.
func (js *JobScheduler) warmEntityCaches(ctx context.Context) {
	properties, err := js.propertyRepo.Search(ctx, &models.PropertySearchFilter{Limit: cacheWarmPageSize})
	if err != nil {
		log.Printf("Cache warm: failed to list properties: %v", err)
	} else {
		for _, p := range properties {
			if err := js.cacheSvc.SetProperty(ctx, p, js.entityTTL); err != nil {
				log.Printf("Cache warm: failed to cache property %s: %v", p.ID, err)
			}
		}
	}

	tenants, err := js.tenantRepo.Search(ctx, &models.TenantSearchFilter{Limit: cacheWarmPageSize})
	if err != nil {
		log.Printf("Cache warm: failed to list tenants: %v", err)
		return
	}
	for _, t := range tenants {
		if err := js.cacheSvc.SetTenant(ctx, t, js.entityTTL); err != nil {
			log.Printf("Cache warm: failed to cache tenant %s: %v", t.ID, err)
		}
	}
}
