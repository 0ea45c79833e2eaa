package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-scheduler-api/internal/dto"
	"github.com/noah-isme/sma-scheduler-api/internal/models"
	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
	"github.com/noah-isme/sma-scheduler-api/pkg/jobs"
	"github.com/noah-isme/sma-scheduler-api/pkg/middleware/requestid"
)

const schedulingJobType = "scheduling_run"

type planStore interface {
	FindByID(ctx context.Context, id string) (*models.AcademicPlan, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.PlanStatus) error
}

type snapshotSource interface {
	Load(ctx context.Context, planID string) (scheduler.Plan, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// SchedulingConfig carries the tunables of the scheduling service.
type SchedulingConfig struct {
	Enabled           bool
	DefaultStrategy   string
	RunTimeout        time.Duration
	OverlapMode       string
	PopulationSize    int
	Generations       int
	MutationRate      float64
	TournamentSize    int
	PlacementAttempts int
	Workers           int
	Seed              int64
	Weights           scheduler.Weights
}

// SchedulingRepositories groups the storage collaborators of a run.
type SchedulingRepositories struct {
	Plans       planStore
	Obligations obligationLister
	Blocks      timeBlockLister
	Rooms       roomLister
	Preferences preferenceLister
	Bookings    bookingLister
}

// SchedulingService exposes run_scheduling and the run lifecycle around it.
type SchedulingService struct {
	plans     planStore
	snapshots snapshotSource
	persister scheduler.Persister
	runs      RunStore
	cache     *CacheService
	metrics   *MetricsService
	queue     jobDispatcher
	checker   *scheduler.Validator
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SchedulingConfig
	now       func() time.Time
}

type runJob struct {
	Plan    models.AcademicPlan
	Request dto.RunSchedulingRequest
}

// NewSchedulingService wires the scheduling service.
func NewSchedulingService(
	repos SchedulingRepositories,
	persister scheduler.Persister,
	runs RunStore,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg SchedulingConfig,
) *SchedulingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if runs == nil {
		runs = newMemoryRunStore(30 * time.Minute)
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 2 * time.Minute
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = string(scheduler.StrategyTeacherPriority)
	}
	if cfg.Weights == (scheduler.Weights{}) {
		cfg.Weights = scheduler.DefaultWeights()
	}
	return &SchedulingService{
		plans: repos.Plans,
		snapshots: &snapshotLoader{
			obligations: repos.Obligations,
			blocks:      repos.Blocks,
			rooms:       repos.Rooms,
			prefs:       repos.Preferences,
			bookings:    repos.Bookings,
			logger:      logger,
		},
		persister: persister,
		runs:      runs,
		cache:     cache,
		metrics:   metrics,
		checker:   scheduler.NewValidator(scheduler.NewCatalog(cfg.Weights, scheduler.ParseOverlapMode(cfg.OverlapMode))),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// AttachQueue enables asynchronous runs.
func (s *SchedulingService) AttachQueue(queue jobDispatcher) {
	s.queue = queue
}

// ListStrategies returns the selectable strategies in a stable order.
func (s *SchedulingService) ListStrategies() []dto.StrategyResponse {
	descriptors := scheduler.Strategies()
	out := make([]dto.StrategyResponse, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, dto.StrategyResponse{
			Key:         string(d.Key),
			Name:        d.Name,
			Description: d.Description,
			Default:     string(d.Key) == s.cfg.DefaultStrategy,
		})
	}
	return out
}

// Run executes a scheduling run for the plan. Configuration errors are returned
// before any state is created; everything after that is reported through the run.
func (s *SchedulingService) Run(ctx context.Context, planID string, req dto.RunSchedulingRequest, actorID string) (*dto.SchedulingRunResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid scheduling payload")
	}
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "scheduling is disabled")
	}
	strategy, err := s.resolveStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	run := models.SchedulingRun{
		ID:          uuid.NewString(),
		PlanID:      plan.ID,
		Strategy:    strategy,
		Status:      models.RunStatusRunning,
		DryRun:      req.DryRun,
		RequestedBy: actorID,
		CreatedAt:   s.now().UTC(),
	}

	if req.Async {
		return s.enqueue(ctx, run, *plan, req)
	}

	run = s.execute(ctx, run, *plan, req)
	resp := toRunResponse(run)
	return &resp, nil
}

// HandleJob executes a queued run. Failures are recorded on the run, so the
// queue never retries.
func (s *SchedulingService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(runJob)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	run, found, err := s.runs.Get(ctx, job.ID)
	if err != nil {
		return err
	}
	if !found {
		s.logger.Warn("queued scheduling run expired before execution", zap.String("run_id", job.ID))
		return nil
	}
	run.Status = models.RunStatusRunning
	s.save(ctx, *run)
	s.execute(ctx, *run, payload.Plan, payload.Request)
	return nil
}

// GetRun returns a stored run.
func (s *SchedulingService) GetRun(ctx context.Context, runID string) (*dto.SchedulingRunResponse, error) {
	run, err := s.findRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	resp := toRunResponse(*run)
	return &resp, nil
}

// CommitRun persists a previously previewed run. Committing an already
// committed run is a no-op.
func (s *SchedulingService) CommitRun(ctx context.Context, runID string) (*dto.SchedulingRunResponse, error) {
	run, err := s.findRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Committed {
		resp := toRunResponse(*run)
		return &resp, nil
	}
	switch {
	case run.Status != models.RunStatusCompleted || run.Result == nil:
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("scheduling run is %s and cannot be committed", run.Status))
	case run.DryRun:
		return nil, appErrors.Clone(appErrors.ErrConflict, "dry-run results cannot be committed")
	}

	plan, err := s.loadPlan(ctx, run.PlanID)
	if err != nil {
		return nil, err
	}
	log := s.runLogger(ctx, *run)
	if !s.commit(ctx, run, *plan, log) {
		return nil, appErrors.Clone(appErrors.ErrCommitFailed, "scheduling result could not be committed")
	}
	s.save(ctx, *run)
	resp := toRunResponse(*run)
	return &resp, nil
}

func (s *SchedulingService) enqueue(ctx context.Context, run models.SchedulingRun, plan models.AcademicPlan, req dto.RunSchedulingRequest) (*dto.SchedulingRunResponse, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "asynchronous scheduling is not available")
	}
	run.Status = models.RunStatusQueued
	if err := s.runs.Save(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store scheduling run")
	}
	job := jobs.Job{ID: run.ID, Type: schedulingJobType, Payload: runJob{Plan: plan, Request: req}}
	if err := s.queue.Enqueue(job); err != nil {
		run.Status = models.RunStatusFailed
		run.Error = "failed to enqueue run"
		s.finish(&run)
		s.save(ctx, run)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue scheduling run")
	}
	resp := toRunResponse(run)
	return &resp, nil
}

func (s *SchedulingService) execute(ctx context.Context, run models.SchedulingRun, plan models.AcademicPlan, req dto.RunSchedulingRequest) models.SchedulingRun {
	log := s.runLogger(ctx, run)

	snapshot, err := s.snapshots.Load(ctx, plan.ID)
	if err != nil {
		log.Error("failed to snapshot plan", zap.Error(err))
		run.Status = models.RunStatusFailed
		run.Error = appErrors.FromError(err).Message
		s.finish(&run)
		s.metrics.ObserveSchedulingRun(string(run.Strategy), false, 0, 0, 0, 0)
		s.save(ctx, run)
		return run
	}

	var result scheduler.Result
	engine, err := scheduler.NewEngine(run.Strategy, s.engineOptions(req, log))
	if err != nil {
		result = scheduler.Result{Strategy: run.Strategy, Message: err.Error()}
	} else {
		runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
		result = scheduler.NewOrchestrator(run.Strategy, engine, s.checker, s.persister, log).Execute(runCtx, snapshot)
		cancel()
	}

	s.metrics.ObserveSchedulingRun(string(run.Strategy), result.Success, result.Elapsed, result.Score, len(result.Conflicts), len(result.Unassigned))
	run.Result = &result
	run.Status = models.RunStatusCompleted
	if !result.Success {
		run.Status = models.RunStatusFailed
		run.Error = result.Message
	}
	s.finish(&run)

	if req.Commit && !req.DryRun && result.Success {
		s.commit(ctx, &run, plan, log)
	}
	s.save(ctx, run)
	return run
}

func (s *SchedulingService) commit(ctx context.Context, run *models.SchedulingRun, plan models.AcademicPlan, log *zap.Logger) bool {
	orchestrator := scheduler.NewOrchestrator(run.Strategy, nil, s.checker, s.persister, log)
	committed := orchestrator.Commit(ctx, plan.ID, *run.Result)
	s.metrics.ObserveCommit(string(run.Strategy), committed)
	if !committed {
		return false
	}
	run.Committed = true

	if plan.Status == models.PlanStatusDraft {
		if err := s.plans.UpdateStatus(ctx, nil, plan.ID, models.PlanStatusReview); err != nil {
			log.Warn("failed to move plan to review", zap.Error(err))
		}
	}
	if err := s.cache.Invalidate(ctx, timetableCachePattern(plan.ID)); err != nil {
		log.Warn("failed to invalidate timetable cache", zap.Error(err))
	}
	return true
}

func (s *SchedulingService) engineOptions(req dto.RunSchedulingRequest, log *zap.Logger) scheduler.Options {
	opts := scheduler.Options{
		PopulationSize:    s.cfg.PopulationSize,
		Generations:       s.cfg.Generations,
		MutationRate:      s.cfg.MutationRate,
		TournamentSize:    s.cfg.TournamentSize,
		PlacementAttempts: s.cfg.PlacementAttempts,
		Workers:           s.cfg.Workers,
		Validator:         s.checker,
		Logger:            log,
	}
	if req.PopulationSize > 0 {
		opts.PopulationSize = req.PopulationSize
	}
	if req.Generations > 0 {
		opts.Generations = req.Generations
	}
	seed := s.cfg.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	if seed != 0 {
		opts.Rand = rand.New(rand.NewSource(seed))
	}
	return opts
}

func (s *SchedulingService) resolveStrategy(raw string) (scheduler.Strategy, error) {
	if raw == "" {
		raw = s.cfg.DefaultStrategy
	}
	strategy, err := scheduler.ParseStrategy(raw)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnknownStrategy.Code, appErrors.ErrUnknownStrategy.Status, fmt.Sprintf("unknown scheduling strategy %q", raw))
	}
	return strategy, nil
}

func (s *SchedulingService) loadPlan(ctx context.Context, planID string) (*models.AcademicPlan, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic plan")
	}
	if !plan.Status.Schedulable() {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("plan in status %s can no longer be scheduled", plan.Status))
	}
	return plan, nil
}

func (s *SchedulingService) findRun(ctx context.Context, runID string) (*models.SchedulingRun, error) {
	run, found, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduling run")
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "scheduling run not found or expired")
	}
	return run, nil
}

func (s *SchedulingService) runLogger(ctx context.Context, run models.SchedulingRun) *zap.Logger {
	log := s.logger.With(
		zap.String("plan_id", run.PlanID),
		zap.String("run_id", run.ID),
		zap.String("strategy", string(run.Strategy)),
	)
	if id := requestid.FromContext(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}
	return log
}

func (s *SchedulingService) finish(run *models.SchedulingRun) {
	finished := s.now().UTC()
	run.FinishedAt = &finished
}

func (s *SchedulingService) save(ctx context.Context, run models.SchedulingRun) {
	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.Warn("failed to store scheduling run", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func toRunResponse(run models.SchedulingRun) dto.SchedulingRunResponse {
	resp := dto.SchedulingRunResponse{
		RunID:       run.ID,
		PlanID:      run.PlanID,
		Status:      string(run.Status),
		Strategy:    string(run.Strategy),
		DryRun:      run.DryRun,
		Committed:   run.Committed,
		Error:       run.Error,
		Assignments: []dto.AssignmentResponse{},
		Conflicts:   []dto.ConflictResponse{},
		Unassigned:  []dto.UnassignedResponse{},
		CreatedAt:   run.CreatedAt,
		FinishedAt:  run.FinishedAt,
	}
	if run.Result == nil {
		return resp
	}
	result := run.Result
	resp.Success = result.Success
	resp.Score = result.Score
	resp.ElapsedMs = result.Elapsed.Milliseconds()
	resp.Message = result.Message
	for _, c := range result.Assignments {
		resp.Assignments = append(resp.Assignments, dto.AssignmentResponse{
			ObligationID: c.Obligation.ID,
			TeacherID:    c.Obligation.TeacherID,
			TeacherName:  c.Obligation.TeacherName,
			SubjectID:    c.Obligation.SubjectID,
			SubjectName:  c.Obligation.SubjectName,
			TimeBlockID:  c.Block.ID,
			BlockName:    c.Block.Name,
			DayOfWeek:    c.Block.Day.String(),
			StartTime:    c.Block.Start.String(),
			EndTime:      c.Block.End.String(),
			RoomID:       c.Room.ID,
			RoomCode:     c.Room.Code,
			Attendance:   c.Attendance,
			Modality:     string(c.Modality),
			Score:        c.Score,
		})
	}
	resp.Conflicts = toConflictResponses(result.Conflicts)
	for _, ob := range result.Unassigned {
		resp.Unassigned = append(resp.Unassigned, dto.UnassignedResponse{
			ObligationID: ob.ID,
			TeacherID:    ob.TeacherID,
			TeacherName:  ob.TeacherName,
			SubjectID:    ob.SubjectID,
			SubjectName:  ob.SubjectName,
		})
	}
	return resp
}

func toConflictResponses(conflicts []scheduler.Conflict) []dto.ConflictResponse {
	out := make([]dto.ConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, dto.ConflictResponse{
			Category:     string(c.Category),
			Description:  c.Description,
			ObligationID: c.ObligationID,
		})
	}
	return out
}
