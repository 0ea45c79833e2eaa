package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Persister stores an accepted result, replacing whatever the plan held before.
type Persister interface {
	Replace(ctx context.Context, planID string, result Result) error
}

// Orchestrator drives one engine through generation, validation and commit.
type Orchestrator struct {
	strategy  Strategy
	engine    Engine
	validator *Validator
	persister Persister
	logger    *zap.Logger
}

// NewOrchestrator wires an engine with its validator and persister.
func NewOrchestrator(strategy Strategy, engine Engine, validator *Validator, persister Persister, logger *zap.Logger) *Orchestrator {
	if validator == nil {
		validator = NewValidator(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		strategy:  strategy,
		engine:    engine,
		validator: validator,
		persister: persister,
		logger:    logger,
	}
}

// Execute runs the engine once and validates its output against the plan's
// baseline. It never panics or returns an error: unexpected failures become a
// result with Success=false.
func (o *Orchestrator) Execute(ctx context.Context, plan Plan) (result Result) {
	started := time.Now()
	log := o.logger.With(zap.String("plan_id", plan.ID), zap.String("strategy", string(o.strategy)))

	defer func() {
		if r := recover(); r != nil {
			log.Error("scheduling run panicked", zap.Any("panic", r))
			result = o.failed(started, fmt.Sprintf("unexpected failure: %v", r))
		}
	}()

	log.Info("scheduling run started",
		zap.Int("obligations", len(plan.Obligations)),
		zap.Int("blocks", len(plan.Blocks)),
		zap.Int("rooms", len(plan.Rooms)))

	if o.engine == nil {
		return o.failed(started, "no engine configured")
	}
	candidates, err := o.engine.Generate(ctx, plan)
	if err != nil {
		log.Error("candidate generation failed", zap.Error(err))
		return o.failed(started, fmt.Sprintf("generation failed: %v", err))
	}

	ledger := NewLedger(plan)
	result = Result{Success: true, Strategy: o.strategy}
	placed := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		ev := o.validator.Evaluate(c, ledger)
		if !ev.Valid {
			result.Conflicts = append(result.Conflicts, Conflict{
				PlanID:       plan.ID,
				Category:     CategoryAlgorithmAssignment,
				ObligationID: c.Obligation.ID,
				Description:  "Violations: " + strings.Join(ev.Reasons, "; "),
			})
			continue
		}
		c.Score = ev.Score
		ledger.Reserve(c)
		placed[c.Obligation.ID] = true
		result.Assignments = append(result.Assignments, c)
		result.Score += c.Score
	}

	for _, ob := range plan.Obligations {
		if ob.Active && !placed[ob.ID] {
			result.Unassigned = append(result.Unassigned, ob)
		}
	}

	result.Elapsed = time.Since(started)
	result.Message = fmt.Sprintf("generated %d assignments, %d conflicts, %d unassigned",
		len(result.Assignments), len(result.Conflicts), len(result.Unassigned))

	log.Info("scheduling run finished",
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Int("unassigned", len(result.Unassigned)),
		zap.Float64("score", result.Score),
		zap.Duration("elapsed", result.Elapsed))
	return result
}

// Commit hands a successful result to the persister. Any failure is logged
// and reported as false; nothing is retried.
func (o *Orchestrator) Commit(ctx context.Context, planID string, result Result) bool {
	log := o.logger.With(zap.String("plan_id", planID), zap.String("strategy", string(result.Strategy)))
	if !result.Success {
		log.Warn("refusing to commit failed scheduling result")
		return false
	}
	if o.persister == nil {
		log.Error("no persister configured")
		return false
	}
	if err := o.persister.Replace(ctx, planID, result); err != nil {
		log.Error("failed to commit scheduling result", zap.Error(err))
		return false
	}
	log.Info("scheduling result committed",
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("conflicts", len(result.Conflicts)))
	return true
}

func (o *Orchestrator) failed(started time.Time, message string) Result {
	return Result{
		Success:     false,
		Assignments: []Candidate{},
		Conflicts:   []Conflict{},
		Unassigned:  []Obligation{},
		Elapsed:     time.Since(started),
		Strategy:    o.strategy,
		Message:     message,
	}
}

// DetectDoubleBookings reports every pair of committed bookings sharing a
// teacher or a room in the same block.
func DetectDoubleBookings(planID string, bookings []Booking) []Conflict {
	sorted := make([]Booking, len(bookings))
	copy(sorted, bookings)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].EntryID < sorted[j].EntryID })

	teacherFirst := make(map[resourceSlot]Booking)
	roomFirst := make(map[resourceSlot]Booking)
	var conflicts []Conflict
	for _, b := range sorted {
		if b.TeacherID != "" {
			key := resourceSlot{owner: b.TeacherID, block: b.Block.ID}
			if first, ok := teacherFirst[key]; ok {
				conflicts = append(conflicts, Conflict{
					PlanID:       planID,
					Category:     CategoryDoubleBooking,
					ObligationID: b.ObligationID,
					Description:  fmt.Sprintf("teacher %s double-booked in block %s by entries %s and %s", b.TeacherID, b.Block.ID, first.EntryID, b.EntryID),
				})
			} else {
				teacherFirst[key] = b
			}
		}
		if b.RoomID != "" {
			key := resourceSlot{owner: b.RoomID, block: b.Block.ID}
			if first, ok := roomFirst[key]; ok {
				conflicts = append(conflicts, Conflict{
					PlanID:       planID,
					Category:     CategoryDoubleBooking,
					ObligationID: b.ObligationID,
					Description:  fmt.Sprintf("room %s double-booked in block %s by entries %s and %s", b.RoomID, b.Block.ID, first.EntryID, b.EntryID),
				})
			} else {
				roomFirst[key] = b
			}
		}
	}
	return conflicts
}
