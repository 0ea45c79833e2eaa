package scheduler

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

const (
	efficiencyLow  = 0.6
	efficiencyHigh = 0.9
)

type roomOptimizationEngine struct {
	logger *zap.Logger
}

// Generate places the heaviest obligations first, only into rooms large
// enough for the estimated attendance, preferring the optimal usage band.
func (e *roomOptimizationEngine) Generate(ctx context.Context, plan Plan) ([]Candidate, error) {
	obligations := activeObligations(plan)
	sort.SliceStable(obligations, func(i, j int) bool {
		return obligations[i].WeeklyHours > obligations[j].WeeklyHours
	})
	blocks := orderedBlocks(plan)
	rooms := usableRooms(plan)
	ledger := NewLedger(plan)

	candidates := make([]Candidate, 0, len(obligations))
	for _, ob := range obligations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		estimate := estimateAttendance(ob)
		var best placement
		for _, room := range rooms {
			if !fits(estimate, room) {
				continue
			}
			score := roomEfficiency(estimate, room.Capacity)
			if affine(ob, room) {
				score += 20
			}
			for _, block := range blocks {
				if ledger.TeacherBusy(ob.TeacherID, block.ID) || ledger.RoomBusy(room.ID, block.ID) {
					continue
				}
				best.consider(block, room, estimate, score)
			}
		}
		if !best.found {
			e.logger.Debug("no room fits obligation", zap.String("obligation_id", ob.ID), zap.Int("estimate", estimate))
			continue
		}
		candidate := newCandidate(ob, best.block, best.room, best.attendance, best.score)
		ledger.Reserve(candidate)
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// estimateAttendance derives a target head count from the curricular level.
func estimateAttendance(ob Obligation) int {
	if ob.ExpectedAttendance > 0 {
		return ob.ExpectedAttendance
	}
	switch {
	case ob.SubjectLevel > 0 && ob.SubjectLevel <= 2:
		return 35
	case ob.SubjectLevel >= 7:
		return 20
	default:
		return 25
	}
}

// roomEfficiency peaks at 100 inside [0.6, 0.9]; below the band it grows
// with usage, above it decreases linearly.
func roomEfficiency(attendance, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	ratio := float64(attendance) / float64(capacity)
	switch {
	case ratio < efficiencyLow:
		return 50 + ratio*50
	case ratio <= efficiencyHigh:
		return 100
	default:
		return 90 - (ratio-efficiencyHigh)*100
	}
}
