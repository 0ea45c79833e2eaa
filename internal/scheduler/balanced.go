package scheduler

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

type balancedEngine struct {
	logger *zap.Logger
}

// Generate routes each obligation to the least loaded weekday. When that
// day has no free pair the next least loaded day is tried.
func (e *balancedEngine) Generate(ctx context.Context, plan Plan) ([]Candidate, error) {
	obligations := activeObligations(plan)
	blocks := orderedBlocks(plan)
	rooms := usableRooms(plan)
	ledger := NewLedger(plan)

	byDay := make(map[Weekday][]TimeBlock)
	for _, block := range blocks {
		byDay[block.Day] = append(byDay[block.Day], block)
	}

	candidates := make([]Candidate, 0, len(obligations))
	for _, ob := range obligations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		days := ledger.Days()
		sort.SliceStable(days, func(i, j int) bool {
			return ledger.DayLoad(days[i]) < ledger.DayLoad(days[j])
		})

		var best placement
		for _, day := range days {
			load := ledger.DayLoad(day)
			for _, block := range byDay[day] {
				if ledger.TeacherBusy(ob.TeacherID, block.ID) {
					continue
				}
				for _, room := range rooms {
					if ledger.RoomBusy(room.ID, block.ID) {
						continue
					}
					attendance := defaultAttendance(ob, room)
					if !fits(attendance, room) {
						continue
					}
					best.consider(block, room, attendance, balancedScore(load, block))
				}
			}
			if best.found {
				break
			}
		}
		if !best.found {
			e.logger.Debug("no balanced slot for obligation", zap.String("obligation_id", ob.ID))
			continue
		}
		candidate := newCandidate(ob, best.block, best.room, best.attendance, best.score)
		ledger.Reserve(candidate)
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func balancedScore(dayLoad int, block TimeBlock) float64 {
	score := 100.0
	switch {
	case dayLoad == 0:
		score += 30
	case dayLoad <= 2:
		score += 20
	case dayLoad <= 4:
		score += 10
	default:
		score -= 20
	}
	hour := block.Start.Hour()
	switch {
	case hour >= 8 && hour <= 11:
		score += 15
	case hour >= 14 && hour <= 16:
		score += 10
	}
	return score
}
