package scheduler

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

type teacherPriorityEngine struct {
	logger *zap.Logger
}

// Generate places obligations grouped by teacher, scanning every free
// block/room pair that seats the class and keeping the highest heuristic score.
func (e *teacherPriorityEngine) Generate(ctx context.Context, plan Plan) ([]Candidate, error) {
	obligations := activeObligations(plan)
	sort.SliceStable(obligations, func(i, j int) bool {
		if obligations[i].TeacherName != obligations[j].TeacherName {
			return obligations[i].TeacherName < obligations[j].TeacherName
		}
		return obligations[i].TeacherID < obligations[j].TeacherID
	})
	blocks := orderedBlocks(plan)
	rooms := usableRooms(plan)
	ledger := NewLedger(plan)

	candidates := make([]Candidate, 0, len(obligations))
	for _, ob := range obligations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var best placement
		for _, block := range blocks {
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
				best.consider(block, room, attendance, teacherPriorityScore(ob, block, room, attendance))
			}
		}
		if !best.found {
			e.logger.Debug("no free block for obligation", zap.String("obligation_id", ob.ID), zap.String("teacher_id", ob.TeacherID))
			continue
		}
		candidate := newCandidate(ob, best.block, best.room, best.attendance, best.score)
		ledger.Reserve(candidate)
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func teacherPriorityScore(ob Obligation, block TimeBlock, room Room, attendance int) float64 {
	score := 100.0
	if block.Start.Hour() < 10 {
		score += 20
	}
	switch block.Day {
	case Tuesday, Wednesday, Thursday:
		score += 15
	}
	if room.Capacity > attendance*2 {
		score -= 10
	}
	switch {
	case ob.NeedsLaboratory() && room.IsLaboratory():
		score += 30
	case !ob.NeedsLaboratory() && room.Type == RoomTypeLectureHall:
		score += 20
	}
	return score
}
