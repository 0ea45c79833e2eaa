package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
	"github.com/noah-isme/sma-scheduler-api/pkg/config"
)

func TestSchedulingConfigMapsTunables(t *testing.T) {
	cfg := SchedulingConfig(config.SchedulerConfig{
		Enabled:                 true,
		DefaultStrategy:         "genetic_algorithm",
		RunTimeout:              time.Minute,
		OverlapMode:             "interval",
		PopulationSize:          80,
		Generations:             200,
		MutationRate:            0.05,
		TournamentSize:          4,
		PlacementAttempts:       30,
		Workers:                 2,
		Seed:                    99,
		WeightTeacherPreference: 0.5,
		WeightRoomAffinity:      0.3,
		WeightBalance:           0.2,
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "genetic_algorithm", cfg.DefaultStrategy)
	assert.Equal(t, time.Minute, cfg.RunTimeout)
	assert.Equal(t, "interval", cfg.OverlapMode)
	assert.Equal(t, 80, cfg.PopulationSize)
	assert.Equal(t, 200, cfg.Generations)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, scheduler.Weights{TeacherPreference: 0.5, RoomAffinity: 0.3, Balance: 0.2}, cfg.Weights)
}
