package service

import (
	"context"
	"time"

	"sakhi-junction/internal/model"
)

type healthStore interface {
	Get(ctx context.Context, userID string) (model.HealthData, bool, error)
	Upsert(ctx context.Context, userID string, data model.HealthData) error
	Delete(ctx context.Context, userID string) (int64, error)
}

// HealthService manages the per-user tracker document: lazy creation with
// sensible defaults, section-wise merging on update, and the cycle
// arithmetic that keeps phase and day current.
type HealthService struct {
	store healthStore
	now   func() time.Time
}

func NewHealthService(store healthStore) *HealthService {
	return &HealthService{store: store, now: time.Now}
}

// DefaultHealthData is the document a user starts with before logging
// anything: a textbook 28-day cycle and the stock reminder schedule.
func DefaultHealthData(now time.Time) model.HealthData {
	return model.HealthData{
		CycleData: model.CycleData{
			CurrentPhase:      model.PhaseFollicular,
			CurrentDay:        8,
			CycleLength:       28,
			PeriodLength:      5,
			LutealPhaseLength: 14,
		},
		Symptoms:           []model.Symptom{},
		Moods:              []model.Mood{},
		WaterIntake:        []model.WaterIntake{},
		SleepData:          []model.SleepEntry{},
		WeightData:         []model.WeightEntry{},
		ExerciseData:       []model.ExerciseEntry{},
		Medications:        []model.Medication{},
		TemperatureData:    []model.TemperatureEntry{},
		JournalEntries:     []model.JournalEntry{},
		CustomSymptomsList: []string{},
		Settings: model.TrackerSettings{
			Notifications: true,
			ReminderTimes: model.ReminderTimes{
				Water:      "09:00",
				Medication: "08:00",
				Sleep:      "21:30",
				Mood:       "20:00",
			},
			Units: model.TrackerUnits{
				Weight:      "kg",
				Temperature: "celsius",
			},
		},
		DailyWaterGoal: 2000,
		WaterGlassSize: 250,
		LastUpdated:    now,
	}
}

// Get returns the caller's document, creating the default one on first
// access so the client never has to special-case an empty tracker.
func (s *HealthService) Get(ctx context.Context, userID string) (model.HealthData, error) {
	data, exists, err := s.store.Get(ctx, userID)
	if err != nil {
		return model.HealthData{}, err
	}

	if !exists {
		data = DefaultHealthData(s.now().UTC())
		if err := s.store.Upsert(ctx, userID, data); err != nil {
			return model.HealthData{}, err
		}
		return data, nil
	}

	return data, nil
}

// Update merges the patch into the stored document. List sections replace
// wholesale; cycle data and settings merge field by field. Cycle dates are
// recomputed whenever cycle inputs change.
func (s *HealthService) Update(ctx context.Context, userID string, req model.HealthDataRequest) (model.HealthData, error) {
	data, exists, err := s.store.Get(ctx, userID)
	if err != nil {
		return model.HealthData{}, err
	}

	now := s.now().UTC()
	if !exists {
		data = DefaultHealthData(now)
	}

	if req.Symptoms != nil {
		data.Symptoms = *req.Symptoms
	}
	if req.Moods != nil {
		data.Moods = *req.Moods
	}
	if req.WaterIntake != nil {
		data.WaterIntake = *req.WaterIntake
	}
	if req.SleepData != nil {
		data.SleepData = *req.SleepData
	}
	if req.WeightData != nil {
		data.WeightData = *req.WeightData
	}
	if req.ExerciseData != nil {
		data.ExerciseData = *req.ExerciseData
	}
	if req.Medications != nil {
		data.Medications = *req.Medications
	}
	if req.TemperatureData != nil {
		data.TemperatureData = *req.TemperatureData
	}
	if req.JournalEntries != nil {
		data.JournalEntries = *req.JournalEntries
	}
	if req.CustomSymptomsList != nil {
		data.CustomSymptomsList = *req.CustomSymptomsList
	}
	if req.DailyWaterGoal != nil {
		data.DailyWaterGoal = *req.DailyWaterGoal
	}
	if req.WaterGlassSize != nil {
		data.WaterGlassSize = *req.WaterGlassSize
	}

	if req.Settings != nil {
		if req.Settings.Notifications != nil {
			data.Settings.Notifications = *req.Settings.Notifications
		}
		if req.Settings.DarkMode != nil {
			data.Settings.DarkMode = *req.Settings.DarkMode
		}
		if req.Settings.ReminderTimes != nil {
			data.Settings.ReminderTimes = *req.Settings.ReminderTimes
		}
		if req.Settings.Units != nil {
			data.Settings.Units = *req.Settings.Units
		}
	}

	if req.CycleData != nil {
		if req.CycleData.CycleLength != nil {
			data.CycleData.CycleLength = *req.CycleData.CycleLength
		}
		if req.CycleData.PeriodLength != nil {
			data.CycleData.PeriodLength = *req.CycleData.PeriodLength
		}
		if req.CycleData.LutealPhaseLength != nil {
			data.CycleData.LutealPhaseLength = *req.CycleData.LutealPhaseLength
		}
		if req.CycleData.LastPeriod != nil {
			lp := req.CycleData.LastPeriod.UTC()
			data.CycleData.LastPeriod = &lp
		}
		data.CycleData = RecomputeCycle(data.CycleData, now)
	}

	data.LastUpdated = now
	if err := s.store.Upsert(ctx, userID, data); err != nil {
		return model.HealthData{}, err
	}

	return data, nil
}

// Delete removes the document; the returned count tells the caller whether
// anything existed.
func (s *HealthService) Delete(ctx context.Context, userID string) (int64, error) {
	return s.store.Delete(ctx, userID)
}

// RecomputeCycle derives next period, ovulation, current day and phase from
// the last period date. Without a last period, only the derived dates are
// cleared and the stored day/phase stand.
func RecomputeCycle(c model.CycleData, now time.Time) model.CycleData {
	if c.LastPeriod == nil {
		c.NextPeriod = nil
		c.Ovulation = nil
		return c
	}

	if c.CycleLength <= 0 {
		c.CycleLength = 28
	}

	next := c.LastPeriod.AddDate(0, 0, c.CycleLength)
	ovulation := next.AddDate(0, 0, -c.LutealPhaseLength)
	c.NextPeriod = &next
	c.Ovulation = &ovulation

	// Day within the cycle, 1-based and wrapped around the cycle length.
	elapsed := int(now.Sub(c.LastPeriod.UTC()).Hours() / 24)
	if elapsed < 0 {
		elapsed = 0
	}
	day := elapsed%c.CycleLength + 1
	c.CurrentDay = day

	ovulationDay := c.CycleLength - c.LutealPhaseLength
	switch {
	case day <= c.PeriodLength:
		c.CurrentPhase = model.PhaseMenstrual
	case day < ovulationDay:
		c.CurrentPhase = model.PhaseFollicular
	case day == ovulationDay:
		c.CurrentPhase = model.PhaseOvulation
	default:
		c.CurrentPhase = model.PhaseLuteal
	}

	return c
}
