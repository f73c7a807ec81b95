package model

import "time"

// HealthData is the per-user tracker document. It is stored as a single JSONB
// document keyed by user id, mirroring the one-document-per-user layout the
// tracker always had.
type HealthData struct {
	CycleData          CycleData          `json:"cycle_data"`
	Symptoms           []Symptom          `json:"symptoms"`
	Moods              []Mood             `json:"moods"`
	WaterIntake        []WaterIntake      `json:"water_intake"`
	SleepData          []SleepEntry       `json:"sleep_data"`
	WeightData         []WeightEntry      `json:"weight_data"`
	ExerciseData       []ExerciseEntry    `json:"exercise_data"`
	Medications        []Medication       `json:"medications"`
	TemperatureData    []TemperatureEntry `json:"temperature_data"`
	JournalEntries     []JournalEntry     `json:"journal_entries"`
	CustomSymptomsList []string           `json:"custom_symptoms_list"`
	Settings           TrackerSettings    `json:"settings"`
	DailyWaterGoal     int                `json:"daily_water_goal"`
	WaterGlassSize     int                `json:"water_glass_size"`
	LastUpdated        time.Time          `json:"last_updated"`
}

const (
	PhaseMenstrual  = "Menstrual"
	PhaseFollicular = "Follicular"
	PhaseOvulation  = "Ovulation"
	PhaseLuteal     = "Luteal"
)

type CycleData struct {
	CurrentPhase      string     `json:"current_phase"`
	CurrentDay        int        `json:"current_day"`
	CycleLength       int        `json:"cycle_length"`
	LastPeriod        *time.Time `json:"last_period,omitempty"`
	NextPeriod        *time.Time `json:"next_period,omitempty"`
	Ovulation         *time.Time `json:"ovulation,omitempty"`
	PeriodLength      int        `json:"period_length"`
	LutealPhaseLength int        `json:"luteal_phase_length"`
}

type Symptom struct {
	ID        int64     `json:"id"`
	Category  string    `json:"category"`
	Type      string    `json:"type"`
	Intensity string    `json:"intensity"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes,omitempty"`
}

type Mood struct {
	ID      int64     `json:"id"`
	Mood    string    `json:"mood"`
	Energy  int       `json:"energy"`
	Stress  int       `json:"stress"`
	Anxiety int       `json:"anxiety"`
	Notes   string    `json:"notes,omitempty"`
	Date    time.Time `json:"date"`
}

type WaterIntake struct {
	ID     int64     `json:"id"`
	Amount int       `json:"amount"`
	Goal   int       `json:"goal"`
	Date   time.Time `json:"date"`
}

type SleepEntry struct {
	ID       int64     `json:"id"`
	Bedtime  string    `json:"bedtime"`
	WakeTime string    `json:"wake_time"`
	Quality  int       `json:"quality"`
	Duration float64   `json:"duration,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	Date     time.Time `json:"date"`
}

type WeightEntry struct {
	ID     int64     `json:"id"`
	Weight float64   `json:"weight"`
	Unit   string    `json:"unit"`
	Date   time.Time `json:"date"`
}

type ExerciseEntry struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Duration  int       `json:"duration"`
	Intensity string    `json:"intensity"`
	Calories  int       `json:"calories,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Date      time.Time `json:"date"`
}

type Medication struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Time      string `json:"time"`
	Notes     string `json:"notes,omitempty"`
	Active    bool   `json:"active"`
}

type TemperatureEntry struct {
	ID          int64     `json:"id"`
	Temperature float64   `json:"temperature"`
	Time        string    `json:"time"`
	Date        time.Time `json:"date"`
}

type JournalEntry struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title,omitempty"`
	Content string    `json:"content"`
	Mood    string    `json:"mood"`
	Date    time.Time `json:"date"`
}

type TrackerSettings struct {
	Notifications bool          `json:"notifications"`
	DarkMode      bool          `json:"dark_mode"`
	ReminderTimes ReminderTimes `json:"reminder_times"`
	Units         TrackerUnits  `json:"units"`
}

type ReminderTimes struct {
	Water      string `json:"water"`
	Medication string `json:"medication"`
	Sleep      string `json:"sleep"`
	Mood       string `json:"mood"`
}

type TrackerUnits struct {
	Weight      string `json:"weight"`
	Temperature string `json:"temperature"`
}
