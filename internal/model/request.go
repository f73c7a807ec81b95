package model

import "time"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreatePostRequest struct {
	Title         string   `json:"title" validate:"required,min=5,max=200"`
	Content       string   `json:"content" validate:"required,min=10,max=10000"`
	Excerpt       string   `json:"excerpt" validate:"max=300"`
	Category      string   `json:"category" validate:"required"`
	Tags          []string `json:"tags" validate:"dive,max=50"`
	PostType      string   `json:"post_type"`
	Visibility    string   `json:"visibility"`
	IsAnonymous   bool     `json:"is_anonymous"`
	AnonymousName string   `json:"anonymous_name" validate:"max=100"`
}

// UpdatePostRequest uses pointers so only the fields present in the payload
// are written, mirroring the whitelist update of the legacy API.
type UpdatePostRequest struct {
	Title         *string   `json:"title" validate:"omitempty,min=5,max=200"`
	Content       *string   `json:"content" validate:"omitempty,min=10,max=10000"`
	Excerpt       *string   `json:"excerpt" validate:"omitempty,max=300"`
	Category      *string   `json:"category"`
	Tags          *[]string `json:"tags" validate:"omitempty,dive,max=50"`
	PostType      *string   `json:"post_type"`
	IsAnonymous   *bool     `json:"is_anonymous"`
	AnonymousName *string   `json:"anonymous_name" validate:"omitempty,max=100"`
}

type CommentRequest struct {
	Content       string `json:"content" validate:"required,min=1,max=1000"`
	IsAnonymous   bool   `json:"is_anonymous"`
	AnonymousName string `json:"anonymous_name" validate:"max=100"`
}

type ChatMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type ChatbotRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// HealthDataRequest is a section-wise patch of the tracker document. Nil
// sections are left untouched; provided sections replace their counterpart,
// except cycle data and settings which merge field by field.
type HealthDataRequest struct {
	CycleData          *CycleDataPatch     `json:"cycle_data"`
	Symptoms           *[]Symptom          `json:"symptoms"`
	Moods              *[]Mood             `json:"moods"`
	WaterIntake        *[]WaterIntake      `json:"water_intake"`
	SleepData          *[]SleepEntry       `json:"sleep_data"`
	WeightData         *[]WeightEntry      `json:"weight_data"`
	ExerciseData       *[]ExerciseEntry    `json:"exercise_data"`
	Medications        *[]Medication       `json:"medications"`
	TemperatureData    *[]TemperatureEntry `json:"temperature_data"`
	JournalEntries     *[]JournalEntry     `json:"journal_entries"`
	CustomSymptomsList *[]string           `json:"custom_symptoms_list"`
	Settings           *SettingsPatch      `json:"settings"`
	DailyWaterGoal     *int                `json:"daily_water_goal" validate:"omitempty,min=0"`
	WaterGlassSize     *int                `json:"water_glass_size" validate:"omitempty,min=0"`
}

func (r HealthDataRequest) Empty() bool {
	return r.CycleData == nil && r.Symptoms == nil && r.Moods == nil &&
		r.WaterIntake == nil && r.SleepData == nil && r.WeightData == nil &&
		r.ExerciseData == nil && r.Medications == nil && r.TemperatureData == nil &&
		r.JournalEntries == nil && r.CustomSymptomsList == nil && r.Settings == nil &&
		r.DailyWaterGoal == nil && r.WaterGlassSize == nil
}

type CycleDataPatch struct {
	CycleLength       *int       `json:"cycle_length" validate:"omitempty,min=15,max=60"`
	LastPeriod        *time.Time `json:"last_period"`
	PeriodLength      *int       `json:"period_length" validate:"omitempty,min=1,max=15"`
	LutealPhaseLength *int       `json:"luteal_phase_length" validate:"omitempty,min=7,max=21"`
}

type SettingsPatch struct {
	Notifications *bool          `json:"notifications"`
	DarkMode      *bool          `json:"dark_mode"`
	ReminderTimes *ReminderTimes `json:"reminder_times"`
	Units         *TrackerUnits  `json:"units"`
}
