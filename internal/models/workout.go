package models

import "time"

// UserDetails — анкета, по которой строится план тренировок.
type UserDetails struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	Weight        float64   `json:"weight"`
	Height        float64   `json:"height"`
	Injuries      string    `json:"injuries"`
	TrainingLevel string    `json:"training_level"`
	TrainingType  string    `json:"training_type"`
	CreatedAt     time.Time `json:"created_at"`
}

type Exercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	BodyPart    string `json:"bodyPart"`
	Description string `json:"description"`
}

// DayPlan — тренировка на один день: одна часть тела, минимум три упражнения.
type DayPlan struct {
	Day       string     `json:"day"`
	BodyPart  string     `json:"bodyPart"`
	Exercises []Exercise `json:"exercises"`
}

// WorkoutPlan — недельный план; Plans хранится в БД как jsonb одним документом.
type WorkoutPlan struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	UserDetailID int       `json:"user_detail_id"`
	Plans        []DayPlan `json:"plans"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
