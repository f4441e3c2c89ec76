package services

import (
	"context"
	"errors"
	"testing"

	"fitcoach/internal/models"
	"fitcoach/internal/repository"
)

// Заглушки репозитория планов и модели.
type mockWorkoutRepo struct {
	details map[int]*models.UserDetails
	plans   map[int]*models.WorkoutPlan
}

func newMockWorkoutRepo() *mockWorkoutRepo {
	return &mockWorkoutRepo{
		details: make(map[int]*models.UserDetails),
		plans:   make(map[int]*models.WorkoutPlan),
	}
}

func (m *mockWorkoutRepo) CreateUserDetails(_ context.Context, d *models.UserDetails) error {
	d.ID = len(m.details) + 1
	m.details[d.UserID] = d
	return nil
}

func (m *mockWorkoutRepo) CreateWorkoutPlan(_ context.Context, p *models.WorkoutPlan) error {
	p.ID = len(m.plans) + 1
	m.plans[p.UserID] = p
	return nil
}

func (m *mockWorkoutRepo) GetPlanByUserID(_ context.Context, userID int) (*models.WorkoutPlan, error) {
	p, ok := m.plans[userID]
	if !ok {
		return nil, repository.ErrPlanNotFound
	}
	return p, nil
}

type mockGenerator struct {
	response string
	err      error
	calls    int
}

func (m *mockGenerator) CreateChatCompletion(_ context.Context, _ string, _ int) (string, error) {
	m.calls++
	return m.response, m.err
}

const samplePlanJSON = `[
	{
		"day": "Monday",
		"bodyPart": "Chest",
		"exercises": [
			{"name": "Bench Press", "sets": 4, "reps": 8, "bodyPart": "Chest", "description": "Press the bar off your chest."},
			{"name": "Incline Dumbbell Press", "sets": 3, "reps": 10, "bodyPart": "Chest", "description": "Press dumbbells on an incline bench."},
			{"name": "Cable Fly", "sets": 3, "reps": 12, "bodyPart": "Chest", "description": "Bring the handles together in front of you."}
		]
	},
	{
		"day": "Tuesday",
		"bodyPart": "Back",
		"exercises": [
			{"name": "Deadlift", "sets": 4, "reps": 6, "bodyPart": "Back", "description": "Lift the bar from the floor with a flat back."},
			{"name": "Lat Pulldown", "sets": 3, "reps": 10, "bodyPart": "Back", "description": "Pull the bar to your upper chest."},
			{"name": "Seated Row", "sets": 3, "reps": 10, "bodyPart": "Back", "description": "Row the handle to your torso."}
		]
	}
]`

func sampleDetails() *models.UserDetails {
	return &models.UserDetails{
		UserID:        1,
		Age:           30,
		Gender:        "male",
		Weight:        80,
		Height:        180,
		TrainingLevel: "intermediate",
		TrainingType:  "muscle gain",
	}
}

func TestCreatePlan(t *testing.T) {
	repo := newMockWorkoutRepo()
	gen := &mockGenerator{response: "```json\n" + samplePlanJSON + "\n```"}
	service := NewWorkoutService(repo, gen)

	plan, err := service.CreatePlan(context.Background(), sampleDetails())
	if err != nil {
		t.Fatalf("ошибка генерации плана: %v", err)
	}
	if len(plan.Plans) != 2 {
		t.Fatalf("ожидалось 2 дня в плане, получено %d", len(plan.Plans))
	}
	if plan.Plans[0].Day != "Monday" || plan.Plans[0].BodyPart != "Chest" {
		t.Fatalf("первый день разобран неверно: %+v", plan.Plans[0])
	}
	if len(plan.Plans[0].Exercises) != 3 {
		t.Fatalf("ожидалось 3 упражнения, получено %d", len(plan.Plans[0].Exercises))
	}
	if repo.plans[1] == nil {
		t.Fatal("план не сохранён в репозитории")
	}
	if repo.details[1] == nil {
		t.Fatal("анкета не сохранена в репозитории")
	}
}

func TestCreatePlan_ReturnsExisting(t *testing.T) {
	repo := newMockWorkoutRepo()
	gen := &mockGenerator{response: samplePlanJSON}
	service := NewWorkoutService(repo, gen)

	first, err := service.CreatePlan(context.Background(), sampleDetails())
	if err != nil {
		t.Fatalf("ошибка первой генерации: %v", err)
	}

	// Повторный вызов не ходит в модель, а отдаёт существующий план.
	second, err := service.CreatePlan(context.Background(), sampleDetails())
	if err != nil {
		t.Fatalf("ошибка повторного вызова: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("повторный вызов вернул другой план")
	}
	if gen.calls != 1 {
		t.Fatalf("ожидался ровно один вызов модели, сделано %d", gen.calls)
	}
}

func TestCreatePlan_ModelError(t *testing.T) {
	repo := newMockWorkoutRepo()
	gen := &mockGenerator{err: errors.New("model unavailable")}
	service := NewWorkoutService(repo, gen)

	if _, err := service.CreatePlan(context.Background(), sampleDetails()); err == nil {
		t.Fatal("ожидалась ошибка при недоступной модели")
	}
	if len(repo.plans) != 0 {
		t.Fatal("план сохранён несмотря на ошибку модели")
	}
}

func TestGetPlan_NotFound(t *testing.T) {
	repo := newMockWorkoutRepo()
	service := NewWorkoutService(repo, &mockGenerator{})

	_, err := service.GetPlan(context.Background(), 42)
	if !errors.Is(err, ErrNoWorkoutFound) {
		t.Fatalf("ожидалась ErrNoWorkoutFound, получено: %v", err)
	}
}

func TestParsePlans(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "чистый JSON", raw: samplePlanJSON},
		{name: "обёрнут в ```json", raw: "```json\n" + samplePlanJSON + "\n```"},
		{name: "обёрнут в ```", raw: "```\n" + samplePlanJSON + "\n```"},
		{name: "пустой массив", raw: "[]", wantErr: true},
		{name: "не JSON", raw: "Sorry, I cannot help with that.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans, err := ParsePlans(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ожидалась ошибка разбора")
				}
				return
			}
			if err != nil {
				t.Fatalf("ошибка разбора: %v", err)
			}
			if len(plans) != 2 {
				t.Fatalf("ожидалось 2 дня, получено %d", len(plans))
			}
		})
	}
}
