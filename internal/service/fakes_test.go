package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"alcyxob/routine-planner/internal/domain"
	"alcyxob/routine-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the Mongo implementations'
// contracts: Create assigns an ID and timestamps, GetByID returns a copy
// and repository.ErrNotFound for absent documents, the list methods return
// the same sort order as the real queries, and the unique-index sentinels
// (ErrDuplicateKey) fire where the real indexes would.

type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := u
	return &user, nil
}

// --- exercise catalog ---

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = time.Now().UTC()
	exercise.UpdatedAt = exercise.CreatedAt
	r.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	exercise := ex
	return &exercise, nil
}

func (r *fakeExerciseRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	out := make([]domain.Exercise, 0, len(ids))
	for _, id := range ids {
		if ex, ok := r.exercises[id]; ok {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, ex := range r.exercises {
		if !filter.IncludeInactive && !ex.IsActive {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(ex.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.MovementType != "" && ex.MovementType != filter.MovementType {
			continue
		}
		if filter.PrimaryMuscleGroup != "" && ex.PrimaryMuscleGroup != filter.PrimaryMuscleGroup {
			continue
		}
		if filter.Equipment != "" && ex.Equipment != filter.Equipment {
			continue
		}
		if filter.Difficulty != "" && ex.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	exercise.UpdatedAt = time.Now().UTC()
	r.exercises[exercise.ID] = *exercise
	return nil
}

// --- routines ---

type fakeRoutineRepo struct {
	routines map[primitive.ObjectID]domain.Routine
}

func newFakeRoutineRepo() *fakeRoutineRepo {
	return &fakeRoutineRepo{routines: make(map[primitive.ObjectID]domain.Routine)}
}

func (r *fakeRoutineRepo) Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	routine.ID = primitive.NewObjectID()
	routine.CreatedAt = time.Now().UTC()
	routine.UpdatedAt = routine.CreatedAt
	r.routines[routine.ID] = *routine
	return routine.ID, nil
}

func (r *fakeRoutineRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	rt, ok := r.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	routine := rt
	return &routine, nil
}

func (r *fakeRoutineRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, onlyActive bool) ([]domain.Routine, error) {
	var out []domain.Routine
	for _, rt := range r.routines {
		if rt.OwnerID != ownerID {
			continue
		}
		if onlyActive && !rt.IsActive {
			continue
		}
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRoutineRepo) Update(ctx context.Context, routine *domain.Routine) error {
	if _, ok := r.routines[routine.ID]; !ok {
		return repository.ErrNotFound
	}
	routine.UpdatedAt = time.Now().UTC()
	r.routines[routine.ID] = *routine
	return nil
}

// --- weeks ---

type fakeWeekRepo struct {
	weeks map[primitive.ObjectID]domain.Week
}

func newFakeWeekRepo() *fakeWeekRepo {
	return &fakeWeekRepo{weeks: make(map[primitive.ObjectID]domain.Week)}
}

func (r *fakeWeekRepo) Create(ctx context.Context, week *domain.Week) (primitive.ObjectID, error) {
	for _, w := range r.weeks {
		if w.RoutineID == week.RoutineID && w.WeekNumber == week.WeekNumber {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	week.ID = primitive.NewObjectID()
	week.CreatedAt = time.Now().UTC()
	week.UpdatedAt = week.CreatedAt
	r.weeks[week.ID] = *week
	return week.ID, nil
}

func (r *fakeWeekRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Week, error) {
	w, ok := r.weeks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	week := w
	return &week, nil
}

func (r *fakeWeekRepo) ListByRoutineID(ctx context.Context, routineID primitive.ObjectID) ([]domain.Week, error) {
	var out []domain.Week
	for _, w := range r.weeks {
		if w.RoutineID == routineID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekNumber < out[j].WeekNumber })
	return out, nil
}

func (r *fakeWeekRepo) NumberExists(ctx context.Context, routineID primitive.ObjectID, weekNumber int, excludeID primitive.ObjectID) (bool, error) {
	for _, w := range r.weeks {
		if w.RoutineID == routineID && w.WeekNumber == weekNumber && w.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWeekRepo) Update(ctx context.Context, week *domain.Week) error {
	if _, ok := r.weeks[week.ID]; !ok {
		return repository.ErrNotFound
	}
	week.UpdatedAt = time.Now().UTC()
	r.weeks[week.ID] = *week
	return nil
}

func (r *fakeWeekRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.weeks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.weeks, id)
	return nil
}

// --- days ---

type fakeDayRepo struct {
	days map[primitive.ObjectID]domain.Day
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{days: make(map[primitive.ObjectID]domain.Day)}
}

func (r *fakeDayRepo) Create(ctx context.Context, day *domain.Day) (primitive.ObjectID, error) {
	for _, d := range r.days {
		if d.WeekID == day.WeekID && d.DayNumber == day.DayNumber {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	day.ID = primitive.NewObjectID()
	day.CreatedAt = time.Now().UTC()
	day.UpdatedAt = day.CreatedAt
	r.days[day.ID] = *day
	return day.ID, nil
}

func (r *fakeDayRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Day, error) {
	d, ok := r.days[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	day := d
	return &day, nil
}

func (r *fakeDayRepo) ListByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.Day, error) {
	return r.ListByWeekIDs(ctx, []primitive.ObjectID{weekID})
}

func (r *fakeDayRepo) ListByWeekIDs(ctx context.Context, weekIDs []primitive.ObjectID) ([]domain.Day, error) {
	idSet := make(map[primitive.ObjectID]struct{}, len(weekIDs))
	for _, id := range weekIDs {
		idSet[id] = struct{}{}
	}
	var out []domain.Day
	for _, d := range r.days {
		if _, ok := idSet[d.WeekID]; ok {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

func (r *fakeDayRepo) NumberExists(ctx context.Context, weekID primitive.ObjectID, dayNumber int, excludeID primitive.ObjectID) (bool, error) {
	for _, d := range r.days {
		if d.WeekID == weekID && d.DayNumber == dayNumber && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDayRepo) Update(ctx context.Context, day *domain.Day) error {
	if _, ok := r.days[day.ID]; !ok {
		return repository.ErrNotFound
	}
	day.UpdatedAt = time.Now().UTC()
	r.days[day.ID] = *day
	return nil
}

func (r *fakeDayRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.days[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.days, id)
	return nil
}

// --- blocks ---

type fakeBlockRepo struct {
	blocks map[primitive.ObjectID]domain.Block
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocks: make(map[primitive.ObjectID]domain.Block)}
}

func (r *fakeBlockRepo) Create(ctx context.Context, block *domain.Block) (primitive.ObjectID, error) {
	block.ID = primitive.NewObjectID()
	block.CreatedAt = time.Now().UTC()
	block.UpdatedAt = block.CreatedAt
	r.blocks[block.ID] = *block
	return block.ID, nil
}

func (r *fakeBlockRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Block, error) {
	b, ok := r.blocks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	block := b
	return &block, nil
}

func (r *fakeBlockRepo) ListByDayID(ctx context.Context, dayID primitive.ObjectID) ([]domain.Block, error) {
	return r.ListByDayIDs(ctx, []primitive.ObjectID{dayID})
}

func (r *fakeBlockRepo) ListByDayIDs(ctx context.Context, dayIDs []primitive.ObjectID) ([]domain.Block, error) {
	idSet := make(map[primitive.ObjectID]struct{}, len(dayIDs))
	for _, id := range dayIDs {
		idSet[id] = struct{}{}
	}
	var out []domain.Block
	for _, b := range r.blocks {
		if _, ok := idSet[b.DayID]; ok {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func (r *fakeBlockRepo) MaxOrder(ctx context.Context, dayID primitive.ObjectID) (int, error) {
	max := 0
	for _, b := range r.blocks {
		if b.DayID == dayID && b.Order > max {
			max = b.Order
		}
	}
	return max, nil
}

func (r *fakeBlockRepo) Update(ctx context.Context, block *domain.Block) error {
	if _, ok := r.blocks[block.ID]; !ok {
		return repository.ErrNotFound
	}
	block.UpdatedAt = time.Now().UTC()
	r.blocks[block.ID] = *block
	return nil
}

func (r *fakeBlockRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.blocks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.blocks, id)
	return nil
}

// --- planned exercises ---

type fakeRoutineExerciseRepo struct {
	entries map[primitive.ObjectID]domain.RoutineExercise
}

func newFakeRoutineExerciseRepo() *fakeRoutineExerciseRepo {
	return &fakeRoutineExerciseRepo{entries: make(map[primitive.ObjectID]domain.RoutineExercise)}
}

func (r *fakeRoutineExerciseRepo) Create(ctx context.Context, re *domain.RoutineExercise) (primitive.ObjectID, error) {
	re.ID = primitive.NewObjectID()
	re.CreatedAt = time.Now().UTC()
	re.UpdatedAt = re.CreatedAt
	r.entries[re.ID] = *re
	return re.ID, nil
}

func (r *fakeRoutineExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineExercise, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	re := e
	return &re, nil
}

func (r *fakeRoutineExerciseRepo) ListByBlockID(ctx context.Context, blockID primitive.ObjectID) ([]domain.RoutineExercise, error) {
	return r.ListByBlockIDs(ctx, []primitive.ObjectID{blockID})
}

func (r *fakeRoutineExerciseRepo) ListByBlockIDs(ctx context.Context, blockIDs []primitive.ObjectID) ([]domain.RoutineExercise, error) {
	idSet := make(map[primitive.ObjectID]struct{}, len(blockIDs))
	for _, id := range blockIDs {
		idSet[id] = struct{}{}
	}
	var out []domain.RoutineExercise
	for _, e := range r.entries {
		if _, ok := idSet[e.BlockID]; ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func (r *fakeRoutineExerciseRepo) MaxOrder(ctx context.Context, blockID primitive.ObjectID) (int, error) {
	max := 0
	for _, e := range r.entries {
		if e.BlockID == blockID && e.Order > max {
			max = e.Order
		}
	}
	return max, nil
}

func (r *fakeRoutineExerciseRepo) Update(ctx context.Context, re *domain.RoutineExercise) error {
	if _, ok := r.entries[re.ID]; !ok {
		return repository.ErrNotFound
	}
	re.UpdatedAt = time.Now().UTC()
	r.entries[re.ID] = *re
	return nil
}

func (r *fakeRoutineExerciseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *fakeRoutineExerciseRepo) DeleteByBlockID(ctx context.Context, blockID primitive.ObjectID) error {
	for id, e := range r.entries {
		if e.BlockID == blockID {
			delete(r.entries, id)
		}
	}
	return nil
}

// --- object storage ---

type fakeFileStorage struct {
	deleted []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// --- fixture ---

// fixture wires the whole service stack over the in-memory repositories,
// with two users: the routine owner and a stranger.
type fixture struct {
	users    *fakeUserRepo
	catalog  *fakeExerciseRepo
	routines *fakeRoutineRepo
	weeks    *fakeWeekRepo
	days     *fakeDayRepo
	blocks   *fakeBlockRepo
	planned  *fakeRoutineExerciseRepo
	storage  *fakeFileStorage

	routineSvc  RoutineService
	weekSvc     WeekService
	daySvc      DayService
	blockSvc    BlockService
	plannedSvc  RoutineExerciseService
	exerciseSvc ExerciseService

	owner    primitive.ObjectID
	stranger primitive.ObjectID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:    newFakeUserRepo(),
		catalog:  newFakeExerciseRepo(),
		routines: newFakeRoutineRepo(),
		weeks:    newFakeWeekRepo(),
		days:     newFakeDayRepo(),
		blocks:   newFakeBlockRepo(),
		planned:  newFakeRoutineExerciseRepo(),
		storage:  &fakeFileStorage{},
	}

	tx := fakeTxRunner{}
	f.plannedSvc = NewRoutineExerciseService(f.routines, f.blocks, f.planned, f.catalog, tx)
	f.blockSvc = NewBlockService(f.routines, f.days, f.blocks, f.plannedSvc, tx)
	f.daySvc = NewDayService(f.routines, f.weeks, f.days, f.blocks, f.blockSvc, tx)
	f.weekSvc = NewWeekService(f.routines, f.weeks, f.days, f.daySvc, tx)
	f.routineSvc = NewRoutineService(f.routines, f.weeks, f.days, f.blocks, f.catalog, f.planned, tx)
	f.exerciseSvc = NewExerciseService(f.catalog, f.storage)

	f.owner = primitive.NewObjectID()
	f.stranger = primitive.NewObjectID()
	return f
}

func (f *fixture) mustRoutine(t *testing.T, name string) *domain.Routine {
	t.Helper()
	routine, err := f.routineSvc.CreateRoutine(context.Background(), f.owner, CreateRoutineInput{Name: name})
	if err != nil {
		t.Fatalf("create routine: %v", err)
	}
	return routine
}

func (f *fixture) mustWeek(t *testing.T, routineID primitive.ObjectID, number int) *domain.Week {
	t.Helper()
	week, err := f.weekSvc.CreateWeek(context.Background(), f.owner, routineID, CreateWeekInput{WeekNumber: number})
	if err != nil {
		t.Fatalf("create week %d: %v", number, err)
	}
	return week
}

func (f *fixture) mustDay(t *testing.T, weekID primitive.ObjectID, number int) *domain.Day {
	t.Helper()
	day, err := f.daySvc.CreateDay(context.Background(), f.owner, weekID, CreateDayInput{DayNumber: number})
	if err != nil {
		t.Fatalf("create day %d: %v", number, err)
	}
	return day
}

func (f *fixture) mustBlock(t *testing.T, dayID primitive.ObjectID, name string) *domain.Block {
	t.Helper()
	block, err := f.blockSvc.CreateBlock(context.Background(), f.owner, dayID, CreateBlockInput{Name: name})
	if err != nil {
		t.Fatalf("create block %q: %v", name, err)
	}
	return block
}

func (f *fixture) mustCatalogExercise(t *testing.T, name string) *domain.Exercise {
	t.Helper()
	exercise, err := f.exerciseSvc.CreateExercise(context.Background(), f.owner, CreateExerciseInput{Name: name})
	if err != nil {
		t.Fatalf("create catalog exercise %q: %v", name, err)
	}
	return exercise
}

func (f *fixture) mustPlanned(t *testing.T, blockID, exerciseID primitive.ObjectID) *domain.RoutineExercise {
	t.Helper()
	re, err := f.plannedSvc.AddExercise(context.Background(), f.owner, blockID, CreateRoutineExerciseInput{ExerciseID: exerciseID})
	if err != nil {
		t.Fatalf("plan exercise: %v", err)
	}
	return re
}
