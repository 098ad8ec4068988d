package domain

// RoutineTree is the fully assembled hierarchy returned by the full-routine
// read. Every slice is sorted by the level's position field.
type RoutineTree struct {
	Routine
	Weeks []WeekTree `json:"weeks"`
}

type WeekTree struct {
	Week
	Days []DayTree `json:"days"`
}

type DayTree struct {
	Day
	Blocks []BlockTree `json:"blocks"`
}

type BlockTree struct {
	Block
	Exercises []RoutineExerciseDetail `json:"exercises"`
}

// RoutineExerciseDetail pairs the planned parameters with the resolved
// catalog entry. Exercise may be nil if the catalog entry was removed out
// of band; callers decide how to render that.
type RoutineExerciseDetail struct {
	RoutineExercise
	Exercise *Exercise `json:"exercise,omitempty"`
}
