package model

// ToDoTask is the domain model for a todo entry.
// The ID is assigned by the database on insert.
type ToDoTask struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed" gorm:"index"`
	Favorite    bool   `json:"favorite"`
}
