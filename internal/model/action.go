package model

// ActionKind tags a TaskAction.
type ActionKind int

const (
	ActionAdd ActionKind = iota + 1
	ActionUpdate
	ActionDelete
	ActionSetFavorite
	ActionSetCompleted
)

func (k ActionKind) String() string {
	switch k {
	case ActionAdd:
		return "add"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionSetFavorite:
		return "set_favorite"
	case ActionSetCompleted:
		return "set_completed"
	}
	return "unknown"
}

// TaskAction is a user intent on a task, dispatched by the screens to a
// view-model. Flag carries the favorite/completed value for the Set* kinds.
type TaskAction struct {
	Kind ActionKind
	Task ToDoTask
	Flag bool
}

func Add(task ToDoTask) TaskAction    { return TaskAction{Kind: ActionAdd, Task: task} }
func Update(task ToDoTask) TaskAction { return TaskAction{Kind: ActionUpdate, Task: task} }
func Delete(task ToDoTask) TaskAction { return TaskAction{Kind: ActionDelete, Task: task} }

func SetFavorite(task ToDoTask, favorite bool) TaskAction {
	return TaskAction{Kind: ActionSetFavorite, Task: task, Flag: favorite}
}

func SetCompleted(task ToDoTask, completed bool) TaskAction {
	return TaskAction{Kind: ActionSetCompleted, Task: task, Flag: completed}
}
