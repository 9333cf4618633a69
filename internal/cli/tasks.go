package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todocrm/internal/model"
	"github.com/idilsaglam/todocrm/internal/store/jsonstore"
	"github.com/idilsaglam/todocrm/internal/ui"
)

var errNoTasks = errors.New("task store is not available")

func (r *runner) doApp() int {
	if r.env.App == nil {
		r.fail("app: interactive mode is not available")
		return 1
	}
	if err := r.env.App(r.ctx); err != nil {
		r.fail("app: " + err.Error())
		return 1
	}
	return 0
}

func (r *runner) load() ([]model.ToDoTask, bool) {
	if r.env.Tasks == nil {
		r.fail("load: " + errNoTasks.Error())
		return nil, false
	}
	tasks, err := r.env.Tasks.Tasks(r.ctx)
	if err != nil {
		r.fail("load: " + err.Error())
		return nil, false
	}
	return tasks, true
}

func (r *runner) doList() int {
	tasks, ok := r.load()
	if !ok {
		return 1
	}

	// Header + progress
	d, p, f := stats(tasks)
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Tasks"),
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymUnchecked), p,
		ui.C(t.Pending, t.SymFavorite), f,
		ui.C(t.Accent, "Total"), len(tasks),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if r.opt.Group {
		lines = append(lines, groupLines(tasks)...)
	} else {
		lines = append(lines, flatLines(tasks, 0)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	fmt.Fprint(r.opt.Out, ui.Panel(lines))
	return 0
}

func (r *runner) doAdd(title, desc string) int {
	if r.env.Tasks == nil {
		r.fail("add: " + errNoTasks.Error())
		return 1
	}
	if _, err := r.env.Tasks.AddTask(r.ctx, model.ToDoTask{Title: title, Description: desc}); err != nil {
		r.fail("add: " + err.Error())
		return 1
	}
	r.ok("added")
	return 0
}

// pick resolves a 1-based index over the ls order.
func (r *runner) pick(userIndex int) (model.ToDoTask, int) {
	tasks, ok := r.load()
	if !ok {
		return model.ToDoTask{}, 1
	}
	if userIndex < 1 || userIndex > len(tasks) {
		r.fail(fmt.Sprintf("index out of range: have %d, got %d", len(tasks), userIndex))
		fmt.Fprintln(r.opt.Err, ui.C(ui.Current().Muted, "Hint: run `todo ls` to see valid indexes"))
		return model.ToDoTask{}, 2
	}
	return tasks[userIndex-1], 0
}

func (r *runner) doEdit(userIndex int, title, desc string) int {
	task, code := r.pick(userIndex)
	if code != 0 {
		return code
	}
	task.Title = title
	if desc != "" {
		task.Description = desc
	}
	if err := r.env.Tasks.UpdateTask(r.ctx, task); err != nil {
		r.fail("edit: " + err.Error())
		return 1
	}
	r.ok("updated")
	return 0
}

func (r *runner) doTaskAction(cmd string, userIndex int) int {
	task, code := r.pick(userIndex)
	if code != 0 {
		return code
	}

	var (
		err  error
		done string
	)
	switch cmd {
	case "done":
		err, done = r.env.Tasks.SetCompleted(r.ctx, task, true), "completed"
	case "undone":
		err, done = r.env.Tasks.SetCompleted(r.ctx, task, false), "reopened"
	case "fav":
		err, done = r.env.Tasks.SetFavorite(r.ctx, task, true), "starred"
	case "unfav":
		err, done = r.env.Tasks.SetFavorite(r.ctx, task, false), "unstarred"
	case "rm":
		err, done = r.env.Tasks.DeleteTask(r.ctx, task), "removed"
	}
	if err != nil {
		r.fail(cmd + ": " + err.Error())
		return 1
	}
	r.ok(done)
	return 0
}

func (r *runner) exportPath(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if r.env.ExportPath != "" {
		return r.env.ExportPath, true
	}
	p, err := jsonstore.DefaultPath()
	if err != nil {
		r.fail(err.Error())
		return "", false
	}
	return p, true
}

func (r *runner) doExport(path string) int {
	path, ok := r.exportPath(path)
	if !ok {
		return 1
	}
	tasks, ok := r.load()
	if !ok {
		return 1
	}
	if err := jsonstore.Save(path, tasks); err != nil {
		r.fail("export: " + err.Error())
		return 1
	}
	r.ok(fmt.Sprintf("exported %d tasks to %s", len(tasks), path))
	return 0
}

func (r *runner) doImport(path string) int {
	if r.env.Tasks == nil {
		r.fail("import: " + errNoTasks.Error())
		return 1
	}
	tasks, err := jsonstore.Load(path)
	if err != nil {
		r.fail("import: " + err.Error())
		return 1
	}
	for i, t := range tasks {
		if _, err := r.env.Tasks.AddTask(r.ctx, t); err != nil {
			r.fail(fmt.Sprintf("import: task %d of %d: %v", i+1, len(tasks), err))
			return 1
		}
	}
	r.ok(fmt.Sprintf("imported %d tasks", len(tasks)))
	return 0
}

// -------------- rendering helpers --------------

func stats(tasks []model.ToDoTask) (done, pending, favorite int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
		if t.Favorite {
			favorite++
		}
	}
	return
}

// flatLines numbers tasks starting after offset.
func flatLines(tasks []model.ToDoTask, offset int) []string {
	if len(tasks) == 0 {
		return []string{ui.C(ui.Current().Muted, "no tasks")}
	}
	th := ui.Current()
	out := make([]string, 0, len(tasks))
	for i, t := range tasks {
		idx := fmt.Sprintf("%2d.", offset+i+1)
		box := th.BoxUnchecked
		color := th.Muted
		if t.Completed {
			box, color = th.BoxChecked, th.Success
		}
		star := " "
		if t.Favorite {
			star = ui.C(th.Pending, th.SymFavorite)
		}
		title := clip(t.Title, 80)
		line := fmt.Sprintf("%s %s %s %s", ui.C(th.Muted, idx), ui.C(color, box), star, title)
		if t.Description != "" {
			line += ui.C(th.Muted, "  "+firstLine(t.Description, 40))
		}
		out = append(out, line)
	}
	return out
}

func firstLine(s string, limit int) string {
	for i, c := range s {
		if c == '\n' {
			s = s[:i]
			break
		}
	}
	return clip(s, limit)
}

// clip shortens s to at most limit terminal cells, ending in "...".
func clip(s string, limit int) string {
	if lipgloss.Width(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+3 > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func groupLines(tasks []model.ToDoTask) []string {
	var active, completed []model.ToDoTask
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	th := ui.Current()
	var lines []string
	lines = append(lines, ui.C(th.Accent, "Active Tasks"))
	if len(active) == 0 {
		lines = append(lines, ui.C(th.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(active, 0)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(th.Accent, "Completed Tasks"))
	if len(completed) == 0 {
		lines = append(lines, ui.C(th.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(completed, len(active))...)
	}
	return lines
}
