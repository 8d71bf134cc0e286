package cli

import (
	"strings"
	"time"

	"github.com/dori/taskhub/internal/apperr"
	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

var taskCommands = map[string]command{
	"create": {"create --project <id> --title <title> [--desc <text>] [--status S] [--priority P] [--due <date>] [--assignee <id>]", taskCreate},
	"add":    {"add --project <id> <quick-add text>", taskQuickAdd},
	"get":    {"get <id>", taskGet},
	"list":   {"list [--project id] [--status S] [--priority P] [--assignee id] [--author id] [--tag id] [--search text] [--due-before date] [--page n] [--limit n]", taskList},
	"update": {"update <id> [--title T] [--desc D | --clear-desc] [--status S] [--priority P] [--due D | --clear-due] [--assignee id | --unassign]", taskUpdate},
	"delete": {"delete <id>", taskDelete},
	"tag":    {"tag <task-id> <tag-id>", taskAddTag},
	"untag":  {"untag <task-id> <tag-id>", taskRemoveTag},
}

func taskCreate(c *Context, args []string) error {
	fs := newFlags("task create")
	project := fs.Int64("project", 0, "Project ID")
	title := fs.String("title", "", "Title")
	desc := fs.String("desc", "", "Description")
	status := fs.String("status", "", "TODO, IN_PROGRESS or DONE")
	priority := fs.String("priority", "", "LOW, MEDIUM or HIGH")
	due := fs.String("due", "", "Due date")
	assignee := fs.Int64("assignee", 0, "Assignee user ID")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}

	set := visited(fs)
	in := model.NewTask{
		ProjectID:   *project,
		Title:       *title,
		Description: optPtr(*desc, set["desc"]),
	}
	if set["status"] {
		st, err := parseStatus(*status)
		if err != nil {
			return err
		}
		in.Status = st
	}
	if set["priority"] {
		p, err := parsePriority(*priority)
		if err != nil {
			return err
		}
		in.Priority = p
	}
	if set["due"] {
		d, err := parseDue(*due)
		if err != nil {
			return err
		}
		in.DueDate = &d
	}
	if set["assignee"] {
		in.AssigneeID = assignee
	}
	if err := in.Validate(); err != nil {
		return err
	}

	t, err := c.App.Tasks.Create(c.Ctx, c.Actor, in)
	if err != nil {
		return err
	}
	c.printTask(t)
	return nil
}

// taskQuickAdd creates a task from quick-add text, creating missing tags in
// the same transaction
func taskQuickAdd(c *Context, args []string) error {
	fs := newFlags("task add")
	project := fs.Int64("project", 0, "Project ID")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) == 0 {
		return apperr.Validation("text", "quick-add text is required")
	}
	if err := c.requireActor(); err != nil {
		return err
	}

	qa := parseQuickAdd(strings.Join(pos, " "), time.Now())
	qa.task.ProjectID = *project
	if err := qa.task.Validate(); err != nil {
		return err
	}
	for _, name := range qa.tags {
		if err := (model.NewTag{Name: name}).Validate(); err != nil {
			return err
		}
	}

	t, err := c.App.Tasks.CreateWithTags(c.Ctx, c.Actor, qa.task, qa.tags)
	if err != nil {
		return err
	}
	c.printTask(t)
	return nil
}

func taskGet(c *Context, args []string) error {
	id, err := oneID(args, "id")
	if err != nil {
		return err
	}
	t, err := c.App.Tasks.Get(c.Ctx, id)
	if err != nil {
		return err
	}
	c.printTask(t)
	return nil
}

func taskList(c *Context, args []string) error {
	fs := newFlags("task list")
	project := fs.Int64("project", 0, "Project ID")
	status := fs.String("status", "", "Status")
	priority := fs.String("priority", "", "Priority")
	assignee := fs.Int64("assignee", 0, "Assignee user ID")
	author := fs.Int64("author", 0, "Author user ID")
	tag := fs.Int64("tag", 0, "Tag ID")
	search := fs.String("search", "", "Case-insensitive title filter")
	dueBefore := fs.String("due-before", "", "Only tasks due before this date")
	page, limit := pageFlags(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	set := visited(fs)
	f := model.TaskFilter{Search: *search}
	if set["project"] {
		f.ProjectID = project
	}
	if set["assignee"] {
		f.AssigneeID = assignee
	}
	if set["author"] {
		f.AuthorID = author
	}
	if set["tag"] {
		f.TagID = tag
	}
	if set["status"] {
		st, err := parseStatus(*status)
		if err != nil {
			return err
		}
		f.Status = &st
	}
	if set["priority"] {
		p, err := parsePriority(*priority)
		if err != nil {
			return err
		}
		f.Priority = &p
	}
	if set["due-before"] {
		d, err := parseDue(*dueBefore)
		if err != nil {
			return err
		}
		f.DueBefore = &d
	}

	result, err := c.App.Tasks.List(c.Ctx, f, paging.Request{Page: *page, Limit: *limit})
	if err != nil {
		return err
	}
	c.printTasks(result)
	return nil
}

func taskUpdate(c *Context, args []string) error {
	fs := newFlags("task update")
	title := fs.String("title", "", "New title")
	desc := fs.String("desc", "", "New description")
	clearDesc := fs.Bool("clear-desc", false, "Remove the description")
	status := fs.String("status", "", "New status")
	priority := fs.String("priority", "", "New priority")
	due := fs.String("due", "", "New due date")
	clearDue := fs.Bool("clear-due", false, "Remove the due date")
	assignee := fs.Int64("assignee", 0, "New assignee")
	unassign := fs.Bool("unassign", false, "Remove the assignee")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	id, err := oneID(pos, "id")
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}

	set := visited(fs)
	patch := model.TaskPatch{
		Title:       optPtr(*title, set["title"]),
		Description: optional(set["desc"], *desc, *clearDesc),
		AssigneeID:  optional(set["assignee"], *assignee, *unassign),
	}
	if set["status"] {
		st, err := parseStatus(*status)
		if err != nil {
			return err
		}
		patch.Status = &st
	}
	if set["priority"] {
		p, err := parsePriority(*priority)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}
	var dueDate time.Time
	if set["due"] && !*clearDue {
		if dueDate, err = parseDue(*due); err != nil {
			return err
		}
	}
	patch.DueDate = optional(set["due"], dueDate, *clearDue)
	if err := patch.Validate(); err != nil {
		return err
	}

	t, err := c.App.Tasks.Update(c.Ctx, c.Actor, id, patch)
	if err != nil {
		return err
	}
	c.printTask(t)
	return nil
}

func taskDelete(c *Context, args []string) error {
	id, err := oneID(args, "id")
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}
	if err := c.App.Tasks.Delete(c.Ctx, c.Actor, id); err != nil {
		return err
	}
	c.ok("Deleted task %d", id)
	return nil
}

func taskAddTag(c *Context, args []string) error {
	pair, err := ids(args, "task-id", "tag-id")
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}
	t, err := c.App.Tasks.AddTag(c.Ctx, c.Actor, pair[0], pair[1])
	if err != nil {
		return err
	}
	c.printTask(t)
	return nil
}

func taskRemoveTag(c *Context, args []string) error {
	pair, err := ids(args, "task-id", "tag-id")
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}
	t, err := c.App.Tasks.RemoveTag(c.Ctx, c.Actor, pair[0], pair[1])
	if err != nil {
		return err
	}
	c.printTask(t)
	return nil
}
