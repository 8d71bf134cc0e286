package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

// field is one label/value line of a detail panel
type field struct {
	label string
	value string
}

func (c *Context) detail(title string, fields ...field) {
	s := c.Styles
	width := 0
	for _, f := range fields {
		width = max(width, len(f.label))
	}

	lines := []string{s.Header.Render(title)}
	for _, f := range fields {
		label := s.Label.Render(fmt.Sprintf("%-*s", width+1, f.label+":"))
		lines = append(lines, label+" "+f.value)
	}
	fmt.Fprintln(c.Out, s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (c *Context) table(headers []string, rows [][]string) {
	s := c.Styles
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Label).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header.Padding(0, 1)
			}
			return s.Value.Padding(0, 1)
		})
	fmt.Fprintln(c.Out, t.String())
}

func footer[T any](c *Context, p paging.Page[T]) {
	if p.Total == 0 {
		fmt.Fprintln(c.Out, c.Styles.Muted.Render("no results"))
		return
	}
	msg := fmt.Sprintf("page %d of %d, %d total", p.Page, p.TotalPages, p.Total)
	if p.HasNext() {
		msg += fmt.Sprintf(" (next: --page %d)", p.Page+1)
	}
	fmt.Fprintln(c.Out, c.Styles.Muted.Render(msg))
}

func (c *Context) ok(format string, args ...any) {
	fmt.Fprintln(c.Out, c.Styles.Success.Render(fmt.Sprintf(format, args...)))
}

func fmtID(v int64) string { return strconv.FormatInt(v, 10) }

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func idOrDash(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmtID(*v)
}

func stamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func (c *Context) due(t *model.Task) string {
	if t.DueDate == nil {
		return "-"
	}
	s := formatDueDate(*t.DueDate, time.Now())
	if t.IsOverdue(time.Now()) {
		return c.Styles.Overdue.Render(s + " (overdue)")
	}
	return c.Styles.DueDate.Render(s)
}

// formatDueDate renders today and tomorrow by name and other dates compactly
func formatDueDate(t, now time.Time) string {
	t = t.In(now.Location())
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return "today"
	}

	tomorrow := now.AddDate(0, 0, 1)
	if t.Year() == tomorrow.Year() && t.YearDay() == tomorrow.YearDay() {
		return "tomorrow"
	}

	if t.Year() == now.Year() {
		return t.Format("Mon, Jan 2")
	}
	return t.Format("Jan 2, 2006")
}

func (c *Context) tagList(tags []model.Tag) string {
	if len(tags) == 0 {
		return "-"
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = c.Styles.TagColor(t)
	}
	return strings.Join(names, " ")
}

func (c *Context) printProject(p *model.Project) {
	c.detail("Project #"+fmtID(p.ID),
		field{"Name", c.Styles.Title.Render(p.Name)},
		field{"Description", orDash(p.Description)},
		field{"Owner", fmtID(p.OwnerID)},
		field{"Tasks", strconv.Itoa(p.TaskCount)},
		field{"Created", stamp(p.CreatedAt)},
		field{"Updated", stamp(p.UpdatedAt)},
	)
	if len(p.Tasks) > 0 {
		c.printTaskRows(p.Tasks)
	}
}

func (c *Context) printProjects(p paging.Page[model.Project]) {
	rows := make([][]string, len(p.Items))
	for i, pr := range p.Items {
		rows[i] = []string{fmtID(pr.ID), pr.Name, fmtID(pr.OwnerID), strconv.Itoa(pr.TaskCount), stamp(pr.CreatedAt)}
	}
	if len(rows) > 0 {
		c.table([]string{"ID", "NAME", "OWNER", "TASKS", "CREATED"}, rows)
	}
	footer(c, p)
}

func (c *Context) printTask(t *model.Task) {
	s := c.Styles
	c.detail("Task #"+fmtID(t.ID),
		field{"Title", s.Title.Render(t.Title)},
		field{"Description", orDash(t.Description)},
		field{"Status", s.Status(t.Status).Render(string(t.Status))},
		field{"Priority", s.Priority(t.Priority).Render(string(t.Priority))},
		field{"Due", c.due(t)},
		field{"Project", fmtID(t.ProjectID)},
		field{"Author", fmtID(t.AuthorID)},
		field{"Assignee", idOrDash(t.AssigneeID)},
		field{"Tags", c.tagList(t.Tags)},
		field{"Updated", stamp(t.UpdatedAt)},
	)
}

func (c *Context) printTaskRows(tasks []model.Task) {
	s := c.Styles
	rows := make([][]string, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		rows[i] = []string{
			fmtID(t.ID),
			t.Title,
			s.Status(t.Status).Render(string(t.Status)),
			s.Priority(t.Priority).Render(string(t.Priority)),
			c.due(t),
			idOrDash(t.AssigneeID),
			c.tagList(t.Tags),
		}
	}
	c.table([]string{"ID", "TITLE", "STATUS", "PRIORITY", "DUE", "ASSIGNEE", "TAGS"}, rows)
}

func (c *Context) printTasks(p paging.Page[model.Task]) {
	if len(p.Items) > 0 {
		c.printTaskRows(p.Items)
	}
	footer(c, p)
}

func (c *Context) printTag(t *model.Tag) {
	c.detail("Tag #"+fmtID(t.ID),
		field{"Name", c.Styles.TagColor(*t)},
		field{"Color", t.DisplayColor()},
		field{"Updated", stamp(t.UpdatedAt)},
	)
}

func (c *Context) printTags(p paging.Page[model.Tag]) {
	rows := make([][]string, len(p.Items))
	for i, t := range p.Items {
		rows[i] = []string{fmtID(t.ID), c.Styles.TagColor(t), t.DisplayColor()}
	}
	if len(rows) > 0 {
		c.table([]string{"ID", "NAME", "COLOR"}, rows)
	}
	footer(c, p)
}

func (c *Context) printComment(cm *model.Comment) {
	c.detail("Comment #"+fmtID(cm.ID),
		field{"Task", fmtID(cm.TaskID)},
		field{"Author", fmtID(cm.AuthorID)},
		field{"Created", stamp(cm.CreatedAt)},
		field{"Content", cm.Content},
	)
}

func (c *Context) printComments(p paging.Page[model.Comment]) {
	rows := make([][]string, len(p.Items))
	for i, cm := range p.Items {
		rows[i] = []string{fmtID(cm.ID), fmtID(cm.AuthorID), stamp(cm.CreatedAt), cm.Content}
	}
	if len(rows) > 0 {
		c.table([]string{"ID", "AUTHOR", "CREATED", "CONTENT"}, rows)
	}
	footer(c, p)
}

func active(u *model.User) string {
	if u.IsActive {
		return "active"
	}
	return "inactive"
}

func (c *Context) printUser(u *model.User) {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	c.detail("User #"+fmtID(u.ID),
		field{"Email", c.Styles.Title.Render(u.Email)},
		field{"Name", orDash(&name)},
		field{"State", active(u)},
		field{"Roles", strings.Join(u.RoleNames(), ", ")},
		field{"Created", stamp(u.CreatedAt)},
	)
}

func (c *Context) printUsers(p paging.Page[model.User]) {
	rows := make([][]string, len(p.Items))
	for i := range p.Items {
		u := &p.Items[i]
		rows[i] = []string{fmtID(u.ID), u.Email, strings.TrimSpace(u.FirstName + " " + u.LastName), active(u), strings.Join(u.RoleNames(), ",")}
	}
	if len(rows) > 0 {
		c.table([]string{"ID", "EMAIL", "NAME", "STATE", "ROLES"}, rows)
	}
	footer(c, p)
}

func (c *Context) printRole(r *model.Role) {
	c.detail("Role #"+fmtID(r.ID),
		field{"Name", c.Styles.Title.Render(r.Name)},
		field{"Description", orDash(r.Description)},
		field{"System", strconv.FormatBool(c.App.Roles.IsSystemRole(r.Name))},
	)
}

func (c *Context) printRoles(p paging.Page[model.Role]) {
	rows := make([][]string, len(p.Items))
	for i, r := range p.Items {
		system := ""
		if c.App.Roles.IsSystemRole(r.Name) {
			system = "yes"
		}
		rows[i] = []string{fmtID(r.ID), r.Name, orDash(r.Description), system}
	}
	if len(rows) > 0 {
		c.table([]string{"ID", "NAME", "DESCRIPTION", "SYSTEM"}, rows)
	}
	footer(c, p)
}
