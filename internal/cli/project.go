package cli

import (
	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

var projectCommands = map[string]command{
	"create": {"create --name <name> [--desc <text>]", projectCreate},
	"get":    {"get <id> [--tasks]", projectGet},
	"list":   {"list [--owner <id>] [--search <text>] [--page n] [--limit n]", projectList},
	"update": {"update <id> [--name <name>] [--desc <text> | --clear-desc]", projectUpdate},
	"delete": {"delete <id>", projectDelete},
}

func projectCreate(c *Context, args []string) error {
	fs := newFlags("project create")
	name := fs.String("name", "", "Project name")
	desc := fs.String("desc", "", "Description")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}

	in := model.NewProject{Name: *name, Description: optPtr(*desc, visited(fs)["desc"])}
	if err := in.Validate(); err != nil {
		return err
	}

	p, err := c.App.Projects.Create(c.Ctx, c.Actor, in)
	if err != nil {
		return err
	}
	c.printProject(p)
	return nil
}

func projectGet(c *Context, args []string) error {
	fs := newFlags("project get")
	withTasks := fs.Bool("tasks", false, "Include the project's tasks")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	id, err := oneID(pos, "id")
	if err != nil {
		return err
	}

	var p *model.Project
	if *withTasks {
		p, err = c.App.Projects.GetWithTasks(c.Ctx, id)
	} else {
		p, err = c.App.Projects.Get(c.Ctx, id)
	}
	if err != nil {
		return err
	}
	c.printProject(p)
	return nil
}

func projectList(c *Context, args []string) error {
	fs := newFlags("project list")
	owner := fs.Int64("owner", 0, "Only projects owned by this user")
	search := fs.String("search", "", "Case-insensitive name filter")
	page, limit := pageFlags(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	f := model.ProjectFilter{Search: *search}
	if visited(fs)["owner"] {
		f.OwnerID = owner
	}

	result, err := c.App.Projects.List(c.Ctx, f, paging.Request{Page: *page, Limit: *limit})
	if err != nil {
		return err
	}
	c.printProjects(result)
	return nil
}

func projectUpdate(c *Context, args []string) error {
	fs := newFlags("project update")
	name := fs.String("name", "", "New name")
	desc := fs.String("desc", "", "New description")
	clearDesc := fs.Bool("clear-desc", false, "Remove the description")
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
	patch := model.ProjectPatch{
		Name:        optPtr(*name, set["name"]),
		Description: optional(set["desc"], *desc, *clearDesc),
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	p, err := c.App.Projects.Update(c.Ctx, c.Actor, id, patch)
	if err != nil {
		return err
	}
	c.printProject(p)
	return nil
}

func projectDelete(c *Context, args []string) error {
	id, err := oneID(args, "id")
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}
	if err := c.App.Projects.Delete(c.Ctx, c.Actor, id); err != nil {
		return err
	}
	c.ok("Deleted project %d with its tasks and comments", id)
	return nil
}
