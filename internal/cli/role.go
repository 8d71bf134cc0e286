package cli

import (
	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

var roleCommands = map[string]command{
	"create": {"create --name <NAME> [--desc <text>]", roleCreate},
	"get":    {"get <id>", roleGet},
	"list":   {"list [--search <text>] [--page n] [--limit n]", roleList},
	"update": {"update <id> [--name <NAME>] [--desc <text> | --clear-desc]", roleUpdate},
	"delete": {"delete <id>", roleDelete},
}

func roleCreate(c *Context, args []string) error {
	fs := newFlags("role create")
	name := fs.String("name", "", "Role name, e.g. REVIEWER")
	desc := fs.String("desc", "", "Description")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}

	in := model.NewRole{Name: *name, Description: optPtr(*desc, visited(fs)["desc"])}
	if err := in.Validate(); err != nil {
		return err
	}

	r, err := c.App.Roles.Create(c.Ctx, c.Actor, in)
	if err != nil {
		return err
	}
	c.printRole(r)
	return nil
}

func roleGet(c *Context, args []string) error {
	id, err := oneID(args, "id")
	if err != nil {
		return err
	}
	r, err := c.App.Roles.Get(c.Ctx, id)
	if err != nil {
		return err
	}
	c.printRole(r)
	return nil
}

func roleList(c *Context, args []string) error {
	fs := newFlags("role list")
	search := fs.String("search", "", "Case-insensitive name filter")
	page, limit := pageFlags(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	result, err := c.App.Roles.List(c.Ctx, model.RoleFilter{Search: *search}, paging.Request{Page: *page, Limit: *limit})
	if err != nil {
		return err
	}
	c.printRoles(result)
	return nil
}

func roleUpdate(c *Context, args []string) error {
	fs := newFlags("role update")
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
	patch := model.RolePatch{
		Name:        optPtr(*name, set["name"]),
		Description: optional(set["desc"], *desc, *clearDesc),
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	r, err := c.App.Roles.Update(c.Ctx, c.Actor, id, patch)
	if err != nil {
		return err
	}
	c.printRole(r)
	return nil
}

func roleDelete(c *Context, args []string) error {
	id, err := oneID(args, "id")
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}
	if err := c.App.Roles.Delete(c.Ctx, c.Actor, id); err != nil {
		return err
	}
	c.ok("Deleted role %d", id)
	return nil
}
