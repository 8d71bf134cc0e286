package cli

import (
	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

var tagCommands = map[string]command{
	"create": {"create --name <name> [--color #RRGGBB]", tagCreate},
	"get":    {"get <id>", tagGet},
	"list":   {"list [--search <text>] [--page n] [--limit n]", tagList},
	"update": {"update <id> [--name <name>] [--color #RRGGBB | --clear-color]", tagUpdate},
	"delete": {"delete <id>", tagDelete},
}

func tagCreate(c *Context, args []string) error {
	fs := newFlags("tag create")
	name := fs.String("name", "", "Tag name")
	color := fs.String("color", "", "Color as #RRGGBB")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}

	in := model.NewTag{Name: *name, Color: optPtr(*color, visited(fs)["color"])}
	if err := in.Validate(); err != nil {
		return err
	}

	t, err := c.App.Tags.Create(c.Ctx, c.Actor, in)
	if err != nil {
		return err
	}
	c.printTag(t)
	return nil
}

func tagGet(c *Context, args []string) error {
	id, err := oneID(args, "id")
	if err != nil {
		return err
	}
	t, err := c.App.Tags.Get(c.Ctx, id)
	if err != nil {
		return err
	}
	c.printTag(t)
	return nil
}

func tagList(c *Context, args []string) error {
	fs := newFlags("tag list")
	search := fs.String("search", "", "Case-insensitive name filter")
	page, limit := pageFlags(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	result, err := c.App.Tags.List(c.Ctx, model.TagFilter{Search: *search}, paging.Request{Page: *page, Limit: *limit})
	if err != nil {
		return err
	}
	c.printTags(result)
	return nil
}

func tagUpdate(c *Context, args []string) error {
	fs := newFlags("tag update")
	name := fs.String("name", "", "New name")
	color := fs.String("color", "", "New color as #RRGGBB")
	clearColor := fs.Bool("clear-color", false, "Remove the color")
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
	patch := model.TagPatch{
		Name:  optPtr(*name, set["name"]),
		Color: optional(set["color"], *color, *clearColor),
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	t, err := c.App.Tags.Update(c.Ctx, c.Actor, id, patch)
	if err != nil {
		return err
	}
	c.printTag(t)
	return nil
}

func tagDelete(c *Context, args []string) error {
	id, err := oneID(args, "id")
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}
	if err := c.App.Tags.Delete(c.Ctx, c.Actor, id); err != nil {
		return err
	}
	c.ok("Deleted tag %d", id)
	return nil
}
