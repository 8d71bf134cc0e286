package cli

import (
	"strings"

	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

var commentCommands = map[string]command{
	"add":    {"add --task <id> <content>", commentAdd},
	"get":    {"get <id>", commentGet},
	"list":   {"list <task-id> [--page n] [--limit n]", commentList},
	"update": {"update <id> <content>", commentUpdate},
	"delete": {"delete <id>", commentDelete},
}

func commentAdd(c *Context, args []string) error {
	fs := newFlags("comment add")
	task := fs.Int64("task", 0, "Task ID")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}

	in := model.NewComment{TaskID: *task, Content: strings.Join(pos, " ")}
	if err := in.Validate(); err != nil {
		return err
	}

	cm, err := c.App.Comments.Create(c.Ctx, c.Actor, in)
	if err != nil {
		return err
	}
	c.printComment(cm)
	return nil
}

func commentGet(c *Context, args []string) error {
	id, err := oneID(args, "id")
	if err != nil {
		return err
	}
	cm, err := c.App.Comments.Get(c.Ctx, id)
	if err != nil {
		return err
	}
	c.printComment(cm)
	return nil
}

func commentList(c *Context, args []string) error {
	fs := newFlags("comment list")
	page, limit := pageFlags(fs)
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	taskID, err := oneID(pos, "task-id")
	if err != nil {
		return err
	}

	result, err := c.App.Comments.ListByTask(c.Ctx, taskID, paging.Request{Page: *page, Limit: *limit})
	if err != nil {
		return err
	}
	c.printComments(result)
	return nil
}

func commentUpdate(c *Context, args []string) error {
	if len(args) == 0 {
		_, err := oneID(args, "id")
		return err
	}
	id, err := oneID(args[:1], "id")
	if err != nil {
		return err
	}
	content := strings.Join(args[1:], " ")
	if err := model.ValidateCommentContent(content); err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}

	cm, err := c.App.Comments.Update(c.Ctx, c.Actor, id, content)
	if err != nil {
		return err
	}
	c.printComment(cm)
	return nil
}

func commentDelete(c *Context, args []string) error {
	id, err := oneID(args, "id")
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}
	if err := c.App.Comments.Delete(c.Ctx, c.Actor, id); err != nil {
		return err
	}
	c.ok("Deleted comment %d", id)
	return nil
}
