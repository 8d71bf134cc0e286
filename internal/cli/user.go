package cli

import (
	"strconv"

	"github.com/dori/taskhub/internal/apperr"
	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

var userCommands = map[string]command{
	"register":   {"register --email <email> [--first <name>] [--last <name>]", userRegister},
	"get":        {"get <id>", userGet},
	"list":       {"list [--search text] [--active true|false] [--role NAME] [--page n] [--limit n]", userList},
	"update":     {"update <id> [--email E] [--first F] [--last L]", userUpdate},
	"activate":   {"activate <id>", func(c *Context, args []string) error { return userSetActive(c, args, true) }},
	"deactivate": {"deactivate <id>", func(c *Context, args []string) error { return userSetActive(c, args, false) }},
	"grant":      {"grant <user-id> <ROLE>", userGrant},
	"revoke":     {"revoke <user-id> <ROLE>", userRevoke},
}

func userRegister(c *Context, args []string) error {
	fs := newFlags("user register")
	email := fs.String("email", "", "Email address")
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	in := model.NewUser{Email: *email, FirstName: *first, LastName: *last}
	if err := in.Validate(); err != nil {
		return err
	}

	u, err := c.App.Users.Register(c.Ctx, in)
	if err != nil {
		return err
	}
	c.printUser(u)
	return nil
}

func userGet(c *Context, args []string) error {
	id, err := oneID(args, "id")
	if err != nil {
		return err
	}
	u, err := c.App.Users.Get(c.Ctx, id)
	if err != nil {
		return err
	}
	c.printUser(u)
	return nil
}

func userList(c *Context, args []string) error {
	fs := newFlags("user list")
	search := fs.String("search", "", "Match email or name")
	activeFlag := fs.String("active", "", "Filter by active state")
	role := fs.String("role", "", "Only users holding this role")
	page, limit := pageFlags(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}

	f := model.UserFilter{Search: *search, Role: *role}
	if visited(fs)["active"] {
		v, err := strconv.ParseBool(*activeFlag)
		if err != nil {
			return apperr.Validationf("active", "%q is not a boolean", *activeFlag)
		}
		f.Active = &v
	}

	result, err := c.App.Users.List(c.Ctx, f, paging.Request{Page: *page, Limit: *limit})
	if err != nil {
		return err
	}
	c.printUsers(result)
	return nil
}

func userUpdate(c *Context, args []string) error {
	fs := newFlags("user update")
	email := fs.String("email", "", "New email")
	first := fs.String("first", "", "New first name")
	last := fs.String("last", "", "New last name")
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
	patch := model.UserPatch{
		Email:     optPtr(*email, set["email"]),
		FirstName: optPtr(*first, set["first"]),
		LastName:  optPtr(*last, set["last"]),
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	u, err := c.App.Users.Update(c.Ctx, c.Actor, id, patch)
	if err != nil {
		return err
	}
	c.printUser(u)
	return nil
}

func userSetActive(c *Context, args []string, active bool) error {
	id, err := oneID(args, "id")
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}
	u, err := c.App.Users.SetActive(c.Ctx, c.Actor, id, active)
	if err != nil {
		return err
	}
	c.printUser(u)
	return nil
}

// roleArgs parses "<user-id> <ROLE>"
func roleArgs(args []string) (int64, string, error) {
	if len(args) != 2 {
		return 0, "", apperr.Validationf("args", "expected <user-id> <ROLE>, got %d argument(s)", len(args))
	}
	id, err := oneID(args[:1], "user-id")
	if err != nil {
		return 0, "", err
	}
	return id, args[1], nil
}

func userGrant(c *Context, args []string) error {
	id, role, err := roleArgs(args)
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}
	u, err := c.App.Users.AssignRole(c.Ctx, c.Actor, id, role)
	if err != nil {
		return err
	}
	c.printUser(u)
	return nil
}

func userRevoke(c *Context, args []string) error {
	id, role, err := roleArgs(args)
	if err != nil {
		return err
	}
	if err := c.requireActor(); err != nil {
		return err
	}
	u, err := c.App.Users.RevokeRole(c.Ctx, c.Actor, id, role)
	if err != nil {
		return err
	}
	c.printUser(u)
	return nil
}
