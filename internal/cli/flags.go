package cli

import (
	"flag"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dori/taskhub/internal/apperr"
	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/paging"
)

// newFlags returns a FlagSet that reports errors instead of exiting
func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses args and returns the positional arguments. Positionals may
// come before the flags, as in "task update 5 --title x".
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		pos = append(pos, args[0])
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, apperr.Validation("flags", err.Error())
	}
	return append(pos, fs.Args()...), nil
}

// visited returns the names of the flags given on the command line
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// ids parses exactly len(names) positional integer IDs
func ids(pos []string, names ...string) ([]int64, error) {
	if len(pos) != len(names) {
		return nil, apperr.Validationf(strings.Join(names, ","), "expected %d argument(s), got %d", len(names), len(pos))
	}
	out := make([]int64, len(names))
	for i, s := range pos {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, apperr.Validationf(names[i], "%q is not a valid id", s)
		}
		out[i] = id
	}
	return out, nil
}

func oneID(pos []string, name string) (int64, error) {
	got, err := ids(pos, name)
	if err != nil {
		return 0, err
	}
	return got[0], nil
}

// pageFlags registers --page and --limit
func pageFlags(fs *flag.FlagSet) (page, limit *int) {
	page = fs.Int("page", paging.DefaultPage, "Page number")
	limit = fs.Int("limit", paging.DefaultLimit, "Items per page")
	return page, limit
}

// optional builds a nullable patch field: clear wins, otherwise the value is
// used when its flag was given.
func optional[T any](given bool, v T, clear bool) model.Optional[T] {
	switch {
	case clear:
		return model.Null[T]()
	case given:
		return model.Set(v)
	}
	return model.Optional[T]{}
}

func optPtr(s string, given bool) *string {
	if !given {
		return nil
	}
	return &s
}

// parseDue accepts a date, an RFC 3339 timestamp or a quick-add word such
// as "tomorrow".
func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t := parseNaturalDate(s, time.Now()); t != nil {
		return *t, nil
	}
	return time.Time{}, apperr.Validationf("due", "cannot parse %q", s)
}

func parseStatus(s string) (model.Status, error) {
	st := model.Status(strings.ToUpper(s))
	if !st.Valid() {
		return "", apperr.Validationf("status", "unknown status %q", s)
	}
	return st, nil
}

func parsePriority(s string) (model.Priority, error) {
	p := model.Priority(strings.ToUpper(s))
	if !p.Valid() {
		return "", apperr.Validationf("priority", "unknown priority %q", s)
	}
	return p, nil
}
