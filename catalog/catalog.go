// Package catalog holds named views of Tables, for use by declarative queries.
package catalog

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/logging"
)

// A Catalog maps view names to Tables. View names are case-insensitive.
// A Catalog is safe for concurrent use.
type Catalog struct {
	lock   sync.RWMutex
	views  map[string]view
	logger *slog.Logger
}

type view struct {
	name  string
	table tabula.Table
}

// Option configures a Catalog
type Option func(c *Catalog)

// WithLogger sets the logger which receives view registration messages
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logging.OrDiscard(logger)
	}
}

// New returns an empty Catalog
func New(opts ...Option) *Catalog {
	c := &Catalog{views: make(map[string]view), logger: logging.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validName(name string) error {
	if len(key(name)) == 0 {
		return errors.InvalidArgumentError{Argument: "name", Reason: "view names cannot be empty"}
	}
	return nil
}

// RegisterView adds a view, failing if the name is already in use
func (c *Catalog) RegisterView(t tabula.Table, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.views[key(name)]; ok {
		return errors.InvalidArgumentError{Argument: "name", Reason: "view " + name + " already exists"}
	}
	c.views[key(name)] = view{name: name, table: t}
	c.logger.Debug("registered view", "view", name, "rows", t.NumRows())
	return nil
}

// ReplaceView adds a view, replacing any existing view with the same name
func (c *Catalog) ReplaceView(t tabula.Table, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	_, replaced := c.views[key(name)]
	c.views[key(name)] = view{name: name, table: t}
	c.logger.Debug("registered view", "view", name, "rows", t.NumRows(), "replaced", replaced)
	return nil
}

// DropView removes a view, returning true if it existed
func (c *Catalog) DropView(name string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	_, ok := c.views[key(name)]
	delete(c.views, key(name))
	return ok
}

// View returns the Table registered under a name
func (c *Catalog) View(name string) (tabula.Table, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	v, ok := c.views[key(name)]
	if !ok {
		return nil, errors.SourceNotFoundError{Path: name}
	}
	return v.table, nil
}

// Names returns the name of every view, in sorted order
func (c *Catalog) Names() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	names := make([]string, 0, len(c.views))
	for _, v := range c.views {
		names = append(names, v.name)
	}
	sort.Strings(names)
	return names
}
