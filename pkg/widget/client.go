// Package widget implements the proxy object model on top of a native
// bridge.
//
// A [Client] owns the process-wide state: the widget registry, the layout
// flush queue and the bridge. Application code creates widgets through the
// client and manipulates them through [Widget] proxies. Every proxy call
// becomes one bridge operation, except layoutData, which is validated and
// normalized by the layout package and sent when the flush queue runs.
//
// A Client is not safe for concurrent use. All calls must come from the
// thread that owns the UI, the same one that runs the flush scheduler.
package widget

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/errors"
	"github.com/matzehuels/tabbridge/pkg/layout"
)

// DefaultTypePrefix is prepended to type names without a namespace.
const DefaultTypePrefix = "rwt.widgets."

// Options configures a Client.
type Options struct {
	// TypePrefix is prepended to type names that contain no dot.
	// Defaults to DefaultTypePrefix.
	TypePrefix string

	// IDStart is the first widget id handed out. Defaults to 1.
	IDStart int64

	// Scheduler is asked to run a layout flush after the first layout change
	// of a cycle. Without one, layout is sent by explicit Flush calls.
	Scheduler layout.Scheduler

	// Logger receives layout warnings and flush errors.
	// Defaults to log.Default().
	Logger *log.Logger
}

// TypeDef describes a registered widget type.
type TypeDef struct {
	// Defaults are merged under the properties passed to Create.
	Defaults bridge.Properties

	// Events lists the events the type supports. A nil list accepts any
	// event.
	Events []string
}

// Client is the widget toolkit state bound to one bridge.
type Client struct {
	bridge   bridge.Bridge
	registry *Registry
	queue    *layout.Queue
	logger   *log.Logger
	types    map[string]TypeDef

	prefix  string
	idStart int64
	nextID  int64

	app *application
}

// NewClient creates a client. Call Init before creating widgets.
func NewClient(opts Options) *Client {
	if opts.TypePrefix == "" {
		opts.TypePrefix = DefaultTypePrefix
	}
	if opts.IDStart <= 0 {
		opts.IDStart = 1
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	c := &Client{
		registry: NewRegistry(),
		queue:    layout.NewQueue(opts.Scheduler),
		logger:   opts.Logger,
		types:    make(map[string]TypeDef),
		prefix:   opts.TypePrefix,
		idStart:  opts.IDStart,
		nextID:   opts.IDStart,
	}
	c.queue.SetErrorHandler(func(err error) {
		c.logger.Error("layout flush failed", "error", err)
	})
	return c
}

// Init binds the client to b and resets all widget state. Every bridge
// operation is reported to the observability hooks.
func (c *Client) Init(b bridge.Bridge) {
	c.Reset()
	c.bridge = bridge.Instrument(b)
}

// Reset forgets every widget, pending layout and page state, and restarts
// the id sequence. Registered types survive. Nothing is sent to the bridge.
func (c *Client) Reset() {
	for _, w := range c.registryWidgets() {
		w.disposed = true
	}
	c.registry.Reset()
	c.queue.Reset()
	c.nextID = c.idStart
	c.app = nil
}

func (c *Client) registryWidgets() []*Widget {
	var out []*Widget
	c.registry.Walk(func(w *Widget) bool {
		out = append(out, w)
		return true
	})
	return out
}

// Registry returns the client's widget registry.
func (c *Client) Registry() *Registry {
	return c.registry
}

// Queue returns the layout flush queue.
func (c *Client) Queue() *layout.Queue {
	return c.queue
}

// Logger returns the client's logger.
func (c *Client) Logger() *log.Logger {
	return c.logger
}

// Flush sends the layout of every widget changed since the last flush.
func (c *Client) Flush() error {
	return c.queue.Flush()
}

// Lookup returns the live widget with the given id.
func (c *Client) Lookup(id int64) (*Widget, bool) {
	return c.registry.Lookup(id)
}

// RegisterType registers def under name. The name is namespaced the same
// way Create namespaces type names.
func (c *Client) RegisterType(name string, def TypeDef) error {
	if err := errors.ValidateTypeName(name); err != nil {
		return err
	}
	def.Defaults = def.Defaults.Clone()
	c.types[c.fixType(name)] = def
	return nil
}

// Types returns the registered type names in sorted order.
func (c *Client) Types() []string {
	return slices.Sorted(maps.Keys(c.types))
}

func (c *Client) fixType(typ string) string {
	if strings.Contains(typ, ".") {
		return typ
	}
	return c.prefix + typ
}

// Create creates a widget of the given type.
//
// Type names without a dot are prefixed with the client's type prefix.
// Unregistered types are passed to the native side as they are. A parent
// property attaches the widget before its layout is resolved, so layout
// references to existing siblings resolve in the create operation.
func (c *Client) Create(typ string, props bridge.Properties) (*Widget, error) {
	if c.bridge == nil {
		return nil, errors.New(errors.ErrCodeInternal, "client is not initialized")
	}
	if err := errors.ValidateTypeName(typ); err != nil {
		return nil, err
	}
	full := c.fixType(typ)

	merged := bridge.Properties{}
	if def, ok := c.types[full]; ok {
		maps.Copy(merged, def.Defaults)
	}
	maps.Copy(merged, props)

	w := &Widget{
		client:    c,
		cid:       c.nextID,
		typ:       full,
		listeners: make(map[string][]Listener),
	}

	wire, u, err := w.translate(merged)
	if err != nil {
		return nil, err
	}
	c.nextID++

	c.registry.Add(w)
	if u.setID {
		w.id = u.id
	}
	if u.setParent {
		c.registry.SetParent(w.cid, u.parent)
	}
	if u.setLayout {
		w.layout = u.layout
		wire[propLayoutData] = layout.Resolve(w.layout, w).Properties()
		if hasSelectors(w.layout) {
			c.queue.Add(w)
		}
	}

	if err := c.bridge.Create(w.cid, full, wire); err != nil {
		c.queue.Remove(w)
		c.registry.Remove(w.cid)
		return nil, err
	}
	c.logger.Debug("created widget", "id", w.cid, "type", full)
	return w, nil
}

// Dispatch delivers an event from the native side to the widget with id.
// It returns the number of listeners invoked.
func (c *Client) Dispatch(id int64, event string, props bridge.Properties) (int, error) {
	w, ok := c.registry.Lookup(id)
	if !ok {
		return 0, errors.New(errors.ErrCodeWidgetNotFound, "widget %d not found", id)
	}
	return w.Trigger(event, props), nil
}

// hasSelectors reports whether data references siblings symbolically.
// Such references may point at widgets created later in the same cycle and
// are resolved again when the queue flushes.
func hasSelectors(data layout.Data) bool {
	for _, v := range data {
		switch v := v.(type) {
		case layout.AnchorOffset:
			if !v.Anchor.IsWidget() {
				return true
			}
		case layout.Anchor:
			if !v.IsWidget() {
				return true
			}
		}
	}
	return false
}
