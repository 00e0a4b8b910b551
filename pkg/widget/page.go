package widget

import (
	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/errors"
)

// Types and events of the application shell.
const (
	TypeDisplay   = "rwt.widgets.Display"
	TypeShell     = "rwt.widgets.Shell"
	TypeComposite = "rwt.widgets.Composite"
	TypeUI        = "tabris.UI"
	TypePage      = "tabris.Page"

	EventShowPage = "ShowPage"

	propActivePage = "activePage"
)

// application holds the widgets created on the first CreatePage call.
type application struct {
	display *Widget
	shell   *Widget
	ui      *Widget
	pages   map[int64]*Page
}

// Page is a top level screen: a full-size composite on the shell, shown
// by a native page widget.
type Page struct {
	client    *Client
	page      *Widget
	composite *Widget
}

// Composite returns the widget that page content is appended to.
func (p *Page) Composite() *Widget { return p.composite }

// Widget returns the native page widget.
func (p *Page) Widget() *Widget { return p.page }

// Open makes p the active page.
func (p *Page) Open() error {
	return p.client.activate(p)
}

// Close disposes the page and its content.
func (p *Page) Close() error {
	if p.client.app != nil {
		delete(p.client.app.pages, p.page.cid)
	}
	if err := p.composite.Dispose(); err != nil {
		return err
	}
	return p.page.Dispose()
}

// CreatePage creates a page with the given title. The display, shell and
// UI widgets are created on the first call.
func (c *Client) CreatePage(title string, topLevel bool) (*Page, error) {
	app, err := c.application()
	if err != nil {
		return nil, err
	}

	composite, err := c.Create(TypeComposite, bridge.Properties{
		propParent:     app.shell,
		propLayoutData: map[string]any{"left": 0, "right": 0, "top": 0, "bottom": 0},
	})
	if err != nil {
		return nil, err
	}
	page, err := c.Create(TypePage, bridge.Properties{
		propParent: app.ui,
		"control":  composite,
		"title":    title,
		"topLevel": topLevel,
	})
	if err != nil {
		return nil, err
	}

	p := &Page{client: c, page: page, composite: composite}
	app.pages[page.cid] = p
	return p, nil
}

// ActivePage returns the page last activated, or nil.
func (c *Client) ActivePage() *Page {
	if c.app == nil {
		return nil
	}
	id, ok := c.app.ui.activePage()
	if !ok {
		return nil
	}
	return c.app.pages[id]
}

func (w *Widget) activePage() (int64, bool) {
	v, err := w.client.bridge.Get(w.cid, propActivePage)
	if err != nil {
		return 0, false
	}
	return toID(v)
}

func (c *Client) activate(p *Page) error {
	if c.app == nil || p.page.disposed {
		return errors.New(errors.ErrCodeDisposed, "page %s is closed", p.page)
	}
	return c.app.ui.Set(propActivePage, p.page)
}

func (c *Client) application() (*application, error) {
	if c.app != nil {
		return c.app, nil
	}
	if c.bridge == nil {
		return nil, errors.New(errors.ErrCodeInternal, "client is not initialized")
	}
	if err := c.bridge.Head(TypeUI, true); err != nil {
		return nil, err
	}

	display, err := c.Create(TypeDisplay, nil)
	if err != nil {
		return nil, err
	}
	shell, err := c.Create(TypeShell, bridge.Properties{
		"style":      []any{"NO_TRIM"},
		"mode":       "maximized",
		"active":     true,
		"visibility": true,
	})
	if err != nil {
		return nil, err
	}
	ui, err := c.Create(TypeUI, bridge.Properties{"shell": shell})
	if err != nil {
		return nil, err
	}

	app := &application{
		display: display,
		shell:   shell,
		ui:      ui,
		pages:   make(map[int64]*Page),
	}
	err = ui.On(EventShowPage, func(props bridge.Properties) {
		id, ok := toID(props["pageId"])
		if !ok {
			c.logger.Warn("ShowPage without page id", "props", props)
			return
		}
		p, ok := app.pages[id]
		if !ok {
			c.logger.Warn("ShowPage for unknown page", "page", id)
			return
		}
		if err := c.activate(p); err != nil {
			c.logger.Error("activate page", "page", id, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}
