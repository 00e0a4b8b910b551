package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tabbridge/pkg/bridge"
	"github.com/matzehuels/tabbridge/pkg/config"
	"github.com/matzehuels/tabbridge/pkg/errors"
	pkgio "github.com/matzehuels/tabbridge/pkg/io"
	"github.com/matzehuels/tabbridge/pkg/layout"
	"github.com/matzehuels/tabbridge/pkg/script"
	"github.com/matzehuels/tabbridge/pkg/widget"
)

// =============================================================================
// Session - a client bound to a recording bridge
// =============================================================================

// session is a widget client whose operations are recorded and, optionally,
// streamed as JSON lines. Layout flushes run when flush is called.
type session struct {
	client    *widget.Client
	recorder  *bridge.Recorder
	scheduler *layout.ManualScheduler

	byID    map[string]*widget.Widget
	flushes int
}

// newSession creates a session from cfg. When trace is non-nil every
// bridge operation is also written to it.
func (c *CLI) newSession(cfg config.Config, trace io.Writer) *session {
	s := &session{
		recorder:  bridge.NewRecorder(),
		scheduler: &layout.ManualScheduler{},
		byID:      make(map[string]*widget.Widget),
	}
	opts := cfg.WidgetOptions()
	opts.Scheduler = s.scheduler
	opts.Logger = c.Logger
	s.client = widget.NewClient(opts)

	var b bridge.Bridge = s.recorder
	if trace != nil {
		b = bridge.Multi{s.recorder, bridge.NewStream(trace, nil)}
	}
	s.client.Init(b)
	return s
}

// flush runs every pending layout flush and reports how many ran.
func (s *session) flush() int {
	n := s.scheduler.RunPending()
	s.flushes += n
	return n
}

// lookup finds a widget by its id property, or by "#<cid>".
func (s *session) lookup(ref string) (*widget.Widget, error) {
	if w, ok := s.byID[ref]; ok {
		return w, nil
	}
	if cid, ok := parseCID(ref); ok {
		if w, ok := s.client.Lookup(cid); ok {
			return w, nil
		}
	}
	var found *widget.Widget
	s.client.Registry().Walk(func(w *widget.Widget) bool {
		if w.ID() == ref {
			found = w
			return false
		}
		return true
	})
	if found != nil {
		return found, nil
	}
	return nil, errors.New(errors.ErrCodeWidgetNotFound, "no widget %q", ref)
}

// parseCID parses "#<cid>".
func parseCID(ref string) (int64, bool) {
	s, ok := strings.CutPrefix(ref, "#")
	if !ok {
		return 0, false
	}
	cid, err := strconv.ParseInt(s, 10, 64)
	return cid, err == nil && cid > 0
}

// =============================================================================
// Loading
// =============================================================================

// load builds a widget tree from path on a fresh session and flushes its
// layout. JavaScript files are run as applications; anything else is read
// as a scene document.
func (c *CLI) load(ctx context.Context, path string, trace io.Writer) (*session, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	s := c.newSession(cfg, trace)

	if isScript(path) {
		err = c.runFile(s, path, logger)
	} else {
		err = c.buildScene(s, path)
	}
	if err != nil {
		return nil, err
	}
	s.flush()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prog.done("Loaded "+path, "widgets", s.client.Registry().Len(), "ops", s.recorder.Len())
	return s, nil
}

func (c *CLI) buildScene(s *session, path string) error {
	scene, err := pkgio.ImportScene(path)
	if err != nil {
		return err
	}
	byID, err := scene.Build(s.client)
	if err != nil {
		return err
	}
	s.byID = byID
	return nil
}

func (c *CLI) runFile(s *session, path string, logger *log.Logger) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	return script.New(s.client, logger).Run(path, string(src))
}

func isScript(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".js")
}
