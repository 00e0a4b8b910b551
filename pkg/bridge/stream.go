package bridge

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/tabbridge/pkg/errors"
)

// Request is one line written by a Stream.
type Request struct {
	RequestID string `json:"rid"`
	Operation
}

// Reply is one line read by a Stream in answer to a get or call request.
type Reply struct {
	RequestID string `json:"rid"`
	Result    any    `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Stream is a Bridge speaking newline delimited JSON.
//
// Every operation is written as a single [Request] line tagged with a
// fresh request id. Get and Call then block until the matching [Reply] line
// is read. Operations are serialized; a Stream is safe for concurrent use.
type Stream struct {
	mu    sync.Mutex
	enc   *json.Encoder
	dec   *json.Decoder
	newID func() string
}

// NewStream creates a stream writing requests to w and reading replies from
// r. With a nil reader Get and Call fail with ErrCodeUnsupported.
func NewStream(w io.Writer, r io.Reader) *Stream {
	s := &Stream{
		enc:   json.NewEncoder(w),
		newID: uuid.NewString,
	}
	if r != nil {
		s.dec = json.NewDecoder(r)
	}
	return s
}

func (s *Stream) send(op Operation) (string, error) {
	req := Request{RequestID: s.newID(), Operation: op}
	if err := s.enc.Encode(req); err != nil {
		return "", errors.Wrap(errors.ErrCodeBridge, err, "write %s request", op.Op)
	}
	return req.RequestID, nil
}

func (s *Stream) exchange(op Operation) (any, error) {
	if s.dec == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s needs a reply stream", op.Op)
	}
	rid, err := s.send(op)
	if err != nil {
		return nil, err
	}
	var reply Reply
	if err := s.dec.Decode(&reply); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBridge, err, "read %s reply", op.Op)
	}
	if reply.RequestID != rid {
		return nil, errors.New(errors.ErrCodeBridge, "reply %q does not match request %q", reply.RequestID, rid)
	}
	if reply.Error != "" {
		return nil, errors.New(errors.ErrCodeBridge, "%s", reply.Error)
	}
	return reply.Result, nil
}

func (s *Stream) notify(op Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.send(op)
	return err
}

// Head writes a head request.
func (s *Stream) Head(typ string, enabled bool) error {
	return s.notify(Operation{Op: OpHead, Type: typ, Enabled: boolPtr(enabled)})
}

// Create writes a create request.
func (s *Stream) Create(id int64, typ string, props Properties) error {
	return s.notify(Operation{Op: OpCreate, ID: id, Type: typ, Props: props})
}

// Set writes a set request.
func (s *Stream) Set(id int64, props Properties) error {
	return s.notify(Operation{Op: OpSet, ID: id, Props: props})
}

// Get writes a get request and waits for its reply.
func (s *Stream) Get(id int64, name string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exchange(Operation{Op: OpGet, ID: id, Name: name})
}

// Call writes a call request and waits for its reply.
func (s *Stream) Call(id int64, method string, params Properties) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exchange(Operation{Op: OpCall, ID: id, Name: method, Props: params})
}

// Listen writes a listen request.
func (s *Stream) Listen(id int64, event string, enabled bool) error {
	return s.notify(Operation{Op: OpListen, ID: id, Name: event, Enabled: boolPtr(enabled)})
}

// Destroy writes a destroy request.
func (s *Stream) Destroy(id int64) error {
	return s.notify(Operation{Op: OpDestroy, ID: id})
}
