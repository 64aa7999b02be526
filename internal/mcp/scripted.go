package mcp

import (
	"context"
	"sync"
)

// Call records one Invoke made against a ScriptedInvoker.
type Call struct {
	Tool string
	Args map[string]any
}

type scriptStep struct {
	resp *Response
	err  error
}

// ScriptedInvoker is an in-memory Invoker for tests. Responses and errors
// are queued per tool name and consumed in FIFO order; a tool invoked with
// an empty queue returns an empty successful response so scripts only need
// to stage the calls they assert on.
type ScriptedInvoker struct {
	mu     sync.Mutex
	queues map[string][]scriptStep
	calls  []Call
	closed bool
}

// NewScriptedInvoker returns an empty script.
func NewScriptedInvoker() *ScriptedInvoker {
	return &ScriptedInvoker{queues: map[string][]scriptStep{}}
}

// Queue stages a response for the next invocation of tool.
func (s *ScriptedInvoker) Queue(tool string, resp *Response) *ScriptedInvoker {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[tool] = append(s.queues[tool], scriptStep{resp: resp})
	return s
}

// QueueError stages a failure for the next invocation of tool.
func (s *ScriptedInvoker) QueueError(tool string, err error) *ScriptedInvoker {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[tool] = append(s.queues[tool], scriptStep{err: err})
	return s
}

// Invoke pops the next staged step for the tool.
func (s *ScriptedInvoker) Invoke(ctx context.Context, tool string, args map[string]any) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Tool: tool, Args: args})

	q := s.queues[tool]
	if len(q) == 0 {
		return &Response{}, nil
	}
	step := q[0]
	s.queues[tool] = q[1:]
	if step.err != nil {
		return nil, step.err
	}
	return step.resp, nil
}

// Close marks the invoker closed.
func (s *ScriptedInvoker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *ScriptedInvoker) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Calls returns a copy of every recorded invocation in order.
func (s *ScriptedInvoker) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns how many times the tool was invoked.
func (s *ScriptedInvoker) CallsTo(tool string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Tool == tool {
			n++
		}
	}
	return n
}
