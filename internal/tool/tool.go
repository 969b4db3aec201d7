// Package tool exposes cart operations as named actions for the reasoning
// component. Every action takes a session id plus JSON arguments and returns a
// short human-readable status line; structured results from the service layer
// are rendered to text here and nowhere else.
package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
)

// Func runs one action. It never fails; problems are part of the returned text.
type Func func(ctx context.Context, sessionID string, args json.RawMessage) string

// Tool is a named action with the metadata a language model needs to call it.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Call        Func           `json:"-"`
}

// ErrUnknownTool is returned by Invoke for an unregistered name.
var ErrUnknownTool = fmt.Errorf("%w: unknown tool", apperrors.ErrNotFound)

// ErrDuplicateTool is returned by Register when the name is taken.
var ErrDuplicateTool = errors.New("tool already registered")

var invocations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tool_invocations_total",
		Help: "Tool invocations by tool name",
	},
	[]string{"tool"},
)

// Registry maps tool names to tools. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a registry holding the given tools. Later duplicates
// are ignored.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		_ = r.Register(t)
	}
	return r
}

// Register adds a tool.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" || t.Call == nil {
		return fmt.Errorf("register tool %q: name and call are required", t.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[t.Name]; ok {
		return fmt.Errorf("register tool %q: %w", t.Name, ErrDuplicateTool)
	}
	r.tools[t.Name] = t
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Descriptions returns name to description for every tool.
func (r *Registry) Descriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.tools))
	for name, t := range r.tools {
		out[name] = t.Description
	}
	return out
}

// Invoke runs the named tool. Only an unknown name is an error.
func (r *Registry) Invoke(ctx context.Context, name, sessionID string, args json.RawMessage) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("invoke %q: %w", name, ErrUnknownTool)
	}
	invocations.WithLabelValues(name).Inc()
	return t.Call(ctx, sessionID, args), nil
}
