// Package codec decodes transport envelopes into typed feature actions.
//
// Each feature owns a Registry mapping snake_case action names to builders.
// Payload fields are decoded with mapstructure using weak typing, so the same
// registry serves JSON bodies (numbers, booleans) and the REPL's text form
// (everything is a string).
package codec

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/reducer"
	"github.com/mitchellh/mapstructure"
)

// Separator joins nested action names ("add_item.set_name").
const Separator = "."

// DismissName is the action name that dismisses a nested presentation.
const DismissName = "dismiss"

// RowKey is the payload key carrying the row identity for ForEach children.
const RowKey = "id"

// Builder turns an envelope payload into an action.
type Builder[A any] func(payload map[string]any) (A, error)

// Registry maps action names to builders.
type Registry[A any] struct {
	builders map[string]Builder[A]
}

// NewRegistry creates an empty registry.
func NewRegistry[A any]() *Registry[A] {
	return &Registry[A]{builders: make(map[string]Builder[A])}
}

// Register adds a builder under name, replacing any previous one.
func (r *Registry[A]) Register(name string, build Builder[A]) *Registry[A] {
	r.builders[name] = build
	return r
}

// Decode builds the action named by env.Type.
// Unknown names are reported with domain.ErrUnknownAction.
func (r *Registry[A]) Decode(env domain.ActionEnvelope) (A, error) {
	var zero A
	build, ok := r.builders[env.Type]
	if !ok {
		return zero, fmt.Errorf("%w: %q", domain.ErrUnknownAction, env.Type)
	}
	action, err := build(env.Payload)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, env.Type, err)
	}
	return action, nil
}

// Names returns every registered action name, sorted.
func (r *Registry[A]) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unit registers actions that carry no payload.
func Unit[A any](action A) Builder[A] {
	return func(map[string]any) (A, error) {
		return action, nil
	}
}

// Payload decodes the payload into T and wraps it as an action.
func Payload[T, A any](wrap func(T) A) Builder[A] {
	return func(payload map[string]any) (A, error) {
		var (
			zero A
			out  T
		)
		if err := decode(payload, &out); err != nil {
			return zero, err
		}
		return wrap(out), nil
	}
}

// Nest registers every child action under prefix as a forwarded presentation
// action, plus prefix.dismiss.
func Nest[P, C any](parent *Registry[P], prefix string, child *Registry[C], wrap func(reducer.Presentation[C]) P) {
	for name, build := range child.builders {
		build := build
		parent.Register(prefix+Separator+name, func(payload map[string]any) (P, error) {
			var zero P
			action, err := build(payload)
			if err != nil {
				return zero, err
			}
			return wrap(reducer.Forward(action)), nil
		})
	}
	parent.Register(prefix+Separator+DismissName, Unit(wrap(reducer.Dismiss[C]())))
}

// NestRows registers every child action under prefix as a row action.
// The row identity is read from the RowKey payload field and removed before
// the remaining payload reaches the child builder.
func NestRows[P, C any](parent *Registry[P], prefix string, child *Registry[C], wrap func(id string, action C) P) {
	for name, build := range child.builders {
		build := build
		parent.Register(prefix+Separator+name, func(payload map[string]any) (P, error) {
			var zero P
			id, rest, err := splitRow(payload)
			if err != nil {
				return zero, err
			}
			action, err := build(rest)
			if err != nil {
				return zero, err
			}
			return wrap(id, action), nil
		})
	}
}

func splitRow(payload map[string]any) (string, map[string]any, error) {
	raw, ok := payload[RowKey]
	if !ok {
		return "", nil, fmt.Errorf("missing %q", RowKey)
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", nil, fmt.Errorf("%q must be a non-empty string", RowKey)
	}
	rest := make(map[string]any, len(payload))
	for k, v := range payload {
		if k != RowKey {
			rest[k] = v
		}
	}
	return id, rest, nil
}

func decode(payload map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       true,
	})
	if err != nil {
		return err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return dec.Decode(payload)
}

var (
	// ErrEmptyCommand is returned by ParseText for blank input.
	ErrEmptyCommand = errors.New("empty command")
	// ErrMalformedCommand is returned by ParseText for unparsable input.
	ErrMalformedCommand = errors.New("malformed command")
	// ErrInvalidPayload wraps payload decoding failures.
	ErrInvalidPayload = errors.New("invalid action payload")
)

// ParseText reads the REPL form `type key=value key="quoted value"`.
func ParseText(line string) (domain.ActionEnvelope, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return domain.ActionEnvelope{}, err
	}
	if len(tokens) == 0 {
		return domain.ActionEnvelope{}, ErrEmptyCommand
	}

	env := domain.ActionEnvelope{Type: tokens[0]}
	for _, tok := range tokens[1:] {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			return domain.ActionEnvelope{}, fmt.Errorf("%w: argument %q is not key=value", ErrMalformedCommand, tok)
		}
		if env.Payload == nil {
			env.Payload = make(map[string]any)
		}
		env.Payload[key] = value
	}
	return env, nil
}

func tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case (r == ' ' || r == '\t') && !quoted:
			if started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("%w: unterminated quote", ErrMalformedCommand)
	}
	if started {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
