package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
)

// Mask replaces redacted string values.
const Mask = "***"

type piiMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks string values whose
// object key matches one of the patterns, at any depth of the state.
// Masking is one-way: masked fields load back as "***".
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, snapshot *domain.Snapshot) error {
	var doc any
	if err := json.Unmarshal(snapshot.State, &doc); err != nil {
		return fmt.Errorf("failed to parse snapshot state: %w", err)
	}

	mask(doc, m.patterns)

	masked, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal masked state: %w", err)
	}

	out := *snapshot
	out.State = masked
	return m.next.Save(ctx, sessionID, &out)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func mask(v any, patterns []*regexp.Regexp) {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			if _, ok := child.(string); ok && matches(k, patterns) {
				node[k] = Mask
				continue
			}
			mask(child, patterns)
		}
	case []any:
		for _, child := range node {
			mask(child, patterns)
		}
	}
}

func matches(key string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
