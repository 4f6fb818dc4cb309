package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/ports"
)

// Masked replaces the value of every masked key.
var Masked = domain.StringValue("***")

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the values of state keys
// matching any of the patterns before they reach the store.
// Masking is one way: Load returns the masked value.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: mask pattern %q: %v", domain.ErrInvalidArgument, p, err)
		}
		patterns[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, moduleID string, snap *domain.StateSnapshot) error {
	// The caller's snapshot may still back a live state.
	cloned := snap.Clone()
	for key := range cloned.Values {
		if m.matches(key) {
			cloned.Values[key] = Masked
		}
	}
	return m.next.Save(ctx, moduleID, cloned)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, moduleID string) (*domain.StateSnapshot, error) {
	return m.next.Load(ctx, moduleID)
}

func (m *piiMiddleware) Delete(ctx context.Context, moduleID string) error {
	return m.next.Delete(ctx, moduleID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
