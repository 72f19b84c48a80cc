package rule

import (
	"errors"
	"fmt"

	"github.com/dshills/stylecritic/internal/schema"
)

// Registry misuse errors. Both are fatal at startup; they never occur
// once a run is underway.
var (
	ErrDuplicateRule  = errors.New("duplicate rule identifier")
	ErrRegistryFrozen = errors.New("registry is frozen")
)

// Registry is an ordered collection of rules keyed by identifier.
// Insertion order determines report ordering for violations at the same
// position. After Freeze it is read-only and safe for concurrent readers
// without locking.
type Registry struct {
	rules  []Rule
	index  map[string]int
	frozen bool
}

// NewRegistry returns an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a rule. It fails with ErrRegistryFrozen after Freeze and
// with ErrDuplicateRule if the identifier is already present. Reserved
// identifiers and malformed rules are rejected outright.
func (r *Registry) Register(rule Rule) error {
	if r.frozen {
		return fmt.Errorf("rule %q: %w", rule.ID, ErrRegistryFrozen)
	}
	if rule.ID == "" {
		return errors.New("rule identifier must not be empty")
	}
	if rule.ID == schema.RuleIDUnterminatedLiteral || rule.ID == schema.RuleIDRuleExecutionError {
		return fmt.Errorf("rule identifier %q is reserved", rule.ID)
	}
	if !schema.IsValidCategory(rule.Category) || rule.Category == schema.CategoryExecution {
		return fmt.Errorf("rule %q: invalid category %q", rule.ID, rule.Category)
	}
	if !schema.IsValidSeverity(rule.Severity) {
		return fmt.Errorf("rule %q: invalid severity %q", rule.ID, rule.Severity)
	}
	if _, exists := r.index[rule.ID]; exists {
		return fmt.Errorf("rule %q: %w", rule.ID, ErrDuplicateRule)
	}
	r.index[rule.ID] = len(r.rules)
	r.rules = append(r.rules, rule)
	return nil
}

// Freeze makes the registry read-only. Idempotent.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen }

// All returns the registered rules in insertion order. The returned slice
// is a copy; mutating it does not affect the registry.
func (r *Registry) All() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Get returns the rule with the given identifier.
func (r *Registry) Get(id string) (Rule, bool) {
	i, ok := r.index[id]
	if !ok {
		return Rule{}, false
	}
	return r.rules[i], true
}

// Len returns the number of registered rules.
func (r *Registry) Len() int { return len(r.rules) }
