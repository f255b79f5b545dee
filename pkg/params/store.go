// Package params provides a parameter server for arm configuration and the
// bounds provider that reads joint limits from it.
package params

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/teslashibe/go-simplearm/pkg/robot"
)

// ErrParamNotFound is returned when a key has no value.
var ErrParamNotFound = errors.New("params: parameter not found")

// Getter reads a numeric parameter by key.
type Getter interface {
	Get(key string) (float64, error)
}

// Store is an in-memory parameter server. Keys are slash separated, e.g.
// "arm_mover/min_joint_1_angle".
type Store struct {
	mu     sync.RWMutex
	values map[string]float64
}

// NewStore creates a store seeded with values.
func NewStore(values map[string]float64) *Store {
	s := &Store{values: make(map[string]float64, len(values))}
	for k, v := range values {
		s.values[normalizeKey(k)] = v
	}
	return s
}

// Get returns the value for key.
func (s *Store) Get(key string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[normalizeKey(key)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrParamNotFound, key)
	}
	return v, nil
}

// Set stores a value for key.
func (s *Store) Set(key string, v float64) {
	s.mu.Lock()
	s.values[normalizeKey(key)] = v
	s.mu.Unlock()
}

// Replace swaps the full parameter set.
func (s *Store) Replace(values map[string]float64) {
	next := make(map[string]float64, len(values))
	for k, v := range values {
		next[normalizeKey(k)] = v
	}
	s.mu.Lock()
	s.values = next
	s.mu.Unlock()
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of all parameters.
func (s *Store) Snapshot() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func normalizeKey(key string) string {
	return strings.Trim(key, "/")
}

// MinKey returns the parameter key for the lower bound of axis under node.
func MinKey(node string, axis robot.Axis) string {
	return normalizeKey(node) + "/min_" + string(axis) + "_angle"
}

// MaxKey returns the parameter key for the upper bound of axis under node.
func MaxKey(node string, axis robot.Axis) string {
	return normalizeKey(node) + "/max_" + string(axis) + "_angle"
}

// NodeBounds reads joint limits for one node from a parameter source.
// Each call reads the source, so updates take effect immediately.
type NodeBounds struct {
	Params Getter
	Node   string
}

// GetLimits implements robot.BoundsProvider.
func (b NodeBounds) GetLimits(axis robot.Axis) (float64, float64, error) {
	min, err := b.Params.Get(MinKey(b.Node, axis))
	if err != nil {
		return 0, 0, err
	}
	max, err := b.Params.Get(MaxKey(b.Node, axis))
	if err != nil {
		return 0, 0, err
	}
	return min, max, nil
}

// SetLimits writes the range for axis under node.
func SetLimits(s *Store, node string, axis robot.Axis, r robot.Range) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.values[MinKey(node, axis)] = r.Min
	s.values[MaxKey(node, axis)] = r.Max
	s.mu.Unlock()
	return nil
}

// NodeLimits reads limits through NodeBounds and writes updates into Store.
// With a FileStore, pass the FileStore as Params and its Store here; an
// update lasts until the file changes on disk.
type NodeLimits struct {
	NodeBounds
	Store *Store
}

// Limits returns the validated limits for every axis.
func (l NodeLimits) Limits() (robot.JointLimits, error) {
	return robot.FetchLimits(l.NodeBounds)
}

// SetLimits replaces one axis range.
func (l NodeLimits) SetLimits(axis robot.Axis, r robot.Range) error {
	return SetLimits(l.Store, l.Node, axis, r)
}

// Ensure NodeBounds implements robot.BoundsProvider
var _ robot.BoundsProvider = NodeBounds{}
