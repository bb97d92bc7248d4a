// Package capability tracks the availability of optional external tools that
// some node bodies depend on. Each capability is probed at most once per
// process; the result is cached for the process lifetime, so a capability
// that fails to acquire stays unavailable until restart.
package capability

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"sync"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/ctxlog"
)

// Flag is the immutable result of probing a single capability.
type Flag struct {
	ID        string
	Available bool
	// Handle is the resolved location of the acquired tool. Empty when the
	// capability is unavailable.
	Handle string
}

// AcquireFunc attempts a one-time acquisition of a capability and returns an
// opaque handle. It must be a bounded, local check; never a network call.
type AcquireFunc func() (string, error)

// Probe names a capability and the acquisition used to resolve it.
type Probe struct {
	ID      string
	Acquire AcquireFunc
}

// LookPath returns a probe that resolves the capability by locating the
// given executable on PATH.
func LookPath(id, executable string) Probe {
	return Probe{
		ID: id,
		Acquire: func() (string, error) {
			return exec.LookPath(executable)
		},
	}
}

// Set holds the known capability probes and their memoized flags.
type Set struct {
	mu     sync.Mutex
	probes map[string]AcquireFunc
	flags  map[string]Flag
}

// NewSet creates a capability set from the given probes. Registering the
// same capability id twice is a programmer error.
func NewSet(probes ...Probe) *Set {
	s := &Set{
		probes: make(map[string]AcquireFunc, len(probes)),
		flags:  make(map[string]Flag, len(probes)),
	}
	for _, p := range probes {
		if _, exists := s.probes[p.ID]; exists {
			panic(fmt.Sprintf("capability probe with id '%s' already registered", p.ID))
		}
		s.probes[p.ID] = p.Acquire
	}
	return s
}

// Defaults returns the capability set for the stock node bundle.
func Defaults() *Set {
	return NewSet(
		LookPath("ffmpeg", "ffmpeg"),
		LookPath("ffprobe", "ffprobe"),
		LookPath("sox", "sox"),
		LookPath("whisper-cli", "whisper-cli"),
	)
}

// Probe resolves a capability flag, performing the underlying acquisition at
// most once per process. An unknown id yields an unavailable flag. An
// acquisition failure (or panic) is converted into an unavailable flag and
// never propagates.
func (s *Set) Probe(id string) Flag {
	s.mu.Lock()
	defer s.mu.Unlock()

	if flag, ok := s.flags[id]; ok {
		return flag
	}

	acquire, known := s.probes[id]
	flag := Flag{ID: id}
	if known {
		if handle, err := tryAcquire(acquire); err == nil {
			flag.Available = true
			flag.Handle = handle
		}
	}
	s.flags[id] = flag
	return flag
}

// ProbeAll resolves every known capability and logs one line per flag. It is
// intended to run once during startup, before any unit is loaded.
func (s *Set) ProbeAll(ctx context.Context) []Flag {
	logger := ctxlog.FromContext(ctx)

	flags := make([]Flag, 0, len(s.Known()))
	for _, id := range s.Known() {
		flag := s.Probe(id)
		if flag.Available {
			logger.Debug("Capability available.", "capability", flag.ID, "handle", flag.Handle)
		} else {
			logger.Warn("Capability unavailable, dependent nodes will load as stubs.", "capability", flag.ID)
		}
		flags = append(flags, flag)
	}
	return flags
}

// Known returns the sorted ids of all registered capability probes.
func (s *Set) Known() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.probes))
	for id := range s.probes {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	sort.Strings(ids)
	return ids
}

// tryAcquire runs an acquisition inside its own failure boundary.
func tryAcquire(acquire AcquireFunc) (handle string, err error) {
	defer func() {
		if r := recover(); r != nil {
			handle = ""
			err = fmt.Errorf("capability acquisition panicked: %v", r)
		}
	}()
	return acquire()
}
