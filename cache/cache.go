package cache

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/onlyoneleft/board"
	"github.com/domino14/onlyoneleft/config"
	"github.com/domino14/onlyoneleft/solver"
)

// The cache keeps finished solution sets for the life of the process, so
// that going back to setup and solving the same position again is instant.
//
// A search capped at n solutions returns the first n solutions of the same
// search with a larger cap, so one entry per pair of boards is enough: it
// can answer any request with a cap no larger than its own, and any request
// at all if it was not full.

type Key struct {
	Initial board.Board
	Final   board.Board
}

func (k Key) String() string {
	return fmt.Sprintf("%v-%v", k.Initial, k.Final)
}

type entry struct {
	max   int
	paths []solver.Path
}

func (e entry) serves(max int) bool {
	return e.max >= max || len(e.paths) < e.max
}

type cache struct {
	sync.Mutex
	objects map[Key]entry
}

type loadFunc func(cfg *config.Config, key Key, max int) ([]solver.Path, error)

// GlobalSolutionCache is shared by everything in the process.
var GlobalSolutionCache *cache

func (c *cache) lookup(key Key, max int) ([]solver.Path, bool) {
	e, ok := c.objects[key]
	if !ok || !e.serves(max) {
		return nil, false
	}
	log.Debug().Str("key", key.String()).Int("max", max).Msg("getting solutions from cache")
	return e.paths[:min(max, len(e.paths))], true
}

func (c *cache) store(key Key, max int, paths []solver.Path) {
	if e, ok := c.objects[key]; ok && e.serves(max) {
		return
	}
	c.objects[key] = entry{max: max, paths: paths}
}

func (c *cache) get(cfg *config.Config, key Key, max int, loadFunc loadFunc) ([]solver.Path, error) {
	c.Lock()
	defer c.Unlock()
	if paths, ok := c.lookup(key, max); ok {
		return paths, nil
	}
	log.Debug().Str("key", key.String()).Int("max", max).Msg("loading into cache")
	paths, err := loadFunc(cfg, key, max)
	if err != nil {
		return nil, err
	}
	c.store(key, max, paths)
	return paths, nil
}

func CreateGlobalSolutionCache() {
	GlobalSolutionCache = &cache{objects: make(map[Key]entry)}
}

func ensure() {
	if GlobalSolutionCache == nil {
		CreateGlobalSolutionCache()
	}
}

// Load returns the cached solutions for key, or calls loadFunc to compute
// them and caches the result.
func Load(cfg *config.Config, key Key, max int, loadFunc loadFunc) ([]solver.Path, error) {
	ensure()
	return GlobalSolutionCache.get(cfg, key, max, loadFunc)
}

// Lookup returns the cached solutions for key if the cache can serve a
// request capped at max.
func Lookup(key Key, max int) ([]solver.Path, bool) {
	ensure()
	GlobalSolutionCache.Lock()
	defer GlobalSolutionCache.Unlock()
	return GlobalSolutionCache.lookup(key, max)
}

// Store records a finished search.
func Store(key Key, max int, paths []solver.Path) {
	ensure()
	GlobalSolutionCache.Lock()
	defer GlobalSolutionCache.Unlock()
	GlobalSolutionCache.store(key, max, paths)
}

// Solve is a loadFunc that runs a solver on the calling goroutine with the
// thread count and memory settings from cfg.
func Solve(cfg *config.Config, key Key, max int) ([]solver.Path, error) {
	s, err := solver.NewSolver(key.Initial, key.Final, max)
	if err != nil {
		return nil, err
	}
	s.SetThreads(cfg.GetInt(config.ConfigThreads))
	s.SetMemoryFraction(cfg.GetFloat64(config.ConfigMemoryFraction))
	s.Solve()
	return s.Solutions(), nil
}
