package repo

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/object"
)

// mergeBaseWalk memoizes commits and generation numbers for one merge-base
// query. A root commit has generation 1; any other commit has one more than
// its highest parent.
type mergeBaseWalk struct {
	r       *Repo
	commits map[object.Hash]*object.Commit
	gens    map[object.Hash]uint64
}

func newMergeBaseWalk(r *Repo) *mergeBaseWalk {
	return &mergeBaseWalk{
		r:       r,
		commits: make(map[object.Hash]*object.Commit),
		gens:    make(map[object.Hash]uint64),
	}
}

func (w *mergeBaseWalk) commit(h object.Hash) (*object.Commit, error) {
	if c, ok := w.commits[h]; ok {
		return c, nil
	}
	c, err := w.r.mustGetCommit(h)
	if err != nil {
		return nil, fmt.Errorf("find merge base: %w", err)
	}
	w.commits[h] = c
	return c, nil
}

// generation computes h's generation depth first. The stack holds the
// current path only, so meeting a parent already on it means the history
// is corrupt.
func (w *mergeBaseWalk) generation(h object.Hash) (uint64, error) {
	if g, ok := w.gens[h]; ok {
		return g, nil
	}
	onPath := map[object.Hash]bool{h: true}
	stack := []object.Hash{h}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		c, err := w.commit(cur)
		if err != nil {
			return 0, err
		}

		var highest uint64
		var next object.Hash
		for _, p := range c.Parents() {
			if g, ok := w.gens[p]; ok {
				highest = max(highest, g)
				continue
			}
			if onPath[p] {
				return 0, fmt.Errorf("find merge base: cycle detected at commit %s", p)
			}
			next = p
			break
		}
		if next != "" {
			onPath[next] = true
			stack = append(stack, next)
			continue
		}

		w.gens[cur] = highest + 1
		delete(onPath, cur)
		stack = stack[:len(stack)-1]
	}
	return w.gens[h], nil
}

// ancestors returns tip and every commit reachable from it over both
// parent links.
func (w *mergeBaseWalk) ancestors(tip object.Hash) (map[object.Hash]bool, error) {
	seen := map[object.Hash]bool{tip: true}
	queue := []object.Hash{tip}
	for len(queue) > 0 {
		c, err := w.commit(queue[0])
		if err != nil {
			return nil, err
		}
		queue = queue[1:]
		for _, p := range c.Parents() {
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}
	return seen, nil
}

// FindMergeBase returns the best common ancestor of a and b over both
// parent links: the common ancestor with the highest generation, ties
// broken by the smaller id. It returns "" when the histories are disjoint.
func (r *Repo) FindMergeBase(a, b object.Hash) (object.Hash, error) {
	if a == "" || b == "" {
		return "", nil
	}
	if a == b {
		return a, nil
	}

	w := newMergeBaseWalk(r)
	fromA, err := w.ancestors(a)
	if err != nil {
		return "", err
	}
	fromB, err := w.ancestors(b)
	if err != nil {
		return "", err
	}

	var best object.Hash
	var bestGen uint64
	for h := range fromB {
		if !fromA[h] {
			continue
		}
		g, err := w.generation(h)
		if err != nil {
			return "", err
		}
		if best == "" || g > bestGen || (g == bestGen && h < best) {
			best, bestGen = h, g
		}
	}
	return best, nil
}
