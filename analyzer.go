package rendergraph

import (
	"github.com/gogpu/rendergraph/internal/hazard"
	"github.com/gogpu/rendergraph/types"
)

// hazardEdge records that task "to" must not be reordered before task
// "from" because they share a hazardous access to the same resource
// (spec §4.C). Declaration order already gives from < to.
type hazardEdge struct {
	from, to int
}

// analysis is the output of the dependency analyzer's two passes:
// updated lifetime windows (written back into the registry) and the
// hazard graph the batch planner's reordering pass walks.
type analysis struct {
	edges []hazardEdge
}

// analyze runs the dependency analyzer's two linear passes over tasks
// (spec §4.C). The first pass updates each resource's lifetime window;
// the second builds the hazard graph. Both run over the same
// declaration-order task list so edges are trivially a DAG (spec §9
// "Cyclic references").
func (g *Graph) analyze() (*analysis, error) {
	for batchIdx, t := range g.tasks {
		for _, a := range t.Attachments {
			if err := g.touchLifetime(a, batchIdx); err != nil {
				return nil, err
			}
		}
	}

	lastWriter := make(map[resourceKey]int)
	lastReaders := make(map[resourceKey][]int)

	a := &analysis{}
	for i, t := range g.tasks {
		touched := make(map[resourceKey]bool, len(t.Attachments))
		for _, att := range t.Attachments {
			key := attachmentKey(att)
			if touched[key] {
				continue
			}
			touched[key] = true
			access := accessOf(t, key)

			if w, ok := lastWriter[key]; ok && w != i {
				if hazard.IsHazard(access, accessOf(g.tasks[w], key)) {
					a.edges = append(a.edges, hazardEdge{from: w, to: i})
				}
			}
			for _, r := range lastReaders[key] {
				if r == i {
					continue
				}
				if hazard.IsHazard(access, accessOf(g.tasks[r], key)) {
					a.edges = append(a.edges, hazardEdge{from: r, to: i})
				}
			}

			if access.IsWrite() {
				lastWriter[key] = i
				lastReaders[key] = nil
			} else {
				lastReaders[key] = append(lastReaders[key], i)
			}
		}
	}
	return a, nil
}

// accessOf returns the union of the access flags task t declared for
// key across all of its attachments touching key (a task may, for
// example, both read and write the same buffer).
func accessOf(t Task, key resourceKey) types.Access {
	var access types.Access
	for _, att := range t.Attachments {
		if attachmentKey(att) == key {
			access |= att.Access
		}
	}
	return access
}

// touchLifetime folds one attachment into its resource's lifetime
// window (spec §3 "Lifetime window"). taskIdx is the task's
// declaration-order index; batch assignment happens later, but the
// window's bounds are expressed in these same task-index units until
// the batch planner renumbers them.
func (g *Graph) touchLifetime(a Attachment, taskIdx int) error {
	switch a.kind {
	case resourceImage:
		rec, err := g.registry.resolveImage(a.imageView.Handle)
		if err != nil {
			return err
		}
		widenLifetime(&rec.lifetime, taskIdx)
	default:
		rec, err := g.registry.resolveBuffer(a.bufferView.Handle)
		if err != nil {
			return err
		}
		widenLifetime(&rec.lifetime, taskIdx)
	}
	return nil
}

func widenLifetime(w *lifetimeWindow, taskIdx int) {
	if taskIdx < w.firstUseBatch {
		w.firstUseBatch = taskIdx
	}
	if taskIdx > w.lastUseBatch {
		w.lastUseBatch = taskIdx
	}
}
