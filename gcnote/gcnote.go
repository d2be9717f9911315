// Package gcnote documents, rather than implements, a memory-management
// decision: it is never constructed by lower.Driver or backend.Engine.
//
// The AST this compiler walks is a strict, acyclic tree (every node owns
// its children outright), so Go's own collector already reclaims it
// correctly once nothing references the root Program anymore. A tracing
// collector has nothing to do here. Sketch exists only to give that
// decision a concrete shape in code, mirrored on the original
// implementation's mark-sweep skeleton, which itself was never driven by
// a real reachability walk over AST ownership.
package gcnote

// Object is anything a Sketch could, in principle, track.
type Object interface {
	traceReferences(visit func(Object))
}

// Sketch is a mark-sweep root set, translated directly from the
// reference implementation's GCManager. Nothing in this compiler ever
// calls AddRoot or Collect.
type Sketch struct {
	objects map[Object]bool
	roots   []Object
}

// NewSketch returns an empty root set.
func NewSketch() *Sketch {
	return &Sketch{objects: make(map[Object]bool)}
}

func (s *Sketch) AddObject(obj Object) {
	s.objects[obj] = false
}

func (s *Sketch) AddRoot(root Object) {
	s.roots = append(s.roots, root)
}

func (s *Sketch) RemoveRoot(root Object) {
	for i, r := range s.roots {
		if r == root {
			s.roots = append(s.roots[:i], s.roots[i+1:]...)
			return
		}
	}
}

// Collect marks everything reachable from the root set, then drops
// whatever wasn't marked.
func (s *Sketch) Collect() {
	for _, r := range s.roots {
		s.mark(r)
	}
	for obj, marked := range s.objects {
		if marked {
			s.objects[obj] = false
		} else {
			delete(s.objects, obj)
		}
	}
}

// Len reports how many objects the set currently retains.
func (s *Sketch) Len() int { return len(s.objects) }

// Contains reports whether obj is still tracked (survived the last Collect).
func (s *Sketch) Contains(obj Object) bool {
	_, ok := s.objects[obj]
	return ok
}

func (s *Sketch) mark(obj Object) {
	if obj == nil || s.objects[obj] {
		return
	}
	s.objects[obj] = true
	obj.traceReferences(s.mark)
}
