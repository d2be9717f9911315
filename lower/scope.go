package lower

import "github.com/mlang-dev/mlang/backend"

// binding is what a scope remembers about a declared name: where it lives
// and what it was declared as.
type binding struct {
	slot backend.SlotHandle
	typ  backend.IRType
}

// scope is one lexical level; scopes nest in a stack, innermost last.
type scope struct {
	names map[string]binding
}

func newScope() *scope {
	return &scope{names: make(map[string]binding)}
}

// scopeStack implements §3.3: innermost-on-top lookup, shadowing across
// levels permitted, re-declaration within one level rejected.
type scopeStack struct {
	levels []*scope
}

func (s *scopeStack) push() {
	s.levels = append(s.levels, newScope())
}

func (s *scopeStack) pop() {
	s.levels = s.levels[:len(s.levels)-1]
}

func (s *scopeStack) top() *scope {
	return s.levels[len(s.levels)-1]
}

// declare binds name in the innermost scope. It returns false if name is
// already bound at this level (re-declaration).
func (s *scopeStack) declare(name string, slot backend.SlotHandle, typ backend.IRType) bool {
	top := s.top()
	if _, exists := top.names[name]; exists {
		return false
	}
	top.names[name] = binding{slot: slot, typ: typ}
	return true
}

// lookup walks from innermost to outermost scope.
func (s *scopeStack) lookup(name string) (binding, bool) {
	for i := len(s.levels) - 1; i >= 0; i-- {
		if b, ok := s.levels[i].names[name]; ok {
			return b, true
		}
	}
	return binding{}, false
}
