package types

// VarStore mints fresh type variables. It is the one piece of mutable state
// shared across a declaration's canonicalization, so it is owned exclusively
// by the caller and passed down explicitly: one VarStore may serve a whole
// module as long as each declaration is processed to completion before the
// next begins.
type VarStore struct {
	next Variable
}

func NewVarStore() *VarStore {
	return &VarStore{}
}

// Fresh returns a type variable never returned before by this store.
func (s *VarStore) Fresh() Variable {
	v := s.next
	s.next++
	return v
}
