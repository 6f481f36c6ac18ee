package identity

import "strconv"

// Ref is a surrogate key that is either resolved by the store or not yet known.
// The zero value is Unresolved.
type Ref struct {
	id       int64
	resolved bool
}

// Resolved wraps a store generated id. Non-positive ids stay unresolved.
func Resolved(id int64) Ref {
	if id <= 0 {
		return Ref{}
	}
	return Ref{id: id, resolved: true}
}

func Unresolved() Ref {
	return Ref{}
}

func (r Ref) Get() (int64, bool) {
	return r.id, r.resolved
}

func (r Ref) IsResolved() bool {
	return r.resolved
}

func (r Ref) String() string {
	if !r.resolved {
		return "unresolved"
	}
	return strconv.FormatInt(r.id, 10)
}
