package mutation

// The helpers below always allocate, so two trees derived from the same
// parent never write into each other's spare capacity.

func appended[S ~[]E, E any](s S, v E) S {
	out := make(S, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func replaced[S ~[]E, E any](s S, i int, v E) S {
	out := make(S, len(s))
	copy(out, s)
	out[i] = v
	return out
}

func removed[S ~[]E, E any](s S, i int) S {
	out := make(S, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// moved removes the element at from and reinserts it at to. Indices outside
// [0, len) and from == to are rejected.
func moved[S ~[]E, E any](s S, from, to int) (S, bool) {
	n := len(s)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return s, false
	}

	item := s[from]
	rest := removed(s, from)

	out := make(S, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, item)
	out = append(out, rest[to:]...)
	return out, true
}
