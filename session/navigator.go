package session

// Navigator abstracts the client-side router. Replace swaps the current
// history entry; Push adds a new one; Path reports the current route.
type Navigator interface {
	Replace(path string)
	Push(path string)
	Path() string
}

// Resetter is the slice of the user-profile store the session manager needs:
// the ability to return it to its initial empty state on sign-out.
type Resetter interface {
	Reset()
}
