package lifecycle

// Identified is the part of a resource the validation gate inspects.
type Identified interface {
	Identity() (int, bool)
}

// ValidateForCreate rejects resources that already carry an id.
// Identity is always assigned by the server.
func ValidateForCreate(kind string, r Identified) error {
	if id, ok := r.Identity(); ok {
		return invalidArgument(kind, "%s id must not be set on create (got %d)", kind, id)
	}
	return nil
}

// ValidateForReplace rejects resources whose id differs from the path id.
// A resource without an id is accepted; the caller assigns pathID to it.
func ValidateForReplace(kind string, r Identified, pathID int) error {
	id, ok := r.Identity()
	if ok && id != pathID {
		return invalidArgument(kind, "%s id %d does not match path id %d", kind, id, pathID)
	}
	return nil
}
