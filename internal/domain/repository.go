package domain

// Repository is the identity of a hosted repository derived from a remote URL.
type Repository struct {
	Host      string
	Owner     string
	Name      string
	RemoteURL string
}

// String returns the "owner/name" form.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}
