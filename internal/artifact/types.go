package artifact

// an owner/name repository identifier
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// one inbound generation request; immutable once built by NewRequest
type Request struct {
	requirement string
	target      Repository
}

// generated source code for one request
type Artifact struct {
	Content      string
	LanguageHint string // optional, e.g. "python"
	Source       Request
}

// terminal result of one publish
type PublishResult struct {
	Repository Repository
	Committed  bool
	Reference  string // "commit:<sha>"
	Deduped    bool   // an earlier publish of the same artifact was reused
	Failure    error
}
