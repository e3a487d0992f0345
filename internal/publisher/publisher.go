package publisher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/algopatterns/forge/internal/artifact"
	apperrors "codeberg.org/algopatterns/forge/internal/errors"
	"codeberg.org/algopatterns/forge/internal/logger"
	"codeberg.org/algopatterns/forge/internal/retry"
	"github.com/google/go-github/v57/github"
)

// creates a publisher; without WithLedger, published artifacts are
// remembered in process memory
func New(client *github.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:     client,
		pathPrefix: defaultPathPrefix,
		timeout:    defaultTimeout,
		policy:     retry.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.ledger == nil {
		p.ledger = NewMemoryLedger(0)
	}

	return p
}

// Publish commits the artifact to repo and returns the commit reference.
// Publishing the same artifact again returns the earlier reference instead
// of creating a second commit.
func (p *Publisher) Publish(ctx context.Context, a *artifact.Artifact, repo artifact.Repository) (*artifact.PublishResult, error) {
	const op = "publisher.publish"

	if a == nil || strings.TrimSpace(a.Content) == "" {
		return p.failed(repo, apperrors.Validation(op, "artifact content is empty"))
	}

	if !artifact.IsValidRepository(repo.String()) {
		return p.failed(repo, apperrors.Validation(op, fmt.Sprintf("invalid target repository %q", repo.String())))
	}

	id := a.ID()

	// concurrent publishes of one artifact share a single commit
	v, err, shared := p.inflight.Do(repo.String()+"@"+id, func() (any, error) {
		return p.publish(ctx, a, repo, id)
	})
	if err != nil {
		return p.failed(repo, err)
	}

	result := *v.(*artifact.PublishResult)
	if shared {
		result.Deduped = true
	}

	return &result, nil
}

func (p *Publisher) publish(ctx context.Context, a *artifact.Artifact, repo artifact.Repository, id string) (*artifact.PublishResult, error) {
	log := logger.FromContext(ctx).With("repository", repo.String(), "artifact_id", id)
	start := time.Now()

	branch, err := p.checkAccess(ctx, repo)
	if err != nil {
		return nil, err
	}

	path := filePath(p.pathPrefix, id, a.LanguageHint)

	existing, err := p.findExisting(ctx, repo, branch, path, id)
	if err != nil {
		return nil, err
	}

	if existing != "" {
		log.Info("artifact already published", "reference", existing)
		p.remember(ctx, branch, id, existing)
		return &artifact.PublishResult{Repository: repo, Committed: true, Reference: existing, Deduped: true}, nil
	}

	sha, err := p.commit(ctx, repo, branch, path, a, id)
	if apperrors.Is(err, apperrors.KindConflict) {
		log.Info("branch moved during publish, retrying against refreshed ref", "branch", branch)

		// an earlier attempt may have landed before the ref moved
		sha, err = p.scanHistory(ctx, repo, branch, path, id)
		if err == nil && sha == "" {
			sha, err = p.commit(ctx, repo, branch, path, a, id)
		}
	}
	if err != nil {
		return nil, err
	}

	ref := reference(sha)
	p.remember(ctx, branch, id, ref)

	log.Info("artifact published",
		"reference", ref,
		"branch", branch,
		"path", path,
		"duration", time.Since(start),
	)

	return &artifact.PublishResult{Repository: repo, Committed: true, Reference: ref}, nil
}

// verifies the token can push to repo and resolves the target branch
func (p *Publisher) checkAccess(ctx context.Context, repo artifact.Repository) (string, error) {
	const op = "github.get_repository"

	var r *github.Repository
	err := p.call(ctx, op, func(ctx context.Context) error {
		var resp *github.Response
		var err error

		r, resp, err = p.client.Repositories.Get(ctx, repo.Owner, repo.Name)
		return classify(op, resp, err, apperrors.KindAuthorization)
	})
	if err != nil {
		return "", err
	}

	// permissions are omitted for some token types; the write itself is
	// then the access check
	if perms := r.GetPermissions(); perms != nil && !perms["push"] {
		return "", apperrors.Authorization(op, fmt.Errorf("token has no push access to %s", repo))
	}

	switch {
	case p.branch != "":
		return p.branch, nil
	case r.GetDefaultBranch() != "":
		return r.GetDefaultBranch(), nil
	default:
		return defaultBranch, nil
	}
}

// writes the artifact as one commit on top of the branch head and
// fast-forwards the branch to it. a moved branch is a conflict.
func (p *Publisher) commit(ctx context.Context, repo artifact.Repository, branch, path string, a *artifact.Artifact, id string) (string, error) {
	refName := "refs/heads/" + branch

	var head *github.Reference
	err := p.call(ctx, "github.get_ref", func(ctx context.Context) error {
		var resp *github.Response
		var err error

		head, resp, err = p.client.Git.GetRef(ctx, repo.Owner, repo.Name, refName)
		return classify("github.get_ref", resp, err, apperrors.KindPermanent)
	})
	if err != nil {
		return "", err
	}

	parentSHA := head.GetObject().GetSHA()

	var parent *github.Commit
	err = p.call(ctx, "github.get_commit", func(ctx context.Context) error {
		var resp *github.Response
		var err error

		parent, resp, err = p.client.Git.GetCommit(ctx, repo.Owner, repo.Name, parentSHA)
		return classify("github.get_commit", resp, err, apperrors.KindPermanent)
	})
	if err != nil {
		return "", err
	}

	var tree *github.Tree
	err = p.call(ctx, "github.create_tree", func(ctx context.Context) error {
		var resp *github.Response
		var err error

		tree, resp, err = p.client.Git.CreateTree(ctx, repo.Owner, repo.Name, parent.GetTree().GetSHA(), []*github.TreeEntry{{
			Path:    github.String(path),
			Mode:    github.String("100644"),
			Type:    github.String("blob"),
			Content: github.String(a.Content),
		}})
		return classify("github.create_tree", resp, err, apperrors.KindPermanent)
	})
	if err != nil {
		return "", err
	}

	var created *github.Commit
	err = p.call(ctx, "github.create_commit", func(ctx context.Context) error {
		var resp *github.Response
		var err error

		created, resp, err = p.client.Git.CreateCommit(ctx, repo.Owner, repo.Name, &github.Commit{
			Message: github.String(commitMessage(a, id)),
			Tree:    &github.Tree{SHA: tree.SHA},
			Parents: []*github.Commit{{SHA: github.String(parentSHA)}},
		}, nil)
		return classify("github.create_commit", resp, err, apperrors.KindPermanent)
	})
	if err != nil {
		return "", err
	}

	// retrying with the same sha is safe: a ref already at sha is a no-op
	err = p.call(ctx, "github.update_ref", func(ctx context.Context) error {
		_, resp, err := p.client.Git.UpdateRef(ctx, repo.Owner, repo.Name, &github.Reference{
			Ref:    github.String(refName),
			Object: &github.GitObject{SHA: created.SHA},
		}, false)
		if err != nil && isNotFastForward(resp) {
			return apperrors.Conflict("github.update_ref", err)
		}
		return classify("github.update_ref", resp, err, apperrors.KindPermanent)
	})
	if err != nil {
		return "", err
	}

	return created.GetSHA(), nil
}

// runs one API call under the retry policy, each attempt with its own timeout
func (p *Publisher) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, p.policy, op, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		return fn(callCtx)
	})
}

func (p *Publisher) failed(repo artifact.Repository, err error) (*artifact.PublishResult, error) {
	return &artifact.PublishResult{Repository: repo, Failure: err}, err
}
