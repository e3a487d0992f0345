package publisher

import (
	"context"
	"net/http"

	"codeberg.org/algopatterns/forge/internal/artifact"
	apperrors "codeberg.org/algopatterns/forge/internal/errors"
	"codeberg.org/algopatterns/forge/internal/logger"
	"github.com/google/go-github/v57/github"
)

// looks for an earlier publish of the artifact, first in the ledger and
// then in the branch history. returns "" when there is none.
func (p *Publisher) findExisting(ctx context.Context, repo artifact.Repository, branch, path, id string) (string, error) {
	ref, ok, err := p.ledger.Lookup(ctx, ledgerKey(branch, id))
	if err != nil {
		// history is authoritative, the ledger only saves API calls
		logger.FromContext(ctx).Warn("artifact ledger lookup failed", "artifact_id", id, "error", err)
	} else if ok {
		return ref, nil
	}

	sha, err := p.scanHistory(ctx, repo, branch, path, id)
	if err != nil || sha == "" {
		return "", err
	}

	return reference(sha), nil
}

// scans recent commits touching path for the artifact trailer
func (p *Publisher) scanHistory(ctx context.Context, repo artifact.Repository, branch, path, id string) (string, error) {
	const op = "github.list_commits"

	var commits []*github.RepositoryCommit
	err := p.call(ctx, op, func(ctx context.Context) error {
		var resp *github.Response
		var err error

		commits, resp, err = p.client.Repositories.ListCommits(ctx, repo.Owner, repo.Name, &github.CommitsListOptions{
			SHA:         branch,
			Path:        path,
			ListOptions: github.ListOptions{PerPage: historyDepth},
		})

		// an empty repository or unknown branch has no history to scan
		if status := statusCode(resp); status == http.StatusConflict || status == http.StatusNotFound {
			commits = nil
			return nil
		}

		return classify(op, resp, err, apperrors.KindPermanent)
	})
	if err != nil {
		return "", err
	}

	for _, c := range commits {
		if hasTrailer(c.GetCommit().GetMessage(), id) {
			return c.GetSHA(), nil
		}
	}

	return "", nil
}

// records a published artifact; failures only cost a history scan later
func (p *Publisher) remember(ctx context.Context, branch, id, ref string) {
	if err := p.ledger.Record(ctx, ledgerKey(branch, id), ref); err != nil {
		logger.FromContext(ctx).Warn("failed to record artifact in ledger", "artifact_id", id, "error", err)
	}
}

// a reference is only valid for the branch it was committed to
func ledgerKey(branch, id string) string {
	return branch + "@" + id
}
