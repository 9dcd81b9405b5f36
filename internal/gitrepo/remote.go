package gitrepo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// ParseRemote extracts owner and repository name from a Git remote URL.
//
// Supported forms:
//
//	https://github.com/owner/repo.git
//	ssh://git@github.com/owner/repo.git
//	git@github.com:owner/repo.git
//
// Enterprise hosts work the same way; only the last two path segments count.
func ParseRemote(remote string) (owner, repo string, err error) {
	s := strings.TrimSpace(remote)
	if s == "" {
		return "", "", fmt.Errorf("empty remote URL")
	}

	var path string
	if strings.Contains(s, "://") {
		u, perr := url.Parse(s)
		if perr != nil {
			return "", "", fmt.Errorf("parse remote %q: %w", remote, perr)
		}
		path = u.Path
	} else {
		// scp-like syntax: [user@]host:path
		i := strings.Index(s, ":")
		if i < 0 {
			return "", "", fmt.Errorf("unrecognised remote %q", remote)
		}
		path = s[i+1:]
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("remote %q has no owner/repo path", remote)
	}
	owner, repo = parts[len(parts)-2], parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("remote %q has no owner/repo path", remote)
	}
	return owner, repo, nil
}

// Origin returns the owner and name of the repository behind remote.
func Origin(ctx context.Context, r Repo, remote string) (owner, repo string, err error) {
	u, err := r.RemoteURL(ctx, remote)
	if err != nil {
		return "", "", err
	}
	return ParseRemote(u)
}
