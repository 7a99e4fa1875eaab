package parser

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/johnqtcg/giteaview/internal/gitea"
)

// ErrInvalidItemRef indicates an input is neither a Gitea item URL nor a
// supported shorthand.
var ErrInvalidItemRef = errors.New("invalid item reference")

// Target is a parsed item reference. Owner and Repo are empty for shorthand
// input, which always refers to the configured repository.
type Target struct {
	Owner string
	Repo  string
	Ref   gitea.ItemRef
}

// InRepository reports whether t refers to owner/repo. Shorthand targets
// match every repository.
func (t Target) InRepository(owner, repo string) bool {
	if t.Owner == "" && t.Repo == "" {
		return true
	}
	return strings.EqualFold(t.Owner, owner) && strings.EqualFold(t.Repo, repo)
}

// RefParser parses user input into an item reference.
type RefParser interface {
	Parse(raw string) (Target, error)
}

// New creates the default parser. It accepts
//
//	https://gitea.example.com/{owner}/{repo}/issues/{number}
//	https://gitea.example.com/{owner}/{repo}/pulls/{number}
//	issues/{number}, pulls/{number}, issue/{number}, pull/{number}
//
// URLs may carry an instance sub path, a query and a fragment.
func New() RefParser {
	return defaultParser{}
}

type defaultParser struct{}

func (defaultParser) Parse(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, invalid("empty input")
	}
	if !strings.Contains(raw, "://") {
		return parseShorthand(raw)
	}

	parsedURL, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("parse URL %q: %w", raw, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return Target{}, fmt.Errorf("validate URL scheme %q: %w", parsedURL.Scheme, invalid("scheme must be http or https"))
	}
	if parsedURL.Host == "" {
		return Target{}, fmt.Errorf("validate URL %q: %w", raw, invalid("missing host"))
	}

	segments := splitPathSegments(parsedURL.Path)
	if len(segments) < 4 {
		return Target{}, fmt.Errorf("validate path segments: %w", invalid("path must end in /{owner}/{repo}/{issues|pulls}/{number}"))
	}
	tail := segments[len(segments)-4:]
	owner, repo := tail[0], tail[1]
	if owner == "" || repo == "" {
		return Target{}, fmt.Errorf("validate owner/repo: %w", invalid("owner/repo must not be empty"))
	}

	ref, err := resolveRef(tail[2], tail[3])
	if err != nil {
		return Target{}, fmt.Errorf("parse URL path %q: %w", parsedURL.Path, err)
	}
	return Target{Owner: owner, Repo: repo, Ref: ref}, nil
}

func parseShorthand(raw string) (Target, error) {
	segments := splitPathSegments(raw)
	if len(segments) != 2 {
		return Target{}, fmt.Errorf("parse shorthand %q: %w", raw, invalid("shorthand must be {issues|pulls}/{number}"))
	}
	ref, err := resolveRef(segments[0], segments[1])
	if err != nil {
		return Target{}, fmt.Errorf("parse shorthand %q: %w", raw, err)
	}
	return Target{Ref: ref}, nil
}

func resolveRef(kindText, numberText string) (gitea.ItemRef, error) {
	kind, err := resolveKind(kindText)
	if err != nil {
		return gitea.ItemRef{}, err
	}
	number, err := strconv.Atoi(numberText)
	if err != nil || number <= 0 {
		return gitea.ItemRef{}, fmt.Errorf("validate item number %q: %w", numberText, invalid("item number must be a positive integer"))
	}
	return gitea.ItemRef{Kind: kind, Number: number}, nil
}

func resolveKind(kind string) (gitea.ItemKind, error) {
	switch strings.ToLower(kind) {
	case "issues", "issue":
		return gitea.KindIssue, nil
	case "pulls", "pull":
		return gitea.KindPullRequest, nil
	default:
		return "", fmt.Errorf("validate item kind %q: %w", kind, invalid("unsupported item kind"))
	}
}

func splitPathSegments(rawPath string) []string {
	trimmed := strings.Trim(rawPath, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidItemRef, reason)
}
