// Package github retrieves repository trees and file contents from the GitHub REST API.
package github

import (
	"errors"
	"strings"
)

// EntryKind distinguishes files from directories in a repository tree.
type EntryKind string

const (
	// EntryKindFile marks a regular file entry.
	EntryKindFile EntryKind = "file"
	// EntryKindDirectory marks a directory entry.
	EntryKindDirectory EntryKind = "dir"
)

const repositorySegmentSeparator = "/"

var errInvalidRepositoryIdentifier = errors.New("repository identifier must be formatted owner/name")

// Entry is one node of a repository tree, addressed by its root-relative path.
type Entry struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Kind      EntryKind `json:"kind"`
	SizeBytes int64     `json:"sizeBytes,omitempty"`
}

// Depth reports the nesting depth of the entry. Root-level entries have depth zero.
func (entry Entry) Depth() int {
	return strings.Count(entry.Path, repositorySegmentSeparator)
}

// IsFile reports whether the entry is a regular file.
func (entry Entry) IsFile() bool {
	return entry.Kind == EntryKindFile
}

// IsDirectory reports whether the entry is a directory.
func (entry Entry) IsDirectory() bool {
	return entry.Kind == EntryKindDirectory
}

// RepoRef identifies one repository and an optional git reference.
type RepoRef struct {
	Owner     string
	Name      string
	Reference string
}

// ParseRepository splits an owner/name identifier into a RepoRef.
func ParseRepository(identifier string) (RepoRef, error) {
	trimmed := strings.Trim(strings.TrimSpace(identifier), repositorySegmentSeparator)
	segments := strings.Split(trimmed, repositorySegmentSeparator)
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return RepoRef{}, errInvalidRepositoryIdentifier
	}
	return RepoRef{Owner: segments[0], Name: segments[1]}, nil
}

// Identifier returns the owner/name form of the reference.
func (reference RepoRef) Identifier() string {
	return reference.Owner + repositorySegmentSeparator + reference.Name
}

// WithReference returns a copy of the RepoRef pinned to the provided git reference.
func (reference RepoRef) WithReference(gitReference string) RepoRef {
	reference.Reference = strings.TrimSpace(gitReference)
	return reference
}
