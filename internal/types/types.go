// Package types defines the cross-package output shapes used by the gitscribe CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	FormatText = "text"
	FormatJSON = "json"
)

// TreeNode is one node of the nested repository tree emitted by the tree
// command in JSON format.
type TreeNode struct {
	Path      string      `json:"path"`
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Size      string      `json:"size,omitempty"`
	SizeBytes int64       `json:"-"`
	Children  []*TreeNode `json:"children,omitempty"`
}

// RepositoryReport summarizes a repository listing for the stats command.
type RepositoryReport struct {
	Repository      string `json:"repository"`
	FileCount       int    `json:"fileCount"`
	DirectoryCount  int    `json:"directoryCount"`
	TotalSize       string `json:"totalSize"`
	TotalSizeBytes  int64  `json:"-"`
	EstimatedTokens int    `json:"estimatedTokens"`
	Tokenizer       string `json:"tokenizer,omitempty"`
}
