package output

import (
	"strings"

	"github.com/temirov/gitscribe/internal/github"
	"github.com/temirov/gitscribe/internal/types"
	"github.com/temirov/gitscribe/internal/utils"
)

const pathSegmentSeparator = "/"

// BuildEntryTree nests a flat repository listing under a synthetic root node
// named after the repository. Parents missing from the listing are
// materialized so every file hangs off a directory chain.
func BuildEntryTree(reference github.RepoRef, entries []github.Entry) *types.TreeNode {
	root := &types.TreeNode{
		Path: reference.Identifier(),
		Name: reference.Name,
		Type: types.NodeTypeDirectory,
	}
	directories := map[string]*types.TreeNode{"": root}
	for _, entry := range entries {
		parent := ensureDirectory(directories, root, parentPath(entry.Path))
		if entry.IsDirectory() {
			if _, exists := directories[entry.Path]; exists {
				continue
			}
			node := &types.TreeNode{Path: entry.Path, Name: entry.Name, Type: types.NodeTypeDirectory}
			directories[entry.Path] = node
			parent.Children = append(parent.Children, node)
			continue
		}
		parent.Children = append(parent.Children, &types.TreeNode{
			Path:      entry.Path,
			Name:      entry.Name,
			Type:      types.NodeTypeFile,
			Size:      utils.FormatFileSize(entry.SizeBytes),
			SizeBytes: entry.SizeBytes,
		})
	}
	aggregateDirectorySizes(root)
	return root
}

func parentPath(entryPath string) string {
	separatorIndex := strings.LastIndex(entryPath, pathSegmentSeparator)
	if separatorIndex < 0 {
		return ""
	}
	return entryPath[:separatorIndex]
}

func ensureDirectory(directories map[string]*types.TreeNode, root *types.TreeNode, directoryPath string) *types.TreeNode {
	if directoryPath == "" {
		return root
	}
	if node, exists := directories[directoryPath]; exists {
		return node
	}
	parent := ensureDirectory(directories, root, parentPath(directoryPath))
	segments := strings.Split(directoryPath, pathSegmentSeparator)
	node := &types.TreeNode{
		Path: directoryPath,
		Name: segments[len(segments)-1],
		Type: types.NodeTypeDirectory,
	}
	directories[directoryPath] = node
	parent.Children = append(parent.Children, node)
	return node
}

func aggregateDirectorySizes(node *types.TreeNode) int64 {
	if node == nil {
		return 0
	}
	if node.Type == types.NodeTypeFile {
		return node.SizeBytes
	}
	var total int64
	for _, child := range node.Children {
		total += aggregateDirectorySizes(child)
	}
	node.SizeBytes = total
	node.Size = utils.FormatFileSize(total)
	return total
}
