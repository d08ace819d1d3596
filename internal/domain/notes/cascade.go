package notes

// Descendants returns id together with every folder transitively parented
// under it. Each folder is visited at most once, so cyclic parent links
// terminate.
func Descendants(folders []Folder, id string) map[string]struct{} {
	children := make(map[string][]string, len(folders))
	for _, f := range folders {
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f.ID)
		}
	}

	visited := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, child := range children[cur] {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return visited
}

// IsDescendant reports whether candidate equals ancestor or lies beneath it.
func IsDescendant(folders []Folder, ancestor, candidate string) bool {
	_, ok := Descendants(folders, ancestor)[candidate]
	return ok
}
