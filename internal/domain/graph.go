package domain

// Adjacency maps each node id to the ids of its friends. Both orientations
// of every edge are recorded, so the map is symmetric.
func Adjacency(nodes []Node, edges []Edge) map[string][]string {
	adj := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		adj[n.ID] = nil
	}
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}
	return adj
}

// ReachableWithin returns the set of node ids reachable from root in at most
// maxDist hops, including root itself.
func ReachableWithin(adj map[string][]string, root string, maxDist int) map[string]bool {
	visited := map[string]bool{root: true}
	current := []string{root}
	for d := 0; d < maxDist && len(current) > 0; d++ {
		var next []string
		for _, id := range current {
			for _, neigh := range adj[id] {
				if !visited[neigh] {
					visited[neigh] = true
					next = append(next, neigh)
				}
			}
		}
		current = next
	}
	return visited
}

// ShortestPath returns the node ids along a shortest path from start to end,
// inclusive of both endpoints, or nil if no path exists.
func ShortestPath(adj map[string][]string, start, end string) []string {
	if start == end {
		return []string{start}
	}

	prev := map[string]string{start: ""}
	queue := []string{start}
	found := false
	for len(queue) > 0 && !found {
		u := queue[0]
		queue = queue[1:]
		for _, v := range adj[u] {
			if _, seen := prev[v]; seen {
				continue
			}
			prev[v] = u
			if v == end {
				found = true
				break
			}
			queue = append(queue, v)
		}
	}
	if !found {
		return nil
	}

	var path []string
	for cur := end; cur != ""; cur = prev[cur] {
		path = append([]string{cur}, path...)
	}
	return path
}
