package backlog

// validateDAG uses Kahn's algorithm for topological sort. When the sort
// comes up short a cycle exists, and findCyclePath names one.
func validateDAG(nodeNames []string, edges map[string][]string) ([]string, []string) {
	if len(nodeNames) == 0 {
		return nil, nil
	}

	nodeSet := make(map[string]bool, len(nodeNames))
	for _, n := range nodeNames {
		nodeSet[n] = true
	}

	// Build in-degree map and forward adjacency (dependency → dependent)
	inDegree := make(map[string]int, len(nodeNames))
	forward := make(map[string][]string)
	for _, n := range nodeNames {
		inDegree[n] = 0
	}

	for node, deps := range edges {
		for _, dep := range deps {
			if !nodeSet[dep] {
				continue // unknown refs are caught by backlog validation
			}
			inDegree[node]++
			forward[dep] = append(forward[dep], node)
		}
	}

	// Kahn's algorithm
	var queue []string
	for _, n := range nodeNames {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	var sorted []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, node)

		for _, dependent := range forward[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) == len(nodeNames) {
		return sorted, nil
	}

	return nil, findCyclePath(nodeNames, edges, inDegree)
}

// findCyclePath reports one concrete cycle among the nodes Kahn could
// not sort. Every such node still has an unresolved dependency that is
// itself unsorted, so walking dependency edges within the residual set
// must revisit a node; the walk from that first repeat is the cycle.
func findCyclePath(nodeNames []string, edges map[string][]string, inDegree map[string]int) []string {
	var start string
	for _, n := range nodeNames {
		if inDegree[n] > 0 {
			start = n
			break
		}
	}
	if start == "" {
		return []string{"(cycle detected)"}
	}

	visitedAt := make(map[string]int)
	var walk []string

	cur := start
	for {
		if at, seen := visitedAt[cur]; seen {
			cycle := append([]string(nil), walk[at:]...)
			cycle = append(cycle, cur)
			// the walk followed "depends on"; report dependency order
			for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
				cycle[i], cycle[j] = cycle[j], cycle[i]
			}
			return cycle
		}
		visitedAt[cur] = len(walk)
		walk = append(walk, cur)

		next := ""
		for _, dep := range edges[cur] {
			if inDegree[dep] > 0 {
				next = dep
				break
			}
		}
		if next == "" {
			return []string{"(cycle detected)"}
		}
		cur = next
	}
}
