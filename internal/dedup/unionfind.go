package dedup

// unionFind is a disjoint-set structure over candidate indices.
// Connected components form duplicate clusters; the resulting
// partition does not depend on the order unions are applied.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}

	for i := range uf.parent {
		uf.parent[i] = i
	}

	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}

	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}

	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}

	uf.parent[rb] = ra

	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// groups returns the components as index lists. Each group is sorted
// ascending and groups are ordered by their smallest member, so the
// output is canonical regardless of union order.
func (uf *unionFind) groups() [][]int {
	byRoot := make(map[int][]int)

	for i := range uf.parent {
		root := uf.find(i)
		byRoot[root] = append(byRoot[root], i)
	}

	groups := make([][]int, 0, len(byRoot))

	for i := range uf.parent {
		if members, ok := byRoot[uf.find(i)]; ok && members[0] == i {
			groups = append(groups, members)
		}
	}

	return groups
}
