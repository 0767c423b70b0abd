package datastructure

// BagEntry one unused edge end pointing at the neighbor node.
type BagEntry struct {
	To     int32
	EdgeID int32
}

// AdjacencyIndex mutable multigraph view for circuit building. Every edge
// contributes Multiplicity entries to both endpoint bags, so the entry count
// u -> v always equals the unconsumed edge ends between u and v.
type AdjacencyIndex struct {
	bags [][]BagEntry
}

func NewAdjacencyIndex(g *StreetGraph) *AdjacencyIndex {
	bags := make([][]BagEntry, g.NumNodes())
	for _, e := range g.Edges {
		for m := 0; m < e.Multiplicity; m++ {
			bags[e.From] = append(bags[e.From], BagEntry{To: e.To, EdgeID: e.ID})
			bags[e.To] = append(bags[e.To], BagEntry{To: e.From, EdgeID: e.ID})
		}
	}
	return &AdjacencyIndex{bags: bags}
}

// Degree unconsumed edge ends at u.
func (a *AdjacencyIndex) Degree(u int32) int {
	return len(a.bags[u])
}

func (a *AdjacencyIndex) Entries(u int32) []BagEntry {
	return a.bags[u]
}

func (a *AdjacencyIndex) NumNodes() int {
	return len(a.bags)
}

// Take consume entry i of bag u plus its reverse entry in the neighbor bag.
// Both removals are O(1) swap and pop, the reverse lookup scans from the back.
func (a *AdjacencyIndex) Take(u int32, i int) BagEntry {
	entry := a.bags[u][i]
	a.removeAt(u, i)

	v := entry.To
	for j := len(a.bags[v]) - 1; j >= 0; j-- {
		if a.bags[v][j].To == u && a.bags[v][j].EdgeID == entry.EdgeID {
			a.removeAt(v, j)
			break
		}
	}
	return entry
}

func (a *AdjacencyIndex) removeAt(u int32, i int) {
	last := len(a.bags[u]) - 1
	a.bags[u][i] = a.bags[u][last]
	a.bags[u] = a.bags[u][:last]
}
