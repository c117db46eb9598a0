package graph

import (
	"cmp"
	"slices"

	"github.com/groupsky/game-4-sub001/types"
	gg "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Element 二端元件在网表中的位置
type Element struct {
	Index int    // 元件序号
	Nodes [2]int // 0/1 两侧所在节点
}

// Netlist 电气节点网表
type Netlist struct {
	NumNodes int       // 节点数量
	Elements []Element // 元件列表,按元件序号升序
}

// Branch 两个分支点之间的一段串联元件
type Branch struct {
	From     int   // 起点元件序号,无分支点的孤岛为 -1
	To       int   // 终点元件序号,悬空端或无分支点为 -1
	Interior []int // 中间元件序号(沿导线顺序)
	Wires    []int // 经过的导线序号
}

// Island 连通子图
type Island struct {
	Members   []int    // 元件序号,升序
	Junctions []int    // 连接数 >= 3
	Terminals []int    // 连接数 == 1
	Branches  []Branch // 分支点之间的串联段
	Wires     []int    // 导线序号,升序
	Closed    bool     // 存在回路(或两元件单线闭合)
	Netlist   Netlist  // 推导出的节点网表
}

// Graph 拓扑解析结果
type Graph struct {
	Link    *types.WireLink
	Islands []Island

	components []types.Component
	sides      [][2]int // 导线序号 -> 两端所在侧
}

// NewGraph 由元件与导线建立孤岛、分支与节点网表
func NewGraph(components []types.Component, wires []types.Wire) *Graph {
	graph := &Graph{
		Link:       types.NewWireLink(components, wires),
		components: components,
	}
	graph.sides = make([][2]int, len(graph.Link.Wires))
	for c := range components {
		if graph.Link.Member(components, c) {
			graph.assignSides(c)
		}
	}
	for _, members := range graph.islands() {
		graph.Islands = append(graph.Islands, graph.newIsland(members))
	}
	return graph
}

// islands 连通分量,成员升序,孤岛按首个成员排序
func (graph *Graph) islands() [][]int {
	g := simple.NewUndirectedGraph()
	for c := range graph.components {
		if graph.Link.Member(graph.components, c) {
			g.AddNode(simple.Node(c))
		}
	}
	for _, w := range graph.Link.Wires {
		g.SetEdge(simple.Edge{F: simple.Node(w[0]), T: simple.Node(w[1])})
	}
	list := make([][]int, 0)
	for _, cc := range topo.ConnectedComponents(g) {
		members := nodeIDs(cc)
		slices.Sort(members)
		list = append(list, members)
	}
	slices.SortFunc(list, func(a, b []int) int { return cmp.Compare(a[0], b[0]) })
	return list
}

// Side 导线 wire 在元件 c 一端的接线侧
func (graph *Graph) Side(wire, c int) int {
	if graph.Link.Wires[wire][0] == c {
		return graph.sides[wire][0]
	}
	return graph.sides[wire][1]
}

func (graph *Graph) setSide(wire, c, side int) {
	if graph.Link.Wires[wire][0] == c {
		graph.sides[wire][0] = side
		return
	}
	graph.sides[wire][1] = side
}

// branchEnd 从分支点出发的一条走线
type branchEnd struct {
	link     int  // 起点连接序号
	back     int  // 回到起点时的连接序号,否则 -1
	dead     bool // 终止于悬空端
	battery  bool // 相邻元件为电池
	interior int  // 中间元件数量
}

// assignSides 推导元件每条导线接在哪一侧
//
// 单线接 0 侧;两线各占一侧;分支点上,回到自身的走线两端分居两侧,
// 其余走线中选一条主干接 0 侧(优先非悬空、相邻电池、中间元件少、导线在前),其他接 1 侧。
func (graph *Graph) assignSides(c int) {
	links := graph.Link.Links[c]
	switch len(links) {
	case 0:
		return
	case 1:
		graph.setSide(links[0].Wire, c, 0)
		return
	case 2:
		graph.setSide(links[0].Wire, c, 0)
		graph.setSide(links[1].Wire, c, 1)
		return
	}
	ends := make([]branchEnd, len(links))
	for k, l := range links {
		end, endWire, interior, _ := graph.walk(c, l)
		ends[k] = branchEnd{
			link:     k,
			back:     -1,
			dead:     end != c && graph.Link.Degree(end) == 1,
			battery:  graph.components[l.Peer].Kind == types.KindBattery,
			interior: len(interior),
		}
		if end == c {
			ends[k].back = slices.IndexFunc(links, func(o types.Link) bool { return o.Wire == endWire })
		}
	}
	assigned := make([]bool, len(links))
	for _, e := range ends {
		if e.back < 0 || assigned[e.link] || assigned[e.back] {
			continue
		}
		graph.setSide(links[e.link].Wire, c, 0)
		graph.setSide(links[e.back].Wire, c, 1)
		assigned[e.link], assigned[e.back] = true, true
	}
	rest := make([]branchEnd, 0, len(ends))
	for _, e := range ends {
		if !assigned[e.link] {
			rest = append(rest, e)
		}
	}
	if len(rest) == 0 {
		return
	}
	trunk := slices.MinFunc(rest, func(a, b branchEnd) int {
		return cmp.Or(
			compareBool(a.dead, b.dead),
			compareBool(!a.battery, !b.battery),
			cmp.Compare(a.interior, b.interior),
			cmp.Compare(a.link, b.link),
		)
	})
	for _, e := range rest {
		side := 1
		if e.link == trunk.link {
			side = 0
		}
		graph.setSide(links[e.link].Wire, c, side)
	}
}

// walk 沿两线元件前进直到分支点或悬空端
func (graph *Graph) walk(start int, l types.Link) (end, endWire int, interior, wires []int) {
	wire, cur := l.Wire, l.Peer
	wires = []int{wire}
	for steps := 0; steps <= len(graph.components); steps++ {
		links := graph.Link.Links[cur]
		if len(links) != 2 || cur == start {
			break
		}
		interior = append(interior, cur)
		next := links[0]
		if next.Wire == wire {
			next = links[1]
		}
		wire, cur = next.Wire, next.Peer
		wires = append(wires, wire)
	}
	return cur, wire, interior, wires
}

// newIsland 分类并生成网表
func (graph *Graph) newIsland(members []int) Island {
	island := Island{Members: members}
	wireSet := map[int]bool{}
	for _, c := range members {
		switch d := graph.Link.Degree(c); {
		case d >= 3:
			island.Junctions = append(island.Junctions, c)
		case d == 1:
			island.Terminals = append(island.Terminals, c)
		}
		for _, l := range graph.Link.Links[c] {
			wireSet[l.Wire] = true
		}
	}
	for w := range wireSet {
		island.Wires = append(island.Wires, w)
	}
	slices.Sort(island.Wires)
	pair := len(members) == 2 && len(island.Wires) == 1
	island.Closed = len(island.Wires) >= len(members) || pair
	island.Branches = graph.branches(island)
	island.Netlist = graph.netlist(island, pair)
	return island
}

// branches 分支点之间的串联段;无分支点时整个孤岛为一段
func (graph *Graph) branches(island Island) []Branch {
	if len(island.Wires) == 0 {
		return nil
	}
	if len(island.Junctions) == 0 {
		start := island.Members[0]
		if len(island.Terminals) > 0 {
			start = island.Terminals[0]
		}
		end, _, interior, wires := graph.walk(start, graph.Link.Links[start][0])
		interior = append([]int{start}, interior...)
		if end != start {
			interior = append(interior, end)
		}
		return []Branch{{From: -1, To: -1, Interior: interior, Wires: wires}}
	}
	seen := map[int]bool{}
	list := make([]Branch, 0)
	for _, j := range island.Junctions {
		for _, l := range graph.Link.Links[j] {
			if seen[l.Wire] {
				continue
			}
			end, _, interior, wires := graph.walk(j, l)
			for _, w := range wires {
				seen[w] = true
			}
			b := Branch{From: j, To: end, Interior: interior, Wires: wires}
			if graph.Link.Degree(end) < 3 {
				b.To = -1
				if end != j {
					b.Interior = append(b.Interior, end)
				}
			}
			list = append(list, b)
		}
	}
	return list
}

// netlist 按接线侧合并端子得到电气节点
func (graph *Graph) netlist(island Island, pair bool) Netlist {
	g := simple.NewUndirectedGraph()
	for _, c := range island.Members {
		g.AddNode(simple.Node(2 * c))
		g.AddNode(simple.Node(2*c + 1))
	}
	join := func(a, b int64) {
		if a != b {
			g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
		}
	}
	for _, w := range island.Wires {
		a, b := graph.Link.Wires[w][0], graph.Link.Wires[w][1]
		sa, sb := graph.sides[w][0], graph.sides[w][1]
		join(int64(2*a+sa), int64(2*b+sb))
		if pair {
			join(int64(2*a+1-sa), int64(2*b+1-sb))
		}
	}
	group := map[int64]int{}
	for i, cc := range topo.ConnectedComponents(g) {
		for _, n := range cc {
			group[n.ID()] = i
		}
	}
	numbering := map[int]int{}
	node := func(term int64) int {
		gid := group[term]
		if id, ok := numbering[gid]; ok {
			return id
		}
		numbering[gid] = len(numbering)
		return numbering[gid]
	}
	netlist := Netlist{Elements: make([]Element, 0, len(island.Members))}
	for _, c := range island.Members {
		e := Element{Index: c}
		e.Nodes[0] = node(int64(2 * c))
		e.Nodes[1] = node(int64(2*c + 1))
		netlist.Elements = append(netlist.Elements, e)
	}
	netlist.NumNodes = len(numbering)
	return netlist
}

func nodeIDs(nodes []gg.Node) []int {
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = int(n.ID())
	}
	return ids
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
