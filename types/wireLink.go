package types

// Wire 导线,无方向
type Wire struct {
	ID   string `json:"id" yaml:"id"`
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Link 元件的一条连接
type Link struct {
	Wire int // 有效导线序号
	Peer int // 对端元件序号
}

// WireLink 线路连接索引
type WireLink struct {
	Index   map[string]int // 元件ID -> 元件序号
	Wires   [][2]int       // 有效导线两端元件序号
	WireIDs []string       // 有效导线ID
	Links   [][]Link       // 元件序号 -> 连接列表(按导线顺序)
	Dropped []string       // 丢弃的导线ID
}

// NewWireLink 建立连接索引
//
// 未知类型与重复ID的元件不参与连接;引用不存在元件或自连的导线被丢弃。
func NewWireLink(components []Component, wires []Wire) *WireLink {
	wl := &WireLink{
		Index: make(map[string]int, len(components)),
		Links: make([][]Link, len(components)),
	}
	for i, c := range components {
		if !c.Kind.Known() {
			continue
		}
		if _, ok := wl.Index[c.ID]; ok {
			continue
		}
		wl.Index[c.ID] = i
	}
	for _, w := range wires {
		a, okA := wl.Index[w.From]
		b, okB := wl.Index[w.To]
		if !okA || !okB || a == b {
			wl.Dropped = append(wl.Dropped, w.ID)
			continue
		}
		id := len(wl.Wires)
		wl.Wires = append(wl.Wires, [2]int{a, b})
		wl.WireIDs = append(wl.WireIDs, w.ID)
		wl.Links[a] = append(wl.Links[a], Link{Wire: id, Peer: b})
		wl.Links[b] = append(wl.Links[b], Link{Wire: id, Peer: a})
	}
	return wl
}

// Degree 元件连接数
func (wl *WireLink) Degree(i int) int {
	if i < 0 || i >= len(wl.Links) {
		return 0
	}
	return len(wl.Links[i])
}

// Member 元件是否参与连接
func (wl *WireLink) Member(components []Component, i int) bool {
	if i < 0 || i >= len(components) {
		return false
	}
	j, ok := wl.Index[components[i].ID]
	return ok && j == i
}

// Other 导线另一端
func (wl *WireLink) Other(wire, from int) int {
	w := wl.Wires[wire]
	if w[0] == from {
		return w[1]
	}
	return w[0]
}
