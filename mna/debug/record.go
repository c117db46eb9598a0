package debug

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/groupsky/game-4-sub001/graph"
	"github.com/groupsky/game-4-sub001/mna"
	"github.com/groupsky/game-4-sub001/types"
)

// Series 单个元件的历史曲线,与 Record.Time 对齐,出现前的拍补 0
type Series struct {
	ID         string    `json:"id"`
	Kind       string    `json:"type"`
	Current    []float64 `json:"current"`
	Voltage    []float64 `json:"voltage"`
	Brightness []float64 `json:"brightness"`
	Charge     []float64 `json:"charge"`
}

// Record 记录历史状态
type Record struct {
	Time     []float64      `json:"time"`      // 时间列
	Series   []*Series      `json:"series"`    // 元件曲线
	Elements []string       `json:"elements"`  // 最后一拍的元件列表
	Nodes    [][][2]int     `json:"nodes"`     // 最后一拍的节点连接: 节点 -> (元件序号, 侧)
	Branches [][]string     `json:"branches"`  // 最后一拍的串联段,按导线顺序列出元件ID
	Reports  [][]mna.Report `json:"reports"`   // 每拍孤岛摘要
	index    map[string]int // 元件ID -> 曲线序号
}

// NewRecord 创建记录
func NewRecord() *Record {
	return &Record{index: map[string]int{}}
}

// Update 记录一拍
func (list *Record) Update(time float64, components []types.Component, g *graph.Graph, reports []mna.Report) {
	if list.index == nil {
		list.index = map[string]int{}
	}
	n := len(list.Time)
	list.Time = append(list.Time, time)
	list.Reports = append(list.Reports, reports)
	for _, c := range components {
		i, ok := list.index[c.ID]
		if !ok {
			i = len(list.Series)
			list.index[c.ID] = i
			list.Series = append(list.Series, &Series{
				ID:         c.ID,
				Kind:       c.Kind.String(),
				Current:    make([]float64, n),
				Voltage:    make([]float64, n),
				Brightness: make([]float64, n),
				Charge:     make([]float64, n),
			})
		}
		s := list.Series[i]
		s.Current = append(pad(s.Current, n), c.Current)
		s.Voltage = append(pad(s.Voltage, n), c.Voltage)
		s.Brightness = append(pad(s.Brightness, n), c.Brightness)
		s.Charge = append(pad(s.Charge, n), c.Charge)
	}
	list.graph(components, g)
}

// graph 记录节点连接与串联段
func (list *Record) graph(components []types.Component, g *graph.Graph) {
	list.Elements = list.Elements[:0]
	for i, c := range components {
		list.Elements = append(list.Elements, fmt.Sprintf("%s(%d)", c.Kind, i))
	}
	list.Nodes = list.Nodes[:0]
	list.Branches = list.Branches[:0]
	if g == nil {
		return
	}
	for _, island := range g.Islands {
		for _, b := range island.Branches {
			ids := make([]string, 0, len(b.Interior)+2)
			if b.From >= 0 {
				ids = append(ids, components[b.From].ID)
			}
			for _, i := range b.Interior {
				ids = append(ids, components[i].ID)
			}
			if b.To >= 0 {
				ids = append(ids, components[b.To].ID)
			}
			list.Branches = append(list.Branches, ids)
		}
		base := len(list.Nodes)
		for range island.Netlist.NumNodes {
			list.Nodes = append(list.Nodes, nil)
		}
		for _, e := range island.Netlist.Elements {
			for side, node := range e.Nodes {
				list.Nodes[base+node] = append(list.Nodes[base+node], [2]int{e.Index, side})
			}
		}
	}
}

// Len 已记录的拍数
func (list *Record) Len() int { return len(list.Time) }

// Lookup 按元件ID取曲线
func (list *Record) Lookup(id string) (*Series, bool) {
	i, ok := list.index[id]
	if !ok {
		return nil, false
	}
	return list.Series[i], true
}

// Render 格式和输出内容
func (list *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(list) }

// pad 补齐到 n 个点,元件被移除的拍补 0
func pad(values []float64, n int) []float64 {
	for len(values) < n {
		values = append(values, 0)
	}
	return values
}
