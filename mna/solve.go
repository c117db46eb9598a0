package mna

import (
	"cmp"
	"math"
	"slices"

	"github.com/groupsky/game-4-sub001/config"
	"github.com/groupsky/game-4-sub001/element"
	"github.com/groupsky/game-4-sub001/graph"
	"github.com/groupsky/game-4-sub001/types"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Solver 孤岛求解器
//
// components 为工作快照,Respond 与 Integrate 直接写入其中的元件记录。
type Solver struct {
	cfg        config.Config
	components []types.Component
	netlist    graph.Netlist
	states     []element.State // 与 netlist.Elements 同序
	chains     []Chain
	terminals  [][]terminal // 节点 -> 端子

	voltages   []float64 // 节点电压
	currents   []float64 // 元件 a→b 电流
	over       []bool    // 元件过流
	limited    bool      // 本次解被限流
	degenerate bool      // 本次解不可用,已清零
}

// NewSolver 创建孤岛求解器
func NewSolver(cfg config.Config, components []types.Component, netlist graph.Netlist) *Solver {
	s := &Solver{
		cfg:        cfg,
		components: components,
		netlist:    netlist,
		states:     make([]element.State, len(netlist.Elements)),
		terminals:  make([][]terminal, netlist.NumNodes),
		voltages:   make([]float64, netlist.NumNodes),
		currents:   make([]float64, len(netlist.Elements)),
		over:       make([]bool, len(netlist.Elements)),
	}
	for i, e := range netlist.Elements {
		for side, node := range e.Nodes {
			s.terminals[node] = append(s.terminals[node], terminal{elem: i, side: side})
		}
	}
	s.buildChains()
	return s
}

// component 网表元件对应的元件记录
func (s *Solver) component(i int) *types.Component {
	return &s.components[s.netlist.Elements[i].Index]
}

// SubSteps 本拍子步数:不超过最大步长,也不超过最小时间常数
func (s *Solver) SubSteps(dt float64) int {
	if !(dt > 0) {
		return 1
	}
	n := math.Ceil(dt/s.cfg.Solver.MaxStep - 1e-9)
	for i := range s.netlist.Elements {
		if tau := element.TimeConstant(s.component(i), s.cfg); tau > 0 {
			n = math.Max(n, math.Ceil(dt/tau-1e-9))
		}
	}
	return int(min(max(n, 1), float64(s.cfg.Solver.MaxSubSteps)))
}

// models 当前状态下各元件模型
func (s *Solver) models() []element.Model {
	models := make([]element.Model, len(s.netlist.Elements))
	for i := range s.netlist.Elements {
		models[i] = element.Stamp(s.component(i), s.states[i], s.cfg)
	}
	return models
}

// reference 导电元件连通的每组节点取最小节点为参考点,其余节点编号为未知量
func (s *Solver) reference(models []element.Model) ([]int, int) {
	g := simple.NewUndirectedGraph()
	for node := range s.netlist.NumNodes {
		g.AddNode(simple.Node(node))
	}
	for i, e := range s.netlist.Elements {
		if models[i].Open || e.Nodes[0] == e.Nodes[1] {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(e.Nodes[0]), T: simple.Node(e.Nodes[1])})
	}
	ground := make([]bool, s.netlist.NumNodes)
	for _, cc := range topo.ConnectedComponents(g) {
		ref := slices.MinFunc(cc, func(a, b gonum.Node) int { return cmp.Compare(a.ID(), b.ID()) })
		ground[ref.ID()] = true
	}
	idx := make([]int, s.netlist.NumNodes)
	n := 0
	for node := range idx {
		if ground[node] {
			idx[node] = Gnd
			continue
		}
		idx[node] = n
		n++
	}
	return idx, n
}

// assemble 建立方程并加盖所有模型
func (s *Solver) assemble(models []element.Model) (*System, []int) {
	idx, n := s.reference(models)
	sys := NewSystem(n)
	for i, e := range s.netlist.Elements {
		sys.StampModel(idx[e.Nodes[0]], idx[e.Nodes[1]], models[i])
	}
	return sys, idx
}

// restamp 电导不变,只重写右端项
func (s *Solver) restamp(sys *System, idx []int, models []element.Model) {
	sys.ZeroRightSide()
	for i, e := range s.netlist.Elements {
		sys.StampSource(idx[e.Nodes[0]], idx[e.Nodes[1]], models[i])
	}
}

// collect 读取节点电压并计算元件电流
func (s *Solver) collect(sys *System, idx []int, models []element.Model) {
	for node := range s.voltages {
		s.voltages[node] = sys.Voltage(idx[node])
	}
	for i, e := range s.netlist.Elements {
		s.currents[i] = models[i].Current(s.voltages[e.Nodes[0]], s.voltages[e.Nodes[1]])
	}
}

// Solve 求解本子步的电流
//
// LED 全部从截止开始、电容全部接入,按解的结果切换 LED 导通状态并断开
// 已充满仍被充电的电容,直到不再变化或达到迭代上限。
// 解出非有限值时整个孤岛清零;最大电流超过上限时整体按比例缩小并标记过流元件。
func (s *Solver) Solve() {
	for i := range s.states {
		if s.component(i).Kind == types.KindLed {
			s.states[i].Direction = 0
		}
		s.states[i].Full = false
	}
	s.limited, s.degenerate = false, false
	clear(s.over)
	for iter := 0; ; iter++ {
		models := s.models()
		sys, idx := s.assemble(models)
		if err := sys.Solve(); err != nil {
			s.zero()
			return
		}
		s.collect(sys, idx, models)
		if iter+1 >= s.cfg.Solver.MaxIterations {
			break
		}
		changed := false
		for i, e := range s.netlist.Elements {
			c := s.component(i)
			if c.Kind == types.KindLed {
				va, vb := s.voltages[e.Nodes[0]], s.voltages[e.Nodes[1]]
				if element.LedUpdate(&s.states[i], va, vb, s.currents[i], s.cfg) {
					changed = true
				}
			} else if c.Kind == types.KindCapacitor && element.CapacitorUpdate(c, &s.states[i], s.currents[i]) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	s.limit()
}

// limit 处理非有限值与过流
func (s *Solver) limit() {
	peak := 0.0
	for _, v := range s.voltages {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.zero()
			return
		}
	}
	for _, i := range s.currents {
		if math.IsNaN(i) || math.IsInf(i, 0) {
			s.zero()
			return
		}
		peak = math.Max(peak, math.Abs(i))
	}
	if peak <= s.cfg.Solver.MaxCurrent {
		return
	}
	scale := s.cfg.Solver.MaxCurrent / peak
	for i := range s.currents {
		s.over[i] = math.Abs(s.currents[i]) > s.cfg.Solver.MaxCurrent
		s.currents[i] *= scale
	}
	for node := range s.voltages {
		s.voltages[node] *= scale
	}
	s.limited = true
}

func (s *Solver) zero() {
	clear(s.voltages)
	clear(s.currents)
	s.degenerate = true
}

// Respond 写出各元件输出字段
func (s *Solver) Respond() {
	for i := range s.netlist.Elements {
		c := s.component(i)
		element.Respond(c, s.states[i], s.currents[i], s.cfg)
		c.OverCurrent = s.over[i]
	}
}

// Integrate 推进 h 秒
func (s *Solver) Integrate(h float64) {
	for i := range s.netlist.Elements {
		element.Integrate(s.component(i), s.states[i], s.currents[i], h, s.cfg)
	}
}

// Run 定向后按子步求解、映射、积分,返回最后一次解的报告
func (s *Solver) Run(dt float64) Report {
	s.Orient()
	n := s.SubSteps(dt)
	h := 0.0
	if dt > 0 && !math.IsInf(dt, 0) {
		h = dt / float64(n)
	}
	var report Report
	for k := range n {
		s.Solve()
		s.Respond()
		if k == n-1 {
			report = s.Report()
		}
		s.Integrate(h)
	}
	return report
}
