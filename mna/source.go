package mna

import (
	"math"

	"github.com/groupsky/game-4-sub001/element"
	"github.com/groupsky/game-4-sub001/types"
)

// Chain 首尾相接的串联电池
type Chain struct {
	Elements   []int     // 网表元件序号,沿链方向
	Polarity   []float64 // 各电池沿链方向的极性
	Direction  float64   // 整条链的方向 ±1
	EMF        float64   // 电动势之和,断路为 0
	Resistance float64   // 内阻之和
	Open       bool      // 含耗尽电池,整条链断路
}

// terminal 元件端子
type terminal struct {
	elem int
	side int
}

// neighbor 经 side 侧节点相接的另一节电池
//
// 节点上恰好只有两个端子且都属于电池时才算串联。
func (s *Solver) neighbor(i, side int) (j, jside int, ok bool) {
	node := s.netlist.Elements[i].Nodes[side]
	terms := s.terminals[node]
	if len(terms) != 2 {
		return 0, 0, false
	}
	other := terms[0]
	if other == (terminal{i, side}) {
		other = terms[1]
	}
	if other.elem == i || s.component(other.elem).Kind != types.KindBattery {
		return 0, 0, false
	}
	return other.elem, other.side, true
}

// buildChains 把电池划分为串联链
func (s *Solver) buildChains() {
	visited := make([]bool, len(s.netlist.Elements))
	for i := range s.netlist.Elements {
		if visited[i] || s.component(i).Kind != types.KindBattery {
			continue
		}
		s.chains = append(s.chains, s.walkChain(i, visited))
	}
}

// walkChain 先向 0 侧找到链端,再顺链走一遍;从 0 侧进入的电池正极朝前
func (s *Solver) walkChain(e int, visited []bool) Chain {
	limit := len(s.netlist.Elements)
	start, in := e, 0
	for range limit {
		j, js, ok := s.neighbor(start, in)
		if !ok {
			break
		}
		if j == e {
			start, in = e, 0
			break
		}
		start, in = j, 1-js
	}
	chain := Chain{Direction: 1}
	cur, cin := start, in
	for range limit {
		visited[cur] = true
		p := 1.0
		if cin == 1 {
			p = -1
		}
		chain.Elements = append(chain.Elements, cur)
		chain.Polarity = append(chain.Polarity, p)
		j, js, ok := s.neighbor(cur, 1-cin)
		if !ok || visited[j] {
			break
		}
		cur, cin = j, js
	}
	s.measureChain(&chain)
	return chain
}

// measureChain 按当前电量计算电动势与内阻
func (s *Solver) measureChain(chain *Chain) {
	chain.EMF, chain.Resistance, chain.Open = 0, 0, false
	for _, i := range chain.Elements {
		c := s.component(i)
		if c.Charge <= 0 {
			chain.Open = true
		}
		chain.EMF += c.Voltage
		chain.Resistance += element.InternalResistance(c, s.cfg)
	}
	if chain.Open {
		chain.EMF = 0
	}
}

// Chains 本拍的电池链
func (s *Solver) Chains() []Chain { return s.chains }

// applyChains 链方向写入各电池极性
func (s *Solver) applyChains() {
	for _, chain := range s.chains {
		for k, i := range chain.Elements {
			s.states[i].Polarity = chain.Direction * chain.Polarity[k]
		}
	}
}

// Orient 确定电池链方向与电容极性,每拍一次
//
// 探测模型中电容只计引线电阻, LED 截止。链 0 固定,其余链逐条尝试翻转,
// 负载功率严格增大才保留,使并联链相互助力而不是对冲。
func (s *Solver) Orient() {
	for i := range s.states {
		switch s.component(i).Kind {
		case types.KindCapacitor:
			s.states[i].Polarity = 0
			s.states[i].Full = false
		case types.KindLed:
			s.states[i].Direction = 0
		case types.KindBattery, types.KindResistor, types.KindLightBulb, types.KindUnknown:
		}
	}
	for k := range s.chains {
		s.chains[k].Direction = 1
	}
	s.applyChains()
	models := s.models()
	sys, idx := s.assemble(models)
	probe := func() float64 {
		for i := range s.netlist.Elements {
			models[i] = element.Stamp(s.component(i), s.states[i], s.cfg)
		}
		s.restamp(sys, idx, models)
		if err := sys.Solve(); err != nil {
			return math.Inf(-1)
		}
		s.collect(sys, idx, models)
		return s.loadPower(models)
	}
	best := probe()
	live := make([]int, 0, len(s.chains))
	for k, chain := range s.chains {
		if !chain.Open {
			live = append(live, k)
		}
	}
	if len(live) > 1 {
		for range s.cfg.Solver.OrientationPasses {
			improved := false
			for _, k := range live[1:] {
				s.chains[k].Direction = -s.chains[k].Direction
				s.applyChains()
				if p := probe(); p > best+1e-12*math.Max(1, best) {
					best, improved = p, true
					continue
				}
				s.chains[k].Direction = -s.chains[k].Direction
				s.applyChains()
			}
			if !improved {
				break
			}
		}
		probe()
	}
	for i, e := range s.netlist.Elements {
		if s.component(i).Kind != types.KindCapacitor {
			continue
		}
		if s.voltages[e.Nodes[1]] >= s.voltages[e.Nodes[0]] {
			s.states[i].Polarity = 1
		} else {
			s.states[i].Polarity = -1
		}
	}
}

// loadPower 非电池元件电阻上的功率
func (s *Solver) loadPower(models []element.Model) float64 {
	p := 0.0
	for i := range s.netlist.Elements {
		if s.component(i).Kind == types.KindBattery || models[i].Open {
			continue
		}
		p += s.currents[i] * s.currents[i] * models[i].Resistance
	}
	return p
}
