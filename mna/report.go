package mna

import (
	"fmt"
	"math"

	"github.com/groupsky/game-4-sub001/element"
	"github.com/groupsky/game-4-sub001/types"
)

// Report 孤岛求解摘要
type Report struct {
	Members       []string `json:"members" yaml:"members"`
	Chains        int      `json:"chains" yaml:"chains"`
	SourceVoltage float64  `json:"sourceVoltage" yaml:"sourceVoltage"` // 驱动电压
	NetVoltage    float64  `json:"netVoltage" yaml:"netVoltage"`       // 扣除反向电压后落在负载电阻上的电压
	Resistance    float64  `json:"resistance" yaml:"resistance"`       // 负载等效电阻
	Current       float64  `json:"current" yaml:"current"`             // 电源输出总电流
	OverCurrent   bool     `json:"overCurrent" yaml:"overCurrent"`
	Degenerate    bool     `json:"degenerate" yaml:"degenerate"`
	NoSource      bool     `json:"noSource" yaml:"noSource"`
	Open          bool     `json:"open" yaml:"open"` // 无回路
}

// String 调试输出
func (r Report) String() string {
	switch {
	case r.NoSource:
		return fmt.Sprintf("孤岛%v: 无电源", r.Members)
	case r.Open:
		return fmt.Sprintf("孤岛%v: 无回路", r.Members)
	}
	return fmt.Sprintf("孤岛%v: 电源:%+.6f 净电压:%+.6f 电阻:%.6f 电流:%.6f 过流:%t",
		r.Members, r.SourceVoltage, r.NetVoltage, r.Resistance, r.Current, r.OverCurrent)
}

// Inert 不参与求解的孤岛
func Inert(components []types.Component, members []int, noSource, open bool) Report {
	return Report{Members: memberIDs(components, members), NoSource: noSource, Open: open}
}

// Report 按最后一次解汇总
//
// 有电池链时电源为电池,驱动电压取各链的 Millman 平均;否则电源为已充电的电容,驱动电压取最大电容电压。
func (s *Solver) Report() Report {
	members := make([]int, len(s.netlist.Elements))
	for i, e := range s.netlist.Elements {
		members[i] = e.Index
	}
	report := Report{
		Members:     memberIDs(s.components, members),
		Chains:      len(s.chains),
		OverCurrent: s.limited,
		Degenerate:  s.degenerate,
	}
	batteries := false
	num, den := 0.0, 0.0
	for k := range s.chains {
		chain := &s.chains[k]
		s.measureChain(chain)
		if chain.Open {
			continue
		}
		batteries = true
		num += chain.EMF / chain.Resistance
		den += 1 / chain.Resistance
		if d := s.component(chain.Elements[0]).Current; d > 0 {
			report.Current += d
		}
	}
	if den > 0 {
		report.SourceVoltage = num / den
	}
	power := 0.0
	for i := range s.netlist.Elements {
		c := s.component(i)
		source := c.Kind == types.KindBattery
		if !batteries && c.Kind == types.KindCapacitor {
			source = true
			report.SourceVoltage = math.Max(report.SourceVoltage, c.Voltage)
			if d := -c.Current; d > 0 {
				report.Current += d
			}
		}
		if source {
			continue
		}
		m := element.Stamp(c, s.states[i], s.cfg)
		if !m.Open {
			power += s.currents[i] * s.currents[i] * m.Resistance
		}
	}
	if report.Current > 0 {
		report.Resistance = power / (report.Current * report.Current)
		report.NetVoltage = power / report.Current
	}
	return report
}

func memberIDs(components []types.Component, members []int) []string {
	ids := make([]string, len(members))
	for i, c := range members {
		ids[i] = components[c].ID
	}
	return ids
}
