// Package element 元件模型:戴维南等效、响应映射与状态积分
package element

import (
	"math"

	"github.com/groupsky/game-4-sub001/config"
	"github.com/groupsky/game-4-sub001/types"
)

// Model 元件本拍的戴维南等效
//
// 元件位于 0 侧节点 a 与 1 侧节点 b 之间, I 为元件内部 a→b 电流:
//
//	V(b) - V(a) = EMF - I·Resistance
type Model struct {
	EMF        float64
	Resistance float64
	Open       bool // 断开,不导电
}

// Current 由两端电压求 a→b 电流
func (m Model) Current(va, vb float64) float64 {
	if m.Open || m.Resistance <= 0 {
		return 0
	}
	return (m.EMF + va - vb) / m.Resistance
}

// State 求解过程中的元件状态
type State struct {
	Polarity  float64 // 电池/电容正极方向 +1: 正极在 1 侧, -1: 正极在 0 侧, 0: 探测时电容不计电动势
	Direction float64 // LED 导通方向 +1: a→b, -1: b→a, 0: 截止
	Full      bool    // 电容已充满仍被充电,本次解断开
}

// Stamp 元件等效模型
func Stamp(c *types.Component, st State, cfg config.Config) Model {
	switch c.Kind {
	case types.KindBattery:
		return batteryModel(c, st, cfg)
	case types.KindResistor:
		return Model{Resistance: resistance(c.Resistance, cfg)}
	case types.KindCapacitor:
		return capacitorModel(c, st, cfg)
	case types.KindLed:
		return ledModel(st, cfg)
	case types.KindLightBulb:
		return Model{Resistance: resistance(c.Resistance, cfg)}
	case types.KindUnknown:
	}
	return Model{Open: true}
}

// Respond 由本拍电流写出电流、功率、亮度、过热等输出字段
func Respond(c *types.Component, st State, current float64, cfg config.Config) {
	current = finite(current)
	switch c.Kind {
	case types.KindBattery:
		batteryRespond(c, st, current)
	case types.KindResistor:
		resistorRespond(c, current, cfg)
	case types.KindCapacitor:
		capacitorRespond(c, st, current)
	case types.KindLed:
		ledRespond(c, st, current, cfg)
	case types.KindLightBulb:
		bulbRespond(c, current, cfg)
	case types.KindUnknown:
	}
}

// Integrate 推进 h 秒的暂态(电池电量、电容电压)
func Integrate(c *types.Component, st State, current, h float64, cfg config.Config) {
	if !(h > 0) {
		return
	}
	current = finite(current)
	switch c.Kind {
	case types.KindBattery:
		batteryIntegrate(c, current, h, cfg)
	case types.KindCapacitor:
		capacitorIntegrate(c, st, current, h, cfg)
	case types.KindResistor, types.KindLed, types.KindLightBulb, types.KindUnknown:
	}
}

// TimeConstant 元件时间常数,非储能元件为 0
func TimeConstant(c *types.Component, cfg config.Config) float64 {
	switch c.Kind {
	case types.KindCapacitor:
		return cfg.Capacitor.ESR * c.Capacitance
	case types.KindBattery, types.KindResistor, types.KindLed, types.KindLightBulb, types.KindUnknown:
	}
	return 0
}

// Source 是否能独立驱动电流(有电的电池或已充电的电容)
func Source(c *types.Component) bool {
	switch c.Kind {
	case types.KindBattery:
		return c.Charge > 0
	case types.KindCapacitor:
		return c.Voltage > 0
	case types.KindResistor, types.KindLed, types.KindLightBulb, types.KindUnknown:
	}
	return false
}

func resistance(r float64, cfg config.Config) float64 {
	return math.Max(r, cfg.Resistor.MinResistance)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
