package types

import (
	"math"
	"slices"

	"github.com/google/uuid"
)

// Point 画布位置,仅供渲染与编辑使用
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Component 元件记录
//
// 按 Kind 区分字段含义:
//
//	Battery:   Voltage 铭牌电动势, Charge 剩余电量 [0,1], Current 放电电流
//	Resistor:  Resistance, Current 有符号电流, Power 发热功率, Hot 过热
//	Capacitor: Capacitance, Voltage 储存电压 [0,MaxVoltage], MaxVoltage, Current 充电电流
//	Led:       Brightness [0,1], Current
//	LightBulb: Resistance, Brightness [0,1], Current, Power
//
// 所有暂态数据都保存在记录内,引擎本身不持有状态。
type Component struct {
	ID          string  `json:"id" yaml:"id"`
	Kind        Kind    `json:"type" yaml:"type"`
	Position    Point   `json:"position" yaml:"position"`
	Voltage     float64 `json:"voltage,omitempty" yaml:"voltage,omitempty"`
	Charge      float64 `json:"charge,omitempty" yaml:"charge,omitempty"`
	Resistance  float64 `json:"resistance,omitempty" yaml:"resistance,omitempty"`
	Capacitance float64 `json:"capacitance,omitempty" yaml:"capacitance,omitempty"`
	MaxVoltage  float64 `json:"maxVoltage,omitempty" yaml:"maxVoltage,omitempty"`
	Current     float64 `json:"current" yaml:"current"`
	Brightness  float64 `json:"brightness" yaml:"brightness"`
	Power       float64 `json:"power" yaml:"power"`
	OverCurrent bool    `json:"overCurrent,omitempty" yaml:"overCurrent,omitempty"`
	Hot         bool    `json:"hot,omitempty" yaml:"hot,omitempty"`
}

// NewComponent 按铭牌默认值创建元件, id 为空时生成 uuid
func NewComponent(kind Kind, id string) Component {
	if id == "" {
		id = uuid.NewString()
	}
	c := Component{ID: id, Kind: kind}
	switch kind {
	case KindBattery:
		c.Voltage = DefaultBatteryVoltage
		c.Charge = DefaultBatteryCharge
	case KindResistor:
		c.Resistance = DefaultResistance
	case KindCapacitor:
		c.Capacitance = DefaultCapacitance
		c.MaxVoltage = DefaultMaxVoltage
		c.Voltage = DefaultCapacitorVoltage
	case KindLed:
	case KindLightBulb:
		c.Resistance = DefaultBulbResistance
	}
	return c
}

// NewBattery 电池
func NewBattery(id string) Component { return NewComponent(KindBattery, id) }

// NewResistor 电阻
func NewResistor(id string, resistance float64) Component {
	c := NewComponent(KindResistor, id)
	c.Resistance = resistance
	return c
}

// NewCapacitor 电容
func NewCapacitor(id string, capacitance float64) Component {
	c := NewComponent(KindCapacitor, id)
	c.Capacitance = capacitance
	return c
}

// NewLed 发光二极管
func NewLed(id string) Component { return NewComponent(KindLed, id) }

// NewLightBulb 灯泡
func NewLightBulb(id string) Component { return NewComponent(KindLightBulb, id) }

// Sanitize 修正缺失或非法字段,保证后续计算不出现 NaN/Inf
func (c *Component) Sanitize() {
	switch c.Kind {
	case KindBattery:
		if !positive(c.Voltage) {
			c.Voltage = DefaultBatteryVoltage
		}
		c.Charge = clamp(finite(c.Charge), 0, 1)
	case KindResistor:
		if !nonNegative(c.Resistance) {
			c.Resistance = DefaultResistance
		}
	case KindCapacitor:
		if !positive(c.Capacitance) {
			c.Capacitance = FallbackCapacitance
		}
		if !positive(c.MaxVoltage) {
			c.MaxVoltage = DefaultMaxVoltage
		}
		c.Voltage = clamp(finite(c.Voltage), 0, c.MaxVoltage)
	case KindLed:
	case KindLightBulb:
		if !nonNegative(c.Resistance) {
			c.Resistance = DefaultBulbResistance
		}
	}
	c.Current = finite(c.Current)
	c.Brightness = clamp(finite(c.Brightness), 0, 1)
	c.Power = finite(c.Power)
}

// ClearOutputs 清空每拍重新推导的输出字段
func (c *Component) ClearOutputs() {
	c.Current = 0
	c.Brightness = 0
	c.Power = 0
	c.OverCurrent = false
	c.Hot = false
}

// Reset 恢复到创建时的暂态,保留 ID、类型、铭牌与位置
func (c *Component) Reset() {
	c.ClearOutputs()
	switch c.Kind {
	case KindBattery:
		c.Charge = DefaultBatteryCharge
	case KindCapacitor:
		c.Voltage = DefaultCapacitorVoltage
	case KindResistor, KindLed, KindLightBulb:
	}
}

// ChargePercent 显示用电量百分比
func (c *Component) ChargePercent() int {
	if c.Kind != KindBattery {
		return 0
	}
	return int(math.Round(clamp(finite(c.Charge), 0, 1) * 100))
}

// Clone 深拷贝元件列表
func Clone(list []Component) []Component {
	if list == nil {
		return nil
	}
	return slices.Clone(list)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

func nonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 0) }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
