package element

import (
	"math"

	"github.com/groupsky/game-4-sub001/config"
	"github.com/groupsky/game-4-sub001/types"
)

// InternalResistance 电池内阻,随电量下降而升高
func InternalResistance(c *types.Component, cfg config.Config) float64 {
	return cfg.Battery.InternalResistance / math.Max(c.Charge, cfg.Battery.ChargeFloor)
}

// EMF 电池有效电动势,耗尽为 0
func EMF(c *types.Component) float64 {
	if c.Kind != types.KindBattery || c.Charge <= 0 {
		return 0
	}
	return c.Voltage
}

func batteryModel(c *types.Component, st State, cfg config.Config) Model {
	if c.Charge <= 0 {
		return Model{Open: true}
	}
	p := st.Polarity
	if p == 0 {
		p = 1
	}
	return Model{EMF: p * c.Voltage, Resistance: InternalResistance(c, cfg)}
}

// batteryRespond 放电电流为正,被反向充电为负
func batteryRespond(c *types.Component, st State, current float64) {
	p := st.Polarity
	if p == 0 {
		p = 1
	}
	c.Current = p * current
	c.Power = EMF(c) * c.Current
	c.Brightness = 0
}

// batteryIntegrate 库仑计数,不论方向都消耗电量
func batteryIntegrate(c *types.Component, current, h float64, cfg config.Config) {
	c.Charge = math.Max(0, c.Charge-math.Abs(current)*h/cfg.Battery.Capacity)
}
