package element

import (
	"math"

	"github.com/groupsky/game-4-sub001/config"
	"github.com/groupsky/game-4-sub001/types"
)

func capacitorModel(c *types.Component, st State, cfg config.Config) Model {
	if st.Full {
		return Model{Open: true}
	}
	return Model{EMF: st.Polarity * c.Voltage, Resistance: cfg.Capacitor.ESR}
}

// ChargingCurrent 流入正极板的电流
func ChargingCurrent(st State, current float64) float64 {
	p := st.Polarity
	if p == 0 {
		p = 1
	}
	return -p * current
}

// CapacitorUpdate 电压已到上限且本次解仍在充电时断开,返回是否变化
func CapacitorUpdate(c *types.Component, st *State, current float64) bool {
	if st.Full || c.Voltage < c.MaxVoltage || ChargingCurrent(*st, current) <= 0 {
		return false
	}
	st.Full = true
	return true
}

func capacitorRespond(c *types.Component, st State, current float64) {
	c.Current = ChargingCurrent(st, current)
	c.Power = c.Voltage * c.Current
	c.Brightness = 0
}

// capacitorIntegrate RC 指数弛豫,步长再大也不会越过驱动电压
//
//	V' = V + i·ESR·(1 - exp(-h / (ESR·C)))
func capacitorIntegrate(c *types.Component, st State, current, h float64, cfg config.Config) {
	esr := cfg.Capacitor.ESR
	tau := esr * c.Capacitance
	if !(tau > 0) {
		return
	}
	i := ChargingCurrent(st, current)
	v := c.Voltage + i*esr*(-math.Expm1(-h/tau))
	c.Voltage = clamp(finite(v), 0, c.MaxVoltage)
}
