package element

import (
	"math"

	"github.com/groupsky/game-4-sub001/config"
	"github.com/groupsky/game-4-sub001/types"
)

func ledModel(st State, cfg config.Config) Model {
	if st.Direction == 0 {
		return Model{Resistance: cfg.Led.OffResistance}
	}
	return Model{EMF: -st.Direction * cfg.Led.ForwardVoltage, Resistance: cfg.Led.Resistance}
}

// LedUpdate 按本次解更新导通状态,返回是否变化
//
// 截止时两端电压超过正向压降则按电压方向导通;导通时电流反向或为零则截止。
func LedUpdate(st *State, va, vb, current float64, cfg config.Config) bool {
	if st.Direction == 0 {
		drop := va - vb
		if math.Abs(drop) <= cfg.Led.ForwardVoltage {
			return false
		}
		st.Direction = math.Copysign(1, drop)
		return true
	}
	if st.Direction*current <= 0 {
		st.Direction = 0
		return true
	}
	return false
}

// LedBrightness 亮度曲线 1 - exp(-|I|/I0)
func LedBrightness(current float64, cfg config.Config) float64 {
	return clamp(-math.Expm1(-math.Abs(current)/cfg.Led.Current), 0, 1)
}

func ledRespond(c *types.Component, st State, current float64, cfg config.Config) {
	if st.Direction == 0 || st.Direction*current <= 0 {
		c.Current, c.Power, c.Brightness = 0, 0, 0
		return
	}
	c.Current = current
	i := math.Abs(current)
	c.Power = i*cfg.Led.ForwardVoltage + i*i*cfg.Led.Resistance
	c.Brightness = LedBrightness(current, cfg)
}
