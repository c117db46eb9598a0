package element

import (
	"github.com/groupsky/game-4-sub001/config"
	"github.com/groupsky/game-4-sub001/types"
)

// resistorRespond 电流保留方向,功率取模
func resistorRespond(c *types.Component, current float64, cfg config.Config) {
	c.Current = current
	c.Power = current * current * resistance(c.Resistance, cfg)
	c.Hot = c.Power > cfg.Resistor.HotPower
	c.Brightness = 0
}
