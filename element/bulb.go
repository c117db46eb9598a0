package element

import (
	"math"

	"github.com/groupsky/game-4-sub001/config"
	"github.com/groupsky/game-4-sub001/types"
)

// BulbBrightness 亮度曲线 1 - exp(-sqrt(P/Prated))
func BulbBrightness(power float64, cfg config.Config) float64 {
	if !(power > 0) {
		return 0
	}
	return clamp(-math.Expm1(-math.Sqrt(power/cfg.Bulb.RatedPower)), 0, 1)
}

func bulbRespond(c *types.Component, current float64, cfg config.Config) {
	c.Current = current
	c.Power = current * current * resistance(c.Resistance, cfg)
	c.Brightness = BulbBrightness(c.Power, cfg)
}
