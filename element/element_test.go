package element

import (
	"math"
	"testing"

	"github.com/groupsky/game-4-sub001/config"
	"github.com/groupsky/game-4-sub001/types"
	"github.com/stretchr/testify/assert"
)

func TestModelCurrent(t *testing.T) {
	m := Model{EMF: 0.9, Resistance: 0.1}
	// 两端短接时电流 E/R
	assert.InDelta(t, 9.0, m.Current(0, 0), 1e-12)
	// V(b)-V(a) = E 时无电流
	assert.InDelta(t, 0.0, m.Current(0, 0.9), 1e-12)
	assert.Zero(t, Model{Open: true, Resistance: 1}.Current(0, 5))
	assert.Zero(t, Model{}.Current(0, 5))
}

func TestStamp(t *testing.T) {
	cfg := config.Default()

	b := types.NewBattery("b")
	assert.Equal(t, Model{EMF: 0.9, Resistance: 0.1}, Stamp(&b, State{Polarity: 1}, cfg))
	assert.Equal(t, Model{EMF: -0.9, Resistance: 0.1}, Stamp(&b, State{Polarity: -1}, cfg))
	b.Charge = 0.5
	assert.InDelta(t, 0.2, Stamp(&b, State{}, cfg).Resistance, 1e-12)
	b.Charge = 0.001
	assert.InDelta(t, 10.0, Stamp(&b, State{}, cfg).Resistance, 1e-9)
	b.Charge = 0
	assert.True(t, Stamp(&b, State{}, cfg).Open)

	r := types.NewResistor("r", 0)
	assert.Equal(t, cfg.Resistor.MinResistance, Stamp(&r, State{}, cfg).Resistance)

	c := types.NewCapacitor("c", 0.01)
	c.Voltage = 2
	assert.Equal(t, Model{EMF: -2, Resistance: 10}, Stamp(&c, State{Polarity: -1}, cfg))
	assert.Equal(t, Model{Resistance: 10}, Stamp(&c, State{}, cfg))
	assert.True(t, Stamp(&c, State{Polarity: 1, Full: true}, cfg).Open)

	led := types.NewLed("led")
	assert.Equal(t, Model{Resistance: 1e6}, Stamp(&led, State{}, cfg))
	assert.Equal(t, Model{EMF: -0.8, Resistance: 20}, Stamp(&led, State{Direction: 1}, cfg))
	assert.Equal(t, Model{EMF: 0.8, Resistance: 20}, Stamp(&led, State{Direction: -1}, cfg))

	u := types.Component{Kind: types.KindUnknown}
	assert.True(t, Stamp(&u, State{}, cfg).Open)
}

func TestSource(t *testing.T) {
	b := types.NewBattery("b")
	assert.True(t, Source(&b))
	b.Charge = 0
	assert.False(t, Source(&b))

	c := types.NewCapacitor("c", 0.1)
	assert.False(t, Source(&c))
	c.Voltage = 0.1
	assert.True(t, Source(&c))

	r := types.NewResistor("r", 10)
	assert.False(t, Source(&r))
}

func TestTimeConstant(t *testing.T) {
	cfg := config.Default()
	c := types.NewCapacitor("c", 0.05)
	assert.InDelta(t, 0.5, TimeConstant(&c, cfg), 1e-12)
	b := types.NewBattery("b")
	assert.Zero(t, TimeConstant(&b, cfg))
}

func TestBatteryRespondIntegrate(t *testing.T) {
	cfg := config.Default()
	b := types.NewBattery("b")

	Respond(&b, State{Polarity: -1}, -2, cfg)
	assert.Equal(t, 2.0, b.Current)
	assert.InDelta(t, 1.8, b.Power, 1e-12)

	Integrate(&b, State{Polarity: -1}, -2, 1.5, cfg)
	assert.InDelta(t, 1-2*1.5/cfg.Battery.Capacity, b.Charge, 1e-12)

	// 反向充电同样消耗电量
	before := b.Charge
	Integrate(&b, State{Polarity: 1}, -3, 1, cfg)
	assert.Less(t, b.Charge, before)

	Integrate(&b, State{Polarity: 1}, 1e9, 1, cfg)
	assert.Zero(t, b.Charge)

	b.Charge = 0.5
	Integrate(&b, State{Polarity: 1}, 1, 0, cfg)
	Integrate(&b, State{Polarity: 1}, 1, math.NaN(), cfg)
	Integrate(&b, State{Polarity: 1}, math.NaN(), 1, cfg)
	assert.Equal(t, 0.5, b.Charge)
}

func TestResistorRespond(t *testing.T) {
	cfg := config.Default()
	r := types.NewResistor("r", 10)
	Respond(&r, State{}, -0.1, cfg)
	assert.Equal(t, -0.1, r.Current)
	assert.InDelta(t, 0.1, r.Power, 1e-12)
	assert.False(t, r.Hot)

	Respond(&r, State{}, 0.2, cfg)
	assert.InDelta(t, 0.4, r.Power, 1e-12)
	assert.True(t, r.Hot)

	Respond(&r, State{}, math.Inf(1), cfg)
	assert.Zero(t, r.Current)
	assert.False(t, r.Hot)
}

func TestCapacitor(t *testing.T) {
	cfg := config.Default()
	c := types.NewCapacitor("c", 0.01)

	// 正极在 1 侧, a→b 电流为负即流入正极板
	assert.Equal(t, 0.2, ChargingCurrent(State{Polarity: 1}, -0.2))
	assert.Equal(t, -0.2, ChargingCurrent(State{Polarity: -1}, -0.2))
	assert.Equal(t, 0.2, ChargingCurrent(State{}, -0.2))

	st := State{Polarity: 1}
	Respond(&c, st, -0.1, cfg)
	assert.Equal(t, 0.1, c.Current)

	// 驱动电压 1V, 恒定电流 0.1A:一个时间常数后到 1-1/e
	Integrate(&c, st, -0.1, 0.1, cfg)
	assert.InDelta(t, 1-math.Exp(-1), c.Voltage, 1e-12)

	// 步长再大也不越过驱动电压
	c.Voltage = 0
	Integrate(&c, st, -0.1, 100, cfg)
	assert.InDelta(t, 1.0, c.Voltage, 1e-12)

	c.Voltage = 4.9
	Integrate(&c, st, -10, 1, cfg)
	assert.Equal(t, c.MaxVoltage, c.Voltage)

	c.Voltage = 0.5
	Integrate(&c, st, 10, 1, cfg)
	assert.Zero(t, c.Voltage)
}

func TestCapacitorUpdate(t *testing.T) {
	c := types.NewCapacitor("c", 0.01)
	c.Voltage = 4.9
	st := State{Polarity: 1}
	// 未充满
	assert.False(t, CapacitorUpdate(&c, &st, -0.1))
	assert.False(t, st.Full)

	c.Voltage = c.MaxVoltage
	// 放电方向不断开
	assert.False(t, CapacitorUpdate(&c, &st, 0.1))
	assert.True(t, CapacitorUpdate(&c, &st, -0.1))
	assert.True(t, st.Full)
	assert.False(t, CapacitorUpdate(&c, &st, -0.1))

	// 断开后积分不改变电压
	Integrate(&c, st, 0, 1, config.Default())
	assert.Equal(t, c.MaxVoltage, c.Voltage)
}

func TestLedUpdate(t *testing.T) {
	cfg := config.Default()

	st := State{}
	assert.False(t, LedUpdate(&st, 0.5, 0, 0, cfg))
	assert.Zero(t, st.Direction)

	assert.False(t, LedUpdate(&st, 0.8, 0, 0, cfg))
	assert.True(t, LedUpdate(&st, 0.9, 0, 0, cfg))
	assert.Equal(t, 1.0, st.Direction)
	assert.False(t, LedUpdate(&st, 0.9, 0, 0.01, cfg))

	assert.True(t, LedUpdate(&st, 0, 0, -0.01, cfg))
	assert.Zero(t, st.Direction)

	assert.True(t, LedUpdate(&st, 0, 1, 0, cfg))
	assert.Equal(t, -1.0, st.Direction)
}

func TestLedRespond(t *testing.T) {
	cfg := config.Default()
	led := types.NewLed("led")

	Respond(&led, State{Direction: 1}, 0.008, cfg)
	assert.InDelta(t, 1-math.Exp(-1), led.Brightness, 1e-12)
	assert.InDelta(t, 0.008*0.8+0.008*0.008*20, led.Power, 1e-12)

	Respond(&led, State{Direction: -1}, -0.004, cfg)
	assert.Equal(t, -0.004, led.Current)
	assert.InDelta(t, 1-math.Exp(-0.5), led.Brightness, 1e-12)

	Respond(&led, State{}, 1e-7, cfg)
	assert.Zero(t, led.Brightness)
	assert.Zero(t, led.Current)

	assert.Zero(t, LedBrightness(0, cfg))
	assert.InDelta(t, 1.0, LedBrightness(10, cfg), 1e-12)
}

func TestBulb(t *testing.T) {
	cfg := config.Default()
	assert.Zero(t, BulbBrightness(0, cfg))
	assert.Zero(t, BulbBrightness(math.NaN(), cfg))
	assert.InDelta(t, 1-math.Exp(-1), BulbBrightness(5.76, cfg), 1e-12)

	bulb := types.NewLightBulb("bulb")
	Respond(&bulb, State{}, -4, cfg)
	assert.Equal(t, -4.0, bulb.Current)
	assert.InDelta(t, 5.76, bulb.Power, 1e-12)
	assert.InDelta(t, 1-math.Exp(-1), bulb.Brightness, 1e-12)

	// 亮度随电流单调增加
	prev := 0.0
	for _, i := range []float64{0.1, 0.5, 1, 2, 4, 8} {
		Respond(&bulb, State{}, i, cfg)
		assert.Greater(t, bulb.Brightness, prev)
		prev = bulb.Brightness
	}
}
