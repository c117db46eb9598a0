package mna

import (
	"math"
	"testing"

	"github.com/groupsky/game-4-sub001/config"
	"github.com/groupsky/game-4-sub001/graph"
	"github.com/groupsky/game-4-sub001/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wire(from, to string) types.Wire {
	return types.Wire{ID: from + "-" + to, From: from, To: to}
}

// newSolver 取第一个孤岛建立求解器
func newSolver(t *testing.T, cfg config.Config, components []types.Component, wires []types.Wire) *Solver {
	t.Helper()
	g := graph.NewGraph(components, wires)
	require.NotEmpty(t, g.Islands)
	return NewSolver(cfg, components, g.Islands[0].Netlist)
}

func byID(list []types.Component, id string) types.Component {
	for _, c := range list {
		if c.ID == id {
			return c
		}
	}
	return types.Component{}
}

func TestSeriesResistor(t *testing.T) {
	components := []types.Component{types.NewBattery("b"), types.NewResistor("r", 100)}
	s := newSolver(t, config.Default(), components, []types.Wire{wire("b", "r"), wire("r", "b")})

	report := s.Run(0.1)
	want := 0.9 / 100.1
	assert.InDelta(t, want, byID(components, "b").Current, 1e-12)
	assert.InDelta(t, want, math.Abs(byID(components, "r").Current), 1e-12)
	assert.InDelta(t, want*want*100, byID(components, "r").Power, 1e-12)

	assert.Equal(t, []string{"b", "r"}, report.Members)
	assert.Equal(t, 1, report.Chains)
	assert.InDelta(t, 0.9, report.SourceVoltage, 1e-12)
	assert.InDelta(t, want, report.Current, 1e-12)
	assert.InDelta(t, 100, report.Resistance, 1e-9)
	assert.InDelta(t, want*100, report.NetVoltage, 1e-9)
	assert.False(t, report.OverCurrent)

	assert.InDelta(t, 1-want*0.1/150, byID(components, "b").Charge, 1e-12)
}

func TestSeriesLed(t *testing.T) {
	cfg := config.Default()
	for n, want := range map[int]float64{1: 0.0988, 2: 0.6465, 3: 0.8611} {
		components := make([]types.Component, 0, n+2)
		wires := make([]types.Wire, 0, n+2)
		prev := ""
		for i := range n {
			id := string(rune('a' + i))
			components = append(components, types.NewBattery(id))
			if prev != "" {
				wires = append(wires, wire(prev, id))
			}
			prev = id
		}
		components = append(components, types.NewResistor("r", 100), types.NewLed("led"))
		wires = append(wires, wire(prev, "r"), wire("r", "led"), wire("led", "a"))

		s := newSolver(t, cfg, components, wires)
		require.Len(t, s.Chains(), 1)
		assert.Len(t, s.Chains()[0].Elements, n)
		s.Run(0.1)

		current := (0.9*float64(n) - 0.8) / (120 + 0.1*float64(n))
		assert.InDelta(t, current, math.Abs(byID(components, "r").Current), 1e-9, "%d 节电池", n)
		assert.InDelta(t, want, byID(components, "led").Brightness, 1e-4, "%d 节电池", n)
	}
}

func TestLedBelowThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.Led.ForwardVoltage = 1.0
	components := []types.Component{types.NewBattery("b"), types.NewResistor("r", 100), types.NewLed("led")}
	s := newSolver(t, cfg, components, []types.Wire{wire("b", "r"), wire("r", "led"), wire("led", "b")})
	s.Run(0.1)
	assert.Zero(t, byID(components, "led").Brightness)
	assert.Zero(t, byID(components, "led").Current)
	assert.Less(t, math.Abs(byID(components, "r").Current), 1e-6)
}

func TestParallelChains(t *testing.T) {
	components := []types.Component{
		types.NewBattery("b1"), types.NewBattery("b2"), types.NewBattery("b3"), types.NewBattery("b4"),
		types.NewLightBulb("bulb"),
	}
	wires := []types.Wire{
		wire("b1", "b2"), wire("b3", "b4"), wire("b1", "b3"), wire("b2", "b4"),
		wire("b1", "bulb"), wire("bulb", "b2"),
	}
	s := newSolver(t, config.Default(), components, wires)
	require.Len(t, s.Chains(), 2)

	report := s.Run(0.1)
	// 两条链方向一致,各分担一半电流
	for _, id := range []string{"b1", "b2", "b3", "b4"} {
		assert.InDelta(t, 1.9565, byID(components, id).Current, 1e-4, id)
	}
	bulb := byID(components, "bulb")
	assert.InDelta(t, 1.8/0.46, math.Abs(bulb.Current), 1e-9)
	assert.InDelta(t, 0.624, bulb.Brightness, 1e-3)

	assert.Equal(t, 2, report.Chains)
	assert.InDelta(t, 1.8, report.SourceVoltage, 1e-12)
	assert.InDelta(t, 1.8/0.46, report.Current, 1e-9)
	assert.InDelta(t, 0.36, report.Resistance, 1e-9)
}

func TestChainOpen(t *testing.T) {
	components := []types.Component{types.NewBattery("b1"), types.NewBattery("b2"), types.NewResistor("r", 10)}
	components[1].Charge = 0
	s := newSolver(t, config.Default(), components, []types.Wire{wire("b1", "b2"), wire("b2", "r"), wire("r", "b1")})

	require.Len(t, s.Chains(), 1)
	chain := s.Chains()[0]
	assert.True(t, chain.Open)
	assert.Zero(t, chain.EMF)

	s.Run(0.1)
	for _, c := range components {
		assert.InDelta(t, 0, c.Current, 1e-9, c.ID)
	}
	assert.InDelta(t, 1.0, components[0].Charge, 1e-12)
}

func TestOverCurrent(t *testing.T) {
	components := []types.Component{types.NewBattery("b1"), types.NewBattery("b2")}
	s := newSolver(t, config.Default(), components, []types.Wire{wire("b1", "b2"), wire("b2", "b1")})

	report := s.Run(0.1)
	assert.True(t, report.OverCurrent)
	for _, c := range components {
		assert.InDelta(t, 8.0, c.Current, 1e-9, c.ID)
		assert.True(t, c.OverCurrent, c.ID)
		assert.InDelta(t, 1-8*0.1/150, c.Charge, 1e-9, c.ID)
	}
}

func TestCurrentLimitScalesIsland(t *testing.T) {
	cfg := config.Default()
	cfg.Solver.MaxCurrent = 0.001
	components := []types.Component{types.NewBattery("b"), types.NewResistor("r", 100), types.NewLightBulb("bulb")}
	s := newSolver(t, cfg, components, []types.Wire{wire("b", "r"), wire("r", "bulb"), wire("bulb", "b")})

	report := s.Run(0.1)
	assert.True(t, report.OverCurrent)
	for _, c := range components {
		assert.InDelta(t, 0.001, math.Abs(c.Current), 1e-12, c.ID)
		assert.True(t, c.OverCurrent, c.ID)
	}
}

func TestCapacitorCharges(t *testing.T) {
	components := []types.Component{
		types.NewBattery("b1"), types.NewBattery("b2"), types.NewBattery("b3"), types.NewCapacitor("c", 0.05),
	}
	wires := []types.Wire{wire("b1", "b2"), wire("b2", "b3"), wire("b3", "c"), wire("c", "b1")}
	prev := 0.0
	for range 20 {
		s := newSolver(t, config.Default(), components, wires)
		s.Run(0.1)
		c := byID(components, "c")
		assert.Greater(t, c.Current, 0.0)
		assert.GreaterOrEqual(t, c.Voltage, prev)
		prev = c.Voltage
	}
	assert.InDelta(t, 2.6437, prev, 1e-3)
}

func TestCapacitorDischarges(t *testing.T) {
	components := []types.Component{types.NewCapacitor("c", 0.05), types.NewLightBulb("bulb")}
	components[0].Voltage = 2.5
	s := newSolver(t, config.Default(), components, []types.Wire{wire("c", "bulb")})

	report := s.Run(0.1)
	assert.Less(t, components[0].Current, 0.0)
	assert.Less(t, components[0].Voltage, 2.5)
	assert.Greater(t, components[1].Brightness, 0.0)

	assert.Zero(t, report.Chains)
	assert.InDelta(t, 2.5, report.SourceVoltage, 1e-12)
	assert.InDelta(t, -components[0].Current, report.Current, 1e-12)
}

func TestCapacitorFull(t *testing.T) {
	components := make([]types.Component, 0, 8)
	wires := make([]types.Wire, 0, 8)
	for i := range 7 {
		id := string(rune('a' + i))
		components = append(components, types.NewBattery(id))
		if i > 0 {
			wires = append(wires, wire(string(rune('a'+i-1)), id))
		}
	}
	components = append(components, types.NewCapacitor("c", 0.01))
	wires = append(wires, wire("g", "c"), wire("c", "a"))

	for range 100 {
		newSolver(t, config.Default(), components, wires).Run(0.1)
	}
	c := byID(components, "c")
	require.Equal(t, c.MaxVoltage, c.Voltage)
	charge := byID(components, "a").Charge

	// 充满后电池不再放电
	for range 50 {
		newSolver(t, config.Default(), components, wires).Run(0.1)
	}
	c = byID(components, "c")
	assert.Equal(t, c.MaxVoltage, c.Voltage)
	assert.InDelta(t, 0, c.Current, 1e-9)
	for _, b := range components[:7] {
		assert.InDelta(t, 0, b.Current, 1e-9, b.ID)
		assert.InDelta(t, charge, b.Charge, 1e-12, b.ID)
	}
}

func TestCapacitorFullDischarges(t *testing.T) {
	components := []types.Component{types.NewCapacitor("c", 0.01), types.NewLightBulb("bulb")}
	components[0].Voltage = components[0].MaxVoltage
	newSolver(t, config.Default(), components, []types.Wire{wire("c", "bulb")}).Run(0.1)
	assert.Less(t, components[0].Current, 0.0)
	assert.Less(t, components[0].Voltage, components[0].MaxVoltage)
}

func TestCapacitorSeriesResistance(t *testing.T) {
	components := []types.Component{types.NewBattery("b"), types.NewResistor("r", 100), types.NewCapacitor("c", 0.01)}
	s := newSolver(t, config.Default(), components, []types.Wire{wire("b", "r"), wire("r", "c"), wire("c", "b")})
	s.Run(0.1)
	// 引线电阻与回路电阻相加
	assert.InDelta(t, 0.9/110.1, byID(components, "c").Current, 1e-9)
}

func TestSubSteps(t *testing.T) {
	cfg := config.Default()
	components := []types.Component{types.NewBattery("b"), types.NewCapacitor("c", 0.01)}
	s := newSolver(t, cfg, components, []types.Wire{wire("b", "c")})
	assert.Equal(t, 1, s.SubSteps(0.1))
	assert.Equal(t, 5, s.SubSteps(0.5))
	assert.Equal(t, 1, s.SubSteps(0))
	assert.Equal(t, 1, s.SubSteps(math.NaN()))

	components[1].Capacitance = 0.0001
	s = newSolver(t, cfg, components, []types.Wire{wire("b", "c")})
	assert.Equal(t, cfg.Solver.MaxSubSteps, s.SubSteps(0.1))
	assert.Equal(t, 10, s.SubSteps(0.01))
}

func TestReportString(t *testing.T) {
	assert.Contains(t, Report{Members: []string{"a"}, NoSource: true}.String(), "无电源")
	assert.Contains(t, Report{Members: []string{"a"}, Open: true}.String(), "无回路")
	assert.Contains(t, Report{Members: []string{"a"}, SourceVoltage: 1.5}.String(), "+1.500000")

	components := []types.Component{types.NewBattery("b"), types.NewResistor("r", 1)}
	r := Inert(components, []int{1, 0}, true, false)
	assert.Equal(t, []string{"r", "b"}, r.Members)
	assert.True(t, r.NoSource)
}
