package load

import (
	"fmt"

	circuit "github.com/groupsky/game-4-sub001"
	"github.com/groupsky/game-4-sub001/types"
)

// Observer 每拍回调
type Observer func(step, tick int, time float64, components []types.Component)

// Run 在模拟器上执行场景,返回最终快照
func (sc *Scenario) Run(cir *circuit.Circuit, observe Observer) ([]types.Component, error) {
	components, wires := sc.Initial()
	cir.SetComponents(components)
	cir.SetWires(wires)
	for i, step := range sc.Steps {
		if step.Reset {
			cir.Reset()
		}
		components, wires, err := step.Apply(cir.Components(), cir.Wires())
		if err != nil {
			return nil, fmt.Errorf("第 %d 步: %w", i+1, err)
		}
		cir.SetComponents(components)
		cir.SetWires(wires)
		for t := range step.Ticks {
			out := cir.Simulate(step.DT)
			if observe != nil {
				observe(i, t, cir.Time(), out)
			}
		}
	}
	return cir.Components(), nil
}
