// Package load 场景文件:初始元件与导线,以及按步执行的拓扑修改
package load

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/groupsky/game-4-sub001/types"
	"gopkg.in/yaml.v3"
)

// DefaultDT 未指定步长时的每拍时间(s)
const DefaultDT = 0.1

// ComponentSpec 元件描述,未给出的字段取铭牌默认值
type ComponentSpec struct {
	ID          string      `json:"id" yaml:"id"`
	Type        string      `json:"type" yaml:"type"`
	Position    types.Point `json:"position" yaml:"position"`
	Voltage     *float64    `json:"voltage,omitempty" yaml:"voltage,omitempty"`
	Charge      *float64    `json:"charge,omitempty" yaml:"charge,omitempty"`
	Resistance  *float64    `json:"resistance,omitempty" yaml:"resistance,omitempty"`
	Capacitance *float64    `json:"capacitance,omitempty" yaml:"capacitance,omitempty"`
	MaxVoltage  *float64    `json:"maxVoltage,omitempty" yaml:"maxVoltage,omitempty"`
}

// Component 生成元件记录,未知类型保留为 KindUnknown 交给引擎忽略
func (spec ComponentSpec) Component() types.Component {
	kind, err := types.ParseKind(spec.Type)
	if err != nil {
		kind = types.KindUnknown
	}
	c := types.NewComponent(kind, spec.ID)
	c.Position = spec.Position
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Voltage, spec.Voltage)
	set(&c.Charge, spec.Charge)
	set(&c.Resistance, spec.Resistance)
	set(&c.Capacitance, spec.Capacitance)
	set(&c.MaxVoltage, spec.MaxVoltage)
	return c
}

// Step 场景的一步:先修改拓扑,再推进 Ticks 拍
type Step struct {
	Name       string          `json:"name,omitempty" yaml:"name,omitempty"`
	Reset      bool            `json:"reset,omitempty" yaml:"reset,omitempty"`
	Remove     []string        `json:"remove,omitempty" yaml:"remove,omitempty"`         // 移除元件及其导线
	Add        []ComponentSpec `json:"add,omitempty" yaml:"add,omitempty"`               // 新增元件
	Disconnect []string        `json:"disconnect,omitempty" yaml:"disconnect,omitempty"` // 移除导线ID
	Connect    []types.Wire    `json:"connect,omitempty" yaml:"connect,omitempty"`       // 新增导线
	Ticks      int             `json:"ticks" yaml:"ticks"`
	DT         float64         `json:"dt,omitempty" yaml:"dt,omitempty"`
}

// Scenario 场景
type Scenario struct {
	Name       string          `json:"name" yaml:"name"`
	DT         float64         `json:"dt,omitempty" yaml:"dt,omitempty"`
	Components []ComponentSpec `json:"components" yaml:"components"`
	Wires      []types.Wire    `json:"wires" yaml:"wires"`
	Steps      []Step          `json:"steps" yaml:"steps"`
}

// LoadString 加载场景
func LoadString(s string) (*Scenario, error) {
	return LoadScenario(strings.NewReader(s))
}

// LoadFile 从文件加载场景
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开场景文件: %w", err)
	}
	defer f.Close()
	sc, err := LoadScenario(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// LoadScenario 解析 YAML 或 JSON 场景
func LoadScenario(r io.Reader) (*Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取场景: %w", err)
	}
	sc := &Scenario{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("场景为空")
		}
		return nil, fmt.Errorf("解析场景: %w", err)
	}
	if err := sc.normalize(); err != nil {
		return nil, err
	}
	return sc, nil
}

// normalize 补齐默认值并检查
func (sc *Scenario) normalize() error {
	if sc.DT == 0 {
		sc.DT = DefaultDT
	}
	if sc.DT < 0 {
		return fmt.Errorf("场景步长不能为负: %g", sc.DT)
	}
	for i := range sc.Wires {
		if sc.Wires[i].ID == "" {
			sc.Wires[i].ID = uuid.NewString()
		}
	}
	for i := range sc.Steps {
		step := &sc.Steps[i]
		if step.Ticks < 0 {
			return fmt.Errorf("第 %d 步: 拍数不能为负: %d", i+1, step.Ticks)
		}
		if step.DT < 0 {
			return fmt.Errorf("第 %d 步: 步长不能为负: %g", i+1, step.DT)
		}
		if step.DT == 0 {
			step.DT = sc.DT
		}
		for k := range step.Connect {
			if step.Connect[k].ID == "" {
				step.Connect[k].ID = uuid.NewString()
			}
		}
	}
	return nil
}

// Initial 初始快照
func (sc *Scenario) Initial() ([]types.Component, []types.Wire) {
	components := make([]types.Component, len(sc.Components))
	for i, spec := range sc.Components {
		components[i] = spec.Component()
	}
	return components, append([]types.Wire(nil), sc.Wires...)
}

// Apply 在快照上执行一步的拓扑修改,不修改输入
func (step Step) Apply(components []types.Component, wires []types.Wire) ([]types.Component, []types.Wire, error) {
	remove := map[string]bool{}
	for _, id := range step.Remove {
		if !hasComponent(components, id) {
			return nil, nil, fmt.Errorf("移除的元件不存在: %s", id)
		}
		remove[id] = true
	}
	disconnect := map[string]bool{}
	for _, id := range step.Disconnect {
		disconnect[id] = true
	}
	outC := make([]types.Component, 0, len(components)+len(step.Add))
	for _, c := range components {
		if !remove[c.ID] {
			outC = append(outC, c)
		}
	}
	for _, spec := range step.Add {
		if spec.ID != "" && hasComponent(outC, spec.ID) {
			return nil, nil, fmt.Errorf("新增的元件ID重复: %s", spec.ID)
		}
		outC = append(outC, spec.Component())
	}
	outW := make([]types.Wire, 0, len(wires)+len(step.Connect))
	for _, w := range wires {
		if disconnect[w.ID] || remove[w.From] || remove[w.To] {
			continue
		}
		outW = append(outW, w)
	}
	outW = append(outW, step.Connect...)
	return outC, outW, nil
}

func hasComponent(list []types.Component, id string) bool {
	for _, c := range list {
		if c.ID == id {
			return true
		}
	}
	return false
}
