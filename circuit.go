// Package circuit 电路引擎:由元件与导线快照推导电路状态并按拍推进
package circuit

import (
	"log/slog"
	"math"

	"github.com/groupsky/game-4-sub001/config"
	"github.com/groupsky/game-4-sub001/element"
	"github.com/groupsky/game-4-sub001/graph"
	"github.com/groupsky/game-4-sub001/mna"
	"github.com/groupsky/game-4-sub001/types"
)

// Option 创建选项
type Option func(*Circuit)

// WithConfig 引擎常数
func WithConfig(cfg config.Config) Option {
	return func(cir *Circuit) { cir.cfg = cfg }
}

// WithLogger 日志, nil 表示丢弃
func WithLogger(logger *slog.Logger) Option {
	return func(cir *Circuit) {
		if logger != nil {
			cir.logger = logger
		}
	}
}

// WithDebug 每拍记录
func WithDebug(debug mna.Debug) Option {
	return func(cir *Circuit) {
		if debug != nil {
			cir.debug = debug
		}
	}
}

// Circuit 电路模拟器
//
// 暂态全部保存在元件记录中,快照之外不持有任何状态;同一个值不能被并发调用。
type Circuit struct {
	cfg        config.Config
	logger     *slog.Logger
	debug      mna.Debug
	components []types.Component
	wires      []types.Wire
	reports    []mna.Report
	time       float64
}

// New 创建模拟器
func New(opts ...Option) *Circuit {
	cir := &Circuit{
		cfg:    config.Default(),
		logger: slog.New(slog.DiscardHandler),
		debug:  mna.NoDebug{},
	}
	for _, opt := range opts {
		opt(cir)
	}
	return cir
}

// Config 当前常数
func (cir *Circuit) Config() config.Config { return cir.cfg }

// SetComponents 替换元件快照,复制后不再引用调用方的切片
func (cir *Circuit) SetComponents(list []types.Component) {
	cir.components = types.Clone(list)
}

// SetWires 替换导线快照
func (cir *Circuit) SetWires(list []types.Wire) {
	cir.wires = append([]types.Wire(nil), list...)
}

// Components 元件快照副本
func (cir *Circuit) Components() []types.Component { return types.Clone(cir.components) }

// Wires 导线快照副本
func (cir *Circuit) Wires() []types.Wire { return append([]types.Wire(nil), cir.wires...) }

// Islands 上一拍的孤岛摘要
func (cir *Circuit) Islands() []mna.Report { return append([]mna.Report(nil), cir.reports...) }

// Time 累计仿真时间
func (cir *Circuit) Time() float64 { return cir.time }

// Simulate 推进 dt 秒,返回更新后的元件副本
func (cir *Circuit) Simulate(dt float64) []types.Component {
	result := Step(cir.components, cir.wires, dt, cir.cfg, cir.logger)
	cir.components = result.Components
	cir.reports = result.Reports
	cir.time += result.DT
	cir.debug.Update(cir.time, cir.components, result.Graph, result.Reports)
	return types.Clone(cir.components)
}

// Reset 恢复快照内元件的暂态并清零时间
func (cir *Circuit) Reset() []types.Component {
	cir.components = ResetCircuit(cir.components)
	cir.reports = nil
	cir.time = 0
	return types.Clone(cir.components)
}

// ResetCircuit 恢复暂态:电容电压归零,电池充满,输出清零;保留ID、类型、铭牌与位置
func ResetCircuit(list []types.Component) []types.Component {
	out := types.Clone(list)
	for i := range out {
		out[i].Reset()
	}
	return out
}

// Result 一拍的结果
type Result struct {
	Components []types.Component
	Reports    []mna.Report
	Graph      *graph.Graph
	DT         float64 // 实际推进的时间, 非法 dt 记为 0
}

// Step 纯函数形式的一拍:不修改输入,返回新的快照
//
// 未知类型与重复ID的元件原样保留;无电源或无回路的孤岛输出清零;其余孤岛按子步求解并积分。
func Step(components []types.Component, wires []types.Wire, dt float64, cfg config.Config, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		logger.Debug("非法步长按 0 处理", "dt", dt)
		dt = 0
	}
	list := types.Clone(components)
	g := graph.NewGraph(list, wires)
	for i := range list {
		if !g.Link.Member(list, i) {
			logger.Debug("忽略元件", "id", list[i].ID, "type", list[i].Kind.String())
			continue
		}
		list[i].Sanitize()
		list[i].ClearOutputs()
	}
	for _, id := range g.Link.Dropped {
		logger.Debug("丢弃导线", "wire", id)
	}
	reports := make([]mna.Report, 0, len(g.Islands))
	for _, island := range g.Islands {
		if !hasSource(list, island.Members) || !island.Closed {
			reports = append(reports, mna.Inert(list, island.Members, !hasSource(list, island.Members), !island.Closed))
			continue
		}
		report := mna.NewSolver(cfg, list, island.Netlist).Run(dt)
		if report.OverCurrent {
			logger.Warn("电流超过上限", "members", report.Members, "current", report.Current)
		}
		if report.Degenerate {
			logger.Warn("求解失败,孤岛清零", "members", report.Members)
		}
		reports = append(reports, report)
	}
	logger.Debug("仿真一拍", "dt", dt, "components", len(list), "islands", len(reports))
	return Result{Components: list, Reports: reports, Graph: g, DT: dt}
}

// hasSource 孤岛内是否有电源
func hasSource(list []types.Component, members []int) bool {
	for _, i := range members {
		if element.Source(&list[i]) {
			return true
		}
	}
	return false
}
