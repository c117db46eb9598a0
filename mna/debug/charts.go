package debug

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	*Record
}

// NewCharts 创建曲线页面
func NewCharts() *Charts {
	return &Charts{Record: NewRecord()}
}

// legend 公共图例
var legend = opts.Legend{
	Type:   "scroll",
	Orient: "vertical",
	Right:  "10",
	Top:    "20",
	Bottom: "20",
}

// newLine 时间曲线
func newLine(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(legend),
		charts.WithXAxisOpts(opts.XAxis{
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(true),
	)
	return line
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "电路节点信息",
			Subtitle: "元件与推导出的电气节点",
		}),
		charts.WithLegendOpts(legend),
	)
	graph.SetSeriesOptions(
		charts.WithEmphasisOpts(opts.Emphasis{
			Label: &opts.Label{
				Show:     opts.Bool(true),
				Color:    "black",
				Position: "left",
			},
		}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Curveness: 0.3,
		}),
	)
	// 电路节点
	{
		nodes := make([]opts.GraphNode, 0, len(c.Elements)+len(c.Nodes))
		links := make([]opts.GraphLink, 0)
		for _, name := range c.Elements {
			nodes = append(nodes, opts.GraphNode{
				Name:     name,
				Category: 0,
				Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
			})
		}
		for i, terms := range c.Nodes {
			name := fmt.Sprintf("Node(%d)", i)
			nodes = append(nodes, opts.GraphNode{
				Name:     name,
				Category: 1,
				Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
			})
			for _, t := range terms {
				if t[0] >= len(c.Elements) {
					continue
				}
				links = append(links, opts.GraphLink{
					Source: c.Elements[t[0]],
					Target: name,
					Value:  float32(t[1]),
				})
			}
		}
		graph.AddSeries("电路列表", nodes, links,
			charts.WithGraphChartOpts(opts.GraphChart{
				Categories: []*opts.GraphCategory{
					{Name: "元件", ItemStyle: &opts.ItemStyle{Color: "#c71979b7"}},
					{Name: "节点", ItemStyle: &opts.ItemStyle{Color: "#1987c7b7"}},
				},
				Roam:               opts.Bool(true),
				Force:              &opts.GraphForce{Repulsion: 80},
				EdgeLabel:          &opts.EdgeLabel{Show: opts.Bool(true)},
				FocusNodeAdjacency: opts.Bool(true),
			}))
	}
	lineA := newLine("电流曲线", "元件电流随时间变化曲线")
	lineV := newLine("电压曲线", "电池电动势与电容电压随时间变化曲线")
	lineB := newLine("亮度曲线", "LED 与灯泡亮度随时间变化曲线")
	lineC := newLine("电量曲线", "电池剩余电量随时间变化曲线")
	c.addSeries(lineA, nil, func(s *Series) []float64 { return s.Current })
	c.addSeries(lineV, []string{"battery", "capacitor"}, func(s *Series) []float64 { return s.Voltage })
	c.addSeries(lineB, []string{"led", "lightbulb"}, func(s *Series) []float64 { return s.Brightness })
	c.addSeries(lineC, []string{"battery"}, func(s *Series) []float64 { return s.Charge })
	// 构建界面
	page := components.NewPage()
	page.AddCharts(
		graph,
		lineA,
		lineV,
		lineB,
		lineC,
	)
	return page.Render(w)
}

// addSeries 按类型筛选曲线, kinds 为空表示全部
func (c *Charts) addSeries(line *charts.Line, kinds []string, value func(*Series) []float64) {
	line.SetXAxis(c.Time)
	for _, s := range c.Series {
		if len(kinds) > 0 && !slices.Contains(kinds, s.Kind) {
			continue
		}
		values := value(s)
		items := make([]opts.LineData, len(c.Time))
		for i := range items {
			if i < len(values) {
				items[i].Value = values[i]
			} else {
				items[i].Value = 0
			}
		}
		line.AddSeries(s.ID, items)
	}
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		c.Error(err)
	}
}

func (c *Charts) Error(err error) { log.Println(err) }
