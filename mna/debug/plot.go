package debug

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Quantity 可绘制的物理量
type Quantity string

const (
	QuantityCurrent    Quantity = "current"
	QuantityVoltage    Quantity = "voltage"
	QuantityBrightness Quantity = "brightness"
	QuantityCharge     Quantity = "charge"
)

// values 曲线数据
func (q Quantity) values(s *Series) ([]float64, error) {
	switch q {
	case QuantityCurrent:
		return s.Current, nil
	case QuantityVoltage:
		return s.Voltage, nil
	case QuantityBrightness:
		return s.Brightness, nil
	case QuantityCharge:
		return s.Charge, nil
	}
	return nil, fmt.Errorf("未知物理量: %q", q)
}

// Plot 静态曲线图
type Plot struct {
	*Record
	Width  vg.Length
	Height vg.Length
}

// NewPlot 创建曲线图, 默认 8x4 英寸
func NewPlot(record *Record) *Plot {
	return &Plot{Record: record, Width: 8 * vg.Inch, Height: 4 * vg.Inch}
}

// WritePNG 输出指定元件某物理量的曲线, ids 为空表示全部元件
func (p *Plot) WritePNG(w io.Writer, q Quantity, ids ...string) error {
	pl := plot.New()
	pl.Title.Text = string(q)
	pl.X.Label.Text = "t (s)"
	pl.Y.Label.Text = string(q)
	pl.Add(plotter.NewGrid())
	series := p.Series
	if len(ids) > 0 {
		series = series[:0:0]
		for _, id := range ids {
			s, ok := p.Lookup(id)
			if !ok {
				return fmt.Errorf("元件不存在: %s", id)
			}
			series = append(series, s)
		}
	}
	for i, s := range series {
		values, err := q.values(s)
		if err != nil {
			return err
		}
		xys := make(plotter.XYs, 0, len(values))
		for k, v := range values {
			if k >= len(p.Time) {
				break
			}
			xys = append(xys, plotter.XY{X: p.Time[k], Y: v})
		}
		if len(xys) == 0 {
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("绘制 %s: %w", s.ID, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		pl.Add(line)
		pl.Legend.Add(s.ID, line)
	}
	wt, err := pl.WriterTo(p.Width, p.Height, "png")
	if err != nil {
		return fmt.Errorf("生成图片: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
