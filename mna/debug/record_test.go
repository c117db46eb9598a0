package debug

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/groupsky/game-4-sub001/graph"
	"github.com/groupsky/game-4-sub001/mna"
	"github.com/groupsky/game-4-sub001/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample 三拍记录, led 在第二拍加入, r 在第三拍移除
func sample() *Record {
	b := types.NewBattery("b")
	r := types.NewResistor("r", 10)
	led := types.NewLed("led")
	wires := []types.Wire{{ID: "w1", From: "b", To: "r"}, {ID: "w2", From: "r", To: "b"}}

	rec := NewRecord()
	list := []types.Component{b, r}
	b.Current = 0.1
	list[0] = b
	rec.Update(0.1, list, graph.NewGraph(list, wires), []mna.Report{{Members: []string{"b", "r"}}})

	list = []types.Component{b, r, led}
	rec.Update(0.2, list, graph.NewGraph(list, wires), nil)

	led.Brightness = 0.5
	list = []types.Component{b, led}
	rec.Update(0.3, list, nil, nil)
	return rec
}

func TestRecord(t *testing.T) {
	rec := sample()
	assert.Equal(t, 3, rec.Len())
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, rec.Time)
	require.Len(t, rec.Series, 3)

	b, ok := rec.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "battery", b.Kind)
	assert.Equal(t, []float64{0.1, 0.1, 0.1}, b.Current)
	assert.Equal(t, []float64{1, 1, 1}, b.Charge)

	led, ok := rec.Lookup("led")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0, 0.5}, led.Brightness)

	r, ok := rec.Lookup("r")
	require.True(t, ok)
	assert.Len(t, r.Current, 2)

	_, ok = rec.Lookup("ghost")
	assert.False(t, ok)

	// 最后一拍没有拓扑
	assert.Equal(t, []string{"battery(0)", "led(1)"}, rec.Elements)
	assert.Empty(t, rec.Nodes)
	assert.Empty(t, rec.Branches)
	assert.Len(t, rec.Reports, 3)
}

func TestRecordNodes(t *testing.T) {
	list := []types.Component{types.NewBattery("b"), types.NewResistor("r", 10)}
	wires := []types.Wire{{ID: "w1", From: "b", To: "r"}, {ID: "w2", From: "r", To: "b"}}
	rec := NewRecord()
	rec.Update(0.1, list, graph.NewGraph(list, wires), nil)
	assert.Equal(t, [][][2]int{{{0, 0}, {1, 0}}, {{0, 1}, {1, 1}}}, rec.Nodes)
	assert.Equal(t, [][]string{{"b", "r"}}, rec.Branches)

	// 分支点两侧各成一段
	list = []types.Component{
		types.NewBattery("b"), types.NewResistor("r1", 10), types.NewResistor("r2", 10), types.NewLed("led"),
	}
	wires = []types.Wire{
		{ID: "w1", From: "b", To: "r1"}, {ID: "w2", From: "r1", To: "led"},
		{ID: "w3", From: "b", To: "r2"}, {ID: "w4", From: "r2", To: "led"},
		{ID: "w5", From: "b", To: "led"},
	}
	rec.Update(0.2, list, graph.NewGraph(list, wires), nil)
	assert.Len(t, rec.Branches, 3)
	for _, b := range rec.Branches {
		assert.Equal(t, "b", b[0])
		assert.Equal(t, "led", b[len(b)-1])
	}
}

func TestRecordRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample().Render(&buf))
	var out struct {
		Time   []float64 `json:"time"`
		Series []Series  `json:"series"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Len(t, out.Time, 3)
	assert.Len(t, out.Series, 3)
}

func TestChartsRender(t *testing.T) {
	page := NewCharts()
	src := sample()
	page.Record = src

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "电流曲线")
	assert.Contains(t, html, "电量曲线")

	rw := httptest.NewRecorder()
	page.Handler(rw, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, 200, rw.Code)
	assert.Contains(t, rw.Body.String(), "echarts")
}

func TestPlot(t *testing.T) {
	p := NewPlot(sample())

	var buf bytes.Buffer
	require.NoError(t, p.WritePNG(&buf, QuantityCharge))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	require.NoError(t, p.WritePNG(&buf, QuantityBrightness, "led"))
	assert.NotZero(t, buf.Len())

	assert.Error(t, p.WritePNG(&buf, QuantityVoltage, "ghost"))
	assert.Error(t, p.WritePNG(&buf, Quantity("heat")))
}
