package mna

import (
	"io"

	"github.com/groupsky/game-4-sub001/graph"
	"github.com/groupsky/game-4-sub001/types"
)

// Debug 调试接口,每拍结束后记录一次
type Debug interface {
	Update(time float64, components []types.Component, g *graph.Graph, reports []Report)
	Render(w io.Writer) error
}

// NoDebug 不记录
type NoDebug struct{}

func (NoDebug) Update(float64, []types.Component, *graph.Graph, []Report) {}
func (NoDebug) Render(io.Writer) error                                      { return nil }
