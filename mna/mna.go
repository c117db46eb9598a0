package mna

import (
	"errors"
	"fmt"
	"math"

	"github.com/groupsky/game-4-sub001/element"
	"gonum.org/v1/gonum/mat"
)

// Gnd 参考节点
const Gnd = -1

// ErrSingular 矩阵奇异
var ErrSingular = errors.New("矩阵奇异")

// System 节点电压方程 A·X = Z
//
// 只含电导与电流源,矩阵只依赖电导,电动势变化时只需重新求解右端项。
type System struct {
	n        int
	a        *mat.Dense
	z        *mat.VecDense
	x        *mat.VecDense
	lu       mat.LU
	factored bool
}

// NewSystem 创建 n 个未知节点的方程
func NewSystem(n int) *System {
	s := &System{n: n}
	if n > 0 {
		s.a = mat.NewDense(n, n, nil)
		s.z = mat.NewVecDense(n, nil)
		s.x = mat.NewVecDense(n, nil)
	}
	return s
}

// Len 未知量个数
func (s *System) Len() int { return s.n }

// Zero 清空矩阵与向量
func (s *System) Zero() {
	if s.n == 0 {
		return
	}
	s.a.Zero()
	s.z.Zero()
	s.x.Zero()
	s.factored = false
}

// ZeroRightSide 只清空右端项,保留分解结果
func (s *System) ZeroRightSide() {
	if s.n == 0 {
		return
	}
	s.z.Zero()
}

// StampMatrix 矩阵加值
func (s *System) StampMatrix(i, j int, v float64) {
	if i == Gnd || j == Gnd {
		return
	}
	s.a.Set(i, j, s.a.At(i, j)+v)
	s.factored = false
}

// StampRightSide 右端加值
func (s *System) StampRightSide(i int, v float64) {
	if i == Gnd {
		return
	}
	s.z.SetVec(i, s.z.AtVec(i)+v)
}

// StampConductance 两节点间电导
func (s *System) StampConductance(n1, n2 int, g float64) {
	s.StampMatrix(n1, n1, g)
	s.StampMatrix(n2, n2, g)
	s.StampMatrix(n1, n2, -g)
	s.StampMatrix(n2, n1, -g)
}

// StampCurrentSource 电流源 i 从 n1 经外部流向 n2
func (s *System) StampCurrentSource(n1, n2 int, i float64) {
	s.StampRightSide(n1, -i)
	s.StampRightSide(n2, i)
}

// StampModel 戴维南模型:电导加上电流源 G·EMF
func (s *System) StampModel(n1, n2 int, m element.Model) {
	if m.Open || !(m.Resistance > 0) {
		return
	}
	g := 1 / m.Resistance
	s.StampConductance(n1, n2, g)
	s.StampSource(n1, n2, m)
}

// StampSource 只加盖模型的右端项
func (s *System) StampSource(n1, n2 int, m element.Model) {
	if m.Open || !(m.Resistance > 0) || m.EMF == 0 {
		return
	}
	s.StampCurrentSource(n1, n2, m.EMF/m.Resistance)
}

// Solve LU 分解并求解,矩阵未变化时复用分解
func (s *System) Solve() error {
	if s.n == 0 {
		return nil
	}
	if !s.factored {
		s.lu.Factorize(s.a)
		if math.IsInf(s.lu.Cond(), 1) {
			return ErrSingular
		}
		s.factored = true
	}
	if err := s.lu.SolveVecTo(s.x, false, s.z); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return fmt.Errorf("求解节点电压: %w", err)
		}
	}
	return nil
}

// Voltage 节点电压,参考节点为 0
func (s *System) Voltage(i int) float64 {
	if i == Gnd || i < 0 || i >= s.n {
		return 0
	}
	return s.x.AtVec(i)
}
