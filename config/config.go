// Package config 引擎常数配置,支持 YAML 文件与环境变量覆盖
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config 引擎常数
type Config struct {
	Battery   BatteryConfig   `json:"battery" yaml:"battery"`
	Capacitor CapacitorConfig `json:"capacitor" yaml:"capacitor"`
	Led       LedConfig       `json:"led" yaml:"led"`
	Bulb      BulbConfig      `json:"bulb" yaml:"bulb"`
	Resistor  ResistorConfig  `json:"resistor" yaml:"resistor"`
	Solver    SolverConfig    `json:"solver" yaml:"solver"`
}

// BatteryConfig 电池模型
type BatteryConfig struct {
	// InternalResistance 满电内阻(Ω),实际内阻 = InternalResistance / max(charge, ChargeFloor)
	InternalResistance float64 `json:"internal_resistance" yaml:"internal_resistance"`
	ChargeFloor        float64 `json:"charge_floor" yaml:"charge_floor"`
	// Capacity 库仑计数容量(A·s),放完一节满电电池所需的电荷
	Capacity float64 `json:"capacity" yaml:"capacity"`
}

// CapacitorConfig 电容模型
type CapacitorConfig struct {
	// ESR 引线串联电阻(Ω),与回路中其他电阻相加
	ESR float64 `json:"esr" yaml:"esr"`
}

// LedConfig 发光二极管模型
type LedConfig struct {
	ForwardVoltage float64 `json:"forward_voltage" yaml:"forward_voltage"`
	Resistance     float64 `json:"resistance" yaml:"resistance"`
	OffResistance  float64 `json:"off_resistance" yaml:"off_resistance"`
	// Current 亮度曲线特征电流(A), brightness = 1 - exp(-|I|/Current)
	Current float64 `json:"current" yaml:"current"`
}

// BulbConfig 灯泡模型
type BulbConfig struct {
	// RatedPower 亮度曲线特征功率(W), brightness = 1 - exp(-sqrt(P/RatedPower))
	RatedPower float64 `json:"rated_power" yaml:"rated_power"`
}

// ResistorConfig 电阻模型
type ResistorConfig struct {
	HotPower      float64 `json:"hot_power" yaml:"hot_power"`
	MinResistance float64 `json:"min_resistance" yaml:"min_resistance"`
}

// SolverConfig 求解参数
type SolverConfig struct {
	MaxCurrent        float64 `json:"max_current" yaml:"max_current"`
	MaxStep           float64 `json:"max_step" yaml:"max_step"`
	MaxSubSteps       int     `json:"max_sub_steps" yaml:"max_sub_steps"`
	MaxIterations     int     `json:"max_iterations" yaml:"max_iterations"`
	OrientationPasses int     `json:"orientation_passes" yaml:"orientation_passes"`
}

// Default 默认配置
func Default() Config {
	return Config{
		Battery: BatteryConfig{
			InternalResistance: 0.1,
			ChargeFloor:        0.01,
			Capacity:           150,
		},
		Capacitor: CapacitorConfig{
			ESR: 10,
		},
		Led: LedConfig{
			ForwardVoltage: 0.8,
			Resistance:     20,
			OffResistance:  1e6,
			Current:        0.008,
		},
		Bulb: BulbConfig{
			RatedPower: 5.76,
		},
		Resistor: ResistorConfig{
			HotPower:      0.25,
			MinResistance: 1e-3,
		},
		Solver: SolverConfig{
			MaxCurrent:        8,
			MaxStep:           0.1,
			MaxSubSteps:       64,
			MaxIterations:     16,
			OrientationPasses: 2,
		},
	}
}

// Load 读取配置文件,未出现的键保留默认值,未知键报错
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置文件: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置文件 %s: %w", path, err)
	}
	return cfg, nil
}

// Decode 在 cfg 之上解码 YAML
func Decode(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

// Marshal 输出 YAML
func (cfg Config) Marshal() ([]byte, error) {
	return yaml.Marshal(cfg)
}

// envFloat 浮点环境变量
type envFloat struct {
	name  string
	value *float64
}

// envInt 整数环境变量
type envInt struct {
	name  string
	value *int
}

// ApplyEnv 应用 CIRCUIT_* 环境变量覆盖,无法解析的值返回错误并保留原值
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	floats := []envFloat{
		{"CIRCUIT_BATTERY_INTERNAL_RESISTANCE", &cfg.Battery.InternalResistance},
		{"CIRCUIT_BATTERY_CHARGE_FLOOR", &cfg.Battery.ChargeFloor},
		{"CIRCUIT_BATTERY_CAPACITY", &cfg.Battery.Capacity},
		{"CIRCUIT_CAPACITOR_ESR", &cfg.Capacitor.ESR},
		{"CIRCUIT_LED_FORWARD_VOLTAGE", &cfg.Led.ForwardVoltage},
		{"CIRCUIT_LED_RESISTANCE", &cfg.Led.Resistance},
		{"CIRCUIT_LED_OFF_RESISTANCE", &cfg.Led.OffResistance},
		{"CIRCUIT_LED_CURRENT", &cfg.Led.Current},
		{"CIRCUIT_BULB_RATED_POWER", &cfg.Bulb.RatedPower},
		{"CIRCUIT_RESISTOR_HOT_POWER", &cfg.Resistor.HotPower},
		{"CIRCUIT_RESISTOR_MIN_RESISTANCE", &cfg.Resistor.MinResistance},
		{"CIRCUIT_SOLVER_MAX_CURRENT", &cfg.Solver.MaxCurrent},
		{"CIRCUIT_SOLVER_MAX_STEP", &cfg.Solver.MaxStep},
	}
	ints := []envInt{
		{"CIRCUIT_SOLVER_MAX_SUB_STEPS", &cfg.Solver.MaxSubSteps},
		{"CIRCUIT_SOLVER_MAX_ITERATIONS", &cfg.Solver.MaxIterations},
		{"CIRCUIT_SOLVER_ORIENTATION_PASSES", &cfg.Solver.OrientationPasses},
	}
	var errs []error
	for _, e := range floats {
		v, ok := lookup(e.name)
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.name, err))
			continue
		}
		*e.value = f
	}
	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.name, err))
			continue
		}
		*e.value = n
	}
	return errors.Join(errs...)
}

// Validate 检查常数是否为正
func (cfg Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s 必须大于 0, 当前 %g", name, v))
		}
	}
	positive("battery.internal_resistance", cfg.Battery.InternalResistance)
	positive("battery.charge_floor", cfg.Battery.ChargeFloor)
	positive("battery.capacity", cfg.Battery.Capacity)
	positive("capacitor.esr", cfg.Capacitor.ESR)
	positive("led.forward_voltage", cfg.Led.ForwardVoltage)
	positive("led.resistance", cfg.Led.Resistance)
	positive("led.off_resistance", cfg.Led.OffResistance)
	positive("led.current", cfg.Led.Current)
	positive("bulb.rated_power", cfg.Bulb.RatedPower)
	positive("resistor.hot_power", cfg.Resistor.HotPower)
	positive("resistor.min_resistance", cfg.Resistor.MinResistance)
	positive("solver.max_current", cfg.Solver.MaxCurrent)
	positive("solver.max_step", cfg.Solver.MaxStep)
	positive("solver.max_sub_steps", float64(cfg.Solver.MaxSubSteps))
	positive("solver.max_iterations", float64(cfg.Solver.MaxIterations))
	if cfg.Solver.OrientationPasses < 0 {
		errs = append(errs, fmt.Errorf("solver.orientation_passes 不能为负, 当前 %d", cfg.Solver.OrientationPasses))
	}
	if cfg.Battery.ChargeFloor > 1 {
		errs = append(errs, fmt.Errorf("battery.charge_floor 不能大于 1, 当前 %g", cfg.Battery.ChargeFloor))
	}
	return errors.Join(errs...)
}
