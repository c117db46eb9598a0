package types

import (
	"fmt"
	"strings"
)

// Kind 元件类型
type Kind uint8

// 元件类型常量定义
const (
	KindUnknown   Kind = iota // 未知类型
	KindBattery               // 电池
	KindResistor              // 电阻
	KindCapacitor             // 电容
	KindLed                   // 发光二极管
	KindLightBulb             // 灯泡
)

// kindName 类型名称映射
var kindName = map[Kind]string{
	KindUnknown:   "unknown",
	KindBattery:   "battery",
	KindResistor:  "resistor",
	KindCapacitor: "capacitor",
	KindLed:       "led",
	KindLightBulb: "lightbulb",
}

// mapName 名称到类型
var mapName = map[string]Kind{
	"battery":   KindBattery,
	"resistor":  KindResistor,
	"capacitor": KindCapacitor,
	"led":       KindLed,
	"lightbulb": KindLightBulb,
	"bulb":      KindLightBulb,
}

// Kinds 全部已知类型
func Kinds() []Kind {
	return []Kind{KindBattery, KindResistor, KindCapacitor, KindLed, KindLightBulb}
}

// String 返回元件类型的字符串表示
func (k Kind) String() string {
	if name, ok := kindName[k]; ok {
		return name
	}
	return kindName[KindUnknown]
}

// Known 是否为已知类型
func (k Kind) Known() bool {
	return k >= KindBattery && k <= KindLightBulb
}

// ParseKind 通过名称获取类型
func ParseKind(name string) (Kind, error) {
	if k, ok := mapName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return KindUnknown, fmt.Errorf("未知元件类型: %q", name)
}

// MarshalText 文本编码
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText 文本解码,未知名称解码为 KindUnknown 而不报错
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		*k = KindUnknown
		return nil
	}
	*k = parsed
	return nil
}
