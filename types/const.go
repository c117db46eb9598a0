package types

// 铭牌默认值
const (
	DefaultBatteryVoltage   = 0.9   // 电池电动势(V)
	DefaultBatteryCharge    = 1.0   // 满电
	DefaultResistance       = 100.0 // 电阻(Ω)
	DefaultCapacitance      = 0.1   // 出厂电容(F), 100mF
	FallbackCapacitance     = 0.001 // 字段缺失时的电容(F)
	DefaultMaxVoltage       = 5.0   // 电容耐压(V)
	DefaultBulbResistance   = 0.36  // 灯泡电阻(Ω)
	DefaultCapacitorVoltage = 0.0   // 电容初始电压
)
