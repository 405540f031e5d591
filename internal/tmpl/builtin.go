package tmpl

import "sort"

const DefaultTemplate = `## 今日天气与位置

🌤 **天气状况**: {{weather.description}}
🌡 **当前温度**: {{weather.temperature}}°C
{{#if weather.feelsLike}}🤔 **体感温度**: {{weather.feelsLike}}°C
{{/if}}💧 **相对湿度**: {{weather.humidity}}%
🌬 **风向**: {{weather.windDirection}}
💨 **风力**: {{weather.windPower}}
📊 **风速**: {{weather.windSpeed}} m/s
🔽 **最低温度**: {{weather.tempMin}}°C
🔼 **最高温度**: {{weather.tempMax}}°C

📍 **当前位置**: {{location.city}}
{{#if location.province}}🏛 **省份**: {{location.province}}
{{/if}}{{#if location.district}}🏙 **区县**: {{location.district}}
{{/if}}{{#if location.township}}🏘 **乡镇/街道**: {{location.township}}
{{/if}}{{#if location.street}}🛣 **街道**: {{location.street}}
{{/if}}{{#if location.streetNumber}}🔢 **门牌号**: {{location.streetNumber}}
{{/if}}{{#if location.formatted_address}}📝 **详细地址**: {{location.formatted_address}}
{{/if}}{{#if location.country}}🌍 **国家**: {{location.country}}
{{/if}}🌐 **坐标**: {{location.lat}}, {{location.lon}}

⏰ **记录时间**: {{time}}
`

const SimpleTemplate = `🌤 **天气**: {{weather.description}} | 🌡 **温度**: {{weather.temperature}}°C | 📍 **位置**: {{location.city}}
`

const TableTemplate = `| 项目 | 数值 |
|------|------|
| 天气 | {{weather.description}} |
| 温度 | {{weather.temperature}}°C |
| 湿度 | {{weather.humidity}}% |
| 风速 | {{weather.windSpeed}} m/s |
| 位置 | {{location.city}} |
| 时间 | {{time}} |
`

// VariableHelp documents every variable the note service puts in a context.
const VariableHelp = `# 模板变量说明

## 天气变量 (weather)
- {{weather.description}} - 天气描述 (如: 晴朗, 多云)
- {{weather.temperature}} - 当前温度 (°C)
- {{weather.humidity}} - 湿度 (%)
- {{weather.windSpeed}} - 风速 (m/s)
- {{weather.windDirection}} - 风向 (如: 北风, 东南风)
- {{weather.windPower}} - 风力等级 (如: 3级)
- {{weather.pressure}} - 气压 (hPa)
- {{weather.visibility}} - 能见度 (km)
- {{weather.feelsLike}} - 体感温度 (°C)
- {{weather.tempMin}} - 最低温度 (°C)
- {{weather.tempMax}} - 最高温度 (°C)
- {{weather.sunrise}} - 日出时间
- {{weather.sunset}} - 日落时间
- {{weather.icon}} - 天气图标代码

## 位置变量 (location)
- {{location.city}} - 城市名称
- {{location.country}} - 国家名称
- {{location.province}} - 省份
- {{location.region}} - 区域 (兼容旧模板)
- {{location.district}} - 区/县
- {{location.township}} - 乡镇/街道
- {{location.street}} - 街道
- {{location.streetNumber}} - 门牌号
- {{location.formatted_address}} - 标准化详细地址
- {{location.lat}} - 纬度
- {{location.lon}} - 经度
- {{location.ip}} - IP地址
- {{location.timezone}} - 时区

## 其他变量
- {{time}} - 当前时间

## 条件语句
{{#if weather.feelsLike}}内容{{else}}其他内容{{/if}}

## 循环语句
{{#each items}}@index: @item.name{{/each}}

## 示例模板
` + DefaultTemplate

var builtins = map[string]string{
	"default": DefaultTemplate,
	"simple":  SimpleTemplate,
	"table":   TableTemplate,
	"help":    VariableHelp,
}

// Builtin returns the named built-in template.
func Builtin(name string) (string, bool) {
	t, ok := builtins[name]
	return t, ok
}

// BuiltinNames lists the built-in templates in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
