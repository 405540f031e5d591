package location

import (
	"strings"

	"github.com/i474232898/weather-note/internal/common"
)

var cityNames = map[string]string{
	// 直辖市
	"beijing": "北京", "shanghai": "上海", "tianjin": "天津", "chongqing": "重庆",
	// 省会城市
	"guangzhou": "广州", "shenzhen": "深圳", "hangzhou": "杭州", "nanjing": "南京",
	"wuhan": "武汉", "chengdu": "成都", "xian": "西安", "zhengzhou": "郑州",
	"shijiazhuang": "石家庄", "taiyuan": "太原", "jinan": "济南", "shenyang": "沈阳",
	"changchun": "长春", "haerbin": "哈尔滨", "harbin": "哈尔滨", "nanning": "南宁",
	"guiyang": "贵阳", "kunming": "昆明", "lanzhou": "兰州", "xining": "西宁",
	"yinchuan": "银川", "wulumuqi": "乌鲁木齐", "urumqi": "乌鲁木齐", "lasa": "拉萨",
	"lhasa": "拉萨", "huhehaote": "呼和浩特", "hohhot": "呼和浩特", "haikou": "海口",
	"fuzhou": "福州", "hefei": "合肥", "nanchang": "南昌", "changsha": "长沙",
	// 其他主要城市
	"kunshan": "昆山", "suzhou": "苏州", "wuxi": "无锡", "changzhou": "常州",
	"ningbo": "宁波", "wenzhou": "温州", "jiaxing": "嘉兴", "huzhou": "湖州",
	"shaoxing": "绍兴", "jinhua": "金华", "taizhou": "台州", "xuzhou": "徐州",
	"nantong": "南通", "yangzhou": "扬州", "yancheng": "盐城", "huaian": "淮安",
	"zhenjiang": "镇江", "suqian": "宿迁", "dongguan": "东莞", "foshan": "佛山",
	"zhongshan": "中山", "zhuhai": "珠海", "huizhou": "惠州", "jiangmen": "江门",
	"qingyuan": "清远", "zhaoqing": "肇庆", "yunfu": "云浮", "maoming": "茂名",
	"qingdao": "青岛", "dalian": "大连", "xiamen": "厦门",
	// 省份
	"jiangsu": "江苏", "zhejiang": "浙江", "guangdong": "广东", "fujian": "福建",
	"shandong": "山东", "henan": "河南", "hubei": "湖北", "hunan": "湖南",
	"sichuan": "四川", "yunnan": "云南", "guizhou": "贵州", "shaanxi": "陕西",
	"gansu": "甘肃", "qinghai": "青海", "taiwan": "台湾", "hebei": "河北",
	"shanxi": "山西", "liaoning": "辽宁", "jilin": "吉林", "heilongjiang": "黑龙江",
	"anhui": "安徽", "jiangxi": "江西", "guangxi": "广西", "hainan": "海南",
	"neimenggu": "内蒙古", "inner mongolia": "内蒙古", "xizang": "西藏", "tibet": "西藏",
	"ningxia": "宁夏", "xinjiang": "新疆",
}

// TranslateCity maps a pinyin city or province name to Chinese. Names that
// already contain Chinese or are unknown are returned unchanged.
func TranslateCity(name string) string {
	if name == "" || common.HasHan(name) {
		return name
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if zh, ok := cityNames[key]; ok {
		return zh
	}
	if zh, ok := cityNames[strings.Join(strings.Fields(key), "")]; ok {
		return zh
	}
	return name
}
