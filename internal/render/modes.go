package render

// Короткие коды режимов для оверлея.
// Ключ "GunGameTeam)" со скобкой оставлен как в исходной таблице бота;
// исправленный ключ добавляется через gamemodes в конфиге.
var defaultModes = map[string]string{
	"CONQ":         "CQ",
	"FRONTLINE":    "FL",
	"RUSH":         "RS",
	"DOMI":         "DM",
	"TDM":          "TDM",
	"INFCONQ":      "IQ",
	"GunGameFFA":   "GGF",
	"FFA":          "FFA",
	"GunGameTeam)": "GGT",
	"ELI":          "ELI",
}

// Abbrev возвращает короткий код режима; для неизвестного — пустую строку.
func Abbrev(gamemode string) string {
	return defaultModes[gamemode]
}

// Modes — копия стандартной таблицы с наложенными поверх overrides.
func Modes(overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaultModes)+len(overrides))
	for k, v := range defaultModes {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
