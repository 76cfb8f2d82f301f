// Package i18n holds the per-locale strings used by the prompt assembler:
// the language name handed to the model and the example commit lines that
// keep the model's answer consistent with the active convention.
package i18n

import (
	"sort"
	"strings"
)

// Locale is the translation table for one language.
type Locale struct {
	// LocalLanguage is interpolated literally into the model instructions.
	LocalLanguage       string
	CommitFix           string
	CommitFeat          string
	CommitFixOmitScope  string
	CommitFeatOmitScope string
	CommitDescription   string
}

const DefaultLocale = "en"

var locales = map[string]Locale{
	"en": {
		LocalLanguage:       "english",
		CommitFix:           "fix(server.ts): change port variable case from lowercase port to uppercase PORT",
		CommitFeat:          "feat(server.ts): add support for process.env.PORT environment variable",
		CommitFixOmitScope:  "fix: change port variable case from lowercase port to uppercase PORT",
		CommitFeatOmitScope: "feat: add support for process.env.PORT environment variable",
		CommitDescription: "The port variable is now named PORT, which improves consistency with the naming " +
			"conventions as PORT is a constant. Support for an environment variable allows the application " +
			"to be more flexible as it can now run on any available port specified via the process.env.PORT " +
			"environment variable.",
	},
	"zh_CN": {
		LocalLanguage:       "简体中文",
		CommitFix:           "fix(server.ts): 将端口变量从小写 port 改为大写 PORT",
		CommitFeat:          "feat(server.ts): 添加对 process.env.PORT 环境变量的支持",
		CommitFixOmitScope:  "fix: 将端口变量从小写 port 改为大写 PORT",
		CommitFeatOmitScope: "feat: 添加对 process.env.PORT 环境变量的支持",
		CommitDescription: "端口变量现在命名为 PORT，这提高了命名约定的一致性，因为 PORT 是一个常量。" +
			"环境变量的支持使应用程序更加灵活，因为它现在可以通过 process.env.PORT 环境变量在任何可用端口上运行。",
	},
	"zh_TW": {
		LocalLanguage:       "繁體中文",
		CommitFix:           "fix(server.ts): 將端口變數從小寫 port 改為大寫 PORT",
		CommitFeat:          "feat(server.ts): 新增對 process.env.PORT 環境變數的支援",
		CommitFixOmitScope:  "fix: 將端口變數從小寫 port 改為大寫 PORT",
		CommitFeatOmitScope: "feat: 新增對 process.env.PORT 環境變數的支援",
		CommitDescription: "端口變數現在命名為 PORT，這提高了命名慣例的一致性，因為 PORT 是一個常數。" +
			"環境變數的支援使應用程式更加靈活，因為它現在可以透過 process.env.PORT 環境變數在任何可用端口上運行。",
	},
	"ja": {
		LocalLanguage:       "日本語",
		CommitFix:           "fix(server.ts): ポート変数を小文字の port から大文字の PORT に変更",
		CommitFeat:          "feat(server.ts): 環境変数 process.env.PORT のサポートを追加",
		CommitFixOmitScope:  "fix: ポート変数を小文字の port から大文字の PORT に変更",
		CommitFeatOmitScope: "feat: 環境変数 process.env.PORT のサポートを追加",
		CommitDescription: "PORT は定数であるため、ポート変数を PORT という名前にすることで命名規則との一貫性が向上します。" +
			"環境変数のサポートにより、process.env.PORT で指定された任意のポートで実行できるようになり、" +
			"アプリケーションの柔軟性が高まります。",
	},
	"de": {
		LocalLanguage:       "deutsch",
		CommitFix:           "fix(server.ts): Groß-/Kleinschreibung der Portvariable von port zu PORT geändert",
		CommitFeat:          "feat(server.ts): Unterstützung für die Umgebungsvariable process.env.PORT hinzugefügt",
		CommitFixOmitScope:  "fix: Groß-/Kleinschreibung der Portvariable von port zu PORT geändert",
		CommitFeatOmitScope: "feat: Unterstützung für die Umgebungsvariable process.env.PORT hinzugefügt",
		CommitDescription: "Die Portvariable heißt jetzt PORT, was die Konsistenz mit den Namenskonventionen " +
			"verbessert, da PORT eine Konstante ist. Die Unterstützung einer Umgebungsvariable macht die Anwendung " +
			"flexibler, da sie jetzt auf jedem über process.env.PORT angegebenen Port laufen kann.",
	},
	"fr": {
		LocalLanguage:       "française",
		CommitFix:           "fix(server.ts): changer la casse de la variable port de port à PORT",
		CommitFeat:          "feat(server.ts): ajouter la prise en charge de la variable d'environnement process.env.PORT",
		CommitFixOmitScope:  "fix: changer la casse de la variable port de port à PORT",
		CommitFeatOmitScope: "feat: ajouter la prise en charge de la variable d'environnement process.env.PORT",
		CommitDescription: "La variable port s'appelle désormais PORT, ce qui améliore la cohérence avec les " +
			"conventions de nommage car PORT est une constante. La prise en charge d'une variable d'environnement " +
			"rend l'application plus flexible, car elle peut maintenant s'exécuter sur n'importe quel port " +
			"spécifié via process.env.PORT.",
	},
	"es_ES": {
		LocalLanguage:       "español",
		CommitFix:           "fix(server.ts): cambiar la variable port de minúsculas port a mayúsculas PORT",
		CommitFeat:          "feat(server.ts): añadir soporte para la variable de entorno process.env.PORT",
		CommitFixOmitScope:  "fix: cambiar la variable port de minúsculas port a mayúsculas PORT",
		CommitFeatOmitScope: "feat: añadir soporte para la variable de entorno process.env.PORT",
		CommitDescription: "La variable port ahora se llama PORT, lo que mejora la coherencia con las convenciones " +
			"de nomenclatura ya que PORT es una constante. El soporte para una variable de entorno hace que la " +
			"aplicación sea más flexible, ya que ahora puede ejecutarse en cualquier puerto especificado mediante " +
			"process.env.PORT.",
	},
}

var aliases = map[string]string{
	"english":  "en",
	"zh":       "zh_CN",
	"zh-cn":    "zh_CN",
	"zh-tw":    "zh_TW",
	"japanese": "ja",
	"german":   "de",
	"french":   "fr",
	"es":       "es_ES",
	"spanish":  "es_ES",
}

// Lookup resolves a locale code, falling back to English for unknown codes.
func Lookup(code string) Locale {
	if l, ok := locales[Resolve(code)]; ok {
		return l
	}
	return locales[DefaultLocale]
}

// Resolve normalizes a user-supplied code to a known locale key.
func Resolve(code string) string {
	code = strings.TrimSpace(code)
	if _, ok := locales[code]; ok {
		return code
	}
	if alias, ok := aliases[strings.ToLower(code)]; ok {
		return alias
	}
	return DefaultLocale
}

// Codes lists the supported locale codes in alphabetical order.
func Codes() []string {
	codes := make([]string, 0, len(locales))
	for c := range locales {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
