package emoji

import (
	"regexp"
	"strings"
)

// Entry pairs a GitMoji marker with its meaning.
type Entry struct {
	Emoji       string
	Description string
}

// shortList is the help subset shown by default; fullList extends it.
var shortList = []Entry{
	{"🐛", "Fix a bug"},
	{"✨", "Introduce new features"},
	{"📝", "Add or update documentation"},
	{"🚀", "Deploy stuff"},
	{"✅", "Add, update, or pass tests"},
	{"♻️", "Refactor code"},
	{"⬆️", "Upgrade dependencies"},
	{"🔧", "Add or update configuration files"},
	{"🌐", "Internationalization and localization"},
	{"💡", "Add or update comments in source code"},
}

var fullList = []Entry{
	{"🎨", "Improve structure / format of the code"},
	{"⚡️", "Improve performance"},
	{"🔥", "Remove code or files"},
	{"🚑️", "Critical hotfix"},
	{"💄", "Add or update the UI and style files"},
	{"🎉", "Begin a project"},
	{"🔒️", "Fix security issues"},
	{"🔐", "Add or update secrets"},
	{"🔖", "Release / Version tags"},
	{"🚨", "Fix compiler / linter warnings"},
	{"🚧", "Work in progress"},
	{"💚", "Fix CI Build"},
	{"⬇️", "Downgrade dependencies"},
	{"📌", "Pin dependencies to specific versions"},
	{"👷", "Add or update CI build system"},
	{"📈", "Add or update analytics or track code"},
	{"➕", "Add a dependency"},
	{"➖", "Remove a dependency"},
	{"🔨", "Add or update development scripts"},
	{"✏️", "Fix typos"},
	{"💩", "Write bad code that needs to be improved"},
	{"⏪️", "Revert changes"},
	{"🔀", "Merge branches"},
	{"📦️", "Add or update compiled files or packages"},
	{"👽️", "Update code due to external API changes"},
	{"🚚", "Move or rename resources (e.g.: files, paths, routes)"},
	{"📄", "Add or update license"},
	{"💥", "Introduce breaking changes"},
	{"🍱", "Add or update assets"},
	{"♿️", "Improve accessibility"},
	{"🍻", "Write code drunkenly"},
	{"💬", "Add or update text and literals"},
	{"🗃️", "Perform database related changes"},
	{"🔊", "Add or update logs"},
	{"🔇", "Remove logs"},
	{"👥", "Add or update contributor(s)"},
	{"🚸", "Improve user experience / usability"},
	{"🏗️", "Make architectural changes"},
	{"📱", "Work on responsive design"},
	{"🤡", "Mock things"},
	{"🥚", "Add or update an easter egg"},
	{"🙈", "Add or update a .gitignore file"},
	{"📸", "Add or update snapshots"},
	{"⚗️", "Perform experiments"},
	{"🔍️", "Improve SEO"},
	{"🏷️", "Add or update types"},
	{"🌱", "Add or update seed files"},
	{"🚩", "Add, update, or remove feature flags"},
	{"🥅", "Catch errors"},
	{"💫", "Add or update animations and transitions"},
	{"🗑️", "Deprecate code that needs to be cleaned up"},
	{"🛂", "Work on code related to authorization, roles and permissions"},
	{"🩹", "Simple fix for a non-critical issue"},
	{"🧐", "Data exploration/inspection"},
	{"⚰️", "Remove dead code"},
	{"🧪", "Add a failing test"},
	{"👔", "Add or update business logic"},
	{"🩺", "Add or update healthcheck"},
	{"🧱", "Infrastructure related changes"},
	{"🧑‍💻", "Improve developer experience"},
	{"💸", "Add sponsorships or money related infrastructure"},
	{"🧵", "Add or update code related to multithreading or concurrency"},
	{"🦺", "Add or update code related to validation"},
}

// typeMap maps conventional commit keywords to their GitMoji marker.
var typeMap = map[string]string{
	"fix":      "🐛",
	"feat":     "✨",
	"docs":     "📝",
	"test":     "✅",
	"refactor": "♻️",
	"chore":    "🔧",
	"perf":     "⚡️",
	"style":    "🎨",
	"ci":       "👷",
	"build":    "📦️",
}

// HelpHeader opens every GitMoji convention block.
const HelpHeader = "Use GitMoji convention to preface the commit. " +
	"Here are some help to choose the right emoji (emoji, description):"

var conventionalWordRegex = regexp.MustCompile(`^(fix|feat)\((.+?)\):`)

// Short returns the default help subset.
func Short() []Entry {
	return append([]Entry(nil), shortList...)
}

// Full returns the complete GitMoji specification, short list first.
func Full() []Entry {
	entries := make([]Entry, 0, len(shortList)+len(fullList))
	entries = append(entries, shortList...)
	return append(entries, fullList...)
}

// HelpText renders the convention block handed to the model.
func HelpText(full bool) string {
	entries := Short()
	if full {
		entries = Full()
	}

	var b strings.Builder
	b.WriteString(HelpHeader)
	for _, e := range entries {
		b.WriteString("\n")
		b.WriteString(e.Emoji)
		b.WriteString(", ")
		b.WriteString(e.Description)
		b.WriteString(";")
	}
	return b.String()
}

// GetEmojiForType returns the marker for a commit type, or "" when unknown.
func GetEmojiForType(commitType string) string {
	return typeMap[strings.ToLower(commitType)]
}

// StripConventionalWord drops a leading fix/feat keyword while keeping the scope,
// so "fix(server.ts): x" becomes "(server.ts): x".
func StripConventionalWord(message string) string {
	return conventionalWordRegex.ReplaceAllString(message, "($2):")
}

// Prefix replaces the conventional keyword of message with the type's marker.
// Messages of unknown types are returned unchanged.
func Prefix(commitType, message string) string {
	marker := GetEmojiForType(commitType)
	if marker == "" {
		return message
	}
	return marker + " " + StripConventionalWord(message)
}
