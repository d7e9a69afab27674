package writer

import (
	"path"
	"strings"
)

// PlaceholderConfig maps file extensions to the stub content written for
// files the document never filled in.
type PlaceholderConfig struct {
	ByExtension map[string]string
	Default     string
}

// DefaultPlaceholders returns the stock placeholder table.
func DefaultPlaceholders() PlaceholderConfig {
	return PlaceholderConfig{
		ByExtension: map[string]string{
			".py":    "\"\"\"TODO: implement\"\"\"\n",
			".js":    "// TODO: implement\n",
			".ts":    "// TODO: implement\n",
			".tsx":   "// TODO: implement\n",
			".jsx":   "// TODO: implement\n",
			".java":  "// TODO: implement\n",
			".go":    "// TODO: implement\n",
			".rs":    "// TODO: implement\n",
			".cpp":   "// TODO: implement\n",
			".c":     "// TODO: implement\n",
			".h":     "// TODO: implement\n",
			".hpp":   "// TODO: implement\n",
			".cs":    "// TODO: implement\n",
			".php":   "// TODO: implement\n",
			".rb":    "# TODO: implement\n",
			".swift": "// TODO: implement\n",
			".kt":    "// TODO: implement\n",

			".sh":   "#!/bin/bash\n# TODO: implement\n",
			".bash": "# TODO: implement\n",
			".zsh":  "# TODO: implement\n",
			".ps1":  "# TODO: implement\n",
			".bat":  "REM TODO: implement\n",
			".cfg":  "# TODO: implement\n",
			".conf": "# TODO: implement\n",

			".yml":  "# TODO: implement\n",
			".yaml": "# TODO: implement\n",
			".json": "{\n  \"//\": \"TODO: fill\"\n}\n",
			".xml":  "<!-- TODO: implement -->\n",
			".csv":  "# TODO: fill data\n",
			".toml": "# TODO: implement\n",

			".md":  "<!-- TODO: fill -->\n",
			".rst": ".. TODO: fill\n",
			".txt": "# TODO: fill\n",

			".html": "<!-- TODO: implement -->\n",
			".css":  "/* TODO: implement */\n",
			".scss": "/* TODO: implement */\n",
			".sass": "/* TODO: implement */\n",
			".less": "/* TODO: implement */\n",

			".sql":    "-- TODO: implement\n",
			".sqlite": "-- TODO: implement\n",
		},
		Default: "# TODO: implement\n",
	}
}

// For returns the placeholder content for a filename.
func (p PlaceholderConfig) For(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if content, ok := p.ByExtension[ext]; ok {
		return content
	}
	return p.Default
}
