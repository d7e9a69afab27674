package tree

import (
	"path"
	"strings"
)

// specialFiles are exact (lowercased) names recognized as files regardless of
// extension heuristics: build manifests, dotfile configs, docs, deploy files.
var specialFiles = map[string]bool{
	"dockerfile": true, "makefile": true, "procfile": true,
	"package.json": true, "requirements.txt": true, "pipfile": true, "gemfile": true,
	"cargo.toml": true, "go.mod": true, "composer.json": true, "pom.xml": true,

	".gitignore": true, ".eslintrc": true, ".editorconfig": true, ".prettierrc": true,
	".env": true, ".env.example": true, ".env.local": true, ".env.production": true,
	"tsconfig.json": true, "webpack.config.js": true, "rollup.config.js": true,
	"vite.config.js": true, "jest.config.js": true, "babel.config.js": true,

	"readme": true, "readme.md": true, "readme.txt": true, "contributing": true,
	"authors": true, "changelog": true, "changelog.md": true, "license": true,
	"license.md": true, "code_of_conduct": true,

	"firestore.rules": true, "docker-compose.yml": true, "docker-compose.yaml": true,
	".travis.yml": true, "github/workflows": true, "gitlab-ci.yml": true,

	"manifest.yml": true, "app.yaml": true, "cloudbuild.yaml": true,
}

// dirLikeDotfiles are dotted names that denote directories, not hidden files.
var dirLikeDotfiles = map[string]bool{
	".git": true, ".vscode": true, ".idea": true, ".venv": true, "node_modules": true,
}

// fileLikeNames are extensionless names conventionally used for files.
var fileLikeNames = map[string]bool{
	"dockerfile": true, "makefile": true, "procfile": true, "license": true,
	"readme": true, "changelog": true, "contributing": true, "authors": true,
	"code_of_conduct": true,
}

// IsFile reports whether a tree entry name denotes a file rather than a
// directory. filesAlways and dirsAlways hold lowercased basenames supplied by
// the caller; dirsAlways wins over filesAlways. Checks run in priority order:
// explicit trailing separator, override sets, the special-files table, the
// extension heuristic (with dotted directory names like .git carved out), and
// finally known extensionless file names. Anything still ambiguous is treated
// as a directory, the cheaper mistake to recover from.
func IsFile(name string, filesAlways, dirsAlways map[string]bool) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if strings.HasSuffix(name, "/") || strings.HasSuffix(name, `\`) {
		return false
	}

	base := path.Base(name)
	baseLower := strings.ToLower(base)

	if dirsAlways[baseLower] {
		return false
	}
	if filesAlways[baseLower] {
		return true
	}
	if isSpecialFile(base) {
		return true
	}

	if strings.Contains(base, ".") && len(base) > 1 {
		// A dotfile with a single dot may be a hidden directory (.git) or a
		// hidden file (.bashrc); everything else with a dot is a file.
		if strings.HasPrefix(base, ".") && strings.Count(base, ".") == 1 {
			return !dirLikeDotfiles[baseLower]
		}
		return true
	}

	return fileLikeNames[baseLower]
}

func isSpecialFile(filename string) bool {
	nameLower := strings.ToLower(strings.TrimSpace(filename))
	if nameLower == "" {
		return false
	}
	if specialFiles[nameLower] {
		return true
	}
	if strings.HasPrefix(nameLower, ".env") || strings.HasSuffix(nameLower, ".config.js") {
		return true
	}
	if strings.Contains(nameLower, "/") &&
		(strings.Contains(nameLower, "github/workflows") || strings.Contains(nameLower, ".github/")) {
		return true
	}
	return false
}

// LowerSet builds a lowercased membership set from a list of names, the form
// IsFile expects for its override arguments.
func LowerSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			set[n] = true
		}
	}
	return set
}
