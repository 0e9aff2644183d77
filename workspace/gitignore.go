package workspace

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// GitignoreParser applies the project's .gitignore on top of the exclusion
// pattern list, so generated files the repo already ignores stay out of the
// graph.
type GitignoreParser struct {
	ignorePatterns   []string
	negationPatterns []string
}

// NewGitignoreParser reads .gitignore from the workspace root. A missing
// file yields a parser that ignores nothing.
func NewGitignoreParser(ws *Workspace) *GitignoreParser {
	parser := &GitignoreParser{}
	parser.load(filepath.Join(ws.Root, ".gitignore"))
	return parser
}

func (gp *GitignoreParser) load(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "!") {
			gp.negationPatterns = append(gp.negationPatterns, strings.TrimPrefix(line, "!"))
		} else {
			gp.ignorePatterns = append(gp.ignorePatterns, line)
		}
	}
}

// ShouldIgnore checks a project-relative path against the loaded patterns.
func (gp *GitignoreParser) ShouldIgnore(relPath string) bool {
	relPath = filepath.ToSlash(relPath)

	ignored := false
	for _, pattern := range gp.ignorePatterns {
		if gp.matchPattern(pattern, relPath) {
			ignored = true
			break
		}
	}

	if ignored {
		for _, pattern := range gp.negationPatterns {
			if gp.matchPattern(pattern, relPath) {
				return false
			}
		}
	}

	return ignored
}

// matchPattern checks if a path matches a gitignore pattern.
func (gp *GitignoreParser) matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/") {
		pattern = strings.TrimSuffix(pattern, "/")

		if strings.HasPrefix(path, pattern+"/") || path == pattern {
			return true
		}

		for _, part := range strings.Split(path, "/") {
			if part == pattern {
				return true
			}
		}

		return false
	}

	if strings.HasPrefix(pattern, "/") {
		return gp.matchSimplePattern(strings.TrimPrefix(pattern, "/"), path)
	}

	if gp.matchSimplePattern(pattern, path) {
		return true
	}

	pathParts := strings.Split(path, "/")
	for i := range pathParts {
		subPath := strings.Join(pathParts[i:], "/")
		if gp.matchSimplePattern(pattern, subPath) {
			return true
		}
	}

	if !strings.Contains(pattern, "/") {
		for _, part := range pathParts {
			if gp.matchSimplePattern(pattern, part) {
				return true
			}
		}
	}

	return false
}

func (gp *GitignoreParser) matchSimplePattern(pattern, text string) bool {
	if pattern == text {
		return true
	}

	if strings.Contains(pattern, "*") {
		return gp.matchWildcard(pattern, text)
	}

	return false
}

func (gp *GitignoreParser) matchWildcard(pattern, text string) bool {
	if pattern == "*" {
		return true
	}

	if strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") {
		return strings.Contains(text, pattern[1:len(pattern)-1])
	}

	if strings.HasPrefix(pattern, "*") {
		return strings.HasSuffix(text, pattern[1:])
	}

	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(text, pattern[:len(pattern)-1])
	}

	return false
}
