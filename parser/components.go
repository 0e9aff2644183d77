package parser

import (
	"regexp"
	"strings"
)

var (
	// name: 'my-component' inside a component object literal
	componentNamePattern = regexp.MustCompile(`name\s*:\s*["']([a-zA-Z][a-zA-Z0-9_-]*)["']`)
	// components: { Foo, Bar: Baz }
	componentsMapPattern = regexp.MustCompile(`components\s*:\s*\{([^}]*)\}`)
	// props: { value: ... } or props: ['value', 'label']
	propsBlockPattern = regexp.MustCompile(`props\s*:\s*(\{[^{}]*\}|\[[^\]]*\])`)
	propNamePattern   = regexp.MustCompile(`([a-zA-Z_$][a-zA-Z0-9_$]*)\s*:`)
	propListPattern   = regexp.MustCompile(`["']([a-zA-Z_$][a-zA-Z0-9_$-]*)["']`)
	// this.$emit('change', ...) and $emit('change') in templates
	emitPattern = regexp.MustCompile(`\$emit\s*\(\s*["']([a-zA-Z][a-zA-Z0-9_:-]*)["']`)
	// <slot name="header"> and bare <slot>
	slotPattern = regexp.MustCompile(`<slot(?:\s+name\s*=\s*["']([a-zA-Z][a-zA-Z0-9_-]*)["'])?`)
)

func extractComponents(content string) []Component {
	var components []Component
	seen := make(map[string]bool)

	for _, match := range componentNamePattern.FindAllStringSubmatch(content, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			components = append(components, Component{Name: match[1]})
		}
	}

	for _, match := range componentsMapPattern.FindAllStringSubmatch(content, -1) {
		for _, entry := range strings.Split(match[1], ",") {
			name := entry
			// `LocalName: ImportedName` registers under the local name.
			if idx := strings.Index(entry, ":"); idx >= 0 {
				name = entry[:idx]
			}
			name = strings.TrimSpace(name)
			if isValidIdentifier(name) && !seen[name] {
				seen[name] = true
				components = append(components, Component{Name: name})
			}
		}
	}

	return components
}

func extractProps(content string) []string {
	var props []string

	for _, match := range propsBlockPattern.FindAllStringSubmatch(content, -1) {
		block := match[1]
		if strings.HasPrefix(block, "[") {
			for _, m := range propListPattern.FindAllStringSubmatch(block, -1) {
				props = append(props, m[1])
			}
		} else {
			for _, m := range propNamePattern.FindAllStringSubmatch(block, -1) {
				props = append(props, m[1])
			}
		}
	}

	return DeduplicateStrings(props)
}

func extractEvents(content string) []string {
	var events []string
	for _, match := range emitPattern.FindAllStringSubmatch(content, -1) {
		events = append(events, match[1])
	}
	return DeduplicateStrings(events)
}

func extractSlots(content string) []string {
	var slots []string
	for _, match := range slotPattern.FindAllStringSubmatch(content, -1) {
		name := match[1]
		if name == "" {
			name = "default"
		}
		slots = append(slots, name)
	}
	return DeduplicateStrings(slots)
}
