package parser

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TreeSitterAnalyzer is the grammar-aware SourceAnalyzer. It produces the
// same FileRecord shape as the regex analyzer but resolves imports,
// functions, and exports from a real syntax tree. Vue single-file
// components are handled by parsing the extracted script block with the
// JavaScript grammar.
type TreeSitterAnalyzer struct {
	fallback *RegexAnalyzer
}

// NewTreeSitterAnalyzer creates a tree-sitter backed analyzer that degrades
// to regex heuristics when the grammar rejects a file outright.
func NewTreeSitterAnalyzer() *TreeSitterAnalyzer {
	return &TreeSitterAnalyzer{fallback: NewRegexAnalyzer()}
}

func (a *TreeSitterAnalyzer) Name() string {
	return "tree-sitter"
}

func (a *TreeSitterAnalyzer) Analyze(path string, source []byte) (*FileRecord, error) {
	lang, code := a.languageFor(path, source)
	if lang == nil {
		return a.fallback.Analyze(path, source)
	}

	p := sitter.NewParser()
	p.SetLanguage(lang)

	tree, err := p.ParseCtx(context.Background(), nil, code)
	if err != nil || tree == nil {
		return a.fallback.Analyze(path, source)
	}
	defer tree.Close()

	record := EmptyRecord(path)
	root := tree.RootNode()

	record.Imports = a.extractImports(root, code)
	record.Functions = a.extractFunctions(root, code)
	record.Exports = a.extractExports(root, code)

	// Component declarations, props, events, and slots live in object
	// literals and templates that are cheaper to pick out of the text.
	text := blankComments(string(code))
	record.Components = extractComponents(text)
	record.Props = extractProps(text)
	record.Events = extractEvents(string(source))
	if strings.EqualFold(filepath.Ext(path), ".vue") {
		_, template := splitSFC(string(source))
		record.Slots = extractSlots(template)
	}
	record.Modules = moduleNames(path, record)

	return record, nil
}

// languageFor picks a grammar for the file, returning the code to parse.
// Vue files contribute their script block; unknown extensions return nil.
func (a *TreeSitterAnalyzer) languageFor(path string, source []byte) (*sitter.Language, []byte) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage(), source
	case ".ts", ".tsx":
		return typescript.GetLanguage(), source
	case ".vue":
		script, _ := splitSFC(string(source))
		if script == "" {
			return nil, nil
		}
		return javascript.GetLanguage(), []byte(script)
	default:
		return nil, nil
	}
}

func (a *TreeSitterAnalyzer) extractImports(root *sitter.Node, source []byte) []Import {
	var imports []Import

	walkAST(root, func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			if imp := a.processImportStatement(n, source); imp != nil {
				imports = append(imports, *imp)
			}
		case "variable_declarator":
			if imp := a.processRequireDeclarator(n, source); imp != nil {
				imports = append(imports, *imp)
			}
		}
	})

	return DeduplicateImports(imports)
}

func (a *TreeSitterAnalyzer) processImportStatement(node *sitter.Node, source []byte) *Import {
	var module, local string
	var symbols []string
	importType := ImportBare

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "import_clause":
			local, symbols, importType = a.processImportClause(child, source)
		case "string":
			module = stringValue(child, source)
		}
	}

	if module == "" {
		return nil
	}

	return &Import{
		Module:  module,
		Raw:     nodeText(node, source),
		Type:    importType,
		Default: local,
		Symbols: symbols,
	}
}

func (a *TreeSitterAnalyzer) processImportClause(node *sitter.Node, source []byte) (string, []string, ImportType) {
	var local string
	var symbols []string
	importType := ImportBare

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "identifier":
			local = nodeText(child, source)
			importType = ImportDefault
		case "namespace_import":
			for j := 0; j < int(child.ChildCount()); j++ {
				if child.Child(j).Type() == "identifier" {
					local = nodeText(child.Child(j), source)
				}
			}
			importType = ImportNamespace
		case "named_imports":
			symbols = a.processNamedImports(child, source)
			importType = ImportNamed
		}
	}

	return local, symbols, importType
}

func (a *TreeSitterAnalyzer) processNamedImports(node *sitter.Node, source []byte) []string {
	var symbols []string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "import_specifier" {
			continue
		}

		var name, alias string
		for j := 0; j < int(child.ChildCount()); j++ {
			grandchild := child.Child(j)
			if grandchild.Type() == "identifier" {
				if name == "" {
					name = nodeText(grandchild, source)
				} else {
					alias = nodeText(grandchild, source)
				}
			}
		}

		if alias != "" {
			symbols = append(symbols, alias)
		} else if name != "" {
			symbols = append(symbols, name)
		}
	}

	return symbols
}

// processRequireDeclarator handles `const x = require("m")` and
// `const { a, b } = require("m")`.
func (a *TreeSitterAnalyzer) processRequireDeclarator(node *sitter.Node, source []byte) *Import {
	var module, local string
	var symbols []string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "identifier":
			local = nodeText(child, source)
		case "object_pattern":
			for j := 0; j < int(child.ChildCount()); j++ {
				if child.Child(j).Type() == "shorthand_property_identifier_pattern" {
					symbols = append(symbols, nodeText(child.Child(j), source))
				}
			}
		case "call_expression":
			fn, arg := a.processCallWithStringArg(child, source)
			if fn == "require" {
				module = arg
			}
		}
	}

	if module == "" {
		return nil
	}

	importType := ImportRequire
	if len(symbols) > 0 {
		importType = ImportDestructure
	}

	return &Import{
		Module:  module,
		Raw:     nodeText(node, source),
		Type:    importType,
		Default: local,
		Symbols: symbols,
	}
}

func (a *TreeSitterAnalyzer) processCallWithStringArg(node *sitter.Node, source []byte) (string, string) {
	var fn, arg string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "identifier":
			fn = nodeText(child, source)
		case "arguments":
			for j := 0; j < int(child.ChildCount()); j++ {
				if child.Child(j).Type() == "string" {
					arg = stringValue(child.Child(j), source)
				}
			}
		}
	}

	return fn, arg
}

func (a *TreeSitterAnalyzer) extractFunctions(root *sitter.Node, source []byte) []Function {
	var functions []Function
	seen := make(map[string]bool)

	add := func(name string, node *sitter.Node) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		functions = append(functions, Function{
			Name: name,
			Line: int(node.StartPoint().Row) + 1,
		})
	}

	walkAST(root, func(n *sitter.Node) {
		switch n.Type() {
		case "function_declaration", "generator_function_declaration":
			add(childIdentifier(n, source), n)
		case "method_definition":
			for i := 0; i < int(n.ChildCount()); i++ {
				if n.Child(i).Type() == "property_identifier" {
					add(nodeText(n.Child(i), source), n)
				}
			}
		case "variable_declarator":
			// const foo = () => {} / const foo = function() {}
			var name string
			isFunction := false
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(i)
				switch child.Type() {
				case "identifier":
					name = nodeText(child, source)
				case "arrow_function", "function_expression", "function":
					isFunction = true
				}
			}
			if isFunction {
				add(name, n)
			}
		case "pair":
			// foo: function() {} / foo: () => {}
			var name string
			isFunction := false
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(i)
				switch child.Type() {
				case "property_identifier":
					name = nodeText(child, source)
				case "arrow_function", "function_expression", "function":
					isFunction = true
				}
			}
			if isFunction {
				add(name, n)
			}
		}
	})

	return functions
}

func (a *TreeSitterAnalyzer) extractExports(root *sitter.Node, source []byte) []Export {
	var exports []Export
	seen := make(map[string]bool)

	add := func(name string, isDefault bool) {
		key := name
		if isDefault {
			key = "default:" + name
		}
		if seen[key] {
			return
		}
		seen[key] = true
		exports = append(exports, Export{Name: name, IsDefault: isDefault})
	}

	walkAST(root, func(n *sitter.Node) {
		if n.Type() != "export_statement" {
			return
		}

		isDefault := false
		named := false
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			switch child.Type() {
			case "default":
				isDefault = true
			case "export_clause":
				named = true
				for j := 0; j < int(child.ChildCount()); j++ {
					if child.Child(j).Type() == "export_specifier" {
						spec := child.Child(j)
						name := ""
						for k := 0; k < int(spec.ChildCount()); k++ {
							if spec.Child(k).Type() == "identifier" {
								name = nodeText(spec.Child(k), source)
							}
						}
						add(name, false)
					}
				}
			case "function_declaration", "class_declaration", "generator_function_declaration":
				named = true
				add(childIdentifier(child, source), isDefault)
			case "lexical_declaration", "variable_declaration":
				named = true
				walkAST(child, func(decl *sitter.Node) {
					if decl.Type() == "variable_declarator" {
						add(childIdentifier(decl, source), false)
					}
				})
			}
		}

		if isDefault && !named {
			add("", true)
		}
	})

	return exports
}

// childIdentifier returns the text of the first identifier child.
func childIdentifier(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "identifier" {
			return nodeText(node.Child(i), source)
		}
	}
	return ""
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// stringValue removes quotes from string literals in AST nodes.
func stringValue(node *sitter.Node, source []byte) string {
	text := nodeText(node, source)
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'' || text[0] == '`') {
		text = text[1 : len(text)-1]
	}
	return text
}

// walkAST recursively traverses an AST and applies a visitor to each node.
func walkAST(node *sitter.Node, visitor func(*sitter.Node)) {
	visitor(node)

	for i := 0; i < int(node.ChildCount()); i++ {
		walkAST(node.Child(i), visitor)
	}
}

// AnalyzerFor returns the analyzer to use for a file. The grammar-aware
// analyzer handles plain JS/TS when enabled; everything else goes through
// regex heuristics.
func AnalyzerFor(path string, preferTreeSitter bool) SourceAnalyzer {
	if !preferTreeSitter {
		return NewRegexAnalyzer()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx":
		return NewTreeSitterAnalyzer()
	default:
		return NewRegexAnalyzer()
	}
}
