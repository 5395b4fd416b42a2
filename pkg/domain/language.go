// Package domain defines the core types shared by the extraction engine
// and the governance validators.
package domain

// Language represents a source language with a structural analyzer.
type Language string

// Supported languages for structural flag extraction.
const (
	LanguageCSharp     Language = "csharp"
	LanguageJava       Language = "java"
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
)
