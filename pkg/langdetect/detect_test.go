package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/texoutline/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "empty", content: "", expected: ""},
		{name: "whitespace", content: " \n\t", expected: ""},
		{name: "shebang bash", content: "#!/bin/bash\necho hello", expected: "bash"},
		{name: "shebang python", content: "#!/usr/bin/env python3\nprint('hello')", expected: "python"},
		{name: "go", content: "package main\n\nfunc main() {}\n", expected: "go"},
		{name: "c", content: "#include <stdio.h>\nint main(void) { return 0; }", expected: "c"},
		{name: "c++", content: "#include <iostream>\nint main() { std::cout << 1; }", expected: "c++"},
		{name: "python", content: "import numpy as np\nx = np.zeros(3)", expected: "python"},
		{name: "rust", content: "fn main() {\n    println!(\"hi\");\n}", expected: "rust"},
		{name: "r", content: "library(ggplot2)\nx <- c(1, 2)", expected: "r"},
		{name: "java", content: "class A { public static void main(String[] a) {} }", expected: "java"},
		{name: "sql", content: "SELECT * FROM t;", expected: "sql"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, langdetect.Detect(testCase.content))
		})
	}
}

func TestForFile(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "python", langdetect.ForFile("code/solver.py"))
	assert.Equal(t, "go", langdetect.ForFile("main.go"))
	assert.Empty(t, langdetect.ForFile("README"))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{input: "Shell", expected: "bash"},
		{input: "Python", expected: "python"},
		{input: "[Sharp]C", expected: "csharp"},
		{input: " Octave ", expected: "matlab"},
		{input: "C++", expected: "c++"},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.expected, langdetect.Normalize(testCase.input))
	}
}
