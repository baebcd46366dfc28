package langdetect

import (
	"testing"
)

func BenchmarkDetectByExtension(b *testing.B) {
	code := []byte("int main(void) {\n\treturn 0;\n}\n")
	b.ResetTimer()
	for range b.N {
		Detect("main.c", code)
	}
}

func BenchmarkDetectStdin(b *testing.B) {
	code := []byte(`#include <vector>

namespace app {
std::vector<int> values;
}`)
	b.ResetTimer()
	for range b.N {
		Detect("", code)
	}
}

func BenchmarkDetectEmpty(b *testing.B) {
	b.ResetTimer()
	for range b.N {
		Detect("", nil)
	}
}
