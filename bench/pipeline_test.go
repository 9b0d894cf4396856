package bench

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/saworbit/linecheck/pkg/stream"
	"github.com/saworbit/linecheck/pkg/textfile"
)

func writeInput(b *testing.B, name string, lines int) string {
	b.Helper()
	var sb strings.Builder
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&sb, "%d %d %d %d %d\n", i%7, i%3, i%11, i%5, i%13)
	}
	path := filepath.Join(b.TempDir(), name)
	if err := textfile.WriteString(path, sb.String()); err != nil {
		b.Fatalf("write input: %v", err)
	}
	return path
}

// benchmarkRead reports lines/sec for loading a whole file into memory.
func benchmarkRead(b *testing.B, name string, lines int) {
	path := writeInput(b, name, lines)
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		if _, err := textfile.ReadLines(path); err != nil {
			b.Fatal(err)
		}
	}
	elapsed := time.Since(start)
	if elapsed == 0 {
		elapsed = time.Nanosecond
	}
	b.ReportMetric(float64(b.N*lines)/elapsed.Seconds(), "lines/sec")
}

// benchmarkStream reports lines/sec for pulling the same file through the
// prefix and print handlers one record at a time.
func benchmarkStream(b *testing.B, name string, lines int) {
	path := writeInput(b, name, lines)
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		op := stream.NewOperator(stream.FileSource{Path: path}, zap.NewNop().Sugar(),
			stream.Prepend(stream.DefaultPrefix),
			stream.Print(io.Discard),
		)
		if _, err := op.Execute(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
	elapsed := time.Since(start)
	if elapsed == 0 {
		elapsed = time.Nanosecond
	}
	b.ReportMetric(float64(b.N*lines)/elapsed.Seconds(), "lines/sec")
}

func BenchmarkReadLinesPlain(b *testing.B) {
	b.ReportAllocs()
	benchmarkRead(b, "input.txt", 10_000)
}

func BenchmarkReadLinesZstd(b *testing.B) {
	b.ReportAllocs()
	benchmarkRead(b, "input.txt.zst", 10_000)
}

func BenchmarkStreamPipeline(b *testing.B) {
	b.ReportAllocs()
	benchmarkStream(b, "input.txt", 10_000)
}
