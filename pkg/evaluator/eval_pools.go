package evaluator

import (
	"bytes"
	"regexp"
	"sync"
)

// bufPool is a process-wide pool of *bytes.Buffer used when joining array
// elements and in JSON.stringify.
//
// THREAD-SAFETY AUDIT: safe.
//   - sync.Pool is designed for concurrent use; Get/Put are internally locked.
//   - Each caller receives exclusive ownership of a buffer for the duration of its
//     use; the buffer is never shared between goroutines.
//   - Buffers are always Reset via acquireBuf() before use, so no residual state
//     from a previous owner is visible.
//   - Callers copy the contents out (buf.String()) before releasing.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// acquireBuf returns a reset buffer from the pool.
func acquireBuf() *bytes.Buffer {
	b := bufPool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// releaseBuf returns a buffer to the pool. Very large buffers are discarded
// to prevent unbounded memory retention.
func releaseBuf(b *bytes.Buffer) {
	if b.Cap() <= 64*1024 { // 64 KB ceiling
		bufPool.Put(b)
	}
}

// mustCompileRegex compiles a static pattern, panicking on error.
// Use this for package-level var declarations of known-good patterns.
func mustCompileRegex(pattern string) *regexp.Regexp {
	re, err := regexp.Compile(pattern)
	if err != nil {
		panic("evaluator: failed to compile static regex: " + err.Error())
	}
	return re
}
