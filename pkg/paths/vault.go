package paths

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// markerRe matches a placeholder marker: a double-quoted decimal index.
var markerRe = regexp.MustCompile(`"(\d+)"`)

// Vault stashes substrings that must survive rewriting untouched. Each
// saved substring is addressed by its index through a marker of the form
// "<index>".
//
// A Vault belongs to a single compilation. It is not safe for concurrent use.
type Vault struct {
	saved []string
}

// Save stores s and returns its marker. Newlines in s are escaped to the two
// characters `\n` so the marker text stays on one line; Restore returns the
// escaped form, so a raw newline inside a string literal ends up as a \n
// escape in the rewritten body.
func (v *Vault) Save(s string) string {
	i := len(v.saved)
	v.saved = append(v.saved, strings.ReplaceAll(s, "\n", `\n`))
	return `"` + strconv.Itoa(i) + `"`
}

// Restore returns the substring saved under marker.
func (v *Vault) Restore(marker string) (string, bool) {
	if len(marker) < 3 || marker[0] != '"' || marker[len(marker)-1] != '"' {
		return "", false
	}
	i, err := strconv.Atoi(marker[1 : len(marker)-1])
	if err != nil || i < 0 || i >= len(v.saved) {
		return "", false
	}
	return v.saved[i], true
}

// RestoreAll replaces every marker in text with its saved substring.
// Markers that do not address a saved entry are left as they are.
func (v *Vault) RestoreAll(text string) string {
	if len(v.saved) == 0 {
		return text
	}
	return markerRe.ReplaceAllStringFunc(text, func(m string) string {
		if s, ok := v.Restore(m); ok {
			return s
		}
		return m
	})
}

// Reset clears the vault.
func (v *Vault) Reset() {
	for i := range v.saved {
		v.saved[i] = ""
	}
	v.saved = v.saved[:0]
}

// Len returns the number of saved substrings.
func (v *Vault) Len() int {
	return len(v.saved)
}

// vaultPool is a process-wide pool of *Vault.
//
// THREAD-SAFETY AUDIT: safe.
//   - sync.Pool is designed for concurrent use.
//   - Each compilation receives exclusive ownership of a vault through
//     AcquireVault; vaults are never shared between goroutines.
//   - Vaults are Reset on acquire, so no substring from a previous
//     compilation is visible.
var vaultPool = sync.Pool{
	New: func() interface{} { return new(Vault) },
}

// AcquireVault returns an empty vault from the pool.
func AcquireVault() *Vault {
	v := vaultPool.Get().(*Vault)
	v.Reset()
	return v
}

// ReleaseVault returns v to the pool. Vaults that grew very large are
// dropped to avoid retaining memory.
func ReleaseVault(v *Vault) {
	if v == nil || cap(v.saved) > 256 {
		return
	}
	v.Reset()
	vaultPool.Put(v)
}
