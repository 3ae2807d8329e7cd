// Package intern maps strings to stable integer tokens and back.
//
// Tokens avoid string comparison on control paths. All interning happens on
// the control thread during setup; once a processing call is running the
// interner is sealed and only hands out tokens it already knows.
package intern

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/justyntemme/nativeplug/pkg/framework/debug"
)

// Token is an interned string handle. Zero is reserved as undefined.
type Token uint32

// Undefined is never a valid mapping target.
const Undefined Token = 0

// ErrUnknownToken is returned when resolving a token that was never interned.
var ErrUnknownToken = errors.New("intern: unknown token")

// table is an immutable snapshot; writers replace it wholesale.
type table struct {
	byString map[string]Token
	byToken  []string // index = token-1
}

// Interner is a bidirectional string/token registry. Readers never lock.
type Interner struct {
	mu     sync.Mutex
	tab    atomic.Pointer[table]
	sealed atomic.Bool
	misses atomic.Uint64
	log    *debug.Logger
}

// New creates an empty interner.
func New() *Interner {
	in := &Interner{log: debug.Default()}
	in.tab.Store(&table{byString: map[string]Token{}})
	return in
}

// SetLogger replaces the logger used for sealed-intern warnings.
func (in *Interner) SetLogger(l *debug.Logger) {
	if l != nil {
		in.log = l
	}
}

// Intern returns the token for s, allocating one on first sight. While sealed
// an unseen string yields Undefined instead of allocating.
func (in *Interner) Intern(s string) Token {
	if tok, ok := in.Lookup(s); ok {
		return tok
	}
	if in.sealed.Load() {
		in.misses.Add(1)
		return Undefined
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	old := in.tab.Load()
	if tok, ok := old.byString[s]; ok {
		return tok
	}

	next := &table{
		byString: make(map[string]Token, len(old.byString)+1),
		byToken:  make([]string, len(old.byToken), len(old.byToken)+1),
	}
	for k, v := range old.byString {
		next.byString[k] = v
	}
	copy(next.byToken, old.byToken)

	next.byToken = append(next.byToken, s)
	tok := Token(len(next.byToken))
	next.byString[s] = tok
	in.tab.Store(next)
	return tok
}

// InternAll interns each string in order.
func (in *Interner) InternAll(strs ...string) []Token {
	out := make([]Token, len(strs))
	for i, s := range strs {
		out[i] = in.Intern(s)
	}
	return out
}

// Lookup returns the token for an already interned string without allocating.
func (in *Interner) Lookup(s string) (Token, bool) {
	tok, ok := in.tab.Load().byString[s]
	return tok, ok
}

// Resolve returns the string behind tok.
func (in *Interner) Resolve(tok Token) (string, error) {
	tab := in.tab.Load()
	if tok == Undefined || int(tok) > len(tab.byToken) {
		return "", ErrUnknownToken
	}
	return tab.byToken[tok-1], nil
}

// Len returns the number of interned strings.
func (in *Interner) Len() int {
	return len(in.tab.Load().byToken)
}

// Seal forbids new allocations until Unseal.
func (in *Interner) Seal() {
	in.sealed.Store(true)
}

// Unseal allows new allocations again and reports sealed misses.
func (in *Interner) Unseal() {
	in.sealed.Store(false)
	if n := in.misses.Swap(0); n > 0 {
		in.log.Warn("intern: %d lookups of unseen strings during processing", n)
	}
}

// Sealed reports whether the interner is sealed.
func (in *Interner) Sealed() bool {
	return in.sealed.Load()
}

// Reset drops every token. Used when the owning session is torn down.
func (in *Interner) Reset() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.tab.Store(&table{byString: map[string]Token{}})
	in.sealed.Store(false)
	in.misses.Store(0)
}
