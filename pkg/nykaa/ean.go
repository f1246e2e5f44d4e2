package nykaa

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
)

// maxGenerateRetries bounds how many times Registry.Generate re-rolls
// when it collides with a code already issued this session.
const maxGenerateRetries = 10

// checksum computes the check digit for the first 12 digits. Digits
// at even indices (positions 1, 3, ... counting from the left) carry
// weight 3, the rest weight 1.
func checksum(digits []int) int {
	sum := 0
	for i, d := range digits {
		if i%2 == 0 {
			sum += d * 3
		} else {
			sum += d
		}
	}
	return (10 - sum%10) % 10
}

// ValidateEAN13 reports whether ean is a well formed 13-digit code
// with a correct check digit.
func ValidateEAN13(ean string) bool {
	if len(ean) != 13 {
		return false
	}
	digits := make([]int, 13)
	for i, r := range ean {
		if r < '0' || r > '9' {
			return false
		}
		digits[i] = int(r - '0')
	}
	return checksum(digits[:12]) == digits[12]
}

func randomDigits(n int) ([]int, error) {
	digits := make([]int, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return nil, fmt.Errorf("random digit: %w", err)
		}
		digits[i] = int(v.Int64())
	}
	return digits, nil
}

// GenerateEAN13 returns a random valid EAN-13 code.
func GenerateEAN13() (string, error) {
	digits, err := randomDigits(12)
	if err != nil {
		return "", err
	}
	digits = append(digits, checksum(digits))
	out := make([]byte, 13)
	for i, d := range digits {
		out[i] = byte('0' + d)
	}
	return string(out), nil
}

// Registry issues EAN-13 codes that are unique within an export
// session. Clear it between exports so codes from a previous run do
// not shrink the dedup space.
type Registry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Generate returns a fresh EAN-13 not issued before by this registry.
func (r *Registry) Generate() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt <= maxGenerateRetries; attempt++ {
		ean, err := GenerateEAN13()
		if err != nil {
			return "", err
		}
		if _, dup := r.seen[ean]; dup {
			continue
		}
		r.seen[ean] = struct{}{}
		return ean, nil
	}
	return "", fmt.Errorf("ean generation: no unique code after %d retries", maxGenerateRetries)
}

// GenerateBatch returns n unique codes, failing fast on the first
// generation error.
func (r *Registry) GenerateBatch(n int) ([]string, error) {
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ean, err := r.Generate()
		if err != nil {
			return nil, err
		}
		codes = append(codes, ean)
	}
	return codes, nil
}

// Clear forgets every code issued so far.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = make(map[string]struct{})
}

// Len reports how many codes the registry has issued this session.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
