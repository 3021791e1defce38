package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	v := NewVerifier("secret")
	got := v.Sign("order_1", "pay_1")
	assert.Len(t, got, 64)
	assert.Equal(t, got, v.Sign("order_1", "pay_1"))
	assert.NotEqual(t, got, v.Sign("order_1", "pay_2"))
	assert.NotEqual(t, got, NewVerifier("other").Sign("order_1", "pay_1"))
}

func TestVerify(t *testing.T) {
	v := NewVerifier("secret")
	good := v.Sign("order_1", "pay_1")

	assert.NoError(t, v.Verify("order_1", "pay_1", good))
	assert.NoError(t, v.Verify("order_1", "pay_1", strings.ToUpper(good)))

	tampered := []byte(good)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}
	cases := map[string][3]string{
		"tampered":      {"order_1", "pay_1", string(tampered)},
		"swapped ids":   {"pay_1", "order_1", good},
		"empty sig":     {"order_1", "pay_1", ""},
		"empty order":   {"", "pay_1", good},
		"truncated sig": {"order_1", "pay_1", good[:10]},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, v.Verify(c[0], c[1], c[2]), ErrSignatureInvalid)
		})
	}
}
