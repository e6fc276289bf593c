package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmorales/inventario-pos/pkg/textutil"
)

func TestFold_EliminaTildes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Código", "Codigo"},
		{"azúcar", "azucar"},
		{"CAFÉ", "CAFE"},
		{"sin tildes", "sin tildes"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, textutil.Fold(tt.in))
	}
}

func TestNormalizeSKU(t *testing.T) {
	assert.Equal(t, "CAFE-500", textutil.NormalizeSKU("  café-500 "))
	assert.Equal(t, "AZUCAR-1K", textutil.NormalizeSKU("Azúcar-1k"))
	assert.Equal(t, "ABC", textutil.NormalizeSKU("abc"))
}

func TestNormalizeTerm(t *testing.T) {
	assert.Equal(t, "cafe molido", textutil.NormalizeTerm("  Café Molido "))
	assert.Equal(t, "", textutil.NormalizeTerm("   "))
}
