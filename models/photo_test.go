package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"frente", PhotoMandatory},
		{"traseira", PhotoMandatory},
		{"lateral_direita", PhotoMandatory},
		{"painel", PhotoMandatory},
		{"pneu_dianteiro_esquerdo", PhotoTire},
		{"pneu_step", PhotoTire},
		{"foto_obs_1", PhotoObservation},
		{"foto_obs_4", PhotoObservation},
		{"observacao_geral", PhotoObservation},
		{"documento_nota_fiscal", PhotoDocument},
		{"", PhotoMandatory},
		{"qualquer_coisa", PhotoMandatory},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCategory(tt.category))
		})
	}
}

// The tire rule is checked before the observation rule, so a category
// containing both markers classifies as tire.
func TestClassifyCategoryRuleOrder(t *testing.T) {
	assert.Equal(t, PhotoTire, ClassifyCategory("obs_pneu"))
	assert.Equal(t, PhotoTire, ClassifyCategory("pneu_observacao"))
}

// A category name that merely contains the document slot name is not a
// document: that rule is an exact match.
func TestClassifyCategoryDocumentExact(t *testing.T) {
	assert.Equal(t, PhotoMandatory, ClassifyCategory("documento_nota_fiscal_2"))
	assert.Equal(t, PhotoDocument, ClassifyCategory(DocumentCategory))
}

// Classification is a pure function of the category: same input, same
// output, no matter how often or in what order.
func TestClassifyCategoryDeterministic(t *testing.T) {
	categories := []string{"frente", "pneu_traseiro_direito", "foto_obs_2", DocumentCategory}
	for _, c := range categories {
		first := ClassifyCategory(c)
		for i := 0; i < 100; i++ {
			assert.Equal(t, first, ClassifyCategory(c))
		}
	}
}

func TestClassificationRank(t *testing.T) {
	assert.Less(t, ClassificationRank(PhotoMandatory), ClassificationRank(PhotoTire))
	assert.Less(t, ClassificationRank(PhotoTire), ClassificationRank(PhotoObservation))
	assert.Less(t, ClassificationRank(PhotoObservation), ClassificationRank(PhotoDocument))
}
