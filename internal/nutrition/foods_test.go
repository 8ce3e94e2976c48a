package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupFood_IgnoresCaseAndSpacing(t *testing.T) {
	f, ok := LookupFood("  chicken   breast (COOKED) ")
	require.True(t, ok)
	assert.Equal(t, "Chicken Breast (cooked)", f.Name)
	assert.False(t, f.IsSupplement())

	_, ok = LookupFood("cheeseburger")
	assert.False(t, ok)
}

func TestFood_Portion(t *testing.T) {
	f, ok := LookupFood("Chicken Breast (cooked)")
	require.True(t, ok)

	p := f.Portion(200)
	assert.InDelta(t, 62, p.Protein, 1e-9)
	assert.InDelta(t, 330, p.Calories, 1e-9)
	assert.Equal(t, Nutrients{}, f.Portion(-50))
}

func TestFoods_SortedAndFiltered(t *testing.T) {
	all := Foods("")
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}

	supps := Foods("Supplement")
	require.NotEmpty(t, supps)
	for _, f := range supps {
		assert.True(t, f.IsSupplement(), f.Name)
	}
}

func TestFoods_ReturnsCopy(t *testing.T) {
	first := Foods("")
	first[0].Per100g.Protein = 9999

	again := Foods("")
	assert.NotEqual(t, 9999.0, again[0].Per100g.Protein)
}

func TestParseFoods_RejectsDuplicates(t *testing.T) {
	_, err := parseFoods([]byte("- name: Egg\n- name: egg\n"))
	assert.Error(t, err)

	_, err = parseFoods([]byte("- category: protein\n"))
	assert.Error(t, err)
}
