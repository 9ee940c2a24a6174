package render

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMetrics(t *testing.T) {
	m, err := LoadMetrics()
	require.NoError(t, err)

	// Helvetica: M=833, i=222, space=278. Helvetica-Bold: i=278.
	assert.InDelta(t, 10.55, m.MeasureTextWidth("Mi", FaceRegular, 10), 1e-9)
	assert.InDelta(t, 2.78, m.MeasureTextWidth(" ", FaceRegular, 10), 1e-9)
	assert.InDelta(t, 11.11, m.MeasureTextWidth("Mi", FaceBold, 10), 1e-9)
	assert.Zero(t, m.MeasureTextWidth("", FaceBold, 10))
}

func TestMeasureTextWidth_ScalesWithSize(t *testing.T) {
	m, err := DefaultMetrics()
	require.NoError(t, err)

	w10 := m.MeasureTextWidth("RECEIPT", FaceBold, 10)
	w20 := m.MeasureTextWidth("RECEIPT", FaceBold, 20)
	assert.InDelta(t, 2*w10, w20, 1e-9)
	// Bold is wider for lowercase r and c; the capitals of RECEIPT match.
	assert.Greater(t, m.MeasureTextWidth("receipt", FaceBold, 10), m.MeasureTextWidth("receipt", FaceRegular, 10))
}

func TestMeasureTextWidth_NonASCII(t *testing.T) {
	m, err := DefaultMetrics()
	require.NoError(t, err)

	// The en dash is in cp1252 (0x96) and is 556 units wide in Helvetica.
	assert.InDelta(t, 5.56, m.MeasureTextWidth("–", FaceRegular, 10), 1e-9)
	assert.Equal(t, "\x96", EncodeText("–"))
}

func TestDefaultMetrics_ConcurrentUse(t *testing.T) {
	m, err := DefaultMetrics()
	require.NoError(t, err)
	want := m.MeasureTextWidth("Signature of Depositor", FaceBold, 10)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := DefaultMetrics()
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, want, again.MeasureTextWidth("Signature of Depositor", FaceBold, 10))
		}()
	}
	wg.Wait()
}

func TestColorRGB255(t *testing.T) {
	r, g, b := DefaultTheme().Palette.OnPrimary.RGB255()
	assert.Equal(t, []int{255, 255, 255}, []int{r, g, b})

	r, g, b = Color{-1, 0.5, 2}.RGB255()
	assert.Equal(t, []int{0, 128, 255}, []int{r, g, b})
}
