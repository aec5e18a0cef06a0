package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// normalKL returns KL(N(mu1, sigma1) || N(mu2, sigma2))
func normalKL(mu1, sigma1, mu2, sigma2 float64) float64 {
	return math.Log(sigma2/sigma1) +
		(sigma1*sigma1+(mu1-mu2)*(mu1-mu2))/(2*sigma2*sigma2) - 0.5
}

func TestSampleKL(t *testing.T) {
	const numSamples = 500_000

	dist1 := distuv.Normal{Mu: 0, Sigma: 1}
	dist2 := distuv.Normal{Mu: 1, Sigma: 2, Src: rand.NewSource(8)}

	probs1 := make([]float64, numSamples)
	probs2 := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		x := dist2.Rand()
		probs1[i] = dist1.Prob(x)
		probs2[i] = dist2.Prob(x)
	}

	forward, err := SampleForwardKL(probs1, probs2)
	require.NoError(t, err)
	want := normalKL(0, 1, 1, 2)
	require.InEpsilon(t, want, stat.Mean(forward, nil), 0.02)

	reverse, err := SampleReverseKL(probs1, probs2)
	require.NoError(t, err)
	want = normalKL(1, 2, 0, 1)
	require.InEpsilon(t, want, stat.Mean(reverse, nil), 0.02)
}

func TestSampleKLNonNegative(t *testing.T) {
	p := []float64{0.1, 0.5, 0.9, 2}
	q := []float64{0.4, 0.5, 0.3, 1}

	forward, err := SampleForwardKL(p, q)
	require.NoError(t, err)
	reverse, err := SampleReverseKL(p, q)
	require.NoError(t, err)

	for i := range p {
		require.GreaterOrEqual(t, forward[i], 0.0)
		require.GreaterOrEqual(t, reverse[i], 0.0)
	}
	require.Equal(t, 0.0, forward[1])
	require.Equal(t, 0.0, reverse[1])

	_, err = SampleForwardKL(p, q[:1])
	require.Error(t, err)
}
