package signal

import (
	"math"
)

// SampleForwardKL returns single sample, unbiased estimates of the
// forward KL divergence KL(p || q) for samples drawn from q. The
// argument targetProbs holds p(x) and sampleProbs holds q(x) for each
// sample x. Each estimate is
//
//	r log r - (r - 1), where r = p(x) / q(x)
//
// which is non-negative and has expectation KL(p || q) under q.
func SampleForwardKL(targetProbs, sampleProbs []float64) ([]float64, error) {
	if err := sameLength("sampleforwardkl", targetProbs,
		sampleProbs); err != nil {
		return nil, err
	}

	estimates := make([]float64, len(targetProbs))
	for i := range estimates {
		ratio := targetProbs[i] / sampleProbs[i]
		estimates[i] = ratio*math.Log(ratio) - (ratio - 1)
	}
	return estimates, nil
}

// SampleReverseKL returns single sample, unbiased estimates of the
// reverse KL divergence KL(q || p) for samples drawn from q. The
// argument targetProbs holds p(x) and sampleProbs holds q(x) for each
// sample x. Each estimate is
//
//	(r - 1) - log r, where r = p(x) / q(x)
func SampleReverseKL(targetProbs, sampleProbs []float64) ([]float64, error) {
	if err := sameLength("samplereversekl", targetProbs,
		sampleProbs); err != nil {
		return nil, err
	}

	estimates := make([]float64, len(targetProbs))
	for i := range estimates {
		ratio := targetProbs[i] / sampleProbs[i]
		estimates[i] = (ratio - 1) - math.Log(ratio)
	}
	return estimates, nil
}
