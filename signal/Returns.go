// Package signal implements estimators of returns, advantages, and
// divergences used to build learning targets.
package signal

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TDZero computes the one-step bootstrapped TD target for a batch of
// transitions:
//
//	target = r + ℽ * (1 - done) * next
//
// where next is the estimated value of the next state. The done flags
// mask the bootstrap term so that terminal transitions have a target
// equal to their reward.
func TDZero(rewards, nextValues, dones []float64,
	gamma float64) ([]float64, error) {
	if err := sameLength("tdzero", rewards, nextValues, dones); err != nil {
		return nil, err
	}

	targets := make([]float64, len(rewards))
	for i := range targets {
		targets[i] = rewards[i] + gamma*(1-dones[i])*nextValues[i]
	}
	return targets, nil
}

// BootstrappedReturns computes the discounted return of each row of
// rewards, bootstrapping from lastValues unless the corresponding
// lastDones flag is set. Row i of rewards holds the rewards of one
// trajectory in temporal order.
func BootstrappedReturns(rewards *mat.Dense, lastValues, lastDones []float64,
	gamma float64) ([]float64, error) {
	rows, cols := rewards.Dims()
	if err := sameLength("bootstrappedreturns", lastValues,
		lastDones); err != nil {
		return nil, err
	}
	if len(lastValues) != rows {
		return nil, fmt.Errorf("bootstrappedreturns: invalid number of "+
			"last values\n\twant(%v)\n\thave(%v)", rows, len(lastValues))
	}

	returns := make([]float64, rows)
	for i := 0; i < rows; i++ {
		ret := (1 - lastDones[i]) * lastValues[i]
		for j := cols - 1; j >= 0; j-- {
			ret = rewards.At(i, j) + gamma*ret
		}
		returns[i] = ret
	}
	return returns, nil
}

// GAE computes generalized advantage estimates, GAE(λ), and the
// corresponding returns for a single trajectory following
// https://arxiv.org/abs/1506.02438. The oldValues are estimates of the
// states visited, newValues those of the next states, and dones mark
// transitions that ended an episode.
func GAE(rewards, oldValues, newValues, dones []float64, gamma,
	lambda float64) (advantages, returns []float64, err error) {
	err = sameLength("gae", rewards, oldValues, newValues, dones)
	if err != nil {
		return nil, nil, err
	}

	n := len(rewards)
	advantages = make([]float64, n)
	returns = make([]float64, n)

	var gae float64
	for i := n - 1; i >= 0; i-- {
		notDone := 1 - dones[i]
		delta := rewards[i] + gamma*notDone*newValues[i] - oldValues[i]
		gae = delta + gamma*lambda*notDone*gae
		advantages[i] = gae
	}

	floats.AddTo(returns, advantages, oldValues)
	return advantages, returns, nil
}

// SoftQTarget computes the entropy regularized TD target of soft
// Q-learning:
//
//	target = r + ℽ * (1 - done) * (q - α * log π(a'|s'))
func SoftQTarget(rewards, dones, qValues, logProbs []float64, alpha,
	gamma float64) ([]float64, error) {
	err := sameLength("softqtarget", rewards, dones, qValues, logProbs)
	if err != nil {
		return nil, err
	}

	targets := make([]float64, len(rewards))
	for i := range targets {
		soft := qValues[i] - alpha*logProbs[i]
		targets[i] = rewards[i] + gamma*(1-dones[i])*soft
	}
	return targets, nil
}

// DiscountCumSum computes and returns the discounted cumulative sum
// of all elements of x. Given x = [x0 x1 x2 ... xN] and discount ℽ,
// this function computes:
//
//	[
//		x0 + ℽ x1 + ℽ^2 x2 + ... + ℽ^N xN
//		x1 + ℽ x2 + ... + ℽ^(N-1) xN
//		...
//		xN
//	]
func DiscountCumSum(x []float64, discount float64) []float64 {
	cumSums := make([]float64, len(x))

	var sum float64
	for i := len(x) - 1; i >= 0; i-- {
		sum = x[i] + discount*sum
		cumSums[i] = sum
	}
	return cumSums
}

// sameLength returns an error if all slices do not have the same length
func sameLength(op string, slices ...[]float64) error {
	for i := 1; i < len(slices); i++ {
		if len(slices[i]) != len(slices[0]) {
			return fmt.Errorf("%v: argument %v has invalid length"+
				"\n\twant(%v)\n\thave(%v)", op, i, len(slices[0]),
				len(slices[i]))
		}
	}
	return nil
}
