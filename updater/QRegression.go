// Package updater implements gradient based updates of value function
// approximators
package updater

import (
	"fmt"
	"math"

	"github.com/LondonNode/Pearl/network"
	"gonum.org/v1/gonum/floats"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Log records the outcome of a single gradient step
type Log struct {
	Loss     float64
	GradNorm float64 // Global gradient norm before clipping
}

// QRegression regresses the action values of a network toward given
// targets. Only the value of the action taken in each state is
// regressed:
//
//	L = mean((Q(s, a) - target)²)
type QRegression struct {
	net    network.NeuralNet
	vm     G.VM
	solver G.Solver

	selectedActions *G.Node // One-hot actions, shape (batch, actions)
	targets         *G.Node
	loss            *G.Node
	lossVal         G.Value

	numActions int
	batchSize  int
	maxGrad    float64 // <= 0 if no gradient norm clipping
}

// NewQRegression adds the regression loss and its gradient to the graph
// of net and compiles the graph into a VM. The number of actions is
// the number of outputs of net. If maxGrad > 0, the global norm of the
// gradient is clipped to maxGrad before each solver step.
//
// net must not be used with any other VM after calling this function.
func NewQRegression(net network.NeuralNet, solver G.Solver,
	maxGrad float64) (*QRegression, error) {
	if solver == nil {
		return nil, fmt.Errorf("newqregression: nil solver")
	}
	g := net.Graph()
	batchSize := net.BatchSize()
	numActions := net.Outputs()

	selectedActions := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithName("actionSelected"),
		G.WithShape(batchSize, numActions),
		G.WithInit(G.Zeroes()),
	)
	targets := G.NewVector(
		g,
		tensor.Float64,
		G.WithName("updateTarget"),
		G.WithShape(batchSize),
		G.WithInit(G.Zeroes()),
	)

	// Action values of the selected actions
	selectedValues, err := G.HadamardProd(net.Prediction(), selectedActions)
	if err != nil {
		return nil, fmt.Errorf("newqregression: %v", err)
	}
	selectedValues, err = G.Sum(selectedValues, 1)
	if err != nil {
		return nil, fmt.Errorf("newqregression: %v", err)
	}

	// Mean squared error
	losses := G.Must(G.Sub(targets, selectedValues))
	losses = G.Must(G.Square(losses))
	loss := G.Must(G.Mean(losses))

	if _, err := G.Grad(loss, net.Learnables()...); err != nil {
		return nil, fmt.Errorf("newqregression: could not compute "+
			"gradient: %v", err)
	}

	q := &QRegression{
		net:             net,
		solver:          solver,
		selectedActions: selectedActions,
		targets:         targets,
		loss:            loss,
		numActions:      numActions,
		batchSize:       batchSize,
		maxGrad:         maxGrad,
	}
	G.Read(loss, &q.lossVal)

	q.vm = G.NewTapeMachine(g, G.BindDualValues(net.Learnables()...))
	return q, nil
}

// Step performs one gradient step on a batch of observations, the
// actions taken in them, and their update targets. Observations are
// given in row major order. Non-finite losses are not checked for and
// are returned as is.
func (q *QRegression) Step(observations []float64, actions []int,
	targets []float64) (Log, error) {
	if len(actions) != q.batchSize || len(targets) != q.batchSize {
		return Log{}, fmt.Errorf("step: invalid batch size\n\twant(%v)"+
			"\n\thave(actions: %v, targets: %v)", q.batchSize, len(actions),
			len(targets))
	}

	oneHot := make([]float64, q.batchSize*q.numActions)
	for i, a := range actions {
		if a < 0 || a >= q.numActions {
			return Log{}, fmt.Errorf("step: action out of range\n\t"+
				"want([0, %v))\n\thave(%v)", q.numActions, a)
		}
		oneHot[i*q.numActions+a] = 1.0
	}

	if err := q.net.SetInput(observations); err != nil {
		return Log{}, fmt.Errorf("step: %v", err)
	}
	err := G.Let(q.selectedActions, tensor.New(
		tensor.WithShape(q.batchSize, q.numActions),
		tensor.WithBacking(oneHot),
	))
	if err != nil {
		return Log{}, fmt.Errorf("step: could not set actions: %v", err)
	}
	err = G.Let(q.targets, tensor.New(
		tensor.WithShape(q.batchSize),
		tensor.WithBacking(targets),
	))
	if err != nil {
		return Log{}, fmt.Errorf("step: could not set targets: %v", err)
	}

	defer q.vm.Reset()
	if err := q.vm.RunAll(); err != nil {
		return Log{}, fmt.Errorf("step: %v", err)
	}

	model := q.net.Model()
	norm, err := clipGradNorm(model, q.maxGrad)
	if err != nil {
		return Log{}, fmt.Errorf("step: %v", err)
	}
	if err := q.solver.Step(model); err != nil {
		return Log{}, fmt.Errorf("step: %v", err)
	}

	return Log{Loss: scalar(q.lossVal), GradNorm: norm}, nil
}

// Network returns the network being updated
func (q *QRegression) Network() network.NeuralNet {
	return q.net
}

// Close closes the VM of the updater
func (q *QRegression) Close() error {
	return q.vm.Close()
}

// clipGradNorm computes the global L2 norm of the gradients in model
// and, if maxNorm > 0 and the norm exceeds it, scales every gradient in
// place so that the global norm is maxNorm. The norm before clipping is
// returned.
func clipGradNorm(model []G.ValueGrad, maxNorm float64) (float64, error) {
	grads := make([][]float64, 0, len(model))
	var sqNorm float64
	for _, vg := range model {
		grad, err := vg.Grad()
		if err != nil {
			return 0, fmt.Errorf("clipgradnorm: %v", err)
		}
		data, ok := grad.Data().([]float64)
		if !ok {
			return 0, fmt.Errorf("clipgradnorm: gradient is not a float64 "+
				"slice\n\thave(%T)", grad.Data())
		}
		sqNorm += floats.Dot(data, data)
		grads = append(grads, data)
	}

	norm := math.Sqrt(sqNorm)
	if maxNorm <= 0 || !(norm > maxNorm) {
		return norm, nil
	}

	coeff := maxNorm / (norm + 1e-6)
	for _, data := range grads {
		floats.Scale(coeff, data)
	}
	return norm, nil
}

// scalar returns the float64 stored in a scalar value
func scalar(v G.Value) float64 {
	switch data := v.Data().(type) {
	case float64:
		return data
	case []float64:
		return data[0]
	}
	return math.NaN()
}
