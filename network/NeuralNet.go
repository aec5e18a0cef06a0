// Package network implements neural network function approximators on
// Gorgonia computational graphs
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet is a neural network whose forward pass is stored in its
// own computational graph. A VM compiled from Graph() must be run
// after SetInput() and before reading Output().
type NeuralNet interface {
	Graph() *G.ExprGraph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int
	SetInput([]float64) error

	// Set sets the weights of the network to be a copy of the weights
	// of another network with the same architecture
	Set(NeuralNet) error

	// Polyak sets the weights of the network to a polyak average of
	// its own weights and those of another network
	Polyak(NeuralNet, float64) error

	Learnables() G.Nodes
	Model() []G.ValueGrad
	Output() G.Value
	Prediction() *G.Node
}
