package network

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// multiHeadMLP implements a multi-layered perceptron with multiple
// output nodes, one for each value that should be predicted.
type multiHeadMLP struct {
	g          *G.ExprGraph
	layers     []*fcLayer
	input      *G.Node
	numOutputs int
	numInputs  int
	batchSize  int

	// Architecture, needed for cloning
	hiddenSizes []int
	biases      []bool
	activations []*Activation

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// NewMultiHeadMLP creates and returns a new multi-layered perceptron
// that has multiple output nodes, The number of outputs nodes is equal
// to outputs. The graph parameter g is populated with the MLP.
//
// The MLP has number of layers equal to len(hiddenSizes) + 1. A final
// layer is always added such that given any input, the output will
// be outputs. The final layer also contains a bias unit, and bias units
// for each additional hidden layer is specified by biases. The final
// layer will contain no activations, and the activations of additional
// hidden layers is specified by activations. The parameter init
// determines the weight initialization scheme.
//
// The function works such that for index i, hiddenSizes[i] is the
// number of nodes in hidden layer i; biases[i] is true if the
// hidden layer will contain a bias unit and false otherwise; and
// activations[i] is the activation function for hidden layer i.
func NewMultiHeadMLP(features, batch, outputs int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, init G.InitWFn,
	activations []*Activation) (NeuralNet, error) {
	// Ensure we have one activation per layer
	if len(hiddenSizes) != len(activations) {
		msg := "newmultiheadmlp: invalid number of activations" +
			"\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}

	// Ensure one bias bool per layer
	if len(hiddenSizes) != len(biases) {
		msg := "newmultiheadmlp: invalid number of biases\n\twant(%d)" +
			"\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(biases))
	}

	if features <= 0 || batch <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("newmultiheadmlp: features (%v), batch (%v) "+
			"and outputs (%v) must be positive", features, batch, outputs)
	}

	// Set up the input node
	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	// Add a final linear layer with no activation so that the network
	// predicts one value per output head
	layers := make([]*fcLayer, 0, len(hiddenSizes)+1)
	in := features
	for i := range hiddenSizes {
		layers = append(layers, newfcLayer(g, in, hiddenSizes[i], biases[i],
			activations[i], init, i))
		in = hiddenSizes[i]
	}
	layers = append(layers, newfcLayer(g, in, outputs, true, Identity(), init,
		len(hiddenSizes)))

	network := &multiHeadMLP{
		g:           g,
		layers:      layers,
		input:       input,
		numOutputs:  outputs,
		numInputs:   features,
		batchSize:   batch,
		hiddenSizes: hiddenSizes,
		biases:      biases,
		activations: activations,
	}

	if _, err := network.fwd(input); err != nil {
		msg := "newmultiheadmlp: could not compute forward pass: %v"
		return nil, fmt.Errorf(msg, err)
	}

	return network, nil
}

// Graph returns the computational graph of the multiHeadMLP.
func (e *multiHeadMLP) Graph() *G.ExprGraph {
	return e.g
}

// Clone clones a multiHeadMLP
func (e *multiHeadMLP) Clone() (NeuralNet, error) {
	return e.CloneWithBatch(e.batchSize)
}

// CloneWithBatch clones a multiHeadMLP into a new computational graph
// with a new input batch size. The clone's weights are copies of the
// weights of e.
func (e *multiHeadMLP) CloneWithBatch(batchSize int) (NeuralNet, error) {
	graph := G.NewGraph()

	net, err := NewMultiHeadMLP(e.numInputs, batchSize, e.numOutputs, graph,
		e.hiddenSizes, e.biases, G.Zeroes(), e.activations)
	if err != nil {
		return nil, fmt.Errorf("clonewithbatch: could not clone: %v", err)
	}

	if err := net.Set(e); err != nil {
		return nil, fmt.Errorf("clonewithbatch: could not copy weights: %v",
			err)
	}
	return net, nil
}

// BatchSize returns the batch size of inputs to the network
func (e *multiHeadMLP) BatchSize() int {
	return e.batchSize
}

// Features returns the number of features in a single observation
// vector that the network takes as input.
func (e *multiHeadMLP) Features() int {
	return e.numInputs
}

// Outputs returns the number of outputs from the network
func (e *multiHeadMLP) Outputs() int {
	return e.numOutputs
}

// SetInput sets the value of the input node before running the forward
// pass.
func (e *multiHeadMLP) SetInput(input []float64) error {
	if len(input) != e.numInputs*e.batchSize {
		return fmt.Errorf("setinput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", e.numInputs*e.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(e.input.Shape()...),
	)
	return G.Let(e.input, inputTensor)
}

// Set sets the weights of a multiHeadMLP to be equal to the
// weights of another network. Weights are copied, so the networks
// share no memory after the call.
func (dest *multiHeadMLP) Set(source NeuralNet) error {
	sourceNodes := source.Learnables()
	nodes := dest.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("set: invalid number of learnables\n\twant(%v)"+
			"\n\thave(%v)", len(nodes), len(sourceNodes))
	}

	for i := range nodes {
		sourceWeights, err := weightsOf(sourceNodes[i])
		if err != nil {
			return fmt.Errorf("set: %v", err)
		}
		if !nodes[i].Shape().Eq(sourceNodes[i].Shape()) {
			return fmt.Errorf("set: incompatible shapes for %v\n\twant(%v)"+
				"\n\thave(%v)", nodes[i].Name(), nodes[i].Shape(),
				sourceNodes[i].Shape())
		}

		weights := make([]float64, len(sourceWeights))
		copy(weights, sourceWeights)

		err = G.Let(nodes[i], tensor.New(
			tensor.WithShape(nodes[i].Shape().Clone()...),
			tensor.WithBacking(weights),
		))
		if err != nil {
			return err
		}
	}
	return nil
}

// Polyak sets the weights of a multiHeadMLP to be a polyak
// average between its existing weights and the weights of another
// network:
//
//	dest <- (1 - tau) * dest + tau * source
func (dest *multiHeadMLP) Polyak(source NeuralNet, tau float64) error {
	if tau < 0 || tau > 1 {
		return fmt.Errorf("polyak: tau must be in [0, 1]\n\thave(%v)", tau)
	}

	sourceNodes := source.Learnables()
	nodes := dest.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("polyak: invalid number of learnables\n\twant(%v)"+
			"\n\thave(%v)", len(nodes), len(sourceNodes))
	}

	for i := range nodes {
		destWeights, err := weightsOf(nodes[i])
		if err != nil {
			return fmt.Errorf("polyak: %v", err)
		}
		sourceWeights, err := weightsOf(sourceNodes[i])
		if err != nil {
			return fmt.Errorf("polyak: %v", err)
		}
		if len(destWeights) != len(sourceWeights) {
			return fmt.Errorf("polyak: incompatible weights for %v",
				nodes[i].Name())
		}

		weights := make([]float64, len(destWeights))
		floats.ScaleTo(weights, 1-tau, destWeights)
		floats.AddScaled(weights, tau, sourceWeights)

		err = G.Let(nodes[i], tensor.New(
			tensor.WithShape(nodes[i].Shape().Clone()...),
			tensor.WithBacking(weights),
		))
		if err != nil {
			return err
		}
	}
	return nil
}

// weightsOf returns the backing data of a learnable node
func weightsOf(node *G.Node) ([]float64, error) {
	if node.Value() == nil {
		return nil, fmt.Errorf("node %v has no value", node.Name())
	}
	weights, ok := node.Value().Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("node %v does not hold float64 weights",
			node.Name())
	}
	return weights, nil
}

// Learnables returns the learnable nodes in a multiHeadMLP
func (e *multiHeadMLP) Learnables() G.Nodes {
	// Lazy instantiation
	if e.learnables == nil {
		learnables := make([]*G.Node, 0, 2*len(e.layers))
		for _, layer := range e.layers {
			learnables = append(learnables, layer.learnables()...)
		}
		e.learnables = G.Nodes(learnables)
	}
	return e.learnables
}

// Model returns the learnables nodes with their gradients.
func (e *multiHeadMLP) Model() []G.ValueGrad {
	// Lazy instantiation
	if e.model == nil {
		e.model = G.NodesToValueGrads(e.Learnables())
	}
	return e.model
}

// fwd performs the forward pass of the multiHeadMLP on the input
// node
func (e *multiHeadMLP) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error
	for i, l := range e.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %v"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	e.prediction = pred
	G.Read(e.prediction, &e.predVal)

	return pred, nil
}

// Output returns the output of the multiHeadMLP from the last run of
// a VM on its graph.
func (e *multiHeadMLP) Output() G.Value {
	return e.predVal
}

// Prediction returns the node of the computational graph the stores
// the output of the multiHeadMLP
func (e *multiHeadMLP) Prediction() *G.Node {
	return e.prediction
}
