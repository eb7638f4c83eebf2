// Package nn implements the feed-forward classifier used for phishing URL
// detection.
//
// The network is small and fixed in shape: batch-normalized dense layers
// with relu activations and dropout, ending in a single sigmoid output that
// estimates the probability a URL is phishing. Training uses mini-batch
// gradient descent with the Adam optimizer and an exponentially decaying
// learning rate, minimizing binary cross-entropy.
//
// Everything runs on the CPU with float64 arithmetic. The input width is
// tiny (nine lexical features), so a hand-rolled backpropagation loop over
// gonum vector primitives is both simpler and faster than bringing in a
// tensor framework.
//
// Batch normalization layers maintain running input statistics during
// training and apply them frozen at inference, so predictions are
// deterministic once training completes.
package nn
