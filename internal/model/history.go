package model

// History is the per-epoch training trace: loss and accuracy measured on
// the training data itself, one entry per epoch in order.
type History struct {
	Loss     []float64 `json:"loss"`
	Accuracy []float64 `json:"accuracy"`
}

// Epochs returns the number of completed epochs.
func (h *History) Epochs() int {
	return len(h.Loss)
}

// Final returns the loss and accuracy of the last epoch, or zeros when no
// epoch completed.
func (h *History) Final() (loss, accuracy float64) {
	n := h.Epochs()
	if n == 0 {
		return 0, 0
	}
	return h.Loss[n-1], h.Accuracy[n-1]
}
