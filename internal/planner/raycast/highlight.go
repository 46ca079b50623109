package raycast

import (
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultHighlight is blended into a hovered surface's emissive color.
var DefaultHighlight = colorful.Color{R: 0.2, G: 0.55, B: 1}

const highlightStrength = 0.35

// highlighter owns the single hover side effect: at most one node carries
// the highlight, and its original emissive is restored before any other
// node is touched.
type highlighter struct {
	color colorful.Color
	node  *Node
	saved colorful.Color
}

func (h *highlighter) hover(n *Node) {
	if n == h.node {
		return
	}
	h.restore()
	if n == nil {
		return
	}
	h.node = n
	h.saved = n.Emissive
	n.Emissive = n.Emissive.BlendRgb(h.color, highlightStrength).Clamped()
}

func (h *highlighter) restore() {
	if h.node == nil {
		return
	}
	h.node.Emissive = h.saved
	h.node = nil
}

// Hovered returns the node currently carrying the highlight, if any.
func (h *highlighter) hovered() *Node { return h.node }
