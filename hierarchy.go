package leafmark

// Android UIAutomator hierarchy parsing and leaf extraction.

import (
	"encoding/xml"
	"fmt"
	"log"
	"regexp"
	"strconv"
)

// UINode is one element of a parsed UI hierarchy document. The tree only
// lives for the duration of one extraction.
type UINode struct {
	XMLName       xml.Name
	Class         string   `xml:"class,attr"`
	Bounds        string   `xml:"bounds,attr"`
	Visible       string   `xml:"visible,attr"`
	VisibleToUser string   `xml:"visible-to-user,attr"`
	Children      []UINode `xml:",any"`
}

// boundsRE matches the fixed UIAutomator bounds format "[l,t][r,b]". No
// internal whitespace is accepted.
var boundsRE = regexp.MustCompile(`^\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]$`)

// ParseHierarchy decodes an Android UI hierarchy document. The root element
// must be <hierarchy>.
func ParseHierarchy(data []byte) (*UINode, error) {
	var root UINode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if root.XMLName.Local != "hierarchy" {
		return nil, fmt.Errorf("%w: unexpected root element %q", ErrParse, root.XMLName.Local)
	}
	return &root, nil
}

// ExtractLeafBoxes parses the hierarchy document in data and returns the
// bounding boxes of its leaf nodes, in document (pre-order) traversal order.
//
// A node qualifies iff it has no child elements and carries a valid,
// non-degenerate bounds attribute. Nodes with children never contribute a
// box of their own, even if they also carry a bounds attribute. A node with
// a malformed bounds attribute is logged and skipped without aborting the
// traversal. A document with zero qualifying leaves yields an empty slice.
//
// With skipInvisible set, nodes explicitly marked as not visible are
// excluded along with their subtrees.
func ExtractLeafBoxes(data []byte, skipInvisible bool) ([]LeafBox, error) {
	root, err := ParseHierarchy(data)
	if err != nil {
		return nil, err
	}

	boxes := make([]LeafBox, 0, 32)
	collectLeafBoxes(root, skipInvisible, &boxes)
	return boxes, nil
}

// collectLeafBoxes appends the boxes of all qualifying leaves under node.
func collectLeafBoxes(node *UINode, skipInvisible bool, boxes *[]LeafBox) {
	if skipInvisible && node.invisible() {
		return
	}

	if len(node.Children) > 0 {
		for i := range node.Children {
			collectLeafBoxes(&node.Children[i], skipInvisible, boxes)
		}
		return
	}

	// A leaf without a bounds attribute contributes nothing.
	if node.Bounds == "" {
		return
	}
	coords, err := parseBounds(node.Bounds)
	if err != nil {
		log.Printf("Skipping node %s: %v", node.name(), err)
		return
	}

	*boxes = append(*boxes, LeafBox{
		Coords: [4]float64{
			float64(coords[0]), float64(coords[1]),
			float64(coords[2]), float64(coords[3]),
		},
		Class: node.name(),
	})
}

// parseBounds converts a bounds attribute value into pixel coordinates.
//
// The accepted wire format is exactly "[l,t][r,b]". Coordinates must be
// non-negative, with l < r and t < b; inverted or zero-area rectangles are
// malformed.
func parseBounds(s string) (coords [4]int, err error) {
	m := boundsRE.FindStringSubmatch(s)
	if m == nil {
		return coords, fmt.Errorf("%w: %q", ErrSchema, s)
	}
	for i := 0; i < 4; i++ {
		coords[i], err = strconv.Atoi(m[i+1])
		if err != nil {
			return coords, fmt.Errorf("%w: %q: %v", ErrSchema, s, err)
		}
	}

	if coords[0] < 0 || coords[1] < 0 || coords[2] < 0 || coords[3] < 0 {
		return coords, fmt.Errorf("%w: negative coordinates in %q", ErrSchema, s)
	}
	if coords[0] >= coords[2] || coords[1] >= coords[3] {
		return coords, fmt.Errorf("%w: empty or inverted rectangle %q", ErrSchema, s)
	}

	return coords, nil
}

// invisible reports whether the node is explicitly marked as not visible.
// UIAutomator dumps use visible-to-user; some accessibility dumps use
// visible.
func (n *UINode) invisible() bool {
	return n.Visible == "false" || n.VisibleToUser == "false"
}

// name returns the class attribute, falling back to the element name.
func (n *UINode) name() string {
	if n.Class != "" {
		return n.Class
	}
	return n.XMLName.Local
}
